package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/relaychat-server/internal/core"
)

// APIHandlers serves read-only snapshots of the chat state. Snapshots are
// taken inside the hub's run loop, so they are consistent with respect to
// in-flight commands.
type APIHandlers struct {
	hub *core.Hub
	log *zerolog.Logger
}

// NewAPIHandlers creates a new API handlers instance.
func NewAPIHandlers(hub *core.Hub, logger *zerolog.Logger) *APIHandlers {
	return &APIHandlers{
		hub: hub,
		log: logger,
	}
}

// UsersResponse lists registered nicknames.
type UsersResponse struct {
	Users []string `json:"users"`
}

// ChannelsResponse lists channel names.
type ChannelsResponse struct {
	Channels []string `json:"channels"`
}

// MembersResponse lists one channel's members and its owner.
type MembersResponse struct {
	Channel string   `json:"channel"`
	Owner   string   `json:"owner"`
	Members []string `json:"members"`
}

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Users handles GET /api/users.
func (h *APIHandlers) Users(c *gin.Context) {
	users, err := h.hub.Users(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("snapshot users")
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "state unavailable"})
		return
	}
	c.JSON(http.StatusOK, UsersResponse{Users: users})
}

// Channels handles GET /api/channels.
func (h *APIHandlers) Channels(c *gin.Context) {
	channels, err := h.hub.Channels(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("snapshot channels")
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "state unavailable"})
		return
	}
	c.JSON(http.StatusOK, ChannelsResponse{Channels: channels})
}

// Members handles GET /api/channels/:name/members.
func (h *APIHandlers) Members(c *gin.Context) {
	name := c.Param("name")
	members, owner, err := h.hub.Members(c.Request.Context(), name)
	if errors.Is(err, core.ErrNoSuchChannel) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "no such channel"})
		return
	}
	if err != nil {
		h.log.Error().Err(err).Str("channel", name).Msg("snapshot members")
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "state unavailable"})
		return
	}
	c.JSON(http.StatusOK, MembersResponse{Channel: name, Owner: owner, Members: members})
}
