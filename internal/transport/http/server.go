package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/relaychat-server/internal/config"
	"github.com/vovakirdan/relaychat-server/internal/core"
)

// NewServer builds the HTTP server: health check, read-only snapshot API and
// the websocket endpoint.
func NewServer(hub *core.Hub, cfg config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	api := NewAPIHandlers(hub, logger)
	router.GET("/health", healthHandler)
	router.GET("/api/users", api.Users)
	router.GET("/api/channels", api.Channels)
	router.GET("/api/channels/:name/members", api.Members)
	router.GET("/ws", gin.WrapH(NewWSHandler(hub, cfg.EventBuffer, logger)))

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}
