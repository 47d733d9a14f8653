package core

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
)

type inbound struct {
	client *Client
	cmd    *Command
}

// Hub is the single writer of the registry. Registration, deregistration,
// command application and snapshot queries all funnel through its run loop,
// so each command is atomic with respect to every other command and to
// connect/disconnect events.
type Hub struct {
	registry   *Registry
	log        *zerolog.Logger
	register   chan *Client
	unregister chan *Client
	commands   chan inbound
	queries    chan func(*Registry)
	clients    map[string]*Client // connection id -> client
}

// NewHub creates a hub with an empty registry. A nil logger disables logging.
func NewHub(logger *zerolog.Logger) *Hub {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Hub{
		registry:   NewRegistry(),
		log:        logger,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		commands:   make(chan inbound),
		queries:    make(chan func(*Registry)),
		clients:    make(map[string]*Client),
	}
}

// RegisterClient hands a new connection to the hub. The client receives a
// NoteConnected event carrying its assigned nickname.
func (h *Hub) RegisterClient(c *Client) { h.register <- c }

// UnregisterClient removes a connection from the hub. Unregistering a client
// the hub does not know is a no-op.
func (h *Hub) UnregisterClient(c *Client) { h.unregister <- c }

// Run owns the registry until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case c := <-h.register:
			h.handleRegister(ctx, c)
		case c := <-h.unregister:
			h.handleUnregister(c)
		case in := <-h.commands:
			h.handleCommand(in.client, in.cmd)
		case q := <-h.queries:
			q(h.registry)
		case <-ctx.Done():
			return
		}
	}
}

func (h *Hub) handleRegister(ctx context.Context, c *Client) {
	note := Connect(h.registry, c.ID)
	c.Name = note.User
	h.clients[c.ID] = c
	go h.pump(ctx, c)
	h.deliver(note)
	h.log.Info().Str("conn_id", c.ID).Str("nickname", c.Name).Msg("client registered")
}

func (h *Hub) handleUnregister(c *Client) {
	if _, known := h.clients[c.ID]; !known {
		return
	}
	delete(h.clients, c.ID)
	close(c.done)
	note, err := Disconnect(h.registry, c.ID)
	if err != nil {
		h.log.Warn().Err(err).Str("conn_id", c.ID).Msg("deregister failed")
		return
	}
	h.deliver(note)
	h.log.Info().Str("conn_id", c.ID).Str("nickname", note.User).Msg("client deregistered")
}

func (h *Hub) handleCommand(c *Client, cmd *Command) {
	nick, ok := h.registry.NicknameOf(c.ID)
	if !ok {
		// The connection raced its own deregistration; the parse-time sender
		// is client-controlled and must never reach Apply.
		h.log.Debug().Str("conn_id", c.ID).Msg("drop command from deregistered connection")
		return
	}
	cmd.SenderID = c.ID
	cmd.Sender = nick
	note, err := Apply(h.registry, cmd)
	if err != nil {
		var cmdErr *CommandError
		if errors.As(err, &cmdErr) {
			h.send(c, &Event{Kind: NoteError, Err: cmdErr})
			return
		}
		h.log.Error().Err(err).Str("conn_id", c.ID).Msg("apply command")
		return
	}
	if cmd.Kind == KindNickname {
		c.Name = cmd.Target
	}
	h.deliver(note)
}

// pump forwards one client's commands into the hub loop until the client is
// deregistered or the hub stops.
func (h *Hub) pump(ctx context.Context, c *Client) {
	for {
		select {
		case cmd, ok := <-c.Commands:
			if !ok {
				return
			}
			select {
			case h.commands <- inbound{client: c, cmd: cmd}:
			case <-c.done:
				return
			case <-ctx.Done():
				return
			}
		case <-c.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

// deliver fans a notification out to each recipient's event channel.
func (h *Hub) deliver(note *Notification) {
	ev := &Event{
		Kind:    note.Kind,
		Command: note.Command,
		User:    note.User,
		Channel: note.Channel,
		Members: note.Members,
		Owner:   note.Owner,
	}
	for _, nick := range note.Recipients {
		id, ok := h.registry.IDOf(nick)
		if !ok {
			continue
		}
		c, ok := h.clients[id]
		if !ok {
			continue
		}
		h.send(c, ev)
	}
}

func (h *Hub) send(c *Client, ev *Event) {
	select {
	case c.Events <- ev:
	default:
		// Drop if slow consumer.
	}
}

// Users returns a snapshot of registered nicknames. The snapshot is taken
// inside the run loop and never observes a partially applied command.
func (h *Hub) Users(ctx context.Context) ([]string, error) {
	var users []string
	err := h.snapshot(ctx, func(r *Registry) {
		users = r.Users()
	})
	return users, err
}

// Channels returns a snapshot of channel names.
func (h *Hub) Channels(ctx context.Context) ([]string, error) {
	var channels []string
	err := h.snapshot(ctx, func(r *Registry) {
		channels = r.Channels()
	})
	return channels, err
}

// Members returns a snapshot of the named channel's members and its owner.
// Returns ErrNoSuchChannel if the channel does not exist.
func (h *Hub) Members(ctx context.Context, channel string) ([]string, string, error) {
	var (
		members []string
		owner   string
		found   bool
	)
	err := h.snapshot(ctx, func(r *Registry) {
		ch, ok := r.Channel(channel)
		if !ok {
			return
		}
		found = true
		members = ch.Members()
		owner = ch.Owner()
	})
	if err != nil {
		return nil, "", err
	}
	if !found {
		return nil, "", ErrNoSuchChannel
	}
	return members, owner, nil
}

func (h *Hub) snapshot(ctx context.Context, fn func(*Registry)) error {
	done := make(chan struct{})
	wrapped := func(r *Registry) {
		fn(r)
		close(done)
	}
	select {
	case h.queries <- wrapped:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
