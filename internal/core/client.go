package core

// Client is a connected participant as seen by the core layer. ID is the
// transport-assigned connection identifier; Name mirrors the registry
// nickname and is written only by the hub's run loop.
type Client struct {
	ID       string
	Name     string
	Commands chan *Command
	Events   chan *Event

	// done is closed by the hub on deregistration; it stops the command pump
	// for this connection.
	done chan struct{}
}

// NewClient constructs a client with channels buffered to the given size.
func NewClient(id string, buffer int) *Client {
	if buffer <= 0 {
		buffer = 8
	}
	return &Client{
		ID:       id,
		Commands: make(chan *Command, buffer),
		Events:   make(chan *Event, buffer),
		done:     make(chan struct{}),
	}
}
