package core

const defaultClientBuffer = 32

// Identity is the authenticated user behind a connection.
type Identity struct {
	UserID      string
	DisplayName string
}

// Client is a chat participant as seen by the core layer.
// One Client exists per live connection.
type Client struct {
	ID          string
	UserID      string
	DisplayName string
	Commands    chan *Command
	Events      chan *Event

	done chan struct{}
}

// NewClient constructs a client with initialized channels.
// A non-positive buffer falls back to the default size.
func NewClient(id string, identity Identity, buffer int) *Client {
	if buffer <= 0 {
		buffer = defaultClientBuffer
	}
	name := identity.DisplayName
	if name == "" {
		name = identity.UserID
	}
	return &Client{
		ID:          id,
		UserID:      identity.UserID,
		DisplayName: name,
		Commands:    make(chan *Command, buffer),
		Events:      make(chan *Event, buffer),
		done:        make(chan struct{}),
	}
}

// Send delivers an event without blocking. It reports false when the
// client's buffer is full and the event was dropped.
func (c *Client) Send(event *Event) bool {
	select {
	case c.Events <- event:
		return true
	default:
		return false
	}
}

// Done is closed once the hub has unregistered the client.
func (c *Client) Done() <-chan struct{} {
	return c.done
}
