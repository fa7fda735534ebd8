package core

// Client is a connected session as seen by the core layer. The transport
// feeds Commands and drains Events; the hub owns everything in between.
type Client struct {
	ID       string
	Commands chan *Command
	Events   chan *Event

	done chan struct{}
}

// NewClient constructs a client with initialized channels.
func NewClient(id string) *Client {
	return &Client{
		ID:       id,
		Commands: make(chan *Command, 8),
		Events:   make(chan *Event, 32),
		done:     make(chan struct{}),
	}
}

// Send queues an event for the client without blocking.
// Events are dropped if the client is a slow consumer.
func (c *Client) Send(event *Event) {
	select {
	case c.Events <- event:
	default:
	}
}
