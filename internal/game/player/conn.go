// Package player provides connected-player tracking and room presence
// management for the game backend.
package player

import (
	"fmt"
	"sync"
)

// Conn is the replaceable handle to a player's active connection. It routes
// push calls to a Go channel the transport layer drains. A combat session
// holds a Conn reference that is swapped out by the explicit hand-off
// operation on reconnect; nothing else aliases it.
type Conn struct {
	uid    string
	events chan []byte
	mu     sync.Mutex
	closed bool
}

// NewConn creates a Conn for the given player UID.
//
// Precondition: uid must be non-empty.
// Postcondition: Returns a Conn with an open events channel.
func NewConn(uid string, bufferSize int) *Conn {
	if bufferSize <= 0 {
		bufferSize = 64
	}
	return &Conn{
		uid:    uid,
		events: make(chan []byte, bufferSize),
	}
}

// UID returns the player's unique identifier.
func (c *Conn) UID() string {
	return c.uid
}

// Push sends data to the events channel.
//
// Postcondition: Data is enqueued, or an error if the connection is closed
// or the buffer is full.
func (c *Conn) Push(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return fmt.Errorf("connection %s is closed", c.uid)
	}
	select {
	case c.events <- data:
		return nil
	default:
		return fmt.Errorf("connection %s event buffer full", c.uid)
	}
}

// Events returns the read-only events channel. The transport goroutine reads
// from this channel to deliver output to the player.
func (c *Conn) Events() <-chan []byte {
	return c.events
}

// Close marks the connection as closed and closes the events channel.
//
// Postcondition: Further Push calls return an error.
func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.events)
	}
	return nil
}

// IsClosed reports whether the connection has been closed.
func (c *Conn) IsClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
