package transport

import (
	"fmt"
	"sync"

	"github.com/minaorangina/davinci/protocol"
)

// FakeConn replays scripted answers and records what it was sent.
// Once the script runs out, Receive fails like a dropped connection.
type FakeConn struct {
	mu       sync.Mutex
	addr     string
	answers  []string
	sent     []protocol.OutboundMessage
	sendErr  error
	closed   bool
	received int
}

func NewFakeConn(addr string, answers ...string) *FakeConn {
	return &FakeConn{addr: addr, answers: answers}
}

// FailSends makes every following Send return err
func (c *FakeConn) FailSends(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sendErr = err
}

func (c *FakeConn) Send(msg protocol.OutboundMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return fmt.Errorf("%w: %s is closed", ErrTransport, c.addr)
	}
	if c.sendErr != nil {
		return fmt.Errorf("%w: %v", ErrTransport, c.sendErr)
	}

	c.sent = append(c.sent, msg)
	return nil
}

func (c *FakeConn) Receive() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.received >= len(c.answers) {
		return "", fmt.Errorf("%w: %s hung up", ErrTransport, c.addr)
	}

	answer := c.answers[c.received]
	c.received++

	return answer, nil
}

func (c *FakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *FakeConn) RemoteAddr() string {
	return c.addr
}

// Sent returns a copy of every message sent so far
func (c *FakeConn) Sent() []protocol.OutboundMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]protocol.OutboundMessage{}, c.sent...)
}

// SentCommands lists the commands of every message sent so far
func (c *FakeConn) SentCommands() []protocol.Cmd {
	cmds := []protocol.Cmd{}
	for _, m := range c.Sent() {
		cmds = append(cmds, m.Command)
	}
	return cmds
}

// Unanswered counts the scripted answers never consumed
func (c *FakeConn) Unanswered() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.answers) - c.received
}

func (c *FakeConn) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
