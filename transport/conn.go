package transport

import (
	"bufio"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/minaorangina/davinci/protocol"
)

var ErrTransport = errors.New("transport failure")

// Conn is an exclusive connection to one participant
type Conn interface {
	Send(msg protocol.OutboundMessage) error
	// Receive blocks for the participant's next answer
	Receive() (string, error)
	Close() error
	RemoteAddr() string
}

// Time allowed to write a message to the peer.
const writeWait = 10 * time.Second

type Option func(*TCPConn)

// WithReadTimeout bounds every Receive. Zero waits forever.
func WithReadTimeout(d time.Duration) Option {
	return func(c *TCPConn) {
		c.readTimeout = d
	}
}

// TCPConn frames messages over a stream connection with a codec
type TCPConn struct {
	conn        net.Conn
	r           *bufio.Reader
	codec       protocol.Codec
	readTimeout time.Duration
}

func NewTCPConn(conn net.Conn, codec protocol.Codec, opts ...Option) *TCPConn {
	c := &TCPConn{
		conn:  conn,
		r:     bufio.NewReader(conn),
		codec: codec,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *TCPConn) Send(msg protocol.OutboundMessage) error {
	data, err := c.codec.EncodeOutbound(msg)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", msg.Command, err)
	}

	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if _, err := c.conn.Write(data); err != nil {
		return fmt.Errorf("%w: writing to %s: %v", ErrTransport, c.RemoteAddr(), err)
	}

	return nil
}

func (c *TCPConn) Receive() (string, error) {
	if c.readTimeout > 0 {
		c.conn.SetReadDeadline(time.Now().Add(c.readTimeout))
	} else {
		c.conn.SetReadDeadline(time.Time{})
	}

	frame, err := c.codec.ReadFrame(c.r)
	if err != nil {
		return "", fmt.Errorf("%w: reading from %s: %v", ErrTransport, c.RemoteAddr(), err)
	}

	msg, err := c.codec.DecodeInbound(frame)
	if err != nil {
		return "", fmt.Errorf("%w: %v", protocol.ErrProtocolViolation, err)
	}

	return msg.Text, nil
}

func (c *TCPConn) Close() error {
	return c.conn.Close()
}

func (c *TCPConn) RemoteAddr() string {
	if addr := c.conn.RemoteAddr(); addr != nil {
		return addr.String()
	}
	return ""
}
