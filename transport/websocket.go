package transport

import (
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/minaorangina/davinci/protocol"
)

const (
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = protocol.ReadBufferSize

	sendBuffer = 16
)

// WSConn carries one participant over a websocket.
// Writes go through a single pump goroutine which also keeps the peer alive with pings.
type WSConn struct {
	conn  *websocket.Conn
	codec protocol.Codec
	send  chan []byte

	// sealed is set under mu once nothing more may be queued
	mu     sync.Mutex
	sealed bool

	done      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once
}

func NewWSConn(conn *websocket.Conn, codec protocol.Codec) *WSConn {
	c := &WSConn{
		conn:    conn,
		codec:   codec,
		send:    make(chan []byte, sendBuffer),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}

	conn.SetReadLimit(maxMessageSize)
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	go c.writePump()

	return c
}

func (c *WSConn) Send(msg protocol.OutboundMessage) error {
	data, err := c.codec.EncodeOutbound(msg)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", msg.Command, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sealed {
		return fmt.Errorf("%w: %s is closed", ErrTransport, c.RemoteAddr())
	}
	select {
	case <-c.done:
		return fmt.Errorf("%w: %s is closed", ErrTransport, c.RemoteAddr())
	default:
	}

	// a message queued here is written by the flush that follows seal
	select {
	case c.send <- data:
		return nil
	case <-c.done:
		return fmt.Errorf("%w: %s is closed", ErrTransport, c.RemoteAddr())
	}
}

func (c *WSConn) Receive() (string, error) {
	c.conn.SetReadDeadline(time.Now().Add(pongWait))

	_, data, err := c.conn.ReadMessage()
	if err != nil {
		c.shutdown()
		return "", fmt.Errorf("%w: reading from %s: %v", ErrTransport, c.RemoteAddr(), err)
	}

	msg, err := c.codec.DecodeInbound(data)
	if err != nil {
		return "", fmt.Errorf("%w: %v", protocol.ErrProtocolViolation, err)
	}

	return msg.Text, nil
}

// Close flushes queued messages and closes the websocket
func (c *WSConn) Close() error {
	c.shutdown()
	<-c.stopped
	return nil
}

func (c *WSConn) RemoteAddr() string {
	return c.conn.RemoteAddr().String()
}

func (c *WSConn) shutdown() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}

// seal stops Send from queueing. Send never holds mu for long once done is closed.
func (c *WSConn) seal() {
	c.mu.Lock()
	c.sealed = true
	c.mu.Unlock()
}

func (c *WSConn) writePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		c.seal()
		ticker.Stop()
		c.conn.Close()
		close(c.stopped)
	}()

	for {
		select {
		case data := <-c.send:
			if err := c.write(websocket.TextMessage, data); err != nil {
				c.shutdown()
				return
			}

		case <-ticker.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				c.shutdown()
				return
			}

		case <-c.done:
			c.seal()
			c.flush()
			c.write(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

func (c *WSConn) flush() {
	for {
		select {
		case data := <-c.send:
			if err := c.write(websocket.TextMessage, data); err != nil {
				return
			}
		default:
			return
		}
	}
}

func (c *WSConn) write(messageType int, data []byte) error {
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(messageType, data)
}
