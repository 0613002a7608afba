package engine

import (
	"fmt"

	"github.com/minaorangina/davinci/game"
	"github.com/minaorangina/davinci/protocol"
	"github.com/minaorangina/davinci/transport"
	uuid "github.com/satori/go.uuid"
)

// NewID constructs a seat or table ID
func NewID() string {
	return uuid.NewV4().String()
}

// Seat binds a display name to its connection
type Seat struct {
	ID        string
	Name      string
	Conn      transport.Conn
	connected bool
}

// Registry holds the seats of one table in a fixed order.
// Seats are never removed, only marked as disconnected.
type Registry struct {
	seats []*Seat
}

func NewRegistry() *Registry {
	return &Registry{seats: []*Seat{}}
}

// Add seats a participant after the one added before it
func (r *Registry) Add(name string, conn transport.Conn) (*Seat, error) {
	if _, ok := r.Lookup(name); ok {
		return nil, fmt.Errorf("%w: %q", game.ErrDuplicateName, name)
	}

	s := &Seat{ID: NewID(), Name: name, Conn: conn, connected: true}
	r.seats = append(r.seats, s)

	return s, nil
}

func (r *Registry) Lookup(name string) (*Seat, bool) {
	for _, s := range r.seats {
		if s.Name == name {
			return s, true
		}
	}
	return nil, false
}

// Names lists every seat in rotation order
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.seats))
	for _, s := range r.seats {
		names = append(names, s.Name)
	}
	return names
}

func (r *Registry) Connected(name string) bool {
	s, ok := r.Lookup(name)
	return ok && s.connected
}

// Drop closes a seat's connection; it is skipped from then on
func (r *Registry) Drop(name string) {
	s, ok := r.Lookup(name)
	if !ok || !s.connected {
		return
	}
	s.connected = false
	s.Conn.Close()
}

// Next returns the first connected seat after current for which active holds
func (r *Registry) Next(current string, active func(name string) bool) (string, bool) {
	start := 0
	for i, s := range r.seats {
		if s.Name == current {
			start = i + 1
			break
		}
	}

	for n := 0; n < len(r.seats); n++ {
		s := r.seats[(start+n)%len(r.seats)]
		if s.Name == current || !s.connected || !active(s.Name) {
			continue
		}
		return s.Name, true
	}

	return "", false
}

// Send delivers a message to one connected seat
func (r *Registry) Send(name string, msg protocol.OutboundMessage) error {
	s, ok := r.Lookup(name)
	if !ok || !s.connected {
		return fmt.Errorf("%w: %q is not connected", transport.ErrTransport, name)
	}
	return s.Conn.Send(msg)
}

// Broadcast sends msg to every connected seat except the named ones.
// It returns the names it failed to reach.
func (r *Registry) Broadcast(msg protocol.OutboundMessage, except ...string) []string {
	failed := []string{}

outer:
	for _, s := range r.seats {
		if !s.connected {
			continue
		}
		for _, name := range except {
			if s.Name == name {
				continue outer
			}
		}
		if err := s.Conn.Send(msg); err != nil {
			failed = append(failed, s.Name)
		}
	}

	return failed
}

// CloseAll closes every connection that is still open
func (r *Registry) CloseAll() {
	for _, s := range r.seats {
		r.Drop(s.Name)
	}
}

// Interrupt closes every connection without touching seat state, so that
// blocked receives return. It may be called from any goroutine.
func (r *Registry) Interrupt() {
	for _, s := range r.seats {
		s.Conn.Close()
	}
}
