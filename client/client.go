package client

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"

	"github.com/minaorangina/davinci/protocol"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

var (
	ErrHandshake    = errors.New("handshake failed")
	ErrDisconnected = errors.New("disconnected from server")
	ErrNoInput      = errors.New("no more input")
)

// Display shows what the server sends
type Display interface {
	Show(msg protocol.OutboundMessage)
}

// TextDisplay writes every message as a line of the text format
type TextDisplay struct {
	W io.Writer
}

func (d TextDisplay) Show(msg protocol.OutboundMessage) {
	fmt.Fprintln(d.W, protocol.FormatText(msg))
}

// Outcome is how the game ended for this participant
type Outcome struct {
	Won    bool
	Winner string
}

type Opts struct {
	Name    string
	Codec   protocol.Codec
	Display Display
	Input   io.Reader
	Logger  logrus.FieldLogger
}

// Client plays one game for a participant. The read half of the connection
// belongs to one goroutine and the write half to another; they share
// nothing but the turn signal.
type Client struct {
	name    string
	codec   protocol.Codec
	display Display
	input   io.Reader
	log     logrus.FieldLogger
}

func New(opts Opts) *Client {
	if opts.Codec == nil {
		opts.Codec = protocol.TextCodec{}
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}

	return &Client{
		name:    strings.TrimSpace(opts.Name),
		codec:   opts.Codec,
		display: opts.Display,
		input:   opts.Input,
		log:     opts.Logger.WithField("player", strings.TrimSpace(opts.Name)),
	}
}

// Dial connects to the server at addr and plays until the game ends
func (c *Client) Dial(ctx context.Context, addr string) (Outcome, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return Outcome{}, err
	}
	defer conn.Close()

	return c.Play(ctx, conn)
}

// Play runs the handshake on conn and then the game
func (c *Client) Play(ctx context.Context, conn net.Conn) (Outcome, error) {
	parent := ctx
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stop := context.AfterFunc(ctx, func() {
		conn.Close()
	})
	defer stop()

	r := bufio.NewReader(conn)
	if err := c.handshake(conn, r); err != nil {
		if parent.Err() != nil {
			return Outcome{}, parent.Err()
		}
		return Outcome{}, err
	}
	c.log.Debug("joined")

	turnReady := make(chan struct{}, 1)
	outbound := c.readInput(ctx)

	var outcome Outcome
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer cancel()

		var err error
		outcome, err = c.readLoop(r, turnReady)
		return err
	})
	g.Go(func() error {
		defer cancel()
		return c.writeLoop(gctx, conn, turnReady, outbound)
	})

	err := g.Wait()
	if parent.Err() != nil {
		return Outcome{}, parent.Err()
	}

	return outcome, err
}

func (c *Client) handshake(conn net.Conn, r *bufio.Reader) error {
	if err := c.send(conn, protocol.InitToken); err != nil {
		return fmt.Errorf("%w: %v", ErrHandshake, err)
	}

	for acked := false; !acked; {
		frame, err := c.codec.ReadFrame(r)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrHandshake, err)
		}

		msgs, err := c.codec.DecodeOutbound(frame)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrHandshake, err)
		}

		for _, msg := range msgs {
			if msg.Command == protocol.Ack {
				acked = true
				continue
			}
			c.display.Show(msg)
		}
	}

	if err := c.send(conn, c.name); err != nil {
		return fmt.Errorf("%w: %v", ErrHandshake, err)
	}

	return nil
}

// readLoop shows every message and wakes the writer on prompts
func (c *Client) readLoop(r *bufio.Reader, turnReady chan<- struct{}) (Outcome, error) {
	outcome := Outcome{}

	for {
		frame, err := c.codec.ReadFrame(r)
		if err != nil {
			return outcome, fmt.Errorf("%w: %v", ErrDisconnected, err)
		}

		msgs, err := c.codec.DecodeOutbound(frame)
		if err != nil {
			c.log.WithError(err).Warn("skipping message")
			continue
		}

		for _, msg := range msgs {
			c.display.Show(msg)

			switch msg.Command {
			case protocol.Prompt:
				notify(turnReady)
			case protocol.WinnerAnnouncement:
				outcome.Winner = msg.Player
			case protocol.Won:
				outcome.Won = true
			}

			if msg.Ends() {
				outcome.Won = outcome.Won || outcome.Winner == c.name
				return outcome, nil
			}
		}
	}
}

// notify wakes the writer; wakes that are not consumed yet collapse into one
func notify(turnReady chan<- struct{}) {
	select {
	case turnReady <- struct{}{}:
	default:
	}
}

// writeLoop sends one line of input each time the server asks for it
func (c *Client) writeLoop(ctx context.Context, conn net.Conn, turnReady <-chan struct{}, outbound <-chan string) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-turnReady:
		}

		var line string
		select {
		case <-ctx.Done():
			return nil
		case l, ok := <-outbound:
			if !ok {
				return ErrNoInput
			}
			line = l
		}

		if err := c.send(conn, line); err != nil {
			return fmt.Errorf("%w: %v", ErrDisconnected, err)
		}
	}
}

func (c *Client) send(conn net.Conn, text string) error {
	frame, err := c.codec.EncodeInbound(protocol.InboundMessage{Command: protocol.Answer, Text: strings.TrimSpace(text)})
	if err != nil {
		return err
	}
	_, err = conn.Write(frame)
	return err
}

// readInput feeds lines of local input to the writer
func (c *Client) readInput(ctx context.Context) <-chan string {
	lines := make(chan string)

	go func() {
		defer close(lines)

		scanner := bufio.NewScanner(c.input)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	return lines
}
