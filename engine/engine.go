package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/minaorangina/davinci/game"
	"github.com/minaorangina/davinci/protocol"
	"github.com/minaorangina/davinci/transport"
	"github.com/sirupsen/logrus"
)

// DefaultCardMaxValue is the highest value a guess may name
const DefaultCardMaxValue = 11

var (
	ErrNoPlayers      = errors.New("no connected players")
	ErrUnknownOpening = errors.New("opening player is not seated")
)

// Engine drives one table: it owns the game and the seats for the whole match
// and runs every turn on the calling goroutine.
type Engine struct {
	id           string
	game         *game.Game
	seats        *Registry
	log          logrus.FieldLogger
	cardMaxValue int
	notified     int
	turns        int
}

type EngineOpts struct {
	ID           string
	Game         *game.Game
	Seats        *Registry
	Logger       logrus.FieldLogger
	CardMaxValue int
}

// Result describes how a table ended
type Result struct {
	Winner     string
	Eliminated []string
	Turns      int
}

func New(opts EngineOpts) *Engine {
	if opts.ID == "" {
		opts.ID = NewID()
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	if opts.CardMaxValue <= 0 {
		opts.CardMaxValue = DefaultCardMaxValue
	}

	return &Engine{
		id:           opts.ID,
		game:         opts.Game,
		seats:        opts.Seats,
		log:          opts.Logger.WithField("game", opts.ID),
		cardMaxValue: opts.CardMaxValue,
	}
}

// Deal registers every seat with the game and deals the cards.
// A duplicate name stops the table before anything is dealt.
func Deal(g *game.Game, seats *Registry, capacity int) error {
	for _, name := range seats.Names() {
		if err := g.RegisterPlayer(name, capacity); err != nil {
			return err
		}
	}
	return g.InitSet()
}

func (e *Engine) ID() string {
	return e.id
}

// Run plays the game from the opening player's turn until it ends.
// Cancelling ctx closes every connection.
func (e *Engine) Run(ctx context.Context, opening string) (Result, error) {
	if e.game.State() != game.Running {
		return Result{}, game.ErrGameNotRunning
	}
	if !e.seats.Connected(opening) || !e.game.IsActive(opening) {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownOpening, opening)
	}

	stop := context.AfterFunc(ctx, e.seats.Interrupt)
	defer stop()

	e.log.WithField("player", opening).Info("game started")
	e.announceStart(opening)

	current := opening
	for {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		if e.evaluate() {
			break
		}

		if err := e.playTurn(ctx, current); err != nil {
			if ctx.Err() != nil {
				return Result{}, ctx.Err()
			}
			if !errors.Is(err, transport.ErrTransport) {
				e.log.WithError(err).Error("aborting game")
				return Result{}, err
			}

			e.log.WithError(err).WithField("player", current).Warn("player disconnected during their turn")
			e.disconnect(current)
		}
		e.turns++

		if e.evaluate() {
			break
		}

		next, ok := e.seats.Next(current, e.game.IsActive)
		if !ok {
			return e.result(), ErrNoPlayers
		}
		current = next
		e.broadcast(protocol.NewWait(current), current)
	}

	e.announceEnd()

	return e.result(), nil
}

func (e *Engine) announceStart(opening string) {
	for _, p := range e.game.Players() {
		e.tell(p.Name, protocol.NewHandSnapshot(p.Render(false)))
	}

	e.tell(opening, protocol.NewTurn())
	e.broadcast(protocol.NewWait(opening), opening)
}

// evaluate applies eliminations, tells the newly eliminated
// and reports whether the game is over
func (e *Engine) evaluate() bool {
	ended := e.game.EvaluateStatus()

	eliminated := e.game.Eliminated()
	for _, p := range eliminated[e.notified:] {
		e.log.WithField("player", p.Name).Info("player eliminated")
		if e.seats.Connected(p.Name) && !ended {
			e.tell(p.Name, protocol.NewLost(false))
		}
	}
	e.notified = len(eliminated)

	return ended
}

func (e *Engine) announceEnd() {
	winner, ok := e.game.Winner()
	if !ok {
		e.log.Info("game over without a winner")
		e.broadcast(protocol.NewPlainText("Nobody won."))
		e.broadcast(protocol.NewLost(true))
		return
	}

	e.log.WithField("player", winner.Name).Info("game won")
	e.broadcast(protocol.NewWinnerAnnouncement(winner.Name))
	e.tell(winner.Name, protocol.NewWon())
	e.broadcast(protocol.NewLost(true), winner.Name)
}

func (e *Engine) result() Result {
	r := Result{Eliminated: []string{}, Turns: e.turns}
	if w, ok := e.game.Winner(); ok {
		r.Winner = w.Name
	}
	for _, p := range e.game.Eliminated() {
		r.Eliminated = append(r.Eliminated, p.Name)
	}
	return r
}

// tell sends to one seat. A failed send drops the seat.
func (e *Engine) tell(name string, msg protocol.OutboundMessage) error {
	if err := e.seats.Send(name, msg); err != nil {
		e.log.WithError(err).WithField("player", name).Warn("could not reach player")
		e.disconnect(name)
		return err
	}
	return nil
}

func (e *Engine) broadcast(msg protocol.OutboundMessage, except ...string) {
	for _, name := range e.seats.Broadcast(msg, except...) {
		e.log.WithField("player", name).Warn("could not reach player")
		e.disconnect(name)
	}
}

// disconnect drops a seat and forfeits its player
func (e *Engine) disconnect(name string) {
	if !e.seats.Connected(name) {
		return
	}
	e.seats.Drop(name)

	if e.game.IsActive(name) {
		if err := e.game.Forfeit(name); err != nil {
			e.log.WithError(err).WithField("player", name).Error("forfeit failed")
		}
		e.broadcast(protocol.NewPlainText("%s %s", name, protocol.MsgOpponentLeft))
	}
}
