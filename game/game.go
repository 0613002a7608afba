package game

import (
	"errors"
	"fmt"

	"github.com/minaorangina/davinci/deck"
)

var (
	ErrDuplicateName  = errors.New("players should have different user names")
	ErrZeroCapacity   = errors.New("players must be dealt at least one card")
	ErrNotEnoughCards = errors.New("not enough cards to deal every player")
	ErrGameStarted    = errors.New("game has already started")
	ErrGameNotRunning = errors.New("game is not running")
	ErrUnknownPlayer  = errors.New("unknown player")
)

// Game owns the players and the pool of undealt cards
type Game struct {
	state      State
	setSize    int
	players    []*Player
	eliminated []*Player
	winner     *Player
	pool       deck.Deck
}

// GameOpts describes a game in a known state
type GameOpts struct {
	SetSize    int
	State      State
	Players    []*Player
	Eliminated []*Player
	Pool       deck.Deck
}

// New constructs an empty game for a set of setSize cards
func New(setSize int) *Game {
	return &Game{
		state:      Init,
		setSize:    setSize,
		players:    []*Player{},
		eliminated: []*Player{},
		pool:       deck.Deck{},
	}
}

// Existing constructs a game from the given options
func Existing(opts GameOpts) *Game {
	g := New(opts.SetSize)
	g.state = opts.State

	if opts.Players != nil {
		g.players = opts.Players
	}
	if opts.Eliminated != nil {
		g.eliminated = opts.Eliminated
	}
	if opts.Pool != nil {
		g.pool = opts.Pool
	}

	return g
}

// RegisterPlayer adds a player before the cards are dealt
func (g *Game) RegisterPlayer(name string, capacity int) error {
	if g.state != Init {
		return ErrGameStarted
	}
	if capacity < 1 {
		return fmt.Errorf("%w: %q", ErrZeroCapacity, name)
	}
	if _, ok := g.FindPlayer(name); ok {
		return fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}

	g.players = append(g.players, NewPlayer(name, capacity))
	return nil
}

// InitSet builds and shuffles the set, starts the game and deals every player their hand.
// Nothing is dealt if the players are invalid.
func (g *Game) InitSet() error {
	if g.state != Init {
		return ErrGameStarted
	}
	if err := g.validatePlayers(); err != nil {
		return err
	}

	pool, err := deck.New(g.setSize)
	if err != nil {
		return err
	}
	g.pool = pool
	g.Shuffle()
	g.state = Running

	for _, p := range g.players {
		for i := 0; i < p.Capacity; i++ {
			if err := p.DrawToHand(&g.pool); err != nil {
				return fmt.Errorf("dealing to %q: %w", p.Name, err)
			}
		}
		p.Status = Playing
	}

	return nil
}

func (g *Game) validatePlayers() error {
	names := map[string]struct{}{}
	needed := 0

	for _, p := range g.players {
		if _, ok := names[p.Name]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateName, p.Name)
		}
		names[p.Name] = struct{}{}

		if p.Capacity < 1 {
			return fmt.Errorf("%w: %q", ErrZeroCapacity, p.Name)
		}
		needed += p.Capacity
	}

	if needed > g.setSize {
		return fmt.Errorf("%w: need %d, set has %d", ErrNotEnoughCards, needed, g.setSize)
	}

	return nil
}

// Shuffle shuffles the undealt cards
func (g *Game) Shuffle() {
	g.pool.Shuffle()
}

// Draw takes the card at position i of the pool and sets it aside for the named player
func (g *Game) Draw(name string, i int) (deck.Card, error) {
	if g.state != Running {
		return deck.Card{}, ErrGameNotRunning
	}

	p, ok := g.FindPlayer(name)
	if !ok {
		return deck.Card{}, fmt.Errorf("%w: %q", ErrUnknownPlayer, name)
	}

	return p.DrawToSide(&g.pool, i)
}

// EvaluateStatus eliminates every player whose hand is fully revealed and
// ends the game once at most one player is left.
// It reports whether the game has ended.
func (g *Game) EvaluateStatus() bool {
	remaining := make([]*Player, 0, len(g.players))

	for _, p := range g.players {
		if p.RevealedCount() == p.HandSize() {
			p.Status = Lost
			g.eliminated = append(g.eliminated, p)
			continue
		}
		remaining = append(remaining, p)
	}
	g.players = remaining

	if len(g.players) > 1 {
		return false
	}

	g.state = End
	if len(g.players) == 1 && g.players[0].Status == Playing {
		g.winner = g.players[0]
	}

	return true
}

// Forfeit removes a player who can no longer play, for example after a disconnect
func (g *Game) Forfeit(name string) error {
	for i, p := range g.players {
		if p.Name != name {
			continue
		}

		p.ReturnSideCard(&g.pool)
		p.Status = Lost
		g.players = append(g.players[:i], g.players[i+1:]...)
		g.eliminated = append(g.eliminated, p)

		return nil
	}

	return fmt.Errorf("%w: %q", ErrUnknownPlayer, name)
}

// FindPlayer finds an active player by name
func (g *Game) FindPlayer(name string) (*Player, bool) {
	for _, p := range g.players {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

// IsActive reports whether the named player is still in play
func (g *Game) IsActive(name string) bool {
	_, ok := g.FindPlayer(name)
	return ok
}

// Opponents returns the active players other than name, in play order
func (g *Game) Opponents(name string) []*Player {
	opponents := []*Player{}
	for _, p := range g.players {
		if p.Name != name {
			opponents = append(opponents, p)
		}
	}
	return opponents
}

func (g *Game) State() State {
	return g.state
}

func (g *Game) SetSize() int {
	return g.setSize
}

func (g *Game) Players() []*Player {
	return g.players
}

func (g *Game) Eliminated() []*Player {
	return g.eliminated
}

func (g *Game) Pool() deck.Deck {
	return g.pool
}

// Winner returns the winning player once the game is over
func (g *Game) Winner() (*Player, bool) {
	return g.winner, g.winner != nil
}

// CardCount counts every card in play: the pool, all hands and any drawn cards
func (g *Game) CardCount() int {
	count := len(g.pool)
	for _, group := range [][]*Player{g.players, g.eliminated} {
		for _, p := range group {
			count += p.HandSize()
			if _, ok := p.SideCard(); ok {
				count++
			}
		}
	}
	return count
}
