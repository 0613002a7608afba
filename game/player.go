package game

import (
	"errors"
	"fmt"
	"iter"
	"slices"
	"strings"

	"github.com/minaorangina/davinci/deck"
)

var (
	ErrNoPendingDraw   = errors.New("no drawn card to commit")
	ErrPendingDraw     = errors.New("a drawn card is already pending")
	ErrIndexOutOfRange = errors.New("hand index out of range")
)

// Player represents a player in the game
type Player struct {
	Name     string
	Capacity int
	Hand     []deck.Card
	Status   PlayerStatus
	drawn    *deck.Card
}

// NewPlayer constructs a player with an empty hand
func NewPlayer(name string, capacity int) *Player {
	return &Player{
		Name:     name,
		Capacity: capacity,
		Hand:     []deck.Card{},
		Status:   PlayerInit,
	}
}

// DrawToHand moves a random card from the pool straight into the hand
func (p *Player) DrawToHand(pool *deck.Deck) error {
	c, err := pool.DrawRandom()
	if err != nil {
		return err
	}

	p.Hand = append(p.Hand, c)
	p.sortHand()
	p.drawn = nil

	return nil
}

// DrawToSide takes the card at position i of the pool and holds it aside
// until it is committed
func (p *Player) DrawToSide(pool *deck.Deck, i int) (deck.Card, error) {
	if p.drawn != nil {
		return deck.Card{}, ErrPendingDraw
	}

	c, err := pool.DrawAt(i)
	if err != nil {
		return deck.Card{}, err
	}
	p.drawn = &c

	return c, nil
}

// SideCard returns the drawn card, if any
func (p *Player) SideCard() (deck.Card, bool) {
	if p.drawn == nil {
		return deck.Card{}, false
	}
	return *p.drawn, true
}

// CommitSideCard moves the drawn card into the hand, face up if reveal is set
func (p *Player) CommitSideCard(reveal bool) error {
	if p.drawn == nil {
		return ErrNoPendingDraw
	}

	c := *p.drawn
	if reveal {
		c.Status = deck.Revealed
	}

	p.Hand = append(p.Hand, c)
	p.Capacity++
	p.sortHand()
	p.drawn = nil

	return nil
}

// ReturnSideCard puts a pending drawn card back into the pool
func (p *Player) ReturnSideCard(pool *deck.Deck) {
	if p.drawn == nil {
		return
	}
	*pool = append(*pool, *p.drawn)
	p.drawn = nil
}

// RevealAt turns the card at i face up.
// It reports whether the card had already been revealed.
func (p *Player) RevealAt(i int) (bool, error) {
	if err := p.checkIndex(i); err != nil {
		return false, err
	}

	if p.Hand[i].Status == deck.Revealed {
		return true, nil
	}
	p.Hand[i].Status = deck.Revealed

	return false, nil
}

// PeekHiddenValue returns the value at i while it is still hidden.
// ok is false for revealed cards and out of range indices.
func (p *Player) PeekHiddenValue(i int) (value int, ok bool) {
	if p.checkIndex(i) != nil {
		return 0, false
	}

	c := p.Hand[i]
	if c.Status == deck.Revealed {
		return 0, false
	}

	return c.Value, true
}

// HandSize is the number of cards in the hand
func (p *Player) HandSize() int {
	return len(p.Hand)
}

// RevealedCount counts the face up cards in the hand
func (p *Player) RevealedCount() int {
	count := 0
	for _, c := range p.Hand {
		if c.Status == deck.Revealed {
			count++
		}
	}
	return count
}

// Slots yields one "<index>: <label>" entry per card.
// With opponentView, hidden values are masked.
func (p *Player) Slots(opponentView bool) iter.Seq[string] {
	return func(yield func(string) bool) {
		for i, c := range p.Hand {
			if !yield(fmt.Sprintf("%d: %s", i, c.Label(opponentView))) {
				return
			}
		}
	}
}

// Render joins the slots of the hand
func (p *Player) Render(opponentView bool) string {
	return strings.Join(slices.Collect(p.Slots(opponentView)), ", ")
}

func (p *Player) sortHand() {
	slices.SortStableFunc(p.Hand, func(a, b deck.Card) int {
		switch {
		case a.Less(b):
			return -1
		case b.Less(a):
			return 1
		}
		return 0
	})
}

func (p *Player) checkIndex(i int) error {
	if i < 0 || i >= len(p.Hand) {
		return fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, i, len(p.Hand))
	}
	return nil
}
