package deck

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
)

var (
	ErrEmptyPool       = errors.New("no cards left to draw")
	ErrIndexOutOfRange = errors.New("card index out of range")
	ErrOddSetSize      = errors.New("set size must be a positive even number")
)

// Deck represents an ordered pool of cards
type Deck []Card

// New creates the full set of cards for a set of the given size:
// one Black and one White card for every value in [0, size/2)
func New(size int) (Deck, error) {
	if size <= 0 || size%2 != 0 {
		return nil, fmt.Errorf("%w: got %d", ErrOddSetSize, size)
	}

	cards := make(Deck, 0, size)
	for value := 0; value < size/2; value++ {
		cards = append(cards, NewCard(value, Black), NewCard(value, White))
	}
	return cards, nil
}

// Shuffle shuffles the deck of cards
func (d *Deck) Shuffle() {
	cards := *d
	rand.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
}

// DrawRandom removes and returns a random card
func (d *Deck) DrawRandom() (Card, error) {
	if len(*d) == 0 {
		return Card{}, ErrEmptyPool
	}

	picked := (*d)[rand.IntN(len(*d))]
	d.remove(picked)

	return picked, nil
}

// DrawAt removes and returns the card at position i
func (d *Deck) DrawAt(i int) (Card, error) {
	if len(*d) == 0 {
		return Card{}, ErrEmptyPool
	}
	if i < 0 || i >= len(*d) {
		return Card{}, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, i, len(*d))
	}

	picked := (*d)[i]
	d.remove(picked)

	return picked, nil
}

// Contains reports whether a card with the same identity is in the deck
func (d Deck) Contains(c Card) bool {
	for _, card := range d {
		if card.Same(c) {
			return true
		}
	}
	return false
}

// Render lists every slot as "<index>: <label>"
func (d Deck) Render(hideValues bool) string {
	slots := make([]string, 0, len(d))
	for i, c := range d {
		slots = append(slots, fmt.Sprintf("%d: %s", i, c.Label(hideValues)))
	}
	return strings.Join(slots, ", ")
}

// remove deletes the card matching c by value and color
func (d *Deck) remove(c Card) {
	for i, card := range *d {
		if card.Same(c) {
			*d = append((*d)[:i], (*d)[i+1:]...)
			return
		}
	}
}
