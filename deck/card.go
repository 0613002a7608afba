package deck

import (
	"fmt"
	"strconv"
)

// Color is one of the two card colors
type Color int

const (
	Black Color = iota
	White
)

var colorLetters = map[Color]string{
	Black: "B",
	White: "W",
}

// Letter returns the single-letter form used on the wire
func (c Color) Letter() string {
	return colorLetters[c]
}

func (c Color) String() string {
	if c == White {
		return "White"
	}
	return "Black"
}

// ColorFromLetter maps a wire letter to a Color.
// Anything unrecognised is Black.
func ColorFromLetter(s string) Color {
	if s == "W" {
		return White
	}
	return Black
}

// Status says whether a card's value is visible to everyone
type Status int

const (
	Hidden Status = iota
	Revealed
)

func (s Status) String() string {
	if s == Revealed {
		return "Revealed"
	}
	return "Hidden"
}

// Card represents a numbered two-colored card.
// Color and Value identify a card; Status is the only mutable part.
type Card struct {
	Color  Color  `json:"color"`
	Value  int    `json:"value"`
	Status Status `json:"status"`
}

// NewCard constructs a hidden card
func NewCard(value int, color Color) Card {
	return Card{Color: color, Value: value, Status: Hidden}
}

// Same reports whether two cards have the same identity, ignoring status
func (c Card) Same(other Card) bool {
	return c.Color == other.Color && c.Value == other.Value
}

// Less orders cards by value, Black before White on ties
func (c Card) Less(other Card) bool {
	if c.Value != other.Value {
		return c.Value < other.Value
	}
	return c.Color == Black && other.Color == White
}

// Label renders the card, hiding the value when hide is set and the card is still hidden
func (c Card) Label(hide bool) string {
	if hide && c.Status == Hidden {
		return c.Color.Letter() + "?"
	}
	return c.Color.Letter() + strconv.Itoa(c.Value)
}

func (c Card) String() string {
	return fmt.Sprintf("%s%d", c.Color.Letter(), c.Value)
}
