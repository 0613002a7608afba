package game

import (
	"strconv"
	"strings"

	"github.com/minaorangina/davinci/deck"
)

// HandFromText parses a rendered hand such as "0: W1, 1: B1, 2: W13".
// Cards come back in the order they appear in the text.
func HandFromText(s string) []deck.Card {
	cards := []deck.Card{}

	for _, token := range strings.Split(s, ",") {
		_, slot, found := strings.Cut(token, ":")
		if !found {
			continue
		}

		slot = strings.TrimSpace(slot)
		if len(slot) < 2 {
			continue
		}

		digits := slot[1:]
		if strings.TrimLeft(digits, "0123456789") != "" {
			continue
		}
		value, err := strconv.Atoi(digits)
		if err != nil {
			continue
		}

		cards = append(cards, deck.NewCard(value, deck.ColorFromLetter(slot[:1])))
	}

	return cards
}
