package deck

import (
	"testing"

	utils "github.com/minaorangina/davinci/internal"
)

func TestCard(t *testing.T) {
	t.Run("labels", func(t *testing.T) {
		cases := []struct {
			name string
			card Card
			hide bool
			want string
		}{
			{"hidden card, owner view", NewCard(3, Black), false, "B3"},
			{"hidden card, opponent view", NewCard(3, White), true, "W?"},
			{"revealed card, opponent view", Card{Color: White, Value: 10, Status: Revealed}, true, "W10"},
		}

		for _, c := range cases {
			t.Run(c.name, func(t *testing.T) {
				utils.AssertEqual(t, c.card.Label(c.hide), c.want)
			})
		}
	})

	t.Run("orders by value then black before white", func(t *testing.T) {
		utils.AssertTrue(t, NewCard(1, White).Less(NewCard(2, Black)))
		utils.AssertTrue(t, NewCard(1, Black).Less(NewCard(1, White)))
		utils.AssertTrue(t, !NewCard(1, White).Less(NewCard(1, Black)))
		utils.AssertTrue(t, !NewCard(1, Black).Less(NewCard(1, Black)))
	})

	t.Run("identity ignores status", func(t *testing.T) {
		revealed := Card{Color: Black, Value: 4, Status: Revealed}
		utils.AssertTrue(t, revealed.Same(NewCard(4, Black)))
		utils.AssertTrue(t, !revealed.Same(NewCard(4, White)))
	})

	t.Run("unknown color letters default to black", func(t *testing.T) {
		utils.AssertEqual(t, ColorFromLetter("W"), White)
		utils.AssertEqual(t, ColorFromLetter("B"), Black)
		utils.AssertEqual(t, ColorFromLetter("X"), Black)
	})
}
