package game

import (
	"slices"
	"testing"

	"github.com/minaorangina/davinci/deck"
	utils "github.com/minaorangina/davinci/internal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandFromText(t *testing.T) {
	t.Run("keeps parse order", func(t *testing.T) {
		got := HandFromText("0: W1, 1: B1, 2: W13, 3: B2")
		want := []deck.Card{
			deck.NewCard(1, deck.White),
			deck.NewCard(1, deck.Black),
			deck.NewCard(13, deck.White),
			deck.NewCard(2, deck.Black),
		}
		utils.AssertDeepEqual(t, got, want)
	})

	t.Run("unknown colors become black and bad values are skipped", func(t *testing.T) {
		got := HandFromText("0: X4, 1: W?, 2: B-1, 3: Wseven, 4: W5, ")
		want := []deck.Card{
			deck.NewCard(4, deck.Black),
			deck.NewCard(5, deck.White),
		}
		utils.AssertDeepEqual(t, got, want)
	})

	t.Run("values must be plain digits", func(t *testing.T) {
		got := HandFromText("0: W+5, 1: B 3, 2: W 7, 3: B8")
		utils.AssertDeepEqual(t, got, []deck.Card{deck.NewCard(8, deck.Black)})
	})

	t.Run("round trips a rendered hand", func(t *testing.T) {
		p := NewPlayer("me", 3)
		p.Hand = []deck.Card{deck.NewCard(0, deck.Black), deck.NewCard(3, deck.White), deck.NewCard(9, deck.Black)}

		utils.AssertDeepEqual(t, HandFromText(p.Render(false)), p.Hand)
	})
}

func TestPlayerSortsHand(t *testing.T) {
	p := NewPlayer("me", 4)
	pool := deck.Deck{deck.NewCard(2, deck.White)}
	p.Hand = HandFromText("0: W1, 1: B1, 2: W13, 3: B2")

	_, err := p.DrawToSide(&pool, 0)
	require.NoError(t, err)
	require.NoError(t, p.CommitSideCard(false))

	want := []deck.Card{
		deck.NewCard(1, deck.Black),
		deck.NewCard(1, deck.White),
		deck.NewCard(2, deck.Black),
		deck.NewCard(2, deck.White),
		deck.NewCard(13, deck.White),
	}
	utils.AssertDeepEqual(t, p.Hand, want)
}

func TestPlayerDraws(t *testing.T) {
	t.Run("drawing to hand empties the side slot", func(t *testing.T) {
		pool, _ := deck.New(6)
		p := NewPlayer("me", 1)

		_, err := p.DrawToSide(&pool, 0)
		require.NoError(t, err)
		require.NoError(t, p.DrawToHand(&pool))

		_, pending := p.SideCard()
		utils.AssertTrue(t, !pending)
		utils.AssertEqual(t, len(p.Hand), 1)
		utils.AssertEqual(t, len(pool), 4)
	})

	t.Run("only one card can be held aside", func(t *testing.T) {
		pool, _ := deck.New(6)
		p := NewPlayer("me", 1)

		_, err := p.DrawToSide(&pool, 0)
		require.NoError(t, err)
		_, err = p.DrawToSide(&pool, 0)
		utils.AssertErrorIs(t, err, ErrPendingDraw)
		utils.AssertEqual(t, len(pool), 5)
	})

	t.Run("committing without a draw fails", func(t *testing.T) {
		p := NewPlayer("me", 1)
		utils.AssertErrorIs(t, p.CommitSideCard(true), ErrNoPendingDraw)
	})

	t.Run("commit grows the hand and reveals on request", func(t *testing.T) {
		pool := deck.Deck{deck.NewCard(7, deck.Black)}
		p := NewPlayer("me", 0)

		drawn, err := p.DrawToSide(&pool, 0)
		require.NoError(t, err)
		utils.AssertEqual(t, drawn, deck.NewCard(7, deck.Black))
		require.NoError(t, p.CommitSideCard(true))

		utils.AssertEqual(t, p.Capacity, 1)
		utils.AssertEqual(t, p.Hand[0].Status, deck.Revealed)
		_, pending := p.SideCard()
		utils.AssertTrue(t, !pending)
	})

	t.Run("returning the side card puts it back in the pool", func(t *testing.T) {
		pool := deck.Deck{deck.NewCard(7, deck.Black)}
		p := NewPlayer("me", 0)

		_, err := p.DrawToSide(&pool, 0)
		require.NoError(t, err)
		p.ReturnSideCard(&pool)

		utils.AssertDeepEqual(t, pool, deck.Deck{deck.NewCard(7, deck.Black)})
	})
}

func TestPlayerReveal(t *testing.T) {
	p := NewPlayer("me", 2)
	p.Hand = []deck.Card{deck.NewCard(1, deck.Black), deck.NewCard(4, deck.White)}

	t.Run("peek sees hidden values only", func(t *testing.T) {
		value, ok := p.PeekHiddenValue(1)
		utils.AssertTrue(t, ok)
		utils.AssertEqual(t, value, 4)
	})

	t.Run("revealing twice signals the second time", func(t *testing.T) {
		already, err := p.RevealAt(0)
		require.NoError(t, err)
		utils.AssertTrue(t, !already)

		already, err = p.RevealAt(0)
		require.NoError(t, err)
		utils.AssertTrue(t, already)
		utils.AssertEqual(t, p.Hand[0].Status, deck.Revealed)

		_, ok := p.PeekHiddenValue(0)
		utils.AssertTrue(t, !ok)
	})

	t.Run("out of range", func(t *testing.T) {
		_, err := p.RevealAt(2)
		utils.AssertErrorIs(t, err, ErrIndexOutOfRange)

		_, ok := p.PeekHiddenValue(-1)
		utils.AssertTrue(t, !ok)
	})
}

func TestPlayerRender(t *testing.T) {
	p := NewPlayer("me", 3)
	p.Hand = []deck.Card{
		deck.NewCard(1, deck.Black),
		{Color: deck.White, Value: 4, Status: deck.Revealed},
		deck.NewCard(9, deck.White),
	}

	utils.AssertEqual(t, p.Render(false), "0: B1, 1: W4, 2: W9")
	utils.AssertEqual(t, p.Render(true), "0: B?, 1: W4, 2: W?")

	t.Run("slots can be consumed more than once", func(t *testing.T) {
		slots := p.Slots(true)
		first := slices.Collect(slots)
		second := slices.Collect(slots)
		assert.Equal(t, first, second)
		assert.Len(t, first, 3)
	})

	t.Run("slots stop early", func(t *testing.T) {
		var got []string
		for slot := range p.Slots(false) {
			got = append(got, slot)
			break
		}
		assert.Equal(t, []string{"0: B1"}, got)
	})
}
