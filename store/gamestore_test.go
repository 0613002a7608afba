package store

import (
	"fmt"
	"sync"
	"testing"
	"time"

	utils "github.com/minaorangina/davinci/internal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGameStore() *InMemoryGameStore {
	s := NewInMemoryGameStore()
	tick := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	}
	return s
}

func TestInMemoryGameStore(t *testing.T) {
	t.Run("prevents duplicate game IDs", func(t *testing.T) {
		str := newTestGameStore()

		utils.AssertNoError(t, str.AddGame("game-1", []string{"ann", "bob"}))
		utils.AssertErrorIs(t, str.AddGame("game-1", []string{"cat"}), ErrDuplicateGameID)
	})

	t.Run("handles a non-existent game", func(t *testing.T) {
		str := newTestGameStore()

		_, ok := str.FindGame("fake-id")
		utils.AssertTrue(t, !ok)
		utils.AssertErrorIs(t, str.FinishGame("fake-id", "ann"), ErrUnknownGameID)
	})

	t.Run("finishing records the winner once", func(t *testing.T) {
		str := newTestGameStore()
		require.NoError(t, str.AddGame("game-1", []string{"ann", "bob"}))

		require.NoError(t, str.FinishGame("game-1", "bob"))
		utils.AssertErrorIs(t, str.FinishGame("game-1", "ann"), ErrGameFinished)
		utils.AssertErrorIs(t, str.AbortGame("game-1", "late"), ErrGameFinished)

		g, ok := str.FindGame("game-1")
		require.True(t, ok)
		utils.AssertEqual(t, g.Status, Finished)
		utils.AssertEqual(t, g.Winner, "bob")
		utils.AssertTrue(t, g.FinishedAt.After(g.StartedAt))
	})

	t.Run("aborted games keep the reason", func(t *testing.T) {
		str := newTestGameStore()
		require.NoError(t, str.AddGame("game-1", []string{"ann", "ann"}))
		require.NoError(t, str.AbortGame("game-1", "duplicate name"))

		g, _ := str.FindGame("game-1")
		utils.AssertEqual(t, g.Status, Aborted)
		utils.AssertEqual(t, g.Reason, "duplicate name")
	})

	t.Run("lists games oldest first as copies", func(t *testing.T) {
		str := newTestGameStore()
		players := []string{"ann", "bob"}
		require.NoError(t, str.AddGame("b", players))
		require.NoError(t, str.AddGame("a", []string{"cat", "dan"}))
		players[0] = "changed"

		games := str.Games()
		require.Len(t, games, 2)
		utils.AssertEqual(t, games[0].ID, "b")
		utils.AssertEqual(t, games[1].ID, "a")
		utils.AssertDeepEqual(t, games[0].Players, []string{"ann", "bob"})

		games[0].Players[0] = "changed"
		g, _ := str.FindGame("b")
		utils.AssertEqual(t, g.Players[0], "ann")
	})

	t.Run("safe for concurrent tables", func(t *testing.T) {
		str := NewInMemoryGameStore()
		var wg sync.WaitGroup

		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func(id string) {
				defer wg.Done()
				assert.NoError(t, str.AddGame(id, []string{"ann", "bob"}))
				str.Games()
				assert.NoError(t, str.FinishGame(id, "ann"))
			}(fmt.Sprintf("game-%d", i))
		}
		wg.Wait()

		assert.Len(t, str.Games(), 20)
	})
}
