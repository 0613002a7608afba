package store

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"
)

var (
	ErrUnknownGameID   = errors.New("unknown game ID")
	ErrDuplicateGameID = errors.New("game ID already exists")
	ErrGameFinished    = errors.New("game has already finished")
)

type GameStatus string

const (
	Playing  GameStatus = "playing"
	Finished GameStatus = "finished"
	Aborted  GameStatus = "aborted"
)

// GameSummary is what the store knows about a table
type GameSummary struct {
	ID         string     `json:"id"`
	Players    []string   `json:"players"`
	Status     GameStatus `json:"status"`
	Winner     string     `json:"winner,omitempty"`
	Reason     string     `json:"reason,omitempty"`
	StartedAt  time.Time  `json:"startedAt"`
	FinishedAt time.Time  `json:"finishedAt,omitempty"`
}

type GameStore interface {
	AddGame(gameID string, players []string) error
	FinishGame(gameID, winner string) error
	AbortGame(gameID, reason string) error
	FindGame(gameID string) (GameSummary, bool)
	Games() []GameSummary
}

// InMemoryGameStore indexes the tables hosted by this process
type InMemoryGameStore struct {
	mu    sync.RWMutex
	games map[string]*GameSummary
	now   func() time.Time
}

// NewInMemoryGameStore constructs an InMemoryGameStore
func NewInMemoryGameStore() *InMemoryGameStore {
	return &InMemoryGameStore{
		games: map[string]*GameSummary{},
		now:   time.Now,
	}
}

func (s *InMemoryGameStore) AddGame(gameID string, players []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.games[gameID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateGameID, gameID)
	}

	s.games[gameID] = &GameSummary{
		ID:        gameID,
		Players:   slices.Clone(players),
		Status:    Playing,
		StartedAt: s.now(),
	}
	return nil
}

// FinishGame records the end of a game. An empty winner means nobody won.
func (s *InMemoryGameStore) FinishGame(gameID, winner string) error {
	return s.end(gameID, func(g *GameSummary) {
		g.Status = Finished
		g.Winner = winner
	})
}

func (s *InMemoryGameStore) AbortGame(gameID, reason string) error {
	return s.end(gameID, func(g *GameSummary) {
		g.Status = Aborted
		g.Reason = reason
	})
}

func (s *InMemoryGameStore) end(gameID string, update func(*GameSummary)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.games[gameID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownGameID, gameID)
	}
	if g.Status != Playing {
		return fmt.Errorf("%w: %s", ErrGameFinished, gameID)
	}

	update(g)
	g.FinishedAt = s.now()

	return nil
}

func (s *InMemoryGameStore) FindGame(gameID string) (GameSummary, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.games[gameID]
	if !ok {
		return GameSummary{}, false
	}
	return g.copy(), true
}

// Games lists every game, oldest first
func (s *InMemoryGameStore) Games() []GameSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	games := make([]GameSummary, 0, len(s.games))
	for _, g := range s.games {
		games = append(games, g.copy())
	}

	slices.SortFunc(games, func(a, b GameSummary) int {
		if c := a.StartedAt.Compare(b.StartedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	return games
}

func (g *GameSummary) copy() GameSummary {
	c := *g
	c.Players = slices.Clone(g.Players)
	return c
}

