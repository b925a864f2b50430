package storage

import (
	"errors"
	"sync"
	"time"

	"github.com/aliskhannn/trivia-quiz-bot/internal/domain/entities"
)

var ErrGameNotFound = errors.New("game not found")

// GameStorage provides in-memory storage for live games by game ID.
// Games handed out are clones; mutations go through Update.
type GameStorage struct {
	mu     sync.RWMutex
	games  map[string]*entities.Game
	byUser map[int64]string
}

// NewGameStorage creates a new GameStorage.
func NewGameStorage() *GameStorage {
	return &GameStorage{
		games:  make(map[string]*entities.Game),
		byUser: make(map[int64]string),
	}
}

// Store saves a game, replacing any live game of the same user.
// It returns the ID of the replaced game, or "".
func (s *GameStorage) Store(g *entities.Game) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var replaced string
	if g.UserID != 0 {
		if prev, ok := s.byUser[g.UserID]; ok && prev != g.ID {
			delete(s.games, prev)
			replaced = prev
		}
		s.byUser[g.UserID] = g.ID
	}
	s.games[g.ID] = g

	return replaced
}

// Get retrieves a copy of the game with the given ID.
func (s *GameStorage) Get(id string) (*entities.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.games[id]
	if !ok {
		return nil, ErrGameNotFound
	}
	return g.Clone(), nil
}

// GetByUser retrieves a copy of the live game of a Telegram user.
func (s *GameStorage) GetByUser(userID int64) (*entities.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byUser[userID]
	if !ok {
		return nil, ErrGameNotFound
	}
	g, ok := s.games[id]
	if !ok {
		return nil, ErrGameNotFound
	}
	return g.Clone(), nil
}

// Update runs fn on the stored game under the write lock and returns a copy of the result.
// The copy is returned even when fn fails, so callers can render the unchanged state.
func (s *GameStorage) Update(id string, fn func(g *entities.Game) error) (*entities.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.games[id]
	if !ok {
		return nil, ErrGameNotFound
	}

	err := fn(g)
	return g.Clone(), err
}

// UpdateAll runs fn on every stored game and returns the games for which fn reported an event.
func (s *GameStorage) UpdateAll(fn func(g *entities.Game) entities.Event) []entities.GameEvent {
	s.mu.Lock()
	defer s.mu.Unlock()

	var events []entities.GameEvent
	for _, g := range s.games {
		if ev := fn(g); ev != entities.EventNone {
			events = append(events, entities.GameEvent{Game: g.Clone(), Event: ev})
		}
	}
	return events
}

// Delete removes a game.
func (s *GameStorage) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteLocked(id)
}

// Sweep removes games idle for longer than ttl and returns how many were removed.
func (s *GameStorage) Sweep(now time.Time, ttl time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, g := range s.games {
		if now.Sub(g.LastActivity) > ttl {
			s.deleteLocked(id)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored games.
func (s *GameStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.games)
}

func (s *GameStorage) deleteLocked(id string) {
	g, ok := s.games[id]
	if !ok {
		return
	}
	if g.UserID != 0 && s.byUser[g.UserID] == id {
		delete(s.byUser, g.UserID)
	}
	delete(s.games, id)
}
