package profile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"barkeep/internal/domain"
)

// Store persists profiles as one JSON file per user id. Writers for the same
// user serialize through a per-user mutex; different users never contend.
type Store struct {
	dir string
	log *zap.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

type profileFile struct {
	UserID              string           `json:"user_id"`
	FavoriteIngredients []string         `json:"favorite_ingredients"`
	FavoriteCocktails   []string         `json:"favorite_cocktails"`
	ConversationHistory []domain.Message `json:"conversation_history"`
}

// NewStore creates the profile directory if needed.
func NewStore(dir string, log *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create profile dir %s: %w", dir, err)
	}
	return &Store{dir: dir, log: log, locks: make(map[string]*sync.Mutex)}, nil
}

// Lock acquires the per-user mutex and returns its release func.
func (s *Store) Lock(userID string) func() {
	s.mu.Lock()
	l, ok := s.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[userID] = l
	}
	s.mu.Unlock()
	l.Lock()
	return l.Unlock
}

// Get loads a user's profile, returning a fresh one for an unseen id. Read
// and decode failures are logged and degrade to a fresh profile.
func (s *Store) Get(userID string) *Profile {
	p := New(userID)
	data, err := os.ReadFile(s.path(userID))
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn("profile read failed", zap.String("user", userID), zap.Error(err))
		}
		return p
	}
	var pf profileFile
	if err := json.Unmarshal(data, &pf); err != nil {
		s.log.Warn("profile decode failed", zap.String("user", userID), zap.Error(err))
		return p
	}
	for _, ing := range pf.FavoriteIngredients {
		p.AddFavoriteIngredient(ing)
	}
	for _, c := range pf.FavoriteCocktails {
		p.AddFavoriteCocktail(c)
	}
	p.history = pf.ConversationHistory
	if len(p.history) > HistoryLimit {
		p.history = p.history[len(p.history)-HistoryLimit:]
	}
	return p
}

// Put writes the profile back to disk.
func (s *Store) Put(p *Profile) error {
	pf := profileFile{
		UserID:              p.UserID,
		FavoriteIngredients: p.FavoriteIngredients(),
		FavoriteCocktails:   p.FavoriteCocktails(),
		ConversationHistory: p.History(),
	}
	data, err := json.MarshalIndent(pf, "", "  ")
	if err != nil {
		return fmt.Errorf("encode profile %s: %w", p.UserID, err)
	}
	if err := os.WriteFile(s.path(p.UserID), data, 0o644); err != nil {
		return fmt.Errorf("write profile %s: %w", p.UserID, err)
	}
	return nil
}

func (s *Store) path(userID string) string {
	return filepath.Join(s.dir, userID+".json")
}
