// Package profile tracks per-user preferences: favorite ingredients and
// cocktails plus a bounded conversation log. Profiles are created on first
// access and never destroyed.
package profile

import (
	"sort"
	"strings"
	"time"

	"barkeep/internal/corpus"
	"barkeep/internal/domain"
)

// HistoryLimit caps the conversation log; the oldest entries are evicted
// first.
const HistoryLimit = 50

// Profile is one user's preference state. It is not safe for concurrent use;
// Store serializes access per user.
type Profile struct {
	UserID              string
	favoriteIngredients map[string]struct{}
	favoriteCocktails   map[string]struct{}
	history             []domain.Message
}

// New returns an empty profile for the given user id.
func New(userID string) *Profile {
	return &Profile{
		UserID:              userID,
		favoriteIngredients: make(map[string]struct{}),
		favoriteCocktails:   make(map[string]struct{}),
	}
}

// AddFavoriteIngredient normalizes the ingredient and adds it to the
// favorite set, reporting whether it was newly added.
func (p *Profile) AddFavoriteIngredient(ingredient string) bool {
	ingredient = corpus.NormalizeToken(ingredient)
	if ingredient == "" {
		return false
	}
	if _, ok := p.favoriteIngredients[ingredient]; ok {
		return false
	}
	p.favoriteIngredients[ingredient] = struct{}{}
	return true
}

// RemoveFavoriteIngredient removes a normalized ingredient, reporting
// whether it existed.
func (p *Profile) RemoveFavoriteIngredient(ingredient string) bool {
	ingredient = corpus.NormalizeToken(ingredient)
	if _, ok := p.favoriteIngredients[ingredient]; !ok {
		return false
	}
	delete(p.favoriteIngredients, ingredient)
	return true
}

// AddFavoriteCocktail trims the name (case preserved) and adds it to the
// favorite set, reporting whether it was newly added.
func (p *Profile) AddFavoriteCocktail(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	if _, ok := p.favoriteCocktails[name]; ok {
		return false
	}
	p.favoriteCocktails[name] = struct{}{}
	return true
}

// RemoveFavoriteCocktail removes a trimmed cocktail name, reporting whether
// it existed.
func (p *Profile) RemoveFavoriteCocktail(name string) bool {
	name = strings.TrimSpace(name)
	if _, ok := p.favoriteCocktails[name]; !ok {
		return false
	}
	delete(p.favoriteCocktails, name)
	return true
}

// FavoriteIngredients returns the favorite ingredients in a stable order.
func (p *Profile) FavoriteIngredients() []string {
	out := make([]string, 0, len(p.favoriteIngredients))
	for ing := range p.favoriteIngredients {
		out = append(out, ing)
	}
	sort.Strings(out)
	return out
}

// FavoriteCocktails returns the favorite cocktails in a stable order.
func (p *Profile) FavoriteCocktails() []string {
	out := make([]string, 0, len(p.favoriteCocktails))
	for c := range p.favoriteCocktails {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// AppendHistory records a conversation turn, evicting the oldest entries
// beyond HistoryLimit.
func (p *Profile) AppendHistory(role, content string) {
	p.history = append(p.history, domain.Message{
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	})
	if len(p.history) > HistoryLimit {
		p.history = p.history[len(p.history)-HistoryLimit:]
	}
}

// History returns the full conversation log, most recent last.
func (p *Profile) History() []domain.Message { return p.history }

// RecentHistory returns up to n of the most recent turns in original order.
func (p *Profile) RecentHistory(n int) []domain.Message {
	if n <= 0 || len(p.history) == 0 {
		return nil
	}
	if n > len(p.history) {
		n = len(p.history)
	}
	return p.history[len(p.history)-n:]
}
