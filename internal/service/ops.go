package service

import (
	"go.uber.org/zap"

	"barkeep/internal/domain"
)

// Structured operations for a transport layer passing explicit parameters
// instead of free text. They bypass intent classification entirely.

// CocktailsByIngredient returns up to limit recipes containing the
// ingredient, optionally restricted to alcoholic ones.
func (a *Advisor) CocktailsByIngredient(ingredient string, limit int, alcoholicOnly bool) []domain.Recipe {
	if limit <= 0 {
		limit = defaultLimit
	}
	matched := a.store.Containing(ingredient)
	out := make([]domain.Recipe, 0, limit)
	for _, rec := range matched {
		if alcoholicOnly && !rec.Alcoholic {
			continue
		}
		out = append(out, rec)
		if len(out) == limit {
			break
		}
	}
	return out
}

// NonAlcoholicCocktails returns every non-alcoholic recipe.
func (a *Advisor) NonAlcoholicCocktails() []domain.Recipe {
	return a.store.NonAlcoholic()
}

// CocktailByName looks a recipe up by name.
func (a *Advisor) CocktailByName(name string) (domain.Recipe, bool) {
	return a.store.ByName(name)
}

// SimilarCocktails returns recipes semantically similar to the named one.
func (a *Advisor) SimilarCocktails(name string, limit int) ([]domain.SearchResult, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	return a.index.SimilarTo(name, limit)
}

// CocktailsWithIngredients returns recipes semantically close to the given
// ingredient list.
func (a *Advisor) CocktailsWithIngredients(ingredients []string, limit int) ([]domain.SearchResult, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	return a.index.WithIngredients(ingredients, limit)
}

// RecommendationsFor recommends recipes from the user's favorite
// ingredients, falling back to an unconstrained sample when the user has
// none.
func (a *Advisor) RecommendationsFor(userID string, limit int) ([]domain.Recipe, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	unlock := a.profiles.Lock(userID)
	p := a.profiles.Get(userID)
	favorites := p.FavoriteIngredients()
	unlock()

	if len(favorites) == 0 {
		return a.store.Sample(limit), nil
	}
	results, err := a.index.WithIngredients(favorites, limit)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Recipe, 0, len(results))
	for _, r := range results {
		out = append(out, r.Recipe)
	}
	return out, nil
}

// Preferences returns a user's favorite ingredients and cocktails.
func (a *Advisor) Preferences(userID string) (ingredients, cocktails []string) {
	unlock := a.profiles.Lock(userID)
	defer unlock()
	p := a.profiles.Get(userID)
	return p.FavoriteIngredients(), p.FavoriteCocktails()
}

// AddPreferences adds favorites to a user's profile and returns the updated
// sets.
func (a *Advisor) AddPreferences(userID string, ingredients, cocktails []string) (allIngredients, allCocktails []string) {
	unlock := a.profiles.Lock(userID)
	defer unlock()
	p := a.profiles.Get(userID)
	for _, ing := range ingredients {
		p.AddFavoriteIngredient(ing)
	}
	for _, c := range cocktails {
		p.AddFavoriteCocktail(c)
	}
	if err := a.profiles.Put(p); err != nil {
		a.log.Warn("profile persist failed", zap.String("user", userID), zap.Error(err))
	}
	return p.FavoriteIngredients(), p.FavoriteCocktails()
}

// RemovePreferences removes favorites from a user's profile and returns the
// updated sets.
func (a *Advisor) RemovePreferences(userID string, ingredients, cocktails []string) (allIngredients, allCocktails []string) {
	unlock := a.profiles.Lock(userID)
	defer unlock()
	p := a.profiles.Get(userID)
	for _, ing := range ingredients {
		p.RemoveFavoriteIngredient(ing)
	}
	for _, c := range cocktails {
		p.RemoveFavoriteCocktail(c)
	}
	if err := a.profiles.Put(p); err != nil {
		a.log.Warn("profile persist failed", zap.String("user", userID), zap.Error(err))
	}
	return p.FavoriteIngredients(), p.FavoriteCocktails()
}
