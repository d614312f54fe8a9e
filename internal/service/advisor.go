// Package service sequences the retrieval pipeline: preference detection,
// intent classification, entity extraction, retrieval, context assembly and
// the generation call. Each request is one synchronous pass; the only
// mutable shared state is the user's profile.
package service

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"barkeep/internal/corpus"
	"barkeep/internal/domain"
	"barkeep/internal/intent"
	"barkeep/internal/profile"
	"barkeep/internal/vectorindex"
)

const (
	defaultLimit  = 5
	generalTopK   = 3
	historyWindow = 10
)

var limitOverrideRe = regexp.MustCompile(`(?i)(\d+)\s+cocktails`)

// Advisor is the response orchestrator. Construct it after CorpusStore and
// VectorIndex; it holds only shared-read structures plus the profile store.
type Advisor struct {
	store     *corpus.Store
	index     *vectorindex.Index
	profiles  *profile.Store
	generator domain.Generator
	log       *zap.Logger
}

// New wires an Advisor from its already-initialized dependencies.
func New(store *corpus.Store, index *vectorindex.Index, profiles *profile.Store, generator domain.Generator, log *zap.Logger) *Advisor {
	return &Advisor{store: store, index: index, profiles: profiles, generator: generator, log: log}
}

// ChatResult is the reply plus the preferences newly detected in the
// message.
type ChatResult struct {
	Reply          string
	NewIngredients []string
	NewCocktails   []string
}

// reply pairs a response text with whether the generator produced it.
// Clarification and not-found replies bypass generation and are not
// recorded as assistant turns.
type reply struct {
	text      string
	generated bool
}

// Chat handles one free-text message for a user: detect preferences first
// (intent-independent), classify, dispatch, generate, record history.
func (a *Advisor) Chat(ctx context.Context, userID, message string) (ChatResult, error) {
	unlock := a.profiles.Lock(userID)
	defer unlock()

	p := a.profiles.Get(userID)
	prior := p.RecentHistory(historyWindow)
	detected := profile.Apply(p, message)
	p.AppendHistory(domain.RoleUser, message)

	category := intent.Classify(message)
	requestID := uuid.NewString()
	a.log.Info("chat request",
		zap.String("request_id", requestID),
		zap.String("user", userID),
		zap.String("intent", string(category)),
		zap.Int("new_ingredients", len(detected.Ingredients)),
		zap.Int("new_cocktails", len(detected.Cocktails)))

	var r reply
	var err error
	switch category {
	case intent.IngredientQuery:
		r, err = a.ingredientQuery(ctx, message, prior)
	case intent.CocktailQuery:
		r, err = a.cocktailQuery(ctx, message, prior)
	case intent.Recommendation:
		r, err = a.recommendation(ctx, p, message, prior)
	case intent.Preference:
		r, err = a.preference(ctx, p, detected, message, prior)
	default:
		r, err = a.general(ctx, p, message, prior)
	}
	if err != nil {
		return ChatResult{}, fmt.Errorf("handle %s: %w", category, err)
	}

	if r.generated {
		p.AppendHistory(domain.RoleAssistant, r.text)
	}
	if perr := a.profiles.Put(p); perr != nil {
		// Best-effort persistence: the in-memory profile served this
		// request; losing the write is not a request failure.
		a.log.Warn("profile persist failed",
			zap.String("request_id", requestID),
			zap.String("user", userID),
			zap.Error(perr))
	}
	return ChatResult{
		Reply:          r.text,
		NewIngredients: detected.Ingredients,
		NewCocktails:   detected.Cocktails,
	}, nil
}

func (a *Advisor) generate(ctx context.Context, instruction, contextText, message string, prior []domain.Message) (reply, error) {
	system := instruction + "\n\nContext:\n" + contextText
	text, err := a.generator.Generate(ctx, system, message, prior)
	if err != nil {
		return reply{}, err
	}
	return reply{text: text, generated: true}, nil
}

func (a *Advisor) ingredientQuery(ctx context.Context, message string, prior []domain.Message) (reply, error) {
	ingredients := intent.Ingredients(message)
	if len(ingredients) == 0 {
		return reply{text: clarifyIngredients}, nil
	}

	lower := strings.ToLower(message)
	nonAlcoholicOnly := strings.Contains(lower, "non-alcoholic") || strings.Contains(lower, "non alcoholic")

	matched := a.store.ContainingAll(ingredients)
	if nonAlcoholicOnly {
		filtered := matched[:0]
		for _, rec := range matched {
			if !rec.Alcoholic {
				filtered = append(filtered, rec)
			}
		}
		matched = filtered
	}

	limit := defaultLimit
	if m := limitOverrideRe.FindStringSubmatch(message); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			limit = n
		}
	}

	joined := strings.Join(ingredients, ", ")
	if len(matched) == 0 {
		return reply{text: fmt.Sprintf("I couldn't find any cocktails containing %s. Would you like to try different ingredients?", joined)}, nil
	}

	shown := limit
	if shown > len(matched) {
		shown = len(matched)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "\nFound %d cocktails containing %s.\nHere are %d of them:\n\n", len(matched), joined, shown)
	for _, rec := range matched[:shown] {
		fmt.Fprintf(&b, "- %s\n", rec.Name)
	}
	return a.generate(ctx, promptCocktailInfo, b.String(), message, prior)
}

func (a *Advisor) cocktailQuery(ctx context.Context, message string, prior []domain.Message) (reply, error) {
	name, ok := intent.CocktailName(message)
	if !ok {
		return reply{text: clarifyCocktail}, nil
	}
	rec, ok := a.store.ByName(name)
	if !ok {
		return reply{text: fmt.Sprintf("I couldn't find information about %s. Could you check the spelling or try a different cocktail?", name)}, nil
	}
	contextText := fmt.Sprintf("\nCocktail: %s\nIngredients: %s\nPreparation: %s\nGlass: %s\nGarnish: %s\n",
		rec.Name, rec.Ingredients, rec.Preparation, rec.Glass, rec.Garnish)
	return a.generate(ctx, promptCocktailInfo, contextText, message, prior)
}

func (a *Advisor) recommendation(ctx context.Context, p *profile.Profile, message string, prior []domain.Message) (reply, error) {
	lower := strings.ToLower(message)

	if strings.Contains(lower, "favorite") || strings.Contains(lower, "favourites") || strings.Contains(lower, "prefer") {
		favorites := p.FavoriteIngredients()
		if len(favorites) == 0 {
			return reply{text: askForFavorites}, nil
		}
		results, err := a.index.WithIngredients(favorites, defaultLimit)
		if err != nil {
			return reply{}, err
		}
		var b strings.Builder
		fmt.Fprintf(&b, "\nBased on your favorite ingredients (%s), here are some cocktails you might enjoy:\n\n", strings.Join(favorites, ", "))
		for _, r := range results {
			fmt.Fprintf(&b, "- %s: %s\n", r.Recipe.Name, strings.Join(r.Recipe.IngredientList, ", "))
		}
		return a.generate(ctx, promptRecommendFavorites, b.String(), message, prior)
	}

	if name, ok := intent.CocktailName(message); ok {
		results, err := a.index.SimilarTo(name, defaultLimit)
		if err != nil {
			return reply{}, err
		}
		if len(results) == 0 {
			return reply{text: fmt.Sprintf("I couldn't find %s or any similar cocktails. Could you check the spelling or try a different cocktail?", name)}, nil
		}
		var b strings.Builder
		fmt.Fprintf(&b, "\nBased on the cocktail %q, here are some similar cocktails you might enjoy:\n\n", name)
		for _, r := range results {
			if strings.EqualFold(r.Recipe.Name, name) {
				continue
			}
			fmt.Fprintf(&b, "- %s: %s\n", r.Recipe.Name, strings.Join(r.Recipe.IngredientList, ", "))
		}
		return a.generate(ctx, promptRecommendSimilar, b.String(), message, prior)
	}

	// No constraints at all: fall back to an unconstrained sample.
	var b strings.Builder
	b.WriteString("\nHere are some popular cocktail recommendations:\n\n")
	for _, rec := range a.store.Sample(defaultLimit) {
		fmt.Fprintf(&b, "- %s: %s\n", rec.Name, strings.Join(rec.IngredientList, ", "))
	}
	return a.generate(ctx, promptRecommendGeneral, b.String(), message, prior)
}

func (a *Advisor) preference(ctx context.Context, p *profile.Profile, detected profile.Detected, message string, prior []domain.Message) (reply, error) {
	lower := strings.ToLower(message)

	if strings.Contains(lower, "what are my") || strings.Contains(lower, "tell me my") {
		var b strings.Builder
		b.WriteString("Here are your preferences:\n")
		if favorites := p.FavoriteIngredients(); len(favorites) > 0 {
			fmt.Fprintf(&b, "\nFavorite ingredients: %s", strings.Join(favorites, ", "))
		} else {
			b.WriteString("\nYou haven't told me about any favorite ingredients yet.")
		}
		if favorites := p.FavoriteCocktails(); len(favorites) > 0 {
			fmt.Fprintf(&b, "\nFavorite cocktails: %s", strings.Join(favorites, ", "))
		} else {
			b.WriteString("\nYou haven't told me about any favorite cocktails yet.")
		}
		return a.generate(ctx, promptPreferenceRecall, b.String(), message, prior)
	}

	if !detected.Empty() {
		var b strings.Builder
		b.WriteString("I've updated your preferences:\n")
		if len(detected.Ingredients) > 0 {
			fmt.Fprintf(&b, "\nAdded favorite ingredients: %s", strings.Join(detected.Ingredients, ", "))
		}
		if len(detected.Cocktails) > 0 {
			fmt.Fprintf(&b, "\nAdded favorite cocktails: %s", strings.Join(detected.Cocktails, ", "))
		}
		return a.generate(ctx, promptPreferenceAck, b.String(), message, prior)
	}

	return a.general(ctx, p, message, prior)
}

func (a *Advisor) general(ctx context.Context, p *profile.Profile, message string, prior []domain.Message) (reply, error) {
	results, err := a.index.Search(message, generalTopK)
	if err != nil {
		return reply{}, err
	}
	var b strings.Builder
	b.WriteString("Here's some information that might help with your question:\n\n")
	for _, r := range results {
		fmt.Fprintf(&b, "Cocktail: %s\n", r.Recipe.Name)
		fmt.Fprintf(&b, "Ingredients: %s\n", r.Recipe.Ingredients)
		fmt.Fprintf(&b, "Preparation: %s\n", r.Recipe.Preparation)
		if r.Recipe.Garnish != "" {
			fmt.Fprintf(&b, "Garnish: %s\n", r.Recipe.Garnish)
		}
		b.WriteString("\n")
	}
	if favorites := p.FavoriteIngredients(); len(favorites) > 0 {
		fmt.Fprintf(&b, "Your favorite ingredients: %s\n", strings.Join(favorites, ", "))
	}
	return a.generate(ctx, promptGeneral, b.String(), message, prior)
}
