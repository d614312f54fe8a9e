package domain

import (
	"context"
	"time"
)

// Recipe is a single cocktail loaded from the corpus.
type Recipe struct {
	ID          int
	Name        string
	Ingredients string
	// IngredientList holds normalized ingredient tokens derived from the raw
	// Ingredients text: quantities and parenthetical notes stripped,
	// lowercased, trimmed.
	IngredientList []string
	Garnish        string
	Preparation    string
	Glass          string
	Alcoholic      bool
	// Content is the rendered text blob that gets embedded.
	Content string
}

// SearchResult is a recipe matched by semantic search with a relevance score.
type SearchResult struct {
	Recipe Recipe
	Score  float64
}

// IngredientMatch is an ingredient token matched by semantic search.
type IngredientMatch struct {
	Ingredient string
	Score      float64
}

// Conversation roles accepted by the generation collaborator.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of a user's conversation history.
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Embedder converts batches of text into fixed-dimension vectors.
// The dimension is discovered from the first encode and fixed for the
// lifetime of any index built with it. Implementations may require a
// preparation phase over the corpus.
type Embedder interface {
	Name() string
	Prepare(corpus []string) error
	Encode(texts []string) ([][]float64, error)
	Dimension() int
}

// Generator produces a reply conditioned on a system instruction, the raw
// user input, and optional prior turns. Provider errors propagate to the
// caller; there is no retry.
type Generator interface {
	Name() string
	Generate(ctx context.Context, system, input string, history []Message) (string, error)
}
