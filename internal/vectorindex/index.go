// Package vectorindex maintains two flat nearest-neighbor indexes over the
// recipe corpus: one over full-recipe content blobs and one over distinct
// ingredient tokens. Both are built or loaded once at startup and are
// read-only afterwards; corpus changes require an explicit full rebuild.
package vectorindex

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"barkeep/internal/corpus"
	"barkeep/internal/domain"
)

// flatIndex is a brute-force index under squared-Euclidean distance. Index
// position i is positionally aligned with entry i of its metadata list.
type flatIndex struct {
	dimension int
	vectors   [][]float64
}

func newFlatIndex(dimension int, vectors [][]float64) (*flatIndex, error) {
	if dimension <= 0 {
		return nil, fmt.Errorf("invalid index dimension %d", dimension)
	}
	for i, v := range vectors {
		if len(v) != dimension {
			return nil, fmt.Errorf("vector %d has dimension %d, want %d", i, len(v), dimension)
		}
	}
	return &flatIndex{dimension: dimension, vectors: vectors}, nil
}

// search returns up to k positions by ascending squared-Euclidean distance.
func (ix *flatIndex) search(query []float64, k int) ([]int, []float64, error) {
	if len(query) != ix.dimension {
		return nil, nil, fmt.Errorf("query dimension %d does not match index dimension %d", len(query), ix.dimension)
	}
	if k <= 0 {
		k = 5
	}
	type hit struct {
		idx  int
		dist float64
	}
	hits := make([]hit, len(ix.vectors))
	for i, v := range ix.vectors {
		hits[i] = hit{i, sqDist(v, query)}
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].dist != hits[j].dist {
			return hits[i].dist < hits[j].dist
		}
		return hits[i].idx < hits[j].idx
	})
	if k > len(hits) {
		k = len(hits)
	}
	idxs := make([]int, k)
	dists := make([]float64, k)
	for i := 0; i < k; i++ {
		idxs[i] = hits[i].idx
		dists[i] = hits[i].dist
	}
	return idxs, dists, nil
}

func sqDist(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// score converts a distance to a similarity in (0,1], strictly decreasing
// in distance.
func score(dist float64) float64 { return 1.0 / (1.0 + dist) }

// Index is the pair of recipe and ingredient indexes with their aligned
// metadata lists.
type Index struct {
	mu       sync.RWMutex
	embedder domain.Embedder
	store    *corpus.Store
	log      *zap.Logger

	recipes        *flatIndex
	recipeMeta     []domain.Recipe
	ingredients    *flatIndex
	ingredientMeta []string
}

// Open loads the persisted index pair from dir, or builds and persists it
// when absent or when rebuild is set. Mismatched artifacts fail loudly;
// load/build failure is fatal at startup for the caller.
func Open(dir string, emb domain.Embedder, store *corpus.Store, log *zap.Logger, rebuild bool) (*Index, error) {
	x := &Index{embedder: emb, store: store, log: log}

	// Preparation always runs so query-time encoding works even when the
	// persisted pair is loaded instead of rebuilt.
	tokens := store.AllIngredients()
	prep := append(store.ForEmbedding(), tokens...)
	if err := emb.Prepare(prep); err != nil {
		return nil, fmt.Errorf("prepare embedder: %w", err)
	}

	if !rebuild && artifactsPresent(dir) {
		if err := x.load(dir); err != nil {
			return nil, err
		}
		log.Info("vector indexes loaded",
			zap.String("dir", dir),
			zap.Int("recipes", len(x.recipeMeta)),
			zap.Int("ingredients", len(x.ingredientMeta)))
		return x, nil
	}

	if err := x.build(); err != nil {
		return nil, err
	}
	if err := x.persist(dir); err != nil {
		return nil, err
	}
	log.Info("vector indexes built",
		zap.String("dir", dir),
		zap.Int("recipes", len(x.recipeMeta)),
		zap.Int("ingredients", len(x.ingredientMeta)),
		zap.Int("dimension", x.recipes.dimension))
	return x, nil
}

// build embeds the whole corpus and both metadata lists from scratch. The
// rebuild is all-or-nothing; there is no incremental insert or delete.
func (x *Index) build() error {
	records := x.store.Records()
	recipeVecs, err := x.embedder.Encode(x.store.ForEmbedding())
	if err != nil {
		return fmt.Errorf("encode recipes: %w", err)
	}
	dim := x.embedder.Dimension()
	if dim == 0 && len(recipeVecs) > 0 {
		dim = len(recipeVecs[0])
	}
	x.recipes, err = newFlatIndex(dim, recipeVecs)
	if err != nil {
		return fmt.Errorf("build recipe index: %w", err)
	}
	x.recipeMeta = records

	tokens := x.store.AllIngredients()
	tokenVecs, err := x.embedder.Encode(tokens)
	if err != nil {
		return fmt.Errorf("encode ingredients: %w", err)
	}
	x.ingredients, err = newFlatIndex(dim, tokenVecs)
	if err != nil {
		return fmt.Errorf("build ingredient index: %w", err)
	}
	x.ingredientMeta = tokens
	return nil
}

// Search encodes the query text and returns up to k recipes ordered by
// descending similarity score. Positions beyond the metadata list are
// skipped.
func (x *Index) Search(text string, k int) ([]domain.SearchResult, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	vecs, err := x.embedder.Encode([]string{text})
	if err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}
	idxs, dists, err := x.recipes.search(vecs[0], k)
	if err != nil {
		return nil, err
	}
	results := make([]domain.SearchResult, 0, len(idxs))
	for i, idx := range idxs {
		if idx >= len(x.recipeMeta) {
			continue
		}
		results = append(results, domain.SearchResult{
			Recipe: x.recipeMeta[idx],
			Score:  score(dists[i]),
		})
	}
	return results, nil
}

// SearchIngredients returns up to k ingredient tokens semantically close to
// the query text.
func (x *Index) SearchIngredients(text string, k int) ([]domain.IngredientMatch, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	vecs, err := x.embedder.Encode([]string{text})
	if err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}
	idxs, dists, err := x.ingredients.search(vecs[0], k)
	if err != nil {
		return nil, err
	}
	results := make([]domain.IngredientMatch, 0, len(idxs))
	for i, idx := range idxs {
		if idx >= len(x.ingredientMeta) {
			continue
		}
		results = append(results, domain.IngredientMatch{
			Ingredient: x.ingredientMeta[idx],
			Score:      score(dists[i]),
		})
	}
	return results, nil
}

// SimilarTo looks the named recipe up in the corpus, synthesizes a
// pseudo-query from its ingredient list and searches with it. An unknown
// name yields an empty result, not an error.
func (x *Index) SimilarTo(name string, k int) ([]domain.SearchResult, error) {
	rec, ok := x.store.ByName(name)
	if !ok {
		return nil, nil
	}
	return x.Search(ingredientQuery(rec.IngredientList), k)
}

// WithIngredients searches with a pseudo-query enumerating the given
// ingredients.
func (x *Index) WithIngredients(ingredients []string, k int) ([]domain.SearchResult, error) {
	return x.Search(ingredientQuery(ingredients), k)
}

func ingredientQuery(ingredients []string) string {
	return "Cocktail with ingredients: " + strings.Join(ingredients, ", ")
}
