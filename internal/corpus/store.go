package corpus

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"strings"

	"go.uber.org/zap"

	"barkeep/internal/domain"
)

// requiredColumns are backfilled from the nearest-matching column name when
// absent, or default to empty.
var requiredColumns = []string{"name", "ingredients", "garnish", "preparation", "glass"}

// nonAlcoholicMarkers mark a recipe as non-alcoholic when any of them appears
// in the raw ingredient text.
var nonAlcoholicMarkers = []string{
	"non-alcoholic", "non alcoholic", "alcohol-free", "alcohol free", "virgin",
}

// Store holds the recipe corpus in memory. It is loaded once at startup and
// treated as immutable afterwards, so reads need no locking.
type Store struct {
	records []domain.Recipe
	// byToken maps each normalized ingredient token to the ids of the
	// records carrying it, so containment queries scan distinct tokens
	// instead of the whole corpus.
	byToken map[string][]int
	log     *zap.Logger
}

// Load reads the delimited corpus file and normalizes it. A missing or
// unreadable file is a fatal startup condition for the caller.
func Load(path string, log *zap.Logger) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open corpus %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read corpus %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("corpus %s is empty", path)
	}

	header := make([]string, len(rows[0]))
	for i, col := range rows[0] {
		header[i] = strings.ToLower(strings.TrimSpace(col))
	}
	colIdx := resolveColumns(header)

	s := &Store{byToken: make(map[string][]int), log: log}
	for _, row := range rows[1:] {
		id := len(s.records)
		rec := domain.Recipe{
			ID:          id,
			Name:        cell(row, colIdx["name"]),
			Ingredients: cell(row, colIdx["ingredients"]),
			Garnish:     cell(row, colIdx["garnish"]),
			Preparation: cell(row, colIdx["preparation"]),
			Glass:       cell(row, colIdx["glass"]),
		}
		rec.Alcoholic = isAlcoholic(rec.Ingredients)
		rec.IngredientList = TokenizeIngredients(rec.Ingredients)
		rec.Content = renderContent(rec)
		s.records = append(s.records, rec)

		seen := make(map[string]struct{}, len(rec.IngredientList))
		for _, tok := range rec.IngredientList {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			s.byToken[tok] = append(s.byToken[tok], id)
		}
	}
	log.Info("corpus loaded",
		zap.String("path", path),
		zap.Int("recipes", len(s.records)),
		zap.Int("distinct_ingredients", len(s.byToken)))
	return s, nil
}

// resolveColumns maps each required column to its index in the header,
// falling back to the first header containing the required name as a
// substring. Missing columns map to -1 (empty values).
func resolveColumns(header []string) map[string]int {
	idx := make(map[string]int, len(requiredColumns))
	for _, want := range requiredColumns {
		idx[want] = -1
		for i, got := range header {
			if got == want {
				idx[want] = i
				break
			}
		}
		if idx[want] >= 0 {
			continue
		}
		for i, got := range header {
			if strings.Contains(got, want) {
				idx[want] = i
				break
			}
		}
	}
	return idx
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func isAlcoholic(ingredients string) bool {
	lower := strings.ToLower(ingredients)
	for _, marker := range nonAlcoholicMarkers {
		if strings.Contains(lower, marker) {
			return false
		}
	}
	return true
}

func renderContent(r domain.Recipe) string {
	return fmt.Sprintf("Cocktail: %s\nIngredients: %s\nGarnish: %s\nPreparation: %s\nGlass: %s\n",
		r.Name, r.Ingredients, r.Garnish, r.Preparation, r.Glass)
}

// Len returns the number of recipes in the corpus.
func (s *Store) Len() int { return len(s.records) }

// Records returns all recipes in corpus order.
func (s *Store) Records() []domain.Recipe { return s.records }

// Containing returns all recipes whose normalized token list has any token
// containing the normalized query as a substring, in corpus order.
func (s *Store) Containing(ingredient string) []domain.Recipe {
	q := NormalizeToken(ingredient)
	if q == "" {
		return nil
	}
	ids := make(map[int]struct{})
	for tok, recIDs := range s.byToken {
		if !strings.Contains(tok, q) {
			continue
		}
		for _, id := range recIDs {
			ids[id] = struct{}{}
		}
	}
	return s.collect(ids)
}

// ContainingAll intersects the per-ingredient result sets: a recipe matches
// only if it matches every ingredient.
func (s *Store) ContainingAll(ingredients []string) []domain.Recipe {
	if len(ingredients) == 0 {
		return nil
	}
	var ids map[int]struct{}
	for _, ing := range ingredients {
		matched := make(map[int]struct{})
		for _, rec := range s.Containing(ing) {
			matched[rec.ID] = struct{}{}
		}
		if ids == nil {
			ids = matched
			continue
		}
		for id := range ids {
			if _, ok := matched[id]; !ok {
				delete(ids, id)
			}
		}
	}
	return s.collect(ids)
}

// ByName looks a recipe up case-insensitively: exact match first, then the
// first substring match in corpus order. With multiple substring candidates
// the first wins; there is no relevance ranking.
func (s *Store) ByName(name string) (domain.Recipe, bool) {
	q := strings.ToLower(strings.TrimSpace(name))
	if q == "" {
		return domain.Recipe{}, false
	}
	for _, rec := range s.records {
		if strings.ToLower(rec.Name) == q {
			return rec, true
		}
	}
	for _, rec := range s.records {
		if strings.Contains(strings.ToLower(rec.Name), q) {
			return rec, true
		}
	}
	return domain.Recipe{}, false
}

// NonAlcoholic returns every recipe whose alcoholic flag is false.
func (s *Store) NonAlcoholic() []domain.Recipe {
	var out []domain.Recipe
	for _, rec := range s.records {
		if !rec.Alcoholic {
			out = append(out, rec)
		}
	}
	return out
}

// Sample returns up to n distinct recipes in random order.
func (s *Store) Sample(n int) []domain.Recipe {
	if n >= len(s.records) {
		out := make([]domain.Recipe, len(s.records))
		copy(out, s.records)
		rand.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
		return out
	}
	perm := rand.Perm(len(s.records))
	out := make([]domain.Recipe, 0, n)
	for _, i := range perm[:n] {
		out = append(out, s.records[i])
	}
	return out
}

// ForEmbedding returns the rendered content blob of every recipe in corpus
// order, positionally aligned with Records.
func (s *Store) ForEmbedding() []string {
	out := make([]string, len(s.records))
	for i, rec := range s.records {
		out[i] = rec.Content
	}
	return out
}

// AllIngredients returns the distinct normalized ingredient tokens of the
// corpus in a stable order.
func (s *Store) AllIngredients() []string {
	out := make([]string, 0, len(s.byToken))
	for tok := range s.byToken {
		out = append(out, tok)
	}
	sort.Strings(out)
	return out
}

func (s *Store) collect(ids map[int]struct{}) []domain.Recipe {
	if len(ids) == 0 {
		return nil
	}
	ordered := make([]int, 0, len(ids))
	for id := range ids {
		ordered = append(ordered, id)
	}
	sort.Ints(ordered)
	out := make([]domain.Recipe, 0, len(ordered))
	for _, id := range ordered {
		out = append(out, s.records[id])
	}
	return out
}
