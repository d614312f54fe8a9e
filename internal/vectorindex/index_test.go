package vectorindex

import (
	"hash/fnv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"barkeep/internal/corpus"
)

// hashEmbedder is a deterministic bag-of-words embedder for tests: each
// lowercased word is hashed into a fixed-size bucket count. Identical texts
// always map to identical vectors.
type hashEmbedder struct{ dim int }

func (hashEmbedder) Name() string { return "hash" }

func (hashEmbedder) Prepare(texts []string) error { return nil }

func (e hashEmbedder) Dimension() int { return e.dim }

func (e hashEmbedder) Encode(texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i, t := range texts {
		v := make([]float64, e.dim)
		for _, w := range strings.Fields(strings.ToLower(t)) {
			h := fnv.New32a()
			h.Write([]byte(w))
			v[int(h.Sum32()%uint32(e.dim))]++
		}
		out[i] = v
	}
	return out, nil
}

const testCSV = `Name,Ingredients,Garnish,Preparation,Glass
Mojito,"4 cl white rum, 2 cl lime juice, mint, sugar",Mint sprig,Muddle mint and build,Highball
Virgin Mojito,"non-alcoholic, lime juice, mint, soda water",Mint sprig,Build over ice,Highball
Gin Tonic,"4 cl gin, 10 cl tonic water",Lime wedge,Build,Highball
Margarita,"tequila, lime juice, triple sec",Salt rim,Shake with ice,Coupe
`

func testStore(t *testing.T) *corpus.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cocktails.csv")
	if err := os.WriteFile(path, []byte(testCSV), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := corpus.Load(path, zap.NewNop())
	if err != nil {
		t.Fatalf("corpus load: %v", err)
	}
	return s
}

func openTestIndex(t *testing.T, dir string, rebuild bool) *Index {
	t.Helper()
	x, err := Open(dir, hashEmbedder{dim: 16}, testStore(t), zap.NewNop(), rebuild)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return x
}

func TestFlatIndexSearchOrdering(t *testing.T) {
	ix, err := newFlatIndex(2, [][]float64{
		{0, 0}, // idx 0
		{3, 4}, // idx 1, dist 25 from origin
		{1, 0}, // idx 2, dist 1
		{0, 1}, // idx 3, dist 1, tie with idx 2
	})
	if err != nil {
		t.Fatalf("newFlatIndex: %v", err)
	}
	idxs, dists, err := ix.search([]float64{0, 0}, 4)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	wantIdxs := []int{0, 2, 3, 1}
	for i, want := range wantIdxs {
		if idxs[i] != want {
			t.Fatalf("search order = %v, want %v", idxs, wantIdxs)
		}
	}
	for i := 1; i < len(dists); i++ {
		if dists[i] < dists[i-1] {
			t.Fatalf("distances not ascending: %v", dists)
		}
	}
}

func TestFlatIndexSearchClampsAndDefaults(t *testing.T) {
	ix, err := newFlatIndex(1, [][]float64{{0}, {1}, {2}})
	if err != nil {
		t.Fatal(err)
	}
	idxs, _, err := ix.search([]float64{0}, 10)
	if err != nil || len(idxs) != 3 {
		t.Fatalf("search(k=10) = %v, %v", idxs, err)
	}
	idxs, _, err = ix.search([]float64{0}, 0)
	if err != nil || len(idxs) != 3 {
		t.Fatalf("search(k=0) = %v, %v", idxs, err)
	}
	if _, _, err := ix.search([]float64{0, 0}, 1); err == nil {
		t.Fatal("dimension mismatch should error")
	}
}

func TestScoreBounds(t *testing.T) {
	if score(0) != 1.0 {
		t.Fatalf("score(0) = %v, want 1", score(0))
	}
	prev := score(0)
	for _, d := range []float64{0.5, 1, 4, 100} {
		s := score(d)
		if s <= 0 || s > 1 {
			t.Fatalf("score(%v) = %v out of (0,1]", d, s)
		}
		if s >= prev {
			t.Fatalf("score not strictly decreasing at dist %v", d)
		}
		prev = s
	}
}

func TestSearchExactContentTopHit(t *testing.T) {
	x := openTestIndex(t, t.TempDir(), false)
	rec, ok := x.store.ByName("Mojito")
	if !ok {
		t.Fatal("Mojito missing from corpus")
	}
	results, err := x.Search(rec.Content, 3)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("Search returned nothing")
	}
	if results[0].Recipe.Name != "Mojito" {
		t.Fatalf("top hit = %q, want Mojito", results[0].Recipe.Name)
	}
	if results[0].Score != 1.0 {
		t.Fatalf("identical text should score 1.0, got %v", results[0].Score)
	}
	for i := 1; i < len(results); i++ {
		if results[i].Score > results[i-1].Score {
			t.Fatalf("scores not non-increasing: %v then %v", results[i-1].Score, results[i].Score)
		}
	}
}

func TestSearchIngredients(t *testing.T) {
	x := openTestIndex(t, t.TempDir(), false)
	matches, err := x.SearchIngredients("mint", 3)
	if err != nil {
		t.Fatalf("SearchIngredients: %v", err)
	}
	if len(matches) == 0 || matches[0].Ingredient != "mint" {
		t.Fatalf("SearchIngredients(mint) = %v", matches)
	}
}

func TestSimilarToUnknownName(t *testing.T) {
	x := openTestIndex(t, t.TempDir(), false)
	results, err := x.SimilarTo("No Such Drink", 3)
	if err != nil {
		t.Fatalf("SimilarTo: %v", err)
	}
	if results != nil {
		t.Fatalf("unknown name should yield empty result, got %v", results)
	}
}

func TestWithIngredients(t *testing.T) {
	x := openTestIndex(t, t.TempDir(), false)
	results, err := x.WithIngredients([]string{"gin", "tonic water"}, 2)
	if err != nil {
		t.Fatalf("WithIngredients: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("WithIngredients returned %d results", len(results))
	}
}

func TestPersistenceRoundtrip(t *testing.T) {
	dir := t.TempDir()
	first := openTestIndex(t, dir, false)
	if !artifactsPresent(dir) {
		t.Fatal("Open should persist artifacts after build")
	}

	second := openTestIndex(t, dir, false)
	if len(second.recipeMeta) != len(first.recipeMeta) {
		t.Fatalf("loaded %d recipes, built %d", len(second.recipeMeta), len(first.recipeMeta))
	}
	rec, _ := second.store.ByName("Margarita")
	results, err := second.Search(rec.Content, 1)
	if err != nil || len(results) == 0 || results[0].Recipe.Name != "Margarita" {
		t.Fatalf("search on loaded index = %v, %v", results, err)
	}
}

func TestLoadRejectsVersionMismatch(t *testing.T) {
	dir := t.TempDir()
	openTestIndex(t, dir, false)

	var art vectorArtifact
	if err := readGob(filepath.Join(dir, recipeVectorsFile), &art); err != nil {
		t.Fatal(err)
	}
	art.Version = 99
	if err := writeGob(filepath.Join(dir, recipeVectorsFile), art); err != nil {
		t.Fatal(err)
	}

	if _, err := Open(dir, hashEmbedder{dim: 16}, testStore(t), zap.NewNop(), false); err == nil {
		t.Fatal("version mismatch should fail the load")
	}
}

func TestLoadRejectsMisalignment(t *testing.T) {
	dir := t.TempDir()
	openTestIndex(t, dir, false)

	var meta recipeMetaArtifact
	if err := readGob(filepath.Join(dir, recipeMetaFile), &meta); err != nil {
		t.Fatal(err)
	}
	meta.Recipes = meta.Recipes[:len(meta.Recipes)-1]
	if err := writeGob(filepath.Join(dir, recipeMetaFile), meta); err != nil {
		t.Fatal(err)
	}

	if _, err := Open(dir, hashEmbedder{dim: 16}, testStore(t), zap.NewNop(), false); err == nil {
		t.Fatal("vector/metadata misalignment should fail the load")
	}
}

func TestRebuildIgnoresArtifacts(t *testing.T) {
	dir := t.TempDir()
	openTestIndex(t, dir, false)

	var art vectorArtifact
	if err := readGob(filepath.Join(dir, recipeVectorsFile), &art); err != nil {
		t.Fatal(err)
	}
	art.Version = 99
	if err := writeGob(filepath.Join(dir, recipeVectorsFile), art); err != nil {
		t.Fatal(err)
	}

	// rebuild bypasses the stale artifacts and rewrites them
	x := openTestIndex(t, dir, true)
	if len(x.recipeMeta) != 4 {
		t.Fatalf("rebuilt index has %d recipes", len(x.recipeMeta))
	}
	var fresh vectorArtifact
	if err := readGob(filepath.Join(dir, recipeVectorsFile), &fresh); err != nil {
		t.Fatal(err)
	}
	if fresh.Version != formatVersion {
		t.Fatalf("rebuild left stale version %d", fresh.Version)
	}
}
