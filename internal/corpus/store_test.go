package corpus

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

const testCSV = `Name,Ingredients,Garnish,Preparation,Glass
Mojito,"4 cl white rum, 2 cl lime juice, mint, sugar",Mint sprig,Muddle mint and build,Highball
Virgin Mojito,"non-alcoholic, lime juice, mint, soda water",Mint sprig,Build over ice,Highball
Gin Tonic,"4 cl gin, 10 cl tonic water",Lime wedge,Build,Highball
Margarita,"tequila, lime juice, triple sec",Salt rim,Shake with ice,Coupe
`

func loadTestStore(t *testing.T, csv string) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cocktails.csv")
	if err := os.WriteFile(path, []byte(csv), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := Load(path, zap.NewNop())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return s
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.csv"), zap.NewNop()); err == nil {
		t.Fatal("expected error for missing corpus file")
	}
}

func TestContainingSubstring(t *testing.T) {
	s := loadTestStore(t, testCSV)
	// "lime" is a substring of the "lime juice" token
	got := s.Containing("lime")
	want := map[string]bool{"Mojito": true, "Virgin Mojito": true, "Margarita": true}
	if len(got) != len(want) {
		t.Fatalf("Containing(lime) returned %d recipes, want %d", len(got), len(want))
	}
	for _, rec := range got {
		if !want[rec.Name] {
			t.Fatalf("Containing(lime) unexpectedly returned %q", rec.Name)
		}
	}
}

func TestContainingAllIntersection(t *testing.T) {
	s := loadTestStore(t, testCSV)
	got := s.ContainingAll([]string{"lime", "mint"})
	// Must equal the set-intersection of the individual result sets.
	if len(got) != 2 {
		t.Fatalf("ContainingAll(lime,mint) returned %d recipes, want 2", len(got))
	}
	if got[0].Name != "Mojito" || got[1].Name != "Virgin Mojito" {
		t.Fatalf("ContainingAll(lime,mint) = %q, %q", got[0].Name, got[1].Name)
	}
}

func TestContainingNormalizesQuery(t *testing.T) {
	s := loadTestStore(t, testCSV)
	if len(s.Containing(" GIN ")) != 1 {
		t.Fatal("Containing should normalize the query token")
	}
}

func TestByNameExactBeatsSubstring(t *testing.T) {
	s := loadTestStore(t, testCSV)
	rec, ok := s.ByName("mojito")
	if !ok {
		t.Fatal("ByName(mojito) found nothing")
	}
	if rec.Name != "Mojito" {
		t.Fatalf("ByName(mojito) = %q, want exact match Mojito", rec.Name)
	}
}

func TestByNameSubstringFallback(t *testing.T) {
	s := loadTestStore(t, testCSV)
	rec, ok := s.ByName("tonic")
	if !ok || rec.Name != "Gin Tonic" {
		t.Fatalf("ByName(tonic) = %q, %v", rec.Name, ok)
	}
	if _, ok := s.ByName("zzz"); ok {
		t.Fatal("ByName(zzz) should find nothing")
	}
}

func TestNonAlcoholicFlag(t *testing.T) {
	s := loadTestStore(t, testCSV)
	got := s.NonAlcoholic()
	if len(got) != 1 || got[0].Name != "Virgin Mojito" {
		t.Fatalf("NonAlcoholic() = %v", got)
	}
}

func TestColumnBackfill(t *testing.T) {
	csv := `Cocktail Name,Main Ingredients,Glass Type
Negroni,"gin, campari, sweet vermouth",Rocks
`
	s := loadTestStore(t, csv)
	rec, ok := s.ByName("Negroni")
	if !ok {
		t.Fatal("ByName(Negroni) found nothing")
	}
	if rec.Ingredients == "" || rec.Glass != "Rocks" {
		t.Fatalf("columns not backfilled: %+v", rec)
	}
	if rec.Garnish != "" || rec.Preparation != "" {
		t.Fatalf("missing columns should default to empty: %+v", rec)
	}
}

func TestSample(t *testing.T) {
	s := loadTestStore(t, testCSV)
	if got := s.Sample(2); len(got) != 2 {
		t.Fatalf("Sample(2) returned %d recipes", len(got))
	}
	if got := s.Sample(100); len(got) != s.Len() {
		t.Fatalf("Sample beyond corpus size returned %d recipes", len(got))
	}
}

func TestForEmbeddingAligned(t *testing.T) {
	s := loadTestStore(t, testCSV)
	blobs := s.ForEmbedding()
	records := s.Records()
	if len(blobs) != len(records) {
		t.Fatalf("ForEmbedding returned %d blobs for %d records", len(blobs), len(records))
	}
	for i, rec := range records {
		if blobs[i] != rec.Content {
			t.Fatalf("blob %d not aligned with record %q", i, rec.Name)
		}
	}
}

func TestAllIngredientsDistinctSorted(t *testing.T) {
	s := loadTestStore(t, testCSV)
	tokens := s.AllIngredients()
	seen := make(map[string]bool)
	prev := ""
	for _, tok := range tokens {
		if seen[tok] {
			t.Fatalf("duplicate token %q", tok)
		}
		seen[tok] = true
		if tok < prev {
			t.Fatalf("tokens not sorted: %q before %q", prev, tok)
		}
		prev = tok
	}
	if !seen["mint"] || !seen["lime juice"] {
		t.Fatalf("expected tokens missing from %v", tokens)
	}
}
