package tfidf

import (
	"math"
	"testing"
)

var sampleCorpus = []string{
	"Cocktail: Mojito Ingredients: white rum, lime juice, mint, sugar",
	"Cocktail: Gin Tonic Ingredients: gin, tonic water",
	"Cocktail: Margarita Ingredients: tequila, lime juice, triple sec",
}

func preparedEmbedder(t *testing.T) *Embedder {
	t.Helper()
	e := NewEmbedder()
	if err := e.Prepare(sampleCorpus); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	return e
}

func TestEncodeBeforePrepare(t *testing.T) {
	e := NewEmbedder()
	if _, err := e.Encode([]string{"mint"}); err == nil {
		t.Fatal("Encode before Prepare should error")
	}
}

func TestPrepareEmptyCorpus(t *testing.T) {
	e := NewEmbedder()
	if err := e.Prepare(nil); err == nil {
		t.Fatal("empty corpus should error")
	}
}

func TestDimensionFixedAfterPrepare(t *testing.T) {
	e := preparedEmbedder(t)
	if e.Dimension() == 0 {
		t.Fatal("dimension should be set after Prepare")
	}
	vecs, err := e.Encode([]string{"mint", "something entirely different"})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	for i, v := range vecs {
		if len(v) != e.Dimension() {
			t.Fatalf("vector %d has length %d, want %d", i, len(v), e.Dimension())
		}
	}
}

func TestEncodeDeterministic(t *testing.T) {
	e := preparedEmbedder(t)
	a, err := e.Encode([]string{"lime juice and mint"})
	if err != nil {
		t.Fatal(err)
	}
	b, err := e.Encode([]string{"lime juice and mint"})
	if err != nil {
		t.Fatal(err)
	}
	for i := range a[0] {
		if a[0][i] != b[0][i] {
			t.Fatalf("encoding not deterministic at component %d", i)
		}
	}
}

func TestEncodeUnitNorm(t *testing.T) {
	e := preparedEmbedder(t)
	vecs, err := e.Encode([]string{"gin and tonic water"})
	if err != nil {
		t.Fatal(err)
	}
	norm := 0.0
	for _, v := range vecs[0] {
		norm += v * v
	}
	if math.Abs(math.Sqrt(norm)-1.0) > 1e-9 {
		t.Fatalf("vector norm = %v, want 1", math.Sqrt(norm))
	}
}

func TestEncodeOutOfVocabulary(t *testing.T) {
	e := preparedEmbedder(t)
	vecs, err := e.Encode([]string{"xylophone quartz"})
	if err != nil {
		t.Fatal(err)
	}
	for _, v := range vecs[0] {
		if v != 0 {
			t.Fatal("out-of-vocabulary text should embed to the zero vector")
		}
	}
}

func TestStopwordsIgnored(t *testing.T) {
	e := preparedEmbedder(t)
	a, _ := e.Encode([]string{"mint"})
	b, _ := e.Encode([]string{"the mint"})
	for i := range a[0] {
		if a[0][i] != b[0][i] {
			t.Fatal("stopwords should not affect the embedding")
		}
	}
}
