package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Corpus.Path == "" || cfg.Index.Dir == "" || cfg.Profiles.Dir == "" {
		t.Fatalf("defaults not populated: %+v", cfg)
	}
	if cfg.Embedder.Type != "tfidf" {
		t.Fatalf("default embedder = %q", cfg.Embedder.Type)
	}
	if cfg.Generator.Type != "openai" {
		t.Fatalf("default generator = %q", cfg.Generator.Type)
	}
}

func TestSaveLoadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	in := &AppConfig{
		Corpus:   CorpusConfig{Path: "my/cocktails.csv"},
		Index:    IndexConfig{Dir: "my/index"},
		Profiles: ProfilesConfig{Dir: "my/profiles"},
		Embedder: EmbedderConfig{Type: "openai", OpenAI: &OpenAIEmbedderConfig{Model: "text-embedding-3-large"}},
		Generator: GeneratorConfig{Type: "gemini", Gemini: &GeminiGeneratorConfig{
			Model: "gemini-2.0-flash",
		}},
	}
	if err := Save(path, in); err != nil {
		t.Fatalf("Save: %v", err)
	}
	out, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if out.Corpus.Path != "my/cocktails.csv" || out.Index.Dir != "my/index" {
		t.Fatalf("roundtrip mismatch: %+v", out)
	}
	if out.Embedder.Type != "openai" || out.Embedder.OpenAI.Model != "text-embedding-3-large" {
		t.Fatalf("embedder roundtrip mismatch: %+v", out.Embedder)
	}
}

func TestLoadFillsPartialConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	partial := "embedder:\n  type: openai\n  openai: {}\n"
	if err := os.WriteFile(path, []byte(partial), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	oi := cfg.Embedder.OpenAI
	if oi == nil {
		t.Fatal("embedder openai section missing")
	}
	if oi.BaseURL != "https://api.openai.com/v1" || oi.APIKeyEnv != "OPENAI_API_KEY" {
		t.Fatalf("openai embedder defaults not applied: %+v", oi)
	}
	if oi.BatchSize != 32 || oi.TimeoutSecs != 30 {
		t.Fatalf("openai embedder defaults not applied: %+v", oi)
	}
	if cfg.Corpus.Path != filepath.Join("data", "cocktails.csv") {
		t.Fatalf("corpus default not applied: %q", cfg.Corpus.Path)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(":\tnot yaml"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("invalid yaml should fail")
	}
}
