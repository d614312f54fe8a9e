package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"barkeep/internal/config"
	"barkeep/internal/corpus"
	"barkeep/internal/domain"
	embopenai "barkeep/internal/embedding/openai"
	"barkeep/internal/embedding/tfidf"
	"barkeep/internal/llm/gemini"
	llmopenai "barkeep/internal/llm/openai"
	"barkeep/internal/profile"
	"barkeep/internal/service"
	"barkeep/internal/tui"
	"barkeep/internal/vectorindex"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	var userID string
	var rebuild bool
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/barkeep/config.yaml if not provided)")
	flag.StringVar(&userID, "user", "default_user", "User id for preferences and history")
	flag.BoolVar(&rebuild, "rebuild", false, "Rebuild the vector indexes even if persisted artifacts exist")
	flag.Parse()

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()

	// Initialization order matters: CorpusStore first, then VectorIndex,
	// then the orchestrator.
	store, err := corpus.Load(cfg.Corpus.Path, logger)
	if err != nil {
		log.Fatalf("corpus load failed: %v", err)
	}

	var emb domain.Embedder
	switch cfg.Embedder.Type {
	case "tfidf", "":
		emb = tfidf.NewEmbedder()
	case "openai":
		if cfg.Embedder.OpenAI == nil {
			log.Fatalf("openai embedder config missing")
		}
		client, err := embopenai.NewClient(embopenai.Config{
			BaseURL:   cfg.Embedder.OpenAI.BaseURL,
			APIKeyEnv: cfg.Embedder.OpenAI.APIKeyEnv,
			Model:     cfg.Embedder.OpenAI.Model,
			BatchSize: cfg.Embedder.OpenAI.BatchSize,
			Timeout:   time.Duration(cfg.Embedder.OpenAI.TimeoutSecs) * time.Second,
		})
		if err != nil {
			log.Fatalf("openai embedder init failed: %v", err)
		}
		emb = client
	default:
		log.Fatalf("unknown embedder: %s", cfg.Embedder.Type)
	}

	index, err := vectorindex.Open(cfg.Index.Dir, emb, store, logger, rebuild)
	if err != nil {
		log.Fatalf("vector index init failed: %v", err)
	}

	var gen domain.Generator
	switch cfg.Generator.Type {
	case "openai", "":
		if cfg.Generator.OpenAI == nil {
			log.Fatalf("openai generator config missing")
		}
		client, err := llmopenai.NewClient(llmopenai.Config{
			BaseURL:     cfg.Generator.OpenAI.BaseURL,
			APIKeyEnv:   cfg.Generator.OpenAI.APIKeyEnv,
			Model:       cfg.Generator.OpenAI.Model,
			Temperature: cfg.Generator.OpenAI.Temperature,
			MaxTokens:   cfg.Generator.OpenAI.MaxTokens,
			Timeout:     time.Duration(cfg.Generator.OpenAI.TimeoutSecs) * time.Second,
		})
		if err != nil {
			log.Fatalf("openai generator init failed: %v", err)
		}
		gen = client
	case "gemini":
		if cfg.Generator.Gemini == nil {
			log.Fatalf("gemini generator config missing")
		}
		client, err := gemini.NewClient(context.Background(), os.Getenv(cfg.Generator.Gemini.APIKeyEnv), cfg.Generator.Gemini.Model)
		if err != nil {
			log.Fatalf("gemini generator init failed: %v", err)
		}
		gen = client
	default:
		log.Fatalf("unknown generator: %s", cfg.Generator.Type)
	}

	profiles, err := profile.NewStore(cfg.Profiles.Dir, logger)
	if err != nil {
		log.Fatalf("profile store init failed: %v", err)
	}

	advisor := service.New(store, index, profiles, gen, logger)

	m := tui.New(advisor, userID)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		log.Fatal(err)
	}
}
