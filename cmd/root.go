package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kshitizz36/BreakoutAI-AI-Agent/internal/config"
	"github.com/kshitizz36/BreakoutAI-AI-Agent/internal/extract"
	"github.com/kshitizz36/BreakoutAI-AI-Agent/internal/search"
	"github.com/kshitizz36/BreakoutAI-AI-Agent/pkg/groq"
	"github.com/kshitizz36/BreakoutAI-AI-Agent/pkg/serpapi"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "infoagent",
	Short: "Entity resolution agent",
	Long:  "Resolves entity names into structured contact profiles via web search and two-stage model extraction.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// A local .env is optional; real deployments use the environment.
		_ = godotenv.Load()

		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// stages bundles the three pipeline stages built from configuration.
type stages struct {
	Search    search.Client
	Extractor *extract.Engine
	Verifier  *extract.Verifier
}

// initStages validates credentials and wires the provider clients.
func initStages() (*stages, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	searchClient := search.New(serpapi.NewClient(cfg.SerpAPI.Key), search.Config{
		HL:           cfg.SerpAPI.HL,
		GL:           cfg.SerpAPI.GL,
		ContentLimit: cfg.Search.ContentLimit,
		FetchTimeout: time.Duration(cfg.Search.FetchTimeoutSecs) * time.Second,
		FetchRPS:     cfg.Search.FetchRPS,
	})

	invoker := extract.NewInvoker(groq.NewClient(cfg.Groq.Key, groq.WithModel(cfg.Groq.Model)), extract.InvokerConfig{
		Model:              cfg.Groq.Model,
		Temperature:        cfg.Groq.Temperature,
		MaxTokens:          cfg.Groq.MaxTokens,
		MinRequestInterval: time.Duration(cfg.Groq.MinRequestIntervalMS) * time.Millisecond,
		MaxRetries:         cfg.Groq.MaxRetries,
	})

	return &stages{
		Search:    searchClient,
		Extractor: extract.NewEngine(invoker),
		Verifier:  extract.NewVerifier(invoker),
	}, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
