package relato

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/soundprediction/relato"
	"github.com/soundprediction/relato/pkg/config"
	"github.com/soundprediction/relato/pkg/driver"
	"github.com/soundprediction/relato/pkg/embedder"
	"github.com/soundprediction/relato/pkg/extract"
	"github.com/soundprediction/relato/pkg/logger"
	"github.com/soundprediction/relato/pkg/telemetry"
)

// withEngine loads configuration, builds the engine, runs fn and closes
// everything down afterwards.
func withEngine(fn func(ctx context.Context, client *relato.Client) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	client, _, err := buildEngine(cfg)
	if err != nil {
		return err
	}
	ctx := context.Background()
	defer client.Close(ctx)
	return fn(ctx, client)
}

// newLogger builds the CLI logger: colored terminal output, with error
// records additionally persisted to Parquet when telemetry is configured.
func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Log.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	colorHandler := logger.NewColorHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	if cfg.Telemetry.ParquetPath != "" {
		parquetHandler, err := telemetry.NewParquetHandler(colorHandler, cfg.Telemetry.ParquetPath)
		if err == nil {
			return slog.New(parquetHandler)
		}
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize error tracking: %v\n", err)
	}
	return slog.New(colorHandler)
}

// buildEngine wires the graph driver, embedder and extractor into a relato
// client from loaded configuration.
func buildEngine(cfg *config.Config) (*relato.Client, *slog.Logger, error) {
	log := newLogger(cfg)

	graphDriver, err := driver.NewNeo4jDriver(cfg.Database.URI, cfg.Database.Username, cfg.Database.Password, cfg.Database.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create graph driver: %w", err)
	}

	embedderClient, err := buildEmbedder(cfg, log)
	if err != nil {
		return nil, nil, err
	}

	extractor, err := buildExtractor(cfg)
	if err != nil {
		return nil, nil, err
	}

	engineCfg := &relato.Config{
		AutoCreatePeople:    cfg.Engine.AutoCreatePeople,
		EmbeddingDimensions: cfg.Embedding.Dimensions,
		VectorWeight:        cfg.Engine.VectorWeight,
		TextWeight:          cfg.Engine.TextWeight,
		MinSimilarity:       cfg.Engine.MinSimilarity,
		CoMentionWindow:     time.Duration(cfg.Engine.CoMentionWindow) * time.Second,
		TopFactsPerPerson:   cfg.Engine.TopFactsPerPerson,
	}

	client, err := relato.NewClient(graphDriver, embedderClient, extractor, engineCfg, log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create relato client: %w", err)
	}
	return client, log, nil
}

func buildEmbedder(cfg *config.Config, log *slog.Logger) (embedder.Client, error) {
	embedderConfig := &embedder.Config{
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
	}

	var client embedder.Client
	var err error
	switch cfg.Embedding.Provider {
	case "openai":
		client = embedder.NewOpenAIClient(cfg.Embedding.APIKey, cfg.Embedding.BaseURL, embedderConfig)
	case "", "embedeverything":
		client, err = embedder.NewEmbedEverythingClient(embedderConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to create embedder: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Embedding.Provider)
	}

	if cfg.Embedding.CachePath != "" {
		client, err = embedder.NewCachedClient(client, cfg.Embedding.CachePath, cfg.Embedding.Model, log)
		if err != nil {
			return nil, fmt.Errorf("failed to open embedding cache: %w", err)
		}
	}

	if cfg.CircuitBreaker.Enabled {
		client = embedder.NewBreakerClient(client, embedder.BreakerConfig{
			MaxRequests:      cfg.CircuitBreaker.MaxRequests,
			Interval:         time.Duration(cfg.CircuitBreaker.Interval) * time.Second,
			Timeout:          time.Duration(cfg.CircuitBreaker.Timeout) * time.Second,
			ReadyToTripRatio: cfg.CircuitBreaker.ReadyToTripRatio,
		}, "embedding")
	}

	return client, nil
}

func buildExtractor(cfg *config.Config) (extract.EntityExtractor, error) {
	switch cfg.Extractor.Provider {
	case "gliner":
		labels := cfg.Extractor.Labels
		if len(labels) == 0 {
			labels = extract.DefaultEntityLabels
		}
		extractor, err := extract.NewGLiNERExtractor(cfg.Extractor.Model, labels)
		if err != nil {
			return nil, fmt.Errorf("failed to load GLiNER model: %w", err)
		}
		return extractor, nil
	case "", "heuristic":
		return extract.NewHeuristicEntityExtractor(), nil
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported extractor provider: %s", cfg.Extractor.Provider)
	}
}
