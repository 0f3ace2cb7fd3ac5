package relato

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/soundprediction/relato/pkg/driver"
	"github.com/soundprediction/relato/pkg/embedder"
	"github.com/soundprediction/relato/pkg/extract"
	"github.com/soundprediction/relato/pkg/search"
)

var (
	// ErrPersonNotFound is returned when an operation targets a person that
	// does not exist in the graph.
	ErrPersonNotFound = errors.New("person not found")
	// ErrOrdinalOutOfRange is returned when a 1-based fact number falls
	// outside the person's fact list. The wrapping error carries the valid
	// range.
	ErrOrdinalOutOfRange = errors.New("fact number out of range")
	// ErrNoEmbeddedFacts is returned by vector search when no fact in the
	// graph carries an embedding yet.
	ErrNoEmbeddedFacts = errors.New("no facts with embeddings")
)

// Fact categories with engine-level meaning. Categories are otherwise
// free-form strings.
const (
	CategoryGeneral      = "general"
	CategoryRelationship = "relationship"
)

// Config holds configuration for the relato client.
type Config struct {
	// AutoCreatePeople makes AddFact create the owning person when absent
	// instead of returning ErrPersonNotFound. Fixed at construction.
	AutoCreatePeople bool

	// EmbeddingDimensions is the vector dimension used for the zero-vector
	// fallback when the embedding provider fails. Defaults to the
	// embedder's reported dimension.
	EmbeddingDimensions int

	// VectorWeight and TextWeight are the hybrid fusion weights used by
	// SearchPeople. They need not sum to 1.
	VectorWeight float64
	TextWeight   float64

	// MinSimilarity is the vector similarity threshold for search.
	MinSimilarity float64

	// CoMentionWindow bounds how far back the co-mention fallback looks
	// for a matching fact on another person.
	CoMentionWindow time.Duration

	// TopFactsPerPerson caps the supporting facts attached to each
	// SearchPeople result.
	TopFactsPerPerson int

	// Mentions overrides the person-mention extractor. Defaults to the
	// keyword heuristics.
	Mentions extract.MentionExtractor
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *Config {
	return &Config{
		VectorWeight:      search.DefaultVectorWeight,
		TextWeight:        search.DefaultTextWeight,
		MinSimilarity:     search.DefaultMinSimilarity,
		CoMentionWindow:   5 * time.Minute,
		TopFactsPerPerson: 3,
	}
}

// Client is the main entry point for the person knowledge graph.
type Client struct {
	driver    driver.GraphDriver
	embedder  embedder.Client
	extractor extract.EntityExtractor
	mentions  extract.MentionExtractor
	searcher  *search.Searcher
	config    *Config
	logger    *slog.Logger
}

// NewClient creates a relato client. The entity extractor may be nil, in
// which case entity linking is skipped. The logger may be nil, in which case
// slog.Default is used.
func NewClient(graphDriver driver.GraphDriver, embedderClient embedder.Client, entityExtractor extract.EntityExtractor, config *Config, logger *slog.Logger) (*Client, error) {
	if graphDriver == nil {
		return nil, fmt.Errorf("graph driver is required")
	}
	if embedderClient == nil {
		return nil, fmt.Errorf("embedder client is required")
	}
	if config == nil {
		config = DefaultConfig()
	}
	if config.VectorWeight == 0 && config.TextWeight == 0 {
		config.VectorWeight = search.DefaultVectorWeight
		config.TextWeight = search.DefaultTextWeight
	}
	if config.MinSimilarity <= 0 {
		config.MinSimilarity = search.DefaultMinSimilarity
	}
	if config.CoMentionWindow <= 0 {
		config.CoMentionWindow = 5 * time.Minute
	}
	if config.TopFactsPerPerson <= 0 {
		config.TopFactsPerPerson = 3
	}
	if config.EmbeddingDimensions <= 0 {
		config.EmbeddingDimensions = embedderClient.Dimensions()
	}
	mentions := config.Mentions
	if mentions == nil {
		mentions = extract.NewHeuristicMentions()
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		driver:    graphDriver,
		embedder:  embedderClient,
		extractor: entityExtractor,
		mentions:  mentions,
		searcher:  search.NewSearcher(graphDriver, embedderClient, logger),
		config:    config,
		logger:    logger,
	}, nil
}

// GetDriver returns the underlying graph driver
func (c *Client) GetDriver() driver.GraphDriver {
	return c.driver
}

// GetEmbedder returns the embedding client
func (c *Client) GetEmbedder() embedder.Client {
	return c.embedder
}

// Close closes the driver, embedder and extractor.
func (c *Client) Close(ctx context.Context) error {
	var errs []error
	if c.extractor != nil {
		if err := c.extractor.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close extractor: %w", err))
		}
	}
	if err := c.embedder.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close embedder: %w", err))
	}
	if err := c.driver.Close(ctx); err != nil {
		errs = append(errs, fmt.Errorf("failed to close driver: %w", err))
	}
	return errors.Join(errs...)
}
