package embedder

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	badger "github.com/dgraph-io/badger/v4"
)

// CachedClient wraps a Client with a persistent badger-backed cache keyed by
// (model, text). Embedding is deterministic per model version, so a hit is
// always as good as a fresh provider call.
type CachedClient struct {
	client Client
	db     *badger.DB
	model  string
	logger *slog.Logger
}

// NewCachedClient opens (or creates) the cache at path and wraps client.
func NewCachedClient(client Client, path, model string, logger *slog.Logger) (*CachedClient, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open embedding cache: %w", err)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &CachedClient{
		client: client,
		db:     db,
		model:  model,
		logger: logger,
	}, nil
}

func (c *CachedClient) cacheKey(text string) []byte {
	sum := sha256.Sum256([]byte(c.model + "\x00" + text))
	return sum[:]
}

func (c *CachedClient) get(text string) ([]float32, bool) {
	var embedding []float32
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(c.cacheKey(text))
		if err != nil {
			return err
		}
		return item.Value(func(value []byte) error {
			return json.Unmarshal(value, &embedding)
		})
	})
	if err != nil {
		if !errors.Is(err, badger.ErrKeyNotFound) {
			c.logger.Warn("embedding cache read failed", "error", err)
		}
		return nil, false
	}
	return embedding, true
}

func (c *CachedClient) put(text string, embedding []float32) {
	encoded, err := json.Marshal(embedding)
	if err != nil {
		return
	}
	if err := c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(c.cacheKey(text), encoded)
	}); err != nil {
		c.logger.Warn("embedding cache write failed", "error", err)
	}
}

// Embed implements Client, serving cached vectors where possible and calling
// the wrapped provider only for cache misses.
func (c *CachedClient) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	missing := make([]string, 0)
	missingIdx := make([]int, 0)

	for i, text := range texts {
		if cached, ok := c.get(text); ok {
			embeddings[i] = cached
			continue
		}
		missing = append(missing, text)
		missingIdx = append(missingIdx, i)
	}

	if len(missing) > 0 {
		fresh, err := c.client.Embed(ctx, missing)
		if err != nil {
			return nil, err
		}
		for j, embedding := range fresh {
			embeddings[missingIdx[j]] = embedding
			c.put(missing[j], embedding)
		}
	}

	return embeddings, nil
}

// EmbedSingle implements Client.
func (c *CachedClient) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := c.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return embeddings[0], nil
}

// Dimensions implements Client.
func (c *CachedClient) Dimensions() int {
	return c.client.Dimensions()
}

// Close closes the cache and the wrapped client.
func (c *CachedClient) Close() error {
	if err := c.db.Close(); err != nil {
		return err
	}
	return c.client.Close()
}
