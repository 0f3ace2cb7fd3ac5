package embedder

import (
	"context"
	"time"

	"github.com/sony/gobreaker"
)

// BreakerConfig holds circuit breaker tuning for the embedding provider.
type BreakerConfig struct {
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	ReadyToTripRatio float64
}

// BreakerClient wraps a Client with circuit breaking so a failing provider
// trips fast instead of stalling every ingest and search on timeouts.
type BreakerClient struct {
	client Client
	cb     *gobreaker.CircuitBreaker
}

// NewBreakerClient creates a circuit-breaking wrapper around client.
func NewBreakerClient(client Client, cfg BreakerConfig, name string) *BreakerClient {
	if cfg.ReadyToTripRatio <= 0 {
		cfg.ReadyToTripRatio = 0.6
	}

	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= cfg.ReadyToTripRatio
		},
	}

	return &BreakerClient{
		client: client,
		cb:     gobreaker.NewCircuitBreaker(settings),
	}
}

// Embed implements Client.
func (b *BreakerClient) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	result, err := b.cb.Execute(func() (any, error) {
		return b.client.Embed(ctx, texts)
	})
	if err != nil {
		return nil, err
	}
	return result.([][]float32), nil
}

// EmbedSingle implements Client.
func (b *BreakerClient) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	result, err := b.cb.Execute(func() (any, error) {
		return b.client.EmbedSingle(ctx, text)
	})
	if err != nil {
		return nil, err
	}
	return result.([]float32), nil
}

// Dimensions implements Client.
func (b *BreakerClient) Dimensions() int {
	return b.client.Dimensions()
}

// Close implements Client.
func (b *BreakerClient) Close() error {
	return b.client.Close()
}
