package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/soundprediction/go-gline-rs/pkg/gline"
)

// GLiNERExtractor implements EntityExtractor with a GLiNER span model. The
// model is loaded once and shared; Predict is serialized with a mutex because
// the underlying runtime is not reentrant.
type GLiNERExtractor struct {
	model  *gline.Model
	labels []string
	mu     sync.Mutex
}

// NewGLiNERExtractor loads a GLiNER span model from a local directory or a
// Hugging Face model id. labels may be nil for DefaultEntityLabels.
func NewGLiNERExtractor(modelID string, labels []string) (*GLiNERExtractor, error) {
	if err := gline.Init(); err != nil {
		return nil, fmt.Errorf("failed to init gline: %w", err)
	}

	if len(labels) == 0 {
		labels = DefaultEntityLabels
	}

	if _, err := os.Stat(modelID); err == nil {
		modelPath := filepath.Join(modelID, "model.onnx")
		tokPath := filepath.Join(modelID, "tokenizer.json")
		model, err := gline.NewSpanModel(modelPath, tokPath)
		if err != nil {
			return nil, err
		}
		return &GLiNERExtractor{model: model, labels: labels}, nil
	}

	model, err := gline.NewSpanModelFromHF(modelID)
	if err != nil {
		return nil, err
	}
	return &GLiNERExtractor{model: model, labels: labels}, nil
}

// ExtractEntities returns the entity spans found in text.
func (g *GLiNERExtractor) ExtractEntities(ctx context.Context, text string) ([]Span, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	results, err := g.model.Predict([]string{text}, g.labels)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return []Span{}, nil
	}

	spans := make([]Span, 0, len(results[0]))
	for _, e := range results[0] {
		spans = append(spans, Span{
			Text:  e.Text,
			Label: e.Label,
			Score: e.Probability,
		})
	}
	return spans, nil
}

// Close releases the model.
func (g *GLiNERExtractor) Close() error {
	if g.model != nil {
		g.model.Close()
	}
	return nil
}
