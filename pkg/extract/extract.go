package extract

import (
	"context"

	"github.com/soundprediction/relato/pkg/types"
)

// Span is a named entity found in text.
type Span struct {
	Text  string
	Label string
	Score float32
}

// DefaultEntityLabels are the span categories requested from the extractor.
var DefaultEntityLabels = []string{
	"organization",
	"location",
	"product",
	"event",
	"interest",
}

// EntityExtractor maps text to named entity spans.
type EntityExtractor interface {
	// ExtractEntities returns the entity spans found in text.
	ExtractEntities(ctx context.Context, text string) ([]Span, error)

	// Close releases any model resources.
	Close() error
}

// Mention is a candidate person reference found in fact text, with the
// relationship classified from surrounding keywords.
type Mention struct {
	Name         string
	Relationship types.RelationshipType
}

// MentionExtractor finds candidate person mentions in fact text.
type MentionExtractor interface {
	// ExtractMentions returns the people mentioned in text, excluding
	// owner (the person the fact belongs to).
	ExtractMentions(text, owner string) []Mention
}
