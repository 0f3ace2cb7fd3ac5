package extract

import (
	"context"
	"regexp"
	"strings"
)

// HeuristicEntityExtractor is a regex-based EntityExtractor for deployments
// without a span model. It only finds the obvious cases: capitalized phrases
// after workplace and location prepositions, and phrases carrying an
// organization suffix.
type HeuristicEntityExtractor struct{}

// NewHeuristicEntityExtractor returns the regex-based extractor.
func NewHeuristicEntityExtractor() *HeuristicEntityExtractor {
	return &HeuristicEntityExtractor{}
}

const phrasePattern = `([A-Z][A-Za-z]+(?:\s+[A-Z][A-Za-z]+){0,3})`

var (
	orgAfterPattern = regexp.MustCompile(`\b(?i:works at|worked at|employed at|employed by|joined|works for)\s+` + phrasePattern)
	locAfterPattern = regexp.MustCompile(`\b(?i:lives in|moved to|born in|grew up in|visited|traveling to)\s+` + phrasePattern)
	orgSuffixes     = []string{"Inc", "Corp", "LLC", "Ltd", "University", "College", "Institute", "Hospital", "Bank"}
)

// ExtractEntities returns organization and location spans found by the cue
// patterns.
func (h *HeuristicEntityExtractor) ExtractEntities(ctx context.Context, text string) ([]Span, error) {
	seen := make(map[string]bool)
	spans := make([]Span, 0)

	add := func(phrase, label string) {
		phrase = strings.TrimSpace(phrase)
		key := strings.ToLower(phrase) + "|" + label
		if phrase == "" || seen[key] {
			return
		}
		seen[key] = true
		spans = append(spans, Span{Text: phrase, Label: label, Score: 0.5})
	}

	for _, match := range orgAfterPattern.FindAllStringSubmatch(text, -1) {
		add(match[1], "organization")
	}
	for _, match := range locAfterPattern.FindAllStringSubmatch(text, -1) {
		add(match[1], "location")
	}

	// Standalone phrases with an organization suffix.
	for _, match := range regexp.MustCompile(phrasePattern).FindAllStringSubmatch(text, -1) {
		words := strings.Fields(match[1])
		last := words[len(words)-1]
		for _, suffix := range orgSuffixes {
			if last == suffix {
				add(match[1], "organization")
			}
		}
	}

	return spans, nil
}

// Close is a no-op.
func (h *HeuristicEntityExtractor) Close() error {
	return nil
}
