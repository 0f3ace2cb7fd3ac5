package relato

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/soundprediction/relato/pkg/embedder"
	"github.com/soundprediction/relato/pkg/types"
)

// FactResult reports what a single AddFact call did. Inference sub-steps are
// best-effort: their failures land in Warnings and never undo the fact.
type FactResult struct {
	FactID        string   `json:"fact_id"`
	PersonName    string   `json:"person_name"`
	PersonCreated bool     `json:"person_created,omitempty"`
	Entities      []string `json:"entities,omitempty"`
	People        []string `json:"people,omitempty"`
	Warnings      []string `json:"warnings,omitempty"`
}

// AddFact stores a new fact for a person and runs connection inference over
// its text. The fact is committed before inference runs; inference failures
// are reported as warnings on the result.
//
// When the person does not exist, behavior depends on the AutoCreatePeople
// option: the person is either created or the call fails with
// ErrPersonNotFound. A failed embedding call stores a zero vector so the fact
// is never lost; BackfillEmbeddings repairs it later.
func (c *Client) AddFact(ctx context.Context, personName, text, category string) (*FactResult, error) {
	if category == "" {
		category = CategoryGeneral
	}

	result := &FactResult{PersonName: personName}

	exists, err := c.driver.PersonExists(ctx, personName)
	if err != nil {
		return nil, fmt.Errorf("failed to check person: %w", err)
	}
	if !exists {
		if !c.config.AutoCreatePeople {
			return nil, fmt.Errorf("%w: %s", ErrPersonNotFound, personName)
		}
		if _, err := c.driver.UpsertPerson(ctx, personName, nil); err != nil {
			return nil, fmt.Errorf("failed to create person %s: %w", personName, err)
		}
		result.PersonCreated = true
	}

	embedding, err := c.embedder.EmbedSingle(ctx, text)
	if err != nil {
		c.logger.Warn("embedding failed, storing zero vector",
			slog.String("person", personName),
			slog.String("error", err.Error()))
		embedding = embedder.ZeroVector(c.config.EmbeddingDimensions)
		result.Warnings = append(result.Warnings, fmt.Sprintf("embedding failed: %v", err))
	}

	fact := &types.Fact{
		ID:         uuid.NewString(),
		PersonName: personName,
		Text:       text,
		Category:   category,
		Embedding:  embedding,
		CreatedAt:  time.Now().UTC(),
	}
	if err := c.driver.CreateFact(ctx, fact); err != nil {
		return nil, fmt.Errorf("failed to store fact: %w", err)
	}
	result.FactID = fact.ID

	c.inferConnections(ctx, fact, result)
	return result, nil
}

// BackfillEmbeddings computes embeddings for every fact missing one. Failures
// are isolated per fact: one bad embedding call never aborts the run.
func (c *Client) BackfillEmbeddings(ctx context.Context) (updated, failed int, err error) {
	facts, err := c.driver.FactsMissingEmbeddings(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to list facts missing embeddings: %w", err)
	}

	for _, fact := range facts {
		embedding, embedErr := c.embedder.EmbedSingle(ctx, fact.Text)
		if embedErr != nil {
			c.logger.Warn("backfill embedding failed",
				slog.String("fact_id", fact.ID),
				slog.String("error", embedErr.Error()))
			failed++
			continue
		}
		if setErr := c.driver.SetFactEmbedding(ctx, fact.ID, embedding); setErr != nil {
			c.logger.Warn("backfill store failed",
				slog.String("fact_id", fact.ID),
				slog.String("error", setErr.Error()))
			failed++
			continue
		}
		updated++
	}

	c.logger.Info("embedding backfill complete",
		slog.Int("updated", updated),
		slog.Int("failed", failed))
	return updated, failed, nil
}

// DeleteFact removes a person's fact by its 1-based position in the fact
// list ordered by creation time. The deleted fact is returned. Positions
// shift down after a deletion.
func (c *Client) DeleteFact(ctx context.Context, personName string, ordinal int) (*types.Fact, error) {
	fact, err := c.factByOrdinal(ctx, personName, ordinal)
	if err != nil {
		return nil, err
	}
	if err := c.driver.DeleteFact(ctx, fact.ID); err != nil {
		return nil, fmt.Errorf("failed to delete fact: %w", err)
	}
	return fact, nil
}

// DeleteAllFacts removes every fact a person owns, keeping the person node.
// Returns the number of facts deleted.
func (c *Client) DeleteAllFacts(ctx context.Context, personName string) (int64, error) {
	exists, err := c.driver.PersonExists(ctx, personName)
	if err != nil {
		return 0, fmt.Errorf("failed to check person: %w", err)
	}
	if !exists {
		return 0, fmt.Errorf("%w: %s", ErrPersonNotFound, personName)
	}
	deleted, err := c.driver.DeleteAllFacts(ctx, personName)
	if err != nil {
		return 0, fmt.Errorf("failed to delete facts: %w", err)
	}
	return deleted, nil
}

// UpdateFactCategory changes the category of a person's fact, addressed by
// its 1-based position. Fact text is immutable; the category is the only
// mutable attribute.
func (c *Client) UpdateFactCategory(ctx context.Context, personName string, ordinal int, newCategory string) (*types.Fact, error) {
	fact, err := c.factByOrdinal(ctx, personName, ordinal)
	if err != nil {
		return nil, err
	}
	if err := c.driver.SetFactCategory(ctx, fact.ID, newCategory); err != nil {
		return nil, fmt.Errorf("failed to update fact category: %w", err)
	}
	fact.Category = newCategory
	return fact, nil
}

// GetFacts returns a person's facts ordered by creation time.
func (c *Client) GetFacts(ctx context.Context, personName string) ([]*types.Fact, error) {
	exists, err := c.driver.PersonExists(ctx, personName)
	if err != nil {
		return nil, fmt.Errorf("failed to check person: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrPersonNotFound, personName)
	}
	return c.driver.ListFacts(ctx, personName)
}

// GetFactsByCategory returns facts filtered by person and/or category. Empty
// arguments match everything.
func (c *Client) GetFactsByCategory(ctx context.Context, personName, category string) ([]*types.Fact, error) {
	return c.driver.GetFactsByCategory(ctx, personName, category)
}

// factByOrdinal resolves a 1-based fact position over the person's facts
// ordered by creation time.
func (c *Client) factByOrdinal(ctx context.Context, personName string, ordinal int) (*types.Fact, error) {
	exists, err := c.driver.PersonExists(ctx, personName)
	if err != nil {
		return nil, fmt.Errorf("failed to check person: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrPersonNotFound, personName)
	}

	facts, err := c.driver.ListFacts(ctx, personName)
	if err != nil {
		return nil, fmt.Errorf("failed to list facts: %w", err)
	}
	if ordinal < 1 || ordinal > len(facts) {
		return nil, fmt.Errorf("%w: got %d, valid range is 1-%d", ErrOrdinalOutOfRange, ordinal, len(facts))
	}
	return facts[ordinal-1], nil
}
