package relato

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/soundprediction/relato/pkg/driver"
	"github.com/soundprediction/relato/pkg/extract"
	"github.com/soundprediction/relato/pkg/types"
)

// inferConnections runs the post-commit inference pipeline over a freshly
// stored fact: entity linking, person-mention linking, and the co-mention
// fallback. Each sub-step is best-effort; failures become warnings on the
// result and never affect the committed fact.
func (c *Client) inferConnections(ctx context.Context, fact *types.Fact, result *FactResult) {
	c.linkEntities(ctx, fact, result)

	mentioned := c.linkMentionedPeople(ctx, fact, result)

	// A relationship fact that names nobody can still connect people: the
	// counterpart fact often arrives moments earlier on the other person.
	if mentioned == 0 && fact.Category == CategoryRelationship {
		c.linkCoMentions(ctx, fact, result)
	}
}

// linkEntities extracts entity spans from the fact text and merges each into
// the graph with a CONNECTED_TO edge tagged by the originating fact.
func (c *Client) linkEntities(ctx context.Context, fact *types.Fact, result *FactResult) {
	if c.extractor == nil {
		return
	}

	spans, err := c.extractor.ExtractEntities(ctx, fact.Text)
	if err != nil {
		c.logger.Warn("entity extraction failed",
			slog.String("fact_id", fact.ID),
			slog.String("error", err.Error()))
		result.Warnings = append(result.Warnings, fmt.Sprintf("entity extraction failed: %v", err))
		return
	}

	for _, span := range spans {
		name := strings.TrimSpace(span.Text)
		if name == "" {
			continue
		}
		entity, err := c.driver.GetEntity(ctx, name, span.Label)
		if errors.Is(err, driver.ErrNotFound) {
			entity = &types.Entity{
				Name:      name,
				Type:      span.Label,
				CreatedAt: time.Now().UTC(),
			}
			err = c.driver.CreateEntity(ctx, entity)
		}
		if err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("entity %s: %v", name, err))
			continue
		}
		if err := c.driver.ConnectEntity(ctx, fact.PersonName, entity, fact.ID); err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("entity link %s: %v", name, err))
			continue
		}
		result.Entities = append(result.Entities, name)
	}
}

// linkMentionedPeople finds people named in the fact text and merges
// RELATED_TO edge pairs between them and the fact's owner. A mention is an
// identity: it resolves by exact name only, and when no such person exists
// one is created under the mentioned name. Returns the number of people
// linked.
func (c *Client) linkMentionedPeople(ctx context.Context, fact *types.Fact, result *FactResult) int {
	mentions := c.mentions.ExtractMentions(fact.Text, fact.PersonName)
	linked := 0

	for _, mention := range mentions {
		if strings.EqualFold(mention.Name, fact.PersonName) {
			continue
		}
		person, err := c.driver.GetPerson(ctx, mention.Name)
		if errors.Is(err, driver.ErrNotFound) {
			person, err = c.driver.UpsertPerson(ctx, mention.Name, nil)
		}
		if err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("mention %s: %v", mention.Name, err))
			continue
		}

		rel := &types.Relationship{
			From:      fact.PersonName,
			To:        person.Name,
			Type:      mention.Relationship,
			ViaFact:   fact.ID,
			CreatedAt: time.Now().UTC(),
		}
		if err := c.driver.MergeRelationship(ctx, rel); err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("relationship to %s: %v", person.Name, err))
			continue
		}
		result.People = append(result.People, person.Name)
		linked++
	}
	return linked
}

// linkCoMentions handles relationship facts that name nobody. When another
// person recorded an identical fact within the co-mention window, the two
// facts describe the same relationship from both sides; the edge pair is
// created with auto_detected set so downstream consumers can treat it with
// less confidence.
func (c *Client) linkCoMentions(ctx context.Context, fact *types.Fact, result *FactResult) {
	since := time.Now().UTC().Add(-c.config.CoMentionWindow)
	counterparts, err := c.driver.RecentMatchingFacts(ctx, fact.Text, fact.Category, since, fact.PersonName)
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("co-mention lookup: %v", err))
		return
	}

	relType := extract.ClassifyRelationship(fact.Text)
	for _, other := range counterparts {
		rel := &types.Relationship{
			From:         fact.PersonName,
			To:           other.PersonName,
			Type:         relType,
			ViaFact:      fact.ID,
			CreatedAt:    time.Now().UTC(),
			AutoDetected: true,
		}
		if err := c.driver.MergeRelationship(ctx, rel); err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("co-mention link %s: %v", other.PersonName, err))
			continue
		}
		result.People = append(result.People, other.PersonName)
		c.logger.Info("auto-detected relationship from co-mentioned fact",
			slog.String("from", fact.PersonName),
			slog.String("to", other.PersonName),
			slog.String("type", string(relType)))
	}
}
