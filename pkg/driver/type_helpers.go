package driver

import (
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j/db"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"
	"github.com/soundprediction/relato/pkg/types"
)

// Helpers converting bolt records into domain types. Node properties written
// by this driver are RFC3339 strings for timestamps and []any for embeddings;
// the helpers tolerate both string and native temporal values so graphs
// written by other tools still parse.

func asInt64(value any) int64 {
	switch v := value.(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	default:
		return 0
	}
}

func asString(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	return ""
}

func asBool(value any) bool {
	if b, ok := value.(bool); ok {
		return b
	}
	return false
}

func asTime(value any) time.Time {
	switch v := value.(type) {
	case string:
		if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
			return t
		}
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			return t
		}
	case time.Time:
		return v
	case dbtype.LocalDateTime:
		return v.Time()
	}
	return time.Time{}
}

func embeddingToAny(embedding []float32) []any {
	out := make([]any, len(embedding))
	for i, v := range embedding {
		out[i] = float64(v)
	}
	return out
}

func embeddingFromAny(value any) []float32 {
	items, ok := value.([]any)
	if !ok {
		return nil
	}
	out := make([]float32, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case float64:
			out = append(out, float32(v))
		case float32:
			out = append(out, v)
		case int64:
			out = append(out, float32(v))
		}
	}
	return out
}

func personFromNode(node dbtype.Node) *types.Person {
	person := &types.Person{
		Properties: make(map[string]any),
	}
	for key, value := range node.Props {
		switch key {
		case "name":
			person.Name = asString(value)
		case "created_at":
			person.CreatedAt = asTime(value)
		case "updated_at":
			person.UpdatedAt = asTime(value)
		default:
			person.Properties[key] = value
		}
	}
	return person
}

func factFromNode(node dbtype.Node, personName string) *types.Fact {
	fact := &types.Fact{PersonName: personName}
	for key, value := range node.Props {
		switch key {
		case "id":
			fact.ID = asString(value)
		case "text":
			fact.Text = asString(value)
		case "type":
			fact.Category = asString(value)
		case "embedding":
			fact.Embedding = embeddingFromAny(value)
		case "created_at":
			fact.CreatedAt = asTime(value)
		case "updated_at":
			fact.UpdatedAt = asTime(value)
		}
	}
	return fact
}

func entityFromNode(node dbtype.Node) *types.Entity {
	entity := &types.Entity{}
	for key, value := range node.Props {
		switch key {
		case "name":
			entity.Name = asString(value)
		case "type":
			entity.Type = asString(value)
		case "created_at":
			entity.CreatedAt = asTime(value)
		}
	}
	return entity
}

func personFromRecord(record *db.Record, key string) (*types.Person, error) {
	value, found := record.Get(key)
	if !found {
		return nil, fmt.Errorf("record is missing %q", key)
	}
	node, ok := value.(dbtype.Node)
	if !ok {
		return nil, fmt.Errorf("unexpected type for person node: %T", value)
	}
	return personFromNode(node), nil
}

func peopleFromRecords(records []*db.Record, key string) ([]*types.Person, error) {
	people := make([]*types.Person, 0, len(records))
	for _, record := range records {
		person, err := personFromRecord(record, key)
		if err != nil {
			continue
		}
		people = append(people, person)
	}
	return people, nil
}

func personWithConnectionsFromRecord(record *db.Record) (*types.Person, error) {
	person, err := personFromRecord(record, "p")
	if err != nil {
		return nil, err
	}

	if facts, found := record.Get("facts"); found {
		if items, ok := facts.([]any); ok {
			for _, item := range items {
				if node, ok := item.(dbtype.Node); ok {
					person.Facts = append(person.Facts, factFromNode(node, person.Name))
				}
			}
		}
	}

	if entities, found := record.Get("entities"); found {
		if items, ok := entities.([]any); ok {
			for _, item := range items {
				if node, ok := item.(dbtype.Node); ok {
					person.Entities = append(person.Entities, entityFromNode(node))
				}
			}
		}
	}

	if related, found := record.Get("related"); found {
		if items, ok := related.([]any); ok {
			for _, item := range items {
				entry, ok := item.(map[string]any)
				if !ok || asString(entry["name"]) == "" {
					continue
				}
				person.Related = append(person.Related, &types.Relationship{
					From:    person.Name,
					To:      asString(entry["name"]),
					Type:    types.RelationshipType(asString(entry["relationship"])),
					ViaFact: asString(entry["via_fact"]),
				})
			}
		}
	}

	return person, nil
}

func factsFromRecords(records []*db.Record) ([]*types.Fact, error) {
	facts := make([]*types.Fact, 0, len(records))
	for _, record := range records {
		value, found := record.Get("f")
		if !found {
			continue
		}
		node, ok := value.(dbtype.Node)
		if !ok {
			continue
		}
		personName, _ := record.Get("person_name")
		facts = append(facts, factFromNode(node, asString(personName)))
	}
	return facts, nil
}

func scoredFactsFromRecords(records []*db.Record) ([]*types.ScoredFact, error) {
	scored := make([]*types.ScoredFact, 0, len(records))
	for _, record := range records {
		value, found := record.Get("f")
		if !found {
			continue
		}
		node, ok := value.(dbtype.Node)
		if !ok {
			continue
		}
		personName, _ := record.Get("person_name")
		score, _ := record.Get("score")

		fact := factFromNode(node, asString(personName))
		scoreValue := 0.0
		if s, ok := score.(float64); ok {
			scoreValue = s
		}
		scored = append(scored, &types.ScoredFact{
			Fact:      fact,
			Score:     scoreValue,
			TextScore: scoreValue,
		})
	}
	return scored, nil
}

func entityFromRecord(record *db.Record, key string) (*types.Entity, error) {
	value, found := record.Get(key)
	if !found {
		return nil, fmt.Errorf("record is missing %q", key)
	}
	node, ok := value.(dbtype.Node)
	if !ok {
		return nil, fmt.Errorf("unexpected type for entity node: %T", value)
	}
	return entityFromNode(node), nil
}

func relationshipsFromRecords(records []*db.Record) ([]*types.Relationship, error) {
	rels := make([]*types.Relationship, 0, len(records))
	for _, record := range records {
		from, _ := record.Get("from_name")
		to, _ := record.Get("to_name")
		relType, _ := record.Get("type")
		viaFact, _ := record.Get("via_fact")
		createdAt, _ := record.Get("created_at")
		lastConfirmed, _ := record.Get("last_confirmed_at")
		autoDetected, _ := record.Get("auto_detected")

		rels = append(rels, &types.Relationship{
			From:            asString(from),
			To:              asString(to),
			Type:            types.RelationshipType(asString(relType)),
			ViaFact:         asString(viaFact),
			CreatedAt:       asTime(createdAt),
			LastConfirmedAt: asTime(lastConfirmed),
			AutoDetected:    asBool(autoDetected),
		})
	}
	return rels, nil
}
