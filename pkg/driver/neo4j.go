package driver

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/db"
	"github.com/soundprediction/relato/pkg/types"
)

// Neo4jDriver implements GraphDriver on top of a Neo4j (or Bolt-compatible)
// database.
type Neo4jDriver struct {
	client   neo4j.DriverWithContext
	database string
}

// NewNeo4jDriver creates a new Neo4j driver instance.
func NewNeo4jDriver(uri, username, password, database string) (*Neo4jDriver, error) {
	client, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}

	if database == "" {
		database = "neo4j"
	}

	return &Neo4jDriver{
		client:   client,
		database: database,
	}, nil
}

// Close releases the underlying connection pool.
func (n *Neo4jDriver) Close(ctx context.Context) error {
	return n.client.Close(ctx)
}

func (n *Neo4jDriver) session(ctx context.Context) neo4j.SessionWithContext {
	return n.client.NewSession(ctx, neo4j.SessionConfig{DatabaseName: n.database})
}

// CreateIndices creates uniqueness constraints, property indexes and the
// fulltext index over fact text. Safe to call repeatedly.
func (n *Neo4jDriver) CreateIndices(ctx context.Context) error {
	statements := []string{
		"CREATE CONSTRAINT person_name_unique IF NOT EXISTS FOR (p:Person) REQUIRE p.name IS UNIQUE",
		"CREATE CONSTRAINT fact_id_unique IF NOT EXISTS FOR (f:Fact) REQUIRE f.id IS UNIQUE",
		"CREATE CONSTRAINT entity_name_unique IF NOT EXISTS FOR (e:Entity) REQUIRE (e.name, e.type) IS UNIQUE",
		"CREATE INDEX person_name_index IF NOT EXISTS FOR (p:Person) ON (p.name)",
		"CREATE INDEX fact_type_index IF NOT EXISTS FOR (f:Fact) ON (f.type)",
		"CREATE INDEX entity_type_index IF NOT EXISTS FOR (e:Entity) ON (e.type)",
		"CREATE FULLTEXT INDEX fact_text_fulltext IF NOT EXISTS FOR (f:Fact) ON EACH [f.text]",
	}

	session := n.session(ctx)
	defer session.Close(ctx)

	for _, stmt := range statements {
		if _, err := session.Run(ctx, stmt, nil); err != nil {
			return fmt.Errorf("failed to create schema element: %w", err)
		}
	}
	return nil
}

// UpsertPerson merges a person by exact name.
func (n *Neo4jDriver) UpsertPerson(ctx context.Context, name string, properties map[string]any) (*types.Person, error) {
	props := types.FlattenProperties(properties)
	now := time.Now().Format(time.RFC3339)
	props["name"] = name
	props["created_at"] = now
	props["updated_at"] = now

	session := n.session(ctx)
	defer session.Close(ctx)

	result, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			MERGE (p:Person {name: $name})
			ON CREATE SET p = $props
			ON MATCH SET p += $props, p.created_at = coalesce(p.created_at, $now)
			RETURN p
		`
		res, err := tx.Run(ctx, query, map[string]any{
			"name":  name,
			"props": props,
			"now":   now,
		})
		if err != nil {
			return nil, err
		}
		return res.Single(ctx)
	})
	if err != nil {
		return nil, err
	}

	return personFromRecord(result.(*db.Record), "p")
}

// GetPerson retrieves a person with their facts, entities and relationships.
func (n *Neo4jDriver) GetPerson(ctx context.Context, name string) (*types.Person, error) {
	session := n.session(ctx)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			MATCH (p:Person {name: $name})
			OPTIONAL MATCH (p)-[:HAS_FACT]->(f:Fact)
			OPTIONAL MATCH (p)-[:CONNECTED_TO]->(e:Entity)
			OPTIONAL MATCH (p)-[pr:RELATED_TO]->(other:Person)
			RETURN p,
			       collect(DISTINCT f) AS facts,
			       collect(DISTINCT e) AS entities,
			       collect(DISTINCT {name: other.name, relationship: pr.relationship_type, via_fact: pr.via_fact}) AS related
		`
		res, err := tx.Run(ctx, query, map[string]any{"name": name})
		if err != nil {
			return nil, err
		}
		return res.Single(ctx)
	})
	if err != nil {
		if isNoRecords(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return personWithConnectionsFromRecord(result.(*db.Record))
}

// PersonExists reports whether a person exists by exact name.
func (n *Neo4jDriver) PersonExists(ctx context.Context, name string) (bool, error) {
	session := n.session(ctx)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `MATCH (p:Person {name: $name}) RETURN count(p) AS count`, map[string]any{"name": name})
		if err != nil {
			return nil, err
		}
		return res.Single(ctx)
	})
	if err != nil {
		return false, err
	}

	count, _ := result.(*db.Record).Get("count")
	return asInt64(count) > 0, nil
}

// FindPeople retrieves people by partial name match.
func (n *Neo4jDriver) FindPeople(ctx context.Context, partialName string) ([]*types.Person, error) {
	session := n.session(ctx)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			MATCH (p:Person)
			WHERE p.name CONTAINS $name
			RETURN p
			ORDER BY p.name
		`
		res, err := tx.Run(ctx, query, map[string]any{"name": partialName})
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return nil, err
	}

	return peopleFromRecords(result.([]*db.Record), "p")
}

// GetAllPeople lists every person ordered by name.
func (n *Neo4jDriver) GetAllPeople(ctx context.Context) ([]*types.Person, error) {
	session := n.session(ctx)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `MATCH (p:Person) RETURN p ORDER BY p.name`, nil)
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return nil, err
	}

	return peopleFromRecords(result.([]*db.Record), "p")
}

// DeletePerson removes a person and all of their edges.
func (n *Neo4jDriver) DeletePerson(ctx context.Context, name string) error {
	session := n.session(ctx)
	defer session.Close(ctx)

	result, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			MATCH (p:Person {name: $name})
			DETACH DELETE p
			RETURN count(p) AS deleted
		`
		res, err := tx.Run(ctx, query, map[string]any{"name": name})
		if err != nil {
			return nil, err
		}
		return res.Single(ctx)
	})
	if err != nil {
		return err
	}

	deleted, _ := result.(*db.Record).Get("deleted")
	if asInt64(deleted) == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateFact persists a new fact node linked to its owning person.
func (n *Neo4jDriver) CreateFact(ctx context.Context, fact *types.Fact) error {
	if fact.CreatedAt.IsZero() {
		fact.CreatedAt = time.Now()
	}

	session := n.session(ctx)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			MATCH (p:Person {name: $person_name})
			CREATE (f:Fact {
				id: $id,
				text: $text,
				type: $type,
				embedding: $embedding,
				created_at: $created_at
			})
			CREATE (p)-[:HAS_FACT]->(f)
			RETURN f.id AS id
		`
		res, err := tx.Run(ctx, query, map[string]any{
			"person_name": fact.PersonName,
			"id":          fact.ID,
			"text":        fact.Text,
			"type":        fact.Category,
			"embedding":   embeddingToAny(fact.Embedding),
			"created_at":  fact.CreatedAt.Format(time.RFC3339Nano),
		})
		if err != nil {
			return nil, err
		}
		return res.Single(ctx)
	})
	if err != nil {
		if isNoRecords(err) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// ListFacts returns a person's facts ordered by creation time.
func (n *Neo4jDriver) ListFacts(ctx context.Context, personName string) ([]*types.Fact, error) {
	session := n.session(ctx)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			MATCH (p:Person {name: $person_name})-[:HAS_FACT]->(f:Fact)
			RETURN p.name AS person_name, f
			ORDER BY f.created_at
		`
		res, err := tx.Run(ctx, query, map[string]any{"person_name": personName})
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return nil, err
	}

	return factsFromRecords(result.([]*db.Record))
}

// GetFactsByCategory returns facts filtered by person and/or category.
func (n *Neo4jDriver) GetFactsByCategory(ctx context.Context, personName, category string) ([]*types.Fact, error) {
	var where []string
	params := map[string]any{}

	if personName != "" {
		where = append(where, "p.name = $person_name")
		params["person_name"] = personName
	}
	if category != "" {
		where = append(where, "f.type = $category")
		params["category"] = category
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = "WHERE " + strings.Join(where, " AND ")
	}

	query := fmt.Sprintf(`
		MATCH (p:Person)-[:HAS_FACT]->(f:Fact)
		%s
		RETURN p.name AS person_name, f
		ORDER BY p.name, f.created_at
	`, whereClause)

	session := n.session(ctx)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return nil, err
	}

	return factsFromRecords(result.([]*db.Record))
}

// FactsWithEmbeddings returns every fact carrying an embedding.
func (n *Neo4jDriver) FactsWithEmbeddings(ctx context.Context) ([]*types.Fact, error) {
	return n.factsByEmbeddingPresence(ctx, true)
}

// FactsMissingEmbeddings returns every fact without an embedding.
func (n *Neo4jDriver) FactsMissingEmbeddings(ctx context.Context) ([]*types.Fact, error) {
	return n.factsByEmbeddingPresence(ctx, false)
}

func (n *Neo4jDriver) factsByEmbeddingPresence(ctx context.Context, present bool) ([]*types.Fact, error) {
	// All-zero vectors are failure placeholders, counted as missing so a
	// backfill can repair them.
	condition := "f.embedding IS NOT NULL AND any(x IN f.embedding WHERE x <> 0.0)"
	if !present {
		condition = "f.embedding IS NULL OR size(f.embedding) = 0 OR all(x IN f.embedding WHERE x = 0.0)"
	}

	query := fmt.Sprintf(`
		MATCH (p:Person)-[:HAS_FACT]->(f:Fact)
		WHERE %s
		RETURN p.name AS person_name, f
	`, condition)

	session := n.session(ctx)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, nil)
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return nil, err
	}

	return factsFromRecords(result.([]*db.Record))
}

// SetFactEmbedding stores an embedding on an existing fact.
func (n *Neo4jDriver) SetFactEmbedding(ctx context.Context, factID string, embedding []float32) error {
	session := n.session(ctx)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			MATCH (f:Fact {id: $id})
			SET f.embedding = $embedding, f.updated_at = $updated_at
			RETURN f.id AS id
		`
		res, err := tx.Run(ctx, query, map[string]any{
			"id":         factID,
			"embedding":  embeddingToAny(embedding),
			"updated_at": time.Now().Format(time.RFC3339Nano),
		})
		if err != nil {
			return nil, err
		}
		return res.Single(ctx)
	})
	if isNoRecords(err) {
		return ErrNotFound
	}
	return err
}

// SetFactCategory updates the category of an existing fact.
func (n *Neo4jDriver) SetFactCategory(ctx context.Context, factID, category string) error {
	session := n.session(ctx)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			MATCH (f:Fact {id: $id})
			SET f.type = $category, f.updated_at = $updated_at
			RETURN f.id AS id
		`
		res, err := tx.Run(ctx, query, map[string]any{
			"id":         factID,
			"category":   category,
			"updated_at": time.Now().Format(time.RFC3339Nano),
		})
		if err != nil {
			return nil, err
		}
		return res.Single(ctx)
	})
	if isNoRecords(err) {
		return ErrNotFound
	}
	return err
}

// DeleteFact removes a fact node and its edges by id.
func (n *Neo4jDriver) DeleteFact(ctx context.Context, factID string) error {
	session := n.session(ctx)
	defer session.Close(ctx)

	result, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			MATCH (f:Fact {id: $id})
			DETACH DELETE f
			RETURN count(f) AS deleted
		`
		res, err := tx.Run(ctx, query, map[string]any{"id": factID})
		if err != nil {
			return nil, err
		}
		return res.Single(ctx)
	})
	if err != nil {
		return err
	}

	deleted, _ := result.(*db.Record).Get("deleted")
	if asInt64(deleted) == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAllFacts removes every fact owned by a person.
func (n *Neo4jDriver) DeleteAllFacts(ctx context.Context, personName string) (int64, error) {
	session := n.session(ctx)
	defer session.Close(ctx)

	result, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			MATCH (p:Person {name: $person_name})-[:HAS_FACT]->(f:Fact)
			DETACH DELETE f
			RETURN count(f) AS deleted
		`
		res, err := tx.Run(ctx, query, map[string]any{"person_name": personName})
		if err != nil {
			return nil, err
		}
		return res.Single(ctx)
	})
	if err != nil {
		return 0, err
	}

	deleted, _ := result.(*db.Record).Get("deleted")
	return asInt64(deleted), nil
}

// RecentMatchingFacts returns identical-text, identical-category facts created
// at or after since on people other than excludePerson.
func (n *Neo4jDriver) RecentMatchingFacts(ctx context.Context, text, category string, since time.Time, excludePerson string) ([]*types.Fact, error) {
	session := n.session(ctx)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			MATCH (p:Person)-[:HAS_FACT]->(f:Fact)
			WHERE f.text = $text
			  AND f.type = $category
			  AND f.created_at >= $since
			  AND p.name <> $exclude
			RETURN p.name AS person_name, f
			ORDER BY f.created_at
		`
		res, err := tx.Run(ctx, query, map[string]any{
			"text":     text,
			"category": category,
			"since":    since.Format(time.RFC3339Nano),
			"exclude":  excludePerson,
		})
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return nil, err
	}

	return factsFromRecords(result.([]*db.Record))
}

// GetEntity retrieves an entity by its (name, type) key.
func (n *Neo4jDriver) GetEntity(ctx context.Context, name, entityType string) (*types.Entity, error) {
	session := n.session(ctx)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			MATCH (e:Entity {name: $name, type: $type})
			RETURN e
		`
		res, err := tx.Run(ctx, query, map[string]any{"name": name, "type": entityType})
		if err != nil {
			return nil, err
		}
		return res.Single(ctx)
	})
	if err != nil {
		if isNoRecords(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return entityFromRecord(result.(*db.Record), "e")
}

// CreateEntity persists a new entity node.
func (n *Neo4jDriver) CreateEntity(ctx context.Context, entity *types.Entity) error {
	if entity.CreatedAt.IsZero() {
		entity.CreatedAt = time.Now()
	}

	session := n.session(ctx)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			MERGE (e:Entity {name: $name, type: $type})
			ON CREATE SET e.created_at = $created_at
			RETURN e
		`
		res, err := tx.Run(ctx, query, map[string]any{
			"name":       entity.Name,
			"type":       entity.Type,
			"created_at": entity.CreatedAt.Format(time.RFC3339Nano),
		})
		if err != nil {
			return nil, err
		}
		return res.Single(ctx)
	})
	return err
}

// ConnectEntity merges the CONNECTED_TO edge from person to entity. The
// via_fact tag always reflects the latest mention.
func (n *Neo4jDriver) ConnectEntity(ctx context.Context, personName string, entity *types.Entity, viaFactID string) error {
	session := n.session(ctx)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			MATCH (p:Person {name: $person_name})
			MATCH (e:Entity {name: $name, type: $type})
			MERGE (p)-[c:CONNECTED_TO]->(e)
			SET c.via_fact = $via_fact
			RETURN e.name AS name
		`
		res, err := tx.Run(ctx, query, map[string]any{
			"person_name": personName,
			"name":        entity.Name,
			"type":        entity.Type,
			"via_fact":    viaFactID,
		})
		if err != nil {
			return nil, err
		}
		return res.Single(ctx)
	})
	if isNoRecords(err) {
		return ErrNotFound
	}
	return err
}

// MergeRelationship merges the bidirectional RELATED_TO edge pair keyed by
// (pair, relationship type).
func (n *Neo4jDriver) MergeRelationship(ctx context.Context, rel *types.Relationship) error {
	if rel.CreatedAt.IsZero() {
		rel.CreatedAt = time.Now()
	}

	session := n.session(ctx)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			MATCH (p1:Person {name: $from})
			MATCH (p2:Person {name: $to})
			MERGE (p1)-[r1:RELATED_TO {relationship_type: $type}]->(p2)
			ON CREATE SET r1.via_fact = $via_fact,
			              r1.created_at = $now,
			              r1.auto_detected = $auto_detected
			SET r1.last_confirmed_at = $now
			MERGE (p2)-[r2:RELATED_TO {relationship_type: $type}]->(p1)
			ON CREATE SET r2.via_fact = $via_fact,
			              r2.created_at = $now,
			              r2.auto_detected = $auto_detected
			SET r2.last_confirmed_at = $now
			RETURN p2.name AS connected
		`
		res, err := tx.Run(ctx, query, map[string]any{
			"from":          rel.From,
			"to":            rel.To,
			"type":          string(rel.Type),
			"via_fact":      rel.ViaFact,
			"auto_detected": rel.AutoDetected,
			"now":           rel.CreatedAt.Format(time.RFC3339Nano),
		})
		if err != nil {
			return nil, err
		}
		return res.Single(ctx)
	})
	if isNoRecords(err) {
		return ErrNotFound
	}
	return err
}

// GetRelationships returns the outgoing relationships of a person.
func (n *Neo4jDriver) GetRelationships(ctx context.Context, personName string) ([]*types.Relationship, error) {
	session := n.session(ctx)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			MATCH (p:Person {name: $person_name})-[r:RELATED_TO]->(other:Person)
			RETURN p.name AS from_name, other.name AS to_name,
			       r.relationship_type AS type, r.via_fact AS via_fact,
			       r.created_at AS created_at, r.last_confirmed_at AS last_confirmed_at,
			       r.auto_detected AS auto_detected
		`
		res, err := tx.Run(ctx, query, map[string]any{"person_name": personName})
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return nil, err
	}

	return relationshipsFromRecords(result.([]*db.Record))
}

// FulltextSearchFacts queries the fact_text_fulltext index.
func (n *Neo4jDriver) FulltextSearchFacts(ctx context.Context, query, personFilter string, limit int) ([]*types.ScoredFact, error) {
	cypher := `
		CALL db.index.fulltext.queryNodes('fact_text_fulltext', $query)
		YIELD node, score
		MATCH (p:Person)-[:HAS_FACT]->(node)
		RETURN p.name AS person_name, node AS f, score
		ORDER BY score DESC
		LIMIT $limit
	`
	params := map[string]any{"query": query, "limit": limit}
	if personFilter != "" {
		cypher = `
			CALL db.index.fulltext.queryNodes('fact_text_fulltext', $query)
			YIELD node, score
			MATCH (p:Person {name: $person_name})-[:HAS_FACT]->(node)
			RETURN p.name AS person_name, node AS f, score
			ORDER BY score DESC
			LIMIT $limit
		`
		params["person_name"] = personFilter
	}

	session := n.session(ctx)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, cypher, params)
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		if isIndexMissing(err) {
			return nil, ErrIndexUnavailable
		}
		return nil, err
	}

	return scoredFactsFromRecords(result.([]*db.Record))
}

// ScanFacts performs a substring CONTAINS scan over fact text.
func (n *Neo4jDriver) ScanFacts(ctx context.Context, substring, personFilter string) ([]*types.Fact, error) {
	cypher := `
		MATCH (p:Person)-[:HAS_FACT]->(f:Fact)
		WHERE f.text CONTAINS $substring
		RETURN p.name AS person_name, f
		ORDER BY f.created_at DESC
	`
	params := map[string]any{"substring": substring}
	if personFilter != "" {
		cypher = `
			MATCH (p:Person {name: $person_name})-[:HAS_FACT]->(f:Fact)
			WHERE f.text CONTAINS $substring
			RETURN p.name AS person_name, f
			ORDER BY f.created_at DESC
		`
		params["person_name"] = personFilter
	}

	session := n.session(ctx)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, cypher, params)
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return nil, err
	}

	return factsFromRecords(result.([]*db.Record))
}

// Stats returns node and connection counts.
func (n *Neo4jDriver) Stats(ctx context.Context) (*types.GraphStats, error) {
	session := n.session(ctx)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			MATCH (p:Person)
			OPTIONAL MATCH (p)-[:HAS_FACT]->(f:Fact)
			OPTIONAL MATCH (p)-[:CONNECTED_TO]->(e:Entity)
			OPTIONAL MATCH (p)-[:RELATED_TO]->(other:Person)
			RETURN count(DISTINCT p) AS people,
			       count(DISTINCT f) AS facts,
			       count(DISTINCT e) AS entities,
			       count(DISTINCT other) AS connections
		`
		res, err := tx.Run(ctx, query, nil)
		if err != nil {
			return nil, err
		}
		return res.Single(ctx)
	})
	if err != nil {
		return nil, err
	}

	record := result.(*db.Record)
	people, _ := record.Get("people")
	facts, _ := record.Get("facts")
	entities, _ := record.Get("entities")
	connections, _ := record.Get("connections")

	return &types.GraphStats{
		People:      asInt64(people),
		Facts:       asInt64(facts),
		Entities:    asInt64(entities),
		Connections: asInt64(connections),
	}, nil
}

func isNoRecords(err error) bool {
	return err != nil && strings.Contains(err.Error(), "no more records")
}

func isIndexMissing(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "no such fulltext") ||
		strings.Contains(msg, "there is no such fulltext schema index") ||
		strings.Contains(msg, "procedurenotfound") ||
		strings.Contains(msg, "index does not exist")
}
