package relato

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/soundprediction/relato/pkg/driver"
	"github.com/soundprediction/relato/pkg/extract"
	"github.com/soundprediction/relato/pkg/types"
)

// memoryDriver is an in-memory driver.GraphDriver for exercising the client
// without a database.
type memoryDriver struct {
	mu          sync.Mutex
	people      map[string]*types.Person
	facts       []*types.Fact
	entities    map[string]*types.Entity
	entityLinks map[string]string
	rels        map[string]*types.Relationship

	fulltextErr   error
	fulltextScore float64
	indicesMade   bool
}

func newMemoryDriver() *memoryDriver {
	return &memoryDriver{
		people:        make(map[string]*types.Person),
		entities:      make(map[string]*types.Entity),
		entityLinks:   make(map[string]string),
		rels:          make(map[string]*types.Relationship),
		fulltextScore: 1.5,
	}
}

func (m *memoryDriver) UpsertPerson(ctx context.Context, name string, properties map[string]any) (*types.Person, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	person, ok := m.people[name]
	if !ok {
		person = &types.Person{Name: name, Properties: map[string]any{}, CreatedAt: now}
		m.people[name] = person
	}
	for k, v := range properties {
		person.Properties[k] = v
	}
	person.UpdatedAt = now
	return person, nil
}

func (m *memoryDriver) GetPerson(ctx context.Context, name string) (*types.Person, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	person, ok := m.people[name]
	if !ok {
		return nil, driver.ErrNotFound
	}
	out := *person
	out.Facts = m.factsOf(name)
	return &out, nil
}

func (m *memoryDriver) PersonExists(ctx context.Context, name string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.people[name]
	return ok, nil
}

func (m *memoryDriver) FindPeople(ctx context.Context, partialName string) ([]*types.Person, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*types.Person
	for _, person := range m.people {
		if strings.Contains(person.Name, partialName) {
			out = append(out, person)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memoryDriver) GetAllPeople(ctx context.Context) ([]*types.Person, error) {
	return m.FindPeople(ctx, "")
}

func (m *memoryDriver) DeletePerson(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.people, name)
	kept := m.facts[:0]
	for _, f := range m.facts {
		if f.PersonName != name {
			kept = append(kept, f)
		}
	}
	m.facts = kept
	return nil
}

func (m *memoryDriver) CreateFact(ctx context.Context, fact *types.Fact) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *fact
	m.facts = append(m.facts, &clone)
	return nil
}

func (m *memoryDriver) factsOf(personName string) []*types.Fact {
	var out []*types.Fact
	for _, f := range m.facts {
		if f.PersonName == personName {
			out = append(out, f)
		}
	}
	return out
}

func (m *memoryDriver) ListFacts(ctx context.Context, personName string) ([]*types.Fact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.factsOf(personName), nil
}

func (m *memoryDriver) GetFactsByCategory(ctx context.Context, personName, category string) ([]*types.Fact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*types.Fact
	for _, f := range m.facts {
		if personName != "" && f.PersonName != personName {
			continue
		}
		if category != "" && f.Category != category {
			continue
		}
		out = append(out, f)
	}
	return out, nil
}

func (m *memoryDriver) FactsWithEmbeddings(ctx context.Context) ([]*types.Fact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*types.Fact
	for _, f := range m.facts {
		if f.HasEmbedding() {
			out = append(out, f)
		}
	}
	return out, nil
}

func (m *memoryDriver) FactsMissingEmbeddings(ctx context.Context) ([]*types.Fact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*types.Fact
	for _, f := range m.facts {
		if !f.HasEmbedding() {
			out = append(out, f)
		}
	}
	return out, nil
}

func (m *memoryDriver) SetFactEmbedding(ctx context.Context, factID string, embedding []float32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range m.facts {
		if f.ID == factID {
			f.Embedding = embedding
			return nil
		}
	}
	return driver.ErrNotFound
}

func (m *memoryDriver) SetFactCategory(ctx context.Context, factID, category string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range m.facts {
		if f.ID == factID {
			f.Category = category
			return nil
		}
	}
	return driver.ErrNotFound
}

func (m *memoryDriver) DeleteFact(ctx context.Context, factID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, f := range m.facts {
		if f.ID == factID {
			m.facts = append(m.facts[:i], m.facts[i+1:]...)
			return nil
		}
	}
	return driver.ErrNotFound
}

func (m *memoryDriver) DeleteAllFacts(ctx context.Context, personName string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var deleted int64
	kept := m.facts[:0]
	for _, f := range m.facts {
		if f.PersonName == personName {
			deleted++
			continue
		}
		kept = append(kept, f)
	}
	m.facts = kept
	return deleted, nil
}

func (m *memoryDriver) RecentMatchingFacts(ctx context.Context, text, category string, since time.Time, excludePerson string) ([]*types.Fact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*types.Fact
	for _, f := range m.facts {
		if f.Text != text || f.Category != category {
			continue
		}
		if f.PersonName == excludePerson || f.CreatedAt.Before(since) {
			continue
		}
		out = append(out, f)
	}
	return out, nil
}

func (m *memoryDriver) GetEntity(ctx context.Context, name, entityType string) (*types.Entity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entity, ok := m.entities[name+"|"+entityType]
	if !ok {
		return nil, driver.ErrNotFound
	}
	return entity, nil
}

func (m *memoryDriver) CreateEntity(ctx context.Context, entity *types.Entity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entities[entity.Name+"|"+entity.Type] = entity
	return nil
}

func (m *memoryDriver) ConnectEntity(ctx context.Context, personName string, entity *types.Entity, viaFactID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entityLinks[personName+"|"+entity.Name+"|"+entity.Type] = viaFactID
	return nil
}

func (m *memoryDriver) MergeRelationship(ctx context.Context, rel *types.Relationship) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	pairs := [][2]string{{rel.From, rel.To}, {rel.To, rel.From}}
	for _, pair := range pairs {
		key := fmt.Sprintf("%s|%s|%s", pair[0], pair[1], rel.Type)
		if existing, ok := m.rels[key]; ok {
			existing.LastConfirmedAt = now
			continue
		}
		m.rels[key] = &types.Relationship{
			From:         pair[0],
			To:           pair[1],
			Type:         rel.Type,
			ViaFact:      rel.ViaFact,
			CreatedAt:    rel.CreatedAt,
			AutoDetected: rel.AutoDetected,
		}
	}
	return nil
}

func (m *memoryDriver) GetRelationships(ctx context.Context, personName string) ([]*types.Relationship, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*types.Relationship
	for _, rel := range m.rels {
		if rel.From == personName {
			out = append(out, rel)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].To < out[j].To })
	return out, nil
}

func (m *memoryDriver) FulltextSearchFacts(ctx context.Context, query, personFilter string, limit int) ([]*types.ScoredFact, error) {
	if m.fulltextErr != nil {
		return nil, m.fulltextErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*types.ScoredFact
	for _, f := range m.facts {
		if personFilter != "" && f.PersonName != personFilter {
			continue
		}
		if !strings.Contains(strings.ToLower(f.Text), strings.ToLower(query)) {
			continue
		}
		out = append(out, &types.ScoredFact{Fact: f, Score: m.fulltextScore, TextScore: m.fulltextScore})
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (m *memoryDriver) ScanFacts(ctx context.Context, substring, personFilter string) ([]*types.Fact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*types.Fact
	for _, f := range m.facts {
		if personFilter != "" && f.PersonName != personFilter {
			continue
		}
		if strings.Contains(f.Text, substring) {
			out = append(out, f)
		}
	}
	return out, nil
}

func (m *memoryDriver) CreateIndices(ctx context.Context) error {
	m.indicesMade = true
	return nil
}

func (m *memoryDriver) Stats(ctx context.Context) (*types.GraphStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return &types.GraphStats{
		People:      int64(len(m.people)),
		Facts:       int64(len(m.facts)),
		Entities:    int64(len(m.entities)),
		Connections: int64(len(m.rels) + len(m.entityLinks)),
	}, nil
}

func (m *memoryDriver) Close(ctx context.Context) error { return nil }

// mapEmbedder returns a canned vector per text, a fixed default otherwise.
type mapEmbedder struct {
	dims    int
	vectors map[string][]float32
	failFor map[string]bool
	err     error
}

func newMapEmbedder(dims int) *mapEmbedder {
	return &mapEmbedder{
		dims:    dims,
		vectors: make(map[string][]float32),
		failFor: make(map[string]bool),
	}
}

func (e *mapEmbedder) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	if e.err != nil {
		return nil, e.err
	}
	if e.failFor[text] {
		return nil, fmt.Errorf("embedding unavailable for %q", text)
	}
	if v, ok := e.vectors[text]; ok {
		return v, nil
	}
	v := make([]float32, e.dims)
	v[0] = 1
	return v, nil
}

func (e *mapEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		v, err := e.EmbedSingle(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (e *mapEmbedder) Dimensions() int { return e.dims }

func (e *mapEmbedder) Close() error { return nil }

// fixedExtractor returns the same entity spans for every input.
type fixedExtractor struct {
	spans []extract.Span
	err   error
}

func (f *fixedExtractor) ExtractEntities(ctx context.Context, text string) ([]extract.Span, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.spans, nil
}

func (f *fixedExtractor) Close() error { return nil }

func factFixture(text, person string, createdAt time.Time) *types.Fact {
	return &types.Fact{
		ID:         "fact-" + strings.ReplaceAll(text, " ", "-"),
		PersonName: person,
		Text:       text,
		Category:   CategoryGeneral,
		CreatedAt:  createdAt,
	}
}

func newTestClient(t interface{ Fatalf(string, ...any) }, store *memoryDriver, emb *mapEmbedder, ext extract.EntityExtractor, config *Config) *Client {
	client, err := NewClient(store, emb, ext, config, nil)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}
