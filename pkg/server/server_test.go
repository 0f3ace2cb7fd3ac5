package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/soundprediction/relato"
	"github.com/soundprediction/relato/pkg/config"
	"github.com/soundprediction/relato/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubEngine overrides the engine methods a test cares about. Calling an
// unstubbed method panics via the embedded nil interface.
type stubEngine struct {
	relato.Engine

	addFact      func(ctx context.Context, personName, text, category string) (*relato.FactResult, error)
	getPerson    func(ctx context.Context, name string) (*types.Person, error)
	deleteFact   func(ctx context.Context, personName string, ordinal int) (*types.Fact, error)
	searchPeople func(ctx context.Context, query string, topK, minFactMatches int) ([]*types.PersonMatch, error)
	stats        func(ctx context.Context) (*types.GraphStats, error)
}

func (s *stubEngine) AddFact(ctx context.Context, personName, text, category string) (*relato.FactResult, error) {
	return s.addFact(ctx, personName, text, category)
}

func (s *stubEngine) GetPerson(ctx context.Context, name string) (*types.Person, error) {
	return s.getPerson(ctx, name)
}

func (s *stubEngine) DeleteFact(ctx context.Context, personName string, ordinal int) (*types.Fact, error) {
	return s.deleteFact(ctx, personName, ordinal)
}

func (s *stubEngine) SearchPeople(ctx context.Context, query string, topK, minFactMatches int) ([]*types.PersonMatch, error) {
	return s.searchPeople(ctx, query, topK, minFactMatches)
}

func (s *stubEngine) Stats(ctx context.Context) (*types.GraphStats, error) {
	return s.stats(ctx)
}

func newTestServer(engine relato.Engine) *Server {
	cfg := &config.Config{}
	cfg.Server.Mode = "test"
	cfg.Server.Host = "localhost"
	cfg.Server.Port = 0
	srv := New(cfg, engine, nil)
	srv.Setup()
	return srv
}

func doJSON(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	return w
}

func TestAddFactUnknownPersonIs404(t *testing.T) {
	engine := &stubEngine{
		addFact: func(ctx context.Context, personName, text, category string) (*relato.FactResult, error) {
			return nil, fmt.Errorf("%w: %s", relato.ErrPersonNotFound, personName)
		},
	}
	srv := newTestServer(engine)

	w := doJSON(t, srv, http.MethodPost, "/api/v1/people/Alice/facts", map[string]any{"text": "likes coffee"})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "person_not_found")
}

func TestAddFactRejectsEmptyText(t *testing.T) {
	srv := newTestServer(&stubEngine{})

	w := doJSON(t, srv, http.MethodPost, "/api/v1/people/Alice/facts", map[string]any{"text": ""})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAddFactCreated(t *testing.T) {
	engine := &stubEngine{
		addFact: func(ctx context.Context, personName, text, category string) (*relato.FactResult, error) {
			return &relato.FactResult{FactID: "f1", PersonName: personName}, nil
		},
	}
	srv := newTestServer(engine)

	w := doJSON(t, srv, http.MethodPost, "/api/v1/people/Alice/facts", map[string]any{"text": "likes coffee"})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "f1")
}

func TestDeleteFactOrdinalOutOfRangeIs400(t *testing.T) {
	engine := &stubEngine{
		deleteFact: func(ctx context.Context, personName string, ordinal int) (*types.Fact, error) {
			return nil, fmt.Errorf("%w: got %d, valid range is 1-2", relato.ErrOrdinalOutOfRange, ordinal)
		},
	}
	srv := newTestServer(engine)

	w := doJSON(t, srv, http.MethodDelete, "/api/v1/people/Alice/facts/9", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "fact_number_out_of_range")
}

func TestSearchRejectsUnknownStrategy(t *testing.T) {
	srv := newTestServer(&stubEngine{})

	w := doJSON(t, srv, http.MethodPost, "/api/v1/search", map[string]any{
		"query":    "coffee",
		"strategy": "telepathy",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchPeopleOK(t *testing.T) {
	engine := &stubEngine{
		searchPeople: func(ctx context.Context, query string, topK, minFactMatches int) ([]*types.PersonMatch, error) {
			return []*types.PersonMatch{{Name: "Alice", Score: 0.9, FactCount: 2}}, nil
		},
	}
	srv := newTestServer(engine)

	w := doJSON(t, srv, http.MethodPost, "/api/v1/search/people", map[string]any{"query": "coffee"})

	require.Equal(t, http.StatusOK, w.Code)
	var matches []*types.PersonMatch
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &matches))
	require.Len(t, matches, 1)
	assert.Equal(t, "Alice", matches[0].Name)
}

func TestGetPersonOK(t *testing.T) {
	engine := &stubEngine{
		getPerson: func(ctx context.Context, name string) (*types.Person, error) {
			return &types.Person{Name: name}, nil
		},
	}
	srv := newTestServer(engine)

	w := doJSON(t, srv, http.MethodGet, "/api/v1/people/Alice", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Alice")
}

func TestReadinessReportsStats(t *testing.T) {
	engine := &stubEngine{
		stats: func(ctx context.Context) (*types.GraphStats, error) {
			return &types.GraphStats{People: 3}, nil
		},
	}
	srv := newTestServer(engine)

	w := doJSON(t, srv, http.MethodGet, "/ready", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ready")
}
