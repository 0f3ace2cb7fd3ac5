// Package dto defines the request and response shapes of the HTTP API.
package dto

import (
	"errors"
	"strings"
)

// MaxFactLength bounds fact text accepted over HTTP.
const MaxFactLength = 10000

// ErrTextTooLong is returned when fact text exceeds MaxFactLength.
var ErrTextTooLong = errors.New("fact text too long")

// AddPersonRequest creates or updates a person.
type AddPersonRequest struct {
	Name       string         `json:"name" binding:"required"`
	Properties map[string]any `json:"properties,omitempty"`
}

// UpdatePersonRequest merges properties onto an existing person.
type UpdatePersonRequest struct {
	Properties map[string]any `json:"properties" binding:"required"`
}

// AddFactRequest stores a new fact for a person.
type AddFactRequest struct {
	Text     string `json:"text" binding:"required"`
	Category string `json:"category,omitempty"`
}

// Validate performs validation on AddFactRequest
func (r *AddFactRequest) Validate() error {
	if strings.TrimSpace(r.Text) == "" {
		return errors.New("text cannot be empty")
	}
	if len(r.Text) > MaxFactLength {
		return ErrTextTooLong
	}
	return nil
}

// UpdateFactRequest changes a fact's category.
type UpdateFactRequest struct {
	Category string `json:"category" binding:"required"`
}

// SearchRequest queries facts.
type SearchRequest struct {
	Query         string  `json:"query" binding:"required"`
	Strategy      string  `json:"strategy,omitempty"` // vector, text, hybrid (default)
	TopK          int     `json:"top_k,omitempty"`
	MinSimilarity float64 `json:"min_similarity,omitempty"`
	VectorWeight  float64 `json:"vector_weight,omitempty"`
	TextWeight    float64 `json:"text_weight,omitempty"`
	Person        string  `json:"person,omitempty"` // text strategy only
}

// SearchPeopleRequest queries people ranked by matching facts.
type SearchPeopleRequest struct {
	Query          string `json:"query" binding:"required"`
	TopK           int    `json:"top_k,omitempty"`
	MinFactMatches int    `json:"min_fact_matches,omitempty"`
}

// BackfillResponse reports an embedding backfill run.
type BackfillResponse struct {
	Updated int `json:"updated"`
	Failed  int `json:"failed"`
}

// DeletedResponse reports a bulk deletion.
type DeletedResponse struct {
	Deleted int64 `json:"deleted"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
