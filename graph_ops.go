package relato

import (
	"context"
	"errors"
	"fmt"

	"github.com/soundprediction/relato/pkg/driver"
	"github.com/soundprediction/relato/pkg/types"
)

// AddPerson creates a person, or updates the existing person of the same
// name. Nested properties are flattened before storage: nested maps join
// their keys with underscores, lists of primitives become comma-separated
// strings, and anything else is JSON-encoded.
func (c *Client) AddPerson(ctx context.Context, name string, properties map[string]any) (*types.Person, error) {
	if name == "" {
		return nil, fmt.Errorf("person name is required")
	}
	person, err := c.driver.UpsertPerson(ctx, name, types.FlattenProperties(properties))
	if err != nil {
		return nil, fmt.Errorf("failed to add person %s: %w", name, err)
	}
	return person, nil
}

// UpdatePersonProperties merges flattened properties onto an existing
// person. Returns ErrPersonNotFound when the person does not exist;
// property updates never create people.
func (c *Client) UpdatePersonProperties(ctx context.Context, name string, properties map[string]any) (*types.Person, error) {
	exists, err := c.driver.PersonExists(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to check person: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrPersonNotFound, name)
	}
	person, err := c.driver.UpsertPerson(ctx, name, types.FlattenProperties(properties))
	if err != nil {
		return nil, fmt.Errorf("failed to update person %s: %w", name, err)
	}
	return person, nil
}

// GetPerson retrieves a person by exact name with their facts, connected
// entities and related people. Returns ErrPersonNotFound.
func (c *Client) GetPerson(ctx context.Context, name string) (*types.Person, error) {
	person, err := c.driver.GetPerson(ctx, name)
	if errors.Is(err, driver.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrPersonNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get person %s: %w", name, err)
	}
	return person, nil
}

// FindPeople returns people whose name contains the given substring. This is
// a read-only lookup; it never establishes identity between people.
func (c *Client) FindPeople(ctx context.Context, partialName string) ([]*types.Person, error) {
	return c.driver.FindPeople(ctx, partialName)
}

// GetAllPeople lists every person, ordered by name.
func (c *Client) GetAllPeople(ctx context.Context) ([]*types.Person, error) {
	return c.driver.GetAllPeople(ctx)
}

// DeletePerson removes a person together with their facts and edges.
// Returns ErrPersonNotFound.
func (c *Client) DeletePerson(ctx context.Context, name string) error {
	exists, err := c.driver.PersonExists(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to check person: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: %s", ErrPersonNotFound, name)
	}
	if err := c.driver.DeletePerson(ctx, name); err != nil {
		return fmt.Errorf("failed to delete person %s: %w", name, err)
	}
	return nil
}

// GetRelationships returns a person's outgoing relationships.
func (c *Client) GetRelationships(ctx context.Context, name string) ([]*types.Relationship, error) {
	return c.driver.GetRelationships(ctx, name)
}

// Stats returns node and connection counts for the whole graph.
func (c *Client) Stats(ctx context.Context) (*types.GraphStats, error) {
	return c.driver.Stats(ctx)
}

// CreateIndices creates graph constraints and indexes, including the fact
// fulltext index. Safe to call repeatedly.
func (c *Client) CreateIndices(ctx context.Context) error {
	return c.driver.CreateIndices(ctx)
}
