// Package types defines the shared domain types for the person knowledge
// graph: people, facts, extracted entities, inter-person relationships, and
// the scored result records produced by search.
package types
