// Package search implements fact retrieval over the person graph. Three
// strategies are provided: vector similarity over stored fact embeddings,
// database fulltext search with a substring-scan fallback, and a hybrid mode
// that fuses both with configurable weights.
package search
