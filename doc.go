// Package relato is a person knowledge graph engine. It stores free-text
// facts about people in a property graph, embeds them for semantic search,
// and infers entity and person-to-person connections from fact text.
//
// The root package is the library facade: construct a Client from a graph
// driver, an embedding client and an entity extractor, then ingest facts and
// query them by vector similarity, fulltext match, or both.
package relato
