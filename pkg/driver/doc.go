// Package driver provides graph database access for the person knowledge
// graph. It defines the GraphDriver interface consumed by the rest of the
// library and a Neo4j implementation.
//
// The driver owns the graph schema: uniqueness constraints on Person.name,
// Fact.id and (Entity.name, Entity.type), plus the fulltext index over fact
// text that backs lexical search. A driver without the fulltext index is
// still usable; FulltextSearchFacts reports ErrIndexUnavailable and callers
// fall back to a substring scan.
package driver
