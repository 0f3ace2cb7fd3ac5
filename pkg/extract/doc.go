// Package extract turns free-form fact text into structured mentions: named
// entity spans and candidate person references with a classified
// relationship.
//
// Entity extraction is pluggable behind EntityExtractor; the production
// implementation runs a GLiNER span model, and a regex-based extractor is
// available where no model can be loaded. Person-mention detection and
// relationship classification are keyword heuristics behind MentionExtractor
// so a stronger classifier can replace them without touching the graph
// mutation logic that consumes their output.
package extract
