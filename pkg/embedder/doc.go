// Package embedder provides text embedding clients used to attach semantic
// vectors to facts and queries.
//
// The Client interface has two production implementations: a local
// EmbedEverything model and the OpenAI embeddings API. Both can be wrapped
// with a circuit breaker (NewBreakerClient) and a persistent badger-backed
// cache (NewCachedClient) so repeated backfills and searches do not re-hit
// the provider for text it has already embedded.
//
// Providers are injected once at process start and passed by handle into the
// engine; there is no package-level model state.
package embedder
