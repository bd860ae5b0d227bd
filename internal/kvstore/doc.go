// Package kvstore defines the string key-value store contract the pipeline
// persists through, the deterministic key schema, and three backends:
// in-memory (tests, throwaway sessions), Redis, and Postgres.
//
// Every write is a full-value overwrite; no key is ever deleted. Single-key
// reads and writes are atomic with last-writer-wins semantics.
package kvstore
