// Package cache provides the byte store backing the embedding cache.
// Embedding calls are the expensive part of a detection run; identical text
// spans recur across books (standard sleights, boilerplate effect wording),
// so cached vectors cut both latency and provider cost.
package cache

import "time"

// Store is a TTL'd byte store. Keys are expected to be filesystem-safe
// (the embedding layer uses hex digests).
type Store interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}
