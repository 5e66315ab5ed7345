// Package cache stores computed placement results.
//
// Results are pure functions of a scene, so they can be cached by a hash of
// the scene's canonical JSON. Three backends implement [Cache]:
//   - [NullCache]: never stores anything
//   - [FileCache]: one JSON file per entry, for the CLI
//   - [RedisCache]: shared cache for the HTTP service
//
// Keys are built by a [Keyer] so that the service can scope them per
// deployment with [NewScopedKeyer].
package cache

import (
	"context"
	"time"
)

// DefaultTTL is the lifetime of cached results.
const DefaultTTL = 24 * time.Hour

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the value and true on a hit. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data for ttl. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// keyVersion is bumped whenever the encoding of cached results changes.
const keyVersion = "v1"

// Keyer builds cache keys.
type Keyer interface {
	// ResultKey keys a single resolved scene.
	ResultKey(sceneHash string) string

	// SweepKey keys a scroll sweep of a scene.
	SweepKey(sceneHash string, opts SweepKeyOpts) string
}

// SweepKeyOpts are the sweep parameters that affect the result.
type SweepKeyOpts struct {
	Axis string  `json:"axis"`
	Step float64 `json:"step"`
	From float64 `json:"from"`
	To   float64 `json:"to"`
}

// DefaultKeyer builds unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ResultKey implements Keyer.
func (DefaultKeyer) ResultKey(sceneHash string) string {
	return hashKey("result", keyVersion, sceneHash)
}

// SweepKey implements Keyer.
func (DefaultKeyer) SweepKey(sceneHash string, opts SweepKeyOpts) string {
	return hashKey("sweep", keyVersion, sceneHash, opts)
}
