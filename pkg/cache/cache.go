// Package cache provides byte-level caching for pipeline stages.
//
// Parsing a HURDAT2 archive, clustering, and placement are all
// deterministic, so their outputs are cached by a hash of their inputs
// and configuration. The Cache interface is storage-agnostic; FileCache
// backs the CLI, NullCache disables caching entirely.
package cache

import (
	"context"
	"time"
)

// Cache is the storage interface for pipeline stage results.
type Cache interface {
	// Get retrieves a value. The bool reports whether the key was
	// present and unexpired; a miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A zero ttl means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// Cache TTLs per stage. Parsed landfall sets are pinned to the source
// file's content hash, so they never go stale; plans and rendered
// artifacts expire so config drift cannot resurface old output
// indefinitely.
const (
	LandfallTTL = 0
	PlanTTL     = 30 * 24 * time.Hour
	ArtifactTTL = 7 * 24 * time.Hour
)

// Keyer builds cache keys for the pipeline stages. Implementations
// must be deterministic: equal inputs yield equal keys.
type Keyer interface {
	// LandfallKey keys a parsed landfall set by the source archive's
	// content hash and the filter options applied.
	LandfallKey(sourceHash string, opts LandfallKeyOpts) string

	// PlanKey keys a placement plan by the landfall set hash and the
	// full placement configuration.
	PlanKey(landfallHash string, opts PlanKeyOpts) string

	// ArtifactKey keys a rendered artifact by the plan hash and the
	// render parameters.
	ArtifactKey(planHash string, opts ArtifactKeyOpts) string
}

// LandfallKeyOpts captures everything that changes a parsed landfall
// set besides the source bytes.
type LandfallKeyOpts struct {
	MinCategory int `json:"min_category"`
}

// PlanKeyOpts captures everything that changes a plan besides the
// landfall set.
type PlanKeyOpts struct {
	// ConfigHash is the hash of the serialized placement and cluster
	// configuration.
	ConfigHash string `json:"config_hash"`
}

// ArtifactKeyOpts captures everything that changes a rendered artifact
// besides the plan.
type ArtifactKeyOpts struct {
	Format string  `json:"format"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Title  string  `json:"title"`
}

// DefaultKeyer is the standard key scheme: a stage prefix plus a
// SHA-256 over the inputs.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

func (k *DefaultKeyer) LandfallKey(sourceHash string, opts LandfallKeyOpts) string {
	return hashKey("landfalls", sourceHash, opts)
}

func (k *DefaultKeyer) PlanKey(landfallHash string, opts PlanKeyOpts) string {
	return hashKey("plan", landfallHash, opts)
}

func (k *DefaultKeyer) ArtifactKey(planHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", planHash, opts)
}

var _ Keyer = (*DefaultKeyer)(nil)
