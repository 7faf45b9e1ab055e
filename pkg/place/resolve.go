package place

import (
	"github.com/stormlabel/stormlabel/pkg/errors"
	"github.com/stormlabel/stormlabel/pkg/geo"
	"github.com/stormlabel/stormlabel/pkg/label"
)

// Default resolver parameters.
const (
	DefaultMaxRetries = 5
	DefaultStep       = 1.5
)

// Resolver searches for a collision-free anchor near a heuristic
// candidate. The search is bounded and deterministic: a fixed sequence
// of displacements biased along the preferred direction, with
// perpendicular variants as a secondary axis.
type Resolver struct {
	// MaxRetries is the number of displaced positions tried after the
	// initial anchor. Zero means any collision at the initial anchor is
	// immediately reported unresolved, with no displacement attempted.
	MaxRetries int `json:"max_retries" toml:"max_retries"`

	// Step is the displacement distance per search ring, in map units.
	Step float64 `json:"step" toml:"step"`

	// Mode and Margin are passed through to BuildRegion for every
	// candidate.
	Mode   RegionMode `json:"region_mode" toml:"region_mode"`
	Margin float64    `json:"margin" toml:"margin"`
}

// DefaultResolver returns a resolver with package defaults.
func DefaultResolver() Resolver {
	return Resolver{
		MaxRetries: DefaultMaxRetries,
		Step:       DefaultStep,
		Mode:       RegionRect,
		Margin:     DefaultMargin,
	}
}

// Validate checks resolver parameters. A zero retry budget is valid; a
// non-positive step is not, because the search could never move.
func (r Resolver) Validate() error {
	if r.MaxRetries < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "retry budget must not be negative, got %d", r.MaxRetries)
	}
	if r.Step <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "step size must be positive, got %v", r.Step)
	}
	if r.Margin < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "margin must not be negative, got %v", r.Margin)
	}
	return ValidateRegionMode(r.Mode)
}

// Resolution is the outcome of a collision search for one cluster.
type Resolution struct {
	// Anchor is the accepted bottom-left box anchor: the first
	// collision-free position in search order, or the last tried
	// position when the budget ran out.
	Anchor geo.Point

	// Region is the candidate polygon at Anchor.
	Region geo.Polygon

	// Attempts counts displaced positions tried (0 when the initial
	// anchor was free).
	Attempts int

	// Unresolved is true when every position in the budget collided.
	// The placement is still accepted so the engine always makes
	// progress; the caller flags the residual overlap.
	Unresolved bool
}

// Resolve finds an anchor for box near the preferred anchor such that
// the cluster's candidate region intersects none of the accepted
// polygons.
//
// Search order is deterministic: the initial anchor first, then for
// each ring i = 1..MaxRetries/3+1 a displacement of i*Step along dir,
// followed by the same displacement nudged perpendicular by +Step and
// -Step. Rings grow until the retry budget is consumed.
func (r Resolver) Resolve(points []geo.Point, box label.Box, anchor, dir geo.Point, accepted []geo.Polygon) Resolution {
	dir = dir.Unit()
	if dir == (geo.Point{}) {
		dir = geo.Point{X: 1}
	}
	perp := dir.Perp()

	candidate := anchor
	region := BuildRegion(points, box, candidate, r.Mode, r.Margin)
	if !collides(region, accepted) {
		return Resolution{Anchor: candidate, Region: region}
	}

	attempts := 0
	for ring := 1; attempts < r.MaxRetries; ring++ {
		d := float64(ring) * r.Step
		offsets := []geo.Point{
			dir.Scale(d),
			dir.Scale(d).Add(perp.Scale(r.Step)),
			dir.Scale(d).Add(perp.Scale(-r.Step)),
		}
		for _, off := range offsets {
			if attempts >= r.MaxRetries {
				break
			}
			attempts++
			candidate = anchor.Add(off)
			region = BuildRegion(points, box, candidate, r.Mode, r.Margin)
			if !collides(region, accepted) {
				return Resolution{Anchor: candidate, Region: region, Attempts: attempts}
			}
		}
	}

	// Budget exhausted. Report the last tried position (the initial
	// anchor when the budget was zero) so the caller sees where the box
	// ended up.
	return Resolution{Anchor: candidate, Region: region, Attempts: attempts, Unresolved: true}
}

// collides reports whether region intersects any accepted polygon,
// short-circuiting on the first hit.
func collides(region geo.Polygon, accepted []geo.Polygon) bool {
	for _, p := range accepted {
		if region.Intersects(p) {
			return true
		}
	}
	return false
}
