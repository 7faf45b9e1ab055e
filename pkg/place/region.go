package place

import (
	"github.com/stormlabel/stormlabel/pkg/errors"
	"github.com/stormlabel/stormlabel/pkg/geo"
	"github.com/stormlabel/stormlabel/pkg/label"
)

// RegionMode selects the candidate-region geometry.
type RegionMode string

const (
	// RegionRect wraps points and box in their minimum bounding
	// rectangle. Cheap, conservative: it can claim space neither the
	// points nor the box occupy, producing false-positive collisions.
	RegionRect RegionMode = "rect"

	// RegionHull wraps points and box in their convex hull. Tighter
	// fit, more computation per candidate.
	RegionHull RegionMode = "hull"
)

// DefaultMargin is the safety buffer grown around every candidate
// region, in map units.
const DefaultMargin = 0.2

// ValidateRegionMode checks that a region mode is supported.
func ValidateRegionMode(mode RegionMode) error {
	switch mode {
	case RegionRect, RegionHull:
		return nil
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "region mode must be rect or hull, got %q", mode)
	}
}

// BuildRegion wraps the cluster's points and its label box (placed at
// anchor) into a single convex polygon, inflated by margin on every
// side. The polygon is closed, non-self-intersecting, and contains
// every input coordinate.
func BuildRegion(points []geo.Point, box label.Box, anchor geo.Point, mode RegionMode, margin float64) geo.Polygon {
	combined := make([]geo.Point, 0, len(points)+4)
	combined = append(combined, points...)
	combined = append(combined, box.Corners(anchor)...)

	if mode == RegionHull {
		hull := geo.ConvexHull(combined)
		if len(hull) >= 3 {
			return hull.Inflate(margin)
		}
		// Degenerate hull (all points collinear): fall back to the
		// bounding rectangle, which the box corners keep non-empty.
	}
	return geo.BoundingRect(combined).Inflate(margin).Polygon()
}
