// Package cluster groups landfall points into spatial clusters for
// labeling.
//
// Clustering is a collaborator of the placement engine, not part of it:
// the engine consumes an ordered cluster list and does not care how it
// was produced. The implementation here is DBSCAN with a coastline
// metric that penalizes vertical jumps, which keeps chains of landfalls
// along a coast in one cluster while splitting across natural breaks.
package cluster

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/stormlabel/stormlabel/pkg/geo"
	"github.com/stormlabel/stormlabel/pkg/hurdat"
)

// NoiseID marks points too isolated to join any cluster during the
// DBSCAN scan. Noise points are still labeled, each promoted to its own
// single-point cluster with Noise set.
const NoiseID = -1

// Cluster is an ordered set of landfalls treated as one labeling unit.
// Read-only during placement.
type Cluster struct {
	ID        int
	Landfalls []hurdat.Landfall

	// Noise is true for clusters promoted from noise points rather than
	// found by the density scan.
	Noise bool
}

// Points returns the landfall coordinates in cluster order.
func (c Cluster) Points() []geo.Point {
	pts := make([]geo.Point, len(c.Landfalls))
	for i, l := range c.Landfalls {
		pts[i] = l.Point()
	}
	return pts
}

// Centroid returns the mean coordinate of the cluster's landfalls.
func (c Cluster) Centroid() geo.Point {
	return geo.Centroid(c.Points())
}

// Labels returns the display label for each landfall, in cluster order.
func (c Cluster) Labels() []string {
	labels := make([]string, len(c.Landfalls))
	for i, l := range c.Landfalls {
		labels[i] = l.Label()
	}
	return labels
}

// MeanCategory returns the mean Saffir-Simpson category of the
// cluster's landfalls, or 0 for an empty cluster.
func (c Cluster) MeanCategory() float64 {
	if len(c.Landfalls) == 0 {
		return 0
	}
	cats := make([]float64, len(c.Landfalls))
	for i, l := range c.Landfalls {
		cats[i] = float64(l.Category)
	}
	return stat.Mean(cats, nil)
}

// MinDistTo returns the smallest distance from any landfall in the
// cluster to ref.
func (c Cluster) MinDistTo(ref geo.Point) float64 {
	if len(c.Landfalls) == 0 {
		return 0
	}
	min := geo.Dist(c.Landfalls[0].Point(), ref)
	for _, l := range c.Landfalls[1:] {
		if d := geo.Dist(l.Point(), ref); d < min {
			min = d
		}
	}
	return min
}

// SortBySignificance orders clusters by descending mean category, then
// by ascending minimum distance to ref, then by id. More significant
// clusters get first pick of label space; the id tie-break keeps the
// order fully deterministic.
func SortBySignificance(cs []Cluster, ref geo.Point) {
	sort.SliceStable(cs, func(i, j int) bool {
		ci, cj := cs[i].MeanCategory(), cs[j].MeanCategory()
		if ci != cj {
			return ci > cj
		}
		di, dj := cs[i].MinDistTo(ref), cs[j].MinDistTo(ref)
		if di != dj {
			return di < dj
		}
		return cs[i].ID < cs[j].ID
	})
}
