package cluster

import (
	"math"

	"github.com/stormlabel/stormlabel/pkg/hurdat"
)

// Default DBSCAN parameters, tuned against the full cat 1-5 landfall
// set for natural coastal groupings.
const (
	DefaultEps          = 0.8
	DefaultMinPoints    = 2
	DefaultAnglePenalty = 0.3
)

// Options configures DBSCAN clustering.
type Options struct {
	// Eps is the neighborhood radius in metric units.
	Eps float64 `json:"eps" toml:"eps"`

	// MinPoints is the minimum neighborhood size (including the point
	// itself) for a point to be a core point.
	MinPoints int `json:"min_points" toml:"min_points"`

	// AnglePenalty scales the vertical-jump penalty of the coastline
	// metric. Zero-valued fields fall back to package defaults.
	AnglePenalty float64 `json:"angle_penalty" toml:"angle_penalty"`
}

// setDefaults fills zero-valued fields with package defaults.
func (o *Options) setDefaults() {
	if o.Eps == 0 {
		o.Eps = DefaultEps
	}
	if o.MinPoints == 0 {
		o.MinPoints = DefaultMinPoints
	}
	if o.AnglePenalty == 0 {
		o.AnglePenalty = DefaultAnglePenalty
	}
}

// coastlineDist is the clustering metric: euclidean distance plus a
// penalty proportional to |sin| of the angle between the points.
// Latitude jumps cost extra, so chains following a coastline cluster
// together while points across a vertical gap split apart.
func coastlineDist(a, b hurdat.Landfall, penalty float64) float64 {
	dlon := math.Abs(a.Lon - b.Lon)
	dlat := math.Abs(a.Lat - b.Lat)
	direct := math.Hypot(dlon, dlat)
	angle := math.Atan2(dlat, dlon)
	return direct + math.Abs(math.Sin(angle))*penalty
}

// Run clusters landfalls with DBSCAN. Cluster ids are assigned in
// discovery order, so the result is deterministic for a given input
// order. Noise points are returned as single-point clusters after the
// dense clusters, preserving input order; the separate noise slice
// reports which landfalls those were.
func Run(landfalls []hurdat.Landfall, opts Options) (clusters []Cluster, noise []hurdat.Landfall) {
	opts.setDefaults()

	const unvisited = 0
	// labels[i]: 0 unvisited, NoiseID noise, otherwise cluster id + 1.
	labels := make([]int, len(landfalls))

	neighbors := func(i int) []int {
		var ns []int
		for j := range landfalls {
			if coastlineDist(landfalls[i], landfalls[j], opts.AnglePenalty) <= opts.Eps {
				ns = append(ns, j)
			}
		}
		return ns
	}

	nextID := 0
	for i := range landfalls {
		if labels[i] != unvisited {
			continue
		}
		ns := neighbors(i)
		if len(ns) < opts.MinPoints {
			labels[i] = NoiseID
			continue
		}

		nextID++
		id := nextID
		labels[i] = id

		// Expand the cluster breadth-first. The seed list grows as new
		// core points are found.
		for k := 0; k < len(ns); k++ {
			j := ns[k]
			if labels[j] == NoiseID {
				labels[j] = id // border point reclaimed from noise
				continue
			}
			if labels[j] != unvisited {
				continue
			}
			labels[j] = id
			jns := neighbors(j)
			if len(jns) >= opts.MinPoints {
				ns = append(ns, jns...)
			}
		}
	}

	clusters = make([]Cluster, nextID)
	for id := 0; id < nextID; id++ {
		clusters[id] = Cluster{ID: id}
	}
	for i, l := range landfalls {
		if labels[i] > 0 {
			id := labels[i] - 1
			clusters[id].Landfalls = append(clusters[id].Landfalls, l)
		} else {
			noise = append(noise, l)
		}
	}

	// Noise points still need labels on the map; promote each to its
	// own cluster after the dense ones, flagged so callers can tell
	// promoted singletons from scanned clusters.
	for _, l := range noise {
		clusters = append(clusters, Cluster{
			ID:        len(clusters),
			Landfalls: []hurdat.Landfall{l},
			Noise:     true,
		})
	}

	return clusters, noise
}
