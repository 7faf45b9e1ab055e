package place

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/stormlabel/stormlabel/pkg/errors"
	"github.com/stormlabel/stormlabel/pkg/geo"
	"github.com/stormlabel/stormlabel/pkg/label"
)

// =============================================================================
// Engine Input
// =============================================================================

// Cluster is the engine's view of one labeling unit: point coordinates
// and one display label per point. The engine does not care how
// clusters were produced; any collaborator that yields ordered clusters
// can drive it.
type Cluster struct {
	ID     int         `json:"id"`
	Points []geo.Point `json:"points"`
	Labels []string    `json:"labels"`

	// Categories optionally carries an intensity category per point for
	// rendering. Empty means no category information.
	Categories []int `json:"categories,omitempty"`
}

// Centroid returns the mean coordinate of the cluster's points.
func (c Cluster) Centroid() geo.Point { return geo.Centroid(c.Points) }

// =============================================================================
// Options
// =============================================================================

// Options configures a placement run.
type Options struct {
	// Metrics is the font-metric model for box estimation.
	Metrics label.Metrics

	// Heuristic picks initial anchors.
	Heuristic Heuristic

	// Resolver performs the bounded collision search.
	Resolver Resolver

	// Logger receives per-cluster progress at debug level and skip
	// warnings at warn level. Defaults to a discarding logger.
	Logger *log.Logger
}

// DefaultOptions returns options with all package defaults.
func DefaultOptions() Options {
	return Options{
		Metrics:   label.DefaultMetrics(),
		Heuristic: DefaultHeuristic(),
		Resolver:  DefaultResolver(),
	}
}

// Validate checks global configuration. Failure here aborts a run
// before any cluster is processed.
func (o *Options) Validate() error {
	if err := o.Metrics.Validate(); err != nil {
		return err
	}
	if err := o.Resolver.Validate(); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// =============================================================================
// Engine Output
// =============================================================================

// State is the lifecycle state a cluster reached during placement.
type State string

const (
	StatePending               State = "pending"
	StateGeometryComputed      State = "geometry_computed"
	StateCandidatePlaced       State = "candidate_placed"
	StateAccepted              State = "accepted"
	StateAcceptedWithCollision State = "accepted_with_collision"
	StateSkipped               State = "skipped"
)

// Placement is the accepted outcome for one cluster.
type Placement struct {
	ClusterID  int         `json:"cluster_id"`
	Anchor     geo.Point   `json:"anchor"`
	Box        label.Box   `json:"box"`
	Region     geo.Polygon `json:"region"`
	Attempts   int         `json:"attempts,omitempty"`
	Unresolved bool        `json:"unresolved,omitempty"`
	State      State       `json:"state"`
}

// Skip records a cluster that could not be placed at all.
type Skip struct {
	ClusterID int         `json:"cluster_id"`
	Code      errors.Code `json:"code"`
	Reason    string      `json:"reason"`
}

// Stats summarizes a run.
type Stats struct {
	Clusters   int `json:"clusters"`
	Placed     int `json:"placed"`
	Unresolved int `json:"unresolved"`
	Skipped    int `json:"skipped"`
	Attempts   int `json:"attempts"`
}

// Result is the complete output of a placement run. The caller can
// react programmatically to skips and unresolved overlaps; nothing is
// only logged.
type Result struct {
	// Placements holds accepted clusters in processing order.
	Placements []Placement `json:"placements"`

	// Anchors maps cluster id to final box anchor (the Placement
	// mapping of the data contract).
	Anchors map[int]geo.Point `json:"anchors"`

	// Polygons are the accepted regions in processing order. For every
	// pair, the polygons do not intersect unless one of them belongs to
	// an unresolved placement.
	Polygons []geo.Polygon `json:"polygons"`

	// Unresolved lists cluster ids whose retry budget was exhausted.
	Unresolved []int `json:"unresolved,omitempty"`

	// Skipped lists clusters dropped from the run with the reason.
	Skipped []Skip `json:"skipped,omitempty"`

	Stats Stats `json:"stats"`
}

// UnresolvedErr returns a coded error naming the clusters that kept a
// residual overlap, or nil when every placement resolved. The run
// itself never fails on unresolved overlaps; callers that want to treat
// them as an error condition use this.
func (r *Result) UnresolvedErr() error {
	if len(r.Unresolved) == 0 {
		return nil
	}
	return errors.New(errors.ErrCodeUnresolvedCollision,
		"%d placements kept a residual overlap (clusters %v)", len(r.Unresolved), r.Unresolved)
}

// =============================================================================
// Engine
// =============================================================================

// Run places a label box for every cluster, in the order given.
//
// The accepted-polygon list is threaded through the loop as an
// accumulator: cluster i+1's collision check sees the final polygons of
// clusters 0..i, which is why processing is strictly sequential. Runs
// are deterministic for identical input and options.
//
// Per-cluster failures (empty cluster, non-finite coordinate, no
// labels) skip that cluster and continue; only invalid configuration
// returns an error, before any cluster is processed.
func Run(clusters []Cluster, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	logger := opts.Logger

	res := &Result{
		Anchors: make(map[int]geo.Point, len(clusters)),
	}
	res.Stats.Clusters = len(clusters)

	for _, c := range clusters {
		if reason, code, ok := validateCluster(c); !ok {
			logger.Warn("skipping cluster", "cluster", c.ID, "state", StateSkipped, "reason", reason)
			res.Skipped = append(res.Skipped, Skip{ClusterID: c.ID, Code: code, Reason: reason})
			res.Stats.Skipped++
			continue
		}

		box, err := label.Estimate(c.Labels, opts.Metrics)
		if err != nil {
			logger.Warn("skipping cluster", "cluster", c.ID, "reason", err)
			res.Skipped = append(res.Skipped, Skip{
				ClusterID: c.ID,
				Code:      errors.GetCode(err),
				Reason:    errors.UserMessage(err),
			})
			res.Stats.Skipped++
			continue
		}
		logger.Debug("cluster geometry computed", "cluster", c.ID, "state", StateGeometryComputed,
			"width", box.Width, "height", box.Height)

		anchor, dir := opts.Heuristic.Anchor(c.Centroid(), box)
		logger.Debug("cluster candidate placed", "cluster", c.ID, "state", StateCandidatePlaced,
			"anchor_x", anchor.X, "anchor_y", anchor.Y)

		var state State
		r := opts.Resolver.Resolve(c.Points, box, anchor, dir, res.Polygons)
		if r.Unresolved {
			state = StateAcceptedWithCollision
			res.Unresolved = append(res.Unresolved, c.ID)
			res.Stats.Unresolved++
			logger.Warn("retry budget exhausted, accepting with overlap",
				"cluster", c.ID, "attempts", r.Attempts)
		} else {
			state = StateAccepted
		}

		res.Placements = append(res.Placements, Placement{
			ClusterID:  c.ID,
			Anchor:     r.Anchor,
			Box:        box,
			Region:     r.Region,
			Attempts:   r.Attempts,
			Unresolved: r.Unresolved,
			State:      state,
		})
		res.Anchors[c.ID] = r.Anchor
		res.Polygons = append(res.Polygons, r.Region)
		res.Stats.Placed++
		res.Stats.Attempts += r.Attempts

		logger.Debug("placed cluster",
			"cluster", c.ID,
			"lines", len(c.Labels),
			"anchor_x", r.Anchor.X,
			"anchor_y", r.Anchor.Y,
			"attempts", r.Attempts,
			"state", state)
	}

	return res, nil
}

// validateCluster checks the per-cluster input contract: at least one
// point, a label per point, and finite coordinates.
func validateCluster(c Cluster) (reason string, code errors.Code, ok bool) {
	if len(c.Points) == 0 {
		return "cluster has no points", errors.ErrCodeInvalidCluster, false
	}
	if len(c.Labels) != len(c.Points) {
		return "label count does not match point count", errors.ErrCodeInvalidCluster, false
	}
	if len(c.Categories) != 0 && len(c.Categories) != len(c.Points) {
		return "category count does not match point count", errors.ErrCodeInvalidCluster, false
	}
	for _, p := range c.Points {
		if !p.Finite() {
			return "cluster has a non-finite coordinate", errors.ErrCodeInvalidCluster, false
		}
	}
	return "", "", true
}
