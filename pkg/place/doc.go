// Package place implements deterministic label-box placement for
// clustered map points.
//
// # Overview
//
// Given an ordered list of clusters (each a set of map points with
// display labels), the engine positions one label box per cluster so
// that the combined footprint of a cluster's points and its box never
// overlaps another cluster's footprint. Placement is a fold over the
// cluster list: each step threads the list of previously accepted
// polygons through the next cluster's placement, and a cluster's
// polygon is never revised after acceptance.
//
// # Pipeline Position
//
//	landfalls → cluster.Run → [this package] → plan.Plan → mapplot.Render
//
// # Components
//
// Each cluster passes through four stages:
//
//   - [label.Estimate] sizes the label box from the cluster's labels
//     and a fixed font-metric model.
//   - [Heuristic.Anchor] picks an initial anchor and a preferred search
//     direction from the cluster centroid using coarse geographic
//     rules.
//   - [Resolver.Resolve] tests the candidate footprint against all
//     accepted polygons and, on collision, walks a bounded, direction-
//     biased search for a free position.
//   - [BuildRegion] wraps the cluster's points and the placed box into
//     a single convex polygon (bounding rectangle or convex hull).
//
// # Determinism
//
// Running [Run] twice with the same ordered cluster list and options
// produces identical output. The search order on collision is fixed
// (primary direction first, then perpendicular offsets), and no stage
// consults a clock, random source, or map iteration order. Processing
// clusters in a different order may legitimately yield a different
// layout; callers choose the order (see cluster.SortBySignificance for
// the significance policy).
//
// # Failure Semantics
//
// Per-cluster problems never abort a run: empty clusters and clusters
// with non-finite coordinates are skipped and recorded, and a cluster
// whose retry budget is exhausted is accepted at its last tried anchor
// with an unresolved flag so the caller can surface the residual
// overlap. Only invalid global configuration (bad font metrics, bad
// resolver parameters) fails the run, before any cluster is processed.
package place
