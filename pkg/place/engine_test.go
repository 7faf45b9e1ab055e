package place

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/stormlabel/stormlabel/pkg/errors"
	"github.com/stormlabel/stormlabel/pkg/geo"
	"github.com/stormlabel/stormlabel/pkg/label"
)

// testOptions returns a configuration with unit font metrics and no
// offsets, so box geometry in assertions stays exact.
func testOptions() Options {
	return Options{
		Metrics:   label.Metrics{CharWidth: 1, LineHeight: 1},
		Heuristic: Heuristic{},
		Resolver:  Resolver{MaxRetries: 5, Step: 1.5, Mode: RegionRect},
	}
}

func TestRunPlacesDistantClusters(t *testing.T) {
	clusters := []Cluster{
		{ID: 0, Points: []geo.Point{{X: 0, Y: 0}}, Labels: []string{"ANDREW (1992)"}},
		{ID: 1, Points: []geo.Point{{X: 0, Y: 50}}, Labels: []string{"MICHAEL (2018)"}},
	}

	res, err := Run(clusters, testOptions())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(res.Placements) != 2 {
		t.Fatalf("placed %d clusters, want 2", len(res.Placements))
	}
	if len(res.Anchors) != 2 {
		t.Errorf("anchors map has %d entries, want 2", len(res.Anchors))
	}
	if len(res.Unresolved) != 0 {
		t.Errorf("unexpected unresolved clusters: %v", res.Unresolved)
	}
	for _, p := range res.Placements {
		if p.State != StateAccepted {
			t.Errorf("cluster %d state = %q, want %q", p.ClusterID, p.State, StateAccepted)
		}
	}
	if res.Polygons[0].Intersects(res.Polygons[1]) {
		t.Error("accepted regions of distant clusters intersect")
	}
	if res.Stats.Placed != 2 || res.Stats.Skipped != 0 || res.Stats.Unresolved != 0 {
		t.Errorf("stats = %+v", res.Stats)
	}
}

func TestRunResolvesCollision(t *testing.T) {
	// The second cluster's heuristic position overlaps the first's
	// accepted region; the engine must displace it and then accept both
	// without residual overlap.
	clusters := []Cluster{
		{ID: 0, Points: []geo.Point{{X: 0, Y: 0}}, Labels: []string{"AAAA"}},
		{ID: 1, Points: []geo.Point{{X: 3, Y: 0}}, Labels: []string{"BBBB"}},
	}
	opts := testOptions()

	res, err := Run(clusters, opts)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Placements) != 2 || len(res.Unresolved) != 0 {
		t.Fatalf("placements=%d unresolved=%v", len(res.Placements), res.Unresolved)
	}

	second := res.Placements[1]
	wantAnchor, _ := opts.Heuristic.Anchor(clusters[1].Centroid(), second.Box)
	if second.Anchor == wantAnchor {
		t.Error("second cluster kept its heuristic anchor despite the collision")
	}
	if second.Attempts == 0 {
		t.Error("collision should consume at least one attempt")
	}
	if res.Polygons[0].Intersects(res.Polygons[1]) {
		t.Error("resolved regions still intersect")
	}
	if res.Stats.Attempts != second.Attempts {
		t.Errorf("Stats.Attempts = %d, want %d", res.Stats.Attempts, second.Attempts)
	}
}

func TestRunAcceptsUnresolvedOverlap(t *testing.T) {
	// A zero retry budget and a point buried inside the first cluster's
	// region: the overlap cannot be resolved, but the placement is still
	// accepted and flagged rather than dropped.
	clusters := []Cluster{
		{ID: 0, Points: []geo.Point{{X: 0, Y: 0}}, Labels: []string{"AAAA"}},
		{ID: 1, Points: []geo.Point{{X: 0.2, Y: 0}}, Labels: []string{"BBBB"}},
	}
	opts := testOptions()
	opts.Resolver.MaxRetries = 0

	res, err := Run(clusters, opts)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(res.Placements) != 2 {
		t.Fatalf("placed %d clusters, want 2", len(res.Placements))
	}
	if len(res.Unresolved) != 1 || res.Unresolved[0] != 1 {
		t.Fatalf("Unresolved = %v, want [1]", res.Unresolved)
	}

	second := res.Placements[1]
	if second.State != StateAcceptedWithCollision {
		t.Errorf("state = %q, want %q", second.State, StateAcceptedWithCollision)
	}
	if !second.Unresolved {
		t.Error("placement should carry the unresolved flag")
	}
	wantAnchor, _ := opts.Heuristic.Anchor(clusters[1].Centroid(), second.Box)
	if second.Anchor != wantAnchor {
		t.Errorf("zero budget must leave the heuristic anchor untouched: got %v, want %v", second.Anchor, wantAnchor)
	}
	if len(res.Polygons) != 2 {
		t.Errorf("unresolved region must still join the accepted list, got %d polygons", len(res.Polygons))
	}
	if res.Stats.Unresolved != 1 {
		t.Errorf("Stats.Unresolved = %d, want 1", res.Stats.Unresolved)
	}
}

func TestResultUnresolvedErr(t *testing.T) {
	clusters := []Cluster{
		{ID: 0, Points: []geo.Point{{X: 0, Y: 0}}, Labels: []string{"AAAA"}},
		{ID: 1, Points: []geo.Point{{X: 0.2, Y: 0}}, Labels: []string{"BBBB"}},
	}
	opts := testOptions()
	opts.Resolver.MaxRetries = 0

	res, err := Run(clusters, opts)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	uerr := res.UnresolvedErr()
	if uerr == nil {
		t.Fatal("expected an error for the residual overlap")
	}
	if errors.GetCode(uerr) != errors.ErrCodeUnresolvedCollision {
		t.Errorf("error code = %q, want %q", errors.GetCode(uerr), errors.ErrCodeUnresolvedCollision)
	}

	clean, err := Run(clusters[:1], testOptions())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if clean.UnresolvedErr() != nil {
		t.Errorf("clean run reported unresolved overlap: %v", clean.UnresolvedErr())
	}
}

func TestRunSkipsInvalidClusters(t *testing.T) {
	nan := math.NaN()
	clusters := []Cluster{
		{ID: 0, Points: nil, Labels: nil},
		{ID: 1, Points: []geo.Point{{X: nan, Y: 25}}, Labels: []string{"GHOST (1900)"}},
		{ID: 2, Points: []geo.Point{{X: 0, Y: 0}, {X: 1, Y: 1}}, Labels: []string{"only one label"}},
		{ID: 3, Points: []geo.Point{{X: 0, Y: 40}}, Labels: []string{"KATRINA (2005)"}},
	}

	res, err := Run(clusters, testOptions())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(res.Skipped) != 3 {
		t.Fatalf("skipped %d clusters, want 3: %+v", len(res.Skipped), res.Skipped)
	}
	for _, s := range res.Skipped {
		if s.Code != errors.ErrCodeInvalidCluster {
			t.Errorf("cluster %d skip code = %q, want %q", s.ClusterID, s.Code, errors.ErrCodeInvalidCluster)
		}
	}
	if len(res.Placements) != 1 || res.Placements[0].ClusterID != 3 {
		t.Fatalf("valid cluster was not placed: %+v", res.Placements)
	}
	if _, ok := res.Anchors[3]; !ok {
		t.Error("anchor missing for the placed cluster")
	}
	if res.Stats.Skipped != 3 || res.Stats.Placed != 1 {
		t.Errorf("stats = %+v", res.Stats)
	}
}

func TestRunEmptyLabelsSkipped(t *testing.T) {
	clusters := []Cluster{
		{ID: 0, Points: []geo.Point{}, Labels: []string{}},
	}
	res, err := Run(clusters, testOptions())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Skipped) != 1 || len(res.Placements) != 0 {
		t.Errorf("skipped=%d placements=%d", len(res.Skipped), len(res.Placements))
	}
}

func TestRunInvalidConfigAborts(t *testing.T) {
	opts := testOptions()
	opts.Metrics.CharWidth = -1

	res, err := Run([]Cluster{{ID: 0, Points: []geo.Point{{X: 0, Y: 0}}, Labels: []string{"X"}}}, opts)
	if err == nil {
		t.Fatal("expected configuration error")
	}
	if res != nil {
		t.Error("aborted run should return a nil result")
	}
	if errors.GetCode(err) != errors.ErrCodeInvalidConfig {
		t.Errorf("error code = %q, want %q", errors.GetCode(err), errors.ErrCodeInvalidConfig)
	}
}

func TestRunDeterministic(t *testing.T) {
	clusters := []Cluster{
		{ID: 0, Points: []geo.Point{{X: -80.3, Y: 25.5}, {X: -80.1, Y: 25.9}}, Labels: []string{"ANDREW (1992)", "IRENE (1999)"}},
		{ID: 1, Points: []geo.Point{{X: -80.4, Y: 25.6}}, Labels: []string{"KATRINA (2005)"}},
		{ID: 2, Points: []geo.Point{{X: -85.3, Y: 29.9}}, Labels: []string{"MICHAEL (2018)"}},
	}
	opts := DefaultOptions()

	r1, err := Run(clusters, opts)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	r2, err := Run(clusters, opts)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if diff := cmp.Diff(r1, r2); diff != "" {
		t.Errorf("identical inputs produced different results (-first +second):\n%s", diff)
	}
}

func TestRunAcceptedRegionsPairwiseDisjoint(t *testing.T) {
	// A dense strip of single-point clusters: every accepted region must
	// be disjoint from every other accepted region, unless one of the
	// pair is flagged unresolved.
	var clusters []Cluster
	for i := 0; i < 6; i++ {
		clusters = append(clusters, Cluster{
			ID:     i,
			Points: []geo.Point{{X: float64(i) * 2, Y: 0}},
			Labels: []string{"STORM (2000)"},
		})
	}
	opts := testOptions()
	opts.Resolver.MaxRetries = 25

	res, err := Run(clusters, opts)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	unresolved := make(map[int]bool)
	for _, id := range res.Unresolved {
		unresolved[id] = true
	}
	for i := range res.Placements {
		for j := i + 1; j < len(res.Placements); j++ {
			a, b := res.Placements[i], res.Placements[j]
			if unresolved[a.ClusterID] || unresolved[b.ClusterID] {
				continue
			}
			if a.Region.Intersects(b.Region) {
				t.Errorf("accepted regions of clusters %d and %d intersect", a.ClusterID, b.ClusterID)
			}
		}
	}
}
