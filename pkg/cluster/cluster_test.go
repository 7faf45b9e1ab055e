package cluster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stormlabel/stormlabel/pkg/geo"
	"github.com/stormlabel/stormlabel/pkg/hurdat"
)

func lf(name string, year int, lon, lat float64, cat int) hurdat.Landfall {
	return hurdat.Landfall{Name: name, Year: year, Lon: lon, Lat: lat, Category: cat}
}

func TestRunGroupsNearbyPoints(t *testing.T) {
	// Two tight groups far apart, plus one isolated point.
	landfalls := []hurdat.Landfall{
		lf("ANDREW", 1992, -80.3, 25.5, 5),
		lf("KING", 1950, -80.2, 25.8, 4),
		lf("BETSY", 1965, -80.4, 25.6, 3),
		lf("CAMILLE", 1969, -89.4, 30.3, 5),
		lf("FREDERIC", 1979, -88.0, 30.4, 3),
		lf("LONER", 1900, -70.0, 40.0, 1),
	}

	clusters, noise := Run(landfalls, Options{Eps: 2.5, MinPoints: 2, AnglePenalty: 0.3})

	require.Len(t, noise, 1)
	assert.Equal(t, "LONER", noise[0].Name)

	// Two dense clusters plus one single-point cluster for the loner.
	require.Len(t, clusters, 3)
	assert.Len(t, clusters[0].Landfalls, 3, "south florida group")
	assert.Len(t, clusters[1].Landfalls, 2, "gulf coast group")
	assert.Len(t, clusters[2].Landfalls, 1, "noise promoted to its own cluster")

	// Promotion provenance: only the loner's cluster came from noise.
	assert.False(t, clusters[0].Noise)
	assert.False(t, clusters[1].Noise)
	assert.True(t, clusters[2].Noise)

	// Ids are contiguous and match slice positions.
	for i, c := range clusters {
		assert.Equal(t, i, c.ID)
	}
}

func TestRunDeterministic(t *testing.T) {
	landfalls := []hurdat.Landfall{
		lf("A", 2000, -80.0, 25.0, 1),
		lf("B", 2001, -80.5, 25.2, 2),
		lf("C", 2002, -81.0, 25.4, 3),
		lf("D", 2003, -95.0, 29.0, 4),
	}

	c1, n1 := Run(landfalls, Options{})
	c2, n2 := Run(landfalls, Options{})
	assert.Equal(t, c1, c2)
	assert.Equal(t, n1, n2)
}

func TestCoastlineMetricPenalizesVerticalJumps(t *testing.T) {
	base := lf("X", 2000, -80, 25, 1)
	east := lf("E", 2000, -79, 25, 1)  // 1 unit due east
	north := lf("N", 2000, -80, 26, 1) // 1 unit due north

	horizontal := coastlineDist(base, east, 0.3)
	vertical := coastlineDist(base, north, 0.3)

	assert.InDelta(t, 1.0, horizontal, 1e-9, "horizontal moves are unpenalized")
	assert.InDelta(t, 1.3, vertical, 1e-9, "vertical moves pay the full penalty")
}

func TestClusterAccessors(t *testing.T) {
	c := Cluster{ID: 7, Landfalls: []hurdat.Landfall{
		lf("ANDREW", 1992, -80.3, 25.5, 5),
		lf("KING", 1950, -80.1, 25.7, 3),
	}}

	assert.Equal(t, []string{"ANDREW (1992)", "KING (1950)"}, c.Labels())
	assert.InDelta(t, 4.0, c.MeanCategory(), 1e-9)

	centroid := c.Centroid()
	assert.InDelta(t, -80.2, centroid.X, 1e-9)
	assert.InDelta(t, 25.6, centroid.Y, 1e-9)
}

func TestSortBySignificance(t *testing.T) {
	miami := geo.Point{X: -80.2, Y: 25.8}
	cs := []Cluster{
		{ID: 0, Landfalls: []hurdat.Landfall{lf("WEAK", 1950, -80.0, 26.0, 1)}},
		{ID: 1, Landfalls: []hurdat.Landfall{lf("FAR", 1960, -95.0, 29.0, 5)}},
		{ID: 2, Landfalls: []hurdat.Landfall{lf("NEAR", 1992, -80.3, 25.5, 5)}},
	}

	SortBySignificance(cs, miami)

	// Category 5s first; among equals, the one nearest Miami wins.
	assert.Equal(t, 2, cs[0].ID)
	assert.Equal(t, 1, cs[1].ID)
	assert.Equal(t, 0, cs[2].ID)
}

func TestMeanCategoryEmpty(t *testing.T) {
	assert.Zero(t, Cluster{}.MeanCategory())
}
