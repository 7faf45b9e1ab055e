package place

import (
	"github.com/stormlabel/stormlabel/pkg/geo"
	"github.com/stormlabel/stormlabel/pkg/label"
)

// Default heuristic thresholds and offsets, in degrees. The longitude
// bands split Florida into east coast, panhandle/west coast, and the
// gulf beyond; the latitude bands separate south Florida from the
// northern gulf states. Offsets push labels offshore into the Atlantic
// where the map has open space.
const (
	DefaultEastLon  = -81.0
	DefaultWestLon  = -85.0
	DefaultSouthLat = 27.0
	DefaultNorthLat = 30.0

	DefaultOffsetEast  = 5.0
	DefaultOffsetWest  = 3.5
	DefaultOffsetX     = 4.0
	DefaultOffsetSouth = 2.0
	DefaultOffsetNorth = -2.0
)

// Heuristic maps a cluster centroid to an initial label-box anchor and
// a preferred search direction. The rules are pure functions of the
// centroid; thresholds and offsets are configuration, not hidden state.
//
// This is explicitly a heuristic, not an optimal solver: dense regions
// may still collide, which the Resolver handles.
type Heuristic struct {
	// Longitude thresholds splitting the map into east/middle/west
	// bands.
	EastLon float64 `json:"east_lon" toml:"east_lon"`
	WestLon float64 `json:"west_lon" toml:"west_lon"`

	// Latitude thresholds splitting the map into south/middle/north
	// bands.
	SouthLat float64 `json:"south_lat" toml:"south_lat"`
	NorthLat float64 `json:"north_lat" toml:"north_lat"`

	// Horizontal offsets per longitude band, applied eastward.
	OffsetEast float64 `json:"offset_east" toml:"offset_east"`
	OffsetWest float64 `json:"offset_west" toml:"offset_west"`
	OffsetMid  float64 `json:"offset_mid" toml:"offset_mid"`

	// Vertical offsets for the south and north bands. The middle band
	// gets no vertical offset.
	OffsetSouth float64 `json:"offset_south" toml:"offset_south"`
	OffsetNorth float64 `json:"offset_north" toml:"offset_north"`
}

// DefaultHeuristic returns the heuristic tuned for the Florida /
// Atlantic basin map.
func DefaultHeuristic() Heuristic {
	return Heuristic{
		EastLon:     DefaultEastLon,
		WestLon:     DefaultWestLon,
		SouthLat:    DefaultSouthLat,
		NorthLat:    DefaultNorthLat,
		OffsetEast:  DefaultOffsetEast,
		OffsetWest:  DefaultOffsetWest,
		OffsetMid:   DefaultOffsetX,
		OffsetSouth: DefaultOffsetSouth,
		OffsetNorth: DefaultOffsetNorth,
	}
}

// Offset returns the displacement from a centroid to the center of its
// label box.
func (h Heuristic) Offset(centroid geo.Point) geo.Point {
	off := geo.Point{X: h.OffsetMid}
	switch {
	case centroid.X > h.EastLon:
		off.X = h.OffsetEast
	case centroid.X < h.WestLon:
		off.X = h.OffsetWest
	}
	switch {
	case centroid.Y < h.SouthLat:
		off.Y = h.OffsetSouth
	case centroid.Y > h.NorthLat:
		off.Y = h.OffsetNorth
	}
	return off
}

// Anchor returns the initial bottom-left anchor for box and the
// preferred search direction for collision resolution.
//
// The box is centered on the offset target, so the returned anchor is
// the target minus half the box size. The direction is the unit offset
// vector; when the offsets cancel to zero the fallback is due east,
// directly offshore.
func (h Heuristic) Anchor(centroid geo.Point, box label.Box) (anchor, dir geo.Point) {
	off := h.Offset(centroid)
	target := centroid.Add(off)
	anchor = geo.Point{
		X: target.X - box.Width/2,
		Y: target.Y - box.Height/2,
	}

	dir = off.Unit()
	if dir == (geo.Point{}) {
		dir = geo.Point{X: 1}
	}
	return anchor, dir
}
