package geo

import "sort"

// Polygon is a closed convex polygon, stored as vertices in
// counter-clockwise order without repeating the first vertex.
//
// The placement core only ever builds convex polygons (bounding
// rectangles and convex hulls), which keeps the intersection test a
// simple separating-axis check.
type Polygon []Point

// Translate returns the polygon moved by d.
func (pg Polygon) Translate(d Point) Polygon {
	out := make(Polygon, len(pg))
	for i, p := range pg {
		out[i] = p.Add(d)
	}
	return out
}

// Centroid returns the mean of the polygon's vertices.
func (pg Polygon) Centroid() Point { return Centroid(pg) }

// Bounds returns the polygon's axis-aligned bounding rectangle.
func (pg Polygon) Bounds() Rect { return BoundingRect(pg) }

// Inflate scales the polygon outward from its centroid so that every
// vertex moves m units further away. Degenerate polygons are returned
// unchanged.
func (pg Polygon) Inflate(m float64) Polygon {
	if len(pg) < 2 || m == 0 {
		return append(Polygon(nil), pg...)
	}
	c := pg.Centroid()
	out := make(Polygon, len(pg))
	for i, p := range pg {
		v := p.Sub(c)
		n := v.Norm()
		if n == 0 {
			out[i] = p
			continue
		}
		out[i] = c.Add(v.Scale((n + m) / n))
	}
	return out
}

// Intersects reports whether two convex polygons overlap, using the
// separating-axis theorem. Polygons that merely touch along an edge or
// at a vertex are counted as intersecting, which is the conservative
// choice for collision avoidance.
func (pg Polygon) Intersects(other Polygon) bool {
	if len(pg) == 0 || len(other) == 0 {
		return false
	}
	return !hasSeparatingAxis(pg, other) && !hasSeparatingAxis(other, pg)
}

// hasSeparatingAxis reports whether any edge normal of a separates the
// vertex sets of a and b.
func hasSeparatingAxis(a, b Polygon) bool {
	n := len(a)
	for i := 0; i < n; i++ {
		edge := a[(i+1)%n].Sub(a[i])
		axis := edge.Perp()
		if axis.X == 0 && axis.Y == 0 {
			continue
		}
		aMin, aMax := project(a, axis)
		bMin, bMax := project(b, axis)
		if aMax < bMin || bMax < aMin {
			return true
		}
	}
	return false
}

// project returns the min and max of the vertices of pg projected onto
// axis.
func project(pg Polygon, axis Point) (min, max float64) {
	min = pg[0].Dot(axis)
	max = min
	for _, p := range pg[1:] {
		d := p.Dot(axis)
		if d < min {
			min = d
		}
		if d > max {
			max = d
		}
	}
	return min, max
}

// ConvexHull computes the convex hull of pts using the monotone chain
// algorithm. The hull is returned in counter-clockwise order without
// duplicating the first vertex. Inputs with fewer than three distinct
// points yield the deduplicated points themselves.
func ConvexHull(pts []Point) Polygon {
	if len(pts) <= 1 {
		return append(Polygon(nil), pts...)
	}

	p := make([]Point, len(pts))
	copy(p, pts)
	sort.Slice(p, func(i, j int) bool {
		if p[i].X == p[j].X {
			return p[i].Y < p[j].Y
		}
		return p[i].X < p[j].X
	})
	p = dedupe(p)
	if len(p) <= 2 {
		return Polygon(p)
	}

	var lower, upper []Point
	for _, v := range p {
		for len(lower) >= 2 && cross(lower[len(lower)-2], lower[len(lower)-1], v) <= 0 {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, v)
	}
	for i := len(p) - 1; i >= 0; i-- {
		v := p[i]
		for len(upper) >= 2 && cross(upper[len(upper)-2], upper[len(upper)-1], v) <= 0 {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, v)
	}

	hull := make(Polygon, 0, len(lower)+len(upper)-2)
	hull = append(hull, lower[:len(lower)-1]...)
	hull = append(hull, upper[:len(upper)-1]...)
	return hull
}

// cross returns the z component of (b-a) x (c-a). Positive means the
// three points turn counter-clockwise.
func cross(a, b, c Point) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

// dedupe removes consecutive duplicates from a sorted point slice.
func dedupe(p []Point) []Point {
	out := p[:1]
	for _, v := range p[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}
