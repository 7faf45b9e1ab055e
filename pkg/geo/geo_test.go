package geo

import (
	"math"
	"testing"
)

func TestPointFinite(t *testing.T) {
	tests := []struct {
		name string
		p    Point
		want bool
	}{
		{name: "ordinary", p: Point{-80.2, 25.8}, want: true},
		{name: "zero", p: Point{}, want: true},
		{name: "nan x", p: Point{math.NaN(), 1}, want: false},
		{name: "nan y", p: Point{1, math.NaN()}, want: false},
		{name: "pos inf", p: Point{math.Inf(1), 0}, want: false},
		{name: "neg inf", p: Point{0, math.Inf(-1)}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.Finite(); got != tt.want {
				t.Errorf("Finite() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCentroid(t *testing.T) {
	pts := []Point{{0, 0}, {4, 0}, {4, 2}, {0, 2}}
	got := Centroid(pts)
	want := Point{2, 1}
	if got != want {
		t.Errorf("Centroid() = %v, want %v", got, want)
	}

	if got := Centroid(nil); got != (Point{}) {
		t.Errorf("Centroid(nil) = %v, want zero point", got)
	}
}

func TestBoundingRect(t *testing.T) {
	pts := []Point{{-85, 30}, {-80, 25}, {-82, 28}}
	r := BoundingRect(pts)
	want := Rect{Min: Point{-85, 25}, Max: Point{-80, 30}}
	if r != want {
		t.Errorf("BoundingRect() = %v, want %v", r, want)
	}

	for _, p := range pts {
		if !r.Contains(p) {
			t.Errorf("bounding rect does not contain input point %v", p)
		}
	}
}

func TestRectInflate(t *testing.T) {
	r := Rect{Min: Point{0, 0}, Max: Point{2, 2}}
	got := r.Inflate(0.5)
	want := Rect{Min: Point{-0.5, -0.5}, Max: Point{2.5, 2.5}}
	if got != want {
		t.Errorf("Inflate() = %v, want %v", got, want)
	}
}

func TestRectCorners(t *testing.T) {
	r := Rect{Min: Point{1, 2}, Max: Point{3, 5}}
	corners := r.Corners()
	if len(corners) != 4 {
		t.Fatalf("Corners() returned %d points, want 4", len(corners))
	}
	want := []Point{{1, 2}, {3, 2}, {3, 5}, {1, 5}}
	for i, c := range corners {
		if c != want[i] {
			t.Errorf("corner %d = %v, want %v", i, c, want[i])
		}
	}
}
