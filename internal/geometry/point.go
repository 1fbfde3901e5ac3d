package geometry

import "math"

// Point is a position in layout subunits (eighths of an inch). Integer
// coordinates keep repeated additive moves exact.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns the translation of p by d.
func (p Point) Add(d Point) Point {
	return Point{X: p.X + d.X, Y: p.Y + d.Y}
}

// Sub returns the vector from d to p.
func (p Point) Sub(d Point) Point {
	return Point{X: p.X - d.X, Y: p.Y - d.Y}
}

// DistanceTo returns the Euclidean distance between two points.
func (p Point) DistanceTo(q Point) float64 {
	dx := float64(q.X - p.X)
	dy := float64(q.Y - p.Y)
	return math.Hypot(dx, dy)
}

// Bounds returns the axis-aligned bounding box of a vertex list.
func Bounds(vertices []Point) (minX, minY, maxX, maxY int) {
	if len(vertices) == 0 {
		return 0, 0, 0, 0
	}
	minX, minY = vertices[0].X, vertices[0].Y
	maxX, maxY = vertices[0].X, vertices[0].Y
	for _, v := range vertices[1:] {
		if v.X < minX {
			minX = v.X
		}
		if v.Y < minY {
			minY = v.Y
		}
		if v.X > maxX {
			maxX = v.X
		}
		if v.Y > maxY {
			maxY = v.Y
		}
	}
	return minX, minY, maxX, maxY
}

// Translate returns a copy of vertices shifted by offset.
func Translate(vertices []Point, offset Point) []Point {
	out := make([]Point, len(vertices))
	for i, v := range vertices {
		out[i] = v.Add(offset)
	}
	return out
}
