package geometry

// PointInPolygon reports whether p lies inside the polygon using a
// ray cast with the half-open edge rule, so crossings through shared
// vertices are not double-counted.
func PointInPolygon(p Point, polygon []Point) bool {
	if len(polygon) < 3 {
		return false
	}
	inside := false
	j := len(polygon) - 1
	for i := range polygon {
		vi, vj := polygon[i], polygon[j]
		if (vi.Y > p.Y) != (vj.Y > p.Y) {
			crossX := float64(vj.X-vi.X)*float64(p.Y-vi.Y)/float64(vj.Y-vi.Y) + float64(vi.X)
			if float64(p.X) < crossX {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}

// SegmentsIntersect reports whether the closed segments p1p2 and p3p4
// share at least one point, including collinear overlap.
func SegmentsIntersect(p1, p2, p3, p4 Point) bool {
	d1 := cross(p3, p4, p1)
	d2 := cross(p3, p4, p2)
	d3 := cross(p1, p2, p3)
	d4 := cross(p1, p2, p4)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	if d1 == 0 && onSegment(p3, p4, p1) {
		return true
	}
	if d2 == 0 && onSegment(p3, p4, p2) {
		return true
	}
	if d3 == 0 && onSegment(p1, p2, p3) {
		return true
	}
	if d4 == 0 && onSegment(p1, p2, p4) {
		return true
	}
	return false
}

// cross returns the z component of (b-a) x (p-a).
func cross(a, b, p Point) int64 {
	return int64(b.X-a.X)*int64(p.Y-a.Y) - int64(b.Y-a.Y)*int64(p.X-a.X)
}

// onSegment assumes p is collinear with ab and reports whether it lies
// within the segment's bounding box.
func onSegment(a, b, p Point) bool {
	return min(a.X, b.X) <= p.X && p.X <= max(a.X, b.X) &&
		min(a.Y, b.Y) <= p.Y && p.Y <= max(a.Y, b.Y)
}

// PolygonsIntersect reports whether two polygons overlap. Edge pairs
// are tested first; full containment of one polygon in the other has no
// edge crossings, so one vertex of each is tested for membership in the
// other as a fallback.
func PolygonsIntersect(a, b []Point) bool {
	if len(a) < 3 || len(b) < 3 {
		return false
	}
	for i := range a {
		a1 := a[i]
		a2 := a[(i+1)%len(a)]
		for j := range b {
			if SegmentsIntersect(a1, a2, b[j], b[(j+1)%len(b)]) {
				return true
			}
		}
	}
	if PointInPolygon(a[0], b) {
		return true
	}
	if PointInPolygon(b[0], a) {
		return true
	}
	return false
}

// CirclesIntersect reports whether two circles overlap.
func CirclesIntersect(c1 Point, r1 int, c2 Point, r2 int) bool {
	return c1.DistanceTo(c2) <= float64(r1+r2)
}

// CirclePolygonIntersect reports whether a circle overlaps a polygon.
// A contained center short-circuits; otherwise the nearest polygon edge
// decides.
func CirclePolygonIntersect(center Point, radius int, polygon []Point) bool {
	if len(polygon) < 3 {
		return false
	}
	if PointInPolygon(center, polygon) {
		return true
	}
	for i := range polygon {
		a := polygon[i]
		b := polygon[(i+1)%len(polygon)]
		if PointToSegmentDistance(center, a, b) <= float64(radius) {
			return true
		}
	}
	return false
}
