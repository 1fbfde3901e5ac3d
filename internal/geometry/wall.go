package geometry

import "math"

// WallSegment is one edge of a room's derived polygon, in absolute
// coordinates. It is the coordinate frame doors are placed in.
type WallSegment struct {
	Start  Point   `json:"start"`
	End    Point   `json:"end"`
	Length float64 `json:"length"`
}

// WallSegments returns one segment per consecutive vertex pair of the
// polygon, including the closing edge from the last vertex back to the
// first, translated to absolute coordinates by position.
func WallSegments(vertices []Point, position Point) []WallSegment {
	segs := make([]WallSegment, 0, len(vertices))
	for i := range vertices {
		start := vertices[i].Add(position)
		end := vertices[(i+1)%len(vertices)].Add(position)
		segs = append(segs, WallSegment{
			Start:  start,
			End:    end,
			Length: start.DistanceTo(end),
		})
	}
	return segs
}

// ClosestPointOnSegment projects p onto the segment ab and clamps the
// projection to the segment bounds.
func ClosestPointOnSegment(p, a, b Point) Point {
	t := projectionParam(p, a, b)
	return Point{
		X: int(math.Round(float64(a.X) + t*float64(b.X-a.X))),
		Y: int(math.Round(float64(a.Y) + t*float64(b.Y-a.Y))),
	}
}

// PointToSegmentDistance returns the distance from p to the nearest
// point of the segment ab.
func PointToSegmentDistance(p, a, b Point) float64 {
	t := projectionParam(p, a, b)
	qx := float64(a.X) + t*float64(b.X-a.X)
	qy := float64(a.Y) + t*float64(b.Y-a.Y)
	return math.Hypot(float64(p.X)-qx, float64(p.Y)-qy)
}

// projectionParam returns the normalized parameter of p's projection
// onto ab, clamped to [0, 1]. A degenerate segment yields 0.
func projectionParam(p, a, b Point) float64 {
	abx := float64(b.X - a.X)
	aby := float64(b.Y - a.Y)
	lenSq := abx*abx + aby*aby
	if lenSq == 0 {
		return 0
	}
	t := (float64(p.X-a.X)*abx + float64(p.Y-a.Y)*aby) / lenSq
	return math.Max(0, math.Min(1, t))
}

// ClampDoorPosition clamps a door-center offset so the full door width
// stays on a wall of the given length. A wall shorter than the door
// gets the door centered on it.
func ClampDoorPosition(wallLength float64, positionOnWall, width int) int {
	half := float64(width) / 2
	if wallLength <= float64(width) {
		return int(math.Round(wallLength / 2))
	}
	pos := float64(positionOnWall)
	if pos < half {
		pos = half
	}
	if pos > wallLength-half {
		pos = wallLength - half
	}
	return int(math.Round(pos))
}

// FindClosestWallPoint locates the wall of a room polygon nearest to
// target and the clamped door-center offset on it. Vertices are local;
// position is the room's absolute origin; target is absolute.
func FindClosestWallPoint(vertices []Point, position, target Point, doorWidth int) (wallIndex, positionOnWall int) {
	segs := WallSegments(vertices, position)
	best := math.Inf(1)
	for i, seg := range segs {
		d := PointToSegmentDistance(target, seg.Start, seg.End)
		if d < best {
			best = d
			wallIndex = i
			proj := ClosestPointOnSegment(target, seg.Start, seg.End)
			positionOnWall = ClampDoorPosition(seg.Length, int(math.Round(seg.Start.DistanceTo(proj))), doorWidth)
		}
	}
	return wallIndex, positionOnWall
}
