package geometry

import (
	"errors"
	"fmt"
	"math"
)

// ShapeKind discriminates the parametric shape families.
type ShapeKind string

const (
	ShapeRectangle ShapeKind = "rectangle"
	ShapeLShaped   ShapeKind = "l-shaped"
	ShapeBeveled   ShapeKind = "beveled"
	ShapeCircle    ShapeKind = "circle"
)

// Corner names one corner of a shape's bounding box.
type Corner string

const (
	CornerTopLeft     Corner = "top-left"
	CornerTopRight    Corner = "top-right"
	CornerBottomLeft  Corner = "bottom-left"
	CornerBottomRight Corner = "bottom-right"
)

// CirclePolygonSides is the number of sides used when a circle is
// approximated as a polygon.
const CirclePolygonSides = 32

// ShapeTemplate is the parametric description a polygon is derived from.
// It is never the polygon itself; vertices are always recomputed.
type ShapeTemplate struct {
	Kind        ShapeKind `json:"kind"`
	Width       int       `json:"width,omitempty"`
	Height      int       `json:"height,omitempty"`
	CutWidth    int       `json:"cutWidth,omitempty"`
	CutHeight   int       `json:"cutHeight,omitempty"`
	CutCorner   Corner    `json:"cutCorner,omitempty"`
	BevelSize   int       `json:"bevelSize,omitempty"`
	BevelCorner Corner    `json:"bevelCorner,omitempty"`
	Radius      int       `json:"radius,omitempty"`
}

var ErrInvalidShape = errors.New("invalid shape template")

// ShapeVertices derives the vertex polygon for a shape template. The
// vertex list starts at the shape's local origin and winds clockwise in
// screen coordinates (y grows downward). Coordinates are local; callers
// translate by the owning entity's position.
func ShapeVertices(t ShapeTemplate) ([]Point, error) {
	switch t.Kind {
	case ShapeRectangle:
		if t.Width <= 0 || t.Height <= 0 {
			return nil, fmt.Errorf("%w: rectangle %dx%d", ErrInvalidShape, t.Width, t.Height)
		}
		return []Point{
			{0, 0},
			{t.Width, 0},
			{t.Width, t.Height},
			{0, t.Height},
		}, nil

	case ShapeLShaped:
		return lShapedVertices(t)

	case ShapeBeveled:
		return beveledVertices(t)

	case ShapeCircle:
		if t.Radius <= 0 {
			return nil, fmt.Errorf("%w: circle radius %d", ErrInvalidShape, t.Radius)
		}
		return circleVertices(t.Radius), nil

	default:
		return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidShape, t.Kind)
	}
}

// lShapedVertices returns the 6-corner outline of a rectangle with one
// corner rectangle removed.
func lShapedVertices(t ShapeTemplate) ([]Point, error) {
	w, h, cw, ch := t.Width, t.Height, t.CutWidth, t.CutHeight
	if w <= 0 || h <= 0 || cw <= 0 || ch <= 0 || cw >= w || ch >= h {
		return nil, fmt.Errorf("%w: l-shape %dx%d cut %dx%d", ErrInvalidShape, w, h, cw, ch)
	}
	switch t.CutCorner {
	case CornerTopLeft:
		return []Point{{cw, 0}, {w, 0}, {w, h}, {0, h}, {0, ch}, {cw, ch}}, nil
	case CornerTopRight:
		return []Point{{0, 0}, {w - cw, 0}, {w - cw, ch}, {w, ch}, {w, h}, {0, h}}, nil
	case CornerBottomRight:
		return []Point{{0, 0}, {w, 0}, {w, h - ch}, {w - cw, h - ch}, {w - cw, h}, {0, h}}, nil
	case CornerBottomLeft:
		return []Point{{0, 0}, {w, 0}, {w, h}, {cw, h}, {cw, h - ch}, {0, h - ch}}, nil
	default:
		return nil, fmt.Errorf("%w: cut corner %q", ErrInvalidShape, t.CutCorner)
	}
}

// beveledVertices returns the 5-corner outline of a rectangle with one
// corner cut off diagonally.
func beveledVertices(t ShapeTemplate) ([]Point, error) {
	w, h, b := t.Width, t.Height, t.BevelSize
	if w <= 0 || h <= 0 || b <= 0 || b >= w || b >= h {
		return nil, fmt.Errorf("%w: bevel %dx%d size %d", ErrInvalidShape, w, h, b)
	}
	switch t.BevelCorner {
	case CornerTopLeft:
		return []Point{{b, 0}, {w, 0}, {w, h}, {0, h}, {0, b}}, nil
	case CornerTopRight:
		return []Point{{0, 0}, {w - b, 0}, {w, b}, {w, h}, {0, h}}, nil
	case CornerBottomRight:
		return []Point{{0, 0}, {w, 0}, {w, h - b}, {w - b, h}, {0, h}}, nil
	case CornerBottomLeft:
		return []Point{{0, 0}, {w, 0}, {w, h}, {b, h}, {0, h - b}}, nil
	default:
		return nil, fmt.Errorf("%w: bevel corner %q", ErrInvalidShape, t.BevelCorner)
	}
}

// circleVertices approximates a circle as a regular polygon centered at
// (r, r), so its bounding box spans exactly one diameter on each axis.
func circleVertices(r int) []Point {
	out := make([]Point, 0, CirclePolygonSides)
	for i := 0; i < CirclePolygonSides; i++ {
		theta := 2 * math.Pi * float64(i) / CirclePolygonSides
		out = append(out, Point{
			X: r + int(math.Round(float64(r)*math.Cos(theta))),
			Y: r + int(math.Round(float64(r)*math.Sin(theta))),
		})
	}
	return out
}

// RotateVertices rotates a polygon clockwise about its bounding-box
// center. Only quarter-turn rotations are supported; any other angle
// returns the input unchanged. Centers falling between subunits round
// half-up.
func RotateVertices(vertices []Point, rotation int) []Point {
	r := ((rotation % 360) + 360) % 360
	if r == 0 || r%90 != 0 {
		out := make([]Point, len(vertices))
		copy(out, vertices)
		return out
	}
	minX, minY, maxX, maxY := Bounds(vertices)
	cx := float64(minX+maxX) / 2
	cy := float64(minY+maxY) / 2

	out := make([]Point, len(vertices))
	for i, v := range vertices {
		dx := float64(v.X) - cx
		dy := float64(v.Y) - cy
		var rx, ry float64
		switch r {
		case 90:
			rx, ry = -dy, dx
		case 180:
			rx, ry = -dx, -dy
		case 270:
			rx, ry = dy, -dx
		}
		out[i] = Point{
			X: int(math.Round(cx + rx)),
			Y: int(math.Round(cy + ry)),
		}
	}
	return out
}
