package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShapeVertices_Rectangle(t *testing.T) {
	verts, err := ShapeVertices(ShapeTemplate{Kind: ShapeRectangle, Width: 96, Height: 64})
	require.NoError(t, err)
	require.Len(t, verts, 4)

	minX, minY, maxX, maxY := Bounds(verts)
	assert.Equal(t, 0, minX)
	assert.Equal(t, 0, minY)
	assert.Equal(t, 96, maxX)
	assert.Equal(t, 64, maxY)
}

func TestShapeVertices_LShaped(t *testing.T) {
	corners := []Corner{CornerTopLeft, CornerTopRight, CornerBottomLeft, CornerBottomRight}
	for _, corner := range corners {
		t.Run(string(corner), func(t *testing.T) {
			verts, err := ShapeVertices(ShapeTemplate{
				Kind:      ShapeLShaped,
				Width:     80,
				Height:    60,
				CutWidth:  30,
				CutHeight: 20,
				CutCorner: corner,
			})
			require.NoError(t, err)
			require.Len(t, verts, 6)

			minX, minY, maxX, maxY := Bounds(verts)
			assert.Equal(t, 80, maxX-minX)
			assert.Equal(t, 60, maxY-minY)

			// The cut corner itself must no longer be a vertex.
			cut := map[Corner]Point{
				CornerTopLeft:     {0, 0},
				CornerTopRight:    {80, 0},
				CornerBottomLeft:  {0, 60},
				CornerBottomRight: {80, 60},
			}[corner]
			assert.NotContains(t, verts, cut)
		})
	}
}

func TestShapeVertices_Beveled(t *testing.T) {
	verts, err := ShapeVertices(ShapeTemplate{
		Kind:        ShapeBeveled,
		Width:       48,
		Height:      48,
		BevelSize:   8,
		BevelCorner: CornerTopRight,
	})
	require.NoError(t, err)
	require.Len(t, verts, 5)
	assert.NotContains(t, verts, Point{48, 0})
}

func TestShapeVertices_Circle(t *testing.T) {
	verts, err := ShapeVertices(ShapeTemplate{Kind: ShapeCircle, Radius: 16})
	require.NoError(t, err)
	require.Len(t, verts, CirclePolygonSides)

	minX, minY, maxX, maxY := Bounds(verts)
	assert.Equal(t, 0, minX)
	assert.Equal(t, 0, minY)
	assert.Equal(t, 32, maxX)
	assert.Equal(t, 32, maxY)
}

func TestShapeVertices_Invalid(t *testing.T) {
	cases := []ShapeTemplate{
		{Kind: ShapeRectangle, Width: 0, Height: 10},
		{Kind: ShapeLShaped, Width: 40, Height: 40, CutWidth: 40, CutHeight: 10, CutCorner: CornerTopLeft},
		{Kind: ShapeLShaped, Width: 40, Height: 40, CutWidth: 10, CutHeight: 10, CutCorner: "center"},
		{Kind: ShapeBeveled, Width: 40, Height: 40, BevelSize: 45, BevelCorner: CornerTopLeft},
		{Kind: ShapeCircle, Radius: -3},
		{Kind: "hexagon"},
	}
	for _, tc := range cases {
		_, err := ShapeVertices(tc)
		assert.ErrorIs(t, err, ErrInvalidShape, "template %+v", tc)
	}
}

func TestRotateVertices_ZeroIsIdentity(t *testing.T) {
	verts, err := ShapeVertices(ShapeTemplate{Kind: ShapeRectangle, Width: 24, Height: 16})
	require.NoError(t, err)
	assert.Equal(t, verts, RotateVertices(verts, 0))
}

func TestRotateVertices_FullTurnReturnsOriginal(t *testing.T) {
	shapes := []ShapeTemplate{
		{Kind: ShapeRectangle, Width: 24, Height: 16},
		{Kind: ShapeLShaped, Width: 40, Height: 24, CutWidth: 16, CutHeight: 8, CutCorner: CornerBottomRight},
		{Kind: ShapeCircle, Radius: 12},
	}
	for _, shape := range shapes {
		t.Run(string(shape.Kind), func(t *testing.T) {
			verts, err := ShapeVertices(shape)
			require.NoError(t, err)

			rotated := verts
			for i := 0; i < 4; i++ {
				rotated = RotateVertices(rotated, 90)
			}
			assert.Equal(t, verts, rotated)
		})
	}
}

func TestRotateVertices_QuarterTurnSwapsSpans(t *testing.T) {
	verts, err := ShapeVertices(ShapeTemplate{Kind: ShapeRectangle, Width: 32, Height: 8})
	require.NoError(t, err)

	rotated := RotateVertices(verts, 90)
	minX, minY, maxX, maxY := Bounds(rotated)
	assert.Equal(t, 8, maxX-minX)
	assert.Equal(t, 32, maxY-minY)

	// Bounding-box center is preserved.
	assert.Equal(t, 32, minX+maxX)
	assert.Equal(t, 8, minY+maxY)
}
