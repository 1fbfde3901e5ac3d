package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planhub-io/planhub-backend/internal/geometry"
)

func TestNormalizeLayoutDocument_LegacyVertices(t *testing.T) {
	t.Run("vertex-only room recovers a rectangle", func(t *testing.T) {
		doc := LayoutDocument{
			Version: 1,
			Entities: []Entity{
				RoomEntity(Room{
					ID:       "r1",
					Name:     "Old Room",
					Position: geometry.Point{X: 10, Y: 20},
					Vertices: []geometry.Point{{X: 0, Y: 0}, {X: 80, Y: 0}, {X: 80, Y: 48}, {X: 0, Y: 48}},
				}),
			},
		}

		normalized, didChange := NormalizeLayoutDocument(doc)
		assert.True(t, didChange)
		assert.Equal(t, DocumentVersion, normalized.Version)

		room, ok := normalized.RoomByID("r1")
		require.True(t, ok)
		assert.Nil(t, room.Vertices)
		assert.Equal(t, geometry.ShapeTemplate{Kind: geometry.ShapeRectangle, Width: 80, Height: 48}, room.Shape)
	})

	t.Run("stored vertices yield to the shape template", func(t *testing.T) {
		shape := geometry.ShapeTemplate{Kind: geometry.ShapeLShaped, Width: 80, Height: 60, CutWidth: 20, CutHeight: 20, CutCorner: geometry.CornerTopLeft}
		doc := LayoutDocument{
			Version: DocumentVersion,
			Entities: []Entity{
				RoomEntity(Room{
					ID:       "r1",
					Shape:    shape,
					Vertices: []geometry.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}},
				}),
			},
		}

		normalized, didChange := NormalizeLayoutDocument(doc)
		assert.True(t, didChange)

		room, _ := normalized.RoomByID("r1")
		assert.Nil(t, room.Vertices)
		assert.Equal(t, shape, room.Shape)
	})
}

func TestNormalizeLayoutDocument_ClampsDoors(t *testing.T) {
	doc := NewLayoutDocument()
	doc = AddEntity(doc, RoomEntity(sampleRoom("r1")))
	door := sampleDoor("d1", "r1")
	door.PositionOnWall = 500
	doc = AddEntity(doc, DoorEntity(door))

	normalized, didChange := NormalizeLayoutDocument(doc)
	assert.True(t, didChange)

	got, _ := normalized.DoorByID("d1")
	assert.Equal(t, 84, got.PositionOnWall)
}

func TestNormalizeLayoutDocument_Idempotent(t *testing.T) {
	doc := LayoutDocument{
		Version: 1,
		Entities: []Entity{
			RoomEntity(Room{
				ID:       "r1",
				Position: geometry.Point{X: 0, Y: 0},
				Vertices: []geometry.Point{{X: 0, Y: 0}, {X: 96, Y: 0}, {X: 96, Y: 64}, {X: 0, Y: 64}},
			}),
			FurnitureEntity(sampleFurniture("f1", "r1")),
			DoorEntity(sampleDoor("d1", "r1")),
		},
	}

	once, didChange := NormalizeLayoutDocument(doc)
	require.True(t, didChange)

	twice, didChangeAgain := NormalizeLayoutDocument(once)
	assert.False(t, didChangeAgain)
	assert.Equal(t, once, twice)
}

func TestNormalizeLayoutDocument_CanonicalUnchanged(t *testing.T) {
	doc := sampleDocument()
	normalized, didChange := NormalizeLayoutDocument(doc)
	assert.False(t, didChange)
	assert.Equal(t, doc, normalized)
}
