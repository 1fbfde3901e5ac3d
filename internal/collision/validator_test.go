package collision

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/planhub-io/planhub-backend/internal/geometry"
	"github.com/planhub-io/planhub-backend/internal/layout/domain"
)

func rect(w, h int) geometry.ShapeTemplate {
	return geometry.ShapeTemplate{Kind: geometry.ShapeRectangle, Width: w, Height: h}
}

func testRooms() []domain.Room {
	return []domain.Room{
		{ID: "r1", Position: geometry.Point{X: 0, Y: 0}, Shape: rect(96, 64)},
		{ID: "r2", Position: geometry.Point{X: 200, Y: 0}, Shape: rect(96, 64)},
	}
}

func TestRoomCollides(t *testing.T) {
	rooms := testRooms()

	t.Run("clear placement", func(t *testing.T) {
		assert.False(t, RoomCollides(rooms, "r1", geometry.Point{X: 0, Y: 100}))
	})

	t.Run("overlapping placement", func(t *testing.T) {
		assert.True(t, RoomCollides(rooms, "r1", geometry.Point{X: 180, Y: 20}))
	})

	t.Run("containment counts as collision", func(t *testing.T) {
		rooms := []domain.Room{
			{ID: "big", Position: geometry.Point{X: 0, Y: 0}, Shape: rect(400, 400)},
			{ID: "small", Position: geometry.Point{X: 500, Y: 0}, Shape: rect(40, 40)},
		}
		// Small room dragged fully inside the big one: no edge crossings.
		assert.True(t, RoomCollides(rooms, "small", geometry.Point{X: 100, Y: 100}))
	})

	t.Run("unknown room fails closed", func(t *testing.T) {
		assert.True(t, RoomCollides(rooms, "ghost", geometry.Point{}))
	})
}

func TestFurnitureCollides_RoomContainment(t *testing.T) {
	rooms := testRooms()
	furniture := []domain.Furniture{
		{ID: "f1", RoomID: "r1", Position: geometry.Point{X: 8, Y: 8}, Shape: rect(24, 12)},
	}

	t.Run("fits inside the room", func(t *testing.T) {
		assert.False(t, FurnitureCollides(rooms, furniture, "f1", geometry.Point{X: 8, Y: 8}, "r1"))
	})

	t.Run("pokes out of the room", func(t *testing.T) {
		assert.True(t, FurnitureCollides(rooms, furniture, "f1", geometry.Point{X: 80, Y: 8}, "r1"))
	})

	t.Run("cross-room drag validates against the target room", func(t *testing.T) {
		assert.False(t, FurnitureCollides(rooms, furniture, "f1", geometry.Point{X: 8, Y: 8}, "r2"))
	})

	t.Run("missing target room fails closed", func(t *testing.T) {
		assert.True(t, FurnitureCollides(rooms, furniture, "f1", geometry.Point{X: 8, Y: 8}, "gone"))
	})

	t.Run("unknown furniture fails closed", func(t *testing.T) {
		assert.True(t, FurnitureCollides(rooms, furniture, "ghost", geometry.Point{X: 8, Y: 8}, "r1"))
	})
}

func TestFurnitureCollides_Rotation(t *testing.T) {
	rooms := testRooms()
	furniture := []domain.Furniture{
		{ID: "f1", RoomID: "r1", Position: geometry.Point{X: 8, Y: 8}, Shape: rect(32, 8)},
	}

	// Un-rotated the item fits; rotated 90 degrees about its center it
	// sticks out above the room.
	assert.False(t, FurnitureCollides(rooms, furniture, "f1", geometry.Point{X: 8, Y: 8}, "r1"))

	furniture[0].Rotation = 90
	assert.True(t, FurnitureCollides(rooms, furniture, "f1", geometry.Point{X: 8, Y: 8}, "r1"))
}

func TestFurnitureCollides_FurnitureOverlap(t *testing.T) {
	rooms := testRooms()

	t.Run("polygon against polygon", func(t *testing.T) {
		furniture := []domain.Furniture{
			{ID: "f1", RoomID: "r1", Position: geometry.Point{X: 8, Y: 8}, Shape: rect(24, 12)},
			{ID: "f2", RoomID: "r1", Position: geometry.Point{X: 48, Y: 8}, Shape: rect(24, 12)},
		}
		assert.True(t, FurnitureCollides(rooms, furniture, "f1", geometry.Point{X: 40, Y: 8}, "r1"))
		assert.False(t, FurnitureCollides(rooms, furniture, "f1", geometry.Point{X: 8, Y: 30}, "r1"))
	})

	t.Run("circle against polygon", func(t *testing.T) {
		furniture := []domain.Furniture{
			{ID: "table", RoomID: "r1", Position: geometry.Point{X: 30, Y: 20}, Shape: geometry.ShapeTemplate{Kind: geometry.ShapeCircle, Radius: 10}},
			{ID: "sofa", RoomID: "r1", Position: geometry.Point{X: 8, Y: 8}, Shape: rect(24, 12)},
		}
		assert.True(t, FurnitureCollides(rooms, furniture, "table", geometry.Point{X: 12, Y: 10}, "r1"))
		assert.False(t, FurnitureCollides(rooms, furniture, "table", geometry.Point{X: 60, Y: 30}, "r1"))
	})

	t.Run("circle against circle", func(t *testing.T) {
		furniture := []domain.Furniture{
			{ID: "c1", RoomID: "r1", Position: geometry.Point{X: 10, Y: 10}, Shape: geometry.ShapeTemplate{Kind: geometry.ShapeCircle, Radius: 8}},
			{ID: "c2", RoomID: "r1", Position: geometry.Point{X: 40, Y: 10}, Shape: geometry.ShapeTemplate{Kind: geometry.ShapeCircle, Radius: 8}},
		}
		assert.True(t, FurnitureCollides(rooms, furniture, "c1", geometry.Point{X: 30, Y: 10}, "r1"))
		assert.False(t, FurnitureCollides(rooms, furniture, "c1", geometry.Point{X: 10, Y: 36}, "r1"))
	})
}

func TestFurnitureCollides_CircleContainment(t *testing.T) {
	rooms := testRooms()
	furniture := []domain.Furniture{
		{ID: "table", RoomID: "r1", Position: geometry.Point{X: 30, Y: 20}, Shape: geometry.ShapeTemplate{Kind: geometry.ShapeCircle, Radius: 10}},
	}

	assert.False(t, FurnitureCollides(rooms, furniture, "table", geometry.Point{X: 30, Y: 20}, "r1"))
	// Circle protruding past the right wall.
	assert.True(t, FurnitureCollides(rooms, furniture, "table", geometry.Point{X: 90, Y: 20}, "r1"))
}
