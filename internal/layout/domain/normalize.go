package domain

import (
	"github.com/planhub-io/planhub-backend/internal/geometry"
)

// NormalizeLayoutDocument upgrades a loaded document to the canonical
// schema: the version is bumped, legacy rooms carrying stored vertex
// lists are reconciled to shape-template-only form, and doors are
// clamped onto their rooms' current walls. Normalizing an already
// canonical document returns it unchanged with didChange=false, so the
// step is idempotent and safe to run on every load.
func NormalizeLayoutDocument(doc LayoutDocument) (LayoutDocument, bool) {
	didChange := false

	entities := cloneEntities(doc.Entities)
	for i, e := range entities {
		if e.Kind != EntityRoom || e.Room.Vertices == nil {
			continue
		}
		room := *e.Room
		if room.Shape.Kind == "" {
			// Oldest documents stored only vertices; recover a rectangle
			// from the bounding box.
			minX, minY, maxX, maxY := geometry.Bounds(room.Vertices)
			room.Shape = geometry.ShapeTemplate{
				Kind:   geometry.ShapeRectangle,
				Width:  maxX - minX,
				Height: maxY - minY,
			}
		}
		room.Vertices = nil
		entities[i] = RoomEntity(room)
		didChange = true
	}

	for _, e := range entities {
		if e.Kind != EntityRoom {
			continue
		}
		if resnapRoomDoors(entities, *e.Room) {
			didChange = true
		}
	}

	if doc.Version != DocumentVersion {
		didChange = true
	}
	if !didChange {
		return doc, false
	}
	return LayoutDocument{Version: DocumentVersion, Entities: entities}, true
}
