package domain

import (
	"github.com/planhub-io/planhub-backend/internal/geometry"
)

// Operators in this file are pure: they return a new document and never
// mutate the input. Untouched entities keep their payload pointers, so
// callers can use identity checks to skip re-rendering. Operating on an
// id that does not exist returns the document unchanged — stale or
// replayed messages are silent no-ops.

// AddEntity appends an entity. Adding an id that is already present in
// the document is a no-op, preserving id uniqueness under replays.
func AddEntity(doc LayoutDocument, e Entity) LayoutDocument {
	for _, existing := range doc.Entities {
		if existing.ID() == e.ID() {
			return doc
		}
	}
	entities := make([]Entity, 0, len(doc.Entities)+1)
	entities = append(entities, doc.Entities...)
	entities = append(entities, e)
	return LayoutDocument{Version: doc.Version, Entities: entities}
}

// UpdateEntity replaces the entity with the same kind and id. Updating
// a room also re-snaps that room's doors onto its new wall geometry, so
// a shape edit cannot leave a door hanging past the end of a wall.
func UpdateEntity(doc LayoutDocument, e Entity) LayoutDocument {
	idx := indexOf(doc.Entities, e.Kind, e.ID())
	if idx < 0 {
		return doc
	}
	entities := cloneEntities(doc.Entities)
	entities[idx] = e
	if e.Kind == EntityRoom {
		resnapRoomDoors(entities, *e.Room)
	}
	return LayoutDocument{Version: doc.Version, Entities: entities}
}

// DeleteEntity removes the entity with the given kind and id.
func DeleteEntity(doc LayoutDocument, kind EntityKind, id string) LayoutDocument {
	idx := indexOf(doc.Entities, kind, id)
	if idx < 0 {
		return doc
	}
	entities := make([]Entity, 0, len(doc.Entities)-1)
	entities = append(entities, doc.Entities[:idx]...)
	entities = append(entities, doc.Entities[idx+1:]...)
	return LayoutDocument{Version: doc.Version, Entities: entities}
}

// DeleteRoomWithContents removes a room and cascades to every furniture
// item and door whose roomId references it. All other entities are
// carried over untouched.
func DeleteRoomWithContents(doc LayoutDocument, roomID string) LayoutDocument {
	if _, ok := doc.RoomByID(roomID); !ok {
		return doc
	}
	entities := make([]Entity, 0, len(doc.Entities))
	for _, e := range doc.Entities {
		switch e.Kind {
		case EntityRoom:
			if e.Room.ID == roomID {
				continue
			}
		case EntityFurniture:
			if e.Furniture.RoomID == roomID {
				continue
			}
		case EntityDoor:
			if e.Door.RoomID == roomID {
				continue
			}
		}
		entities = append(entities, e)
	}
	return LayoutDocument{Version: doc.Version, Entities: entities}
}

// MoveRoom sets a room's absolute position. Doors ride along because
// their placement is relative to the room's walls.
func MoveRoom(doc LayoutDocument, roomID string, position geometry.Point) LayoutDocument {
	idx := indexOf(doc.Entities, EntityRoom, roomID)
	if idx < 0 {
		return doc
	}
	room := *doc.Entities[idx].Room
	room.Position = position
	entities := cloneEntities(doc.Entities)
	entities[idx] = RoomEntity(room)
	return LayoutDocument{Version: doc.Version, Entities: entities}
}

// MoveFurniture sets a furniture item's position and owning room in one
// step. The two fields always change together: position is relative to
// the owning room, so a cross-room drag must never observe one field
// updated without the other.
func MoveFurniture(doc LayoutDocument, furnitureID string, position geometry.Point, roomID string) LayoutDocument {
	idx := indexOf(doc.Entities, EntityFurniture, furnitureID)
	if idx < 0 {
		return doc
	}
	item := *doc.Entities[idx].Furniture
	item.Position = position
	item.RoomID = roomID
	entities := cloneEntities(doc.Entities)
	entities[idx] = FurnitureEntity(item)
	return LayoutDocument{Version: doc.Version, Entities: entities}
}

// MoveDoor sets a door's wall index and offset in one step, clamping
// the offset so the leaf stays fully on the target wall.
func MoveDoor(doc LayoutDocument, doorID string, wallIndex, positionOnWall int) LayoutDocument {
	idx := indexOf(doc.Entities, EntityDoor, doorID)
	if idx < 0 {
		return doc
	}
	door := *doc.Entities[idx].Door
	door.WallIndex = wallIndex
	door.PositionOnWall = positionOnWall

	if room, ok := doc.RoomByID(door.RoomID); ok {
		clampDoorToRoom(&door, room)
	}

	entities := cloneEntities(doc.Entities)
	entities[idx] = DoorEntity(door)
	return LayoutDocument{Version: doc.Version, Entities: entities}
}

func indexOf(entities []Entity, kind EntityKind, id string) int {
	for i, e := range entities {
		if e.Kind == kind && e.ID() == id {
			return i
		}
	}
	return -1
}

func cloneEntities(entities []Entity) []Entity {
	out := make([]Entity, len(entities))
	copy(out, entities)
	return out
}

// clampDoorToRoom snaps a door onto the room's current wall geometry:
// a wall index past the end wraps to the last wall, and the offset is
// clamped to keep the full door width on the wall. Returns true when
// the door changed.
func clampDoorToRoom(door *Door, room Room) bool {
	verts, err := geometry.ShapeVertices(room.Shape)
	if err != nil {
		return false
	}
	segs := geometry.WallSegments(verts, room.Position)
	changed := false
	if door.WallIndex < 0 || door.WallIndex >= len(segs) {
		door.WallIndex = len(segs) - 1
		changed = true
	}
	clamped := geometry.ClampDoorPosition(segs[door.WallIndex].Length, door.PositionOnWall, door.Width)
	if clamped != door.PositionOnWall {
		door.PositionOnWall = clamped
		changed = true
	}
	return changed
}

// resnapRoomDoors re-clamps every door owned by room against its walls,
// replacing changed doors in place in an already-cloned entity slice.
func resnapRoomDoors(entities []Entity, room Room) bool {
	changed := false
	for i, e := range entities {
		if e.Kind != EntityDoor || e.Door.RoomID != room.ID {
			continue
		}
		door := *e.Door
		if clampDoorToRoom(&door, room) {
			entities[i] = DoorEntity(door)
			changed = true
		}
	}
	return changed
}
