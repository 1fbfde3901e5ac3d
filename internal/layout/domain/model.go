package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/planhub-io/planhub-backend/internal/geometry"
)

// DocumentVersion is the current canonical schema version. Documents
// loaded with an older version pass through normalization.
const DocumentVersion = 2

// EntityKind discriminates the entity union inside a layout document.
type EntityKind string

const (
	EntityRoom      EntityKind = "room"
	EntityFurniture EntityKind = "furniture"
	EntityDoor      EntityKind = "door"
)

// Room is a placed room. Its polygon is always derived from the shape
// template; Vertices only appears in legacy persisted documents and is
// cleared by normalization.
type Room struct {
	ID       string                 `json:"id"`
	Name     string                 `json:"name"`
	Position geometry.Point         `json:"position"`
	Shape    geometry.ShapeTemplate `json:"shapeTemplate"`
	Vertices []geometry.Point       `json:"vertices,omitempty"`
}

// Furniture is a furniture item placed inside a room. Position is
// relative to the owning room's origin.
type Furniture struct {
	ID            string                 `json:"id"`
	Name          string                 `json:"name"`
	FurnitureType string                 `json:"furnitureType"`
	RoomID        string                 `json:"roomId"`
	Position      geometry.Point         `json:"position"`
	Shape         geometry.ShapeTemplate `json:"shapeTemplate"`
	Rotation      int                    `json:"rotation"`
}

// Door sits on one wall of its owning room. PositionOnWall is the
// distance of the door center from the wall's start vertex.
type Door struct {
	ID             string             `json:"id"`
	Name           string             `json:"name"`
	RoomID         string             `json:"roomId"`
	WallIndex      int                `json:"wallIndex"`
	PositionOnWall int                `json:"positionOnWall"`
	Width          int                `json:"width"`
	HingeSide      geometry.HingeSide `json:"hingeSide"`
}

// Entity is the tagged union stored in a layout document. Exactly one
// of the payload pointers is set, matching Kind.
type Entity struct {
	Kind      EntityKind
	Room      *Room
	Furniture *Furniture
	Door      *Door
}

// RoomEntity wraps a room as a document entity.
func RoomEntity(r Room) Entity {
	return Entity{Kind: EntityRoom, Room: &r}
}

// FurnitureEntity wraps a furniture item as a document entity.
func FurnitureEntity(f Furniture) Entity {
	return Entity{Kind: EntityFurniture, Furniture: &f}
}

// DoorEntity wraps a door as a document entity.
func DoorEntity(d Door) Entity {
	return Entity{Kind: EntityDoor, Door: &d}
}

// ID returns the wrapped entity's id.
func (e Entity) ID() string {
	switch e.Kind {
	case EntityRoom:
		return e.Room.ID
	case EntityFurniture:
		return e.Furniture.ID
	case EntityDoor:
		return e.Door.ID
	}
	return ""
}

// MarshalJSON flattens the wrapped entity with a "type" discriminant.
func (e Entity) MarshalJSON() ([]byte, error) {
	switch e.Kind {
	case EntityRoom:
		return json.Marshal(struct {
			Type EntityKind `json:"type"`
			*Room
		}{EntityRoom, e.Room})
	case EntityFurniture:
		return json.Marshal(struct {
			Type EntityKind `json:"type"`
			*Furniture
		}{EntityFurniture, e.Furniture})
	case EntityDoor:
		return json.Marshal(struct {
			Type EntityKind `json:"type"`
			*Door
		}{EntityDoor, e.Door})
	}
	return nil, fmt.Errorf("marshal entity: unknown kind %q", e.Kind)
}

// UnmarshalJSON decodes a tagged entity object by its "type" field.
func (e *Entity) UnmarshalJSON(b []byte) error {
	var probe struct {
		Type EntityKind `json:"type"`
	}
	if err := json.Unmarshal(b, &probe); err != nil {
		return fmt.Errorf("unmarshal entity tag: %w", err)
	}
	switch probe.Type {
	case EntityRoom:
		var r Room
		if err := json.Unmarshal(b, &r); err != nil {
			return fmt.Errorf("unmarshal room: %w", err)
		}
		*e = RoomEntity(r)
	case EntityFurniture:
		var f Furniture
		if err := json.Unmarshal(b, &f); err != nil {
			return fmt.Errorf("unmarshal furniture: %w", err)
		}
		*e = FurnitureEntity(f)
	case EntityDoor:
		var d Door
		if err := json.Unmarshal(b, &d); err != nil {
			return fmt.Errorf("unmarshal door: %w", err)
		}
		*e = DoorEntity(d)
	default:
		return fmt.Errorf("unmarshal entity: unknown type %q", probe.Type)
	}
	return nil
}

// LayoutDocument is the canonical in-memory representation of one
// layout: an ordered entity list plus a schema version. Every mutation
// operator returns a fresh document; the entity slice is never mutated
// in place.
type LayoutDocument struct {
	Version  int      `json:"version"`
	Entities []Entity `json:"entities"`
}

// NewLayoutDocument returns an empty document at the current version.
func NewLayoutDocument() LayoutDocument {
	return LayoutDocument{Version: DocumentVersion, Entities: []Entity{}}
}

// RoomByID returns a copy of the room with the given id.
func (d LayoutDocument) RoomByID(id string) (Room, bool) {
	for _, e := range d.Entities {
		if e.Kind == EntityRoom && e.Room.ID == id {
			return *e.Room, true
		}
	}
	return Room{}, false
}

// FurnitureByID returns a copy of the furniture item with the given id.
func (d LayoutDocument) FurnitureByID(id string) (Furniture, bool) {
	for _, e := range d.Entities {
		if e.Kind == EntityFurniture && e.Furniture.ID == id {
			return *e.Furniture, true
		}
	}
	return Furniture{}, false
}

// DoorByID returns a copy of the door with the given id.
func (d LayoutDocument) DoorByID(id string) (Door, bool) {
	for _, e := range d.Entities {
		if e.Kind == EntityDoor && e.Door.ID == id {
			return *e.Door, true
		}
	}
	return Door{}, false
}

// Rooms returns copies of all rooms in document order.
func (d LayoutDocument) Rooms() []Room {
	var out []Room
	for _, e := range d.Entities {
		if e.Kind == EntityRoom {
			out = append(out, *e.Room)
		}
	}
	return out
}

// FurnitureItems returns copies of all furniture in document order.
func (d LayoutDocument) FurnitureItems() []Furniture {
	var out []Furniture
	for _, e := range d.Entities {
		if e.Kind == EntityFurniture {
			out = append(out, *e.Furniture)
		}
	}
	return out
}

// Doors returns copies of all doors in document order.
func (d LayoutDocument) Doors() []Door {
	var out []Door
	for _, e := range d.Entities {
		if e.Kind == EntityDoor {
			out = append(out, *e.Door)
		}
	}
	return out
}

// LayoutMeta is the stored metadata of one layout, addressed either by
// id or by its shareable session code.
type LayoutMeta struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
