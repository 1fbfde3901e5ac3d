package session

import (
	"github.com/planhub-io/planhub-backend/internal/geometry"
	"github.com/planhub-io/planhub-backend/internal/layout/domain"
)

// Message types sent by clients.
const (
	MsgCursorMove  = "cursor-move"
	MsgCursorLeave = "cursor-leave"
	MsgCursorClick = "cursor-click"

	MsgRoomAdd    = "room-add"
	MsgRoomUpdate = "room-update"
	MsgRoomDelete = "room-delete"
	MsgRoomMove   = "room-move"

	MsgFurnitureAdd    = "furniture-add"
	MsgFurnitureUpdate = "furniture-update"
	MsgFurnitureDelete = "furniture-delete"
	MsgFurnitureMove   = "furniture-move"

	MsgDoorAdd    = "door-add"
	MsgDoorUpdate = "door-update"
	MsgDoorDelete = "door-delete"
	MsgDoorMove   = "door-move"
)

// Message types sent by the hub.
const (
	MsgSync         = "sync"
	MsgLayoutSync   = "layout-sync"
	MsgCursorUpdate = "cursor-update"
	MsgClientJoin   = "client-join"
	MsgClientLeave  = "client-leave"

	MsgRoomAdded    = "room-added"
	MsgRoomUpdated  = "room-updated"
	MsgRoomDeleted  = "room-deleted"
	MsgRoomMoved    = "room-moved"

	MsgFurnitureAdded   = "furniture-added"
	MsgFurnitureUpdated = "furniture-updated"
	MsgFurnitureDeleted = "furniture-deleted"
	MsgFurnitureMoved   = "furniture-moved"

	MsgDoorAdded   = "door-added"
	MsgDoorUpdated = "door-updated"
	MsgDoorDeleted = "door-deleted"
	MsgDoorMoved   = "door-moved"
)

// ClientInfo is one participant in a presence snapshot.
type ClientInfo struct {
	ClientID string `json:"clientId"`
	Color    string `json:"color"`
}

// Message is the wire envelope: one JSON object per message, tagged by
// Type, with only the fields for that type populated. Fields whose zero
// value is meaningful (cursor coordinates, wall offsets) are pointers.
type Message struct {
	Type     string `json:"type"`
	ClientID string `json:"clientId,omitempty"`
	Color    string `json:"color,omitempty"`

	X *int `json:"x,omitempty"`
	Y *int `json:"y,omitempty"`

	Room      *domain.Room      `json:"room,omitempty"`
	Furniture *domain.Furniture `json:"furniture,omitempty"`
	Door      *domain.Door      `json:"door,omitempty"`

	RoomID      string `json:"roomId,omitempty"`
	FurnitureID string `json:"furnitureId,omitempty"`
	DoorID      string `json:"doorId,omitempty"`

	Position       *geometry.Point `json:"position,omitempty"`
	WallIndex      *int            `json:"wallIndex,omitempty"`
	PositionOnWall *int            `json:"positionOnWall,omitempty"`

	Document *domain.LayoutDocument `json:"document,omitempty"`
	Clients  []ClientInfo           `json:"clients,omitempty"`
}

// IntPtr is a convenience for the pointer-typed envelope fields.
func IntPtr(v int) *int {
	return &v
}

// eventTypeFor maps an inbound entity operation to the event type it is
// rebroadcast as. Unknown types map to "".
func eventTypeFor(msgType string) string {
	switch msgType {
	case MsgRoomAdd:
		return MsgRoomAdded
	case MsgRoomUpdate:
		return MsgRoomUpdated
	case MsgRoomDelete:
		return MsgRoomDeleted
	case MsgRoomMove:
		return MsgRoomMoved
	case MsgFurnitureAdd:
		return MsgFurnitureAdded
	case MsgFurnitureUpdate:
		return MsgFurnitureUpdated
	case MsgFurnitureDelete:
		return MsgFurnitureDeleted
	case MsgFurnitureMove:
		return MsgFurnitureMoved
	case MsgDoorAdd:
		return MsgDoorAdded
	case MsgDoorUpdate:
		return MsgDoorUpdated
	case MsgDoorDelete:
		return MsgDoorDeleted
	case MsgDoorMove:
		return MsgDoorMoved
	}
	return ""
}
