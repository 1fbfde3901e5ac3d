// Package client is the participant-side half of the sync protocol: an
// optimistic local mirror of the layout document that applies the same
// operators the hub applies, throttles continuous-motion traffic, and
// reverts rejected drags.
package client

import (
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/planhub-io/planhub-backend/internal/collision"
	"github.com/planhub-io/planhub-backend/internal/geometry"
	"github.com/planhub-io/planhub-backend/internal/layout/domain"
	"github.com/planhub-io/planhub-backend/internal/session"
)

// ThrottleInterval is the minimum spacing between outbound
// continuous-motion messages (cursor and drag moves).
const ThrottleInterval = 50 * time.Millisecond

// RevertReason distinguishes why a drag was rejected at release. The
// wire traffic is identical either way; the reason is only surfaced to
// the caller.
type RevertReason string

const (
	RevertNone        RevertReason = ""
	RevertCollision   RevertReason = "revert-collision"
	RevertRoomMissing RevertReason = "revert-room-missing"
)

// SendFunc delivers one message toward the hub.
type SendFunc func(session.Message) error

// Peer is another participant's presence state.
type Peer struct {
	ClientID string
	Color    string
	Cursor   *geometry.Point
}

type dragKind int

const (
	dragRoom dragKind = iota
	dragFurniture
)

type dragState struct {
	kind         dragKind
	id           string
	origPosition geometry.Point
	origRoomID   string
	curPosition  geometry.Point
	curRoomID    string
}

// Adapter keeps the local document mirror. Local edits apply to the
// mirror immediately and are sent toward the hub; inbound broadcasts
// apply through the identical operators, so mirror and hub converge
// deterministically given the same message order.
type Adapter struct {
	mu   sync.Mutex
	doc  domain.LayoutDocument
	send SendFunc

	moveLimiter   *rate.Limiter
	cursorLimiter *rate.Limiter

	drag  *dragState
	peers map[string]*Peer
}

// New builds an adapter around a message sink.
func New(send SendFunc) *Adapter {
	return &Adapter{
		doc:           domain.NewLayoutDocument(),
		send:          send,
		moveLimiter:   rate.NewLimiter(rate.Every(ThrottleInterval), 1),
		cursorLimiter: rate.NewLimiter(rate.Every(ThrottleInterval), 1),
		peers:         make(map[string]*Peer),
	}
}

// Document returns the current local mirror.
func (a *Adapter) Document() domain.LayoutDocument {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.doc
}

// Peers returns the known presence states.
func (a *Adapter) Peers() []Peer {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Peer, 0, len(a.peers))
	for _, p := range a.peers {
		out = append(out, *p)
	}
	return out
}

// --- local entity actions -------------------------------------------------

// AddRoom applies the add locally and sends it toward the hub.
func (a *Adapter) AddRoom(room domain.Room) error {
	a.mu.Lock()
	a.doc = domain.AddEntity(a.doc, domain.RoomEntity(room))
	a.mu.Unlock()
	return a.send(session.Message{Type: session.MsgRoomAdd, Room: &room})
}

// UpdateRoom applies the update locally and sends it toward the hub.
func (a *Adapter) UpdateRoom(room domain.Room) error {
	a.mu.Lock()
	a.doc = domain.UpdateEntity(a.doc, domain.RoomEntity(room))
	a.mu.Unlock()
	return a.send(session.Message{Type: session.MsgRoomUpdate, Room: &room})
}

// DeleteRoom cascades locally and sends the delete toward the hub.
func (a *Adapter) DeleteRoom(roomID string) error {
	a.mu.Lock()
	a.doc = domain.DeleteRoomWithContents(a.doc, roomID)
	a.mu.Unlock()
	return a.send(session.Message{Type: session.MsgRoomDelete, RoomID: roomID})
}

// AddFurniture applies the add locally and sends it toward the hub.
func (a *Adapter) AddFurniture(item domain.Furniture) error {
	a.mu.Lock()
	a.doc = domain.AddEntity(a.doc, domain.FurnitureEntity(item))
	a.mu.Unlock()
	return a.send(session.Message{Type: session.MsgFurnitureAdd, Furniture: &item})
}

// UpdateFurniture applies the update locally and sends it toward the hub.
func (a *Adapter) UpdateFurniture(item domain.Furniture) error {
	a.mu.Lock()
	a.doc = domain.UpdateEntity(a.doc, domain.FurnitureEntity(item))
	a.mu.Unlock()
	return a.send(session.Message{Type: session.MsgFurnitureUpdate, Furniture: &item})
}

// DeleteFurniture applies the delete locally and sends it toward the hub.
func (a *Adapter) DeleteFurniture(furnitureID string) error {
	a.mu.Lock()
	a.doc = domain.DeleteEntity(a.doc, domain.EntityFurniture, furnitureID)
	a.mu.Unlock()
	return a.send(session.Message{Type: session.MsgFurnitureDelete, FurnitureID: furnitureID})
}

// AddDoor applies the add locally and sends it toward the hub.
func (a *Adapter) AddDoor(door domain.Door) error {
	a.mu.Lock()
	a.doc = domain.AddEntity(a.doc, domain.DoorEntity(door))
	a.mu.Unlock()
	return a.send(session.Message{Type: session.MsgDoorAdd, Door: &door})
}

// UpdateDoor applies the update locally and sends it toward the hub.
func (a *Adapter) UpdateDoor(door domain.Door) error {
	a.mu.Lock()
	a.doc = domain.UpdateEntity(a.doc, domain.DoorEntity(door))
	a.mu.Unlock()
	return a.send(session.Message{Type: session.MsgDoorUpdate, Door: &door})
}

// DeleteDoor applies the delete locally and sends it toward the hub.
func (a *Adapter) DeleteDoor(doorID string) error {
	a.mu.Lock()
	a.doc = domain.DeleteEntity(a.doc, domain.EntityDoor, doorID)
	a.mu.Unlock()
	return a.send(session.Message{Type: session.MsgDoorDelete, DoorID: doorID})
}

// MoveDoor applies the move locally and sends it toward the hub.
func (a *Adapter) MoveDoor(doorID string, wallIndex, positionOnWall int) error {
	a.mu.Lock()
	a.doc = domain.MoveDoor(a.doc, doorID, wallIndex, positionOnWall)
	a.mu.Unlock()
	return a.send(session.Message{
		Type:           session.MsgDoorMove,
		DoorID:         doorID,
		WallIndex:      session.IntPtr(wallIndex),
		PositionOnWall: session.IntPtr(positionOnWall),
	})
}

// SnapDoorTo moves a door to the wall point nearest the pointer. The
// door crosses walls freely as the pointer sweeps around its room; the
// resulting offset is already clamped to the chosen wall.
func (a *Adapter) SnapDoorTo(doorID string, target geometry.Point) error {
	a.mu.Lock()
	door, ok := a.doc.DoorByID(doorID)
	if !ok {
		a.mu.Unlock()
		return nil
	}
	room, ok := a.doc.RoomByID(door.RoomID)
	if !ok {
		a.mu.Unlock()
		return nil
	}
	vertices, err := geometry.ShapeVertices(room.Shape)
	if err != nil {
		a.mu.Unlock()
		return nil
	}
	wallIndex, positionOnWall := geometry.FindClosestWallPoint(vertices, room.Position, target, door.Width)
	a.doc = domain.MoveDoor(a.doc, doorID, wallIndex, positionOnWall)
	a.mu.Unlock()

	return a.send(session.Message{
		Type:           session.MsgDoorMove,
		DoorID:         doorID,
		WallIndex:      session.IntPtr(wallIndex),
		PositionOnWall: session.IntPtr(positionOnWall),
	})
}

// DoorGeometry derives the hinge, latch, and swing points a renderer
// needs for a door in its current placement. Returns false when the
// door, its room, or the room's polygon cannot be resolved.
func (a *Adapter) DoorGeometry(doorID string) (geometry.DoorGeometry, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	door, ok := a.doc.DoorByID(doorID)
	if !ok {
		return geometry.DoorGeometry{}, false
	}
	room, ok := a.doc.RoomByID(door.RoomID)
	if !ok {
		return geometry.DoorGeometry{}, false
	}
	vertices, err := geometry.ShapeVertices(room.Shape)
	if err != nil {
		return geometry.DoorGeometry{}, false
	}
	segs := geometry.WallSegments(vertices, room.Position)
	if door.WallIndex < 0 || door.WallIndex >= len(segs) {
		return geometry.DoorGeometry{}, false
	}
	seg := segs[door.WallIndex]

	dg, err := geometry.ComputeDoorGeometry(seg.Start, seg.End, door.PositionOnWall, door.Width, door.HingeSide, vertices, room.Position)
	if err != nil {
		return geometry.DoorGeometry{}, false
	}
	return dg, true
}

// --- cursor sharing -------------------------------------------------------

// CursorMove shares the local cursor position. Moves are lossy: inside
// the throttle window they are simply dropped.
func (a *Adapter) CursorMove(x, y int) error {
	if !a.cursorLimiter.Allow() {
		return nil
	}
	return a.send(session.Message{Type: session.MsgCursorMove, X: session.IntPtr(x), Y: session.IntPtr(y)})
}

// CursorLeave reports the cursor leaving the canvas.
func (a *Adapter) CursorLeave() error {
	return a.send(session.Message{Type: session.MsgCursorLeave})
}

// CursorClick reports a click; the hub echoes it to everyone including
// this client.
func (a *Adapter) CursorClick(x, y int) error {
	return a.send(session.Message{Type: session.MsgCursorClick, X: session.IntPtr(x), Y: session.IntPtr(y)})
}

// --- drag lifecycle -------------------------------------------------------

// BeginRoomDrag records the pre-drag position used for reverts.
func (a *Adapter) BeginRoomDrag(roomID string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	room, ok := a.doc.RoomByID(roomID)
	if !ok {
		return false
	}
	a.drag = &dragState{
		kind:         dragRoom,
		id:           roomID,
		origPosition: room.Position,
		curPosition:  room.Position,
	}
	return true
}

// BeginFurnitureDrag records the pre-drag position and room used for
// reverts.
func (a *Adapter) BeginFurnitureDrag(furnitureID string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	item, ok := a.doc.FurnitureByID(furnitureID)
	if !ok {
		return false
	}
	a.drag = &dragState{
		kind:         dragFurniture,
		id:           furnitureID,
		origPosition: item.Position,
		origRoomID:   item.RoomID,
		curPosition:  item.Position,
		curRoomID:    item.RoomID,
	}
	return true
}

// DragRoomTo updates the mirror on every pointer move; the outbound
// message is throttled and the last unsent position kept pending for
// the release flush.
func (a *Adapter) DragRoomTo(position geometry.Point) error {
	a.mu.Lock()
	d := a.drag
	if d == nil || d.kind != dragRoom {
		a.mu.Unlock()
		return nil
	}
	a.doc = domain.MoveRoom(a.doc, d.id, position)
	d.curPosition = position
	msg := session.Message{Type: session.MsgRoomMove, RoomID: d.id, Position: &position}
	allowed := a.moveLimiter.Allow()
	a.mu.Unlock()

	if !allowed {
		return nil
	}
	return a.send(msg)
}

// DragFurnitureTo updates the mirror on every pointer move, changing
// position and owning room atomically; outbound traffic is throttled.
func (a *Adapter) DragFurnitureTo(position geometry.Point, roomID string) error {
	a.mu.Lock()
	d := a.drag
	if d == nil || d.kind != dragFurniture {
		a.mu.Unlock()
		return nil
	}
	a.doc = domain.MoveFurniture(a.doc, d.id, position, roomID)
	d.curPosition = position
	d.curRoomID = roomID
	msg := session.Message{Type: session.MsgFurnitureMove, FurnitureID: d.id, Position: &position, RoomID: roomID}
	allowed := a.moveLimiter.Allow()
	a.mu.Unlock()

	if !allowed {
		return nil
	}
	return a.send(msg)
}

// DragBlocked is the advisory collision check run while dragging; it
// only drives visual feedback and never blocks the drag itself.
func (a *Adapter) DragBlocked() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	d := a.drag
	if d == nil {
		return false
	}
	switch d.kind {
	case dragRoom:
		return collision.RoomCollides(a.doc.Rooms(), d.id, d.curPosition)
	case dragFurniture:
		return collision.FurnitureCollides(a.doc.Rooms(), a.doc.FurnitureItems(), d.id, d.curPosition, d.curRoomID)
	}
	return false
}

// EndDrag runs the authoritative collision check once at release. On
// success the final position is flushed unconditionally, even if the
// throttle window has not elapsed. On failure the entity reverts to its
// pre-drag state both locally and over the network, and the reason is
// returned.
func (a *Adapter) EndDrag() (RevertReason, error) {
	a.mu.Lock()
	d := a.drag
	a.drag = nil
	if d == nil {
		a.mu.Unlock()
		return RevertNone, nil
	}

	reason := a.checkRelease(d)
	var msg session.Message
	if reason == RevertNone {
		msg = d.moveMessage(d.curPosition, d.curRoomID)
	} else {
		a.revertLocked(d)
		msg = d.moveMessage(d.origPosition, d.origRoomID)
	}
	a.mu.Unlock()

	return reason, a.send(msg)
}

// CancelDrag reverts the active drag immediately (escape keypress),
// bypassing the throttle window.
func (a *Adapter) CancelDrag() error {
	a.mu.Lock()
	d := a.drag
	a.drag = nil
	if d == nil {
		a.mu.Unlock()
		return nil
	}
	a.revertLocked(d)
	msg := d.moveMessage(d.origPosition, d.origRoomID)
	a.mu.Unlock()

	return a.send(msg)
}

func (d *dragState) moveMessage(position geometry.Point, roomID string) session.Message {
	if d.kind == dragRoom {
		return session.Message{Type: session.MsgRoomMove, RoomID: d.id, Position: &position}
	}
	return session.Message{Type: session.MsgFurnitureMove, FurnitureID: d.id, Position: &position, RoomID: roomID}
}

func (a *Adapter) checkRelease(d *dragState) RevertReason {
	switch d.kind {
	case dragRoom:
		if _, ok := a.doc.RoomByID(d.id); !ok {
			return RevertRoomMissing
		}
		if collision.RoomCollides(a.doc.Rooms(), d.id, d.curPosition) {
			return RevertCollision
		}
	case dragFurniture:
		if _, ok := a.doc.RoomByID(d.curRoomID); !ok {
			return RevertRoomMissing
		}
		if collision.FurnitureCollides(a.doc.Rooms(), a.doc.FurnitureItems(), d.id, d.curPosition, d.curRoomID) {
			return RevertCollision
		}
	}
	return RevertNone
}

func (a *Adapter) revertLocked(d *dragState) {
	if d.kind == dragRoom {
		a.doc = domain.MoveRoom(a.doc, d.id, d.origPosition)
		return
	}
	a.doc = domain.MoveFurniture(a.doc, d.id, d.origPosition, d.origRoomID)
}

// --- inbound --------------------------------------------------------------

// HandleInbound applies one hub broadcast to the local mirror using the
// same operators the hub applied, plus presence bookkeeping. Unknown
// types are ignored.
func (a *Adapter) HandleInbound(msg session.Message) {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch msg.Type {
	case session.MsgLayoutSync:
		if msg.Document != nil {
			a.doc = *msg.Document
		}
	case session.MsgSync:
		a.peers = make(map[string]*Peer, len(msg.Clients))
		for _, ci := range msg.Clients {
			a.peers[ci.ClientID] = &Peer{ClientID: ci.ClientID, Color: ci.Color}
		}
	case session.MsgClientJoin:
		a.peers[msg.ClientID] = &Peer{ClientID: msg.ClientID, Color: msg.Color}
	case session.MsgClientLeave:
		delete(a.peers, msg.ClientID)
	case session.MsgCursorUpdate, session.MsgCursorClick:
		if p, ok := a.peers[msg.ClientID]; ok && msg.X != nil && msg.Y != nil {
			p.Cursor = &geometry.Point{X: *msg.X, Y: *msg.Y}
		}
	case session.MsgCursorLeave:
		if p, ok := a.peers[msg.ClientID]; ok {
			p.Cursor = nil
		}

	case session.MsgRoomAdded:
		if msg.Room != nil {
			a.doc = domain.AddEntity(a.doc, domain.RoomEntity(*msg.Room))
		}
	case session.MsgRoomUpdated:
		if msg.Room != nil {
			a.doc = domain.UpdateEntity(a.doc, domain.RoomEntity(*msg.Room))
		}
	case session.MsgRoomDeleted:
		a.doc = domain.DeleteRoomWithContents(a.doc, msg.RoomID)
	case session.MsgRoomMoved:
		if msg.Position != nil {
			a.doc = domain.MoveRoom(a.doc, msg.RoomID, *msg.Position)
		}
	case session.MsgFurnitureAdded:
		if msg.Furniture != nil {
			a.doc = domain.AddEntity(a.doc, domain.FurnitureEntity(*msg.Furniture))
		}
	case session.MsgFurnitureUpdated:
		if msg.Furniture != nil {
			a.doc = domain.UpdateEntity(a.doc, domain.FurnitureEntity(*msg.Furniture))
		}
	case session.MsgFurnitureDeleted:
		a.doc = domain.DeleteEntity(a.doc, domain.EntityFurniture, msg.FurnitureID)
	case session.MsgFurnitureMoved:
		if msg.Position != nil {
			a.doc = domain.MoveFurniture(a.doc, msg.FurnitureID, *msg.Position, msg.RoomID)
		}
	case session.MsgDoorAdded:
		if msg.Door != nil {
			a.doc = domain.AddEntity(a.doc, domain.DoorEntity(*msg.Door))
		}
	case session.MsgDoorUpdated:
		if msg.Door != nil {
			a.doc = domain.UpdateEntity(a.doc, domain.DoorEntity(*msg.Door))
		}
	case session.MsgDoorDeleted:
		a.doc = domain.DeleteEntity(a.doc, domain.EntityDoor, msg.DoorID)
	case session.MsgDoorMoved:
		if msg.WallIndex != nil && msg.PositionOnWall != nil {
			a.doc = domain.MoveDoor(a.doc, msg.DoorID, *msg.WallIndex, *msg.PositionOnWall)
		}
	}
}
