package session

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/planhub-io/planhub-backend/internal/layout/domain"
)

// DocumentStore is the persistence collaborator the hub delegates
// durability to. The hub treats it as an opaque key-value-by-code store.
type DocumentStore interface {
	LoadDocumentByCode(ctx context.Context, code string) (domain.LayoutDocument, error)
	SaveDocumentByCode(ctx context.Context, code string, doc domain.LayoutDocument) error
}

// palette is the fixed set of presence colors handed out round-robin.
var palette = []string{
	"#E63946", "#457B9D", "#2A9D8F", "#F4A261",
	"#9C6644", "#6A4C93", "#1D3557", "#E76F51",
}

const persistTimeout = 5 * time.Second

type inboundMessage struct {
	senderID string
	msg      Message
}

// Hub owns one session: the canonical document, the live connection
// registry, and the broadcast policy. All state is confined to a single
// actor goroutine fed by ordered channels, so mutations never race and
// concurrent edits resolve purely by arrival order.
type Hub struct {
	code  string
	doc   domain.LayoutDocument
	store DocumentStore
	log   *zap.SugaredLogger

	conns    map[string]*Conn
	colorIdx int

	register   chan *Conn
	unregister chan string
	inbound    chan inboundMessage
	stop       chan struct{}
	stopped    chan struct{}
	stopOnce   sync.Once

	connCount atomic.Int32
	idleSince atomic.Int64
}

func newHub(code string, doc domain.LayoutDocument, store DocumentStore, log *zap.SugaredLogger) *Hub {
	h := &Hub{
		code:       code,
		doc:        doc,
		store:      store,
		log:        log,
		conns:      make(map[string]*Conn),
		register:   make(chan *Conn),
		unregister: make(chan string, 64),
		inbound:    make(chan inboundMessage, 256),
		stop:       make(chan struct{}),
		stopped:    make(chan struct{}),
	}
	h.idleSince.Store(time.Now().UnixNano())
	return h
}

// Join hands a connection to the hub actor. Returns false if the hub
// has already shut down.
func (h *Hub) Join(c *Conn) bool {
	select {
	case h.register <- c:
		return true
	case <-h.stopped:
		return false
	}
}

// Stop shuts the actor down and closes every connection.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.stop) })
}

// ConnCount returns the number of live connections.
func (h *Hub) ConnCount() int {
	return int(h.connCount.Load())
}

// IdleSince returns when the hub last dropped to zero connections, or
// the zero time while participants are present.
func (h *Hub) IdleSince() time.Time {
	ns := h.idleSince.Load()
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns)
}

func (h *Hub) dispatch(senderID string, msg Message) {
	select {
	case h.inbound <- inboundMessage{senderID: senderID, msg: msg}:
	case <-h.stopped:
	}
}

func (h *Hub) requestLeave(id string) {
	select {
	case h.unregister <- id:
	case <-h.stopped:
	}
}

// run is the session actor. It is the only goroutine that touches the
// document and the connection registry.
func (h *Hub) run() {
	defer close(h.stopped)
	for {
		select {
		case c := <-h.register:
			h.handleJoin(c)
		case id := <-h.unregister:
			h.handleLeave(id)
		case in := <-h.inbound:
			h.handleMessage(in.senderID, in.msg)
		case <-h.stop:
			for _, c := range h.conns {
				c.close()
			}
			h.conns = make(map[string]*Conn)
			h.connCount.Store(0)
			return
		}
	}
}

func (h *Hub) handleJoin(c *Conn) {
	c.color = palette[h.colorIdx%len(palette)]
	h.colorIdx++
	h.conns[c.id] = c
	h.connCount.Store(int32(len(h.conns)))
	h.idleSince.Store(0)

	clients := make([]ClientInfo, 0, len(h.conns))
	for _, other := range h.conns {
		clients = append(clients, ClientInfo{ClientID: other.id, Color: other.color})
	}
	c.EnqueueMessage(Message{Type: MsgSync, Clients: clients})

	doc := h.doc
	c.EnqueueMessage(Message{Type: MsgLayoutSync, Document: &doc})

	h.relayExcept(c.id, Message{Type: MsgClientJoin, ClientID: c.id, Color: c.color})
	h.log.Infow("client joined", "session", h.code, "conn", c.id, "clients", len(h.conns))
}

func (h *Hub) handleLeave(id string) {
	c, ok := h.conns[id]
	if !ok {
		return
	}
	delete(h.conns, id)
	c.close()
	h.connCount.Store(int32(len(h.conns)))
	if len(h.conns) == 0 {
		h.idleSince.Store(time.Now().UnixNano())
	}
	h.relayExcept(id, Message{Type: MsgClientLeave, ClientID: id})
	h.log.Infow("client left", "session", h.code, "conn", id, "clients", len(h.conns))
}

func (h *Hub) handleMessage(senderID string, msg Message) {
	sender, ok := h.conns[senderID]
	if !ok {
		return
	}

	switch msg.Type {
	case MsgCursorMove:
		h.relayExcept(senderID, Message{Type: MsgCursorUpdate, ClientID: senderID, X: msg.X, Y: msg.Y})
		return
	case MsgCursorLeave:
		h.relayExcept(senderID, Message{Type: MsgCursorLeave, ClientID: senderID})
		return
	case MsgCursorClick:
		// Click ripples render on every screen, the sender's included.
		h.broadcast(Message{Type: MsgCursorClick, ClientID: senderID, Color: sender.color, X: msg.X, Y: msg.Y})
		return
	}

	eventType := eventTypeFor(msg.Type)
	if eventType == "" {
		h.log.Debugw("unknown message type", "session", h.code, "conn", senderID, "type", msg.Type)
		return
	}
	next, ok := h.applyOperator(msg)
	if !ok {
		h.log.Warnw("entity message missing payload", "session", h.code, "conn", senderID, "type", msg.Type)
		return
	}
	h.doc = next
	h.persistAsync()

	event := msg
	event.Type = eventType
	event.ClientID = senderID
	h.relayExcept(senderID, event)
}

// applyOperator maps an entity message onto the document operator it
// names. Returns false when the payload for that type is missing.
func (h *Hub) applyOperator(msg Message) (domain.LayoutDocument, bool) {
	switch msg.Type {
	case MsgRoomAdd:
		if msg.Room == nil {
			return h.doc, false
		}
		return domain.AddEntity(h.doc, domain.RoomEntity(*msg.Room)), true
	case MsgRoomUpdate:
		if msg.Room == nil {
			return h.doc, false
		}
		return domain.UpdateEntity(h.doc, domain.RoomEntity(*msg.Room)), true
	case MsgRoomDelete:
		if msg.RoomID == "" {
			return h.doc, false
		}
		return domain.DeleteRoomWithContents(h.doc, msg.RoomID), true
	case MsgRoomMove:
		if msg.RoomID == "" || msg.Position == nil {
			return h.doc, false
		}
		return domain.MoveRoom(h.doc, msg.RoomID, *msg.Position), true
	case MsgFurnitureAdd:
		if msg.Furniture == nil {
			return h.doc, false
		}
		return domain.AddEntity(h.doc, domain.FurnitureEntity(*msg.Furniture)), true
	case MsgFurnitureUpdate:
		if msg.Furniture == nil {
			return h.doc, false
		}
		return domain.UpdateEntity(h.doc, domain.FurnitureEntity(*msg.Furniture)), true
	case MsgFurnitureDelete:
		if msg.FurnitureID == "" {
			return h.doc, false
		}
		return domain.DeleteEntity(h.doc, domain.EntityFurniture, msg.FurnitureID), true
	case MsgFurnitureMove:
		if msg.FurnitureID == "" || msg.Position == nil || msg.RoomID == "" {
			return h.doc, false
		}
		return domain.MoveFurniture(h.doc, msg.FurnitureID, *msg.Position, msg.RoomID), true
	case MsgDoorAdd:
		if msg.Door == nil {
			return h.doc, false
		}
		return domain.AddEntity(h.doc, domain.DoorEntity(*msg.Door)), true
	case MsgDoorUpdate:
		if msg.Door == nil {
			return h.doc, false
		}
		return domain.UpdateEntity(h.doc, domain.DoorEntity(*msg.Door)), true
	case MsgDoorDelete:
		if msg.DoorID == "" {
			return h.doc, false
		}
		return domain.DeleteEntity(h.doc, domain.EntityDoor, msg.DoorID), true
	case MsgDoorMove:
		if msg.DoorID == "" || msg.WallIndex == nil || msg.PositionOnWall == nil {
			return h.doc, false
		}
		return domain.MoveDoor(h.doc, msg.DoorID, *msg.WallIndex, *msg.PositionOnWall), true
	}
	return h.doc, false
}

// persistAsync issues a fire-and-forget write of the current document.
// A failed write is logged and dropped; it never blocks or reverses the
// in-memory broadcast, so durable state can trail the session by one
// mutation until the next successful write.
func (h *Hub) persistAsync() {
	doc := h.doc
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		if err := h.store.SaveDocumentByCode(ctx, h.code, doc); err != nil {
			h.log.Warnw("persist failed", "session", h.code, "error", err)
		}
	}()
}

func (h *Hub) relayExcept(senderID string, msg Message) {
	for id, c := range h.conns {
		if id == senderID {
			continue
		}
		c.EnqueueMessage(msg)
	}
}

func (h *Hub) broadcast(msg Message) {
	for _, c := range h.conns {
		c.EnqueueMessage(msg)
	}
}
