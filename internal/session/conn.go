package session

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeDeadline  = 5 * time.Second
	readDeadline   = 60 * time.Second
	pingPeriod     = readDeadline * 9 / 10
	maxMessageSize = 1 << 20
	sendQueueSize  = 64
)

// Conn wraps one websocket participant. Outbound messages go through a
// buffered queue drained by a dedicated write goroutine; a full queue
// drops the message so a slow reader can never stall the hub.
type Conn struct {
	id    string
	color string
	ws    *websocket.Conn
	send  chan []byte
	log   *zap.SugaredLogger

	pingInterval time.Duration
}

func newConn(id string, ws *websocket.Conn, log *zap.SugaredLogger) *Conn {
	return &Conn{
		id:           id,
		ws:           ws,
		send:         make(chan []byte, sendQueueSize),
		log:          log,
		pingInterval: pingPeriod,
	}
}

// ID returns the connection id assigned at upgrade time.
func (c *Conn) ID() string {
	return c.id
}

// Enqueue queues an encoded message for delivery, dropping it if the
// queue is full.
func (c *Conn) Enqueue(payload []byte) {
	select {
	case c.send <- payload:
	default:
		c.log.Debugw("send queue full, dropping message", "conn", c.id)
	}
}

// EnqueueMessage encodes and queues a message.
func (c *Conn) EnqueueMessage(msg Message) {
	payload, err := json.Marshal(msg)
	if err != nil {
		c.log.Errorw("encode message", "conn", c.id, "type", msg.Type, "error", err)
		return
	}
	c.Enqueue(payload)
}

func (c *Conn) close() {
	close(c.send)
}

// writePump drains the send queue onto the socket until the queue is
// closed or a write fails, pinging between messages so a quietly
// watching participant keeps refreshing its read deadline.
func (c *Conn) writePump() {
	ticker := time.NewTicker(c.pingInterval)
	defer ticker.Stop()
	defer c.ws.Close()
	for {
		select {
		case payload, ok := <-c.send:
			if !ok {
				return
			}
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := c.ws.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump decodes inbound messages and forwards them to the hub actor
// in arrival order. Malformed payloads are logged and skipped; they are
// a connection-local concern and never reach the hub. Returns when the
// socket closes.
func (c *Conn) readPump(hub *Hub) {
	defer c.ws.Close()
	defer hub.requestLeave(c.id)

	c.ws.SetReadLimit(maxMessageSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(readDeadline))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(readDeadline))
	})

	for {
		_, payload, err := c.ws.ReadMessage()
		if err != nil {
			return
		}
		var msg Message
		if err := json.Unmarshal(payload, &msg); err != nil {
			c.log.Warnw("malformed message", "conn", c.id, "error", err)
			continue
		}
		hub.dispatch(c.id, msg)
	}
}
