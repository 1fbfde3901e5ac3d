package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/planhub-io/planhub-backend/internal/layout/domain"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Session codes are the access model; origins are not.
		return true
	},
}

// hubEntry is one registry slot. The hub is resolved at most once per
// entry, outside the registry lock, so a slow document load for one
// code never stalls connection setup for other sessions.
type hubEntry struct {
	once sync.Once
	hub  *Hub
	err  error
}

// Manager owns the hub registry: one hub per session code, created
// lazily on first connection and evicted by a periodic sweep once idle.
type Manager struct {
	mu     sync.Mutex
	hubs   map[string]*hubEntry
	closed bool
	store  DocumentStore
	log    *zap.SugaredLogger

	cron       *cron.Cron
	idleWindow time.Duration
}

var errManagerClosed = errors.New("session manager is shut down")

// NewManager builds the registry and schedules the idle sweep.
// sweepSpec is a cron spec such as "@every 5m".
func NewManager(store DocumentStore, log *zap.SugaredLogger, sweepSpec string, idleWindow time.Duration) (*Manager, error) {
	m := &Manager{
		hubs:       make(map[string]*hubEntry),
		store:      store,
		log:        log,
		cron:       cron.New(),
		idleWindow: idleWindow,
	}
	if _, err := m.cron.AddFunc(sweepSpec, m.sweepIdle); err != nil {
		return nil, fmt.Errorf("schedule session sweep: %w", err)
	}
	m.cron.Start()
	return m, nil
}

// getOrCreate returns the live hub for a session code, loading and
// normalizing the document from the store on first connection. A code
// with no stored document starts an empty session. The registry lock
// only guards the map; the store load runs outside it, serialized per
// code by the entry's once.
func (m *Manager) getOrCreate(ctx context.Context, code string) (*Hub, error) {
	for {
		m.mu.Lock()
		if m.closed {
			m.mu.Unlock()
			return nil, errManagerClosed
		}
		e, ok := m.hubs[code]
		if !ok {
			e = &hubEntry{}
			m.hubs[code] = e
		}
		m.mu.Unlock()

		e.once.Do(func() { e.hub, e.err = m.openHub(ctx, code) })
		if e.err != nil {
			m.evict(code, e)
			return nil, e.err
		}

		m.mu.Lock()
		closed := m.closed
		m.mu.Unlock()
		if closed {
			// Resolution raced Shutdown; do not hand out a hub the
			// manager no longer tracks.
			e.hub.Stop()
			return nil, errManagerClosed
		}

		select {
		case <-e.hub.stopped:
			// Swept or shut down since resolution; retry on a fresh
			// entry.
			m.evict(code, e)
		default:
			return e.hub, nil
		}
	}
}

func (m *Manager) openHub(ctx context.Context, code string) (*Hub, error) {
	doc, err := m.store.LoadDocumentByCode(ctx, code)
	if err != nil {
		if !errors.Is(err, domain.ErrLayoutNotFound) {
			return nil, fmt.Errorf("load document %q: %w", code, err)
		}
		doc = domain.NewLayoutDocument()
	}

	normalized, didChange := domain.NormalizeLayoutDocument(doc)
	h := newHub(code, normalized, m.store, m.log)
	if didChange {
		h.persistAsync()
	}
	go h.run()
	return h, nil
}

// evict drops an entry from the registry if it is still the resident
// one for its code.
func (m *Manager) evict(code string, e *hubEntry) {
	m.mu.Lock()
	if m.hubs[code] == e {
		delete(m.hubs, code)
	}
	m.mu.Unlock()
}

// HandleWS upgrades GET /ws/:code and attaches the connection to the
// session's hub. The read pump runs on the handler goroutine.
func (m *Manager) HandleWS(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session code is required"})
		return
	}

	hub, err := m.getOrCreate(c.Request.Context(), code)
	if err != nil {
		m.log.Errorw("open session", "session", code, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to open session"})
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		m.log.Warnw("websocket upgrade", "session", code, "error", err)
		return
	}

	conn := newConn(uuid.New().String(), ws, m.log)
	if !hub.Join(conn) {
		_ = ws.Close()
		return
	}
	go conn.writePump()
	conn.readPump(hub)
}

// sweepIdle stops and evicts hubs that have had no connections for the
// idle window. Entity durability is unaffected; the document reloads
// from the store on the next connection.
func (m *Manager) sweepIdle() {
	cutoff := time.Now().Add(-m.idleWindow)
	m.mu.Lock()
	defer m.mu.Unlock()
	for code, e := range m.hubs {
		h := e.hub
		if h == nil {
			// Still resolving; it cannot be idle yet.
			continue
		}
		idle := h.IdleSince()
		if h.ConnCount() == 0 && !idle.IsZero() && idle.Before(cutoff) {
			h.Stop()
			delete(m.hubs, code)
			m.log.Infow("evicted idle session", "session", code, "idle_since", idle)
		}
	}
}

// Shutdown stops the sweep and every live hub.
func (m *Manager) Shutdown() {
	m.cron.Stop()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	for code, e := range m.hubs {
		if e.hub != nil {
			e.hub.Stop()
		}
		delete(m.hubs, code)
	}
}
