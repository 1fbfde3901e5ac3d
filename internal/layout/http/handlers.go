package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/planhub-io/planhub-backend/internal/layout/domain"
	"github.com/planhub-io/planhub-backend/internal/layout/service"
)

// Handler exposes the layout metadata API.
type Handler struct {
	svc *service.LayoutService
}

// NewHandler creates a new layout handler.
func NewHandler(svc *service.LayoutService) *Handler {
	return &Handler{svc: svc}
}

type createReq struct {
	Name string `json:"name"`
}

func (h *Handler) create(c *gin.Context) {
	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	meta, err := h.svc.Create(c.Request.Context(), strings.TrimSpace(req.Name))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ok": true, "layout": meta})
}

func (h *Handler) getByID(c *gin.Context) {
	meta, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.lookupError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "layout": meta})
}

func (h *Handler) getByCode(c *gin.Context) {
	meta, err := h.svc.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.lookupError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "layout": meta})
}

type renameReq struct {
	Name string `json:"name"`
}

func (h *Handler) rename(c *gin.Context) {
	var req renameReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	meta, err := h.svc.Rename(c.Request.Context(), c.Param("id"), strings.TrimSpace(req.Name))
	if err != nil {
		h.lookupError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "layout": meta})
}

func (h *Handler) lookupError(c *gin.Context, err error) {
	if errors.Is(err, domain.ErrLayoutNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "layout not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
}
