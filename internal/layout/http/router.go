package http

import "github.com/gin-gonic/gin"

// Register attaches layout routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("", h.create)
	rg.GET("/:id", h.getByID)
	rg.GET("/code/:code", h.getByCode)
	rg.PATCH("/:id", h.rename)
}
