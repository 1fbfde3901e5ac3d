package bootstrap

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	httpapi "github.com/planhub-io/planhub-backend/internal/api/http"
	"github.com/planhub-io/planhub-backend/internal/api/http/middleware"
	layouthttp "github.com/planhub-io/planhub-backend/internal/layout/http"
	"github.com/planhub-io/planhub-backend/internal/layout/repository"
	"github.com/planhub-io/planhub-backend/internal/layout/service"
	"github.com/planhub-io/planhub-backend/internal/session"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	CORSOrigins string
	Store       repository.LayoutStore
	Layouts     *service.LayoutService
	Sessions    *session.Manager
	Log         *zap.SugaredLogger
}

func SetGinMode(env string) {
	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.Default()
	r.Use(corsMiddleware(dep.CORSOrigins))
	r.Use(middleware.RequestID(dep.Log))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.Store)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/api/v1")
	layouthttp.NewHandler(dep.Layouts).Register(api.Group("/layouts"))

	r.GET("/ws/:code", dep.Sessions.HandleWS)

	return r
}

func corsMiddleware(origins string) gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	cfg.MaxAge = 12 * time.Hour

	if origins == "" || origins == "*" {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = strings.Split(origins, ",")
	}
	return cors.New(cfg)
}
