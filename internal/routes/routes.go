package routes

import (
	"log/slog"

	"github.com/uherman/micro-kv/internal/config"
	"github.com/uherman/micro-kv/internal/handlers"
	"github.com/uherman/micro-kv/internal/middleware"
	"github.com/uherman/micro-kv/internal/realtime"
	"github.com/uherman/micro-kv/internal/store"

	"github.com/gin-gonic/gin"
)

// SetupRoutes wires the HTTP surface around a store. The store is owned by the
// caller; nothing here holds ambient global state.
func SetupRoutes(cfg config.Config, st *store.Store, log *slog.Logger) *gin.Engine {
	if log == nil {
		log = slog.Default()
	}

	ginRouter := gin.New()
	ginRouter.Use(gin.Recovery())
	ginRouter.Use(middleware.RequestLogger(log))

	kv := handlers.NewKV(st, realtime.GetHub(), cfg.DefaultTTL, log)

	// Health check endpoint
	ginRouter.GET("/health", kv.Health)

	// The token endpoint stays public; it is registered before the auth
	// middleware so its handler chain does not include it.
	if cfg.AuthRequired() {
		authHandler := handlers.NewAuth(cfg)
		ginRouter.POST("/auth/token", authHandler.IssueToken)
		ginRouter.Use(middleware.WriteAuthMiddleware())
	}

	ginRouter.GET("/", kv.GetAll)
	ginRouter.GET("/ttl/:key", kv.GetTTL)
	ginRouter.GET("/watch", kv.Watch)

	// The bare /{key} operations go through NoRoute: gin's routing tree cannot
	// mix a root-level :key wildcard with the static /ttl, /watch, /auth and
	// /health prefixes. Keys named after those prefixes are still storable and
	// listable, just shadowed on direct lookup.
	ginRouter.NoRoute(kv.Dispatch)

	return ginRouter
}
