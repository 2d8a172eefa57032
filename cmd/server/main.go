package main

import (
	"encoding/json"
	"log"
	"log/slog"
	"os"

	"github.com/uherman/micro-kv/internal/config"
	"github.com/uherman/micro-kv/internal/realtime"
	"github.com/uherman/micro-kv/internal/routes"
	"github.com/uherman/micro-kv/internal/store"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()

	// Structured JSON logs on stdout; gin's own request logging stays off.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)
	gin.SetMode(gin.ReleaseMode)

	// The store is the single owner of the table; handlers and the reaper
	// share this one reference. Reaper evictions feed the watcher hub.
	hub := realtime.GetHub()
	kvStore := store.New(store.Options{
		Logger: logger,
		OnEvict: func(keys []string) {
			for _, key := range keys {
				evt := map[string]any{
					"type": "key_expired",
					"key":  key,
				}
				if bytes, err := json.Marshal(evt); err == nil {
					hub.Broadcast(bytes)
				}
			}
		},
	})

	stopReaper := kvStore.StartReaper(cfg.ReaperMaxInterval)
	defer stopReaper()

	ginRoutes := routes.SetupRoutes(cfg, kvStore, logger)

	logger.Info("server starting",
		"addr", cfg.Addr,
		"defaultTTL", cfg.DefaultTTL.String(),
		"reaperMaxInterval", cfg.ReaperMaxInterval.String(),
		"authRequired", cfg.AuthRequired(),
	)
	log.Println("API endpoints:")
	log.Println("  GET    /")
	log.Println("  GET    /{key}")
	log.Println("  GET    /ttl/{key}")
	log.Println("  POST   /{key}?ttl={seconds}")
	log.Println("  DELETE /{key}")
	log.Println("  GET    /watch")
	log.Println("  GET    /health")

	if err := ginRoutes.Run(cfg.Addr); err != nil {
		log.Fatal("Failed to start server: ", err)
	}
}
