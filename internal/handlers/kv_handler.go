package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/uherman/micro-kv/internal/realtime"
	"github.com/uherman/micro-kv/internal/store"

	"github.com/gin-gonic/gin"
)

// EntryWithTTL is the listing view of a stored entry. TTL is remaining seconds;
// null means the entry never expires.
type EntryWithTTL struct {
	Value any      `json:"value"`
	TTL   *float64 `json:"ttl"`
}

// TTLResponse is the response payload for TTL lookups.
type TTLResponse struct {
	TTL    *float64 `json:"ttl"`
	Status string   `json:"status"`
}

// KV exposes the store over HTTP. The store is handed in by the process entry
// point; tests construct their own.
type KV struct {
	store      *store.Store
	hub        *realtime.Hub
	defaultTTL time.Duration
	log        *slog.Logger
}

// NewKV builds the handler set around a store. defaultTTL applies to writes
// without a ttl parameter; zero means such entries never expire.
func NewKV(st *store.Store, hub *realtime.Hub, defaultTTL time.Duration, log *slog.Logger) *KV {
	if log == nil {
		log = slog.Default()
	}
	return &KV{store: st, hub: hub, defaultTTL: defaultTTL, log: log}
}

// GetAll handles GET /
// Returns every live entry with its remaining TTL.
func (h *KV) GetAll(c *gin.Context) {
	items := h.store.GetAll()
	response := make(map[string]EntryWithTTL, len(items))
	for key, item := range items {
		response[key] = EntryWithTTL{Value: item.Value, TTL: seconds(item.TTL)}
	}
	c.JSON(http.StatusOK, response)
}

// GetTTL handles GET /ttl/{key}
// Reports remaining seconds without deserializing the value; null means the
// entry never expires. Expired and absent keys are reported identically.
func (h *KV) GetTTL(c *gin.Context) {
	key := c.Param("key")
	ttl, err := h.store.GetTTL(key)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"status": "key not found: " + key})
		return
	}
	c.JSON(http.StatusOK, TTLResponse{TTL: seconds(ttl), Status: "success"})
}

// Health handles GET /health
func (h *KV) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"keys":   h.store.Len(),
	})
}

// Dispatch handles the bare /{key} routes (GET, POST, DELETE) from gin's
// NoRoute hook; see routes.SetupRoutes for why these are not registered
// directly.
func (h *KV) Dispatch(c *gin.Context) {
	key, ok := singleSegment(c.Request.URL.Path)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"status": "not found"})
		return
	}

	switch c.Request.Method {
	case http.MethodGet:
		h.getKey(c, key)
	case http.MethodPost:
		h.putKey(c, key)
	case http.MethodDelete:
		h.deleteKey(c, key)
	default:
		c.JSON(http.StatusMethodNotAllowed, gin.H{"status": "method not allowed"})
	}
}

// getKey handles GET /{key}
func (h *KV) getKey(c *gin.Context, key string) {
	item, err := h.store.Get(key)
	switch {
	case errors.Is(err, store.ErrKeyNotFound), errors.Is(err, store.ErrKeyExpired):
		c.JSON(http.StatusNotFound, gin.H{"status": "key not found: " + key})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error deserializing stored value"})
	default:
		c.JSON(http.StatusOK, item.Value)
	}
}

// putKey handles POST /{key}?ttl={seconds}
// Upserts the entry; a malformed body or ttl leaves the store untouched.
func (h *KV) putKey(c *gin.Context, key string) {
	var value any
	if err := c.ShouldBindJSON(&value); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "invalid JSON body"})
		return
	}

	ttl := h.defaultTTL
	if raw := c.Query("ttl"); raw != "" {
		secs, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || secs < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"status": "invalid ttl parameter"})
			return
		}
		ttl = time.Duration(secs) * time.Second
	}

	if err := h.store.Put(key, value, ttl); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error serializing value"})
		return
	}

	h.log.Info("key inserted", "key", key, "ttl", ttl.String())
	h.broadcast("key_inserted", key)
	c.JSON(http.StatusOK, gin.H{"status": "key inserted: " + key})
}

// deleteKey handles DELETE /{key}
// Always 200; the status message reflects whether anything was removed.
func (h *KV) deleteKey(c *gin.Context, key string) {
	if h.store.Delete(key) {
		h.log.Info("key deleted", "key", key)
		h.broadcast("key_deleted", key)
		c.JSON(http.StatusOK, gin.H{"status": "key deleted: " + key})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "key not found: " + key})
}

func (h *KV) broadcast(eventType, key string) {
	if h.hub == nil {
		return
	}
	evt := map[string]any{
		"type": eventType,
		"key":  key,
	}
	if bytes, err := json.Marshal(evt); err == nil {
		h.hub.Broadcast(bytes)
	}
}

// singleSegment extracts the key from a path of the form "/{key}".
func singleSegment(path string) (string, bool) {
	key := strings.TrimPrefix(path, "/")
	if key == "" || strings.Contains(key, "/") {
		return "", false
	}
	return key, true
}

// seconds converts a remaining TTL to float seconds for response payloads.
func seconds(d *time.Duration) *float64 {
	if d == nil {
		return nil
	}
	s := d.Seconds()
	return &s
}
