package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xxxsen/docqa/internal/pkg/response"
	"github.com/xxxsen/docqa/internal/service"
	"github.com/xxxsen/docqa/internal/vectorstore"
)

type HealthHandler struct {
	store     vectorstore.Store
	storeKind string
	tiers     []string
	fileStore string
	ingest    *service.IngestService
}

func NewHealthHandler(store vectorstore.Store, storeKind string, tiers []string, fileStore string, ingest *service.IngestService) *HealthHandler {
	if fileStore == "" {
		fileStore = "none"
	}
	return &HealthHandler{store: store, storeKind: storeKind, tiers: tiers, fileStore: fileStore, ingest: ingest}
}

// Check reports per-capability readiness. The service answers queries
// even when some capabilities are degraded, so this always returns 200.
func (h *HealthHandler) Check(c *gin.Context) {
	body := gin.H{
		"status": "ok",
		"capabilities": gin.H{
			"vector_store":     h.storeKind,
			"generation_tiers": h.tiers,
			"file_store":       h.fileStore,
		},
	}
	if h.ingest != nil {
		body["pending_batches"] = h.ingest.PendingCount()
	}
	if sizer, ok := h.store.(vectorstore.Sizer); ok {
		if count, err := sizer.Count(c.Request.Context()); err == nil {
			body["indexed_items"] = count
		}
	}
	response.Success(c, body)
}
