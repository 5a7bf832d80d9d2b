package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xxxsen/docqa/internal/memory"
	"github.com/xxxsen/docqa/internal/pkg/response"
)

type MemoryHandler struct {
	conversation *memory.Conversation
}

func NewMemoryHandler(conversation *memory.Conversation) *MemoryHandler {
	return &MemoryHandler{conversation: conversation}
}

func (h *MemoryHandler) History(c *gin.Context) {
	entries := h.conversation.History()
	response.Success(c, gin.H{"items": entries, "count": len(entries)})
}

func (h *MemoryHandler) Reset(c *gin.Context) {
	h.conversation.Reset()
	response.Success(c, gin.H{"reset": true})
}
