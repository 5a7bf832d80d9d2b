package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/docqa/internal/pkg/response"
	"github.com/xxxsen/docqa/internal/retriever"
	"github.com/xxxsen/docqa/internal/workflow"
)

type QueryHandler struct {
	workflow  *workflow.Workflow
	retriever *retriever.Retriever
}

type QueryRequest struct {
	Query  string `json:"query"`
	Stream bool   `json:"stream"`
}

type SearchRequest struct {
	Query   string                 `json:"query"`
	TopK    int                    `json:"top_k"`
	Filters map[string]interface{} `json:"filters"`
}

func NewQueryHandler(w *workflow.Workflow, r *retriever.Retriever) *QueryHandler {
	return &QueryHandler{workflow: w, retriever: r}
}

// Query runs the full answer pipeline. With stream=true the answer is
// written as plain-text fragments as they are produced.
func (h *QueryHandler) Query(c *gin.Context) {
	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		response.BadRequest(c, "query is required")
		return
	}
	if req.Stream {
		h.streamAnswer(c, req.Query)
		return
	}
	response.Success(c, h.workflow.Process(c.Request.Context(), req.Query))
}

// Search exposes raw retrieval with optional metadata filters, without
// answer generation.
func (h *QueryHandler) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		response.BadRequest(c, "query is required")
		return
	}
	results := h.retriever.RetrieveWithFilter(c.Request.Context(), req.Query, req.Filters, req.TopK)
	response.Success(c, gin.H{"results": results, "count": len(results)})
}

func (h *QueryHandler) streamAnswer(c *gin.Context, query string) {
	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.Header("Cache-Control", "no-cache")
	c.Status(200)
	for fragment := range h.workflow.ProcessStream(c.Request.Context(), query) {
		if _, err := c.Writer.WriteString(fragment); err != nil {
			return
		}
		c.Writer.Flush()
	}
}
