package handler

import (
	"io"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/docqa/internal/loader"
	"github.com/xxxsen/docqa/internal/pkg/errcode"
	"github.com/xxxsen/docqa/internal/pkg/response"
	"github.com/xxxsen/docqa/internal/service"
)

type DocumentHandler struct {
	ingest         *service.IngestService
	maxUploadBytes int64
}

type UploadResponse struct {
	DocumentID string `json:"document_id"`
	Filename   string `json:"filename"`
	Format     string `json:"format"`
	Status     string `json:"status"`
}

func NewDocumentHandler(ingest *service.IngestService, maxUploadBytes int64) *DocumentHandler {
	return &DocumentHandler{ingest: ingest, maxUploadBytes: maxUploadBytes}
}

// Upload accepts a document and schedules indexing in the background.
// The response carries status "indexing": the document becomes
// searchable once the background ingest finishes.
func (h *DocumentHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		response.Error(c, errcode.ErrInvalidFile, "file is required")
		return
	}
	if h.maxUploadBytes > 0 && file.Size > h.maxUploadBytes {
		response.Error(c, errcode.ErrInvalidFile, "file exceeds upload limit of "+formatUploadLimit(h.maxUploadBytes))
		return
	}
	opened, err := file.Open()
	if err != nil {
		response.Error(c, errcode.ErrInvalidFile, "failed to open file")
		return
	}
	defer opened.Close()

	data, err := io.ReadAll(opened)
	if err != nil {
		response.Error(c, errcode.ErrInvalidFile, "failed to read file")
		return
	}
	doc, err := loader.Load(file.Filename, data)
	if err != nil {
		response.Error(c, errcode.ErrInvalidFile, err.Error())
		return
	}

	ctx := c.Request.Context()
	if _, err := opened.Seek(0, io.SeekStart); err == nil {
		if err := h.ingest.Archive(ctx, doc, opened, file.Size); err != nil {
			// archival is best-effort, indexing proceeds
			logutil.GetLogger(ctx).Warn("failed to archive upload",
				zap.String("document_id", doc.ID),
				zap.Error(err),
			)
		}
	}
	h.ingest.IngestAsync(doc)

	response.Success(c, UploadResponse{
		DocumentID: doc.ID,
		Filename:   doc.Filename,
		Format:     doc.Format,
		Status:     "indexing",
	})
}
