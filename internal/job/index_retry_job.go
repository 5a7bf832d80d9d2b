package job

import (
	"context"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/docqa/internal/service"
)

// IndexRetryJob re-upserts chunk batches that failed to index. Safe to
// rerun because items replace by id.
type IndexRetryJob struct {
	ingest *service.IngestService
}

func NewIndexRetryJob(ingest *service.IngestService) *IndexRetryJob {
	return &IndexRetryJob{ingest: ingest}
}

func (j *IndexRetryJob) Name() string {
	return "index_retry"
}

func (j *IndexRetryJob) Run(ctx context.Context) error {
	if j.ingest == nil || j.ingest.PendingCount() == 0 {
		return nil
	}
	recovered, remaining := j.ingest.RetryPending(ctx)
	logutil.GetLogger(ctx).Info("index retry pass done",
		zap.Int("recovered", recovered),
		zap.Int("remaining", remaining),
	)
	return nil
}
