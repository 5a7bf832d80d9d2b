package job

import (
	"context"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/docqa/internal/vectorstore"
)

// IndexStatsJob periodically logs the size of the vector index.
type IndexStatsJob struct {
	store vectorstore.Store
	kind  string
}

func NewIndexStatsJob(store vectorstore.Store, kind string) *IndexStatsJob {
	return &IndexStatsJob{store: store, kind: kind}
}

func (j *IndexStatsJob) Name() string {
	return "index_stats"
}

func (j *IndexStatsJob) Run(ctx context.Context) error {
	sizer, ok := j.store.(vectorstore.Sizer)
	if !ok {
		return nil
	}
	count, err := sizer.Count(ctx)
	if err != nil {
		return err
	}
	logutil.GetLogger(ctx).Info("vector index stats",
		zap.String("store", j.kind),
		zap.Int("items", count),
	)
	return nil
}
