package service

import (
	"context"
	stderrors "errors"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/youtube/v3"

	"github.com/kirillov6/chanscope/internal/constants"
	"github.com/kirillov6/chanscope/internal/domain"
	"github.com/kirillov6/chanscope/internal/metrics"
	"github.com/kirillov6/chanscope/internal/quota"
)

type videoLister interface {
	VideoDetails(ctx context.Context, ids []string) ([]*youtube.Video, error)
}

// DetailFetcher turns item ids into classified VideoRecords in fixed-size
// batches.
type DetailFetcher struct {
	videos videoLister
	logger *zap.Logger
}

func NewDetailFetcher(videos videoLister, logger *zap.Logger) *DetailFetcher {
	return &DetailFetcher{videos: videos, logger: logger}
}

// FetchDetails partitions ids into ≤50-id batches, preserving input order
// across and within batches. A failed batch is dropped and recorded; the
// rest of the fetch continues. Quota exhaustion and cancellation stop the
// loop and propagate with the partial result.
func (f *DetailFetcher) FetchDetails(ctx context.Context, ids []string, report *Report) ([]domain.VideoRecord, error) {
	records := make([]domain.VideoRecord, 0, len(ids))

	for batchNum, batch := range chunkIDs(ids, constants.PageLimits.VideoIDsPerBatch) {
		if err := ctx.Err(); err != nil {
			return records, err
		}

		videos, err := f.videos.VideoDetails(ctx, batch)
		if err != nil {
			var quotaErr *quota.QuotaExceededError
			if stderrors.As(err, &quotaErr) || stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
				return records, err
			}
			f.logger.Warn("Detail batch failed, dropping its items",
				zap.Int("batch", batchNum),
				zap.Int("batch_size", len(batch)),
				zap.Error(err))
			report.recordFailure(fmt.Sprintf("detail batch %d", batchNum), err)
			report.ItemsDropped += len(batch)
			continue
		}

		report.BatchesFetched++
		for _, video := range orderLike(batch, videos) {
			records = append(records, metrics.BuildRecord(video, f.logger))
		}
	}

	return records, nil
}

// orderLike reorders a batch response to match the requested id order; the
// platform does not guarantee it. Ids the platform omitted are skipped.
func orderLike(ids []string, videos []*youtube.Video) []*youtube.Video {
	byID := make(map[string]*youtube.Video, len(videos))
	for _, video := range videos {
		byID[video.Id] = video
	}
	ordered := make([]*youtube.Video, 0, len(videos))
	for _, id := range ids {
		if video, ok := byID[id]; ok {
			ordered = append(ordered, video)
		}
	}
	return ordered
}

// chunkIDs splits ids into consecutive slices of at most size elements.
func chunkIDs(ids []string, size int) [][]string {
	if size <= 0 || len(ids) == 0 {
		return nil
	}
	chunks := make([][]string, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := min(start+size, len(ids))
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}
