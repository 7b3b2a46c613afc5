package job

import (
	"context"
	"log/slog"
	"time"

	"github.com/publora/publora-api/internal/models"
	"github.com/publora/publora-api/internal/repository"
)

const stuckAfter = 30 * time.Minute

// WatchdogJob sweeps post groups that entered processing but never
// reached a terminal status, usually after a crash mid-publish.
type WatchdogJob struct {
	pgr repository.PostGroupRepository
}

func NewWatchdogJob(pgr repository.PostGroupRepository) *WatchdogJob {
	return &WatchdogJob{pgr: pgr}
}

func (j *WatchdogJob) SweepStuckGroups() {
	ctx := context.Background()

	cutoff := time.Now().Add(-stuckAfter)
	ids, err := j.pgr.ListStuckProcessing(ctx, cutoff)
	if err != nil {
		slog.Info(err.Error())
		return
	}

	for _, id := range ids {
		// Posts still in flight are marked failed; already finished
		// posts keep their result, so the group may still aggregate
		// to partially_published.
		if err := j.pgr.FailProcessingPosts(ctx, id, "publish timed out"); err != nil {
			slog.Info(err.Error())
			continue
		}

		posts, err := j.pgr.ListPosts(ctx, id)
		if err != nil {
			slog.Info(err.Error())
			continue
		}

		status := models.AggregateStatus(posts)
		if err := j.pgr.UpdateStatus(ctx, id, status); err != nil {
			slog.Info(err.Error())
			continue
		}

		slog.Info("Recovered stuck post group", "post_group_id", id, "status", status)
	}
}
