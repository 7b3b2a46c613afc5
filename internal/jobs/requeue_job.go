package job

import (
	"context"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/publora/publora-api/internal/repository"
	"github.com/publora/publora-api/internal/scheduler"
)

// RequeueJob re-enqueues due scheduled groups whose delayed task was
// lost, e.g. after a Redis flush. The claim in the worker keeps the
// extra tasks harmless.
type RequeueJob struct {
	pgr    repository.PostGroupRepository
	client *asynq.Client
}

func NewRequeueJob(pgr repository.PostGroupRepository, client *asynq.Client) *RequeueJob {
	return &RequeueJob{pgr: pgr, client: client}
}

func (j *RequeueJob) RequeueDueGroups() {
	ctx := context.Background()

	ids, err := j.pgr.ListDueScheduled(ctx, time.Now())
	if err != nil {
		slog.Info(err.Error())
		return
	}

	for _, id := range ids {
		if err := scheduler.Enqueue(j.client, scheduler.PublishPayload{PostGroupID: id}, 0); err != nil {
			slog.Info(err.Error())
		}
	}
}
