package scheduler

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/hibiken/asynq"
	"github.com/publora/publora-api/internal/models"
	"github.com/publora/publora-api/internal/publisher"
	"github.com/publora/publora-api/internal/repository"
)

const (
	publishConcurrency = 10
	publishTimeout     = 5 * time.Minute
	leaseRetryDelay    = 5 * time.Second
)

// GroupLeaser is the mutual exclusion the worker takes before claiming
// a group. Satisfied by lock.GroupLease.
type GroupLeaser interface {
	Acquire(ctx context.Context, postGroupID string) (release func(), acquired bool, err error)
}

type Worker struct {
	pgr      repository.PostGroupRepository
	pcr      repository.PlatformConnectionRepository
	mar      repository.MediaAssetRepository
	lease    GroupLeaser
	registry *publisher.Registry
	client   *asynq.Client
}

func NewWorker(
	pgr repository.PostGroupRepository,
	pcr repository.PlatformConnectionRepository,
	mar repository.MediaAssetRepository,
	lease GroupLeaser,
	registry *publisher.Registry,
	client *asynq.Client) *Worker {
	return &Worker{
		pgr:      pgr,
		pcr:      pcr,
		mar:      mar,
		lease:    lease,
		registry: registry,
		client:   client,
	}
}

func (w *Worker) HandlePublishTask(ctx context.Context, task *asynq.Task) error {
	var payload PublishPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return err
	}

	return w.PublishGroup(ctx, payload.PostGroupID)
}

// PublishGroup drives a post group through its publish. Stale tasks are
// harmless: a deleted group, a rescheduled one, or one already claimed
// by another worker all resolve to a no-op here.
func (w *Worker) PublishGroup(ctx context.Context, postGroupID string) error {
	group, err := w.pgr.GetWithPosts(ctx, postGroupID)
	if err != nil {
		return err
	}
	if group == nil {
		log.Printf("Post group %s no longer exists, dropping task", postGroupID)
		return nil
	}

	if group.Status != models.GroupStatusScheduled {
		log.Printf("Post group %s is %s, dropping task", postGroupID, group.Status)
		return nil
	}

	// The schedule may have moved since this task was enqueued.
	if group.ScheduledTime != nil {
		if delay := time.Until(*group.ScheduledTime); delay > 0 {
			return Enqueue(w.client, PublishPayload{PostGroupID: postGroupID}, delay)
		}
	}

	release, acquired, err := w.lease.Acquire(ctx, postGroupID)
	if err != nil {
		return err
	}
	if !acquired {
		// An update or delete holds the lease. Come back shortly.
		return Enqueue(w.client, PublishPayload{PostGroupID: postGroupID}, leaseRetryDelay)
	}
	defer release()

	claimed, err := w.pgr.ClaimForProcessing(ctx, postGroupID)
	if err != nil {
		return err
	}
	if !claimed {
		log.Printf("Post group %s already claimed, dropping task", postGroupID)
		return nil
	}

	if err := w.pgr.MarkPostsProcessing(ctx, postGroupID); err != nil {
		return err
	}

	media, err := w.mar.ListUploadedByGroupID(ctx, postGroupID)
	if err != nil {
		return err
	}

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, publishConcurrency)

	publishPost := func(post *models.Post) {
		defer wg.Done()
		defer func() { <-semaphore }()

		postCtx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()

		result, err := w.publishOne(postCtx, group, post, media)
		if err != nil {
			log.Printf("Error publishing post %d to %s: %v", post.ID, post.Platform, err)
			if err := w.pgr.UpdatePostResult(postCtx, post.ID, models.PostStatusFailed, "", "", err.Error()); err != nil {
				log.Printf("Error saving failure for post %d: %v", post.ID, err)
			}
			return
		}

		if err := w.pgr.UpdatePostResult(postCtx, post.ID, models.PostStatusPublished, result.PostedID, result.PublishedURL, ""); err != nil {
			log.Printf("Error saving result for post %d: %v", post.ID, err)
		}
	}

	for _, post := range group.Posts {
		wg.Add(1)
		semaphore <- struct{}{}
		go publishPost(post)
	}

	wg.Wait()

	return w.finishGroup(context.Background(), postGroupID)
}

func (w *Worker) publishOne(ctx context.Context, group *models.PostGroup, post *models.Post, media []*models.MediaAsset) (*publisher.Result, error) {
	conn, err := w.pcr.GetByID(ctx, post.ConnectionID)
	if err != nil {
		return nil, err
	}
	if conn == nil {
		return nil, &publisher.PublishError{
			Platform: post.Platform,
			Reason:   "platform connection no longer exists",
		}
	}

	p, ok := w.registry.Get(post.Platform)
	if !ok {
		return nil, &publisher.PublishError{
			Platform: post.Platform,
			Reason:   "no adapter registered",
		}
	}

	return publisher.Publish(ctx, p, &publisher.Request{
		Content:    group.Content,
		Media:      media,
		Connection: conn,
	})
}

// finishGroup recomputes the group status from its posts' terminal
// states once the fan-out is done.
func (w *Worker) finishGroup(ctx context.Context, postGroupID string) error {
	posts, err := w.pgr.ListPosts(ctx, postGroupID)
	if err != nil {
		return err
	}

	status := models.AggregateStatus(posts)
	if err := w.pgr.UpdateStatus(ctx, postGroupID, status); err != nil {
		return err
	}

	log.Printf("Post group %s finished as %s", postGroupID, status)
	return nil
}
