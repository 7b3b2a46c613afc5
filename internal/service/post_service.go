package service

import (
	"context"
	"log/slog"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/publora/publora-api/internal/apperr"
	"github.com/publora/publora-api/internal/models"
	"github.com/publora/publora-api/internal/repository"
	"github.com/publora/publora-api/internal/transfer"
	"github.com/publora/publora-api/internal/validation"
)

type PostService interface {
	Create(ctx context.Context, userID int64, pc *transfer.PostCreation) (string, time.Duration, bool, error)
	Info(ctx context.Context, userID int64, postGroupID string) (*models.PostGroup, error)
	Update(ctx context.Context, userID int64, postGroupID string, pu *transfer.PostUpdate) (time.Duration, bool, error)
	Remove(ctx context.Context, userID int64, postGroupID string) error
}

// GroupLeaser is the mutual exclusion taken around schedule changes and
// deletes. Satisfied by lock.GroupLease.
type GroupLeaser interface {
	Acquire(ctx context.Context, postGroupID string) (release func(), acquired bool, err error)
}

type postService struct {
	pgr   repository.PostGroupRepository
	pcr   repository.PlatformConnectionRepository
	sr    repository.SubscriptionRepository
	lease GroupLeaser
}

func NewPostService(
	pgr repository.PostGroupRepository,
	pcr repository.PlatformConnectionRepository,
	sr repository.SubscriptionRepository,
	lease GroupLeaser) PostService {
	return &postService{
		pgr:   pgr,
		pcr:   pcr,
		sr:    sr,
		lease: lease,
	}
}

// Create validates the payload, checks the caller's plan, and persists
// the group with one post stub per target. It reports whether a publish
// task should be enqueued and with what delay.
func (s *postService) Create(ctx context.Context, userID int64, pc *transfer.PostCreation) (string, time.Duration, bool, error) {
	vp, err := validation.ValidateCreate(pc, time.Now())
	if err != nil {
		return "", 0, false, err
	}

	if err := s.checkPlan(ctx, userID); err != nil {
		return "", 0, false, err
	}

	for _, target := range vp.Targets {
		conn, err := s.pcr.GetByID(ctx, target.ConnectionID)
		if err != nil {
			return "", 0, false, err
		}
		if conn == nil || conn.UserID != userID {
			return "", 0, false, apperr.NotFoundError{Resource: "platform connection"}
		}
	}

	id, err := gonanoid.New()
	if err != nil {
		slog.Info(err.Error())
		return "", 0, false, err
	}

	status := models.GroupStatusDraft
	if vp.ScheduledTime != nil {
		status = models.GroupStatusScheduled
	}

	group := models.PostGroup{
		ID:            id,
		UserID:        userID,
		Content:       vp.Content,
		ScheduledTime: vp.ScheduledTime,
		Status:        status,
	}
	for _, target := range vp.Targets {
		group.Posts = append(group.Posts, &models.Post{
			Platform:     target.Platform,
			ConnectionID: target.ConnectionID,
			Status:       models.PostStatusScheduled,
		})
	}

	if err := s.pgr.Create(ctx, &group); err != nil {
		return "", 0, false, err
	}

	if vp.ScheduledTime == nil {
		return id, 0, false, nil
	}

	delay := time.Until(*vp.ScheduledTime)
	if delay < 0 {
		delay = 0
	}

	return id, delay, true, nil
}

func (s *postService) checkPlan(ctx context.Context, userID int64) error {
	sub, err := s.sr.GetActiveByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if sub == nil {
		return apperr.AuthError{Reason: apperr.ReasonSubscriptionRequired, Forbidden: true}
	}

	if sub.PostLimit > 0 {
		periodStart := sub.CurrentPeriodEnd.AddDate(0, -1, 0)
		count, err := s.pgr.CountCreatedSince(ctx, userID, periodStart)
		if err != nil {
			return err
		}
		if count >= sub.PostLimit {
			return apperr.AuthError{Reason: apperr.ReasonPostLimitReached, Forbidden: true}
		}
	}

	return nil
}

func (s *postService) Info(ctx context.Context, userID int64, postGroupID string) (*models.PostGroup, error) {
	isOwner, err := s.pgr.CheckByUserID(ctx, postGroupID, userID)
	if err != nil {
		return nil, err
	}
	if !isOwner {
		return nil, apperr.NotFoundError{Resource: "post group"}
	}

	group, err := s.pgr.GetWithPosts(ctx, postGroupID)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, apperr.NotFoundError{Resource: "post group"}
	}

	return group, nil
}

// Update reschedules a draft or scheduled group. Holding the lease keeps
// the change from racing a publish that is about to claim the group.
func (s *postService) Update(ctx context.Context, userID int64, postGroupID string, pu *transfer.PostUpdate) (time.Duration, bool, error) {
	vu, err := validation.ValidateUpdate(pu, time.Now())
	if err != nil {
		return 0, false, err
	}
	if vu.ScheduledTime == nil && vu.Status == nil {
		return 0, false, nil
	}

	group, err := s.Info(ctx, userID, postGroupID)
	if err != nil {
		return 0, false, err
	}

	release, acquired, err := s.lease.Acquire(ctx, postGroupID)
	if err != nil {
		return 0, false, err
	}
	if !acquired {
		return 0, false, apperr.TransitionError{Status: models.GroupStatusProcessing}
	}
	defer release()

	status := group.Status
	if vu.Status != nil {
		status = *vu.Status
	} else if vu.ScheduledTime != nil {
		status = models.GroupStatusScheduled
	}

	ok, err := s.pgr.UpdateSchedule(ctx, postGroupID, vu.ScheduledTime, status)
	if err != nil {
		return 0, false, err
	}
	if !ok {
		return 0, false, apperr.TransitionError{Status: group.Status}
	}

	if status != models.GroupStatusScheduled {
		return 0, false, nil
	}

	// Scheduling without a new time falls back to the stored one; a group
	// that never had one publishes immediately.
	effective := group.ScheduledTime
	if vu.ScheduledTime != nil {
		effective = vu.ScheduledTime
	}

	var delay time.Duration
	if effective != nil {
		delay = time.Until(*effective)
		if delay < 0 {
			delay = 0
		}
	}

	return delay, true, nil
}

// Remove deletes the group unless a publish is in flight.
func (s *postService) Remove(ctx context.Context, userID int64, postGroupID string) error {
	isOwner, err := s.pgr.CheckByUserID(ctx, postGroupID, userID)
	if err != nil {
		return err
	}
	if !isOwner {
		return apperr.NotFoundError{Resource: "post group"}
	}

	release, acquired, err := s.lease.Acquire(ctx, postGroupID)
	if err != nil {
		return err
	}
	if !acquired {
		return apperr.TransitionError{Status: models.GroupStatusProcessing}
	}
	defer release()

	removed, err := s.pgr.Remove(ctx, postGroupID)
	if err != nil {
		return err
	}
	if !removed {
		return apperr.TransitionError{Status: models.GroupStatusProcessing}
	}

	return nil
}
