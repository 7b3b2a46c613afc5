package service

import (
	"context"
	"time"

	"github.com/publora/publora-api/internal/models"
)

type fakePostGroupRepo struct {
	group       *models.PostGroup
	ownerID     int64
	created     *models.PostGroup
	createdN    int
	removed     bool
	removeOK    bool
	scheduleOK  bool
	countSince  int
	lastUpdated struct {
		scheduledTime *time.Time
		status        string
	}
}

func (f *fakePostGroupRepo) Create(ctx context.Context, group *models.PostGroup) error {
	f.created = group
	f.createdN++
	return nil
}

func (f *fakePostGroupRepo) GetWithPosts(ctx context.Context, id string) (*models.PostGroup, error) {
	if f.group == nil || f.group.ID != id {
		return nil, nil
	}
	return f.group, nil
}

func (f *fakePostGroupRepo) CheckByUserID(ctx context.Context, id string, userID int64) (bool, error) {
	return f.group != nil && f.group.ID == id && f.ownerID == userID, nil
}

func (f *fakePostGroupRepo) CountCreatedSince(ctx context.Context, userID int64, since time.Time) (int, error) {
	return f.countSince, nil
}

func (f *fakePostGroupRepo) UpdateSchedule(ctx context.Context, id string, scheduledTime *time.Time, status string) (bool, error) {
	f.lastUpdated.scheduledTime = scheduledTime
	f.lastUpdated.status = status
	return f.scheduleOK, nil
}

func (f *fakePostGroupRepo) UpdateStatus(ctx context.Context, id, status string) error { return nil }

func (f *fakePostGroupRepo) Remove(ctx context.Context, id string) (bool, error) {
	f.removed = f.removeOK
	return f.removeOK, nil
}

func (f *fakePostGroupRepo) ClaimForProcessing(ctx context.Context, id string) (bool, error) {
	return false, nil
}

func (f *fakePostGroupRepo) MarkPostsProcessing(ctx context.Context, groupID string) error {
	return nil
}

func (f *fakePostGroupRepo) ListPosts(ctx context.Context, groupID string) ([]*models.Post, error) {
	if f.group == nil {
		return nil, nil
	}
	return f.group.Posts, nil
}

func (f *fakePostGroupRepo) UpdatePostResult(ctx context.Context, postID int64, status, postedID, publishedURL, errorMessage string) error {
	return nil
}

func (f *fakePostGroupRepo) FailProcessingPosts(ctx context.Context, groupID, errorMessage string) error {
	return nil
}

func (f *fakePostGroupRepo) ListDueScheduled(ctx context.Context, now time.Time) ([]string, error) {
	return nil, nil
}

func (f *fakePostGroupRepo) ListStuckProcessing(ctx context.Context, cutoff time.Time) ([]string, error) {
	return nil, nil
}

type fakeLease struct {
	held bool
}

func (f *fakeLease) Acquire(ctx context.Context, postGroupID string) (func(), bool, error) {
	if f.held {
		return nil, false, nil
	}
	return func() {}, true, nil
}

type fakeConnectionRepo struct {
	connections map[string]*models.PlatformConnection
}

func (f *fakeConnectionRepo) GetByID(ctx context.Context, id string) (*models.PlatformConnection, error) {
	return f.connections[id], nil
}

func (f *fakeConnectionRepo) ListByUserID(ctx context.Context, userID int64) ([]*models.PlatformConnection, error) {
	var out []*models.PlatformConnection
	for _, c := range f.connections {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

type fakeSubscriptionRepo struct {
	sub *models.Subscription
}

func (f *fakeSubscriptionRepo) GetActiveByUserID(ctx context.Context, userID int64) (*models.Subscription, error) {
	return f.sub, nil
}

type fakeMediaRepo struct {
	assets   map[string]*models.MediaAsset
	count    int
	uploaded []string
}

func (f *fakeMediaRepo) Create(ctx context.Context, ma *models.MediaAsset) error {
	if f.assets == nil {
		f.assets = make(map[string]*models.MediaAsset)
	}
	f.assets[ma.ID] = ma
	return nil
}

func (f *fakeMediaRepo) GetByID(ctx context.Context, id string) (*models.MediaAsset, error) {
	return f.assets[id], nil
}

func (f *fakeMediaRepo) CountByGroupID(ctx context.Context, groupID string) (int, error) {
	return f.count, nil
}

func (f *fakeMediaRepo) ListUploadedByGroupID(ctx context.Context, groupID string) ([]*models.MediaAsset, error) {
	return nil, nil
}

func (f *fakeMediaRepo) MarkUploaded(ctx context.Context, id string) (bool, error) {
	f.uploaded = append(f.uploaded, id)
	return true, nil
}
