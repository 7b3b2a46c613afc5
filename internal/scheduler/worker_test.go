package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/publora/publora-api/internal/models"
	"github.com/publora/publora-api/internal/publisher"
)

type fakePostGroupRepo struct {
	mu     sync.Mutex
	group  *models.PostGroup
	claims int
}

func (f *fakePostGroupRepo) Create(ctx context.Context, group *models.PostGroup) error { return nil }

func (f *fakePostGroupRepo) GetWithPosts(ctx context.Context, id string) (*models.PostGroup, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.group == nil || f.group.ID != id {
		return nil, nil
	}
	return f.group, nil
}

func (f *fakePostGroupRepo) CheckByUserID(ctx context.Context, id string, userID int64) (bool, error) {
	return f.group != nil && f.group.ID == id, nil
}

func (f *fakePostGroupRepo) CountCreatedSince(ctx context.Context, userID int64, since time.Time) (int, error) {
	return 0, nil
}

func (f *fakePostGroupRepo) UpdateSchedule(ctx context.Context, id string, scheduledTime *time.Time, status string) (bool, error) {
	return true, nil
}

func (f *fakePostGroupRepo) UpdateStatus(ctx context.Context, id, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.group != nil && f.group.ID == id {
		f.group.Status = status
	}
	return nil
}

func (f *fakePostGroupRepo) Remove(ctx context.Context, id string) (bool, error) { return true, nil }

func (f *fakePostGroupRepo) ClaimForProcessing(ctx context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.claims++
	if f.group == nil || f.group.Status != models.GroupStatusScheduled {
		return false, nil
	}
	f.group.Status = models.GroupStatusProcessing
	return true, nil
}

func (f *fakePostGroupRepo) MarkPostsProcessing(ctx context.Context, groupID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.group.Posts {
		if p.Status == models.PostStatusScheduled {
			p.Status = models.PostStatusProcessing
		}
	}
	return nil
}

func (f *fakePostGroupRepo) ListPosts(ctx context.Context, groupID string) ([]*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.group.Posts, nil
}

func (f *fakePostGroupRepo) UpdatePostResult(ctx context.Context, postID int64, status, postedID, publishedURL, errorMessage string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.group.Posts {
		if p.ID == postID {
			p.Status = status
			p.PostedID = postedID
			p.PublishedURL = publishedURL
			p.ErrorMessage = errorMessage
		}
	}
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

type fakeConnectionRepo struct {
	connections map[string]*models.PlatformConnection
}

func (f *fakeConnectionRepo) GetByID(ctx context.Context, id string) (*models.PlatformConnection, error) {
	return f.connections[id], nil
}

func (f *fakeConnectionRepo) ListByUserID(ctx context.Context, userID int64) ([]*models.PlatformConnection, error) {
	return nil, nil
}

type fakeMediaRepo struct{}

func (f *fakeMediaRepo) Create(ctx context.Context, ma *models.MediaAsset) error { return nil }
func (f *fakeMediaRepo) GetByID(ctx context.Context, id string) (*models.MediaAsset, error) {
	return nil, nil
}
func (f *fakeMediaRepo) CountByGroupID(ctx context.Context, groupID string) (int, error) {
	return 0, nil
}
func (f *fakeMediaRepo) ListUploadedByGroupID(ctx context.Context, groupID string) ([]*models.MediaAsset, error) {
	return nil, nil
}
func (f *fakeMediaRepo) MarkUploaded(ctx context.Context, id string) (bool, error) {
	return true, nil
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

type stubPublisher struct {
	platform models.Platform
	err      error
}

func (p *stubPublisher) Platform() models.Platform { return p.platform }

func (p *stubPublisher) Publish(ctx context.Context, req *publisher.Request) (*publisher.Result, error) {
	if p.err != nil {
		return nil, p.err
	}
	return &publisher.Result{PostedID: string(p.platform) + "-posted", PublishedURL: "https://example.com/post"}, nil
}

func newTestWorker(pgr *fakePostGroupRepo, pubs ...publisher.Publisher) *Worker {
	pcr := &fakeConnectionRepo{connections: map[string]*models.PlatformConnection{
		"twitter-1":  {ID: "twitter-1", Platform: models.PlatformTwitter},
		"mastodon-2": {ID: "mastodon-2", Platform: models.PlatformMastodon},
	}}
	return NewWorker(pgr, pcr, &fakeMediaRepo{}, &fakeLease{}, publisher.NewRegistryWith(pubs...), nil)
}

func scheduledGroup() *models.PostGroup {
	past := time.Now().Add(-time.Minute)
	return &models.PostGroup{
		ID:            "grp1",
		Content:       "hello",
		ScheduledTime: &past,
		Status:        models.GroupStatusScheduled,
		Posts: []*models.Post{
			{ID: 1, PostGroupID: "grp1", Platform: models.PlatformTwitter, ConnectionID: "twitter-1", Status: models.PostStatusScheduled},
			{ID: 2, PostGroupID: "grp1", Platform: models.PlatformMastodon, ConnectionID: "mastodon-2", Status: models.PostStatusScheduled},
		},
	}
}

func TestPublishGroupAllSucceed(t *testing.T) {
	pgr := &fakePostGroupRepo{group: scheduledGroup()}
	w := newTestWorker(pgr,
		&stubPublisher{platform: models.PlatformTwitter},
		&stubPublisher{platform: models.PlatformMastodon},
	)

	if err := w.PublishGroup(context.Background(), "grp1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if pgr.group.Status != models.GroupStatusPublished {
		t.Errorf("group status = %q, want published", pgr.group.Status)
	}
	for _, p := range pgr.group.Posts {
		if p.Status != models.PostStatusPublished {
			t.Errorf("post %d status = %q, want published", p.ID, p.Status)
		}
		if p.PostedID == "" {
			t.Errorf("post %d missing posted id", p.ID)
		}
	}
}

func TestPublishGroupPartialFailure(t *testing.T) {
	pgr := &fakePostGroupRepo{group: scheduledGroup()}
	w := newTestWorker(pgr,
		&stubPublisher{platform: models.PlatformTwitter},
		&stubPublisher{platform: models.PlatformMastodon, err: &publisher.PublishError{
			Platform: models.PlatformMastodon,
			Reason:   "rejected",
		}},
	)

	if err := w.PublishGroup(context.Background(), "grp1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if pgr.group.Status != models.GroupStatusPartiallyPublished {
		t.Errorf("group status = %q, want partially_published", pgr.group.Status)
	}
	if pgr.group.Posts[0].Status != models.PostStatusPublished {
		t.Errorf("twitter post status = %q", pgr.group.Posts[0].Status)
	}
	if pgr.group.Posts[1].Status != models.PostStatusFailed {
		t.Errorf("mastodon post status = %q", pgr.group.Posts[1].Status)
	}
	if pgr.group.Posts[1].ErrorMessage == "" {
		t.Error("failed post should carry an error message")
	}
}

func TestPublishGroupAllFail(t *testing.T) {
	pgr := &fakePostGroupRepo{group: scheduledGroup()}
	failure := &publisher.PublishError{Platform: models.PlatformTwitter, Reason: "rejected"}
	w := newTestWorker(pgr,
		&stubPublisher{platform: models.PlatformTwitter, err: failure},
		&stubPublisher{platform: models.PlatformMastodon, err: failure},
	)

	if err := w.PublishGroup(context.Background(), "grp1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if pgr.group.Status != models.GroupStatusFailed {
		t.Errorf("group status = %q, want failed", pgr.group.Status)
	}
}

func TestPublishGroupMissingGroupIsNoop(t *testing.T) {
	pgr := &fakePostGroupRepo{}
	w := newTestWorker(pgr, &stubPublisher{platform: models.PlatformTwitter})

	if err := w.PublishGroup(context.Background(), "gone"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pgr.claims != 0 {
		t.Error("missing group should never be claimed")
	}
}

func TestPublishGroupAlreadyClaimedIsNoop(t *testing.T) {
	group := scheduledGroup()
	group.Status = models.GroupStatusProcessing
	pgr := &fakePostGroupRepo{group: group}
	w := newTestWorker(pgr, &stubPublisher{platform: models.PlatformTwitter})

	if err := w.PublishGroup(context.Background(), "grp1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, p := range group.Posts {
		if p.Status != models.PostStatusScheduled {
			t.Errorf("post %d should be untouched, got %q", p.ID, p.Status)
		}
	}
}

func TestPublishGroupMissingConnectionFailsPost(t *testing.T) {
	group := scheduledGroup()
	group.Posts = group.Posts[:1]
	group.Posts[0].ConnectionID = "twitter-unknown"
	pgr := &fakePostGroupRepo{group: group}
	w := newTestWorker(pgr, &stubPublisher{platform: models.PlatformTwitter})

	if err := w.PublishGroup(context.Background(), "grp1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if group.Posts[0].Status != models.PostStatusFailed {
		t.Errorf("post status = %q, want failed", group.Posts[0].Status)
	}
	if pgr.group.Status != models.GroupStatusFailed {
		t.Errorf("group status = %q, want failed", pgr.group.Status)
	}
}

func TestHandlePublishTaskBadPayload(t *testing.T) {
	w := newTestWorker(&fakePostGroupRepo{})
	task := asynq.NewTask(TaskTypePublishPostGroup, []byte("not json"))
	if err := w.HandlePublishTask(context.Background(), task); err == nil {
		t.Error("malformed payload should error")
	}
}
