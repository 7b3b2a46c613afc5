package models

import "time"

// PostGroup is the unit of scheduling: one content body fanned out
// across the connections in Posts.
type PostGroup struct {
	ID            string     `db:"id" json:"postGroupId"`
	UserID        int64      `db:"user_id" json:"-"`
	Content       string     `db:"content" json:"content"`
	ScheduledTime *time.Time `db:"scheduled_time" json:"scheduledTime,omitempty"`
	Status        string     `db:"status" json:"status"`
	Posts         []*Post    `db:"-" json:"posts"`
	CreatedAt     time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updatedAt"`
}

// Post is a single platform-specific publish attempt owned by its group.
type Post struct {
	ID           int64     `db:"id" json:"-"`
	PostGroupID  string    `db:"post_group_id" json:"-"`
	Platform     Platform  `db:"platform" json:"platform"`
	ConnectionID string    `db:"connection_id" json:"platformConnectionId"`
	Status       string    `db:"status" json:"status"`
	PostedID     string    `db:"posted_id" json:"postedId,omitempty"`
	PublishedURL string    `db:"published_url" json:"publishedUrl,omitempty"`
	ErrorMessage string    `db:"error_message" json:"error,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"-"`
	UpdatedAt    time.Time `db:"updated_at" json:"-"`
}

const (
	GroupStatusDraft              = "draft"
	GroupStatusScheduled          = "scheduled"
	GroupStatusProcessing         = "processing"
	GroupStatusPublished          = "published"
	GroupStatusFailed             = "failed"
	GroupStatusPartiallyPublished = "partially_published"
)

const (
	PostStatusScheduled  = "scheduled"
	PostStatusProcessing = "processing"
	PostStatusPublished  = "published"
	PostStatusFailed     = "failed"
)
