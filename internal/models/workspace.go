package models

import "time"

type ApiKey struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"-"`
	ApiKey    string    `db:"api_key" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// WorkspaceUser is a managed user delegated through the
// x-publora-user-id header by the workspace owner's API key.
type WorkspaceUser struct {
	ID        string    `db:"id" json:"userId"`
	OwnerID   int64     `db:"owner_id" json:"-"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

type Subscription struct {
	ID               int64     `db:"id" json:"id"`
	UserID           int64     `db:"user_id" json:"user_id"`
	Plan             string    `db:"plan" json:"plan"`
	PostLimit        int       `db:"post_limit" json:"post_limit"`
	Status           string    `db:"status" json:"status"`
	CurrentPeriodEnd time.Time `db:"current_period_end" json:"current_period_end"`
}

const SubscriptionStatusActive = "active"
