package models

import "time"

// PlatformConnection is an authorized social account usable as a publish
// target. Rows are written by the OAuth onboarding flow, which lives
// outside this service; everything here treats them as read-only.
// ID uses the "{platform}-{opaque-id}" format.
type PlatformConnection struct {
	ID              string     `db:"id" json:"platformId"`
	UserID          int64      `db:"user_id" json:"-"`
	Platform        Platform   `db:"platform" json:"-"`
	Username        string     `db:"username" json:"username"`
	DisplayName     string     `db:"display_name" json:"displayName"`
	ProfileImageURL string     `db:"profile_image_url" json:"profileImageUrl"`
	AccessToken     string     `db:"access_token" json:"-"`
	RefreshToken    string     `db:"refresh_token" json:"-"`
	TokenExpiresAt  *time.Time `db:"token_expires_at" json:"accessTokenExpiresAt"`
	CreatedAt       time.Time  `db:"created_at" json:"-"`
	UpdatedAt       time.Time  `db:"updated_at" json:"-"`
}
