package models

import "time"

// MediaAsset is attached to exactly one PostGroup. It is created in
// pending state when an upload target is issued and becomes uploaded
// once the client confirms the direct upload.
type MediaAsset struct {
	ID          string    `db:"id" json:"mediaId"`
	PostGroupID string    `db:"post_group_id" json:"postGroupId"`
	FileName    string    `db:"file_name" json:"fileName"`
	ContentType string    `db:"content_type" json:"contentType"`
	StorageKey  string    `db:"storage_key" json:"-"`
	FileURL     string    `db:"file_url" json:"fileUrl"`
	Status      string    `db:"status" json:"status"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

const (
	MediaStatusPending  = "pending"
	MediaStatusUploaded = "uploaded"
)

func (m *MediaAsset) IsVideo() bool {
	return len(m.ContentType) > 6 && m.ContentType[:6] == "video/"
}

func (m *MediaAsset) IsImage() bool {
	return len(m.ContentType) > 6 && m.ContentType[:6] == "image/"
}
