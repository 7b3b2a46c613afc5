package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/publora/publora-api/internal/models"
)

type MediaAssetRepository interface {
	Create(ctx context.Context, ma *models.MediaAsset) error
	GetByID(ctx context.Context, id string) (*models.MediaAsset, error)
	CountByGroupID(ctx context.Context, groupID string) (int, error)
	ListUploadedByGroupID(ctx context.Context, groupID string) ([]*models.MediaAsset, error)
	MarkUploaded(ctx context.Context, id string) (bool, error)
}

type mediaAssetRepository struct {
	db *sql.DB
}

func NewMediaAssetRepository(db *sql.DB) MediaAssetRepository {
	return &mediaAssetRepository{db: db}
}

func (r *mediaAssetRepository) Create(ctx context.Context, ma *models.MediaAsset) error {
	query := `
		INSERT INTO media_assets (id, post_group_id, file_name, content_type, storage_key, file_url, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query, ma.ID, ma.PostGroupID, ma.FileName, ma.ContentType, ma.StorageKey, ma.FileURL, ma.Status)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *mediaAssetRepository) GetByID(ctx context.Context, id string) (*models.MediaAsset, error) {
	query := `
		SELECT id, post_group_id, file_name, content_type, storage_key, file_url, status, created_at
		FROM media_assets
		WHERE id = $1
	`
	var ma models.MediaAsset
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&ma.ID,
		&ma.PostGroupID,
		&ma.FileName,
		&ma.ContentType,
		&ma.StorageKey,
		&ma.FileURL,
		&ma.Status,
		&ma.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return &ma, nil
}

func (r *mediaAssetRepository) CountByGroupID(ctx context.Context, groupID string) (int, error) {
	query := `SELECT COUNT(*) FROM media_assets WHERE post_group_id = $1`

	var count int
	err := r.db.QueryRowContext(ctx, query, groupID).Scan(&count)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return count, nil
}

func (r *mediaAssetRepository) ListUploadedByGroupID(ctx context.Context, groupID string) ([]*models.MediaAsset, error) {
	query := `
		SELECT id, post_group_id, file_name, content_type, storage_key, file_url, status, created_at
		FROM media_assets
		WHERE post_group_id = $1 AND status = 'uploaded'
		ORDER BY created_at
	`
	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var assets []*models.MediaAsset
	for rows.Next() {
		var ma models.MediaAsset
		err := rows.Scan(&ma.ID, &ma.PostGroupID, &ma.FileName, &ma.ContentType,
			&ma.StorageKey, &ma.FileURL, &ma.Status, &ma.CreatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		assets = append(assets, &ma)
	}

	if err = rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return assets, nil
}

// MarkUploaded flips a pending asset to uploaded. Zero rows affected
// means the asset was already confirmed or never issued.
func (r *mediaAssetRepository) MarkUploaded(ctx context.Context, id string) (bool, error) {
	query := `
		UPDATE media_assets
		SET status = 'uploaded'
		WHERE id = $1 AND status = 'pending'
	`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}

	return affected == 1, nil
}
