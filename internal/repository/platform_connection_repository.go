package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/publora/publora-api/internal/models"
)

// PlatformConnectionRepository reads authorized accounts. Rows are
// created by the external OAuth onboarding flow; this service never
// writes them.
type PlatformConnectionRepository interface {
	GetByID(ctx context.Context, id string) (*models.PlatformConnection, error)
	ListByUserID(ctx context.Context, userID int64) ([]*models.PlatformConnection, error)
}

type platformConnectionRepository struct {
	db *sql.DB
}

func NewPlatformConnectionRepository(db *sql.DB) PlatformConnectionRepository {
	return &platformConnectionRepository{db: db}
}

func (r *platformConnectionRepository) GetByID(ctx context.Context, id string) (*models.PlatformConnection, error) {
	query := `
		SELECT id, user_id, platform, username, display_name, profile_image_url,
			access_token, refresh_token, token_expires_at, created_at, updated_at
		FROM platform_connections
		WHERE id = $1
	`
	row := r.db.QueryRowContext(ctx, query, id)

	var conn models.PlatformConnection
	err := row.Scan(&conn.ID, &conn.UserID, &conn.Platform, &conn.Username, &conn.DisplayName,
		&conn.ProfileImageURL, &conn.AccessToken, &conn.RefreshToken, &conn.TokenExpiresAt,
		&conn.CreatedAt, &conn.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return &conn, nil
}

func (r *platformConnectionRepository) ListByUserID(ctx context.Context, userID int64) ([]*models.PlatformConnection, error) {
	query := `
		SELECT id, platform, username, display_name, profile_image_url, token_expires_at
		FROM platform_connections
		WHERE user_id = $1
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var connections []*models.PlatformConnection
	for rows.Next() {
		var conn models.PlatformConnection
		err := rows.Scan(&conn.ID, &conn.Platform, &conn.Username, &conn.DisplayName,
			&conn.ProfileImageURL, &conn.TokenExpiresAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		connections = append(connections, &conn)
	}

	if err = rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return connections, nil
}
