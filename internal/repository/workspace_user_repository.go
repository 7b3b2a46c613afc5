package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/publora/publora-api/internal/models"
)

type WorkspaceUserRepository interface {
	Create(ctx context.Context, wu *models.WorkspaceUser) error
	ListByOwnerID(ctx context.Context, ownerID int64) ([]*models.WorkspaceUser, error)
	CheckByOwnerID(ctx context.Context, id string, ownerID int64) (bool, error)
	Remove(ctx context.Context, id string) error
}

type workspaceUserRepository struct {
	db *sql.DB
}

func NewWorkspaceUserRepository(db *sql.DB) WorkspaceUserRepository {
	return &workspaceUserRepository{db: db}
}

func (r *workspaceUserRepository) Create(ctx context.Context, wu *models.WorkspaceUser) error {
	query := `
		INSERT INTO workspace_users (id, owner_id, name, email)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.ExecContext(ctx, query, wu.ID, wu.OwnerID, wu.Name, wu.Email)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *workspaceUserRepository) ListByOwnerID(ctx context.Context, ownerID int64) ([]*models.WorkspaceUser, error) {
	query := `SELECT id, owner_id, name, email, created_at FROM workspace_users WHERE owner_id = $1`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var users []*models.WorkspaceUser
	for rows.Next() {
		var wu models.WorkspaceUser
		if err := rows.Scan(&wu.ID, &wu.OwnerID, &wu.Name, &wu.Email, &wu.CreatedAt); err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		users = append(users, &wu)
	}

	if err = rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return users, nil
}

func (r *workspaceUserRepository) CheckByOwnerID(ctx context.Context, id string, ownerID int64) (bool, error) {
	query := "SELECT 1 FROM workspace_users WHERE id = $1 AND owner_id = $2"

	var result int
	err := r.db.QueryRowContext(ctx, query, id, ownerID).Scan(&result)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		slog.Info(err.Error())
		return false, err
	}

	return result == 1, nil
}

func (r *workspaceUserRepository) Remove(ctx context.Context, id string) error {
	query := `DELETE FROM workspace_users WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
