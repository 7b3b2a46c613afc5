package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/publora/publora-api/internal/models"
)

type PostGroupRepository interface {
	Create(ctx context.Context, group *models.PostGroup) error
	GetWithPosts(ctx context.Context, id string) (*models.PostGroup, error)
	CheckByUserID(ctx context.Context, id string, userID int64) (bool, error)
	CountCreatedSince(ctx context.Context, userID int64, since time.Time) (int, error)
	UpdateSchedule(ctx context.Context, id string, scheduledTime *time.Time, status string) (bool, error)
	UpdateStatus(ctx context.Context, id, status string) error
	Remove(ctx context.Context, id string) (bool, error)
	ClaimForProcessing(ctx context.Context, id string) (bool, error)
	MarkPostsProcessing(ctx context.Context, groupID string) error
	ListPosts(ctx context.Context, groupID string) ([]*models.Post, error)
	UpdatePostResult(ctx context.Context, postID int64, status, postedID, publishedURL, errorMessage string) error
	FailProcessingPosts(ctx context.Context, groupID, errorMessage string) error
	ListDueScheduled(ctx context.Context, now time.Time) ([]string, error)
	ListStuckProcessing(ctx context.Context, cutoff time.Time) ([]string, error)
}

type postGroupRepository struct {
	db *sql.DB
}

func NewPostGroupRepository(db *sql.DB) PostGroupRepository {
	return &postGroupRepository{db: db}
}

// Create persists the group and its per-platform post stubs in a single
// transaction, so the posts set is always in 1:1 correspondence with the
// requested platforms.
func (r *postGroupRepository) Create(ctx context.Context, group *models.PostGroup) error {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	defer tx.Rollback()

	groupQuery := `
		INSERT INTO post_groups (id, user_id, content, scheduled_time, status)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err = tx.ExecContext(ctx, groupQuery, group.ID, group.UserID, group.Content, group.ScheduledTime, group.Status)
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	postQuery := `
		INSERT INTO posts (post_group_id, platform, connection_id, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	for _, post := range group.Posts {
		err = tx.QueryRowContext(ctx, postQuery, group.ID, post.Platform, post.ConnectionID, post.Status).Scan(&post.ID)
		if err != nil {
			slog.Info(err.Error())
			return err
		}
		post.PostGroupID = group.ID
	}

	if err = tx.Commit(); err != nil {
		slog.Info(err.Error())
		return err
	}

	return nil
}

func (r *postGroupRepository) GetWithPosts(ctx context.Context, id string) (*models.PostGroup, error) {
	query := `
		SELECT id, user_id, content, scheduled_time, status, created_at, updated_at
		FROM post_groups
		WHERE id = $1
	`
	row := r.db.QueryRowContext(ctx, query, id)

	var group models.PostGroup
	err := row.Scan(&group.ID, &group.UserID, &group.Content, &group.ScheduledTime, &group.Status, &group.CreatedAt, &group.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	posts, err := r.ListPosts(ctx, id)
	if err != nil {
		return nil, err
	}
	group.Posts = posts

	return &group, nil
}

func (r *postGroupRepository) CheckByUserID(ctx context.Context, id string, userID int64) (bool, error) {
	query := "SELECT 1 FROM post_groups WHERE id = $1 AND user_id = $2"

	var result int
	err := r.db.QueryRowContext(ctx, query, id, userID).Scan(&result)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		slog.Info(err.Error())
		return false, err
	}

	return result == 1, nil
}

func (r *postGroupRepository) CountCreatedSince(ctx context.Context, userID int64, since time.Time) (int, error) {
	query := "SELECT COUNT(*) FROM post_groups WHERE user_id = $1 AND created_at >= $2"

	var count int
	err := r.db.QueryRowContext(ctx, query, userID, since).Scan(&count)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return count, nil
}

// UpdateSchedule only applies while the group is draft or scheduled.
// Zero rows affected means the group is processing or terminal.
func (r *postGroupRepository) UpdateSchedule(ctx context.Context, id string, scheduledTime *time.Time, status string) (bool, error) {
	query := `
		UPDATE post_groups
		SET scheduled_time = COALESCE($2, scheduled_time),
			status = $3,
			updated_at = $4
		WHERE id = $1 AND status IN ('draft', 'scheduled')
	`
	result, err := r.db.ExecContext(ctx, query, id, scheduledTime, status, time.Now())
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

func (r *postGroupRepository) UpdateStatus(ctx context.Context, id, status string) error {
	query := `
		UPDATE post_groups
		SET status = $2, updated_at = $3
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query, id, status, time.Now())
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

// Remove deletes the group with its posts and unpublished media, but
// refuses while a publish is in flight.
func (r *postGroupRepository) Remove(ctx context.Context, id string) (bool, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `DELETE FROM post_groups WHERE id = $1 AND status != 'processing'`, id)
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}
	if affected == 0 {
		return false, nil
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM posts WHERE post_group_id = $1`, id); err != nil {
		slog.Info(err.Error())
		return false, err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM media_assets WHERE post_group_id = $1`, id); err != nil {
		slog.Info(err.Error())
		return false, err
	}

	if err = tx.Commit(); err != nil {
		slog.Info(err.Error())
		return false, err
	}

	return true, nil
}

// ClaimForProcessing performs the at-most-once scheduled -> processing
// transition. Exactly one caller observes true for a given group.
func (r *postGroupRepository) ClaimForProcessing(ctx context.Context, id string) (bool, error) {
	query := `
		UPDATE post_groups
		SET status = 'processing', updated_at = $2
		WHERE id = $1 AND status = 'scheduled'
	`
	result, err := r.db.ExecContext(ctx, query, id, time.Now())
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

func (r *postGroupRepository) MarkPostsProcessing(ctx context.Context, groupID string) error {
	query := `
		UPDATE posts
		SET status = 'processing', updated_at = $2
		WHERE post_group_id = $1 AND status = 'scheduled'
	`
	_, err := r.db.ExecContext(ctx, query, groupID, time.Now())
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *postGroupRepository) ListPosts(ctx context.Context, groupID string) ([]*models.Post, error) {
	query := `
		SELECT id, post_group_id, platform, connection_id, status, posted_id, published_url, error_message, created_at, updated_at
		FROM posts
		WHERE post_group_id = $1
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		var post models.Post
		err := rows.Scan(&post.ID, &post.PostGroupID, &post.Platform, &post.ConnectionID,
			&post.Status, &post.PostedID, &post.PublishedURL, &post.ErrorMessage,
			&post.CreatedAt, &post.UpdatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		posts = append(posts, &post)
	}

	if err = rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return posts, nil
}

func (r *postGroupRepository) UpdatePostResult(ctx context.Context, postID int64, status, postedID, publishedURL, errorMessage string) error {
	query := `
		UPDATE posts
		SET status = $2, posted_id = $3, published_url = $4, error_message = $5, updated_at = $6
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query, postID, status, postedID, publishedURL, errorMessage, time.Now())
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *postGroupRepository) FailProcessingPosts(ctx context.Context, groupID, errorMessage string) error {
	query := `
		UPDATE posts
		SET status = 'failed', error_message = $2, updated_at = $3
		WHERE post_group_id = $1 AND status IN ('scheduled', 'processing')
	`
	_, err := r.db.ExecContext(ctx, query, groupID, errorMessage, time.Now())
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *postGroupRepository) ListDueScheduled(ctx context.Context, now time.Time) ([]string, error) {
	query := `SELECT id FROM post_groups WHERE status = 'scheduled' AND scheduled_time <= $1`
	return r.listIDs(ctx, query, now)
}

func (r *postGroupRepository) ListStuckProcessing(ctx context.Context, cutoff time.Time) ([]string, error) {
	query := `SELECT id FROM post_groups WHERE status = 'processing' AND updated_at < $1`
	return r.listIDs(ctx, query, cutoff)
}

func (r *postGroupRepository) listIDs(ctx context.Context, query string, arg interface{}) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		ids = append(ids, id)
	}

	if err = rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return ids, nil
}
