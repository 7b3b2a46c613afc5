package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/publora/publora-api/internal/models"
)

type SubscriptionRepository interface {
	GetActiveByUserID(ctx context.Context, userID int64) (*models.Subscription, error)
}

type subscriptionRepository struct {
	db *sql.DB
}

func NewSubscriptionRepository(db *sql.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) GetActiveByUserID(ctx context.Context, userID int64) (*models.Subscription, error) {
	query := `
		SELECT id, user_id, plan, post_limit, status, current_period_end
		FROM subscriptions
		WHERE user_id = $1 AND status = $2 AND current_period_end > NOW()
	`
	row := r.db.QueryRowContext(ctx, query, userID, models.SubscriptionStatusActive)

	var sub models.Subscription
	err := row.Scan(&sub.ID, &sub.UserID, &sub.Plan, &sub.PostLimit, &sub.Status, &sub.CurrentPeriodEnd)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return &sub, nil
}
