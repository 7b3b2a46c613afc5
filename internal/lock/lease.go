// Package lock provides the per-postGroupId mutual exclusion between
// update/delete operations and the scheduler's transition into
// processing. All other state is partitioned by postGroupId and needs
// no cross-component locking.
package lock

import (
	"context"
	"log/slog"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/redis/go-redis/v9"
)

const leaseTTL = 30 * time.Second

type GroupLease struct {
	rdb *redis.Client
}

func NewGroupLease(rdb *redis.Client) *GroupLease {
	return &GroupLease{rdb: rdb}
}

// Acquire takes the lease for a post group. It returns false when some
// other holder already owns it; callers should treat that as a retryable
// conflict. The returned release function is a no-op if the lease has
// expired or changed hands in the meantime.
func (l *GroupLease) Acquire(ctx context.Context, postGroupID string) (release func(), acquired bool, err error) {
	token, err := gonanoid.New()
	if err != nil {
		return nil, false, err
	}

	key := "lease:post_group:" + postGroupID
	ok, err := l.rdb.SetNX(ctx, key, token, leaseTTL).Result()
	if err != nil {
		slog.Info(err.Error())
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}

	release = func() {
		current, err := l.rdb.Get(context.Background(), key).Result()
		if err != nil || current != token {
			return
		}
		if err := l.rdb.Del(context.Background(), key).Err(); err != nil {
			slog.Info(err.Error())
		}
	}

	return release, true, nil
}
