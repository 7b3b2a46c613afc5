package models

// AggregateStatus derives a group status from its per-platform post
// statuses. It is deterministic and idempotent: the same posts slice
// always yields the same result. The group stays processing until every
// post has reached a terminal state.
func AggregateStatus(posts []*Post) string {
	if len(posts) == 0 {
		return GroupStatusProcessing
	}

	published := 0
	failed := 0
	for _, p := range posts {
		switch p.Status {
		case PostStatusPublished:
			published++
		case PostStatusFailed:
			failed++
		default:
			return GroupStatusProcessing
		}
	}

	switch {
	case failed == 0:
		return GroupStatusPublished
	case published == 0:
		return GroupStatusFailed
	default:
		return GroupStatusPartiallyPublished
	}
}
