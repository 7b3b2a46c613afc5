package models

import "testing"

func TestAggregateStatus(t *testing.T) {
	tests := []struct {
		name     string
		statuses []string
		want     string
	}{
		{"no posts", nil, GroupStatusProcessing},
		{"all published", []string{PostStatusPublished, PostStatusPublished}, GroupStatusPublished},
		{"all failed", []string{PostStatusFailed, PostStatusFailed}, GroupStatusFailed},
		{"mixed outcome", []string{PostStatusPublished, PostStatusFailed}, GroupStatusPartiallyPublished},
		{"one still processing", []string{PostStatusPublished, PostStatusProcessing}, GroupStatusProcessing},
		{"one still scheduled", []string{PostStatusFailed, PostStatusScheduled}, GroupStatusProcessing},
		{"single published", []string{PostStatusPublished}, GroupStatusPublished},
		{"single failed", []string{PostStatusFailed}, GroupStatusFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var posts []*Post
			for _, status := range tt.statuses {
				posts = append(posts, &Post{Status: status})
			}
			if got := AggregateStatus(posts); got != tt.want {
				t.Errorf("AggregateStatus() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAggregateStatusIdempotent(t *testing.T) {
	posts := []*Post{
		{Status: PostStatusPublished},
		{Status: PostStatusFailed},
	}

	first := AggregateStatus(posts)
	second := AggregateStatus(posts)
	if first != second {
		t.Errorf("AggregateStatus() not deterministic: %q then %q", first, second)
	}
}
