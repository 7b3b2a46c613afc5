package validation

import (
	"errors"
	"testing"
	"time"

	"github.com/publora/publora-api/internal/apperr"
	"github.com/publora/publora-api/internal/models"
	"github.com/publora/publora-api/internal/transfer"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func assertValidationReason(t *testing.T, err error, reason string) {
	t.Helper()
	var ve apperr.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if ve.Reason != reason {
		t.Errorf("reason = %q, want %q", ve.Reason, reason)
	}
}

func TestValidateCreate(t *testing.T) {
	t.Run("valid scheduled post", func(t *testing.T) {
		pc := &transfer.PostCreation{
			Content:       "hello world",
			Platforms:     []string{"twitter-123", "linkedin-abc"},
			ScheduledTime: now.Add(time.Hour).Format(time.RFC3339),
		}

		vp, err := ValidateCreate(pc, now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(vp.Targets) != 2 {
			t.Fatalf("targets = %d, want 2", len(vp.Targets))
		}
		if vp.Targets[0].Platform != models.PlatformTwitter {
			t.Errorf("first target platform = %q", vp.Targets[0].Platform)
		}
		if vp.Targets[1].ConnectionID != "linkedin-abc" {
			t.Errorf("second target connection = %q", vp.Targets[1].ConnectionID)
		}
		if vp.ScheduledTime == nil || !vp.ScheduledTime.After(now) {
			t.Error("scheduled time should be parsed and in the future")
		}
	})

	t.Run("absent scheduled time means draft", func(t *testing.T) {
		pc := &transfer.PostCreation{
			Content:   "hello",
			Platforms: []string{"twitter-123"},
		}

		vp, err := ValidateCreate(pc, now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if vp.ScheduledTime != nil {
			t.Error("scheduled time should be nil")
		}
	})

	t.Run("missing content", func(t *testing.T) {
		pc := &transfer.PostCreation{
			Platforms: []string{"twitter-123"},
		}
		_, err := ValidateCreate(pc, now)
		assertValidationReason(t, err, apperr.ReasonContentRequired)
	})

	t.Run("missing platforms", func(t *testing.T) {
		pc := &transfer.PostCreation{Content: "hello"}
		_, err := ValidateCreate(pc, now)
		assertValidationReason(t, err, apperr.ReasonPlatformsRequired)
	})

	t.Run("empty platforms", func(t *testing.T) {
		pc := &transfer.PostCreation{Content: "hello", Platforms: []string{}}
		_, err := ValidateCreate(pc, now)
		assertValidationReason(t, err, apperr.ReasonPlatformsRequired)
	})

	t.Run("unknown platform", func(t *testing.T) {
		pc := &transfer.PostCreation{
			Content:   "hello",
			Platforms: []string{"myspace-1"},
		}
		_, err := ValidateCreate(pc, now)
		assertValidationReason(t, err, apperr.ReasonInvalidPlatform)
	})

	t.Run("duplicate platform reference", func(t *testing.T) {
		pc := &transfer.PostCreation{
			Content:   "hello",
			Platforms: []string{"twitter-123", "twitter-123"},
		}
		_, err := ValidateCreate(pc, now)
		assertValidationReason(t, err, apperr.ReasonDuplicatePlatform)
	})

	t.Run("same platform different connections allowed", func(t *testing.T) {
		pc := &transfer.PostCreation{
			Content:   "hello",
			Platforms: []string{"twitter-123", "twitter-456"},
		}
		if _, err := ValidateCreate(pc, now); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("past scheduled time", func(t *testing.T) {
		pc := &transfer.PostCreation{
			Content:       "hello",
			Platforms:     []string{"twitter-123"},
			ScheduledTime: now.Add(-time.Hour).Format(time.RFC3339),
		}
		_, err := ValidateCreate(pc, now)
		assertValidationReason(t, err, apperr.ReasonInvalidScheduledTime)
	})

	t.Run("scheduled time equal to now", func(t *testing.T) {
		pc := &transfer.PostCreation{
			Content:       "hello",
			Platforms:     []string{"twitter-123"},
			ScheduledTime: now.Format(time.RFC3339),
		}
		_, err := ValidateCreate(pc, now)
		assertValidationReason(t, err, apperr.ReasonInvalidScheduledTime)
	})

	t.Run("malformed scheduled time", func(t *testing.T) {
		pc := &transfer.PostCreation{
			Content:       "hello",
			Platforms:     []string{"twitter-123"},
			ScheduledTime: "next tuesday",
		}
		_, err := ValidateCreate(pc, now)
		assertValidationReason(t, err, apperr.ReasonInvalidScheduledTime)
	})
}

func TestValidateUpdate(t *testing.T) {
	strPtr := func(s string) *string { return &s }

	t.Run("reschedule", func(t *testing.T) {
		raw := now.Add(2 * time.Hour).Format(time.RFC3339)
		vu, err := ValidateUpdate(&transfer.PostUpdate{ScheduledTime: &raw}, now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if vu.ScheduledTime == nil {
			t.Fatal("scheduled time should be set")
		}
		if vu.Status != nil {
			t.Error("status should be nil")
		}
	})

	t.Run("status draft", func(t *testing.T) {
		vu, err := ValidateUpdate(&transfer.PostUpdate{Status: strPtr("draft")}, now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if vu.Status == nil || *vu.Status != models.GroupStatusDraft {
			t.Errorf("status = %v", vu.Status)
		}
	})

	t.Run("terminal status rejected", func(t *testing.T) {
		for _, status := range []string{"processing", "published", "failed", "partially_published", "bogus"} {
			_, err := ValidateUpdate(&transfer.PostUpdate{Status: &status}, now)
			assertValidationReason(t, err, apperr.ReasonInvalidStatus)
		}
	})

	t.Run("past time rejected", func(t *testing.T) {
		raw := now.Add(-time.Minute).Format(time.RFC3339)
		_, err := ValidateUpdate(&transfer.PostUpdate{ScheduledTime: &raw}, now)
		assertValidationReason(t, err, apperr.ReasonInvalidScheduledTime)
	})

	t.Run("empty update is a no-op", func(t *testing.T) {
		vu, err := ValidateUpdate(&transfer.PostUpdate{}, now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if vu.ScheduledTime != nil || vu.Status != nil {
			t.Error("nothing should be set")
		}
	})
}
