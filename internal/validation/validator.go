// Package validation checks create/update payloads at the boundary.
// Validation is a pure function of (payload, current time): no input is
// mutated and nothing past this package sees a malformed request.
package validation

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/publora/publora-api/internal/apperr"
	"github.com/publora/publora-api/internal/models"
	"github.com/publora/publora-api/internal/transfer"
)

var validate = validator.New()

// Target is one parsed platform-connection reference.
type Target struct {
	Platform     models.Platform
	ConnectionID string
}

// ValidatedPost is the normalized result of a successful create check.
type ValidatedPost struct {
	Content       string
	Targets       []Target
	ScheduledTime *time.Time
}

// ValidatedUpdate is the normalized result of a successful update check.
type ValidatedUpdate struct {
	ScheduledTime *time.Time
	Status        *string
}

func ValidateCreate(pc *transfer.PostCreation, now time.Time) (*ValidatedPost, error) {
	if err := validate.Struct(pc); err != nil {
		for _, fe := range err.(validator.ValidationErrors) {
			switch fe.StructField() {
			case "Content":
				return nil, apperr.ValidationError{Reason: apperr.ReasonContentRequired}
			case "Platforms":
				return nil, apperr.ValidationError{Reason: apperr.ReasonPlatformsRequired}
			}
		}
		return nil, apperr.ValidationError{Reason: apperr.ReasonPlatformsRequired}
	}

	targets, err := parseTargets(pc.Platforms)
	if err != nil {
		return nil, err
	}

	scheduledTime, err := parseScheduledTime(pc.ScheduledTime, now)
	if err != nil {
		return nil, err
	}

	return &ValidatedPost{
		Content:       pc.Content,
		Targets:       targets,
		ScheduledTime: scheduledTime,
	}, nil
}

func ValidateUpdate(pu *transfer.PostUpdate, now time.Time) (*ValidatedUpdate, error) {
	vu := &ValidatedUpdate{}

	if pu.Status != nil {
		switch *pu.Status {
		case models.GroupStatusDraft, models.GroupStatusScheduled:
			vu.Status = pu.Status
		default:
			return nil, apperr.ValidationError{Reason: apperr.ReasonInvalidStatus}
		}
	}

	if pu.ScheduledTime != nil {
		scheduledTime, err := parseScheduledTime(*pu.ScheduledTime, now)
		if err != nil {
			return nil, err
		}
		vu.ScheduledTime = scheduledTime
	}

	return vu, nil
}

func ValidateWorkspaceUser(wc *transfer.WorkspaceUserCreation) error {
	if err := validate.Struct(wc); err != nil {
		return apperr.ValidationError{Reason: apperr.ReasonInvalidWorkspaceUser}
	}
	return nil
}

func parseTargets(platforms []string) ([]Target, error) {
	targets := make([]Target, 0, len(platforms))
	seen := make(map[string]struct{}, len(platforms))

	for _, platformID := range platforms {
		platform, err := models.ParsePlatformID(platformID)
		if err != nil {
			return nil, apperr.ValidationError{Reason: apperr.ReasonInvalidPlatform}
		}
		if _, ok := seen[platformID]; ok {
			return nil, apperr.ValidationError{Reason: apperr.ReasonDuplicatePlatform}
		}
		seen[platformID] = struct{}{}
		targets = append(targets, Target{Platform: platform, ConnectionID: platformID})
	}

	return targets, nil
}

// parseScheduledTime accepts RFC 3339 and requires an instant strictly
// in the future. An empty value is valid and means draft semantics.
func parseScheduledTime(raw string, now time.Time) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}

	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, apperr.ValidationError{Reason: apperr.ReasonInvalidScheduledTime}
	}
	if !t.After(now) {
		return nil, apperr.ValidationError{Reason: apperr.ReasonInvalidScheduledTime}
	}

	return &t, nil
}
