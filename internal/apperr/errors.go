// Package apperr defines the error values surfaced at the API boundary.
// Each carries a stable, machine-checkable reason string.
package apperr

import "fmt"

const (
	ReasonContentRequired      = "ContentRequired"
	ReasonPlatformsRequired    = "PlatformsRequired"
	ReasonInvalidScheduledTime = "InvalidScheduledTime"
	ReasonInvalidPlatform      = "InvalidPlatform"
	ReasonDuplicatePlatform    = "DuplicatePlatform"
	ReasonInvalidStatus        = "InvalidStatus"
	ReasonMediaLimitExceeded   = "MediaLimitExceeded"
	ReasonInvalidConfirmToken  = "InvalidConfirmToken"
	ReasonUnsupportedMediaType = "UnsupportedMediaType"
	ReasonInvalidTransition    = "InvalidTransition"
	ReasonInvalidKey           = "InvalidKey"
	ReasonSubscriptionRequired = "SubscriptionRequired"
	ReasonPostLimitReached     = "PostLimitReached"
	ReasonUnknownWorkspaceUser = "UnknownWorkspaceUser"
	ReasonInvalidWorkspaceUser = "InvalidWorkspaceUser"
	ReasonPlatformUnavailable  = "PlatformUnavailable"
)

// ValidationError rejects a malformed request before it reaches any
// scheduler or adapter.
type ValidationError struct {
	Reason string
}

func (e ValidationError) Error() string {
	return e.Reason
}

// AuthError covers missing/invalid credentials and subscription or tier
// limits. Forbidden distinguishes 403 from 401.
type AuthError struct {
	Reason    string
	Forbidden bool
}

func (e AuthError) Error() string {
	return e.Reason
}

// NotFoundError reports an unknown postGroupId, media id, or platform
// reference.
type NotFoundError struct {
	Resource string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

// TransitionError rejects lifecycle operations that are not allowed in
// the group's current status, e.g. deleting a processing group.
type TransitionError struct {
	Status string
}

func (e TransitionError) Error() string {
	return ReasonInvalidTransition
}

// PlatformError reports a failure of a remote platform API outside the
// publishing pipeline (analytics, reactions).
type PlatformError struct {
	Platform string
	Err      error
}

func (e PlatformError) Error() string {
	return fmt.Sprintf("%s: %v", e.Platform, e.Err)
}

func (e PlatformError) Unwrap() error {
	return e.Err
}
