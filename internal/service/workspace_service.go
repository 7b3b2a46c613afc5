package service

import (
	"context"
	"log/slog"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/publora/publora-api/internal/apperr"
	"github.com/publora/publora-api/internal/models"
	"github.com/publora/publora-api/internal/repository"
	"github.com/publora/publora-api/internal/transfer"
	"github.com/publora/publora-api/internal/validation"
)

type WorkspaceService interface {
	Create(ctx context.Context, ownerID int64, wc *transfer.WorkspaceUserCreation) (*models.WorkspaceUser, error)
	List(ctx context.Context, ownerID int64) ([]*models.WorkspaceUser, error)
	Verify(ctx context.Context, id string, ownerID int64) (bool, error)
	Remove(ctx context.Context, ownerID int64, id string) error
}

type workspaceService struct {
	wur repository.WorkspaceUserRepository
}

func NewWorkspaceService(wur repository.WorkspaceUserRepository) WorkspaceService {
	return &workspaceService{wur: wur}
}

func (s *workspaceService) Create(ctx context.Context, ownerID int64, wc *transfer.WorkspaceUserCreation) (*models.WorkspaceUser, error) {
	if err := validation.ValidateWorkspaceUser(wc); err != nil {
		return nil, err
	}

	id, err := gonanoid.New()
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	wu := models.WorkspaceUser{
		ID:      id,
		OwnerID: ownerID,
		Name:    wc.Name,
		Email:   wc.Email,
	}
	if err := s.wur.Create(ctx, &wu); err != nil {
		return nil, err
	}

	return &wu, nil
}

func (s *workspaceService) List(ctx context.Context, ownerID int64) ([]*models.WorkspaceUser, error) {
	return s.wur.ListByOwnerID(ctx, ownerID)
}

// Verify reports whether the given workspace user belongs to the owner.
// The auth middleware uses this to check delegation headers.
func (s *workspaceService) Verify(ctx context.Context, id string, ownerID int64) (bool, error) {
	return s.wur.CheckByOwnerID(ctx, id, ownerID)
}

func (s *workspaceService) Remove(ctx context.Context, ownerID int64, id string) error {
	exists, err := s.wur.CheckByOwnerID(ctx, id, ownerID)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.NotFoundError{Resource: "workspace user"}
	}

	return s.wur.Remove(ctx, id)
}
