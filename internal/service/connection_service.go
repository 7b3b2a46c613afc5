package service

import (
	"context"

	"github.com/publora/publora-api/internal/models"
	"github.com/publora/publora-api/internal/repository"
)

type ConnectionService interface {
	List(ctx context.Context, userID int64) ([]*models.PlatformConnection, error)
}

type connectionService struct {
	pcr repository.PlatformConnectionRepository
}

func NewConnectionService(pcr repository.PlatformConnectionRepository) ConnectionService {
	return &connectionService{pcr: pcr}
}

func (s *connectionService) List(ctx context.Context, userID int64) ([]*models.PlatformConnection, error) {
	connections, err := s.pcr.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return connections, nil
}
