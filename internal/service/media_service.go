package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/h2non/filetype"
	gonanoid "github.com/matoous/go-nanoid/v2"
	cfg "github.com/publora/publora-api/configs"
	"github.com/publora/publora-api/internal/apperr"
	"github.com/publora/publora-api/internal/models"
	"github.com/publora/publora-api/internal/publisher"
	"github.com/publora/publora-api/internal/repository"
	"github.com/publora/publora-api/internal/transfer"
	"github.com/publora/publora-api/pkg/utils"
)

const confirmTokenTTL = 15 * time.Minute

type MediaService interface {
	RequestUploadTarget(ctx context.Context, userID int64, req *transfer.UploadURLRequest) (*transfer.UploadURLResponse, error)
	ConfirmUpload(ctx context.Context, userID int64, req *transfer.ConfirmUploadRequest) error
}

type mediaService struct {
	config cfg.Config
	pgr    repository.PostGroupRepository
	mar    repository.MediaAssetRepository
	r2     *R2Service
}

func NewMediaService(
	config cfg.Config,
	pgr repository.PostGroupRepository,
	mar repository.MediaAssetRepository,
	r2 *R2Service) MediaService {
	return &mediaService{
		config: config,
		pgr:    pgr,
		mar:    mar,
		r2:     r2,
	}
}

// RequestUploadTarget reserves a pending media slot and hands back a
// presigned PUT URL plus the token that later confirms the upload.
func (s *mediaService) RequestUploadTarget(ctx context.Context, userID int64, req *transfer.UploadURLRequest) (*transfer.UploadURLResponse, error) {
	isOwner, err := s.pgr.CheckByUserID(ctx, req.PostGroupID, userID)
	if err != nil {
		return nil, err
	}
	if !isOwner {
		return nil, apperr.NotFoundError{Resource: "post group"}
	}

	group, err := s.pgr.GetWithPosts(ctx, req.PostGroupID)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, apperr.NotFoundError{Resource: "post group"}
	}
	if group.Status != models.GroupStatusDraft && group.Status != models.GroupStatusScheduled {
		return nil, apperr.TransitionError{Status: group.Status}
	}

	if err := s.checkContentType(req.ContentType); err != nil {
		return nil, err
	}
	if err := s.checkMediaCeiling(ctx, group); err != nil {
		return nil, err
	}

	mediaID, err := gonanoid.New()
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	storageKey := fmt.Sprintf("%d/%s/%s", userID, req.PostGroupID, mediaID)
	uploadURL, err := s.r2.PresignPutObject(ctx, storageKey, req.ContentType)
	if err != nil {
		return nil, err
	}
	fileURL := s.r2.PublicURL(storageKey)

	token, err := utils.GenerateUploadToken(s.config.SecretKey, mediaID, confirmTokenTTL)
	if err != nil {
		return nil, err
	}

	asset := models.MediaAsset{
		ID:          mediaID,
		PostGroupID: req.PostGroupID,
		FileName:    req.FileName,
		ContentType: req.ContentType,
		StorageKey:  storageKey,
		FileURL:     fileURL,
		Status:      models.MediaStatusPending,
	}
	if err := s.mar.Create(ctx, &asset); err != nil {
		return nil, err
	}

	return &transfer.UploadURLResponse{
		UploadURL:    uploadURL,
		FileURL:      fileURL,
		MediaID:      mediaID,
		ConfirmToken: token,
	}, nil
}

func (s *mediaService) checkContentType(contentType string) error {
	if !strings.HasPrefix(contentType, "image/") && !strings.HasPrefix(contentType, "video/") {
		return apperr.ValidationError{Reason: apperr.ReasonUnsupportedMediaType}
	}
	if !filetype.IsMIMESupported(contentType) {
		return apperr.ValidationError{Reason: apperr.ReasonUnsupportedMediaType}
	}
	return nil
}

// checkMediaCeiling enforces the strictest media limit across the
// group's target platforms, counting pending slots as taken.
func (s *mediaService) checkMediaCeiling(ctx context.Context, group *models.PostGroup) error {
	platforms := make([]models.Platform, 0, len(group.Posts))
	for _, post := range group.Posts {
		platforms = append(platforms, post.Platform)
	}

	ceiling := publisher.MaxMediaFor(platforms)
	if ceiling == 0 {
		return nil
	}

	count, err := s.mar.CountByGroupID(ctx, group.ID)
	if err != nil {
		return err
	}
	if count >= ceiling {
		return apperr.ValidationError{Reason: apperr.ReasonMediaLimitExceeded}
	}

	return nil
}

// ConfirmUpload flips the asset to uploaded once the client reports the
// direct upload finished. Confirming twice is harmless; confirming after
// the group left draft/scheduled is rejected so published media stays
// immutable.
func (s *mediaService) ConfirmUpload(ctx context.Context, userID int64, req *transfer.ConfirmUploadRequest) error {
	claims, err := utils.ValidateUploadToken(s.config.SecretKey, req.Token)
	if err != nil || claims.MediaID != req.MediaID {
		return apperr.ValidationError{Reason: apperr.ReasonInvalidConfirmToken}
	}

	asset, err := s.mar.GetByID(ctx, req.MediaID)
	if err != nil {
		return err
	}
	if asset == nil {
		return apperr.NotFoundError{Resource: "media asset"}
	}

	isOwner, err := s.pgr.CheckByUserID(ctx, asset.PostGroupID, userID)
	if err != nil {
		return err
	}
	if !isOwner {
		return apperr.NotFoundError{Resource: "media asset"}
	}

	group, err := s.pgr.GetWithPosts(ctx, asset.PostGroupID)
	if err != nil {
		return err
	}
	if group == nil {
		return apperr.NotFoundError{Resource: "post group"}
	}
	if group.Status != models.GroupStatusDraft && group.Status != models.GroupStatusScheduled {
		return apperr.TransitionError{Status: group.Status}
	}

	if _, err := s.mar.MarkUploaded(ctx, req.MediaID); err != nil {
		return err
	}

	return nil
}
