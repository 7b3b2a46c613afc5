package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"
	cfg "github.com/publora/publora-api/configs"
	"github.com/publora/publora-api/internal/apperr"
	"github.com/publora/publora-api/internal/models"
	"github.com/publora/publora-api/internal/repository"
	"github.com/publora/publora-api/internal/transfer"
	"github.com/publora/publora-api/pkg/utils"
)

// Metric names accepted in queryTypes. "ALL" expands to the full set.
var allStatisticsTypes = []string{"IMPRESSION", "MEMBERS_REACHED", "RESHARE", "REACTION", "COMMENT"}

type StatsService interface {
	PostStatistics(ctx context.Context, userID int64, req *transfer.PostStatisticsRequest) (*transfer.StatisticsResponse, error)
	AccountStatistics(ctx context.Context, userID int64, req *transfer.AccountStatisticsRequest) (*transfer.StatisticsResponse, error)
	AddReaction(ctx context.Context, userID int64, req *transfer.ReactionRequest) error
	RemoveReaction(ctx context.Context, userID int64, req *transfer.ReactionRequest) error
}

type statsService struct {
	config cfg.Config
	pcr    repository.PlatformConnectionRepository
	rest   *resty.Client
}

func NewStatsService(config cfg.Config, pcr repository.PlatformConnectionRepository, rest *resty.Client) StatsService {
	return &statsService{
		config: config,
		pcr:    pcr,
		rest:   rest,
	}
}

// linkedinConnection resolves the platformId to an owned LinkedIn
// connection and its decrypted access token.
func (s *statsService) linkedinConnection(ctx context.Context, userID int64, platformID string) (*models.PlatformConnection, string, error) {
	conn, err := s.pcr.GetByID(ctx, platformID)
	if err != nil {
		return nil, "", err
	}
	if conn == nil || conn.UserID != userID {
		return nil, "", apperr.NotFoundError{Resource: "platform connection"}
	}
	if conn.Platform != models.PlatformLinkedIn {
		return nil, "", apperr.ValidationError{Reason: apperr.ReasonInvalidPlatform}
	}

	token, err := utils.Decrypt(conn.AccessToken, []byte(s.config.SecretKey))
	if err != nil {
		return nil, "", apperr.PlatformError{Platform: string(models.PlatformLinkedIn), Err: err}
	}

	return conn, token, nil
}

func (s *statsService) PostStatistics(ctx context.Context, userID int64, req *transfer.PostStatisticsRequest) (*transfer.StatisticsResponse, error) {
	_, token, err := s.linkedinConnection(ctx, userID, req.PlatformID)
	if err != nil {
		return nil, err
	}

	var stats transfer.LinkedInShareStatistics
	resp, err := s.rest.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetQueryParams(map[string]string{
			"q":         "share",
			"shares[0]": req.PostedID,
		}).
		SetResult(&stats).
		Get(s.config.LinkedInAPIBaseURL + "/v2/organizationalEntityShareStatistics")
	if err != nil {
		return nil, apperr.PlatformError{Platform: string(models.PlatformLinkedIn), Err: err}
	}
	if resp.IsError() {
		return nil, platformRespError(resp)
	}

	return filterMetrics(&stats, req.QueryTypes), nil
}

func (s *statsService) AccountStatistics(ctx context.Context, userID int64, req *transfer.AccountStatisticsRequest) (*transfer.StatisticsResponse, error) {
	conn, token, err := s.linkedinConnection(ctx, userID, req.PlatformID)
	if err != nil {
		return nil, err
	}

	entityURN := "urn:li:person:" + strings.TrimPrefix(conn.ID, string(conn.Platform)+"-")

	var stats transfer.LinkedInShareStatistics
	resp, err := s.rest.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetQueryParams(map[string]string{
			"q":                    "organizationalEntity",
			"organizationalEntity": entityURN,
		}).
		SetResult(&stats).
		Get(s.config.LinkedInAPIBaseURL + "/v2/organizationalEntityShareStatistics")
	if err != nil {
		return nil, apperr.PlatformError{Platform: string(models.PlatformLinkedIn), Err: err}
	}
	if resp.IsError() {
		return nil, platformRespError(resp)
	}

	return filterMetrics(&stats, req.QueryTypes), nil
}

func (s *statsService) AddReaction(ctx context.Context, userID int64, req *transfer.ReactionRequest) error {
	conn, token, err := s.linkedinConnection(ctx, userID, req.PlatformID)
	if err != nil {
		return err
	}

	reactionType := req.ReactionType
	if reactionType == "" {
		reactionType = "LIKE"
	}

	actorURN := "urn:li:person:" + strings.TrimPrefix(conn.ID, string(conn.Platform)+"-")
	resp, err := s.rest.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetQueryParam("actor", actorURN).
		SetBody(map[string]any{
			"root":         req.PostedID,
			"reactionType": reactionType,
		}).
		Post(s.config.LinkedInAPIBaseURL + "/v2/reactions")
	if err != nil {
		return apperr.PlatformError{Platform: string(models.PlatformLinkedIn), Err: err}
	}
	if resp.IsError() {
		return platformRespError(resp)
	}

	return nil
}

func (s *statsService) RemoveReaction(ctx context.Context, userID int64, req *transfer.ReactionRequest) error {
	conn, token, err := s.linkedinConnection(ctx, userID, req.PlatformID)
	if err != nil {
		return err
	}

	actorURN := "urn:li:person:" + strings.TrimPrefix(conn.ID, string(conn.Platform)+"-")
	key := url.PathEscape("(actor:" + actorURN + ",entity:" + req.PostedID + ")")

	resp, err := s.rest.R().
		SetContext(ctx).
		SetAuthToken(token).
		Delete(s.config.LinkedInAPIBaseURL + "/v2/reactions/" + key)
	if err != nil {
		return apperr.PlatformError{Platform: string(models.PlatformLinkedIn), Err: err}
	}
	if resp.IsError() {
		return platformRespError(resp)
	}

	return nil
}

// filterMetrics maps LinkedIn's share statistics to the stable metric
// names, restricted to the requested subset.
func filterMetrics(stats *transfer.LinkedInShareStatistics, queryTypes transfer.QueryTypes) *transfer.StatisticsResponse {
	totals := map[string]int64{
		"IMPRESSION":      0,
		"MEMBERS_REACHED": 0,
		"RESHARE":         0,
		"REACTION":        0,
		"COMMENT":         0,
	}
	for _, el := range stats.Elements {
		totals["IMPRESSION"] += el.TotalShareStatistics.ImpressionCount
		totals["MEMBERS_REACHED"] += el.TotalShareStatistics.UniqueImpressionsCount
		totals["RESHARE"] += el.TotalShareStatistics.ShareCount
		totals["REACTION"] += el.TotalShareStatistics.LikeCount
		totals["COMMENT"] += el.TotalShareStatistics.CommentCount
	}

	wanted := allStatisticsTypes
	if !queryTypes.IsAll() {
		wanted = []string(queryTypes)
	}

	metrics := make(map[string]int64, len(wanted))
	for _, name := range wanted {
		if v, ok := totals[name]; ok {
			metrics[name] = v
		}
	}

	return &transfer.StatisticsResponse{Metrics: metrics}
}

func platformRespError(resp *resty.Response) error {
	detail := strings.TrimSpace(string(resp.Body()))
	var linkedinErr transfer.LinkedInErrorResponse
	if err := json.Unmarshal(resp.Body(), &linkedinErr); err == nil && linkedinErr.Message != "" {
		detail = linkedinErr.Message
	}
	return apperr.PlatformError{
		Platform: string(models.PlatformLinkedIn),
		Err:      fmt.Errorf("status %d: %s", resp.StatusCode(), detail),
	}
}
