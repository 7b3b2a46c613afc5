package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-resty/resty/v2"
	cfg "github.com/publora/publora-api/configs"
	"github.com/publora/publora-api/internal/apperr"
	"github.com/publora/publora-api/internal/models"
	"github.com/publora/publora-api/internal/transfer"
	"github.com/publora/publora-api/pkg/utils"
)

func linkedinConnections(t *testing.T, userID int64) *fakeConnectionRepo {
	t.Helper()
	token, err := utils.Encrypt([]byte("linkedin-token"), []byte(testSecret))
	if err != nil {
		t.Fatal(err)
	}
	return &fakeConnectionRepo{connections: map[string]*models.PlatformConnection{
		"linkedin-urn123": {
			ID:          "linkedin-urn123",
			UserID:      userID,
			Platform:    models.PlatformLinkedIn,
			AccessToken: token,
		},
		"twitter-1": {
			ID:       "twitter-1",
			UserID:   userID,
			Platform: models.PlatformTwitter,
		},
	}}
}

func statsBody() map[string]any {
	return map[string]any{
		"elements": []map[string]any{
			{
				"totalShareStatistics": map[string]any{
					"impressionCount":        int64(1000),
					"uniqueImpressionsCount": int64(800),
					"shareCount":             int64(5),
					"likeCount":              int64(42),
					"commentCount":           int64(7),
				},
			},
		},
	}
}

func newStatsTestServer(t *testing.T, status int, body any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer linkedin-token" {
			t.Errorf("Authorization = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(body)
	}))
}

func TestPostStatisticsAllMetrics(t *testing.T) {
	srv := newStatsTestServer(t, http.StatusOK, statsBody())
	defer srv.Close()

	s := NewStatsService(cfg.Config{SecretKey: testSecret, LinkedInAPIBaseURL: srv.URL}, linkedinConnections(t, 7), resty.New())

	resp, err := s.PostStatistics(context.Background(), 7, &transfer.PostStatisticsRequest{
		PlatformID: "linkedin-urn123",
		PostedID:   "urn:li:share:999",
		QueryTypes: transfer.QueryTypes{"ALL"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := map[string]int64{
		"IMPRESSION":      1000,
		"MEMBERS_REACHED": 800,
		"RESHARE":         5,
		"REACTION":        42,
		"COMMENT":         7,
	}
	for name, v := range want {
		if resp.Metrics[name] != v {
			t.Errorf("%s = %d, want %d", name, resp.Metrics[name], v)
		}
	}
}

func TestPostStatisticsSubset(t *testing.T) {
	srv := newStatsTestServer(t, http.StatusOK, statsBody())
	defer srv.Close()

	s := NewStatsService(cfg.Config{SecretKey: testSecret, LinkedInAPIBaseURL: srv.URL}, linkedinConnections(t, 7), resty.New())

	resp, err := s.PostStatistics(context.Background(), 7, &transfer.PostStatisticsRequest{
		PlatformID: "linkedin-urn123",
		PostedID:   "urn:li:share:999",
		QueryTypes: transfer.QueryTypes{"REACTION", "COMMENT"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(resp.Metrics) != 2 {
		t.Errorf("metrics = %v, want exactly REACTION and COMMENT", resp.Metrics)
	}
	if resp.Metrics["REACTION"] != 42 || resp.Metrics["COMMENT"] != 7 {
		t.Errorf("metrics = %v", resp.Metrics)
	}
}

func TestPostStatisticsPlatformFailure(t *testing.T) {
	srv := newStatsTestServer(t, http.StatusBadGateway, map[string]any{"message": "upstream down"})
	defer srv.Close()

	s := NewStatsService(cfg.Config{SecretKey: testSecret, LinkedInAPIBaseURL: srv.URL}, linkedinConnections(t, 7), resty.New())

	_, err := s.PostStatistics(context.Background(), 7, &transfer.PostStatisticsRequest{
		PlatformID: "linkedin-urn123",
		PostedID:   "urn:li:share:999",
	})

	var pe apperr.PlatformError
	if !errors.As(err, &pe) {
		t.Fatalf("expected PlatformError, got %v", err)
	}
	if !strings.Contains(pe.Error(), "upstream down") {
		t.Errorf("error should carry LinkedIn's message, got %q", pe.Error())
	}
	if strings.Contains(pe.Error(), "{") {
		t.Errorf("error should not carry raw JSON, got %q", pe.Error())
	}
}

func TestPostStatisticsWrongPlatform(t *testing.T) {
	s := NewStatsService(cfg.Config{SecretKey: testSecret}, linkedinConnections(t, 7), resty.New())

	_, err := s.PostStatistics(context.Background(), 7, &transfer.PostStatisticsRequest{
		PlatformID: "twitter-1",
		PostedID:   "123",
	})

	var ve apperr.ValidationError
	if !errors.As(err, &ve) || ve.Reason != apperr.ReasonInvalidPlatform {
		t.Fatalf("expected InvalidPlatform, got %v", err)
	}
}

func TestPostStatisticsForeignConnection(t *testing.T) {
	s := NewStatsService(cfg.Config{SecretKey: testSecret}, linkedinConnections(t, 99), resty.New())

	_, err := s.PostStatistics(context.Background(), 7, &transfer.PostStatisticsRequest{
		PlatformID: "linkedin-urn123",
		PostedID:   "123",
	})

	var notFound apperr.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestAddReactionDefaultsToLike(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	s := NewStatsService(cfg.Config{SecretKey: testSecret, LinkedInAPIBaseURL: srv.URL}, linkedinConnections(t, 7), resty.New())

	err := s.AddReaction(context.Background(), 7, &transfer.ReactionRequest{
		PlatformID: "linkedin-urn123",
		PostedID:   "urn:li:share:999",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotBody["reactionType"] != "LIKE" {
		t.Errorf("reactionType = %v, want LIKE", gotBody["reactionType"])
	}
	if gotBody["root"] != "urn:li:share:999" {
		t.Errorf("root = %v", gotBody["root"])
	}
}

func TestQueryTypesUnmarshal(t *testing.T) {
	var req transfer.PostStatisticsRequest
	if err := json.Unmarshal([]byte(`{"platformId":"linkedin-1","postedId":"x","queryTypes":"ALL"}`), &req); err != nil {
		t.Fatal(err)
	}
	if !req.QueryTypes.IsAll() {
		t.Error("string ALL should mean all metrics")
	}

	if err := json.Unmarshal([]byte(`{"platformId":"linkedin-1","postedId":"x","queryTypes":["REACTION"]}`), &req); err != nil {
		t.Fatal(err)
	}
	if req.QueryTypes.IsAll() || req.QueryTypes[0] != "REACTION" {
		t.Errorf("queryTypes = %v", req.QueryTypes)
	}
}
