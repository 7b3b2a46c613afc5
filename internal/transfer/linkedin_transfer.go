package transfer

import (
	"encoding/json"
	"fmt"
)

// QueryTypes accepts either the string "ALL" or an explicit array of
// metric names in request bodies.
type QueryTypes []string

func (q *QueryTypes) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*q = QueryTypes{single}
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("queryTypes must be a string or an array of strings")
	}
	*q = QueryTypes(many)
	return nil
}

func (q QueryTypes) IsAll() bool {
	return len(q) == 0 || (len(q) == 1 && q[0] == "ALL")
}

type PostStatisticsRequest struct {
	PlatformID string     `json:"platformId" validate:"required"`
	PostedID   string     `json:"postedId" validate:"required"`
	QueryTypes QueryTypes `json:"queryTypes"`
}

type AccountStatisticsRequest struct {
	PlatformID string     `json:"platformId" validate:"required"`
	QueryTypes QueryTypes `json:"queryTypes"`
}

type StatisticsResponse struct {
	Metrics map[string]int64 `json:"metrics"`
}

type ReactionRequest struct {
	PlatformID   string `json:"platformId" validate:"required"`
	PostedID     string `json:"postedId" validate:"required"`
	ReactionType string `json:"reactionType"`
}

// LinkedInShareStatistics mirrors the element shape returned by the
// LinkedIn share statistics endpoints.
type LinkedInShareStatistics struct {
	Elements []struct {
		TotalShareStatistics struct {
			ImpressionCount        int64 `json:"impressionCount"`
			UniqueImpressionsCount int64 `json:"uniqueImpressionsCount"`
			ShareCount             int64 `json:"shareCount"`
			LikeCount              int64 `json:"likeCount"`
			CommentCount           int64 `json:"commentCount"`
		} `json:"totalShareStatistics"`
	} `json:"elements"`
}

type LinkedInErrorResponse struct {
	Message          string `json:"message"`
	ServiceErrorCode int    `json:"serviceErrorCode"`
	Status           int    `json:"status"`
}
