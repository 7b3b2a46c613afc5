package publisher

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
	config "github.com/publora/publora-api/configs"
	"github.com/publora/publora-api/internal/models"
	"github.com/publora/publora-api/internal/transfer"
)

type linkedinPublisher struct {
	cfg  config.Config
	rest *resty.Client
}

func NewLinkedInPublisher(cfg config.Config, rest *resty.Client) Publisher {
	return &linkedinPublisher{cfg: cfg, rest: rest}
}

func (p *linkedinPublisher) Platform() models.Platform {
	return models.PlatformLinkedIn
}

func (p *linkedinPublisher) Publish(ctx context.Context, req *Request) (*Result, error) {
	accessToken, err := decryptToken(p.cfg, req.Connection, req.Connection.AccessToken)
	if err != nil {
		return nil, err
	}

	body := transfer.LinkedInUGCPost{
		Author:         "urn:li:person:" + opaqueID(req.Connection),
		LifecycleState: "PUBLISHED",
	}
	body.SpecificContent.ShareContent.ShareCommentary.Text = TruncateContent(models.PlatformLinkedIn, req.Content)
	body.SpecificContent.ShareContent.ShareMediaCategory = "NONE"
	body.Visibility.MemberNetworkVisibility = "PUBLIC"

	if len(req.Media) > 0 {
		body.SpecificContent.ShareContent.ShareMediaCategory = "ARTICLE"
		for _, asset := range req.Media {
			body.SpecificContent.ShareContent.Media = append(body.SpecificContent.ShareContent.Media, transfer.LinkedInShareItem{
				Status:      "READY",
				OriginalURL: asset.FileURL,
			})
		}
	}

	resp, err := p.rest.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		SetHeader("X-Restli-Protocol-Version", "2.0.0").
		SetBody(body).
		Post(p.cfg.LinkedInAPIBaseURL + "/v2/ugcPosts")
	if err != nil {
		return nil, transientErr(models.PlatformLinkedIn, "request failed", err)
	}
	if resp.IsError() {
		return nil, statusErr(models.PlatformLinkedIn, resp.StatusCode(), string(resp.Body()))
	}

	postedID := resp.Header().Get("X-RestLi-Id")
	if postedID == "" {
		return nil, permanentErr(models.PlatformLinkedIn, "missing X-RestLi-Id header in response", nil)
	}

	return &Result{
		PostedID:     postedID,
		PublishedURL: fmt.Sprintf("https://www.linkedin.com/feed/update/%s", postedID),
	}, nil
}
