package publisher

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
	config "github.com/publora/publora-api/configs"
	"github.com/publora/publora-api/internal/models"
	"github.com/publora/publora-api/internal/transfer"
)

type instagramPublisher struct {
	cfg  config.Config
	rest *resty.Client
}

func NewInstagramPublisher(cfg config.Config, rest *resty.Client) Publisher {
	return &instagramPublisher{cfg: cfg, rest: rest}
}

func (p *instagramPublisher) Platform() models.Platform {
	return models.PlatformInstagram
}

// Publish creates a media container and then publishes it, the two-step
// flow the Instagram content publishing API requires. Instagram does not
// accept text-only posts.
func (p *instagramPublisher) Publish(ctx context.Context, req *Request) (*Result, error) {
	if len(req.Media) == 0 {
		return nil, permanentErr(models.PlatformInstagram, "instagram requires at least one media asset", nil)
	}

	accessToken, err := decryptToken(p.cfg, req.Connection, req.Connection.AccessToken)
	if err != nil {
		return nil, err
	}

	igUserID := opaqueID(req.Connection)
	caption := TruncateContent(models.PlatformInstagram, req.Content)
	defaults := DefaultInstagramSettings()

	asset := req.Media[0]
	params := map[string]string{
		"caption":      caption,
		"access_token": accessToken,
	}
	if asset.IsVideo() {
		params["media_type"] = defaults.VideoMediaType
		params["video_url"] = asset.FileURL
	} else {
		params["image_url"] = asset.FileURL
	}

	var container transfer.GraphContainerResponse
	resp, err := p.rest.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetResult(&container).
		Post(fmt.Sprintf("%s/%s/media", p.cfg.GraphAPIBaseURL, igUserID))
	if err != nil {
		return nil, transientErr(models.PlatformInstagram, "container request failed", err)
	}
	if resp.IsError() {
		return nil, classifyGraphError(models.PlatformInstagram, resp)
	}

	var published transfer.GraphPostResponse
	resp, err = p.rest.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"creation_id":  container.ID,
			"access_token": accessToken,
		}).
		SetResult(&published).
		Post(fmt.Sprintf("%s/%s/media_publish", p.cfg.GraphAPIBaseURL, igUserID))
	if err != nil {
		return nil, transientErr(models.PlatformInstagram, "publish request failed", err)
	}
	if resp.IsError() {
		return nil, classifyGraphError(models.PlatformInstagram, resp)
	}

	return &Result{
		PostedID:     published.ID,
		PublishedURL: fmt.Sprintf("https://www.instagram.com/p/%s/", published.ID),
	}, nil
}
