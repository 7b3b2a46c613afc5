package publisher

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
	config "github.com/publora/publora-api/configs"
	"github.com/publora/publora-api/internal/models"
	"github.com/publora/publora-api/internal/transfer"
)

type facebookPublisher struct {
	cfg  config.Config
	rest *resty.Client
}

func NewFacebookPublisher(cfg config.Config, rest *resty.Client) Publisher {
	return &facebookPublisher{cfg: cfg, rest: rest}
}

func (p *facebookPublisher) Platform() models.Platform {
	return models.PlatformFacebook
}

// Publish posts to the page feed. The connection's access token is a
// page token; its opaque id is the page id.
func (p *facebookPublisher) Publish(ctx context.Context, req *Request) (*Result, error) {
	pageToken, err := decryptToken(p.cfg, req.Connection, req.Connection.AccessToken)
	if err != nil {
		return nil, err
	}

	pageID := opaqueID(req.Connection)
	message := TruncateContent(models.PlatformFacebook, req.Content)

	endpoint := fmt.Sprintf("%s/%s/feed", p.cfg.GraphAPIBaseURL, pageID)
	params := map[string]string{
		"message":      message,
		"access_token": pageToken,
	}
	if len(req.Media) > 0 {
		asset := req.Media[0]
		if asset.IsVideo() {
			endpoint = fmt.Sprintf("%s/%s/videos", p.cfg.GraphAPIBaseURL, pageID)
			delete(params, "message")
			params["description"] = message
			params["file_url"] = asset.FileURL
		} else {
			endpoint = fmt.Sprintf("%s/%s/photos", p.cfg.GraphAPIBaseURL, pageID)
			params["url"] = asset.FileURL
		}
	}

	var published transfer.GraphPostResponse
	resp, err := p.rest.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetResult(&published).
		Post(endpoint)
	if err != nil {
		return nil, transientErr(models.PlatformFacebook, "request failed", err)
	}
	if resp.IsError() {
		return nil, classifyGraphError(models.PlatformFacebook, resp)
	}

	postedID := published.PostID
	if postedID == "" {
		postedID = published.ID
	}

	return &Result{
		PostedID:     postedID,
		PublishedURL: fmt.Sprintf("https://www.facebook.com/%s", postedID),
	}, nil
}
