package publisher

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-resty/resty/v2"
	config "github.com/publora/publora-api/configs"
	"github.com/publora/publora-api/internal/models"
	"github.com/publora/publora-api/internal/transfer"
)

type threadsPublisher struct {
	cfg  config.Config
	rest *resty.Client
}

func NewThreadsPublisher(cfg config.Config, rest *resty.Client) Publisher {
	return &threadsPublisher{cfg: cfg, rest: rest}
}

func (p *threadsPublisher) Platform() models.Platform {
	return models.PlatformThreads
}

func (p *threadsPublisher) Publish(ctx context.Context, req *Request) (*Result, error) {
	accessToken, err := decryptToken(p.cfg, req.Connection, req.Connection.AccessToken)
	if err != nil {
		return nil, err
	}

	userID := opaqueID(req.Connection)
	params := map[string]string{
		"text":         TruncateContent(models.PlatformThreads, req.Content),
		"media_type":   "TEXT",
		"access_token": accessToken,
	}
	if len(req.Media) > 0 {
		asset := req.Media[0]
		if asset.IsVideo() {
			params["media_type"] = "VIDEO"
			params["video_url"] = asset.FileURL
		} else {
			params["media_type"] = "IMAGE"
			params["image_url"] = asset.FileURL
		}
	}

	var container transfer.GraphContainerResponse
	resp, err := p.rest.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetResult(&container).
		Post(fmt.Sprintf("%s/%s/threads", p.cfg.ThreadsAPIBaseURL, userID))
	if err != nil {
		return nil, transientErr(models.PlatformThreads, "container request failed", err)
	}
	if resp.IsError() {
		return nil, classifyGraphError(models.PlatformThreads, resp)
	}

	var published transfer.GraphPostResponse
	resp, err = p.rest.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"creation_id":  container.ID,
			"access_token": accessToken,
		}).
		SetResult(&published).
		Post(fmt.Sprintf("%s/%s/threads_publish", p.cfg.ThreadsAPIBaseURL, userID))
	if err != nil {
		return nil, transientErr(models.PlatformThreads, "publish request failed", err)
	}
	if resp.IsError() {
		return nil, classifyGraphError(models.PlatformThreads, resp)
	}

	return &Result{
		PostedID:     published.ID,
		PublishedURL: fmt.Sprintf("https://www.threads.net/@%s/post/%s", req.Connection.Username, published.ID),
	}, nil
}

// classifyGraphError honors the Graph API's is_transient flag before
// falling back to status-code classification.
func classifyGraphError(platform models.Platform, resp *resty.Response) error {
	var graphErr transfer.GraphErrorResponse
	if err := json.Unmarshal(resp.Body(), &graphErr); err == nil && graphErr.Error.Message != "" {
		if graphErr.Error.IsTransient {
			return transientErr(platform, graphErr.Error.Message, nil)
		}
		return statusErr(platform, resp.StatusCode(), graphErr.Error.Message)
	}
	return statusErr(platform, resp.StatusCode(), string(resp.Body()))
}
