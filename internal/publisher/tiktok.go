package publisher

import (
	"context"

	"github.com/go-resty/resty/v2"
	config "github.com/publora/publora-api/configs"
	"github.com/publora/publora-api/internal/models"
	"github.com/publora/publora-api/internal/transfer"
)

type tiktokPublisher struct {
	cfg  config.Config
	rest *resty.Client
}

func NewTiktokPublisher(cfg config.Config, rest *resty.Client) Publisher {
	return &tiktokPublisher{cfg: cfg, rest: rest}
}

func (p *tiktokPublisher) Platform() models.Platform {
	return models.PlatformTiktok
}

// Publish submits a direct post through PULL_FROM_URL sourcing: TikTok
// downloads the media itself, so only public URLs are sent. The publish
// is asynchronous on TikTok's side; the returned publish_id identifies it.
func (p *tiktokPublisher) Publish(ctx context.Context, req *Request) (*Result, error) {
	if len(req.Media) == 0 {
		return nil, permanentErr(models.PlatformTiktok, "tiktok requires at least one media asset", nil)
	}

	accessToken, err := decryptToken(p.cfg, req.Connection, req.Connection.AccessToken)
	if err != nil {
		return nil, err
	}

	title := TruncateContent(models.PlatformTiktok, req.Content)
	defaults := DefaultTiktokSettings()

	var body any
	endpoint := p.cfg.TiktokAPIBaseURL + "/v2/post/publish/content/init/"
	if req.Media[0].IsVideo() {
		endpoint = p.cfg.TiktokAPIBaseURL + "/v2/post/publish/video/init/"
		body = transfer.TiktokVideoUploadRequest{
			PostInfo: transfer.TiktokVideoPostInfo{
				Title:        title,
				PrivacyLevel: defaults.PrivacyLevel,
			},
			SourceInfo: transfer.TiktokVideoSourceInfo{
				Source:   "PULL_FROM_URL",
				VideoURL: req.Media[0].FileURL,
			},
		}
	} else {
		images := make([]string, 0, len(req.Media))
		for _, asset := range req.Media {
			images = append(images, asset.FileURL)
		}
		body = transfer.TiktokPhotoUploadRequest{
			PostInfo: transfer.TiktokPhotoPostInfo{
				Title:        firstLine(title),
				Description:  title,
				PrivacyLevel: defaults.PrivacyLevel,
				AutoAddMusic: defaults.AutoAddMusic,
			},
			SourceInfo: transfer.TiktokPhotoSourceInfo{
				Source:      "PULL_FROM_URL",
				PhotoImages: images,
			},
			PostMode:  "DIRECT_POST",
			MediaType: "PHOTO",
		}
	}

	var out transfer.TiktokUploadResponse
	resp, err := p.rest.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		SetHeader("Content-Type", "application/json; charset=UTF-8").
		SetBody(body).
		SetResult(&out).
		Post(endpoint)
	if err != nil {
		return nil, transientErr(models.PlatformTiktok, "request failed", err)
	}
	if resp.IsError() {
		return nil, statusErr(models.PlatformTiktok, resp.StatusCode(), out.Error.Message)
	}
	if out.Error.Code != "" && out.Error.Code != "ok" {
		return nil, permanentErr(models.PlatformTiktok, out.Error.Message, nil)
	}
	if out.Data.PublishID == "" {
		return nil, permanentErr(models.PlatformTiktok, "missing publish_id in response", nil)
	}

	return &Result{
		PostedID:     out.Data.PublishID,
		PublishedURL: "https://www.tiktok.com/@" + req.Connection.Username,
	}, nil
}
