package publisher

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/go-resty/resty/v2"
	config "github.com/publora/publora-api/configs"
	"github.com/publora/publora-api/internal/models"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

type youtubePublisher struct {
	cfg  config.Config
	rest *resty.Client
}

func NewYoutubePublisher(cfg config.Config, rest *resty.Client) Publisher {
	return &youtubePublisher{cfg: cfg, rest: rest}
}

func (p *youtubePublisher) Platform() models.Platform {
	return models.PlatformYoutube
}

// Publish uploads the video as a Short. The first line of the content
// becomes the title, the full content the description.
func (p *youtubePublisher) Publish(ctx context.Context, req *Request) (*Result, error) {
	if len(req.Media) == 0 || !req.Media[0].IsVideo() {
		return nil, permanentErr(models.PlatformYoutube, "youtube requires a video asset", nil)
	}

	accessToken, err := decryptToken(p.cfg, req.Connection, req.Connection.AccessToken)
	if err != nil {
		return nil, err
	}

	svc, err := youtube.NewService(ctx, option.WithTokenSource(
		oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken}),
	))
	if err != nil {
		return nil, transientErr(models.PlatformYoutube, "create service", err)
	}

	data, err := fetchMedia(ctx, p.rest, models.PlatformYoutube, req.Media[0].FileURL)
	if err != nil {
		return nil, err
	}

	defaults := DefaultYoutubeSettings()
	title := firstLine(req.Content)
	if len([]rune(title)) > defaults.TitleMaxChars {
		title = string([]rune(title)[:defaults.TitleMaxChars])
	}

	video := &youtube.Video{
		Snippet: &youtube.VideoSnippet{
			Title:       title,
			Description: TruncateContent(models.PlatformYoutube, req.Content),
			CategoryId:  defaults.CategoryID,
		},
		Status: &youtube.VideoStatus{
			PrivacyStatus: defaults.PrivacyStatus,
		},
	}

	call := svc.Videos.Insert([]string{"snippet", "status"}, video)
	uploaded, err := call.Context(ctx).Media(bytes.NewReader(data)).Do()
	if err != nil {
		return nil, classifyYoutubeError("upload failed", err)
	}

	return &Result{
		PostedID:     uploaded.Id,
		PublishedURL: fmt.Sprintf("https://www.youtube.com/watch?v=%s", uploaded.Id),
	}, nil
}

// classifyYoutubeError classifies API failures by their HTTP status so
// expired tokens and rejected uploads fail without retry.
func classifyYoutubeError(reason string, err error) *PublishError {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return statusErr(models.PlatformYoutube, apiErr.Code, apiErr.Message)
	}
	return transientErr(models.PlatformYoutube, reason, err)
}
