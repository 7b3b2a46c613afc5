package publisher

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/michimani/gotwi"
	"github.com/michimani/gotwi/media/upload"
	uploadtypes "github.com/michimani/gotwi/media/upload/types"
	"github.com/michimani/gotwi/tweet/managetweet"
	managetweettypes "github.com/michimani/gotwi/tweet/managetweet/types"
	config "github.com/publora/publora-api/configs"
	"github.com/publora/publora-api/internal/models"
)

const twitterHTTPTimeout = 30 * time.Second

type twitterPublisher struct {
	cfg  config.Config
	rest *resty.Client
}

func NewTwitterPublisher(cfg config.Config, rest *resty.Client) Publisher {
	return &twitterPublisher{cfg: cfg, rest: rest}
}

func (p *twitterPublisher) Platform() models.Platform {
	return models.PlatformTwitter
}

func (p *twitterPublisher) Publish(ctx context.Context, req *Request) (*Result, error) {
	// OAuth 1.0a user context: the connection stores the token pair,
	// the app-level consumer credentials come from config.
	oauthToken, err := decryptToken(p.cfg, req.Connection, req.Connection.AccessToken)
	if err != nil {
		return nil, err
	}
	oauthSecret, err := decryptToken(p.cfg, req.Connection, req.Connection.RefreshToken)
	if err != nil {
		return nil, err
	}

	client, err := gotwi.NewClient(&gotwi.NewClientInput{
		HTTPClient:           &http.Client{Timeout: twitterHTTPTimeout},
		AuthenticationMethod: gotwi.AuthenMethodOAuth1UserContext,
		OAuthToken:           oauthToken,
		OAuthTokenSecret:     oauthSecret,
		APIKey:               p.cfg.TwitterConsumerKey,
		APIKeySecret:         p.cfg.TwitterConsumerSecret,
	})
	if err != nil {
		return nil, permanentErr(models.PlatformTwitter, "create client", err)
	}

	var mediaIDs []string
	for _, asset := range req.Media {
		mediaID, err := p.uploadMedia(ctx, client, asset)
		if err != nil {
			return nil, err
		}
		mediaIDs = append(mediaIDs, mediaID)
	}

	input := &managetweettypes.CreateInput{
		Text: gotwi.String(TruncateContent(models.PlatformTwitter, req.Content)),
	}
	if len(mediaIDs) > 0 {
		input.Media = &managetweettypes.CreateInputMedia{MediaIDs: mediaIDs}
	}

	res, err := managetweet.Create(ctx, client, input)
	if err != nil {
		return nil, classifyTwitterError(err)
	}
	if res.Data.ID == nil {
		return nil, permanentErr(models.PlatformTwitter, "empty tweet id in response", nil)
	}

	tweetID := *res.Data.ID
	return &Result{
		PostedID:     tweetID,
		PublishedURL: fmt.Sprintf("https://x.com/%s/status/%s", req.Connection.Username, tweetID),
	}, nil
}

func (p *twitterPublisher) uploadMedia(ctx context.Context, client *gotwi.Client, asset *models.MediaAsset) (string, error) {
	mediaType, category, err := twitterMediaType(asset.ContentType)
	if err != nil {
		return "", err
	}

	data, err := fetchMedia(ctx, p.rest, models.PlatformTwitter, asset.FileURL)
	if err != nil {
		return "", err
	}

	initRes, err := upload.Initialize(ctx, client, &uploadtypes.InitializeInput{
		MediaType:     mediaType,
		TotalBytes:    len(data),
		MediaCategory: category,
	})
	if err != nil {
		return "", classifyTwitterError(err)
	}
	mediaID := initRes.Data.MediaID

	appendIn := &uploadtypes.AppendInput{
		MediaID:      mediaID,
		Media:        bytes.NewReader(data),
		SegmentIndex: 0,
	}
	appendIn.GenerateBoundary()
	if _, err := upload.Append(ctx, client, appendIn); err != nil {
		return "", classifyTwitterError(err)
	}

	if _, err := upload.Finalize(ctx, client, &uploadtypes.FinalizeInput{MediaID: mediaID}); err != nil {
		return "", classifyTwitterError(err)
	}

	return mediaID, nil
}

func twitterMediaType(contentType string) (uploadtypes.MediaType, uploadtypes.MediaCategory, error) {
	switch contentType {
	case "image/jpeg":
		return uploadtypes.MediaTypeJPEG, uploadtypes.MediaCategoryTweetImage, nil
	case "image/png":
		return uploadtypes.MediaTypePNG, uploadtypes.MediaCategoryTweetImage, nil
	case "image/gif":
		return uploadtypes.MediaTypeGIF, uploadtypes.MediaCategoryTweetGIF, nil
	case "image/webp":
		return uploadtypes.MediaTypeWebP, uploadtypes.MediaCategoryTweetImage, nil
	case "video/mp4":
		return uploadtypes.MediaTypeMP4, uploadtypes.MediaCategoryTweetVideo, nil
	}
	return "", "", permanentErr(models.PlatformTwitter, fmt.Sprintf("unsupported media type %s", contentType), nil)
}

func classifyTwitterError(err error) error {
	var gwErr *gotwi.GotwiError
	if errors.As(err, &gwErr) && gwErr != nil {
		if gwErr.StatusCode == http.StatusTooManyRequests || gwErr.StatusCode >= http.StatusInternalServerError {
			return transientErr(models.PlatformTwitter, gwErr.Title, err)
		}
		return permanentErr(models.PlatformTwitter, gwErr.Title, err)
	}
	return transientErr(models.PlatformTwitter, "request failed", err)
}
