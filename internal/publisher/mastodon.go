package publisher

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	mastodonapi "github.com/mattn/go-mastodon"
	config "github.com/publora/publora-api/configs"
	"github.com/publora/publora-api/internal/models"
)

const mastodonHTTPTimeout = 30 * time.Second

type mastodonPublisher struct {
	cfg  config.Config
	rest *resty.Client
}

func NewMastodonPublisher(cfg config.Config, rest *resty.Client) Publisher {
	return &mastodonPublisher{cfg: cfg, rest: rest}
}

func (p *mastodonPublisher) Platform() models.Platform {
	return models.PlatformMastodon
}

// Publish posts a status to the instance named in the connection's
// "user@instance" username.
func (p *mastodonPublisher) Publish(ctx context.Context, req *Request) (*Result, error) {
	accessToken, err := decryptToken(p.cfg, req.Connection, req.Connection.AccessToken)
	if err != nil {
		return nil, err
	}

	server, err := mastodonServer(req.Connection.Username)
	if err != nil {
		return nil, err
	}

	client := mastodonapi.NewClient(&mastodonapi.Config{
		Server:      server,
		AccessToken: accessToken,
	})
	client.Timeout = mastodonHTTPTimeout

	var mediaIDs []mastodonapi.ID
	for _, asset := range req.Media {
		data, err := fetchMedia(ctx, p.rest, models.PlatformMastodon, asset.FileURL)
		if err != nil {
			return nil, err
		}
		attachment, err := client.UploadMediaFromMedia(ctx, &mastodonapi.Media{
			File: bytes.NewReader(data),
		})
		if err != nil {
			return nil, classifyMastodonError("upload media failed", err)
		}
		mediaIDs = append(mediaIDs, attachment.ID)
	}

	status, err := client.PostStatus(ctx, &mastodonapi.Toot{
		Status:   TruncateContent(models.PlatformMastodon, req.Content),
		MediaIDs: mediaIDs,
	})
	if err != nil {
		return nil, classifyMastodonError("post status failed", err)
	}

	return &Result{
		PostedID:     string(status.ID),
		PublishedURL: status.URL,
	}, nil
}

// classifyMastodonError classifies API failures by the HTTP status. The
// client flattens the status line into the error message, so the code
// is recovered from there; unreadable errors stay transient.
func classifyMastodonError(reason string, err error) *PublishError {
	if code := httpStatusIn(err.Error()); code != 0 {
		return statusErr(models.PlatformMastodon, code, err.Error())
	}
	return transientErr(models.PlatformMastodon, reason, err)
}

// httpStatusIn pulls the first HTTP status code out of a flattened
// error message like "bad request: 401 Unauthorized".
func httpStatusIn(msg string) int {
	for _, field := range strings.Fields(msg) {
		field = strings.TrimSuffix(field, ":")
		if len(field) != 3 {
			continue
		}
		if code, err := strconv.Atoi(field); err == nil && code >= 100 && code < 600 {
			return code
		}
	}
	return 0
}

func mastodonServer(username string) (string, error) {
	_, instance, found := strings.Cut(username, "@")
	if !found || instance == "" {
		return "", permanentErr(models.PlatformMastodon, fmt.Sprintf("username %q does not name an instance", username), nil)
	}
	return "https://" + instance, nil
}
