package publisher

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bluesky-social/indigo/api/atproto"
	"github.com/bluesky-social/indigo/api/bsky"
	"github.com/bluesky-social/indigo/lex/util"
	"github.com/bluesky-social/indigo/xrpc"
	"github.com/go-resty/resty/v2"
	config "github.com/publora/publora-api/configs"
	"github.com/publora/publora-api/internal/models"
)

const blueskyHTTPTimeout = 30 * time.Second

type blueskyPublisher struct {
	cfg  config.Config
	rest *resty.Client
}

func NewBlueskyPublisher(cfg config.Config, rest *resty.Client) Publisher {
	return &blueskyPublisher{cfg: cfg, rest: rest}
}

func (p *blueskyPublisher) Platform() models.Platform {
	return models.PlatformBluesky
}

// Publish logs into the PDS with the connection's handle and app
// password, uploads image blobs, and creates a feed post record.
func (p *blueskyPublisher) Publish(ctx context.Context, req *Request) (*Result, error) {
	appPassword, err := decryptToken(p.cfg, req.Connection, req.Connection.AccessToken)
	if err != nil {
		return nil, err
	}

	userAgent := "publora/1"
	client := &xrpc.Client{
		Client:    &http.Client{Timeout: blueskyHTTPTimeout},
		Host:      p.cfg.BlueskyPDSURL,
		UserAgent: &userAgent,
	}

	session, err := atproto.ServerCreateSession(ctx, client, &atproto.ServerCreateSession_Input{
		Identifier: req.Connection.Username,
		Password:   appPassword,
	})
	if err != nil {
		return nil, classifyXRPCError("login failed", err)
	}
	client.Auth = &xrpc.AuthInfo{
		AccessJwt:  session.AccessJwt,
		RefreshJwt: session.RefreshJwt,
		Handle:     session.Handle,
		Did:        session.Did,
	}

	post := &bsky.FeedPost{
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Text:      TruncateContent(models.PlatformBluesky, req.Content),
	}

	if len(req.Media) > 0 {
		images := make([]*bsky.EmbedImages_Image, 0, len(req.Media))
		for _, asset := range req.Media {
			if asset.IsVideo() {
				return nil, permanentErr(models.PlatformBluesky, "video posts are not supported", nil)
			}
			data, err := fetchMedia(ctx, p.rest, models.PlatformBluesky, asset.FileURL)
			if err != nil {
				return nil, err
			}
			blobRes, err := atproto.RepoUploadBlob(ctx, client, bytes.NewReader(data))
			if err != nil {
				return nil, classifyXRPCError("upload blob failed", err)
			}
			if blobRes.Blob == nil {
				return nil, permanentErr(models.PlatformBluesky, "empty blob response", nil)
			}
			images = append(images, &bsky.EmbedImages_Image{Image: blobRes.Blob})
		}
		post.Embed = &bsky.FeedPost_Embed{
			EmbedImages: &bsky.EmbedImages{Images: images},
		}
	}

	record, err := atproto.RepoCreateRecord(ctx, client, &atproto.RepoCreateRecord_Input{
		Collection: "app.bsky.feed.post",
		Repo:       client.Auth.Did,
		Record:     &util.LexiconTypeDecoder{Val: post},
	})
	if err != nil {
		return nil, classifyXRPCError("create record failed", err)
	}

	// at://did:plc:xyz/app.bsky.feed.post/rkey
	rkey := record.Uri[strings.LastIndex(record.Uri, "/")+1:]
	return &Result{
		PostedID:     record.Uri,
		PublishedURL: fmt.Sprintf("https://bsky.app/profile/%s/post/%s", session.Handle, rkey),
	}, nil
}

func classifyXRPCError(reason string, err error) error {
	if xrpcErr, ok := err.(*xrpc.Error); ok {
		return statusErr(models.PlatformBluesky, xrpcErr.StatusCode, xrpcErr.Error())
	}
	return transientErr(models.PlatformBluesky, reason, err)
}
