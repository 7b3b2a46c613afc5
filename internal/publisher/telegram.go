package publisher

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
	config "github.com/publora/publora-api/configs"
	"github.com/publora/publora-api/internal/models"
	"github.com/publora/publora-api/internal/transfer"
)

type telegramPublisher struct {
	cfg  config.Config
	rest *resty.Client
}

func NewTelegramPublisher(cfg config.Config, rest *resty.Client) Publisher {
	return &telegramPublisher{cfg: cfg, rest: rest}
}

func (p *telegramPublisher) Platform() models.Platform {
	return models.PlatformTelegram
}

// Publish sends through the shared bot. The connection's opaque id is
// the chat id of the channel or group the bot was added to.
func (p *telegramPublisher) Publish(ctx context.Context, req *Request) (*Result, error) {
	chatID := opaqueID(req.Connection)
	text := TruncateContent(models.PlatformTelegram, req.Content)

	method := "sendMessage"
	params := map[string]string{
		"chat_id": chatID,
		"text":    text,
	}
	if len(req.Media) > 0 {
		asset := req.Media[0]
		delete(params, "text")
		params["caption"] = text
		if asset.IsVideo() {
			method = "sendVideo"
			params["video"] = asset.FileURL
		} else {
			method = "sendPhoto"
			params["photo"] = asset.FileURL
		}
	}

	var out transfer.TelegramSendResponse
	resp, err := p.rest.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetResult(&out).
		SetError(&out).
		Post(fmt.Sprintf("%s/bot%s/%s", p.cfg.TelegramAPIBaseURL, p.cfg.TelegramBotToken, method))
	if err != nil {
		return nil, transientErr(models.PlatformTelegram, "request failed", err)
	}
	if resp.IsError() || !out.OK {
		return nil, statusErr(models.PlatformTelegram, resp.StatusCode(), out.Description)
	}

	messageID := fmt.Sprintf("%d", out.Result.MessageID)
	result := &Result{PostedID: messageID}
	if out.Result.Chat.Username != "" {
		result.PublishedURL = fmt.Sprintf("https://t.me/%s/%s", out.Result.Chat.Username, messageID)
	}
	return result, nil
}
