package publisher

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	config "github.com/publora/publora-api/configs"
	"github.com/publora/publora-api/internal/models"
	"github.com/publora/publora-api/pkg/utils"
)

// opaqueID strips the "{platform}-" prefix from a connection reference,
// leaving the platform-native account identifier.
func opaqueID(conn *models.PlatformConnection) string {
	return strings.TrimPrefix(conn.ID, string(conn.Platform)+"-")
}

func decryptToken(cfg config.Config, conn *models.PlatformConnection, token string) (string, error) {
	decrypted, err := utils.Decrypt(token, []byte(cfg.SecretKey))
	if err != nil {
		return "", permanentErr(conn.Platform, "unable to decrypt access token", err)
	}
	return decrypted, nil
}

// fetchMedia downloads an asset's bytes for platforms that require a
// direct upload instead of a pull-from-URL source.
func fetchMedia(ctx context.Context, rest *resty.Client, platform models.Platform, fileURL string) ([]byte, error) {
	resp, err := rest.R().SetContext(ctx).Get(fileURL)
	if err != nil {
		return nil, transientErr(platform, "media download failed", err)
	}
	if resp.IsError() {
		return nil, transientErr(platform, fmt.Sprintf("media download returned status %d", resp.StatusCode()), nil)
	}
	return resp.Body(), nil
}

func firstLine(content string) string {
	line, _, _ := strings.Cut(content, "\n")
	return strings.TrimSpace(line)
}
