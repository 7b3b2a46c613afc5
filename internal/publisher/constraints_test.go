package publisher

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/publora/publora-api/internal/models"
)

func TestMaxMediaFor(t *testing.T) {
	tests := []struct {
		name      string
		platforms []models.Platform
		want      int
	}{
		{"none", nil, 0},
		{"single", []models.Platform{models.PlatformInstagram}, 10},
		{"strictest wins", []models.Platform{models.PlatformInstagram, models.PlatformTwitter}, 4},
		{"youtube caps at one", []models.Platform{models.PlatformTiktok, models.PlatformYoutube}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MaxMediaFor(tt.platforms); got != tt.want {
				t.Errorf("MaxMediaFor(%v) = %d, want %d", tt.platforms, got, tt.want)
			}
		})
	}
}

func TestTruncateContent(t *testing.T) {
	t.Run("short content untouched", func(t *testing.T) {
		if got := TruncateContent(models.PlatformTwitter, "hello"); got != "hello" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("long content cut to limit", func(t *testing.T) {
		long := strings.Repeat("a", 500)
		got := TruncateContent(models.PlatformTwitter, long)
		if n := utf8.RuneCountInString(got); n != 280 {
			t.Errorf("rune count = %d, want 280", n)
		}
		if !strings.HasSuffix(got, "…") {
			t.Error("truncated content should end with ellipsis")
		}
	})

	t.Run("multibyte content stays valid", func(t *testing.T) {
		long := strings.Repeat("é", 400)
		got := TruncateContent(models.PlatformBluesky, long)
		if !utf8.ValidString(got) {
			t.Error("truncation produced invalid UTF-8")
		}
		if n := utf8.RuneCountInString(got); n != 300 {
			t.Errorf("rune count = %d, want 300", n)
		}
	})

	t.Run("unknown platform passes through", func(t *testing.T) {
		long := strings.Repeat("a", 100000)
		if got := TruncateContent(models.Platform("unknown"), long); got != long {
			t.Error("content for unknown platform should not be cut")
		}
	})
}

func TestConstraintsCoverAllPlatforms(t *testing.T) {
	for p := range map[models.Platform]struct{}{
		models.PlatformTwitter: {}, models.PlatformLinkedIn: {}, models.PlatformInstagram: {},
		models.PlatformThreads: {}, models.PlatformTiktok: {}, models.PlatformYoutube: {},
		models.PlatformFacebook: {}, models.PlatformBluesky: {}, models.PlatformMastodon: {},
		models.PlatformTelegram: {},
	} {
		c := ConstraintsFor(p)
		if c.MaxChars == 0 || c.MaxMedia == 0 {
			t.Errorf("platform %q has incomplete constraints: %+v", p, c)
		}
	}
}
