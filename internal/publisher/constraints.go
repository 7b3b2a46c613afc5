package publisher

import "github.com/publora/publora-api/internal/models"

// Constraints captures per-platform publishing limits enforced before
// any remote call is made.
type Constraints struct {
	MaxChars    int
	MaxMedia    int
	AllowsVideo bool
	VideoOnly   bool
}

var platformConstraints = map[models.Platform]Constraints{
	models.PlatformTwitter:   {MaxChars: 280, MaxMedia: 4, AllowsVideo: true},
	models.PlatformLinkedIn:  {MaxChars: 3000, MaxMedia: 9, AllowsVideo: true},
	models.PlatformInstagram: {MaxChars: 2200, MaxMedia: 10, AllowsVideo: true},
	models.PlatformThreads:   {MaxChars: 500, MaxMedia: 10, AllowsVideo: true},
	models.PlatformTiktok:    {MaxChars: 2200, MaxMedia: 35, AllowsVideo: true},
	models.PlatformYoutube:   {MaxChars: 5000, MaxMedia: 1, AllowsVideo: true, VideoOnly: true},
	models.PlatformFacebook:  {MaxChars: 63206, MaxMedia: 10, AllowsVideo: true},
	models.PlatformBluesky:   {MaxChars: 300, MaxMedia: 4},
	models.PlatformMastodon:  {MaxChars: 500, MaxMedia: 4, AllowsVideo: true},
	models.PlatformTelegram:  {MaxChars: 4096, MaxMedia: 10, AllowsVideo: true},
}

func ConstraintsFor(p models.Platform) Constraints {
	return platformConstraints[p]
}

// MaxMediaFor returns the smallest media ceiling across the given
// platforms, used by the upload broker to reject excess uploads at
// request time.
func MaxMediaFor(platforms []models.Platform) int {
	max := 0
	for i, p := range platforms {
		c := ConstraintsFor(p)
		if i == 0 || c.MaxMedia < max {
			max = c.MaxMedia
		}
	}
	return max
}

// TruncateContent trims a copy of the content to the platform's
// character limit, rune-safe, appending an ellipsis when cut.
func TruncateContent(p models.Platform, content string) string {
	limit := ConstraintsFor(p).MaxChars
	if limit <= 0 {
		return content
	}

	runes := []rune(content)
	if len(runes) <= limit {
		return content
	}

	return string(runes[:limit-1]) + "…"
}

// TiktokDefaults are applied to every TikTok publish unless the account
// requires otherwise. Documented here rather than buried in the adapter.
type TiktokDefaults struct {
	PrivacyLevel   string
	DisableComment bool
	DisableDuet    bool
	DisableStitch  bool
	AutoAddMusic   bool
}

func DefaultTiktokSettings() TiktokDefaults {
	return TiktokDefaults{
		PrivacyLevel:   "PUBLIC_TO_EVERYONE",
		DisableComment: false,
		DisableDuet:    false,
		DisableStitch:  false,
		AutoAddMusic:   true,
	}
}

// InstagramDefaults control the container type chosen for Instagram
// publishes. Videos default to REELS.
type InstagramDefaults struct {
	VideoMediaType string
	ShareToFeed    bool
}

func DefaultInstagramSettings() InstagramDefaults {
	return InstagramDefaults{
		VideoMediaType: "REELS",
		ShareToFeed:    true,
	}
}

// YoutubeDefaults govern uploads with no explicit metadata: public
// visibility and a title derived from the content when none is given.
type YoutubeDefaults struct {
	PrivacyStatus string
	CategoryID    string
	TitleMaxChars int
}

func DefaultYoutubeSettings() YoutubeDefaults {
	return YoutubeDefaults{
		PrivacyStatus: "public",
		CategoryID:    "22",
		TitleMaxChars: 100,
	}
}
