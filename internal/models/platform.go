package models

import (
	"fmt"
	"strings"
)

type Platform string

const (
	PlatformTwitter   Platform = "twitter"
	PlatformLinkedIn  Platform = "linkedin"
	PlatformInstagram Platform = "instagram"
	PlatformThreads   Platform = "threads"
	PlatformTiktok    Platform = "tiktok"
	PlatformYoutube   Platform = "youtube"
	PlatformFacebook  Platform = "facebook"
	PlatformBluesky   Platform = "bluesky"
	PlatformMastodon  Platform = "mastodon"
	PlatformTelegram  Platform = "telegram"
)

var knownPlatforms = map[Platform]struct{}{
	PlatformTwitter:   {},
	PlatformLinkedIn:  {},
	PlatformInstagram: {},
	PlatformThreads:   {},
	PlatformTiktok:    {},
	PlatformYoutube:   {},
	PlatformFacebook:  {},
	PlatformBluesky:   {},
	PlatformMastodon:  {},
	PlatformTelegram:  {},
}

func (p Platform) Valid() bool {
	_, ok := knownPlatforms[p]
	return ok
}

// ParsePlatformID splits a connection reference of the form
// "{platform}-{opaque-id}" and returns its platform component.
func ParsePlatformID(platformID string) (Platform, error) {
	prefix, rest, found := strings.Cut(platformID, "-")
	if !found || rest == "" {
		return "", fmt.Errorf("malformed platform id %q", platformID)
	}

	p := Platform(prefix)
	if !p.Valid() {
		return "", fmt.Errorf("unknown platform %q", prefix)
	}

	return p, nil
}
