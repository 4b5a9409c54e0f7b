package stream

import (
	"regexp"
	"strings"
)

// youtubeURLRegex accepts the canonical YouTube URL shapes: watch?v=,
// embed/, v/ and youtu.be/, with optional scheme and www./m. subdomain,
// followed by exactly 11 id characters and optional trailing parameters.
var youtubeURLRegex = regexp.MustCompile(
	`^(?:https?://)?(?:www\.)?(?:m\.)?(?:youtube\.com/(?:watch\?(?:.*&)?v=|embed/|v/)|youtu\.be/)([A-Za-z0-9_-]{11})(?:[?&]\S+)?$`)

// Watch URLs carrying a playlist reference point at a list, not a single
// queueable video. Go's regexp has no lookahead, so this is checked
// separately rather than inside youtubeURLRegex.
var playlistParamRegex = regexp.MustCompile(`[?&]list=`)

// ExtractVideoID validates a submitted URL against the canonical YouTube
// grammar and returns the 11-character video id. Anything else, including
// partial matches like wrong-length ids, is rejected with ErrInvalidURL.
func ExtractVideoID(rawURL string) (string, error) {
	matches := youtubeURLRegex.FindStringSubmatch(rawURL)
	if matches == nil {
		return "", ErrInvalidURL
	}

	if strings.Contains(rawURL, "watch?") && playlistParamRegex.MatchString(rawURL) {
		return "", ErrInvalidURL
	}

	return matches[1], nil
}
