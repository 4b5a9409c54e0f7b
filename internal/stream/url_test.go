package stream

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractVideoID_AcceptedForms(t *testing.T) {
	cases := []struct {
		name string
		url  string
	}{
		{"standard watch URL", "https://www.youtube.com/watch?v=dQw4w9WgXcQ"},
		{"watch URL without www", "https://youtube.com/watch?v=dQw4w9WgXcQ"},
		{"watch URL without scheme", "www.youtube.com/watch?v=dQw4w9WgXcQ"},
		{"mobile subdomain", "https://m.youtube.com/watch?v=dQw4w9WgXcQ"},
		{"http scheme", "http://www.youtube.com/watch?v=dQw4w9WgXcQ"},
		{"short link", "https://youtu.be/dQw4w9WgXcQ"},
		{"short link with timestamp", "https://youtu.be/dQw4w9WgXcQ?t=5"},
		{"embed URL", "https://www.youtube.com/embed/dQw4w9WgXcQ"},
		{"v path", "https://www.youtube.com/v/dQw4w9WgXcQ"},
		{"watch with leading params", "https://www.youtube.com/watch?feature=shared&v=dQw4w9WgXcQ"},
		{"watch with trailing params", "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			id, err := ExtractVideoID(tc.url)

			assert.NoError(t, err)
			assert.Equal(t, "dQw4w9WgXcQ", id)
			assert.Len(t, id, 11)
		})
	}
}

func TestExtractVideoID_Rejected(t *testing.T) {
	cases := []struct {
		name string
		url  string
	}{
		{"empty string", ""},
		{"not a video site", "https://example.com/video"},
		{"vimeo", "https://vimeo.com/123456789"},
		{"id too short", "https://www.youtube.com/watch?v=dQw4w9WgXc"},
		{"id too long", "https://www.youtube.com/watch?v=dQw4w9WgXcQQ"},
		{"missing id", "https://www.youtube.com/watch?v="},
		{"invalid id characters", "https://www.youtube.com/watch?v=dQw4w9WgX!Q"},
		{"channel URL", "https://www.youtube.com/@somechannel"},
		{"playlist watch URL", "https://www.youtube.com/watch?v=dQw4w9WgXcQ&list=PLabcdef1234"},
		{"playlist param before id", "https://www.youtube.com/watch?list=PLabcdef1234&v=dQw4w9WgXcQ"},
		{"bare domain", "https://www.youtube.com"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			id, err := ExtractVideoID(tc.url)

			assert.ErrorIs(t, err, ErrInvalidURL)
			assert.Empty(t, id)
		})
	}
}

func TestExtractVideoID_ShortLinkIgnoresPlaylistParam(t *testing.T) {
	// The playlist exclusion applies to watch URLs only; a short link that
	// happens to carry list= still names a single video.
	id, err := ExtractVideoID("https://youtu.be/dQw4w9WgXcQ?list=PLabcdef1234")

	assert.NoError(t, err)
	assert.Equal(t, "dQw4w9WgXcQ", id)
}
