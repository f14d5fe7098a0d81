package attachmentlogs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategorizeFile(t *testing.T) {
	tests := []struct {
		filename string
		want     FileCategory
	}{
		{"photo.PNG", CategoryImage},
		{"clip.mp4", CategoryVideo},
		{"song.flac", CategoryAudio},
		{"report.pdf", CategoryDocument},
		{"backup.tar", CategoryArchive},
		{"main.go", CategoryCode},
		{"mystery.xyz", CategoryOther},
		{"noextension", CategoryOther},
		{"SPOILER_image.jpg", CategoryImage},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.want, CategorizeFile(tt.filename))
		})
	}
}

func TestIsSpoiler(t *testing.T) {
	assert.True(t, isSpoiler("SPOILER_secret.png"))
	assert.False(t, isSpoiler("secret.png"))
}
