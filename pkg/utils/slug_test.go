package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Netflix", "netflix"},
		{"Disney+ Hotstar", "disney-hotstar"},
		{"  --My   Gym!!  ", "my-gym"},
		{"Adobe_Creative Cloud 2026", "adobe-creative-cloud-2026"},
		{"Café Crème", "caf-cr-me"},
		{"***", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := Slugify(tt.in)
			assert.Equal(t, tt.want, got)
			if got != "" {
				assert.True(t, IsSlug(got))
			}
		})
	}
}

func TestUniqueSlug(t *testing.T) {
	now := time.UnixMilli(1767225600123)

	assert.Equal(t, "local-gym-1767225600123", UniqueSlug("Local Gym", now))
	assert.Equal(t, "product-1767225600123", UniqueSlug("!!!", now))
	assert.NotEqual(t, UniqueSlug("Local Gym", now), UniqueSlug("Local Gym", now.Add(time.Millisecond)))
}

func TestIsSlug(t *testing.T) {
	assert.True(t, IsSlug("video-streaming"))
	assert.False(t, IsSlug("Video"))
	assert.False(t, IsSlug("with space"))
	assert.False(t, IsSlug(""))
}
