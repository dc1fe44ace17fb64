package adminapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHostAllowed(t *testing.T) {
	allowed := []string{"cdn.example.com", "bucket.storage.example.net"}

	assert.True(t, hostAllowed("cdn.example.com", allowed))
	assert.True(t, hostAllowed("CDN.Example.COM", allowed), "host matching is case-insensitive")
	assert.False(t, hostAllowed("evil.example.com", allowed))
	assert.False(t, hostAllowed("cdn.example.com.evil.com", allowed))
	assert.False(t, hostAllowed("cdn.example.com", nil))
}

func TestSanitizeBucketPath(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"   ", ""},
		{"/covers/", "covers"},
		{"covers/2024", "covers/2024"},
		{"../../etc/passwd", "etc/passwd"},
		{"covers/../secrets", "covers/secrets"},
		{"covers//thumbs", "covers/thumbs"},
		{"./covers/.", "covers"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, sanitizeBucketPath(tc.in), "input %q", tc.in)
	}
}

func TestExtensionFor(t *testing.T) {
	assert.Equal(t, ".jpg", extensionFor("image/jpeg"))
	assert.Equal(t, ".png", extensionFor("image/png"))
	assert.Equal(t, ".webp", extensionFor("image/webp"))
	assert.Equal(t, ".img", extensionFor("image/x-unknown"))
}
