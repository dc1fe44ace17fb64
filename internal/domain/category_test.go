package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugifyWhitespaceInsensitive(t *testing.T) {
	assert.Equal(t, Slugify("حجات خشب"), Slugify(" حجات   خشب "))
	assert.Equal(t, "حجات-خشب", Slugify("حجات خشب"))
}

func TestSlugifyIdempotent(t *testing.T) {
	cases := []string{"حجات خشب", "Wooden Things", "  mixed  حجات 123 ", "a!b@c#d"}
	for _, name := range cases {
		once := Slugify(name)
		assert.Equal(t, once, Slugify(once), "slug must be stable under re-application: %q", name)
	}
}

func TestSlugifyStripsPunctuation(t *testing.T) {
	assert.Equal(t, "abc-def", Slugify("Ab.c   d(e)f"))
	assert.Equal(t, "12-34", Slugify("1,2 3.4"))
}

func TestSlugifyEmpty(t *testing.T) {
	assert.Equal(t, "", Slugify("   "))
}
