package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Category groups products; products reference it by id only.
type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Image       string    `json:"image"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (c *Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("category name is required")
	}
	return nil
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// Slugify derives the category slug from its name: trim, collapse whitespace
// runs to a single hyphen, strip everything that is not a letter, digit or
// hyphen, then lowercase. Names are NFC-normalized first so Arabic input
// slugs consistently. The result is stable under repeated application and
// never the source of truth; the remote slug column must always match a
// recomputation from name.
func Slugify(name string) string {
	s := norm.NFC.String(strings.TrimSpace(name))
	s = whitespaceRun.ReplaceAllString(s, "-")
	var b strings.Builder
	for _, r := range s {
		if r == '-' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return strings.ToLower(b.String())
}

// CategoryRow is the remote store row shape for the categories table.
type CategoryRow struct {
	ID          string    `gorm:"primaryKey;size:64" json:"id"`
	Name        string    `gorm:"index" json:"name"`
	Slug        string    `gorm:"index;size:255" json:"slug"`
	Image       string    `gorm:"size:1024" json:"image"`
	Description string    `json:"description"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName Specify table name
func (CategoryRow) TableName() string {
	return "categories"
}
