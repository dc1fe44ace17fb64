package remote

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/moatazsakr78/heawabas-main-sub000/internal/domain"
)

func TestProductFromRowCoercesPrice(t *testing.T) {
	cases := []struct {
		raw  string
		want float64
	}{
		{"12.50", 12.5},
		{" 7 ", 7},
		{"", 0},
		{"abc", 0},
		{"12,50", 0},
	}
	for _, tc := range cases {
		p := ProductFromRow(domain.ProductRow{ID: "p1", Name: "x", PiecePrice: tc.raw})
		assert.Equal(t, tc.want, p.PiecePrice, "raw price %q", tc.raw)
	}
}

func TestProductFromRowCoercesIsNew(t *testing.T) {
	yes := true
	no := false

	assert.False(t, ProductFromRow(domain.ProductRow{}).IsNew, "nil is_new reads as false")
	assert.False(t, ProductFromRow(domain.ProductRow{IsNew: &no}).IsNew)
	assert.True(t, ProductFromRow(domain.ProductRow{IsNew: &yes}).IsNew)
}

func TestProductRoundTripKeepsValues(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	p := domain.Product{
		ID:          "p1",
		Name:        "شاي أخضر",
		ProductCode: "TEA-01",
		BoxQuantity: 12,
		PiecePrice:  3.75,
		IsNew:       true,
		CategoryID:  "c1",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	row := ProductToRow(p)
	assert.Equal(t, "3.75", row.PiecePrice, "price travels as numeric text")
	assert.Equal(t, p, ProductFromRow(row))
}

func TestProductToRowKeepsFullPricePrecision(t *testing.T) {
	// sub-cent prices travel unrounded; scale is the numeric column's job
	row := ProductToRow(domain.Product{ID: "p1", Name: "x", PiecePrice: 3.755})
	assert.Equal(t, "3.755", row.PiecePrice)

	row = ProductToRow(domain.Product{ID: "p1", Name: "x", PiecePrice: 7})
	assert.Equal(t, "7", row.PiecePrice)
}

func TestCategoryFromRowRecomputesEmptySlug(t *testing.T) {
	c := CategoryFromRow(domain.CategoryRow{ID: "c1", Name: "Hot Drinks"})
	assert.Equal(t, domain.Slugify("Hot Drinks"), c.Slug)

	// a stored slug is trusted on read
	c = CategoryFromRow(domain.CategoryRow{ID: "c1", Name: "Hot Drinks", Slug: "legacy-slug"})
	assert.Equal(t, "legacy-slug", c.Slug)
}

func TestCategoryToRowAlwaysDerivesSlugFromName(t *testing.T) {
	row := CategoryToRow(domain.Category{ID: "c1", Name: "Hot  Drinks", Slug: "stale"})
	assert.Equal(t, domain.Slugify("Hot  Drinks"), row.Slug)
}

func TestSettingsFromRowDefaultsBadWindow(t *testing.T) {
	def := domain.DefaultSettings().NewProductDays

	assert.Equal(t, def, SettingsFromRow(domain.AppSettingsRow{NewProductDays: 0}).NewProductDays)
	assert.Equal(t, def, SettingsFromRow(domain.AppSettingsRow{NewProductDays: -3}).NewProductDays)
	assert.Equal(t, 21, SettingsFromRow(domain.AppSettingsRow{NewProductDays: 21}).NewProductDays)
}

func TestSettingsToRowFillsSingletonID(t *testing.T) {
	row := SettingsToRow(domain.Settings{NewProductDays: 14})
	assert.Equal(t, domain.SettingsID, row.ID)
}
