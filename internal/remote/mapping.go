package remote

import (
	"strconv"
	"strings"

	"github.com/spf13/cast"

	"github.com/moatazsakr78/heawabas-main-sub000/internal/domain"
)

// ProductFromRow maps the snake_case remote row onto the application record.
// Numeric text from the remote layer is always normalized to numbers, with
// non-numeric values defaulting to zero; is_new coerces truthy to true.
func ProductFromRow(row domain.ProductRow) domain.Product {
	return domain.Product{
		ID:          row.ID,
		Name:        row.Name,
		ProductCode: row.ProductCode,
		BoxQuantity: row.BoxQuantity,
		PiecePrice:  cast.ToFloat64(strings.TrimSpace(row.PiecePrice)),
		ImageURL:    row.ImageURL,
		IsNew:       row.IsNew != nil && *row.IsNew,
		CategoryID:  row.CategoryID,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

func ProductToRow(p domain.Product) domain.ProductRow {
	isNew := p.IsNew
	return domain.ProductRow{
		ID:          p.ID,
		Name:        p.Name,
		ProductCode: p.ProductCode,
		BoxQuantity: p.BoxQuantity,
		// full precision on the wire; the numeric column owns the scale
		PiecePrice: strconv.FormatFloat(p.PiecePrice, 'f', -1, 64),
		ImageURL:   p.ImageURL,
		IsNew:      &isNew,
		CategoryID: p.CategoryID,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

// CategoryFromRow recomputes the slug when the remote column is empty; a
// stored slug is kept as-is but must always match a recomputation from name.
func CategoryFromRow(row domain.CategoryRow) domain.Category {
	slug := row.Slug
	if slug == "" {
		slug = domain.Slugify(row.Name)
	}
	return domain.Category{
		ID:          row.ID,
		Name:        row.Name,
		Slug:        slug,
		Image:       row.Image,
		Description: row.Description,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

func CategoryToRow(c domain.Category) domain.CategoryRow {
	return domain.CategoryRow{
		ID:          c.ID,
		Name:        c.Name,
		Slug:        domain.Slugify(c.Name),
		Image:       c.Image,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func SettingsFromRow(row domain.AppSettingsRow) domain.Settings {
	days := row.NewProductDays
	if days < 1 {
		days = domain.DefaultSettings().NewProductDays
	}
	return domain.Settings{
		ID:             row.ID,
		NewProductDays: days,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}
}

func SettingsToRow(s domain.Settings) domain.AppSettingsRow {
	id := s.ID
	if id == "" {
		id = domain.SettingsID
	}
	return domain.AppSettingsRow{
		ID:             id,
		NewProductDays: s.NewProductDays,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}
