package remote

import (
	"context"

	jsoniter "github.com/json-iterator/go"

	"github.com/moatazsakr78/heawabas-main-sub000/internal/cache"
	"github.com/moatazsakr78/heawabas-main-sub000/internal/domain"
	"github.com/moatazsakr78/heawabas-main-sub000/internal/reconciler"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Dataset names synchronized as a unit.
const (
	DatasetProducts   = "products"
	DatasetCategories = "categories"
	DatasetSettings   = "settings"
)

// ProductsAdapter binds the products dataset to the remote store.
type ProductsAdapter struct {
	c *Client
}

func NewProductsAdapter(c *Client) *ProductsAdapter {
	return &ProductsAdapter{c: c}
}

func (a *ProductsAdapter) Dataset() string  { return DatasetProducts }
func (a *ProductsAdapter) CacheKey() string { return cache.KeyProducts }

func (a *ProductsAdapter) FetchAll(ctx context.Context) ([]reconciler.SyncRecord, error) {
	rows, err := a.c.FetchProductRows(ctx)
	if err != nil {
		return nil, err
	}
	recs := make([]reconciler.SyncRecord, 0, len(rows))
	for _, row := range rows {
		p := ProductFromRow(row)
		rec, err := reconciler.NewSyncRecord(&p)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func (a *ProductsAdapter) UpsertMany(ctx context.Context, recs []reconciler.SyncRecord) error {
	rows := make([]domain.ProductRow, 0, len(recs))
	for _, rec := range recs {
		var p domain.Product
		if err := json.Unmarshal(rec.Data, &p); err != nil {
			return err
		}
		rows = append(rows, ProductToRow(p))
	}
	return a.c.UpsertProductRows(ctx, rows)
}

func (a *ProductsAdapter) DeleteWhere(ctx context.Context, ids []string) error {
	return a.c.DeleteProductsWhere(ctx, ids)
}

// CategoriesAdapter binds the categories dataset to the remote store.
type CategoriesAdapter struct {
	c *Client
}

func NewCategoriesAdapter(c *Client) *CategoriesAdapter {
	return &CategoriesAdapter{c: c}
}

func (a *CategoriesAdapter) Dataset() string  { return DatasetCategories }
func (a *CategoriesAdapter) CacheKey() string { return cache.KeyCategories }

func (a *CategoriesAdapter) FetchAll(ctx context.Context) ([]reconciler.SyncRecord, error) {
	rows, err := a.c.FetchCategoryRows(ctx)
	if err != nil {
		return nil, err
	}
	recs := make([]reconciler.SyncRecord, 0, len(rows))
	for _, row := range rows {
		c := CategoryFromRow(row)
		rec, err := reconciler.NewSyncRecord(&c)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func (a *CategoriesAdapter) UpsertMany(ctx context.Context, recs []reconciler.SyncRecord) error {
	rows := make([]domain.CategoryRow, 0, len(recs))
	for _, rec := range recs {
		var c domain.Category
		if err := json.Unmarshal(rec.Data, &c); err != nil {
			return err
		}
		rows = append(rows, CategoryToRow(c))
	}
	return a.c.UpsertCategoryRows(ctx, rows)
}

func (a *CategoriesAdapter) DeleteWhere(ctx context.Context, ids []string) error {
	return a.c.DeleteCategoriesWhere(ctx, ids)
}

// SettingsAdapter binds the single-record settings dataset.
type SettingsAdapter struct {
	c *Client
}

func NewSettingsAdapter(c *Client) *SettingsAdapter {
	return &SettingsAdapter{c: c}
}

func (a *SettingsAdapter) Dataset() string  { return DatasetSettings }
func (a *SettingsAdapter) CacheKey() string { return cache.KeySettings }

func (a *SettingsAdapter) FetchAll(ctx context.Context) ([]reconciler.SyncRecord, error) {
	rows, err := a.c.FetchSettingsRows(ctx)
	if err != nil {
		return nil, err
	}
	recs := make([]reconciler.SyncRecord, 0, len(rows))
	for _, row := range rows {
		s := SettingsFromRow(row)
		rec, err := reconciler.NewSyncRecord(&s)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func (a *SettingsAdapter) UpsertMany(ctx context.Context, recs []reconciler.SyncRecord) error {
	rows := make([]domain.AppSettingsRow, 0, len(recs))
	for _, rec := range recs {
		var s domain.Settings
		if err := json.Unmarshal(rec.Data, &s); err != nil {
			return err
		}
		rows = append(rows, SettingsToRow(s))
	}
	return a.c.UpsertSettingsRows(ctx, rows)
}

func (a *SettingsAdapter) DeleteWhere(ctx context.Context, ids []string) error {
	return a.c.DeleteSettingsWhere(ctx, ids)
}
