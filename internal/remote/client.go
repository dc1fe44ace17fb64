package remote

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/moatazsakr78/heawabas-main-sub000/internal/domain"
)

// Client wraps the remote datastore. Every call is bounded by a fixed
// timeout; exceeding it surfaces as a connection-class error upstream.
type Client struct {
	db      *gorm.DB
	timeout time.Duration
}

func NewClient(db *gorm.DB, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{db: db, timeout: timeout}
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, c.timeout)
}

// DB exposes the underlying handle for system tables (op log).
func (c *Client) DB() *gorm.DB {
	return c.db
}

func (c *Client) FetchProductRows(ctx context.Context) ([]domain.ProductRow, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	var rows []domain.ProductRow
	err := c.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error
	return rows, errors.Wrap(err, "remote: fetch products")
}

func (c *Client) UpsertProductRows(ctx context.Context, rows []domain.ProductRow) error {
	if len(rows) == 0 {
		return nil
	}
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	err := c.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&rows).Error
	return errors.Wrap(err, "remote: upsert products")
}

func (c *Client) DeleteProductsWhere(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	err := c.db.WithContext(ctx).Where("id IN ?", ids).Delete(&domain.ProductRow{}).Error
	return errors.Wrap(err, "remote: delete products")
}

func (c *Client) DeleteAllProducts(ctx context.Context) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	err := c.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&domain.ProductRow{}).Error
	return errors.Wrap(err, "remote: delete all products")
}

func (c *Client) FetchCategoryRows(ctx context.Context) ([]domain.CategoryRow, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	var rows []domain.CategoryRow
	err := c.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error
	return rows, errors.Wrap(err, "remote: fetch categories")
}

func (c *Client) UpsertCategoryRows(ctx context.Context, rows []domain.CategoryRow) error {
	if len(rows) == 0 {
		return nil
	}
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	err := c.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&rows).Error
	return errors.Wrap(err, "remote: upsert categories")
}

func (c *Client) DeleteCategoriesWhere(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	err := c.db.WithContext(ctx).Where("id IN ?", ids).Delete(&domain.CategoryRow{}).Error
	return errors.Wrap(err, "remote: delete categories")
}

func (c *Client) DeleteAllCategories(ctx context.Context) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	err := c.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&domain.CategoryRow{}).Error
	return errors.Wrap(err, "remote: delete all categories")
}

func (c *Client) FetchSettingsRows(ctx context.Context) ([]domain.AppSettingsRow, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	var rows []domain.AppSettingsRow
	err := c.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error
	return rows, errors.Wrap(err, "remote: fetch settings")
}

func (c *Client) UpsertSettingsRows(ctx context.Context, rows []domain.AppSettingsRow) error {
	if len(rows) == 0 {
		return nil
	}
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	err := c.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&rows).Error
	return errors.Wrap(err, "remote: upsert settings")
}

func (c *Client) DeleteSettingsWhere(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	err := c.db.WithContext(ctx).Where("id IN ?", ids).Delete(&domain.AppSettingsRow{}).Error
	return errors.Wrap(err, "remote: delete settings")
}
