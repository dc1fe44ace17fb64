package remote

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm/clause"

	"github.com/moatazsakr78/heawabas-main-sub000/internal/domain"
)

// TombstoneStore persists delete markers in the catalog_tombstones table so
// deletes propagate through merges instead of being resurrected.
type TombstoneStore struct {
	c *Client
}

func NewTombstoneStore(c *Client) *TombstoneStore {
	return &TombstoneStore{c: c}
}

func (s *TombstoneStore) List(ctx context.Context, dataset string) ([]domain.Tombstone, error) {
	ctx, cancel := s.c.withTimeout(ctx)
	defer cancel()
	var rows []domain.TombstoneRow
	err := s.c.db.WithContext(ctx).Where("dataset = ?", dataset).Find(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "remote: list tombstones")
	}
	stones := make([]domain.Tombstone, 0, len(rows))
	for _, row := range rows {
		stones = append(stones, domain.Tombstone{
			Dataset:   row.Dataset,
			RecordID:  row.RecordID,
			DeletedAt: row.DeletedAt,
		})
	}
	return stones, nil
}

func (s *TombstoneStore) Add(ctx context.Context, stones []domain.Tombstone) error {
	if len(stones) == 0 {
		return nil
	}
	ctx, cancel := s.c.withTimeout(ctx)
	defer cancel()
	rows := make([]domain.TombstoneRow, 0, len(stones))
	for _, st := range stones {
		rows = append(rows, domain.TombstoneRow{
			Dataset:   st.Dataset,
			RecordID:  st.RecordID,
			DeletedAt: st.DeletedAt,
		})
	}
	err := s.c.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
	return errors.Wrap(err, "remote: add tombstones")
}

func (s *TombstoneStore) Prune(ctx context.Context, before time.Time) error {
	ctx, cancel := s.c.withTimeout(ctx)
	defer cancel()
	err := s.c.db.WithContext(ctx).
		Where("deleted_at < ?", before).
		Delete(&domain.TombstoneRow{}).Error
	return errors.Wrap(err, "remote: prune tombstones")
}
