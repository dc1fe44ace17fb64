package domain

import "time"

// Tombstone records that a catalog record was deleted, so deletes propagate
// correctly when local and remote sets are merged instead of being
// resurrected by a concurrent push.
type Tombstone struct {
	Dataset   string    `json:"dataset"`
	RecordID  string    `json:"recordId"`
	DeletedAt time.Time `json:"deletedAt"`
}

// TombstoneRow is the remote store row shape for the catalog_tombstones table.
type TombstoneRow struct {
	Dataset   string    `gorm:"primaryKey;size:32" json:"dataset"`
	RecordID  string    `gorm:"primaryKey;column:record_id;size:64" json:"record_id"`
	DeletedAt time.Time `gorm:"index" json:"deleted_at"`
}

// TableName Specify table name
func (TombstoneRow) TableName() string {
	return "catalog_tombstones"
}
