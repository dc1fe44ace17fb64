package reconciler

import (
	"context"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/moatazsakr78/heawabas-main-sub000/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// SyncRecord is the dataset-neutral view of one catalog record. Data holds
// the full application-shape JSON object; ID and UpdatedAt are lifted out so
// the engine can merge without knowing the record type.
type SyncRecord struct {
	ID        string
	UpdatedAt time.Time
	Data      jsoniter.RawMessage
}

// recordHeader extracts the merge-relevant fields from a raw record.
type recordHeader struct {
	ID        string    `json:"id"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewSyncRecord wraps an application record for the engine. rec must
// serialize to an object carrying "id" and "updatedAt".
func NewSyncRecord(rec interface{}) (SyncRecord, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return SyncRecord{}, err
	}
	var hdr recordHeader
	if err := json.Unmarshal(data, &hdr); err != nil {
		return SyncRecord{}, err
	}
	return SyncRecord{ID: hdr.ID, UpdatedAt: hdr.UpdatedAt, Data: data}, nil
}

// DecodeRecords parses a cached dataset value (a JSON array of records)
// back into sync records.
func DecodeRecords(raw []byte) ([]SyncRecord, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var items []jsoniter.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	recs := make([]SyncRecord, 0, len(items))
	for _, item := range items {
		var hdr recordHeader
		if err := json.Unmarshal(item, &hdr); err != nil {
			return nil, err
		}
		recs = append(recs, SyncRecord{ID: hdr.ID, UpdatedAt: hdr.UpdatedAt, Data: item})
	}
	return recs, nil
}

// EncodeRecords renders sync records as the cached dataset value. The cache
// holds plain application-shape arrays, not engine wrappers.
func EncodeRecords(recs []SyncRecord) ([]byte, error) {
	items := make([]jsoniter.RawMessage, 0, len(recs))
	for _, rec := range recs {
		items = append(items, rec.Data)
	}
	return json.Marshal(items)
}

// Adapter binds one dataset to the remote store. Implementations live in the
// remote package; the engine stays dataset-agnostic.
type Adapter interface {
	Dataset() string
	CacheKey() string
	FetchAll(ctx context.Context) ([]SyncRecord, error)
	UpsertMany(ctx context.Context, recs []SyncRecord) error
	DeleteWhere(ctx context.Context, ids []string) error
}

// TombstoneStore persists delete markers in the remote store.
type TombstoneStore interface {
	List(ctx context.Context, dataset string) ([]domain.Tombstone, error)
	Add(ctx context.Context, stones []domain.Tombstone) error
	Prune(ctx context.Context, before time.Time) error
}

// Oracle is the connectivity answer the engine consults before going remote.
type Oracle interface {
	IsOnline() bool
}
