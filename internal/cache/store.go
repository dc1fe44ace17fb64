package cache

import (
	jsoniter "github.com/json-iterator/go"
)

// Persisted keys. Every write is a full overwrite of the dataset's value;
// there is no key versioning and no TTL.
const (
	KeyProducts   = "products"
	KeyCategories = "categories"
	KeySettings   = "productSettings"

	KeyLastSyncTimestamp      = "lastSyncTimestamp"
	KeyLastSyncCategoriesTime = "lastSyncCategoriesTime"

	keyEverSyncedPrefix = "everSynced:"
	keyTombstonesPrefix = "tombstones:"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Store wraps a tier chain with a JSON codec. It is the only cache surface
// the rest of the service talks to.
type Store struct {
	tier Tier
}

func NewStore(tier Tier) *Store {
	return &Store{tier: tier}
}

// PutRaw stores an already-serialized value.
func (s *Store) PutRaw(key string, value []byte) error {
	return s.tier.Put(key, value)
}

// GetRaw returns the serialized value, or absent.
func (s *Store) GetRaw(key string) ([]byte, bool, error) {
	return s.tier.Get(key)
}

func (s *Store) PutJSON(key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.tier.Put(key, data)
}

// GetJSON decodes the stored value into out; ok reports whether the key was
// present at all.
func (s *Store) GetJSON(key string, out interface{}) (bool, error) {
	data, ok, err := s.tier.Get(key)
	if err != nil || !ok {
		return false, err
	}
	return true, json.Unmarshal(data, out)
}

func (s *Store) Remove(key string) error {
	return s.tier.Remove(key)
}

func (s *Store) Has(key string) (bool, error) {
	return s.tier.Has(key)
}

// EverSyncedKey marks that a dataset completed at least one successful
// reconciliation. It disambiguates "remote is legitimately empty" from
// "remote was never bootstrapped".
func EverSyncedKey(dataset string) string {
	return keyEverSyncedPrefix + dataset
}

// TombstonesKey holds the not-yet-pushed local tombstones for a dataset.
func TombstonesKey(dataset string) string {
	return keyTombstonesPrefix + dataset
}
