package cache

import (
	"time"

	bolt "go.etcd.io/bbolt"
)

var datasetBucket = []byte("datasets")

// BoltTier is the durable tier. Failures here are swallowed by Chain; the
// tier only has to survive restarts, not carry the write path.
type BoltTier struct {
	db *bolt.DB
}

func NewBoltTier(path string) (*BoltTier, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 3 * time.Second})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(datasetBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &BoltTier{db: db}, nil
}

func (t *BoltTier) Name() string { return "bolt" }

func (t *BoltTier) Get(key string) ([]byte, bool, error) {
	var out []byte
	err := t.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(datasetBucket).Get([]byte(key))
		if v != nil {
			out = make([]byte, len(v))
			copy(out, v)
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return out, out != nil, nil
}

func (t *BoltTier) Put(key string, value []byte) error {
	return t.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(datasetBucket).Put([]byte(key), value)
	})
}

func (t *BoltTier) Remove(key string) error {
	return t.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(datasetBucket).Delete([]byte(key))
	})
}

func (t *BoltTier) Has(key string) (bool, error) {
	_, ok, err := t.Get(key)
	return ok, err
}

func (t *BoltTier) Close() error {
	return t.db.Close()
}
