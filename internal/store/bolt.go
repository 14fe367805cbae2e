package store

import (
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

const boltBucket = "session"

// Bolt is a Backend stored in a single bucket of a BBolt database.
type Bolt struct {
	db *bbolt.DB
}

var _ Backend = (*Bolt)(nil)

// NewBolt returns a Backend using the given BBolt database.
func NewBolt(db *bbolt.DB) *Bolt {
	return &Bolt{db: db}
}

// OpenBolt opens (or creates) a BBolt database at path. The file lock is
// waited on for at most one second so a second running client fails fast
// instead of hanging.
func OpenBolt(path string) (*Bolt, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening bbolt db: %w", err)
	}
	return NewBolt(db), nil
}

// Close closes the underlying BBolt database.
func (b *Bolt) Close() error {
	return b.db.Close()
}

func (b *Bolt) Read(key string) (string, error) {
	var value string
	err := b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(boltBucket))
		if bucket == nil {
			return ErrNotFound
		}
		data := bucket.Get([]byte(key))
		if data == nil {
			return ErrNotFound
		}
		// data is only valid inside the transaction; string() copies it.
		value = string(data)
		return nil
	})
	if err != nil {
		return "", err
	}
	return value, nil
}

func (b *Bolt) Write(key, value string) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists([]byte(boltBucket))
		if err != nil {
			return fmt.Errorf("creating %s bucket: %w", boltBucket, err)
		}
		return bucket.Put([]byte(key), []byte(value))
	})
}

func (b *Bolt) Remove(key string) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(boltBucket))
		if bucket == nil {
			return nil
		}
		return bucket.Delete([]byte(key))
	})
}
