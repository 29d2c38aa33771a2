// Package boltstore implements cinder.SharedObjectStore on top of
// go.etcd.io/bbolt, grounded on SentryShot's pkg/log/db.go (bolt.Open
// with a Timeout option, CreateBucketIfNotExists inside db.Update,
// Put/Get/Delete wrapped in db.Update/db.View closures).
package boltstore

import (
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Store is a bbolt-backed cinder.SharedObjectStore: one bucket per
// origin (the loading movie's domain/path), one key per shared-object
// name within that bucket.
type Store struct {
	db *bolt.DB
}

// Open opens (creating if necessary) a bbolt database at path.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("boltstore: could not open database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Load returns the bytes stored for (origin, name), or nil if absent.
func (s *Store) Load(origin, name string) ([]byte, error) {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(origin))
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(name)); v != nil {
			data = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("boltstore: load %s/%s: %w", origin, name, err)
	}
	return data, nil
}

// Save writes data under (origin, name), creating origin's bucket if needed.
func (s *Store) Save(origin, name string, data []byte) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(origin))
		if err != nil {
			return err
		}
		return b.Put([]byte(name), data)
	})
	if err != nil {
		return fmt.Errorf("boltstore: save %s/%s: %w", origin, name, err)
	}
	return nil
}

// Delete removes (origin, name). It is not an error if the key or
// bucket is already absent.
func (s *Store) Delete(origin, name string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(origin))
		if b == nil {
			return nil
		}
		return b.Delete([]byte(name))
	})
	if err != nil {
		return fmt.Errorf("boltstore: delete %s/%s: %w", origin, name, err)
	}
	return nil
}
