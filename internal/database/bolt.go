// Package database provides the key/value store behind GitHub snapshots.
package database

import (
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

// BoltKVStore is a single-bucket key/value store on bbolt.
type BoltKVStore struct {
	db         *bbolt.DB
	bucketName []byte
}

// NewBoltKVStore opens (or creates) the file at dbPath with the given bucket.
func NewBoltKVStore(dbPath string, bucketName string) (*BoltKVStore, error) {
	// A second process holding the file would otherwise block forever.
	db, err := bbolt.Open(dbPath, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("database: opening %s: %w", dbPath, err)
	}

	if err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("database: creating bucket %s: %w", bucketName, err)
	}

	return &BoltKVStore{
		db:         db,
		bucketName: []byte(bucketName),
	}, nil
}

// ReadKey returns a copy of the value stored under key, or nil if absent.
func (s *BoltKVStore) ReadKey(key []byte) ([]byte, error) {
	var data []byte
	if err := s.db.View(func(tx *bbolt.Tx) error {
		// Values are only valid inside the transaction.
		if v := tx.Bucket(s.bucketName).Get(key); v != nil {
			data = append([]byte(nil), v...)
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("database: reading key: %w", err)
	}

	return data, nil
}

// UpdateKey stores data under key.
func (s *BoltKVStore) UpdateKey(key []byte, data []byte) error {
	if err := s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(s.bucketName).Put(key, data)
	}); err != nil {
		return fmt.Errorf("database: writing key: %w", err)
	}

	return nil
}

// Close closes the database file.
func (s *BoltKVStore) Close() error {
	return s.db.Close()
}
