package docstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/tidwall/buntdb"
)

// BuntStore keeps documents in an embedded buntdb file (or ":memory:").
type BuntStore struct {
	db *buntdb.DB
}

func NewBuntStore(path string) (*BuntStore, error) {
	if path == "" {
		path = ":memory:"
	}
	db, err := buntdb.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open buntdb %q: %w", path, err)
	}
	return &BuntStore{db: db}, nil
}

// Get implements Store.
func (s *BuntStore) Get(_ context.Context, path string, dst interface{}) error {
	var raw string
	err := s.db.View(func(tx *buntdb.Tx) error {
		v, err := tx.Get(path)
		if err != nil {
			return err
		}
		raw = v
		return nil
	})
	if errors.Is(err, buntdb.ErrNotFound) {
		return ErrNotFound
	} else if err != nil {
		return fmt.Errorf("buntdb get %q: %w", path, err)
	}
	return decode([]byte(raw), dst)
}

// Set implements Store.
func (s *BuntStore) Set(_ context.Context, path string, value interface{}) error {
	data, err := encode(value)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *buntdb.Tx) error {
		_, _, err := tx.Set(path, string(data), nil)
		return err
	})
}

// Update implements Store. The read and write share one buntdb transaction.
func (s *BuntStore) Update(_ context.Context, path string, patch map[string]interface{}) error {
	return s.db.Update(func(tx *buntdb.Tx) error {
		current, err := tx.Get(path)
		if err != nil && !errors.Is(err, buntdb.ErrNotFound) {
			return err
		}
		merged, err := mergePatch([]byte(current), patch)
		if err != nil {
			return err
		}
		_, _, err = tx.Set(path, string(merged), nil)
		return err
	})
}

func (s *BuntStore) Close() error {
	return s.db.Close()
}
