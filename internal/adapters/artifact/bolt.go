// Package artifact persists trained model artifacts. The bbolt-backed store
// is the production implementation; the in-memory store serves tests.
package artifact

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/mindora/acumen/internal/registry"
)

var (
	bucketActive = []byte("active")

	openTimeout = 5 * time.Second
)

// BoltStore implements registry.Store on a single bbolt file. Each role gets
// its own bucket keyed by trained-at timestamp plus artifact id, so history
// iterates oldest first; the active bucket maps role -> current key. Save
// writes artifact and active pointer in one transaction, keeping the swap
// all-or-nothing.
type BoltStore struct {
	db *bbolt.DB
}

// NewBoltStore opens (creating if needed) the artifact database at path.
func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: openTimeout})
	if err != nil {
		return nil, fmt.Errorf("open artifact db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketActive); err != nil {
			return err
		}
		for _, role := range registry.Roles() {
			if _, err := tx.CreateBucketIfNotExists(roleBucket(role)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init artifact db: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// Close closes the underlying database.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

// Save persists artifact and marks it active for its role.
func (s *BoltStore) Save(_ context.Context, a *registry.Artifact) (string, error) {
	data, err := json.Marshal(a)
	if err != nil {
		return "", fmt.Errorf("encode artifact: %w", err)
	}
	key := artifactKey(a)

	err = s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket(roleBucket(a.Role)).Put(key, data); err != nil {
			return err
		}
		return tx.Bucket(bucketActive).Put([]byte(a.Role), key)
	})
	if err != nil {
		return "", fmt.Errorf("save artifact %s: %w", a.ID, err)
	}
	return a.ID, nil
}

// Load returns the active artifact for role.
func (s *BoltStore) Load(_ context.Context, role registry.Role) (*registry.Artifact, error) {
	var out *registry.Artifact
	err := s.db.View(func(tx *bbolt.Tx) error {
		key := tx.Bucket(bucketActive).Get([]byte(role))
		if key == nil {
			return registry.ErrArtifactNotFound
		}
		data := tx.Bucket(roleBucket(role)).Get(key)
		if data == nil {
			return registry.ErrArtifactNotFound
		}
		var a registry.Artifact
		if err := json.Unmarshal(data, &a); err != nil {
			return fmt.Errorf("decode artifact: %w", err)
		}
		out = &a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// History returns every persisted artifact for role, oldest first.
func (s *BoltStore) History(_ context.Context, role registry.Role) ([]*registry.Artifact, error) {
	var out []*registry.Artifact
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(roleBucket(role)).ForEach(func(_, data []byte) error {
			var a registry.Artifact
			if err := json.Unmarshal(data, &a); err != nil {
				return fmt.Errorf("decode artifact: %w", err)
			}
			out = append(out, &a)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func roleBucket(role registry.Role) []byte {
	return []byte("artifacts_" + string(role))
}

// artifactKey orders entries by training time; the id breaks ties.
func artifactKey(a *registry.Artifact) []byte {
	return []byte(fmt.Sprintf("%020d_%s", a.TrainedAt.UnixNano(), a.ID))
}
