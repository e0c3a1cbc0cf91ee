// Package blob stores transient uploaded files (search reference images).
//
// Blobs carry a TTL so an orphan left behind by a crashed request expires on
// its own; the orchestrator still deletes eagerly on every exit path.
package blob

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gofedgroup/sourcing/internal/db"
	"github.com/gofedgroup/sourcing/internal/domain"
)

// DefaultKeyPrefix namespaces all blob keys.
const DefaultKeyPrefix = "sourcing:"

// store is the consumer interface for blob persistence (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// Blob identifies an uploaded file: the storage key for deletion and the
// public URL handed to the extraction model.
type Blob struct {
	Key string
	URL string
}

// Store implements transient blob storage over a Redis-compatible store.
type Store struct {
	store         store
	prefix        string
	publicBaseURL string
	ttl           time.Duration
}

// New creates a blob store. publicBaseURL is the externally reachable base of
// this service (blobs are served at <base>/uploads/<key>).
func New(s store, prefix, publicBaseURL string, ttl time.Duration) *Store {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &Store{
		store:         s,
		prefix:        prefix,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		ttl:           ttl,
	}
}

// Upload stores data under a fresh key derived from the original filename.
func (s *Store) Upload(ctx context.Context, data []byte, name string) (Blob, error) {
	if len(data) == 0 {
		return Blob{}, fmt.Errorf("%w: empty upload", domain.ErrInvalidInput)
	}
	key := uuid.NewString()
	if ext := path.Ext(name); ext != "" && len(ext) <= 8 {
		key += ext
	}
	if err := s.store.SetWithTTL(ctx, s.blobKey(key), data, s.ttl); err != nil {
		return Blob{}, fmt.Errorf("%w: upload %s: %w", domain.ErrStorageFailure, key, err)
	}
	return Blob{Key: key, URL: s.publicBaseURL + "/uploads/" + key}, nil
}

// Get returns the blob payload for serving. Expired or deleted blobs yield
// domain.ErrBlobNotFound.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.store.Get(ctx, s.blobKey(key))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, domain.ErrBlobNotFound
		}
		return nil, fmt.Errorf("get blob %s: %w", key, err)
	}
	return data, nil
}

// Delete removes a blob. Deleting a missing or expired blob is a no-op.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.store.Del(ctx, s.blobKey(key)); err != nil {
		return fmt.Errorf("delete blob %s: %w", key, err)
	}
	return nil
}

func (s *Store) blobKey(key string) string { return s.prefix + "upload:" + key }
