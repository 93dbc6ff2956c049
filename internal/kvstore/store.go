// Package kvstore is the persistence layer: whole JSON documents under
// logical keys. Every mutation elsewhere in the service reads a full
// document, modifies it in memory, and writes it back; there is no partial
// update, no indexing, and no transactional guarantee across keys.
package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
)

var ErrNotFound = errors.New("key not found")

type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}

// Key builds a user-scoped document key, e.g. Key("cart", 17) -> "cart:17".
func Key(collection string, userID int64) string {
	return fmt.Sprintf("%s:%d", collection, userID)
}

// Load fetches and decodes the document at key, falling back to def when
// the key is missing or the stored bytes fail to decode. Failures are
// logged, never propagated.
func Load[T any](ctx context.Context, s Store, log *slog.Logger, key string, def T) T {
	raw, err := s.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) && log != nil {
			log.Error("read document", "key", key, "error", err)
		}
		return def
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		if log != nil {
			log.Error("decode document", "key", key, "error", err)
		}
		return def
	}
	return v
}

// Save encodes and stores v under key. Failures are logged and swallowed;
// the caller's in-memory state stays authoritative for the session.
func Save(ctx context.Context, s Store, log *slog.Logger, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		if log != nil {
			log.Error("encode document", "key", key, "error", err)
		}
		return
	}
	if err := s.Set(ctx, key, raw); err != nil && log != nil {
		log.Error("write document", "key", key, "error", err)
	}
}

// Remove deletes the document at key, logging and swallowing failures.
func Remove(ctx context.Context, s Store, log *slog.Logger, key string) {
	if err := s.Delete(ctx, key); err != nil && !errors.Is(err, ErrNotFound) && log != nil {
		log.Error("delete document", "key", key, "error", err)
	}
}
