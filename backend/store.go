package backend

import (
	"context"
	"encoding/json"
	"time"
)

// StateStore is a minimal key-value interface for short-lived handshake
// state. Implementations honor TTL on Set and treat missing keys as
// (found=false, err=nil). See storage/memory and storage/redis.
type StateStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// Handshake is one pending authorize→redirect round trip, as a backend
// tracks it between serving the consent surface and redirecting back.
type Handshake struct {
	ID        string    `json:"id"`
	Provider  string    `json:"provider"`
	BackTo    string    `json:"backto"`
	CreatedAt time.Time `json:"created_at"`
}

const handshakePrefix = "authbridge:hs:"

// PutHandshake stores a pending handshake under its ID.
func PutHandshake(ctx context.Context, s StateStore, h Handshake, ttl time.Duration) error {
	b, err := json.Marshal(h)
	if err != nil {
		return err
	}
	return s.Set(ctx, handshakePrefix+h.ID, b, ttl)
}

// GetHandshake loads a pending handshake, reporting absence without error.
func GetHandshake(ctx context.Context, s StateStore, id string) (Handshake, bool, error) {
	b, ok, err := s.Get(ctx, handshakePrefix+id)
	if err != nil || !ok {
		return Handshake{}, false, err
	}
	var h Handshake
	if err := json.Unmarshal(b, &h); err != nil {
		return Handshake{}, false, err
	}
	return h, true, nil
}

// DelHandshake drops a handshake once it has been consumed.
func DelHandshake(ctx context.Context, s StateStore, id string) error {
	return s.Del(ctx, handshakePrefix+id)
}
