package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrStoreUnavailable wraps transport failures of the backing medium.
	ErrStoreUnavailable = errors.New("session store unavailable")
	// ErrCorruptValue is returned when a structured value cannot be decoded.
	ErrCorruptValue = errors.New("corrupt session value")
)

// DefaultPrefix is the key namespace used when none is configured.
const DefaultPrefix = "session"

// Store is the persistence medium for session slots.
//
// Get and GetObject report ok=false for absent keys. Remove deletes keys
// explicitly; removing an absent key is not an error.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	GetObject(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key, value string) error
	SetObject(ctx context.Context, key string, value any) error
	Remove(ctx context.Context, keys ...string) error
}

// Keys names the three logical session slots.
type Keys struct {
	Authorization string
	User          string
	Permissions   string
}

// KeysWithPrefix returns the slot keys under prefix, e.g.
// "session.authorization". A blank prefix selects DefaultPrefix.
func KeysWithPrefix(prefix string) Keys {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return Keys{
		Authorization: prefix + ".authorization",
		User:          prefix + ".user",
		Permissions:   prefix + ".permissions",
	}
}

// All returns the slot keys in persistence order.
func (k Keys) All() []string {
	return []string{k.Authorization, k.User, k.Permissions}
}

func encodeObject(key string, value any) (string, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", key, err)
	}
	return string(data), nil
}

func decodeObject(key, raw string, dst any) error {
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrCorruptValue, key, err)
	}
	return nil
}

// Mutation is one write applied by a [BatchStore]: a set of Value under Key,
// or a removal of Key when Delete is true.
type Mutation struct {
	Key    string
	Value  string
	Delete bool
}

// SetMutation returns a string write.
func SetMutation(key, value string) Mutation {
	return Mutation{Key: key, Value: value}
}

// ObjectMutation returns a structured write, encoded the way SetObject would.
func ObjectMutation(key string, value any) (Mutation, error) {
	raw, err := encodeObject(key, value)
	if err != nil {
		return Mutation{}, err
	}
	return Mutation{Key: key, Value: raw}, nil
}

// RemoveMutation returns a removal.
func RemoveMutation(key string) Mutation {
	return Mutation{Key: key, Delete: true}
}

// BatchStore is implemented by stores that can apply several mutations as a
// single write to the medium.
type BatchStore interface {
	Store
	Apply(ctx context.Context, mutations ...Mutation) error
}

// Apply writes mutations through s, using a single batch when s supports it
// and falling back to sequential Set/Remove calls otherwise.
func Apply(ctx context.Context, s Store, mutations ...Mutation) error {
	if b, ok := s.(BatchStore); ok {
		return b.Apply(ctx, mutations...)
	}
	for _, m := range mutations {
		var err error
		if m.Delete {
			err = s.Remove(ctx, m.Key)
		} else {
			err = s.Set(ctx, m.Key, m.Value)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
