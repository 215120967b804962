package storage

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/sessions"
)

// CookieStore persists session slots in a gorilla/sessions session bound to
// one request/response pair. Every write saves the session, which emits a
// Set-Cookie header on w; writes must therefore happen before the response
// body is written.
type CookieStore struct {
	store sessions.Store
	name  string
	r     *http.Request
	w     http.ResponseWriter
}

// NewCookieStore binds store to the current request. name is the cookie
// (session) name.
func NewCookieStore(store sessions.Store, name string, r *http.Request, w http.ResponseWriter) *CookieStore {
	return &CookieStore{
		store: store,
		name:  name,
		r:     r,
		w:     w,
	}
}

func (c *CookieStore) session() (*sessions.Session, error) {
	sess, err := c.store.Get(c.r, c.name)
	if sess == nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	// An undecodable cookie (rotated keys, tampering) yields a fresh session;
	// it is treated as empty rather than as a failure.
	return sess, nil
}

func (c *CookieStore) save(sess *sessions.Session) error {
	if err := sess.Save(c.r, c.w); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

func (c *CookieStore) Get(_ context.Context, key string) (string, bool, error) {
	sess, err := c.session()
	if err != nil {
		return "", false, err
	}
	v, ok := sess.Values[key].(string)
	return v, ok, nil
}

func (c *CookieStore) GetObject(ctx context.Context, key string, dst any) (bool, error) {
	raw, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := decodeObject(key, raw, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (c *CookieStore) Set(ctx context.Context, key, value string) error {
	return c.Apply(ctx, SetMutation(key, value))
}

func (c *CookieStore) SetObject(ctx context.Context, key string, value any) error {
	m, err := ObjectMutation(key, value)
	if err != nil {
		return err
	}
	return c.Apply(ctx, m)
}

func (c *CookieStore) Remove(ctx context.Context, keys ...string) error {
	mutations := make([]Mutation, len(keys))
	for i, key := range keys {
		mutations[i] = RemoveMutation(key)
	}
	return c.Apply(ctx, mutations...)
}

// Apply updates the session values and saves the cookie once.
func (c *CookieStore) Apply(_ context.Context, mutations ...Mutation) error {
	sess, err := c.session()
	if err != nil {
		return err
	}
	for _, m := range mutations {
		if m.Delete {
			delete(sess.Values, m.Key)
			continue
		}
		sess.Values[m.Key] = m.Value
	}
	return c.save(sess)
}
