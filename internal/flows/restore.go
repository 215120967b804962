package flows

import (
	"context"
	"errors"

	"github.com/MrEthical07/goSecurity/storage"
)

// RestoreDeps captures restore flow dependencies.
type RestoreDeps struct {
	Store storage.Store
	Keys  storage.Keys
}

// RestoreResult is the session found in persistence.
type RestoreResult struct {
	Token       string
	Identity    map[string]any
	Permissions []string
	// Corrupt lists errors for structured slots that could not be decoded
	// and were treated as absent.
	Corrupt []error
	Err     error
}

// Authenticated reports whether a credential was found.
func (r RestoreResult) Authenticated() bool {
	return r.Err == nil && r.Token != ""
}

// RunRestore reads the three slots. Without a credential the identity and
// permission slots are not read at all, so stale leftovers never surface.
func RunRestore(ctx context.Context, deps RestoreDeps) RestoreResult {
	token, ok, err := deps.Store.Get(ctx, deps.Keys.Authorization)
	if err != nil {
		return RestoreResult{Err: err}
	}
	if !ok || token == "" {
		return RestoreResult{}
	}

	result := RestoreResult{Token: token}

	var identity map[string]any
	found, err := deps.Store.GetObject(ctx, deps.Keys.User, &identity)
	switch {
	case errors.Is(err, storage.ErrCorruptValue):
		result.Corrupt = append(result.Corrupt, err)
	case err != nil:
		return RestoreResult{Err: err}
	case found:
		result.Identity = identity
	}

	var permissions []string
	found, err = deps.Store.GetObject(ctx, deps.Keys.Permissions, &permissions)
	switch {
	case errors.Is(err, storage.ErrCorruptValue):
		result.Corrupt = append(result.Corrupt, err)
	case err != nil:
		return RestoreResult{Err: err}
	case found:
		if permissions == nil {
			permissions = []string{}
		}
		result.Permissions = permissions
	}

	return result
}
