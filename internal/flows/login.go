package flows

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/MrEthical07/goSecurity/storage"
)

// LoginErrors carries host-level sentinel errors used by the login flow.
type LoginErrors struct {
	InvalidCredential error
	PersistFailed     error
}

// LoginDeps captures login flow dependencies.
type LoginDeps struct {
	Store storage.Store
	Keys  storage.Keys
	// Decode extracts an identity from a credential. It may return nil, nil
	// when the strategy yields no identity.
	Decode       func(string) (map[string]any, error)
	StrictDecode bool
	Errors       LoginErrors
}

// LoginInput is the caller-supplied material for one login.
type LoginInput struct {
	Token       string
	User        map[string]any
	Permissions []string
}

// LoginResult reports the persisted outcome of a login attempt.
type LoginResult struct {
	// Identity and Permissions mirror what was written; nil means the slot
	// was removed.
	Identity    map[string]any
	Permissions []string
	// DecodeErr is set when lenient decoding failed and the login went
	// ahead without an identity.
	DecodeErr error
	// Cleared is true when a failed write forced the session to be wiped.
	Cleared     bool
	RollbackErr error
	Err         error
}

// RunLogin decodes (when no user is supplied) and persists all three slots.
// The authorization slot is always written; the user and permissions slots
// are written when a value is present and removed otherwise, so a login
// never inherits leftovers from an earlier session.
func RunLogin(ctx context.Context, in LoginInput, deps LoginDeps) LoginResult {
	if in.Token == "" {
		return LoginResult{Err: deps.Errors.InvalidCredential}
	}

	var result LoginResult

	identity := in.User
	if identity == nil && deps.Decode != nil {
		decoded, err := deps.Decode(in.Token)
		switch {
		case err != nil && deps.StrictDecode:
			return LoginResult{Err: err}
		case err != nil:
			result.DecodeErr = err
		default:
			identity = decoded
		}
	}

	mutations := make([]storage.Mutation, 0, 3)
	mutations = append(mutations, storage.SetMutation(deps.Keys.Authorization, in.Token))

	if identity != nil {
		m, err := storage.ObjectMutation(deps.Keys.User, identity)
		if err != nil {
			return LoginResult{Err: fmt.Errorf("%w: %w", deps.Errors.PersistFailed, err)}
		}
		// Keep the persisted form in memory so caller-owned slices and maps
		// are never shared and a later Restore yields the same values.
		identity = nil
		if err := json.Unmarshal([]byte(m.Value), &identity); err != nil {
			return LoginResult{Err: fmt.Errorf("%w: %w", deps.Errors.PersistFailed, err)}
		}
		mutations = append(mutations, m)
	} else {
		mutations = append(mutations, storage.RemoveMutation(deps.Keys.User))
	}

	if in.Permissions != nil {
		m, err := storage.ObjectMutation(deps.Keys.Permissions, in.Permissions)
		if err != nil {
			return LoginResult{Err: fmt.Errorf("%w: %w", deps.Errors.PersistFailed, err)}
		}
		mutations = append(mutations, m)
	} else {
		mutations = append(mutations, storage.RemoveMutation(deps.Keys.Permissions))
	}

	if err := storage.Apply(ctx, deps.Store, mutations...); err != nil {
		result.Err = fmt.Errorf("%w: %w", deps.Errors.PersistFailed, err)
		result.Cleared = true
		result.RollbackErr = deps.Store.Remove(ctx, deps.Keys.All()...)
		return result
	}

	result.Identity = identity
	if in.Permissions != nil {
		result.Permissions = append(make([]string, 0, len(in.Permissions)), in.Permissions...)
	}
	return result
}
