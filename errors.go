package goSecurity

import (
	"errors"

	"github.com/MrEthical07/goSecurity/permission"
	"github.com/MrEthical07/goSecurity/storage"
	"github.com/MrEthical07/goSecurity/strategy"
)

var (
	// ErrMalformedToken is returned by Login in strict decode mode when the
	// jwt strategy cannot read an identity from the credential.
	ErrMalformedToken = strategy.ErrMalformedToken
	// ErrUnknownStrategy rejects strategy names other than plain and jwt.
	ErrUnknownStrategy = strategy.ErrUnknownStrategy
	// ErrInvalidPermissionQuery rejects blank permission names.
	ErrInvalidPermissionQuery = permission.ErrInvalidPermissionQuery
	// ErrStoreUnavailable reports a persistence medium that could not be reached.
	ErrStoreUnavailable = storage.ErrStoreUnavailable

	// ErrRemoteLogin wraps every LoginByRemote transport, status or body failure.
	ErrRemoteLogin = errors.New("remote login failed")
	// ErrInvalidCredential rejects an empty credential.
	ErrInvalidCredential = errors.New("invalid credential")
	// ErrManagerNotReady is returned by methods called on a nil or closed Manager.
	ErrManagerNotReady = errors.New("manager not ready")
	// ErrSessionPersistFailed reports a login whose writes did not complete.
	// The session is cleared when this is returned.
	ErrSessionPersistFailed = errors.New("session persist failed")
	// ErrBuilderUsed is returned by a second Build call on the same Builder.
	ErrBuilderUsed = errors.New("builder already used")
	// ErrInvalidConfig wraps every Config.Validate failure.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrRemoteNotConfigured is returned by LoginByRemote when no transport is set.
	ErrRemoteNotConfigured = errors.New("remote transport not configured")
)
