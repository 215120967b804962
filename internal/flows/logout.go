package flows

import (
	"context"

	"github.com/MrEthical07/goSecurity/storage"
)

// LogoutDeps captures logout flow dependencies.
type LogoutDeps struct {
	Store storage.Store
	Keys  storage.Keys
}

// RunLogout removes every session slot, whether or not it is present.
func RunLogout(ctx context.Context, deps LogoutDeps) error {
	return deps.Store.Remove(ctx, deps.Keys.All()...)
}
