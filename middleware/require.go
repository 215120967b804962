package middleware

import (
	"net/http"

	goSecurity "github.com/MrEthical07/goSecurity"
	"github.com/MrEthical07/goSecurity/permission"
)

func RequireAuthenticated(src ManagerSource) func(http.Handler) http.Handler {
	return Guard(src, nil)
}

// RequirePermission panics when name is blank.
func RequirePermission(src ManagerSource, name string) func(http.Handler) http.Handler {
	permission.MustValidNames(name)
	return Guard(src, func(st goSecurity.State) bool {
		return st.Permissions.Has(name)
	})
}

// RequireAnyPermission panics when a name is blank. With no names nothing
// passes.
func RequireAnyPermission(src ManagerSource, names ...string) func(http.Handler) http.Handler {
	names = permission.MustValidNames(names...)
	return Guard(src, func(st goSecurity.State) bool {
		return st.Permissions.HasAny(names...)
	})
}

// RequireAllPermissions panics when a name is blank.
func RequireAllPermissions(src ManagerSource, names ...string) func(http.Handler) http.Handler {
	names = permission.MustValidNames(names...)
	return Guard(src, func(st goSecurity.State) bool {
		return st.Permissions.HasAll(names...)
	})
}
