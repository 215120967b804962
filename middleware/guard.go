package middleware

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"

	goSecurity "github.com/MrEthical07/goSecurity"
	"github.com/MrEthical07/goSecurity/remote"
	"github.com/google/uuid"
)

// ManagerSource resolves the Manager that holds the caller's session.
type ManagerSource func(*http.Request) (*goSecurity.Manager, error)

// ErrNoManager is returned by a source that has nothing to offer.
var ErrNoManager = errors.New("middleware: no manager")

// Static serves the same Manager to every request.
func Static(m *goSecurity.Manager) ManagerSource {
	return func(*http.Request) (*goSecurity.Manager, error) {
		if m == nil {
			return nil, ErrNoManager
		}
		return m, nil
	}
}

// Check inspects an authenticated session. Returning false answers 403.
type Check func(goSecurity.State) bool

type stateContextKey struct{}

// StateFromContext returns the session snapshot taken by a guard.
func StateFromContext(ctx context.Context) (goSecurity.State, bool) {
	st, ok := ctx.Value(stateContextKey{}).(goSecurity.State)
	return st, ok
}

// Guard admits requests whose session is authenticated and passes check.
// A nil check admits every authenticated session. The downstream context
// carries the session snapshot, a request id and the client IP.
func Guard(src ManagerSource, check Check) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if src == nil {
				http.Error(w, "internal server error", http.StatusInternalServerError)
				return
			}
			m, err := src(r)
			if err != nil || m == nil {
				http.Error(w, "internal server error", http.StatusInternalServerError)
				return
			}

			st := m.State()
			if !st.Authenticated {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			if check != nil && !check(st) {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}

			ctx := withRequestMetadata(r)
			ctx = context.WithValue(ctx, stateContextKey{}, st)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func withRequestMetadata(r *http.Request) context.Context {
	ctx := r.Context()

	id := strings.TrimSpace(r.Header.Get(remote.RequestIDHeader))
	if id == "" {
		id = uuid.NewString()
	}
	ctx = goSecurity.WithRequestID(ctx, id)

	if ip := clientIP(r.RemoteAddr); ip != "" {
		ctx = goSecurity.WithClientIP(ctx, ip)
	}
	return ctx
}

func clientIP(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}

// RequestMetadata returns r's context carrying the same request id and
// client IP a guard would attach. Handlers outside a guard use it before
// calling Login or Logout so audit events stay correlated.
func RequestMetadata(r *http.Request) context.Context {
	return withRequestMetadata(r)
}
