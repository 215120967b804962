package flows

import (
	"context"
	"fmt"
	"time"

	"github.com/MrEthical07/goSecurity/remote"
)

// RemoteLoginDeps captures remote login flow dependencies.
type RemoteLoginDeps struct {
	Authenticate func(ctx context.Context, endpoint string, payload any) (*remote.Response, error)
	Now          func() time.Time
	RemoteErr    error
}

// RemoteLoginResult carries the transport outcome. Login is performed by the
// caller under its own transition lock.
type RemoteLoginResult struct {
	Response *remote.Response
	Latency  time.Duration
	Err      error
}

// Input converts a successful response into login material.
func (r RemoteLoginResult) Input() LoginInput {
	if r.Response == nil {
		return LoginInput{}
	}
	return LoginInput{
		Token:       r.Response.Token,
		User:        r.Response.User,
		Permissions: r.Response.Permissions,
	}
}

// RunRemoteLogin performs the network exchange only. No session state is
// read or written here.
func RunRemoteLogin(ctx context.Context, endpoint string, payload any, deps RemoteLoginDeps) RemoteLoginResult {
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	start := now()
	resp, err := deps.Authenticate(ctx, endpoint, payload)
	latency := now().Sub(start)
	if err != nil {
		return RemoteLoginResult{Latency: latency, Err: fmt.Errorf("%w: %w", deps.RemoteErr, err)}
	}
	return RemoteLoginResult{Response: resp, Latency: latency}
}
