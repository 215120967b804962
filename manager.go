package goSecurity

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	internalaudit "github.com/MrEthical07/goSecurity/internal/audit"
	"github.com/MrEthical07/goSecurity/internal/flows"
	"github.com/MrEthical07/goSecurity/internal/logging"
	internalmetrics "github.com/MrEthical07/goSecurity/internal/metrics"
	"github.com/MrEthical07/goSecurity/internal/notify"
	"github.com/MrEthical07/goSecurity/permission"
	"github.com/MrEthical07/goSecurity/storage"
	"github.com/MrEthical07/goSecurity/strategy"
)

// Manager owns one session. All methods are safe for concurrent use.
//
// Login, Logout, Restore and the persistence half of LoginByRemote are
// serialized. Notifications are delivered synchronously after state has
// been written and before the transition returns, so listeners observe
// the new state. Listeners must not call Login, Logout or Restore on the
// same Manager; use SubscribeChan to react asynchronously.
type Manager struct {
	config Config
	keys   storage.Keys
	store  storage.Store
	remote Authenticator

	transition sync.Mutex

	mu          sync.RWMutex
	resolver    strategy.Resolver
	credential  string
	identity    Identity
	permissions permission.Set

	bus     *notify.Bus[AuthChanged]
	audit   *internalaudit.Dispatcher
	metrics *internalmetrics.Metrics
	logger  *slog.Logger

	closed atomic.Bool
}

func (m *Manager) ready() error {
	if m == nil || m.closed.Load() {
		return ErrManagerNotReady
	}
	return nil
}

/*
====================================
TRANSITIONS
====================================
*/

// Login establishes a session for token. A non-nil user is stored as given;
// otherwise the active strategy decodes one from the token. permissions are
// stored as given; nil removes the slot. Every slot is overwritten, so no
// value from an earlier session survives.
func (m *Manager) Login(ctx context.Context, token string, user Identity, permissions []string) error {
	if err := m.ready(); err != nil {
		return err
	}

	m.transition.Lock()
	defer m.transition.Unlock()
	if m.closed.Load() {
		return ErrManagerNotReady
	}

	return m.loginLocked(ctx, flows.LoginInput{
		Token:       token,
		User:        user,
		Permissions: permissions,
	})
}

func (m *Manager) loginLocked(ctx context.Context, in flows.LoginInput) error {
	m.mu.RLock()
	resolver := m.resolver
	m.mu.RUnlock()

	res := flows.RunLogin(ctx, in, flows.LoginDeps{
		Store:        m.store,
		Keys:         m.keys,
		Decode:       resolver.Decode,
		StrictDecode: m.config.StrictDecode,
		Errors: flows.LoginErrors{
			InvalidCredential: ErrInvalidCredential,
			PersistFailed:     ErrSessionPersistFailed,
		},
	})

	if res.Err != nil {
		if errors.Is(res.Err, ErrMalformedToken) {
			m.metricInc(MetricTokenDecodeFailure)
			m.emitAudit(ctx, auditEventTokenDecodeFailure, false, res.Err, strictMetadata(true))
		}
		if res.Cleared {
			m.logger.ErrorContext(ctx, "login persistence failed, session cleared", logging.Error(res.Err))
			if res.RollbackErr != nil {
				m.logger.ErrorContext(ctx, "session rollback failed", logging.Error(res.RollbackErr))
			}
			if m.resetState() {
				m.publish(ctx, false)
			}
		}
		m.metricInc(MetricLoginFailure)
		m.emitAudit(ctx, auditEventLoginFailure, false, res.Err, nil)
		return res.Err
	}

	if res.DecodeErr != nil {
		m.logger.WarnContext(ctx, "credential carries no readable identity",
			slog.String("strategy", string(resolver.Name())),
			logging.Error(res.DecodeErr),
		)
		m.metricInc(MetricTokenDecodeFailure)
		m.emitAudit(ctx, auditEventTokenDecodeFailure, false, res.DecodeErr, strictMetadata(false))
	}

	var identity Identity
	if res.Identity != nil {
		identity = Identity(res.Identity).Clone()
	}

	m.mu.Lock()
	m.credential = in.Token
	m.identity = identity
	m.permissions = permission.Set(res.Permissions).Clone()
	m.mu.Unlock()

	m.metricInc(MetricLoginSuccess)
	m.emitAudit(ctx, auditEventLoginSuccess, true, nil, func() map[string]string {
		return map[string]string{
			"identity":    presence(identity != nil),
			"permissions": presence(res.Permissions != nil),
		}
	})
	m.logger.DebugContext(ctx, "session established",
		slog.Bool("identity", identity != nil),
		slog.Int("permissions", len(res.Permissions)),
	)

	m.publish(ctx, true)
	return nil
}

// LoginByRemote exchanges payload for a session at endpoint. The network
// round trip runs without holding the transition lock; concurrent remote
// logins therefore resolve last-write-wins. Transport, status and body
// failures are wrapped in ErrRemoteLogin and leave the session untouched.
func (m *Manager) LoginByRemote(ctx context.Context, endpoint string, payload any) error {
	if err := m.ready(); err != nil {
		return err
	}
	if m.remote == nil {
		return ErrRemoteNotConfigured
	}

	res := flows.RunRemoteLogin(ctx, endpoint, payload, flows.RemoteLoginDeps{
		Authenticate: m.remote.Authenticate,
		RemoteErr:    ErrRemoteLogin,
	})
	m.metricObserve(MetricRemoteLoginLatency, res.Latency)

	if res.Err != nil {
		m.metricInc(MetricRemoteLoginFailure)
		m.emitAudit(ctx, auditEventRemoteLoginFailure, false, res.Err, remoteMetadata(res.Err))
		m.logger.WarnContext(ctx, "remote login failed", logging.Error(res.Err))
		return res.Err
	}

	m.transition.Lock()
	defer m.transition.Unlock()
	if m.closed.Load() {
		return ErrManagerNotReady
	}

	if err := m.loginLocked(ctx, res.Input()); err != nil {
		m.metricInc(MetricRemoteLoginFailure)
		m.emitAudit(ctx, auditEventRemoteLoginFailure, false, err, nil)
		return err
	}

	m.metricInc(MetricRemoteLoginSuccess)
	m.emitAudit(ctx, auditEventRemoteLoginSuccess, true, nil, func() map[string]string {
		return map[string]string{"remote_request_id": res.Response.RequestID}
	})
	return nil
}

// LoginByRemoteAsync runs LoginByRemote on its own goroutine. The returned
// channel yields exactly one value and is then closed.
func (m *Manager) LoginByRemoteAsync(ctx context.Context, endpoint string, payload any) <-chan error {
	out := make(chan error, 1)
	go func() {
		defer close(out)
		out <- m.LoginByRemote(ctx, endpoint, payload)
	}()
	return out
}

// Logout removes every persisted slot, clears memory and notifies
// subscribers with false, whether or not a session existed. A store error
// is returned after memory has been cleared and subscribers notified.
func (m *Manager) Logout(ctx context.Context) error {
	if err := m.ready(); err != nil {
		return err
	}

	m.transition.Lock()
	defer m.transition.Unlock()
	if m.closed.Load() {
		return ErrManagerNotReady
	}

	err := flows.RunLogout(ctx, flows.LogoutDeps{Store: m.store, Keys: m.keys})
	m.resetState()

	if err != nil {
		m.logger.ErrorContext(ctx, "logout could not clear persistence", logging.Error(err))
	} else {
		m.logger.DebugContext(ctx, "session cleared")
	}
	m.metricInc(MetricLogout)
	m.emitAudit(ctx, auditEventLogout, err == nil, err, nil)

	m.publish(ctx, false)
	return err
}

// Restore loads the persisted session into memory. Without a persisted
// credential the Manager is unauthenticated and any leftover identity or
// permission values are ignored. Undecodable values are treated as absent.
// Restore never notifies subscribers.
func (m *Manager) Restore(ctx context.Context) error {
	if err := m.ready(); err != nil {
		return err
	}

	m.transition.Lock()
	defer m.transition.Unlock()
	if m.closed.Load() {
		return ErrManagerNotReady
	}

	res := flows.RunRestore(ctx, flows.RestoreDeps{Store: m.store, Keys: m.keys})
	if res.Err != nil {
		m.logger.ErrorContext(ctx, "restore failed", logging.Error(res.Err))
		return res.Err
	}
	for _, err := range res.Corrupt {
		m.logger.WarnContext(ctx, "ignoring unreadable session value", logging.Error(err))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if !res.Authenticated() {
		m.credential, m.identity, m.permissions = "", nil, nil
		return nil
	}
	m.credential = res.Token
	m.identity = nil
	if res.Identity != nil {
		m.identity = Identity(res.Identity)
	}
	m.permissions = permission.Set(res.Permissions)
	return nil
}

// SetStrategy changes how future logins decode credentials. The current
// session is not re-decoded.
func (m *Manager) SetStrategy(name strategy.Name) error {
	if err := m.ready(); err != nil {
		return err
	}
	parsed, err := strategy.Parse(string(name))
	if err != nil {
		return err
	}
	resolver, err := strategy.New(parsed)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.resolver = resolver
	m.mu.Unlock()
	return nil
}

// Strategy reports the active strategy.
func (m *Manager) Strategy() strategy.Name {
	if m == nil {
		return ""
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.resolver.Name()
}

// resetState clears memory and reports whether a session was live.
func (m *Manager) resetState() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	was := m.credential != ""
	m.credential, m.identity, m.permissions = "", nil, nil
	return was
}

/*
====================================
QUERIES
====================================
*/

// IsAuthenticated reports whether a credential is held.
func (m *Manager) IsAuthenticated() bool {
	if m == nil {
		return false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.credential != ""
}

// GetUser returns a copy of the identity, or nil when there is none.
func (m *Manager) GetUser() Identity {
	if m == nil {
		return nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.identity.Clone()
}

// GetPermissions returns a copy of the permission list. It is empty, never
// nil, when no list is held.
func (m *Manager) GetPermissions() permission.Set {
	if m == nil {
		return permission.Set{}
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.permissions == nil {
		return permission.Set{}
	}
	return m.permissions.Clone()
}

func (m *Manager) HasPermission(name string) bool {
	if m == nil {
		return false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.permissions.Has(name)
}

// HasAnyPermission is false when names is empty.
func (m *Manager) HasAnyPermission(names ...string) bool {
	if m == nil {
		return false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.permissions.HasAny(names...)
}

// HasAllPermission is true when names is empty.
func (m *Manager) HasAllPermission(names ...string) bool {
	if m == nil {
		return len(names) == 0
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.permissions.HasAll(names...)
}

// State returns a consistent copy of the whole session.
func (m *Manager) State() State {
	if m == nil {
		return State{}
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return State{
		Authenticated: m.credential != "",
		Credential:    m.credential,
		Identity:      m.identity.Clone(),
		Permissions:   m.permissions.Clone(),
	}
}

/*
====================================
NOTIFICATIONS
====================================
*/

// Subscription is returned by Subscribe and SubscribeChan.
type Subscription struct {
	id   uint64
	bus  *notify.Bus[AuthChanged]
	once sync.Once
}

// Unsubscribe stops delivery. Channel subscriptions are closed. Safe to
// call more than once.
func (s *Subscription) Unsubscribe() {
	if s == nil || s.bus == nil {
		return
	}
	s.once.Do(func() {
		s.bus.Unsubscribe(s.id)
	})
}

// Subscribe registers fn for auth change notifications. fn runs on the
// goroutine performing the transition. There is no replay: fn only sees
// transitions that happen after it subscribed.
func (m *Manager) Subscribe(fn func(AuthChanged)) *Subscription {
	if m == nil || fn == nil {
		return &Subscription{}
	}
	return &Subscription{id: m.bus.Subscribe(fn), bus: m.bus}
}

// SubscribeChan delivers notifications on a buffered channel. A value that
// does not fit is dropped and counted. buffer <= 0 uses
// Config.Notify.ChannelBuffer.
func (m *Manager) SubscribeChan(buffer int) (*Subscription, <-chan AuthChanged) {
	if m == nil {
		ch := make(chan AuthChanged)
		close(ch)
		return &Subscription{}, ch
	}
	if buffer <= 0 {
		buffer = m.config.Notify.ChannelBuffer
	}
	id, ch := m.bus.SubscribeChan(buffer)
	return &Subscription{id: id, bus: m.bus}, ch
}

func (m *Manager) publish(ctx context.Context, authenticated bool) {
	m.logger.DebugContext(ctx, EventAuthChanged, slog.Bool("authenticated", authenticated))
	m.bus.Publish(AuthChanged{Authenticated: authenticated})
}

/*
====================================
LIFECYCLE
====================================
*/

// Close waits for an in-flight transition, then flushes pending audit
// events and closes channel subscriptions. Later transitions, including a
// LoginByRemote whose round trip was still running, return
// ErrManagerNotReady; queries keep working. Close must not be called from a
// Subscribe callback.
func (m *Manager) Close() {
	if m == nil || !m.closed.CompareAndSwap(false, true) {
		return
	}
	m.transition.Lock()
	defer m.transition.Unlock()
	m.audit.Close()
	m.bus.Close()
}

// MetricsSnapshot returns a copy of all counters.
func (m *Manager) MetricsSnapshot() MetricsSnapshot {
	if m == nil {
		return internalmetrics.New(internalmetrics.Config{}).Snapshot()
	}
	return m.metrics.Snapshot()
}

// AuditDropped reports audit events lost to backpressure.
func (m *Manager) AuditDropped() uint64 {
	if m == nil {
		return 0
	}
	return m.audit.Dropped()
}
