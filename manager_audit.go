package goSecurity

import (
	"context"
	"errors"
	"strconv"
	"time"

	internalaudit "github.com/MrEthical07/goSecurity/internal/audit"
	"github.com/MrEthical07/goSecurity/remote"
)

const (
	auditEventLoginSuccess       = "login_success"
	auditEventLoginFailure       = "login_failure"
	auditEventLogout             = "logout"
	auditEventRemoteLoginSuccess = "remote_login_success"
	auditEventRemoteLoginFailure = "remote_login_failure"
	auditEventTokenDecodeFailure = "token_decode_failure"
)

// AuditErrorCode is the stable string placed in AuditEvent.Error.
type AuditErrorCode string

const (
	auditErrInvalidCredential AuditErrorCode = "invalid_credential"
	auditErrMalformedToken    AuditErrorCode = "malformed_token"
	auditErrPersistFailed     AuditErrorCode = "persist_failed"
	auditErrStoreUnavailable  AuditErrorCode = "store_unavailable"
	auditErrUnexpectedStatus  AuditErrorCode = "unexpected_status"
	auditErrMalformedResponse AuditErrorCode = "malformed_response"
	auditErrRemoteTimeout     AuditErrorCode = "remote_timeout"
	auditErrRemoteLogin       AuditErrorCode = "remote_login_failed"
	auditErrInternal          AuditErrorCode = "internal_error"
)

func (m *Manager) emitAudit(
	ctx context.Context,
	eventType string,
	success bool,
	err error,
	metadataBuilder func() map[string]string,
) {
	if m == nil || m.audit == nil {
		return
	}

	var metadata map[string]string
	if metadataBuilder != nil {
		metadata = metadataBuilder()
	}
	if id := requestIDFromContext(ctx); id != "" {
		metadata = withMeta(metadata, "request_id", id)
	}
	if ip := clientIPFromContext(ctx); ip != "" {
		metadata = withMeta(metadata, "client_ip", ip)
	}

	event := internalaudit.NewEvent(eventType, success)
	event.Strategy = string(m.Strategy())
	event.Metadata = metadata
	if code := auditErrorCode(err); code != "" {
		event.Error = string(code)
	}

	m.audit.Emit(ctx, event)
}

func withMeta(md map[string]string, key, value string) map[string]string {
	if md == nil {
		md = make(map[string]string, 2)
	}
	md[key] = value
	return md
}

func strictMetadata(strict bool) func() map[string]string {
	return func() map[string]string {
		return map[string]string{"strict": strconv.FormatBool(strict)}
	}
}

func remoteMetadata(err error) func() map[string]string {
	return func() map[string]string {
		var statusErr *remote.StatusError
		if errors.As(err, &statusErr) {
			return map[string]string{"status": strconv.Itoa(statusErr.StatusCode)}
		}
		return nil
	}
}

func presence(ok bool) string {
	if ok {
		return "present"
	}
	return "absent"
}

func auditErrorCode(err error) AuditErrorCode {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, ErrInvalidCredential):
		return auditErrInvalidCredential
	case errors.Is(err, ErrMalformedToken):
		return auditErrMalformedToken
	case errors.Is(err, remote.ErrUnexpectedStatus):
		return auditErrUnexpectedStatus
	case errors.Is(err, remote.ErrMalformedResponse):
		return auditErrMalformedResponse
	case errors.Is(err, context.DeadlineExceeded):
		return auditErrRemoteTimeout
	case errors.Is(err, ErrRemoteLogin):
		return auditErrRemoteLogin
	case errors.Is(err, ErrSessionPersistFailed):
		return auditErrPersistFailed
	case errors.Is(err, ErrStoreUnavailable):
		return auditErrStoreUnavailable
	default:
		return auditErrInternal
	}
}

func (m *Manager) metricInc(id MetricID) {
	if m == nil || m.metrics == nil {
		return
	}
	m.metrics.Inc(id)
}

func (m *Manager) metricObserve(id MetricID, d time.Duration) {
	if m == nil || m.metrics == nil {
		return
	}
	m.metrics.Observe(id, d)
}
