package goSecurity

import (
	"context"
	"log/slog"
	"net/http"

	internalaudit "github.com/MrEthical07/goSecurity/internal/audit"
	internalmetrics "github.com/MrEthical07/goSecurity/internal/metrics"
	"github.com/MrEthical07/goSecurity/internal/notify"
	"github.com/MrEthical07/goSecurity/remote"
	"github.com/MrEthical07/goSecurity/storage"
	"github.com/MrEthical07/goSecurity/strategy"
)

// Authenticator performs the network half of LoginByRemote.
// *remote.Client satisfies it.
type Authenticator interface {
	Authenticate(ctx context.Context, endpoint string, payload any) (*remote.Response, error)
}

// Builder assembles a Manager. A Builder is single-use.
type Builder struct {
	config Config

	store      storage.Store
	remote     Authenticator
	remoteSet  bool
	httpClient *http.Client
	logger     *slog.Logger
	auditSink  AuditSink

	built bool
}

// New returns a Builder seeded with DefaultConfig.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the whole configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithStrategy sets Config.Strategy.
func (b *Builder) WithStrategy(name strategy.Name) *Builder {
	b.config.Strategy = name
	return b
}

// WithStore sets the persistence medium. The default is an in-process
// MemoryStore.
func (b *Builder) WithStore(store storage.Store) *Builder {
	b.store = store
	return b
}

// WithRemote replaces the default HTTP transport used by LoginByRemote.
// WithRemote(nil) disables it; LoginByRemote then returns
// ErrRemoteNotConfigured.
func (b *Builder) WithRemote(a Authenticator) *Builder {
	b.remote = a
	b.remoteSet = true
	return b
}

// WithHTTPClient sets the http.Client used by the default transport. It is
// ignored when WithRemote is used.
func (b *Builder) WithHTTPClient(c *http.Client) *Builder {
	b.httpClient = c
	return b
}

// WithLogger sets the base logger. Records are tagged service=gosecurity.
func (b *Builder) WithLogger(logger *slog.Logger) *Builder {
	b.logger = logger
	return b
}

// WithAuditSink sets the audit destination and enables auditing. Without a
// sink, enabled auditing writes through the Manager logger.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	if sink != nil {
		b.config.Audit.Enabled = true
	}
	return b
}

func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration and returns a ready Manager. The
// Manager starts unauthenticated; call Restore to load a persisted session.
func (b *Builder) Build() (*Manager, error) {
	if b.built {
		return nil, ErrBuilderUsed
	}

	cfg := cloneConfig(b.config)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	name, err := strategy.Parse(string(cfg.Strategy))
	if err != nil {
		return nil, err
	}
	cfg.Strategy = name
	resolver, err := strategy.New(name)
	if err != nil {
		return nil, err
	}

	logger := managerLogger(b.logger, cfg.Logging)

	store := b.store
	if store == nil {
		store = storage.NewMemoryStore()
	}

	authenticator := b.remote
	if !b.remoteSet {
		authenticator = remote.NewClient(remote.Config{
			Timeout:          cfg.Remote.Timeout,
			MaxResponseBytes: cfg.Remote.MaxResponseBytes,
			Headers:          cfg.Remote.Headers,
		}, b.httpClient)
	}

	sink := b.auditSink
	if sink == nil && cfg.Audit.Enabled {
		sink = internalaudit.NewSlogSink(logger)
	}

	m := &Manager{
		config:   cfg,
		keys:     storage.KeysWithPrefix(cfg.Storage.KeyPrefix),
		store:    store,
		remote:   authenticator,
		resolver: resolver,
		logger:   logger,
		metrics: internalmetrics.New(internalmetrics.Config{
			Enabled:       cfg.Metrics.Enabled,
			EnableLatency: cfg.Metrics.EnableLatencyHistograms,
		}),
		audit: internalaudit.NewDispatcher(internalaudit.Config{
			Enabled:    cfg.Audit.Enabled,
			BufferSize: cfg.Audit.BufferSize,
			DropIfFull: cfg.Audit.DropIfFull,
		}, sink),
	}
	m.bus = notify.New[AuthChanged](func() {
		m.metricInc(MetricNotificationDropped)
	})

	b.built = true

	return m, nil
}
