package goSecurity

import (
	"context"
	"errors"
	"testing"

	"github.com/MrEthical07/goSecurity/storage"
	"github.com/MrEthical07/goSecurity/strategy"
)

func TestBuilderSingleUse(t *testing.T) {
	b := New()
	m, err := b.Build()
	if err != nil {
		t.Fatalf("first Build: %v", err)
	}
	defer m.Close()

	if _, err := b.Build(); !errors.Is(err, ErrBuilderUsed) {
		t.Fatalf("expected ErrBuilderUsed, got %v", err)
	}
}

func TestBuilderRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Strategy = "kerberos"

	if _, err := New().WithConfig(cfg).Build(); !errors.Is(err, ErrUnknownStrategy) {
		t.Fatalf("expected ErrUnknownStrategy, got %v", err)
	}
}

func TestBuilderDefaults(t *testing.T) {
	m, err := New().WithLogger(discardLogger()).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer m.Close()

	if m.Strategy() != strategy.Plain {
		t.Fatalf("expected plain strategy, got %q", m.Strategy())
	}
	if _, ok := m.store.(*storage.MemoryStore); !ok {
		t.Fatalf("expected default memory store, got %T", m.store)
	}
	if m.keys.Authorization != "session.authorization" {
		t.Fatalf("unexpected default key %q", m.keys.Authorization)
	}
	if m.IsAuthenticated() {
		t.Fatal("fresh manager must be unauthenticated")
	}
}

func TestBuilderWithStrategyNormalizes(t *testing.T) {
	m, err := New().WithStrategy("JWT").WithLogger(discardLogger()).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer m.Close()

	if m.Strategy() != strategy.JWT {
		t.Fatalf("expected jwt strategy, got %q", m.Strategy())
	}
}

func TestBuilderWithAuditSinkEnablesAudit(t *testing.T) {
	sink := NewChannelSink(8)
	m, err := New().WithAuditSink(sink).WithLogger(discardLogger()).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if err := m.Login(context.Background(), "tok", nil, nil); err != nil {
		t.Fatalf("Login: %v", err)
	}
	m.Close()

	ev := <-sink.Events()
	if ev.EventType != "login_success" || !ev.Success || ev.ID == "" {
		t.Fatalf("unexpected audit event %+v", ev)
	}
}
