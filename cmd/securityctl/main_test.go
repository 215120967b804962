package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
)

func runCmd(t *testing.T, addr string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := run(context.Background(), append([]string{"-redis-addr", addr}, args...), &out)
	return out.String(), err
}

func decodeStatus(t *testing.T, raw string) statusView {
	t.Helper()
	var view statusView
	if err := json.Unmarshal([]byte(raw), &view); err != nil {
		t.Fatalf("decode status %q: %v", raw, err)
	}
	return view
}

func TestSessionSurvivesAcrossRuns(t *testing.T) {
	t.Setenv("GOSECURITY_LOG_LEVEL", "error")
	mr := miniredis.RunT(t)

	if _, err := runCmd(t, mr.Addr(), "token", "-value", "TOKEN123", "-perm", "admin"); err != nil {
		t.Fatalf("token: %v", err)
	}

	out, err := runCmd(t, mr.Addr(), "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if view := decodeStatus(t, out); !view.Authenticated || len(view.Permissions) != 1 {
		t.Fatalf("unexpected status %+v", view)
	}

	if out, err := runCmd(t, mr.Addr(), "can", "-perm", "admin"); err != nil || out != "true\n" {
		t.Fatalf("can admin: %q %v", out, err)
	}
	if _, err := runCmd(t, mr.Addr(), "can", "-perm", "admin", "-perm", "root", "-all"); !errors.Is(err, errDenied) {
		t.Fatalf("expected errDenied, got %v", err)
	}

	if _, err := runCmd(t, mr.Addr(), "logout"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	out, err = runCmd(t, mr.Addr(), "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if view := decodeStatus(t, out); view.Authenticated {
		t.Fatalf("expected logged out, got %+v", view)
	}
	if keys := mr.Keys(); len(keys) != 0 {
		t.Fatalf("expected no redis keys after logout, got %v", keys)
	}
}

func TestLoginAgainstRemote(t *testing.T) {
	t.Setenv("GOSECURITY_LOG_LEVEL", "error")
	mr := miniredis.RunT(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"token":"remote-token","user":{"name":"Patrick Porto"},"permissions":["admin"]}`))
	}))
	defer srv.Close()

	out, err := runCmd(t, mr.Addr(), "login", "-endpoint", srv.URL+"/api/auth", "-username", "admin", "-password", "admin")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	view := decodeStatus(t, out)
	if !view.Authenticated || view.User["name"] != "Patrick Porto" {
		t.Fatalf("unexpected status %+v", view)
	}
	if v, err := mr.Get("securityctl:session.authorization"); err != nil || v != "remote-token" {
		t.Fatalf("expected token in redis, got %q (%v)", v, err)
	}
}

func TestUsageErrors(t *testing.T) {
	t.Setenv("GOSECURITY_LOG_LEVEL", "error")
	mr := miniredis.RunT(t)

	if _, err := runCmd(t, mr.Addr(), "frobnicate"); err == nil {
		t.Fatal("expected unknown command error")
	}
	if _, err := runCmd(t, mr.Addr(), "can"); err == nil {
		t.Fatal("expected missing -perm error")
	}
	if _, err := runCmd(t, mr.Addr(), "token"); err == nil {
		t.Fatal("expected empty credential error")
	}
}

func TestBadEnvironment(t *testing.T) {
	t.Setenv("GOSECURITY_STRATEGY", "oauth")
	mr := miniredis.RunT(t)

	if _, err := runCmd(t, mr.Addr(), "status"); err == nil {
		t.Fatal("expected config error")
	}
}
