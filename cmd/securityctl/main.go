// Command securityctl drives a goSecurity session persisted in Redis from
// the shell. Each invocation restores the session, runs one subcommand and
// exits, so state carries over between runs through Redis.
//
// Usage:
//
//	securityctl [-redis-addr addr] [-env-prefix GOSECURITY] <command> [flags]
//
// Commands:
//
//	login  -endpoint URL -username U -password P
//	token  -value TOKEN [-perm name ...]
//	status
//	can    -perm name [-perm name ...] [-all]
//	logout
//
// Configuration is read from the environment (and a .env file when
// present) using the GOSECURITY_ prefix. REDIS_ADDR selects the Redis
// server when -redis-addr is not given.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	goSecurity "github.com/MrEthical07/goSecurity"
	"github.com/MrEthical07/goSecurity/storage"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

const defaultRedisAddr = "127.0.0.1:6379"

// errDenied makes `can` exit non-zero without printing an error.
var errDenied = errors.New("denied")

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := run(ctx, os.Args[1:], os.Stdout)
	switch {
	case err == nil:
	case errors.Is(err, errDenied):
		os.Exit(1)
	case errors.Is(err, flag.ErrHelp):
		os.Exit(2)
	default:
		fmt.Fprintf(os.Stderr, "securityctl: %v\n", err)
		os.Exit(1)
	}
}

type permList []string

func (p *permList) String() string { return strings.Join(*p, ",") }

func (p *permList) Set(v string) error {
	*p = append(*p, v)
	return nil
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	global := flag.NewFlagSet("securityctl", flag.ContinueOnError)
	global.SetOutput(stdout)
	var (
		redisAddr = global.String("redis-addr", "", "redis address; falls back to REDIS_ADDR, then "+defaultRedisAddr)
		envPrefix = global.String("env-prefix", goSecurity.DefaultEnvPrefix, "environment variable prefix")
		ttl       = global.Duration("ttl", 0, "session ttl in redis; 0 keeps keys until logout")
	)
	if err := global.Parse(args); err != nil {
		return err
	}
	if global.NArg() == 0 {
		global.Usage()
		return flag.ErrHelp
	}

	cfg, err := goSecurity.LoadConfigFromEnv(*envPrefix)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	addr := *redisAddr
	if addr == "" {
		addr = os.Getenv("REDIS_ADDR")
	}
	if addr == "" {
		addr = defaultRedisAddr
	}
	client := redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{addr}})
	defer client.Close()

	store := storage.NewRedisStore(client, "securityctl", *ttl, *ttl > 0)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	_, err = store.Ping(pingCtx)
	cancel()
	if err != nil {
		return fmt.Errorf("redis at %s: %w", addr, err)
	}

	m, err := goSecurity.New().
		WithConfig(cfg).
		WithStore(store).
		WithLogger(goSecurity.NewLogger(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)).
		Build()
	if err != nil {
		return fmt.Errorf("build manager: %w", err)
	}
	defer m.Close()

	if err := m.Restore(ctx); err != nil {
		return fmt.Errorf("restore session: %w", err)
	}

	cmd, rest := global.Arg(0), global.Args()[1:]
	switch cmd {
	case "login":
		return cmdLogin(ctx, m, rest, stdout)
	case "token":
		return cmdToken(ctx, m, rest, stdout)
	case "status":
		return cmdStatus(m, stdout)
	case "can":
		return cmdCan(m, rest, stdout)
	case "logout":
		return cmdLogout(ctx, m, stdout)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func cmdLogin(ctx context.Context, m *goSecurity.Manager, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.SetOutput(stdout)
	var (
		endpoint = fs.String("endpoint", "", "authentication endpoint URL")
		username = fs.String("username", "", "username")
		password = fs.String("password", "", "password")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *endpoint == "" {
		return errors.New("login: -endpoint is required")
	}

	payload := map[string]string{"username": *username, "password": *password}
	if err := m.LoginByRemote(ctx, *endpoint, payload); err != nil {
		return err
	}
	return cmdStatus(m, stdout)
}

func cmdToken(ctx context.Context, m *goSecurity.Manager, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	fs.SetOutput(stdout)
	var perms permList
	value := fs.String("value", "", "credential to store")
	fs.Var(&perms, "perm", "permission to grant (repeatable)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var list []string
	if len(perms) > 0 {
		list = perms
	}
	if err := m.Login(ctx, *value, nil, list); err != nil {
		return err
	}
	return cmdStatus(m, stdout)
}

type statusView struct {
	Authenticated bool                `json:"authenticated"`
	Strategy      string              `json:"strategy"`
	User          goSecurity.Identity `json:"user,omitempty"`
	Permissions   []string            `json:"permissions"`
	ExpiresAt     *time.Time          `json:"expires_at,omitempty"`
}

func cmdStatus(m *goSecurity.Manager, stdout io.Writer) error {
	st := m.State()
	view := statusView{
		Authenticated: st.Authenticated,
		Strategy:      string(m.Strategy()),
		User:          st.Identity,
		Permissions:   m.GetPermissions(),
	}
	if exp, ok := st.Identity.ExpiresAt(); ok {
		view.ExpiresAt = &exp
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(view)
}

func cmdCan(m *goSecurity.Manager, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("can", flag.ContinueOnError)
	fs.SetOutput(stdout)
	var perms permList
	fs.Var(&perms, "perm", "permission to test (repeatable)")
	all := fs.Bool("all", false, "require every permission instead of any")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(perms) == 0 {
		return errors.New("can: at least one -perm is required")
	}

	var ok bool
	if *all {
		ok = m.HasAllPermission(perms...)
	} else {
		ok = m.HasAnyPermission(perms...)
	}
	fmt.Fprintln(stdout, ok)
	if !ok {
		return errDenied
	}
	return nil
}

func cmdLogout(ctx context.Context, m *goSecurity.Manager, stdout io.Writer) error {
	if err := m.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(stdout, "logged out")
	return nil
}
