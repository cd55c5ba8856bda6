// Command twofactor is the support and operations CLI for two-factor
// authentication.
//
//	twofactor migrate [-dir <path>]
//	twofactor status -user <id>
//	twofactor unlock -user <id>
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lexcase/lexcase/db/migrations"
	"github.com/lexcase/lexcase/pkg/config"
	"github.com/lexcase/lexcase/pkg/lockout"
	"github.com/lexcase/lexcase/pkg/logger"
	"github.com/lexcase/lexcase/pkg/pg"
	"github.com/lexcase/lexcase/pkg/redis"
	"github.com/lexcase/lexcase/pkg/secrets"
	"github.com/lexcase/lexcase/svc/twofactor"
)

type appConfig struct {
	Env  string `env:"APP_ENV" envDefault:"development"`
	Name string `env:"APP_NAME" envDefault:"lexcase-twofactor"`
}

const usage = `usage: twofactor <command> [flags]

commands:
  migrate [-dir <path>]  apply database migrations, embedded unless -dir is set
  status -user <id>      show enrollment state and failed attempts
  unlock -user <id>      clear the failed-attempt counter
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1], os.Args[2:], os.Stdout); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd string, args []string, out io.Writer) error {
	var app appConfig
	if err := config.Load(&app); err != nil {
		return err
	}
	log := logger.New(logger.WithEnvironment(app.Env, app.Name))
	logger.SetAsDefault(log)

	switch cmd {
	case "migrate":
		fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
		dir := fs.String("dir", "", "Read migrations from this directory instead of the embedded set")
		if err := fs.Parse(args); err != nil {
			return err
		}
		return migrate(ctx, log, *dir)
	case "status", "unlock":
		fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
		userID := fs.String("user", "", "User ID")
		if err := fs.Parse(args); err != nil {
			return err
		}
		if *userID == "" {
			return errors.New("-user is required")
		}

		d, err := wire(ctx, log)
		if err != nil {
			return err
		}
		defer d.close()

		if cmd == "status" {
			return d.status(ctx, *userID, out)
		}
		return d.unlock(ctx, *userID, out)
	default:
		return fmt.Errorf("unknown command %q\n\n%s", cmd, usage)
	}
}

func migrate(ctx context.Context, log *slog.Logger, dir string) error {
	var cfg pg.Config
	if err := config.Load(&cfg); err != nil {
		return err
	}

	pool, err := pg.Connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	source := "embedded"
	if dir != "" {
		cfg.MigrationsPath = dir
		source = dir
		err = pg.Migrate(ctx, pool, cfg, log)
	} else {
		err = pg.MigrateFS(ctx, pool, migrations.FS, cfg, log)
	}
	if err != nil {
		return err
	}
	log.InfoContext(ctx, "migrations applied",
		logger.Component("migrate"),
		slog.String("source", source),
	)
	return nil
}

// deps holds the wired service and the counter it uses.
type deps struct {
	svc          twofactor.Service
	storage      *twofactor.PGStorage
	counter      lockout.Counter
	redisCounter *lockout.RedisCounter
	closers      []func()
}

func (d *deps) close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
}

func wire(ctx context.Context, log *slog.Logger) (*deps, error) {
	var (
		pgCfg  pg.Config
		secCfg secrets.Config
		tfCfg  twofactor.Config
	)
	if err := config.Load(&pgCfg); err != nil {
		return nil, err
	}
	if err := config.Load(&secCfg); err != nil {
		return nil, err
	}
	if err := config.Load(&tfCfg); err != nil {
		return nil, err
	}

	d := &deps{}
	ok := false
	defer func() {
		if !ok {
			d.close()
		}
	}()

	pool, err := pg.Connect(ctx, pgCfg)
	if err != nil {
		return nil, err
	}
	d.closers = append(d.closers, pool.Close)

	keyring, err := secrets.KeyringFromConfig(secCfg)
	if err != nil {
		return nil, err
	}
	d.closers = append(d.closers, keyring.Close)

	d.storage = twofactor.NewPGStorage(pool)
	d.counter = d.storage

	// Short-lived commands have no scrape endpoint, so metrics stay off.
	opts := append(tfCfg.Options(), twofactor.WithLogger(log))

	switch tfCfg.LockoutBackend {
	case twofactor.LockoutBackendStorage, "":
	case twofactor.LockoutBackendRedis:
		var redisCfg redis.Config
		if err := config.Load(&redisCfg); err != nil {
			return nil, err
		}
		client, err := redis.Connect(ctx, redisCfg)
		if err != nil {
			return nil, err
		}
		d.closers = append(d.closers, func() { _ = client.Close() })

		rc := lockout.NewRedisCounter(client)
		d.counter = rc
		d.redisCounter = rc
		opts = append(opts, twofactor.WithLockoutCounter(rc))
	default:
		return nil, fmt.Errorf("unknown lockout backend %q", tfCfg.LockoutBackend)
	}

	d.svc = twofactor.New(d.storage, keyring, opts...)
	ok = true
	return d, nil
}

func (d *deps) status(ctx context.Context, userID string, out io.Writer) error {
	st, err := d.svc.GetStatus(ctx, userID)
	if err != nil {
		return err
	}

	attempts, windowStart, err := d.attempts(ctx, userID)
	if err != nil {
		return err
	}

	lastUsed := "never"
	if st.LastUsedAt != nil {
		lastUsed = st.LastUsedAt.Format(time.RFC3339)
	}
	window := "-"
	if !windowStart.IsZero() {
		window = windowStart.Format(time.RFC3339)
	}

	fmt.Fprintf(out, "user:                   %s\n", userID)
	fmt.Fprintf(out, "enabled:                %t\n", st.Enabled)
	fmt.Fprintf(out, "verified:               %t\n", st.Verified)
	fmt.Fprintf(out, "last used:              %s\n", lastUsed)
	fmt.Fprintf(out, "backup codes remaining: %d\n", st.BackupCodesRemaining)
	fmt.Fprintf(out, "failed attempts:        %d\n", attempts)
	fmt.Fprintf(out, "failures since:         %s\n", window)
	return nil
}

func (d *deps) attempts(ctx context.Context, userID string) (int, time.Time, error) {
	if d.redisCounter != nil {
		return d.redisCounter.Attempts(ctx, userID)
	}

	rec, err := d.storage.GetRecord(ctx, userID)
	if errors.Is(err, twofactor.ErrRecordNotFound) {
		return 0, time.Time{}, nil
	}
	if err != nil {
		return 0, time.Time{}, err
	}
	if rec.LockoutWindowStartedAt == nil {
		return rec.FailedAttempts, time.Time{}, nil
	}
	return rec.FailedAttempts, *rec.LockoutWindowStartedAt, nil
}

func (d *deps) unlock(ctx context.Context, userID string, out io.Writer) error {
	if err := lockout.New(d.counter).Reset(ctx, userID); err != nil {
		return err
	}
	slog.InfoContext(ctx, "failed attempts cleared",
		logger.Component("unlock"),
		logger.UserID(userID),
	)
	fmt.Fprintf(out, "failed attempts cleared for %s\n", userID)
	return nil
}
