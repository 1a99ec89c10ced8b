package main

import (
	"context"
	"database/sql"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"

	emailPkg "hearth/internal/adapters/email"
	web "hearth/internal/adapters/http"
	"hearth/internal/adapters/storage"
	eventStore "hearth/internal/adapters/storage/event"
	userStore "hearth/internal/adapters/storage/user"
	"hearth/internal/application/orchestrators"
	"hearth/internal/config"
	"hearth/internal/scheduler"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// .env first, so HEARTH_* lookups below see it. Absence is fine.
	_ = godotenv.Load()

	cfgPath := envOrDefault("HEARTH_CONFIG", "hearth.yaml")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	stores, cleanup, err := openStores(cfg)
	if err != nil {
		log.Fatalf("failed to open storage: %v", err)
	}
	defer cleanup()

	// Seed the roster so the login screen is never empty.
	roster := make([]orchestrators.RosterEntry, 0, len(cfg.Family))
	for _, m := range cfg.Family {
		roster = append(roster, orchestrators.RosterEntry{Name: m.Name, Color: m.Color})
	}
	if err := orchestrators.ExecuteSeedUsers(context.Background(), roster, orchestrators.SeedUsersDeps{
		UserStore: stores.UserStore,
	}); err != nil {
		log.Fatalf("failed to seed roster: %v", err)
	}

	// Email sender: Resend when a key is present, noop otherwise.
	var sender emailPkg.Sender
	emailFrom := envOrDefault("HEARTH_RESEND_FROM", "Hearth Calendar <noreply@example.com>")
	if resendKey := os.Getenv("HEARTH_RESEND_KEY"); resendKey != "" {
		sender = emailPkg.NewResendSender(resendKey, emailFrom)
		log.Println("Email sender configured (Resend)")
	} else {
		sender = emailPkg.NewNoopSender()
		log.Println("Email sender configured (noop — set HEARTH_RESEND_KEY for real delivery)")
	}

	// Weekly digest on the configured cron spec.
	sched := scheduler.New(cfg.Location())
	if cfg.Digest.Enabled {
		digestDeps := orchestrators.WeekDigestDeps{EventStore: stores.EventStore, Sender: sender}
		recipients := cfg.Digest.Recipients
		err := sched.AddJob(cfg.Digest.Cron, "week_digest", func(ctx context.Context) error {
			return orchestrators.ExecuteSendWeekDigest(ctx, time.Now().In(cfg.Location()), recipients, digestDeps)
		})
		if err != nil {
			log.Fatalf("failed to schedule digest: %v", err)
		}
	}
	sched.Start()
	defer sched.Stop()

	mux := web.NewMux(envOrDefault("HEARTH_STATIC_DIR", "static"), stores, web.Options{
		WeekStart: cfg.WeekStartDay(),
		Location:  cfg.Location(),
	})

	addr := envOrDefault("HEARTH_ADDR", cfg.Listen)
	slog.Info("server_starting", "version", version, "addr", addr,
		"driver", cfg.Database.Driver, "timezone", cfg.Timezone, "schema", storage.LatestSchemaVersion())

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	slog.Info("server_stopped")
}

// openStores builds the configured storage backend: local SQLite or
// hosted Postgres, behind the same store interfaces.
func openStores(cfg *config.Config) (*web.Stores, func(), error) {
	switch cfg.Database.Driver {
	case "postgres":
		pool, err := pgxpool.New(context.Background(), cfg.Database.DSN)
		if err != nil {
			return nil, nil, err
		}
		if err := pool.Ping(context.Background()); err != nil {
			pool.Close()
			return nil, nil, err
		}
		if err := eventStore.InitPostgresSchema(context.Background(), pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return &web.Stores{
			UserStore:  userStore.NewPostgresStore(pool),
			EventStore: eventStore.NewPostgresStore(pool),
		}, pool.Close, nil

	default: // sqlite
		dsn := cfg.Database.DSN + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
		db, err := sql.Open("sqlite", dsn)
		if err != nil {
			return nil, nil, err
		}
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		if err := db.Ping(); err != nil {
			db.Close()
			return nil, nil, err
		}
		if err := storage.MigrateDB(db); err != nil {
			db.Close()
			return nil, nil, err
		}
		timedDB := storage.NewTimedDB(db)
		return &web.Stores{
			UserStore:  userStore.NewSQLiteStore(timedDB),
			EventStore: eventStore.NewSQLiteStore(timedDB),
		}, func() { db.Close() }, nil
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
