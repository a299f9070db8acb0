package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"leoniportal/internal/config"
	"leoniportal/internal/mail"
	"leoniportal/internal/observability/logging"
	"leoniportal/internal/observability/metrics"
	obsmw "leoniportal/internal/observability/middleware"
	"leoniportal/internal/service"
	impl "leoniportal/internal/service/impl"
	"leoniportal/internal/store"
	httpx "leoniportal/internal/transport/http"
	"leoniportal/pkg/db"
)

func main() {
	cfg := config.Load()

	logger := logging.NewLogger(logging.Config{
		ServiceName: "portal",
		Environment: cfg.Environment,
		Level:       cfg.LogLevel,
	})
	slog.SetDefault(logger)
	logger.Info("starting service")

	metrics.MustRegister("portal")

	st := selectStore(cfg)

	// Services
	pw := impl.NewPasswordServiceArgon2id()
	ts := impl.NewTokenServiceHS256(impl.TokenConfig{
		Issuer:     cfg.Issuer,
		TTL:        cfg.SessionTTL,
		SigningKey: []byte(cfg.SigningKey),
	})
	as := impl.NewAuthServiceImpl(st, pw, ts)
	rs := impl.NewResetServiceImpl(st, pw, selectMailer(cfg), cfg.ResetBaseURL)
	ds := impl.NewDocumentServiceImpl(st, cfg.StatusOrderEnforced)
	ps := impl.NewProfileServiceImpl(st)

	router := httpx.NewRouter(httpx.RouterConfig{CORSOrigins: cfg.CORSOrigins}, as, ts, rs, ds, ps, st)
	handler := obsmw.WithRequestID(obsmw.WithMetrics(router))

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("portal listening", "addr", srv.Addr, "store", st.Kind(), "order_enforced", cfg.StatusOrderEnforced)
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// selectStore probes Postgres with a short timeout and falls back to the
// in-memory store when the database is unreachable, so the portal keeps
// serving (without durability) instead of refusing to boot.
func selectStore(cfg config.Config) store.Store {
	gdb, err := db.OpenGorm(db.Config{DSN: cfg.DatabaseURL, LogSQL: cfg.LogSQL})
	if err == nil {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
		defer cancel()
		st := store.NewGorm(gdb)
		if err = st.Ping(ctx); err == nil {
			if err := db.Migrate(gdb); err != nil {
				slog.Error("migration failed", "error", err)
				os.Exit(1)
			}
			slog.Info("connected to postgres")
			return st
		}
	}
	slog.Warn("postgres unreachable, using in-memory store", "error", err)
	return store.NewMemory()
}

func selectMailer(cfg config.Config) service.MailService {
	if cfg.SMTPAddr == "" {
		return mail.NewLog()
	}
	return mail.NewSMTP(mail.SMTPConfig{
		Addr:     cfg.SMTPAddr,
		From:     cfg.SMTPFrom,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
	})
}
