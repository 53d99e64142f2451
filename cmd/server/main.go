package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log/slog"

	"empowerorphansweb/internal/adminui"
	"empowerorphansweb/internal/auth"
	"empowerorphansweb/internal/config"
	"empowerorphansweb/internal/domain"
	"empowerorphansweb/internal/httpapi"
	"empowerorphansweb/internal/ratelimit"
	"empowerorphansweb/internal/service"
	"empowerorphansweb/internal/siteui"
	"empowerorphansweb/internal/storage"
	"empowerorphansweb/internal/store/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}

	logger := newLogger(cfg)

	media := storage.NewDiskStore(cfg.MediaDir)
	pageCache := siteui.NewPageCache()

	var (
		authSvc     *service.AuthService
		carouselSvc *service.CarouselService
		eventsSvc   *service.EventsService
		donationSvc *service.DonationService
		roles       service.RolesStore
		guard       *ratelimit.LoginGuard
		sweeper     *ratelimit.Sweeper
	)

	if cfg.DBDSN != "" {
		pgPool, err := postgres.Open(context.Background(), cfg.DBDSN)
		if err != nil {
			logger.Error("db open failed", "err", err)
			os.Exit(1)
		}
		defer pgPool.Close()

		users := postgres.NewUsersStore(pgPool)
		sessions := postgres.NewSessionsStore(pgPool)
		adminUsers := postgres.NewAdminUsersStore(pgPool)
		slides := postgres.NewHeroSlidesStore(pgPool)
		events := postgres.NewEventsStore(pgPool)
		donations := postgres.NewDonationProgressStore(pgPool)
		rateLimitLog := postgres.NewRateLimitLogStore(pgPool)
		loginAttempts := postgres.NewLoginAttemptsStore(pgPool)

		if err := bootstrapAdminUser(context.Background(), logger, users, adminUsers, cfg.AdminBootstrapEmail, cfg.AdminBootstrapPassword); err != nil {
			logger.Error("bootstrap admin failed", "err", err)
			os.Exit(1)
		}

		limiter := &ratelimit.Limiter{Ledger: rateLimitLog, Logger: logger}
		guard = &ratelimit.LoginGuard{Attempts: loginAttempts, Logger: logger}
		sweeper = ratelimit.NewSweeper(
			[]ratelimit.Pruner{rateLimitLog, loginAttempts},
			ratelimit.WithLogger(logger),
		)

		roles = adminUsers
		authSvc = &service.AuthService{
			Users:      users,
			Sessions:   sessions,
			SessionTTL: cfg.SessionTTL,
		}
		carouselSvc = &service.CarouselService{
			Roles:  adminUsers,
			Slides: slides,
			Media:  media,
			Limits: limiter,
			Cache:  pageCache,
			Logger: logger,
		}
		eventsSvc = &service.EventsService{
			Roles:  adminUsers,
			Events: events,
			Limits: limiter,
			Cache:  pageCache,
		}
		donationSvc = &service.DonationService{
			Roles:     adminUsers,
			Donations: donations,
			Limits:    limiter,
			Cache:     pageCache,
			Goal:      cfg.DonationGoal,
		}
	}

	publicURL := ""
	if cfg.PublicURL != nil {
		publicURL = cfg.PublicURL.String()
	}

	site := siteui.New(siteui.Opts{
		Logger:    logger,
		Carousel:  carouselSvc,
		Events:    eventsSvc,
		Donations: donationSvc,
		Cache:     pageCache,
		PublicURL: publicURL,
	})

	root := http.NewServeMux()
	root.Handle("/", site)
	root.Handle("GET /media/", http.StripPrefix("/media/", http.FileServer(http.Dir(media.Root()))))

	if cfg.AdminEnabled() {
		logger.Info("admin ui enabled")
		adminRouter := adminui.New(adminui.Opts{
			Logger:       logger,
			Auth:         authSvc,
			Roles:        roles,
			Carousel:     carouselSvc,
			Events:       eventsSvc,
			Donations:    donationSvc,
			Guard:        guard,
			CookieCodec:  auth.NewCookieCodec([]byte(cfg.CookieSecret)),
			CookieSecure: cfg.CookieSecure(),
			SessionTTL:   cfg.SessionTTL,
		})
		root.Handle("/admin", adminRouter)
		root.Handle("/admin/", adminRouter)
	} else {
		logger.Info("admin ui disabled", "db_enabled", cfg.DBDSN != "")
		root.HandleFunc("/admin/", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte("admin ui disabled: set APP_DB_DSN and APP_COOKIE_SECRET (and restart the server)\n"))
		})
	}

	var handler http.Handler = root
	handler = httpapi.Recoverer(logger, cfg.IsProd())(handler)
	handler = httpapi.RequestLogger(logger)(handler)
	handler = httpapi.RequestID()(handler)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()
	if sweeper != nil {
		go func() { _ = sweeper.Start(sweepCtx) }()
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "env", cfg.Env, "addr", cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		stopSweeper()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "err", err)
			os.Exit(1)
		}
	}
}

// bootstrapAdminUser creates the first admin account from env config so a
// fresh deployment is reachable without touching the database by hand.
func bootstrapAdminUser(ctx context.Context, logger *slog.Logger, users *postgres.UsersStore, admins *postgres.AdminUsersStore, email, password string) error {
	if password == "" {
		return nil
	}
	if logger == nil {
		logger = slog.Default()
	}
	if len(password) < 12 {
		return errors.New("APP_ADMIN_BOOTSTRAP_PASSWORD: must be at least 12 characters")
	}
	if email == "" {
		return errors.New("admin bootstrap: email is required")
	}

	existing, err := users.GetUserByEmail(ctx, email)
	if err == nil {
		logger.Info("admin bootstrap: user already exists", "email", email)
		return admins.GrantAdmin(ctx, existing.ID)
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("admin bootstrap: lookup user: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("admin bootstrap: hash password: %w", err)
	}

	created, err := users.CreateUser(ctx, email, hash)
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			logger.Info("admin bootstrap: user already exists", "email", email)
			return nil
		}
		return fmt.Errorf("admin bootstrap: create user: %w", err)
	}

	if err := admins.GrantAdmin(ctx, created.ID); err != nil {
		return fmt.Errorf("admin bootstrap: grant admin: %w", err)
	}

	logger.Info("admin bootstrap: created admin user", "email", email)
	return nil
}

func newLogger(cfg config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "info", "":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.IsProd() {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
