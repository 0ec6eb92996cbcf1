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

	"github.com/jackc/pgx/v5/pgxpool"

	"libraryapi/internal/auth"
	"libraryapi/internal/book"
	"libraryapi/internal/borrowing"
	"libraryapi/internal/config"
	"libraryapi/internal/dashboard"
	"libraryapi/internal/digital"
	"libraryapi/internal/fine"
	"libraryapi/internal/ingest"
	"libraryapi/internal/jobs"
	"libraryapi/internal/logging"
	"libraryapi/internal/member"
	"libraryapi/internal/platform/blobstore"
	"libraryapi/internal/platform/database"
	"libraryapi/internal/recommend"
	"libraryapi/internal/session"
	"libraryapi/internal/user"
	"libraryapi/internal/wishlist"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("cannot load configuration")
	}
	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})

	if err := run(cfg); err != nil {
		logging.Fatal().Err(err).Msg("server stopped")
	}
}

// services are the long-lived pieces the background jobs need besides the router.
type services struct {
	borrowings *borrowing.Service
	sessions   *session.Service
	blacklist  *session.BlacklistPostgresRepo
}

func wire(cfg *config.Config, pool *pgxpool.Pool) (handlers, services, error) {
	timeout := cfg.Database.QueryTimeout

	blobs, err := blobstore.NewLocal(cfg.Storage.UploadDir)
	if err != nil {
		return handlers{}, services{}, fmt.Errorf("open upload dir: %w", err)
	}

	bookRepo := book.NewPostgresRepo(pool, timeout)
	bookService := book.NewService(bookRepo)

	rules := borrowing.Rules{
		LoanDays:  cfg.Lending.LoanDays,
		MaxActive: cfg.Lending.MaxActiveLoans,
		Fines:     fine.Policy{DailyRate: fine.Amount(cfg.Lending.DailyFineCents)},
	}
	borrowingService := borrowing.NewService(borrowing.NewPostgresRepo(pool, timeout), rules, time.Now)

	blacklist := session.NewBlacklistPostgresRepo(pool, timeout)
	sessionService := session.NewService(blacklist, cfg.Auth.TokenTTL)
	userService := user.NewService(user.NewPostgresRepo(pool, timeout), user.WithTokenRevoker(sessionService))
	memberService := member.NewService(member.NewPostgresRepo(pool, timeout))
	authService := auth.NewService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, userService, memberService, sessionService)

	digitalService := digital.NewService(digital.NewPostgresRepo(pool, timeout), blobs, bookRepo)
	recommendService := recommend.NewService(bookRepo, recommend.NewPostgresRepo(pool, timeout))
	ingestService := ingest.NewService(bookService, ingest.NewPostgresRepo(pool, timeout))

	h := handlers{
		auth:       auth.NewHTTPHandler(authService),
		books:      book.NewHTTPHandler(bookService),
		imports:    ingest.NewHTTPHandler(ingestService),
		borrowings: borrowing.NewHTTPHandler(borrowingService),
		digital:    digital.NewHTTPHandler(digitalService, cfg.Storage.MaxUploadBytes),
		recommend:  recommend.NewHTTPHandler(recommendService),
		wishlist:   wishlist.NewHTTPHandler(wishlist.NewService(wishlist.NewPostgresRepo(pool, timeout))),
		members:    member.NewHTTPHandler(memberService),
		users:      user.NewHTTPHandler(userService),
		dashboard:  dashboard.NewHTTPHandler(dashboard.NewService(dashboard.NewPostgresRepo(pool, timeout), time.Now)),
	}
	return h, services{borrowings: borrowingService, sessions: sessionService, blacklist: blacklist}, nil
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := database.Open(ctx, cfg.Database.DSN)
	if err != nil {
		return err
	}
	defer pool.Close()
	logging.Info().Str("dsn", database.RedactDSN(cfg.Database.DSN)).Msg("database connection OK")

	h, svc, err := wire(cfg, pool)
	if err != nil {
		return err
	}

	scheduler := jobs.NewScheduler()
	if err := scheduler.Add("fine-recalculation", cfg.Fines.Schedule, jobs.RecalculateFines(svc.borrowings)); err != nil {
		return err
	}
	if err := scheduler.Add("token-cleanup", jobs.TokenCleanupSchedule, jobs.CleanupTokens(svc.sessions)); err != nil {
		return err
	}
	scheduler.Start()

	router := newRouter(h, routerDeps{
		jwtSecret:  cfg.Auth.JWTSecret,
		blacklist:  svc.blacklist,
		db:         pool,
		cors:       cfg.Server.CORSOrigins,
		enableHSTS: cfg.Server.EnableHSTS,
		maxBody:    cfg.Server.MaxBodyBytes,
		rateRPS:    cfg.Server.RateLimitRPS,
		rateBurst:  cfg.Server.RateBurst,
	})

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", cfg.Server.Addr).Int("jobs", scheduler.Len()).Msg("starting server")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		logging.Info().Msg("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	scheduler.Stop(shutdownCtx)
	return httpServer.Shutdown(shutdownCtx)
}
