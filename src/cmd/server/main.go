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

	"github.com/api-sage/core-ledger/src/internal/adapter/http/controller"
	"github.com/api-sage/core-ledger/src/internal/adapter/http/middleware"
	"github.com/api-sage/core-ledger/src/internal/adapter/http/router"
	"github.com/api-sage/core-ledger/src/internal/adapter/notify"
	"github.com/api-sage/core-ledger/src/internal/adapter/repository/implementations"
	"github.com/api-sage/core-ledger/src/internal/adapter/repository/memory"
	"github.com/api-sage/core-ledger/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/core-ledger/src/internal/config"
	"github.com/api-sage/core-ledger/src/internal/jobs"
	"github.com/api-sage/core-ledger/src/internal/logger"
	"github.com/api-sage/core-ledger/src/internal/usecase/services"
)

func main() {
	if err := run(); err != nil {
		logger.Error("server exited", err, nil)
		logger.Sync()
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := logger.Init(cfg.LogLevel); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	uow, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	notifier, closeNotifier, err := openNotifier(cfg)
	if err != nil {
		return err
	}
	defer closeNotifier()
	dispatcher := notify.NewDispatcher(notifier, cfg.NotifyBuffer, cfg.NotifyWorkers)

	accounts := services.NewAccountService(uow)
	postings := services.NewPostingService(uow, dispatcher)
	loans := services.NewLoanService(uow, postings, cfg.ProvisionalRate())
	interest := services.NewInterestService(uow, postings, cfg.BatchConcurrency)
	orders := services.NewStandingOrderService(uow, postings, cfg.BatchConcurrency)
	bills := services.NewBillPaymentService(uow, postings)

	scheduler, err := jobs.NewScheduler(interest, orders, jobs.Config{
		InterestSchedule:      cfg.InterestSchedule,
		StandingOrderSchedule: cfg.StandingOrderSchedule,
		InterestPeriodDays:    cfg.InterestPeriodDays,
	})
	if err != nil {
		return err
	}

	guard := channelGuard(cfg)

	handler := router.New(guard,
		controller.NewAccountController(accounts, postings, interest, cfg.InterestPeriodDays),
		controller.NewTransactionController(postings),
		controller.NewLoanController(loans),
		controller.NewInterestController(interest, cfg.InterestPeriodDays),
		controller.NewStandingOrderController(orders),
		controller.NewBillPaymentController(bills),
	)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("http server listening", logger.Fields{"addr": cfg.HTTPAddr, "store": cfg.StoreDriver})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()
	scheduler.Start()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received", nil)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown failed", err, nil)
	}
	if err := scheduler.Stop(shutdownCtx); err != nil {
		logger.Error("job scheduler stop failed", err, nil)
	}
	if err := dispatcher.Close(shutdownCtx); err != nil {
		logger.Error("notification dispatcher close failed", err, logger.Fields{"dropped": dispatcher.Dropped()})
	}

	logger.Info("server stopped", logger.Fields{"droppedEvents": dispatcher.Dropped()})
	return nil
}

// channelGuard is nil only when the operator opted out of authentication.
// Config loading already refuses an empty key hash otherwise.
func channelGuard(cfg config.Config) middleware.Guard {
	if cfg.AllowUnauthenticated && cfg.ChannelKeyHash == "" {
		logger.Warn("ALLOW_UNAUTHENTICATED is set, routes are unauthenticated", nil)
		return nil
	}
	return middleware.BasicAuth(cfg.ChannelID, cfg.ChannelKeyHash, cfg.ChannelCapabilities)
}

func openStore(ctx context.Context, cfg config.Config) (repo_interfaces.UnitOfWork, func(), error) {
	if cfg.StoreDriver == config.StoreDriverMemory {
		logger.Warn("using in-memory store, data is lost on exit", nil)
		return memory.NewStore(), func() {}, nil
	}

	startupCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	db, err := implementations.Open(startupCtx, cfg.DatabaseDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	if err := implementations.RunMigrations(startupCtx, db, cfg.MigrationsDir); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("run migrations: %w", err)
	}

	return implementations.NewUnitOfWork(db), func() { _ = db.Close() }, nil
}

func openNotifier(cfg config.Config) (notify.Notifier, func(), error) {
	if cfg.AMQPURL == "" {
		return notify.LogNotifier{}, func() {}, nil
	}

	notifier, err := notify.DialAMQP(cfg.AMQPURL, cfg.NotifyExchange)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to broker: %w", err)
	}
	return notifier, func() { _ = notifier.Close() }, nil
}
