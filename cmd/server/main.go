package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"
	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/cmcs/claimflow/internal/application/service"
	"github.com/cmcs/claimflow/internal/config"
	"github.com/cmcs/claimflow/internal/domain/claim"
	"github.com/cmcs/claimflow/internal/export"
	"github.com/cmcs/claimflow/internal/infrastructure/persistence/repository"
	"github.com/cmcs/claimflow/internal/infrastructure/persistence/sqlite"
	httpadapter "github.com/cmcs/claimflow/internal/interfaces/http"
	"github.com/cmcs/claimflow/internal/storage"
	"github.com/cmcs/claimflow/pkg/database"
	"github.com/cmcs/claimflow/pkg/utils"
)

// appLogger adapts the sugared zap logger to the keysAndValues logging
// interface the application services expect.
type appLogger struct {
	s *zap.SugaredLogger
}

func (l appLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Infow(msg, keysAndValues...)
}

func (l appLogger) Error(msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, keysAndValues...)
}

func main() {
	_ = gotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting claim workflow service", zap.Int("port", cfg.Server.Port))

	db, err := database.Open(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to open database", zap.Error(err))
	}
	defer db.Close()

	migrator := database.NewMigrator(db, logger)
	if err := migrator.Run(cfg.Database.MigrationsDir); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	// Repositories and transaction manager
	txManager := sqlite.NewDB(db, logger)
	claimRepo := repository.NewClaimRepository(db, logger)
	invoiceRepo := repository.NewInvoiceRepository(db, logger)
	lecturerRepo := repository.NewLecturerRepository(db, logger)
	historyRepo := repository.NewHistoryRepository(db, logger)

	// Document store with upload policy
	policy := storage.DefaultUploadPolicy()
	policy.MaxSizeBytes = cfg.Upload.MaxSizeMB * 1024 * 1024
	documentStore := storage.NewLocalDocumentStore(cfg.Upload.Dir, policy, logger)

	// Application services
	sugar := appLogger{logger.Sugar()}
	clock := service.SystemClock()
	invoiceParams := claim.InvoiceParams{
		TaxRate:   decimal.NewFromFloat(cfg.Invoice.TaxRate),
		DueInDays: cfg.Invoice.DueInDays,
	}
	claimService := service.NewClaimService(claimRepo, lecturerRepo, historyRepo, txManager, clock, sugar)
	reviewService := service.NewReviewService(claimRepo, historyRepo, txManager, clock, sugar)
	hrService := service.NewHRService(claimRepo, invoiceRepo, historyRepo, txManager, invoiceParams, clock, sugar)

	exporter := export.NewInvoiceExporter(cfg.Export.Institution, logger)

	handlers := httpadapter.NewHandlers(claimService, reviewService, hrService, documentStore, exporter, sugar)
	server := httpadapter.NewServer(httpadapter.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, handlers, sugar)

	go func() {
		if err := server.Start(); err != nil {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	}
	logger.Info("Server stopped")
}
