package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"
	"unicode/utf8"

	"github.com/preload/backend/internal/infrastructure/config"
	csvimport "github.com/preload/backend/internal/infrastructure/import"
	"github.com/preload/backend/internal/infrastructure/logger"
	"github.com/preload/backend/internal/infrastructure/persistence"
	"go.uber.org/zap"
)

// sapimport loads a purchase-order extract into the sap_purchase_order_lines
// mirror that reconciliation reads from.
func main() {
	var (
		file         string
		delimiter    string
		decimalComma bool
		accountWidth int
		maxErrors    int
		dryRun       bool
		logLevel     string
	)
	flag.StringVar(&file, "file", "", "Path to the purchase-order extract")
	flag.StringVar(&delimiter, "delimiter", ";", "Field delimiter")
	flag.BoolVar(&decimalComma, "decimal-comma", true, "Numbers use ',' as decimal separator")
	flag.IntVar(&accountWidth, "account-width", 10, "Zero-pad numeric provider accounts to this width; 0 disables")
	flag.IntVar(&maxErrors, "max-errors", 100, "Row errors to report")
	flag.BoolVar(&dryRun, "dry-run", false, "Validate the extract without writing")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	log, err := logger.New(&logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if utf8.RuneCountInString(delimiter) != 1 {
		log.Error("Delimiter must be a single character", zap.String("delimiter", delimiter))
		os.Exit(2)
	}
	d, _ := utf8.DecodeRuneInString(delimiter)

	cfg := csvimport.LoaderConfig{
		Delimiter:    d,
		DecimalComma: decimalComma,
		MaxErrors:    maxErrors,
		AccountWidth: accountWidth,
	}
	if err := run(ctx, log, file, cfg, dryRun); err != nil {
		log.Error("Import failed", zap.Error(err))
		logger.Sync(log)
		os.Exit(1)
	}
}

func run(ctx context.Context, log *zap.Logger, file string, loaderCfg csvimport.LoaderConfig, dryRun bool) error {
	if file == "" {
		return errors.New("-file is required")
	}
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	start := time.Now()
	res, err := csvimport.ReadPurchaseOrderLines(f, loaderCfg)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", file, err)
	}
	for _, rowErr := range res.Errors.Errors() {
		log.Warn("Rejected row",
			zap.Int("row", rowErr.Row),
			zap.String("column", rowErr.Column),
			zap.String("code", rowErr.Code),
			zap.String("value", rowErr.Value),
			zap.String("message", rowErr.Message))
	}
	log.Info("Extract parsed",
		zap.String("file", file),
		zap.Int("rows", res.Rows),
		zap.Int("valid", len(res.Lines)),
		zap.Int("rejected", res.Errors.TotalCount()),
		zap.Bool("windows_1252", res.Latin1),
		zap.Any("errors_by_code", res.Errors.Summary()))

	if dryRun || len(res.Lines) == 0 {
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level), cfg.Telemetry.DBSlowQueryThresh)
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Warn("Error closing database", zap.Error(err))
		}
	}()

	repo := persistence.NewGormPurchaseOrderLineRepository(db.DB)
	if err := repo.Upsert(ctx, res.Lines); err != nil {
		return fmt.Errorf("failed to store purchase-order lines: %w", err)
	}
	log.Info("Purchase-order lines stored",
		zap.Int("lines", len(res.Lines)),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}
