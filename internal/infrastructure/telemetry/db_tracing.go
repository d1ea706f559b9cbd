package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig holds configuration for database tracing.
type DBTracingConfig struct {
	Enabled         bool
	LogFullSQL      bool // include bound variables; development only
	SlowQueryThresh time.Duration
	DBName          string
}

type queryStartKey struct{}

// RegisterDBTracing installs otelgorm on db plus callbacks that mark
// errors and slow statements on the statement span.
func RegisterDBTracing(db *gorm.DB, cfg DBTracingConfig, logger *zap.Logger) error {
	if !cfg.Enabled {
		return nil
	}
	if cfg.SlowQueryThresh <= 0 {
		cfg.SlowQueryThresh = 200 * time.Millisecond
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(cfg.DBName)}
	if !cfg.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	before := func(tx *gorm.DB) {
		if tx.Statement.Context != nil {
			tx.Statement.Context = context.WithValue(tx.Statement.Context, queryStartKey{}, time.Now())
		}
	}
	after := func(tx *gorm.DB) { annotateStatement(tx, cfg.SlowQueryThresh) }

	cb := db.Callback()
	for _, err := range []error{
		cb.Create().Before("gorm:create").Register("preload_timing:before_create", before),
		cb.Create().After("gorm:create").Register("preload_timing:after_create", after),
		cb.Query().Before("gorm:query").Register("preload_timing:before_query", before),
		cb.Query().After("gorm:query").Register("preload_timing:after_query", after),
		cb.Update().Before("gorm:update").Register("preload_timing:before_update", before),
		cb.Update().After("gorm:update").Register("preload_timing:after_update", after),
		cb.Delete().Before("gorm:delete").Register("preload_timing:before_delete", before),
		cb.Delete().After("gorm:delete").Register("preload_timing:after_delete", after),
		cb.Row().Before("gorm:row").Register("preload_timing:before_row", before),
		cb.Row().After("gorm:row").Register("preload_timing:after_row", after),
		cb.Raw().Before("gorm:raw").Register("preload_timing:before_raw", before),
		cb.Raw().After("gorm:raw").Register("preload_timing:after_raw", after),
	} {
		if err != nil {
			return err
		}
	}

	logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", cfg.LogFullSQL),
		zap.Duration("slow_query_threshold", cfg.SlowQueryThresh),
	)
	return nil
}

func annotateStatement(tx *gorm.DB, slow time.Duration) {
	ctx := tx.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	if tx.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", tx.Statement.Table))
	}
	span.SetAttributes(attribute.Int64("db.rows_affected", tx.Statement.RowsAffected))

	if tx.Error != nil && !errors.Is(tx.Error, gorm.ErrRecordNotFound) {
		span.SetStatus(codes.Error, tx.Error.Error())
		span.RecordError(tx.Error)
	}

	if start, ok := ctx.Value(queryStartKey{}).(time.Time); ok {
		if elapsed := time.Since(start); elapsed > slow {
			span.SetAttributes(
				attribute.Bool("db.slow_query", true),
				attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
			)
		}
	}
}
