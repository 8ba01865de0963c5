// Command migrate applies the SQL files in migrations/ in lexical order,
// tracking applied versions in schema_migrations.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kevin07696/payment-gateway/internal/adapters/postgres"
	"github.com/kevin07696/payment-gateway/internal/config"
	"github.com/kevin07696/payment-gateway/pkg/observability"
)

func main() {
	dir := flag.String("dir", "migrations", "directory containing .sql migration files")
	flag.Parse()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger, err := observability.NewLogger(cfg.Logger.Level, cfg.Logger.Development)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database.URL, 2, 1)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	defer pool.Close()

	if _, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`); err != nil {
		logger.Fatal("create schema_migrations failed", zap.Error(err))
	}

	entries, err := os.ReadDir(*dir)
	if err != nil {
		logger.Fatal("read migrations directory failed", zap.Error(err))
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	for _, name := range files {
		var applied bool
		if err := pool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE version = $1)`, name).Scan(&applied); err != nil {
			logger.Fatal("check migration failed", zap.String("version", name), zap.Error(err))
		}
		if applied {
			logger.Info("migration already applied", zap.String("version", name))
			continue
		}

		sql, err := os.ReadFile(filepath.Join(*dir, name))
		if err != nil {
			logger.Fatal("read migration failed", zap.String("version", name), zap.Error(err))
		}

		tx, err := pool.Begin(ctx)
		if err != nil {
			logger.Fatal("begin migration failed", zap.String("version", name), zap.Error(err))
		}
		if _, err := tx.Exec(ctx, string(sql)); err != nil {
			_ = tx.Rollback(ctx)
			logger.Fatal("apply migration failed", zap.String("version", name), zap.Error(err))
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO schema_migrations (version) VALUES ($1)`, name); err != nil {
			_ = tx.Rollback(ctx)
			logger.Fatal("record migration failed", zap.String("version", name), zap.Error(err))
		}
		if err := tx.Commit(ctx); err != nil {
			logger.Fatal("commit migration failed", zap.String("version", name), zap.Error(err))
		}
		logger.Info("migration applied", zap.String("version", name))
	}

	logger.Info("migrations up to date", zap.Int("total", len(files)))
}
