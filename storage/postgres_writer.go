package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"olx-scraper/config"
	"olx-scraper/models"
)

type PostgresWriter struct {
	pool *pgxpool.Pool
}

func NewPostgresWriter(cfg *config.Config) (*PostgresWriter, error) {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.DBUser,
		cfg.DBPassword,
		cfg.DBHost,
		cfg.DBPort,
		cfg.DBName,
		cfg.DBSSLMode,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect postgres: %w", err)
	}

	return &PostgresWriter{pool: pool}, nil
}

func (w *PostgresWriter) Close() {
	if w.pool != nil {
		w.pool.Close()
	}
}

func (w *PostgresWriter) EnsureSchema() error {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	sql := `
	CREATE TABLE IF NOT EXISTS ads (
		id BIGSERIAL PRIMARY KEY,
		link TEXT NOT NULL UNIQUE,
		title TEXT,
		price INTEGER,
		raw_price TEXT,
		location TEXT,
		description TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_ads_price ON ads(price);
	CREATE INDEX IF NOT EXISTS idx_ads_location ON ads(location);
	`

	if _, err := w.pool.Exec(ctx, sql); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}

	return nil
}

func (w *PostgresWriter) WriteBatch(listings []models.ListingDetail) error {
	if len(listings) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	batch := &pgx.Batch{}
	insertSQL := `
	INSERT INTO ads (link, title, price, raw_price, location, description)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (link) DO NOTHING;
	`

	enqueued := 0
	for _, l := range listings {
		link := strings.TrimSpace(l.Link)
		if link == "" {
			continue
		}

		batch.Queue(
			insertSQL,
			link,
			strings.TrimSpace(l.Title),
			l.Price,
			strings.TrimSpace(l.RawPrice),
			strings.TrimSpace(l.Location),
			strings.TrimSpace(l.Description),
		)
		enqueued++
	}

	if enqueued == 0 {
		return nil
	}

	results := w.pool.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < enqueued; i++ {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("batch insert failed at row %d: %w", i, err)
		}
	}

	return nil
}
