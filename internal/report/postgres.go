package report

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore keeps one row per date in the daily_reports table,
// upserted so a regeneration replaces the previous report in place.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	_, err = pool.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS daily_reports (
            report_date text PRIMARY KEY,
            payload     bytea NOT NULL,
            updated_at  timestamptz NOT NULL DEFAULT now()
        )
    `)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensuring daily_reports table: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Get(ctx context.Context, date string) ([]byte, error) {
	var data []byte
	err := s.pool.QueryRow(ctx,
		`SELECT payload FROM daily_reports WHERE report_date = $1`, date,
	).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying report row: %w", err)
	}
	return data, nil
}

func (s *PostgresStore) Put(ctx context.Context, date string, data []byte) error {
	_, err := s.pool.Exec(ctx, `
        INSERT INTO daily_reports (report_date, payload, updated_at)
        VALUES ($1, $2, now())
        ON CONFLICT (report_date) DO UPDATE
            SET payload = EXCLUDED.payload, updated_at = now()
    `, date, data)
	if err != nil {
		return fmt.Errorf("upserting report row: %w", err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, date string) error {
	if _, err := s.pool.Exec(ctx,
		`DELETE FROM daily_reports WHERE report_date = $1`, date,
	); err != nil {
		return fmt.Errorf("deleting report row: %w", err)
	}
	return nil
}

func (s *PostgresStore) Dates(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT report_date FROM daily_reports ORDER BY report_date`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing report rows: %w", err)
	}
	defer rows.Close()

	var dates []string
	for rows.Next() {
		var date string
		if err := rows.Scan(&date); err != nil {
			return nil, fmt.Errorf("scanning report date: %w", err)
		}
		dates = append(dates, date)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating report rows: %w", err)
	}
	return dates, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
