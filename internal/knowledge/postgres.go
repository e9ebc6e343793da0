package knowledge

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore reads interpretations from PostgreSQL. The table is seeded
// by external tooling; this client only queries it.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := initSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return &PostgresStore{pool: pool}, nil
}

func initSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmt := `CREATE TABLE IF NOT EXISTS numerology_interpretations (
		id TEXT PRIMARY KEY,
		number_type TEXT NOT NULL,
		number_value INT NOT NULL,
		category TEXT NOT NULL,
		content TEXT NOT NULL
	);`
	if _, err := pool.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	if _, err := pool.Exec(ctx,
		`CREATE INDEX IF NOT EXISTS idx_interpretations_key ON numerology_interpretations (number_type, number_value, category);`,
	); err != nil {
		return fmt.Errorf("init schema index: %w", err)
	}
	return nil
}

func (s *PostgresStore) Find(ctx context.Context, q Query) ([]Interpretation, error) {
	sql := `SELECT number_type, number_value, category, content
	        FROM numerology_interpretations
	        WHERE number_type=$1 AND number_value=$2`
	args := []any{q.NumberType, q.NumberValue}
	if q.Category != "" {
		sql += ` AND category=$3`
		args = append(args, q.Category)
	}
	sql += ` ORDER BY category ASC`

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query interpretations: %w", err)
	}
	defer rows.Close()

	out := make([]Interpretation, 0, 8)
	for rows.Next() {
		var it Interpretation
		if err := rows.Scan(&it.NumberType, &it.NumberValue, &it.Category, &it.Content); err != nil {
			return nil, fmt.Errorf("scan interpretation row: %w", err)
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate interpretation rows: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
