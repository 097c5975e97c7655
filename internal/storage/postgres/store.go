package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ziljnk/ai-job-seeker/internal/domain"
	"github.com/ziljnk/ai-job-seeker/internal/repository"
)

// undefinedColumn is the SQLSTATE for a reference to a missing column
const undefinedColumn = "42703"

var _ repository.Store = (*Store)(nil)

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store implements repository.Store on PostgreSQL
type Store struct {
	pool querier
}

// NewStore creates a Store using pool
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Select runs q and decodes the jsonb rows
func (s *Store) Select(ctx context.Context, q repository.Query) (repository.Result, error) {
	stmt := buildSelect(q)

	rows, err := s.pool.Query(ctx, stmt.sql, stmt.args...)
	if err != nil {
		return repository.Result{}, translate(err)
	}
	defer rows.Close()

	var (
		out   = make([]domain.Record, 0, q.Limit())
		total *int64
	)
	for rows.Next() {
		var (
			raw   []byte
			count *int64
		)
		if err := rows.Scan(&raw, &count); err != nil {
			return repository.Result{}, fmt.Errorf("scan %s row: %w", q.Collection, err)
		}

		rec, err := decode(raw)
		if err != nil {
			return repository.Result{}, err
		}
		out = append(out, rec)
		total = count
	}
	if err := rows.Err(); err != nil {
		return repository.Result{}, translate(err)
	}

	// the window count rides on the rows, so a page past the end needs its
	// own count
	if q.Count && total == nil && len(out) == 0 {
		count := buildCount(q)
		if err := s.pool.QueryRow(ctx, count.sql, count.args...).Scan(&total); err != nil {
			return repository.Result{}, translate(err)
		}
	}

	res := repository.Result{Rows: out}
	if total != nil {
		n := int(*total)
		res.Total = &n
	}
	return res, nil
}

// Insert stores one row and returns it as persisted
func (s *Store) Insert(ctx context.Context, collection string, values domain.Record) (domain.Record, error) {
	stmt := buildInsert(collection, values)

	var raw []byte
	if err := s.pool.QueryRow(ctx, stmt.sql, stmt.args...).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("insert into %s returned no row", collection)
		}
		return nil, translate(err)
	}

	return decode(raw)
}

func decode(raw []byte) (domain.Record, error) {
	var rec domain.Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decode row: %w", err)
	}
	return rec, nil
}

// translate marks missing-column failures so the resolver can fall back
func translate(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == undefinedColumn {
		return fmt.Errorf("%s: %w", pgErr.Message, repository.ErrUnknownColumn)
	}
	return err
}
