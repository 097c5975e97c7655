package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ziljnk/ai-job-seeker/internal/domain"
	"github.com/ziljnk/ai-job-seeker/internal/repository"
)

var _ repository.Store = (*Store)(nil)

// DefaultColumns is the schema the store enforces unless overridden
var DefaultColumns = map[string][]string{
	domain.CollectionJobs: {
		"id", "title", "description", "location", "company", "company_id",
		"type", "salary", "metadata", "jd", "created_by", "created_at",
	},
	domain.CollectionCompanies: {
		"id", "name", "website", "logo_url", "location", "industry",
		"size", "description", "created_at",
	},
}

// Store is an in-process record store. It enforces a column set per
// collection so schema drift behaves like it does in a real database.
type Store struct {
	mu      sync.RWMutex
	columns map[string]map[string]bool
	rows    map[string][]domain.Record
	clock   func() time.Time
}

// Option configures Store
type Option func(*Store)

// WithColumns replaces the schema of collection
func WithColumns(collection string, cols ...string) Option {
	return func(s *Store) {
		set := make(map[string]bool, len(cols))
		for _, c := range cols {
			set[c] = true
		}
		s.columns[collection] = set
	}
}

// WithRows seeds collection
func WithRows(collection string, rows ...domain.Record) Option {
	return func(s *Store) {
		for _, r := range rows {
			s.rows[collection] = append(s.rows[collection], clone(r))
		}
	}
}

// WithClock sets the clock used for created_at
func WithClock(clock func() time.Time) Option {
	return func(s *Store) {
		s.clock = clock
	}
}

// New creates a Store
func New(opts ...Option) *Store {
	s := &Store{
		columns: make(map[string]map[string]bool),
		rows:    make(map[string][]domain.Record),
		clock:   time.Now,
	}
	for collection, cols := range DefaultColumns {
		WithColumns(collection, cols...)(s)
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Select filters, sorts and windows a collection
func (s *Store) Select(ctx context.Context, q repository.Query) (repository.Result, error) {
	if err := ctx.Err(); err != nil {
		return repository.Result{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	cols, ok := s.columns[q.Collection]
	if !ok {
		return repository.Result{}, fmt.Errorf("relation %q does not exist", q.Collection)
	}

	for _, p := range append(append([]repository.Predicate{}, q.Where...), q.AnyOf...) {
		if !cols[p.Column] {
			return repository.Result{}, unknownColumn(q.Collection, p.Column)
		}
	}
	if q.Order != nil && !cols[q.Order.Column] {
		return repository.Result{}, unknownColumn(q.Collection, q.Order.Column)
	}

	matched := make([]domain.Record, 0)
	for _, row := range s.rows[q.Collection] {
		if matches(row, q) {
			matched = append(matched, row)
		}
	}

	if q.Order != nil {
		col, desc := q.Order.Column, q.Order.Descending
		sort.SliceStable(matched, func(i, j int) bool {
			c := compare(matched[i][col], matched[j][col])
			if desc {
				return c > 0
			}
			return c < 0
		})
	}

	total := len(matched)
	page := make([]domain.Record, 0, q.Limit())
	for i := q.From; i <= q.To && i < total; i++ {
		if i < 0 {
			continue
		}
		row := clone(matched[i])
		if q.EmbedCompany {
			row[domain.CompanyInfoKey] = s.companyFor(row)
		}
		page = append(page, row)
	}

	res := repository.Result{Rows: page}
	if q.Count {
		res.Total = &total
	}
	return res, nil
}

// Insert appends a row, assigning id and created_at when the schema has them
func (s *Store) Insert(ctx context.Context, collection string, values domain.Record) (domain.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cols, ok := s.columns[collection]
	if !ok {
		return nil, fmt.Errorf("relation %q does not exist", collection)
	}

	row := clone(values)
	for k := range row {
		if !cols[k] {
			return nil, unknownColumn(collection, k)
		}
	}
	if _, ok := row["id"]; !ok && cols["id"] {
		row["id"] = uuid.NewString()
	}
	if _, ok := row["created_at"]; !ok && cols["created_at"] {
		row["created_at"] = s.clock().UTC()
	}

	s.rows[collection] = append(s.rows[collection], row)
	return clone(row), nil
}

func (s *Store) companyFor(job domain.Record) any {
	id := text(job["company_id"])
	if id == "" {
		return nil
	}
	for _, c := range s.rows[domain.CollectionCompanies] {
		if text(c["id"]) == id {
			return domain.ProjectCompany(c)
		}
	}
	return nil
}

func matches(row domain.Record, q repository.Query) bool {
	for _, p := range q.Where {
		if !holds(row, p) {
			return false
		}
	}
	if len(q.AnyOf) == 0 {
		return true
	}
	for _, p := range q.AnyOf {
		if holds(row, p) {
			return true
		}
	}
	return false
}

func holds(row domain.Record, p repository.Predicate) bool {
	v, ok := row[p.Column]
	if !ok || v == nil {
		return false
	}
	switch p.Op {
	case repository.OpEq:
		return text(v) == p.Value
	case repository.OpContains:
		return strings.Contains(strings.ToLower(text(v)), strings.ToLower(p.Value))
	default:
		return false
	}
}

// compare orders values with nulls last in ascending order
func compare(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}

	if ta, ok := a.(time.Time); ok {
		if tb, ok := b.(time.Time); ok {
			return ta.Compare(tb)
		}
	}
	if fa, ok := number(a); ok {
		if fb, ok := number(b); ok {
			switch {
			case fa < fb:
				return -1
			case fa > fb:
				return 1
			}
			return 0
		}
	}
	return strings.Compare(text(a), text(b))
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case time.Time:
		return t.Format(time.RFC3339Nano)
	default:
		return fmt.Sprint(t)
	}
}

func unknownColumn(collection, column string) error {
	return fmt.Errorf("column %s.%s: %w", collection, column, repository.ErrUnknownColumn)
}

func clone(r domain.Record) domain.Record {
	out := make(domain.Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
