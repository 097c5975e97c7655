package repository

import (
	"context"
	"errors"

	"github.com/ziljnk/ai-job-seeker/internal/domain"
)

// ErrUnknownColumn is reported by a Store when a query references a column
// the deployed schema does not have.
var ErrUnknownColumn = errors.New("column does not exist")

// Op is a predicate comparison
type Op int

const (
	// OpEq is exact equality on the column's text form
	OpEq Op = iota
	// OpContains is a case-insensitive substring match
	OpContains
)

// Predicate is a single column condition
type Predicate struct {
	Column string
	Op     Op
	Value  string
}

// Eq builds an equality predicate
func Eq(column, value string) Predicate {
	return Predicate{Column: column, Op: OpEq, Value: value}
}

// Contains builds a case-insensitive substring predicate
func Contains(column, value string) Predicate {
	return Predicate{Column: column, Op: OpContains, Value: value}
}

// Order is a single-column sort
type Order struct {
	Column     string
	Descending bool
}

// Query selects a window of a collection. Where predicates are AND-ed,
// AnyOf predicates are OR-ed together and then AND-ed with the rest.
// From and To are zero-based and inclusive.
type Query struct {
	Collection   string
	EmbedCompany bool
	Where        []Predicate
	AnyOf        []Predicate
	Order        *Order
	From         int
	To           int
	Count        bool
}

// Limit is the number of rows in the window
func (q Query) Limit() int {
	if q.To < q.From {
		return 0
	}
	return q.To - q.From + 1
}

// WithOrder returns a copy of q sorted by o; a nil order drops sorting
func (q Query) WithOrder(o *Order) Query {
	q.Order = o
	return q
}

// Result is a page of rows. Total is nil when the store could not count.
type Result struct {
	Rows  []domain.Record
	Total *int
}

// Store is the record store the search and creation layers run against
type Store interface {
	Select(ctx context.Context, q Query) (Result, error)
	Insert(ctx context.Context, collection string, values domain.Record) (domain.Record, error)
}
