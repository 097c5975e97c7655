package query

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/ziljnk/ai-job-seeker/internal/domain"
	"github.com/ziljnk/ai-job-seeker/internal/repository"
	"github.com/ziljnk/ai-job-seeker/pkg/logging"
)

var identifierPattern = regexp.MustCompile(`^[0-9a-fA-F-]{36}$`)

// Profile describes how a collection is searched and sorted
type Profile struct {
	Collection    string
	SearchColumns []string
	Preferred     repository.Order
	EmbedCompany  bool
}

var (
	// Jobs searches postings newest first
	Jobs = Profile{
		Collection:    domain.CollectionJobs,
		SearchColumns: []string{"title", "description", "location", "type"},
		Preferred:     repository.Order{Column: "created_at", Descending: true},
		EmbedCompany:  true,
	}

	// Companies searches companies alphabetically
	Companies = Profile{
		Collection:    domain.CollectionCompanies,
		SearchColumns: []string{"name", "description", "industry", "location"},
		Preferred:     repository.Order{Column: "name"},
	}
)

// KeyColumns names the columns a lookup key is matched against
type KeyColumns struct {
	ID   string
	Name string
}

var (
	// CompanyOfJob resolves a company key on job rows
	CompanyOfJob = KeyColumns{ID: "company_id", Name: "company"}
	// CompanyRow resolves a company key on company rows
	CompanyRow = KeyColumns{ID: "id", Name: "name"}
)

// Request is a single resolver call
type Request struct {
	Key     string
	KeyOn   KeyColumns
	Text    string
	Filters []repository.Predicate
	From    int
	To      int
}

// Resolved is the winning tier's rows with the best known total
type Resolved struct {
	Rows  []domain.Record
	Total int
	Tier  int
}

// Resolver runs filtered, paginated selects with ordering fallback
type Resolver struct {
	store  repository.Store
	logger *logging.Logger
}

// NewResolver creates a Resolver over store
func NewResolver(store repository.Store, logger *logging.Logger) *Resolver {
	return &Resolver{store: store, logger: logger}
}

// IsIdentifier reports whether key looks like a surrogate identifier
func IsIdentifier(key string) bool {
	return identifierPattern.MatchString(key)
}

// KeyPredicate turns a lookup key into an id equality or a name substring match
func KeyPredicate(key string, cols KeyColumns) repository.Predicate {
	if IsIdentifier(key) {
		return repository.Eq(cols.ID, key)
	}
	return repository.Contains(cols.Name, key)
}

// NormalizeText prepares free text for substring matching
func NormalizeText(text string) string {
	return strings.TrimSpace(strings.ReplaceAll(text, ",", " "))
}

// Build assembles the filters shared by every fallback tier. The returned
// query carries no ordering.
func Build(p Profile, req Request) repository.Query {
	q := repository.Query{
		Collection:   p.Collection,
		EmbedCompany: p.EmbedCompany,
		From:         req.From,
		To:           req.To,
		Count:        true,
	}

	if key := strings.TrimSpace(req.Key); key != "" {
		q.Where = append(q.Where, KeyPredicate(key, req.KeyOn))
	}

	for _, f := range req.Filters {
		if strings.TrimSpace(f.Value) == "" {
			continue
		}
		q.Where = append(q.Where, f)
	}

	if text := NormalizeText(req.Text); text != "" {
		for _, col := range p.SearchColumns {
			q.AnyOf = append(q.AnyOf, repository.Contains(col, text))
		}
	}

	return q
}

// Resolve executes the request, degrading from the preferred ordering to
// id ordering (only for a missing column) and finally to no ordering.
func (r *Resolver) Resolve(ctx context.Context, p Profile, req Request) (Resolved, error) {
	base := Build(p, req)

	preferred := p.Preferred
	res, err := r.store.Select(ctx, base.WithOrder(&preferred))
	if err == nil {
		return resolved(res, 1), nil
	}
	if !errors.Is(err, repository.ErrUnknownColumn) {
		return Resolved{}, domain.NewQueryExecutionError(err)
	}

	r.logger.Debug("preferred ordering unavailable, falling back to id",
		"collection", p.Collection, "column", preferred.Column, "err", err)

	byID := repository.Order{Column: "id", Descending: preferred.Descending}
	res, err = r.store.Select(ctx, base.WithOrder(&byID))
	if err == nil {
		return resolved(res, 2), nil
	}

	r.logger.Debug("id ordering failed, querying unordered", "collection", p.Collection, "err", err)

	res, err = r.store.Select(ctx, base.WithOrder(nil))
	if err != nil {
		return Resolved{}, domain.NewQueryExecutionError(err)
	}
	return resolved(res, 3), nil
}

func resolved(res repository.Result, tier int) Resolved {
	total := len(res.Rows)
	if res.Total != nil {
		total = *res.Total
	}

	rows := res.Rows
	if rows == nil {
		rows = []domain.Record{}
	}

	return Resolved{Rows: rows, Total: total, Tier: tier}
}
