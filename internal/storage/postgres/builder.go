package postgres

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/ziljnk/ai-job-seeker/internal/domain"
	"github.com/ziljnk/ai-job-seeker/internal/repository"
)

// statement is a parameterized SQL statement
type statement struct {
	sql  string
	args []any
}

type builder struct {
	sb   strings.Builder
	args []any
}

func (b *builder) bind(v any) string {
	b.args = append(b.args, v)
	return fmt.Sprintf("$%d", len(b.args))
}

func column(alias, name string) string {
	return pgx.Identifier{alias, name}.Sanitize()
}

// buildSelect renders q. Rows come back as jsonb so the query works whatever
// columns the table actually has; the company join reads company_id through
// jsonb for the same reason.
func buildSelect(q repository.Query) statement {
	b := &builder{}

	b.sb.WriteString("SELECT to_jsonb(t)")
	if q.EmbedCompany {
		key := b.bind(domain.CompanyInfoKey)
		fields := b.bind(domain.CompanyInfoFields)
		fmt.Fprintf(&b.sb,
			" || jsonb_build_object(%s::text, (SELECT jsonb_object_agg(e.key, e.value) FROM jsonb_each(to_jsonb(c)) AS e WHERE e.key = ANY(%s::text[])))",
			key, fields)
	}
	b.sb.WriteString(" AS row")

	if q.Count {
		b.sb.WriteString(", count(*) OVER () AS total")
	} else {
		b.sb.WriteString(", NULL::bigint AS total")
	}

	fmt.Fprintf(&b.sb, " FROM %s AS t", pgx.Identifier{q.Collection}.Sanitize())
	if q.EmbedCompany {
		fmt.Fprintf(&b.sb, " LEFT JOIN %s AS c ON c.id::text = to_jsonb(t)->>'company_id'",
			pgx.Identifier{domain.CollectionCompanies}.Sanitize())
	}

	b.where(q)

	if q.Order != nil {
		dir := "ASC"
		if q.Order.Descending {
			dir = "DESC"
		}
		fmt.Fprintf(&b.sb, " ORDER BY %s %s", column("t", q.Order.Column), dir)
	}

	fmt.Fprintf(&b.sb, " LIMIT %s OFFSET %s", b.bind(q.Limit()), b.bind(max(q.From, 0)))

	return statement{sql: b.sb.String(), args: b.args}
}

// buildCount counts the rows matching q's filters, ignoring its window
func buildCount(q repository.Query) statement {
	b := &builder{}
	fmt.Fprintf(&b.sb, "SELECT count(*) FROM %s AS t", pgx.Identifier{q.Collection}.Sanitize())
	b.where(q)
	return statement{sql: b.sb.String(), args: b.args}
}

func (b *builder) where(q repository.Query) {
	var conds []string
	for _, p := range q.Where {
		conds = append(conds, b.predicate(p))
	}
	if len(q.AnyOf) > 0 {
		ors := make([]string, 0, len(q.AnyOf))
		for _, p := range q.AnyOf {
			ors = append(ors, b.predicate(p))
		}
		conds = append(conds, "("+strings.Join(ors, " OR ")+")")
	}
	if len(conds) > 0 {
		b.sb.WriteString(" WHERE " + strings.Join(conds, " AND "))
	}
}

func (b *builder) predicate(p repository.Predicate) string {
	col := column("t", p.Column) + "::text"
	switch p.Op {
	case repository.OpContains:
		return fmt.Sprintf("%s ILIKE %s", col, b.bind("%"+escapeLike(p.Value)+"%"))
	default:
		return fmt.Sprintf("%s = %s", col, b.bind(p.Value))
	}
}

// buildInsert renders a single-row insert returning the stored row
func buildInsert(collection string, values domain.Record) statement {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	b := &builder{}
	cols := make([]string, 0, len(keys))
	params := make([]string, 0, len(keys))
	for _, k := range keys {
		cols = append(cols, pgx.Identifier{k}.Sanitize())
		params = append(params, b.bind(values[k]))
	}

	fmt.Fprintf(&b.sb, "INSERT INTO %s AS t (%s) VALUES (%s) RETURNING to_jsonb(t)",
		pgx.Identifier{collection}.Sanitize(),
		strings.Join(cols, ", "),
		strings.Join(params, ", "))

	return statement{sql: b.sb.String(), args: b.args}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
