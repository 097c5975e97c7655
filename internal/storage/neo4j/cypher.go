package neo4j

import (
	"fmt"
	"strings"

	"github.com/ziljnk/ai-job-seeker/internal/domain"
	"github.com/ziljnk/ai-job-seeker/internal/repository"
)

var labels = map[string]string{
	domain.CollectionJobs:      "Job",
	domain.CollectionCompanies: "Company",
}

func labelFor(collection string) (string, error) {
	label, ok := labels[collection]
	if !ok {
		return "", fmt.Errorf("neo4j: unknown collection %q", collection)
	}
	return label, nil
}

// cypher is a parameterized Cypher statement
type cypher struct {
	query  string
	params map[string]any
}

// buildSelect renders the page query and, when counting, the count query
// sharing the same filter. Property names travel as parameters and are read
// with dynamic property access, so nothing user supplied is spliced into
// the statement.
func buildSelect(q repository.Query) (page cypher, count *cypher, err error) {
	label, err := labelFor(q.Collection)
	if err != nil {
		return cypher{}, nil, err
	}

	params := map[string]any{}
	where := whereClause(q, params)

	var sb strings.Builder
	fmt.Fprintf(&sb, "MATCH (t:%s)%s", label, where)
	if q.EmbedCompany {
		sb.WriteString(" OPTIONAL MATCH (c:Company) WHERE c.id = t.company_id")
		sb.WriteString(" WITH t, head(collect(c)) AS c")
		sb.WriteString(" RETURN properties(t) AS row, CASE WHEN c IS NULL THEN null ELSE properties(c) END AS company")
	} else {
		sb.WriteString(" RETURN properties(t) AS row, null AS company")
	}

	if q.Order != nil {
		dir := ""
		if q.Order.Descending {
			dir = " DESC"
		}
		params["orderBy"] = q.Order.Column
		fmt.Fprintf(&sb, " ORDER BY t[$orderBy]%s", dir)
	}

	sb.WriteString(" SKIP $skip LIMIT $limit")
	params["skip"] = int64(max(q.From, 0))
	params["limit"] = int64(q.Limit())

	page = cypher{query: sb.String(), params: params}

	if q.Count {
		countParams := make(map[string]any, len(params))
		for k, v := range params {
			if k == "skip" || k == "limit" || k == "orderBy" {
				continue
			}
			countParams[k] = v
		}
		count = &cypher{
			query:  fmt.Sprintf("MATCH (t:%s)%s RETURN count(t) AS total", label, where),
			params: countParams,
		}
	}

	return page, count, nil
}

func whereClause(q repository.Query, params map[string]any) string {
	var conds []string
	n := 0

	add := func(p repository.Predicate) string {
		k, v := fmt.Sprintf("k%d", n), fmt.Sprintf("v%d", n)
		n++
		params[k] = p.Column
		params[v] = p.Value
		if p.Op == repository.OpContains {
			return fmt.Sprintf("toLower(toString(t[$%s])) CONTAINS toLower($%s)", k, v)
		}
		return fmt.Sprintf("toString(t[$%s]) = $%s", k, v)
	}

	for _, p := range q.Where {
		conds = append(conds, add(p))
	}
	if len(q.AnyOf) > 0 {
		ors := make([]string, 0, len(q.AnyOf))
		for _, p := range q.AnyOf {
			ors = append(ors, add(p))
		}
		conds = append(conds, "("+strings.Join(ors, " OR ")+")")
	}

	if len(conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conds, " AND ")
}

// buildInsert creates a node with the given properties
func buildInsert(collection string, props map[string]any) (cypher, error) {
	label, err := labelFor(collection)
	if err != nil {
		return cypher{}, err
	}

	return cypher{
		query:  fmt.Sprintf("CREATE (t:%s) SET t = $props RETURN properties(t) AS row", label),
		params: map[string]any{"props": props},
	}, nil
}
