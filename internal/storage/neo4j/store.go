package neo4j

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/ziljnk/ai-job-seeker/internal/domain"
	"github.com/ziljnk/ai-job-seeker/internal/repository"
	pkgneo4j "github.com/ziljnk/ai-job-seeker/pkg/neo4j"
)

var _ repository.Store = (*Store)(nil)

// Store implements repository.Store on a Neo4j graph. Jobs and companies are
// nodes joined on company_id. Node properties cannot hold maps, so metadata
// is stored as a JSON string.
type Store struct {
	client *pkgneo4j.Client
	clock  func() time.Time
}

// NewStore creates a Store with a Neo4j client
func NewStore(client *pkgneo4j.Client) *Store {
	return &Store{client: client, clock: time.Now}
}

type page struct {
	rows  []domain.Record
	total *int
}

// Select runs the page and count queries in one read transaction
func (s *Store) Select(ctx context.Context, q repository.Query) (repository.Result, error) {
	pageQ, countQ, err := buildSelect(q)
	if err != nil {
		return repository.Result{}, err
	}

	out, err := s.client.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, pageQ.query, pageQ.params)
		if err != nil {
			return nil, err
		}

		records, err := result.Collect(ctx)
		if err != nil {
			return nil, err
		}

		p := page{rows: make([]domain.Record, 0, len(records))}
		for _, rec := range records {
			p.rows = append(p.rows, rowFrom(rec, q.EmbedCompany))
		}

		if countQ != nil {
			result, err := tx.Run(ctx, countQ.query, countQ.params)
			if err != nil {
				return nil, err
			}
			single, err := result.Single(ctx)
			if err != nil {
				return nil, err
			}
			if v, ok := single.Get("total"); ok {
				if n, ok := v.(int64); ok {
					total := int(n)
					p.total = &total
				}
			}
		}

		return p, nil
	})
	if err != nil {
		return repository.Result{}, fmt.Errorf("neo4j select %s: %w", q.Collection, err)
	}

	p := out.(page)
	return repository.Result{Rows: p.rows, Total: p.total}, nil
}

// Insert creates a node, assigning id and created_at
func (s *Store) Insert(ctx context.Context, collection string, values domain.Record) (domain.Record, error) {
	props, err := toProperties(values)
	if err != nil {
		return nil, err
	}
	if _, ok := props["id"]; !ok {
		props["id"] = uuid.NewString()
	}
	if _, ok := props["created_at"]; !ok {
		props["created_at"] = s.clock().UTC().Format(time.RFC3339Nano)
	}

	stmt, err := buildInsert(collection, props)
	if err != nil {
		return nil, err
	}

	out, err := s.client.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, stmt.query, stmt.params)
		if err != nil {
			return nil, err
		}
		single, err := result.Single(ctx)
		if err != nil {
			return nil, err
		}
		return rowFrom(single, false), nil
	})
	if err != nil {
		return nil, fmt.Errorf("neo4j insert %s: %w", collection, err)
	}

	return out.(domain.Record), nil
}

// toProperties drops nulls and encodes maps so the node can store them
func toProperties(values domain.Record) (map[string]any, error) {
	props := make(map[string]any, len(values))
	for k, v := range values {
		switch t := v.(type) {
		case nil:
			continue
		case map[string]any:
			raw, err := json.Marshal(t)
			if err != nil {
				return nil, fmt.Errorf("encode %s: %w", k, err)
			}
			props[k] = string(raw)
		case int:
			props[k] = int64(t)
		default:
			props[k] = v
		}
	}
	return props, nil
}

func rowFrom(rec *neo4j.Record, embedCompany bool) domain.Record {
	row := domain.Record{}
	if v, ok := rec.Get("row"); ok {
		if m, ok := v.(map[string]any); ok {
			row = fromProperties(m)
		}
	}

	if embedCompany {
		row[domain.CompanyInfoKey] = nil
		if v, ok := rec.Get("company"); ok {
			if m, ok := v.(map[string]any); ok {
				row[domain.CompanyInfoKey] = domain.ProjectCompany(fromProperties(m))
			}
		}
	}
	return row
}

func fromProperties(props map[string]any) domain.Record {
	row := make(domain.Record, len(props))
	for k, v := range props {
		row[k] = v
	}

	if s, ok := row["metadata"].(string); ok {
		var meta map[string]any
		if err := json.Unmarshal([]byte(s), &meta); err == nil {
			row["metadata"] = meta
		}
	}
	return row
}
