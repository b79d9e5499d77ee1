package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/asseta-api/internal/domain"
	"github.com/jhoicas/asseta-api/internal/domain/entity"
	"github.com/jhoicas/asseta-api/internal/domain/repository"
)

var (
	_ repository.DocumentStore      = (*DocumentStore)(nil)
	_ repository.DocumentCollection = (*DocumentCollection)(nil)
)

// DocumentStore almacén de documentos sobre una tabla JSONB única.
type DocumentStore struct {
	pool *pgxpool.Pool
}

// NewDocumentStore construye el adaptador; la tabla debe existir (ver Migrate).
func NewDocumentStore(pool *pgxpool.Pool) *DocumentStore {
	return &DocumentStore{pool: pool}
}

func (s *DocumentStore) Collection(name string) repository.DocumentCollection {
	return &DocumentCollection{pool: s.pool, name: name}
}

func (s *DocumentStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *DocumentStore) Close(context.Context) error {
	s.pool.Close()
	return nil
}

// DocumentCollection filas de documents con collection = name.
type DocumentCollection struct {
	pool *pgxpool.Pool
	name string
}

func (c *DocumentCollection) Name() string { return c.name }

func (c *DocumentCollection) Insert(ctx context.Context, doc entity.Document) (entity.Document, error) {
	stored := doc.Without(entity.IDField)
	if stored == nil {
		stored = entity.Document{}
	}
	data, err := entity.EncodeJSON(stored)
	if err != nil {
		return nil, err
	}
	id := uuid.NewString()
	query := `INSERT INTO documents (collection, id, data) VALUES ($1, $2::uuid, $3::jsonb)`
	if _, err := c.pool.Exec(ctx, query, c.name, id, data); err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("insert %s: %w", c.name, domain.ErrDuplicate)
		}
		return nil, fmt.Errorf("insert %s: %w: %w", c.name, domain.ErrStorage, err)
	}
	out, err := entity.DecodeJSON(data)
	if err != nil {
		return nil, err
	}
	out[entity.IDField] = id
	return out, nil
}

func (c *DocumentCollection) FindByID(ctx context.Context, id string) (entity.Document, error) {
	if !validID(id) {
		return nil, nil
	}
	query := `SELECT id::text, data FROM documents WHERE collection = $1 AND id = $2::uuid`
	return c.queryOne(ctx, query, c.name, id)
}

func (c *DocumentCollection) FindOne(ctx context.Context, filter repository.Filter) (entity.Document, error) {
	where, args, ok := buildWhere(c.name, filter)
	if !ok {
		return nil, nil
	}
	query := `SELECT id::text, data FROM documents WHERE ` + where + ` ORDER BY created_at LIMIT 1`
	return c.queryOne(ctx, query, args...)
}

func (c *DocumentCollection) Find(ctx context.Context, filter repository.Filter, order *repository.SortOrder) ([]entity.Document, error) {
	where, args, ok := buildWhere(c.name, filter)
	if !ok {
		return []entity.Document{}, nil
	}
	query := `SELECT id::text, data FROM documents WHERE ` + where + ` ORDER BY ` + orderBy(order, len(args)+1)
	if order != nil && order.Field != "" {
		args = append(args, order.Field)
	}
	rows, err := c.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w: %w", c.name, domain.ErrStorage, err)
	}
	defer rows.Close()

	out := []entity.Document{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w: %w", c.name, domain.ErrStorage, err)
		}
		out = append(out, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("find %s: %w: %w", c.name, domain.ErrStorage, err)
	}
	return out, nil
}

func (c *DocumentCollection) UpdateByID(ctx context.Context, id string, patch entity.Document) (entity.Document, error) {
	if !validID(id) {
		return nil, nil
	}
	data, err := entity.EncodeJSON(patch.Without(entity.IDField))
	if err != nil {
		return nil, err
	}
	query := `
		UPDATE documents SET data = data || $3::jsonb
		WHERE collection = $1 AND id = $2::uuid
		RETURNING id::text, data`
	return c.queryOne(ctx, query, c.name, id, data)
}

func (c *DocumentCollection) DeleteByID(ctx context.Context, id string) (bool, error) {
	if !validID(id) {
		return false, nil
	}
	tag, err := c.pool.Exec(ctx, `DELETE FROM documents WHERE collection = $1 AND id = $2::uuid`, c.name, id)
	if err != nil {
		return false, fmt.Errorf("delete %s: %w: %w", c.name, domain.ErrStorage, err)
	}
	return tag.RowsAffected() > 0, nil
}

func (c *DocumentCollection) DeleteMany(ctx context.Context, filter repository.Filter) (int64, error) {
	where, args, ok := buildWhere(c.name, filter)
	if !ok {
		return 0, nil
	}
	tag, err := c.pool.Exec(ctx, `DELETE FROM documents WHERE `+where, args...)
	if err != nil {
		return 0, fmt.Errorf("delete many %s: %w: %w", c.name, domain.ErrStorage, err)
	}
	return tag.RowsAffected(), nil
}

func (c *DocumentCollection) queryOne(ctx context.Context, query string, args ...any) (entity.Document, error) {
	doc, err := scanDocument(c.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query %s: %w: %w", c.name, domain.ErrStorage, err)
	}
	return doc, nil
}

func scanDocument(row pgx.Row) (entity.Document, error) {
	var (
		id  string
		raw []byte
	)
	if err := row.Scan(&id, &raw); err != nil {
		return nil, err
	}
	doc, err := entity.DecodeJSON(raw)
	if err != nil {
		return nil, err
	}
	doc[entity.IDField] = id
	return doc, nil
}

// buildWhere arma la cláusula WHERE con parámetros posicionales. ok es false si
// el filtro pide un _id que no es UUID.
func buildWhere(collection string, filter repository.Filter) (string, []any, bool) {
	clauses := []string{"collection = $1"}
	args := []any{collection}
	for field, cond := range filter {
		if field == entity.IDField {
			s, isStr := cond.(string)
			if !isStr || !validID(s) {
				return "", nil, false
			}
			args = append(args, s)
			clauses = append(clauses, fmt.Sprintf("id = $%d::uuid", len(args)))
			continue
		}
		if lt, isLT := cond.(repository.LessThan); isLT {
			args = append(args, field)
			keyPos := len(args)
			if num, isNum := numeric(lt.Value); isNum {
				args = append(args, num)
				clauses = append(clauses, fmt.Sprintf("(data->>$%d)::numeric < $%d", keyPos, len(args)))
			} else {
				args = append(args, entity.EncodeValue(lt.Value))
				clauses = append(clauses, fmt.Sprintf("data->>$%d < $%d", keyPos, len(args)))
			}
			continue
		}
		data, err := entity.EncodeJSON(entity.Document{field: cond})
		if err != nil {
			return "", nil, false
		}
		args = append(args, data)
		clauses = append(clauses, fmt.Sprintf("data @> $%d::jsonb", len(args)))
	}
	return strings.Join(clauses, " AND "), args, true
}

// orderBy genera el ORDER BY; el nombre del campo viaja como parámetro keyPos.
func orderBy(order *repository.SortOrder, keyPos int) string {
	if order == nil || order.Field == "" {
		return "created_at, id"
	}
	dir := "ASC"
	if order.Desc {
		dir = "DESC"
	}
	return fmt.Sprintf("data->>$%d %s, created_at %s", keyPos, dir, dir)
}

func numeric(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int64:
		return decimal.NewFromInt(n), true
	case float64:
		return decimal.NewFromFloat(n), true
	case decimal.Decimal:
		return n, true
	}
	return decimal.Decimal{}, false
}
