package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/topicreg/internal/app/models"
	"github.com/yigit/topicreg/internal/db"
)

// ErrNotFound is returned when no row matches a lookup, update or delete.
var ErrNotFound = errors.New("record not found")

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Order sorts query results by one column.
type Order struct {
	Column string
	Desc   bool
}

// Query selects rows. A nil Where matches every row and a zero Limit means
// no limit.
type Query struct {
	Where   sq.Sqlizer
	OrderBy []Order
	Limit   uint64
}

// Store is the per-entity data access contract.
type Store[T any] interface {
	Create(ctx context.Context, rec *T) error
	FindOne(ctx context.Context, q Query) (*T, error)
	FindAll(ctx context.Context, q Query) ([]T, error)
	Update(ctx context.Context, rec *T) error
	// Upsert inserts rec, or on a key conflict overwrites only the listed
	// columns of the existing row. rec is refreshed from the stored row.
	Upsert(ctx context.Context, rec *T, columns ...string) error
	Reload(ctx context.Context, rec *T) error
	Destroy(ctx context.Context, rec *T) error
}

// Table implements Store for one table on top of a Postgres querier.
type Table[T any] struct {
	db     db.Querier
	schema models.Schema[T]
	now    func() time.Time
}

// NewTable creates a store for the table described by schema.
func NewTable[T any](q db.Querier, schema models.Schema[T]) *Table[T] {
	return &Table[T]{
		db:     q,
		schema: schema,
		now:    time.Now,
	}
}

// Ident quotes a column or table name so camelCase names keep their case.
func Ident(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

// Eq matches rows whose column equals value.
func Eq(column string, value any) sq.Eq {
	return sq.Eq{Ident(column): value}
}

// NotEq matches rows whose column differs from value.
func NotEq(column string, value any) sq.NotEq {
	return sq.NotEq{Ident(column): value}
}

func (t *Table[T]) returning() string {
	return "RETURNING " + strings.Join(t.quotedColumns(), ", ")
}

func (t *Table[T]) quotedColumns() []string {
	all := t.schema.AllColumns()
	out := make([]string, len(all))
	for i, c := range all {
		out[i] = Ident(c)
	}
	return out
}

func (t *Table[T]) insert(rec *T, now time.Time) sq.InsertBuilder {
	var cols []string
	var vals []any
	if !t.schema.AutoKey {
		cols = append(cols, Ident(t.schema.Key))
		vals = append(vals, t.schema.KeyOf(rec))
	}
	for _, c := range t.schema.Columns {
		cols = append(cols, Ident(c))
	}
	vals = append(vals, t.schema.Values(rec)...)
	cols = append(cols, Ident(t.schema.CreatedAt), Ident(t.schema.UpdatedAt))
	vals = append(vals, now, now)

	return psql.Insert(Ident(t.schema.Table)).Columns(cols...).Values(vals...)
}

// Create inserts rec and fills its key and timestamps from the stored row.
func (t *Table[T]) Create(ctx context.Context, rec *T) error {
	query, args, err := t.insert(rec, t.now().UTC()).Suffix(t.returning()).ToSql()
	if err != nil {
		return fmt.Errorf("build insert into %s: %w", t.schema.Table, err)
	}
	return t.db.QueryRow(ctx, query, args...).Scan(t.schema.Targets(rec)...)
}

// Upsert inserts rec or updates the listed columns on a key conflict.
func (t *Table[T]) Upsert(ctx context.Context, rec *T, columns ...string) error {
	sets := make([]string, 0, len(columns)+1)
	for _, c := range columns {
		sets = append(sets, fmt.Sprintf("%s = EXCLUDED.%s", Ident(c), Ident(c)))
	}
	sets = append(sets, fmt.Sprintf("%s = EXCLUDED.%s", Ident(t.schema.UpdatedAt), Ident(t.schema.UpdatedAt)))

	suffix := fmt.Sprintf("ON CONFLICT (%s) DO UPDATE SET %s %s",
		Ident(t.schema.Key), strings.Join(sets, ", "), t.returning())

	query, args, err := t.insert(rec, t.now().UTC()).Suffix(suffix).ToSql()
	if err != nil {
		return fmt.Errorf("build upsert into %s: %w", t.schema.Table, err)
	}
	return t.db.QueryRow(ctx, query, args...).Scan(t.schema.Targets(rec)...)
}

func (t *Table[T]) selectBuilder(q Query) sq.SelectBuilder {
	b := psql.Select(t.quotedColumns()...).From(Ident(t.schema.Table))
	if q.Where != nil {
		b = b.Where(q.Where)
	}
	for _, o := range q.OrderBy {
		dir := "ASC"
		if o.Desc {
			dir = "DESC"
		}
		b = b.OrderBy(Ident(o.Column) + " " + dir)
	}
	if q.Limit > 0 {
		b = b.Limit(q.Limit)
	}
	return b
}

// FindAll returns every row matching q.
func (t *Table[T]) FindAll(ctx context.Context, q Query) ([]T, error) {
	query, args, err := t.selectBuilder(q).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select from %s: %w", t.schema.Table, err)
	}

	rows, err := t.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]T, 0)
	for rows.Next() {
		var rec T
		if err := rows.Scan(t.schema.Targets(&rec)...); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// FindOne returns the first row matching q, or ErrNotFound.
func (t *Table[T]) FindOne(ctx context.Context, q Query) (*T, error) {
	q.Limit = 1
	query, args, err := t.selectBuilder(q).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select from %s: %w", t.schema.Table, err)
	}

	var rec T
	if err := t.db.QueryRow(ctx, query, args...).Scan(t.schema.Targets(&rec)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// Update writes every column of rec and bumps its modification time.
func (t *Table[T]) Update(ctx context.Context, rec *T) error {
	b := psql.Update(Ident(t.schema.Table))
	values := t.schema.Values(rec)
	for i, c := range t.schema.Columns {
		b = b.Set(Ident(c), values[i])
	}
	b = b.Set(Ident(t.schema.UpdatedAt), t.now().UTC()).
		Where(Eq(t.schema.Key, t.schema.KeyOf(rec))).
		Suffix(t.returning())

	query, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("build update of %s: %w", t.schema.Table, err)
	}

	if err := t.db.QueryRow(ctx, query, args...).Scan(t.schema.Targets(rec)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// Reload re-reads rec from the store.
func (t *Table[T]) Reload(ctx context.Context, rec *T) error {
	fresh, err := t.FindOne(ctx, Query{Where: Eq(t.schema.Key, t.schema.KeyOf(rec))})
	if err != nil {
		return err
	}
	*rec = *fresh
	return nil
}

// Destroy deletes rec's row, returning ErrNotFound if it was already gone.
func (t *Table[T]) Destroy(ctx context.Context, rec *T) error {
	query, args, err := psql.Delete(Ident(t.schema.Table)).
		Where(Eq(t.schema.Key, t.schema.KeyOf(rec))).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete from %s: %w", t.schema.Table, err)
	}

	tag, err := t.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
