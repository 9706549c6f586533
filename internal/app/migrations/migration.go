package migrations

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Executor runs DDL statements.
type Executor interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Migration is one versioned schema change.
type Migration struct {
	Version string
	Name    string
	Up      func(ctx context.Context, exec Executor) error
	Down    func(ctx context.Context, exec Executor) error
}

// ID is the version and name joined the way the tracking table stores them.
func (m Migration) ID() string {
	return m.Version + "-" + m.Name
}

// All returns every known migration in version order.
func All() []Migration {
	all := []Migration{
		Base(),
		InstructorReviews(),
		MembershipGroupLink(),
		UniqueNames(),
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Version < all[j].Version })
	return all
}

// ForeignKey is a named foreign key constraint.
type ForeignKey struct {
	Name     string
	Table    string
	Column   string
	RefTable string
	RefCol   string
	OnUpdate string
	OnDelete string
}

// Default referential actions of every relation except the membership one.
const (
	Cascade = "CASCADE"
	SetNull = "SET NULL"
)

func (fk ForeignKey) addSQL() string {
	return fmt.Sprintf(
		"ALTER TABLE %s ADD CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s (%s) ON UPDATE %s ON DELETE %s",
		ident(fk.Table), ident(fk.Name), ident(fk.Column), ident(fk.RefTable), ident(fk.RefCol),
		fk.OnUpdate, fk.OnDelete,
	)
}

func (fk ForeignKey) dropSQL() string {
	return fmt.Sprintf("ALTER TABLE %s DROP CONSTRAINT IF EXISTS %s", ident(fk.Table), ident(fk.Name))
}

// ident quotes an identifier, preserving camelCase column names.
func ident(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

// Column is one column of a CREATE TABLE statement.
type Column struct {
	Name       string
	Definition string
}

// Table is a CREATE TABLE statement.
type Table struct {
	Name    string
	Columns []Column
}

func (t Table) createSQL() string {
	defs := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		defs = append(defs, ident(c.Name)+" "+c.Definition)
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", ident(t.Name), strings.Join(defs, ", "))
}

func (t Table) dropSQL() string {
	return fmt.Sprintf("DROP TABLE IF EXISTS %s", ident(t.Name))
}

// timestamps returns the two non-null timestamp columns, camelCase or
// snake_case depending on the table.
func timestamps(camelCase bool) []Column {
	created, updated := "created_at", "updated_at"
	if camelCase {
		created, updated = "createdAt", "updatedAt"
	}
	return []Column{
		{created, "TIMESTAMPTZ NOT NULL"},
		{updated, "TIMESTAMPTZ NOT NULL"},
	}
}

func serialID() Column {
	return Column{"id", "SERIAL PRIMARY KEY"}
}

// lockedExecutor serializes statements onto an executor that is not safe
// for concurrent use, such as a pgx.Tx.
type lockedExecutor struct {
	mu   sync.Mutex
	exec Executor
}

func (l *lockedExecutor) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.exec.Exec(ctx, sql, args...)
}
