package migrations

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

type recordingExecutor struct {
	mu     sync.Mutex
	stmts  []string
	failOn string
}

func (r *recordingExecutor) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stmts = append(r.stmts, sql)
	if r.failOn != "" && strings.Contains(sql, r.failOn) {
		return pgconn.CommandTag{}, errors.New("boom")
	}
	return pgconn.CommandTag{}, nil
}

func TestBaseUpCreatesTablesBeforeConstraints(t *testing.T) {
	rec := &recordingExecutor{}
	if err := Base().Up(context.Background(), rec); err != nil {
		t.Fatalf("Up() error = %v", err)
	}

	tables := BaseTables()
	fks := BaseForeignKeys()
	if len(rec.stmts) != len(tables)+len(fks) {
		t.Fatalf("got %d statements, want %d", len(rec.stmts), len(tables)+len(fks))
	}

	var created []string
	for _, stmt := range rec.stmts[:len(tables)] {
		if !strings.HasPrefix(stmt, "CREATE TABLE") {
			t.Fatalf("expected table creation first, got %q", stmt)
		}
		created = append(created, stmt)
	}
	sort.Strings(created)
	if !strings.Contains(strings.Join(created, "\n"), `"users"`) {
		t.Error("users table was not created")
	}

	// Constraints are added sequentially, in declaration order.
	for i, fk := range fks {
		stmt := rec.stmts[len(tables)+i]
		if !strings.Contains(stmt, `ADD CONSTRAINT "`+fk.Name+`"`) {
			t.Errorf("statement %d = %q, want constraint %s", i, stmt, fk.Name)
		}
	}
}

func TestBaseForeignKeyCascadeRules(t *testing.T) {
	names := map[string]bool{}
	for _, fk := range BaseForeignKeys() {
		names[fk.Name] = true
		if fk.OnUpdate != Cascade {
			t.Errorf("%s: OnUpdate = %s, want CASCADE", fk.Name, fk.OnUpdate)
		}
		wantDelete := SetNull
		if fk.Name == "memberships_id_fkey" {
			wantDelete = Cascade
		}
		if fk.OnDelete != wantDelete {
			t.Errorf("%s: OnDelete = %s, want %s", fk.Name, fk.OnDelete, wantDelete)
		}
	}

	for _, want := range []string{
		"configurations_registration_question_set_id_fkey",
		"configurations_review_question_set1_id_fkey",
		"configurations_review_question_set2_id_fkey",
		"memberships_id_fkey",
		"registrations_configuration_id_fkey",
		"registrations_studentStudentNumber_fkey",
	} {
		if !names[want] {
			t.Errorf("missing constraint %s", want)
		}
	}
}

func TestBaseTimestampNaming(t *testing.T) {
	camel := map[string]bool{
		"configurations": false, "memberships": false,
		"groups": true, "registration_question_sets": true, "registrations": true,
		"review_question_sets": true, "topic_dates": true, "topics": true, "users": true,
	}

	for _, table := range BaseTables() {
		want, ok := camel[table.Name]
		if !ok {
			t.Errorf("unexpected table %s", table.Name)
			continue
		}
		stmt := table.createSQL()
		hasCamel := strings.Contains(stmt, `"createdAt" TIMESTAMPTZ NOT NULL`) &&
			strings.Contains(stmt, `"updatedAt" TIMESTAMPTZ NOT NULL`)
		hasSnake := strings.Contains(stmt, `"created_at" TIMESTAMPTZ NOT NULL`) &&
			strings.Contains(stmt, `"updated_at" TIMESTAMPTZ NOT NULL`)
		if want && !hasCamel || !want && !hasSnake {
			t.Errorf("%s: wrong timestamp columns in %q", table.Name, stmt)
		}
	}
}

func TestBaseDownRemovesConstraintsFirst(t *testing.T) {
	rec := &recordingExecutor{}
	if err := Base().Down(context.Background(), rec); err != nil {
		t.Fatalf("Down() error = %v", err)
	}

	fks := len(BaseForeignKeys())
	for i, stmt := range rec.stmts {
		isDrop := strings.HasPrefix(stmt, "DROP TABLE")
		if i < fks && isDrop {
			t.Errorf("table dropped before constraints were removed: %q", stmt)
		}
		if i >= fks && !isDrop {
			t.Errorf("statement %d = %q, want DROP TABLE", i, stmt)
		}
	}
}

func TestBaseUpStopsOnTableFailure(t *testing.T) {
	rec := &recordingExecutor{failOn: `CREATE TABLE IF NOT EXISTS "topics"`}
	err := Base().Up(context.Background(), rec)
	if err == nil || !strings.Contains(err.Error(), "create table topics") {
		t.Fatalf("Up() error = %v, want topics failure", err)
	}
	for _, stmt := range rec.stmts {
		if strings.Contains(stmt, "ADD CONSTRAINT") {
			t.Fatalf("constraint added after a failed table creation: %q", stmt)
		}
	}
}

func TestMembershipGroupLinkReplacesConstraint(t *testing.T) {
	rec := &recordingExecutor{}
	if err := MembershipGroupLink().Up(context.Background(), rec); err != nil {
		t.Fatalf("Up() error = %v", err)
	}
	if len(rec.stmts) != 3 {
		t.Fatalf("got %d statements, want 3", len(rec.stmts))
	}
	if !strings.Contains(rec.stmts[1], `DROP CONSTRAINT IF EXISTS "memberships_id_fkey"`) {
		t.Errorf("second statement = %q", rec.stmts[1])
	}
	want := `ADD CONSTRAINT "memberships_group_id_fkey" FOREIGN KEY ("group_id") REFERENCES "groups" ("id") ON UPDATE CASCADE ON DELETE CASCADE`
	if !strings.Contains(rec.stmts[2], want) {
		t.Errorf("third statement = %q", rec.stmts[2])
	}
}

func TestUniqueNamesConstraints(t *testing.T) {
	rec := &recordingExecutor{}
	if err := UniqueNames().Up(context.Background(), rec); err != nil {
		t.Fatalf("Up() error = %v", err)
	}
	joined := strings.Join(rec.stmts, "\n")
	for _, name := range []string{GroupNameKey, ReviewQuestionSetNameKey} {
		if !strings.Contains(joined, `"`+name+`" UNIQUE`) {
			t.Errorf("missing unique constraint %s", name)
		}
	}
}

func TestAllOrderedAndUnique(t *testing.T) {
	seen := map[string]bool{}
	prev := ""
	for _, m := range All() {
		if seen[m.Version] {
			t.Errorf("duplicate version %s", m.Version)
		}
		seen[m.Version] = true
		if m.Version <= prev {
			t.Errorf("version %s not after %s", m.Version, prev)
		}
		prev = m.Version
		if m.Up == nil || m.Down == nil {
			t.Errorf("%s lacks Up or Down", m.ID())
		}
	}
	if All()[0].ID() != "20190118105525-base" {
		t.Errorf("first migration = %s", All()[0].ID())
	}
}
