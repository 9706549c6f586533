package repositories

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/yigit/topicreg/internal/app/models"
)

type fakeQuerier struct {
	sql  string
	args []any
	tag  pgconn.CommandTag
	scan func(dest ...any) error
}

func (f *fakeQuerier) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.sql, f.args = sql, args
	return f.tag, nil
}

func (f *fakeQuerier) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	f.sql, f.args = sql, args
	return nil, errors.New("not supported")
}

func (f *fakeQuerier) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	f.sql, f.args = sql, args
	return fakeRow{f}
}

type fakeRow struct{ f *fakeQuerier }

func (r fakeRow) Scan(dest ...any) error {
	if r.f.scan == nil {
		return nil
	}
	return r.f.scan(dest...)
}

var fixedNow = time.Date(2019, 1, 18, 10, 55, 25, 0, time.UTC)

func newTestTable[T any](q *fakeQuerier, schema models.Schema[T]) *Table[T] {
	table := NewTable(q, schema)
	table.now = func() time.Time { return fixedNow }
	return table
}

func assertContains(t *testing.T, sql string, parts ...string) {
	t.Helper()
	for _, p := range parts {
		if !strings.Contains(sql, p) {
			t.Errorf("SQL %q does not contain %q", sql, p)
		}
	}
}

func TestTableCreate(t *testing.T) {
	q := &fakeQuerier{scan: func(dest ...any) error {
		if len(dest) != 4 {
			return errors.New("unexpected target count")
		}
		*dest[0].(*int64) = 7
		return nil
	}}
	groups := newTestTable(q, models.GroupSchema)

	g := &models.Group{GroupName: "Alpha"}
	if err := groups.Create(context.Background(), g); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if g.ID != 7 {
		t.Errorf("ID = %d, want 7", g.ID)
	}

	assertContains(t, q.sql,
		`INSERT INTO "groups"`,
		`"group_name","createdAt","updatedAt"`,
		`RETURNING "id", "group_name", "createdAt", "updatedAt"`,
	)
	if len(q.args) != 3 || q.args[0] != "Alpha" || q.args[1] != fixedNow || q.args[2] != fixedNow {
		t.Errorf("args = %v", q.args)
	}
}

func TestTableCreateNaturalKey(t *testing.T) {
	q := &fakeQuerier{}
	users := newTestTable(q, models.UserSchema)

	if err := users.Create(context.Background(), &models.User{StudentNumber: "014000000"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	assertContains(t, q.sql, `"student_number","username"`)
	if q.args[0] != "014000000" {
		t.Errorf("first arg = %v, want the student number", q.args[0])
	}
}

func TestTableFindOneSelect(t *testing.T) {
	q := &fakeQuerier{}
	sets := newTestTable(q, models.ReviewQuestionSetSchema)

	if _, err := sets.FindOne(context.Background(), Query{Where: Eq("name", "Midterm")}); err != nil {
		t.Fatalf("FindOne() error = %v", err)
	}
	assertContains(t, q.sql, `FROM "review_question_sets"`, `WHERE "name" = $1`, `LIMIT 1`)
}

func TestTableFindOneNotFound(t *testing.T) {
	q := &fakeQuerier{scan: func(...any) error { return pgx.ErrNoRows }}
	dates := newTestTable(q, models.TopicDateSchema)

	_, err := dates.FindOne(context.Background(), Query{OrderBy: []Order{{Column: "createdAt", Desc: true}}})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("FindOne() error = %v, want ErrNotFound", err)
	}
	assertContains(t, q.sql, `ORDER BY "createdAt" DESC`)
}

func TestTableUpdate(t *testing.T) {
	q := &fakeQuerier{}
	sets := newTestTable(q, models.ReviewQuestionSetSchema)

	rec := &models.ReviewQuestionSet{QuestionSet: models.QuestionSet{ID: 3, Name: "Final"}}
	if err := sets.Update(context.Background(), rec); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	assertContains(t, q.sql,
		`UPDATE "review_question_sets" SET "name" = $1, "questions" = $2, "updatedAt" = $3`,
		`WHERE "id" = $4`,
		`RETURNING`,
	)
	if q.args[3] != int64(3) {
		t.Errorf("key arg = %v, want 3", q.args[3])
	}
}

func TestTableUpdateMissingRow(t *testing.T) {
	q := &fakeQuerier{scan: func(...any) error { return pgx.ErrNoRows }}
	sets := newTestTable(q, models.ReviewQuestionSetSchema)

	err := sets.Update(context.Background(), &models.ReviewQuestionSet{})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Update() error = %v, want ErrNotFound", err)
	}
}

func TestTableDestroy(t *testing.T) {
	q := &fakeQuerier{tag: pgconn.NewCommandTag("DELETE 0")}
	sets := newTestTable(q, models.ReviewQuestionSetSchema)
	rec := &models.ReviewQuestionSet{QuestionSet: models.QuestionSet{ID: 9}}

	if err := sets.Destroy(context.Background(), rec); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Destroy() error = %v, want ErrNotFound", err)
	}
	assertContains(t, q.sql, `DELETE FROM "review_question_sets" WHERE "id" = $1`)

	q.tag = pgconn.NewCommandTag("DELETE 1")
	if err := sets.Destroy(context.Background(), rec); err != nil {
		t.Fatalf("Destroy() error = %v", err)
	}
}

func TestTableUpsertKeepsUnlistedColumns(t *testing.T) {
	q := &fakeQuerier{}
	users := newTestTable(q, models.UserSchema)

	u := &models.User{StudentNumber: "014000000", Username: "jdoe"}
	if err := users.Upsert(context.Background(), u, "username", "email"); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	assertContains(t, q.sql,
		`ON CONFLICT ("student_number") DO UPDATE SET`,
		`"username" = EXCLUDED."username"`,
		`"email" = EXCLUDED."email"`,
		`"updatedAt" = EXCLUDED."updatedAt"`,
	)
	if strings.Contains(q.sql, `"admin" = EXCLUDED`) {
		t.Errorf("upsert must not overwrite admin: %q", q.sql)
	}
}
