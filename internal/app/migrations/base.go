package migrations

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// BaseTables reproduces the production schema the service started from,
// including its mixed camelCase and snake_case timestamp columns.
func BaseTables() []Table {
	return []Table{
		{Name: "configurations", Columns: concat(
			[]Column{
				serialID(),
				{"name", "VARCHAR(255)"},
				{"content", "JSONB"},
				{"active", "BOOLEAN DEFAULT false"},
			},
			timestamps(false),
			[]Column{
				{"review_question_set1_id", "INTEGER"},
				{"review_question_set2_id", "INTEGER"},
				{"registration_question_set_id", "INTEGER"},
			},
		)},
		{Name: "groups", Columns: concat(
			[]Column{serialID(), {"group_name", "VARCHAR(255)"}},
			timestamps(true),
		)},
		{Name: "memberships", Columns: concat(
			[]Column{serialID(), {"role", "VARCHAR(255)"}},
			timestamps(false),
			[]Column{{"student_number", "VARCHAR(255)"}},
		)},
		{Name: "registration_question_sets", Columns: concat(
			[]Column{serialID(), {"name", "VARCHAR(255)"}, {"questions", "JSONB"}},
			timestamps(true),
		)},
		{Name: "registrations", Columns: concat(
			[]Column{serialID(), {"preferred_topics", "JSONB"}, {"questions", "JSONB"}},
			timestamps(true),
			[]Column{{"configuration_id", "INTEGER"}, {"studentStudentNumber", "VARCHAR(255)"}},
		)},
		{Name: "review_question_sets", Columns: concat(
			[]Column{serialID(), {"name", "VARCHAR(255)"}, {"questions", "JSONB"}},
			timestamps(true),
		)},
		{Name: "topic_dates", Columns: concat(
			[]Column{serialID(), {"dates", "JSONB"}},
			timestamps(true),
		)},
		{Name: "topics", Columns: concat(
			[]Column{
				serialID(),
				{"active", "BOOLEAN DEFAULT false"},
				{"content", "JSONB"},
				{"acronym", "VARCHAR(255)"},
				{"secret_id", "VARCHAR(255)"},
			},
			timestamps(true),
		)},
		{Name: "users", Columns: concat(
			[]Column{
				{"student_number", "VARCHAR(255) PRIMARY KEY"},
				{"username", "VARCHAR(255)"},
				{"first_names", "VARCHAR(255)"},
				{"last_name", "VARCHAR(255)"},
				{"email", "VARCHAR(255)"},
				{"admin", "BOOLEAN DEFAULT false"},
			},
			timestamps(true),
		)},
	}
}

// BaseForeignKeys lists the base relations in the order they are added.
// Constraint names match the production schema dump.
func BaseForeignKeys() []ForeignKey {
	fk := func(name, table, column, refTable, refCol string) ForeignKey {
		return ForeignKey{
			Name: name, Table: table, Column: column, RefTable: refTable, RefCol: refCol,
			OnUpdate: Cascade, OnDelete: SetNull,
		}
	}

	membership := fk("memberships_id_fkey", "memberships", "id", "groups", "id")
	// The one production relation that deletes instead of nulling.
	membership.OnDelete = Cascade

	return []ForeignKey{
		fk("configurations_registration_question_set_id_fkey",
			"configurations", "registration_question_set_id", "registration_question_sets", "id"),
		fk("configurations_review_question_set1_id_fkey",
			"configurations", "review_question_set1_id", "review_question_sets", "id"),
		fk("configurations_review_question_set2_id_fkey",
			"configurations", "review_question_set2_id", "review_question_sets", "id"),
		membership,
		fk("registrations_configuration_id_fkey",
			"registrations", "configuration_id", "configurations", "id"),
		fk("registrations_studentStudentNumber_fkey",
			"registrations", "studentStudentNumber", "users", "student_number"),
	}
}

// Base creates every table concurrently, then adds the foreign keys one at a
// time since they reference each other's tables.
func Base() Migration {
	return Migration{
		Version: "20190118105525",
		Name:    "base",
		Up: func(ctx context.Context, exec Executor) error {
			tables := BaseTables()
			g, gctx := errgroup.WithContext(ctx)
			for _, t := range tables {
				t := t
				g.Go(func() error {
					if _, err := exec.Exec(gctx, t.createSQL()); err != nil {
						return fmt.Errorf("create table %s: %w", t.Name, err)
					}
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			for _, fk := range BaseForeignKeys() {
				if _, err := exec.Exec(ctx, fk.addSQL()); err != nil {
					return fmt.Errorf("add constraint %s: %w", fk.Name, err)
				}
			}
			return nil
		},
		Down: func(ctx context.Context, exec Executor) error {
			g, gctx := errgroup.WithContext(ctx)
			for _, fk := range BaseForeignKeys() {
				fk := fk
				g.Go(func() error {
					if _, err := exec.Exec(gctx, fk.dropSQL()); err != nil {
						return fmt.Errorf("remove constraint %s: %w", fk.Name, err)
					}
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			g, gctx = errgroup.WithContext(ctx)
			for _, t := range BaseTables() {
				t := t
				g.Go(func() error {
					if _, err := exec.Exec(gctx, t.dropSQL()); err != nil {
						return fmt.Errorf("drop table %s: %w", t.Name, err)
					}
					return nil
				})
			}
			return g.Wait()
		},
	}
}

func concat(groups ...[]Column) []Column {
	var out []Column
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}
