package migrations

import (
	"context"
	"fmt"
)

// execAll runs statements in order, stopping at the first failure.
func execAll(ctx context.Context, exec Executor, statements ...string) error {
	for _, stmt := range statements {
		if _, err := exec.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("executing %q: %w", stmt, err)
		}
	}
	return nil
}

var instructorReviewsTable = Table{
	Name: "instructor_reviews",
	Columns: concat(
		[]Column{serialID(), {"answer_sheet", "JSONB"}},
		timestamps(true),
	),
}

// InstructorReviews adds the table behind instructor answer sheets.
func InstructorReviews() Migration {
	return Migration{
		Version: "20190301120000",
		Name:    "instructor-reviews",
		Up: func(ctx context.Context, exec Executor) error {
			return execAll(ctx, exec, instructorReviewsTable.createSQL())
		},
		Down: func(ctx context.Context, exec Executor) error {
			return execAll(ctx, exec, instructorReviewsTable.dropSQL())
		},
	}
}

// MembershipGroupLink gives memberships a real group column. The base schema
// keyed the group relation on memberships.id itself.
func MembershipGroupLink() Migration {
	old := BaseForeignKeys()[3]
	link := ForeignKey{
		Name:     "memberships_group_id_fkey",
		Table:    "memberships",
		Column:   "group_id",
		RefTable: "groups",
		RefCol:   "id",
		OnUpdate: Cascade,
		OnDelete: Cascade,
	}

	return Migration{
		Version: "20190415090000",
		Name:    "membership-group-link",
		Up: func(ctx context.Context, exec Executor) error {
			return execAll(ctx, exec,
				`ALTER TABLE "memberships" ADD COLUMN IF NOT EXISTS "group_id" INTEGER`,
				old.dropSQL(),
				link.addSQL(),
			)
		},
		Down: func(ctx context.Context, exec Executor) error {
			return execAll(ctx, exec,
				link.dropSQL(),
				`ALTER TABLE "memberships" DROP COLUMN IF EXISTS "group_id"`,
				old.addSQL(),
			)
		},
	}
}

// Unique constraint names, matched by the services to report a conflict when
// two concurrent creates race past the name check.
const (
	GroupNameKey             = "groups_group_name_key"
	ReviewQuestionSetNameKey = "review_question_sets_name_key"
)

// UniqueNames enforces group and review question set name uniqueness in the
// store.
func UniqueNames() Migration {
	return Migration{
		Version: "20190520100000",
		Name:    "unique-names",
		Up: func(ctx context.Context, exec Executor) error {
			return execAll(ctx, exec,
				fmt.Sprintf(`ALTER TABLE "groups" ADD CONSTRAINT %s UNIQUE ("group_name")`, ident(GroupNameKey)),
				fmt.Sprintf(`ALTER TABLE "review_question_sets" ADD CONSTRAINT %s UNIQUE ("name")`, ident(ReviewQuestionSetNameKey)),
			)
		},
		Down: func(ctx context.Context, exec Executor) error {
			return execAll(ctx, exec,
				fmt.Sprintf(`ALTER TABLE "groups" DROP CONSTRAINT IF EXISTS %s`, ident(GroupNameKey)),
				fmt.Sprintf(`ALTER TABLE "review_question_sets" DROP CONSTRAINT IF EXISTS %s`, ident(ReviewQuestionSetNameKey)),
			)
		},
	}
}
