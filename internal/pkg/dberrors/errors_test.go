package dberrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsDuplicateConstraintError(t *testing.T) {
	pgErr := &pgconn.PgError{Code: UniqueViolation, ConstraintName: "groups_group_name_key"}
	wrapped := fmt.Errorf("insert group: %w", pgErr)

	tests := []struct {
		name       string
		err        error
		constraint string
		want       bool
	}{
		{"matching constraint", wrapped, "groups_group_name_key", true},
		{"other constraint", wrapped, "review_question_sets_name_key", false},
		{"foreign key", &pgconn.PgError{Code: ForeignKeyViolation, ConstraintName: "groups_group_name_key"}, "groups_group_name_key", false},
		{"plain error", errors.New("boom"), "groups_group_name_key", false},
		{"nil", nil, "groups_group_name_key", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsDuplicateConstraintError(tt.err, tt.constraint); got != tt.want {
				t.Errorf("IsDuplicateConstraintError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsForeignKeyViolation(t *testing.T) {
	err := fmt.Errorf("wrap: %w", &pgconn.PgError{Code: ForeignKeyViolation})
	if !IsForeignKeyViolation(err) {
		t.Error("expected foreign key violation to be detected")
	}
	if IsUniqueViolation(err) {
		t.Error("foreign key violation reported as unique violation")
	}
}
