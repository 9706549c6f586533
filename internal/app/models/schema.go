package models

// Schema is the declarative column list of one table. Targets must return
// pointers in the order Key, Columns..., CreatedAt, UpdatedAt so a single
// row scan fills the whole record.
type Schema[T any] struct {
	Table string
	Key   string
	// AutoKey is true for serial surrogate keys. Natural keys are inserted
	// from KeyOf.
	AutoKey bool
	// Columns lists the writable columns in Values order.
	Columns   []string
	CreatedAt string
	UpdatedAt string

	Targets func(*T) []any
	Values  func(*T) []any
	KeyOf   func(*T) any
}

// AllColumns returns every column in Targets order.
func (s Schema[T]) AllColumns() []string {
	cols := make([]string, 0, len(s.Columns)+3)
	cols = append(cols, s.Key)
	cols = append(cols, s.Columns...)
	return append(cols, s.CreatedAt, s.UpdatedAt)
}
