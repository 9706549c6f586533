// Package repotest provides an in-memory repositories.Store for tests.
package repotest

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/yigit/topicreg/internal/app/models"
	"github.com/yigit/topicreg/internal/app/repositories"
)

// Store keeps rows in memory and understands the predicates built with
// repositories.Eq, repositories.NotEq and squirrel.And.
type Store[T any] struct {
	mu     sync.Mutex
	schema models.Schema[T]
	rows   []T
	nextID int64
	clock  time.Time
	frozen bool

	// Err, when set, is returned by every operation.
	Err error
	// Writes counts successful mutating calls.
	Writes int
}

var _ repositories.Store[models.Group] = (*Store[models.Group])(nil)

// NewStore creates an empty store for schema.
func NewStore[T any](schema models.Schema[T]) *Store[T] {
	return &Store[T]{
		schema: schema,
		nextID: 1,
		clock:  time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// Rows returns a copy of the stored rows.
func (s *Store[T]) Rows() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]T(nil), s.rows...)
}

// FreezeClock makes every later write share one timestamp.
func (s *Store[T]) FreezeClock() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frozen = true
}

// tick returns strictly increasing timestamps unless the clock is frozen.
func (s *Store[T]) tick() time.Time {
	if !s.frozen {
		s.clock = s.clock.Add(time.Millisecond)
	}
	return s.clock
}

func (s *Store[T]) value(rec *T, column string) (any, bool) {
	for i, c := range s.schema.AllColumns() {
		if c == column {
			return reflect.ValueOf(s.schema.Targets(rec)[i]).Elem().Interface(), true
		}
	}
	return nil, false
}

func (s *Store[T]) set(rec *T, column string, v any) {
	for i, c := range s.schema.AllColumns() {
		if c == column {
			reflect.ValueOf(s.schema.Targets(rec)[i]).Elem().Set(reflect.ValueOf(v))
			return
		}
	}
}

func (s *Store[T]) stamp(rec *T, created, updated time.Time) {
	targets := s.schema.Targets(rec)
	*targets[len(targets)-2].(*time.Time) = created
	*targets[len(targets)-1].(*time.Time) = updated
}

func (s *Store[T]) indexOf(rec *T) int {
	key := s.schema.KeyOf(rec)
	for i := range s.rows {
		if s.schema.KeyOf(&s.rows[i]) == key {
			return i
		}
	}
	return -1
}

func (s *Store[T]) Create(_ context.Context, rec *T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}

	if s.schema.AutoKey {
		*s.schema.Targets(rec)[0].(*int64) = s.nextID
		s.nextID++
	} else if s.indexOf(rec) >= 0 {
		return fmt.Errorf("duplicate key %v in %s", s.schema.KeyOf(rec), s.schema.Table)
	}
	now := s.tick()
	s.stamp(rec, now, now)
	s.rows = append(s.rows, *rec)
	s.Writes++
	return nil
}

func (s *Store[T]) Upsert(ctx context.Context, rec *T, columns ...string) error {
	s.mu.Lock()
	i := -1
	if s.Err == nil {
		i = s.indexOf(rec)
	}
	s.mu.Unlock()
	if i < 0 {
		return s.Create(ctx, rec)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	existing := &s.rows[i]
	for _, c := range columns {
		v, _ := s.value(rec, c)
		s.set(existing, c, v)
	}
	targets := s.schema.Targets(existing)
	*targets[len(targets)-1].(*time.Time) = s.tick()
	*rec = *existing
	s.Writes++
	return nil
}

func (s *Store[T]) FindAll(_ context.Context, q repositories.Query) ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	out := make([]T, 0)
	for i := range s.rows {
		ok, err := s.match(&s.rows[i], q.Where)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, s.rows[i])
		}
	}

	if len(q.OrderBy) > 0 {
		sort.SliceStable(out, func(i, j int) bool {
			for _, o := range q.OrderBy {
				a, _ := s.value(&out[i], o.Column)
				b, _ := s.value(&out[j], o.Column)
				c := compare(a, b)
				if c == 0 {
					continue
				}
				if o.Desc {
					return c > 0
				}
				return c < 0
			}
			return false
		})
	}

	if q.Limit > 0 && uint64(len(out)) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (s *Store[T]) FindOne(ctx context.Context, q repositories.Query) (*T, error) {
	q.Limit = 1
	rows, err := s.FindAll(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, repositories.ErrNotFound
	}
	return &rows[0], nil
}

func (s *Store[T]) Update(_ context.Context, rec *T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}

	i := s.indexOf(rec)
	if i < 0 {
		return repositories.ErrNotFound
	}
	created, _ := s.value(&s.rows[i], s.schema.CreatedAt)
	s.stamp(rec, created.(time.Time), s.tick())
	s.rows[i] = *rec
	s.Writes++
	return nil
}

func (s *Store[T]) Reload(_ context.Context, rec *T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}

	i := s.indexOf(rec)
	if i < 0 {
		return repositories.ErrNotFound
	}
	*rec = s.rows[i]
	return nil
}

func (s *Store[T]) Destroy(_ context.Context, rec *T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}

	i := s.indexOf(rec)
	if i < 0 {
		return repositories.ErrNotFound
	}
	s.rows = append(s.rows[:i], s.rows[i+1:]...)
	s.Writes++
	return nil
}

func (s *Store[T]) match(rec *T, pred sq.Sqlizer) (bool, error) {
	switch p := pred.(type) {
	case nil:
		return true, nil
	case sq.Eq:
		for col, want := range p {
			got, ok := s.value(rec, unquote(col))
			if !ok {
				return false, fmt.Errorf("unknown column %s", col)
			}
			if !equal(got, want) {
				return false, nil
			}
		}
		return true, nil
	case sq.NotEq:
		for col, want := range p {
			got, ok := s.value(rec, unquote(col))
			if !ok {
				return false, fmt.Errorf("unknown column %s", col)
			}
			if equal(got, want) {
				return false, nil
			}
		}
		return true, nil
	case sq.And:
		for _, part := range p {
			ok, err := s.match(rec, part)
			if err != nil || !ok {
				return false, err
			}
		}
		return true, nil
	default:
		return false, fmt.Errorf("unsupported predicate %T", pred)
	}
}

func unquote(col string) string {
	return strings.Trim(col, `"`)
}

// equal compares a stored value with a predicate value, dereferencing
// nullable columns.
func equal(got, want any) bool {
	g := reflect.ValueOf(got)
	if g.Kind() == reflect.Ptr {
		if g.IsNil() {
			return want == nil
		}
		got = g.Elem().Interface()
	}
	return reflect.DeepEqual(got, want)
}

func compare(a, b any) int {
	switch x := a.(type) {
	case time.Time:
		return x.Compare(b.(time.Time))
	case int64:
		y := b.(int64)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	case string:
		return strings.Compare(x, b.(string))
	}
	return 0
}
