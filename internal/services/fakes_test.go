package services

import (
	"context"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"unicode"

	"travel-agency/internal/notify"
	"travel-agency/internal/repository"
	"travel-agency/internal/status"
	"travel-agency/models"

	"github.com/pocketbase/dbx"
)

// memStore is an in-memory repository.Store. It honours Status, simple
// "field = {:param}" filters and Limit; Sort is ignored.
type memStore[T models.Entity[T]] struct {
	mu         sync.Mutex
	items      []T
	seq        int
	createErrs []error
	creates    int
}

var _ repository.Store[models.Booking] = (*memStore[models.Booking])(nil)

func newMemStore[T models.Entity[T]](items ...T) *memStore[T] {
	return &memStore[T]{items: items}
}

var simpleFilter = regexp.MustCompile(`^(\w+)\s*=\s*\{:(\w+)\}$`)

func (m *memStore[T]) List(_ context.Context, q repository.Query) ([]T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []T{}
	for _, item := range m.items {
		if q.Status != "" && fieldValue(item, "status") != q.Status {
			continue
		}
		if q.Filter != "" {
			match := simpleFilter.FindStringSubmatch(q.Filter)
			if match == nil {
				return nil, fmt.Errorf("memStore: unsupported filter %q", q.Filter)
			}
			if fieldValue(item, match[1]) != fmt.Sprint(q.Params[match[2]]) {
				continue
			}
		}
		out = append(out, item)
		if q.Limit > 0 && len(out) == q.Limit {
			break
		}
	}
	return out, nil
}

func (m *memStore[T]) Get(_ context.Context, id string) (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, item := range m.items {
		if item.RecordID() == id {
			return item, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("memStore %s: %w", id, status.ErrNotFound)
}

// FindFirst supports the same simple filters as List, compared exactly.
func (m *memStore[T]) FindFirst(ctx context.Context, filter string, params dbx.Params) (T, error) {
	items, err := m.List(ctx, repository.Query{Filter: filter, Params: params, Limit: 1})
	if err != nil {
		var zero T
		return zero, err
	}
	if len(items) == 0 {
		var zero T
		return zero, fmt.Errorf("memStore %s: %w", filter, status.ErrNotFound)
	}
	return items[0], nil
}

func (m *memStore[T]) FindByFold(_ context.Context, field, value string) (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, item := range m.items {
		if strings.EqualFold(fieldValue(item, field), value) {
			return item, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("memStore %s=%s: %w", field, value, status.ErrNotFound)
}

func (m *memStore[T]) Create(_ context.Context, value T) (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.creates++
	if len(m.createErrs) > 0 {
		err := m.createErrs[0]
		m.createErrs = m.createErrs[1:]
		if err != nil {
			var zero T
			return zero, err
		}
	}

	m.seq++
	value = value.WithID(fmt.Sprintf("rec%d", m.seq))
	m.items = append(m.items, value)
	return value, nil
}

func (m *memStore[T]) Update(_ context.Context, value T) (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, item := range m.items {
		if item.RecordID() == value.RecordID() {
			m.items[i] = value
			return value, nil
		}
	}
	var zero T
	return zero, status.ErrNotFound
}

func (m *memStore[T]) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, item := range m.items {
		if item.RecordID() == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return status.ErrNotFound
}

func (m *memStore[T]) Count(ctx context.Context, recordStatus string) (int64, error) {
	items, err := m.List(ctx, repository.Query{Status: recordStatus})
	return int64(len(items)), err
}

func (m *memStore[T]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

func (m *memStore[T]) Creates() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.creates
}

// fieldValue reads a struct field by its record field name: the json tag,
// or the snake_case field name for untagged and hidden fields.
func fieldValue(item any, name string) string {
	v := reflect.ValueOf(item)
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Anonymous {
			if s := fieldValue(v.Field(i).Interface(), name); s != "" {
				return s
			}
			continue
		}
		tag := strings.Split(f.Tag.Get("json"), ",")[0]
		if tag == name || ((tag == "" || tag == "-") && snake(f.Name) == name) {
			return fmt.Sprint(v.Field(i).Interface())
		}
	}
	return ""
}

func snake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

type recordingNotifier struct {
	mu     sync.Mutex
	err    error
	events []notify.Event
}

func (r *recordingNotifier) Name() string { return "recording" }

func (r *recordingNotifier) Notify(_ context.Context, e notify.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return r.err
}

func (r *recordingNotifier) Events() []notify.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notify.Event(nil), r.events...)
}
