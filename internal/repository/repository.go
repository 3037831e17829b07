package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"travel-agency/internal/status"
	"travel-agency/models"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
)

// Codec maps one entity type to the records of its collection.
type Codec[T any] interface {
	Collection() string
	Decode(record *core.Record) (T, error)
	Encode(value T, record *core.Record)
}

// Query narrows a List call. Filter uses the PocketBase filter syntax with
// Params bound by name; Status is a shortcut for an exact status match.
type Query struct {
	Status string
	Filter string
	Params dbx.Params
	Sort   string
	Limit  int
}

// Store is the persistence contract the services depend on.
type Store[T models.Entity[T]] interface {
	List(ctx context.Context, q Query) ([]T, error)
	Get(ctx context.Context, id string) (T, error)
	FindFirst(ctx context.Context, filter string, params dbx.Params) (T, error)
	FindByFold(ctx context.Context, field, value string) (T, error)
	Create(ctx context.Context, value T) (T, error)
	Update(ctx context.Context, value T) (T, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context, recordStatus string) (int64, error)
}

var fieldName = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

type Repository[T models.Entity[T]] struct {
	app   core.App
	codec Codec[T]
}

func New[T models.Entity[T]](app core.App, codec Codec[T]) *Repository[T] {
	return &Repository[T]{app: app, codec: codec}
}

func (r *Repository[T]) Collection() string {
	return r.codec.Collection()
}

// List returns the matching records; no rows yields an empty, non-nil slice.
func (r *Repository[T]) List(ctx context.Context, q Query) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	filter, params := q.build()
	records, err := r.app.FindRecordsByFilter(r.Collection(), filter, q.Sort, q.Limit, 0, params)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", r.Collection(), err)
	}
	return r.decodeAll(records)
}

func (r *Repository[T]) Get(ctx context.Context, id string) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	record, err := r.find(id)
	if err != nil {
		return zero, err
	}
	return r.codec.Decode(record)
}

// FindFirst returns the first record matching a PocketBase filter.
func (r *Repository[T]) FindFirst(ctx context.Context, filter string, params dbx.Params) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	record, err := r.app.FindFirstRecordByFilter(r.Collection(), filter, params)
	if err != nil {
		return zero, r.wrapNotFound(err)
	}
	return r.codec.Decode(record)
}

// FindByFold matches field against value ignoring case.
func (r *Repository[T]) FindByFold(ctx context.Context, field, value string) (T, error) {
	var zero T
	if !fieldName.MatchString(field) {
		return zero, fmt.Errorf("invalid field %q: %w", field, status.ErrValidation)
	}

	record := &core.Record{}
	err := r.app.RecordQuery(r.Collection()).
		WithContext(ctx).
		AndWhere(dbx.NewExp("LOWER([["+field+"]]) = {:value}", dbx.Params{"value": strings.ToLower(value)})).
		Limit(1).
		One(record)
	if err != nil {
		return zero, r.wrapNotFound(err)
	}
	return r.codec.Decode(record)
}

func (r *Repository[T]) Create(ctx context.Context, value T) (T, error) {
	var zero T
	collection, err := r.app.FindCachedCollectionByNameOrId(r.Collection())
	if err != nil {
		return zero, fmt.Errorf("find %s collection: %w", r.Collection(), err)
	}

	record := core.NewRecord(collection)
	r.codec.Encode(value, record)
	if err := r.app.SaveWithContext(ctx, record); err != nil {
		return zero, fmt.Errorf("create %s: %w", r.Collection(), err)
	}
	return r.codec.Decode(record)
}

// Update overwrites the stored record; the last writer wins.
func (r *Repository[T]) Update(ctx context.Context, value T) (T, error) {
	var zero T
	record, err := r.find(value.RecordID())
	if err != nil {
		return zero, err
	}

	r.codec.Encode(value, record)
	if err := r.app.SaveWithContext(ctx, record); err != nil {
		return zero, fmt.Errorf("update %s %s: %w", r.Collection(), record.Id, err)
	}
	return r.codec.Decode(record)
}

func (r *Repository[T]) Delete(ctx context.Context, id string) error {
	record, err := r.find(id)
	if err != nil {
		return err
	}
	if err := r.app.DeleteWithContext(ctx, record); err != nil {
		return fmt.Errorf("delete %s %s: %w", r.Collection(), id, err)
	}
	return nil
}

// Count counts records with the given status, or all of them when status
// is empty.
func (r *Repository[T]) Count(ctx context.Context, recordStatus string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	var exprs []dbx.Expression
	if recordStatus != "" {
		exprs = append(exprs, dbx.HashExp{"status": recordStatus})
	}
	return r.app.CountRecords(r.Collection(), exprs...)
}

func (r *Repository[T]) find(id string) (*core.Record, error) {
	if id == "" {
		return nil, fmt.Errorf("%s: empty id: %w", r.Collection(), status.ErrNotFound)
	}
	record, err := r.app.FindRecordById(r.Collection(), id)
	if err != nil {
		return nil, r.wrapNotFound(err)
	}
	return record, nil
}

func (r *Repository[T]) wrapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", r.Collection(), status.ErrNotFound)
	}
	return fmt.Errorf("query %s: %w", r.Collection(), err)
}

func (r *Repository[T]) decodeAll(records []*core.Record) ([]T, error) {
	out := make([]T, 0, len(records))
	for _, record := range records {
		value, err := r.codec.Decode(record)
		if err != nil {
			return nil, err
		}
		out = append(out, value)
	}
	return out, nil
}

func (q Query) build() (string, dbx.Params) {
	params := dbx.Params{}
	for k, v := range q.Params {
		params[k] = v
	}

	var clauses []string
	if q.Status != "" {
		clauses = append(clauses, "status = {:status}")
		params["status"] = q.Status
	}
	if q.Filter != "" {
		clauses = append(clauses, "("+q.Filter+")")
	}
	if len(clauses) == 0 {
		return "id != ''", params
	}
	return strings.Join(clauses, " && "), params
}
