// Package repository gives typed, validated access to the collections held
// in the key-value store. Every write re-serializes the whole collection;
// each repository serializes its own read-modify-write sequences, but two
// processes sharing one store still overwrite each other (last write wins).
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"civiceye/store"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrInvalidRecord = errors.New("invalid record")
	ErrDuplicate     = errors.New("record already exists")
)

var validate = validator.New()

// Validate checks the struct tags of a record about to be written.
func Validate(v any) error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	return nil
}

// loadList reads a JSON array. A missing key or a document that is not an
// array yields an empty list; an element that does not decode is dropped
// on its own. Only backend failures are errors.
func loadList[T any](ctx context.Context, s store.Store, key string, log *zap.Logger) ([]T, error) {
	raw, err := s.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return []T{}, nil
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		log.Warn("store_malformed_collection", zap.String("key", key), zap.Error(err))
		return []T{}, nil
	}
	items := make([]T, 0, len(elems))
	for i, elem := range elems {
		var item T
		if err := json.Unmarshal(elem, &item); err != nil {
			log.Warn("store_malformed_record", zap.String("key", key), zap.Int("index", i), zap.Error(err))
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

func saveList[T any](ctx context.Context, s store.Store, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return s.Set(ctx, key, raw)
}

// loadDoc reads a single JSON object over def, so fields the stored
// document lacks keep their defaults. It reports whether a usable document
// was found.
func loadDoc[T any](ctx context.Context, s store.Store, key string, log *zap.Logger, def T) (T, bool, error) {
	raw, err := s.Get(ctx, key)
	if err != nil {
		return def, false, err
	}
	if len(raw) == 0 {
		return def, false, nil
	}
	doc := def
	if err := json.Unmarshal(raw, &doc); err != nil {
		log.Warn("store_malformed_document", zap.String("key", key), zap.Error(err))
		return def, false, nil
	}
	return doc, true, nil
}

func saveDoc[T any](ctx context.Context, s store.Store, key string, doc T) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return s.Set(ctx, key, raw)
}

// listRepo is the shared implementation behind the single-key collections.
type listRepo[T any] struct {
	mu      sync.Mutex
	store   store.Store
	key     string
	log     *zap.Logger
	idOf    func(*T) string
	prepare func(*T)
}

func newListRepo[T any](s store.Store, key string, log *zap.Logger, idOf func(*T) string, prepare func(*T)) *listRepo[T] {
	if log == nil {
		log = zap.NewNop()
	}
	return &listRepo[T]{store: s, key: key, log: log, idOf: idOf, prepare: prepare}
}

func (r *listRepo[T]) load(ctx context.Context) ([]T, error) {
	items, err := loadList[T](ctx, r.store, r.key, r.log)
	if err != nil {
		return nil, err
	}
	if r.prepare != nil {
		for i := range items {
			r.prepare(&items[i])
		}
	}
	return items, nil
}

func (r *listRepo[T]) all(ctx context.Context) ([]T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(ctx)
}

func (r *listRepo[T]) get(ctx context.Context, id string) (T, error) {
	var zero T
	items, err := r.all(ctx)
	if err != nil {
		return zero, err
	}
	for i := range items {
		if r.idOf(&items[i]) == id {
			return items[i], nil
		}
	}
	return zero, fmt.Errorf("%s %s: %w", r.key, id, ErrNotFound)
}

func (r *listRepo[T]) add(ctx context.Context, item T) error {
	if err := Validate(item); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	items, err := r.load(ctx)
	if err != nil {
		return err
	}
	id := r.idOf(&item)
	for i := range items {
		if r.idOf(&items[i]) == id {
			return fmt.Errorf("%s %s: %w", r.key, id, ErrDuplicate)
		}
	}
	return saveList(ctx, r.store, r.key, append(items, item))
}

// update applies fn to the record with id and persists the result. fn's
// error aborts the write.
func (r *listRepo[T]) update(ctx context.Context, id string, fn func(*T) error) (T, error) {
	var zero T
	r.mu.Lock()
	defer r.mu.Unlock()

	items, err := r.load(ctx)
	if err != nil {
		return zero, err
	}
	for i := range items {
		if r.idOf(&items[i]) != id {
			continue
		}
		if err := fn(&items[i]); err != nil {
			return zero, err
		}
		if err := Validate(items[i]); err != nil {
			return zero, err
		}
		if err := saveList(ctx, r.store, r.key, items); err != nil {
			return zero, err
		}
		return items[i], nil
	}
	return zero, fmt.Errorf("%s %s: %w", r.key, id, ErrNotFound)
}

// removeWhere deletes every record matching pred and returns them.
func (r *listRepo[T]) removeWhere(ctx context.Context, pred func(*T) bool) ([]T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	items, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	kept := items[:0:0]
	var removed []T
	for i := range items {
		if pred(&items[i]) {
			removed = append(removed, items[i])
			continue
		}
		kept = append(kept, items[i])
	}
	if len(removed) == 0 {
		return nil, nil
	}
	if err := saveList(ctx, r.store, r.key, kept); err != nil {
		return nil, err
	}
	return removed, nil
}

// mutate runs an arbitrary read-modify-write over the whole list.
func (r *listRepo[T]) mutate(ctx context.Context, fn func([]T) ([]T, error)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	items, err := r.load(ctx)
	if err != nil {
		return err
	}
	out, err := fn(items)
	if err != nil {
		return err
	}
	return saveList(ctx, r.store, r.key, out)
}
