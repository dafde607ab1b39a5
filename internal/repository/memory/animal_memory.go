// Package memory is an in-process repository.AnimalRepository for local
// development and tests. It evaluates the same query subset the service emits.
package memory

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/google/uuid"

	"animalshelter/internal/model"
	"animalshelter/internal/repository"
)

var (
	ErrDuplicateID = errors.New("duplicate _id")
	ErrImmutableID = errors.New("_id is immutable")
)

// AnimalMemory keeps records in insertion order.
type AnimalMemory struct {
	mu   sync.RWMutex
	recs []model.Record
}

func NewAnimalMemory() *AnimalMemory {
	return &AnimalMemory{}
}

var _ repository.AnimalRepository = (*AnimalMemory)(nil)

func (r *AnimalMemory) Insert(ctx context.Context, rec model.Record) (any, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc := rec.Clone()
	if doc == nil {
		doc = model.Record{}
	}
	id, ok := doc[model.FieldID]
	if !ok {
		id = uuid.NewString()
		doc[model.FieldID] = id
	}
	for _, existing := range r.recs {
		if valuesEqual(existing[model.FieldID], id) {
			return nil, fmt.Errorf("%w: %v", ErrDuplicateID, id)
		}
	}
	r.recs = append(r.recs, doc)
	return id, nil
}

func (r *AnimalMemory) Find(ctx context.Context, q model.Query) ([]model.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Record, 0)
	for _, rec := range r.recs {
		ok, err := matches(rec, q)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, rec.Clone())
		}
	}
	return out, nil
}

func (r *AnimalMemory) UpdateMany(ctx context.Context, q model.Query, values model.Record) (int64, error) {
	if _, ok := values[model.FieldID]; ok {
		return 0, ErrImmutableID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	matched := make([]model.Record, 0)
	for _, rec := range r.recs {
		ok, err := matches(rec, q)
		if err != nil {
			return 0, err
		}
		if ok {
			matched = append(matched, rec)
		}
	}

	var modified int64
	for _, rec := range matched {
		changed := false
		for k, v := range values {
			if cur, exists := rec[k]; exists && valuesEqual(cur, v) {
				continue
			}
			rec[k] = model.CloneValue(v)
			changed = true
		}
		if changed {
			modified++
		}
	}
	return modified, nil
}

func (r *AnimalMemory) DeleteMany(ctx context.Context, q model.Query) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := make([]model.Record, 0, len(r.recs))
	var deleted int64
	for _, rec := range r.recs {
		ok, err := matches(rec, q)
		if err != nil {
			return 0, err
		}
		if ok {
			deleted++
			continue
		}
		kept = append(kept, rec)
	}
	r.recs = kept
	return deleted, nil
}

func (r *AnimalMemory) Ping(ctx context.Context) error {
	return ctx.Err()
}

func matches(rec model.Record, q model.Query) (bool, error) {
	for field, cond := range q {
		if strings.HasPrefix(field, "$") {
			return false, fmt.Errorf("%w: %s", repository.ErrUnsupportedOperator, field)
		}
		val, present := rec[field]
		ops, isOps := operators(cond)
		if !isOps {
			if !present || !valuesEqual(val, cond) {
				return false, nil
			}
			continue
		}
		for op, arg := range ops {
			ok, err := apply(op, val, present, arg)
			if err != nil {
				return false, err
			}
			if !ok {
				return false, nil
			}
		}
	}
	return true, nil
}

// operators reports whether cond is an operator document such as {"$in": [...]}.
func operators(cond any) (map[string]any, bool) {
	v := reflect.ValueOf(cond)
	if v.Kind() != reflect.Map || v.Type().Key().Kind() != reflect.String || v.Len() == 0 {
		return nil, false
	}
	out := make(map[string]any, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		k := iter.Key().String()
		if !strings.HasPrefix(k, "$") {
			return nil, false
		}
		out[k] = iter.Value().Interface()
	}
	return out, true
}

func apply(op string, val any, present bool, arg any) (bool, error) {
	switch op {
	case model.OpIn:
		list := reflect.ValueOf(arg)
		if list.Kind() != reflect.Slice && list.Kind() != reflect.Array {
			return false, fmt.Errorf("%s needs an array, got %T", op, arg)
		}
		if !present {
			return false, nil
		}
		for i := 0; i < list.Len(); i++ {
			if valuesEqual(val, list.Index(i).Interface()) {
				return true, nil
			}
		}
		return false, nil
	case model.OpGte, model.OpLte, model.OpGt, model.OpLt:
		if !present {
			return false, nil
		}
		c, ok := compare(val, arg)
		if !ok {
			return false, nil
		}
		switch op {
		case model.OpGte:
			return c >= 0, nil
		case model.OpLte:
			return c <= 0, nil
		case model.OpGt:
			return c > 0, nil
		default:
			return c < 0, nil
		}
	default:
		return false, fmt.Errorf("%w: %s", repository.ErrUnsupportedOperator, op)
	}
}

func valuesEqual(a, b any) bool {
	if c, ok := compare(a, b); ok {
		return c == 0
	}
	return reflect.DeepEqual(a, b)
}

// compare orders two numbers or two strings. ok is false for any other pair,
// mirroring Mongo's type-bracketed comparisons.
func compare(a, b any) (int, bool) {
	if x, ok := toFloat(a); ok {
		y, ok := toFloat(b)
		if !ok {
			return 0, false
		}
		switch {
		case x < y:
			return -1, true
		case x > y:
			return 1, true
		}
		return 0, true
	}
	if x, ok := a.(string); ok {
		y, ok := b.(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(x, y), true
	}
	return 0, false
}

func toFloat(v any) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}
