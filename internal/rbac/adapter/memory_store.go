package adapter

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

var _ DocumentStore = (*MemoryStore)(nil)

// MemoryStore is an in-process DocumentStore. Documents are kept BSON encoded
// so reads decode exactly like they would from Mongo.
type MemoryStore struct {
	mu    sync.RWMutex
	colls map[string]map[string]bson.Raw
	clock func() time.Time
}

type MemoryOption func(*MemoryStore)

// WithClock overrides the timestamp source used by Now.
func WithClock(clock func() time.Time) MemoryOption {
	return func(s *MemoryStore) { s.clock = clock }
}

func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		colls: make(map[string]map[string]bson.Raw),
		clock: func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStore) Get(ctx context.Context, collection, id string) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	raw, ok := s.colls[collection][id]
	if !ok {
		return nil, ErrNotFound
	}
	return NewSnapshot(id, raw), nil
}

func (s *MemoryStore) Set(ctx context.Context, collection, id string, doc any, opts SetOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d, err := toDocument(id, doc)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if opts.Merge {
		if existing, ok := s.colls[collection][id]; ok {
			base, err := decodeD(existing)
			if err != nil {
				return err
			}
			d = overlay(base, d)
		}
	}
	return s.put(collection, id, d)
}

func (s *MemoryStore) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	patch, err := toDocument(id, fields)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.colls[collection][id]
	if !ok {
		return ErrNotFound
	}
	base, err := decodeD(existing)
	if err != nil {
		return err
	}
	return s.put(collection, id, overlay(base, patch))
}

func (s *MemoryStore) Increment(ctx context.Context, collection, id, field string, delta int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.colls[collection][id]
	if !ok {
		return ErrNotFound
	}

	var current int64
	if rv, err := existing.LookupErr(field); err == nil {
		n, ok := numeric(rv)
		if !ok {
			return fmt.Errorf("field %q is not numeric", field)
		}
		current = int64(n)
	}

	base, err := decodeD(existing)
	if err != nil {
		return err
	}
	return s.put(collection, id, overlay(base, bson.D{{Key: field, Value: current + delta}}))
}

func (s *MemoryStore) Add(ctx context.Context, collection string, doc any) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	id := NewID()
	d, err := toDocument(id, doc)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.put(collection, id, d); err != nil {
		return "", err
	}
	return id, nil
}

func (s *MemoryStore) Find(ctx context.Context, collection string, q Query) ([]*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*Snapshot
	for id, raw := range s.colls[collection] {
		ok, err := matchesAll(raw, q.Where)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, NewSnapshot(id, raw))
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		c := 0
		if q.OrderBy != "" {
			c = compareField(out[i].raw, out[j].raw, q.OrderBy)
		}
		if c == 0 {
			c = strings.Compare(out[i].ID, out[j].ID)
		}
		if q.Desc {
			return c > 0
		}
		return c < 0
	})

	if q.Offset > 0 {
		if q.Offset >= len(out) {
			return nil, nil
		}
		out = out[q.Offset:]
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (s *MemoryStore) Count(ctx context.Context, collection string, where []Where) (int64, error) {
	snaps, err := s.Find(ctx, collection, Query{Where: where})
	if err != nil {
		return 0, err
	}
	return int64(len(snaps)), nil
}

func (s *MemoryStore) Delete(ctx context.Context, collection, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.colls[collection], id)
	return nil
}

func (s *MemoryStore) Now() time.Time {
	return s.clock()
}

// put must be called with mu held.
func (s *MemoryStore) put(collection, id string, d bson.D) error {
	raw, err := bson.Marshal(d)
	if err != nil {
		return err
	}
	if s.colls[collection] == nil {
		s.colls[collection] = make(map[string]bson.Raw)
	}
	s.colls[collection][id] = raw
	return nil
}

func decodeD(raw bson.Raw) (bson.D, error) {
	var d bson.D
	err := bson.Unmarshal(raw, &d)
	return d, err
}

// overlay replaces top-level keys of base with those in patch, appending new ones.
func overlay(base, patch bson.D) bson.D {
	idx := make(map[string]int, len(base))
	for i, e := range base {
		idx[e.Key] = i
	}
	for _, e := range patch {
		if i, ok := idx[e.Key]; ok {
			base[i] = e
			continue
		}
		idx[e.Key] = len(base)
		base = append(base, e)
	}
	return base
}

func matchesAll(raw bson.Raw, where []Where) (bool, error) {
	for _, w := range where {
		ok, err := matches(raw, w)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

func matches(raw bson.Raw, w Where) (bool, error) {
	field, err := raw.LookupErr(w.Field)
	if err != nil {
		return false, nil
	}

	if w.Op == OpIn {
		rv := reflect.ValueOf(w.Value)
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			return false, fmt.Errorf("in operator on %q needs a slice, got %T", w.Field, w.Value)
		}
		for i := 0; i < rv.Len(); i++ {
			want, err := toRawValue(rv.Index(i).Interface())
			if err != nil {
				return false, err
			}
			if c, ok := compareRaw(field, want); ok && c == 0 {
				return true, nil
			}
		}
		return false, nil
	}

	want, err := toRawValue(w.Value)
	if err != nil {
		return false, err
	}
	if w.Op == OpContains {
		arr, ok := field.ArrayOK()
		if !ok {
			return false, nil
		}
		values, err := arr.Values()
		if err != nil {
			return false, err
		}
		for _, v := range values {
			if c, ok := compareRaw(v, want); ok && c == 0 {
				return true, nil
			}
		}
		return false, nil
	}
	c, ok := compareRaw(field, want)
	if !ok {
		return false, nil
	}
	switch w.Op {
	case OpEq:
		return c == 0, nil
	case OpGte:
		return c >= 0, nil
	case OpLte:
		return c <= 0, nil
	default:
		return false, fmt.Errorf("unsupported operator %q", w.Op)
	}
}

func toRawValue(v any) (bson.RawValue, error) {
	t, data, err := bson.MarshalValue(v)
	if err != nil {
		return bson.RawValue{}, err
	}
	return bson.RawValue{Type: t, Value: data}, nil
}

func compareField(a, b bson.Raw, field string) int {
	av, aerr := a.LookupErr(field)
	bv, berr := b.LookupErr(field)
	switch {
	case aerr != nil && berr != nil:
		return 0
	case aerr != nil:
		return -1
	case berr != nil:
		return 1
	}
	c, _ := compareRaw(av, bv)
	return c
}

// compareRaw orders two BSON values. The bool is false when the types cannot be compared.
func compareRaw(a, b bson.RawValue) (int, bool) {
	if as, ok := a.StringValueOK(); ok {
		bs, ok := b.StringValueOK()
		if !ok {
			return 0, false
		}
		return strings.Compare(as, bs), true
	}
	if at, ok := a.DateTimeOK(); ok {
		bt, ok := b.DateTimeOK()
		if !ok {
			return 0, false
		}
		return cmp.Compare(at, bt), true
	}
	if an, ok := numeric(a); ok {
		bn, ok := numeric(b)
		if !ok {
			return 0, false
		}
		return cmp.Compare(an, bn), true
	}
	if ab, ok := a.BooleanOK(); ok {
		bb, ok := b.BooleanOK()
		if !ok {
			return 0, false
		}
		switch {
		case ab == bb:
			return 0, true
		case !ab:
			return -1, true
		default:
			return 1, true
		}
	}
	if a.Type == b.Type && bytes.Equal(a.Value, b.Value) {
		return 0, true
	}
	return 0, false
}

func numeric(v bson.RawValue) (float64, bool) {
	switch v.Type {
	case bsontype.Int32:
		return float64(v.Int32()), true
	case bsontype.Int64:
		return float64(v.Int64()), true
	case bsontype.Double:
		return v.Double(), true
	}
	return 0, false
}
