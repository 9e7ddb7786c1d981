package adapter

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

var ErrNotFound = errors.New("document not found")

// Op is a comparison operator in a where clause.
type Op string

const (
	OpEq  Op = "=="
	OpIn  Op = "in"
	OpGte Op = ">="
	OpLte Op = "<="
	// OpContains matches array fields holding Value
	OpContains Op = "array-contains"
)

type Where struct {
	Field string
	Op    Op
	Value any
}

func Eq(field string, value any) Where  { return Where{Field: field, Op: OpEq, Value: value} }
func In(field string, values any) Where { return Where{Field: field, Op: OpIn, Value: values} }
func Gte(field string, value any) Where { return Where{Field: field, Op: OpGte, Value: value} }
func Lte(field string, value any) Where { return Where{Field: field, Op: OpLte, Value: value} }
func Contains(field string, value any) Where {
	return Where{Field: field, Op: OpContains, Value: value}
}

// Query selects documents from one collection. Zero Limit means no limit.
// Without OrderBy, results are ordered by document id.
type Query struct {
	Where   []Where
	OrderBy string
	Desc    bool
	Offset  int
	Limit   int
}

type SetOptions struct {
	// Merge overwrites only the top-level fields present in the new document.
	Merge bool
}

// Snapshot is a document read from the store.
type Snapshot struct {
	ID  string
	raw bson.Raw
}

func NewSnapshot(id string, raw bson.Raw) *Snapshot {
	return &Snapshot{ID: id, raw: raw}
}

// Decode unmarshals the document into v.
func (s *Snapshot) Decode(v any) error {
	return bson.Unmarshal(s.raw, v)
}

// DocumentStore is the contract the permission core needs from the database.
// There are no multi-document transactions: every method touches one document
// or reads a set of them.
type DocumentStore interface {
	// Get returns ErrNotFound when the document does not exist.
	Get(ctx context.Context, collection, id string) (*Snapshot, error)
	// Set creates or overwrites the document stored under id.
	Set(ctx context.Context, collection, id string, doc any, opts SetOptions) error
	// Update patches top-level fields of an existing document.
	Update(ctx context.Context, collection, id string, fields map[string]any) error
	// Increment adds delta to a numeric field of an existing document.
	Increment(ctx context.Context, collection, id, field string, delta int64) error
	// Add creates a document under a store-generated id.
	Add(ctx context.Context, collection string, doc any) (string, error)
	Find(ctx context.Context, collection string, q Query) ([]*Snapshot, error)
	Count(ctx context.Context, collection string, where []Where) (int64, error)
	// Delete is a no-op when the document does not exist.
	Delete(ctx context.Context, collection, id string) error
	// Now is the store's timestamp for server-assigned fields.
	Now() time.Time
}

// toDocument encodes doc and forces its _id to id.
func toDocument(id string, doc any) (bson.D, error) {
	data, err := bson.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var d bson.D
	if err := bson.Unmarshal(data, &d); err != nil {
		return nil, err
	}
	out := make(bson.D, 0, len(d)+1)
	out = append(out, bson.E{Key: "_id", Value: id})
	for _, e := range d {
		if e.Key != "_id" {
			out = append(out, e)
		}
	}
	return out, nil
}
