package repository

import (
	"time"

	"journal/internal/rbac/adapter"
)

// DocumentRepository implements every repository interface on top of a DocumentStore.
type DocumentRepository struct {
	Store       adapter.DocumentStore
	Collections Collections
}

func NewDocumentRepository(store adapter.DocumentStore, collections Collections) *DocumentRepository {
	return &DocumentRepository{Store: store, Collections: collections}
}

func (r *DocumentRepository) Now() time.Time {
	return r.Store.Now()
}

var _ Repository = (*DocumentRepository)(nil)

func decodeAll[T any](snaps []*adapter.Snapshot) ([]*T, error) {
	out := make([]*T, 0, len(snaps))
	for _, snap := range snaps {
		v := new(T)
		if err := snap.Decode(v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
