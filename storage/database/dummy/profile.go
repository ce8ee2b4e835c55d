package dummydb

import (
	"context"

	"github.com/trezcool/gradebook/core/profile"
)

type documentRepository struct {
	db *documentTable
}

var _ profile.Repository = (*documentRepository)(nil) // interface compliance check

func NewDocumentRepository(db *DB) profile.Repository {
	return &documentRepository{db: db.store}
}

func (repo *documentRepository) Snapshot(ctx context.Context) (profile.Document, error) {
	if err := ctx.Err(); err != nil {
		return profile.Document{}, err
	}
	repo.db.RLock()
	defer repo.db.RUnlock()

	return repo.db.doc.Clone(), nil
}

// Update runs fn on a copy and keeps it only if fn succeeds.
func (repo *documentRepository) Update(ctx context.Context, fn func(doc *profile.Document) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	repo.db.Lock()
	defer repo.db.Unlock()

	doc := repo.db.doc.Clone()
	if err := fn(&doc); err != nil {
		return err
	}
	repo.db.doc = doc
	return nil
}
