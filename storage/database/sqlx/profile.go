package sqlxrepos

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/profile"
)

const (
	selectDocument = `SELECT store_key, body, updated_at FROM kv_store WHERE store_key = ?`
	upsertDocument = `INSERT INTO kv_store (store_key, body, updated_at) VALUES (:store_key, :body, :updated_at)
ON CONFLICT (store_key) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`
)

// kvRow is a row of the kv_store table.
type kvRow struct {
	Key       string    `db:"store_key"`
	Body      string    `db:"body"`
	UpdatedAt time.Time `db:"updated_at"`
}

// DocumentRepository keeps the profile document as one JSON row of kv_store.
type DocumentRepository struct {
	db  *sqlx.DB
	key string
}

var _ profile.Repository = (*DocumentRepository)(nil) // interface compliance check

func NewDocumentRepository(db *sqlx.DB) *DocumentRepository {
	return &DocumentRepository{db: db, key: profile.StoreKey}
}

// selectQuery returns the document SELECT for the driver, locking the row when forUpdate is set.
// SQLite has no row locks: its writes are serialized by the single connection.
func selectQuery(driverName string, forUpdate bool) string {
	query := sqlx.Rebind(sqlx.BindType(driverName), selectDocument)
	if forUpdate && driverName == "postgres" {
		query += " FOR UPDATE"
	}
	return query
}

func (repo *DocumentRepository) load(ctx context.Context, q sqlx.QueryerContext, forUpdate bool) (profile.Document, error) {
	var (
		row kvRow
		doc profile.Document
	)
	err := sqlx.GetContext(ctx, q, &row, selectQuery(repo.db.DriverName(), forUpdate), repo.key)
	if err == sql.ErrNoRows {
		return doc, nil
	}
	if err != nil {
		return doc, errors.Wrap(err, "selecting document")
	}
	// a store that cannot be read back must not be written over
	if err = json.Unmarshal([]byte(row.Body), &doc); err != nil {
		return doc, errors.Wrap(core.NewShutdownError(err.Error()), "decoding document")
	}
	return doc, nil
}

func (repo *DocumentRepository) Snapshot(ctx context.Context) (profile.Document, error) {
	return repo.load(ctx, repo.db, false)
}

// Update reads, changes and writes the document in one transaction. On postgres the row is
// locked for the whole transaction, so concurrent updates apply one after the other.
func (repo *DocumentRepository) Update(ctx context.Context, fn func(doc *profile.Document) error) error {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	defer func() { _ = tx.Rollback() }()

	doc, err := repo.load(ctx, tx, true)
	if err != nil {
		return err
	}
	if err = fn(&doc); err != nil {
		return err
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, "encoding document")
	}
	row := kvRow{Key: repo.key, Body: string(body), UpdatedAt: time.Now().UTC()}
	if _, err = tx.NamedExecContext(ctx, upsertDocument, row); err != nil {
		return errors.Wrap(err, "saving document")
	}
	return errors.Wrap(tx.Commit(), "committing document")
}
