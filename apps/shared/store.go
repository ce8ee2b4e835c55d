// Package shared sets up what the gradebook apps have in common: loggers and the profile store.
package shared

import (
	"context"
	"log"
	"os"

	ut "github.com/go-playground/universal-translator"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/profile"
	logsvc "github.com/trezcool/gradebook/services/logger"
	"github.com/trezcool/gradebook/storage/database"
	dummydb "github.com/trezcool/gradebook/storage/database/dummy"
	sqlxrepos "github.com/trezcool/gradebook/storage/database/sqlx"
)

// Store is the profile repository an app runs on.
type Store struct {
	Repo profile.Repository
	DB   *sqlx.DB // nil on the memory engine
}

// NewLogger returns a rollbar logger printing to stdout with the given prefix, e.g. "API : ".
func NewLogger(prefix string, conf *core.Config) core.Logger {
	return logsvc.NewRollbarLogger(
		log.New(os.Stdout, prefix, log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
}

// OpenStore opens the configured storage engine. SQL databases are migrated up.
func OpenStore(ctx context.Context, conf core.DatabaseConfig) (*Store, error) {
	if conf.Engine == core.EngineMemory {
		db, err := dummydb.Open()
		if err != nil {
			return nil, errors.Wrap(err, "opening memory store")
		}
		return &Store{Repo: dummydb.NewDocumentRepository(db)}, nil
	}

	db, err := database.Open(ctx, conf)
	if err != nil {
		return nil, err
	}
	if err = database.Migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{Repo: sqlxrepos.NewDocumentRepository(db), DB: db}, nil
}

func (s *Store) Close() error {
	if s.DB == nil {
		return nil
	}
	return s.DB.Close()
}

// NewProfileService returns the profile service over the store, and the translator of its validation messages.
func NewProfileService(s *Store, logger core.Logger, conf *core.Config) (*profile.Service, ut.Translator) {
	validate, translator := profile.NewValidator()
	return profile.NewService(s.Repo, logger, validate, conf.Grading), translator
}
