package database

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"github.com/trezcool/goose"

	"github.com/trezcool/gradebook/core"
	appfs "github.com/trezcool/gradebook/fs"
)

// MigrationsDir is the directory of appfs.FS holding the migrations.
const MigrationsDir = "migrations"

// ErrNoDatabase is returned by Open for the memory engine.
var ErrNoDatabase = errors.New("the memory engine has no database")

func dataSourceName(conf core.DatabaseConfig) string {
	if conf.Engine == core.EngineSQLite {
		// busy_timeout lets the CLI and the API share the file
		return "file:" + conf.Name + "?_busy_timeout=5000&_loc=UTC"
	}

	sslMode := "require"
	if conf.DisableTLS {
		sslMode = "disable"
	}
	q := make(url.Values)
	q.Set("sslmode", sslMode)
	q.Set("timezone", "utc")

	u := url.URL{
		Scheme:   conf.Engine,
		User:     url.UserPassword(conf.User, conf.Password),
		Host:     conf.Address(),
		Path:     conf.Name,
		RawQuery: q.Encode(),
	}
	return u.String()
}

// Open connects to the configured database and waits for it to answer.
func Open(ctx context.Context, conf core.DatabaseConfig) (*sqlx.DB, error) {
	switch conf.Engine {
	case core.EngineMemory:
		return nil, ErrNoDatabase
	case core.EngineSQLite:
		if dir := filepath.Dir(conf.Name); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, errors.Wrap(err, "creating database directory")
			}
		}
	case core.EnginePostgres:
	default:
		return nil, errors.Errorf("unsupported database engine %q", conf.Engine)
	}

	db, err := sqlx.Open(conf.Engine, dataSourceName(conf))
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}
	if conf.Engine == core.EngineSQLite {
		// one writer at a time
		db.SetMaxOpenConns(1)
	}
	if err = ping(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// ping waits for the database to be ready. Waits 100ms longer between each attempt.
func ping(ctx context.Context, db *sqlx.DB) error {
	var err error
	maxAttempts := 30
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		if err = db.PingContext(ctx); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), "DB ping")
		case <-time.After(time.Duration(attempts) * 100 * time.Millisecond):
		}
	}
	return errors.Wrap(err, "DB ping timeout")
}

// RunMigration runs a goose command (up, down, redo, status, version...) against db.
func RunMigration(db *sqlx.DB, command string, args ...string) error {
	if err := goose.SetDialect(db.DriverName()); err != nil {
		return errors.Wrap(err, "setting migration dialect")
	}
	return goose.RunFS(command, db.DB, appfs.FS, MigrationsDir, args...)
}

// Migrate applies every pending migration.
func Migrate(db *sqlx.DB) error {
	if err := RunMigration(db, "up"); err != nil {
		return errors.Wrap(err, "migrating database")
	}
	return nil
}
