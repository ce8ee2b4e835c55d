package testutil

import (
	"context"
	"io"
	"log"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/grading"
	"github.com/trezcool/gradebook/core/profile"
	logsvc "github.com/trezcool/gradebook/services/logger"
	"github.com/trezcool/gradebook/storage/database"
	dummydb "github.com/trezcool/gradebook/storage/database/dummy"
)

// NewConfig returns a test configuration on the memory engine.
func NewConfig() *core.Config {
	return &core.Config{
		AppName:  "Gradebook",
		Env:      "TEST",
		TestMode: true,
		Database: core.DatabaseConfig{Engine: core.EngineMemory},
		Grading:  core.GradingConfig{RetakeGrade: "B", CreditsRequired: 120},
	}
}

// NewLogger returns a logger that prints nothing and reports nothing.
func NewLogger() core.Logger {
	return logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), NewConfig())
}

// PrepareDB opens a migrated sqlite database in a temporary directory.
func PrepareDB(t *testing.T) *sqlx.DB {
	t.Helper()

	conf := core.DatabaseConfig{Engine: core.EngineSQLite, Name: filepath.Join(t.TempDir(), "test.db")}
	db, err := database.Open(context.Background(), conf)
	require.NoError(t, err, "database.Open()")
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, database.Migrate(db), "database.Migrate()")
	return db
}

// NewMemoryRepository returns an empty in-memory profile repository.
func NewMemoryRepository(t *testing.T) profile.Repository {
	t.Helper()

	db, err := dummydb.Open()
	require.NoError(t, err)
	return dummydb.NewDocumentRepository(db)
}

// NewService returns a profile service over repo, or over a fresh in-memory repository.
func NewService(t *testing.T, repo ...profile.Repository) *profile.Service {
	t.Helper()

	var r profile.Repository
	if len(repo) > 0 {
		r = repo[0]
	} else {
		r = NewMemoryRepository(t)
	}
	validate, _ := profile.NewValidator()
	return profile.NewService(r, NewLogger(), validate, NewConfig().Grading)
}

func CreateProfile(t *testing.T, svc *profile.Service, name, number string) profile.Profile {
	t.Helper()

	p, err := svc.Create(context.Background(), profile.NewProfile{Name: name, StudentNumber: number, Programme: "BSc Computer Science"})
	if err != nil {
		t.Fatalf("CreateProfile() failed: %v", err)
	}
	return p
}

// SaveSemester saves a semester of courses given as (code, credits, grade) rows.
func SaveSemester(t *testing.T, svc *profile.Service, id string, level grading.Level, number grading.Term, courses ...grading.Course) grading.Semester {
	t.Helper()

	sem, err := svc.SaveSemester(context.Background(), id, profile.NewSemester{Level: level, Number: number, Courses: courses}, false)
	if err != nil {
		t.Fatalf("SaveSemester() failed: %v", err)
	}
	return sem
}

func Course(code string, credits int, grade grading.Grade) grading.Course {
	return grading.Course{Code: code, Credits: credits, Grade: grade}
}
