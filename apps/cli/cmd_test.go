package main

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"io/ioutil"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/gradebook/core/grading"
	"github.com/trezcool/gradebook/core/profile"
	sqlxrepos "github.com/trezcool/gradebook/storage/database/sqlx"
	"github.com/trezcool/gradebook/tests"
)

type (
	cliTest struct {
		name       string
		args       []string // without the program name
		wantErr    error    // matched against errors.Cause
		wantErrStr string
		wantAnyErr bool
		wantOut    string // must be part of the output
		extra      interface{}
	}

	// terminal mocks an interactive stdin answering every prompt with answer.
	terminal struct {
		answer string
	}
)

func setup(t *testing.T) (*commandLine, *bytes.Buffer) {
	t.Helper()

	db := testutil.PrepareDB(t)
	var out bytes.Buffer
	cli := &commandLine{
		svc: testutil.NewService(t, sqlxrepos.NewDocumentRepository(db)),
		db:  db,
		out: &out,
	}

	origIsTerminal, origReadLine := isTerminalFunc, readLineFunc
	t.Cleanup(func() {
		isTerminalFunc, readLineFunc = origIsTerminal, origReadLine
	})
	return cli, &out
}

func runCLITests(t *testing.T, cli *commandLine, out *bytes.Buffer, tests []cliTest) {
	t.Helper()

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			isTerminalFunc = func() bool { return false }
			readLineFunc = func(string) (string, error) { return "", nil }
			if term, ok := tt.extra.(terminal); ok {
				isTerminalFunc = func() bool { return true }
				readLineFunc = func(string) (string, error) { return term.answer, nil }
			}
			out.Reset()

			err := cli.run(append([]string{"gradebook"}, tt.args...))
			switch {
			case tt.wantErr != nil:
				if errors.Cause(err) != tt.wantErr {
					t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
				}
			case tt.wantErrStr != "":
				if err == nil || err.Error() != tt.wantErrStr {
					t.Errorf("cli.run() error = %v, wantErrStr %q", err, tt.wantErrStr)
				}
			case tt.wantAnyErr:
				if err == nil {
					t.Error("cli.run() error = nil, want an error")
				}
			case err != nil:
				t.Errorf("cli.run() error = %v", err)
			}
			if tt.wantOut != "" {
				assert.Contains(t, out.String(), tt.wantOut)
			}
		})
	}
}

func Test_commandLine_usage(t *testing.T) {
	cli, out := setup(t)

	runCLITests(t, cli, out, []cliTest{
		{name: "no command", wantErr: errHelp, wantOut: "Usage: gradebook COMMAND"},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp, wantOut: "Calculators:"},
		{name: "-h", args: []string{"addprofile", "-h"}, wantErr: errHelp, wantOut: "-programme"},
		{name: "unknown flag", args: []string{"show", "-lol"}, wantErrStr: "flag provided but not defined: -lol"},
		{name: "missing id", args: []string{"show"}, wantErr: errHelp},
	})
}

func Test_commandLine_migrate(t *testing.T) {
	cli, out := setup(t)

	origRun := gooseRunFunc
	defer func() { gooseRunFunc = origRun }()

	var ran []string
	gooseRunFunc = func(command string, db *sql.DB, fsys fs.FS, dir string, args ...string) error {
		switch command {
		case "up", "up-by-one", "down", "redo", "reset", "status", "version", "fix": // pass
		case "up-to", "down-to":
			if len(args) == 0 {
				return fmt.Errorf("%s must be of form: goose [OPTIONS] DRIVER DBSTRING %s VERSION", command, command)
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		case "create":
			if len(args) == 0 {
				return fmt.Errorf("create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]")
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		ran = append(ran, command)
		return nil
	}

	runCLITests(t, cli, out, []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp, wantOut: "Usage: gradebook migrate"},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: `"lol": no such command`},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "down-to: no args", args: []string{"migrate", "down-to"}, wantErrStr: "down-to must be of form: goose [OPTIONS] DRIVER DBSTRING down-to VERSION"},
		{name: "create: no args", args: []string{"migrate", "create"}, wantErrStr: "create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-to", args: []string{"migrate", "up-to", "2"}},
		{name: "down-to", args: []string{"migrate", "down-to", "1"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "create", args: []string{"migrate", "create", "scenario_index", "sql"}},
	})
	assert.Equal(t, []string{"up", "up-to", "down-to", "status", "create"}, ran)

	t.Run("memory engine", func(t *testing.T) {
		memory := &commandLine{svc: testutil.NewService(t), out: out}
		assert.Equal(t, errNoMigrations, memory.run([]string{"gradebook", "migrate", "up"}))
	})
}

func Test_commandLine_profiles(t *testing.T) {
	cli, out := setup(t)

	runCLITests(t, cli, out, []cliTest{
		{name: "empty", args: []string{"profiles"}, wantOut: "No profiles yet"},
		{name: "invalid", args: []string{"addprofile", "-name", "Ama"}, wantAnyErr: true},
		{
			name:    "add",
			args:    []string{"addprofile", "-name", "Ama Mensah", "-number", "10900001", "-programme", "BSc Computer Science"},
			wantOut: "Profile created: ",
		},
		{name: "list", args: []string{"profiles"}, wantOut: "Ama Mensah"},
		{name: "show empty", args: []string{"show", "-id", "nope"}, wantErr: profile.ErrNotFound},
		{name: "delete unknown", args: []string{"delprofile", "-id", "nope"}, wantErr: profile.ErrNotFound},
	})

	profiles, err := cli.svc.QueryAll(context.Background())
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	id := profiles[0].ID

	runCLITests(t, cli, out, []cliTest{
		{name: "no semesters", args: []string{"show", "-id", id}, wantOut: "No semesters saved yet."},
		{name: "delete", args: []string{"delprofile", "-id", id}, wantOut: "Profile deleted."},
		{name: "empty again", args: []string{"profiles"}, wantOut: "No profiles yet"},
	})
}

func Test_commandLine_semester(t *testing.T) {
	cli, out := setup(t)
	p := testutil.CreateProfile(t, cli.svc, "Ama", "10900001")

	save := []string{"semester", "-id", p.ID, "-level", "100", "-semester", "1",
		"-course", "UGRC110:3:A:Academic Writing I", "-course", "math 101:3:c"}
	l100s2 := []string{"-id", p.ID, "-level", "100", "-semester", "2"}

	runCLITests(t, cli, out, []cliTest{
		{name: "no courses", args: []string{"semester", "-id", p.ID, "-level", "100", "-semester", "1"}, wantErr: errHelp},
		{name: "malformed course", args: append(save[:7:7], "-course", "UGRC110:3"), wantAnyErr: true},
		{name: "unknown grade", args: append(save[:7:7], "-course", "UGRC110:3:Z"), wantAnyErr: true},
		{name: "unknown level", args: []string{"semester", "-id", p.ID, "-level", "500", "-semester", "1", "-course", "UGRC110:3:A"}, wantAnyErr: true},
		{name: "unknown profile", args: []string{"semester", "-id", "nope", "-level", "100", "-semester", "1", "-course", "UGRC110:3:A"}, wantErr: profile.ErrNotFound},
		{name: "save", args: save, wantOut: "Level 100 - Semester 1 saved: GPA 3.00, 6 credits (6 passed)"},
		{name: "duplicate, not a terminal", args: save, wantErr: profile.ErrSemesterExists},
		{name: "duplicate, declined", args: save, wantErr: profile.ErrSemesterExists, extra: terminal{answer: "n"}},
		{name: "duplicate, confirmed", args: save, wantOut: "Level 100 - Semester 1 saved", extra: terminal{answer: "yes"}},
		{name: "duplicate, forced", args: append(save, "-force"), wantOut: "Level 100 - Semester 1 saved"},
		{
			name:    "with core courses",
			args:    append([]string{"semester", "-core", "-course", "DCIT102:3:B"}, l100s2...),
			wantOut: "Level 100 - Semester 2 saved: GPA 3.00, 3 credits (3 passed)",
		},
		{name: "nothing graded", args: []string{"semester", "-id", p.ID, "-level", "200", "-semester", "1", "-course", "UGRC210:3:-"}, wantAnyErr: true},
		{name: "show", args: []string{"show", "-id", p.ID}, wantOut: "CGPA: 3.00 - Second Class (Upper Division)"},
		{name: "show credits", args: []string{"show", "-id", p.ID}, wantOut: "Credits: 9 taken, 9 passed, 8% of 120"},
		{name: "show final", args: []string{"show", "-id", p.ID}, wantOut: "FGPA: at least 2 levels are needed"},
		{name: "cgpa", args: []string{"cgpa", "-id", p.ID}, wantOut: "CGPA: 3.00 over 2 semesters - Second Class (Upper Division)"},
		{name: "cgpa next boundary", args: []string{"cgpa", "-id", p.ID}, wantOut: "Next: 1st Class at 3.60"},
		{name: "delete", args: append([]string{"delsemester"}, l100s2...), wantOut: "Level 100 - Semester 2 deleted."},
		{name: "delete again", args: append([]string{"delsemester"}, l100s2...), wantErr: profile.ErrSemesterNotFound},
	})

	stored, err := cli.svc.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	require.Len(t, stored.Semesters, 1)
	courses := stored.Semesters[0].Courses
	require.Len(t, courses, 2)
	assert.Equal(t, "UGRC110", courses[0].Code)
	assert.Equal(t, "Academic Writing I", courses[0].Name.String)
	assert.Equal(t, "MATH101", courses[1].Code)
	assert.Equal(t, grading.GradeC, courses[1].Grade)
}

func Test_commandLine_calculators(t *testing.T) {
	cli, out := setup(t)
	p := testutil.CreateProfile(t, cli.svc, "Ama", "10900001")
	testutil.SaveSemester(t, cli.svc, p.ID, grading.Level100, 1,
		testutil.Course("UGRC110", 3, grading.GradeA), testutil.Course("MATH101", 3, grading.GradeC))
	testutil.SaveSemester(t, cli.svc, p.ID, grading.Level300, 1,
		testutil.Course("CSCS301", 3, grading.GradeB), testutil.Course("CSCS303", 3, grading.GradeF))

	runCLITests(t, cli, out, []cliTest{
		{name: "fgpa: profile", args: []string{"fgpa", "-id", p.ID}, wantOut: "FGPA: 2.00 - Second Class (Lower Division) (100: 3.00, 300: 1.50)"},
		{name: "fgpa: profile, 300 N/A", args: []string{"fgpa", "-id", p.ID, "-na", "300"}, wantErr: grading.ErrInsufficientData},
		{name: "fgpa: unknown profile", args: []string{"fgpa", "-id", "nope"}, wantErr: profile.ErrNotFound},
		{
			name:    "fgpa: typed in",
			args:    []string{"fgpa", "-l100", "3.0", "-l200", "na", "-l300", "3.6"},
			wantOut: "FGPA: 3.40 - Second Class (Upper Division) (100: 3.00, 200: N/A, 300: 3.60)",
		},
		{name: "fgpa: one level", args: []string{"fgpa", "-l100", "3.0"}, wantErr: grading.ErrInsufficientData},
		{name: "fgpa: out of range", args: []string{"fgpa", "-l100", "3.0", "-l200", "4.5"}, wantAnyErr: true},
		{name: "fgpa: not a number", args: []string{"fgpa", "-l100", "abc"}, wantErrStr: `Level 100 GPA "abc" is not a number`},
		{name: "fgpa: nothing", args: []string{"fgpa"}, wantErr: errHelp},

		{name: "predict", args: []string{"predict", "-cgpa", "3.5", "-credits", "60", "-gpa", "4", "-next", "30"}, wantOut: "increases by 0.17 from 3.50 to 3.67"},
		{name: "predict: from profile", args: []string{"predict", "-id", p.ID, "-gpa", "2.25", "-next", "12"}, wantOut: "remains the same from 2.25 to 2.25"},
		{name: "predict: no credits", args: []string{"predict", "-cgpa", "3.5", "-gpa", "4", "-next", "30"}, wantAnyErr: true},
		{name: "predict: nothing", args: []string{"predict"}, wantErr: errHelp},

		{name: "target: very hard", args: []string{"target", "-cgpa", "3.0", "-credits", "60", "-target", "3.4", "-remaining", "60"}, wantOut: grading.VeryHard.Advice()},
		{name: "target: required", args: []string{"target", "-cgpa", "3.0", "-credits", "60", "-target", "3.4", "-remaining", "60"}, wantOut: "Required GPA over the remaining 60 credits: 3.80"},
		{name: "target: unreachable", args: []string{"target", "-cgpa", "2.0", "-credits", "90", "-target", "3.6", "-remaining", "30"}, wantOut: grading.Unreachable.Advice()},
		{name: "target: from profile", args: []string{"target", "-id", p.ID, "-target", "1.0", "-remaining", "12"}, wantOut: grading.AlreadyExceeded.Advice()},

		{name: "retake", args: []string{"retake", "-id", p.ID, "-grade", "A"}, wantOut: "+8.00"},
		{name: "retake: default grade", args: []string{"retake", "-id", p.ID}, wantOut: "+6.00"},
		{name: "retake: 300 N/A", args: []string{"retake", "-id", p.ID, "-na", "300"}, wantOut: "No failed course to retake."},
		{name: "retake: unknown grade", args: []string{"retake", "-id", p.ID, "-grade", "Z"}, wantAnyErr: true},

		{name: "show: failed", args: []string{"show", "-id", p.ID}, wantOut: "Failed: CSCS303 (F)"},
		{name: "show: top", args: []string{"show", "-id", p.ID}, wantOut: "Top courses: UGRC110 (A), CSCS301 (B)"},
		{name: "show: retakes", args: []string{"show", "-id", p.ID}, wantOut: "CSCS303"},
	})
}

func Test_commandLine_retakeSigns(t *testing.T) {
	cli, out := setup(t)
	p := testutil.CreateProfile(t, cli.svc, "Ama", "10900001")
	testutil.SaveSemester(t, cli.svc, p.ID, grading.Level100, 1,
		testutil.Course("UGRC110", 3, grading.GradeA), testutil.Course("MATH101", 3, grading.GradeE))

	runCLITests(t, cli, out, []cliTest{
		{name: "better grade", args: []string{"retake", "-id", p.ID, "-grade", "B"}, wantOut: "+1.25"},
		{name: "worse grade", args: []string{"retake", "-id", p.ID, "-grade", "F"}, wantOut: " -0.25"},
	})
	assert.NotContains(t, out.String(), "+-")
}

func Test_commandLine_scenarios(t *testing.T) {
	cli, out := setup(t)
	p := testutil.CreateProfile(t, cli.svc, "Ama", "10900001")

	runCLITests(t, cli, out, []cliTest{
		{name: "none", args: []string{"scenarios", "-id", p.ID}, wantOut: "No pinned scenario."},
		{name: "no standing", args: []string{"pin", "-id", p.ID, "-name", "All A", "-gpa", "4", "-next", "30"}, wantAnyErr: true},
		{name: "no name", args: []string{"pin", "-id", p.ID, "-cgpa", "3.5", "-credits", "60", "-gpa", "4", "-next", "30"}, wantAnyErr: true},
		{
			name:    "pin",
			args:    []string{"pin", "-id", p.ID, "-name", "All A", "-cgpa", "3.5", "-credits", "60", "-gpa", "4", "-next", "30"},
			wantOut: `Scenario "All A" pinned`,
		},
		{name: "list", args: []string{"scenarios", "-id", p.ID}, wantOut: "3.67"},
		{name: "unpin unknown", args: []string{"unpin", "-id", p.ID, "-scenario", "nope"}, wantErr: profile.ErrScenarioNotFound},
	})

	stored, err := cli.svc.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	require.Len(t, stored.Scenarios, 1)
	assert.InDelta(t, 3.6667, stored.Scenarios[0].PredictedCGPA, 0.0001)

	runCLITests(t, cli, out, []cliTest{
		{name: "unpin", args: []string{"unpin", "-id", p.ID, "-scenario", stored.Scenarios[0].ID}, wantOut: "Scenario removed."},
		{name: "none again", args: []string{"scenarios", "-id", p.ID}, wantOut: "No pinned scenario."},
	})
}

func Test_commandLine_catalog(t *testing.T) {
	cli, out := setup(t)

	runCLITests(t, cli, out, []cliTest{
		{name: "demo", args: []string{"demo"}, wantOut: "Demo profile created: "},
		{name: "demo again", args: []string{"demo"}, wantOut: "Demo profile already exists: "},
		{name: "suggest", args: []string{"suggest", "-q", "dcit", "-limit", "3"}, wantOut: "DCIT"},
		{name: "catalog", args: []string{"catalog", "-level", "100"}, wantOut: "UGRC110\tAcademic Writing I\t3 credits"},
		{name: "catalog: none", args: []string{"catalog", "-level", "400"}, wantOut: "No core courses at Level 400."},
		{name: "catalog: no level", args: []string{"catalog"}, wantErr: errHelp},
	})
}

func Test_commandLine_data(t *testing.T) {
	cli, out := setup(t)
	p := testutil.CreateProfile(t, cli.svc, "Ama", "10900001")
	testutil.SaveSemester(t, cli.svc, p.ID, grading.Level100, 1, testutil.Course("UGRC110", 3, grading.GradeA))

	dir := t.TempDir()
	dump := filepath.Join(dir, "dump.json")
	transcript := filepath.Join(dir, "transcript.csv")

	runCLITests(t, cli, out, []cliTest{
		{name: "export", args: []string{"export", "-o", dump}},
		{name: "export to stdout", args: []string{"export"}, wantOut: `"UGRC110"`},
		{name: "export csv without id", args: []string{"export", "-csv"}, wantErr: errHelp},
		{name: "export csv", args: []string{"export", "-csv", "-id", p.ID, "-o", transcript}},
		{name: "import: no file", args: []string{"import"}, wantErr: errHelp},
		{name: "import: missing file", args: []string{"import", "-i", filepath.Join(dir, "nope.json")}, wantAnyErr: true},
		{name: "import: merge", args: []string{"import", "-i", dump}, wantOut: "0 profile(s) imported."},
		{name: "import: bad mode", args: []string{"import", "-i", dump, "-mode", "lol"}, wantAnyErr: true},
		{name: "import: replace, declined", args: []string{"import", "-i", dump, "-mode", "replace"}, wantErr: errAborted, extra: terminal{answer: "no"}},
		{name: "import: replace", args: []string{"import", "-i", dump, "-mode", "replace"}, wantOut: "1 profile(s) imported."},
		{name: "reset: not a terminal", args: []string{"reset"}, wantErr: errHelp},
		{name: "reset: not confirmed", args: []string{"reset", "-confirm", "yes"}, wantErr: profile.ErrResetNotConfirmed},
		{name: "reset: wrong answer", args: []string{"reset"}, wantErr: profile.ErrResetNotConfirmed, extra: terminal{answer: "delete all"}},
		{name: "reset", args: []string{"reset"}, wantOut: "All profiles deleted.", extra: terminal{answer: profile.ResetConfirmation}},
		{name: "empty", args: []string{"profiles"}, wantOut: "No profiles yet"},
		{name: "import after reset", args: []string{"import", "-i", dump}, wantOut: "1 profile(s) imported."},
	})

	data, err := ioutil.ReadFile(transcript)
	require.NoError(t, err)
	assert.Equal(t, "Level,Semester,Course Code,Course Name,Credits,Grade,Grade Points\n100,1,UGRC110,,3,A,12.00\n", string(data))

	restored, err := cli.svc.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	require.Len(t, restored.Semesters, 1)
	assert.Equal(t, 4.0, restored.Semesters[0].GPA)
}

func Test_describe(t *testing.T) {
	validate, translator := profile.NewValidator()
	svc := profile.NewService(testutil.NewMemoryRepository(t), testutil.NewLogger(), validate, testutil.NewConfig().Grading)

	_, err := svc.Create(context.Background(), profile.NewProfile{})
	require.Error(t, err)
	msg := describe(err, translator)
	assert.Contains(t, msg, "name: ")
	assert.Contains(t, msg, "number: this field is required")

	assert.Equal(t, "boom", describe(errors.New("boom"), translator))
}
