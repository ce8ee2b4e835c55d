package grading

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sem(level Level, number Term, gpa float64) Semester {
	return Semester{Level: level, Number: number, Totals: Totals{TotalCredits: 15, CreditsPassed: 15, GPA: gpa}}
}

func gpaPtr(v float64) *float64 { return &v }

func TestAggregateFinal(t *testing.T) {
	// level averages 2.75, 3.70, 3.81, 3.68
	semesters := []Semester{
		sem(Level100, 1, 2.5), sem(Level100, 2, 3.0),
		sem(Level200, 1, 3.7),
		sem(Level300, 1, 3.82), sem(Level300, 2, 3.80),
		sem(Level400, 1, 3.68),
	}

	got := AggregateFinal(semesters)
	require.False(t, got.InsufficientData)
	assert.Equal(t, FullWeight, got.TotalWeight)
	assert.InDelta(t, 21.43/6, got.FGPA, 1e-9)
	assert.InDelta(t, 3.5717, got.FGPA, 1e-4)
	assert.Equal(t, SecondUpper, got.Classification)

	if assert.Len(t, got.Levels, 4) {
		assert.InDelta(t, 2.75, got.Levels[0].GPA, 1e-9)
		assert.Equal(t, 2, got.Levels[0].Semesters)
		assert.InDelta(t, 3.81, got.Levels[2].GPA, 1e-9)
		assert.Equal(t, 2.0, got.Levels[3].Weight)
	}
}

func TestAggregateFinal_weightInvariant(t *testing.T) {
	gpas := map[Level]float64{Level100: 2.75, Level200: 3.70, Level300: 3.81, Level400: 3.68}

	// every subset of the four levels
	for mask := 0; mask < 16; mask++ {
		var (
			semesters []Semester
			present   int
			want      float64
		)
		for i, l := range Levels {
			if mask&(1<<i) == 0 {
				continue
			}
			semesters = append(semesters, sem(l, 1, gpas[l]))
			present++
			want += l.Weight()
		}

		got := AggregateFinal(semesters)
		if present < MinFinalLevels {
			assert.True(t, got.InsufficientData, "mask %04b", mask)
			assert.Zero(t, got.TotalWeight)
			assert.Empty(t, got.Classification)
			continue
		}
		assert.False(t, got.InsufficientData, "mask %04b", mask)
		assert.Equal(t, want, got.TotalWeight, "mask %04b", mask)
		assert.Len(t, got.PresentLevels(), present)
		assert.True(t, got.FGPA >= 2.75 && got.FGPA <= 3.81, "mask %04b: fgpa %v", mask, got.FGPA)
	}
}

func TestAggregateFinal_skipped(t *testing.T) {
	semesters := []Semester{sem(Level100, 1, 2.0), sem(Level300, 1, 3.0), sem(Level400, 1, 4.0)}

	all := AggregateFinal(semesters)
	assert.InDelta(t, (2.0+6.0+8.0)/5, all.FGPA, 1e-9)

	// skipping a level is the same as not having it
	skipped := AggregateFinal(semesters, Level100)
	absent := AggregateFinal(semesters[1:])
	assert.Equal(t, absent.FGPA, skipped.FGPA)
	assert.Equal(t, absent.TotalWeight, skipped.TotalWeight)
	assert.True(t, skipped.Levels[0].Skipped)
	assert.False(t, skipped.Levels[0].Present)

	assert.True(t, AggregateFinal(semesters, Level100, Level300).InsufficientData)
}

func TestAggregateFinal_ignoresUngradedSemesters(t *testing.T) {
	semesters := []Semester{sem(Level100, 1, 3.0), {Level: Level200, Number: 1}}
	assert.True(t, AggregateFinal(semesters).InsufficientData)
}

func TestFinalFromLevels(t *testing.T) {
	tests := []struct {
		name     string
		entries  []LevelEntry
		want     float64
		wantErr  error
		inputErr bool
	}{
		{
			name: "all levels",
			entries: []LevelEntry{
				{Level: Level100, GPA: gpaPtr(2.75)}, {Level: Level200, GPA: gpaPtr(3.70)},
				{Level: Level300, GPA: gpaPtr(3.81)}, {Level: Level400, GPA: gpaPtr(3.68)},
			},
			want: 21.43 / 6,
		},
		{
			name: "N/A level",
			entries: []LevelEntry{
				{Level: Level100, NA: true, GPA: gpaPtr(1.0)}, {Level: Level200, GPA: gpaPtr(3.0)},
				{Level: Level300, GPA: gpaPtr(3.5)},
			},
			want: (3.0 + 7.0) / 3,
		},
		{
			name:    "single level",
			entries: []LevelEntry{{Level: Level100, GPA: gpaPtr(3.0)}, {Level: Level200, NA: true}},
			wantErr: ErrInsufficientData,
		},
		{
			name:     "out of range",
			entries:  []LevelEntry{{Level: Level100, GPA: gpaPtr(4.5)}, {Level: Level200, GPA: gpaPtr(3.0)}},
			inputErr: true,
		},
		{
			name:     "duplicate level",
			entries:  []LevelEntry{{Level: Level100, GPA: gpaPtr(3.0)}, {Level: Level100, GPA: gpaPtr(3.0)}},
			inputErr: true,
		},
		{
			name:     "unknown level",
			entries:  []LevelEntry{{Level: 500, GPA: gpaPtr(3.0)}},
			inputErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FinalFromLevels(tt.entries)
			switch {
			case tt.inputErr:
				assert.IsType(t, &InputError{}, err)
			case tt.wantErr != nil:
				assert.Equal(t, tt.wantErr, err)
				assert.True(t, got.InsufficientData)
			default:
				require.NoError(t, err)
				assert.InDelta(t, tt.want, got.FGPA, 1e-9)
			}
		})
	}
}

func TestErrors_stackTrace(t *testing.T) {
	type stackTracer interface {
		StackTrace() errors.StackTrace
	}
	for _, err := range []error{ErrNoCourses, ErrInsufficientData} {
		_, ok := err.(stackTracer)
		assert.True(t, ok, "%v carries no stack trace", err)
		assert.Equal(t, err, errors.Cause(errors.Wrap(err, "computing")))
	}
}
