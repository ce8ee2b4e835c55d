package grading

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"
)

func course(code string, credits int, grade Grade) Course {
	return Course{Code: code, Credits: credits, Grade: grade}
}

func firstSemesterCourses() []Course {
	return []Course{
		course("UGRC110", 3, GradeBPlus),
		course("DCIT101", 3, GradeA),
		course("DCIT103", 3, GradeB),
		course("MATH121", 3, GradeBPlus),
		course("STAT111", 3, GradeCPlus),
	}
}

func TestAggregateSemester(t *testing.T) {
	tests := []struct {
		name    string
		courses []Course
		want    Totals
		wantErr error
	}{
		{name: "no courses", wantErr: ErrNoCourses},
		{
			name:    "first semester",
			courses: firstSemesterCourses(),
			want:    Totals{TotalCredits: 15, CreditsPassed: 15, TotalGradePoints: 49.5, GPA: 3.3},
		},
		{
			name:    "fail counts as attempted, not passed",
			courses: []Course{course("A1", 3, GradeA), course("B1", 3, GradeF), course("C1", 2, GradeE)},
			want:    Totals{TotalCredits: 8, CreditsPassed: 3, TotalGradePoints: 13, GPA: 13.0 / 8},
		},
		{
			name:    "ungraded and creditless courses are left out",
			courses: []Course{course("A1", 3, GradeB), course("B1", 3, Ungraded), course("C1", 0, GradeA)},
			want:    Totals{TotalCredits: 3, CreditsPassed: 3, TotalGradePoints: 9, GPA: 3},
		},
		{
			name:    "nothing graded",
			courses: []Course{course("A1", 3, Ungraded)},
			want:    Totals{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AggregateSemester(tt.courses)
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want.TotalCredits, got.TotalCredits)
			assert.Equal(t, tt.want.CreditsPassed, got.CreditsPassed)
			assert.InDelta(t, tt.want.TotalGradePoints, got.TotalGradePoints, 1e-9)
			assert.InDelta(t, tt.want.GPA, got.GPA, 1e-9)
		})
	}
}

func TestAggregateSemester_bounds(t *testing.T) {
	// every combination of two graded courses stays within the scale
	for _, g1 := range Grades {
		for _, g2 := range Grades {
			for credits := 1; credits <= 6; credits++ {
				got, err := AggregateSemester([]Course{course("X1", credits, g1), course("X2", 7-credits, g2)})
				require.NoError(t, err)
				assert.True(t, got.GPA >= 0 && got.GPA <= 4, "gpa %v out of range", got.GPA)
			}
		}
	}
}

func TestAggregateSemester_idempotent(t *testing.T) {
	courses := firstSemesterCourses()
	first, err := AggregateSemester(courses)
	require.NoError(t, err)
	second, err := AggregateSemester(courses)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestNewSemester(t *testing.T) {
	_, err := NewSemester(150, 1, firstSemesterCourses())
	assert.IsType(t, &InputError{}, err)

	_, err = NewSemester(Level100, 3, firstSemesterCourses())
	assert.IsType(t, &InputError{}, err)

	_, err = NewSemester(Level100, 1, nil)
	assert.Equal(t, ErrNoCourses, err)

	sem, err := NewSemester(Level100, 1, firstSemesterCourses())
	require.NoError(t, err)
	assert.Equal(t, Key{Level: Level100, Number: 1}, sem.Key())
	assert.Equal(t, "Level 100 - Semester 1", sem.Key().String())
	assert.InDelta(t, 3.3, sem.GPA, 1e-9)
}

func TestCourse_GradePoints(t *testing.T) {
	assert.Equal(t, 10.5, course("X1", 3, GradeBPlus).GradePoints())
	assert.Equal(t, 0.0, course("X1", 3, GradeF).GradePoints())
	assert.Equal(t, 0.0, course("X1", 3, Ungraded).GradePoints())
}

func TestSemester_roundTrip(t *testing.T) {
	courses := firstSemesterCourses()
	courses[0].Name = null.StringFrom("Academic Writing I")
	sem, err := NewSemester(Level100, 2, courses)
	require.NoError(t, err)

	data, err := json.Marshal(sem)
	require.NoError(t, err)

	var decoded Semester
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, sem.Totals, decoded.Totals)
	assert.Equal(t, sem.Courses, decoded.Courses)

	again, err := AggregateSemester(decoded.Courses)
	require.NoError(t, err)
	assert.Equal(t, sem.Totals, again)
}

func TestSemester_UnmarshalJSON_stringKeys(t *testing.T) {
	var sem Semester
	err := json.Unmarshal([]byte(`{"level":"300","semester":"2","courses":[],"gpa":3.1}`), &sem)
	require.NoError(t, err)
	assert.Equal(t, Level300, sem.Level)
	assert.Equal(t, Term(2), sem.Number)
	assert.Equal(t, 3.1, sem.GPA)

	err = json.Unmarshal([]byte(`{"level":"abc"}`), &sem)
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	for _, in := range []string{"100", "L100", "level 100", " Level100 "} {
		l, err := ParseLevel(in)
		assert.NoError(t, err, in)
		assert.Equal(t, Level100, l, in)
	}
	_, err := ParseLevel("500")
	assert.Error(t, err)
}

func TestAggregateCumulative(t *testing.T) {
	assert.False(t, AggregateCumulative(nil).HasData())
	assert.Equal(t, Cumulative{}, AggregateCumulative(nil))

	semesters := []Semester{
		{Level: Level100, Number: 1, Totals: Totals{TotalCredits: 15, CreditsPassed: 15, GPA: 3.3}},
		// a light semester still counts as much as a full one
		{Level: Level100, Number: 2, Totals: Totals{TotalCredits: 3, CreditsPassed: 0, GPA: 0.5}},
		{Level: Level200, Number: 1, Totals: Totals{}},
	}
	got := AggregateCumulative(semesters)
	assert.True(t, got.HasData())
	assert.Equal(t, 2, got.Semesters)
	assert.InDelta(t, 1.9, got.CGPA, 1e-9)
	assert.Equal(t, 18, got.TotalTaken)
	assert.Equal(t, 15, got.TotalPassed)
}
