// Package grading holds the GPA rules: the grade scale, degree classification,
// semester/cumulative/final aggregation and the what-if projections built on them.
// Every function here is pure; callers pass the profile data they want computed.
package grading

import (
	"fmt"
	"strings"
)

// Grade is a letter grade token. The zero value is Ungraded.
type Grade string

// Grades
const (
	Ungraded   Grade = ""
	GradeA     Grade = "A"
	GradeBPlus Grade = "B+"
	GradeB     Grade = "B"
	GradeCPlus Grade = "C+"
	GradeC     Grade = "C"
	GradeDPlus Grade = "D+"
	GradeD     Grade = "D"
	GradeE     Grade = "E"
	GradeF     Grade = "F"
)

// PassPoints is the lowest point value counted as passed (D or better).
const PassPoints = 1.0

var (
	// Grades lists the scale from best to worst.
	Grades = []Grade{GradeA, GradeBPlus, GradeB, GradeCPlus, GradeC, GradeDPlus, GradeD, GradeE, GradeF}

	gradePoints = map[Grade]float64{
		GradeA:     4.0,
		GradeBPlus: 3.5,
		GradeB:     3.0,
		GradeCPlus: 2.5,
		GradeC:     2.0,
		GradeDPlus: 1.5,
		GradeD:     1.0,
		GradeE:     0.5,
		GradeF:     0.0,
	}
)

// ScaleEntry is one row of the grade reference table.
type ScaleEntry struct {
	Grade  Grade   `json:"grade"`
	Points float64 `json:"points"`
}

// Scale returns the grade reference table, best grade first.
func Scale() []ScaleEntry {
	entries := make([]ScaleEntry, 0, len(Grades))
	for _, g := range Grades {
		entries = append(entries, ScaleEntry{Grade: g, Points: gradePoints[g]})
	}
	return entries
}

// ParseGrade reads a grade token, case-insensitively. An empty token is Ungraded.
func ParseGrade(s string) (Grade, error) {
	g := Grade(strings.ToUpper(strings.TrimSpace(s)))
	if g == Ungraded || g.Valid() {
		return g, nil
	}
	return Ungraded, &InputError{Field: "grade", Reason: fmt.Sprintf("unknown grade %q", s)}
}

// Points returns the point value of g. ok is false for Ungraded (and unknown tokens):
// such a course has no points at all, it is not worth 0.0.
func (g Grade) Points() (points float64, ok bool) {
	points, ok = gradePoints[g]
	return
}

// Valid reports whether g is a letter of the scale.
func (g Grade) Valid() bool {
	_, ok := gradePoints[g]
	return ok
}

func (g Grade) IsPass() bool {
	p, ok := g.Points()
	return ok && p >= PassPoints
}

// IsFail reports whether g is a graded fail (E or F).
func (g Grade) IsFail() bool {
	p, ok := g.Points()
	return ok && p < PassPoints
}

func (g Grade) String() string {
	if g == Ungraded {
		return "-"
	}
	return string(g)
}

// UnmarshalText rejects unknown tokens so a decoded document only ever holds scale grades.
func (g *Grade) UnmarshalText(text []byte) error {
	parsed, err := ParseGrade(string(text))
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}

// GradeForGPA returns the letter grade a GPA is equivalent to. It never goes below D.
func GradeForGPA(gpa float64) Grade {
	switch {
	case gpa >= 4.0:
		return GradeA
	case gpa >= 3.5:
		return GradeBPlus
	case gpa >= 3.0:
		return GradeB
	case gpa >= 2.5:
		return GradeCPlus
	case gpa >= 2.0:
		return GradeC
	case gpa >= 1.5:
		return GradeDPlus
	default:
		return GradeD
	}
}
