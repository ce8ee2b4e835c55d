package grading

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/volatiletech/null/v8"
)

// Level is an academic level (100, 200, 300, 400).
type Level int

// Levels
const (
	Level100 Level = 100
	Level200 Level = 200
	Level300 Level = 300
	Level400 Level = 400
)

// Levels lists the academic levels in order.
var Levels = []Level{Level100, Level200, Level300, Level400}

var levelWeights = map[Level]float64{
	Level100: 1,
	Level200: 1,
	Level300: 2,
	Level400: 2,
}

// ParseLevel reads "100", "L100" or "level 100".
func ParseLevel(s string) (Level, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	s = strings.TrimPrefix(s, "level")
	s = strings.TrimPrefix(s, "l")
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || !Level(n).Valid() {
		return 0, inputErr("level", "%q is not one of 100, 200, 300, 400", s)
	}
	return Level(n), nil
}

func (l Level) Valid() bool {
	_, ok := levelWeights[l]
	return ok
}

// Weight returns the FGPA weight of the level: 1 for 100/200, 2 for 300/400, 0 if invalid.
func (l Level) Weight() float64 {
	return levelWeights[l]
}

func (l Level) String() string {
	return fmt.Sprintf("Level %d", int(l))
}

// UnmarshalJSON accepts numbers and numeric strings; older documents stored levels as strings.
func (l *Level) UnmarshalJSON(data []byte) error {
	n, err := flexibleInt(data)
	if err != nil {
		return inputErr("level", "%s", err)
	}
	*l = Level(n)
	return nil
}

// Term is the semester number within a level (1 or 2).
type Term int

func ParseTerm(s string) (Term, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || !Term(n).Valid() {
		return 0, inputErr("semester", "%q is not 1 or 2", s)
	}
	return Term(n), nil
}

func (t Term) Valid() bool {
	return t == 1 || t == 2
}

func (t *Term) UnmarshalJSON(data []byte) error {
	n, err := flexibleInt(data)
	if err != nil {
		return inputErr("semester", "%s", err)
	}
	*t = Term(n)
	return nil
}

func flexibleInt(data []byte) (int, error) {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		return n, nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return 0, fmt.Errorf("expected a number, got %s", data)
	}
	return strconv.Atoi(strings.TrimSpace(s))
}

// Key identifies a semester within a profile.
type Key struct {
	Level  Level
	Number Term
}

func (k Key) String() string {
	return fmt.Sprintf("%s - Semester %d", k.Level, k.Number)
}

// Less orders keys by level, then semester number.
func (k Key) Less(o Key) bool {
	if k.Level != o.Level {
		return k.Level < o.Level
	}
	return k.Number < o.Number
}

type (
	// Course is one course row of a semester. An Ungraded course is kept but excluded from totals.
	Course struct {
		Code    string      `json:"code" validate:"required,coursecode"`
		Name    null.String `json:"name"`
		Credits int         `json:"credits" validate:"min=1,max=6"`
		Grade   Grade       `json:"grade" validate:"grade"`
	}

	// Totals are the aggregates of a semester's graded courses.
	Totals struct {
		TotalCredits     int     `json:"totalCredits"`
		CreditsPassed    int     `json:"creditsPassed"`
		TotalGradePoints float64 `json:"totalGradePoints"`
		GPA              float64 `json:"gpa"`
	}

	// Semester is a saved semester summary.
	Semester struct {
		ID      string   `json:"id"`
		Level   Level    `json:"level"`
		Number  Term     `json:"semester"`
		Courses []Course `json:"courses"`
		Totals
		SavedAt time.Time `json:"date"`
	}
)

// Graded reports whether the course counts towards totals.
func (c Course) Graded() bool {
	return c.Credits > 0 && c.Grade.Valid()
}

// GradePoints returns credits × points, or 0 for a course that is not graded.
func (c Course) GradePoints() float64 {
	if !c.Graded() {
		return 0
	}
	p, _ := c.Grade.Points()
	return float64(c.Credits) * p
}

func (s Semester) Key() Key {
	return Key{Level: s.Level, Number: s.Number}
}

// AggregateSemester totals a semester's courses. Ungraded courses and courses without
// credits are left out of every total. GPA is 0 when no course is graded.
func AggregateSemester(courses []Course) (Totals, error) {
	if len(courses) == 0 {
		return Totals{}, ErrNoCourses
	}

	var (
		totals Totals
		pairs  = make([]weighted, 0, len(courses))
	)
	for _, c := range courses {
		if !c.Graded() {
			continue
		}
		p, _ := c.Grade.Points()
		pairs = append(pairs, weighted{value: p, weight: float64(c.Credits)})
		totals.TotalCredits += c.Credits
		totals.TotalGradePoints += c.GradePoints()
		if c.Grade.IsPass() {
			totals.CreditsPassed += c.Credits
		}
	}
	totals.GPA, _ = weightedMean(pairs)
	return totals, nil
}

// NewSemester validates the key and returns the aggregated semester.
func NewSemester(level Level, number Term, courses []Course) (Semester, error) {
	if !level.Valid() {
		return Semester{}, inputErr("level", "%d is not one of 100, 200, 300, 400", int(level))
	}
	if !number.Valid() {
		return Semester{}, inputErr("semester", "%d is not 1 or 2", int(number))
	}
	totals, err := AggregateSemester(courses)
	if err != nil {
		return Semester{}, err
	}
	return Semester{
		Level:   level,
		Number:  number,
		Courses: courses,
		Totals:  totals,
	}, nil
}

// Recompute refreshes the stored totals from the courses.
func (s *Semester) Recompute() error {
	totals, err := AggregateSemester(s.Courses)
	if err != nil {
		return err
	}
	s.Totals = totals
	return nil
}
