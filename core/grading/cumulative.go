package grading

// Cumulative is the CGPA over a set of semesters.
type Cumulative struct {
	CGPA        float64 `json:"cgpa"`
	TotalPassed int     `json:"totalPassed"`
	TotalTaken  int     `json:"totalTaken"`
	Semesters   int     `json:"semesters"`
}

// HasData tells a computed zero apart from "nothing to compute".
func (c Cumulative) HasData() bool {
	return c.Semesters > 0
}

// AggregateCumulative returns the CGPA as the plain mean of the semester GPAs: every
// semester counts once whatever its credit load. Semesters without graded credits are ignored.
//
// This is not the credit-weighted blend of Predict; both conventions are in use and kept apart.
func AggregateCumulative(semesters []Semester) Cumulative {
	var (
		c     Cumulative
		pairs = make([]weighted, 0, len(semesters))
	)
	for _, s := range semesters {
		if s.TotalCredits <= 0 {
			continue
		}
		pairs = append(pairs, weighted{value: s.GPA, weight: 1})
		c.TotalTaken += s.TotalCredits
		c.TotalPassed += s.CreditsPassed
		c.Semesters++
	}
	c.CGPA, _ = weightedMean(pairs)
	return c
}
