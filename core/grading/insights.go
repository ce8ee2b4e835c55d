package grading

import (
	"math"
	"sort"
)

const (
	topPoints    = 3.0
	atRiskPoints = 1.5
	topCount     = 3

	// DefaultCreditsRequired is the credit load assumed for a full degree.
	DefaultCreditsRequired = 120
)

// Insight groups a set of courses by how they went. Each list is ordered best first.
type Insight struct {
	Top    []Course `json:"top"`    // B or better, at most three
	AtRisk []Course `json:"atRisk"` // D+ or worse
	Failed []Course `json:"failed"` // E and F
}

// Insights classifies the graded courses. Ungraded courses are ignored.
func Insights(courses []Course) Insight {
	graded := make([]Course, 0, len(courses))
	for _, c := range courses {
		if c.Graded() {
			graded = append(graded, c)
		}
	}
	sort.SliceStable(graded, func(i, j int) bool {
		pi, _ := graded[i].Grade.Points()
		pj, _ := graded[j].Grade.Points()
		return pi > pj
	})

	var in Insight
	for _, c := range graded {
		p, _ := c.Grade.Points()
		if p >= topPoints && len(in.Top) < topCount {
			in.Top = append(in.Top, c)
		}
		if p <= atRiskPoints {
			in.AtRisk = append(in.AtRisk, c)
		}
		if c.Grade.IsFail() {
			in.Failed = append(in.Failed, c)
		}
	}
	return in
}

// CreditsProgress returns taken as a percentage of required, capped at 100.
// A non-positive required falls back to DefaultCreditsRequired.
func CreditsProgress(taken, required int) float64 {
	if required <= 0 {
		required = DefaultCreditsRequired
	}
	if taken <= 0 {
		return 0
	}
	return math.Min(float64(taken)*100/float64(required), 100)
}
