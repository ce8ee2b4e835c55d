package grading

import "math"

// FullWeight is the sum of all level weights (1+1+2+2).
const FullWeight = 6.0

// MinFinalLevels is how many levels a final GPA needs.
const MinFinalLevels = 2

type (
	// LevelGPA is the per-level row of a final GPA.
	LevelGPA struct {
		Level     Level   `json:"level"`
		GPA       float64 `json:"gpa"`
		Semesters int     `json:"semesters"`
		Weight    float64 `json:"weight"`
		Present   bool    `json:"present"`
		Skipped   bool    `json:"skipped"` // marked N/A
	}

	// Final is the level-weighted final GPA. When InsufficientData is set, FGPA and
	// Classification carry no meaning and must not be shown as results.
	Final struct {
		FGPA             float64    `json:"fgpa"`
		Levels           []LevelGPA `json:"levels"`
		TotalWeight      float64    `json:"totalWeight"`
		InsufficientData bool       `json:"insufficientData"`
		Classification   string     `json:"classification,omitempty"`
	}

	// LevelEntry is one typed-in level GPA of the manual calculator. A nil GPA or NA
	// leaves the level out.
	LevelEntry struct {
		Level Level    `json:"level"`
		GPA   *float64 `json:"gpa"`
		NA    bool     `json:"na"`
	}
)

// PresentLevels returns the levels that took part in the final GPA.
func (f Final) PresentLevels() []Level {
	var levels []Level
	for _, l := range f.Levels {
		if l.Present {
			levels = append(levels, l.Level)
		}
	}
	return levels
}

// AggregateFinal averages the semester GPAs of each level, then combines the level
// averages with weights 1, 1, 2, 2. Levels without semesters and skipped levels are left
// out of both sides of the division. Fewer than two remaining levels is insufficient data.
func AggregateFinal(semesters []Semester, skip ...Level) Final {
	skipped := make(map[Level]bool, len(skip))
	for _, l := range skip {
		skipped[l] = true
	}

	perLevel := make(map[Level][]weighted, len(Levels))
	for _, s := range semesters {
		if !s.Level.Valid() || s.TotalCredits <= 0 {
			continue
		}
		perLevel[s.Level] = append(perLevel[s.Level], weighted{value: s.GPA, weight: 1})
	}

	rows := make([]LevelGPA, 0, len(Levels))
	for _, l := range Levels {
		row := LevelGPA{Level: l, Weight: l.Weight(), Skipped: skipped[l], Semesters: len(perLevel[l])}
		if !row.Skipped && row.Semesters > 0 {
			row.GPA, _ = weightedMean(perLevel[l])
			row.Present = true
		}
		rows = append(rows, row)
	}
	return combineLevels(rows)
}

// FinalFromLevels computes a final GPA from level GPAs typed in directly.
// Each given GPA must be within [0, 4].
func FinalFromLevels(entries []LevelEntry) (Final, error) {
	given := make(map[Level]LevelEntry, len(entries))
	for _, e := range entries {
		if !e.Level.Valid() {
			return Final{}, inputErr("level", "%d is not one of 100, 200, 300, 400", int(e.Level))
		}
		if _, dup := given[e.Level]; dup {
			return Final{}, inputErr("level", "%s given more than once", e.Level)
		}
		if !e.NA && e.GPA != nil && (math.IsNaN(*e.GPA) || *e.GPA < MinGPA || *e.GPA > MaxGPA) {
			return Final{}, inputErr("gpa", "%s GPA must be between 0.00 and 4.00", e.Level)
		}
		given[e.Level] = e
	}

	rows := make([]LevelGPA, 0, len(Levels))
	for _, l := range Levels {
		e, ok := given[l]
		row := LevelGPA{Level: l, Weight: l.Weight(), Skipped: ok && e.NA}
		if ok && !e.NA && e.GPA != nil {
			row.GPA = *e.GPA
			row.Present = true
		}
		rows = append(rows, row)
	}

	final := combineLevels(rows)
	if final.InsufficientData {
		return final, ErrInsufficientData
	}
	return final, nil
}

func combineLevels(rows []LevelGPA) Final {
	final := Final{Levels: rows}

	pairs := make([]weighted, 0, len(rows))
	for _, r := range rows {
		if r.Present {
			pairs = append(pairs, weighted{value: r.GPA, weight: r.Weight})
		}
	}
	if len(pairs) < MinFinalLevels {
		final.InsufficientData = true
		return final
	}
	final.FGPA, final.TotalWeight = weightedMean(pairs)
	final.Classification = Classify(final.FGPA)
	return final
}
