package grading

import "sort"

// DefaultRetakeGrade is the grade assumed for a retaken course unless told otherwise.
const DefaultRetakeGrade = GradeB

// RetakeOption is a failed course with its estimated effect on the final GPA if retaken.
type RetakeOption struct {
	Course      Course  `json:"course"`
	Level       Level   `json:"level"`
	Semester    Term    `json:"semester"`
	Assumed     Grade   `json:"assumedGrade"`
	LevelWeight float64 `json:"levelWeight"`
	TotalWeight float64 `json:"totalWeight"`
	Impact      float64 `json:"impact"`
}

// EstimateRetakeImpact approximates how much the final GPA moves when course is retaken
// and graded assumed instead, all other grades unchanged:
//
//	credits × (assumedPoints − currentPoints) × levelWeight / totalWeight
//
// It is an estimate, not a re-aggregation of the profile.
func EstimateRetakeImpact(course Course, assumed Grade, levelWeight, totalWeight float64) (float64, error) {
	current, ok := course.Grade.Points()
	if !ok {
		return 0, inputErr("grade", "course %s has no grade", course.Code)
	}
	if course.Credits <= 0 {
		return 0, inputErr("credits", "course %s has no credits", course.Code)
	}
	target, ok := assumed.Points()
	if !ok {
		return 0, inputErr("assumedGrade", "%q is not a grade", string(assumed))
	}
	if levelWeight <= 0 {
		return 0, inputErr("levelWeight", "must be greater than 0")
	}
	if totalWeight <= 0 {
		return 0, inputErr("totalWeight", "must be greater than 0")
	}
	return float64(course.Credits) * (target - current) * levelWeight / totalWeight, nil
}

// PlanRetakes lists every failed (E or F) course of the semesters with its estimated impact,
// biggest first. The total weight is the one the final GPA uses for the same semesters and
// skipped levels, or FullWeight while there are fewer than two levels. Courses of skipped
// levels are not listed.
func PlanRetakes(semesters []Semester, assumed Grade, skip ...Level) ([]RetakeOption, error) {
	if !assumed.Valid() {
		return nil, inputErr("assumedGrade", "%q is not a grade", string(assumed))
	}

	final := AggregateFinal(semesters, skip...)
	totalWeight := final.TotalWeight
	if final.InsufficientData {
		totalWeight = FullWeight
	}
	skipped := make(map[Level]bool, len(skip))
	for _, l := range skip {
		skipped[l] = true
	}

	var options []RetakeOption
	for _, s := range semesters {
		if !s.Level.Valid() || skipped[s.Level] {
			continue
		}
		for _, c := range s.Courses {
			if !c.Graded() || !c.Grade.IsFail() {
				continue
			}
			impact, err := EstimateRetakeImpact(c, assumed, s.Level.Weight(), totalWeight)
			if err != nil {
				return nil, err
			}
			options = append(options, RetakeOption{
				Course:      c,
				Level:       s.Level,
				Semester:    s.Number,
				Assumed:     assumed,
				LevelWeight: s.Level.Weight(),
				TotalWeight: totalWeight,
				Impact:      impact,
			})
		}
	}

	sort.SliceStable(options, func(i, j int) bool {
		return options[i].Impact > options[j].Impact
	})
	return options, nil
}
