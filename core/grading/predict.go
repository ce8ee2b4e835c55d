package grading

import (
	"fmt"
	"math"
	"strings"
)

// Prediction directions
const (
	Increases = "increases"
	Decreases = "decreases"
	Unchanged = "remains the same"
)

// Prediction is the outcome of a what-if semester.
type Prediction struct {
	CurrentCGPA    float64 `json:"currentCGPA"`
	CurrentCredits float64 `json:"currentCredits"`
	NextGPA        float64 `json:"nextGPA"`
	NextCredits    float64 `json:"nextCredits"`

	PredictedCGPA  float64 `json:"predictedCGPA"`
	Delta          float64 `json:"delta"`
	CurrentClass   string  `json:"currentClass"`
	PredictedClass string  `json:"predictedClass"`
	ClassChanged   bool    `json:"classChanged"`
	Direction      string  `json:"direction"`
	NextGrade      Grade   `json:"nextGrade"`
}

// Predict blends the current CGPA with one more semester, weighting each side by its credits.
// Unlike AggregateCumulative, credits matter here: the current CGPA stands for currentCredits
// worth of grade points. Both credit values must be positive.
func Predict(currentCGPA, currentCredits, nextGPA, nextCredits float64) (Prediction, error) {
	if err := checkFinite(map[string]float64{"currentCGPA": currentCGPA, "nextGPA": nextGPA}); err != nil {
		return Prediction{}, err
	}
	if err := checkCredits("currentCredits", currentCredits); err != nil {
		return Prediction{}, err
	}
	if err := checkCredits("nextCredits", nextCredits); err != nil {
		return Prediction{}, err
	}

	predicted, _ := weightedMean([]weighted{
		{value: currentCGPA, weight: currentCredits},
		{value: nextGPA, weight: nextCredits},
	})
	delta := predicted - currentCGPA
	if math.Abs(delta) < epsilon {
		delta = 0
	}

	p := Prediction{
		CurrentCGPA:    currentCGPA,
		CurrentCredits: currentCredits,
		NextGPA:        nextGPA,
		NextCredits:    nextCredits,
		PredictedCGPA:  predicted,
		Delta:          delta,
		CurrentClass:   Classify(currentCGPA),
		PredictedClass: Classify(predicted),
		NextGrade:      GradeForGPA(nextGPA),
	}
	p.ClassChanged = p.CurrentClass != p.PredictedClass

	switch {
	case delta > 0:
		p.Direction = Increases
	case delta < 0:
		p.Direction = Decreases
	default:
		p.Direction = Unchanged
	}
	return p, nil
}

// Narrative explains the prediction in one paragraph.
func (p Prediction) Narrative() string {
	var b strings.Builder
	fmt.Fprintf(&b, "If you get %s grades next semester (%g credits), your CGPA %s",
		p.NextGrade, p.NextCredits, p.Direction)
	if p.Direction != Unchanged {
		fmt.Fprintf(&b, " by %.2f", math.Abs(p.Delta))
	}
	fmt.Fprintf(&b, " from %.2f to %.2f.", p.CurrentCGPA, p.PredictedCGPA)

	switch {
	case p.CurrentClass == NoClassification || p.PredictedClass == NoClassification:
	case p.ClassChanged:
		fmt.Fprintf(&b, " This moves you from %s to %s!", p.CurrentClass, p.PredictedClass)
	default:
		fmt.Fprintf(&b, " You remain in %s range.", p.CurrentClass)
	}
	return b.String()
}

func checkCredits(field string, credits float64) error {
	if math.IsNaN(credits) || math.IsInf(credits, 0) || credits <= 0 {
		return inputErr(field, "credits must be greater than 0")
	}
	return nil
}

func checkFinite(values map[string]float64) error {
	for field, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return inputErr(field, "must be a number")
		}
	}
	return nil
}
