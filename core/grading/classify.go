package grading

import "math"

// Classification labels
const (
	FirstClass       = "First Class"
	SecondUpper      = "Second Class (Upper Division)"
	SecondLower      = "Second Class (Lower Division)"
	ThirdClass       = "Third Class"
	PassClass        = "Pass"
	FailClass        = "Fail (No award)"
	NoClassification = "No Classification"
)

const (
	MinGPA = 0.0
	MaxGPA = 4.0

	// BoundaryWindow is how close (in GPA points) a floor must be to be reported by BoundaryDistance.
	BoundaryWindow = 0.15

	epsilon = 1e-9
)

type (
	// Band is a degree classification band. Max is the displayed upper value;
	// membership only depends on Min, so bands stay contiguous.
	Band struct {
		Min   float64 `json:"min"`
		Max   float64 `json:"max"`
		Label string  `json:"label"`
	}

	// Boundary is a hint about the next band floor above a GPA.
	Boundary struct {
		Floor    float64 `json:"floor"`
		Label    string  `json:"label"`
		Distance float64 `json:"distance"`
	}
)

var (
	// Bands lists the classification bands from best to worst.
	Bands = []Band{
		{Min: 3.60, Max: 4.00, Label: FirstClass},
		{Min: 3.00, Max: 3.59, Label: SecondUpper},
		{Min: 2.00, Max: 2.99, Label: SecondLower},
		{Min: 1.50, Max: 1.99, Label: ThirdClass},
		{Min: 1.00, Max: 1.49, Label: PassClass},
		{Min: 0.00, Max: 0.99, Label: FailClass},
	}

	// hint floors, highest first. 2.50 is not a classification floor; it only exists for the hint.
	boundaryFloors = []Boundary{
		{Floor: 3.60, Label: "1st Class"},
		{Floor: 3.00, Label: "2nd Upper"},
		{Floor: 2.50, Label: "2nd Lower"},
		{Floor: 2.00, Label: "3rd Class"},
		{Floor: 1.50, Label: "Pass"},
	}
)

// inRange tolerates float noise at both ends, like the band floors.
func inRange(gpa float64) bool {
	return !math.IsNaN(gpa) && gpa >= MinGPA-epsilon && gpa <= MaxGPA+epsilon
}

// BandFor returns the band gpa falls in. ok is false outside [0, 4] and for NaN.
func BandFor(gpa float64) (band Band, ok bool) {
	if !inRange(gpa) {
		return Band{}, false
	}
	for _, b := range Bands {
		if gpa >= b.Min-epsilon {
			return b, true
		}
	}
	return Band{}, false
}

// Classify returns the classification label of gpa, or NoClassification.
func Classify(gpa float64) string {
	if b, ok := BandFor(gpa); ok {
		return b.Label
	}
	return NoClassification
}

// BoundaryDistance returns the highest hint floor that is strictly above gpa
// and at most BoundaryWindow away from it.
func BoundaryDistance(gpa float64) (Boundary, bool) {
	if !inRange(gpa) {
		return Boundary{}, false
	}
	for _, b := range boundaryFloors {
		d := b.Floor - gpa
		if d > epsilon && d <= BoundaryWindow+epsilon {
			b.Distance = d
			return b, true
		}
	}
	return Boundary{}, false
}

// NextBoundary returns the nearest hint floor strictly above gpa, however far it is.
func NextBoundary(gpa float64) (Boundary, bool) {
	if !inRange(gpa) {
		return Boundary{}, false
	}
	for i := len(boundaryFloors) - 1; i >= 0; i-- {
		b := boundaryFloors[i]
		if d := b.Floor - gpa; d > epsilon {
			b.Distance = d
			return b, true
		}
	}
	return Boundary{}, false
}
