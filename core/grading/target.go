package grading

// Feasibility says how hard a target CGPA is to reach.
type Feasibility string

// Feasibilities
const (
	Unreachable     Feasibility = "unreachable"
	VeryHard        Feasibility = "very_hard"
	Achievable      Feasibility = "achievable"
	AlreadyExceeded Feasibility = "already_exceeded"
)

// VeryHardGPA is the required GPA from which a target counts as very hard.
const VeryHardGPA = 3.5

var advice = map[Feasibility]string{
	Unreachable:     "Unfortunately, it is not possible to achieve your target GPA with the remaining credits.",
	VeryHard:        "You need to work very hard and achieve high grades in your remaining courses!",
	Achievable:      "Your target is achievable! Stay focused and maintain consistent performance.",
	AlreadyExceeded: "Great news! You have already exceeded your target GPA!",
}

// Advice returns the advisory text for f.
func (f Feasibility) Advice() string {
	return advice[f]
}

// Target is the GPA needed over the remaining credits to finish on a target CGPA.
// RequiredGPA is never clamped: above 4.0 the target is Unreachable.
type Target struct {
	CurrentCGPA      float64     `json:"currentCGPA"`
	CurrentCredits   float64     `json:"currentCredits"`
	TargetCGPA       float64     `json:"targetCGPA"`
	RemainingCredits float64     `json:"remainingCredits"`
	RequiredGPA      float64     `json:"requiredGPA"`
	Feasibility      Feasibility `json:"feasibility"`
	Advice           string      `json:"advice"`
}

// SolveTarget finds the GPA the remaining credits must average for the credit-weighted
// CGPA (as in Predict) to land on targetCGPA.
func SolveTarget(currentCGPA, currentCredits, targetCGPA, remainingCredits float64) (Target, error) {
	if err := checkFinite(map[string]float64{"currentCGPA": currentCGPA, "targetCGPA": targetCGPA}); err != nil {
		return Target{}, err
	}
	if err := checkCredits("currentCredits", currentCredits); err != nil {
		return Target{}, err
	}
	if err := checkCredits("remainingCredits", remainingCredits); err != nil {
		return Target{}, err
	}

	required := (targetCGPA*(currentCredits+remainingCredits) - currentCGPA*currentCredits) / remainingCredits

	var f Feasibility
	switch {
	case required > MaxGPA+epsilon:
		f = Unreachable
	case required >= VeryHardGPA-epsilon:
		f = VeryHard
	case required >= -epsilon:
		f = Achievable
	default:
		f = AlreadyExceeded
	}

	return Target{
		CurrentCGPA:      currentCGPA,
		CurrentCredits:   currentCredits,
		TargetCGPA:       targetCGPA,
		RemainingCredits: remainingCredits,
		RequiredGPA:      required,
		Feasibility:      f,
		Advice:           f.Advice(),
	}, nil
}
