package grading

// weighted is a (value, weight) pair fed to weightedMean.
type weighted struct {
	value  float64
	weight float64
}

// weightedMean returns Σ(value×weight) / Σweight over the pairs with a positive weight.
// Every GPA-like figure in this package goes through it. mean is 0 when total is 0.
func weightedMean(pairs []weighted) (mean, total float64) {
	var sum float64
	for _, p := range pairs {
		if p.weight <= 0 {
			continue
		}
		sum += p.value * p.weight
		total += p.weight
	}
	if total == 0 {
		return 0, 0
	}
	return sum / total, total
}
