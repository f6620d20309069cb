package drip

// Consumption thresholds as a fraction of the initial bag weight.
const (
	finishedBelow = 0.10
	alertBelow    = 0.30
)

// Classify maps a pair of weight readings to a drip status.
//
// Rules, in order: a current weight of exactly zero always means the bag is
// empty; with a positive baseline the remaining fraction decides the tier;
// without a baseline there is nothing to derive. Weights are not validated
// here — callers reject negative readings before classifying.
func Classify(initialWeightG, currentWeightG float64) Status {
	if currentWeightG == 0 {
		return StatusFinalizado
	}
	if initialWeightG > 0 {
		pct := currentWeightG / initialWeightG
		switch {
		case pct < finishedBelow:
			return StatusFinalizado
		case pct < alertBelow:
			return StatusAlerta
		default:
			return StatusEmAndamento
		}
	}
	return StatusNenhum
}
