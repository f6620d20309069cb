package drip

import (
	"math"
	"time"
)

// maxRemaining is the sanity cap on a projected remaining time. Readings near
// infusion start or with near-zero flow produce absurd ETAs; anything at or
// past this cap is reported as unknown instead.
const maxRemaining = 24 * time.Hour

// Projection is the derived consumption rate and projected end of an infusion.
type Projection struct {
	RateGPerSec      float64
	MinutesRemaining int
	EstimatedEnd     time.Time
}

// Estimate projects the remaining infusion time from the weight consumed since
// startedAt. It returns nil whenever the inputs cannot support a reliable
// projection: missing or future start time, non-positive weights, nothing
// consumed yet, or a remaining time that is non-positive, non-finite, or at
// least 24 hours. It fails closed — a nil result means "unknown", never a
// clamped or negative value.
func Estimate(initialWeightG, currentWeightG float64, startedAt *time.Time, now time.Time) *Projection {
	if startedAt == nil || initialWeightG <= 0 || currentWeightG <= 0 {
		return nil
	}

	elapsed := now.Sub(*startedAt).Seconds()
	if elapsed <= 0 {
		return nil
	}

	consumed := initialWeightG - currentWeightG
	if consumed <= 0 {
		return nil
	}

	rate := consumed / elapsed
	if rate <= 0 || math.IsInf(rate, 0) || math.IsNaN(rate) {
		return nil
	}

	remainingSec := currentWeightG / rate
	if remainingSec <= 0 || math.IsInf(remainingSec, 0) || math.IsNaN(remainingSec) {
		return nil
	}
	if time.Duration(remainingSec*float64(time.Second)) >= maxRemaining {
		return nil
	}

	return &Projection{
		RateGPerSec:      rate,
		MinutesRemaining: int(math.Round(remainingSec / 60)),
		EstimatedEnd:     now.Add(time.Duration(remainingSec * float64(time.Second))),
	}
}
