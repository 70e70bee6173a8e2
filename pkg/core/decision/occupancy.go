package decision

import (
	"fmt"
	"math"

	"cashforecast/pkg/core/numfmt"
)

// AdjustForOccupancy rescales a projected cash flow when the budget
// assumes materially higher occupancy than what is currently observed.
// The scaling is linear in the occupancy ratio, a deliberate
// approximation rather than a rebuilt revenue model. Returns the
// (possibly unchanged) figure, a human-readable note when an adjustment
// was made, and whether it was.
func (p PolicyConfig) AdjustForOccupancy(projectedFCF float64, currentOcc, projectedOcc *float64) (float64, string, bool) {
	if currentOcc == nil || projectedOcc == nil {
		return projectedFCF, "", false
	}
	if math.Abs(*currentOcc-*projectedOcc) < p.OccupancyGapPts {
		return projectedFCF, "", false
	}
	// A zero occupancy on either side means the figure was not really
	// reported; scaling by or toward zero would be nonsense.
	if *currentOcc == 0 || *projectedOcc == 0 {
		return projectedFCF, "", false
	}

	adjusted := projectedFCF * (*currentOcc / *projectedOcc)
	note := fmt.Sprintf(
		"Projected FCF adjusted from $%s to $%s: budget assumes %.1f%% occupancy vs %.1f%% currently observed",
		numfmt.Format(projectedFCF), numfmt.Format(adjusted), *projectedOcc, *currentOcc)
	return adjusted, note, true
}
