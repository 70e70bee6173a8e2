// Package econ enriches a recommendation with market context: a local
// seasonal occupancy model for student housing, plus optional LLM-backed
// market research. Context here is advisory only; decisions never fail
// because enrichment was unavailable.
package econ

import (
	"time"

	"cashforecast/pkg/models"
)

// SeasonalFactorFor classifies a calendar month against the student
// housing leasing cycle. Fall semester carries the strongest occupancy,
// summer the weakest.
func SeasonalFactorFor(month time.Time) models.SeasonalFactor {
	switch m := month.Month(); {
	case m >= time.August && m <= time.December:
		return models.SeasonalFactor{
			Season:            "Fall Semester",
			ExpectedOccupancy: "High (90-95%)",
			CashFlowPattern:   "Strong",
			Notes:             "Peak leasing season, full semester rents in place",
		}
	case m >= time.January && m <= time.May:
		return models.SeasonalFactor{
			Season:            "Spring Semester",
			ExpectedOccupancy: "High (88-93%)",
			CashFlowPattern:   "Strong",
			Notes:             "Spring leases hold most of the fall cohort",
		}
	case m == time.June || m == time.July:
		return models.SeasonalFactor{
			Season:            "Summer Session",
			ExpectedOccupancy: "Low-Medium (40-60%)",
			CashFlowPattern:   "Weak",
			Notes:             "Between academic years, expect thin collections",
		}
	default:
		return models.SeasonalFactor{
			Season:            "Unknown",
			ExpectedOccupancy: "Unknown",
			CashFlowPattern:   "Unknown",
		}
	}
}
