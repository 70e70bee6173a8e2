package decision

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"cashforecast/pkg/models"
)

// Engine evaluates the capital-allocation policy over one run's facts.
type Engine struct {
	Policy PolicyConfig
}

// NewEngine returns an Engine on the shipped policy.
func NewEngine() *Engine {
	return &Engine{Policy: DefaultPolicy()}
}

// Inputs are the facts the policy tree reads. AdjustedFCF is the
// occupancy-adjusted projected cash flow. CurrentFCF is nil when the
// realized month's figure was not extracted.
type Inputs struct {
	AdjustedFCF        float64
	CurrentFCF         *float64
	CashBalance        float64
	CurrentLiabilities float64
	MonthlyDebtService float64
	NOIYTDVariancePct  float64
	Season             string
	MultiMonth         *models.MultiMonthAnalysis
}

// Outcome is the engine's verdict plus the derived liquidity figures the
// narrative reuses. Amount is nil iff Decision is DO_NOTHING.
type Outcome struct {
	Decision         models.Decision
	Amount           *float64
	Confidence       models.Confidence
	Breakdown        *models.ContributionBreakdown
	MonthsOfReserves float64
	WorkingCapital   float64
}

// MonthsOfReserves estimates the liquidity runway: cash over estimated
// monthly obligations. A non-positive denominator means no measurable
// obligations, reported as the sentinel "effectively infinite" value.
func (e *Engine) MonthsOfReserves(cashBalance, monthlyDebtService, currentLiabilities float64) float64 {
	denom := monthlyDebtService + currentLiabilities*e.Policy.LiabilitiesMonthlyFactor
	if denom <= 0 {
		return e.Policy.ReserveSentinelMonths
	}
	return cashBalance / denom
}

// monthlyOperatingNeeds falls back through debt service, then liabilities,
// then a fixed default. The chain is part of the documented policy.
func (e *Engine) monthlyOperatingNeeds(monthlyDebtService, currentLiabilities float64) float64 {
	switch {
	case monthlyDebtService > 0:
		return monthlyDebtService + currentLiabilities*e.Policy.LiabilitiesMonthlyFactor
	case currentLiabilities > 0:
		return currentLiabilities * e.Policy.LiabilitiesMonthlyFactor
	default:
		return e.Policy.DefaultOperatingCost
	}
}

// ReservesAfterDistribution simulates paying out amount and re-derives the
// runway on the same operating-needs estimate.
func (e *Engine) ReservesAfterDistribution(in Inputs, amount float64) float64 {
	needs := e.monthlyOperatingNeeds(in.MonthlyDebtService, in.CurrentLiabilities)
	if needs <= 0 {
		return e.Policy.ReserveSentinelMonths
	}
	return (in.CashBalance - amount) / needs
}

// Decide walks the policy tree. Branch order is load-bearing: a working
// capital crisis overrides everything else.
func (e *Engine) Decide(in Inputs) Outcome {
	out := Outcome{
		MonthsOfReserves: e.MonthsOfReserves(in.CashBalance, in.MonthlyDebtService, in.CurrentLiabilities),
		WorkingCapital:   in.CashBalance - in.CurrentLiabilities,
	}

	logrus.WithFields(logrus.Fields{
		"adjusted_fcf":       in.AdjustedFCF,
		"months_of_reserves": out.MonthsOfReserves,
		"working_capital":    out.WorkingCapital,
	}).Debug("evaluating decision tree")

	if out.WorkingCapital < e.Policy.WorkingCapitalCrisis {
		e.decideCrisis(in, &out)
		return out
	}
	if in.AdjustedFCF < 0 {
		e.decideDeficit(in, &out)
		return out
	}
	e.decideSurplus(in, &out)
	return out
}

// decideCrisis sizes a contribution to cover forward deficits, restore
// working capital to a 1.0 current ratio, and rebuild an operating buffer.
func (e *Engine) decideCrisis(in Inputs, out *Outcome) {
	wcDeficit := math.Abs(out.WorkingCapital)
	var monthlyDeficit float64
	if in.AdjustedFCF < 0 {
		monthlyDeficit = math.Abs(in.AdjustedFCF)
	}

	var monthsForward int
	var forwardReason string
	if monthlyDeficit > 0 {
		switch {
		case in.NOIYTDVariancePct < -e.Policy.OnBudgetBandPct:
			monthsForward = e.Policy.MonthsForwardUnderperform
			forwardReason = fmt.Sprintf("Property underperforming budget by more than %.0f%%, projecting %d months of deficits", e.Policy.OnBudgetBandPct, monthsForward)
		case math.Abs(in.NOIYTDVariancePct) < e.Policy.OnBudgetBandPct:
			monthsForward = e.Policy.MonthsForwardOnBudget
			forwardReason = fmt.Sprintf("Property on budget but showing structural deficit, projecting %d months", monthsForward)
		default:
			monthsForward = e.Policy.MonthsForwardOutperforming
			forwardReason = fmt.Sprintf("Property outperforming but showing deficit, projecting %d months minimum", monthsForward)
		}
	} else {
		forwardReason = "No projected deficit, but past working capital crisis requires restoration"
	}
	forwardDeficit := monthlyDeficit * float64(monthsForward)

	// Buffer is sized on the larger of the running deficit and realized
	// monthly cash generation, with a fixed default when neither is known.
	bufferMonthly := monthlyDeficit
	if in.CurrentFCF != nil && *in.CurrentFCF > bufferMonthly {
		bufferMonthly = *in.CurrentFCF
	}
	if bufferMonthly <= 0 {
		bufferMonthly = e.Policy.DefaultOperatingCost
	}
	reserveBuffer := bufferMonthly * e.Policy.CrisisBufferMonths

	total := forwardDeficit + wcDeficit + reserveBuffer
	breakdown := &models.ContributionBreakdown{
		MonthsForward: monthsForward,
		ForwardReason: forwardReason,
		Total:         total,
	}
	if forwardDeficit > 0 {
		breakdown.Lines = append(breakdown.Lines, models.BreakdownLine{
			Label:  fmt.Sprintf("%d-Month Projected Deficits", monthsForward),
			Amount: forwardDeficit,
		})
	}
	breakdown.Lines = append(breakdown.Lines,
		models.BreakdownLine{Label: "Working Capital Restoration", Amount: wcDeficit},
		models.BreakdownLine{Label: fmt.Sprintf("Operating Reserve Buffer (%.0fmo)", e.Policy.CrisisBufferMonths), Amount: reserveBuffer},
	)

	out.Decision = models.DecisionContribute
	out.Amount = &total
	out.Confidence = models.ConfidenceLow
	out.Breakdown = breakdown
}

// decideDeficit grades a projected shortfall against reserve runway.
func (e *Engine) decideDeficit(in Inputs, out *Outcome) {
	deficit := math.Abs(in.AdjustedFCF)

	switch {
	case deficit < e.Policy.MinorDeficit && out.MonthsOfReserves > e.Policy.ReserveFloorMonths:
		out.Decision = models.DecisionDoNothing
		out.Confidence = models.ConfidenceHigh

	case deficit < e.Policy.ModerateDeficit && out.MonthsOfReserves > e.Policy.AdequateReserveMonths:
		out.Decision = models.DecisionDoNothing
		out.Confidence = models.ConfidenceMedium

	case deficit >= e.Policy.ModerateDeficit || out.MonthsOfReserves < e.Policy.LowReserveMonths:
		if in.Season == SummerSeason {
			// A summer shortfall is the expected leasing-cycle dip.
			out.Decision = models.DecisionDoNothing
			out.Confidence = models.ConfidenceMedium
			return
		}
		total := deficit * (1 + e.Policy.SafetyBufferPct)
		out.Decision = models.DecisionContribute
		out.Amount = &total
		out.Confidence = models.ConfidenceMedium
		out.Breakdown = &models.ContributionBreakdown{
			Lines: []models.BreakdownLine{
				{Label: "Projected Deficit", Amount: deficit},
				{Label: fmt.Sprintf("Safety Buffer (%.0f%%)", e.Policy.SafetyBufferPct*100), Amount: deficit * e.Policy.SafetyBufferPct},
			},
			Total: total,
		}

	default:
		out.Decision = models.DecisionDoNothing
		out.Confidence = models.ConfidenceMedium
	}
}

// decideSurplus looks for room to distribute, preferring the multi-month
// view when the projection window produced one.
func (e *Engine) decideSurplus(in Inputs, out *Outcome) {
	if in.MultiMonth != nil {
		e.decideSurplusMultiMonth(in, out)
		return
	}

	// Single-month fallback: a lone surplus month clears a higher bar.
	if in.AdjustedFCF > e.Policy.DistributionMin &&
		out.MonthsOfReserves > e.Policy.ReserveFloorMonths*e.Policy.SingleMonthReserveMultiplier &&
		in.NOIYTDVariancePct > 0 {
		monthlyEstimate := in.CashBalance / out.MonthsOfReserves
		safe := math.Min(in.AdjustedFCF, out.WorkingCapital-e.Policy.ReserveFloorMonths*monthlyEstimate)
		if safe > e.Policy.DistributionFloor {
			out.Decision = models.DecisionDistribute
			out.Amount = &safe
			out.Confidence = models.ConfidenceHigh
			return
		}
	}

	out.Decision = models.DecisionDoNothing
	out.Confidence = models.ConfidenceHigh
}

func (e *Engine) decideSurplusMultiMonth(in Inputs, out *Outcome) {
	mm := in.MultiMonth

	if mm.AllPositive && mm.AverageFCF > e.Policy.DistributionMin &&
		mm.LowestMonth.FCF > 0 && out.MonthsOfReserves > e.Policy.DistributionReserveMonths {

		requiredReserve := e.monthlyOperatingNeeds(in.MonthlyDebtService, in.CurrentLiabilities) * e.Policy.ReserveFloorMonths
		maxSafe := in.CashBalance - requiredReserve
		safe := math.Min(mm.TotalFCF*e.Policy.DistributionFraction, maxSafe)

		if safe > e.Policy.DistributionFloor &&
			e.ReservesAfterDistribution(in, safe) >= e.Policy.ReserveFloorMonths {
			out.Decision = models.DecisionDistribute
			out.Amount = &safe
			out.Confidence = models.ConfidenceHigh
			return
		}
	}

	out.Decision = models.DecisionDoNothing
	out.Confidence = models.ConfidenceMedium
}
