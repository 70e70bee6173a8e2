// Package narrative renders the decision engine's structured output into
// the executive summary bullets and prose sections of the report. It
// formats and phrases; every number here was computed upstream.
package narrative

import (
	"fmt"
	"math"
	"strings"

	"cashforecast/pkg/core/decision"
	"cashforecast/pkg/core/numfmt"
	"cashforecast/pkg/models"
)

// maxBullets caps the executive summary length.
const maxBullets = 7

// Inputs bundles everything the assembler may phrase.
type Inputs struct {
	Property models.PropertyInfo
	Forecast *models.CashForecastFacts
	Income   *models.IncomeStatementFacts
	Balance  *models.BalanceSheetFacts
	Econ     models.EconomicContext
	Outcome  decision.Outcome
	// AdjustNote is the occupancy-adjustment explanation, empty when no
	// adjustment was applied.
	AdjustNote string
	MultiMonth *models.MultiMonthAnalysis
}

// Assembler phrases liquidity and risk language off the same thresholds
// the decision engine used.
type Assembler struct {
	Policy decision.PolicyConfig
}

// NewAssembler returns an Assembler on the given policy.
func NewAssembler(policy decision.PolicyConfig) *Assembler {
	return &Assembler{Policy: policy}
}

func money(v float64) string { return "$" + numfmt.Format(v) }

// BuildExecutiveSummary produces the ordered bullet list. Topic order is
// fixed: crisis warning, decision, cash flow, liquidity, NOI, expenses,
// market, risk/opportunity; the list is truncated to the cap.
func (a *Assembler) BuildExecutiveSummary(in Inputs) []string {
	var bullets []string

	if in.Outcome.WorkingCapital < a.Policy.WorkingCapitalCrisis {
		bullets = append(bullets, a.crisisBullet(in))
	}
	bullets = append(bullets, a.decisionBullet(in))
	if b := a.cashFlowBullet(in); b != "" {
		bullets = append(bullets, b)
	}
	bullets = append(bullets, a.liquidityBullet(in))
	if b := a.noiBullet(in); b != "" {
		bullets = append(bullets, b)
	}
	if b := a.expenseBullet(in); b != "" {
		bullets = append(bullets, b)
	}
	bullets = append(bullets, a.marketBullet(in))
	if len(bullets) < maxBullets {
		if b := a.riskBullet(in); b != "" {
			bullets = append(bullets, b)
		}
	}

	if len(bullets) > maxBullets {
		bullets = bullets[:maxBullets]
	}
	return bullets
}

func (a *Assembler) crisisBullet(in Inputs) string {
	shortfall := math.Abs(in.Outcome.WorkingCapital)
	s := fmt.Sprintf("WORKING CAPITAL CRISIS: current liabilities exceed liquid assets by %s", money(shortfall))
	if in.Balance != nil && in.Balance.CurrentLiabilities != nil && in.Balance.CashBalance != nil && *in.Balance.CurrentLiabilities != 0 {
		ratio := *in.Balance.CashBalance / *in.Balance.CurrentLiabilities
		s += fmt.Sprintf(". Current ratio of %.2f:1 indicates past-due obligations or structural cash flow problems", ratio)
	}
	return s + ". Full liability breakdown analysis required before any capital decision"
}

func (a *Assembler) decisionBullet(in Inputs) string {
	switch in.Outcome.Decision {
	case models.DecisionContribute:
		s := fmt.Sprintf("Recommendation: CONTRIBUTE %s", money(*in.Outcome.Amount))
		if bd := in.Outcome.Breakdown; bd != nil && len(bd.Lines) > 0 {
			parts := make([]string, 0, len(bd.Lines))
			for _, line := range bd.Lines {
				parts = append(parts, money(line.Amount))
			}
			s += fmt.Sprintf(" (%s = **%s**)", strings.Join(parts, " + "), money(bd.Total))
		}
		return s
	case models.DecisionDistribute:
		return fmt.Sprintf("Recommendation: DISTRIBUTE %s of surplus cash to ownership", money(*in.Outcome.Amount))
	default:
		return "Recommendation: NO ACTION required at this time"
	}
}

func (a *Assembler) cashFlowBullet(in Inputs) string {
	if in.Forecast == nil {
		return ""
	}
	proj := in.Forecast.FirstProjected()
	if proj == nil || proj.FreeCashFlow == nil {
		return ""
	}
	fcf := *proj.FreeCashFlow
	var s string
	if fcf < 0 {
		s = fmt.Sprintf("Projected free cash flow for %s is a %s deficit", proj.MonthLabel(), money(math.Abs(fcf)))
	} else {
		s = fmt.Sprintf("Projected free cash flow for %s is a %s surplus", proj.MonthLabel(), money(fcf))
	}
	if in.AdjustNote != "" {
		s += " (occupancy-adjusted)"
	}
	return s
}

func (a *Assembler) liquidityBullet(in Inputs) string {
	reserves := in.Outcome.MonthsOfReserves
	var grade string
	switch {
	case reserves > a.Policy.DistributionReserveMonths:
		grade = "Strong"
	case reserves > a.Policy.ReserveFloorMonths:
		grade = "Adequate"
	default:
		grade = "Tight"
	}
	s := fmt.Sprintf("%s liquidity: %.1f months of reserves", grade, reserves)
	if in.Balance != nil && in.Balance.CashBalance != nil {
		s += fmt.Sprintf(" on a %s cash balance", money(*in.Balance.CashBalance))
	}
	return s
}

func (a *Assembler) noiBullet(in Inputs) string {
	if in.Income == nil || in.Income.NetOperatingInc == nil {
		return ""
	}
	noi := in.Income.NetOperatingInc
	monthWord := "above"
	if noi.MonthVariancePct < 0 {
		monthWord = "below"
	}
	ytdWord := "above"
	if noi.YTDVariancePct < 0 {
		ytdWord = "below"
	}
	return fmt.Sprintf("NOI of %s for the month ran %.1f%% %s budget; year to date %.1f%% %s budget",
		money(noi.MonthActual), math.Abs(noi.MonthVariancePct), monthWord,
		math.Abs(noi.YTDVariancePct), ytdWord)
}

func (a *Assembler) expenseBullet(in Inputs) string {
	if in.Income == nil || in.Income.OperatingExpenses == nil {
		return ""
	}
	exp := in.Income.OperatingExpenses
	// Expense variance is sign-corrected at extraction: negative is favorable.
	if exp.YTDVariancePct < 0 {
		return fmt.Sprintf("Operating expenses are running %.1f%% under budget year to date (favorable)", math.Abs(exp.YTDVariancePct))
	}
	return fmt.Sprintf("Operating expenses are running %.1f%% over budget year to date", exp.YTDVariancePct)
}

func (a *Assembler) marketBullet(in Inputs) string {
	if !in.Econ.Available {
		if in.Econ.Seasonal.Season != "" && in.Econ.Seasonal.Season != "Unknown" {
			return fmt.Sprintf("%s: expected occupancy %s, %s cash flow pattern (market research unavailable)",
				in.Econ.Seasonal.Season, in.Econ.Seasonal.ExpectedOccupancy, strings.ToLower(in.Econ.Seasonal.CashFlowPattern))
		}
		return "Market context unavailable for this run"
	}
	return fmt.Sprintf("%s with %s enrollment: expected occupancy %s",
		in.Econ.Seasonal.Season, in.Econ.EnrollmentTrend, in.Econ.Seasonal.ExpectedOccupancy)
}

func (a *Assembler) riskBullet(in Inputs) string {
	if in.MultiMonth != nil {
		if in.MultiMonth.NegativeMonths > 0 {
			return fmt.Sprintf("Risk: %d of the next %d projected months show deficits (weakest: %s at %s)",
				in.MultiMonth.NegativeMonths, in.MultiMonth.MonthsAnalyzed,
				in.MultiMonth.LowestMonth.Month, money(in.MultiMonth.LowestMonth.FCF))
		}
		if in.MultiMonth.Trend == models.TrendIncreasing && in.Outcome.Decision != models.DecisionDistribute {
			return "Opportunity: projected cash flows trend upward; revisit distribution capacity next quarter"
		}
	}
	if in.AdjustNote != "" {
		return "Risk: budget occupancy assumptions exceed observed occupancy; projections were scaled down accordingly"
	}
	return ""
}
