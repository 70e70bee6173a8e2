package narrative

import (
	"fmt"
	"math"
	"strings"

	"cashforecast/pkg/models"
)

// BuildRationale produces the named prose sections of the report.
func (a *Assembler) BuildRationale(in Inputs) models.DetailedRationale {
	return models.DetailedRationale{
		CashForecastAnalysis:    a.cashForecastSection(in),
		IncomeStatementAnalysis: a.incomeStatementSection(in),
		BalanceSheetAnalysis:    a.balanceSheetSection(in),
		EconomicContext:         a.economicContextSection(in),
		RiskAssessment:          a.riskAssessmentSection(in),
		DecisionRationale:       a.decisionRationaleSection(in),
	}
}

func (a *Assembler) cashForecastSection(in Inputs) string {
	if in.Forecast == nil {
		return "No cash forecast data was available for this run."
	}
	var sb strings.Builder

	if cur := in.Forecast.CurrentMonth; cur != nil {
		if cur.FreeCashFlow != nil {
			fmt.Fprintf(&sb, "The most recent actual month, %s, closed with free cash flow of %s.", cur.MonthLabel(), money(*cur.FreeCashFlow))
		} else {
			fmt.Fprintf(&sb, "The most recent actual month is %s; its free cash flow was not reported.", cur.MonthLabel())
		}
		if cur.ActualOccupancy != nil {
			fmt.Fprintf(&sb, " Actual occupancy stood at %.1f%%.", *cur.ActualOccupancy)
		}
	}

	if len(in.Forecast.ProjectedMonths) > 0 {
		sb.WriteString("\n\nForward projections:\n")
		for _, m := range in.Forecast.ProjectedMonths {
			if m.FreeCashFlow == nil {
				fmt.Fprintf(&sb, "  %s: not reported\n", m.MonthLabel())
				continue
			}
			fmt.Fprintf(&sb, "  %s: %s\n", m.MonthLabel(), money(*m.FreeCashFlow))
		}
	}

	if in.AdjustNote != "" {
		sb.WriteString("\n")
		sb.WriteString(in.AdjustNote)
		sb.WriteString(".")
	}

	if mm := in.MultiMonth; mm != nil {
		fmt.Fprintf(&sb, "\nAcross the %d projected months the total is %s (average %s per month), trending %s.",
			mm.MonthsAnalyzed, money(mm.TotalFCF), money(mm.AverageFCF), strings.ToLower(string(mm.Trend)))
	}
	return strings.TrimSpace(sb.String())
}

func (a *Assembler) incomeStatementSection(in Inputs) string {
	if in.Income == nil {
		return "No income statement data was available for this run."
	}
	var sb strings.Builder

	if noi := in.Income.NetOperatingInc; noi != nil {
		fmt.Fprintf(&sb, "Net operating income came in at %s against a %s budget, a %.2f%% variance for the month.",
			money(noi.MonthActual), money(noi.MonthBudget), noi.MonthVariancePct)
		fmt.Fprintf(&sb, " Year to date NOI of %s stands %.2f%% against budget.", money(noi.YTDActual), noi.YTDVariancePct)
	}
	if inc := in.Income.OperatingIncome; inc != nil {
		fmt.Fprintf(&sb, "\nOperating income for the month was %s (%.2f%% vs budget).", money(inc.MonthActual), inc.MonthVariancePct)
	}
	if exp := in.Income.OperatingExpenses; exp != nil {
		qualifier := "over budget (unfavorable)"
		if exp.YTDVariancePct < 0 {
			qualifier = "under budget (favorable)"
		}
		fmt.Fprintf(&sb, "\nOperating expenses of %s for the month are %.2f%% %s year to date.",
			money(exp.MonthActual), math.Abs(exp.YTDVariancePct), qualifier)
	}
	if sb.Len() == 0 {
		return "Income statement lines could not be located in the document."
	}
	return strings.TrimSpace(sb.String())
}

func (a *Assembler) balanceSheetSection(in Inputs) string {
	if in.Balance == nil || in.Balance.CashBalance == nil {
		return "No balance sheet data was available for this run."
	}
	b := in.Balance
	var sb strings.Builder

	fmt.Fprintf(&sb, "Cash and equivalents total %s.", money(*b.CashBalance))
	if b.CashPriorMonth != nil {
		delta := *b.CashBalance - *b.CashPriorMonth
		direction := "up"
		if delta < 0 {
			direction = "down"
		}
		fmt.Fprintf(&sb, " That is %s %s from %s in the prior month.", direction, money(math.Abs(delta)), money(*b.CashPriorMonth))
	}

	if b.CurrentLiabilities != nil {
		fmt.Fprintf(&sb, "\nCurrent liabilities are %s, leaving working capital of %s", money(*b.CurrentLiabilities), money(in.Outcome.WorkingCapital))
		if *b.CurrentLiabilities != 0 {
			currentAssets := *b.CashBalance
			if b.AccountsReceivable != nil {
				currentAssets += *b.AccountsReceivable
			}
			ratio := currentAssets / *b.CurrentLiabilities
			fmt.Fprintf(&sb, " (current ratio %.2f:1)", ratio)
			sb.WriteString(".")
			if ratio < 1.5 {
				sb.WriteString(" A ratio below the 1.5:1 guideline leaves little cushion for near-term obligations.")
			}
		} else {
			sb.WriteString(".")
		}
	}

	if b.MonthlyDebtService != nil {
		fmt.Fprintf(&sb, "\nEstimated monthly debt service is %s", money(*b.MonthlyDebtService))
		if b.MonthlyPrincipal != nil {
			fmt.Fprintf(&sb, " on principal paydown of %s", money(*b.MonthlyPrincipal))
		}
		sb.WriteString(". The estimate derives from the notes-payable change and a fixed interest factor, not an amortization schedule.")
	}

	reserves := in.Outcome.MonthsOfReserves
	assessment := "a tight runway"
	switch {
	case reserves > a.Policy.DistributionReserveMonths:
		assessment = "a strong runway"
	case reserves > a.Policy.ReserveFloorMonths:
		assessment = "an adequate runway"
	}
	fmt.Fprintf(&sb, "\nAt estimated monthly obligations, the property holds %.1f months of reserves, %s.", reserves, assessment)
	return strings.TrimSpace(sb.String())
}

func (a *Assembler) economicContextSection(in Inputs) string {
	var sb strings.Builder
	s := in.Econ.Seasonal
	if s.Season != "" && s.Season != "Unknown" {
		fmt.Fprintf(&sb, "The analysis month falls in the %s: expected occupancy %s with a %s cash flow pattern.",
			s.Season, s.ExpectedOccupancy, strings.ToLower(s.CashFlowPattern))
		if s.Notes != "" {
			fmt.Fprintf(&sb, " %s.", s.Notes)
		}
	}
	if !in.Econ.Available {
		sb.WriteString("\nMarket research was unavailable for this run; the decision rests on financial facts alone.")
		return strings.TrimSpace(sb.String())
	}
	fmt.Fprintf(&sb, "\nEnrollment is %s", in.Econ.EnrollmentTrend)
	if in.Econ.NewSupply {
		sb.WriteString(" and new competing supply is entering the market")
	}
	sb.WriteString(".")
	if in.Econ.FullAnalysis != "" {
		sb.WriteString("\n\n")
		sb.WriteString(in.Econ.FullAnalysis)
	}
	return strings.TrimSpace(sb.String())
}

func (a *Assembler) riskAssessmentSection(in Inputs) string {
	var risks []string

	if in.Outcome.WorkingCapital < a.Policy.WorkingCapitalCrisis {
		risks = append(risks, fmt.Sprintf("Working capital deficit of %s. The liability composition is not broken out in the source documents, so the contribution sizing carries low confidence.", money(math.Abs(in.Outcome.WorkingCapital))))
	}
	if in.Outcome.MonthsOfReserves < a.Policy.ReserveFloorMonths {
		risks = append(risks, fmt.Sprintf("Reserve runway of %.1f months sits below the %.0f-month floor.", in.Outcome.MonthsOfReserves, a.Policy.ReserveFloorMonths))
	}
	if mm := in.MultiMonth; mm != nil {
		if mm.NegativeMonths > 0 {
			risks = append(risks, fmt.Sprintf("%d of %d projected months show deficits; the weakest is %s at %s.", mm.NegativeMonths, mm.MonthsAnalyzed, mm.LowestMonth.Month, money(mm.LowestMonth.FCF)))
		}
		if mm.Trend == models.TrendDecreasing {
			risks = append(risks, "Projected cash flows are trending downward across the window.")
		}
	}
	if in.Income != nil {
		if noi := in.Income.NetOperatingInc; noi != nil && noi.MonthVariancePct < -10 {
			risks = append(risks, fmt.Sprintf("NOI missed budget by %.1f%% for the month, a material single-month shortfall.", math.Abs(noi.MonthVariancePct)))
		}
		if exp := in.Income.OperatingExpenses; exp != nil && exp.YTDVariancePct > 10 {
			risks = append(risks, fmt.Sprintf("Operating expenses are running %.1f%% over budget year to date.", exp.YTDVariancePct))
		}
	}
	if in.AdjustNote != "" {
		risks = append(risks, "Budgeted occupancy exceeds observed occupancy; unadjusted projections would overstate cash flow.")
	}
	if in.Econ.Available && in.Econ.NewSupply {
		risks = append(risks, "New competing supply may pressure occupancy and rents in coming leasing cycles.")
	}
	if in.Econ.Available && in.Econ.EnrollmentTrend == models.EnrollmentDeclining {
		risks = append(risks, "Declining enrollment at the affiliated institution weakens the demand base.")
	}

	if len(risks) == 0 {
		return "No elevated risks identified: reserves, projections, and occupancy assumptions are all within policy bounds."
	}
	var sb strings.Builder
	for _, r := range risks {
		fmt.Fprintf(&sb, "- %s\n", r)
	}
	return strings.TrimSpace(sb.String())
}

func (a *Assembler) decisionRationaleSection(in Inputs) string {
	var sb strings.Builder
	switch in.Outcome.Decision {
	case models.DecisionContribute:
		fmt.Fprintf(&sb, "A capital contribution of %s is recommended.", money(*in.Outcome.Amount))
		if bd := in.Outcome.Breakdown; bd != nil {
			sb.WriteString(" The amount builds up as follows:\n")
			for _, line := range bd.Lines {
				fmt.Fprintf(&sb, "  %s: %s\n", line.Label, money(line.Amount))
			}
			fmt.Fprintf(&sb, "  Total: %s\n", money(bd.Total))
			if bd.ForwardReason != "" {
				sb.WriteString(bd.ForwardReason)
				sb.WriteString(".")
			}
		}
	case models.DecisionDistribute:
		fmt.Fprintf(&sb, "A distribution of %s is supportable.", money(*in.Outcome.Amount))
		if mm := in.MultiMonth; mm != nil {
			fmt.Fprintf(&sb, " All %d projected months are positive, averaging %s, and the amount is capped so reserves stay at or above %.0f months after payout.",
				mm.MonthsAnalyzed, money(mm.AverageFCF), a.Policy.ReserveFloorMonths)
		} else {
			fmt.Fprintf(&sb, " The single projected month clears the distribution bar and the amount is bounded to preserve a %.0f-month reserve.", a.Policy.ReserveFloorMonths)
		}
	default:
		sb.WriteString("No capital action is warranted.")
		if in.Outcome.WorkingCapital >= a.Policy.WorkingCapitalCrisis && in.Outcome.MonthsOfReserves > a.Policy.ReserveFloorMonths {
			fmt.Fprintf(&sb, " Reserves of %.1f months absorb the projected position without a contribution, and the surplus case for a distribution is not met.", in.Outcome.MonthsOfReserves)
		}
	}
	fmt.Fprintf(&sb, "\nConfidence in this recommendation is %s.", in.Outcome.Confidence)
	return strings.TrimSpace(sb.String())
}
