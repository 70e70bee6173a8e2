package statement

import (
	"fmt"
	"math"
	"regexp"

	"cashforecast/pkg/core/numfmt"
	"cashforecast/pkg/models"
)

// DefaultInterestFactor is the accrued-interest share of monthly debt
// service, applied on top of principal when estimating total service.
const DefaultInterestFactor = 0.5

// Comparative balance sheets print each line with a current-month and a
// prior-month column. A trailing variance column may follow; it is ignored.
var balancePairTail = `\s+` + numTok + `\s+` + numTok

// findBalancePair locates label followed by the current/prior column pair.
func findBalancePair(text, label string) (current, prior *float64) {
	re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(label) + balancePairTail)
	m := re.FindStringSubmatch(text)
	if m == nil {
		return nil, nil
	}
	return numfmt.Parse(m[1]), numfmt.Parse(m[2])
}

// ExtractBalanceSheet pulls the liquidity and debt lines out of the
// comparative balance sheet text. Cash is the one structurally required
// line; everything else degrades to typed absence.
func ExtractBalanceSheet(text string, interestFactor float64) (*models.BalanceSheetFacts, error) {
	facts := &models.BalanceSheetFacts{}

	facts.CashBalance, facts.CashPriorMonth = findBalancePair(text, "Total Cash and Cash Equivalents")
	if facts.CashBalance == nil {
		return nil, fmt.Errorf("could not locate Total Cash and Cash Equivalents in balance sheet")
	}

	facts.AccountsReceivable, _ = findBalancePair(text, "Total Accounts Receivable")
	facts.CurrentLiabilities, _ = findBalancePair(text, "Total Current Liabilities")

	debtCur, debtPrior := findBalancePair(text, "Total Notes Payable")
	facts.TotalDebt = debtCur
	if debtCur != nil && debtPrior != nil {
		// Month-over-month paydown of the notes balance is the best
		// available proxy for scheduled monthly principal.
		principal := math.Abs(*debtPrior - *debtCur)
		facts.MonthlyPrincipal = &principal
		facts.MonthlyDebtService = EstimateDebtService(principal, interestFactor)
	}

	if accrued, _ := findBalancePair(text, "Accrued Interest"); accrued != nil {
		facts.AccruedInterest = accrued
	}

	facts.ReportingMonth = findReportingMonth(text)
	return facts, nil
}

// EstimateDebtService approximates total monthly debt service from the
// principal paydown. The balance sheet nets accrued interest into other
// liability lines, so interest is modeled as a fixed factor of principal.
func EstimateDebtService(monthlyPrincipal, interestFactor float64) *float64 {
	svc := monthlyPrincipal * (1 + interestFactor)
	return &svc
}
