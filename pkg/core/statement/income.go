// Package statement extracts labeled financial line items from the
// text of management-report PDFs. The text arrives whitespace-normalized
// from the PDF extractor; columns are rendered left to right with no
// guarantee of exact spacing, so everything here is token-pattern based.
package statement

import (
	"fmt"
	"regexp"
	"strings"

	"cashforecast/pkg/core/numfmt"
	"cashforecast/pkg/models"
)

// Token fragments for the comparative-statement column layout: a currency
// amount that may be parenthesized, and a percent that may be signed.
const (
	numTok = `(\(?-?[\d,]+(?:\.\d+)?\)?)`
	pctTok = `(\(?-?[\d,.]+\)?)%`
)

// Comparative income statements print each line as eight columns:
// month actual, month budget, month $var, month %var, then the same four
// year-to-date.
var incomeLineTail = strings.Repeat(`\s+`+numTok+`\s+`+numTok+`\s+`+numTok+`\s+`+pctTok, 2)

// findLineItem locates label followed by the eight-token column run.
// The label must appear literally (case-insensitive); the first match wins.
func findLineItem(text, label string) *models.LineItemFacts {
	re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(label) + incomeLineTail)
	m := re.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	return &models.LineItemFacts{
		MonthActual:      numfmt.ParseOrZero(m[1]),
		MonthBudget:      numfmt.ParseOrZero(m[2]),
		MonthVariancePct: numfmt.ParseOrZero(m[4]),
		YTDActual:        numfmt.ParseOrZero(m[5]),
		YTDBudget:        numfmt.ParseOrZero(m[6]),
		YTDVariancePct:   numfmt.ParseOrZero(m[8]),
	}
}

// ExtractIncomeStatement pulls the three summary lines out of the
// comparative income statement text. The document prints variance with
// "favorable is positive" polarity, which for expenses flips the uniform
// (actual-budget)/budget convention; the flip is undone here, once, so
// every consumer downstream reads negative expense variance as favorable.
func ExtractIncomeStatement(text string) (*models.IncomeStatementFacts, error) {
	facts := &models.IncomeStatementFacts{
		OperatingIncome: findLineItem(text, "Total Operating Income"),
		NetOperatingInc: findLineItem(text, "Net Operating Income"),
	}

	if exp := findLineItem(text, "Total Operating Expenses"); exp != nil {
		exp.MonthVariancePct = -exp.MonthVariancePct
		exp.YTDVariancePct = -exp.YTDVariancePct
		facts.OperatingExpenses = exp
	}

	if facts.NetOperatingInc == nil {
		return nil, fmt.Errorf("could not locate Net Operating Income in income statement")
	}

	facts.ReportingMonth = findReportingMonth(text)
	return facts, nil
}

var reportingMonthRe = regexp.MustCompile(`(?i)\b(January|February|March|April|May|June|July|August|September|October|November|December)\s+(\d{4})\b`)

// findReportingMonth picks the first full month-year mention in the
// document header, e.g. "September 2025".
func findReportingMonth(text string) string {
	m := reportingMonthRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return m[1] + " " + m[2]
}
