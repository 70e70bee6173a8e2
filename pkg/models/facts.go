// Package models defines the typed fact records passed between the
// extraction, decision, and narrative stages. Every entity is built fresh
// per analysis run and never mutated after construction.
package models

import "time"

// MonthStatus marks whether a forecast column holds realized or budgeted data.
type MonthStatus string

const (
	StatusActual MonthStatus = "ACTUAL"
	StatusBudget MonthStatus = "BUDGET"
)

// MonthlyForecastFact is one calendar month's extracted row from the cash
// forecast spreadsheet. Optional fields are nil when the source row was not
// found; Distributions defaults to 0 when its row is absent.
type MonthlyForecastFact struct {
	Month             time.Time   `json:"month"` // normalized to the first of the month
	Status            MonthStatus `json:"status"`
	FreeCashFlow      *float64    `json:"free_cash_flow"`
	ActualOccupancy   *float64    `json:"actual_occupancy,omitempty"`   // percent, 0-100
	BudgetedOccupancy *float64    `json:"budgeted_occupancy,omitempty"` // percent, 0-100
	Distributions     float64     `json:"distributions"`
}

// MonthLabel renders the month the way source documents name it ("September 2025").
func (f MonthlyForecastFact) MonthLabel() string {
	return f.Month.Format("January 2006")
}

// CashForecastFacts is the Tabular Forecast Extractor's output: the last
// actual month plus up to six consecutive budget months.
type CashForecastFacts struct {
	PropertyName    string                `json:"property_name"`
	CurrentMonth    *MonthlyForecastFact  `json:"current_month"`
	ProjectedMonths []MonthlyForecastFact `json:"projected_months"`
}

// Current returns the current month's FCF, or nil if unknown.
func (c *CashForecastFacts) Current() *float64 {
	if c.CurrentMonth == nil {
		return nil
	}
	return c.CurrentMonth.FreeCashFlow
}

// Projected returns the first budget month's FCF, or nil if unknown.
func (c *CashForecastFacts) Projected() *float64 {
	if len(c.ProjectedMonths) == 0 {
		return nil
	}
	return c.ProjectedMonths[0].FreeCashFlow
}

// FirstProjected returns the first budget month fact, or nil.
func (c *CashForecastFacts) FirstProjected() *MonthlyForecastFact {
	if c == nil || len(c.ProjectedMonths) == 0 {
		return nil
	}
	return &c.ProjectedMonths[0]
}

// LineItemFacts carries the eight numeric tokens behind one labeled line of
// the comparative income statement. Variance percentages are already
// sign-corrected at extraction time: for expenses, negative means favorable,
// and no downstream consumer re-derives the convention.
type LineItemFacts struct {
	MonthActual      float64 `json:"month_actual"`
	MonthBudget      float64 `json:"month_budget"`
	MonthVariancePct float64 `json:"month_variance_pct"`
	YTDActual        float64 `json:"ytd_actual"`
	YTDBudget        float64 `json:"ytd_budget"`
	YTDVariancePct   float64 `json:"ytd_variance_pct"`
}

// IncomeStatementFacts is the single-document snapshot of the comparative
// income statement. A nil section means the label was not found in the text.
type IncomeStatementFacts struct {
	OperatingIncome   *LineItemFacts `json:"operating_income,omitempty"`
	OperatingExpenses *LineItemFacts `json:"operating_expenses,omitempty"`
	NetOperatingInc   *LineItemFacts `json:"net_operating_income,omitempty"`
	ReportingMonth    string         `json:"reporting_month,omitempty"`
}

// NOIYTDVariancePct returns the YTD NOI variance, defaulting to 0 when the
// line was absent. The zero default here is deliberate: the decision branches
// treat "no variance data" as on-budget.
func (f *IncomeStatementFacts) NOIYTDVariancePct() float64 {
	if f == nil || f.NetOperatingInc == nil {
		return 0
	}
	return f.NetOperatingInc.YTDVariancePct
}

// BalanceSheetFacts is the single-document snapshot of the balance sheet.
// Nil fields mean the line item was absent from the document.
type BalanceSheetFacts struct {
	CashBalance        *float64 `json:"cash_balance"`
	CashPriorMonth     *float64 `json:"cash_prior_month,omitempty"`
	AccountsReceivable *float64 `json:"accounts_receivable,omitempty"`
	CurrentLiabilities *float64 `json:"current_liabilities,omitempty"`
	TotalDebt          *float64 `json:"total_debt,omitempty"`
	MonthlyPrincipal   *float64 `json:"monthly_principal,omitempty"`
	AccruedInterest    *float64 `json:"accrued_interest,omitempty"`
	// MonthlyDebtService is estimated as principal × (1 + interest factor),
	// not read from the document. See statement.EstimateDebtService.
	MonthlyDebtService *float64 `json:"monthly_debt_service,omitempty"`
	ReportingMonth     string   `json:"reporting_month,omitempty"`
}

// TrendDirection classifies a multi-month FCF sequence.
type TrendDirection string

const (
	TrendIncreasing TrendDirection = "INCREASING"
	TrendDecreasing TrendDirection = "DECREASING"
	TrendStable     TrendDirection = "STABLE"
)

// MonthExtreme names the single strongest or weakest projected month.
type MonthExtreme struct {
	Month string  `json:"month"`
	FCF   float64 `json:"fcf"`
}

// MultiMonthAnalysis summarizes the forward projection window.
type MultiMonthAnalysis struct {
	TotalFCF       float64        `json:"total_fcf"`
	AverageFCF     float64        `json:"average_fcf"`
	LowestMonth    MonthExtreme   `json:"lowest_month"`
	HighestMonth   MonthExtreme   `json:"highest_month"`
	PositiveMonths int            `json:"positive_months"`
	NegativeMonths int            `json:"negative_months"`
	Trend          TrendDirection `json:"trend"`
	AllPositive    bool           `json:"all_positive"`
	MonthsAnalyzed int            `json:"months_analyzed"`
}

// EnrollmentTrend is the coarse tag supplied by the economic-context provider.
type EnrollmentTrend string

const (
	EnrollmentGrowing   EnrollmentTrend = "growing"
	EnrollmentDeclining EnrollmentTrend = "declining"
	EnrollmentStable    EnrollmentTrend = "stable"
)

// SeasonalFactor classifies the analysis month against the academic calendar.
type SeasonalFactor struct {
	Season            string `json:"season"` // "Fall Semester", "Spring Semester", "Summer Session", "Unknown"
	ExpectedOccupancy string `json:"expected_occupancy"`
	CashFlowPattern   string `json:"cash_flow_pattern"`
	Notes             string `json:"notes,omitempty"`
}

// EconomicContext is the external collaborator's output. Available is false
// when the provider failed; the pipeline proceeds on financial facts alone.
type EconomicContext struct {
	Available       bool            `json:"available"`
	Seasonal        SeasonalFactor  `json:"seasonal_factor"`
	EnrollmentTrend EnrollmentTrend `json:"enrollment_trend"`
	NewSupply       bool            `json:"new_supply,omitempty"`
	FullAnalysis    string          `json:"full_analysis,omitempty"`
}

// PropertyInfo is the metadata carried through a run and into the narrative.
type PropertyInfo struct {
	Name       string `json:"name"`
	University string `json:"university,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
}

// Decision is the capital-allocation outcome.
type Decision string

const (
	DecisionContribute Decision = "CONTRIBUTE"
	DecisionDistribute Decision = "DISTRIBUTE"
	DecisionDoNothing  Decision = "DO_NOTHING"
)

// Confidence grades how firmly the facts support the decision.
type Confidence string

const (
	ConfidenceHigh   Confidence = "HIGH"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceLow    Confidence = "LOW"
)

// BreakdownLine is one labeled component of a contribution amount.
type BreakdownLine struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

// ContributionBreakdown itemizes how a CONTRIBUTE amount was built, so the
// number is auditable rather than a black box.
type ContributionBreakdown struct {
	Lines         []BreakdownLine `json:"lines"`
	MonthsForward int             `json:"months_forward"`
	ForwardReason string          `json:"forward_reason,omitempty"`
	Total         float64         `json:"total"`
}

// DetailedRationale holds the named prose sections of the report.
type DetailedRationale struct {
	CashForecastAnalysis    string `json:"cash_forecast_analysis"`
	IncomeStatementAnalysis string `json:"income_statement_analysis"`
	BalanceSheetAnalysis    string `json:"balance_sheet_analysis"`
	EconomicContext         string `json:"economic_context"`
	RiskAssessment          string `json:"risk_assessment"`
	DecisionRationale       string `json:"decision_rationale"`
}

// Recommendation is the final synthesized artifact of one analysis run.
// Amount is nil iff Decision is DO_NOTHING; Breakdown is present only for
// CONTRIBUTE.
type Recommendation struct {
	RunID             string                 `json:"run_id"`
	PropertyName      string                 `json:"property_name"`
	AnalysisMonth     string                 `json:"analysis_month"`
	ProjectedMonth    string                 `json:"projected_month"`
	Decision          Decision               `json:"decision"`
	Amount            *float64               `json:"amount,omitempty"`
	Confidence        Confidence             `json:"confidence"`
	Breakdown         *ContributionBreakdown `json:"contribution_breakdown,omitempty"`
	ExecutiveSummary  []string               `json:"executive_summary"`
	DetailedRationale DetailedRationale      `json:"detailed_rationale"`
	OccupancyAdjusted bool                   `json:"occupancy_adjusted"`
	MultiMonth        *MultiMonthAnalysis    `json:"multi_month_analysis,omitempty"`
	GeneratedAt       time.Time              `json:"generated_at"`
}
