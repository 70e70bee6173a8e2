package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"cashforecast/pkg/core/decision"
	"cashforecast/pkg/core/econ"
	"cashforecast/pkg/models"
)

func fptr(v float64) *float64 { return &v }

func month(m time.Month) time.Time {
	return time.Date(2025, m, 1, 0, 0, 0, 0, time.UTC)
}

func sampleFacts() Facts {
	return Facts{
		Property: models.PropertyInfo{Name: "Rittenhouse Station", University: "University of Delaware"},
		Forecast: &models.CashForecastFacts{
			PropertyName: "Rittenhouse Station",
			CurrentMonth: &models.MonthlyForecastFact{
				Month: month(time.September), Status: models.StatusActual,
				FreeCashFlow: fptr(633531.05), ActualOccupancy: fptr(94.5),
			},
			ProjectedMonths: []models.MonthlyForecastFact{
				{Month: month(time.October), Status: models.StatusBudget, FreeCashFlow: fptr(-18202.58), BudgetedOccupancy: fptr(93)},
				{Month: month(time.November), Status: models.StatusBudget, FreeCashFlow: fptr(42000)},
				{Month: month(time.December), Status: models.StatusBudget, FreeCashFlow: fptr(55000)},
			},
		},
		Income: &models.IncomeStatementFacts{
			NetOperatingInc: &models.LineItemFacts{
				MonthActual: 245061.10, MonthBudget: 268135.01, MonthVariancePct: -8.61,
				YTDActual: 2160069.99, YTDBudget: 2092353.37, YTDVariancePct: 3.24,
			},
			ReportingMonth: "September 2025",
		},
		Balance: &models.BalanceSheetFacts{
			CashBalance:        fptr(1465132.44),
			CurrentLiabilities: fptr(521864.86),
			MonthlyPrincipal:   fptr(57072.78),
			MonthlyDebtService: fptr(85609.17),
		},
	}
}

func TestEvaluateDoNothing(t *testing.T) {
	p := New(decision.DefaultPolicy(), nil)
	rec, err := p.Evaluate(context.Background(), sampleFacts())
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}

	if rec.Decision != models.DecisionDoNothing {
		t.Fatalf("decision = %s", rec.Decision)
	}
	if rec.Amount != nil {
		t.Fatal("DO_NOTHING must carry no amount")
	}
	if rec.RunID == "" || rec.GeneratedAt.IsZero() {
		t.Fatalf("run metadata incomplete: %+v", rec)
	}
	if rec.AnalysisMonth != "September 2025" || rec.ProjectedMonth != "October 2025" {
		t.Fatalf("months = %q / %q", rec.AnalysisMonth, rec.ProjectedMonth)
	}
	if len(rec.ExecutiveSummary) == 0 || len(rec.ExecutiveSummary) > 7 {
		t.Fatalf("summary length = %d", len(rec.ExecutiveSummary))
	}
	if rec.DetailedRationale.DecisionRationale == "" {
		t.Fatal("rationale sections must be populated")
	}
	if rec.MultiMonth == nil || rec.MultiMonth.MonthsAnalyzed != 3 {
		t.Fatalf("multi-month = %+v", rec.MultiMonth)
	}
	// A 1.5 point occupancy gap is below the adjustment trigger.
	if rec.OccupancyAdjusted {
		t.Fatal("occupancy should not have been adjusted")
	}
}

func TestEvaluateWorkingCapitalCrisis(t *testing.T) {
	facts := sampleFacts()
	facts.Balance.CashBalance = fptr(25000)
	facts.Balance.CurrentLiabilities = fptr(100000)
	facts.Balance.MonthlyDebtService = nil
	facts.Income.NetOperatingInc.YTDVariancePct = -8
	facts.Forecast.ProjectedMonths = facts.Forecast.ProjectedMonths[:1]

	rec, err := New(decision.DefaultPolicy(), nil).Evaluate(context.Background(), facts)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if rec.Decision != models.DecisionContribute || rec.Confidence != models.ConfidenceLow {
		t.Fatalf("got %s/%s", rec.Decision, rec.Confidence)
	}
	if rec.Breakdown == nil || rec.Breakdown.MonthsForward != 6 {
		t.Fatalf("breakdown = %+v", rec.Breakdown)
	}
	if rec.Amount == nil || *rec.Amount != rec.Breakdown.Total {
		t.Fatalf("amount %v vs breakdown total %f", rec.Amount, rec.Breakdown.Total)
	}
}

func TestEvaluateOccupancyAdjustment(t *testing.T) {
	facts := sampleFacts()
	// Budget assumes 99% against 94.5% observed: scale projections down.
	facts.Forecast.ProjectedMonths[0].BudgetedOccupancy = fptr(99)

	rec, err := New(decision.DefaultPolicy(), nil).Evaluate(context.Background(), facts)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !rec.OccupancyAdjusted {
		t.Fatal("expected occupancy adjustment")
	}
}

func TestEvaluateValidationGate(t *testing.T) {
	facts := sampleFacts()
	facts.Forecast.ProjectedMonths = nil
	if _, err := New(decision.DefaultPolicy(), nil).Evaluate(context.Background(), facts); !errors.Is(err, ErrMissingProjectedFCF) {
		t.Fatalf("err = %v", err)
	}

	facts = sampleFacts()
	facts.Balance.CashBalance = nil
	if _, err := New(decision.DefaultPolicy(), nil).Evaluate(context.Background(), facts); !errors.Is(err, ErrMissingCashBalance) {
		t.Fatalf("err = %v", err)
	}

	facts = sampleFacts()
	facts.Balance = nil
	if _, err := New(decision.DefaultPolicy(), nil).Evaluate(context.Background(), facts); !errors.Is(err, ErrMissingCashBalance) {
		t.Fatalf("err = %v", err)
	}
}

type stubProvider struct {
	response string
	err      error
}

func (s *stubProvider) GenerateResponse(ctx context.Context, prompt, systemPrompt string, options map[string]interface{}) (string, error) {
	return s.response, s.err
}

func TestEvaluateWithEconomicContext(t *testing.T) {
	analyzer := econ.NewAnalyzer(&stubProvider{
		response: `{"enrollment_trend": "growing", "new_supply": false, "analysis": "Enrollment up on record freshman class."}`,
	})

	rec, err := New(decision.DefaultPolicy(), analyzer).Evaluate(context.Background(), sampleFacts())
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if rec.DetailedRationale.EconomicContext == "" {
		t.Fatal("expected economic context section")
	}
}

func TestEvaluateProviderFailureStillDecides(t *testing.T) {
	analyzer := econ.NewAnalyzer(&stubProvider{err: errors.New("provider down")})
	rec, err := New(decision.DefaultPolicy(), analyzer).Evaluate(context.Background(), sampleFacts())
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if rec.Decision != models.DecisionDoNothing {
		t.Fatalf("decision = %s", rec.Decision)
	}
}
