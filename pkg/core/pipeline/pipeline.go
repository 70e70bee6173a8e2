// Package pipeline wires one analysis run end to end: ingest the three
// source documents, extract facts, enrich with economic context, decide,
// and assemble the narrative into a single Recommendation.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"cashforecast/pkg/core/decision"
	"cashforecast/pkg/core/econ"
	"cashforecast/pkg/core/grid"
	"cashforecast/pkg/core/ingest"
	"cashforecast/pkg/core/narrative"
	"cashforecast/pkg/core/statement"
	"cashforecast/pkg/models"
)

// Validation gate: without these two facts no decision branch can be
// evaluated, so the run refuses rather than producing a hollow result.
var (
	ErrMissingProjectedFCF = errors.New("analysis requires a projected free cash flow figure from the forecast")
	ErrMissingCashBalance  = errors.New("analysis requires a cash balance from the balance sheet")
)

// RunRequest names the three source documents and the property they describe.
type RunRequest struct {
	ForecastPath        string
	ForecastSheet       string // empty selects the first sheet
	IncomeStatementPath string
	BalanceSheetPath    string
	Property            models.PropertyInfo
}

// Facts is the extracted-document bundle Evaluate consumes. Income and
// Balance may carry nil sub-facts for lines absent from the documents.
type Facts struct {
	Property models.PropertyInfo
	Forecast *models.CashForecastFacts
	Income   *models.IncomeStatementFacts
	Balance  *models.BalanceSheetFacts
}

// Pipeline holds the run-invariant collaborators.
type Pipeline struct {
	Policy    decision.PolicyConfig
	Econ      *econ.Analyzer
	extractor *grid.ForecastExtractor
}

// New returns a Pipeline on the given policy. analyzer may be nil to run
// without market research.
func New(policy decision.PolicyConfig, analyzer *econ.Analyzer) *Pipeline {
	return &Pipeline{
		Policy:    policy,
		Econ:      analyzer,
		extractor: grid.NewForecastExtractor(),
	}
}

// Run ingests the three documents and evaluates them. Structural problems
// in any document surface as errors naming the missing artifact.
func (p *Pipeline) Run(ctx context.Context, req RunRequest) (*models.Recommendation, error) {
	g, err := ingest.LoadWorkbookGrid(req.ForecastPath, req.ForecastSheet)
	if err != nil {
		return nil, fmt.Errorf("cash forecast: %w", err)
	}
	forecast, err := p.extractor.Extract(g, req.Property.Name)
	if err != nil {
		return nil, fmt.Errorf("cash forecast: %w", err)
	}

	incomeText, err := ingest.ExtractPDFText(req.IncomeStatementPath)
	if err != nil {
		return nil, fmt.Errorf("income statement: %w", err)
	}
	income, err := statement.ExtractIncomeStatement(incomeText)
	if err != nil {
		return nil, fmt.Errorf("income statement: %w", err)
	}

	balanceText, err := ingest.ExtractPDFText(req.BalanceSheetPath)
	if err != nil {
		return nil, fmt.Errorf("balance sheet: %w", err)
	}
	balance, err := statement.ExtractBalanceSheet(balanceText, p.Policy.InterestFactor)
	if err != nil {
		return nil, fmt.Errorf("balance sheet: %w", err)
	}

	return p.Evaluate(ctx, Facts{
		Property: req.Property,
		Forecast: forecast,
		Income:   income,
		Balance:  balance,
	})
}

// Evaluate runs the decision stages over already-extracted facts.
func (p *Pipeline) Evaluate(ctx context.Context, facts Facts) (*models.Recommendation, error) {
	if facts.Forecast == nil || facts.Forecast.Projected() == nil {
		return nil, ErrMissingProjectedFCF
	}
	if facts.Balance == nil || facts.Balance.CashBalance == nil {
		return nil, ErrMissingCashBalance
	}

	runID := uuid.NewString()
	log := logrus.WithFields(logrus.Fields{
		"run_id":   runID,
		"property": facts.Property.Name,
	})

	proj := facts.Forecast.FirstProjected()
	ectx := p.Econ.Analyze(ctx, facts.Property, proj.Month)
	log.WithFields(logrus.Fields{
		"season":    ectx.Seasonal.Season,
		"available": ectx.Available,
	}).Info("economic context resolved")

	var currentOcc *float64
	if facts.Forecast.CurrentMonth != nil {
		currentOcc = facts.Forecast.CurrentMonth.ActualOccupancy
	}
	adjustedFCF, adjustNote, adjusted := p.Policy.AdjustForOccupancy(*proj.FreeCashFlow, currentOcc, proj.BudgetedOccupancy)
	if adjusted {
		log.Info(adjustNote)
	}

	multiMonth := p.Policy.AnalyzeMultiMonth(facts.Forecast.ProjectedMonths)

	engine := &decision.Engine{Policy: p.Policy}
	inputs := decision.Inputs{
		AdjustedFCF:       adjustedFCF,
		CurrentFCF:        facts.Forecast.Current(),
		CashBalance:       *facts.Balance.CashBalance,
		NOIYTDVariancePct: facts.Income.NOIYTDVariancePct(),
		Season:            ectx.Seasonal.Season,
		MultiMonth:        multiMonth,
	}
	if facts.Balance.CurrentLiabilities != nil {
		inputs.CurrentLiabilities = *facts.Balance.CurrentLiabilities
	}
	if facts.Balance.MonthlyDebtService != nil {
		inputs.MonthlyDebtService = *facts.Balance.MonthlyDebtService
	}
	outcome := engine.Decide(inputs)
	log.WithFields(logrus.Fields{
		"decision":   outcome.Decision,
		"confidence": outcome.Confidence,
	}).Info("decision made")

	assembler := narrative.NewAssembler(p.Policy)
	narrativeIn := narrative.Inputs{
		Property:   facts.Property,
		Forecast:   facts.Forecast,
		Income:     facts.Income,
		Balance:    facts.Balance,
		Econ:       ectx,
		Outcome:    outcome,
		AdjustNote: adjustNote,
		MultiMonth: multiMonth,
	}

	rec := &models.Recommendation{
		RunID:             runID,
		PropertyName:      facts.Property.Name,
		ProjectedMonth:    proj.MonthLabel(),
		Decision:          outcome.Decision,
		Amount:            outcome.Amount,
		Confidence:        outcome.Confidence,
		Breakdown:         outcome.Breakdown,
		ExecutiveSummary:  assembler.BuildExecutiveSummary(narrativeIn),
		DetailedRationale: assembler.BuildRationale(narrativeIn),
		OccupancyAdjusted: adjusted,
		MultiMonth:        multiMonth,
		GeneratedAt:       time.Now().UTC(),
	}
	if facts.Forecast.CurrentMonth != nil {
		rec.AnalysisMonth = facts.Forecast.CurrentMonth.MonthLabel()
	}
	return rec, nil
}
