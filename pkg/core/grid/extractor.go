package grid

import (
	"fmt"
	"strings"

	"cashforecast/pkg/core/numfmt"
	"cashforecast/pkg/models"
)

const projectionWindow = 6

// ForecastExtractor turns a cash forecast grid into typed monthly facts.
// The row specs are data, not code, so a property whose accountant labels
// the FCF row differently needs a config change only.
type ForecastExtractor struct {
	LabelColumn int
	Status      RowSpec
	FreeCash    RowSpec
	OccActual   RowSpec
	OccBudget   RowSpec
	Distrib     RowSpec
}

// NewForecastExtractor returns an extractor with the label vocabulary seen
// across the property managers' forecast workbooks.
func NewForecastExtractor() *ForecastExtractor {
	return &ForecastExtractor{
		LabelColumn: 0,
		Status:      RowSpec{Name: "status", Substrings: []string{"actual/budget", "actual / budget", "act/bud", "status"}},
		FreeCash:    RowSpec{Name: "free cash flow", Substrings: []string{"free cash flow", "net cash flow", "fcf"}},
		OccActual:   RowSpec{Name: "actual occupancy", Substrings: []string{"actual occupancy", "occupancy - actual", "physical occupancy"}},
		OccBudget:   RowSpec{Name: "budgeted occupancy", Substrings: []string{"budgeted occupancy", "budget occupancy", "occupancy - budget"}},
		Distrib:     RowSpec{Name: "distributions", Substrings: []string{"distribution", "contribution"}},
	}
}

// Extract runs column discovery, row discovery, and status segmentation,
// assembling the current month plus up to six projected months. A missing
// value row leaves its field nil; only the month block and status row are
// structural requirements.
func (e *ForecastExtractor) Extract(g Grid, propertyName string) (*models.CashForecastFacts, error) {
	cols, err := DiscoverMonthColumns(g)
	if err != nil {
		return nil, err
	}

	statusRow := FindRow(g, e.Status, e.LabelColumn)
	if statusRow < 0 {
		return nil, fmt.Errorf("could not locate the actual/budget status row")
	}

	currentIdx, budgetIdxs, err := segmentStatuses(g, statusRow, cols)
	if err != nil {
		return nil, err
	}

	fcfRow := FindRow(g, e.FreeCash, e.LabelColumn)
	occActRow := FindRow(g, e.OccActual, e.LabelColumn)
	occBudRow := FindRow(g, e.OccBudget, e.LabelColumn)
	distRow := FindRow(g, e.Distrib, e.LabelColumn)

	facts := &models.CashForecastFacts{PropertyName: propertyName}

	current := e.assembleMonth(g, cols[currentIdx], models.StatusActual, fcfRow, occActRow, distRow)
	facts.CurrentMonth = &current

	for _, i := range budgetIdxs {
		m := e.assembleMonth(g, cols[i], models.StatusBudget, fcfRow, occBudRow, distRow)
		facts.ProjectedMonths = append(facts.ProjectedMonths, m)
	}

	return facts, nil
}

// segmentStatuses reads the status row across the month block. The last
// column labeled "actual" is the current month; the first "budget" strictly
// after it opens the projection run, which collects up to six consecutive
// budget columns. An actual/budget/actual interleave resolves to the last
// actual occurrence.
func segmentStatuses(g Grid, statusRow int, cols []MonthColumn) (int, []int, error) {
	currentIdx := -1
	for i, mc := range cols {
		if statusMatches(g.At(statusRow, mc.Col), "actual") {
			currentIdx = i
		}
	}
	if currentIdx < 0 {
		return 0, nil, fmt.Errorf("no month column carries an actual status")
	}

	var budgetIdxs []int
	for i := currentIdx + 1; i < len(cols); i++ {
		if !statusMatches(g.At(statusRow, cols[i].Col), "budget") {
			if len(budgetIdxs) > 0 {
				break
			}
			continue
		}
		budgetIdxs = append(budgetIdxs, i)
		if len(budgetIdxs) == projectionWindow {
			break
		}
	}
	if len(budgetIdxs) == 0 {
		return 0, nil, fmt.Errorf("no budget month follows the last actual month")
	}

	return currentIdx, budgetIdxs, nil
}

func statusMatches(c Cell, word string) bool {
	return c.Kind == KindText && strings.Contains(strings.ToLower(c.Text), word)
}

func (e *ForecastExtractor) assembleMonth(g Grid, mc MonthColumn, status models.MonthStatus, fcfRow, occRow, distRow int) models.MonthlyForecastFact {
	fact := models.MonthlyForecastFact{Month: mc.Month, Status: status}

	if fcfRow >= 0 {
		fact.FreeCashFlow = numericAt(g, fcfRow, mc.Col)
	}
	if occRow >= 0 {
		if occ := numericAt(g, occRow, mc.Col); occ != nil {
			v := *occ
			// Sheets store occupancy either as 94.5 or as 0.945.
			if v > 0 && v <= 1 {
				v *= 100
			}
			if status == models.StatusActual {
				fact.ActualOccupancy = &v
			} else {
				fact.BudgetedOccupancy = &v
			}
		}
	}
	if distRow >= 0 {
		if d := numericAt(g, distRow, mc.Col); d != nil {
			fact.Distributions = *d
		}
	}

	return fact
}

// numericAt reads a cell as a number, going through the accounting-format
// parser for text cells. Blank or unparseable cells yield nil, not zero.
func numericAt(g Grid, row, col int) *float64 {
	c := g.At(row, col)
	switch c.Kind {
	case KindNumber:
		v := c.Number
		return &v
	case KindText:
		return numfmt.Parse(c.Text)
	default:
		return nil
	}
}
