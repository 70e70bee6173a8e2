package grid

import (
	"testing"
	"time"

	"cashforecast/pkg/models"
)

func month(y int, m time.Month) time.Time {
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

// forecastGrid builds a sheet shaped like the real workbooks: a label
// column, a header row of month dates, a YTD column wedged between years,
// and value rows below.
func forecastGrid() Grid {
	header := []Cell{Text("Cash Forecast")}
	status := []Cell{Text("Actual / Budget")}
	fcf := []Cell{Text("Free Cash Flow")}
	occA := []Cell{Text("Actual Occupancy %")}
	occB := []Cell{Text("Budgeted Occupancy %")}
	dist := []Cell{Text("Distributions / (Contributions)")}

	months := []time.Month{time.July, time.August, time.September, time.October, time.November, time.December}
	statuses := []string{"Actual", "Actual", "Actual", "Budget", "Budget", "Budget"}
	fcfVals := []float64{120000, 450000, 633531.05, -18202.58, 95000, 110000}
	occAVals := []float64{0.52, 0.91, 0.945, 0, 0, 0}
	occBVals := []float64{0.55, 0.93, 0.96, 0.93, 0.94, 0.95}

	for i, m := range months {
		header = append(header, Date(month(2025, m)))
		status = append(status, Text(statuses[i]))
		fcf = append(fcf, Number(fcfVals[i]))
		if statuses[i] == "Actual" {
			occA = append(occA, Number(occAVals[i]))
			occB = append(occB, Cell{})
		} else {
			occA = append(occA, Cell{})
			occB = append(occB, Number(occBVals[i]))
		}
		dist = append(dist, Number(0))
	}

	// Trailing YTD summary column followed by next year's first month.
	header = append(header, Text("2025 YTD"), Date(month(2026, time.January)))
	status = append(status, Text(""), Text("Budget"))
	fcf = append(fcf, Number(1390328.47), Number(140000))

	return Grid{
		{Text("Rittenhouse Station")},
		header,
		status,
		fcf,
		occA,
		occB,
		dist,
	}
}

func TestDiscoverMonthColumns(t *testing.T) {
	g := forecastGrid()
	cols, err := DiscoverMonthColumns(g)
	if err != nil {
		t.Fatalf("DiscoverMonthColumns: %v", err)
	}

	// Six 2025 months plus the January 2026 column on the far side of the
	// YTD gap.
	if len(cols) != 7 {
		t.Fatalf("got %d month columns, want 7", len(cols))
	}
	if !cols[0].Month.Equal(month(2025, time.July)) {
		t.Errorf("first month = %v, want July 2025", cols[0].Month)
	}
	if !cols[6].Month.Equal(month(2026, time.January)) {
		t.Errorf("last month = %v, want January 2026", cols[6].Month)
	}

	// Idempotence: a second pass yields the identical column list.
	again, err := DiscoverMonthColumns(g)
	if err != nil {
		t.Fatalf("second DiscoverMonthColumns: %v", err)
	}
	if len(again) != len(cols) {
		t.Fatalf("second pass found %d columns, first found %d", len(again), len(cols))
	}
	for i := range cols {
		if cols[i] != again[i] {
			t.Errorf("column %d differs between passes: %+v vs %+v", i, cols[i], again[i])
		}
	}
}

func TestDiscoverMonthColumnsTextHeaders(t *testing.T) {
	g := Grid{
		{Text("Line Item"), Text("Jan-2025"), Text("Feb-2025"), Text("Mar-2025")},
	}
	cols, err := DiscoverMonthColumns(g)
	if err != nil {
		t.Fatalf("DiscoverMonthColumns: %v", err)
	}
	if len(cols) != 3 {
		t.Fatalf("got %d columns, want 3", len(cols))
	}
	if !cols[1].Month.Equal(month(2025, time.February)) {
		t.Errorf("second month = %v, want February 2025", cols[1].Month)
	}
}

func TestMonthOfText(t *testing.T) {
	cases := []struct {
		text string
		want time.Time
		ok   bool
	}{
		{"Jan-2025", month(2025, time.January), true},
		{"September 2025", month(2025, time.September), true},
		{"Sept 2025", month(2025, time.September), true},
		{"FEB/2026", month(2026, time.February), true},
		{"Mayfield 2025", time.Time{}, false},
		{"Janitor 2025", time.Time{}, false},
		{"Decade 2030", time.Time{}, false},
		{"Budget", time.Time{}, false},
	}
	for _, tc := range cases {
		got, ok := MonthOf(Text(tc.text))
		if ok != tc.ok {
			t.Errorf("%q: ok=%v, want %v", tc.text, ok, tc.ok)
			continue
		}
		if ok && !got.Equal(tc.want) {
			t.Errorf("%q: got %v, want %v", tc.text, got, tc.want)
		}
	}
}

func TestDiscoverMonthColumnsClosesAfterLongGap(t *testing.T) {
	row := []Cell{Date(month(2025, time.January)), Date(month(2025, time.February))}
	for i := 0; i < 6; i++ {
		row = append(row, Text("summary"))
	}
	row = append(row, Date(month(2026, time.January)))

	cols, err := DiscoverMonthColumns(Grid{row})
	if err != nil {
		t.Fatalf("DiscoverMonthColumns: %v", err)
	}
	if len(cols) != 2 {
		t.Errorf("got %d columns, want 2 (block closes after gap of 6)", len(cols))
	}
}

func TestDiscoverMonthColumnsNoDates(t *testing.T) {
	_, err := DiscoverMonthColumns(Grid{{Text("a"), Text("b")}, {Number(1), Number(2)}})
	if err == nil {
		t.Fatal("expected an error for a grid with no date-bearing column")
	}
}

func TestExtract(t *testing.T) {
	facts, err := NewForecastExtractor().Extract(forecastGrid(), "Rittenhouse Station")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	cur := facts.CurrentMonth
	if cur == nil {
		t.Fatal("no current month extracted")
	}
	if !cur.Month.Equal(month(2025, time.September)) {
		t.Errorf("current month = %v, want September 2025", cur.Month)
	}
	if cur.FreeCashFlow == nil || *cur.FreeCashFlow != 633531.05 {
		t.Errorf("current FCF = %v, want 633531.05", cur.FreeCashFlow)
	}
	if cur.ActualOccupancy == nil || *cur.ActualOccupancy != 94.5 {
		t.Errorf("current occupancy = %v, want 94.5 (fraction scaled x100)", cur.ActualOccupancy)
	}

	// Projection window: Oct, Nov, Dec 2025 then Jan 2026 across the gap.
	if len(facts.ProjectedMonths) != 4 {
		t.Fatalf("got %d projected months, want 4", len(facts.ProjectedMonths))
	}
	first := facts.ProjectedMonths[0]
	if first.Status != models.StatusBudget {
		t.Errorf("projected status = %v, want BUDGET", first.Status)
	}
	if first.FreeCashFlow == nil || *first.FreeCashFlow != -18202.58 {
		t.Errorf("projected FCF = %v, want -18202.58", first.FreeCashFlow)
	}
	if first.BudgetedOccupancy == nil || *first.BudgetedOccupancy != 93 {
		t.Errorf("projected occupancy = %v, want 93", first.BudgetedOccupancy)
	}
}

// An actual/budget/actual interleave is resolved by taking the LAST actual
// as the current month.
func TestExtractUsesLastActual(t *testing.T) {
	g := Grid{
		{Text(""), Date(month(2025, time.January)), Date(month(2025, time.February)), Date(month(2025, time.March)), Date(month(2025, time.April))},
		{Text("Actual/Budget"), Text("Actual"), Text("Budget"), Text("Actual"), Text("Budget")},
		{Text("Free Cash Flow"), Number(10), Number(20), Number(30), Number(40)},
	}
	facts, err := NewForecastExtractor().Extract(g, "p")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if !facts.CurrentMonth.Month.Equal(month(2025, time.March)) {
		t.Errorf("current month = %v, want March 2025 (last actual)", facts.CurrentMonth.Month)
	}
	if len(facts.ProjectedMonths) != 1 || *facts.ProjectedMonths[0].FreeCashFlow != 40 {
		t.Errorf("projection should hold only April, got %+v", facts.ProjectedMonths)
	}
	// Invariant: current index precedes every budget index.
	for _, p := range facts.ProjectedMonths {
		if !p.Month.After(facts.CurrentMonth.Month) {
			t.Errorf("projected month %v not after current %v", p.Month, facts.CurrentMonth.Month)
		}
	}
}

// A missing value row leaves the field nil rather than failing extraction.
func TestExtractMissingRowsAreAbsent(t *testing.T) {
	g := Grid{
		{Text(""), Date(month(2025, time.January)), Date(month(2025, time.February))},
		{Text("Actual/Budget"), Text("Actual"), Text("Budget")},
	}
	facts, err := NewForecastExtractor().Extract(g, "p")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if facts.CurrentMonth.FreeCashFlow != nil {
		t.Error("FCF should be absent when the row is missing")
	}
	if facts.CurrentMonth.ActualOccupancy != nil {
		t.Error("occupancy should be absent when the row is missing")
	}
	if facts.CurrentMonth.Distributions != 0 {
		t.Error("distributions default to 0 when the row is missing")
	}
}

func TestExtractNoStatusRow(t *testing.T) {
	g := Grid{
		{Text(""), Date(month(2025, time.January))},
		{Text("Free Cash Flow"), Number(1)},
	}
	if _, err := NewForecastExtractor().Extract(g, "p"); err == nil {
		t.Fatal("expected a structural error when the status row is missing")
	}
}
