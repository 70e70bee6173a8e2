// Package ingest turns source artifacts, an Excel cash forecast workbook
// and PDF statement documents, into the neutral forms the extractors
// consume: a typed cell grid and plain text.
package ingest

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"cashforecast/pkg/core/grid"
	"cashforecast/pkg/core/numfmt"
)

// Date renderings excelize commonly produces for styled date cells.
var dateLayouts = []string{
	"1/2/06",
	"01-02-06",
	"1/2/2006",
	"2006-01-02",
	"Jan-06",
	"Jan-2006",
	"January 2006",
}

// LoadWorkbookGrid reads one sheet of an Excel workbook into a typed grid.
// An empty sheetName selects the first sheet.
func LoadWorkbookGrid(path, sheetName string) (grid.Grid, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	if sheetName == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook %s has no sheets", path)
		}
		sheetName = sheets[0]
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheetName, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %s is empty", sheetName)
	}

	g := make(grid.Grid, len(rows))
	for r, row := range rows {
		cells := make([]grid.Cell, len(row))
		for c, raw := range row {
			cells[c] = classifyCell(raw)
		}
		g[r] = cells
	}

	logrus.WithFields(logrus.Fields{
		"path":  path,
		"sheet": sheetName,
		"rows":  g.Rows(),
	}).Debug("loaded workbook grid")
	return g, nil
}

// classifyCell types a formatted cell value. Numbers and dates are
// recognized eagerly; anything else stays text so label matching and the
// month-header scan can still see it.
func classifyCell(raw string) grid.Cell {
	s := strings.TrimSpace(raw)
	if s == "" {
		return grid.Cell{Kind: grid.KindBlank}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return grid.Date(t)
		}
	}
	if v := numfmt.Parse(s); v != nil {
		return grid.Number(*v)
	}
	return grid.Text(s)
}
