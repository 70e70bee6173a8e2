package grid

import (
	"fmt"
	"strings"
	"time"
)

const (
	// headerScanRows bounds the search for the first date-bearing cell.
	headerScanRows = 10
	// maxColumnGap is how many consecutive non-month columns (YTD totals,
	// blanks, year dividers) the walk tolerates before closing the block.
	maxColumnGap = 5
)

// MonthColumn is one discovered time-series column.
type MonthColumn struct {
	Col   int
	Month time.Time
}

// DiscoverMonthColumns locates the contiguous block of month columns. It
// scans the first few rows for the first cell readable as a calendar month,
// then walks rightward on that row collecting every month column of any
// year, tolerating up to maxColumnGap non-month columns between them.
// Discovery is deterministic: the same grid always yields the same list.
func DiscoverMonthColumns(g Grid) ([]MonthColumn, error) {
	rows := g.Rows()
	if rows > headerScanRows {
		rows = headerScanRows
	}

	for row := 0; row < rows; row++ {
		for col := 0; col < g.Cols(); col++ {
			first, ok := MonthOf(g.At(row, col))
			if !ok {
				continue
			}

			cols := []MonthColumn{{Col: col, Month: first}}
			gap := 0
			for c := col + 1; c < g.Cols(); c++ {
				if m, ok := MonthOf(g.At(row, c)); ok {
					cols = append(cols, MonthColumn{Col: c, Month: m})
					gap = 0
					continue
				}
				gap++
				if gap > maxColumnGap {
					break
				}
			}
			return cols, nil
		}
	}

	return nil, fmt.Errorf("no date-bearing column found in the first %d rows", headerScanRows)
}

// RowSpec declares how to find one logical row: any of the substrings,
// lower-cased, appearing in the label column claims the row. First match
// wins; duplicate labels are not disambiguated further.
type RowSpec struct {
	Name       string
	Substrings []string
}

// FindRow scans labelCol top-to-bottom for the row spec. Returns -1 when no
// label matches.
func FindRow(g Grid, spec RowSpec, labelCol int) int {
	for row := 0; row < g.Rows(); row++ {
		c := g.At(row, labelCol)
		if c.Kind != KindText {
			continue
		}
		label := strings.ToLower(c.Text)
		for _, sub := range spec.Substrings {
			if strings.Contains(label, sub) {
				return row
			}
		}
	}
	return -1
}
