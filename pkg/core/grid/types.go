// Package grid implements heuristic discovery of the month columns and
// financial rows inside a loosely structured cash forecast spreadsheet.
// The sheet arrives as a typed 2-D grid; nothing here knows about file
// formats.
package grid

import (
	"regexp"
	"strings"
	"time"
)

// CellKind tags what a cell holds after loading.
type CellKind int

const (
	KindBlank CellKind = iota
	KindText
	KindNumber
	KindDate
)

// Cell is one typed spreadsheet cell.
type Cell struct {
	Kind   CellKind
	Text   string
	Number float64
	Date   time.Time
}

// Grid is a row-major sheet. Rows may be ragged; At pads with blanks.
type Grid [][]Cell

// At returns the cell at (row, col), or a blank cell when out of range.
func (g Grid) At(row, col int) Cell {
	if row < 0 || row >= len(g) {
		return Cell{}
	}
	r := g[row]
	if col < 0 || col >= len(r) {
		return Cell{}
	}
	return r[col]
}

// Rows reports the row count.
func (g Grid) Rows() int { return len(g) }

// Cols reports the widest row's column count.
func (g Grid) Cols() int {
	max := 0
	for _, r := range g {
		if len(r) > max {
			max = len(r)
		}
	}
	return max
}

// Text returns a text cell.
func Text(s string) Cell { return Cell{Kind: KindText, Text: s} }

// Number returns a numeric cell.
func Number(v float64) Cell { return Cell{Kind: KindNumber, Number: v} }

// Date returns a date cell.
func Date(t time.Time) Cell { return Cell{Kind: KindDate, Date: t} }

var monthTextRe = regexp.MustCompile(`(?i)\b(jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|jun(?:e)?|jul(?:y)?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)[\s\-./]*(\d{4})\b`)

var monthIndex = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// MonthOf interprets a cell as a calendar month. Native dates win; text cells
// must carry a month abbreviation plus a 4-digit year ("Jan-2025",
// "September 2025"). The second return is false when the cell is not a month.
func MonthOf(c Cell) (time.Time, bool) {
	switch c.Kind {
	case KindDate:
		return time.Date(c.Date.Year(), c.Date.Month(), 1, 0, 0, 0, 0, time.UTC), true
	case KindText:
		m := monthTextRe.FindStringSubmatch(c.Text)
		if m == nil {
			return time.Time{}, false
		}
		mon := monthIndex[strings.ToLower(m[1])[:3]]
		year := 0
		for _, r := range m[2] {
			year = year*10 + int(r-'0')
		}
		return time.Date(year, mon, 1, 0, 0, 0, 0, time.UTC), true
	default:
		return time.Time{}, false
	}
}
