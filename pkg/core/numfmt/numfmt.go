// Package numfmt parses accounting-formatted numeric strings. Every
// extractor funnels raw cell and token text through here so the parenthesis
// and thousands-separator conventions live in exactly one place.
package numfmt

import (
	"regexp"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
)

var numberRe = regexp.MustCompile(`^-?\d+(\.\d+)?$`)

// Parse converts text like "1,234.56", "$1,234.56", "(1,234.56)" or "-8.61%"
// into a signed float. It returns nil when the text is not a number, so
// callers can tell "parsed as zero" from "failed to parse".
func Parse(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" || s == "—" || strings.EqualFold(s, "n/a") {
		return nil
	}

	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "$", "")
	s = strings.TrimSuffix(s, "%")
	s = strings.TrimSpace(s)

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.Trim(s, "()")
	} else if strings.HasPrefix(s, "-") {
		negative = true
		s = strings.TrimPrefix(s, "-")
	}

	if !numberRe.MatchString(s) {
		return nil
	}

	val, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	if negative {
		val = -val
	}
	return &val
}

// ParseOrZero is the fail-soft variant used where noisy PDF extraction
// artifacts must not abort a run. Failures are logged so a zero that came
// from a parse miss is still visible to an operator.
func ParseOrZero(s string) float64 {
	if v := Parse(s); v != nil {
		return *v
	}
	if strings.TrimSpace(s) != "" {
		log.WithField("token", s).Debug("numeric token did not parse, defaulting to 0")
	}
	return 0
}

// Format renders a float back into the accounting style the source documents
// use: thousands separators, two decimals, parentheses for negatives.
func Format(v float64) string {
	negative := v < 0
	if negative {
		v = -v
	}
	s := strconv.FormatFloat(v, 'f', 2, 64)

	dot := strings.IndexByte(s, '.')
	intPart, frac := s[:dot], s[dot:]
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := b.String() + frac
	if negative {
		return "(" + out + ")"
	}
	return out
}
