package ingest

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/sirupsen/logrus"
)

var spaceRun = regexp.MustCompile(`[ \t]+`)

// ExtractPDFText pulls plain text from every page of a PDF and collapses
// horizontal whitespace runs so downstream token patterns see single
// spaces between columns. The pdf library panics on some malformed
// documents, so extraction runs behind a recover.
func ExtractPDFText(path string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("panic during PDF extraction of %s: %v", path, r)
		}
	}()

	f, r, openErr := pdf.Open(path)
	if openErr != nil {
		return "", fmt.Errorf("failed to open PDF %s: %w", path, openErr)
	}
	defer func() { _ = f.Close() }()

	var sb strings.Builder
	totalPages := r.NumPage()
	for i := 1; i <= totalPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, pageErr := page.GetPlainText(nil)
		if pageErr != nil {
			logrus.WithFields(logrus.Fields{
				"path": path,
				"page": i,
			}).WithError(pageErr).Warn("skipping unreadable PDF page")
			continue
		}
		sb.WriteString(pageText)
		sb.WriteString("\n")
	}

	out := spaceRun.ReplaceAllString(sb.String(), " ")
	if strings.TrimSpace(out) == "" {
		return "", fmt.Errorf("no extractable text in PDF %s", path)
	}
	return out, nil
}
