package extract

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/ledongthuc/pdf"

	"resume-pipeline/internal/apperr"
)

// decodePDF walks pages in order and their text rows top to bottom. Each run is
// percent-decoded; a run with a malformed escape keeps its text with the escape
// marker blanked instead of being dropped.
func decodePDF(data []byte) (text string, pages int, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, pages = "", 0
			err = apperr.Extraction(emptyDocumentMessage, fmt.Errorf("pdf parser panic: %v", r))
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", 0, apperr.Extraction(emptyDocumentMessage, err)
	}

	pages = reader.NumPage()
	pageTexts := make([]string, 0, pages)
	for i := 1; i <= pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			// One unreadable page should not discard the others.
			continue
		}
		var runs []string
		for _, row := range rows {
			for _, run := range row.Content {
				if s := decodeRun(run.S); strings.TrimSpace(s) != "" {
					runs = append(runs, s)
				}
			}
		}
		if len(runs) > 0 {
			pageTexts = append(pageTexts, strings.Join(runs, " "))
		}
	}

	text = strings.Join(pageTexts, "\n\n")
	if strings.TrimSpace(text) == "" {
		return "", pages, apperr.Extraction(emptyDocumentMessage, nil)
	}
	return text, pages, nil
}

func decodeRun(s string) string {
	decoded, err := url.PathUnescape(s)
	if err != nil {
		return strings.ReplaceAll(s, "%", " ")
	}
	return decoded
}
