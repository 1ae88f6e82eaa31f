package extract

import (
	"bytes"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	xunicode "golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"resume-pipeline/internal/apperr"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// decodePlainText honours a byte order mark, falls back to Windows-1252 for bytes
// that are not valid UTF-8, and returns NFC text without control characters.
func decodePlainText(data []byte) (string, error) {
	var (
		decoded []byte
		err     error
	)
	switch {
	case bytes.HasPrefix(data, bomUTF8), bytes.HasPrefix(data, bomUTF16LE), bytes.HasPrefix(data, bomUTF16BE):
		dec := xunicode.BOMOverride(xunicode.UTF8.NewDecoder())
		decoded, _, err = transform.Bytes(dec, data)
	case utf8.Valid(data):
		decoded = data
	default:
		decoded, err = charmap.Windows1252.NewDecoder().Bytes(data)
	}
	if err != nil {
		return "", apperr.Extraction("text file could not be decoded", err)
	}

	text := norm.NFC.String(string(decoded))
	return stripControl(text), nil
}

func stripControl(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '\n', '\r', '\t':
			return r
		case utf8.RuneError, '\uFEFF':
			return -1
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}
