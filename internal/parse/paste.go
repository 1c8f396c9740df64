package parse

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// NormalizePaste decodes a raw clipboard paste into clean UTF-8 text with
// unix line endings. Exports copied from the Windows game client arrive as
// Windows-1252; everything else is already UTF-8.
func NormalizePaste(raw []byte) string {
	var text string
	if utf8.Valid(raw) {
		text = string(raw)
	} else {
		decoded, err := charmap.Windows1252.NewDecoder().Bytes(raw)
		if err != nil {
			text = string(raw)
		} else {
			text = string(decoded)
		}
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return text
}
