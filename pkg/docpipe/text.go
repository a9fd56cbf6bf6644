package docpipe

import (
	"bytes"
	"unicode/utf8"
)

// extractText is the fallback for unrecognized extensions: decode the raw
// bytes as UTF-8, replacing invalid sequences. It never fails.
func extractText(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	return string(bytes.ToValidUTF8(data, []byte(string(utf8.RuneError))))
}
