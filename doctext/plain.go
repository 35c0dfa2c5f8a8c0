package doctext

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// decodePlain is the last-resort decoder. It never fails: worst case it
// returns an empty string, which the pipeline treats as "no usable text".
//
// Buffers that are not valid UTF-8 but look like single-byte Cyrillic are
// decoded as Windows-1251 first — legacy Russian .doc exports routinely
// carry that encoding. Everything else goes through a lenient UTF-8 decode
// that drops invalid sequences. Control and other non-printable runes are
// then filtered out, keeping only printable characters and whitespace.
func decodePlain(data []byte) string {
	var text string
	switch {
	case utf8.Valid(data):
		text = string(data)
	case looksWindows1251(data):
		if decoded, err := charmap.Windows1251.NewDecoder().Bytes(data); err == nil {
			text = string(decoded)
		}
	}
	if text == "" {
		text = strings.ToValidUTF8(string(data), "")
	}

	var sb strings.Builder
	sb.Grow(len(text))
	for _, r := range text {
		if unicode.IsPrint(r) || unicode.IsSpace(r) {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// looksWindows1251 reports whether the buffer plausibly holds CP1251 text:
// the high bytes cluster in the Cyrillic letter range 0xC0-0xFF.
func looksWindows1251(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	high := 0
	cyr := 0
	for _, b := range data {
		if b >= 0x80 {
			high++
			if b >= 0xC0 {
				cyr++
			}
		}
	}
	return high > 0 && float64(cyr)/float64(high) > 0.8
}
