package peapi

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	maxFirstNameLen = 13
	maxLastNameLen  = 25
)

// asciiFold strips diacritics and drops anything left outside ASCII. The
// remote system only accepts plain uppercase ASCII names.
var asciiFold = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func foldToASCII(s string) string {
	out, _, err := transform.String(asciiFold, s)
	if err != nil {
		out = s
	}
	var b strings.Builder
	for _, r := range out {
		if r < 128 {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// formatFirstName uppercases, folds to ASCII, hyphenates compound names and
// truncates to the remote field width.
func formatFirstName(name string) string {
	s := strings.ToUpper(foldToASCII(strings.TrimSpace(name)))
	s = strings.ReplaceAll(s, " ", "-")
	s = keepRunes(s, func(r rune) bool {
		return (r >= 'A' && r <= 'Z') || r == '-'
	})
	return truncate(s, maxFirstNameLen)
}

// formatLastName keeps spaces, hyphens and apostrophes, which are legal in
// the remote last-name field.
func formatLastName(name string) string {
	s := strings.ToUpper(foldToASCII(strings.TrimSpace(name)))
	s = keepRunes(s, func(r rune) bool {
		return (r >= 'A' && r <= 'Z') || r == '-' || r == ' ' || r == '\''
	})
	return truncate(s, maxLastNameLen)
}

// formatNIR drops the 2-digit control key: the remote system certifies the
// first 13 characters only.
func formatNIR(nir string) string {
	return truncate(nir, 13)
}

func keepRunes(s string, keep func(rune) bool) string {
	var b strings.Builder
	for _, r := range s {
		if keep(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
