package utils

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// MaxSlugLen caps slug length in bytes.
const MaxSlugLen = 80

// Slugify lowercases s, strips diacritics and joins alphanumeric runs with
// single hyphens, e.g. "Café Ordering (v2)" -> "cafe-ordering-v2". The result
// is cut to MaxSlugLen bytes on a character boundary.
func Slugify(s string) string {
	out := slugForm(s)
	if len(out) > MaxSlugLen {
		n := MaxSlugLen
		for n > 0 && !utf8.RuneStart(out[n]) {
			n--
		}
		out = strings.TrimRight(out[:n], "-")
	}
	return out
}

func slugForm(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	pendingHyphen := false
	for _, r := range norm.NFD.String(s) {
		switch {
		case unicode.Is(unicode.Mn, r):
			continue
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(unicode.ToLower(r))
		default:
			pendingHyphen = true
		}
	}

	return b.String()
}

// IsSlug reports whether s is already in canonical slug form. Length is not
// checked; see MaxSlugLen.
func IsSlug(s string) bool {
	return s != "" && slugForm(s) == s
}
