package interpres

import (
	"strings"
	"unicode"
)

// typographyReplacer folds typographic quotes, dashes and ellipses into
// their ASCII spellings so lookups see one form.
var typographyReplacer = strings.NewReplacer(
	"\u2018", "'", // left single quote
	"\u2019", "'", // right single quote, apostrophe
	"\u201a", "'", // low single quote
	"\u201b", "'",
	"\u2032", "'", // prime
	"\u201c", `"`,
	"\u201d", `"`,
	"\u201e", `"`,
	"\u00ab", `"`, // guillemets
	"\u00bb", `"`,
	"\u2013", "-", // en dash
	"\u2014", "--",
	"\u2212", "-", // minus sign
	"\u2026", "...",
	"\u00a0", " ", // no-break space
)

// NormalizeTypography replaces typographic punctuation with ASCII.
func NormalizeTypography(s string) string {
	return typographyReplacer.Replace(s)
}

// StripControl removes control and format characters other than tab.
func StripControl(s string) string {
	if strings.IndexFunc(s, isNoise) < 0 {
		return s
	}
	return strings.Map(func(r rune) rune {
		if isNoise(r) {
			return -1
		}
		return r
	}, s)
}

func isNoise(r rune) bool {
	if r == '\t' {
		return false
	}
	return unicode.IsControl(r) || unicode.Is(unicode.Cf, r) || r == unicode.ReplacementChar
}

// leadingSymbols are bullet-like characters stripped from the start of a
// line. Quotes, brackets and currency signs are kept; they carry meaning.
const leadingSymbols = "*#>\u2022\u00b7-=~|+_"

// StripLeadingSymbols removes a leading run of bullet symbols and the
// whitespace around them.
func StripLeadingSymbols(line string) string {
	return strings.TrimLeft(strings.TrimLeftFunc(line, unicode.IsSpace), leadingSymbols+" \t")
}

// NormalizeLine applies the per-line cleanup that precedes word splitting.
func NormalizeLine(line string) string {
	return StripLeadingSymbols(NormalizeTypography(StripControl(line)))
}

// NormalizeKey returns the lexicon lookup key for a word.
func NormalizeKey(s string) string {
	return strings.ToLower(NormalizeTypography(s))
}
