package render

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// WrapMode selects how message text is broken into lines.
type WrapMode int

const (
	// WrapCharacters breaks on a fixed per-line character budget. It assumes
	// the body font's average advance fits LineBudget characters into
	// TextWidth, which does not hold for wide glyphs.
	WrapCharacters WrapMode = iota
	// WrapMeasured breaks on measured advance widths against TextWidth.
	WrapMeasured
)

func (m WrapMode) String() string {
	if m == WrapMeasured {
		return "measured"
	}
	return "characters"
}

// normalizeText composes the text to NFC and collapses all whitespace runs
// (newlines included) to single spaces.
func normalizeText(s string) string {
	return strings.Join(strings.Fields(norm.NFC.String(s)), " ")
}

// WrapChars greedily wraps text at word boundaries so that no line exceeds
// budget runes. A word longer than budget is placed on its own line unsplit.
// Text without any words yields no lines.
func WrapChars(text string, budget int) []string {
	return wrapWords(strings.Fields(normalizeText(text)), func(line string) bool {
		return utf8.RuneCountInString(line) <= budget
	})
}

// WrapWidth greedily wraps text so that measure(line) stays within maxWidth
// pixels. Overlong words are kept whole, like WrapChars.
func WrapWidth(text string, maxWidth int, measure func(string) int) []string {
	return wrapWords(strings.Fields(normalizeText(text)), func(line string) bool {
		return measure(line) <= maxWidth
	})
}

func wrapWords(words []string, fits func(string) bool) []string {
	var lines []string
	current := ""
	for _, word := range words {
		if current == "" {
			current = word
			continue
		}
		candidate := current + " " + word
		if fits(candidate) {
			current = candidate
			continue
		}
		lines = append(lines, current)
		current = word
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}
