package render

import (
	"strings"
	"unicode"
)

// SegmentKind tells which face a Segment is drawn with.
type SegmentKind int

const (
	KindPlain SegmentKind = iota
	KindEmoji
)

func (k SegmentKind) String() string {
	if k == KindEmoji {
		return "emoji"
	}
	return "plain"
}

// Segment is a maximal run of one line sharing a single SegmentKind.
type Segment struct {
	Text string
	Kind SegmentKind
}

// emojiRanges is a static approximation of emoji code points: emoticons,
// pictographs, transport, regional indicator flags, dingbats and enclosed
// characters.
var emojiRanges = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x2460, Hi: 0x24FF, Stride: 1}, // enclosed alphanumerics
		{Lo: 0x2600, Hi: 0x26FF, Stride: 1}, // misc symbols
		{Lo: 0x2702, Hi: 0x27B0, Stride: 1}, // dingbats
	},
	R32: []unicode.Range32{
		{Lo: 0x1F100, Hi: 0x1F251, Stride: 1}, // enclosed supplements, flags
		{Lo: 0x1F300, Hi: 0x1F5FF, Stride: 1}, // symbols & pictographs
		{Lo: 0x1F600, Hi: 0x1F64F, Stride: 1}, // emoticons
		{Lo: 0x1F680, Hi: 0x1F6FF, Stride: 1}, // transport & map
		{Lo: 0x1F900, Hi: 0x1F9FF, Stride: 1}, // supplemental pictographs
		{Lo: 0x1FA70, Hi: 0x1FAFF, Stride: 1}, // pictographs extended-A
	},
}

// IsEmoji reports whether r is in the emoji range table.
func IsEmoji(r rune) bool { return unicode.Is(emojiRanges, r) }

// sequenceComponent reports runes that only have meaning inside an emoji
// sequence: joiners, presentation selectors, the keycap mark and tags.
func sequenceComponent(r rune) bool {
	switch {
	case r == 0x200D, r == 0xFE0E, r == 0xFE0F, r == 0x20E3:
		return true
	case r >= 0xE0020 && r <= 0xE007F:
		return true
	}
	return false
}

func keycapBase(r rune) bool { return (r >= '0' && r <= '9') || r == '#' || r == '*' }

// startsKeycap reports whether rest (the runes after a keycap base) continue
// as a keycap sequence: optional U+FE0F followed by U+20E3.
func startsKeycap(rest []rune) bool {
	if len(rest) > 0 && rest[0] == 0xFE0F {
		rest = rest[1:]
	}
	return len(rest) > 0 && rest[0] == 0x20E3
}

// Segments splits line into alternating plain and emoji runs. Sequence
// components that follow an emoji stay in its run, so ZWJ sequences, skin
// tones and keycaps are never split across segments.
func Segments(line string) []Segment {
	runes := []rune(line)
	var (
		segs    []Segment
		current strings.Builder
		kind    SegmentKind
	)
	for i, r := range runes {
		next := KindPlain
		switch {
		case IsEmoji(r):
			next = KindEmoji
		case sequenceComponent(r) && current.Len() > 0 && kind == KindEmoji:
			next = KindEmoji
		case keycapBase(r) && startsKeycap(runes[i+1:]):
			next = KindEmoji
		}
		if current.Len() > 0 && next != kind {
			segs = append(segs, Segment{Text: current.String(), Kind: kind})
			current.Reset()
		}
		kind = next
		current.WriteRune(r)
	}
	if current.Len() > 0 {
		segs = append(segs, Segment{Text: current.String(), Kind: kind})
	}
	return segs
}
