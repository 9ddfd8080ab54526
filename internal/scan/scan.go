// Package scan holds the anchor/window primitives the extractors are built
// from: find a token, then look a bounded distance before or after it for
// another token class.
package scan

import (
	"regexp"
	"strings"
)

// Match is a regexp match with absolute offsets into the scanned text.
type Match struct {
	Start, End int
	Groups     []string // Groups[0] is the whole match
}

// Group returns submatch i, or "" when absent.
func (m Match) Group(i int) string {
	if i < 0 || i >= len(m.Groups) {
		return ""
	}
	return m.Groups[i]
}

// Span is a half-open byte range [From, To).
type Span struct {
	From, To int
}

// Clamp limits s to [0, n).
func (s Span) Clamp(n int) Span {
	if s.From < 0 {
		s.From = 0
	}
	if s.To > n {
		s.To = n
	}
	if s.To < s.From {
		s.To = s.From
	}
	return s
}

// FindAll returns every match of re in text.
func FindAll(re *regexp.Regexp, text string) []Match {
	idx := re.FindAllStringSubmatchIndex(text, -1)
	out := make([]Match, 0, len(idx))
	for _, loc := range idx {
		out = append(out, toMatch(text, loc, 0))
	}
	return out
}

// In returns the first match of re inside span.
func In(re *regexp.Regexp, text string, span Span) (Match, bool) {
	span = span.Clamp(len(text))
	loc := re.FindStringSubmatchIndex(text[span.From:span.To])
	if loc == nil {
		return Match{}, false
	}
	return toMatch(text[span.From:span.To], loc, span.From), true
}

// AllIn returns every match of re inside span.
func AllIn(re *regexp.Regexp, text string, span Span) []Match {
	span = span.Clamp(len(text))
	sub := text[span.From:span.To]
	idx := re.FindAllStringSubmatchIndex(sub, -1)
	out := make([]Match, 0, len(idx))
	for _, loc := range idx {
		out = append(out, toMatch(sub, loc, span.From))
	}
	return out
}

// After finds the first match of re within width bytes after pos, never
// crossing limit (pass -1 for no limit).
func After(re *regexp.Regexp, text string, pos, width, limit int) (Match, bool) {
	to := pos + width
	if limit >= 0 && limit < to {
		to = limit
	}
	return In(re, text, Span{From: pos, To: to})
}

// Before finds the nearest match of re that ends within width bytes before
// pos, never crossing floor (pass -1 for no floor).
func Before(re *regexp.Regexp, text string, pos, width, floor int) (Match, bool) {
	from := pos - width
	if floor >= 0 && floor > from {
		from = floor
	}
	all := AllIn(re, text, Span{From: from, To: pos})
	if len(all) == 0 {
		return Match{}, false
	}
	return all[len(all)-1], true
}

// LineBounds returns the span of the line containing pos, without the newline.
func LineBounds(text string, pos int) Span {
	if pos > len(text) {
		pos = len(text)
	}
	if pos < 0 {
		pos = 0
	}
	start := strings.LastIndexByte(text[:pos], '\n') + 1
	end := strings.IndexByte(text[pos:], '\n')
	if end < 0 {
		end = len(text)
	} else {
		end += pos
	}
	return Span{From: start, To: end}
}

// Next returns the start of the first match in starts that is greater than
// pos, or fallback when there is none.
func Next(starts []Match, pos, fallback int) int {
	for _, m := range starts {
		if m.Start > pos {
			return m.Start
		}
	}
	return fallback
}

// Preview returns the first n runes of text with whitespace collapsed.
func Preview(text string, n int) string {
	s := strings.Join(strings.Fields(text), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

func toMatch(text string, loc []int, offset int) Match {
	groups := make([]string, len(loc)/2)
	for i := range groups {
		if loc[2*i] >= 0 {
			groups[i] = text[loc[2*i]:loc[2*i+1]]
		}
	}
	return Match{Start: loc[0] + offset, End: loc[1] + offset, Groups: groups}
}
