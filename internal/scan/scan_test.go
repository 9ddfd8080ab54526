package scan

import (
	"regexp"
	"testing"
)

var (
	reWord   = regexp.MustCompile(`[A-Z]+`)
	reNumber = regexp.MustCompile(`(\d+)`)
)

func TestAfterRespectsWidthAndLimit(t *testing.T) {
	text := "ANCHOR ---- 42 ---- 77"
	pos := len("ANCHOR")

	m, ok := After(reNumber, text, pos, 10, -1)
	if !ok || m.Group(1) != "42" {
		t.Fatalf("After = %+v,%v want 42", m, ok)
	}
	if _, ok := After(reNumber, text, pos, 4, -1); ok {
		t.Error("42 lies beyond a 4-byte window")
	}
	if _, ok := After(reNumber, text, pos, 50, pos+5); ok {
		t.Error("limit must stop the search before 42")
	}
	if text[m.Start:m.End] != "42" {
		t.Errorf("offsets are not absolute: %d..%d", m.Start, m.End)
	}
}

func TestBeforeReturnsNearest(t *testing.T) {
	text := "11 22 33 ANCHOR"
	pos := len("11 22 33 ")

	m, ok := Before(reNumber, text, pos, 20, -1)
	if !ok || m.Group(1) != "33" {
		t.Fatalf("Before = %+v, want nearest 33", m)
	}
	m, ok = Before(reNumber, text, pos, 20, 6)
	if !ok || m.Group(1) != "33" {
		t.Fatalf("floor 6 still allows 33, got %+v", m)
	}
	if _, ok := Before(reNumber, text, pos, 20, 8); ok {
		t.Error("floor past the last number must find nothing")
	}
}

func TestLineBoundsAndClamp(t *testing.T) {
	text := "FIRST 1\nSECOND 2 THIRD\nLAST 3"
	pos := len("FIRST 1\nSECOND")
	line := LineBounds(text, pos)
	if got := text[line.From:line.To]; got != "SECOND 2 THIRD" {
		t.Fatalf("line = %q", got)
	}
	w := Span{From: line.From - 100, To: pos + 2}.Clamp(len(text))
	if w.From != 0 || text[line.From:w.To] != "SECOND 2" {
		t.Errorf("clamped span = %+v", w)
	}
	if m, ok := In(reNumber, text, Span{From: line.From, To: w.To}); !ok || m.Group(1) != "2" {
		t.Error("expected 2 inside the line")
	}
	if all := AllIn(reWord, text, line); len(all) != 2 {
		t.Errorf("words in line = %d", len(all))
	}
}

func TestNextAndPreview(t *testing.T) {
	ms := FindAll(reNumber, "a 1 b 2 c 3")
	if got := Next(ms, ms[0].Start, -1); got != ms[1].Start {
		t.Errorf("Next = %d", got)
	}
	if got := Next(ms, ms[2].Start, 99); got != 99 {
		t.Errorf("Next fallback = %d", got)
	}
	if got := Preview("a\n\n b   c", 3); got != "a b..." {
		t.Errorf("Preview = %q", got)
	}
}
