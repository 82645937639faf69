package element

import "testing"

// fakeMatcher resolves references and literals directly against a fixed
// source string, bypassing the engine entirely. It exists so this package's
// tests exercise Element.Match in isolation from memoization concerns,
// which belong to the packrat package.
type fakeMatcher struct {
	src    string
	grefs  map[string]*Element
	visits int
}

func (f *fakeMatcher) MatchReference(name string, index int) (int, bool) {
	f.visits++
	g, ok := f.grefs[name]
	if !ok {
		return NoMatch, false
	}
	return g.Match(f, index)
}

func (f *fakeMatcher) MatchLiteral(lit *Literal, index int) (int, bool) {
	if lit.IsRegex() {
		loc := lit.Regex.FindStringIndex(f.src[index:])
		if loc == nil || loc[0] != 0 {
			return NoMatch, false
		}
		return index + loc[1], true
	}
	if index+len(lit.Str) > len(f.src) {
		return NoMatch, false
	}
	if f.src[index:index+len(lit.Str)] != lit.Str {
		return NoMatch, false
	}
	return index + len(lit.Str), true
}

func (f *fakeMatcher) MatchEOF(index int) (int, bool) {
	if index >= len(f.src) {
		return index, true
	}
	return NoMatch, false
}

func TestSequenceAllOrNothing(t *testing.T) {
	seq, err := NewSequence(NewLiteralString("foo"), NewLiteralString("bar"))
	if err != nil {
		t.Fatal(err)
	}
	m := &fakeMatcher{src: "foobar"}
	end, ok := seq.Match(m, 0)
	if !ok || end != 6 {
		t.Fatalf("got (%d, %v), want (6, true)", end, ok)
	}

	m = &fakeMatcher{src: "foobaz"}
	if _, ok := seq.Match(m, 0); ok {
		t.Fatal("expected sequence to fail on partial match")
	}
}

func TestChoicePrioritized(t *testing.T) {
	alt, err := NewChoice(NewLiteralString("foo"), NewLiteralString("foobar"))
	if err != nil {
		t.Fatal(err)
	}
	m := &fakeMatcher{src: "foobar"}
	end, ok := alt.Match(m, 0)
	if !ok || end != 3 {
		t.Fatalf("got (%d, %v), want (3, true): first alternative must win", end, ok)
	}

	alt2, err := NewChoice(NewLiteralString("foobar"), NewLiteralString("foo"))
	if err != nil {
		t.Fatal(err)
	}
	end, ok = alt2.Match(m, 0)
	if !ok || end != 6 {
		t.Fatalf("got (%d, %v), want (6, true) after reordering", end, ok)
	}
}

func TestRepetitionGreedy(t *testing.T) {
	rep, err := NewRepetition(NewLiteralString("a"), 0, Unbounded)
	if err != nil {
		t.Fatal(err)
	}
	m := &fakeMatcher{src: "aaaa"}
	end, ok := rep.Match(m, 0)
	if !ok || end != 4 {
		t.Fatalf("got (%d, %v), want (4, true)", end, ok)
	}

	m = &fakeMatcher{src: ""}
	end, ok = rep.Match(m, 0)
	if !ok || end != 0 {
		t.Fatalf("got (%d, %v), want (0, true) on empty input", end, ok)
	}
}

func TestRepetitionMinBound(t *testing.T) {
	rep, err := NewRepetition(NewLiteralString("a"), 1, Unbounded)
	if err != nil {
		t.Fatal(err)
	}
	m := &fakeMatcher{src: ""}
	if _, ok := rep.Match(m, 0); ok {
		t.Fatal("expected + repetition to fail on empty input")
	}
}

func TestRepetitionZeroWidthGuard(t *testing.T) {
	opt, err := NewRepetition(NewLiteralString("a"), 0, 1)
	if err != nil {
		t.Fatal(err)
	}
	star, err := NewRepetition(opt, 0, Unbounded)
	if err != nil {
		t.Fatal(err)
	}
	m := &fakeMatcher{src: "bbb"}
	end, ok := star.Match(m, 0)
	if !ok || end != 0 {
		t.Fatalf("got (%d, %v), want (0, true) without looping forever", end, ok)
	}
}

func TestPredicatesDoNotConsume(t *testing.T) {
	pos, err := NewPositive(NewLiteralString("a"))
	if err != nil {
		t.Fatal(err)
	}
	m := &fakeMatcher{src: "abc"}
	end, ok := pos.Match(m, 0)
	if !ok || end != 0 {
		t.Fatalf("got (%d, %v), want (0, true)", end, ok)
	}

	neg, err := NewNegative(NewLiteralString("z"))
	if err != nil {
		t.Fatal(err)
	}
	end, ok = neg.Match(m, 0)
	if !ok || end != 0 {
		t.Fatalf("got (%d, %v), want (0, true)", end, ok)
	}
}

func TestReferenceDelegatesToMatcher(t *testing.T) {
	ref, err := NewReference("digit")
	if err != nil {
		t.Fatal(err)
	}
	digit, err := NewLiteralRegex(`[0-9]`)
	if err != nil {
		t.Fatal(err)
	}
	m := &fakeMatcher{src: "7x", grefs: map[string]*Element{"digit": digit}}
	end, ok := ref.Match(m, 0)
	if !ok || end != 1 {
		t.Fatalf("got (%d, %v), want (1, true)", end, ok)
	}
	if m.visits != 1 {
		t.Fatalf("expected MatchReference to be invoked once, got %d", m.visits)
	}
}

func TestConstructionErrors(t *testing.T) {
	if _, err := NewSequence(); err == nil {
		t.Fatal("expected error for empty sequence")
	}
	if _, err := NewChoice(); err == nil {
		t.Fatal("expected error for empty choice")
	}
	if _, err := NewRepetition(nil, 0, Unbounded); err == nil {
		t.Fatal("expected error for repetition with nil child")
	}
	if _, err := NewReference(""); err == nil {
		t.Fatal("expected error for reference with empty name")
	}
}
