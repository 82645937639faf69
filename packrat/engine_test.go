package packrat

import (
	"strings"
	"testing"

	"github.com/kanreki/pegrat/element"
)

func mustGrammar(t *testing.T, build func(*Builder)) *Grammar {
	t.Helper()
	b := NewBuilder()
	build(b)
	g, err := b.Grammar()
	if err != nil {
		t.Fatalf("grammar construction failed: %v", err)
	}
	return g
}

// Scenario 1 & 2: S = "a"*; S on "" and "aaaa".
func TestStarOnEmptyAndRepeated(t *testing.T) {
	g := mustGrammar(t, func(b *Builder) {
		b.Define("s", Many(Lit("a")))
	})
	eng := NewEngine(g)

	end, err := eng.Parse("s", "", 0)
	if err != nil || end != 0 {
		t.Fatalf("got (%d, %v), want (0, nil)", end, err)
	}

	end, err = eng.Parse("s", "aaaa", 0)
	if err != nil || end != 4 {
		t.Fatalf("got (%d, %v), want (4, nil)", end, err)
	}
}

// Scenario 3: digit = %x30-39; number = digit+ on "123xyz" from "number".
func TestPlusStopsAtFirstNonMatch(t *testing.T) {
	digit, err := element.NewLiteralCodepointRange('0', '9')
	if err != nil {
		t.Fatal(err)
	}
	g := mustGrammar(t, func(b *Builder) {
		b.Define("digit", digit)
		b.Define("number", Some(Ref("digit")))
	})
	eng := NewEngine(g)
	end, err := eng.Parse("number", "123xyz", 0)
	if err != nil || end != 3 {
		t.Fatalf("got (%d, %v), want (3, nil)", end, err)
	}
}

// Scenario 4: alt = "foo" / "foobar" on "foobar" commits to "foo".
func TestPrioritizedChoiceCommitsToFirstAlternative(t *testing.T) {
	g := mustGrammar(t, func(b *Builder) {
		b.Define("alt", Alt(Lit("foo"), Lit("foobar")))
	})
	eng := NewEngine(g)
	end, err := eng.Parse("alt", "foobar", 0)
	if err != nil || end != 3 {
		t.Fatalf("got (%d, %v), want (3, nil): PEG choice must not backtrack", end, err)
	}

	g2 := mustGrammar(t, func(b *Builder) {
		b.Define("alt", Alt(Lit("foobar"), Lit("foo")))
	})
	eng2 := NewEngine(g2)
	end, err = eng2.Parse("alt", "foobar", 0)
	if err != nil || end != 6 {
		t.Fatalf("got (%d, %v), want (6, nil) after reordering", end, err)
	}
}

// Scenario 5: case sensitivity of %s"IF" vs case-insensitive "IF".
func TestCaseSensitivity(t *testing.T) {
	sensitive := element.NewLiteralString("IF")
	g := mustGrammar(t, func(b *Builder) { b.Define("kw", sensitive) })
	eng := NewEngine(g)

	if end, err := eng.Parse("kw", "If", 0); err != nil || end != NoMatch {
		t.Fatalf("got (%d, %v), want (NoMatch, nil)", end, err)
	}
	if end, err := eng.Parse("kw", "IF", 0); err != nil || end != 2 {
		t.Fatalf("got (%d, %v), want (2, nil)", end, err)
	}

	insensitive, err := element.NewLiteralCaseInsensitive("IF")
	if err != nil {
		t.Fatal(err)
	}
	g2 := mustGrammar(t, func(b *Builder) { b.Define("kw", insensitive) })
	eng2 := NewEngine(g2)
	if end, err := eng2.Parse("kw", "if", 0); err != nil || end != 2 {
		t.Fatalf("got (%d, %v), want (2, nil)", end, err)
	}
}

// Memoization correctness: every (index, goal) body runs at most once.
func TestMemoizationRunsEachGoalOnceAtEachIndex(t *testing.T) {
	countingDigit, err := element.NewLiteralCodepointRange('0', '9')
	if err != nil {
		t.Fatal(err)
	}
	g := mustGrammar(t, func(b *Builder) {
		// "digit" is referenced from two different alternatives that both
		// try it at the same positions, so without memoization its body
		// would run twice per index.
		b.Define("digit", countingDigit)
		b.Define("twice", Alt(
			Seq(Ref("digit"), Lit("x")),
			Seq(Ref("digit"), Lit("y")),
		))
	})
	// WithDebug writes one line each time a production body runs and
	// succeeds; a memo hit writes nothing.
	var trace strings.Builder
	eng := NewEngine(g, WithDebug(&trace))
	end, err := eng.Parse("twice", "5y", 0)
	if err != nil || end != 2 {
		t.Fatalf("got (%d, %v), want (2, nil)", end, err)
	}
	// The memo must have recorded "digit" having matched at index 0.
	if endOf, ok := eng.EndOf("digit", 0); !ok || endOf != 1 {
		t.Fatalf("expected digit to have matched [0,1), got (%d, %v)", endOf, ok)
	}
	// The second alternative's attempt at index 0 is a cache hit, so the
	// digit body ran exactly once there.
	if n := strings.Count(trace.String(), "digit @ [0,1)"); n != 1 {
		t.Fatalf("digit body ran %d times at index 0, want 1", n)
	}
}

// Ignore transparency: inserting ignorable tokens between goals does not
// change what is accepted.
func TestIgnoreTransparency(t *testing.T) {
	ws, err := element.NewLiteralRegex(`[ \t\n]+`)
	if err != nil {
		t.Fatal(err)
	}
	g := mustGrammar(t, func(b *Builder) {
		b.Define("ws", ws)
		b.Define("pair", Seq(Lit("a"), Lit("b")))
	})
	eng := NewEngine(g, WithIgnore("ws"))

	for _, src := range []string{"ab", "a b", "a   b", "a\n\tb"} {
		end, err := eng.Parse("pair", src, 0)
		if err != nil || end != len(src) {
			t.Fatalf("source %q: got (%d, %v), want (%d, nil)", src, end, err, len(src))
		}
	}
}

// Left-recursion rejection.
func TestLeftRecursionIsFatal(t *testing.T) {
	g := mustGrammar(t, func(b *Builder) {
		b.Define("x", Seq(Ref("x"), Lit("a")))
	})
	eng := NewEngine(g)
	_, err := eng.Parse("x", "aa", 0)
	if err == nil {
		t.Fatal("expected a left-recursion error")
	}
	if !strings.Contains(err.Error(), "left recursion") {
		t.Fatalf("got error %v, want a left-recursion error", err)
	}
}

// Predicate non-consumption.
func TestPredicatesReturnOriginalIndex(t *testing.T) {
	g := mustGrammar(t, func(b *Builder) {
		b.Define("peek", Seq(Pos(Lit("a")), Lit("a")))
	})
	eng := NewEngine(g)
	end, err := eng.Parse("peek", "a", 0)
	if err != nil || end != 1 {
		t.Fatalf("got (%d, %v), want (1, nil)", end, err)
	}
}

func TestUndefinedReferenceIsFatal(t *testing.T) {
	g := mustGrammar(t, func(b *Builder) {
		b.Define("x", Ref("nope"))
	})
	eng := NewEngine(g)
	_, err := eng.Parse("x", "anything", 0)
	if err == nil {
		t.Fatal("expected an undefined-production error")
	}
}

func TestEOFGoal(t *testing.T) {
	g := mustGrammar(t, func(b *Builder) {
		b.Define("all", Seq(Lit("a"), Eof()))
	})
	eng := NewEngine(g)
	if end, err := eng.Parse("all", "a", 0); err != nil || end != 1 {
		t.Fatalf("got (%d, %v), want (1, nil)", end, err)
	}
	if end, err := eng.Parse("all", "ab", 0); err != nil || end != NoMatch {
		t.Fatalf("got (%d, %v), want (NoMatch, nil)", end, err)
	}
}
