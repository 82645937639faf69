// Package element implements the PEG operator model: the tagged-variant
// grammar elements that a compiled grammar is built from. An Element knows
// only how to match itself against a Matcher at a given index; it has no
// notion of memoization or source ownership, which belong to the engine
// that drives it.
package element

import (
	"fmt"

	"github.com/coregx/coregex"

	"github.com/kanreki/pegrat/errorx"
)

// Unbounded is the Repetition max meaning "no upper bound".
const Unbounded = -1

// NoMatch is the sentinel end index returned by a failed match.
const NoMatch = -1

// Kind tags the variant an Element holds.
type Kind int

const (
	KindLiteral Kind = iota
	KindSequence
	KindChoice
	KindRepetition
	KindPositive
	KindNegative
	KindReference
	KindEOF
)

func (k Kind) String() string {
	switch k {
	case KindLiteral:
		return "literal"
	case KindSequence:
		return "sequence"
	case KindChoice:
		return "choice"
	case KindRepetition:
		return "repetition"
	case KindPositive:
		return "positive"
	case KindNegative:
		return "negative"
	case KindReference:
		return "reference"
	case KindEOF:
		return "eof"
	default:
		return "unknown"
	}
}

// Literal is a matchable leaf: either a fixed string compared byte for
// byte, or a regular expression that has been pre-anchored so that it can
// only match a prefix of the slice it is given.
type Literal struct {
	Str    string
	IsStr  bool
	Regex  *coregex.Regex
	// Source is the original, unanchored pattern text; kept for error
	// messages and for the ABNF round trip, never matched against.
	Source string
}

// IsRegex reports whether the literal is backed by a regular expression
// rather than a fixed string.
func (l *Literal) IsRegex() bool {
	return l.Regex != nil
}

// Matcher is implemented by the packrat engine. Elements call back into it
// so that named productions and literal attempts are memoized and so that
// the ignore policy and EOF check stay in one place.
type Matcher interface {
	MatchReference(name string, index int) (int, bool)
	MatchLiteral(lit *Literal, index int) (int, bool)
	MatchEOF(index int) (int, bool)
}

// Element is one node of a grammar's expression tree.
type Element struct {
	Kind Kind

	// KindLiteral
	Literal *Literal

	// KindSequence, KindChoice
	Children []*Element

	// KindRepetition, KindPositive, KindNegative
	Child *Element

	// KindRepetition
	Min, Max int

	// KindReference
	Name string
}

// NewLiteralString builds a case-sensitive fixed-string literal.
func NewLiteralString(s string) *Element {
	return &Element{Kind: KindLiteral, Literal: &Literal{Str: s, IsStr: true, Source: s}}
}

// NewLiteralRegex builds a literal backed by a regular expression. The
// pattern is anchored at construction time so every match attempt is
// implicitly relative to the current index.
func NewLiteralRegex(pattern string) (*Element, error) {
	re, err := coregex.Compile(anchor(pattern))
	if err != nil {
		return nil, &errorx.GrammarError{Op: "lit(regex)", Detail: err.Error()}
	}
	return &Element{Kind: KindLiteral, Literal: &Literal{Regex: re, Source: pattern}}, nil
}

// anchor wraps a pattern with a beginning-of-text anchor unless it is
// already anchored. It never adds a line anchor: ABNF and PEG literals are
// anchored to an index, not to a line.
func anchor(pattern string) string {
	if len(pattern) >= 2 && pattern[:2] == `\A` {
		return pattern
	}
	return `\A(?:` + pattern + `)`
}

// NewSequence requires every child to match in order; failure at any child
// fails the whole sequence with no partial commit.
func NewSequence(children ...*Element) (*Element, error) {
	if len(children) == 0 {
		return nil, &errorx.GrammarError{Op: "seq", Detail: "a sequence needs at least one child"}
	}
	for _, c := range children {
		if c == nil {
			return nil, &errorx.GrammarError{Op: "seq", Detail: "a sequence child is nil"}
		}
	}
	if len(children) == 1 {
		return children[0], nil
	}
	return &Element{Kind: KindSequence, Children: children}, nil
}

// NewChoice tries children in order and commits to the first that
// succeeds; PEG choice never backtracks across a committed alternative.
func NewChoice(children ...*Element) (*Element, error) {
	if len(children) == 0 {
		return nil, &errorx.GrammarError{Op: "alt", Detail: "a choice needs at least one child"}
	}
	for _, c := range children {
		if c == nil {
			return nil, &errorx.GrammarError{Op: "alt", Detail: "a choice child is nil"}
		}
	}
	if len(children) == 1 {
		return children[0], nil
	}
	return &Element{Kind: KindChoice, Children: children}, nil
}

// NewRepetition matches child greedily between min and max times.
// Max == Unbounded means no upper bound.
func NewRepetition(child *Element, min, max int) (*Element, error) {
	if child == nil {
		return nil, &errorx.GrammarError{Op: "rep", Detail: "a repetition needs a child"}
	}
	if min < 0 {
		return nil, &errorx.GrammarError{Op: "rep", Detail: "min must be >= 0"}
	}
	if max != Unbounded && max < min {
		return nil, &errorx.GrammarError{Op: "rep", Detail: fmt.Sprintf("max (%d) is less than min (%d)", max, min)}
	}
	return &Element{Kind: KindRepetition, Child: child, Min: min, Max: max}, nil
}

// NewPositive matches if child matches, consuming no input.
func NewPositive(child *Element) (*Element, error) {
	if child == nil {
		return nil, &errorx.GrammarError{Op: "pos", Detail: "a positive predicate needs a child"}
	}
	return &Element{Kind: KindPositive, Child: child}, nil
}

// NewNegative matches if child does not match, consuming no input.
func NewNegative(child *Element) (*Element, error) {
	if child == nil {
		return nil, &errorx.GrammarError{Op: "neg", Detail: "a negative predicate needs a child"}
	}
	return &Element{Kind: KindNegative, Child: child}, nil
}

// NewReference delegates matching of name to the engine so that recursive
// productions are memoized.
func NewReference(name string) (*Element, error) {
	if name == "" {
		return nil, &errorx.GrammarError{Op: "ref", Detail: "a reference needs a non-empty name"}
	}
	return &Element{Kind: KindReference, Name: name}, nil
}

// NewEOF matches the end of the source, consuming no input.
func NewEOF() *Element {
	return &Element{Kind: KindEOF}
}

// Match evaluates the element against m starting at index, returning the
// end index reached on success.
func (e *Element) Match(m Matcher, index int) (int, bool) {
	if index == NoMatch {
		return NoMatch, false
	}
	switch e.Kind {
	case KindLiteral:
		return m.MatchLiteral(e.Literal, index)
	case KindSequence:
		cur := index
		for _, c := range e.Children {
			end, ok := c.Match(m, cur)
			if !ok {
				return NoMatch, false
			}
			cur = end
		}
		return cur, true
	case KindChoice:
		for _, c := range e.Children {
			if end, ok := c.Match(m, index); ok {
				return end, true
			}
		}
		return NoMatch, false
	case KindRepetition:
		return e.matchRepetition(m, index)
	case KindPositive:
		if _, ok := e.Child.Match(m, index); ok {
			return index, true
		}
		return NoMatch, false
	case KindNegative:
		if _, ok := e.Child.Match(m, index); ok {
			return NoMatch, false
		}
		return index, true
	case KindReference:
		return m.MatchReference(e.Name, index)
	case KindEOF:
		return m.MatchEOF(index)
	default:
		panic(fmt.Sprintf("element: unhandled kind %v", e.Kind))
	}
}

func (e *Element) matchRepetition(m Matcher, index int) (int, bool) {
	count := 0
	cur := index
	for e.Max == Unbounded || count < e.Max {
		end, ok := e.Child.Match(m, cur)
		if !ok {
			break
		}
		if end == cur {
			// A successful match that consumed nothing would loop forever;
			// count it once and stop.
			count++
			break
		}
		cur = end
		count++
	}
	if count < e.Min {
		return NoMatch, false
	}
	return cur, true
}
