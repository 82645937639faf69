// Package packrat implements the memoizing PEG matcher: given a Grammar
// built from the element package, it drives a parse of a source string
// against a chosen goal production, recording every (index, goal) attempt
// in a memo table so that no production body runs twice at the same
// position. The engine is single-threaded and synchronous; a parse is a
// plain recursive call tree with no suspension points.
package packrat

import (
	"fmt"
	"io"

	"github.com/kanreki/pegrat/element"
	"github.com/kanreki/pegrat/errorx"
)

// NoMatch is the sentinel end index returned by a failed match or parse.
const NoMatch = element.NoMatch

const (
	outcomeNoMatch = -1
	outcomeInUse   = -2
)

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithIgnore sets the ignore set: productions consumed opportunistically
// before every named-goal or literal attempt, typically whitespace and
// comments. A re-entrancy guard keeps the ignore productions themselves
// from triggering the ignore policy.
func WithIgnore(names ...string) Option {
	return func(e *Engine) { e.ignore = append([]string(nil), names...) }
}

// WithDebug turns on a human-readable trace of every successful named
// match, written to w. Tracing is purely cosmetic and never affects what
// a grammar accepts.
func WithDebug(w io.Writer) Option {
	return func(e *Engine) { e.debug = true; e.trace = w }
}

// Engine owns a grammar, the source text of the parse currently in
// progress, and the memo table that parse fills in. The grammar and the
// goal-id assignment it produces are stable across parses; the memo table
// is reset at the start of every Parse call.
type Engine struct {
	grammar *Grammar
	ignore  []string
	debug   bool
	trace   io.Writer

	source string

	prodIDs map[string]int
	litIDs  map[*element.Literal]int
	nextID  int

	memo       []map[int]int
	foundOrder map[int][]string
	farthest   int
	ignoring   bool
}

// NewEngine builds an engine bound to grammar. The grammar is treated as
// immutable from this point on.
func NewEngine(grammar *Grammar, opts ...Option) *Engine {
	e := &Engine{
		grammar: grammar,
		prodIDs: map[string]int{},
		litIDs:  map[*element.Literal]int{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Source returns the text of the parse currently (or most recently) in
// progress.
func (e *Engine) Source() string {
	return e.source
}

// FarthestIndex returns the highest index any match attempt reached
// during the current parse, used to report where an invalid input
// diverged from the grammar.
func (e *Engine) FarthestIndex() int {
	return e.farthest
}

func (e *Engine) reset(source string) {
	e.source = source
	e.memo = make([]map[int]int, len(source)+1)
	e.foundOrder = map[int][]string{}
	e.farthest = 0
	e.ignoring = false
}

// Parse resets the memo table and attempts to match goal starting at
// start_index. On success it returns the final end index; on an ordinary
// parse miss it returns (NoMatch, nil) — the caller decides whether that
// is an error. A non-nil error reports a fatal grammar misuse such as
// left recursion or a reference to an undefined production.
func (e *Engine) Parse(goal, source string, start int) (end int, err error) {
	e.reset(source)
	defer func() {
		if r := recover(); r != nil {
			if gerr, ok := r.(error); ok {
				end, err = NoMatch, gerr
				return
			}
			panic(r)
		}
	}()
	got, ok := e.Match(goal, start)
	if !ok {
		return NoMatch, nil
	}
	return got, nil
}

// Match is the only way to invoke a named production. It applies the
// ignore policy, consults the memo table for (index, goal), and on a
// miss installs the in-use sentinel, runs the production body, and
// records the outcome.
func (e *Engine) Match(goal string, index int) (int, bool) {
	if index == NoMatch {
		return NoMatch, false
	}
	index = e.applyIgnore(index)

	id := e.prodGoalID(goal)
	if outcome, ok := e.lookup(index, id); ok {
		switch {
		case outcome == outcomeInUse:
			panic(&errorx.LeftRecursionError{Goal: goal, Index: index})
		case outcome == outcomeNoMatch:
			return NoMatch, false
		default:
			return outcome, true
		}
	}

	e.markFarthest(index)
	e.store(index, id, outcomeInUse)

	body, ok := e.grammar.Lookup(goal)
	if !ok {
		panic(&errorx.UndefinedProductionError{Name: goal})
	}

	end, matched := body.Match(e, index)
	if matched {
		e.store(index, id, end)
		e.recordFound(index, goal)
		e.traceMatch(goal, index, end)
	} else {
		e.store(index, id, outcomeNoMatch)
	}
	return end, matched
}

// MatchReference satisfies element.Matcher; it is the delegation point a
// Reference element uses, and is identical to Match.
func (e *Engine) MatchReference(goal string, index int) (int, bool) {
	return e.Match(goal, index)
}

// Allow is the non-failing variant of Match: it returns index unchanged
// when goal does not match, and the match's end index otherwise.
func (e *Engine) Allow(goal string, index int) int {
	if end, ok := e.Match(goal, index); ok {
		return end
	}
	return index
}

// Check is positive lookahead: index on success, NoMatch on failure.
func (e *Engine) Check(goal string, index int) (int, bool) {
	if _, ok := e.Match(goal, index); ok {
		return index, true
	}
	return NoMatch, false
}

// Disallow is negative lookahead: index on failure, NoMatch on success.
func (e *Engine) Disallow(goal string, index int) (int, bool) {
	if _, ok := e.Match(goal, index); ok {
		return NoMatch, false
	}
	return index, true
}

// Literal dispatches a literal match by value, memoized independently of
// named productions.
func (e *Engine) Literal(lit *element.Literal, index int) (int, bool) {
	return e.MatchLiteral(lit, index)
}

// MatchLiteral satisfies element.Matcher.
func (e *Engine) MatchLiteral(lit *element.Literal, index int) (int, bool) {
	if index == NoMatch {
		return NoMatch, false
	}
	index = e.applyIgnore(index)

	id := e.litGoalID(lit)
	if outcome, ok := e.lookup(index, id); ok {
		if outcome == outcomeNoMatch {
			return NoMatch, false
		}
		return outcome, true
	}

	e.markFarthest(index)
	end, matched := e.matchLiteralBody(lit, index)
	if matched {
		e.store(index, id, end)
	} else {
		e.store(index, id, outcomeNoMatch)
	}
	return end, matched
}

func (e *Engine) matchLiteralBody(lit *element.Literal, index int) (int, bool) {
	switch {
	case lit.IsRegex():
		if index > len(e.source) {
			return NoMatch, false
		}
		loc := lit.Regex.FindStringIndex(e.source[index:])
		if loc == nil || loc[0] != 0 {
			return NoMatch, false
		}
		return index + loc[1], true
	case lit.IsStr:
		end := index + len(lit.Str)
		if end > len(e.source) {
			return NoMatch, false
		}
		if e.source[index:end] != lit.Str {
			return NoMatch, false
		}
		return end, true
	default:
		panic(fmt.Errorf("packrat: literal %q is neither a string nor a regular expression", lit.Source))
	}
}

// EOF reports whether index is at or past the end of the source.
func (e *Engine) EOF(index int) bool {
	_, ok := e.MatchEOF(index)
	return ok
}

// MatchEOF satisfies element.Matcher.
func (e *Engine) MatchEOF(index int) (int, bool) {
	if index == NoMatch {
		return NoMatch, false
	}
	index = e.applyIgnore(index)
	e.markFarthest(index)
	if index >= len(e.source) {
		return index, true
	}
	return NoMatch, false
}

// applyIgnore consumes as much ignorable content as possible starting at
// index by repeatedly attempting each ignore production in sequence until
// a full pass makes no further progress. The re-entrancy flag keeps the
// ignore productions themselves from recursing into this method.
func (e *Engine) applyIgnore(index int) int {
	if e.ignoring || len(e.ignore) == 0 {
		return index
	}
	e.ignoring = true
	defer func() { e.ignoring = false }()

	cur := index
	for {
		progressed := false
		for _, name := range e.ignore {
			if end, ok := e.Match(name, cur); ok && end > cur {
				cur = end
				progressed = true
			}
		}
		if !progressed {
			return cur
		}
	}
}

func (e *Engine) prodGoalID(name string) int {
	if id, ok := e.prodIDs[name]; ok {
		return id
	}
	id := e.nextID
	e.nextID++
	e.prodIDs[name] = id
	return id
}

func (e *Engine) litGoalID(lit *element.Literal) int {
	if id, ok := e.litIDs[lit]; ok {
		return id
	}
	id := e.nextID
	e.nextID++
	e.litIDs[lit] = id
	return id
}

func (e *Engine) lookup(index, id int) (int, bool) {
	if index < 0 || index >= len(e.memo) {
		return 0, false
	}
	rec := e.memo[index]
	if rec == nil {
		return 0, false
	}
	v, ok := rec[id]
	return v, ok
}

func (e *Engine) store(index, id, outcome int) {
	if index < 0 || index >= len(e.memo) {
		return
	}
	if e.memo[index] == nil {
		e.memo[index] = map[int]int{}
	}
	e.memo[index][id] = outcome
}

func (e *Engine) markFarthest(index int) {
	if index > e.farthest {
		e.farthest = index
	}
}

func (e *Engine) recordFound(index int, name string) {
	order := e.foundOrder[index]
	for _, n := range order {
		if n == name {
			return
		}
	}
	e.foundOrder[index] = append(order, name)
}

// FoundAt returns the production names that successfully matched at
// index, outermost first. The AST builder walks this to reconstruct
// nesting; an outer production is always recorded after the inner ones
// its own body depended on, so reversing the recording order yields
// outermost-first.
func (e *Engine) FoundAt(index int) []string {
	order := e.foundOrder[index]
	out := make([]string, len(order))
	for i, n := range order {
		out[len(order)-1-i] = n
	}
	return out
}

// EndOf returns the memoized end index of a specific production attempted
// at index, without re-attempting the match. It is used by the AST
// builder once a parse has already populated the memo table.
func (e *Engine) EndOf(name string, index int) (int, bool) {
	id, ok := e.prodIDs[name]
	if !ok {
		return NoMatch, false
	}
	outcome, ok := e.lookup(index, id)
	if !ok || outcome < 0 {
		return NoMatch, false
	}
	return outcome, true
}

func (e *Engine) traceMatch(name string, start, end int) {
	if !e.debug || e.trace == nil {
		return
	}
	text := e.source[start:end]
	const max = 40
	if len(text) > max {
		text = text[:max] + "…"
	}
	fmt.Fprintf(e.trace, "%s @ [%d,%d): %q\n", name, start, end, text)
}
