package element

import (
	"fmt"
	"regexp"

	"github.com/kanreki/pegrat/errorx"
)

// NewLiteralCaseInsensitive builds a literal that matches s ignoring case,
// the form ABNF bare double-quoted strings and "%i" strings both take.
func NewLiteralCaseInsensitive(s string) (*Element, error) {
	return NewLiteralRegex("(?i)" + regexp.QuoteMeta(s))
}

// NewLiteralCodepoint builds a single-character, case-sensitive literal
// for one Unicode code point, the form ABNF's "%x41" or "%d65" numeric
// literals take when they carry no range or concatenation suffix.
func NewLiteralCodepoint(r rune) *Element {
	return NewLiteralString(string(r))
}

// NewLiteralCodepointRange builds a literal matching exactly one
// character in the inclusive code point range [lo, hi], the form ABNF's
// "%x30-39" numeric ranges take.
func NewLiteralCodepointRange(lo, hi rune) (*Element, error) {
	if hi < lo {
		return nil, &errorx.GrammarError{Op: "lit(range)", Detail: fmt.Sprintf("character range %U-%U has hi < lo", lo, hi)}
	}
	return NewLiteralRegex(fmt.Sprintf(`[\x{%x}-\x{%x}]`, lo, hi))
}
