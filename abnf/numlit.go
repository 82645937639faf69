package abnf

import (
	"strconv"
	"strings"

	"github.com/kanreki/pegrat/element"
	"github.com/kanreki/pegrat/errorx"
)

// parseNumLit lowers the matched text of a %x/%d/%b numeric literal. The
// three shapes RFC 5234 allows after the base letter are a single value
// (one code point), a "-"-joined pair (an inclusive range, exactly two
// values), or a "."-joined run (concatenation of fixed code points into a
// multi-character string). A literal can only be one of these, so the
// text is re-lexed directly rather than threaded through as sub-nodes.
func parseNumLit(text string) (*element.Element, error) {
	if len(text) < 3 || text[0] != '%' {
		return nil, &errorx.UnsupportedNumericLiteralError{Text: text}
	}
	var base int
	switch text[1] {
	case 'x', 'X':
		base = 16
	case 'd', 'D':
		base = 10
	case 'b', 'B':
		base = 2
	default:
		return nil, &errorx.UnsupportedNumericLiteralError{Text: text}
	}
	rest := text[2:]

	if idx := strings.IndexByte(rest, '-'); idx >= 0 {
		lo, err := strconv.ParseInt(rest[:idx], base, 32)
		if err != nil {
			return nil, &errorx.UnsupportedNumericLiteralError{Text: text}
		}
		hi, err := strconv.ParseInt(rest[idx+1:], base, 32)
		if err != nil {
			return nil, &errorx.UnsupportedNumericLiteralError{Text: text}
		}
		return element.NewLiteralCodepointRange(rune(lo), rune(hi))
	}

	parts := strings.Split(rest, ".")
	var b strings.Builder
	for _, p := range parts {
		v, err := strconv.ParseInt(p, base, 32)
		if err != nil {
			return nil, &errorx.UnsupportedNumericLiteralError{Text: text}
		}
		b.WriteRune(rune(v))
	}
	return element.NewLiteralString(b.String()), nil
}
