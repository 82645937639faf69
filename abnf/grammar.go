// Package abnf compiles RFC 5234 ABNF grammar source, extended with the
// RFC 7405 %s/%i case-sensitivity prefixes, into a packrat.Grammar. The
// compiler's own grammar for ABNF source is itself built with
// packrat.Builder and run through a packrat.Engine: there is no
// hand-written lexer here, only the same element vocabulary every other
// grammar in this module is made of.
package abnf

import (
	"github.com/kanreki/pegrat/packrat"
)

// bootstrap returns the engine used to parse ABNF source text itself.
// Its productions mirror RFC 5234's own grammar, simplified where the
// RFC's line-folding rules would otherwise require a second pass: here a
// single "ws" ignore production swallows inline whitespace, comments and
// line breaks between tokens, and "contWsp" (line folding inside a
// definition) falls out of that for free.
func bootstrap() *packrat.Engine {
	b := packrat.NewBuilder()

	b.Define("ws", packrat.LitRegex(`(?:[ \t]|;[^\r\n]*|\r\n|\n)+`))

	b.Define("rulelist", packrat.Seq(packrat.Some(packrat.Ref("rule")), packrat.Eof()))

	b.Define("rule", packrat.Seq(
		packrat.Ref("rulename"),
		packrat.Lit("=/", "="),
		packrat.Ref("alternation"),
	))

	b.Define("rulename", packrat.LitRegex(`[A-Za-z][A-Za-z0-9\-]*`))

	b.Define("alternation", packrat.Seq(
		packrat.Ref("concatenation"),
		packrat.Many(packrat.Seq(packrat.Lit("/"), packrat.Ref("concatenation"))),
	))

	b.Define("concatenation", packrat.Some(packrat.Ref("repetition")))

	b.Define("repetition", packrat.Seq(
		packrat.Opt(packrat.Ref("repeat")),
		packrat.Ref("element"),
	))

	digit := packrat.LitRegex(`[0-9]`)
	b.Define("digit", digit)
	b.Define("repeat", packrat.Alt(
		packrat.Seq(packrat.Many(packrat.Ref("digit")), packrat.Lit("*"), packrat.Many(packrat.Ref("digit"))),
		packrat.Some(packrat.Ref("digit")),
	))

	b.Define("element", packrat.Alt(
		packrat.Ref("numlit"),
		packrat.Ref("casein"),
		packrat.Ref("casese"),
		packrat.Ref("charval"),
		packrat.Ref("group"),
		packrat.Ref("optgroup"),
		packrat.Ref("ref"),
	))

	b.Define("quoted", packrat.LitRegex(`"[^"]*"`))
	b.Define("charval", packrat.Ref("quoted"))
	b.Define("casein", packrat.Seq(packrat.Lit("%i"), packrat.Ref("quoted")))
	b.Define("casese", packrat.Seq(packrat.Lit("%s"), packrat.Ref("quoted")))

	// %x/%d/%b numeric literals: a base letter, one or more digit runs of
	// that base separated by "." (concatenation) or a single "-" pair
	// (an inclusive range). parseNumLit re-lexes the matched text rather
	// than rebuilding it from sub-nodes, since the three shapes share no
	// common sub-structure worth naming separately.
	b.Define("hexrun", packrat.LitRegex(`[0-9A-Fa-f]+`))
	b.Define("decrun", packrat.LitRegex(`[0-9]+`))
	b.Define("binrun", packrat.LitRegex(`[01]+`))
	numrun := packrat.Alt(packrat.Ref("hexrun"), packrat.Ref("decrun"), packrat.Ref("binrun"))
	b.Define("numrun", numrun)
	b.Define("numlit", packrat.Seq(
		packrat.Lit("%"),
		packrat.Lit("x", "d", "b"),
		packrat.Ref("numrun"),
		packrat.Opt(packrat.Alt(
			packrat.Some(packrat.Seq(packrat.Lit("."), packrat.Ref("numrun"))),
			packrat.Seq(packrat.Lit("-"), packrat.Ref("numrun")),
		)),
	))

	b.Define("group", packrat.Seq(packrat.Lit("("), packrat.Ref("alternation"), packrat.Lit(")")))
	b.Define("optgroup", packrat.Seq(packrat.Lit("["), packrat.Ref("alternation"), packrat.Lit("]")))
	// A rulename followed by "=" or "=/" starts the next rule, not a
	// reference inside the current rule's body.
	b.Define("ref", packrat.Seq(packrat.Ref("rulename"), packrat.Neg(packrat.Lit("=/", "="))))

	g, err := b.Grammar()
	if err != nil {
		// The bootstrap grammar is fixed at compile time; a construction
		// error here is a bug in this file, not in any ABNF source the
		// compiler is later given.
		panic(err)
	}
	return packrat.NewEngine(g, packrat.WithIgnore("ws"))
}
