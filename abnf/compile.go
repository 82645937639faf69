package abnf

import (
	"strconv"
	"strings"

	"github.com/kanreki/pegrat/ast"
	"github.com/kanreki/pegrat/element"
	"github.com/kanreki/pegrat/errorx"
	"github.com/kanreki/pegrat/packrat"
)

// Compile lowers ABNF source text into a packrat.Grammar: every rule
// becomes a production under its normalized name, and every rule body
// becomes the element tree Seq/Alt/Opt/Many/Some would have built by
// hand. The caller decides which of the resulting production names (if
// any) to pass to packrat.WithIgnore when constructing an Engine over
// the result; ABNF itself carries no ignore-policy annotation.
func Compile(source string) (*packrat.Grammar, error) {
	boot := bootstrap()
	end, err := boot.Parse("rulelist", source, 0)
	if err != nil {
		return nil, err
	}
	if end != len(source) {
		return nil, &errorx.InvalidSourceError{Index: boot.FarthestIndex(), Near: near(source, boot.FarthestIndex())}
	}

	root := ast.Build(boot, "rulelist", end, ast.Options{Ignore: []string{"ws"}})

	g := packrat.NewGrammar()
	for _, ruleNode := range root.Children("rule") {
		name, body, incremental, err := lowerRule(ruleNode)
		if err != nil {
			return nil, err
		}
		if incremental {
			if err := g.Extend(name, body); err != nil {
				return nil, err
			}
			continue
		}
		if err := g.Define(name, body); err != nil {
			return nil, err
		}
	}
	return g, nil
}

func near(source string, index int) string {
	const span = 20
	end := index + span
	if end > len(source) {
		end = len(source)
	}
	if index > len(source) {
		index = len(source)
	}
	return source[index:end]
}

func lowerRule(rule *ast.Node) (name string, body *element.Element, incremental bool, err error) {
	rulenameNode := rule.FirstChildNamed("rulename")
	alternationNode := rule.FirstChildNamed("alternation")
	if rulenameNode == nil || alternationNode == nil {
		return "", nil, false, &errorx.GrammarError{Op: "abnf", Detail: "malformed rule: missing name or body"}
	}
	name = normalizeName(rulenameNode.Text())
	op := rule.Text()[rulenameNode.Hi-rule.Lo : alternationNode.Lo-rule.Lo]
	incremental = strings.Contains(op, "/")
	body, err = lowerAlternation(alternationNode)
	return name, body, incremental, err
}

func lowerAlternation(node *ast.Node) (*element.Element, error) {
	parts := node.Children("concatenation")
	children := make([]*element.Element, 0, len(parts))
	for _, p := range parts {
		c, err := lowerConcatenation(p)
		if err != nil {
			return nil, err
		}
		children = append(children, c)
	}
	return element.NewChoice(children...)
}

func lowerConcatenation(node *ast.Node) (*element.Element, error) {
	parts := node.Children("repetition")
	children := make([]*element.Element, 0, len(parts))
	for _, p := range parts {
		c, err := lowerRepetition(p)
		if err != nil {
			return nil, err
		}
		children = append(children, c)
	}
	return element.NewSequence(children...)
}

func lowerRepetition(node *ast.Node) (*element.Element, error) {
	elemNode := node.FirstChildNamed("element")
	if elemNode == nil {
		return nil, &errorx.GrammarError{Op: "abnf", Detail: "repetition has no element"}
	}
	child, err := lowerElement(elemNode)
	if err != nil {
		return nil, err
	}
	repeatNode := node.FirstChildNamed("repeat")
	if repeatNode == nil {
		return child, nil
	}
	min, max, err := parseRepeat(repeatNode.Text())
	if err != nil {
		return nil, err
	}
	return element.NewRepetition(child, min, max)
}

func parseRepeat(text string) (min, max int, err error) {
	star := strings.IndexByte(text, '*')
	if star < 0 {
		n, cerr := strconv.Atoi(text)
		if cerr != nil {
			return 0, 0, &errorx.GrammarError{Op: "abnf", Detail: "malformed repeat count " + strconv.Quote(text)}
		}
		return n, n, nil
	}
	before, after := text[:star], text[star+1:]
	if before == "" {
		min = 0
	} else if min, err = strconv.Atoi(before); err != nil {
		return 0, 0, &errorx.GrammarError{Op: "abnf", Detail: "malformed repeat lower bound " + strconv.Quote(before)}
	}
	if after == "" {
		max = element.Unbounded
	} else if max, err = strconv.Atoi(after); err != nil {
		return 0, 0, &errorx.GrammarError{Op: "abnf", Detail: "malformed repeat upper bound " + strconv.Quote(after)}
	}
	return min, max, nil
}

func lowerElement(node *ast.Node) (*element.Element, error) {
	inner := node.FirstChild
	if inner == nil {
		return nil, &errorx.GrammarError{Op: "abnf", Detail: "element has no recognizable body"}
	}
	switch inner.Name {
	case "numlit":
		return parseNumLit(inner.Text())
	case "casein":
		return element.NewLiteralCaseInsensitive(dequote(inner.Text()[2:]))
	case "casese":
		return element.NewLiteralString(dequote(inner.Text()[2:])), nil
	case "charval":
		return element.NewLiteralCaseInsensitive(dequote(inner.Text()))
	case "group":
		alt := inner.FirstChildNamed("alternation")
		if alt == nil {
			return nil, &errorx.GrammarError{Op: "abnf", Detail: "empty group"}
		}
		return lowerAlternation(alt)
	case "optgroup":
		alt := inner.FirstChildNamed("alternation")
		if alt == nil {
			return nil, &errorx.GrammarError{Op: "abnf", Detail: "empty optional group"}
		}
		body, err := lowerAlternation(alt)
		if err != nil {
			return nil, err
		}
		return element.NewRepetition(body, 0, 1)
	case "ref":
		return element.NewReference(normalizeName(inner.Text()))
	default:
		return nil, &errorx.GrammarError{Op: "abnf", Detail: "unrecognized element kind " + inner.Name}
	}
}

func dequote(quoted string) string {
	if len(quoted) >= 2 && quoted[0] == '"' && quoted[len(quoted)-1] == '"' {
		return quoted[1 : len(quoted)-1]
	}
	return quoted
}
