// Package ast reconstructs a tree of named nodes from a packrat engine's
// memo table after a successful parse. It depends on engine-internal
// bookkeeping (the per-index found_order) and so is deliberately kept
// separate from the engine itself, mirroring how a parsing table and its
// driver stay in separate packages upstream.
package ast

import (
	"sort"
	"strings"
)

// Source is the minimal view of the parsed text and its memo table the
// builder needs. *packrat.Engine satisfies it after a successful Parse.
type Source interface {
	Source() string
	FoundAt(index int) []string
	EndOf(name string, index int) (int, bool)
}

// Options configures tree construction.
type Options struct {
	// Ignore lists production names that must not appear as nodes in the
	// built tree. Their matched ranges are skipped over, not replaced by
	// empty placeholders.
	Ignore []string
}

func (o Options) ignoreSet() map[string]bool {
	set := make(map[string]bool, len(o.Ignore))
	for _, n := range o.Ignore {
		set[n] = true
	}
	return set
}

// Node is one entry of the AST: a production name and the half-open
// source range it covers.
type Node struct {
	Name string
	Lo   int
	Hi   int

	Parent      *Node
	FirstChild  *Node
	NextSibling *Node

	source *string

	// ignoredRanges lists the [lo,hi) spans directly under this node that
	// an ignored production consumed; Stripped subtracts them.
	ignoredRanges [][2]int
}

// Build walks src's memo table starting at index 0 and returns the root
// node, named root, covering [0, end).
func Build(src Source, root string, end int, opts Options) *Node {
	ignore := opts.ignoreSet()
	r := &Node{Name: root, Lo: 0, Hi: end, source: sourcePtr(src)}
	buildChildren(src, r, 0, end, ignore, map[string]bool{root: true})
	return r
}

func sourcePtr(src Source) *string {
	s := src.Source()
	return &s
}

// buildChildren scans [lo, hi) for the outermost non-ignored production
// matched at each position, attaches it as a child of parent, and
// recurses into the range strictly inside it for grandchildren.
//
// exclude names productions already claimed by an ancestor at lo itself:
// several productions in a grammar can be pure pass-throughs (a
// production whose body is a single reference, or a choice that picks
// exactly one alternative) and so share the exact same [lo, hi) span as
// the child just attached. Without this, the first scan inside that
// child's own span would just pick the same outermost name again and
// recurse forever; exclude lets each such wrapper peel off one layer.
func buildChildren(src Source, parent *Node, lo, hi int, ignore map[string]bool, exclude map[string]bool) {
	cur := lo
	for cur < hi {
		var ex map[string]bool
		if cur == lo {
			ex = exclude
		}
		name, end, ok := firstEligible(src, cur, ignore, ex)
		if !ok {
			// Nothing eligible matched here; an ignored production may
			// still have matched and must be skipped without becoming a
			// node, or nothing matched at all and we advance by one.
			if iname, iend, iok := firstAny(src, cur); iok && ignore[iname] {
				parent.ignoredRanges = append(parent.ignoredRanges, [2]int{cur, iend})
				cur = iend
				continue
			}
			cur++
			continue
		}
		child := &Node{Name: name, Lo: cur, Hi: end, Parent: parent, source: parent.source}
		attach(parent, child)
		childExclude := map[string]bool{name: true}
		if cur == lo {
			for n := range exclude {
				childExclude[n] = true
			}
		}
		buildChildren(src, child, cur, end, ignore, childExclude)
		cur = end
	}
}

func firstEligible(src Source, index int, ignore, exclude map[string]bool) (string, int, bool) {
	for _, name := range src.FoundAt(index) {
		if ignore[name] || exclude[name] {
			continue
		}
		end, ok := src.EndOf(name, index)
		if ok {
			return name, end, true
		}
	}
	return "", 0, false
}

func firstAny(src Source, index int) (string, int, bool) {
	for _, name := range src.FoundAt(index) {
		end, ok := src.EndOf(name, index)
		if ok {
			return name, end, true
		}
	}
	return "", 0, false
}

func attach(parent, child *Node) {
	if parent.FirstChild == nil {
		parent.FirstChild = child
		return
	}
	last := parent.FirstChild
	for last.NextSibling != nil {
		last = last.NextSibling
	}
	last.NextSibling = child
}

// Children returns the node's direct children, optionally filtered to
// those with the given name. An empty name returns all children.
func (n *Node) Children(name string) []*Node {
	var out []*Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if name == "" || c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// CountChildren counts the node's direct children with the given name.
func (n *Node) CountChildren(name string) int {
	count := 0
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Name == name {
			count++
		}
	}
	return count
}

// FirstChildNamed returns the first direct child with the given name, or nil.
// It does not search grandchildren: this is shallow, child-level lookup.
func (n *Node) FirstChildNamed(name string) *Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// LastChild returns the node's last direct child, or nil.
func (n *Node) LastChild() *Node {
	var last *Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		last = c
	}
	return last
}

// Depth returns the number of ancestors of n, counting the root; the root
// itself has depth 0.
func (n *Node) Depth() int {
	d := 0
	for p := n.Parent; p != nil; p = p.Parent {
		d++
	}
	return d
}

// Len returns the number of characters the node's range covers.
func (n *Node) Len() int {
	return n.Hi - n.Lo
}

// Text returns the node's raw source slice.
func (n *Node) Text() string {
	if n.source == nil {
		return ""
	}
	return (*n.source)[n.Lo:n.Hi]
}

// Stripped returns the node's source slice with every ignored descendant
// range removed, recursively.
func (n *Node) Stripped() string {
	gaps := n.collectIgnoredRanges(nil)
	sort.Slice(gaps, func(i, j int) bool { return gaps[i][0] < gaps[j][0] })

	var b strings.Builder
	cur := n.Lo
	text := n.Text()
	base := n.Lo
	for _, g := range gaps {
		if g[0] < cur || g[0] >= n.Hi {
			continue
		}
		b.WriteString(text[cur-base : g[0]-base])
		cur = g[1]
	}
	if cur < n.Hi {
		b.WriteString(text[cur-base:])
	}
	return b.String()
}

func (n *Node) collectIgnoredRanges(acc [][2]int) [][2]int {
	acc = append(acc, n.ignoredRanges...)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		acc = c.collectIgnoredRanges(acc)
	}
	return acc
}
