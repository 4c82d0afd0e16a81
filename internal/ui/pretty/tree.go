package pretty

import (
	"fmt"
	"strconv"

	ltree "github.com/charmbracelet/lipgloss/tree"

	"github.com/yaklabco/oak/pkg/syntax"
	"github.com/yaklabco/oak/pkg/tree"
)

// TreeOptions controls concrete syntax tree rendering.
type TreeOptions struct {
	// ShowTrivia includes whitespace and comment leaves.
	ShowTrivia bool
}

// FormatTree renders a green tree as an indented outline. Nodes show their
// kind and span; leaves also show their quoted text.
func (s *Styles) FormatTree(lang syntax.Language, root *tree.Node, src tree.TextSource, opts TreeOptions) string {
	red := tree.Root(root)

	t := ltree.Root(s.nodeLabel(lang, red)).
		Enumerator(ltree.RoundedEnumerator).
		EnumeratorStyle(s.Enumerator)

	s.addChildren(t, lang, red, src, opts)
	return t.String() + "\n"
}

func (s *Styles) addChildren(t *ltree.Tree, lang syntax.Language, n tree.RedNode, src tree.TextSource, opts TreeOptions) {
	arena := n.Green.Arena()

	for child := range n.Children() {
		if node, ok := child.Node(); ok {
			sub := ltree.Root(s.nodeLabel(lang, node))
			s.addChildren(sub, lang, node, src, opts)
			t.Child(sub)
			continue
		}

		leaf, _ := child.Leaf()
		if !opts.ShowTrivia && syntax.IsTrivia(lang, leaf.Kind) {
			continue
		}
		t.Child(s.leafLabel(lang, leaf, tree.LeafText(arena, leaf, src)))
	}
}

func (s *Styles) nodeLabel(lang syntax.Language, n tree.RedNode) string {
	style := s.Element
	if n.Kind() == lang.ErrorKind() {
		style = s.ErrorNode
	}
	return style.Render(lang.KindName(n.Kind())) + " " + s.Span.Render(n.Span().String())
}

func (s *Styles) leafLabel(lang syntax.Language, leaf tree.RedLeaf, text string) string {
	style := s.TokenStyle(lang.TokenRole(leaf.Kind))
	return fmt.Sprintf("%s %s %s",
		style.Render(lang.KindName(leaf.Kind)),
		s.Span.Render(leaf.Span.String()),
		s.Dim.Render(strconv.Quote(text)),
	)
}
