package tree

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/sjson"

	"github.com/yaklabco/oak/pkg/syntax"
)

// MarshalJSON renders the tree rooted at root as a JSON document:
//
//	{"kind":"Root","span":[0,10],"children":[{"kind":"Let","span":[0,3],"text":"let"}, ...]}
//
// Leaf text is included when src is non-nil.
func MarshalJSON(lang syntax.Language, root RedNode, src TextSource) (string, error) {
	return marshalElement(lang, RedElement{node: root, isNode: true}, root.Green.owner, src)
}

func marshalElement(lang syntax.Language, el RedElement, arena *Arena, src TextSource) (string, error) {
	span := el.Span()
	doc := `{}`
	var err error

	if doc, err = sjson.Set(doc, "kind", lang.KindName(el.Kind())); err != nil {
		return "", err
	}
	if doc, err = sjson.SetRaw(doc, "span", fmt.Sprintf("[%d,%d]", span.Start, span.End)); err != nil {
		return "", err
	}

	node, isNode := el.Node()
	if !isNode {
		leaf, _ := el.Leaf()
		if src != nil {
			if doc, err = sjson.Set(doc, "text", LeafText(arena, leaf, src)); err != nil {
				return "", err
			}
		}
		return doc, nil
	}

	if doc, err = sjson.SetRaw(doc, "children", `[]`); err != nil {
		return "", err
	}
	for child := range node.Children() {
		raw, err := marshalElement(lang, child, arena, src)
		if err != nil {
			return "", err
		}
		if doc, err = sjson.SetRaw(doc, "children.-1", raw); err != nil {
			return "", err
		}
	}
	return doc, nil
}

// Dump renders the tree as indented text, one element per line:
//
//	Root [0,10)
//	  LetStatement [0,10)
//	    Let [0,3) "let"
func Dump(lang syntax.Language, root RedNode, src TextSource) string {
	var b strings.Builder
	arena := root.Green.owner
	depth := 0

	_ = WalkWithContext(root, func(el RedElement) error {
		b.WriteString(strings.Repeat("  ", depth))
		b.WriteString(lang.KindName(el.Kind()))
		b.WriteByte(' ')
		b.WriteString(el.Span().String())
		if leaf, ok := el.Leaf(); ok && src != nil {
			b.WriteByte(' ')
			b.WriteString(strconv.Quote(LeafText(arena, leaf, src)))
		}
		b.WriteByte('\n')
		if el.IsNode() {
			depth++
		}
		return nil
	}, func(el RedElement) error {
		if el.IsNode() {
			depth--
		}
		return nil
	})

	return b.String()
}
