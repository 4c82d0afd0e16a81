package tree

import (
	"strings"

	"github.com/yaklabco/oak/pkg/syntax"
)

// PartKind says where a piece of a token's text comes from.
type PartKind uint8

// Provenance part kinds.
const (
	// PartSource copies a span of the source text.
	PartSource PartKind = iota
	// PartSynthesized is text that does not appear in the source.
	PartSynthesized
	// PartOpaque is a tag for tools; it contributes no text.
	PartOpaque
)

// ProvenancePart is one piece of a token's text.
type ProvenancePart struct {
	Kind PartKind
	Span syntax.Span
	Text string
}

// SourcePart refers to a span of the original source.
func SourcePart(span syntax.Span) ProvenancePart {
	return ProvenancePart{Kind: PartSource, Span: span}
}

// SynthesizedPart is literal text not present in the source.
func SynthesizedPart(text string) ProvenancePart {
	return ProvenancePart{Kind: PartSynthesized, Text: text}
}

// OpaqueTag attaches a tool-defined tag.
func OpaqueTag(tag string) ProvenancePart {
	return ProvenancePart{Kind: PartOpaque, Text: tag}
}

// Provenance records how a token's text was produced, for tokens that do not
// simply cover their own span of the source.
type Provenance struct {
	Parts []ProvenancePart
}

// NewProvenance builds a provenance record from parts.
func NewProvenance(parts ...ProvenancePart) Provenance {
	return Provenance{Parts: parts}
}

// TextSource is anything that can return the text of a span.
type TextSource interface {
	Slice(span syntax.Span) string
}

// Text materializes the token text described by p. Opaque tags contribute
// nothing.
func (p Provenance) Text(src TextSource) string {
	var b strings.Builder
	for _, part := range p.Parts {
		switch part.Kind {
		case PartSource:
			b.WriteString(src.Slice(part.Span))
		case PartSynthesized:
			b.WriteString(part.Text)
		case PartOpaque:
		}
	}
	return b.String()
}

// Tags returns the opaque tags in order.
func (p Provenance) Tags() []string {
	var tags []string
	for _, part := range p.Parts {
		if part.Kind == PartOpaque {
			tags = append(tags, part.Text)
		}
	}
	return tags
}

// Equal compares two provenance records by value.
func (p Provenance) Equal(other Provenance) bool {
	if len(p.Parts) != len(other.Parts) {
		return false
	}
	for i := range p.Parts {
		if p.Parts[i] != other.Parts[i] {
			return false
		}
	}
	return true
}
