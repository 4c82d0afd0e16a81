package incremental

import (
	"sync"

	"github.com/yaklabco/oak/pkg/diag"
	"github.com/yaklabco/oak/pkg/syntax"
	"github.com/yaklabco/oak/pkg/text"
	"github.com/yaklabco/oak/pkg/tree"
)

// Generation is one complete parse result: the source it was built from,
// its token stream, and the green tree together with the arena that owns it.
type Generation struct {
	Source *text.Source
	Tokens []syntax.Token
	Tree   *tree.Node
	Arena  *tree.Arena
	Stats  Stats

	// LexDiagnostics are the lexer diagnostics for Tokens.
	LexDiagnostics []*diag.Error
}

// Stats describes how much of the previous generation a build reused.
type Stats struct {
	// TokensReused counts tokens taken from the previous stream.
	TokensReused int
	// TokensRelexed counts tokens produced by scanning.
	TokensRelexed int
	// RelexWindow is the scanned region in new coordinates.
	RelexWindow syntax.Span
	// FellBack is true when resynchronization failed and the lexer ran to the end.
	FellBack bool
	// NodesReused counts subtrees taken from the previous tree.
	NodesReused int
	// Arena holds allocation counters for the new arena.
	Arena tree.ArenaStats
}

// Cache carries the previous generation between parses of one document.
// A Cache is replaced wholesale by Commit; readers always observe a
// consistent generation. It is safe for concurrent use.
type Cache struct {
	mu           sync.RWMutex
	current      *Generation
	capacityHint int
}

// NewCache creates an empty cache. capacityHint sizes new arenas.
func NewCache(capacityHint int) *Cache {
	return &Cache{capacityHint: capacityHint}
}

// Current returns the committed generation, or nil.
func (c *Cache) Current() *Generation {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// IsEmpty reports whether nothing has been committed yet.
func (c *Cache) IsEmpty() bool {
	return c.Current() == nil
}

// Tokens returns the committed token stream, or nil.
func (c *Cache) Tokens() []syntax.Token {
	if g := c.Current(); g != nil {
		return g.Tokens
	}
	return nil
}

// LexDiagnostics returns the committed lexer diagnostics, or nil.
func (c *Cache) LexDiagnostics() []*diag.Error {
	if g := c.Current(); g != nil {
		return g.LexDiagnostics
	}
	return nil
}

// Tree returns the committed tree, or nil.
func (c *Cache) Tree() *tree.Node {
	if g := c.Current(); g != nil {
		return g.Tree
	}
	return nil
}

// Source returns the committed source, or nil.
func (c *Cache) Source() *text.Source {
	if g := c.Current(); g != nil {
		return g.Source
	}
	return nil
}

// NewArena returns a fresh arena for the next generation, sized from the
// committed one. The committed tree stays readable until Commit.
func (c *Cache) NewArena() *tree.Arena {
	hint := c.capacityHint
	if g := c.Current(); g != nil && g.Arena != nil {
		hint = max(hint, g.Arena.Len())
	}
	return tree.NewArena(hint)
}

// Commit replaces the committed generation.
func (c *Cache) Commit(g *Generation) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = g
}

// Reset drops the committed generation.
func (c *Cache) Reset() {
	c.Commit(nil)
}
