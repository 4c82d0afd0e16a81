// Package registry maps language names, aliases and file extensions to the
// front ends built on oak, and detects the language of a file.
package registry

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/oak/pkg/config"
	"github.com/yaklabco/oak/pkg/engine"
	"github.com/yaklabco/oak/pkg/incremental"
)

// ErrUnknownLanguage is returned when no registered language matches.
var ErrUnknownLanguage = errors.New("unknown language")

// ErrDuplicateLanguage is returned when a name or alias is registered twice.
var ErrDuplicateLanguage = errors.New("language already registered")

// Settings carries the tunables a Factory applies to the front end it builds.
type Settings struct {
	Resync       incremental.ResyncOptions
	Incremental  bool
	NodeReuse    bool
	CapacityHint int
	Logger       *log.Logger
}

// DefaultSettings returns settings with incremental parsing fully enabled.
func DefaultSettings() Settings {
	return Settings{
		Resync:      incremental.DefaultResyncOptions(),
		Incremental: true,
		NodeReuse:   true,
	}
}

// SettingsFromConfig derives front end settings from a resolved configuration.
func SettingsFromConfig(cfg *config.Config, logger *log.Logger) Settings {
	if cfg == nil {
		s := DefaultSettings()
		s.Logger = logger
		return s
	}
	return Settings{
		Resync:       cfg.ResyncOptions(),
		Incremental:  cfg.IncrementalEnabled(),
		NodeReuse:    cfg.NodeReuseEnabled(),
		CapacityHint: cfg.Arena.CapacityHint,
		Logger:       logger,
	}
}

// Factory builds a front end.
type Factory func(Settings) engine.Frontend

// Entry describes one registered language.
type Entry struct {
	// Name is the canonical language name, e.g. "mini".
	Name string

	// Aliases are alternative names, matched case-insensitively. An alias
	// equal to a linguist language name lets content detection find it.
	Aliases []string

	// Extensions are file extensions including the leading dot.
	Extensions []string

	// Interpreters are shebang interpreter names that select this language.
	Interpreters []string

	// New builds the front end.
	New Factory
}

// Frontend builds the entry's front end.
func (e *Entry) Frontend(s Settings) engine.Frontend {
	return e.New(s)
}

// Registry holds language entries. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries []*Entry
	names   map[string]*Entry
	exts    map[string]*Entry
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{
		names: make(map[string]*Entry),
		exts:  make(map[string]*Entry),
	}
}

// Register adds a language. Names and aliases must be unique.
func (r *Registry) Register(e Entry) error {
	if e.Name == "" || e.New == nil {
		return fmt.Errorf("register language: name and factory are required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	keys := append([]string{e.Name}, e.Aliases...)
	for _, key := range keys {
		if _, ok := r.names[strings.ToLower(key)]; ok {
			return fmt.Errorf("register %q: %w: %s", e.Name, ErrDuplicateLanguage, key)
		}
	}

	entry := e
	r.entries = append(r.entries, &entry)
	for _, key := range keys {
		r.names[strings.ToLower(key)] = &entry
	}
	for _, ext := range e.Extensions {
		if _, ok := r.exts[strings.ToLower(ext)]; !ok {
			r.exts[strings.ToLower(ext)] = &entry
		}
	}
	return nil
}

// MustRegister is Register that panics on error.
func (r *Registry) MustRegister(e Entry) {
	if err := r.Register(e); err != nil {
		panic(err)
	}
}

// Lookup finds a language by name or alias.
func (r *Registry) Lookup(name string) (*Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.names[strings.ToLower(name)]
	return e, ok
}

// ByExtension finds a language by file extension.
func (r *Registry) ByExtension(ext string) (*Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.exts[strings.ToLower(ext)]
	return e, ok
}

// Entries returns the registered languages sorted by name.
func (r *Registry) Entries() []*Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := slices.Clone(r.entries)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Names returns the sorted canonical language names.
func (r *Registry) Names() []string {
	entries := r.Entries()
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names
}

// Extensions returns every file extension that selects a language: the
// registered ones plus those cfg maps to a known language, sorted.
func (r *Registry) Extensions(cfg *config.Config) []string {
	seen := make(map[string]struct{})
	for _, e := range r.Entries() {
		for _, ext := range e.Extensions {
			seen[strings.ToLower(ext)] = struct{}{}
		}
	}
	if cfg != nil {
		for name, lc := range cfg.Languages {
			if _, ok := r.Lookup(name); !ok {
				continue
			}
			for _, ext := range lc.Extensions {
				seen[strings.ToLower(ext)] = struct{}{}
			}
		}
	}

	exts := make([]string, 0, len(seen))
	for ext := range seen {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Infos describes the registered languages for configuration templates.
func (r *Registry) Infos() []config.LanguageInfo {
	entries := r.Entries()
	infos := make([]config.LanguageInfo, len(entries))
	for i, e := range entries {
		infos[i] = config.LanguageInfo{
			Name:       e.Name,
			Aliases:    slices.Clone(e.Aliases),
			Extensions: slices.Clone(e.Extensions),
		}
	}
	return infos
}

// Frontend builds the named language's front end.
func (r *Registry) Frontend(name string, s Settings) (engine.Frontend, error) {
	e, ok := r.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q (known: %s)", ErrUnknownLanguage, name, strings.Join(r.Names(), ", "))
	}
	return e.Frontend(s), nil
}
