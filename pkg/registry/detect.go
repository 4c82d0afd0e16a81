package registry

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-enry/go-enry/v2"

	"github.com/yaklabco/oak/pkg/config"
)

// ErrBinaryContent is returned when detection is asked about binary data.
var ErrBinaryContent = errors.New("binary content")

// Detection reports which language was chosen and why.
type Detection struct {
	Entry *Entry

	// Method is one of "forced", "config", "extension", "shebang",
	// "pattern" or "enry".
	Method string
}

// Detect picks the language for a file. cfg may be nil. The order is:
// a forced language, configured extensions, registered extensions, the
// shebang line, content patterns, and finally linguist detection via enry.
func (r *Registry) Detect(path string, content []byte, cfg *config.Config) (Detection, error) {
	if cfg != nil && cfg.Language != "" {
		e, ok := r.Lookup(cfg.Language)
		if !ok {
			return Detection{}, fmt.Errorf("%w: %q", ErrUnknownLanguage, cfg.Language)
		}
		return Detection{Entry: e, Method: "forced"}, nil
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext != "" {
		if e := r.byConfiguredExtension(ext, cfg); e != nil {
			return Detection{Entry: e, Method: "config"}, nil
		}
		if e, ok := r.ByExtension(ext); ok {
			return Detection{Entry: e, Method: "extension"}, nil
		}
	}

	if enry.IsBinary(content) {
		return Detection{}, fmt.Errorf("%s: %w", path, ErrBinaryContent)
	}

	if e := r.byShebang(content); e != nil {
		return Detection{Entry: e, Method: "shebang"}, nil
	}

	if e := r.byPattern(content); e != nil {
		return Detection{Entry: e, Method: "pattern"}, nil
	}

	if lang := enry.GetLanguage(filepath.Base(path), content); lang != "" {
		if e, ok := r.Lookup(lang); ok {
			return Detection{Entry: e, Method: "enry"}, nil
		}
	}

	return Detection{}, fmt.Errorf("%w: cannot detect language of %s", ErrUnknownLanguage, path)
}

func (r *Registry) byConfiguredExtension(ext string, cfg *config.Config) *Entry {
	if cfg == nil {
		return nil
	}
	for name, lc := range cfg.Languages {
		for _, candidate := range lc.Extensions {
			if strings.EqualFold(candidate, ext) {
				if e, ok := r.Lookup(name); ok {
					return e
				}
			}
		}
	}
	return nil
}

// byShebang matches the interpreter on a "#!" line against registered
// interpreters, then against linguist's shebang table.
func (r *Registry) byShebang(content []byte) *Entry {
	if !bytes.HasPrefix(content, []byte("#!")) {
		return nil
	}

	if interp := interpreter(content); interp != "" {
		for _, e := range r.Entries() {
			for _, name := range e.Interpreters {
				if name == interp {
					return e
				}
			}
		}
	}

	if lang, safe := enry.GetLanguageByShebang(content); safe {
		if e, ok := r.Lookup(lang); ok {
			return e
		}
	}
	return nil
}

// interpreter extracts the interpreter name from a shebang line, looking
// through /usr/bin/env.
func interpreter(content []byte) string {
	line, _, _ := bytes.Cut(content[2:], []byte("\n"))
	fields := strings.Fields(string(line))
	if len(fields) == 0 {
		return ""
	}

	name := filepath.Base(fields[0])
	if name == "env" {
		for _, f := range fields[1:] {
			if !strings.HasPrefix(f, "-") {
				return filepath.Base(f)
			}
		}
		return ""
	}
	return name
}

// byPattern recognizes mini source by its leading statement.
func (r *Registry) byPattern(content []byte) *Entry {
	trimmed := bytes.TrimSpace(content)
	if bytes.HasPrefix(trimmed, []byte("let ")) && bytes.Contains(trimmed, []byte(";")) {
		if e, ok := r.Lookup("mini"); ok {
			return e
		}
	}
	return nil
}
