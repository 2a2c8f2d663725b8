// Package language turns source text into the piece stream a REPL will
// accept. Each processor owns one language's escaping rules. The registry
// dispatches on a language identifier; an unknown identifier is not an
// error, the text falls through unmodified so the caller can still send it.
package language

import (
	"fmt"
	"sort"
	"strings"

	"github.com/timvw/replink/internal/model"
)

// Language identifies a source language known to the registry.
type Language string

// Python is the only language with a processor today. The registry keeps
// the dispatch open for more.
const Python Language = "python"

// ParseLanguage normalizes a user-supplied language identifier.
func ParseLanguage(s string) Language {
	return Language(strings.ToLower(strings.TrimSpace(s)))
}

// DefaultIPythonPauseMS is the settle delay between opening the IPython
// paste command and pasting the body.
const DefaultIPythonPauseMS = 100

// Config tunes escaping. The zero value is usable; DefaultConfig fills in
// the documented defaults.
type Config struct {
	// UseIPython marks the target REPL as IPython.
	UseIPython bool
	// UseCpaste selects the %cpaste envelope for multi-line IPython sends.
	// Only meaningful when UseIPython is set.
	UseCpaste bool
	// IPythonPauseMS is the delay after opening %cpaste, in milliseconds.
	// Zero selects DefaultIPythonPauseMS.
	IPythonPauseMS int
}

// DefaultConfig returns the documented escaping defaults.
func DefaultConfig() Config {
	return Config{IPythonPauseMS: DefaultIPythonPauseMS}
}

// Validate rejects configurations no processor can honor.
func (c Config) Validate() error {
	if c.IPythonPauseMS < 0 {
		return fmt.Errorf("ipython pause must be non-negative, got %d", c.IPythonPauseMS)
	}
	if c.UseCpaste && !c.UseIPython {
		return fmt.Errorf("cpaste requires an ipython target")
	}
	return nil
}

// Processor escapes one language's source text into pieces.
type Processor interface {
	// Language returns the identifier this processor is registered under.
	Language() Language
	// Escape transforms text into the piece sequence to deliver.
	Escape(text string, cfg Config) []model.Piece
}

// Registry holds the known processors.
type Registry struct {
	processors map[Language]Processor
}

// NewRegistry returns a registry with every built-in processor registered.
func NewRegistry() *Registry {
	r := &Registry{processors: make(map[Language]Processor)}
	r.register(PythonProcessor{})
	return r
}

func (r *Registry) register(p Processor) {
	r.processors[p.Language()] = p
}

// Known reports whether a processor is registered for lang.
func (r *Registry) Known(lang Language) bool {
	_, ok := r.processors[lang]
	return ok
}

// Languages returns the registered identifiers, sorted.
func (r *Registry) Languages() []Language {
	out := make([]Language, 0, len(r.processors))
	for lang := range r.processors {
		out = append(out, lang)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Escape runs the processor registered for lang. When no processor is
// registered the text comes back unmodified as a single piece and ok is
// false so the caller can warn.
func (r *Registry) Escape(lang Language, text string, cfg Config) (pieces []model.Piece, ok bool) {
	p, ok := r.processors[lang]
	if !ok {
		return []model.Piece{model.TextPiece(text)}, false
	}
	return p.Escape(text, cfg), true
}
