// Package extractor is the public API: it wires the preprocessing, tagging,
// postprocessing and resolution pipeline behind a single Extract call.
//
// An Extractor is immutable after New and safe for concurrent use; Extract
// is reentrant, performs no I/O, and never fails: unrecognized or malformed
// input yields an empty result list with query tag "none".
package extractor

import (
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"

	"github.com/y00281951/fst-time-nlu/internal/fst"
	"github.com/y00281951/fst-time-nlu/internal/grammar"
	"github.com/y00281951/fst-time-nlu/internal/postprocess"
	"github.com/y00281951/fst-time-nlu/internal/resolve"
	"github.com/y00281951/fst-time-nlu/internal/textnorm"
)

// Language selects the grammar to load.
type Language string

const (
	Chinese Language = "chinese"
	English Language = "english"
)

// Sentinel errors for construction and input validation.
var (
	// ErrUnknownLanguage rejects a language outside {chinese, english}.
	ErrUnknownLanguage = errors.New("extractor: unknown language")
	// ErrGrammarLoad wraps a failed grammar compilation or cache load.
	ErrGrammarLoad = errors.New("extractor: grammar load failure")
	// ErrInvalidBaseTime rejects a malformed base_time string.
	ErrInvalidBaseTime = errors.New("extractor: invalid base time")
)

type options struct {
	cacheDir  string
	overwrite bool
}

// Option configures New.
type Option func(*options)

// WithCacheDir sets the directory for the compiled grammar artifact.
// Without it the grammar is compiled in memory on every construction.
func WithCacheDir(dir string) Option {
	return func(o *options) { o.cacheDir = dir }
}

// WithOverwriteCache forces recompilation even when a cached artifact
// matches the current rule sources.
func WithOverwriteCache(overwrite bool) Option {
	return func(o *options) { o.overwrite = overwrite }
}

// Stats are the extractor's lifetime counters, updated atomically.
type Stats struct {
	// Extractions counts Extract calls.
	Extractions uint64
	// Matched counts Extract calls that produced at least one result.
	Matched uint64
}

// Extractor recognizes natural-language time expressions for one language.
type Extractor struct {
	lang    Language
	grammar *fst.Grammar
	tables  *resolve.Tables

	extractions atomic.Uint64
	matched     atomic.Uint64
}

// New compiles or loads the grammar for the language. Construction is the
// only blocking step; concurrent calls for the same cache coalesce.
func New(lang Language, opts ...Option) (*Extractor, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var rs *fst.RuleSet
	switch lang {
	case Chinese:
		rs = grammar.Chinese()
	case English:
		rs = grammar.English()
	default:
		return nil, errors.Wrapf(ErrUnknownLanguage, "%q", lang)
	}

	g, err := fst.LoadOrCompile(o.cacheDir, string(lang), rs, o.overwrite)
	if err != nil {
		return nil, errors.Wrap(ErrGrammarLoad, err.Error())
	}
	return &Extractor{lang: lang, grammar: g, tables: resolve.NewTables()}, nil
}

// Language returns the extractor's language.
func (e *Extractor) Language() Language { return e.lang }

// Extract recognizes time expressions in text relative to base. A zero base
// means the current wall clock in UTC. The returned results are points or
// [start,end] intervals; the query tag classifies the dominant expression.
func (e *Extractor) Extract(text string, base time.Time) ([]resolve.Result, resolve.QueryTag) {
	e.extractions.Add(1)
	if base.IsZero() {
		base = time.Now().UTC()
	}
	base = base.UTC().Truncate(time.Second)

	norm := textnorm.Normalize(text, textnorm.Options{
		Lowercase:           e.lang == English,
		TraditionalToSimple: e.lang == Chinese,
	})
	if norm.IsBlank() {
		return nil, resolve.QueryNone
	}

	emissions := e.grammar.Scan(norm.Norm)
	tags := postprocess.Process(emissions, norm)
	if len(tags) == 0 {
		return nil, resolve.QueryNone
	}
	results, qt := resolve.Merge(tags, base, e.tables)
	if len(results) > 0 {
		e.matched.Add(1)
	}
	slog.Debug("extract", "language", e.lang, "tags", len(tags), "results", len(results), "query_tag", qt)
	return results, qt
}

// Stats returns a snapshot of the lifetime counters.
func (e *Extractor) Stats() Stats {
	return Stats{
		Extractions: e.extractions.Load(),
		Matched:     e.matched.Load(),
	}
}

// ExtractISO is the string-surface variant used by the CLI and the HTTP
// shell: the base is an ISO-8601 UTC instant ("" means now), and results
// come back in the public JSON shape (instant strings or [start,end] pairs).
func (e *Extractor) ExtractISO(text, baseISO string) ([]any, string, error) {
	var base time.Time
	if baseISO != "" {
		var err error
		base, err = time.Parse(resolve.InstantLayout, baseISO)
		if err != nil {
			if base, err = time.Parse(time.RFC3339, baseISO); err != nil {
				return nil, "", errors.Wrapf(ErrInvalidBaseTime, "%q", baseISO)
			}
		}
	}
	results, qt := e.Extract(text, base)
	return resolve.Encode(results), string(qt), nil
}
