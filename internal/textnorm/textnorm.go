// Package textnorm normalizes raw utterance text before tagging.
//
// Normalization keeps a rune-level index map back to the source text so
// downstream consumers can report spans in the original string.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/width"

	"github.com/y00281951/fst-time-nlu/data"
)

// Text is a normalized utterance plus the mapping back to the source runes.
type Text struct {
	// Norm is the normalized text.
	Norm string
	// Runes is Norm decoded once, shared with the tagger.
	Runes []rune
	// Map[i] is the source rune index that produced Runes[i].
	Map []int
}

// Options selects the per-language normalization steps.
type Options struct {
	// Lowercase folds ASCII and Unicode upper case (English path).
	Lowercase bool
	// TraditionalToSimple folds traditional Chinese characters (Chinese path).
	TraditionalToSimple bool
}

// Normalize applies, in order: fullwidth→halfwidth folding, case folding,
// traditional→simplified folding, and whitespace collapsing. The function is
// pure and total; any input yields a valid Text.
func Normalize(s string, opts Options) Text {
	src := []rune(s)
	out := make([]rune, 0, len(src))
	idx := make([]int, 0, len(src))

	var t2s map[rune]rune
	if opts.TraditionalToSimple {
		t2s = data.TradToSimp()
	}

	pendingSpace := false
	for i, r := range src {
		r = foldWidth(r)
		if opts.Lowercase {
			r = unicode.ToLower(r)
		}
		if t2s != nil {
			if simp, ok := t2s[r]; ok {
				r = simp
			}
		}
		if unicode.IsSpace(r) {
			// 连续空白折叠为单个空格，首尾空白丢弃
			if len(out) > 0 {
				pendingSpace = true
			}
			continue
		}
		if pendingSpace {
			out = append(out, ' ')
			// the space maps to the rune before it; close enough for spans
			idx = append(idx, i-1)
			pendingSpace = false
		}
		out = append(out, r)
		idx = append(idx, i)
	}

	return Text{Norm: string(out), Runes: out, Map: idx}
}

// foldWidth maps a fullwidth rune to its halfwidth form, leaving
// everything else untouched.
func foldWidth(r rune) rune {
	p := width.LookupRune(r)
	if p.Kind() == width.EastAsianFullwidth || p.Kind() == width.EastAsianWide {
		if n := p.Narrow(); n != 0 {
			return n
		}
	}
	return r
}

// SourceSpan maps a [start,end) rune span in the normalized text back to a
// rune span in the source text. Out-of-bounds inputs are clamped.
func (t Text) SourceSpan(start, end int) (int, int) {
	if len(t.Map) == 0 {
		return 0, 0
	}
	if start < 0 {
		start = 0
	}
	if end > len(t.Map) {
		end = len(t.Map)
	}
	if start >= end {
		return 0, 0
	}
	return t.Map[start], t.Map[end-1] + 1
}

// IsBlank reports whether the normalized text contains no visible content.
func (t Text) IsBlank() bool {
	return strings.TrimSpace(t.Norm) == ""
}
