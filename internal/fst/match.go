package fst

import (
	"sort"
	"strings"
)

// Emission is one tagged span produced by a scan: the matched rune span in
// the scanned text plus the tag in its bracketed wire form.
type Emission struct {
	Start int // rune offset, inclusive
	End   int // rune offset, exclusive
	Raw   string
}

// matcher holds per-attempt state for one rule applied at one position.
// Matching is a greedy backtracking walk over the pattern AST; alternatives
// are tried in declaration order and repetitions longest-first, so the first
// accepting path is the rule's preferred (maximal) match.
type matcher struct {
	g        *Grammar
	runes    []rune
	capDepth int
	buf      []rune
	fields   []fieldVal
}

type fieldVal struct {
	key string
	val string
}

type cont func(pos int) bool

// matchRule applies rule r at rune position pos and returns the end of its
// preferred match plus the collected payload fields.
func (g *Grammar) matchRule(r *Rule, runes []rune, pos int) (end int, fields []fieldVal, ok bool) {
	m := &matcher{g: g, runes: runes}
	accepted := -1
	m.match(r.Pat, pos, func(p int) bool {
		accepted = p
		return true
	})
	if accepted < 0 {
		return 0, nil, false
	}
	return accepted, m.fields, true
}

func (m *matcher) match(p Pattern, pos int, k cont) bool {
	switch n := p.(type) {
	case LitNode:
		return m.matchLit(n.S, pos, k)

	case SeqNode:
		return m.matchSeq(n.Subs, pos, k)

	case AltNode:
		for _, sub := range n.Subs {
			if m.match(sub, pos, k) {
				return true
			}
		}
		return false

	case OptNode:
		if m.match(n.Sub, pos, k) {
			return true
		}
		return k(pos)

	case RepNode:
		return m.matchRep(n, 0, pos, k)

	case DigitsNode:
		return m.matchDigits(n, pos, k)

	case LexNode:
		return m.matchLex(n.Name, pos, k)

	case CapNode:
		return m.matchCap(n, pos, k)

	case OutNode:
		m.fields = append(m.fields, fieldVal{n.Field, n.Value})
		if k(pos) {
			return true
		}
		m.fields = m.fields[:len(m.fields)-1]
		return false

	case RefNode:
		// refs are inlined at compile time; an unresolved ref never matches
		return false
	}
	return false
}

func (m *matcher) matchLit(s string, pos int, k cont) bool {
	lit := []rune(s)
	if pos+len(lit) > len(m.runes) {
		return false
	}
	for i, r := range lit {
		if m.runes[pos+i] != r {
			return false
		}
	}
	return m.consume(lit, string(lit), pos+len(lit), k)
}

func (m *matcher) matchSeq(subs []Pattern, pos int, k cont) bool {
	if len(subs) == 0 {
		return k(pos)
	}
	return m.match(subs[0], pos, func(p int) bool {
		return m.matchSeq(subs[1:], p, k)
	})
}

func (m *matcher) matchRep(n RepNode, count, pos int, k cont) bool {
	if count < n.Max {
		// greedy: try one more repetition first
		if m.match(n.Sub, pos, func(p int) bool {
			if p == pos {
				// zero-width sub-pattern; stop to guarantee progress
				return false
			}
			return m.matchRep(n, count+1, p, k)
		}) {
			return true
		}
	}
	if count >= n.Min {
		return k(pos)
	}
	return false
}

func (m *matcher) matchDigits(n DigitsNode, pos int, k cont) bool {
	run := 0
	for pos+run < len(m.runes) && run < n.Max && isASCIIDigit(m.runes[pos+run]) {
		run++
	}
	for l := run; l >= n.Min; l-- {
		seg := m.runes[pos : pos+l]
		if m.consume(seg, string(seg), pos+l, k) {
			return true
		}
	}
	return false
}

func (m *matcher) matchLex(name string, pos int, k cont) bool {
	idx := m.g.lex[name]
	if idx == nil || pos >= len(m.runes) {
		return false
	}
	for _, e := range idx.byFirst[m.runes[pos]] {
		if pos+len(e.surface) > len(m.runes) {
			continue
		}
		match := true
		for i, r := range e.surface {
			if m.runes[pos+i] != r {
				match = false
				break
			}
		}
		if !match {
			continue
		}
		if m.consume(e.surface, e.value, pos+len(e.surface), k) {
			return true
		}
	}
	return false
}

// consume advances past matched runes, appending emit to the active capture
// buffer (surface for literals and digits, canonical value for lexicons),
// then continues; the buffer is unwound if the continuation fails.
func (m *matcher) consume(_ []rune, emit string, end int, k cont) bool {
	if m.capDepth == 0 {
		return k(end)
	}
	mark := len(m.buf)
	m.buf = append(m.buf, []rune(emit)...)
	if k(end) {
		return true
	}
	m.buf = m.buf[:mark]
	return false
}

func (m *matcher) matchCap(n CapNode, pos int, k cont) bool {
	start := len(m.buf)
	m.capDepth++
	ok := m.match(n.Sub, pos, func(end int) bool {
		m.capDepth--
		val := string(m.buf[start:])
		m.buf = m.buf[:start]
		m.fields = append(m.fields, fieldVal{n.Field, val})
		if k(end) {
			return true
		}
		m.fields = m.fields[:len(m.fields)-1]
		m.buf = append(m.buf, []rune(val)...)
		m.capDepth++
		return false
	})
	if !ok {
		m.capDepth--
		m.buf = m.buf[:start]
	}
	return ok
}

// Scan applies the grammar to text with a single leftmost pass. At each
// position every rule is tried; the winning candidate is the longest match,
// ties broken by lowest weight, then rule order. A winner locks its span and
// scanning resumes after it, so every disjoint expression in the utterance
// is recovered. Word-internal matches are rejected for ASCII words.
func (g *Grammar) Scan(text string) []Emission {
	runes := []rune(text)
	var out []Emission

	for i := 0; i < len(runes); {
		bestEnd, bestRule := -1, -1
		var bestFields []fieldVal

		for ri := range g.Rules {
			r := &g.Rules[ri]
			end, fields, ok := g.matchRule(r, runes, i)
			if !ok || end <= i {
				continue
			}
			if violatesWordBoundary(runes, i, end) {
				continue
			}
			if end > bestEnd ||
				(end == bestEnd && r.Weight < g.Rules[bestRule].Weight) {
				bestEnd, bestRule, bestFields = end, ri, fields
			}
		}

		if bestRule < 0 {
			i++
			continue
		}
		out = append(out, Emission{
			Start: i,
			End:   bestEnd,
			Raw:   formatTag(g.Rules[bestRule].Family, bestFields),
		})
		i = bestEnd
	}
	return out
}

// violatesWordBoundary rejects matches that start or end inside an ASCII
// word or digit run ("to" inside "stop", a year inside an ID). Han text has
// no word separators, so the check is ASCII-only.
func violatesWordBoundary(runes []rune, start, end int) bool {
	if start > 0 && isASCIIWord(runes[start-1]) && isASCIIWord(runes[start]) {
		return true
	}
	if end < len(runes) && isASCIIWord(runes[end-1]) && isASCIIWord(runes[end]) {
		return true
	}
	return false
}

func isASCIIDigit(r rune) bool { return r >= '0' && r <= '9' }

func isASCIIWord(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || isASCIIDigit(r)
}

// formatTag serializes a matched rule into the bracketed wire form,
// e.g. "[REL offset=1 unit=day]". Later duplicate fields win, matching the
// last-assignment semantics of the matcher.
func formatTag(family string, fields []fieldVal) string {
	var b strings.Builder
	b.WriteByte('[')
	b.WriteString(family)

	merged := make(map[string]string, len(fields))
	order := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, seen := merged[f.key]; !seen {
			order = append(order, f.key)
		}
		merged[f.key] = f.val
	}
	// stable field order keeps the wire form canonical for tests and hashing
	sort.Strings(order)
	for _, key := range order {
		b.WriteByte(' ')
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(merged[key])
	}
	b.WriteByte(']')
	return b.String()
}
