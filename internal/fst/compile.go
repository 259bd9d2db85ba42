package fst

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"sort"

	"github.com/pkg/errors"
)

// Grammar is a compiled, immutable rule set. It is safe for concurrent use
// after Compile (or artifact load) returns.
type Grammar struct {
	Version  string
	Hash     string
	Rules    []Rule
	Lexicons map[string][]LexEntry

	// lex holds the per-lexicon runtime indexes, rebuilt after gob decode.
	lex map[string]*lexIndex
}

// lexIndex buckets lexicon entries by first rune, longest surface first,
// so matching can try maximal entries cheaply.
type lexIndex struct {
	byFirst map[rune][]lexRuneEntry
}

type lexRuneEntry struct {
	surface []rune
	value   string
}

// Compile resolves symbol references, validates lexicon references, computes
// the content hash, and builds the runtime lexicon indexes.
func Compile(rs *RuleSet) (*Grammar, error) {
	if rs == nil || len(rs.Rules) == 0 {
		return nil, errors.New("fst: empty rule set")
	}

	resolved := make([]Rule, len(rs.Rules))
	for i, r := range rs.Rules {
		pat, err := resolveRefs(r.Pat, rs.Defs, nil)
		if err != nil {
			return nil, errors.Wrapf(err, "fst: rule %d (%s)", i, r.Family)
		}
		resolved[i] = Rule{Family: r.Family, Weight: r.Weight, Pat: pat}
	}

	g := &Grammar{
		Version:  rs.Version,
		Rules:    resolved,
		Lexicons: rs.Lexicons,
	}
	for i, r := range g.Rules {
		if err := validateLexRefs(r.Pat, g.Lexicons); err != nil {
			return nil, errors.Wrapf(err, "fst: rule %d (%s)", i, r.Family)
		}
	}

	g.Hash = fingerprint(rs)
	g.buildIndexes()
	return g, nil
}

// resolveRefs inlines RefNodes, tracking the active reference chain to
// reject cycles. Symbols therefore form a DAG resolved in dependency order.
func resolveRefs(p Pattern, defs map[string]Pattern, chain []string) (Pattern, error) {
	switch n := p.(type) {
	case RefNode:
		for _, seen := range chain {
			if seen == n.Name {
				return nil, errors.Errorf("cyclic rule reference %q", n.Name)
			}
		}
		def, ok := defs[n.Name]
		if !ok {
			return nil, errors.Errorf("undefined rule reference %q", n.Name)
		}
		return resolveRefs(def, defs, append(chain, n.Name))
	case SeqNode:
		subs := make([]Pattern, len(n.Subs))
		for i, s := range n.Subs {
			r, err := resolveRefs(s, defs, chain)
			if err != nil {
				return nil, err
			}
			subs[i] = r
		}
		return SeqNode{Subs: subs}, nil
	case AltNode:
		subs := make([]Pattern, len(n.Subs))
		for i, s := range n.Subs {
			r, err := resolveRefs(s, defs, chain)
			if err != nil {
				return nil, err
			}
			subs[i] = r
		}
		return AltNode{Subs: subs}, nil
	case OptNode:
		sub, err := resolveRefs(n.Sub, defs, chain)
		if err != nil {
			return nil, err
		}
		return OptNode{Sub: sub}, nil
	case RepNode:
		sub, err := resolveRefs(n.Sub, defs, chain)
		if err != nil {
			return nil, err
		}
		return RepNode{Sub: sub, Min: n.Min, Max: n.Max}, nil
	case CapNode:
		sub, err := resolveRefs(n.Sub, defs, chain)
		if err != nil {
			return nil, err
		}
		return CapNode{Field: n.Field, Sub: sub}, nil
	default:
		return p, nil
	}
}

func validateLexRefs(p Pattern, lexicons map[string][]LexEntry) error {
	switch n := p.(type) {
	case LexNode:
		if _, ok := lexicons[n.Name]; !ok {
			return errors.Errorf("undefined lexicon %q", n.Name)
		}
	case SeqNode:
		for _, s := range n.Subs {
			if err := validateLexRefs(s, lexicons); err != nil {
				return err
			}
		}
	case AltNode:
		for _, s := range n.Subs {
			if err := validateLexRefs(s, lexicons); err != nil {
				return err
			}
		}
	case OptNode:
		return validateLexRefs(n.Sub, lexicons)
	case RepNode:
		return validateLexRefs(n.Sub, lexicons)
	case CapNode:
		return validateLexRefs(n.Sub, lexicons)
	}
	return nil
}

func (g *Grammar) buildIndexes() {
	g.lex = make(map[string]*lexIndex, len(g.Lexicons))
	for name, entries := range g.Lexicons {
		idx := &lexIndex{byFirst: make(map[rune][]lexRuneEntry)}
		for _, e := range entries {
			r := []rune(e.Surface)
			if len(r) == 0 {
				continue
			}
			idx.byFirst[r[0]] = append(idx.byFirst[r[0]], lexRuneEntry{surface: r, value: e.Value})
		}
		for first := range idx.byFirst {
			bucket := idx.byFirst[first]
			sort.SliceStable(bucket, func(i, j int) bool {
				return len(bucket[i].surface) > len(bucket[j].surface)
			})
			idx.byFirst[first] = bucket
		}
		g.lex[name] = idx
	}
}

// fingerprint produces the SHA-256 content hash over a canonical dump of the
// rule set: version, every rule (family, weight, pattern structure), every
// named sub-pattern sorted by name, and every lexicon sorted by name and
// surface. Any change recompiles the artifact.
func fingerprint(rs *RuleSet) string {
	h := sha256.New()
	fmt.Fprintf(h, "v=%s\n", rs.Version)
	for _, r := range rs.Rules {
		fmt.Fprintf(h, "rule %s w=%d ", r.Family, r.Weight)
		writePattern(h, r.Pat)
		io.WriteString(h, "\n")
	}
	defNames := make([]string, 0, len(rs.Defs))
	for name := range rs.Defs {
		defNames = append(defNames, name)
	}
	sort.Strings(defNames)
	for _, name := range defNames {
		fmt.Fprintf(h, "def %s ", name)
		writePattern(h, rs.Defs[name])
		io.WriteString(h, "\n")
	}
	names := make([]string, 0, len(rs.Lexicons))
	for name := range rs.Lexicons {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		entries := append([]LexEntry(nil), rs.Lexicons[name]...)
		sort.Slice(entries, func(i, j int) bool {
			if entries[i].Surface != entries[j].Surface {
				return entries[i].Surface < entries[j].Surface
			}
			return entries[i].Value < entries[j].Value
		})
		fmt.Fprintf(h, "lex %s\n", name)
		for _, e := range entries {
			fmt.Fprintf(h, "  %s\t%s\n", e.Surface, e.Value)
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}

func writePattern(w io.Writer, p Pattern) {
	switch n := p.(type) {
	case LitNode:
		fmt.Fprintf(w, "lit(%s)", n.S)
	case SeqNode:
		io.WriteString(w, "seq(")
		for _, s := range n.Subs {
			writePattern(w, s)
			io.WriteString(w, ",")
		}
		io.WriteString(w, ")")
	case AltNode:
		io.WriteString(w, "alt(")
		for _, s := range n.Subs {
			writePattern(w, s)
			io.WriteString(w, ",")
		}
		io.WriteString(w, ")")
	case OptNode:
		io.WriteString(w, "opt(")
		writePattern(w, n.Sub)
		io.WriteString(w, ")")
	case RepNode:
		fmt.Fprintf(w, "rep[%d,%d](", n.Min, n.Max)
		writePattern(w, n.Sub)
		io.WriteString(w, ")")
	case DigitsNode:
		fmt.Fprintf(w, "digits[%d,%d]", n.Min, n.Max)
	case LexNode:
		fmt.Fprintf(w, "lex(%s)", n.Name)
	case CapNode:
		fmt.Fprintf(w, "cap(%s,", n.Field)
		writePattern(w, n.Sub)
		io.WriteString(w, ")")
	case OutNode:
		fmt.Fprintf(w, "out(%s=%s)", n.Field, n.Value)
	case RefNode:
		fmt.Fprintf(w, "ref(%s)", n.Name)
	}
}
