// Package postprocess turns raw tagger emissions into a clean typed tag
// stream: wire-form parsing, NOISE suppression, dominance filtering, and
// span mapping back to the source text.
package postprocess

import (
	"log/slog"
	"sort"

	"github.com/y00281951/fst-time-nlu/internal/fst"
	"github.com/y00281951/fst-time-nlu/internal/tag"
	"github.com/y00281951/fst-time-nlu/internal/textnorm"
)

// Process parses emissions against the tag schema, drops tags suppressed by
// NOISE spans or dominated by a more specific covering tag, maps spans back
// to source rune offsets, and returns the stream sorted by span start.
//
// An emission that fails to parse is logged and skipped; extraction never
// fails on a bad tag.
func Process(ems []fst.Emission, norm textnorm.Text) []tag.Tag {
	tags := make([]tag.Tag, 0, len(ems))
	for _, em := range ems {
		t, err := tag.Parse(em.Raw)
		if err != nil {
			slog.Debug("skipping unparseable tag", "raw", em.Raw, "error", err)
			continue
		}
		t.Start, t.End = norm.SourceSpan(em.Start, em.End)
		tags = append(tags, t)
	}

	tags = suppressNoise(tags)
	tags = dropDominated(tags)
	sort.SliceStable(tags, func(i, j int) bool { return tags[i].Start < tags[j].Start })
	return tags
}

// suppressNoise removes tags whose span lies entirely within a NOISE span,
// then removes the NOISE tags themselves.
func suppressNoise(tags []tag.Tag) []tag.Tag {
	var noise []tag.Tag
	for _, t := range tags {
		if t.Family == tag.NOISE {
			noise = append(noise, t)
		}
	}
	if len(noise) == 0 {
		return tags
	}
	out := make([]tag.Tag, 0, len(tags))
	for _, t := range tags {
		if t.Family == tag.NOISE {
			continue
		}
		covered := false
		for _, n := range noise {
			if t.Start >= n.Start && t.End <= n.End {
				covered = true
				break
			}
		}
		if !covered {
			out = append(out, t)
		}
	}
	return out
}

// dropDominated removes a tag fully covered by a different tag of equal or
// higher specificity. The scanner's span locking already prevents overlaps
// within one pass; this guards merged streams.
func dropDominated(tags []tag.Tag) []tag.Tag {
	out := make([]tag.Tag, 0, len(tags))
	for i, t := range tags {
		dominated := false
		for j, u := range tags {
			if i == j {
				continue
			}
			if t.Start >= u.Start && t.End <= u.End &&
				(u.End-u.Start) > (t.End-t.Start) &&
				u.Family.Specificity() >= t.Family.Specificity() {
				dominated = true
				break
			}
		}
		if !dominated {
			out = append(out, t)
		}
	}
	return out
}
