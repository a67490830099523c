// Package dedup finds groups of bookmarks that point at the same logical
// resource, either by canonical URL equality or by near-identical titles.
//
// Detection is read-only: it reports groups and leaves resolution to an
// explicit merge. Each bookmark lands in at most one group, with URL
// evidence taking precedence over title similarity.
package dedup

import (
	"sort"

	"github.com/bookmeup/bookmeup-server/internal/domain"
	"github.com/bookmeup/bookmeup-server/internal/textsim"
	"github.com/bookmeup/bookmeup-server/internal/urlnorm"
)

// Config tunes the detector.
type Config struct {
	// TitleThreshold is the minimum trigram similarity for two titles to
	// be considered duplicates. Scores are in [0, 1].
	TitleThreshold float64
	// IndexCutoff is the collection size above which candidate pairs
	// come from a trigram inverted index instead of exhaustive pairwise
	// comparison. Both paths score the same pairs, so grouping does not
	// depend on collection size.
	IndexCutoff int
}

// DefaultConfig returns the detector defaults.
func DefaultConfig() Config {
	return Config{
		TitleThreshold: 0.8,
		IndexCutoff:    50,
	}
}

// Detector computes duplicate groups over a set of bookmarks.
type Detector struct {
	cfg Config
}

// NewDetector returns a Detector with the given config. Zero or negative
// tunables fall back to the defaults.
func NewDetector(cfg Config) *Detector {
	def := DefaultConfig()
	if cfg.TitleThreshold <= 0 {
		cfg.TitleThreshold = def.TitleThreshold
	}
	if cfg.IndexCutoff <= 0 {
		cfg.IndexCutoff = def.IndexCutoff
	}
	return &Detector{cfg: cfg}
}

// Detect returns all duplicate groups among the given bookmarks. Groups
// are ordered by the input position of their first member, and members
// keep input order within a group. Every group has at least two members.
func (d *Detector) Detect(bookmarks []*domain.Bookmark) []*domain.DuplicateGroup {
	claimed := make(map[int]bool, len(bookmarks))

	groups := d.detectByURL(bookmarks, claimed)
	groups = append(groups, d.detectByTitle(bookmarks, claimed)...)
	return groups
}

// detectByURL buckets bookmarks by canonical URL. A bookmark carrying the
// intentional-duplicate marker joins the bucket of its base URL, so the
// marked copy and the original group together.
func (d *Detector) detectByURL(bookmarks []*domain.Bookmark, claimed map[int]bool) []*domain.DuplicateGroup {
	buckets := make(map[string][]int)
	order := make([]string, 0)

	for i, b := range bookmarks {
		key := urlnorm.Normalize(b.URL)
		if urlnorm.HasDuplicateMarker(b.URL) {
			key = urlnorm.StripDuplicateMarker(b.URL)
		}
		if _, seen := buckets[key]; !seen {
			order = append(order, key)
		}
		buckets[key] = append(buckets[key], i)
	}

	var groups []*domain.DuplicateGroup
	for _, key := range order {
		members := buckets[key]
		if len(members) < 2 {
			continue
		}
		g := &domain.DuplicateGroup{
			Kind:          domain.DuplicateByURL,
			NormalizedURL: key,
			Bookmarks:     make([]*domain.Bookmark, 0, len(members)),
		}
		for _, i := range members {
			claimed[i] = true
			g.Bookmarks = append(g.Bookmarks, bookmarks[i])
		}
		groups = append(groups, g)
	}
	return groups
}

// detectByTitle groups the remaining bookmarks by title similarity. Pairs
// at or above the threshold are merged with union-find, so chains (a~b,
// b~c) form a single group even when a and c score below the threshold on
// their own. Small collections compare every pair directly; larger ones
// take candidate pairs from an inverted trigram index, which yields the
// same pairs because two titles with no shared trigram score zero.
func (d *Detector) detectByTitle(bookmarks []*domain.Bookmark, claimed map[int]bool) []*domain.DuplicateGroup {
	// Candidates are unclaimed bookmarks whose titles yield trigrams.
	grams := make(map[int]map[string]struct{})
	cands := make([]int, 0, len(bookmarks))
	for i, b := range bookmarks {
		if claimed[i] {
			continue
		}
		set := textsim.Trigrams(b.Title)
		if len(set) == 0 {
			continue
		}
		grams[i] = set
		cands = append(cands, i)
	}

	uf := newUnionFind()
	if len(cands) <= d.cfg.IndexCutoff {
		for x := 0; x < len(cands); x++ {
			for y := x + 1; y < len(cands); y++ {
				d.score(uf, grams, cands[x], cands[y])
			}
		}
	} else {
		index := make(map[string][]int)
		for _, i := range cands {
			for g := range grams[i] {
				index[g] = append(index[g], i)
			}
		}
		for _, postings := range index {
			if len(postings) < 2 {
				continue
			}
			for x := 0; x < len(postings); x++ {
				for y := x + 1; y < len(postings); y++ {
					d.score(uf, grams, postings[x], postings[y])
				}
			}
		}
	}

	components := make(map[int][]int)
	for i := range grams {
		root := uf.find(i)
		components[root] = append(components[root], i)
	}

	// Union roots are the lowest member index, so sorting roots orders
	// groups by the input position of their first member.
	roots := make([]int, 0, len(components))
	for root, members := range components {
		if len(members) >= 2 {
			roots = append(roots, root)
		}
	}
	sort.Ints(roots)

	var groups []*domain.DuplicateGroup
	for _, root := range roots {
		members := components[root]
		sort.Ints(members)
		g := &domain.DuplicateGroup{
			Kind:      domain.DuplicateByTitle,
			Bookmarks: make([]*domain.Bookmark, 0, len(members)),
		}
		for _, i := range members {
			g.Bookmarks = append(g.Bookmarks, bookmarks[i])
		}
		groups = append(groups, g)
	}
	return groups
}

// score unions a and b when their titles clear the similarity threshold.
// Already-joined pairs skip the similarity computation.
func (d *Detector) score(uf *unionFind, grams map[int]map[string]struct{}, a, b int) {
	if uf.find(a) == uf.find(b) {
		return
	}
	if jaccard(grams[a], grams[b]) >= d.cfg.TitleThreshold {
		uf.union(a, b)
	}
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}
	if len(b) < len(a) {
		a, b = b, a
	}
	intersection := 0
	for g := range a {
		if _, ok := b[g]; ok {
			intersection++
		}
	}
	return float64(intersection) / float64(len(a)+len(b)-intersection)
}

// unionFind is a path-compressing disjoint-set over int keys.
type unionFind struct {
	parent map[int]int
}

func newUnionFind() *unionFind {
	return &unionFind{parent: make(map[int]int)}
}

func (u *unionFind) find(x int) int {
	p, ok := u.parent[x]
	if !ok {
		u.parent[x] = x
		return x
	}
	if p == x {
		return x
	}
	root := u.find(p)
	u.parent[x] = root
	return root
}

func (u *unionFind) union(a, b int) {
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return
	}
	// Lower index wins as root so components keep a stable anchor.
	if rb < ra {
		ra, rb = rb, ra
	}
	u.parent[rb] = ra
}
