package domain

// DuplicateKind records which criterion formed a duplicate group.
type DuplicateKind string

const (
	// DuplicateByURL groups bookmarks whose normalized URLs are equal.
	DuplicateByURL DuplicateKind = "url"
	// DuplicateByTitle groups bookmarks whose titles score at or above
	// the similarity threshold.
	DuplicateByTitle DuplicateKind = "title"
)

// DuplicateGroup is a transient set of >=2 bookmarks considered the same
// logical resource. Groups are never persisted; they are recomputed on
// demand and resolved by an explicit merge.
type DuplicateGroup struct {
	Kind DuplicateKind `json:"kind"`
	// NormalizedURL is set for URL groups: the shared canonical URL.
	NormalizedURL string      `json:"normalized_url,omitempty"`
	Bookmarks     []*Bookmark `json:"bookmarks"`
}

// MemberIDs returns the ids of the group's bookmarks, in group order.
func (g *DuplicateGroup) MemberIDs() []string {
	ids := make([]string, len(g.Bookmarks))
	for i, b := range g.Bookmarks {
		ids[i] = b.ID
	}
	return ids
}
