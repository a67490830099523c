package dedup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookmeup/bookmeup-server/internal/domain"
)

func bm(id, url, title string) *domain.Bookmark {
	return &domain.Bookmark{ID: id, URL: url, Title: title}
}

func TestDetectByURL(t *testing.T) {
	d := NewDetector(DefaultConfig())

	t.Run("normalized equality groups", func(t *testing.T) {
		groups := d.Detect([]*domain.Bookmark{
			bm("a", "https://example.com/article?utm_source=feed", "First read"),
			bm("b", "http://www.example.com/article/", "Second read"),
			bm("c", "https://example.com/other", "Unrelated thing"),
		})
		require.Len(t, groups, 1)
		assert.Equal(t, domain.DuplicateByURL, groups[0].Kind)
		assert.Equal(t, "https://example.com/article", groups[0].NormalizedURL)
		assert.Equal(t, []string{"a", "b"}, groups[0].MemberIDs())
	})

	t.Run("duplicate marker joins base group", func(t *testing.T) {
		groups := d.Detect([]*domain.Bookmark{
			bm("a", "https://example.com/post", "Original"),
			bm("b", "https://example.com/post?_dup=1", "Saved again"),
		})
		require.Len(t, groups, 1)
		assert.Equal(t, domain.DuplicateByURL, groups[0].Kind)
		assert.Equal(t, []string{"a", "b"}, groups[0].MemberIDs())
	})

	t.Run("no duplicates no groups", func(t *testing.T) {
		groups := d.Detect([]*domain.Bookmark{
			bm("a", "https://example.com/1", "One"),
			bm("b", "https://example.com/2", "Two"),
		})
		assert.Empty(t, groups)
	})
}

func TestDetectByTitle(t *testing.T) {
	d := NewDetector(DefaultConfig())

	t.Run("similar titles group", func(t *testing.T) {
		groups := d.Detect([]*domain.Bookmark{
			bm("a", "https://one.example.com/x", "Introduction to Go Concurrency"),
			bm("b", "https://two.example.com/y", "Introduction to Go Concurrency!"),
			bm("c", "https://three.example.com/z", "Completely different subject"),
		})
		require.Len(t, groups, 1)
		assert.Equal(t, domain.DuplicateByTitle, groups[0].Kind)
		assert.Empty(t, groups[0].NormalizedURL)
		assert.Equal(t, []string{"a", "b"}, groups[0].MemberIDs())
	})

	t.Run("url claim wins over title", func(t *testing.T) {
		// a and b share a URL; b and c share a title. b is claimed by the
		// URL group, leaving c without a partner.
		groups := d.Detect([]*domain.Bookmark{
			bm("a", "https://example.com/article", "Some page title here"),
			bm("b", "https://example.com/article?utm_source=x", "Grand Unified Theory Explained"),
			bm("c", "https://elsewhere.example.com/q", "Grand Unified Theory Explained"),
		})
		require.Len(t, groups, 1)
		assert.Equal(t, domain.DuplicateByURL, groups[0].Kind)
		assert.Equal(t, []string{"a", "b"}, groups[0].MemberIDs())
	})

	t.Run("chains connect transitively", func(t *testing.T) {
		groups := d.Detect([]*domain.Bookmark{
			bm("a", "https://a.example.com", "Go Concurrency Patterns Explained Well"),
			bm("b", "https://b.example.com", "Go Concurrency Patterns Explained Well!"),
			bm("c", "https://c.example.com", "Go Concurrency Patterns Explained Well!!"),
		})
		require.Len(t, groups, 1)
		assert.Equal(t, []string{"a", "b", "c"}, groups[0].MemberIDs())
	})

	t.Run("short titles never group", func(t *testing.T) {
		groups := d.Detect([]*domain.Bookmark{
			bm("a", "https://a.example.com", "ab"),
			bm("b", "https://b.example.com", "ab"),
		})
		assert.Empty(t, groups)
	})

	t.Run("empty titles are skipped", func(t *testing.T) {
		groups := d.Detect([]*domain.Bookmark{
			bm("a", "https://a.example.com", ""),
			bm("b", "https://b.example.com", ""),
		})
		assert.Empty(t, groups)
	})
}

func TestDetectByTitleLargeCollection(t *testing.T) {
	// Above the pairwise cutoff the trigram index takes over; it must
	// yield the same grouping, including the degenerate case where far
	// more titles than the cutoff are identical.
	d := NewDetector(Config{TitleThreshold: 0.8, IndexCutoff: 50})

	bookmarks := make([]*domain.Bookmark, 60)
	for i := range bookmarks {
		bookmarks[i] = bm(
			"bm-"+string(rune('a'+i/26))+string(rune('a'+i%26)),
			"https://example.com/post/"+string(rune('a'+i/26))+string(rune('a'+i%26)),
			"Golang Concurrency Patterns",
		)
	}

	groups := d.Detect(bookmarks)
	require.Len(t, groups, 1)
	assert.Equal(t, domain.DuplicateByTitle, groups[0].Kind)
	assert.Len(t, groups[0].Bookmarks, 60)
}

func TestDetectOrdering(t *testing.T) {
	d := NewDetector(DefaultConfig())
	input := []*domain.Bookmark{
		bm("t1", "https://a.example.com", "How To Brew Better Coffee At Home"),
		bm("u1", "https://example.com/page", "Unrelated one"),
		bm("t2", "https://b.example.com", "How To Brew Better Coffee At Home!"),
		bm("u2", "https://example.com/page?ref=x", "Unrelated two"),
	}

	// Detection is deterministic and URL groups come first.
	for i := 0; i < 5; i++ {
		groups := d.Detect(input)
		require.Len(t, groups, 2)
		assert.Equal(t, domain.DuplicateByURL, groups[0].Kind)
		assert.Equal(t, []string{"u1", "u2"}, groups[0].MemberIDs())
		assert.Equal(t, domain.DuplicateByTitle, groups[1].Kind)
		assert.Equal(t, []string{"t1", "t2"}, groups[1].MemberIDs())
	}
}

func TestDetectThreshold(t *testing.T) {
	strict := NewDetector(Config{TitleThreshold: 0.99, IndexCutoff: 50})
	loose := NewDetector(Config{TitleThreshold: 0.5, IndexCutoff: 50})

	input := []*domain.Bookmark{
		bm("a", "https://a.example.com", "Weekly engineering notes, March"),
		bm("b", "https://b.example.com", "Weekly engineering notes, April"),
	}
	assert.Empty(t, strict.Detect(input))
	assert.Len(t, loose.Detect(input), 1)
}
