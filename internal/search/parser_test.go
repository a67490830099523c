package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFreeText(t *testing.T) {
	q := Parse("go concurrency patterns")
	assert.Equal(t, []string{"go", "concurrency", "patterns"}, q.Terms)
	assert.Empty(t, q.Phrases)
	assert.False(t, q.IsEmpty())
}

func TestParsePhrases(t *testing.T) {
	q := Parse(`"exact phrase" loose "another one"`)
	assert.Equal(t, []string{"loose"}, q.Terms)
	assert.Equal(t, []string{"exact phrase", "another one"}, q.Phrases)
}

func TestParseFilters(t *testing.T) {
	q := Parse("tag:reading tag:golang domain:Example.COM collection:col-1 rust")
	assert.Equal(t, []string{"reading", "golang"}, q.Tags)
	assert.Equal(t, "example.com", q.Domain)
	assert.Equal(t, "col-1", q.Collection)
	assert.Equal(t, []string{"rust"}, q.Terms)
}

func TestParseBooleans(t *testing.T) {
	q := Parse("unread:true favorite:false archived:1")
	require.NotNil(t, q.Unread)
	require.NotNil(t, q.Favorite)
	require.NotNil(t, q.Archived)
	assert.True(t, *q.Unread)
	assert.False(t, *q.Favorite)
	assert.True(t, *q.Archived)

	// Malformed booleans are dropped, not errors.
	q = Parse("unread:maybe")
	assert.Nil(t, q.Unread)
	assert.Empty(t, q.Terms)
}

func TestParseDates(t *testing.T) {
	q := Parse("after:2024-01-15 before:2024-06-01")
	require.NotNil(t, q.After)
	require.NotNil(t, q.Before)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), *q.After)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), *q.Before)

	// Bad dates are silently ignored.
	q = Parse("after:not-a-date before:2024-13-45")
	assert.Nil(t, q.After)
	assert.Nil(t, q.Before)
}

func TestParseUnknownPrefixIsText(t *testing.T) {
	q := Parse("go:generate http://x")
	assert.Equal(t, []string{"go:generate", "http://x"}, q.Terms)
}

func TestParseQuotedFilterValue(t *testing.T) {
	q := Parse(`tag:"deep dive"`)
	assert.Equal(t, []string{"deep dive"}, q.Tags)
}

func TestParseEmpty(t *testing.T) {
	assert.True(t, Parse("").IsEmpty())
	assert.True(t, Parse("   ").IsEmpty())
}
