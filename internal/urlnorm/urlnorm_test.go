package urlnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"adds default scheme", "example.com/a", "https://example.com/a"},
		{"upgrades http", "http://example.com/a", "https://example.com/a"},
		{"lowercases host", "https://EXAMPLE.com/Path", "https://example.com/Path"},
		{"preserves path case", "https://example.com/CaseSensitive", "https://example.com/CaseSensitive"},
		{"strips www", "https://www.example.com/a", "https://example.com/a"},
		{"keeps other subdomains", "https://blog.example.com/a", "https://blog.example.com/a"},
		{"collapses double slashes", "https://example.com/a//b///c", "https://example.com/a/b/c"},
		{"strips trailing slash", "https://example.com/a/", "https://example.com/a"},
		{"root path collapses", "https://example.com/", "https://example.com"},
		{"drops utm params", "https://example.com/a?utm_source=x&utm_medium=y&id=7", "https://example.com/a?id=7"},
		{"drops uppercase trackers", "https://example.com/a?FBCLID=x&UTM_SOURCE=y&id=7", "https://example.com/a?id=7"},
		{"drops fbclid and gclid", "https://example.com/a?fbclid=abc&gclid=def", "https://example.com/a"},
		{"drops dup marker", "https://example.com/a?_dup=1", "https://example.com/a"},
		{"keeps meaningful params", "https://example.com/watch?v=abc123", "https://example.com/watch?v=abc123"},
		{"sorts params", "https://example.com/a?b=2&a=1", "https://example.com/a?a=1&b=2"},
		{"drops empty fragment", "https://example.com/a#", "https://example.com/a"},
		{"keeps named fragment", "https://example.com/a#section", "https://example.com/a#section"},
		{"trims whitespace", "  https://example.com/a  ", "https://example.com/a"},
		{"unparseable returned as-is", "http://%zz", "http://%zz"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"HTTP://WWW.Example.COM//a//b/?utm_source=x&z=1&a=2#",
		"example.com",
		"https://example.com/watch?v=abc#frag",
		"not a url at all",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestHasDuplicateMarker(t *testing.T) {
	assert.True(t, HasDuplicateMarker("https://example.com/a?_dup=1"))
	assert.True(t, HasDuplicateMarker("https://example.com/a?x=1&_dup="))
	assert.False(t, HasDuplicateMarker("https://example.com/a?dup=1"))
	assert.False(t, HasDuplicateMarker("https://example.com/a"))
}

func TestStripDuplicateMarker(t *testing.T) {
	got := StripDuplicateMarker("https://www.example.com/a/?_dup=2&id=5")
	assert.Equal(t, "https://example.com/a?id=5", got)
}

func TestDomain(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://www.Example.com/path", "example.com"},
		{"http://blog.example.com:8080/x", "blog.example.com"},
		{"example.com/a", "example.com"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Domain(tt.in), "input %q", tt.in)
	}
}
