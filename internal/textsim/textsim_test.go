package textsim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrigrams(t *testing.T) {
	t.Run("basic", func(t *testing.T) {
		got := Trigrams("abcd")
		assert.Len(t, got, 2)
		assert.Contains(t, got, "abc")
		assert.Contains(t, got, "bcd")
	})

	t.Run("too short is empty", func(t *testing.T) {
		assert.Empty(t, Trigrams("ab"))
		assert.Empty(t, Trigrams(""))
		assert.Empty(t, Trigrams("  a  "))
	})

	t.Run("case insensitive", func(t *testing.T) {
		assert.Equal(t, Trigrams("Hello World"), Trigrams("hello world"))
	})

	t.Run("whitespace collapses", func(t *testing.T) {
		assert.Equal(t, Trigrams("hello   world"), Trigrams("hello world"))
		assert.Equal(t, Trigrams("hello\tworld\n"), Trigrams("hello world"))
	})

	t.Run("compatibility forms fold together", func(t *testing.T) {
		// Fullwidth "ＡＢＣ" normalizes to "abc" under NFKC + lowercase.
		assert.Equal(t, Trigrams("abc"), Trigrams("ＡＢＣ"))
	})
}

func TestSimilarity(t *testing.T) {
	t.Run("identical", func(t *testing.T) {
		assert.Equal(t, 1.0, Similarity("Introduction to Go", "Introduction to Go"))
	})

	t.Run("symmetric", func(t *testing.T) {
		a, b := "go concurrency patterns", "concurrency patterns in go"
		assert.Equal(t, Similarity(a, b), Similarity(b, a))
	})

	t.Run("disjoint", func(t *testing.T) {
		assert.Equal(t, 0.0, Similarity("abcdef", "uvwxyz"))
	})

	t.Run("short strings score zero", func(t *testing.T) {
		assert.Equal(t, 0.0, Similarity("ab", "ab"))
		assert.Equal(t, 0.0, Similarity("", "anything at all"))
	})

	t.Run("near duplicates score high", func(t *testing.T) {
		got := Similarity(
			"Introduction to Go Concurrency",
			"Introduction to Go Concurrency!",
		)
		assert.Greater(t, got, 0.8)
	})

	t.Run("bounded", func(t *testing.T) {
		got := Similarity("the quick brown fox", "the slow brown dog")
		assert.GreaterOrEqual(t, got, 0.0)
		assert.LessOrEqual(t, got, 1.0)
	})
}
