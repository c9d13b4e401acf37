package scramble

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sortedRunes(s string) string {
	rs := []rune(s)
	sort.Slice(rs, func(i, j int) bool { return rs[i] < rs[j] })
	return string(rs)
}

func TestWordIsAlwaysAnAnagram(t *testing.T) {
	src := New(42)
	words := []string{"a", "cat", "train", "planet", "mississippi", "aaaa", "crème", "日本語"}
	for _, w := range words {
		for i := 0; i < 200; i++ {
			got := Word(w, src)
			require.Equal(t, sortedRunes(w), sortedRunes(got), "word %q scrambled to %q", w, got)
		}
	}
}

func TestWordDeterministicForSeed(t *testing.T) {
	a, b := New(7), New(7)
	for i := 0; i < 20; i++ {
		assert.Equal(t, Word("adventure", a), Word("adventure", b))
	}
}

func TestWordEmptyAndSingle(t *testing.T) {
	assert.Equal(t, "", Word("", New(1)))
	assert.Equal(t, "x", Word("x", New(1)))
}

func TestWordReachesEveryPermutation(t *testing.T) {
	src := New(99)
	seen := map[string]int{}
	for i := 0; i < 6000; i++ {
		seen[Word("abc", src)]++
	}
	require.Len(t, seen, 6)
	for perm, n := range seen {
		// Uniform would be 1000 each; leave plenty of slack.
		assert.Greater(t, n, 700, "permutation %q under-represented", perm)
	}
}

func TestDistinctDiffersWhenPossible(t *testing.T) {
	src := New(3)
	for i := 0; i < 500; i++ {
		got := Distinct("ab", "ab", src, 1)
		assert.Equal(t, "ba", got)
	}
	for i := 0; i < 200; i++ {
		got := Distinct("planet", "planet", src, 3)
		assert.NotEqual(t, "planet", got)
		assert.Equal(t, sortedRunes("planet"), sortedRunes(got))
	}
}

func TestDistinctRepeatedLetters(t *testing.T) {
	assert.Equal(t, "zzz", Distinct("zzz", "zzz", New(1), 5))
	assert.Equal(t, "q", Distinct("q", "q", New(1), 5))
}

func TestDefaultIsUsable(t *testing.T) {
	got := Word("hello", Default())
	assert.Equal(t, sortedRunes("hello"), sortedRunes(got))
}
