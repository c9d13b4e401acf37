// internal/scramble/scramble.go
//
// Letter scrambling for puzzle words.
//
// Word performs an unbiased Fisher–Yates shuffle over the runes of a word.
// The result always holds exactly the same multiset of letters as the input;
// it may equal the input (short or repetitive words often do).
// Distinct retries a bounded number of times to return a different
// arrangement, and is used when the player explicitly asks for a reshuffle.
//
// Randomness is math/rand/v2 and is not meant to be cryptographic.
package scramble

import (
	"math/rand/v2"
	"sync"
	"time"
)

// Source is the subset of *rand.Rand the scrambler needs.
type Source interface {
	IntN(n int) int
}

// New returns a deterministic source for the given seed.
func New(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Default returns a process-wide source seeded from the clock.
// Safe for concurrent use.
func Default() Source {
	defaultOnce.Do(func() {
		defaultSrc = &lockedSource{r: New(uint64(time.Now().UnixNano()))}
	})
	return defaultSrc
}

var (
	defaultOnce sync.Once
	defaultSrc  *lockedSource
)

type lockedSource struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (l *lockedSource) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.IntN(n)
}

// Word returns a random permutation of the letters in word.
func Word(word string, src Source) string {
	rs := []rune(word)
	for i := len(rs) - 1; i > 0; i-- {
		j := src.IntN(i + 1)
		rs[i], rs[j] = rs[j], rs[i]
	}
	return string(rs)
}

// Distinct returns a permutation that differs from avoid whenever the
// letters allow it, trying at most attempts shuffles. Words made of a single
// repeated letter (or of one letter) have no other arrangement and are
// returned unchanged.
func Distinct(word, avoid string, src Source, attempts int) string {
	if !hasAlternative(word) {
		return word
	}
	if attempts < 1 {
		attempts = 1
	}
	out := Word(word, src)
	for i := 1; i < attempts && out == avoid; i++ {
		out = Word(word, src)
	}
	if out == avoid {
		// Rotating by one differs unless every letter is the same.
		rs := []rune(out)
		out = string(append(rs[1:len(rs):len(rs)], rs[0]))
	}
	return out
}

// hasAlternative reports whether word has at least two distinct letters.
func hasAlternative(word string) bool {
	var first rune
	for i, r := range word {
		if i == 0 {
			first = r
			continue
		}
		if r != first {
			return true
		}
	}
	return false
}
