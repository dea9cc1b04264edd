// Package validation grades quiz answers against the stored answer.
package validation

import (
	"slices"
	"strings"
	"unicode"
)

// similarityThreshold is the largest edit distance, relative to the longer
// answer, that still counts as a match.
const similarityThreshold = 0.2

var articles = []string{"the ", "a ", "an "}

// NormalizeAnswer lower-cases an answer, strips a leading article and
// punctuation, and collapses whitespace.
func NormalizeAnswer(answer string) string {
	answer = strings.ToLower(strings.TrimSpace(answer))
	for _, article := range articles {
		answer = strings.TrimPrefix(answer, article)
	}

	answer = strings.Map(func(r rune) rune {
		if unicode.IsPunct(r) {
			return -1
		}
		return r
	}, answer)

	return strings.Join(strings.Fields(answer), " ")
}

// IsSimilarAnswer reports whether guess is close enough to answer. Empty
// guesses never match.
func IsSimilarAnswer(answer, guess string) bool {
	want := NormalizeAnswer(answer)
	got := NormalizeAnswer(guess)
	if got == "" || want == "" {
		return false
	}

	if want == got || containsWords(want, got) || containsWords(got, want) {
		return true
	}

	a, b := []rune(want), []rune(got)
	longest := max(len(a), len(b))
	return float64(levenshtein(a, b))/float64(longest) < similarityThreshold
}

// containsWords reports whether the words of short appear as a run of
// whole words in long and cover at least half of its runes.
func containsWords(long, short string) bool {
	if 2*len([]rune(short)) < len([]rune(long)) {
		return false
	}

	words, sub := strings.Fields(long), strings.Fields(short)
	if len(sub) == 0 || len(sub) > len(words) {
		return false
	}

	for i := 0; i+len(sub) <= len(words); i++ {
		if slices.Equal(words[i:i+len(sub)], sub) {
			return true
		}
	}
	return false
}

// levenshtein computes the edit distance keeping only two rows
func levenshtein(a, b []rune) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}
