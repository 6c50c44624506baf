package titles

import (
	"anchorwriter/internal/textnorm"
)

const (
	editWeight      = 0.4
	skeletonWeight  = 0.3
	categoryWeight  = 0.3
	skeletonRatio   = 0.8
	minSharedTopics = 2
)

// Similarity scores how alike two titles are in [0, 1]: a blend of edit
// ratio, same content-word skeleton, and at least two shared topical categories.
func Similarity(a, b string) float64 {
	fa, fb := textnorm.Fold(a), textnorm.Fold(b)
	score := editWeight * EditRatio(fa, fb)
	if sameSkeleton(a, b) {
		score += skeletonWeight
	}
	if sharedCategories(a, b) >= minSharedTopics {
		score += categoryWeight
	}
	return min(max(score, 0), 1)
}

// EditRatio is 1 - levenshtein(a, b)/max(len(a), len(b)) over runes.
// Two empty strings are identical.
func EditRatio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	longest := max(len(ra), len(rb))
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein(ra, rb))/float64(longest)
}

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

// Skeleton returns the content words of title: folded, longer than three
// letters, stopwords removed, in order.
func Skeleton(title string) []string {
	var out []string
	for _, w := range textnorm.Words(title) {
		if len([]rune(w)) > 3 && !stopwords[w] {
			out = append(out, w)
		}
	}
	return out
}

func sameSkeleton(a, b string) bool {
	sa, sb := Skeleton(a), Skeleton(b)
	if len(sa) == 0 || len(sa) != len(sb) {
		return false
	}
	for i := range sa {
		if EditRatio(sa[i], sb[i]) <= skeletonRatio {
			return false
		}
	}
	return true
}
