// Package dedup finds generated articles that are too alike and picks which
// ones to rewrite.
package dedup

import (
	"sort"

	"anchorwriter/internal/markdown"
)

const (
	// DefaultThreshold is the combined score above which a pair is a duplicate.
	DefaultThreshold = 0.4

	titleWeight = 0.4
	bodyWeight  = 0.6
)

// Item is one generated article.
type Item struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Pair is a duplicate candidate; I < J.
type Pair struct {
	I     int     `json:"i"`
	J     int     `json:"j"`
	Score float64 `json:"score"`
}

// FindSimilar scores every unordered pair as 0.4*title cosine + 0.6*body
// cosine, over TF-IDF vectors built separately for titles and bodies, and
// returns those strictly above threshold, highest first.
func FindSimilar(items []Item, threshold float64) []Pair {
	if len(items) < 2 {
		return nil
	}

	titleDocs := make([]string, len(items))
	bodyDocs := make([]string, len(items))
	for i, it := range items {
		titleDocs[i] = it.Title
		bodyDocs[i] = markdown.PlainText(it.Body)
	}
	tv := Vectorize(titleDocs)
	bv := Vectorize(bodyDocs)

	var pairs []Pair
	for i := 0; i < len(items); i++ {
		for j := i + 1; j < len(items); j++ {
			score := titleWeight*Cosine(tv[i], tv[j]) + bodyWeight*Cosine(bv[i], bv[j])
			if score > threshold {
				pairs = append(pairs, Pair{I: i, J: j, Score: score})
			}
		}
	}

	sort.SliceStable(pairs, func(a, b int) bool {
		return pairs[a].Score > pairs[b].Score
	})
	return pairs
}

// SelectRewrites walks pairs in order and, for each pair where neither index
// was already selected, selects the higher (more recent) index. Later pairs
// touching a selected index are skipped. Indexes are returned ascending.
func SelectRewrites(pairs []Pair) []int {
	selected := make(map[int]bool)
	var out []int
	for _, p := range pairs {
		if selected[p.I] || selected[p.J] {
			continue
		}
		idx := max(p.I, p.J)
		selected[idx] = true
		out = append(out, idx)
	}
	sort.Ints(out)
	return out
}
