package titles

import "sync"

// DefaultSimilarityThreshold is used when a History is built with threshold <= 0.
const DefaultSimilarityThreshold = 0.65

// History is the rolling list of titles accepted during a run. A candidate
// scoring above the threshold against any of them is a near duplicate.
type History struct {
	mu        sync.RWMutex
	titles    []string
	threshold float64
	capacity  int
}

// NewHistory creates a History. capacity <= 0 keeps every title.
func NewHistory(threshold float64, capacity int) *History {
	if threshold <= 0 {
		threshold = DefaultSimilarityThreshold
	}
	return &History{threshold: threshold, capacity: capacity}
}

// Threshold returns the configured near-duplicate threshold.
func (h *History) Threshold() float64 {
	return h.threshold
}

// Add appends title, dropping the oldest entry once capacity is reached.
func (h *History) Add(title string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.titles = append(h.titles, title)
	if h.capacity > 0 && len(h.titles) > h.capacity {
		h.titles = h.titles[len(h.titles)-h.capacity:]
	}
}

// TooSimilar reports whether title is a near duplicate, returning the
// closest previous title and its score.
func (h *History) TooSimilar(title string) (bool, string, float64) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	best, match := 0.0, ""
	for _, prev := range h.titles {
		if s := Similarity(title, prev); s > best {
			best, match = s, prev
		}
	}
	return best > h.threshold, match, best
}

// Titles returns a copy of the stored titles, oldest first.
func (h *History) Titles() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]string, len(h.titles))
	copy(out, h.titles)
	return out
}

// Len returns the number of stored titles.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.titles)
}
