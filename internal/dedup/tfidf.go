package dedup

import (
	"math"

	"anchorwriter/internal/textnorm"
	"anchorwriter/internal/titles"
)

// Vector is a sparse, L2-normalized TF-IDF vector keyed by term.
type Vector map[string]float64

// Terms returns the unigrams and bigrams of text after folding and stopword removal.
func Terms(text string) []string {
	var words []string
	for _, w := range textnorm.Words(text) {
		if len([]rune(w)) < 2 || titles.IsStopword(w) {
			continue
		}
		words = append(words, w)
	}

	terms := make([]string, 0, 2*len(words))
	terms = append(terms, words...)
	for i := 1; i < len(words); i++ {
		terms = append(terms, words[i-1]+" "+words[i])
	}
	return terms
}

// Vectorize builds TF-IDF vectors for docs with smooth idf:
// idf(t) = ln((1+n)/(1+df(t))) + 1.
func Vectorize(docs []string) []Vector {
	n := len(docs)
	counts := make([]map[string]int, n)
	df := make(map[string]int)
	for i, doc := range docs {
		tf := make(map[string]int)
		for _, term := range Terms(doc) {
			tf[term]++
		}
		for term := range tf {
			df[term]++
		}
		counts[i] = tf
	}

	vectors := make([]Vector, n)
	for i, tf := range counts {
		v := make(Vector, len(tf))
		var norm float64
		for term, c := range tf {
			w := float64(c) * (math.Log(float64(1+n)/float64(1+df[term])) + 1)
			v[term] = w
			norm += w * w
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for term := range v {
				v[term] /= norm
			}
		}
		vectors[i] = v
	}
	return vectors
}

// Cosine returns the cosine similarity of a and b; zero vectors score 0.
func Cosine(a, b Vector) float64 {
	if len(a) > len(b) {
		a, b = b, a
	}
	var dot, na, nb float64
	for term, wa := range a {
		dot += wa * b[term]
	}
	for _, w := range a {
		na += w * w
	}
	for _, w := range b {
		nb += w * w
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
