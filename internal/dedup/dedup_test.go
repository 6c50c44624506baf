package dedup

import (
	"math"
	"reflect"
	"testing"
)

const (
	rouletteBody  = "A roleta europeia tem um único zero e oferece vantagem menor para a casa em cada giro."
	blackjackBody = "No blackjack ao vivo o crupiê distribui cartas em tempo real enquanto jogadores decidem pedir ou parar."
)

func TestFindSimilarOnlyLaterOfPairIsRewritten(t *testing.T) {
	items := []Item{
		{Title: "Roleta Online", Body: rouletteBody},
		{Title: "Blackjack ao Vivo", Body: blackjackBody},
		{Title: "Roleta Online e Blackjack ao Vivo", Body: rouletteBody + " " + blackjackBody},
	}

	pairs := FindSimilar(items, DefaultThreshold)
	if len(pairs) != 2 {
		t.Fatalf("expected pairs (0,2) and (1,2), got %+v", pairs)
	}
	for _, p := range pairs {
		if p.J != 2 {
			t.Errorf("unexpected pair %+v", p)
		}
	}
	if pairs[0].Score < pairs[1].Score {
		t.Errorf("pairs not sorted by score: %+v", pairs)
	}

	got := SelectRewrites(pairs)
	if !reflect.DeepEqual(got, []int{2}) {
		t.Errorf("SelectRewrites = %v, want [2]", got)
	}
}

func TestFindSimilarIdenticalItems(t *testing.T) {
	items := []Item{
		{Title: "Como Jogar Roleta", Body: rouletteBody},
		{Title: "Blackjack ao Vivo", Body: blackjackBody},
		{Title: "Como Jogar Roleta", Body: rouletteBody},
	}
	pairs := FindSimilar(items, DefaultThreshold)
	if len(pairs) != 1 || pairs[0].I != 0 || pairs[0].J != 2 {
		t.Fatalf("pairs = %+v, want only (0,2)", pairs)
	}
	if math.Abs(pairs[0].Score-1) > 1e-9 {
		t.Errorf("identical items should score 1, got %.6f", pairs[0].Score)
	}
}

func TestFindSimilarSmallInput(t *testing.T) {
	if pairs := FindSimilar(nil, DefaultThreshold); pairs != nil {
		t.Errorf("expected nil, got %+v", pairs)
	}
	if pairs := FindSimilar([]Item{{Title: "x", Body: "y"}}, DefaultThreshold); pairs != nil {
		t.Errorf("expected nil, got %+v", pairs)
	}
}

func TestSelectRewritesGreedy(t *testing.T) {
	tests := []struct {
		name  string
		pairs []Pair
		want  []int
	}{
		{"empty", nil, nil},
		{"single pair picks higher index", []Pair{{I: 3, J: 5, Score: 0.9}}, []int{5}},
		{
			name:  "shared member resolved once",
			pairs: []Pair{{I: 0, J: 2, Score: 0.9}, {I: 1, J: 2, Score: 0.8}},
			want:  []int{2},
		},
		{
			// 1-2 is skipped because 1 is already selected, so 2 is kept
			// even though it resembles 1.
			name:  "chain under-rewrites",
			pairs: []Pair{{I: 0, J: 1, Score: 0.9}, {I: 1, J: 2, Score: 0.8}},
			want:  []int{1},
		},
		{
			name:  "mutually similar triple",
			pairs: []Pair{{I: 0, J: 1, Score: 0.9}, {I: 0, J: 2, Score: 0.85}, {I: 1, J: 2, Score: 0.8}},
			want:  []int{1, 2},
		},
		{
			name:  "pair touching selected index is skipped",
			pairs: []Pair{{I: 1, J: 2, Score: 0.9}, {I: 2, J: 3, Score: 0.8}},
			want:  []int{2},
		},
		{
			name:  "disjoint pairs",
			pairs: []Pair{{I: 0, J: 1, Score: 0.9}, {I: 2, J: 3, Score: 0.8}},
			want:  []int{1, 3},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SelectRewrites(tt.pairs)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SelectRewrites = %v, want %v", got, tt.want)
			}
		})
	}
}
