package titles

import "testing"

func TestStructurePattern(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Vale A Pena Jogar Aviator Em 2024", PatternQuestion},
		{"Aviator É Confiável?", PatternQuestion},
		{"Como Jogar Aviator Com Segurança", PatternHowTo},
		{"7 Dicas Para Ganhar No Blackjack", PatternList},
		{"Roleta Europeia vs Roleta Americana", PatternComparison},
		{"O Guia Definitivo Da Roleta Online", PatternGuide},
		{"Aviator Conquista Jogadores Brasileiros", PatternStatement},
		{"Qualidade Dos Cassinos Online Brasileiros Cresce", PatternStatement},
		{"", PatternStatement},
	}
	for _, tt := range tests {
		if got := StructurePattern(tt.title); got != tt.want {
			t.Errorf("StructurePattern(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}
