package titles

import (
	"fmt"
	"strings"
)

const maxAnchorWordsInFallback = 4

// Each template has 9 or 10 fixed words, so with an anchor of up to four
// words the result always lands in the 9-15 word window.
var fallbackTemplates = []string{
	"Guia Completo Sobre %s: Tudo O Que Você Precisa Saber Hoje",
	"%s: Dicas Essenciais E Estratégias Para Aproveitar Melhor Sua Experiência",
	"Como Aproveitar %s Com Segurança E Aumentar Suas Chances De Sucesso",
	"Descubra Por Que %s Conquistou Tantos Jogadores E Como Começar Bem",
}

// FallbackTitle builds a default title for anchorWord when generation keeps
// failing. n picks the template, so callers can vary it between rows.
func FallbackTitle(anchorWord string, n int) string {
	words := strings.Fields(anchorWord)
	if len(words) == 0 {
		words = []string{"Apostas"}
	}
	if len(words) > maxAnchorWordsInFallback {
		words = words[:maxAnchorWordsInFallback]
	}
	k := len(fallbackTemplates)
	return fmt.Sprintf(fallbackTemplates[((n%k)+k)%k], strings.Join(words, " "))
}
