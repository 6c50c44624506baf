package titles

import (
	"sort"

	"anchorwriter/internal/textnorm"
)

// categoryKeywords maps folded keywords to topical categories.
var categoryKeywords = map[string]string{
	"cassino": "casino", "casino": "casino", "slot": "casino", "slots": "casino",
	"roleta": "casino", "blackjack": "casino", "poker": "casino", "aviator": "casino",
	"crash": "casino", "baccarat": "casino", "jackpot": "casino", "bingo": "casino",

	"apostas": "betting", "aposta": "betting", "apostar": "betting", "odds": "betting",
	"palpite": "betting", "palpites": "betting", "bet": "betting", "sportsbook": "betting",
	"futebol": "betting", "esporte": "betting", "esportes": "betting", "esportivas": "betting",

	"guia": "guide", "completo": "guide", "tutorial": "guide", "passo": "guide",
	"dicas": "guide", "aprenda": "guide", "iniciantes": "guide", "manual": "guide",
	"como": "guide", "guide": "guide", "tips": "guide",

	"bonus": "bonus", "gratis": "bonus", "promocao": "bonus", "promocoes": "bonus",
	"cupom": "bonus", "codigo": "bonus", "rodadas": "bonus", "cashback": "bonus",
	"free": "bonus", "freespins": "bonus",

	"app": "mobile", "aplicativo": "mobile", "celular": "mobile", "android": "mobile",
	"ios": "mobile", "mobile": "mobile", "iphone": "mobile",

	"seguro": "security", "segura": "security", "seguranca": "security",
	"confiavel": "security", "confiaveis": "security", "legal": "security",
	"licenca": "security", "regulamentado": "security", "golpe": "security",
	"safe": "security",

	"estrategia": "strategy", "estrategias": "strategy", "tatica": "strategy",
	"taticas": "strategy", "truques": "strategy", "ganhar": "strategy",
	"vencer": "strategy", "lucrar": "strategy", "strategy": "strategy",

	"pix": "payments", "deposito": "payments", "saque": "payments",
	"pagamento": "payments", "pagamentos": "payments", "cripto": "payments",
	"bitcoin": "payments", "saques": "payments",

	"online": "online", "internet": "online", "site": "online", "sites": "online",
	"plataforma": "online", "plataformas": "online", "digital": "online",
}

// Categories returns the sorted topical categories mentioned in title.
func Categories(title string) []string {
	set := make(map[string]bool)
	for _, w := range textnorm.Words(title) {
		if c, ok := categoryKeywords[w]; ok {
			set[c] = true
		}
	}
	out := make([]string, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Theme returns the most specific category of title, or "general".
func Theme(title string) string {
	cats := Categories(title)
	for _, preferred := range []string{"casino", "betting", "bonus", "payments", "mobile", "security", "strategy"} {
		for _, c := range cats {
			if c == preferred {
				return c
			}
		}
	}
	return "general"
}

func sharedCategories(a, b string) int {
	ca := Categories(a)
	cb := make(map[string]bool)
	for _, c := range Categories(b) {
		cb[c] = true
	}
	n := 0
	for _, c := range ca {
		if cb[c] {
			n++
		}
	}
	return n
}
