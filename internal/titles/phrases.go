package titles

// Lists are stored in folded form (no accents, lower case); see textnorm.Fold.

// defaultContinuationPhrases open a sentence that continues earlier text,
// which means the model answered with a fragment instead of a title.
var defaultContinuationPhrases = []string{
	// pt-BR
	"em resumo,",
	"em suma,",
	"em conclusao,",
	"em primeiro lugar,",
	"em segundo lugar,",
	"alem disso,",
	"no entanto,",
	"contudo,",
	"todavia,",
	"entretanto,",
	"portanto,",
	"por fim,",
	"finalmente,",
	"dessa forma,",
	"desta forma,",
	"por outro lado,",
	"ou seja,",
	"enfim,",
	"assim,",
	"logo,",
	// en
	"in summary,",
	"in conclusion,",
	"in the first place,",
	"furthermore,",
	"however,",
	"moreover,",
	"additionally,",
	"therefore,",
	"finally,",
	"in short,",
}

// defaultDanglingWords cannot end a complete title.
var defaultDanglingWords = []string{
	// pt-BR prepositions, contractions, conjunctions, articles
	"a", "o", "as", "os", "um", "uma", "uns", "umas",
	"de", "da", "do", "das", "dos",
	"em", "na", "no", "nas", "nos",
	"ao", "aos", "pela", "pelo", "pelas", "pelos",
	"para", "pra", "por", "com", "sem", "sob", "sobre", "entre", "ate", "apos",
	"e", "ou", "mas", "que", "se", "como", "porque", "quando",
	// en
	"the", "an", "of", "to", "for", "with", "in", "on", "at", "by", "from",
	"and", "or", "but", "about", "into",
}

// labelPrefixes are section labels the model sometimes puts in front of a title.
var labelPrefixes = []string{
	"titulo", "título", "tema", "palavra-chave", "palavra chave", "conteudo", "conteúdo",
	"texto", "conclusao", "conclusão",
	"title", "theme", "keyword", "content", "text", "conclusion",
}

// stopwords are ignored when comparing title skeletons and building TF-IDF terms.
// Besides function words they include SEO filler that does not change a
// title's structure.
var stopwords = map[string]bool{
	"a": true, "o": true, "as": true, "os": true, "um": true, "uma": true,
	"de": true, "da": true, "do": true, "das": true, "dos": true,
	"em": true, "na": true, "no": true, "nas": true, "nos": true,
	"para": true, "por": true, "com": true, "sem": true, "sobre": true,
	"e": true, "ou": true, "que": true, "se": true, "seu": true, "sua": true,
	"seus": true, "suas": true, "mais": true, "muito": true, "voce": true,
	"este": true, "esta": true, "esse": true, "essa": true, "isso": true,
	"pelo": true, "pela": true, "entre": true, "como": true, "quando": true,
	"onde": true, "qual": true, "quais": true, "sao": true, "ser": true,
	"todo": true, "toda": true, "todos": true, "tudo": true,
	"gratis": true, "hoje": true, "agora": true, "novo": true, "nova": true,
	"melhor": true, "melhores": true,
	"the": true, "an": true, "of": true, "to": true, "for": true, "with": true,
	"in": true, "on": true, "and": true, "or": true, "your": true, "this": true,
	"that": true, "from": true, "best": true, "free": true, "how": true, "what": true,
}

// IsStopword reports whether a folded token is a stopword.
func IsStopword(word string) bool {
	return stopwords[word]
}
