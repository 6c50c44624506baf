package sheets

import (
	"anchorwriter/internal/core"
	"anchorwriter/internal/textnorm"
)

// FieldAliases lists the header texts accepted for one semantic field.
type FieldAliases struct {
	Field   core.Field
	Aliases []string
}

// AliasTable is ordered: fields earlier in the table claim columns first.
type AliasTable []FieldAliases

// DefaultAliases returns the header aliases used by the content sheets.
// Portuguese labels come first since that is what operators type.
func DefaultAliases() AliasTable {
	return AliasTable{
		{core.FieldID, []string{"id", "#", "nº", "no", "numero", "número", "codigo", "código"}},
		{core.FieldSite, []string{"site", "dominio", "domínio", "domain", "portal", "blog"}},
		{core.FieldAnchorWord, []string{"palavra ancora", "palavra âncora", "palavra-chave", "palavra chave", "ancora", "âncora", "anchor", "anchor word", "anchor text", "keyword"}},
		{core.FieldAnchorURL, []string{"url ancora", "url âncora", "link ancora", "link âncora", "url do link", "link", "anchor url", "target url", "url destino"}},
		{core.FieldTitle, []string{"titulo", "título", "titulo do artigo", "título do artigo", "title", "article title"}},
		{core.FieldDocumentURL, []string{"url do documento", "link do documento", "documento", "doc", "google doc", "url doc", "document url", "document", "doc url"}},
		{core.FieldTheme, []string{"tema", "tópico", "topico", "assunto", "theme", "topic"}},
		{core.FieldLanguage, []string{"idioma", "lingua", "língua", "language", "lang"}},
		{core.FieldStatus, []string{"status", "situacao", "situação", "estado"}},
		{core.FieldWordCount, []string{"palavras", "numero de palavras", "número de palavras", "word count", "words"}},
	}
}

// Fields returns the semantic fields in table order.
func (t AliasTable) Fields() []core.Field {
	fields := make([]core.Field, len(t))
	for i, fa := range t {
		fields[i] = fa.Field
	}
	return fields
}

// folded precomputes the folded alias set for each entry.
func (t AliasTable) folded() []map[string]bool {
	sets := make([]map[string]bool, len(t))
	for i, fa := range t {
		set := make(map[string]bool, len(fa.Aliases))
		for _, a := range fa.Aliases {
			if f := textnorm.Fold(a); f != "" {
				set[f] = true
			}
		}
		sets[i] = set
	}
	return sets
}
