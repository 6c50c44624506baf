package core

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestFieldBindingJSON(t *testing.T) {
	b := FieldBinding{Name: "Palavra Âncora", Index: 3}
	data, err := json.Marshal(b)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if !strings.Contains(string(data), `"index":3`) {
		t.Errorf("expected index in JSON, got %s", data)
	}
}

func TestArticleCreation(t *testing.T) {
	article := Article{
		ID:         "article-1",
		SheetRow:   5,
		AnchorWord: "aviator",
		Title:      "Como Jogar Aviator Com Segurança Total Hoje Mesmo",
	}

	if article.SheetRow != 5 {
		t.Errorf("Expected SheetRow to be 5, got %d", article.SheetRow)
	}
	if article.UsedFallback {
		t.Error("Expected UsedFallback to default to false")
	}
}
