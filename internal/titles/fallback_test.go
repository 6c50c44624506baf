package titles

import (
	"math"
	"strings"
	"testing"
)

func TestFallbackTitlePassesValidation(t *testing.T) {
	v := NewDefaultValidator()
	anchors := []string{"aviator", "cassino online", "apostas esportivas no brasil", "um dois três quatro cinco seis", ""}

	for _, anchor := range anchors {
		for n := 0; n < len(fallbackTemplates); n++ {
			title := FallbackTitle(anchor, n)
			res := v.Validate(title, anchor, false)
			if !res.Accepted {
				t.Errorf("FallbackTitle(%q, %d) = %q rejected: %s (%d words)", anchor, n, title, res.Reason, res.Words)
			}
		}
	}
}

func TestFallbackTitleVariesAndContainsAnchor(t *testing.T) {
	a := FallbackTitle("roleta", 0)
	b := FallbackTitle("roleta", 1)
	if a == b {
		t.Error("expected different templates for different n")
	}
	if !strings.Contains(a, "roleta") {
		t.Errorf("fallback %q should contain the anchor", a)
	}
	for _, n := range []int{-1, -5, math.MinInt, math.MaxInt} {
		if FallbackTitle("roleta", n) == "" {
			t.Errorf("FallbackTitle(%d) should still pick a template", n)
		}
	}
}
