package docs

import (
	"testing"
)

func TestBuildRequestsLayout(t *testing.T) {
	body := "Intro com aviator aqui.\n\n## Seção\n\n- item um\n- item dois\n"
	reqs, err := BuildRequests("Título", body, "aviator", "https://example.com")
	if err != nil {
		t.Fatalf("BuildRequests failed: %v", err)
	}

	insert := reqs[0].InsertText
	if insert == nil {
		t.Fatalf("first request should insert text, got %+v", reqs[0])
	}
	want := "Título\nIntro com aviator aqui.\nSeção\nitem um\nitem dois\n"
	if insert.Text != want {
		t.Errorf("inserted text = %q, want %q", insert.Text, want)
	}
	if insert.Location.Index != 1 {
		t.Errorf("insert index = %d, want 1", insert.Location.Index)
	}

	var headings []string
	var bullets, links int
	for _, r := range reqs[1:] {
		switch {
		case r.UpdateParagraphStyle != nil:
			headings = append(headings, r.UpdateParagraphStyle.ParagraphStyle.NamedStyleType)
		case r.CreateParagraphBullets != nil:
			bullets++
		case r.UpdateTextStyle != nil:
			links++
			rng := r.UpdateTextStyle.Range
			// "Título\n" is 7 units, "Intro com " is 10, so the anchor starts at 1+7+10.
			if rng.StartIndex != 18 || rng.EndIndex != 25 {
				t.Errorf("link range = [%d,%d), want [18,25)", rng.StartIndex, rng.EndIndex)
			}
			if r.UpdateTextStyle.TextStyle.Link.Url != "https://example.com" {
				t.Errorf("link url = %q", r.UpdateTextStyle.TextStyle.Link.Url)
			}
		}
	}
	if len(headings) != 2 || headings[0] != "HEADING_1" || headings[1] != "HEADING_2" {
		t.Errorf("headings = %v", headings)
	}
	if bullets != 2 {
		t.Errorf("bullets = %d, want 2", bullets)
	}
	if links != 1 {
		t.Errorf("links = %d, want 1", links)
	}
}

func TestBuildRequestsUTF16Offsets(t *testing.T) {
	// The emoji is a surrogate pair, two UTF-16 units.
	reqs, err := BuildRequests("", "🎰 jogue Aviator hoje", "aviator", "https://x")
	if err != nil {
		t.Fatal(err)
	}
	last := reqs[len(reqs)-1].UpdateTextStyle
	if last == nil {
		t.Fatal("expected link request")
	}
	// 1 (body start) + 2 (emoji) + 7 (" jogue ")
	if last.Range.StartIndex != 10 || last.Range.EndIndex != 17 {
		t.Errorf("range = [%d,%d), want [10,17)", last.Range.StartIndex, last.Range.EndIndex)
	}
}

func TestBuildRequestsAnchorSkipsTitleAndPartialWords(t *testing.T) {
	reqs, err := BuildRequests("Aviator guia", "Aviatorzinho não conta.\n\nJogue aviator.", "aviator", "https://x")
	if err != nil {
		t.Fatal(err)
	}
	var link *struct{ s, e int64 }
	for _, r := range reqs {
		if r.UpdateTextStyle != nil {
			link = &struct{ s, e int64 }{r.UpdateTextStyle.Range.StartIndex, r.UpdateTextStyle.Range.EndIndex}
		}
	}
	if link == nil {
		t.Fatal("expected a link")
	}
	// "Aviator guia\n" = 13, "Aviatorzinho não conta.\n" = 24, "Jogue " = 6
	if link.s != 1+13+24+6 {
		t.Errorf("link start = %d, want %d", link.s, 1+13+24+6)
	}
}

func TestBuildRequestsNoAnchor(t *testing.T) {
	reqs, err := BuildRequests("T", "texto sem palavra", "aviator", "https://x")
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range reqs {
		if r.UpdateTextStyle != nil {
			t.Error("unexpected link request")
		}
	}

	empty, err := BuildRequests("", "", "a", "b")
	if err != nil || empty != nil {
		t.Errorf("empty input = %v, %v", empty, err)
	}
}

func TestIDFromURL(t *testing.T) {
	id, ok := IDFromURL("https://docs.google.com/document/d/1AbC_d-9/edit?usp=sharing")
	if !ok || id != "1AbC_d-9" {
		t.Errorf("IDFromURL = %q, %v", id, ok)
	}
	if _, ok := IDFromURL("https://example.com/x"); ok {
		t.Error("expected no id")
	}
	if got := DocumentURL("abc"); got != "https://docs.google.com/document/d/abc/edit" {
		t.Errorf("DocumentURL = %q", got)
	}
}
