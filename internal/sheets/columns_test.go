package sheets

import (
	"errors"
	"testing"
)

func TestColumnIndexToLetter(t *testing.T) {
	tests := map[int]string{
		0:     "A",
		1:     "B",
		25:    "Z",
		26:    "AA",
		27:    "AB",
		51:    "AZ",
		52:    "BA",
		701:   "ZZ",
		702:   "AAA",
		16383: "XFD",
	}
	for in, want := range tests {
		got, err := ColumnIndexToLetter(in)
		if err != nil {
			t.Fatalf("ColumnIndexToLetter(%d) failed: %v", in, err)
		}
		if got != want {
			t.Errorf("ColumnIndexToLetter(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestColumnIndexToLetterNegative(t *testing.T) {
	got, err := ColumnIndexToLetter(-1)
	if !errors.Is(err, ErrInvalidColumnIndex) {
		t.Errorf("expected ErrInvalidColumnIndex, got %v", err)
	}
	if got != "" {
		t.Errorf("expected no letter on error, got %q", got)
	}
}

func TestColumnLetterRoundTrip(t *testing.T) {
	for n := 0; n <= 1000; n++ {
		letters, err := ColumnIndexToLetter(n)
		if err != nil {
			t.Fatalf("ColumnIndexToLetter(%d) failed: %v", n, err)
		}
		back, err := LetterToIndex(letters)
		if err != nil {
			t.Fatalf("LetterToIndex(%q) failed: %v", letters, err)
		}
		if back != n {
			t.Fatalf("round trip %d -> %q -> %d", n, letters, back)
		}
	}
}

func TestLetterToIndexInvalid(t *testing.T) {
	for _, in := range []string{"", "A1", "é", "-"} {
		if _, err := LetterToIndex(in); !errors.Is(err, ErrInvalidColumnLetter) {
			t.Errorf("LetterToIndex(%q) expected ErrInvalidColumnLetter, got %v", in, err)
		}
	}
	if n, err := LetterToIndex("ab"); err != nil || n != 27 {
		t.Errorf("LetterToIndex(ab) = %d, %v", n, err)
	}
}

func TestCellRef(t *testing.T) {
	if got := CellRef("Links 2024", "C", 5); got != "'Links 2024'!C5" {
		t.Errorf("CellRef = %q", got)
	}
	if got := CellRef("Ana's", "AA", 10); got != "'Ana''s'!AA10" {
		t.Errorf("CellRef quoting = %q", got)
	}
}
