package sheets

import (
	"fmt"
	"strings"
)

// ColumnIndexToLetter converts a 0-based column index to its A1 letters
// (0 -> A, 25 -> Z, 26 -> AA).
func ColumnIndexToLetter(index int) (string, error) {
	if index < 0 {
		return "", fmt.Errorf("%w: %d", ErrInvalidColumnIndex, index)
	}
	var buf []byte
	for n := index + 1; n > 0; n = (n - 1) / 26 {
		buf = append(buf, byte('A'+(n-1)%26))
	}
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return string(buf), nil
}

// LetterToIndex is the inverse of ColumnIndexToLetter. Lower case is accepted.
func LetterToIndex(letters string) (int, error) {
	letters = strings.ToUpper(strings.TrimSpace(letters))
	if letters == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidColumnLetter)
	}
	n := 0
	for _, r := range letters {
		if r < 'A' || r > 'Z' {
			return 0, fmt.Errorf("%w: %q", ErrInvalidColumnLetter, letters)
		}
		n = n*26 + int(r-'A'+1)
	}
	return n - 1, nil
}

// CellRef builds an A1 reference such as 'Links 2024'!C5.
func CellRef(tab, col string, row int) string {
	return fmt.Sprintf("%s!%s%d", quoteTab(tab), col, row)
}

// TabRange builds a whole-tab range reference.
func TabRange(tab string) string {
	return quoteTab(tab)
}

func quoteTab(tab string) string {
	return "'" + strings.ReplaceAll(tab, "'", "''") + "'"
}
