package ledger

import (
	"fmt"
	"strings"
	"unicode"
)

// batchPrefix takes the first three ASCII letters of the product name,
// uppercased, padding with X when the name has fewer.
func batchPrefix(productName string) string {
	var b strings.Builder
	for _, r := range productName {
		if b.Len() == 3 {
			break
		}
		if r < unicode.MaxASCII && unicode.IsLetter(r) {
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	for b.Len() < 3 {
		b.WriteByte('X')
	}
	return b.String()
}

func formatBatchID(prefix string, year, seq int) string {
	return fmt.Sprintf("%s-%d-%03d", prefix, year, seq)
}

// QRCode derives the printable QR payload for a batch id.
func QRCode(batchID string) string {
	return "QR_" + strings.ReplaceAll(batchID, "-", "_")
}

// normalize keeps only letters and digits, uppercased.
func normalize(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	return b.String()
}
