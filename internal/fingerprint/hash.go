package fingerprint

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/conorfennell/flashstack/internal/domain"
)

// Normalize concatenates the card's type and content after cleaning each part.
// It trims whitespace, lowercases, and normalizes line endings for each field
// before joining them.
func Normalize(card domain.Card) string {
	normalizePart := func(part string) string {
		p := strings.ToLower(part)
		p = strings.TrimSpace(p)
		p = strings.ReplaceAll(p, "\r\n", "\n")
		return p
	}
	normalizeList := func(parts []string) string {
		cleaned := make([]string, len(parts))
		for i, p := range parts {
			cleaned[i] = normalizePart(p)
		}
		return strings.Join(cleaned, "\x1f")
	}

	// Fields are joined with a newline so "ab"+"c" and "a"+"bc" differ.
	return strings.Join([]string{
		card.Type.String(),
		normalizePart(card.Front),
		normalizePart(card.Back),
		normalizePart(card.Text),
		normalizeList(card.Answers),
		normalizeList(card.Choices),
	}, "\n")
}

// Hash takes a card, normalizes it, and returns its SHA-256 hash as a hex string.
func Hash(card domain.Card) string {
	normalized := Normalize(card)
	hashBytes := sha256.Sum256([]byte(normalized))
	return fmt.Sprintf("%x", hashBytes)
}
