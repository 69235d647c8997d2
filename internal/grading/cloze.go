package grading

import (
	"regexp"
	"strings"
)

// clozeMarker matches a hidden word written as {{word}}.
var clozeMarker = regexp.MustCompile(`\{\{(.+?)\}\}`)

// Mask replaces a hidden word or fill-in blank when a card is shown.
const Mask = "[...]"

// FillInBlank marks a blank in the front of a fill-in card.
const FillInBlank = "___"

// ClozeWords returns the hidden words of a cloze text in order of appearance.
func ClozeWords(text string) []string {
	matches := clozeMarker.FindAllStringSubmatch(text, -1)
	words := make([]string, 0, len(matches))
	for _, m := range matches {
		words = append(words, strings.TrimSpace(m[1]))
	}
	return words
}

// MaskCloze hides every marked word in text.
func MaskCloze(text string) string {
	return clozeMarker.ReplaceAllString(text, Mask)
}

// CountFillInBlanks returns the number of blanks in a fill-in front.
func CountFillInBlanks(front string) int {
	return strings.Count(front, FillInBlank)
}
