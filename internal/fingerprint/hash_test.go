package fingerprint

import (
	"testing"

	"github.com/conorfennell/flashstack/internal/domain"
)

func TestNormalize(t *testing.T) {
	card := domain.Card{
		Type:  domain.Flashcard,
		Front: "  What is HTMX? \r\n",
		Back:  "A library for AJAX.",
	}
	expected := "flashcard\nwhat is htmx?\na library for ajax.\n\n\n"
	normalized := Normalize(card)

	if normalized != expected {
		t.Errorf("Expected normalized string to be %q, but got %q", expected, normalized)
	}
}

func TestHash(t *testing.T) {
	t.Run("hash is deterministic", func(t *testing.T) {
		card1 := domain.Card{Type: domain.Flashcard, Front: "Test"}
		card2 := domain.Card{Type: domain.Flashcard, Front: "Test"}
		if Hash(card1) != Hash(card2) {
			t.Error("Expected hashes for identical cards to be the same")
		}
	})

	t.Run("normalization produces same hash", func(t *testing.T) {
		card1 := domain.Card{
			Type:  domain.Flashcard,
			Front: "  what is go? ",
			Back:  "A programming language.",
		}
		card2 := domain.Card{
			Type:  domain.Flashcard,
			Front: "What Is Go?",
			Back:  "A programming language.",
		}
		if Hash(card1) != Hash(card2) {
			t.Error("Expected hashes to be the same after normalization, but they were different.")
		}
	})

	t.Run("review state does not affect the hash", func(t *testing.T) {
		card1 := domain.Card{Type: domain.Cloze, Text: "{{a}}"}
		card2 := card1
		card2.Review.Box = 3
		card2.ID = 12
		if Hash(card1) != Hash(card2) {
			t.Error("Expected scheduling fields to be ignored")
		}
	})

	t.Run("different cards have different hashes", func(t *testing.T) {
		testCases := []struct {
			name         string
			card1, card2 domain.Card
		}{
			{
				"different front",
				domain.Card{Type: domain.Flashcard, Front: "Card 1"},
				domain.Card{Type: domain.Flashcard, Front: "Card 2"},
			},
			{
				"different type",
				domain.Card{Type: domain.Flashcard, Front: "___", Answers: []string{"x"}},
				domain.Card{Type: domain.FillIn, Front: "___", Answers: []string{"x"}},
			},
			{
				"answers split differently",
				domain.Card{Type: domain.MultipleChoice, Answers: []string{"ab", "c"}},
				domain.Card{Type: domain.MultipleChoice, Answers: []string{"a", "bc"}},
			},
		}
		for _, tc := range testCases {
			if Hash(tc.card1) == Hash(tc.card2) {
				t.Errorf("%s: expected hashes to differ", tc.name)
			}
		}
	})
}
