// Package grading decides whether submitted answers match a card.
// Every check is a pure predicate: malformed input grades as incorrect and
// never returns an error.
package grading

import (
	"fmt"
	"strings"

	"github.com/conorfennell/flashstack/internal/domain"
)

// Evaluate reports whether answers are correct for card. The expected shape
// of answers depends on the card type:
//
//	Flashcard:      exactly one answer
//	Cloze, FillIn:  one answer per blank, left to right
//	MultipleChoice: the selected choices, in any order
func Evaluate(card domain.Card, answers []string) bool {
	switch card.Type {
	case domain.Flashcard:
		return len(answers) == 1 && CheckFlashcard(card.Back, answers[0])
	case domain.Cloze:
		return CheckCloze(ClozeWords(card.Text), answers)
	case domain.FillIn:
		return CheckFillIn(card.Answers, answers)
	case domain.MultipleChoice:
		return CheckMultipleChoice(card.Answers, answers)
	default:
		panic(fmt.Sprintf("grading: unknown card type %d", int(card.Type)))
	}
}

// CheckFlashcard compares the answer with the back of the card exactly.
func CheckFlashcard(back, answer string) bool {
	return back == answer
}

// CheckCloze reports whether every blank matches its hidden word, ignoring
// case. There is no partial credit.
func CheckCloze(hidden, answers []string) bool {
	if len(hidden) != len(answers) {
		return false
	}
	for i, word := range hidden {
		if !strings.EqualFold(word, answers[i]) {
			return false
		}
	}
	return true
}

// CheckFillIn grades blanks like CheckCloze, except that surrounding
// whitespace is ignored and each expected answer may list alternatives
// separated by "|".
func CheckFillIn(expected, answers []string) bool {
	if len(expected) != len(answers) {
		return false
	}
	for i, want := range expected {
		if !matchesAlternative(want, answers[i]) {
			return false
		}
	}
	return true
}

func matchesAlternative(want, got string) bool {
	got = strings.TrimSpace(got)
	for _, alt := range strings.Split(want, "|") {
		if strings.EqualFold(strings.TrimSpace(alt), got) {
			return true
		}
	}
	return false
}

// ChoiceSeparator separates the selected options in a multiple-choice reply.
// Options may not contain it.
const ChoiceSeparator = ","

// SplitChoices splits a multiple-choice reply into its trimmed, non-empty
// selections.
func SplitChoices(reply string) []string {
	var choices []string
	for _, part := range strings.Split(reply, ChoiceSeparator) {
		if part = strings.TrimSpace(part); part != "" {
			choices = append(choices, part)
		}
	}
	return choices
}

// CheckMultipleChoice reports whether the selected choices equal the correct
// answers as sets.
func CheckMultipleChoice(correct, selected []string) bool {
	want := toSet(correct)
	got := toSet(selected)
	if len(want) != len(got) {
		return false
	}
	for choice := range got {
		if _, ok := want[choice]; !ok {
			return false
		}
	}
	return true
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[item] = struct{}{}
	}
	return set
}

// Blanks returns how many answers must be asked for to grade card.
func Blanks(card domain.Card) int {
	switch card.Type {
	case domain.Cloze:
		return len(ClozeWords(card.Text))
	case domain.FillIn:
		return len(card.Answers)
	default:
		return 1
	}
}
