package grading

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/conorfennell/flashstack/internal/domain"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks that card is well formed enough to be graded.
func Validate(card domain.Card) error {
	if err := validate.Struct(card); err != nil {
		return fmt.Errorf("invalid card: %w", err)
	}
	if !card.Type.Valid() {
		return fmt.Errorf("invalid card: unknown type %d", int(card.Type))
	}

	switch card.Type {
	case domain.Flashcard:
		if strings.TrimSpace(card.Front) == "" || card.Back == "" {
			return errors.New("invalid flashcard: front and back are required")
		}
		// Answers are read as a single line.
		if strings.Contains(card.Back, "\n") {
			return errors.New("invalid flashcard: back must be a single line")
		}
	case domain.Cloze:
		if len(ClozeWords(card.Text)) == 0 {
			return errors.New("invalid cloze card: no {{hidden}} words")
		}
	case domain.FillIn:
		blanks := CountFillInBlanks(card.Front)
		if blanks == 0 {
			return fmt.Errorf("invalid fill-in card: no %s blanks", FillInBlank)
		}
		if blanks != len(card.Answers) {
			return fmt.Errorf("invalid fill-in card: %d blanks but %d answers", blanks, len(card.Answers))
		}
	case domain.MultipleChoice:
		if len(card.Choices) < 2 {
			return errors.New("invalid multiple-choice card: needs at least two choices")
		}
		// A reply lists the selected options separated by commas.
		for _, c := range card.Choices {
			if strings.Contains(c, ChoiceSeparator) {
				return fmt.Errorf("invalid multiple-choice card: option %q contains %q", c, ChoiceSeparator)
			}
		}
		choices := toSet(card.Choices)
		for _, a := range card.Answers {
			if _, ok := choices[a]; !ok {
				return fmt.Errorf("invalid multiple-choice card: answer %q is not a choice", a)
			}
		}
	}
	return nil
}
