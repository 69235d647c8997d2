package domain

import (
	"fmt"
	"strings"
	"time"
)

// CardType tags which variant of content a Card carries.
type CardType int

const (
	Flashcard      CardType = 1
	Cloze          CardType = 2
	FillIn         CardType = 3
	MultipleChoice CardType = 4
)

func (t CardType) String() string {
	switch t {
	case Flashcard:
		return "flashcard"
	case Cloze:
		return "cloze"
	case FillIn:
		return "fill-in"
	case MultipleChoice:
		return "multiple-choice"
	default:
		return fmt.Sprintf("CardType(%d)", int(t))
	}
}

// Valid reports whether t is one of the known card types.
func (t CardType) Valid() bool {
	return t >= Flashcard && t <= MultipleChoice
}

// ParseCardType maps a type name back to its CardType.
func ParseCardType(s string) (CardType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "flashcard":
		return Flashcard, nil
	case "cloze":
		return Cloze, nil
	case "fill-in", "fillin":
		return FillIn, nil
	case "multiple-choice", "multiplechoice":
		return MultipleChoice, nil
	}
	return 0, fmt.Errorf("unknown card type %q", s)
}

// ReviewState is the Leitner scheduling state of a card.
type ReviewState struct {
	Box            int `validate:"min=1,max=3"`
	NextReviewDate time.Time
}

// NewReviewState returns the state of a freshly created card: box 1, due now.
func NewReviewState(now time.Time) ReviewState {
	return ReviewState{Box: 1, NextReviewDate: now}
}

// Due reports whether the card may be studied at now.
func (s ReviewState) Due(now time.Time) bool {
	return !s.NextReviewDate.After(now)
}

// Card is a single study item. Which content fields are meaningful depends
// on Type:
//
//	Flashcard:      Front, Back
//	Cloze:          Text, with hidden words marked {{word}}
//	FillIn:         Front, with blanks marked ___; Answers[i] answers blank i
//	MultipleChoice: Front, Choices, and the correct subset in Answers
type Card struct {
	ID      int64
	StackID int64
	Type    CardType `validate:"required"`
	Front   string
	Back    string
	Text    string
	Answers []string
	Choices []string

	// Hash fingerprints the content for import de-duplication.
	Hash string

	Review ReviewState
}
