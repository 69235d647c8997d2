package parser

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/conorfennell/flashstack/internal/domain"
	"github.com/conorfennell/flashstack/internal/grading"
)

const (
	questionPrefix = "Q:"
	answerPrefix   = "A:"
	choicePrefix   = "O:"
	clozePrefix    = "K:"
	separator      = "---"
)

type state int

const (
	seeking state = iota
	readingQuestion
	readingAnswer
	readingChoice
	readingCloze
)

// draft collects the fields of one card while it is being read.
type draft struct {
	front   string
	text    string
	answers []string
	choices []string
}

// card infers the card type from the fields that were present:
// a cloze text wins, then choices, then fill-in blanks in the question.
func (d draft) card() (domain.Card, bool) {
	switch {
	case d.text != "":
		return domain.Card{Type: domain.Cloze, Text: d.text}, true
	case d.front == "":
		return domain.Card{}, false
	case len(d.choices) > 0:
		return domain.Card{Type: domain.MultipleChoice, Front: d.front, Choices: d.choices, Answers: d.answers}, true
	case strings.Contains(d.front, grading.FillInBlank):
		return domain.Card{Type: domain.FillIn, Front: d.front, Answers: d.answers}, true
	default:
		return domain.Card{Type: domain.Flashcard, Front: d.front, Back: strings.Join(d.answers, "\n")}, true
	}
}

// ParseFile reads a file from the given path and extracts all cards.
func ParseFile(path string) ([]domain.Card, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads from an io.Reader and extracts all cards.
//
// A card starts at a "Q:" (question) or "K:" (cloze text) line. "A:" lines
// add answers and "O:" lines add multiple choice options; both may repeat.
// Lines without a prefix continue the previous field. "---" ends a card.
func Parse(r io.Reader) ([]domain.Card, error) {
	scanner := bufio.NewScanner(r)
	var cards []domain.Card
	var current draft
	var currentBlock []string
	currentState := seeking

	flushBlock := func() {
		if len(currentBlock) == 0 {
			return
		}
		content := strings.TrimRight(strings.Join(currentBlock, "\n"), "\n")
		switch currentState {
		case readingQuestion:
			current.front = content
		case readingCloze:
			current.text = content
		case readingAnswer:
			current.answers = append(current.answers, content)
		case readingChoice:
			current.choices = append(current.choices, content)
		}
		currentBlock = nil
	}

	finishCard := func() {
		flushBlock()
		if card, ok := current.card(); ok {
			cards = append(cards, card)
		}
		current = draft{}
		currentState = seeking
	}

	for scanner.Scan() {
		line := scanner.Text()

		if line == separator {
			finishCard()
			continue
		}

		prefix, next := "", seeking
		switch {
		case strings.HasPrefix(line, questionPrefix):
			prefix, next = questionPrefix, readingQuestion
		case strings.HasPrefix(line, clozePrefix):
			prefix, next = clozePrefix, readingCloze
		case strings.HasPrefix(line, answerPrefix):
			prefix, next = answerPrefix, readingAnswer
		case strings.HasPrefix(line, choicePrefix):
			prefix, next = choicePrefix, readingChoice
		}

		if next == seeking {
			if currentState != seeking {
				currentBlock = append(currentBlock, line)
			}
			continue
		}

		// A new question or cloze text always starts a new card.
		if (next == readingQuestion || next == readingCloze) && currentState != seeking {
			finishCard()
		}
		flushBlock()
		currentState = next
		currentBlock = append(currentBlock, strings.TrimPrefix(line[len(prefix):], " "))
	}

	finishCard() // Finish the very last card in the file

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return cards, nil
}
