// Package console talks to the person studying through a terminal.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/conorfennell/flashstack/internal/domain"
	"github.com/conorfennell/flashstack/internal/grading"
	"github.com/conorfennell/flashstack/internal/study"
)

// Prompter reads answers line by line from in and writes prompts to out.
// It implements study.AnswerInput and study.Feedback.
type Prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewScanner(in), out: out}
}

// AskAnswer shows the prompt and reads one line. For multiple choice the
// person may type option numbers, option text, or a mix, separated by
// commas; numbers are translated to the option text.
func (p *Prompter) AskAnswer(ctx context.Context, pr study.Prompt) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if pr.Blank <= 1 {
		fmt.Fprintf(p.out, "\n%s\n", pr.Text)
		for i, choice := range pr.Choices {
			fmt.Fprintf(p.out, "  %d) %s\n", i+1, choice)
		}
	}

	switch {
	case len(pr.Choices) > 0:
		fmt.Fprint(p.out, "Your choices (comma separated): ")
	case pr.Blanks > 1:
		fmt.Fprintf(p.out, "Blank %d of %d: ", pr.Blank, pr.Blanks)
	default:
		fmt.Fprint(p.out, "Your answer: ")
	}

	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", fmt.Errorf("failed to read answer: %w", err)
		}
		return "", io.EOF
	}
	line := strings.TrimRight(p.in.Text(), "\r")

	if len(pr.Choices) > 0 {
		return resolveChoices(line, pr.Choices), nil
	}
	return line, nil
}

func resolveChoices(line string, choices []string) string {
	parts := grading.SplitChoices(line)
	for i, part := range parts {
		if n, err := strconv.Atoi(part); err == nil && n >= 1 && n <= len(choices) {
			part = choices[n-1]
		}
		parts[i] = part
	}
	return strings.Join(parts, grading.ChoiceSeparator)
}

// ShowResult tells the person whether the card was answered correctly and
// what the expected answer was.
func (p *Prompter) ShowResult(card domain.Card, correct bool) {
	if correct {
		fmt.Fprintln(p.out, "Correct!")
		return
	}
	fmt.Fprintf(p.out, "Incorrect. Expected: %s\n", expectedAnswer(card))
}

func expectedAnswer(card domain.Card) string {
	switch card.Type {
	case domain.Cloze:
		return strings.Join(grading.ClozeWords(card.Text), ", ")
	case domain.FillIn, domain.MultipleChoice:
		return strings.Join(card.Answers, ", ")
	default:
		return card.Back
	}
}
