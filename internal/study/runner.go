package study

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/conorfennell/flashstack/internal/domain"
	"github.com/conorfennell/flashstack/internal/grading"
	"github.com/conorfennell/flashstack/internal/leitner"
)

// Runner drives a single study session at a time.
type Runner struct {
	cards    CardStore
	sessions SessionStore
	input    AnswerInput
	now      func() time.Time
	logger   *slog.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithClock replaces time.Now as the source of the current time.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

// WithLogger sets the logger used for per-card events.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) { r.logger = logger }
}

// NewRunner creates a Runner.
func NewRunner(cards CardStore, sessions SessionStore, input AnswerInput, opts ...Option) *Runner {
	r := &Runner{
		cards:    cards,
		sessions: sessions,
		input:    input,
		now:      time.Now,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RunDue studies every card of the stack that is due now.
func (r *Runner) RunDue(ctx context.Context, stackID int64) (domain.StudySession, error) {
	if stackID == 0 {
		return domain.StudySession{}, ErrNoStackSelected
	}
	cards, err := r.cards.GetDueCards(ctx, stackID, r.now())
	if err != nil {
		return domain.StudySession{}, persistenceError("get due cards", err)
	}
	return r.Run(ctx, stackID, cards)
}

// Run asks for an answer to each card in order, grades it, reschedules the
// card and finally records the session with the number of correct answers.
//
// Nothing is recorded if cards is empty, if asking for an answer fails, or if
// the session insert fails. Rescheduling a single card is best effort: a
// failed update is logged and the session carries on.
func (r *Runner) Run(ctx context.Context, stackID int64, cards []domain.Card) (domain.StudySession, error) {
	if len(cards) == 0 {
		return domain.StudySession{}, ErrCardsNotFound
	}

	score := 0
	for _, card := range cards {
		answers, err := r.ask(ctx, card)
		if err != nil {
			return domain.StudySession{}, fmt.Errorf("failed to read answer for card %d: %w", card.ID, err)
		}

		correct := grading.Evaluate(card, answers)
		if correct {
			score++
		}
		if fb, ok := r.input.(Feedback); ok {
			fb.ShowResult(card, correct)
		}

		r.reschedule(ctx, card, correct)
	}

	session := domain.StudySession{
		StackID: stackID,
		Date:    r.now(),
		Score:   score,
	}
	id, err := r.sessions.InsertSession(ctx, session.StackID, session.Date, session.Score)
	if err != nil {
		return domain.StudySession{}, persistenceError("insert session", err)
	}
	session.ID = id

	r.logger.Info("study session recorded",
		"stack_id", stackID,
		"cards", len(cards),
		"score", score,
	)
	return session, nil
}

func (r *Runner) reschedule(ctx context.Context, card domain.Card, correct bool) {
	box, next := leitner.Schedule(correct, card.Review.Box, r.now())
	if err := r.cards.UpdateSchedulingState(ctx, card.ID, box, next); err != nil {
		r.logger.Warn("failed to update card schedule", "card_id", card.ID, "error", err)
		return
	}
	r.logger.Debug("card rescheduled",
		"card_id", card.ID,
		"correct", correct,
		"box", box,
		"next_review", next,
	)
}

// ask collects the answers a card needs: one per blank for cloze and
// fill-in cards, one comma separated selection for multiple choice, and a
// single answer otherwise.
func (r *Runner) ask(ctx context.Context, card domain.Card) ([]string, error) {
	switch card.Type {
	case domain.Cloze, domain.FillIn:
		text := card.Front
		if card.Type == domain.Cloze {
			text = grading.MaskCloze(card.Text)
		}
		blanks := grading.Blanks(card)
		answers := make([]string, 0, blanks)
		for i := 1; i <= blanks; i++ {
			a, err := r.input.AskAnswer(ctx, Prompt{Card: card, Text: text, Blank: i, Blanks: blanks})
			if err != nil {
				return nil, err
			}
			answers = append(answers, a)
		}
		return answers, nil

	case domain.MultipleChoice:
		a, err := r.input.AskAnswer(ctx, Prompt{Card: card, Text: card.Front, Blank: 1, Blanks: 1, Choices: card.Choices})
		if err != nil {
			return nil, err
		}
		return grading.SplitChoices(a), nil

	default:
		a, err := r.input.AskAnswer(ctx, Prompt{Card: card, Text: card.Front, Blank: 1, Blanks: 1})
		if err != nil {
			return nil, err
		}
		return []string{a}, nil
	}
}
