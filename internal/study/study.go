// Package study runs graded study sessions over a stack's due cards and
// reports on the sessions that were recorded.
package study

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/conorfennell/flashstack/internal/domain"
)

// Error kinds. Use errors.Is to test for them.
var (
	ErrNotFound    = errors.New("not found")
	ErrPersistence = errors.New("persistence failure")
)

var (
	ErrCardsNotFound   = fmt.Errorf("%w: no cards to study", ErrNotFound)
	ErrNoStackSelected = fmt.Errorf("%w: no stack selected", ErrNotFound)
)

func persistenceError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrPersistence, op, err)
}

// CardStore reads due cards and records their scheduling state.
type CardStore interface {
	GetDueCards(ctx context.Context, stackID int64, now time.Time) ([]domain.Card, error)
	UpdateSchedulingState(ctx context.Context, cardID int64, box int, nextReviewDate time.Time) error
}

// SessionStore records finished sessions.
type SessionStore interface {
	InsertSession(ctx context.Context, stackID int64, date time.Time, score int) (int64, error)
}

// ReportStore reads recorded sessions back for reporting.
type ReportStore interface {
	GetAllSessions(ctx context.Context) ([]domain.StudySession, error)
	HasAnySession(ctx context.Context) (bool, error)
	GetMonthlyCountReport(ctx context.Context, year int) ([]domain.MonthlyCountRow, error)
	GetMonthlyAverageReport(ctx context.Context, year int) ([]domain.MonthlyAverageRow, error)
}

// Prompt is one request for an answer. Cloze and fill-in cards produce one
// prompt per blank; Blank is 1-based.
type Prompt struct {
	Card    domain.Card
	Text    string
	Blank   int
	Blanks  int
	Choices []string
}

// AnswerInput obtains answers from the person studying.
type AnswerInput interface {
	AskAnswer(ctx context.Context, p Prompt) (string, error)
}

// Feedback is optionally implemented by an AnswerInput that wants to show
// the outcome of each card.
type Feedback interface {
	ShowResult(card domain.Card, correct bool)
}
