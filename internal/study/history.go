package study

import (
	"context"

	"github.com/conorfennell/flashstack/internal/domain"
)

// History builds monthly reports from recorded sessions.
type History struct {
	store ReportStore
}

func NewHistory(store ReportStore) *History {
	return &History{store: store}
}

// AllSessions returns every recorded session.
func (h *History) AllSessions(ctx context.Context) ([]domain.StudySession, error) {
	sessions, err := h.store.GetAllSessions(ctx)
	if err != nil {
		return nil, persistenceError("get all sessions", err)
	}
	return sessions, nil
}

// MonthlyReport counts sessions per stack and month of year. It returns an
// empty result, not an error, when no session has ever been recorded.
func (h *History) MonthlyReport(ctx context.Context, year int) ([]domain.MonthlyCountRow, error) {
	ok, err := h.store.HasAnySession(ctx)
	if err != nil {
		return nil, persistenceError("check sessions", err)
	}
	if !ok {
		return []domain.MonthlyCountRow{}, nil
	}

	rows, err := h.store.GetMonthlyCountReport(ctx, year)
	if err != nil {
		return nil, persistenceError("monthly count report", err)
	}
	return rows, nil
}

// MonthlyAverageScoreReport averages session scores per stack and month of
// year, with the same empty-history behavior as MonthlyReport.
func (h *History) MonthlyAverageScoreReport(ctx context.Context, year int) ([]domain.MonthlyAverageRow, error) {
	ok, err := h.store.HasAnySession(ctx)
	if err != nil {
		return nil, persistenceError("check sessions", err)
	}
	if !ok {
		return []domain.MonthlyAverageRow{}, nil
	}

	rows, err := h.store.GetMonthlyAverageReport(ctx, year)
	if err != nil {
		return nil, persistenceError("monthly average report", err)
	}
	return rows, nil
}
