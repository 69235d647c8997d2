package study

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/conorfennell/flashstack/internal/domain"
)

// MockCardStore is a mock for CardStore
type MockCardStore struct {
	mock.Mock
}

func (m *MockCardStore) GetDueCards(ctx context.Context, stackID int64, now time.Time) ([]domain.Card, error) {
	args := m.Called(ctx, stackID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Card), args.Error(1)
}

func (m *MockCardStore) UpdateSchedulingState(ctx context.Context, cardID int64, box int, next time.Time) error {
	args := m.Called(ctx, cardID, box, next)
	return args.Error(0)
}

// MockSessionStore is a mock for SessionStore and ReportStore
type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) InsertSession(ctx context.Context, stackID int64, date time.Time, score int) (int64, error) {
	args := m.Called(ctx, stackID, date, score)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSessionStore) GetAllSessions(ctx context.Context) ([]domain.StudySession, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StudySession), args.Error(1)
}

func (m *MockSessionStore) HasAnySession(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func (m *MockSessionStore) GetMonthlyCountReport(ctx context.Context, year int) ([]domain.MonthlyCountRow, error) {
	args := m.Called(ctx, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MonthlyCountRow), args.Error(1)
}

func (m *MockSessionStore) GetMonthlyAverageReport(ctx context.Context, year int) ([]domain.MonthlyAverageRow, error) {
	args := m.Called(ctx, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MonthlyAverageRow), args.Error(1)
}

// scriptedInput replays canned answers in order.
type scriptedInput struct {
	answers []string
	prompts []Prompt
	results []bool
	err     error
}

func (s *scriptedInput) AskAnswer(_ context.Context, p Prompt) (string, error) {
	s.prompts = append(s.prompts, p)
	if s.err != nil {
		return "", s.err
	}
	if len(s.answers) == 0 {
		return "", nil
	}
	a := s.answers[0]
	s.answers = s.answers[1:]
	return a, nil
}

func (s *scriptedInput) ShowResult(_ domain.Card, correct bool) {
	s.results = append(s.results, correct)
}
