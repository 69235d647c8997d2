package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conorfennell/flashstack/internal/domain"
	"github.com/conorfennell/flashstack/internal/study"
)

type fakeStore struct {
	stacks   []domain.Stack
	sessions []domain.StudySession
	counts   []domain.MonthlyCountRow
	averages []domain.MonthlyAverageRow
	err      error
	years    []int
}

func (f *fakeStore) ListStacks(context.Context) ([]domain.Stack, error) {
	return f.stacks, f.err
}

func (f *fakeStore) GetAllSessions(context.Context) ([]domain.StudySession, error) {
	return f.sessions, f.err
}

func (f *fakeStore) HasAnySession(context.Context) (bool, error) {
	return len(f.sessions) > 0, nil
}

func (f *fakeStore) GetMonthlyCountReport(_ context.Context, year int) ([]domain.MonthlyCountRow, error) {
	f.years = append(f.years, year)
	return f.counts, f.err
}

func (f *fakeStore) GetMonthlyAverageReport(_ context.Context, year int) ([]domain.MonthlyAverageRow, error) {
	f.years = append(f.years, year)
	return f.averages, f.err
}

func newTestServer(store *fakeStore) *Server {
	s := NewServer(store, study.NewHistory(store))
	s.now = func() time.Time { return time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC) }
	return s
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealth(t *testing.T) {
	rec := get(t, newTestServer(&fakeStore{}), "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestGetStacks(t *testing.T) {
	store := &fakeStore{stacks: []domain.Stack{{ID: 1, Name: "Polish"}}}
	rec := get(t, newTestServer(store), "/stacks")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"id":1,"name":"Polish"}]`, rec.Body.String())
}

func TestGetSessions(t *testing.T) {
	date := time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)
	store := &fakeStore{sessions: []domain.StudySession{{ID: 1, StackID: 2, Date: date, Score: 3}}}
	rec := get(t, newTestServer(store), "/sessions")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"id":1,"stack_id":2,"date":"2026-02-03T04:05:06Z","score":3}]`, rec.Body.String())
}

func TestMonthlyReports(t *testing.T) {
	t.Run("no sessions yields an empty report", func(t *testing.T) {
		store := &fakeStore{}
		rec := get(t, newTestServer(store), "/reports/sessions?year=2026")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"year":2026,"rows":[]}`, rec.Body.String())
		assert.Empty(t, store.years)
	})

	t.Run("counts", func(t *testing.T) {
		store := &fakeStore{
			sessions: []domain.StudySession{{ID: 1}},
			counts:   []domain.MonthlyCountRow{{StackID: 1, StackName: "Polish", Months: [12]int{0: 2}}},
		}
		rec := get(t, newTestServer(store), "/reports/sessions")

		require.Equal(t, http.StatusOK, rec.Code)
		var resp reportResponse[countRowResponse]
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 2026, resp.Year, "defaults to the current year")
		require.Len(t, resp.Rows, 1)
		assert.Equal(t, 2, resp.Rows[0].Months[0])
	})

	t.Run("averages", func(t *testing.T) {
		store := &fakeStore{
			sessions: []domain.StudySession{{ID: 1}},
			averages: []domain.MonthlyAverageRow{{StackID: 1, StackName: "Polish", Months: [12]float64{4: 2.5}}},
		}
		rec := get(t, newTestServer(store), "/reports/scores?year=2025")

		require.Equal(t, http.StatusOK, rec.Code)
		var resp reportResponse[averageRowResponse]
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, []int{2025}, store.years)
		assert.InDelta(t, 2.5, resp.Rows[0].Months[4], 0.001)
	})

	t.Run("invalid year", func(t *testing.T) {
		rec := get(t, newTestServer(&fakeStore{}), "/reports/scores?year=last")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("store failure", func(t *testing.T) {
		store := &fakeStore{sessions: []domain.StudySession{{ID: 1}}, err: errors.New("boom")}
		rec := get(t, newTestServer(store), "/reports/sessions?year=2026")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "boom")
	})
}

type failingWriter struct {
	header http.Header
}

func (f *failingWriter) Header() http.Header { return f.header }
func (f *failingWriter) WriteHeader(int) {}
func (f *failingWriter) Write([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestWriteJSONLogsEncodeFailure(t *testing.T) {
	var logs bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&logs, nil)))
	defer slog.SetDefault(prev)

	writeJSON(&failingWriter{header: http.Header{}}, http.StatusOK, map[string]string{"status": "ok"})

	assert.Contains(t, logs.String(), "Error encoding response")
	assert.Contains(t, logs.String(), "connection reset")
}
