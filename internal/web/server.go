package web

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/conorfennell/flashstack/internal/domain"
	"github.com/conorfennell/flashstack/internal/study"
)

// StackLister lists stacks for the /stacks endpoint.
type StackLister interface {
	ListStacks(ctx context.Context) ([]domain.Stack, error)
}

// Server holds the dependencies for the HTTP server.
type Server struct {
	stacks  StackLister
	history *study.History
	router  chi.Router
	now     func() time.Time
}

// NewServer creates and configures a new server.
func NewServer(stacks StackLister, history *study.History) *Server {
	s := &Server{
		stacks:  stacks,
		history: history,
		router:  chi.NewRouter(),
		now:     time.Now,
	}
	s.routes()
	return s
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// routes sets up the routing for the server.
func (s *Server) routes() {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.Logger)
	s.router.Use(chimiddleware.Recoverer)

	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	s.router.Get("/stacks", s.handleGetStacks)
	s.router.Get("/sessions", s.handleGetSessions)
	s.router.Route("/reports", func(r chi.Router) {
		r.Get("/sessions", s.handleMonthlyCounts)
		r.Get("/scores", s.handleMonthlyAverages)
	})
}

type stackResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type sessionResponse struct {
	ID      int64     `json:"id"`
	StackID int64     `json:"stack_id"`
	Date    time.Time `json:"date"`
	Score   int       `json:"score"`
}

type countRowResponse struct {
	StackID   int64   `json:"stack_id"`
	StackName string  `json:"stack_name"`
	Months    [12]int `json:"months"`
}

type averageRowResponse struct {
	StackID   int64       `json:"stack_id"`
	StackName string      `json:"stack_name"`
	Months    [12]float64 `json:"months"`
}

type reportResponse[T any] struct {
	Year int `json:"year"`
	Rows []T `json:"rows"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Error encoding response", "status", status, "error", err)
	}
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	slog.Error(msg, "path", r.URL.Path, "request_id", chimiddleware.GetReqID(r.Context()), "error", err)
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
}

// yearParam reads ?year=, defaulting to the current year.
func (s *Server) yearParam(r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("year")
	if raw == "" {
		return s.now().Year(), true
	}
	year, err := strconv.Atoi(raw)
	if err != nil || year < 1970 || year > 9999 {
		return 0, false
	}
	return year, true
}

func (s *Server) handleGetStacks(w http.ResponseWriter, r *http.Request) {
	stacks, err := s.stacks.ListStacks(r.Context())
	if err != nil {
		s.internalError(w, r, "Error listing stacks", err)
		return
	}
	resp := make([]stackResponse, 0, len(stacks))
	for _, st := range stacks {
		resp = append(resp, stackResponse{ID: st.ID, Name: st.Name})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.history.AllSessions(r.Context())
	if err != nil {
		s.internalError(w, r, "Error getting sessions", err)
		return
	}
	resp := make([]sessionResponse, 0, len(sessions))
	for _, ss := range sessions {
		resp = append(resp, sessionResponse{ID: ss.ID, StackID: ss.StackID, Date: ss.Date, Score: ss.Score})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMonthlyCounts(w http.ResponseWriter, r *http.Request) {
	year, ok := s.yearParam(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid year"})
		return
	}
	rows, err := s.history.MonthlyReport(r.Context(), year)
	if err != nil {
		s.internalError(w, r, "Error building monthly report", err)
		return
	}
	resp := reportResponse[countRowResponse]{Year: year, Rows: make([]countRowResponse, 0, len(rows))}
	for _, row := range rows {
		resp.Rows = append(resp.Rows, countRowResponse(row))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMonthlyAverages(w http.ResponseWriter, r *http.Request) {
	year, ok := s.yearParam(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid year"})
		return
	}
	rows, err := s.history.MonthlyAverageScoreReport(r.Context(), year)
	if err != nil {
		s.internalError(w, r, "Error building average score report", err)
		return
	}
	resp := reportResponse[averageRowResponse]{Year: year, Rows: make([]averageRowResponse, 0, len(rows))}
	for _, row := range rows {
		resp.Rows = append(resp.Rows, averageRowResponse(row))
	}
	writeJSON(w, http.StatusOK, resp)
}
