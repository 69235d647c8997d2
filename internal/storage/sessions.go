package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/conorfennell/flashstack/internal/domain"
)

// InsertSession records a finished study session and returns its ID.
func (db *DB) InsertSession(ctx context.Context, stackID int64, date time.Time, score int) (int64, error) {
	res, err := db.conn.ExecContext(ctx, `
		INSERT INTO study_sessions (stack_id, performed_ts, score)
		VALUES (?, ?, ?)
	`, stackID, date.Unix(), score)
	if err != nil {
		return 0, fmt.Errorf("failed to insert study session for stack %d: %w", stackID, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID for study session: %w", err)
	}
	return id, nil
}

// GetAllSessions retrieves every study session, oldest first.
func (db *DB) GetAllSessions(ctx context.Context) ([]domain.StudySession, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, stack_id, performed_ts, score
		FROM study_sessions
		ORDER BY performed_ts, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get all study sessions: %w", err)
	}
	defer rows.Close()

	var sessions []domain.StudySession
	for rows.Next() {
		var (
			s  domain.StudySession
			ts int64
		)
		if err := rows.Scan(&s.ID, &s.StackID, &ts, &s.Score); err != nil {
			return nil, fmt.Errorf("failed to scan study session row: %w", err)
		}
		s.Date = time.Unix(ts, 0).UTC()
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// HasAnySession reports whether at least one study session was recorded.
func (db *DB) HasAnySession(ctx context.Context) (bool, error) {
	var exists bool
	if err := db.conn.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM study_sessions)`).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check for study sessions: %w", err)
	}
	return exists, nil
}

// monthlyAggregate is one (stack, month) group of sessions in a year.
type monthlyAggregate struct {
	stackID   int64
	stackName string
	month     int
	count     int
	average   float64
}

func (db *DB) monthlyAggregates(ctx context.Context, year int) ([]monthlyAggregate, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT
			st.id,
			st.name,
			CAST(strftime('%m', ss.performed_ts, 'unixepoch') AS INTEGER) AS month,
			COUNT(*),
			AVG(ss.score)
		FROM study_sessions ss
		JOIN stacks st ON st.id = ss.stack_id
		WHERE strftime('%Y', ss.performed_ts, 'unixepoch') = ?
		GROUP BY st.id, month
		ORDER BY st.name, month
	`, fmt.Sprintf("%04d", year))
	if err != nil {
		return nil, fmt.Errorf("failed to query monthly report for %d: %w", year, err)
	}
	defer rows.Close()

	var aggregates []monthlyAggregate
	for rows.Next() {
		var a monthlyAggregate
		if err := rows.Scan(&a.stackID, &a.stackName, &a.month, &a.count, &a.average); err != nil {
			return nil, fmt.Errorf("failed to scan monthly report row: %w", err)
		}
		aggregates = append(aggregates, a)
	}
	return aggregates, rows.Err()
}

// GetMonthlyCountReport returns, per stack with sessions in year, the number
// of sessions in each month. Rows are ordered by stack name.
func (db *DB) GetMonthlyCountReport(ctx context.Context, year int) ([]domain.MonthlyCountRow, error) {
	aggregates, err := db.monthlyAggregates(ctx, year)
	if err != nil {
		return nil, err
	}

	rows := []domain.MonthlyCountRow{}
	for _, a := range aggregates {
		if len(rows) == 0 || rows[len(rows)-1].StackID != a.stackID {
			rows = append(rows, domain.MonthlyCountRow{StackID: a.stackID, StackName: a.stackName})
		}
		rows[len(rows)-1].Months[a.month-1] = a.count
	}
	return rows, nil
}

// GetMonthlyAverageReport returns, per stack with sessions in year, the mean
// session score in each month. Rows are ordered by stack name.
func (db *DB) GetMonthlyAverageReport(ctx context.Context, year int) ([]domain.MonthlyAverageRow, error) {
	aggregates, err := db.monthlyAggregates(ctx, year)
	if err != nil {
		return nil, err
	}

	rows := []domain.MonthlyAverageRow{}
	for _, a := range aggregates {
		if len(rows) == 0 || rows[len(rows)-1].StackID != a.stackID {
			rows = append(rows, domain.MonthlyAverageRow{StackID: a.stackID, StackName: a.stackName})
		}
		rows[len(rows)-1].Months[a.month-1] = a.average
	}
	return rows, nil
}
