package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/conorfennell/flashstack/internal/domain"
)

const cardColumns = `id, stack_id, type, front, back, text, answers, choices, hash, box, next_review_ts`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(row rowScanner) (domain.Card, error) {
	var (
		c                domain.Card
		answers, choices string
		nextReviewTs     int64
	)
	if err := row.Scan(
		&c.ID,
		&c.StackID,
		&c.Type,
		&c.Front,
		&c.Back,
		&c.Text,
		&answers,
		&choices,
		&c.Hash,
		&c.Review.Box,
		&nextReviewTs,
	); err != nil {
		return c, err
	}
	if !c.Type.Valid() {
		return c, fmt.Errorf("card %d has unknown type %d", c.ID, int(c.Type))
	}
	if err := json.Unmarshal([]byte(answers), &c.Answers); err != nil {
		return c, fmt.Errorf("failed to decode answers of card %d: %w", c.ID, err)
	}
	if err := json.Unmarshal([]byte(choices), &c.Choices); err != nil {
		return c, fmt.Errorf("failed to decode choices of card %d: %w", c.ID, err)
	}
	c.Review.NextReviewDate = time.Unix(nextReviewTs, 0).UTC()
	return c, nil
}

func encodeList(items []string) (string, error) {
	if items == nil {
		items = []string{}
	}
	b, err := json.Marshal(items)
	return string(b), err
}

// InsertCard stores a new card in its stack and returns its ID.
// A card without a review state starts in box 1, due immediately.
func (db *DB) InsertCard(ctx context.Context, card domain.Card) (int64, error) {
	if card.Review.Box == 0 {
		card.Review = domain.NewReviewState(time.Now())
	}
	answers, err := encodeList(card.Answers)
	if err != nil {
		return 0, fmt.Errorf("failed to encode answers: %w", err)
	}
	choices, err := encodeList(card.Choices)
	if err != nil {
		return 0, fmt.Errorf("failed to encode choices: %w", err)
	}

	res, err := db.conn.ExecContext(ctx, `
		INSERT INTO cards (stack_id, type, front, back, text, answers, choices, hash, box, next_review_ts)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		card.StackID,
		card.Type,
		card.Front,
		card.Back,
		card.Text,
		answers,
		choices,
		card.Hash,
		card.Review.Box,
		card.Review.NextReviewDate.Unix(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert card into stack %d: %w", card.StackID, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID for card: %w", err)
	}
	return id, nil
}

// GetCard retrieves a card by ID. It returns nil if there is none.
func (db *DB) GetCard(ctx context.Context, id int64) (*domain.Card, error) {
	row := db.conn.QueryRowContext(ctx, `SELECT `+cardColumns+` FROM cards WHERE id = ?`, id)
	c, err := scanCard(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Card not found
		}
		return nil, fmt.Errorf("failed to find card %d: %w", id, err)
	}
	return &c, nil
}

// FindCardByHash retrieves a card of a stack by its content hash. It returns
// nil if there is none.
func (db *DB) FindCardByHash(ctx context.Context, stackID int64, hash string) (*domain.Card, error) {
	row := db.conn.QueryRowContext(ctx, `
		SELECT `+cardColumns+`
		FROM cards WHERE stack_id = ? AND hash = ?
	`, stackID, hash)
	c, err := scanCard(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Card not found
		}
		return nil, fmt.Errorf("failed to find card by hash %s: %w", hash, err)
	}
	return &c, nil
}

// GetCardsByStack retrieves all cards of a stack in insertion order.
func (db *DB) GetCardsByStack(ctx context.Context, stackID int64) ([]domain.Card, error) {
	return db.queryCards(ctx, `
		SELECT `+cardColumns+`
		FROM cards WHERE stack_id = ?
		ORDER BY id
	`, stackID)
}

// GetDueCards retrieves the cards of a stack whose next review date is not
// after now, most overdue first.
func (db *DB) GetDueCards(ctx context.Context, stackID int64, now time.Time) ([]domain.Card, error) {
	return db.queryCards(ctx, `
		SELECT `+cardColumns+`
		FROM cards WHERE stack_id = ? AND next_review_ts <= ?
		ORDER BY next_review_ts, id
	`, stackID, now.Unix())
}

func (db *DB) queryCards(ctx context.Context, query string, args ...any) ([]domain.Card, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query cards: %w", err)
	}
	defer rows.Close()

	var cards []domain.Card
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan card row: %w", err)
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

// UpdateSchedulingState records a card's new box and next review date.
func (db *DB) UpdateSchedulingState(ctx context.Context, cardID int64, box int, nextReviewDate time.Time) error {
	res, err := db.conn.ExecContext(ctx, `
		UPDATE cards
		SET box = ?, next_review_ts = ?
		WHERE id = ?
	`, box, nextReviewDate.Unix(), cardID)
	if err != nil {
		return fmt.Errorf("failed to update scheduling state for card %d: %w", cardID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("failed to update scheduling state: card %d not found", cardID)
	}
	return nil
}

// DeleteCard removes a card from the database by its ID.
func (db *DB) DeleteCard(ctx context.Context, id int64) error {
	if _, err := db.conn.ExecContext(ctx, `DELETE FROM cards WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete card %d: %w", id, err)
	}
	return nil
}
