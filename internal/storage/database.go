package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"modernc.org/sqlite" // Registers the sqlite driver
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/conorfennell/flashstack/internal/domain"
)

// ErrStackExists is returned when creating a stack whose name is taken.
var ErrStackExists = errors.New("stack already exists")

var validate = validator.New(validator.WithRequiredStructEnabled())

// DB represents a wrapper around the SQL database connection.
type DB struct {
	conn *sql.DB
}

// Open creates a new database connection and ensures the schema is up to date.
func Open(dsn string) (*DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Pragmas are per connection; a single connection keeps foreign keys on.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := db.Exec(`PRAGMA foreign_keys = ON; PRAGMA busy_timeout = 5000;`); err != nil {
		return nil, fmt.Errorf("failed to set pragmas: %w", err)
	}

	// Execute the schema to create tables if they don't exist.
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &DB{conn: db}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) && se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// CreateStack inserts a new stack and returns it with its ID.
func (db *DB) CreateStack(ctx context.Context, name string) (*domain.Stack, error) {
	stack := domain.Stack{Name: name}
	if err := validate.Struct(stack); err != nil {
		return nil, fmt.Errorf("invalid stack: %w", err)
	}

	res, err := db.conn.ExecContext(ctx, `INSERT INTO stacks (name) VALUES (?)`, name)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %s", ErrStackExists, name)
		}
		return nil, fmt.Errorf("failed to insert stack %s: %w", name, err)
	}
	stack.ID, err = res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert ID for stack %s: %w", name, err)
	}
	return &stack, nil
}

// GetStack retrieves a stack by ID. It returns nil if there is none.
func (db *DB) GetStack(ctx context.Context, id int64) (*domain.Stack, error) {
	var s domain.Stack
	err := db.conn.QueryRowContext(ctx, `SELECT id, name FROM stacks WHERE id = ?`, id).Scan(&s.ID, &s.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Stack not found
		}
		return nil, fmt.Errorf("failed to find stack %d: %w", id, err)
	}
	return &s, nil
}

// FindStackByName retrieves a stack by its unique name. It returns nil if
// there is none.
func (db *DB) FindStackByName(ctx context.Context, name string) (*domain.Stack, error) {
	var s domain.Stack
	err := db.conn.QueryRowContext(ctx, `SELECT id, name FROM stacks WHERE name = ?`, name).Scan(&s.ID, &s.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Stack not found
		}
		return nil, fmt.Errorf("failed to find stack by name %s: %w", name, err)
	}
	return &s, nil
}

// StackExists reports whether a stack with the given name exists.
func (db *DB) StackExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := db.conn.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM stacks WHERE name = ?)`, name).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check stack %s: %w", name, err)
	}
	return exists, nil
}

// ListStacks returns all stacks ordered by name.
func (db *DB) ListStacks(ctx context.Context) ([]domain.Stack, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT id, name FROM stacks ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list stacks: %w", err)
	}
	defer rows.Close()

	var stacks []domain.Stack
	for rows.Next() {
		var s domain.Stack
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, fmt.Errorf("failed to scan stack row: %w", err)
		}
		stacks = append(stacks, s)
	}
	return stacks, rows.Err()
}

// DeleteStack removes a stack together with its cards and study sessions.
func (db *DB) DeleteStack(ctx context.Context, id int64) error {
	if _, err := db.conn.ExecContext(ctx, `DELETE FROM stacks WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete stack %d: %w", id, err)
	}
	return nil
}
