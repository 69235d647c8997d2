// Package importer reconciles markdown decks into stacks and cards.
// Each .md file is one stack named after the file.
package importer

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/conorfennell/flashstack/internal/domain"
	"github.com/conorfennell/flashstack/internal/fingerprint"
	"github.com/conorfennell/flashstack/internal/gitsource"
	"github.com/conorfennell/flashstack/internal/grading"
	"github.com/conorfennell/flashstack/internal/parser"
)

// Store is the subset of storage the importer needs.
type Store interface {
	FindStackByName(ctx context.Context, name string) (*domain.Stack, error)
	CreateStack(ctx context.Context, name string) (*domain.Stack, error)
	FindCardByHash(ctx context.Context, stackID int64, hash string) (*domain.Card, error)
	InsertCard(ctx context.Context, card domain.Card) (int64, error)
	GetCardsByStack(ctx context.Context, stackID int64) ([]domain.Card, error)
	DeleteCard(ctx context.Context, id int64) error
}

// Report summarizes one import.
type Report struct {
	Stacks   int
	Inserted int
	Deleted  int
	Errors   []error
}

type Importer struct {
	store    Store
	reposDir string
	progress io.Writer
	now      func() time.Time
	logger   *slog.Logger
}

// New creates an Importer that clones git sources under reposDir.
func New(store Store, reposDir string, progress io.Writer) *Importer {
	return &Importer{
		store:    store,
		reposDir: reposDir,
		progress: progress,
		now:      time.Now,
		logger:   slog.Default(),
	}
}

// Import reads every deck below source, which is either a local directory
// or a git URL that is cloned (or pulled) first. New cards are inserted in
// box 1 and cards that disappeared from a deck are deleted; existing cards
// keep their scheduling state. Per-card problems are collected in the
// report rather than aborting the import.
func (im *Importer) Import(ctx context.Context, source string) (Report, error) {
	dir := source
	if gitsource.IsURL(source) {
		localPath, err := gitsource.LocalPath(im.reposDir, source)
		if err != nil {
			return Report{}, err
		}
		if err := os.MkdirAll(filepath.Dir(localPath), os.ModePerm); err != nil {
			return Report{}, fmt.Errorf("failed to create repos directory: %w", err)
		}
		if err := gitsource.Sync(ctx, source, localPath, im.progress); err != nil {
			return Report{}, err
		}
		dir = localPath
	}

	im.logger.Info("Starting import", "source", source, "path", dir)

	var report Report
	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(strings.ToLower(d.Name()), ".md") {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		im.reconcileDeck(ctx, path, &report)
		return nil
	})
	if walkErr != nil {
		return report, fmt.Errorf("error walking directory %s: %w", dir, walkErr)
	}

	im.logger.Info("Import complete",
		"path", dir,
		"stacks", report.Stacks,
		"inserted", report.Inserted,
		"orphaned_deleted", report.Deleted,
		"errors", len(report.Errors),
	)
	return report, nil
}

// StackName derives the stack name of a deck file.
func StackName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func (im *Importer) reconcileDeck(ctx context.Context, path string, report *Report) {
	cards, err := parser.ParseFile(path)
	if err != nil {
		report.Errors = append(report.Errors, fmt.Errorf("parsing %s: %w", path, err))
		return
	}

	name := StackName(path)
	stack, err := im.store.FindStackByName(ctx, name)
	if err != nil {
		report.Errors = append(report.Errors, fmt.Errorf("db check for stack %s: %w", name, err))
		return
	}
	if stack == nil {
		im.logger.Info("New stack found, creating...", "name", name)
		if stack, err = im.store.CreateStack(ctx, name); err != nil {
			report.Errors = append(report.Errors, fmt.Errorf("db insert for stack %s: %w", name, err))
			return
		}
	}
	report.Stacks++

	foundCardHashes := make(map[string]bool)
	for _, card := range cards {
		card.StackID = stack.ID
		card.Hash = fingerprint.Hash(card)
		card.Review = domain.NewReviewState(im.now())
		if err := grading.Validate(card); err != nil {
			report.Errors = append(report.Errors, fmt.Errorf("%s: %w", path, err))
			continue
		}
		foundCardHashes[card.Hash] = true

		existing, err := im.store.FindCardByHash(ctx, stack.ID, card.Hash)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Errorf("db check for %s: %w", card.Hash, err))
			continue
		}
		if existing != nil {
			continue
		}
		im.logger.Debug("New card found, inserting...", "stack", name, "hash", card.Hash)
		if _, err := im.store.InsertCard(ctx, card); err != nil {
			report.Errors = append(report.Errors, fmt.Errorf("db insert for %s: %w", card.Hash, err))
			continue
		}
		report.Inserted++
	}

	dbCards, err := im.store.GetCardsByStack(ctx, stack.ID)
	if err != nil {
		report.Errors = append(report.Errors, fmt.Errorf("db list for stack %s: %w", name, err))
		return
	}
	for _, dbCard := range dbCards {
		if dbCard.Hash == "" || foundCardHashes[dbCard.Hash] {
			continue
		}
		im.logger.Info("Orphaned card, deleting", "stack", name, "hash", dbCard.Hash)
		if err := im.store.DeleteCard(ctx, dbCard.ID); err != nil {
			im.logger.Warn("Failed to delete orphaned card", "hash", dbCard.Hash, "error", err)
			continue
		}
		report.Deleted++
	}
}
