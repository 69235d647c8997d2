package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/conorfennell/flashstack/internal/config"
	"github.com/conorfennell/flashstack/internal/console"
	"github.com/conorfennell/flashstack/internal/domain"
	"github.com/conorfennell/flashstack/internal/importer"
	"github.com/conorfennell/flashstack/internal/storage"
	"github.com/conorfennell/flashstack/internal/study"
	"github.com/conorfennell/flashstack/internal/web"
)

// app carries what every subcommand needs once configuration is loaded.
type app struct {
	cfg    *config.Config
	db     *storage.DB
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "flashstack",
		Short:         "Study flashcard stacks with a Leitner schedule",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = cfg.NewLogger()
			slog.SetDefault(a.logger)

			db, err := storage.Open(cfg.DB)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			a.db = db
			a.logger.Debug("Database opened successfully", "path", cfg.DB)
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.db != nil {
				return a.db.Close()
			}
			return nil
		},
	}
	config.RegisterFlags(root.PersistentFlags())

	root.AddCommand(
		a.stackCmd(),
		a.studyCmd(),
		a.sessionsCmd(),
		a.reportCmd(),
		a.importCmd(),
		a.serveCmd(),
	)
	return root
}

// findStack resolves a stack name, failing with study.ErrNotFound if there
// is no such stack.
func (a *app) findStack(ctx context.Context, name string) (*domain.Stack, error) {
	stack, err := a.db.FindStackByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if stack == nil {
		return nil, fmt.Errorf("stack %q: %w", name, study.ErrNotFound)
	}
	return stack, nil
}

func (a *app) stackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stack",
		Short: "Manage stacks",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <name>",
		Short: "Create an empty stack",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stack, err := a.db.CreateStack(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created stack %q (id %d)\n", stack.Name, stack.ID)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List stacks with their card and due counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			stacks, err := a.db.ListStacks(ctx)
			if err != nil {
				return err
			}
			if len(stacks) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No stacks yet. Create one with 'stack add' or 'import'.")
				return nil
			}
			now := time.Now()
			for _, s := range stacks {
				cards, err := a.db.GetCardsByStack(ctx, s.ID)
				if err != nil {
					return err
				}
				due := 0
				for _, c := range cards {
					if c.Review.Due(now) {
						due++
					}
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-24s %4d cards %4d due\n", s.Name, len(cards), due)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a stack with its cards and study sessions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stack, err := a.findStack(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := a.db.DeleteStack(cmd.Context(), stack.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted stack %q\n", stack.Name)
			return nil
		},
	})

	return cmd
}

func (a *app) studyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "study <stack>",
		Short: "Run a study session over the stack's due cards",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			stack, err := a.findStack(ctx, args[0])
			if err != nil {
				return err
			}

			prompter := console.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
			runner := study.NewRunner(a.db, a.db, prompter, study.WithLogger(a.logger))

			session, err := runner.RunDue(ctx, stack.ID)
			if errors.Is(err, study.ErrCardsNotFound) {
				fmt.Fprintf(cmd.OutOrStdout(), "Nothing to study in %q right now.\n", stack.Name)
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\nSession finished: %d correct.\n", session.Score)
			return nil
		},
	}
}

func (a *app) sessionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sessions",
		Short: "List all recorded study sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sessions, err := study.NewHistory(a.db).AllSessions(ctx)
			if err != nil {
				return err
			}
			stacks, err := a.db.ListStacks(ctx)
			if err != nil {
				return err
			}
			names := make(map[int64]string, len(stacks))
			for _, s := range stacks {
				names[s.ID] = s.Name
			}
			return console.WriteSessions(cmd.OutOrStdout(), sessions, names)
		},
	}
}

func (a *app) reportCmd() *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Monthly study reports",
	}
	cmd.PersistentFlags().IntVar(&year, "year", time.Now().Year(), "Year to report on")

	cmd.AddCommand(&cobra.Command{
		Use:   "sessions",
		Short: "Number of study sessions per stack and month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := study.NewHistory(a.db).MonthlyReport(cmd.Context(), year)
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No study sessions in %d.\n", year)
				return nil
			}
			return console.WriteCountReport(cmd.OutOrStdout(), rows)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "scores",
		Short: "Average session score per stack and month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := study.NewHistory(a.db).MonthlyAverageScoreReport(cmd.Context(), year)
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No study sessions in %d.\n", year)
				return nil
			}
			return console.WriteAverageReport(cmd.OutOrStdout(), rows)
		},
	})

	return cmd
}

func (a *app) importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <dir|git-url>",
		Short: "Import markdown decks; each .md file becomes a stack",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			im := importer.New(a.db, a.cfg.ReposDir, cmd.ErrOrStderr())
			report, err := im.Import(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d stacks: %d cards added, %d removed, %d errors.\n",
				report.Stacks, report.Inserted, report.Deleted, len(report.Errors))
			for _, e := range report.Errors {
				fmt.Fprintf(cmd.OutOrStdout(), "- %s\n", e)
			}
			return nil
		},
	}
}

func (a *app) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the read-only reporting API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := &http.Server{
				Addr:              a.cfg.HTTP.Addr,
				Handler:           web.NewServer(a.db, study.NewHistory(a.db)),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				a.logger.Info("Serving reports", "addr", srv.Addr)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				a.logger.Info("Shutting down")
				return srv.Shutdown(shutdownCtx)
			}
		},
	}
}
