package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"curseddiff/catalog"
	"curseddiff/config"
	"curseddiff/history"
	"curseddiff/logger"
	"curseddiff/text"
	"curseddiff/ui"
	"curseddiff/viewer"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// openHistory builds the store for the configured backend. The returned close
// func is never nil.
func openHistory(cfg config.Config) (*history.Store, func() error, error) {
	switch cfg.HistoryBackend {
	case config.BackendMemory:
		return history.NewStore(history.NewMemoryKV()), func() error { return nil }, nil
	default:
		kv, err := history.OpenSQLite(cfg.HistoryPath)
		if err != nil {
			return nil, nil, err
		}
		logger.Debug("history database: %s", kv.Path())
		return history.NewStore(kv), kv.Close, nil
	}
}

func (a *app) runTUI(cmd *cobra.Command, args []string) error {
	store, closeStore, err := openHistory(a.cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	opts := ui.Options{
		Catalog: catalog.NewClient(a.cfg.APIURL, a.cfg.TimeoutMs),
		History: store,
		Config:  a.cfg,
	}
	if len(args) > 0 {
		opts.PathA = args[0]
	}
	if len(args) > 1 {
		opts.PathB = args[1]
	}

	m := ui.New(opts)
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running viewer: %w", err)
	}
	return nil
}

func (a *app) diffCmd() *cobra.Command {
	var (
		unified      bool
		contextLines int
		local        bool
		width        int
	)
	cmd := &cobra.Command{
		Use:   "diff <fileA> <fileB>",
		Short: "Print the comparison of two files",
		Long: "Print the comparison of two files side by side, or as a unified patch.\n" +
			"The paths name catalog entries in folders A and B; with --local they are\n" +
			"read from disk instead. An empty path (\"\") stands for a missing file.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pathA, pathB := args[0], args[1]
			oldText, newText, err := a.readPair(cmd.Context(), local, pathA, pathB)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if unified {
				patch, err := text.UnifiedDiff(pathA, pathB, oldText, newText, contextLines)
				if err != nil {
					return err
				}
				_, err = io.WriteString(out, patch)
				return err
			}

			s := viewer.NewSession(a.cfg.ProximityThreshold)
			defer s.Close()
			res := s.Compute(s.Begin(), oldText, newText)
			_, err = io.WriteString(out, ui.RenderSideBySide(res, pathA, pathB, width, a.cfg))
			return err
		},
	}
	cmd.Flags().BoolVarP(&unified, "unified", "u", false, "print a unified patch")
	cmd.Flags().IntVarP(&contextLines, "context", "U", 3, "context lines for --unified")
	cmd.Flags().BoolVar(&local, "local", false, "read both files from disk instead of the backend catalog")
	cmd.Flags().IntVarP(&width, "width", "w", 120, "output width for the side-by-side view")
	return cmd
}

// readPair loads both texts. Locally a missing file reads as empty only when
// its path is empty.
func (a *app) readPair(ctx context.Context, local bool, pathA, pathB string) (string, string, error) {
	if !local {
		if ctx == nil {
			ctx = context.Background()
		}
		pair, err := catalog.NewClient(a.cfg.APIURL, a.cfg.TimeoutMs).FetchPair(ctx, pathA, pathB)
		if err != nil {
			return "", "", err
		}
		return pair.OldText, pair.NewText, nil
	}
	oldText, err := readLocal(pathA)
	if err != nil {
		return "", "", err
	}
	newText, err := readLocal(pathB)
	if err != nil {
		return "", "", err
	}
	return oldText, newText, nil
}

func readLocal(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

func (a *app) historyCmd() *cobra.Command {
	withStore := func(fn func(cmd *cobra.Command, s *history.Store, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			s, closeStore, err := openHistory(a.cfg)
			if err != nil {
				return err
			}
			defer closeStore()
			return fn(cmd, s, args)
		}
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List starred and recent comparisons",
		Args:  cobra.NoArgs,
		RunE:  withStore(listHistory),
	}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect and edit the comparison history",
		Args:  cobra.NoArgs,
		RunE:  list.RunE,
	}
	cmd.AddCommand(
		list,
		&cobra.Command{
			Use:   "star <id>",
			Short: "Toggle the star on a comparison",
			Args:  cobra.ExactArgs(1),
			RunE: withStore(func(cmd *cobra.Command, s *history.Store, args []string) error {
				rec, err := s.Get(args[0])
				if err != nil {
					return fmt.Errorf("comparison %s: %w", args[0], err)
				}
				starred, err := s.ToggleStar(rec)
				if err != nil {
					return err
				}
				verb := "unstarred"
				if starred {
					verb = "starred"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", verb, rec.ID)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Remove a comparison from both lists",
			Args:  cobra.ExactArgs(1),
			RunE: withStore(func(cmd *cobra.Command, s *history.Store, args []string) error {
				if err := s.Delete(args[0]); err != nil {
					if errors.Is(err, history.ErrNotFound) {
						return fmt.Errorf("comparison %s: %w", args[0], err)
					}
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
				return nil
			}),
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Remove every recent and starred comparison",
			Args:  cobra.NoArgs,
			RunE: withStore(func(cmd *cobra.Command, s *history.Store, args []string) error {
				return s.Clear()
			}),
		},
	)
	return cmd
}

func listHistory(cmd *cobra.Command, s *history.Store, _ []string) error {
	starred, err := s.Starred()
	if err != nil {
		return err
	}
	recent, err := s.Recent()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(starred) == 0 && len(recent) == 0 {
		fmt.Fprintln(out, "No comparisons yet")
		return nil
	}
	now := time.Now()
	section := func(title, mark string, records []history.Record) {
		if len(records) == 0 {
			return
		}
		fmt.Fprintln(out, title)
		for _, r := range records {
			fmt.Fprintf(out, "%s %-14s %s → %s  +%d -%d  %s\n", mark, r.ID,
				history.FileName(r.SourceFile), history.FileName(r.TargetFile),
				r.Stats.Added, r.Stats.Removed, history.Age(r, now))
		}
	}
	section("Starred", "★", starred)
	section("Recent", " ", recent)
	return nil
}
