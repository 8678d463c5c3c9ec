package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/retype/internal/analysis"
	"github.com/verte-zerg/retype/internal/config"
	"github.com/verte-zerg/retype/internal/historyui"
	"github.com/verte-zerg/retype/internal/model"
	"github.com/verte-zerg/retype/internal/report"
	"github.com/verte-zerg/retype/internal/server"
	"github.com/verte-zerg/retype/internal/stats"
	"github.com/verte-zerg/retype/internal/store"
	"github.com/verte-zerg/retype/internal/textsource"
)

const (
	defaultAddr     = "127.0.0.1:8080"
	trendWindow     = 5
	coachTimeout    = 30 * time.Second
	analyzeTitleStd = "Standard input"
)

func newAnalyzeCmd() *cobra.Command {
	var (
		referencePath string
		typedPath     string
		typedText     string
		seconds       float64
		format        string
		useCoach      bool
		save          bool
		baselineWPM   int
	)
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze typed text against a reference without the TUI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			applyIntConfig(cmd, "baseline-wpm", &baselineWPM, fileCfg.Practice.BaselineWPM)
			if referencePath == "" {
				return fmt.Errorf("--reference is required")
			}
			if seconds < 0 {
				return fmt.Errorf("--seconds must be >= 0")
			}
			if baselineWPM <= 0 {
				return fmt.Errorf("--baseline-wpm must be > 0")
			}
			reference, typed, err := readInputs(cmd, referencePath, typedPath, typedText)
			if err != nil {
				return err
			}

			rec := model.TestRecord{
				Title:       titleForPath(referencePath),
				Source:      model.SourceUploaded,
				Filename:    filenameForPath(referencePath),
				Reference:   reference,
				Typed:       typed,
				Result:      analysis.AnalyzeWithBaseline(reference, typed, seconds, baselineWPM),
				CompletedAt: time.Now().UTC(),
			}
			if referencePath == "-" {
				rec.Source = model.SourcePasted
			}

			if useCoach {
				addCoachTips(cmd.Context(), fileCfg, &rec)
			}
			if save {
				st, err := openStore(fileCfg)
				if err != nil {
					return err
				}
				defer closeStore(st)
				id, err := st.InsertTest(cmd.Context(), rec)
				if err != nil {
					return fmt.Errorf("failed to save test: %w", err)
				}
				rec.ID = id
			}
			return report.Write(cmd.OutOrStdout(), format, rec)
		},
	}
	cmd.Flags().StringVar(&referencePath, "reference", "", "reference text file (- for stdin)")
	cmd.Flags().StringVar(&typedPath, "typed", "", "file with the typed text")
	cmd.Flags().StringVar(&typedText, "typed-text", "", "typed text given inline")
	cmd.Flags().Float64Var(&seconds, "seconds", 0, "elapsed typing time in seconds")
	cmd.Flags().StringVar(&format, "format", report.FormatText, "output format: text, json or yaml")
	cmd.Flags().BoolVar(&useCoach, "coach", false, "append LLM coaching tips to the suggestions")
	cmd.Flags().BoolVar(&save, "save", false, "store the result in history")
	cmd.Flags().IntVar(&baselineWPM, "baseline-wpm", analysis.DefaultBaselineWPM, "speed used for the expected time")
	return cmd
}

func newDiffCmd() *cobra.Command {
	var (
		referencePath string
		typedPath     string
		typedText     string
		format        string
	)
	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Print the character alignment of typed text against a reference",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if referencePath == "" {
				return fmt.Errorf("--reference is required")
			}
			reference, typed, err := readInputs(cmd, referencePath, typedPath, typedText)
			if err != nil {
				return err
			}
			diffs := analysis.Diff(reference, typed)
			return writeDiff(cmd.OutOrStdout(), format, diffs)
		},
	}
	cmd.Flags().StringVar(&referencePath, "reference", "", "reference text file (- for stdin)")
	cmd.Flags().StringVar(&typedPath, "typed", "", "file with the typed text")
	cmd.Flags().StringVar(&typedText, "typed-text", "", "typed text given inline")
	cmd.Flags().StringVar(&format, "format", report.FormatText, "output format: text or json")
	return cmd
}

func writeDiff(w io.Writer, format string, diffs []analysis.CharacterDiff) error {
	switch strings.ToLower(format) {
	case report.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(diffs)
	case report.FormatText, "txt", "":
	default:
		return fmt.Errorf("unsupported diff format %q", format)
	}
	for _, d := range diffs {
		if _, err := fmt.Fprintf(w, "%5d  %-9s %q\n", d.Position, d.Kind, d.Char); err != nil {
			return fmt.Errorf("failed to write diff: %w", err)
		}
	}
	return nil
}

func newHistoryCmd() *cobra.Command {
	var (
		sortBy string
		filter string
		limit  int
		since  string
		plain  bool
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show completed tests",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			applyStringConfig(cmd, "sort", &sortBy, fileCfg.History.Sort)
			applyStringConfig(cmd, "filter", &filter, fileCfg.History.Filter)
			applyIntConfig(cmd, "limit", &limit, fileCfg.History.Limit)

			cfg, err := historyConfig(sortBy, filter, limit, since, time.Now())
			if err != nil {
				return err
			}
			st, err := openStore(fileCfg)
			if err != nil {
				return err
			}
			defer closeStore(st)

			if plain || !term.IsTerminal(int(os.Stdout.Fd())) {
				rep, err := stats.BuildReport(cmd.Context(), st, cfg, trendWindow)
				if err != nil {
					return fmt.Errorf("failed to load history: %w", err)
				}
				return renderPlainHistory(cmd.OutOrStdout(), rep, time.Now())
			}

			p := tea.NewProgram(historyui.NewModel(st, cfg), tea.WithAltScreen())
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("failed to run history UI: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&sortBy, "sort", model.SortDate, "sort by date, wpm or accuracy")
	cmd.Flags().StringVar(&filter, "filter", model.FilterAll, "filter all, high or low")
	cmd.Flags().IntVar(&limit, "limit", 0, "show at most N tests (0 = all)")
	cmd.Flags().StringVar(&since, "since", "", "only tests completed after a date (YYYY-MM-DD) or duration (e.g. 168h)")
	cmd.Flags().BoolVar(&plain, "plain", false, "print a plain table instead of the interactive view")
	return cmd
}

func historyConfig(sortBy, filter string, limit int, since string, now time.Time) (model.HistoryConfig, error) {
	sortKey, err := stats.ParseSort(sortBy)
	if err != nil {
		return model.HistoryConfig{}, err
	}
	filterKey, err := stats.ParseFilter(filter)
	if err != nil {
		return model.HistoryConfig{}, err
	}
	if limit < 0 {
		return model.HistoryConfig{}, fmt.Errorf("--limit must be >= 0")
	}
	cfg := model.HistoryConfig{SortBy: sortKey, Filter: filterKey, Limit: limit}
	if since != "" {
		t, err := parseSince(since, now)
		if err != nil {
			return model.HistoryConfig{}, err
		}
		cfg.Since = &t
	}
	return cfg, nil
}

func parseSince(s string, now time.Time) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return time.Time{}, fmt.Errorf("invalid --since %q: want YYYY-MM-DD, RFC3339 or a duration", s)
	}
	return now.Add(-d), nil
}

func renderPlainHistory(w io.Writer, rep stats.Report, now time.Time) error {
	if err := stats.RenderSummary(w, rep.Records, rep.TrendWidth); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	if len(rep.Records) == 0 {
		return nil
	}
	if err := stats.RenderTable(w, rep.Records, now); err != nil {
		return fmt.Errorf("failed to write table: %w", err)
	}
	if len(rep.WeakChars) > 0 {
		parts := make([]string, 0, len(rep.WeakChars))
		for _, c := range rep.WeakChars {
			parts = append(parts, fmt.Sprintf("%q×%d", c.Char, c.Count))
		}
		if _, err := fmt.Fprintf(w, "\nWeak characters: %s\n", strings.Join(parts, " ")); err != nil {
			return err
		}
	}
	if len(rep.TopWords) > 0 {
		if _, err := fmt.Fprintf(w, "Words to practice: %s\n", strings.Join(rep.TopWords, ", ")); err != nil {
			return err
		}
	}
	return nil
}

func newReportCmd() *cobra.Command {
	var (
		format string
		out    string
	)
	cmd := &cobra.Command{
		Use:   "report <id>",
		Short: "Print or save the report of a stored test",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			st, err := openStore(fileCfg)
			if err != nil {
				return err
			}
			defer closeStore(st)

			rec, err := loadTest(cmd.Context(), st, args[0])
			if err != nil {
				return err
			}
			switch out {
			case "":
				return report.Write(cmd.OutOrStdout(), format, rec)
			case "auto":
				out = config.DefaultReportDir()
			}
			path, err := report.Save(out, format, rec)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Report saved to %s\n", path)
			return err
		},
	}
	cmd.Flags().StringVar(&format, "format", report.FormatText, "report format: text, json or yaml")
	cmd.Flags().StringVar(&out, "out", "", "directory to save the report in (\"auto\" uses the data dir)")
	return cmd
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a stored test",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			st, err := openStore(fileCfg)
			if err != nil {
				return err
			}
			defer closeStore(st)

			id, err := resolveID(cmd.Context(), st, args[0])
			if err != nil {
				return err
			}
			deleted, err := st.DeleteTest(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("failed to delete test: %w", err)
			}
			if !deleted {
				return fmt.Errorf("test %s not found", args[0])
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", stats.ShortID(id))
			return err
		},
	}
}

func newServeCmd() *cobra.Command {
	var (
		addr        string
		baselineWPM int
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analysis engine and history over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			applyStringConfig(cmd, "addr", &addr, fileCfg.Server.Addr)
			applyIntConfig(cmd, "baseline-wpm", &baselineWPM, fileCfg.Practice.BaselineWPM)

			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

			st, err := openStore(fileCfg)
			if err != nil {
				return err
			}
			defer closeStore(st)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return server.Run(ctx, addr, server.NewRouter(server.NewHandler(st, baselineWPM)))
		},
	}
	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "listen address")
	cmd.Flags().IntVar(&baselineWPM, "baseline-wpm", analysis.DefaultBaselineWPM, "speed used for the expected time")
	return cmd
}

func loadTest(ctx context.Context, st *store.Store, prefix string) (model.TestRecord, error) {
	id, err := resolveID(ctx, st, prefix)
	if err != nil {
		return model.TestRecord{}, err
	}
	rec, err := st.GetTest(ctx, id)
	if err != nil {
		return model.TestRecord{}, fmt.Errorf("failed to load test: %w", err)
	}
	return rec, nil
}

func resolveID(ctx context.Context, st *store.Store, prefix string) (string, error) {
	id, err := st.ResolveID(ctx, prefix)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return "", fmt.Errorf("test %s not found", prefix)
	case errors.Is(err, store.ErrAmbiguousID):
		return "", fmt.Errorf("test id %s matches several tests; use more characters", prefix)
	case err != nil:
		return "", fmt.Errorf("failed to resolve test id: %w", err)
	}
	return id, nil
}

func addCoachTips(ctx context.Context, fileCfg config.FileConfig, rec *model.TestRecord) {
	c, err := newCoach(fileCfg)
	if err != nil {
		logErrf("coach disabled: %v\n", err)
		return
	}
	ctx, cancel := context.WithTimeout(ctx, coachTimeout)
	defer cancel()
	tips, err := c.Advise(ctx, rec.Reference, rec.Result)
	if err != nil {
		logErrf("coach failed: %v\n", err)
		return
	}
	rec.Result.Suggestions = append(rec.Result.Suggestions, tips...)
}

// readInputs loads the reference and typed text for analyze and diff.
// The reference is normalized like practice text; typed text is kept as typed.
func readInputs(cmd *cobra.Command, referencePath, typedPath, typedText string) (string, string, error) {
	if typedPath != "" && cmd.Flags().Changed("typed-text") {
		return "", "", fmt.Errorf("--typed and --typed-text are mutually exclusive")
	}
	if referencePath == "-" && typedPath == "-" {
		return "", "", fmt.Errorf("--reference and --typed cannot both read stdin")
	}
	reference, err := readText(cmd.InOrStdin(), referencePath)
	if err != nil {
		return "", "", err
	}
	typed := strings.ReplaceAll(typedText, "\r\n", "\n")
	if typedPath != "" {
		if typed, err = readRaw(cmd.InOrStdin(), typedPath); err != nil {
			return "", "", err
		}
	}
	return reference, typed, nil
}

// readText loads a reference the same way the practice command does.
func readText(stdin io.Reader, path string) (string, error) {
	if path == "-" {
		text, err := textsource.FromReader(stdin)
		if err != nil {
			return "", err
		}
		return textsource.Normalize(text), nil
	}
	text, err := textsource.LoadFile(path)
	if err != nil {
		return "", err
	}
	return textsource.Normalize(text), nil
}

// readRaw loads typed input, which may legitimately be empty.
// Only CRLF and the final newline of the file are normalized.
func readRaw(stdin io.Reader, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read typed text: %w", err)
	}
	return strings.TrimSuffix(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n"), nil
}

func titleForPath(path string) string {
	if path == "-" {
		return analyzeTitleStd
	}
	return textsource.TitleFor(path)
}

func filenameForPath(path string) string {
	if path == "-" {
		return ""
	}
	return filepath.Base(path)
}
