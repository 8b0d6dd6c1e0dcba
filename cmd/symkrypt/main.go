// Package main provides the CLI entrypoint for symkrypt.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/verte-zerg/symkrypt/internal/alphabet"
	"github.com/verte-zerg/symkrypt/internal/config"
	"github.com/verte-zerg/symkrypt/internal/generator"
	"github.com/verte-zerg/symkrypt/internal/logging"
	"github.com/verte-zerg/symkrypt/internal/model"
	"github.com/verte-zerg/symkrypt/internal/pipeline"
	"github.com/verte-zerg/symkrypt/internal/stats"
	"github.com/verte-zerg/symkrypt/internal/statsui"
	"github.com/verte-zerg/symkrypt/internal/store"
)

const (
	defaultInput   = "in.txt"
	defaultOutBase = "out"
	defaultMode    = "both"
)

var (
	configPath string
	logLevel   string
	fileCfg    config.FileConfig
	logger     = zap.NewNop()

	analyzeTag       string
	analyzeEncoding  string
	analyzeLow       int
	analyzeHigh      int
	analyzeMode      string
	analyzeTop       int
	analyzeChart     bool
	analyzeNoHistory bool
	analyzeParallel  bool

	historyLast    int
	historyMode    string
	historyInput   string
	historySymbols int64

	sampleWords  int
	sampleMaxLen int
	sampleSeed   int64
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	rootCmd := newRootCmd()
	err := rootCmd.ExecuteContext(ctx)
	stop()
	_ = logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "symkrypt [inputPath] [outputBaseName]",
		Short:             "Letter and bigram frequency statistics with entropy estimates",
		Args:              cobra.MaximumNArgs(2),
		SilenceUsage:      true,
		SilenceErrors:     false,
		PersistentPreRunE: setup,
		RunE:              runAnalyzeCmd,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultConfigPath(), "config file path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	addAlphabetFlags(rootCmd)
	rootCmd.Flags().StringVar(&analyzeTag, "tag", "", "run marker written to reports (default: start time)")
	rootCmd.Flags().StringVar(&analyzeMode, "mode", defaultMode, "pipeline modes: both, with-spaces, without-spaces")
	rootCmd.Flags().IntVar(&analyzeTop, "top", 0, "print the N most frequent symbols per mode")
	rootCmd.Flags().BoolVar(&analyzeChart, "chart", false, "print a symbol frequency histogram per mode")
	rootCmd.Flags().BoolVar(&analyzeNoHistory, "no-history", false, "do not record the run in history")
	rootCmd.Flags().BoolVar(&analyzeParallel, "parallel", false, "run modes concurrently")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newModesCmd())
	rootCmd.AddCommand(newSampleCmd())
	rootCmd.AddCommand(newViewCmd())

	return rootCmd
}

func addAlphabetFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&analyzeEncoding, "encoding", alphabet.DefaultEncoding, "input code page")
	cmd.Flags().IntVar(&analyzeLow, "range-low", alphabet.DefaultLow, "first letter byte (inclusive)")
	cmd.Flags().IntVar(&analyzeHigh, "range-high", alphabet.DefaultHigh, "last letter byte (inclusive)")
}

func setup(cmd *cobra.Command, _ []string) error {
	var err error
	fileCfg, err = config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logCfg := fileCfg.Log
	if logLevel != "" {
		logCfg.Level = logLevel
	}
	logger, err = logging.NewLogger(logCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if cmd.Flags().Lookup("encoding") != nil {
		applyStringConfig(cmd, "encoding", &analyzeEncoding, fileCfg.Analyze.Encoding)
		applyIntConfig(cmd, "range-low", &analyzeLow, fileCfg.Analyze.RangeLow)
		applyIntConfig(cmd, "range-high", &analyzeHigh, fileCfg.Analyze.RangeHigh)
	}
	return nil
}

func runAnalyzeCmd(cmd *cobra.Command, args []string) error {
	applyStringConfig(cmd, "mode", &analyzeMode, fileCfg.Analyze.Mode)
	applyIntConfig(cmd, "top", &analyzeTop, fileCfg.Analyze.Top)
	applyBoolConfig(cmd, "chart", &analyzeChart, fileCfg.Analyze.Chart)
	applyBoolConfig(cmd, "parallel", &analyzeParallel, fileCfg.Analyze.Parallel)

	modes, err := model.ParseModes(analyzeMode)
	if err != nil {
		return fmt.Errorf("invalid --mode value: %w", err)
	}
	cfg := model.RunConfig{
		Input:     positional(args, 0, fileCfg.Analyze.Input, defaultInput),
		OutBase:   positional(args, 1, fileCfg.Analyze.Output, defaultOutBase),
		Tag:       analyzeTag,
		Encoding:  analyzeEncoding,
		RangeLow:  analyzeLow,
		RangeHigh: analyzeHigh,
		Modes:     modes,
		Top:       analyzeTop,
		Chart:     analyzeChart,
		History:   historyEnabled() && !analyzeNoHistory,
		Parallel:  analyzeParallel,
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	a, err := alphabet.New(cfg.RangeLow, cfg.RangeHigh, cfg.Encoding)
	if err != nil {
		return fmt.Errorf("invalid alphabet: %w", err)
	}

	var recorder pipeline.Recorder
	if cfg.History {
		st, err := store.Open(historyPath())
		if err != nil {
			logger.Warn("history disabled: failed to open db", zap.Error(err))
		} else {
			defer func() {
				if cerr := st.Close(); cerr != nil {
					logger.Warn("failed to close db", zap.Error(cerr))
				}
			}()
			recorder = st
		}
	}

	runner := pipeline.New(a, logger, recorder)
	res, runErr := runner.Run(cmd.Context(), pipeline.Options{
		Input:    cfg.Input,
		OutBase:  cfg.OutBase,
		Tag:      cfg.Tag,
		Modes:    cfg.Modes,
		Parallel: cfg.Parallel,
	})
	if err := printExtras(cmd.OutOrStdout(), res, cfg, a); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return runErr
}

func printExtras(w io.Writer, res pipeline.Result, cfg model.RunConfig, a *alphabet.Alphabet) error {
	if cfg.Top <= 0 && !cfg.Chart {
		return nil
	}
	for _, out := range res.Outcomes {
		if out.Err != nil {
			continue
		}
		if cfg.Top > 0 {
			title := fmt.Sprintf("Top symbols (%s)", out.Mode.Suffix())
			if err := stats.RenderTop(w, title, stats.TopSymbols(out.Stats, cfg.Top), out.Stats.TotalSymbols, a); err != nil {
				return err
			}
		}
		if cfg.Chart {
			title := fmt.Sprintf("Symbol frequencies (%s)", out.Mode.Suffix())
			if err := stats.RenderHistogram(w, title, stats.TopSymbols(out.Stats, 0), a, 0); err != nil {
				return err
			}
		}
	}
	return nil
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded runs",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().IntVar(&historyLast, "last", 20, "limit to last N runs (0 for all)")
	cmd.Flags().StringVar(&historyMode, "mode", "", "mode filter: with-spaces, without-spaces")
	cmd.Flags().StringVar(&historyInput, "input", "", "input path filter")
	cmd.Flags().Int64Var(&historySymbols, "symbols", 0, "show stored symbol counts of the run with this ID")
	addAlphabetFlags(cmd)
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	cfg := model.HistoryConfig{Input: historyInput, Last: historyLast}
	if historyMode != "" {
		mode, err := model.ParseMode(historyMode)
		if err != nil {
			return fmt.Errorf("invalid --mode value: %w", err)
		}
		cfg.Mode = &mode
	}

	st, err := store.Open(historyPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logger.Warn("failed to close db", zap.Error(cerr))
		}
	}()

	if historySymbols > 0 {
		return renderRunSymbols(cmd.Context(), cmd.OutOrStdout(), st, historySymbols)
	}

	runs, err := st.ListRuns(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	return stats.RenderHistory(cmd.OutOrStdout(), runs)
}

func renderRunSymbols(ctx context.Context, w io.Writer, st *store.Store, runID int64) error {
	a, err := alphabet.New(analyzeLow, analyzeHigh, analyzeEncoding)
	if err != nil {
		return fmt.Errorf("invalid alphabet: %w", err)
	}
	counts, err := st.SymbolCounts(ctx, runID)
	if err != nil {
		return fmt.Errorf("failed to load symbol counts: %w", err)
	}
	total := 0
	for _, c := range counts {
		total += c.Count
	}
	return stats.RenderTop(w, fmt.Sprintf("Symbols of run %d", runID), stats.TopCounts(counts, 0), total, a)
}

func newModesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "modes",
		Short: "List pipeline modes and their report suffixes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, mode := range model.AllModes {
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%-15s %s\n", mode.String(), mode.Suffix()+".txt"); err != nil {
					return fmt.Errorf("failed to write output: %w", err)
				}
			}
			return nil
		},
	}
}

func newSampleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sample [outputPath]",
		Short: "Write a random uniform corpus for baseline entropy checks",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSampleCmd,
	}
	addAlphabetFlags(cmd)
	cmd.Flags().IntVar(&sampleWords, "words", 1000, "number of words to generate")
	cmd.Flags().IntVar(&sampleMaxLen, "max-len", 8, "maximum word length")
	cmd.Flags().Int64Var(&sampleSeed, "seed", 0, "random seed (0 uses the current time)")
	return cmd
}

func runSampleCmd(cmd *cobra.Command, args []string) error {
	if sampleWords <= 0 {
		return fmt.Errorf("--words must be > 0")
	}
	a, err := alphabet.New(analyzeLow, analyzeHigh, analyzeEncoding)
	if err != nil {
		return fmt.Errorf("invalid alphabet: %w", err)
	}
	gen := generator.New()
	if sampleSeed != 0 {
		gen = generator.NewSeeded(sampleSeed)
	}
	text := gen.Generate(a, sampleWords, sampleMaxLen, 0.1, 12)
	if len(args) == 0 || args[0] == "-" {
		if _, err := cmd.OutOrStdout().Write(text); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	if err := os.WriteFile(args[0], text, 0o644); err != nil {
		return fmt.Errorf("%w %s: %w", pipeline.ErrOutputCreate, args[0], err)
	}
	logger.Info("sample written", zap.String("path", args[0]), zap.Int("bytes", len(text)))
	return nil
}

func newViewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view [inputPath]",
		Short: "Browse statistics interactively",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runViewCmd,
	}
	addAlphabetFlags(cmd)
	return cmd
}

func runViewCmd(_ *cobra.Command, args []string) error {
	input := positional(args, 0, fileCfg.Analyze.Input, defaultInput)
	a, err := alphabet.New(analyzeLow, analyzeHigh, analyzeEncoding)
	if err != nil {
		return fmt.Errorf("invalid alphabet: %w", err)
	}
	runs := make([]model.TextStatistics, 0, len(model.AllModes))
	for _, mode := range model.AllModes {
		s, err := pipeline.Analyze(input, mode, a)
		if err != nil {
			return err
		}
		runs = append(runs, s)
	}
	program := tea.NewProgram(statsui.NewModel(runs, a, input), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := configPath
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func positional(args []string, idx int, configured *string, fallback string) string {
	if idx < len(args) && args[idx] != "" {
		return args[idx]
	}
	if configured != nil && *configured != "" {
		return *configured
	}
	return fallback
}

func historyEnabled() bool {
	if fileCfg.History.Enabled == nil {
		return true
	}
	return *fileCfg.History.Enabled
}

func historyPath() string {
	if fileCfg.History.Path != nil && *fileCfg.History.Path != "" {
		return *fileCfg.History.Path
	}
	return config.DefaultDBPath()
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# symkrypt configuration
# Uncomment a value to enable it. CLI flags and arguments override config values.

[analyze]
# input = %q              # Input file when no argument is given
# output = %q               # Report base name
# encoding = %q  # Input code page (%s)
# range-low = %d            # First letter byte
# range-high = %d           # Last letter byte
# mode = %q                # both, with-spaces, without-spaces
# top = 0                    # Print N most frequent symbols
# chart = false              # Print a frequency histogram
# parallel = false           # Run modes concurrently

[history]
# enabled = true
# path = %q

[log]
# level = "info"
# file = "symkrypt.log"      # Relative names resolve under the data directory
# max-size = 10              # Megabytes
# max-backups = 3
# max-age = 7                # Days
# compress = false
`,
		defaultInput,
		defaultOutBase,
		alphabet.DefaultEncoding,
		strings.Join(alphabet.Encodings(), ", "),
		alphabet.DefaultLow,
		alphabet.DefaultHigh,
		defaultMode,
		config.DefaultDBPath(),
	)
}

func validateConfig(cfg model.RunConfig) error {
	if cfg.Input == "" {
		return fmt.Errorf("input path must not be empty")
	}
	if cfg.Top < 0 {
		return fmt.Errorf("--top must be >= 0")
	}
	if len(cfg.Modes) == 0 {
		return fmt.Errorf("--mode selects no modes")
	}
	if cfg.RangeLow > cfg.RangeHigh {
		return fmt.Errorf("--range-low %d exceeds --range-high %d", cfg.RangeLow, cfg.RangeHigh)
	}
	return nil
}
