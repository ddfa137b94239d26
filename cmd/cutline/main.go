// Package main provides the CLI entrypoint for cutline.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/cutline/internal/config"
	"github.com/verte-zerg/cutline/internal/editor"
	"github.com/verte-zerg/cutline/internal/export"
	"github.com/verte-zerg/cutline/internal/ingest"
	"github.com/verte-zerg/cutline/internal/macro"
	"github.com/verte-zerg/cutline/internal/model"
	"github.com/verte-zerg/cutline/internal/stats"
	"github.com/verte-zerg/cutline/internal/statsui"
	"github.com/verte-zerg/cutline/internal/store"
	"github.com/verte-zerg/cutline/internal/timeline"
	"github.com/verte-zerg/cutline/internal/tui"
	"github.com/verte-zerg/cutline/internal/wordlist"
)

const defaultUndoCapacity = 100

var nowFunc = time.Now

var (
	importName string
	importDemo bool

	editUndoCapacity int
	editStrict       bool
	editAutosave     bool

	statsPlain bool

	exportFormat           string
	exportQuality          string
	exportTranscriptFormat string
	exportSplitSpeakers    bool
	exportOut              string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "cutline",
		Short:         "Terminal transcript editor",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newEditCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newDiffCmd())
	rootCmd.AddCommand(newProjectsCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [result.json]",
		Short: "Import a transcription result as a new project",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runImportCmd,
	}
	cmd.Flags().StringVar(&importName, "name", "", "project name (default: file name)")
	cmd.Flags().BoolVar(&importDemo, "demo", false, "import the built-in demo interview")
	return cmd
}

func runImportCmd(cmd *cobra.Command, args []string) error {
	if !importDemo && len(args) == 0 {
		return fmt.Errorf("a result file is required (or use --demo)")
	}
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	var p model.Project
	if importDemo {
		segments, speakers := ingest.Demo()
		p = newProject(fileCfg, ingest.DemoName, "demo", segments, speakers, nil)
	} else {
		p, err = projectFromFile(fileCfg, args[0])
		if err != nil {
			return err
		}
	}
	if importName != "" {
		p.Name = importName
	}
	if err := st.SaveProject(context.Background(), &p); err != nil {
		return fmt.Errorf("failed to save project: %w", err)
	}
	return printProject(cmd.OutOrStdout(), p)
}

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch <dir>",
		Short: "Import every transcription result written to a directory",
		Args:  cobra.ExactArgs(1),
		RunE:  runWatchCmd,
	}
}

func runWatchCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	dir := args[0]
	logErrf("Watching %s for transcription results (ctrl+c to stop)\n", dir)
	return ingest.Watch(ctx, dir, func(path string) error {
		p, err := projectFromFile(fileCfg, path)
		if err != nil {
			return err
		}
		if err := st.SaveProject(ctx, &p); err != nil {
			return fmt.Errorf("save project: %w", err)
		}
		return printProject(cmd.OutOrStdout(), p)
	}, func(format string, args ...any) {
		logErrf(format+"\n", args...)
	})
}

func newEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <project>",
		Short: "Open a project in the transcript editor",
		Args:  cobra.ExactArgs(1),
		RunE:  runEditCmd,
	}
	cmd.Flags().IntVar(&editUndoCapacity, "undo-capacity", defaultUndoCapacity, "undo steps kept per segment")
	cmd.Flags().BoolVar(&editStrict, "strict", false, "treat unknown segment or speaker ids as errors")
	cmd.Flags().BoolVar(&editAutosave, "autosave", true, "save changes automatically")
	return cmd
}

func runEditCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "undo-capacity", &editUndoCapacity, fileCfg.Editor.UndoCapacity)
	applyBoolConfig(cmd, "strict", &editStrict, fileCfg.Editor.Strict)
	applyBoolConfig(cmd, "autosave", &editAutosave, fileCfg.Editor.Autosave)
	if editUndoCapacity <= 0 {
		return fmt.Errorf("--undo-capacity must be > 0")
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	p, err := loadProject(context.Background(), st, args[0])
	if err != nil {
		return err
	}

	m := tui.NewModel(tui.Config{
		Project:   p,
		Store:     st,
		Editor:    editor.Options{UndoCapacity: editUndoCapacity, Strict: editStrict},
		Autosave:  editAutosave,
		Fillers:   loadFillers(fileCfg),
		ExportDir: config.DefaultExportDir(),
	})
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run editor: %w", err)
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats <project>",
		Short: "Show speaker statistics",
		Args:  cobra.ExactArgs(1),
		RunE:  runStatsCmd,
	}
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print tables instead of opening the stats UI")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	ctx := context.Background()
	p, err := loadProject(ctx, st, args[0])
	if err != nil {
		return err
	}

	if statsPlain {
		return printStats(cmd.OutOrStdout(), p, stats.TerminalWidth())
	}

	regens, err := st.ListRegen(ctx, p.ID)
	if err != nil {
		return fmt.Errorf("failed to load regenerations: %w", err)
	}
	program := tea.NewProgram(statsui.NewModel(p, regens), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func printStats(w io.Writer, p model.Project, width int) error {
	speakerStats := stats.SpeakerStats(p.Speakers, p.Segments)
	if err := stats.RenderSpeakerTable(w, p.Speakers, speakerStats, width/3); err != nil {
		return err
	}
	if err := stats.RenderSummary(w, speakerStats, p.Segments); err != nil {
		return err
	}
	if p.Statistics != nil {
		metrics := stats.DocumentMetrics(p.Statistics, len(p.Segments))
		if err := stats.RenderMetrics(w, metrics); err != nil {
			return err
		}
	}
	return stats.RenderActivity(w, p.Speakers, p.Segments, stats.StripWidthFor(width))
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <project>",
		Short: "Write an export snapshot and transcript files",
		Args:  cobra.ExactArgs(1),
		RunE:  runExportCmd,
	}
	cmd.Flags().StringVar(&exportFormat, "format", "", "audio format (wav, mp3, flac)")
	cmd.Flags().StringVar(&exportQuality, "quality", "", "quality (low, medium, high)")
	cmd.Flags().StringVar(&exportTranscriptFormat, "transcript-format", "", "transcript format (srt, vtt, txt)")
	cmd.Flags().BoolVar(&exportSplitSpeakers, "split-speakers", false, "write one transcript per speaker")
	cmd.Flags().StringVar(&exportOut, "out", "", "output directory (default: data dir)")
	return cmd
}

func runExportCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	p, err := loadProject(context.Background(), st, args[0])
	if err != nil {
		return err
	}

	settings := fileCfg.Export.Apply(p.Export)
	if cmd.Flags().Changed("format") {
		settings.Format = exportFormat
	}
	if cmd.Flags().Changed("quality") {
		settings.Quality = exportQuality
	}
	if cmd.Flags().Changed("transcript-format") {
		settings.TranscriptFormat = exportTranscriptFormat
	}
	if cmd.Flags().Changed("split-speakers") {
		settings.SplitSpeakers = exportSplitSpeakers
	}
	if res := export.ValidateExportSettings(settings); !res.Valid {
		return fmt.Errorf("invalid export settings: %s", strings.Join(res.Errors, "; "))
	}

	snap, err := export.BuildSnapshot(p.Segments, p.Speakers, settings, nowFunc())
	if err != nil {
		return fmt.Errorf("failed to build snapshot: %w", err)
	}
	dir := exportOut
	if dir == "" {
		dir = config.DefaultExportDir()
	}
	paths, err := export.WriteAll(dir, snap)
	if err != nil {
		return fmt.Errorf("failed to export: %w", err)
	}
	out := cmd.OutOrStdout()
	for _, path := range paths {
		size := "?"
		if info, err := os.Stat(path); err == nil {
			size = humanize.Bytes(uint64(info.Size()))
		}
		if _, err := fmt.Fprintf(out, "%s (%s)\n", path, size); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newDiffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diff <project> <result.json>",
		Short: "List segments edited since the original transcription",
		Args:  cobra.ExactArgs(2),
		RunE:  runDiffCmd,
	}
}

func runDiffCmd(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	p, err := loadProject(context.Background(), st, args[0])
	if err != nil {
		return err
	}
	res, err := ingest.DecodeFile(args[1])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[1], err)
	}
	original, _ := ingest.Map(res, p.Speakers)
	return printDiffs(cmd.OutOrStdout(), ingest.Diff(original, p.Segments))
}

func printDiffs(w io.Writer, diffs []model.SegmentDiff) error {
	if len(diffs) == 0 {
		_, err := fmt.Fprintln(w, "No edited segments.")
		return err
	}
	for _, d := range diffs {
		if _, err := fmt.Fprintf(w, "#%d %s %s\n- %s\n+ %s\n",
			d.Index, rangeLabel(d.Start, d.End), d.SpeakerID, d.OriginalText, d.EditedText); err != nil {
			return err
		}
	}
	return nil
}

func newProjectsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "projects",
		Short: "List stored projects",
		Args:  cobra.NoArgs,
		RunE:  runProjectsCmd,
	}
}

func runProjectsCmd(cmd *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	projects, err := st.ListProjects(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list projects: %w", err)
	}
	out := cmd.OutOrStdout()
	if len(projects) == 0 {
		logErrln("No projects yet. Import one with: cutline import <result.json>")
		return nil
	}
	for _, p := range projects {
		if _, err := fmt.Fprintf(out, "%s  %-32s  %3d segments  %s\n",
			shortID(p.ID), p.Name, p.SegmentCount, humanize.Time(p.UpdatedAt)); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
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
	path := config.DefaultConfigPath()
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

	editorCmd := strings.TrimSpace(os.Getenv("EDITOR"))
	if editorCmd == "" {
		editorCmd = "vi"
	}
	parts := strings.Fields(editorCmd)
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

func defaultConfigTemplate() string {
	exp := export.DefaultSettings()
	tts := macro.DefaultTTSSettings()
	return fmt.Sprintf(`# cutline configuration
# Uncomment a value to enable it. CLI flags override config values.

[editor]
# undo-capacity = %d      # Undo steps kept per segment
# strict = false          # Unknown segment or speaker ids are errors
# autosave = true         # Save changes automatically

[export]
# format = %q
# quality = %q
# split-speakers = %t
# include-chapters = %t
# embed-transcript = %t
# transcript-format = %q

[tts]
# voice-model = %q
# pitch = %.1f
# speed = %.1f
# emotion = %q

[macros]
# filler-list = %q
`,
		defaultUndoCapacity,
		exp.Format,
		exp.Quality,
		exp.SplitSpeakers,
		exp.IncludeChapters,
		exp.EmbedTranscript,
		exp.TranscriptFormat,
		tts.VoiceModel,
		tts.Pitch,
		tts.Speed,
		tts.Emotion,
		config.DefaultFillerListPath(),
	)
}

func projectFromFile(fileCfg config.FileConfig, path string) (model.Project, error) {
	res, err := ingest.DecodeFile(path)
	if err != nil {
		return model.Project{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	segments, speakers := ingest.Map(res, nil)
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return newProject(fileCfg, name, path, segments, speakers, res.Statistics), nil
}

func newProject(fileCfg config.FileConfig, name, source string, segments []model.Segment, speakers []*model.Speaker, statistics *model.TranscriptionStatistics) model.Project {
	if statistics == nil {
		statistics = ingest.StatisticsFor(segments)
	}
	return model.Project{
		Name:       name,
		Source:     source,
		Segments:   segments,
		Speakers:   speakers,
		Export:     fileCfg.Export.Apply(export.DefaultSettings()),
		TTS:        fileCfg.TTS.Apply(macro.DefaultTTSSettings()),
		Statistics: statistics,
	}
}

func printProject(w io.Writer, p model.Project) error {
	_, err := fmt.Fprintf(w, "%s  %s (%d segments, %d speakers)\n", p.ID, p.Name, len(p.Segments), len(p.Speakers))
	return err
}

// loadFillers reads the optional extra filler list. A missing default list
// is normal; a configured list that cannot be read is reported.
func loadFillers(fileCfg config.FileConfig) []string {
	path := config.DefaultFillerListPath()
	configured := fileCfg.Macros.FillerList != nil
	if configured {
		path = *fileCfg.Macros.FillerList
	}
	words, err := wordlist.LoadWords(path)
	if err != nil {
		if configured || !errors.Is(err, os.ErrNotExist) {
			logErrf("failed to load filler list %s: %v\n", path, err)
		}
		return nil
	}
	return wordlist.Filter(words, wordlist.Phrase)
}

func openStore() (*store.Store, error) {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	return st, nil
}

func closeStore(st *store.Store) {
	if err := st.Close(); err != nil {
		logErrf("failed to close db: %v\n", err)
	}
}

func loadProject(ctx context.Context, st *store.Store, prefix string) (model.Project, error) {
	id, err := st.ResolveID(ctx, prefix)
	if err != nil {
		return model.Project{}, fmt.Errorf("project %q: %w", prefix, err)
	}
	p, err := st.LoadProject(ctx, id)
	if err != nil {
		return model.Project{}, fmt.Errorf("failed to load project: %w", err)
	}
	return p, nil
}

func rangeLabel(start, end float64) string {
	return timeline.FormatTime(start) + "-" + timeline.FormatTime(end)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
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

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
