package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/resume-ats/internal/core/domain"
	"github.com/custodia-labs/resume-ats/internal/logger"
)

var (
	analyzeMode        string
	analyzeQuestion    string
	analyzeTopK        int
	analyzeJSON        bool
	analyzeShowContext bool
	analyzeWatch       bool
)

// watchDebounce coalesces the burst of events editors emit on save.
const watchDebounce = 300 * time.Millisecond

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Analyze a résumé",
	Long: `Loads a résumé (PDF, .txt or .md), retrieves the most relevant passages
for the chosen question and asks the language model for feedback.

Modes may be given by tag, label or number:
  1 full          Full Analysis
  2 ats           ATS Score & Keywords
  3 strengths     Strengths Only
  4 improvements  Improvement Suggestions
  5 datascience   Tailored for Data Science
  6 custom        Custom Question (requires --question)`,
	Example: `  resume-ats analyze cv.pdf
  resume-ats analyze cv.pdf --mode ats
  resume-ats analyze cv.pdf -q "Is my summary too long?"
  resume-ats analyze cv.pdf --watch`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeMode, "mode", "m", "", "analysis mode (tag, label or 1-6)")
	analyzeCmd.Flags().StringVarP(&analyzeQuestion, "question", "q", "", "custom question (implies --mode custom)")
	analyzeCmd.Flags().IntVarP(&analyzeTopK, "top-k", "k", 0, "number of passages to retrieve (default from settings)")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "output the analysis as JSON")
	analyzeCmd.Flags().BoolVar(&analyzeShowContext, "show-context", false, "print the retrieved passages")
	analyzeCmd.Flags().BoolVarP(&analyzeWatch, "watch", "w", false, "re-run whenever the file changes")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	path := args[0]

	mode, err := modeFromFlags(analyzeMode, analyzeQuestion)
	if err != nil {
		return err
	}

	svc, err := analyzer(cmd, true)
	if err != nil {
		return err
	}

	run := func(ctx context.Context) error {
		req, err := readRequest(path, mode, analyzeQuestion, analyzeTopK)
		if err != nil {
			return err
		}
		analysis, err := svc.Analyze(ctx, req)
		if err != nil {
			return err
		}
		if analyzeJSON {
			return writeJSON(cmd.OutOrStdout(), analysis)
		}
		printAnalysis(cmd.OutOrStdout(), analysis, analyzeShowContext)
		return nil
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if !analyzeWatch {
		return run(ctx)
	}
	return watchFile(ctx, path, func() {
		if err := run(ctx); err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), FormatError(err))
		}
	})
}

// modeFromFlags resolves --mode and --question. A question without a mode
// selects custom mode.
func modeFromFlags(modeFlag, question string) (domain.Mode, error) {
	if strings.TrimSpace(modeFlag) == "" && strings.TrimSpace(question) != "" {
		return domain.ModeCustom, nil
	}
	mode, ok := domain.ParseMode(modeFlag)
	if !ok {
		return "", domain.NewPipelineError(domain.ErrConfiguration, domain.StageConfigure, 0,
			&domain.InvalidValueError{Field: "mode", Value: modeFlag, Reason: "see 'resume-ats presets'"})
	}
	return mode, nil
}

// readRequest reads the file and builds the analyzer request.
func readRequest(path string, mode domain.Mode, question string, topK int) (domain.AnalyzeRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.AnalyzeRequest{}, domain.NewPipelineError(domain.ErrLoad, domain.StageLoad, 0,
			fmt.Errorf("read %s: %w", path, err))
	}
	return domain.AnalyzeRequest{
		Data:     data,
		Filename: filepath.Base(path),
		Mode:     mode,
		Question: question,
		TopK:     topK,
	}, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	return nil
}

func printAnalysis(w io.Writer, a *domain.Analysis, showContext bool) {
	fmt.Fprintf(w, "%s\n", a.ModeLabel)
	fmt.Fprintf(w, "Question: %s\n", a.Question)
	fmt.Fprintf(w, "Pages: %d  Chunks: %d  Model: %s  Time: %s\n\n",
		a.PagesAnalyzed, a.ChunkCount, a.Model, a.Duration.Round(time.Millisecond))
	fmt.Fprintln(w, strings.TrimSpace(a.Answer))

	if showContext {
		fmt.Fprintln(w)
		printContext(w, a.Context)
	}
}

func printContext(w io.Writer, results []domain.ScoredChunk) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No passages retrieved.")
		return
	}
	fmt.Fprintln(w, "Retrieved passages:")
	for i, r := range results {
		fmt.Fprintf(w, "\n[%d] page %d, score %.3f\n", i+1, r.Chunk.Page, r.Score)
		fmt.Fprintln(w, indent(strings.TrimSpace(r.Chunk.Content), "    "))
	}
}

func indent(s, prefix string) string {
	return prefix + strings.ReplaceAll(s, "\n", "\n"+prefix)
}

// watchFile calls fn once, then again after every change to path until ctx
// is cancelled. The parent directory is watched so that editors which
// replace the file on save are still seen.
func watchFile(ctx context.Context, path string, fn func()) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close() //nolint:errcheck

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	fn()
	logger.Info("watching %s for changes", abs)

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			logger.Debug("watch: %s %s", event.Op, event.Name)
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
			} else {
				timer.Reset(watchDebounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			fn()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error: %v", err)
		}
	}
}
