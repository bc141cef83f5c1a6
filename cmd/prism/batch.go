package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/jward/prism"
	"github.com/jward/prism/internal/config"
	"github.com/jward/prism/internal/history"
	prismrt "github.com/jward/prism/internal/runtime"
	"github.com/samber/do"
	"github.com/spf13/cobra"
)

var flagWorkers int

var batchCmd = &cobra.Command{
	Use:   "batch <file>...",
	Short: "Analyze many files concurrently and print a summary per file",
	Long:  "Each file runs in its own session. Files with a recognised extension send their language to the analyzer.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runBatch,
}

func init() {
	batchCmd.Flags().IntVar(&flagWorkers, "workers", runtime.NumCPU(), "concurrent submissions")
	batchCmd.Flags().BoolVar(&flagNoHistory, "no-history", false, "do not record cycles in the history database")
}

func runBatch(cmd *cobra.Command, args []string) error {
	files, err := loadSourceFiles(args)
	if err != nil {
		return outputError("batch", err)
	}

	cfg := do.MustInvoke[*config.Config](injector)
	presenter := do.MustInvoke[*prism.Presenter](injector)

	opts := []prism.BatchOption{prism.WithWorkers(flagWorkers)}
	if !flagNoHistory {
		if st := historyStore(injector); st != nil {
			rec := history.NewRecorder(st, uuid.NewString())
			opts = append(opts, prism.WithSessionOptions(prism.WithObserver(rec.Observe)))
		}
	}

	clients := map[string]prism.Analyzer{}
	for _, f := range files {
		if _, ok := clients[f.Language]; ok {
			continue
		}
		endpoint, err := endpointWithLanguage(cfg.Endpoint, f.Language)
		if err != nil {
			return outputError("batch", err)
		}
		clients[f.Language] = prism.NewClient(endpoint)
	}
	outcomes := prism.AnalyzeFiles(cmd.Context(), func(lang string) prism.Analyzer {
		return clients[lang]
	}, files, opts...)

	rows := make([]CLIFileSummary, 0, len(outcomes))
	failed := 0
	for _, o := range outcomes {
		row := fileSummary(o, presenter.Labels())
		if row.Error != "" {
			failed++
		}
		rows = append(rows, row)
	}
	if err := outputResult(CLIResult{Command: "batch", Results: rows}); err != nil {
		return err
	}
	if failed > 0 {
		errorHandled = true
		return fmt.Errorf("%d of %d files failed", failed, len(rows))
	}
	return nil
}

// loadSourceFiles reads every path and detects its language from the
// extension.
func loadSourceFiles(paths []string) ([]prism.SourceFile, error) {
	files := make([]prism.SourceFile, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		lang, _ := prismrt.LanguageForFile(path)
		files = append(files, prism.SourceFile{Path: filepath.Clean(path), Language: lang, Source: string(data)})
	}
	return files, nil
}

// fileSummary condenses one outcome into a summary row.
func fileSummary(o prism.FileOutcome, labels prism.Labels) CLIFileSummary {
	row := CLIFileSummary{
		Path:     o.File.Path,
		Language: o.File.Language,
		State:    o.Snapshot.State.String(),
		CycleID:  o.Snapshot.Cycle.ID,
	}
	if o.Failed() {
		row.Error = prism.UserMessage(o.Snapshot.Err, labels)
		return row
	}
	if r := o.Snapshot.Result; r != nil {
		row.Tokens = len(r.Tokens)
		row.Nodes = prism.NodeCount(r.SyntaxTree)
		row.Errors = len(r.SyntaxErrors) + len(r.SemanticErrors)
	}
	return row
}

// formatFileSummariesText formats batch rows as aligned columns.
func formatFileSummariesText(w io.Writer, rows []CLIFileSummary) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tLANGUAGE\tSTATE\tTOKENS\tNODES\tERRORS")
	for _, r := range rows {
		lang := r.Language
		if lang == "" {
			lang = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\n", r.Path, lang, r.State, r.Tokens, r.Nodes, r.Errors)
	}
	tw.Flush()
	for _, r := range rows {
		if r.Error != "" {
			fmt.Fprintf(w, "%s: %s\n", r.Path, r.Error)
		}
	}
}
