package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"

	"github.com/google/uuid"
	"github.com/jward/prism"
	"github.com/jward/prism/internal/config"
	"github.com/jward/prism/internal/history"
	"github.com/jward/prism/internal/runtime"
	"github.com/samber/do"
	"github.com/spf13/cobra"
)

var (
	flagTab       string
	flagLanguage  string
	flagNoHistory bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Analyze a file (or stdin) and print the result",
	Long:  "Submits the source once to the analyzer and prints the sections of the selected tab, or every section when no tab is given.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&flagTab, "tab", "", "show one tab: lexical|syntax|semantic|symbols")
	analyzeCmd.Flags().StringVar(&flagLanguage, "language", "", "language hint sent to the analyzer (default: from file extension)")
	analyzeCmd.Flags().BoolVar(&flagNoHistory, "no-history", false, "do not record the cycle in the history database")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	var tab prism.Tab
	if flagTab != "" {
		t, err := prism.ParseTab(flagTab)
		if err != nil {
			return outputError("analyze", err)
		}
		tab = t
	}

	path := ""
	if len(args) > 0 {
		path = args[0]
	}
	source, err := readSource(path, cmd.InOrStdin())
	if err != nil {
		return outputError("analyze", err)
	}

	cfg := do.MustInvoke[*config.Config](injector)
	lang := flagLanguage
	if lang == "" && path != "" {
		lang, _ = runtime.LanguageForFile(path)
	}
	endpoint, err := endpointWithLanguage(cfg.Endpoint, lang)
	if err != nil {
		return outputError("analyze", err)
	}

	opts := []prism.SessionOption{}
	if !flagNoHistory {
		if st := historyStore(injector); st != nil {
			opts = append(opts, prism.WithObserver(history.NewRecorder(st, uuid.NewString()).Observe))
		}
	}

	presenter := do.MustInvoke[*prism.Presenter](injector)
	result, err := analyzeOnce(cmd.Context(), prism.NewClient(endpoint), presenter, source, tab, opts...)
	if err != nil {
		return outputError("analyze", err)
	}
	return outputResult(CLIResult{Command: "analyze", Results: result})
}

// analyzeOnce runs a single cycle in a fresh session. A failed cycle is
// returned as an error carrying the user-facing message.
func analyzeOnce(ctx context.Context, a prism.Analyzer, p *prism.Presenter, source string, tab prism.Tab, opts ...prism.SessionOption) (CLIAnalysis, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	sess := prism.NewSession(opts...)
	snap, err := sess.Run(ctx, a, source)
	if err != nil {
		return CLIAnalysis{}, err
	}
	if snap.State == prism.Failed {
		return CLIAnalysis{}, errors.New(prism.UserMessage(snap.Err, p.Labels()))
	}
	out := CLIAnalysis{
		Cycle: CLICycleRef{
			ID:         snap.Cycle.ID,
			Seq:        snap.Cycle.Seq,
			StartedAt:  snap.Cycle.StartedAt,
			FinishedAt: snap.FinishedAt,
		},
		View: p.Present(snap.Result),
	}
	if tab != "" {
		out.Tab = string(tab)
		out.Sections = tab.Sections()
	}
	return out, nil
}

// readSource reads path, or r when path is empty or "-".
func readSource(path string, r io.Reader) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(r)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

// endpointWithLanguage adds a lang query parameter to endpoint.
func endpointWithLanguage(endpoint, lang string) (string, error) {
	if lang == "" {
		return endpoint, nil
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
	}
	q := u.Query()
	q.Set("lang", lang)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
