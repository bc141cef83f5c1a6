package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jward/prism"
	"github.com/jward/prism/internal/analyzer"
	"github.com/jward/prism/internal/config"
	"github.com/jward/prism/internal/web"
	"github.com/samber/do"
	"github.com/spf13/cobra"
)

var (
	flagListen         string
	flagPolicy         string
	flagAnalyzerListen string
	flagDefaultLang    string
	flagMaxSessions    int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the browser front end",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

var analyzerCmd = &cobra.Command{
	Use:   "analyzer",
	Short: "Reference analyzer service",
}

var analyzerServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve POST /analyze using tree-sitter and the embedded rule scripts",
	Args:  cobra.NoArgs,
	RunE:  runAnalyzerServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagListen, "listen", "", "listen address (default from config: :3000)")
	serveCmd.Flags().StringVar(&flagPolicy, "policy", "", "in-flight policy: reject|supersede (default from config)")
	serveCmd.Flags().IntVar(&flagMaxSessions, "max-sessions", web.DefaultMaxSessions, "visitor sessions kept before the least recently used is dropped")

	analyzerServeCmd.Flags().StringVar(&flagAnalyzerListen, "listen", "", "listen address (default from config: :8080)")
	analyzerServeCmd.Flags().StringVar(&flagDefaultLang, "language", "", "language used when a request names none")
	analyzerCmd.AddCommand(analyzerServeCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := do.MustInvoke[*config.Config](injector)
	cfg.Apply(config.Overrides{Listen: flagListen})
	if flagPolicy != "" {
		cfg.Policy = flagPolicy
	}
	policy, err := prism.ParsePolicy(cfg.Policy)
	if err != nil {
		return outputError("serve", err)
	}

	opts := []web.Option{
		web.WithPresenter(do.MustInvoke[*prism.Presenter](injector)),
		web.WithPolicy(policy),
		web.WithMaxSessions(flagMaxSessions),
	}
	if st := historyStore(injector); st != nil {
		opts = append(opts, web.WithStore(st))
	}
	srv := web.New(do.MustInvoke[*prism.Client](injector), opts...)

	log.Printf("prism: serving on %s (analyzer %s)", cfg.Serve.Listen, cfg.Endpoint)
	return listen(cmd.Context(), cfg.Serve.Listen, srv.Handler())
}

func runAnalyzerServe(cmd *cobra.Command, args []string) error {
	cfg := do.MustInvoke[*config.Config](injector)
	if flagAnalyzerListen != "" {
		cfg.Analyzer.Listen = flagAnalyzerListen
	}
	cfg.Apply(config.Overrides{Language: flagDefaultLang})
	svc := do.MustInvoke[*analyzer.Service](injector)

	log.Printf("prism: analyzer serving on %s (default language %s)", cfg.Analyzer.Listen, svc.Language())
	return listen(cmd.Context(), cfg.Analyzer.Listen, svc.Handler())
}

// listen serves h on addr until ctx is done or the process is interrupted.
func listen(ctx context.Context, addr string, h http.Handler) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listening on %s: %w", addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}
