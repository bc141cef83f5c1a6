package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jward/prism"
	"github.com/jward/prism/internal/analyzer"
	"github.com/jward/prism/internal/config"
	"github.com/jward/prism/internal/runtime"
	"github.com/jward/prism/internal/store"
	"github.com/jward/prism/scripts"
	"github.com/samber/do"
)

// newInjector registers the services every command draws from. Providers
// are lazy, so a command only opens what it invokes.
func newInjector(cfg *config.Config) *do.Injector {
	i := do.New()
	do.ProvideValue(i, cfg)

	do.Provide(i, func(i *do.Injector) (*prism.Presenter, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return prism.NewPresenter(prism.WithLabels(prism.LabelsFor(cfg.Locale))), nil
	})

	do.Provide(i, func(i *do.Injector) (*prism.Client, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return prism.NewClient(cfg.Endpoint), nil
	})

	do.Provide(i, func(i *do.Injector) (*store.Store, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return openHistory(cfg.HistoryDB)
	})

	do.Provide(i, func(i *do.Injector) (*runtime.Runtime, error) {
		return runtime.NewRuntime("", runtime.WithRuntimeFS(scripts.FS)), nil
	})

	do.Provide(i, func(i *do.Injector) (*analyzer.Service, error) {
		cfg := do.MustInvoke[*config.Config](i)
		rt := do.MustInvoke[*runtime.Runtime](i)
		return analyzer.New(rt, analyzer.WithLanguage(cfg.Analyzer.Language)), nil
	})

	return i
}

// openHistory opens (creating if needed) the history database at dbPath.
func openHistory(dbPath string) (*store.Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", filepath.Dir(dbPath), err)
	}
	s, err := store.NewStore(dbPath)
	if err != nil {
		return nil, err
	}
	if err := s.Migrate(); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// historyStore returns the history store, or nil with a warning when it
// cannot be opened. Recording history never blocks an analysis.
func historyStore(i *do.Injector) *store.Store {
	s, err := do.Invoke[*store.Store](i)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: history disabled: %s\n", err)
		return nil
	}
	return s
}
