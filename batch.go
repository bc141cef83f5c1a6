package prism

import (
	"context"
	"runtime"
	"sync"
)

// SourceFile is one input of a batch analysis.
type SourceFile struct {
	Path     string
	Language string // may be empty
	Source   string
}

// FileOutcome pairs a file with the final snapshot of its session.
type FileOutcome struct {
	File     SourceFile
	Snapshot Snapshot
}

// Failed reports whether the file's cycle ended in an error.
func (o FileOutcome) Failed() bool {
	return o.Snapshot.State == Failed
}

type batchConfig struct {
	workers     int
	sessionOpts []SessionOption
}

// BatchOption configures AnalyzeFiles.
type BatchOption func(*batchConfig)

// WithWorkers sets the number of concurrent submissions. Values below one
// mean one.
func WithWorkers(n int) BatchOption {
	return func(c *batchConfig) {
		c.workers = n
	}
}

// WithSessionOptions applies opts to the session created for every file.
func WithSessionOptions(opts ...SessionOption) BatchOption {
	return func(c *batchConfig) {
		c.sessionOpts = append(c.sessionOpts, opts...)
	}
}

// AnalyzeFiles submits every file in its own Session using a worker pool.
// analyzerFor returns the Analyzer for a file's language. Outcomes are
// returned in input order; a failed file does not stop the others.
func AnalyzeFiles(ctx context.Context, analyzerFor func(language string) Analyzer, files []SourceFile, opts ...BatchOption) []FileOutcome {
	cfg := batchConfig{workers: runtime.NumCPU()}
	for _, opt := range opts {
		opt(&cfg)
	}
	if len(files) == 0 {
		return nil
	}
	numWorkers := min(cfg.workers, len(files))
	if numWorkers < 1 {
		numWorkers = 1
	}

	workCh := make(chan int, len(files))
	for i := range files {
		workCh <- i
	}
	close(workCh)

	outcomes := make([]FileOutcome, len(files))
	var wg sync.WaitGroup
	for range numWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// Each file gets its own session; outcomes[i] is written by
			// exactly one worker.
			for i := range workCh {
				f := files[i]
				sess := NewSession(cfg.sessionOpts...)
				snap, _ := sess.Run(ctx, analyzerFor(f.Language), f.Source)
				outcomes[i] = FileOutcome{File: f, Snapshot: snap}
			}
		}()
	}
	wg.Wait()
	return outcomes
}
