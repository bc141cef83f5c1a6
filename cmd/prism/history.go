package main

import (
	"fmt"
	"os"

	"github.com/jward/prism/internal/config"
	"github.com/jward/prism/internal/store"
	"github.com/samber/do"
	"github.com/spf13/cobra"
)

var (
	flagLimit   int
	flagSession string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded analysis cycles, newest first",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&flagLimit, "limit", 20, "maximum number of cycles to list (0 for all)")
	historyCmd.Flags().StringVar(&flagSession, "session", "", "only list cycles of this session id")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg := do.MustInvoke[*config.Config](injector)
	if _, err := os.Stat(cfg.HistoryDB); os.IsNotExist(err) {
		return outputError("history", fmt.Errorf("history database not found: %s (run 'prism analyze' first)", cfg.HistoryDB))
	}
	s, err := do.Invoke[*store.Store](injector)
	if err != nil {
		return outputError("history", err)
	}

	var rows []*store.Cycle
	if flagSession != "" {
		rows, err = s.CyclesBySession(flagSession)
	} else {
		rows, err = s.ListCycles(flagLimit)
	}
	if err != nil {
		return outputError("history", err)
	}
	total, err := s.CountCycles()
	if err != nil {
		return outputError("history", err)
	}

	cycles := make([]CLICycle, 0, len(rows))
	for _, c := range rows {
		cycles = append(cycles, cycleToCLI(c))
	}
	result := CLIResult{Command: "history", Results: cycles}
	if flagSession == "" {
		result.TotalCount = &total
	}
	return outputResult(result)
}

// cycleToCLI converts a store.Cycle to a CLICycle.
func cycleToCLI(c *store.Cycle) CLICycle {
	return CLICycle{
		ID:           c.ID,
		Seq:          c.Seq,
		SessionID:    c.SessionID,
		StartedAt:    c.StartedAt,
		FinishedAt:   c.FinishedAt,
		SourceHash:   c.SourceHash,
		SourceLen:    c.SourceLen,
		State:        c.State,
		ErrorKind:    c.ErrorKind,
		ErrorMessage: c.ErrorMessage,
		TokenCount:   c.TokenCount,
		NodeCount:    c.NodeCount,
		ErrorCount:   c.ErrorCount,
	}
}
