package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/jward/prism"
	"github.com/jward/prism/internal/history"
	"github.com/jward/prism/internal/render"
	"github.com/peterh/liner"
	"github.com/samber/do"
	"github.com/spf13/cobra"
)

const (
	promptMain  = "prism> "
	historyFile = ".prism_history"
)

const replHelp = `Type source lines to build the buffer, then:
  :analyze          submit the buffer
  :tab <name>       show lexical, syntax, semantic or symbols
  :show             print the active tab again
  :source           print the buffer
  :load <file>      replace the buffer with a file's contents
  :clear            empty the buffer
  :help             show this help
  :quit             leave
`

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Interactive session: edit source, analyze, switch tabs",
	Args:  cobra.NoArgs,
	RunE:  runREPL,
}

func runREPL(cmd *cobra.Command, args []string) error {
	opts := []prism.SessionOption{}
	if st := historyStore(injector); st != nil {
		opts = append(opts, prism.WithObserver(history.NewRecorder(st, uuid.NewString()).Observe))
	}
	r := &repl{
		ctx:       cmd.Context(),
		analyzer:  do.MustInvoke[*prism.Client](injector),
		presenter: do.MustInvoke[*prism.Presenter](injector),
		session:   prism.NewSession(opts...),
		out:       os.Stdout,
	}

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	// Load history (best-effort)
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	fmt.Fprint(r.out, replHelp)
	for {
		line, err := ln.Prompt(promptMain)
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(r.out)
			break
		}
		if err != nil {
			// Ctrl+C aborts the current line.
			continue
		}
		if strings.HasPrefix(strings.TrimSpace(line), ":") {
			ln.AppendHistory(line)
		}
		if r.handle(line) {
			break
		}
	}

	// Persist history (best-effort)
	if f, err := os.Create(histPath); err == nil {
		_, _ = ln.WriteHistory(f)
		_ = f.Close()
	}
	return nil
}

// repl holds the interactive session. Lines that are not commands are
// appended to the source buffer.
type repl struct {
	ctx       context.Context
	analyzer  prism.Analyzer
	presenter *prism.Presenter
	session   *prism.Session
	out       io.Writer
	buf       []string
}

// handle processes one input line and reports whether to exit.
func (r *repl) handle(line string) (exit bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], ":") {
		r.buf = append(r.buf, line)
		r.session.SetSource(strings.Join(r.buf, "\n"))
		return false
	}

	switch strings.ToLower(fields[0]) {
	case ":help":
		fmt.Fprint(r.out, replHelp)

	case ":quit", ":exit":
		return true

	case ":analyze", ":a":
		r.analyze()

	case ":tab":
		if len(fields) < 2 {
			fmt.Fprintln(r.out, "usage: :tab <lexical|syntax|semantic|symbols>")
			return false
		}
		tab, err := prism.ParseTab(fields[1])
		if err != nil {
			fmt.Fprintln(r.out, err)
			return false
		}
		r.session.SelectTab(tab)
		r.show()

	case ":show":
		r.show()

	case ":source":
		fmt.Fprintln(r.out, r.session.Source())

	case ":clear":
		r.buf = nil
		r.session.SetSource("")

	case ":load":
		if len(fields) < 2 {
			fmt.Fprintln(r.out, "usage: :load <file>")
			return false
		}
		data, err := os.ReadFile(fields[1])
		if err != nil {
			fmt.Fprintf(r.out, "cannot read %s: %v\n", fields[1], err)
			return false
		}
		src := strings.TrimSuffix(string(data), "\n")
		r.buf = strings.Split(src, "\n")
		r.session.SetSource(src)
		fmt.Fprintf(r.out, "loaded %d lines\n", len(r.buf))

	default:
		fmt.Fprintln(r.out, "unknown command. Type :help for help.")
	}
	return false
}

func (r *repl) analyze() {
	ctx := r.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	snap, err := r.session.Run(ctx, r.analyzer, r.session.Source())
	if err != nil {
		fmt.Fprintln(r.out, r.presenter.Labels().InProgress)
		return
	}
	if snap.State == prism.Failed {
		fmt.Fprintln(r.out, prism.UserMessage(snap.Err, r.presenter.Labels()))
		return
	}
	r.show()
}

// show prints the sections of the active tab for the latest result.
func (r *repl) show() {
	snap := r.session.Snapshot()
	switch snap.State {
	case prism.Idle:
		fmt.Fprintln(r.out, "nothing analyzed yet; type source then :analyze")
		return
	case prism.Submitting:
		fmt.Fprintln(r.out, r.presenter.Labels().Submitting)
		return
	case prism.Failed:
		fmt.Fprintln(r.out, prism.UserMessage(snap.Err, r.presenter.Labels()))
		return
	}
	fmt.Fprintf(r.out, "[%s]\n", r.presenter.Labels().TabLabel(snap.Tab))
	if err := render.Text(r.out, r.presenter.Present(snap.Result), snap.Tab.Sections()...); err != nil {
		fmt.Fprintln(r.out, err)
	}
}
