package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"peonytest/internal/journal"
	"peonytest/internal/verify"
)

var historyVerbose bool

func init() {
	historyCmd.Flags().BoolVarP(&historyVerbose, "verbose", "v", false, "list every command of each run")
}

var historyCmd = &cobra.Command{
	Use:   "history <test>",
	Short: "Show recent runs of a test file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file, err := filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", args[0], err)
		}
		j, err := journal.Open(journalApp)
		if err != nil {
			return err
		}
		h, ok, err := j.Load(file)
		if err != nil {
			return err
		}
		if !ok || len(h.Entries) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "no recorded runs for %s\n", file)
			return nil
		}
		renderHistory(cmd.OutOrStdout(), h, historyVerbose)
		return nil
	},
}

func renderHistory(out io.Writer, h *journal.History, verbose bool) {
	fmt.Fprintf(out, "%s (%d runs)\n", h.File, len(h.Entries))
	for i := len(h.Entries) - 1; i >= 0; i-- {
		e := h.Entries[i]
		verdict := color.New(color.FgGreen).Sprint("PASS")
		if e.Failed {
			verdict = color.New(color.FgRed, color.Bold).Sprint("FAIL")
		}
		mode := ""
		if e.Record {
			mode = " (record)"
		}
		runID := e.RunID
		if len(runID) > 8 {
			runID = runID[:8]
		}
		fmt.Fprintf(out, "  %s  %s  %s  %d commands  %.1f ms%s\n",
			e.Started.Format("2006-01-02 15:04:05"), runID, verdict, len(e.Commands), e.Timings.TotalMS, mode)
		if !verbose {
			continue
		}
		for _, c := range e.Commands {
			fmt.Fprintf(out, "      #%d %s  %s\n", c.Index, statusLabel(c.Status), c.Command)
		}
	}
}

func statusLabel(s string) string {
	switch st := verify.Status(s); {
	case st == verify.StatusPass:
		return color.New(color.FgGreen).Sprint(s)
	case st.IsFail():
		return color.New(color.FgRed).Sprint(s)
	default:
		return color.New(color.FgYellow).Sprint(s)
	}
}
