package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"peonytest/internal/ui"
	"peonytest/internal/verify"
)

type runFunc func(ctx context.Context, opts verify.RunOptions) verify.Summary

// runWithUI runs the test on a goroutine while the progress UI owns the
// terminal. Reports written by run must go to a buffer, not stdout.
func runWithUI(ctx context.Context, title string, tst *verify.Test, opts verify.RunOptions, run runFunc) (verify.Summary, error) {
	events := make(chan verify.Event, 256)
	outcomeCh := make(chan verify.Summary, 1)

	go func() {
		optsCopy := opts
		optsCopy.Sink = verify.Tee(opts.Sink, verify.ChannelSink{Ch: events})
		outcomeCh <- run(ctx, optsCopy)
		close(events)
	}()

	commands := make([]string, 0, len(tst.Commands()))
	for _, c := range tst.Commands() {
		commands = append(commands, c.String())
	}
	model := ui.NewProgressModel(title, commands, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	if uiErr != nil {
		// Keep the worker from blocking on a channel nobody reads.
		go func() {
			for range events {
			}
		}()
	}
	summary := <-outcomeCh
	return summary, uiErr
}
