package main

import (
	"fmt"
	"io"
	"time"

	"peonytest/internal/observ"
	"peonytest/internal/verify"
)

func printTimings(out io.Writer, timer *observ.Timer, summary verify.Summary) {
	if out == nil || timer == nil {
		return
	}
	fmt.Fprint(out, timer.Summary())
	fmt.Fprintf(out, "wall %.1f ms, %d passed, %d failed\n",
		toMillis(summary.Elapsed),
		summary.Count(verify.StatusPass),
		summary.Failures())
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
