package cli

import (
	"fmt"
	"io"
	"sync"
	"time"

	"emoji-transfer/internal/model"
	"emoji-transfer/internal/transfer"

	"github.com/charmbracelet/lipgloss"
)

var (
	reportTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	reportMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	reportOKStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	reportErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
)

const countdownTick = 500 * time.Millisecond

// consoleReporter prints transfer progress for a human. Batch completions
// arrive from the scheduler's reporting goroutine, so every write holds mu.
type consoleReporter struct {
	out  io.Writer
	live bool

	mu        sync.Mutex
	countdown *countdown
}

func newConsoleReporter(out io.Writer, live bool) *consoleReporter {
	return &consoleReporter{out: out, live: live}
}

func (r *consoleReporter) TransferPlanned(plan model.TransferPlan) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clearLine()
	fmt.Fprintln(r.out, reportTitleStyle.Render(fmt.Sprintf(
		"transfer %s: %d emoji in %d batch(es) of up to %d, one batch every %s",
		plan.RunID, plan.TotalItems(), len(plan.Batches), plan.BatchSize, plan.BatchInterval,
	)))
}

func (r *consoleReporter) BatchWaiting(index, total int, wait time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.live {
		fmt.Fprintln(r.out, reportMutedStyle.Render(fmt.Sprintf(
			"waiting %s before batch %d/%d", wait.Round(time.Second), index+1, total,
		)))
		return
	}
	r.stopCountdownLocked()
	r.countdown = startCountdown(r, index, total, time.Now().Add(wait))
}

func (r *consoleReporter) BatchStarted(index, total, size int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopCountdownLocked()
	fmt.Fprintf(r.out, "[%d/%d] uploading %d emoji...\n", index+1, total, size)
}

func (r *consoleReporter) BatchCompleted(summary transfer.BatchSummary) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clearLine()
	line := fmt.Sprintf("[%d/%d] batch done: %d ok, %d failed (%s)",
		summary.Index+1, summary.Total, len(summary.Succeeded), len(summary.Failed), summary.Duration.Round(time.Millisecond))
	if len(summary.Failed) > 0 {
		fmt.Fprintln(r.out, reportErrorStyle.Render(line))
	} else {
		fmt.Fprintln(r.out, reportOKStyle.Render(line))
	}
	for _, o := range summary.Succeeded {
		fmt.Fprintf(r.out, "  ok    :%s:  %s\n", o.Name, o.SourceURL)
	}
	for _, o := range summary.Failed {
		fmt.Fprintf(r.out, "  fail  :%s:  %s  %s\n", o.Name, o.SourceURL, reportErrorStyle.Render(o.Error))
	}
}

func (r *consoleReporter) TransferCompleted(report transfer.Report) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopCountdownLocked()
	printReportSummary(r.out, report)
}

// clearLine wipes an in-place countdown line before regular output.
func (r *consoleReporter) clearLine() {
	if r.live && r.countdown != nil {
		fmt.Fprint(r.out, "\r\033[2K")
	}
}

func (r *consoleReporter) stopCountdownLocked() {
	if r.countdown == nil {
		return
	}
	r.countdown.stop()
	r.countdown = nil
	fmt.Fprint(r.out, "\r\033[2K")
}

func printReportSummary(out io.Writer, report transfer.Report) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, reportTitleStyle.Render("transfer summary"))
	fmt.Fprintf(out, "processed: %d/%d\n", report.Processed, report.Planned)
	fmt.Fprintf(out, "succeeded: %d\n", report.Succeeded)
	fmt.Fprintf(out, "failed: %d\n", report.Failed)
	fmt.Fprintf(out, "skipped: %d\n", len(report.Skipped))
	fmt.Fprintf(out, "uploaded: %s\n", formatBytesIEC(report.Bytes))
	if report.Elapsed > 0 {
		fmt.Fprintf(out, "elapsed: %s\n", report.Elapsed.Round(time.Second))
	}
	if len(report.Failures) == 0 {
		return
	}
	fmt.Fprintln(out, reportErrorStyle.Render("failures:"))
	for _, o := range report.Failures {
		fmt.Fprintf(out, "  :%s:  %s  %s\n", o.Name, o.SourceURL, o.Error)
	}
}

// countdown redraws "next batch in Ns" in place until stopped.
type countdown struct {
	done chan struct{}
}

func startCountdown(r *consoleReporter, index, total int, at time.Time) *countdown {
	c := &countdown{done: make(chan struct{})}
	go func() {
		t := time.NewTicker(countdownTick)
		defer t.Stop()
		for {
			select {
			case <-c.done:
				return
			case <-t.C:
				remaining := time.Until(at).Round(time.Second)
				if remaining < 0 {
					remaining = 0
				}
				r.mu.Lock()
				select {
				case <-c.done:
				default:
					fmt.Fprintf(r.out, "\r\033[2K%s", reportMutedStyle.Render(fmt.Sprintf(
						"batch %d/%d starts in %s", index+1, total, remaining,
					)))
				}
				r.mu.Unlock()
			}
		}
	}()
	return c
}

// stop is called with the reporter's mutex held; the ticker goroutine
// re-checks done after taking the lock, so it never writes after stop.
func (c *countdown) stop() {
	close(c.done)
}
