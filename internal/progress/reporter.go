// Package progress reports how far a batch command (prefetch, export) has
// got through the catalog.
package progress

import (
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
)

type Reporter interface {
	Start(total int)
	// Update marks done elements finished; label names the latest one.
	Update(done int, label string)
	Finish()
}

// NewReporter picks a line-per-element reporter under CI and a terminal
// bar otherwise.
func NewReporter(task string) Reporter {
	if inCI() {
		return &CIReporter{Task: task, Out: os.Stderr}
	}
	return &TerminalReporter{Task: task}
}

func inCI() bool {
	for _, v := range []string{"CI", "GITHUB_ACTIONS"} {
		if os.Getenv(v) != "" {
			return true
		}
	}
	return false
}

// TerminalReporter draws a progressbar on stderr that clears itself when
// the batch completes.
type TerminalReporter struct {
	Task string
	bar  *progressbar.ProgressBar
}

func (r *TerminalReporter) Start(total int) {
	r.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription(r.Task),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

func (r *TerminalReporter) Update(done int, label string) {
	if r.bar == nil {
		return
	}
	r.bar.Describe(fmt.Sprintf("%s: %s", r.Task, label))
	_ = r.bar.Set(done)
}

func (r *TerminalReporter) Finish() {
	if r.bar == nil {
		return
	}
	_ = r.bar.Finish()
}

// CIReporter writes one plain line per element, which reads better in
// build logs than carriage-return animation.
type CIReporter struct {
	Task  string
	Out   io.Writer
	total int
}

func (r *CIReporter) Start(total int) {
	r.total = total
	fmt.Fprintf(r.Out, "%s: %d elements\n", r.Task, total)
}

func (r *CIReporter) Update(done int, label string) {
	fmt.Fprintf(r.Out, "[%d/%d] %s\n", done, r.total, label)
}

func (r *CIReporter) Finish() {
	fmt.Fprintf(r.Out, "%s: done\n", r.Task)
}
