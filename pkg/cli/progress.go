package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// ProgressReporter reports progress through a batch of evaluations.
type ProgressReporter interface {
	Start(total int)
	Step(failed bool)
	Finish()
	Error(err error)
}

const progressBarWidth = 30

// BarProgress draws a single-line progress bar, redrawn in place with a
// carriage return. It counts failed evaluations separately.
type BarProgress struct {
	mu      sync.Mutex
	w       io.Writer
	total   int
	done    int
	failed  int
	started time.Time

	// now is replaceable in tests.
	now func() time.Time
}

// NewProgressReporter creates a reporter writing to w, or to os.Stderr when
// w is nil so the bar never mixes with results on stdout.
func NewProgressReporter(w io.Writer) *BarProgress {
	if w == nil {
		w = os.Stderr
	}
	return &BarProgress{w: w, now: time.Now}
}

// Start resets the counters for a batch of total items.
func (p *BarProgress) Start(total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.total, p.done, p.failed = total, 0, 0
	p.started = p.now()
	p.draw()
}

// Step records one finished evaluation.
func (p *BarProgress) Step(failed bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.done < p.total {
		p.done++
	}
	if failed {
		p.failed++
	}
	p.draw()
}

// Finish draws the final state and ends the line. Items not stepped, e.g.
// after cancellation, are left uncounted.
func (p *BarProgress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.draw()
	fmt.Fprintln(p.w)
}

// Error ends the bar with an error line.
func (p *BarProgress) Error(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintf(p.w, "\n✗ Error: %v\n", err)
}

func (p *BarProgress) draw() {
	if p.total <= 0 {
		return
	}

	filled := p.done * progressBarWidth / p.total
	var b strings.Builder
	b.WriteString("\rEvaluating [")
	b.WriteString(strings.Repeat("#", filled))
	b.WriteString(strings.Repeat(".", progressBarWidth-filled))
	fmt.Fprintf(&b, "] %d/%d", p.done, p.total)
	if p.failed > 0 {
		fmt.Fprintf(&b, " (%d failed)", p.failed)
	}
	if elapsed := p.now().Sub(p.started).Seconds(); elapsed > 0 {
		fmt.Fprintf(&b, " %.0f expr/s", float64(p.done)/elapsed)
	}
	io.WriteString(p.w, b.String())
}
