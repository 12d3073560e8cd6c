// Package progress renders a live status line for a running training pass.
package progress

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/term"

	"github.com/gtkrshnaaa/cevia/format"
)

var frames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const defaultTermWidth = 80

// Tracker is a single self-refreshing terminal line showing a spinner, a
// message and the live token and vocabulary counts of a training pass.
type Tracker struct {
	// mu guards the counters and every write to w
	mu sync.Mutex
	// buffer output to minimize flickering on all terminals
	w *bufio.Writer

	message string
	tokens  uint64
	vocab   uint64

	frame   int
	started time.Time
	ticker  *time.Ticker
	stopped bool
}

func NewTracker(w io.Writer, message string) *Tracker {
	t := &Tracker{
		w:       bufio.NewWriter(w),
		message: message,
		started: time.Now(),
	}
	go t.run()
	return t
}

// Update publishes the latest training counters.
func (t *Tracker) Update(tokens, vocab uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.tokens = tokens
	t.vocab = vocab
}

func (t *Tracker) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.line()
}

// line renders the status line. The caller holds mu.
func (t *Tracker) line() string {
	var sb strings.Builder
	sb.WriteString(frames[t.frame])
	sb.WriteString(" ")
	sb.WriteString(t.message)
	if t.tokens > 0 {
		fmt.Fprintf(&sb, "  %s tokens, %s vocabulary entries",
			format.HumanNumber(t.tokens), format.HumanNumber(t.vocab))
	}
	fmt.Fprintf(&sb, " (%s)", time.Since(t.started).Round(time.Second))

	line := sb.String()
	width, _, err := term.GetSize(int(os.Stderr.Fd()))
	if err != nil {
		width = defaultTermWidth
	}
	if runes := []rune(line); len(runes) > width {
		line = string(runes[:width])
	}
	return line
}

func (t *Tracker) run() {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}
	t.ticker = time.NewTicker(100 * time.Millisecond)
	ticker := t.ticker
	// hide cursor while the line redraws in place
	fmt.Fprint(t.w, "\033[?25l")
	t.mu.Unlock()

	for range ticker.C {
		t.mu.Lock()
		if t.stopped {
			t.mu.Unlock()
			return
		}
		t.frame = (t.frame + 1) % len(frames)
		fmt.Fprint(t.w, "\033[1G\033[K", t.line())
		t.w.Flush()
		t.mu.Unlock()
	}
}

// Stop freezes the line, leaving the final counts visible.
func (t *Tracker) Stop() {
	t.finish(false)
}

// StopAndClear erases the line.
func (t *Tracker) StopAndClear() {
	t.finish(true)
}

func (t *Tracker) finish(clear bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stopped {
		return
	}
	t.stopped = true
	if t.ticker != nil {
		t.ticker.Stop()
	}

	if clear {
		fmt.Fprint(t.w, "\033[1G\033[K")
	} else {
		fmt.Fprint(t.w, "\033[1G\033[K", t.line())
		fmt.Fprintln(t.w)
	}

	// show cursor
	fmt.Fprint(t.w, "\033[?25h")
	t.w.Flush()
}
