// Package readline keeps the input history of interactive sessions.
package readline

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/emirpasic/gods/v2/lists/arraylist"
)

// History is a bounded, consecutive-deduplicating buffer of REPL inputs
// persisted under ~/.cevia/history. With Enabled false it still collects
// lines for the session but never touches the file.
type History struct {
	Enabled bool

	lines    *arraylist.List[string]
	limit    int
	filename string
}

// NewHistory opens the shared history file, creating it when missing.
func NewHistory() (*History, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return load(filepath.Join(home, ".cevia", "history"))
}

func load(path string) (*History, error) {
	h := &History{
		Enabled:  true,
		lines:    arraylist.New[string](),
		limit:    100,
		filename: path,
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDONLY, 0o600)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); len(line) > 0 {
			h.append(line)
		}
	}

	return h, scanner.Err()
}

// Add records one input line and persists the buffer.
func (h *History) Add(line string) {
	h.append(line)
	_ = h.Save()
}

func (h *History) append(line string) {
	if latest, _ := h.lines.Get(h.Size() - 1); latest == line {
		return
	}

	h.lines.Add(line)
	if s := h.lines.Size(); s > h.limit {
		for i := 0; i < s-h.limit; i++ {
			h.lines.Remove(0)
		}
	}
}

// Size returns the number of buffered lines.
func (h *History) Size() int {
	return h.lines.Size()
}

// Clear drops the buffered lines without touching the file.
func (h *History) Clear() {
	h.lines.Clear()
}

// Save writes the buffer to the history file via an atomic rename.
// Disabled history never writes.
func (h *History) Save() error {
	if !h.Enabled {
		return nil
	}

	f, err := os.CreateTemp(filepath.Dir(h.filename), "")
	if err != nil {
		return err
	}

	func() {
		defer f.Close()

		w := bufio.NewWriter(f)
		defer w.Flush()

		h.lines.Each(func(i int, line string) {
			fmt.Fprintln(w, line)
		})
	}()

	return os.Rename(f.Name(), h.filename)
}
