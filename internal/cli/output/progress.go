package output

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// Progress reports how many files of a collection have loaded.
type Progress struct {
	w       io.Writer
	title   string
	total   int
	current int
	width   int
	mu      sync.Mutex
}

// NewProgress creates a progress line for total files.
func NewProgress(w io.Writer, title string, total int) *Progress {
	return &Progress{
		w:     w,
		title: title,
		total: total,
		width: 30,
	}
}

// Step records one loaded file and redraws the line.
func (p *Progress) Step(path string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current++
	p.render(path)
}

// Finish ends the line.
func (p *Progress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.w)
}

func (p *Progress) render(path string) {
	if p.total <= 0 {
		fmt.Fprintf(p.w, "\r%s %d", p.title, p.current)
		return
	}

	filled := p.width * p.current / p.total
	if filled > p.width {
		filled = p.width
	}
	bar := strings.Repeat("#", filled) + strings.Repeat(".", p.width-filled)

	fmt.Fprintf(p.w, "\r\033[K%s [%s] %d/%d %s", p.title, bar, p.current, p.total, path)
}
