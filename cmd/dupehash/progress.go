package main

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/mattn/go-isatty"
)

// progressPrinter redraws a single status line each time another percent of
// the candidates has been hashed.
type progressPrinter struct {
	mu      sync.Mutex
	out     io.Writer
	lastPct int
	drawn   bool
}

// newProgressPrinter returns nil unless out is a terminal
func newProgressPrinter(out io.Writer) *progressPrinter {
	f, ok := out.(*os.File)
	if !ok || !(isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return nil
	}
	return &progressPrinter{out: out, lastPct: -1}
}

func (p *progressPrinter) update(done, total int) {
	if total == 0 {
		return
	}
	pct := done * 100 / total

	p.mu.Lock()
	defer p.mu.Unlock()
	if pct == p.lastPct {
		return
	}
	p.lastPct = pct
	p.drawn = true
	fmt.Fprintf(p.out, "\rHashing files: %d/%d (%d%%)", done, total, pct)
}

func (p *progressPrinter) finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.drawn {
		fmt.Fprint(p.out, "\r\033[K")
		p.drawn = false
	}
	p.lastPct = -1
}
