package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Bar is a terminal progress bar. Increment is safe to call from multiple
// goroutines; the completed count only ever grows.
type Bar struct {
	total      int64
	current    int64
	width      int
	writer     io.Writer
	mu         sync.Mutex
	lastUpdate time.Time
}

func New(total int64) *Bar {
	return &Bar{
		total:      total,
		width:      50,
		writer:     os.Stdout,
		lastUpdate: time.Now(),
	}
}

// NewTo writes the bar to w instead of stdout.
func NewTo(total int64, w io.Writer) *Bar {
	b := New(total)
	b.writer = w
	return b
}

func (b *Bar) Increment() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.current++

	// Update at most every 100ms to reduce flickering
	now := time.Now()
	if now.Sub(b.lastUpdate) > 100*time.Millisecond || b.current == b.total {
		b.lastUpdate = now
		b.render()
	}
}

// Current returns the completed count so far.
func (b *Bar) Current() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}

// render must be called with mu already locked
func (b *Bar) render() {
	if b.total == 0 {
		return
	}

	percent := float64(b.current) / float64(b.total) * 100
	filledWidth := int(float64(b.width) * float64(b.current) / float64(b.total))
	if filledWidth > b.width {
		filledWidth = b.width
	}

	bar := strings.Repeat("█", filledWidth) + strings.Repeat("░", b.width-filledWidth)

	fmt.Fprintf(b.writer, "\r\033[K[%s] %3d%% (%d/%d files)",
		bar, int(percent), b.current, b.total)
}

func (b *Bar) Finish() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.current = b.total
	b.render()
	fmt.Fprintf(b.writer, "\n")
}
