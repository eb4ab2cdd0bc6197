package progress

import (
	"bytes"
	"strings"
	"sync"
	"testing"
)

func TestBar_ConcurrentIncrements(t *testing.T) {
	var buf bytes.Buffer
	bar := NewTo(100, &buf)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			bar.Increment()
		}()
	}
	wg.Wait()

	if bar.Current() != 100 {
		t.Errorf("Expected completed count 100, got %d", bar.Current())
	}

	bar.Finish()
	if !strings.Contains(buf.String(), "100%") {
		t.Error("Finished bar should render 100%")
	}
}

func TestBar_ZeroTotal(t *testing.T) {
	var buf bytes.Buffer
	bar := NewTo(0, &buf)
	bar.Finish()
	// Nothing to render besides the trailing newline
	if got := buf.String(); got != "\n" {
		t.Errorf("Unexpected output for empty bar: %q", got)
	}
}
