package progress

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestLog(t *testing.T) {
	var buf bytes.Buffer
	f := Log{Logger: zerolog.New(&buf)}

	r := f.Start("professors", 2)
	r.Increment()
	r.Increment()
	r.Done()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 log lines, got %d: %s", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], `"phase":"professors"`) || !strings.Contains(lines[0], `"total":2`) {
		t.Errorf("start line = %s", lines[0])
	}
	if !strings.Contains(lines[2], `"done":2`) {
		t.Errorf("second progress line = %s", lines[2])
	}
	if !strings.Contains(lines[3], "Phase finished") {
		t.Errorf("last line = %s", lines[3])
	}
}

func TestNop(t *testing.T) {
	r := Nop{}.Start("anything", 10)
	r.Increment()
	r.Done()
}

func TestBars_DoneReturns(t *testing.T) {
	tests := []struct {
		name       string
		total      int
		increments int
	}{
		{"exact", 3, 3},
		{"fewer than announced", 5, 2},
		{"zero total", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			r := Bars{Output: &buf, Width: 40}.Start(tt.name, tt.total)
			for i := 0; i < tt.increments; i++ {
				r.Increment()
			}

			finished := make(chan struct{})
			go func() {
				r.Done()
				close(finished)
			}()

			select {
			case <-finished:
			case <-time.After(5 * time.Second):
				t.Fatal("Done() did not return")
			}
		})
	}
}
