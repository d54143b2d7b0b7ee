// Package progress reports how far a fetch phase has come.
package progress

import (
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/vbauerster/mpb"
	"github.com/vbauerster/mpb/decor"
)

// Reporter tracks one phase.
type Reporter interface {
	// Increment records one finished unit of work.
	Increment()

	// Done finishes the phase. It must be called exactly once.
	Done()
}

// Factory starts a Reporter per phase.
type Factory interface {
	Start(name string, total int) Reporter
}

// Nop discards progress.
type Nop struct{}

// Start implements Factory.
func (Nop) Start(string, int) Reporter { return nopReporter{} }

type nopReporter struct{}

func (nopReporter) Increment() {}
func (nopReporter) Done()      {}

// Log writes one info line per unit of work.
type Log struct {
	Logger zerolog.Logger
}

// Start implements Factory.
func (l Log) Start(name string, total int) Reporter {
	l.Logger.Info().Str("phase", name).Int("total", total).Msg("Phase started")
	return &logReporter{logger: l.Logger, name: name, total: total, start: time.Now()}
}

type logReporter struct {
	logger zerolog.Logger
	name   string
	total  int
	done   int
	start  time.Time
}

func (r *logReporter) Increment() {
	r.done++
	r.logger.Info().
		Str("phase", r.name).
		Int("done", r.done).
		Int("total", r.total).
		Msg("Progress")
}

func (r *logReporter) Done() {
	r.logger.Info().
		Str("phase", r.name).
		Int("done", r.done).
		Dur("duration", time.Since(r.start)).
		Msg("Phase finished")
}

// Bars draws one terminal progress bar per phase. Bars are drawn one at a
// time; Start must not be called again before the previous Reporter is Done.
type Bars struct {
	// Output defaults to stdout when nil.
	Output io.Writer

	// Width of the bar in columns; zero uses the mpb default.
	Width int
}

// Start implements Factory.
func (b Bars) Start(name string, total int) Reporter {
	opts := []mpb.ProgressOption{}
	if b.Output != nil {
		opts = append(opts, mpb.WithOutput(b.Output))
	}
	if b.Width > 0 {
		opts = append(opts, mpb.WithWidth(b.Width))
	}
	p := mpb.New(opts...)

	// mpb never completes a bar with a zero total.
	barTotal := int64(total)
	if barTotal <= 0 {
		barTotal = 1
	}
	bar := p.AddBar(barTotal,
		mpb.PrependDecorators(
			decor.Name(name),
			decor.CountersNoUnit("%3d/%3d", decor.WCSyncSpace),
		),
		mpb.AppendDecorators(decor.AverageETA(decor.ET_STYLE_HHMMSS)))

	return &barReporter{progress: p, bar: bar, start: time.Now()}
}

type barReporter struct {
	progress *mpb.Progress
	bar      *mpb.Bar
	start    time.Time
	count    int64
	once     sync.Once
}

func (r *barReporter) Increment() {
	r.count++
	r.bar.IncrBy(1, time.Since(r.start))
}

func (r *barReporter) Done() {
	r.once.Do(func() {
		// Set the final total so Wait returns even when fewer units were
		// reported than announced.
		total := r.count
		if total == 0 {
			r.bar.IncrBy(1, time.Since(r.start))
			total = 1
		}
		r.bar.SetTotal(total, true)
		r.progress.Wait()
	})
}
