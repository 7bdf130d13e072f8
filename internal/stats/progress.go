package stats

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"claque/internal/core"
)

// Progress prints a one-line summary once per second while a live run
// is underway.
type Progress struct {
	recorder *Recorder
	ticker   *time.Ticker
	stopCh   chan struct{}
	quiet    bool
	output   io.Writer
	mu       sync.Mutex
	stopped  bool
}

func NewProgress(r *Recorder, quiet bool) *Progress {
	return &Progress{
		recorder: r,
		quiet:    quiet,
		output:   os.Stderr,
	}
}

func (p *Progress) SetOutput(w io.Writer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.output = w
}

func (p *Progress) Start() {
	if p.quiet {
		return
	}
	p.stopCh = make(chan struct{})
	p.ticker = time.NewTicker(1 * time.Second)
	go p.run()
}

func (p *Progress) run() {
	for {
		select {
		case <-p.stopCh:
			return
		case <-p.ticker.C:
			p.printLine()
		}
	}
}

func (p *Progress) printLine() {
	s := p.recorder.Snapshot()
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.output, "\r[%s] delivered=%d typing=%d abandoned=%d",
		s.Uptime.Round(time.Second), s.Delivered,
		s.Events[core.EventStart]-s.Sessions, s.Abandoned)
}

func (p *Progress) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.quiet || p.stopped {
		return
	}
	p.stopped = true
	p.ticker.Stop()
	close(p.stopCh)
	fmt.Fprintln(p.output)
}
