package console

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/briandowns/spinner"
)

// Progress is a passive sink for batch progress. Callers drive it; it never
// blocks or decides anything.
type Progress interface {
	Start(text string)
	Update(text string)
	// Pause stops rendering so a prompt can use the terminal.
	Pause()
	Resume()
	Succeed(text string)
	Cancel(text string)
}

type spinnerProgress struct {
	mu  sync.Mutex
	out io.Writer
	s   *spinner.Spinner
}

func newSpinnerProgress(w io.Writer) *spinnerProgress {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(w))
	return &spinnerProgress{out: w, s: s}
}

func (p *spinnerProgress) Start(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.s.Suffix = " " + text
	p.s.Start()
}

func (p *spinnerProgress) Update(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.s.Lock()
	p.s.Suffix = " " + text
	p.s.Unlock()
}

func (p *spinnerProgress) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.s.Stop()
}

func (p *spinnerProgress) Resume() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.s.Start()
}

func (p *spinnerProgress) Succeed(text string) {
	p.finish("🌻 " + text + "\n")
}

func (p *spinnerProgress) Cancel(text string) {
	p.finish(red("✖ "+text) + "\n")
}

func (p *spinnerProgress) finish(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.s.Active() {
		fmt.Fprint(p.out, msg)
		return
	}
	p.s.FinalMSG = msg
	p.s.Stop()
}

// lineProgress prints one line per update, for logs and pipes.
type lineProgress struct {
	out    io.Writer
	paused bool
}

func (p *lineProgress) Start(text string) { fmt.Fprintln(p.out, "… "+text) }

func (p *lineProgress) Update(text string) {
	if !p.paused {
		fmt.Fprintln(p.out, "… "+text)
	}
}

func (p *lineProgress) Pause()  { p.paused = true }
func (p *lineProgress) Resume() { p.paused = false }

func (p *lineProgress) Succeed(text string) { fmt.Fprintln(p.out, "🌻 "+text) }
func (p *lineProgress) Cancel(text string)  { fmt.Fprintln(p.out, red("✖ "+text)) }
