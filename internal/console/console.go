// Package console writes operator-facing messages: prefixed, coloured lines
// and a progress indicator.
package console

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

var (
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
)

// Console prints status lines.
type Console struct {
	out         io.Writer
	err         io.Writer
	interactive bool
}

// New returns a console writing to stdout/stderr.
func New() *Console {
	return &Console{
		out:         color.Output,
		err:         color.Error,
		interactive: isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()),
	}
}

// NewWriter returns a console writing everything to w, without a spinner.
func NewWriter(w io.Writer) *Console {
	return &Console{out: w, err: w}
}

func (c *Console) Info(format string, args ...any) {
	fmt.Fprintln(c.out, "ℹ️ "+fmt.Sprintf(format, args...))
}

func (c *Console) Start(format string, args ...any) {
	fmt.Fprintln(c.out, "🚀 "+fmt.Sprintf(format, args...))
}

func (c *Console) Warn(format string, args ...any) {
	fmt.Fprintln(c.out, yellow("⚠️ "+fmt.Sprintf(format, args...)))
}

func (c *Console) Success(format string, args ...any) {
	fmt.Fprintln(c.out, green("✅ "+fmt.Sprintf(format, args...)))
}

func (c *Console) Done(format string, args ...any) {
	fmt.Fprintln(c.out, green("✨ "+fmt.Sprintf(format, args...)))
}

// Error prints a red line prefixed with the error marker.
func (c *Console) Error(format string, args ...any) {
	fmt.Fprintln(c.err, red("🚨 "+fmt.Sprintf(format, args...)))
}

// Banner prints the program header.
func (c *Console) Banner(name, version, description string) {
	fmt.Fprintln(c.out, cyan(fmt.Sprintf("%s %s", name, version)))
	if description != "" {
		fmt.Fprintln(c.out, description)
	}
}

// NewProgress returns a spinner when attached to a terminal and a line
// printer otherwise.
func (c *Console) NewProgress() Progress {
	if c.interactive {
		return newSpinnerProgress(c.out)
	}
	return &lineProgress{out: c.out}
}
