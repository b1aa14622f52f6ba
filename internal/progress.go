package internal

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	progressStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)
)

// Printer writes status lines, decorating them when attached to a terminal
type Printer struct {
	out io.Writer
	err io.Writer
}

// NewPrinter creates a Printer writing regular output to out and problems to errOut
func NewPrinter(out, errOut io.Writer) *Printer {
	return &Printer{out: out, err: errOut}
}

// Success prints a success message
func (p *Printer) Success(message string) {
	if isTerminal(p.out) {
		fmt.Fprintf(p.out, "%s %s\n", successStyle.Render("✓"), message)
	} else {
		fmt.Fprintln(p.out, message)
	}
}

// Error prints an error message
func (p *Printer) Error(message string) {
	if isTerminal(p.err) {
		fmt.Fprintf(p.err, "%s %s\n", errorStyle.Render("✗"), message)
	} else {
		fmt.Fprintf(p.err, "ERROR: %s\n", message)
	}
}

// Info prints an info message
func (p *Printer) Info(message string) {
	if isTerminal(p.out) {
		fmt.Fprintf(p.out, "%s %s\n", progressStyle.Render("ℹ"), message)
	} else {
		fmt.Fprintln(p.out, message)
	}
}

// Warning prints a warning message
func (p *Printer) Warning(message string) {
	if isTerminal(p.err) {
		fmt.Fprintf(p.err, "%s %s\n", warningStyle.Render("⚠"), message)
	} else {
		fmt.Fprintf(p.err, "WARNING: %s\n", message)
	}
}

// ShowProgress runs fn while a spinner is drawn on the error stream. Off a
// terminal it just logs the message and runs fn.
func (p *Printer) ShowProgress(ctx context.Context, message string, fn func() error) error {
	if !isTerminal(p.err) {
		LogInfo(message)
		return fn()
	}

	spinnerChars := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	stop := make(chan struct{})
	spinnerDone := make(chan struct{})

	go func() {
		defer close(spinnerDone)
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		i := 0
		for {
			select {
			case <-ctx.Done():
				return
			case <-stop:
				return
			case <-ticker.C:
				char := spinnerChars[i%len(spinnerChars)]
				fmt.Fprintf(p.err, "\r%s %s", progressStyle.Render(char), message)
				i++
			}
		}
	}()

	err := fn()
	close(stop)
	<-spinnerDone

	if err != nil {
		fmt.Fprintf(p.err, "\r%s %s\n", errorStyle.Render("✗"), message)
		return err
	}
	fmt.Fprintf(p.err, "\r%s %s\n", successStyle.Render("✓"), message)
	return nil
}

// isTerminal checks if the writer is a terminal
func isTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}
