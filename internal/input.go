package internal

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	// ContinuationMarker at the end of a line means more input follows.
	ContinuationMarker = `\`
	// ContinuationPrompt is shown while a submission spans several lines.
	ContinuationPrompt = "> "
)

// InputAccumulator assembles one logical submission from raw input lines
type InputAccumulator struct {
	reader             *bufio.Reader
	out                io.Writer
	continuationPrompt string
	closed             bool
}

// NewInputAccumulator creates an accumulator reading lines from r and
// writing prompts to w
func NewInputAccumulator(r io.Reader, w io.Writer) *InputAccumulator {
	return &InputAccumulator{
		reader:             bufio.NewReader(r),
		out:                w,
		continuationPrompt: ContinuationPrompt,
	}
}

// Read shows prompt and returns the next submission. A line ending in the
// continuation marker has the marker replaced by a newline and reading
// continues under the continuation prompt. Read returns ErrInputClosed once
// the source is exhausted with nothing pending.
func (a *InputAccumulator) Read(prompt string) (string, error) {
	var b strings.Builder
	current := prompt
	pending := false

	for {
		line, err := a.readLine(current)
		if err != nil {
			if errors.Is(err, ErrInputClosed) && pending {
				return strings.TrimSuffix(b.String(), "\n"), nil
			}
			return "", err
		}

		if strings.HasSuffix(line, ContinuationMarker) {
			b.WriteString(strings.TrimSuffix(line, ContinuationMarker))
			b.WriteByte('\n')
			current = a.continuationPrompt
			pending = true
			continue
		}

		b.WriteString(line)
		return b.String(), nil
	}
}

func (a *InputAccumulator) readLine(prompt string) (string, error) {
	if a.closed {
		return "", ErrInputClosed
	}
	if _, err := fmt.Fprint(a.out, prompt); err != nil {
		return "", fmt.Errorf("failed to write prompt: %w", err)
	}

	line, err := a.reader.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		a.closed = true
		if line == "" {
			return "", ErrInputClosed
		}
	}

	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line, nil
}
