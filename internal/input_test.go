package internal

import (
	"errors"
	"strings"
	"testing"
	"testing/iotest"
)

func TestInputAccumulator_Read(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "single line",
			input: "foo\n",
			want:  []string{"foo"},
		},
		{
			name:  "continuation",
			input: "foo\\\nbar\n",
			want:  []string{"foo\nbar"},
		},
		{
			name:  "three lines",
			input: "a\\\nb\\\nc\n",
			want:  []string{"a\nb\nc"},
		},
		{
			name:  "escaped backslash still continues",
			input: "path\\\\\nnext\n",
			want:  []string{"path\\\nnext"},
		},
		{
			name:  "backslash in the middle is literal",
			input: "a\\b\n",
			want:  []string{"a\\b"},
		},
		{
			name:  "crlf line endings",
			input: "foo\\\r\nbar\r\n",
			want:  []string{"foo\nbar"},
		},
		{
			name:  "final line without newline",
			input: "one\ntwo",
			want:  []string{"one", "two"},
		},
		{
			name:  "end of input during continuation",
			input: "dangling\\\n",
			want:  []string{"dangling"},
		},
		{
			name:  "empty submission",
			input: "\n",
			want:  []string{""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out strings.Builder
			acc := NewInputAccumulator(strings.NewReader(tt.input), &out)

			for i, want := range tt.want {
				got, err := acc.Read("user> ")
				if err != nil {
					t.Fatalf("Read() #%d error = %v", i, err)
				}
				if got != want {
					t.Errorf("Read() #%d = %q, want %q", i, got, want)
				}
			}

			if _, err := acc.Read("user> "); !errors.Is(err, ErrInputClosed) {
				t.Errorf("Read() after input exhausted error = %v, want ErrInputClosed", err)
			}
		})
	}
}

func TestInputAccumulator_Prompts(t *testing.T) {
	var out strings.Builder
	acc := NewInputAccumulator(strings.NewReader("foo\\\nbar\n"), &out)

	if _, err := acc.Read("user> "); err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got := out.String(); got != "user> "+ContinuationPrompt {
		t.Errorf("prompts written = %q, want %q", got, "user> "+ContinuationPrompt)
	}
}

func TestInputAccumulator_EmptySource(t *testing.T) {
	acc := NewInputAccumulator(strings.NewReader(""), &strings.Builder{})
	if _, err := acc.Read("> "); !errors.Is(err, ErrInputClosed) {
		t.Errorf("Read() error = %v, want ErrInputClosed", err)
	}
}

func TestInputAccumulator_ReadFailure(t *testing.T) {
	boom := errors.New("tty gone")
	acc := NewInputAccumulator(iotest.ErrReader(boom), &strings.Builder{})

	_, err := acc.Read("> ")
	if !errors.Is(err, boom) {
		t.Errorf("Read() error = %v, want wrapped %v", err, boom)
	}
	if errors.Is(err, ErrInputClosed) {
		t.Error("a read failure must not be reported as ErrInputClosed")
	}
}
