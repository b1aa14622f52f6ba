package internal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// Role identifies who produced a turn. System instructions are configured
// out of band and never stored as turns.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// ParseRole converts a stored role tag to a Role
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser, RoleModel:
		return Role(s), nil
	case "":
		return "", fmt.Errorf("missing role")
	default:
		return "", fmt.Errorf("unknown role %q (expected user or model)", s)
	}
}

// Fragment is one piece of a turn's content: either Text or Opaque.
type Fragment interface {
	isFragment()
}

// Text is a plain text fragment
type Text struct {
	Content string
}

// Opaque holds a fragment shape this client doesn't interpret (inline data,
// function calls, thought parts). Raw is the compact JSON object as stored.
type Opaque struct {
	Raw json.RawMessage
}

func (Text) isFragment()   {}
func (Opaque) isFragment() {}

// NewOpaque builds an Opaque fragment from a JSON object, normalizing it to
// its compact form.
func NewOpaque(raw []byte) (Opaque, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return Opaque{}, fmt.Errorf("invalid fragment JSON: %w", err)
	}
	return Opaque{Raw: json.RawMessage(buf.Bytes())}, nil
}

// Turn is one role-tagged entry in a conversation
type Turn struct {
	Role      Role
	Fragments []Fragment
}

// NewTextTurn creates a turn holding a single text fragment
func NewTextTurn(role Role, text string) Turn {
	return Turn{Role: role, Fragments: []Fragment{Text{Content: text}}}
}

// Text returns the concatenated content of the turn's text fragments
func (t Turn) Text() string {
	var b strings.Builder
	for _, f := range t.Fragments {
		if txt, ok := f.(Text); ok {
			b.WriteString(txt.Content)
		}
	}
	return b.String()
}

// OpaqueCount returns how many fragments are not plain text
func (t Turn) OpaqueCount() int {
	n := 0
	for _, f := range t.Fragments {
		if _, ok := f.(Opaque); ok {
			n++
		}
	}
	return n
}

func (t Turn) clone() Turn {
	fragments := make([]Fragment, len(t.Fragments))
	for i, f := range t.Fragments {
		if o, ok := f.(Opaque); ok {
			f = Opaque{Raw: slices.Clone(o.Raw)}
		}
		fragments[i] = f
	}
	return Turn{Role: t.Role, Fragments: fragments}
}

// TurnSequence is the ordered log of conversation turns. It is a value: Append
// and ExtendLast return a new sequence and never modify turns visible through
// an earlier copy.
type TurnSequence struct {
	turns []Turn
}

// NewTurnSequence creates a sequence holding copies of turns
func NewTurnSequence(turns []Turn) TurnSequence {
	seq := TurnSequence{turns: make([]Turn, 0, len(turns))}
	for _, t := range turns {
		seq.turns = append(seq.turns, t.clone())
	}
	return seq
}

// Len returns the number of turns
func (s TurnSequence) Len() int {
	return len(s.turns)
}

// Turns returns a copy of the turns in conversation order
func (s TurnSequence) Turns() []Turn {
	out := make([]Turn, len(s.turns))
	for i, t := range s.turns {
		out[i] = t.clone()
	}
	return out
}

// Last returns the final turn, if any
func (s TurnSequence) Last() (Turn, bool) {
	if len(s.turns) == 0 {
		return Turn{}, false
	}
	return s.turns[len(s.turns)-1].clone(), true
}

// Append returns a sequence with t added at the tail
func (s TurnSequence) Append(t Turn) TurnSequence {
	turns := s.turns[:len(s.turns):len(s.turns)]
	return TurnSequence{turns: append(turns, t.clone())}
}

// ExtendLast returns a sequence whose final turn has text appended to its
// trailing text fragment, or a new text fragment when the trailing fragment
// is opaque. On an empty sequence it behaves like appending a model turn.
func (s TurnSequence) ExtendLast(text string) TurnSequence {
	n := len(s.turns)
	if n == 0 {
		return s.Append(NewTextTurn(RoleModel, text))
	}

	last := s.turns[n-1].clone()
	if k := len(last.Fragments); k > 0 {
		if txt, ok := last.Fragments[k-1].(Text); ok {
			last.Fragments[k-1] = Text{Content: txt.Content + text}
		} else {
			last.Fragments = append(last.Fragments, Text{Content: text})
		}
	} else {
		last.Fragments = []Fragment{Text{Content: text}}
	}

	turns := s.turns[: n-1 : n-1]
	return TurnSequence{turns: append(turns, last)}
}
