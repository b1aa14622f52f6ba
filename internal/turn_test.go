package internal

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		input   string
		want    Role
		wantErr bool
	}{
		{input: "user", want: RoleUser},
		{input: "model", want: RoleModel},
		{input: "", wantErr: true},
		{input: "assistant", wantErr: true},
		{input: "USER", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseRole(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRole(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseRole(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewOpaque_Compacts(t *testing.T) {
	o, err := NewOpaque([]byte("{\n  \"inlineData\": { \"data\": \"AA\" }\n}"))
	if err != nil {
		t.Fatalf("NewOpaque() error = %v", err)
	}
	if got := string(o.Raw); got != `{"inlineData":{"data":"AA"}}` {
		t.Errorf("NewOpaque() raw = %s", got)
	}

	if _, err := NewOpaque([]byte("{not json")); err == nil {
		t.Error("NewOpaque() should reject invalid JSON")
	}
}

func TestTurn_Text(t *testing.T) {
	turn := Turn{
		Role: RoleModel,
		Fragments: []Fragment{
			Text{Content: "see "},
			Opaque{Raw: []byte(`{"inlineData":{}}`)},
			Text{Content: "attached"},
		},
	}
	if got := turn.Text(); got != "see attached" {
		t.Errorf("Turn.Text() = %q", got)
	}
	if got := turn.OpaqueCount(); got != 1 {
		t.Errorf("Turn.OpaqueCount() = %d, want 1", got)
	}
}

func TestTurnSequence_AppendKeepsSnapshots(t *testing.T) {
	base := NewTurnSequence([]Turn{NewTextTurn(RoleUser, "hi")})
	snapshot := base

	a := base.Append(NewTextTurn(RoleModel, "hello"))
	b := base.Append(NewTextTurn(RoleModel, "howdy"))

	if snapshot.Len() != 1 {
		t.Errorf("snapshot.Len() = %d, want 1", snapshot.Len())
	}
	if last, _ := a.Last(); last.Text() != "hello" {
		t.Errorf("a.Last() = %q, want hello", last.Text())
	}
	if last, _ := b.Last(); last.Text() != "howdy" {
		t.Errorf("b.Last() = %q, want howdy", last.Text())
	}
}

func TestTurnSequence_ExtendLast(t *testing.T) {
	inline := Opaque{Raw: []byte(`{"inlineData":{}}`)}

	tests := []struct {
		name  string
		start []Turn
		piece string
		want  []Turn
	}{
		{
			name:  "empty sequence starts a model turn",
			piece: "Hel",
			want:  []Turn{NewTextTurn(RoleModel, "Hel")},
		},
		{
			name:  "grows trailing text fragment",
			start: []Turn{NewTextTurn(RoleUser, "hi"), NewTextTurn(RoleModel, "Hel")},
			piece: "lo",
			want:  []Turn{NewTextTurn(RoleUser, "hi"), NewTextTurn(RoleModel, "Hello")},
		},
		{
			name:  "opaque tail gets a new text fragment",
			start: []Turn{{Role: RoleModel, Fragments: []Fragment{inline}}},
			piece: "caption",
			want:  []Turn{{Role: RoleModel, Fragments: []Fragment{inline, Text{Content: "caption"}}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seq := NewTurnSequence(tt.start)
			got := seq.ExtendLast(tt.piece)
			if diff := cmp.Diff(tt.want, got.Turns(), equateEmpty); diff != "" {
				t.Errorf("ExtendLast() mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.start, seq.Turns(), equateEmpty); diff != "" {
				t.Errorf("ExtendLast() modified the original sequence (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTurnSequence_TurnsReturnsCopy(t *testing.T) {
	seq := NewTurnSequence([]Turn{NewTextTurn(RoleUser, "hi")})
	turns := seq.Turns()
	turns[0].Fragments[0] = Text{Content: "changed"}

	if last, _ := seq.Last(); last.Text() != "hi" {
		t.Errorf("Turns() exposed internal state; Last() = %q", last.Text())
	}
}
