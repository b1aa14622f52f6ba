package internal

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSession_Transitions(t *testing.T) {
	base := NewSession("gemini-2.5-flash").WithHistory([]Turn{
		NewTextTurn(RoleUser, "Hi"),
		NewTextTurn(RoleModel, "Hel"),
		NewTextTurn(RoleModel, "lo"),
	})
	before := base.History.Turns()

	swapped := base.WithModel("gemini-2.5-pro")
	if swapped.ModelID != "gemini-2.5-pro" {
		t.Errorf("WithModel() ModelID = %q", swapped.ModelID)
	}
	if diff := cmp.Diff(Compact(before), swapped.History.Turns()); diff != "" {
		t.Errorf("WithModel() history != compact(history) (-want +got):\n%s", diff)
	}

	cleared := base.Cleared()
	if cleared.History.Len() != 0 || cleared.ModelID != base.ModelID {
		t.Errorf("Cleared() = %+v", cleared)
	}

	// Every transition leaves the original value untouched.
	if diff := cmp.Diff(before, base.History.Turns()); diff != "" {
		t.Errorf("original session changed (-before +after):\n%s", diff)
	}
	if base.ModelID != "gemini-2.5-flash" {
		t.Errorf("original ModelID changed to %q", base.ModelID)
	}
}

func TestSession_WithHistoryCopies(t *testing.T) {
	turns := []Turn{NewTextTurn(RoleUser, "original")}
	s := NewSession("m").WithHistory(turns)

	turns[0].Fragments[0] = Text{Content: "mutated"}

	if got := s.History.Turns()[0].Text(); got != "original" {
		t.Errorf("session observed caller mutation: %q", got)
	}
}
