package internal

import (
	"context"
	"iter"
)

// Session pairs the active model with the conversation so far. It is a value:
// every transition below returns a new Session.
type Session struct {
	ModelID string
	History TurnSequence
}

// NewSession creates a session with an empty history
func NewSession(modelID string) Session {
	return Session{ModelID: modelID}
}

// WithModel switches the model, compacting the history for the new
// conversation boundary. Content and order are preserved.
func (s Session) WithModel(modelID string) Session {
	return Session{ModelID: modelID, History: NewTurnSequence(Compact(s.History.Turns()))}
}

// WithHistory replaces the whole history
func (s Session) WithHistory(turns []Turn) Session {
	return Session{ModelID: s.ModelID, History: NewTurnSequence(turns)}
}

// WithTurns keeps the model and swaps in an already built sequence
func (s Session) WithTurns(history TurnSequence) Session {
	return Session{ModelID: s.ModelID, History: history}
}

// Cleared drops every turn
func (s Session) Cleared() Session {
	return Session{ModelID: s.ModelID}
}

// ModelInfo describes one model offered by the remote service
type ModelInfo struct {
	Name        string `json:"name" yaml:"name"`
	DisplayName string `json:"display_name,omitempty" yaml:"display_name,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// ModelLister enumerates available models
type ModelLister interface {
	ListModels(ctx context.Context) ([]ModelInfo, error)
}

// ChatService is the remote generative-text service. Stream sends prompt
// after the prior turns and yields the reply piece by piece, in order.
type ChatService interface {
	ModelLister
	Stream(ctx context.Context, modelID string, prior []Turn, prompt string) iter.Seq2[string, error]
}

// PromptRecorder keeps a log of submitted prompts
type PromptRecorder interface {
	Record(ctx context.Context, modelID, prompt string) error
}

// Transcript is a named history handed to exporters and viewers
type Transcript struct {
	Name  string
	Turns []Turn
}
