package internal

// CreateTestTranscript creates a transcript with one short exchange
func CreateTestTranscript(name string) Transcript {
	return Transcript{
		Name: name,
		Turns: []Turn{
			NewTextTurn(RoleUser, "Hello, how are you?"),
			NewTextTurn(RoleModel, "I'm doing well, thank you!"),
		},
	}
}

// CreateTestTranscriptWithTurns creates a transcript with custom turns
func CreateTestTranscriptWithTurns(name string, turns []Turn) Transcript {
	return Transcript{Name: name, Turns: turns}
}
