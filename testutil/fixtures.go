package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// SimpleHistoryJSON is one user/model exchange in the stored history format
const SimpleHistoryJSON = `[
  {
    "role": "user",
    "parts": [
      {
        "text": "Hello"
      }
    ]
  },
  {
    "role": "model",
    "parts": [
      {
        "text": "Hi there"
      }
    ]
  }
]
`

// FragmentedHistoryJSON has a model reply split across consecutive turns
// and an inline image part that must survive a round trip untouched
const FragmentedHistoryJSON = `[
  {"role": "user", "parts": [{"text": "Describe this"}, {"inlineData": {"mimeType": "image/png", "data": "iVBORw0KGgo="}}]},
  {"role": "model", "parts": [{"text": "It is "}]},
  {"role": "model", "parts": [{"text": "a cat."}]},
  {"role": "user", "parts": [{"text": "Thanks"}]}
]
`

// WriteHistoryFixture writes content to name inside dir and returns the path
func WriteHistoryFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create fixture directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write fixture %s: %v", path, err)
	}
	return path
}
