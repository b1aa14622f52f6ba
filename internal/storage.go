package internal

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"unicode/utf8"
)

// turnRecord is the stored shape of a Turn. Field order fixes the key order
// in the written file.
type turnRecord struct {
	Role  string            `json:"role"`
	Parts []json.RawMessage `json:"parts"`
}

type textRecord struct {
	Text string `json:"text"`
}

// EncodeHistory serializes turns as a pretty-printed JSON array. Callers that
// persist a history compact it first.
func EncodeHistory(turns []Turn) ([]byte, error) {
	records := make([]turnRecord, 0, len(turns))
	for i, t := range turns {
		parts := make([]json.RawMessage, 0, len(t.Fragments))
		for _, f := range t.Fragments {
			raw, err := encodeFragment(f)
			if err != nil {
				return nil, fmt.Errorf("turn %d: %w", i, err)
			}
			parts = append(parts, raw)
		}
		records = append(records, turnRecord{Role: string(t.Role), Parts: parts})
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeFragment(f Fragment) (json.RawMessage, error) {
	switch v := f.(type) {
	case Text:
		if !utf8.ValidString(v.Content) {
			return nil, fmt.Errorf("text fragment is not valid UTF-8")
		}
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(textRecord{Text: v.Content}); err != nil {
			return nil, err
		}
		return json.RawMessage(bytes.TrimRight(buf.Bytes(), "\n")), nil
	case Opaque:
		if !json.Valid(v.Raw) {
			return nil, fmt.Errorf("opaque fragment is not valid JSON")
		}
		return v.Raw, nil
	default:
		return nil, fmt.Errorf("unsupported fragment type %T", f)
	}
}

// DecodeHistory parses a stored history. Validation is strict: unknown turn
// keys, a missing or unknown role, a missing parts list, and parts that are
// not JSON objects are all rejected.
func DecodeHistory(data []byte) ([]Turn, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var records []turnRecord
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("invalid history JSON: %w", err)
	}
	if records == nil {
		return nil, fmt.Errorf("history must be a JSON array")
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unexpected data after history array")
	}

	turns := make([]Turn, 0, len(records))
	for i, rec := range records {
		role, err := ParseRole(rec.Role)
		if err != nil {
			return nil, fmt.Errorf("turn %d: %w", i, err)
		}
		if rec.Parts == nil {
			return nil, fmt.Errorf("turn %d: missing parts", i)
		}
		fragments := make([]Fragment, 0, len(rec.Parts))
		for j, raw := range rec.Parts {
			f, err := decodeFragment(raw)
			if err != nil {
				return nil, fmt.Errorf("turn %d part %d: %w", i, j, err)
			}
			fragments = append(fragments, f)
		}
		turns = append(turns, Turn{Role: role, Fragments: fragments})
	}
	return turns, nil
}

// decodeFragment recognizes {"text": "..."} and keeps every other object as
// an Opaque fragment.
func decodeFragment(raw json.RawMessage) (Fragment, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("part is not an object: %w", err)
	}
	if fields == nil {
		return nil, fmt.Errorf("part is null")
	}
	if len(fields) == 1 {
		if v, ok := fields["text"]; ok {
			var s string
			if err := json.Unmarshal(v, &s); err == nil {
				return Text{Content: s}, nil
			}
		}
	}
	return NewOpaque(raw)
}

// SaveHistory compacts turns and writes them to path. The file is replaced
// atomically.
func SaveHistory(path string, turns []Turn) error {
	data, err := EncodeHistory(Compact(turns))
	if err != nil {
		return &IOError{Path: path, Op: "encode", Err: err}
	}
	if err := writeFileAtomic(path, data, 0644); err != nil {
		return &IOError{Path: path, Op: "write", Err: err}
	}
	LogDebug("Saved %d turn(s) to %s", len(turns), path)
	return nil
}

func writeFileAtomic(path string, data []byte, perm os.FileMode) (err error) {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmp)
		}
	}()

	if _, err = f.Write(data); err != nil {
		_ = f.Close()
		return err
	}
	if err = f.Sync(); err != nil {
		_ = f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmp, perm); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// LoadHistory reads a history previously written by SaveHistory. An empty
// array is a valid, empty history.
func LoadHistory(path string) ([]Turn, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		op := "read"
		if errors.Is(err, fs.ErrNotExist) {
			op = "open"
		}
		return nil, &LoadError{Path: path, Op: op, Err: err}
	}
	if !utf8.Valid(data) {
		return nil, &LoadError{Path: path, Op: "read", Err: errors.New("file is not valid UTF-8")}
	}

	turns, err := DecodeHistory(data)
	if err != nil {
		return nil, &LoadError{Path: path, Op: "parse", Err: err}
	}
	LogDebug("Loaded %d turn(s) from %s", len(turns), path)
	return turns, nil
}

// LastExchange picks the turns worth showing after a load: the final user
// turn and the model reply to it when the history ends that way, otherwise
// just the final turn.
func LastExchange(turns []Turn) []Turn {
	n := len(turns)
	switch {
	case n == 0:
		return nil
	case n >= 2 && turns[n-2].Role == RoleUser && turns[n-1].Role == RoleModel:
		return []Turn{turns[n-2].clone(), turns[n-1].clone()}
	default:
		return []Turn{turns[n-1].clone()}
	}
}
