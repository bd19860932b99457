package candidates

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// ParseError reports a file whose contents are not a race mapping.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("parse races: %v", e.Err)
	}
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parse decodes a JSON object of race name to candidate records, keeping the
// key order of the document.
func Parse(data []byte) (*Races, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, &ParseError{Err: err}
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, &ParseError{Err: fmt.Errorf("expected object, got %v", tok)}
	}

	races := NewRaces()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, &ParseError{Err: err}
		}
		name, ok := keyTok.(string)
		if !ok {
			return nil, &ParseError{Err: fmt.Errorf("unexpected key %v", keyTok)}
		}
		var records []Record
		if err := dec.Decode(&records); err != nil {
			return nil, &ParseError{Err: fmt.Errorf("race %q: %w", name, err)}
		}
		races.Set(name, records)
	}
	if _, err := dec.Token(); err != nil {
		return nil, &ParseError{Err: err}
	}
	if _, err := dec.Token(); err != io.EOF {
		if err == nil {
			return nil, &ParseError{Err: fmt.Errorf("unexpected data after object")}
		}
		return nil, &ParseError{Err: err}
	}
	return races, nil
}
