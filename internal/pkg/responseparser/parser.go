// Package responseparser turns generation service text into typed records.
//
// Parsing is two explicit steps: Strip removes an optional markdown code fence
// around the payload, then the payload is decoded strictly as a single JSON value.
package responseparser

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"

	"github.com/futig/wrapgen/internal/entity"
)

const fence = "```"

// MalformedResponseError is returned for any payload that cannot be decoded.
// Its message is fixed; Cause is for logs only and never carries the payload.
type MalformedResponseError struct {
	Cause error
}

func (e *MalformedResponseError) Error() string {
	return entity.ErrMalformedResponse.Error()
}

func (e *MalformedResponseError) Is(target error) bool {
	return target == entity.ErrMalformedResponse
}

func malformed(cause error) error {
	return &MalformedResponseError{Cause: cause}
}

// Strip removes surrounding whitespace and an optional leading ```lang line and trailing ``` marker
func Strip(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, fence) {
		// The info string, e.g. "json", ends at the first non-identifier character
		s = strings.TrimLeftFunc(strings.TrimPrefix(s, fence), isInfoStringRune)
	}

	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, fence)

	return strings.TrimSpace(s)
}

func isInfoStringRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '_', r == '+', r == '-':
		return true
	}
	return false
}

// Parse strips raw and decodes exactly one JSON value into v
func Parse(raw string, v any) error {
	payload := Strip(raw)
	if payload == "" {
		return malformed(errors.New("empty payload"))
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(payload)))
	if err := dec.Decode(v); err != nil {
		return malformed(err)
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return malformed(errors.New("unexpected data after JSON value"))
	}

	return nil
}

// ParseProject decodes a project payload and enforces the descriptor invariants
func ParseProject(raw string) (*entity.ProjectDescriptor, error) {
	var project entity.ProjectDescriptor
	if err := Parse(raw, &project); err != nil {
		return nil, err
	}

	if err := project.Validate(); err != nil {
		return nil, malformed(err)
	}

	return &project, nil
}
