// Package jsonx salvages JSON objects from possibly messy model output.
// Models asked for "strict JSON" still wrap results in code fences or prose
// often enough that every call site needs the same recovery, so it lives in
// one place with a narrow contract: raw text in, object out or an error.
package jsonx

import (
	"errors"
	"strings"

	"github.com/bytedance/sonic"
)

var (
	// ErrNoObject means no balanced {...} span was found in the text.
	ErrNoObject = errors.New("jsonx: no JSON object found")
	// ErrNotObject means the text parsed, but to a scalar or array.
	ErrNotObject = errors.New("jsonx: top-level value is not an object")
)

// ExtractObject parses raw model text into a JSON object. Code fences are
// stripped first; if the remainder is not a bare object, the first balanced
// {...} span is used instead.
func ExtractObject(raw string) (map[string]any, error) {
	text := StripFences(raw)

	var out map[string]any
	if err := sonic.UnmarshalString(text, &out); err == nil {
		if out == nil {
			return nil, ErrNotObject
		}
		return out, nil
	}

	// The text may parse as a scalar or array even though it is valid JSON.
	var probe any
	if err := sonic.UnmarshalString(text, &probe); err == nil {
		if _, ok := probe.(map[string]any); !ok {
			return nil, ErrNotObject
		}
	}

	span, ok := firstObjectSpan(text)
	if !ok {
		return nil, ErrNoObject
	}
	if err := sonic.UnmarshalString(span, &out); err != nil {
		return nil, ErrNoObject
	}
	if out == nil {
		return nil, ErrNotObject
	}
	return out, nil
}

// StripFences removes a surrounding markdown code fence, with or without a
// language tag.
func StripFences(raw string) string {
	text := strings.TrimSpace(raw)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		// Drop the language tag line ("json", "JSON", ...).
		first := strings.TrimSpace(text[:idx])
		if len(first) <= 8 && !strings.ContainsAny(first, "{}") {
			text = text[idx+1:]
		}
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}

// firstObjectSpan returns the first balanced top-level {...} span, tracking
// string literals and escapes so braces inside values do not miscount.
func firstObjectSpan(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}
