package compiler

import (
	"fmt"
	"strings"
)

// Issue codes.
const (
	CodeInvalidType      = "invalid_type"
	CodeTooSmall         = "too_small"
	CodeTooBig           = "too_big"
	CodeInvalidString    = "invalid_string"
	CodeInvalidEnumValue = "invalid_enum_value"
	CodeInvalidDate      = "invalid_date"
)

// Issue is one failed check. Path locates the value: object keys, record
// keys and array indexes from the root.
type Issue struct {
	Path    []string `json:"path"`
	Code    string   `json:"code"`
	Message string   `json:"message"`
}

func (i Issue) String() string {
	if len(i.Path) == 0 {
		return i.Message
	}
	return strings.Join(i.Path, ".") + ": " + i.Message
}

// ParseError is returned by Parse when at least one check failed.
type ParseError struct {
	Issues []Issue
}

func (e *ParseError) Error() string {
	parts := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		parts[i] = issue.String()
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(parts, "; "))
}

// Result is the outcome of SafeParse.
type Result struct {
	Success bool
	Data    any
	Error   *ParseError
}

func issueAt(path []string, code, format string, args ...any) Issue {
	p := make([]string, len(path))
	copy(p, path)
	return Issue{Path: p, Code: code, Message: fmt.Sprintf(format, args...)}
}

func appendPath(path []string, elem string) []string {
	out := make([]string, len(path)+1)
	copy(out, path)
	out[len(path)] = elem
	return out
}
