// Package cli implements the command-line interface.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// errReported marks an error whose details were already written as a JSON
// envelope. The command still exits non-zero.
var errReported = errors.New("error reported")

// Response is the standard JSON envelope for all CLI output.
type Response struct {
	OK       bool       `json:"ok"`
	Data     any        `json:"data,omitempty"`
	Error    *ErrorInfo `json:"error,omitempty"`
	Warnings []Warning  `json:"warnings,omitempty"`
	Meta     *Meta      `json:"meta,omitempty"`
}

// ErrorInfo contains structured error information.
type ErrorInfo struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    any    `json:"details,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

// Warning represents a non-fatal warning.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// Meta contains metadata about the response.
type Meta struct {
	Count int `json:"count,omitempty"`
}

// output writes either the JSON envelope or plain text for a command.
type output struct {
	w    io.Writer
	json bool
}

func (o output) writeJSON(resp Response) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(resp)
}

// success writes a successful JSON response.
func (o output) success(data any, warnings []Warning, meta *Meta) {
	o.writeJSON(Response{
		OK:       true,
		Data:     data,
		Warnings: warnings,
		Meta:     meta,
	})
}

// fail reports an error. In JSON mode the envelope is written and
// errReported returned; in text mode the error goes back to Cobra.
func (o output) fail(code, message, suggestion string, details any) error {
	if o.json {
		o.writeJSON(Response{
			Error: &ErrorInfo{
				Code:       code,
				Message:    message,
				Details:    details,
				Suggestion: suggestion,
			},
		})
		return errReported
	}
	if suggestion != "" {
		return fmt.Errorf("%s\n\n%s", message, suggestion)
	}
	return errors.New(message)
}

// failErr is fail for a Go error.
func (o output) failErr(code string, err error, suggestion string) error {
	return o.fail(code, err.Error(), suggestion, nil)
}

func (o output) printf(format string, args ...any) {
	fmt.Fprintf(o.w, format, args...)
}

func (o output) println(args ...any) {
	fmt.Fprintln(o.w, args...)
}
