package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/matsen/scimcp/internal/args"
	"github.com/matsen/scimcp/internal/config"
	"github.com/matsen/scimcp/internal/ops"
	"github.com/matsen/scimcp/internal/tools"
	"github.com/matsen/scimcp/internal/upstream"
)

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputHuman writes a human-readable string to stdout.
func outputHuman(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// exitCodeFor maps an error onto the exit code table.
func exitCodeFor(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, config.ErrInvalidConfig):
		return ExitConfigError
	case errors.Is(err, args.ErrInvalidInput), errors.Is(err, tools.ErrInvalidRequest):
		return ExitInvalidInput
	case upstream.IsUpstream(err):
		return ExitUpstream
	}
	return ExitError
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// OperationInfo describes one operation in `scimcp tools` output.
type OperationInfo struct {
	Name        string         `json:"name"`
	Group       string         `json:"group"`
	Description string         `json:"description"`
	Arguments   []ArgumentInfo `json:"arguments"`
}

// ArgumentInfo describes one operation argument.
type ArgumentInfo struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Required    bool   `json:"required,omitempty"`
	Default     any    `json:"default,omitempty"`
	Description string `json:"description,omitempty"`
}

func describe(op ops.Operation) OperationInfo {
	info := OperationInfo{Name: op.Name, Group: op.Group, Description: op.Description, Arguments: []ArgumentInfo{}}
	for _, f := range op.Schema.Fields {
		info.Arguments = append(info.Arguments, ArgumentInfo{
			Name:        f.Name,
			Type:        f.Kind.JSONType(),
			Required:    f.Required,
			Default:     f.Default,
			Description: f.Description,
		})
	}
	return info
}
