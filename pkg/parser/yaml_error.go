package parser

import (
	"fmt"
	"strings"

	"github.com/gittracker/git-tracker/pkg/logger"
)

var yamlErrorLog = logger.New("parser:yaml_error")

// ExtractYAMLError pulls line and column out of a goccy/go-yaml error
// message of the form "[line:column] message". Line and column are zero when
// the message carries no usable position.
func ExtractYAMLError(err error) (line int, column int, message string) {
	errStr := err.Error()
	message = errStr

	start := strings.Index(errStr, "[")
	end := strings.Index(errStr, "]")
	if start < 0 || end <= start {
		return 0, 0, message
	}

	location := errStr[start+1 : end]
	lineStr, columnStr, ok := strings.Cut(location, ":")
	if !ok {
		return 0, 0, message
	}
	if _, scanErr := fmt.Sscanf(strings.TrimSpace(lineStr), "%d", &line); scanErr != nil {
		return 0, 0, message
	}
	if _, scanErr := fmt.Sscanf(strings.TrimSpace(columnStr), "%d", &column); scanErr != nil {
		return 0, 0, message
	}

	// goccy appends a source excerpt after the first line
	rest := strings.TrimSpace(errStr[end+1:])
	if first, _, found := strings.Cut(rest, "\n"); found {
		rest = strings.TrimSpace(first)
	}
	yamlErrorLog.Printf("Extracted YAML error location: line=%d, column=%d", line, column)
	return line, column, rest
}
