package utils

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// NewLogger builds the process logger: JSON lines in production, readable
// text otherwise.
func NewLogger(out io.Writer, level string, production bool) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	formatter := log.TextFormatter
	if production {
		formatter = log.JSONFormatter
	}

	return log.NewWithOptions(out, log.Options{
		Level:           lvl,
		Formatter:       formatter,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Prefix:          "todo-api",
	}), nil
}
