package app

import (
	"io"

	"github.com/charmbracelet/log"
)

// NewLogger creates the structured logger used by every frontend.
func NewLogger(w io.Writer, prefix string) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
}
