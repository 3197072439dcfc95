package testutil

import (
	"io"

	"github.com/dtroode/authsys-server/internal/logger"
)

// MakeNoopLogger returns a logger that discards all output.
func MakeNoopLogger() *logger.Logger {
	return logger.NewWithWriter(io.Discard, 0)
}
