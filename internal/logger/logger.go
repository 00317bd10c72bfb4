// Package logger builds the process-wide zap logger.
package logger

import (
	"fmt"

	"go.uber.org/zap"
)

// New returns a JSON production logger, or a console development logger
// when format is "console".
func New(format string) (*zap.Logger, error) {
	var (
		l   *zap.Logger
		err error
	)
	switch format {
	case "", "json":
		l, err = zap.NewProduction()
	case "console":
		l, err = zap.NewDevelopment()
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return l.With(zap.String("service", "board-service")), nil
}
