package entities

import (
	"errors"
	"fmt"
	"io"

	logger "github.com/sirupsen/logrus"
)

// ErrInvalidArgument marks a missing or invalid activity input. It always
// fails the activity, whatever the failure policy says.
var ErrInvalidArgument = errors.New("invalid argument")

// Importance is the build-log importance of an informational message.
type Importance int

const (
	ImportanceLow Importance = iota
	ImportanceNormal
	ImportanceHigh
)

// LogMessage writes an informational build-log line. Low importance lines
// are only visible with --verbose.
func LogMessage(importance Importance, format string, args ...any) {
	switch importance {
	case ImportanceLow:
		logger.Debugf(format, args...)
	case ImportanceHigh:
		logger.WithField("importance", "high").Infof(format, args...)
	default:
		logger.Infof(format, args...)
	}
}

// FailurePolicy decides whether an activity error fails the build.
type FailurePolicy struct {
	FailBuildOnError bool
}

// Handle logs err and returns it when the build should fail. Invalid
// arguments are always returned.
func (p FailurePolicy) Handle(activity string, err error) error {
	if err == nil {
		return nil
	}
	if p.FailBuildOnError || errors.Is(err, ErrInvalidArgument) {
		logger.Errorf("[%s] %v", activity, err)
		return err
	}
	logger.Warnf("[%s] %v (not failing the build)", activity, err)
	return nil
}

// Output is a single named activity output.
type Output struct {
	Name  string
	Value any
}

// WriteOutputs prints outputs as name=value lines for the calling pipeline.
func WriteOutputs(w io.Writer, outputs ...Output) error {
	for _, output := range outputs {
		if _, err := fmt.Fprintf(w, "%s=%v\n", output.Name, output.Value); err != nil {
			return fmt.Errorf("failed to write output %q: %w", output.Name, err)
		}
	}
	return nil
}

// RequireArgument returns ErrInvalidArgument when value is blank.
func RequireArgument(name, value string) error {
	if value == "" {
		return fmt.Errorf("%w: %s is required", ErrInvalidArgument, name)
	}
	return nil
}
