package entities

import (
	"strings"

	logger "github.com/sirupsen/logrus"
)

const robocopyFailureThreshold = 8

// RobocopyOutcome is the interpretation of a robocopy exit code.
type RobocopyOutcome struct {
	ExitCode    int
	Level       logger.Level
	Failed      bool
	Description string
}

//nolint:gochecknoglobals // robocopy exit code bit meanings
var robocopyBits = []struct {
	bit  int
	text string
}{
	{1, "one or more files were copied successfully"},
	{2, "extra files or directories were detected"},
	{4, "mismatched files or directories were detected"},
	{8, "some files or directories could not be copied"},
	{16, "serious error, no files were copied"},
}

// ClassifyRobocopyExitCode maps a robocopy exit code to a log level. Codes
// below 8 are successes (4-7 carry warnings); 8 and above are failures.
func ClassifyRobocopyExitCode(code int) RobocopyOutcome {
	outcome := RobocopyOutcome{ExitCode: code, Level: logger.InfoLevel}

	if code < 0 {
		outcome.Level = logger.ErrorLevel
		outcome.Failed = true
		outcome.Description = "robocopy did not report an exit code"
		return outcome
	}
	if code == 0 {
		outcome.Description = "no files were copied, source and destination are in sync"
		return outcome
	}

	var parts []string
	for _, b := range robocopyBits {
		if code&b.bit != 0 {
			parts = append(parts, b.text)
		}
	}
	outcome.Description = strings.Join(parts, "; ")

	switch {
	case code >= robocopyFailureThreshold:
		outcome.Level = logger.ErrorLevel
		outcome.Failed = true
	case code&4 != 0:
		outcome.Level = logger.WarnLevel
	}
	return outcome
}
