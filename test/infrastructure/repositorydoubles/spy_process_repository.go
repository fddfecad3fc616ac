//go:build integration || unit || test

// Package repositorydoubles provides test doubles (spies, stubs, dummies) for
// repository interfaces. These are hand-crafted implementations, no mock frameworks.
package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/buildactivities/internal/domain/entities"
	"github.com/rios0rios0/buildactivities/internal/domain/repositories"
)

// SpyProcessRepository implements repositories.ProcessRepository as a configurable spy.
type SpyProcessRepository struct {
	// --- Run ---
	Result entities.ProcessResult
	RunErr error
	// spy: processes that were started
	Inputs []entities.ProcessInput
}

var _ repositories.ProcessRepository = (*SpyProcessRepository)(nil)

func (s *SpyProcessRepository) Run(
	_ context.Context,
	input entities.ProcessInput,
) (entities.ProcessResult, error) {
	s.Inputs = append(s.Inputs, input)
	return s.Result, s.RunErr
}

// LastArgument returns the final argument of the last process started.
func (s *SpyProcessRepository) LastArgument() string {
	if len(s.Inputs) == 0 {
		return ""
	}
	arguments := s.Inputs[len(s.Inputs)-1].Arguments
	if len(arguments) == 0 {
		return ""
	}
	return arguments[len(arguments)-1]
}
