//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/buildactivities/internal/domain/entities"
	"github.com/rios0rios0/buildactivities/internal/domain/repositories"
)

// StubLockRepository is an in-memory repositories.LockRepository keyed by
// environment name.
type StubLockRepository struct {
	Owners map[string]string

	// ReleaseAfterAttempts frees a held lock once TryAcquire has been
	// called this many times, simulating another build finishing.
	ReleaseAfterAttempts int

	TryAcquireErr error
	ReadErr       error
	RemoveErr     error

	// spy
	TryAcquireCalls int
	Removed         []string
}

var _ repositories.LockRepository = (*StubLockRepository)(nil)

// NewStubLockRepository creates an empty StubLockRepository.
func NewStubLockRepository() *StubLockRepository {
	return &StubLockRepository{Owners: map[string]string{}}
}

func (s *StubLockRepository) TryAcquire(
	_ context.Context,
	_, environment, owner string,
) (bool, entities.EnvironmentLock, error) {
	s.TryAcquireCalls++
	if s.TryAcquireErr != nil {
		return false, entities.EnvironmentLock{}, s.TryAcquireErr
	}
	if s.ReleaseAfterAttempts > 0 && s.TryAcquireCalls > s.ReleaseAfterAttempts {
		delete(s.Owners, environment)
	}

	if current, held := s.Owners[environment]; held {
		return false, entities.EnvironmentLock{Environment: environment, Owner: current}, nil
	}
	s.Owners[environment] = owner
	return true, entities.EnvironmentLock{Environment: environment, Owner: owner}, nil
}

func (s *StubLockRepository) Read(_ context.Context, _, environment string) (entities.EnvironmentLock, error) {
	if s.ReadErr != nil {
		return entities.EnvironmentLock{}, s.ReadErr
	}
	return entities.EnvironmentLock{Environment: environment, Owner: s.Owners[environment]}, nil
}

func (s *StubLockRepository) Remove(_ context.Context, _, environment string) error {
	if s.RemoveErr != nil {
		return s.RemoveErr
	}
	s.Removed = append(s.Removed, environment)
	delete(s.Owners, environment)
	return nil
}
