//go:build integration || unit || test

package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/buildactivities/internal/domain/commands"
	"github.com/rios0rios0/buildactivities/internal/domain/entities"
)

// StubAssemblyInfoCommand is a stub implementation of commands.AssemblyInfo.
type StubAssemblyInfoCommand struct {
	ExecuteCallCount int
	Result           *commands.AssemblyInfoResult
	ExecuteErr       error
	LastOpts         commands.AssemblyInfoOptions
}

var _ commands.AssemblyInfo = (*StubAssemblyInfoCommand)(nil)

func (s *StubAssemblyInfoCommand) Execute(
	_ context.Context,
	opts commands.AssemblyInfoOptions,
) (*commands.AssemblyInfoResult, error) {
	s.ExecuteCallCount++
	s.LastOpts = opts
	return s.Result, s.ExecuteErr
}

// StubSharePointCommand is a stub implementation of commands.SharePointDeployment.
type StubSharePointCommand struct {
	ExecuteCallCount int
	Result           *commands.SharePointResult
	ExecuteErr       error
	LastSettings     *entities.Settings
	LastOpts         commands.SharePointOptions
}

var _ commands.SharePointDeployment = (*StubSharePointCommand)(nil)

func (s *StubSharePointCommand) Execute(
	_ context.Context,
	settings *entities.Settings,
	opts commands.SharePointOptions,
) (*commands.SharePointResult, error) {
	s.ExecuteCallCount++
	s.LastSettings = settings
	s.LastOpts = opts
	return s.Result, s.ExecuteErr
}

// StubEnvironmentLockCommand is a stub implementation of commands.EnvironmentLock.
type StubEnvironmentLockCommand struct {
	ExecuteCallCount int
	Result           *commands.LockResult
	ExecuteErr       error
	LastOpts         commands.LockOptions
}

var _ commands.EnvironmentLock = (*StubEnvironmentLockCommand)(nil)

func (s *StubEnvironmentLockCommand) Execute(
	_ context.Context,
	_ *entities.Settings,
	opts commands.LockOptions,
) (*commands.LockResult, error) {
	s.ExecuteCallCount++
	s.LastOpts = opts
	return s.Result, s.ExecuteErr
}

// StubXmlCommand is a stub implementation of commands.Xml.
type StubXmlCommand struct {
	ExecuteCallCount int
	Result           *commands.XmlResult
	ExecuteErr       error
	LastOpts         commands.XmlOptions
}

var _ commands.Xml = (*StubXmlCommand)(nil)

func (s *StubXmlCommand) Execute(_ context.Context, opts commands.XmlOptions) (*commands.XmlResult, error) {
	s.ExecuteCallCount++
	s.LastOpts = opts
	return s.Result, s.ExecuteErr
}
