package controllers

import (
	"go.uber.org/dig"

	"github.com/rios0rios0/buildactivities/internal/domain/entities"
)

// RegisterProviders registers all controller providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register controller constructors
	constructors := []any{
		NewAssemblyInfoController,
		NewSharePointController,
		NewLockController,
		NewRobocopyController,
		NewEmailController,
		NewSmsController,
		NewFtpController,
		NewXmlController,
		NewControllers,
	}
	for _, constructor := range constructors {
		if err := container.Provide(constructor); err != nil {
			return err
		}
	}

	return nil
}

// NewControllers aggregates all controllers into a slice for the AppInternal.
func NewControllers(
	assemblyInfoController *AssemblyInfoController,
	sharePointController *SharePointController,
	lockController *LockController,
	robocopyController *RobocopyController,
	emailController *EmailController,
	smsController *SmsController,
	ftpController *FtpController,
	xmlController *XmlController,
) *[]entities.Controller {
	return &[]entities.Controller{
		assemblyInfoController,
		sharePointController,
		lockController,
		robocopyController,
		emailController,
		smsController,
		ftpController,
		xmlController,
	}
}
