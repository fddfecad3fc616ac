package commands

import (
	"go.uber.org/dig"
)

// RegisterProviders registers all command providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register command constructors
	constructors := []any{
		NewAssemblyInfoCommand,
		NewSharePointCommand,
		NewEnvironmentLockCommand,
		NewRobocopyCommand,
		NewEmailCommand,
		NewSmsCommand,
		NewFtpUploadCommand,
		NewXmlCommand,
	}
	for _, constructor := range constructors {
		if err := container.Provide(constructor); err != nil {
			return err
		}
	}

	// Bind interfaces to implementations
	bindings := []any{
		func(impl *AssemblyInfoCommand) AssemblyInfo { return impl },
		func(impl *SharePointCommand) SharePointDeployment { return impl },
		func(impl *EnvironmentLockCommand) EnvironmentLock { return impl },
		func(impl *RobocopyCommand) Robocopy { return impl },
		func(impl *EmailCommand) Email { return impl },
		func(impl *SmsCommand) Sms { return impl },
		func(impl *FtpUploadCommand) FtpUpload { return impl },
		func(impl *XmlCommand) Xml { return impl },
	}
	for _, binding := range bindings {
		if err := container.Provide(binding); err != nil {
			return err
		}
	}

	return nil
}
