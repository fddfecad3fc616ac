package commands

// MergeFtpServer exports mergeFtpServer for testing.
var MergeFtpServer = mergeFtpServer //nolint:gochecknoglobals // test export

// NonEmptyLines exports nonEmptyLines for testing.
var NonEmptyLines = nonEmptyLines //nolint:gochecknoglobals // test export
