package entities

// ProcessInput describes an external process invocation.
type ProcessInput struct {
	Binary    string
	Arguments []string
	Dir       string
}

// ProcessResult is the captured outcome of an external process.
type ProcessResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// EnvironmentLock is the state of an advisory environment lock.
type EnvironmentLock struct {
	Environment string
	Owner       string // build number holding the lock, empty when unlocked
}

// Locked reports whether any build holds the lock.
func (l EnvironmentLock) Locked() bool {
	return l.Owner != ""
}
