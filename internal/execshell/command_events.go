package execshell

// CommandEventObserver is notified around each external command run: once
// when the process is about to launch, and once with either the result or
// the launch failure. The executor never runs commands concurrently for a
// single observer registration.
type CommandEventObserver interface {
	CommandStarted(command ShellCommand)
	CommandCompleted(command ShellCommand, result ExecutionResult)
	CommandExecutionFailed(command ShellCommand, failure error)
}

// noopCommandEventObserver is installed until a caller registers a real one.
type noopCommandEventObserver struct{}

func (noopCommandEventObserver) CommandStarted(ShellCommand) {}

func (noopCommandEventObserver) CommandCompleted(ShellCommand, ExecutionResult) {}

func (noopCommandEventObserver) CommandExecutionFailed(ShellCommand, error) {}
