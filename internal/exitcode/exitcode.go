// Package exitcode carries process exit statuses from command execution to
// the entrypoint, so callers can distinguish degraded outcomes from fatal
// precondition failures.
package exitcode

const (
	// StatusSuccess means the report was delivered or explicitly printed.
	StatusSuccess = 0
	// StatusDegraded means the user declined confirmation or delivery fell
	// back to printing.
	StatusDegraded = 1
	// StatusFatalPrecondition means the run could not start: no
	// repositories, or a required selection was missing headlessly.
	StatusFatalPrecondition = 2
)

// Error pairs an exit status with an optional user-facing reason.
type Error struct {
	Status int
	Reason string
}

// Error renders the reason for the error interface.
func (codedError *Error) Error() string {
	return codedError.Reason
}

// NewDegraded builds an exit-status-1 error.
func NewDegraded(reason string) *Error {
	return &Error{Status: StatusDegraded, Reason: reason}
}

// NewFatalPrecondition builds an exit-status-2 error.
func NewFatalPrecondition(reason string) *Error {
	return &Error{Status: StatusFatalPrecondition, Reason: reason}
}
