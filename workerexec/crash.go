package workerexec

import "fmt"

// CrashError wraps a recovered panic value from a worker invocation.
type CrashError struct {
	Worker string
	Value  any
}

func (e *CrashError) Error() string {
	return fmt.Sprintf("The job runner crashed. Reason: %v", e.Value)
}
