package bootstrap

import (
	"fmt"
)

// ValidationError reports missing or malformed caller input. It is raised
// before any I/O happens.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ConnectionError reports a network or authentication failure reaching the
// database server. The caller may retry; nothing is retried internally.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("database connection failed: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// ProvisioningError reports a failure inside the transactional span of the
// initialization flow. The enclosing transaction has been rolled back.
type ProvisioningError struct {
	Step State
	Err  error
}

func (e *ProvisioningError) Error() string {
	return fmt.Sprintf("initialization failed at %s: %v", e.Step, e.Err)
}

func (e *ProvisioningError) Unwrap() error { return e.Err }

// StateInspectionError reports that the bootstrap phase could not be
// determined. Callers must treat it as "not ready", never as "ready".
type StateInspectionError struct {
	Err error
}

func (e *StateInspectionError) Error() string {
	return fmt.Sprintf("cannot determine initialization state: %v", e.Err)
}

func (e *StateInspectionError) Unwrap() error { return e.Err }
