package tape

import "fmt"

// InvariantViolation reports a precondition violated by the caller — an
// anchor outside its valid range, a width that is not a power of two and a
// multiple of 64, and so on. These are programmer errors, not operational
// ones: they are raised with panic rather than returned as an error, the
// same way the original C++ raises them with assert (compiled in for both
// debug and release builds, never recoverable in the ordinary sense).
type InvariantViolation struct {
	Op      string
	Message string
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("tape: invariant violation in %s: %s", e.Op, e.Message)
}

func panicInvariant(op, format string, args ...any) {
	panic(&InvariantViolation{Op: op, Message: fmt.Sprintf(format, args...)})
}
