package nodes

import (
	"fmt"

	"github.com/pkg/errors"
)

// TooLargeEntryError is returned by CheckEntrySize when a record would
// never fit on any page, even a freshly split, otherwise-empty one. The
// tree layer is expected to reject the write outright rather than attempt
// a split that can never succeed.
type TooLargeEntryError struct {
	Size int
	Max  int
}

func (e *TooLargeEntryError) Error() string {
	return fmt.Sprintf("too large entry: size %d exceeds maximum possible size %d", e.Size, e.Max)
}

// newTooLargeEntryError wraps the error with a stack trace at the call
// site, so a caller logging it gets more than a bare message.
func newTooLargeEntryError(size, max int) error {
	return errors.WithStack(&TooLargeEntryError{Size: size, Max: max})
}

// InvariantViolation reports a broken layout invariant: something the node
// assumes can never happen, such as calling GetLeftPointer on a leaf, or
// asking MoveTailToNonLeaf to move the source's first marker. It is fatal to the
// current session — the caller must discard the node without ending the
// latch session normally, since the in-memory field cache may no longer
// match the page bytes.
type InvariantViolation struct {
	Msg string
}

func (e *InvariantViolation) Error() string { return "invariant violation: " + e.Msg }

func panicInvariant(format string, args ...any) {
	panic(&InvariantViolation{Msg: fmt.Sprintf(format, args...)})
}

// LatchProtocolMisuse reports mismatched begin/end calls, such as ending a
// read session with dirty header fields still pending. Like
// InvariantViolation, it is fatal to the session.
type LatchProtocolMisuse struct {
	Msg string
}

func (e *LatchProtocolMisuse) Error() string { return "latch protocol misuse: " + e.Msg }

func panicLatchMisuse(format string, args ...any) {
	panic(&LatchProtocolMisuse{Msg: fmt.Sprintf(format, args...)})
}
