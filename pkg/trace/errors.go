package trace

import (
	"fmt"

	"github.com/PozzettiAndrea/brepray/pkg/accel"
)

// NotLoadedError reports a query issued before any shape was loaded.
type NotLoadedError struct {
	Op string
}

func (e *NotLoadedError) Error() string {
	return fmt.Sprintf("trace: %s called before Load", e.Op)
}

// GeometryError reports a shape that cannot be loaded: empty, or not
// tessellated at the requested deflection.
type GeometryError struct {
	Err error
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("trace: geometry rejected: %v", e.Err)
}

func (e *GeometryError) Unwrap() error { return e.Err }

// BackendUnavailableError reports a backend selection whose implementation
// is not linked into the binary.
type BackendUnavailableError struct {
	ID  accel.BackendID
	Err error
}

func (e *BackendUnavailableError) Error() string {
	return fmt.Sprintf("trace: backend %s unavailable: %v", e.ID, e.Err)
}

func (e *BackendUnavailableError) Unwrap() error { return e.Err }

// ShapeMismatchError reports structurally malformed batch input: row counts
// that disagree or flat arrays that are not a whole number of 3-vectors.
type ShapeMismatchError struct {
	Reason string
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("trace: input shape mismatch: %s", e.Reason)
}

// AllocationError reports an output buffer that cannot be allocated, such
// as a pixel count overflowing the address space.
type AllocationError struct {
	Elems int64
}

func (e *AllocationError) Error() string {
	return fmt.Sprintf("trace: cannot allocate output for %d elements", e.Elems)
}
