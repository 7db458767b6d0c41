package resource

import "fmt"

// Error signals construction of a Resource with zero representations or a
// non-absolute path (spec.md §7, ResourceError).
type Error struct {
	Msg string
}

func (e *Error) Error() string {
	return fmt.Sprintf("resource: %s", e.Msg)
}

func newError(msg string) error {
	return &Error{Msg: msg}
}

// NewError constructs a ResourceError outside this package — used by
// collaborators (e.g. the file writer sink) that must raise the same
// taxonomy entry for conditions outside Resource construction itself,
// such as two representations resolving to the same write target
// (spec.md §9 open question).
func NewError(msg string) error {
	return newError(msg)
}
