package content

import "fmt"

// Error signals an attempt to construct a Content with inconsistent or
// missing key fields (spec.md §7, ContentKeyError).
type Error struct {
	Msg string
}

func (e *Error) Error() string {
	return fmt.Sprintf("content: %s", e.Msg)
}

func newError(msg string) error {
	return &Error{Msg: msg}
}
