package pathutil

import "fmt"

// Error signals a base-URL or rewrite-target violation (spec.md §7,
// PathError): a base that doesn't end in "/", carries a query or fragment,
// or a URL that isn't based on the given base.
type Error struct {
	Msg string
}

func (e *Error) Error() string {
	return fmt.Sprintf("pathutil: %s", e.Msg)
}

func newError(format string, args ...any) error {
	return &Error{Msg: fmt.Sprintf(format, args...)}
}
