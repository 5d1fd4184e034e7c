package loader

import (
	"errors"
	"fmt"
)

// Error kinds returned by Load and Read.
var (
	// ErrFileNotFound is returned when the input path does not exist.
	ErrFileNotFound = errors.New("file not found")
	// ErrParse is returned when the content is not valid tabular text.
	ErrParse = errors.New("parse error")
)

// Error carries a load failure. It unwraps to both its Kind and the
// underlying cause, so errors.Is(err, fs.ErrNotExist) keeps working.
type Error struct {
	Kind error
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%v: %s: %v", e.Kind, e.Path, e.Err)
	}
	return fmt.Sprintf("%v: %v", e.Kind, e.Err)
}

// Unwrap returns the kind and the cause.
func (e *Error) Unwrap() []error {
	return []error{e.Kind, e.Err}
}
