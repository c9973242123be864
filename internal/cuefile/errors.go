package cuefile

import "fmt"

// KindIO is the ErrorKind of *IOError.
const KindIO = "io"

// IOError reports a failed filesystem operation on a sheet or payload.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("cuefile: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// ErrorKind classifies the error for callers deciding between abort and warn.
func (e *IOError) ErrorKind() string { return KindIO }
