package api

import "errors"

var ErrRemote = errors.New("remote")

// RemoteError carries the envelope message of a rejected call. StatusCode is
// zero for pure transport failures.
type RemoteError struct {
	Message    string
	StatusCode int
	cause      error
}

func (e *RemoteError) Error() string { return e.Message }

func (e *RemoteError) Unwrap() error {
	if e.cause != nil {
		return e.cause
	}
	return ErrRemote
}

func (e *RemoteError) Is(target error) bool { return target == ErrRemote }

// ErrorMessage extracts the user-facing message from any error coming out of
// the client, falling back to a caller-supplied generic string the way the
// original consumers did.
func ErrorMessage(err error, fallback string) string {
	var re *RemoteError
	if errors.As(err, &re) && re.Message != "" {
		return re.Message
	}
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return fallback
}
