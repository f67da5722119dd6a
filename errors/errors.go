package errors

import "fmt"

var (
	ErrWorkerPanic          = fmt.Errorf("worker panic")
	ErrAuthenticationFailed = fmt.Errorf("authentication failed")
	ErrMalformedEvent       = fmt.Errorf("malformed event")
	ErrUnknownEvent         = fmt.Errorf("unknown event")
	ErrPersistQueueFull     = fmt.Errorf("persistence queue full")
	ErrNotConnected         = fmt.Errorf("identity has no registered connection")
)
