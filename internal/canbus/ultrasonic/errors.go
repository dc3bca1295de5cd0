package ultrasonic

import "fmt"

// ErrorCode classifies driver failures.
type ErrorCode int

const (
	ErrorCodeOK ErrorCode = iota
	ErrorCodeCanbus
)

func (c ErrorCode) String() string {
	switch c {
	case ErrorCodeOK:
		return "OK"
	case ErrorCodeCanbus:
		return "CANBUS_ERROR"
	default:
		return fmt.Sprintf("ErrorCode(%d)", int(c))
	}
}

// DriverError is returned by every failing driver lifecycle call.
type DriverError struct {
	Code ErrorCode
	Msg  string
}

func (e *DriverError) Error() string {
	return e.Code.String() + ": " + e.Msg
}
