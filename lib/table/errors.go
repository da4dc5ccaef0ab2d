package table

import "fmt"

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// Error is a custom error type that wraps a return code (of type RetCode)
// and an error message.
type Error struct {
	Code RetCode // The return code
	Msg  string  // The error message.
}

// Error implements the error interface.
func (e *Error) Error() string {
	errorCode := ""
	switch e.Code {
	case RetCAllocation:
		errorCode = "Allocation"
	case RetCContract:
		errorCode = "Contract"
	default:
		errorCode = "Unknown"
	}

	return fmt.Sprintf("TableError (code %s): %s", errorCode, e.Msg)
}

// NewError creates a new TableError with the given code and message.
func NewError(code RetCode, msg string) *Error {
	return &Error{
		Code: code,
		Msg:  msg,
	}
}

// --------------------------------------------------------------------------
// Return Codes
// --------------------------------------------------------------------------

type RetCode uint64

const (
	RetCSuccess    RetCode = iota // 0: Operation executed successfully.
	RetCAllocation                // 1: Operation failed because the table could not be resized.
	RetCContract                  // 2: Operation was called in violation of the API contract.
)
