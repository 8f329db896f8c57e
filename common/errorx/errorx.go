package errorx

import (
	"errors"
	"fmt"
	"strconv"
)

// CustomError used as standard error struct
//
// prefix and code identify the error kind, err keeps the original cause and
// context carries extra details which are logged but never sent to clients.
type CustomError struct {
	prefix  string
	code    int
	err     error
	context context
}

func (err CustomError) Error() string {
	if err.err == nil {
		return err.Code()
	}
	return fmt.Sprintf("%s: %s", err.Code(), err.err.Error())
}

func (err CustomError) Code() string {
	return err.prefix + "-" + strconv.Itoa(err.code)
}

// Message returns the human readable part of the error, without the code.
func (err CustomError) Message() string {
	if err.err == nil {
		return err.Code()
	}
	return err.err.Error()
}

func (err CustomError) Context() map[string]interface{} {
	return err.context
}

// Is reports whether target has the same prefix and code, so wrapped
// instances match the package level sentinels with errors.Is.
func (err CustomError) Is(target error) bool {
	var t CustomError
	if !errors.As(target, &t) {
		return false
	}
	return err.prefix == t.prefix && err.code == t.code
}

func (err CustomError) Unwrap() error {
	return err.err
}

const errUnknownPrefix = "UNKNOWN-ERR"

var ErrUnknown = CustomError{prefix: errUnknownPrefix, code: 0}
