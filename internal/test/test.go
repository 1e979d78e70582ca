// Package test holds small testing helpers shared across this module's
// test files: caller-location-reporting assertions in the style of
// table-driven Go test suites that favor a terse Assert/Expect pair over
// importing a full assertion library in every internal package.
package test

import (
	"fmt"
	"runtime"
	"testing"
)

func fatalf(t *testing.T, message string, params ...any) {
	if len(params) > 0 {
		message = fmt.Sprintf(message, params...)
	}
	_, thisFile, _, _ := runtime.Caller(0)
	file := thisFile
	line := 0
	for i := 2; file == thisFile; i++ {
		_, file, line, _ = runtime.Caller(i)
	}
	t.Fatalf("%s at %s:%d", message, file, line)
}

// Assert fails t, reporting the caller's location, unless cond holds.
func Assert(t *testing.T, cond bool, message string, params ...any) {
	if !cond {
		fatalf(t, message, params...)
	}
}

// Expect fails t with an "expecting X, got Y" message unless cond holds.
func Expect(t *testing.T, cond bool, expected, got any) {
	if !cond {
		fatalf(t, "expecting %v, got %v", expected, got)
	}
}

// coded is implemented by every structured error type in this module
// (langdef, interpreter, errors.Error) via an ErrorCode accessor.
type coded interface {
	ErrorCode() int
}

// ExpectErrorCode fails t unless e carries the expected structured error
// code.
func ExpectErrorCode(t *testing.T, expected int, e error) {
	if ee, valid := e.(coded); valid && ee.ErrorCode() == expected {
		return
	}

	fatalf(t, "expecting error code %d, got %v", expected, e)
}
