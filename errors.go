package gohamt

import "fmt"


//============================================= gohamt Invariant Errors


// invariantViolation
//	Reports an internal structural invariant that a correct caller can never trigger.
//	Logs the violation through the package logger and then panics, since any recovery
//	path would have to guess at a tree shape the package itself failed to maintain.
func invariantViolation(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	pkgLog.Error(msg)

	panic("gohamt: invariant violation: " + msg)
}
