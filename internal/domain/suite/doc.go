// Package suite models a named collection of self-test cases and the two ways
// of running it.
//
// Run executes every case, recovers panics, captures each case's log output
// and returns a Report. Debug runs the cases in order without any of that:
// logs go to the caller's logger, panics are left alone and the first failure
// is returned with a stack trace.
package suite
