// Package debug runs the self-test suite in debug mode: the first failing
// case ends the run and reaches the caller untouched, panics included.
package debug
