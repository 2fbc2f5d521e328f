// Package selftest runs the self-test suite normally: every case executes,
// failures are collected into a report that is printed and stored.
//
// Setting suite.propagate in the configuration turns the run into a debug run.
package selftest
