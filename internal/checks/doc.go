// Package checks collects the self-test cases of an installed objcryst build.
//
// TestSuite is the single place that knows which cases exist; both the normal
// self-test run and the debug launcher obtain their suite from it.
package checks
