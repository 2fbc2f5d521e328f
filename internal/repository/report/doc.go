// Package report persists the last self-test report.
//
// The FileRepository stores and loads a suite.Report as YAML on disk and
// exposes a Repository interface that the self-test service depends on.
package report
