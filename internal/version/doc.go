// Package version exposes build and distribution metadata for the project.
//
// Variables Version, Commit and BuildTime are injected at build time via Go
// ldflags. A release Version follows the tag-date convention: the semantic
// version is immediately followed by an 8-digit YYYYMMDD build date, for
// example 1.0.020230615.
//
// Distribution versions are resolved through a Store (Go build info, an
// installed YAML manifest or a fixed map) and turned into an Info once at
// program start. Info carries both the raw version and the date derived from
// its last 8 characters; Parse offers a validated Descriptor instead of the
// positional slicing.
package version
