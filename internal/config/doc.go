// Package config defines the settings shared by the objcryst binaries and
// provides helpers to load, validate and save them in YAML format.
//
// Load layers defaults, an optional YAML file and OBJCRYST_* environment
// variables; Validate fills remaining defaults and rejects unusable values.
package config
