package version

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"gopkg.in/yaml.v3"
)

// ErrDistributionNotFound is returned when a store has no record of the requested distribution.
var ErrDistributionNotFound = errors.New("distribution not found")

// Store resolves installed distribution names to their version strings.
type Store interface {
	// Lookup returns the version of the named distribution or an error wrapping ErrDistributionNotFound.
	Lookup(name string) (string, error)
}

// BuildInfoStore reads versions from the build information embedded into the running binary.
type BuildInfoStore struct {
	// read returns the build information, debug.ReadBuildInfo outside of tests.
	read func() (*debug.BuildInfo, bool)
	// override replaces the main module version when not empty.
	override string
}

// NewBuildInfoStore creates a store over the running binary's build information.
// The ldflags-injected Version takes precedence over the main module version.
func NewBuildInfoStore() *BuildInfoStore {
	return &BuildInfoStore{
		read:     debug.ReadBuildInfo,
		override: Version,
	}
}

// Lookup resolves the main module or one of its dependencies.
func (s *BuildInfoStore) Lookup(name string) (string, error) {
	info, ok := s.read()
	if !ok || info == nil {
		return "", fmt.Errorf("%s: build information unavailable: %w", name, ErrDistributionNotFound)
	}

	if info.Main.Path == name {
		if s.override != "" {
			return s.override, nil
		}

		if info.Main.Version != "" {
			return info.Main.Version, nil
		}
	}

	for _, dep := range info.Deps {
		if dep == nil || dep.Path != name {
			continue
		}

		if dep.Replace != nil && dep.Replace.Version != "" {
			return dep.Replace.Version, nil
		}

		return dep.Version, nil
	}

	return "", fmt.Errorf("%s: %w", name, ErrDistributionNotFound)
}

// MapStore is a fixed name to version mapping.
type MapStore map[string]string

// Lookup returns the recorded version.
func (s MapStore) Lookup(name string) (string, error) {
	v, ok := s[name]
	if !ok {
		return "", fmt.Errorf("%s: %w", name, ErrDistributionNotFound)
	}

	return v, nil
}

// Manifest is the installed-distributions record shipped next to the binaries.
type Manifest struct {
	// Distributions maps distribution names to installed versions.
	Distributions map[string]string `yaml:"distributions"`
}

// ManifestStore resolves versions from a YAML manifest on disk.
type ManifestStore struct {
	// path is the manifest location.
	path string
}

// NewManifestStore creates a store reading the manifest at path on every lookup.
func NewManifestStore(path string) *ManifestStore {
	return &ManifestStore{
		path: filepath.Clean(path),
	}
}

// Lookup reads the manifest and returns the recorded version.
func (s *ManifestStore) Lookup(name string) (string, error) {
	contents, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%s: manifest %s is missing: %w", name, s.path, ErrDistributionNotFound)
		}

		return "", fmt.Errorf("read manifest: %w", err)
	}

	var manifest Manifest
	if err = yaml.Unmarshal(contents, &manifest); err != nil {
		return "", fmt.Errorf("decode manifest: %w", err)
	}

	return MapStore(manifest.Distributions).Lookup(name)
}

// ChainStore asks each store in order and returns the first known version.
type ChainStore []Store

// Lookup returns the first match. Errors other than ErrDistributionNotFound stop the chain.
func (s ChainStore) Lookup(name string) (string, error) {
	for _, store := range s {
		v, err := store.Lookup(name)
		if err == nil {
			return v, nil
		}

		if !errors.Is(err, ErrDistributionNotFound) {
			return "", err
		}
	}

	return "", fmt.Errorf("%s: %w", name, ErrDistributionNotFound)
}
