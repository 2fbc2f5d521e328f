package version

import (
	"errors"
	"os"
	"path/filepath"
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeBuildInfo returns a reader over a fixed build information record.
func fakeBuildInfo(info *debug.BuildInfo) func() (*debug.BuildInfo, bool) {
	return func() (*debug.BuildInfo, bool) {
		return info, info != nil
	}
}

// TestBuildInfoStore covers main module, override, dependencies and replacements.
func TestBuildInfoStore(t *testing.T) {
	t.Parallel()

	info := &debug.BuildInfo{
		Main: debug.Module{Path: "github.com/oshokin/objcryst", Version: "v1.2.3"},
		Deps: []*debug.Module{
			{Path: "go.uber.org/zap", Version: "v1.27.0"},
			{
				Path:    "gopkg.in/yaml.v3",
				Version: "v3.0.0",
				Replace: &debug.Module{Path: "gopkg.in/yaml.v3", Version: "v3.0.1"},
			},
		},
	}

	store := &BuildInfoStore{read: fakeBuildInfo(info)}

	v, err := store.Lookup("github.com/oshokin/objcryst")
	require.NoError(t, err)
	require.Equal(t, "v1.2.3", v)

	v, err = store.Lookup("go.uber.org/zap")
	require.NoError(t, err)
	require.Equal(t, "v1.27.0", v)

	v, err = store.Lookup("gopkg.in/yaml.v3")
	require.NoError(t, err)
	require.Equal(t, "v3.0.1", v)

	_, err = store.Lookup("pyobjcryst")
	require.ErrorIs(t, err, ErrDistributionNotFound)

	store.override = "1.0.020230615"
	v, err = store.Lookup("github.com/oshokin/objcryst")
	require.NoError(t, err)
	require.Equal(t, "1.0.020230615", v)
}

// TestBuildInfoStore_Unavailable ensures missing build info is reported as not found.
func TestBuildInfoStore_Unavailable(t *testing.T) {
	t.Parallel()

	store := &BuildInfoStore{read: fakeBuildInfo(nil)}

	_, err := store.Lookup("github.com/oshokin/objcryst")
	require.ErrorIs(t, err, ErrDistributionNotFound)
}

// TestManifestStore reads versions from a YAML manifest.
func TestManifestStore(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.yaml")
	require.NoError(t, os.WriteFile(path, []byte("distributions:\n  pyobjcryst: 1.0.020230615\n"), 0o600))

	store := NewManifestStore(path)

	v, err := store.Lookup("pyobjcryst")
	require.NoError(t, err)
	require.Equal(t, "1.0.020230615", v)

	_, err = store.Lookup("diffpy.structure")
	require.ErrorIs(t, err, ErrDistributionNotFound)

	_, err = NewManifestStore(filepath.Join(dir, "missing.yaml")).Lookup("pyobjcryst")
	require.ErrorIs(t, err, ErrDistributionNotFound)
}

// TestManifestStore_Corrupt ensures decode failures are not mistaken for missing distributions.
func TestManifestStore_Corrupt(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "manifest.yaml")
	require.NoError(t, os.WriteFile(path, []byte("distributions: [unclosed"), 0o600))

	_, err := NewManifestStore(path).Lookup("pyobjcryst")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrDistributionNotFound)
}

// errBroken simulates a store that fails for reasons other than a missing record.
var errBroken = errors.New("broken store")

// brokenStore always fails with errBroken.
type brokenStore struct{}

func (brokenStore) Lookup(string) (string, error) {
	return "", errBroken
}

// TestChainStore checks ordering, fall-through and hard failures.
func TestChainStore(t *testing.T) {
	t.Parallel()

	chain := ChainStore{
		MapStore{"a": "1"},
		MapStore{"a": "2", "b": "3"},
	}

	v, err := chain.Lookup("a")
	require.NoError(t, err)
	require.Equal(t, "1", v)

	v, err = chain.Lookup("b")
	require.NoError(t, err)
	require.Equal(t, "3", v)

	_, err = chain.Lookup("c")
	require.ErrorIs(t, err, ErrDistributionNotFound)

	_, err = ChainStore{brokenStore{}, MapStore{"a": "1"}}.Lookup("a")
	require.ErrorIs(t, err, errBroken)
}

// TestLoad ensures a missing distribution raises instead of defaulting.
func TestLoad(t *testing.T) {
	t.Parallel()

	info, err := Load(MapStore{"pyobjcryst": "1.0.020230615"}, "pyobjcryst")
	require.NoError(t, err)
	require.Equal(t, "1.0.020230615", info.Version)
	require.Equal(t, "2023-06-15", info.Date)
	require.Equal(t, "pyobjcryst", info.Distribution)

	info, err = Load(MapStore{}, "pyobjcryst")
	require.ErrorIs(t, err, ErrDistributionNotFound)
	require.Nil(t, info)
}
