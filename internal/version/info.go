package version

import (
	"errors"
	"fmt"
	"strings"
)

// DatePolicy decides what a malformed build date means.
type DatePolicy string

const (
	// DatePolicyStrict treats a version without a valid build date as an error.
	DatePolicyStrict DatePolicy = "strict"
	// DatePolicyTolerant accepts such a version and leaves the build date empty.
	DatePolicyTolerant DatePolicy = "tolerant"
)

// errUnknownDatePolicy is returned by ParseDatePolicy for unsupported values.
var errUnknownDatePolicy = errors.New("unknown date policy")

// ParseDatePolicy converts configuration input to a DatePolicy.
func ParseDatePolicy(s string) (DatePolicy, error) {
	switch p := DatePolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case DatePolicyStrict, DatePolicyTolerant:
		return p, nil
	case "":
		return DatePolicyTolerant, nil
	default:
		return "", fmt.Errorf("%w: %q", errUnknownDatePolicy, s)
	}
}

// Info is the version metadata of one distribution, resolved once at start-up.
type Info struct {
	// Distribution is the name the version was looked up by.
	Distribution string `yaml:"distribution"`
	// Version is the raw version string from the store.
	Version string `yaml:"version"`
	// Date is LegacyDate(Version).
	Date string `yaml:"date"`
}

// Load looks up distribution in store. A missing distribution is an error,
// never an empty version.
func Load(store Store, distribution string) (*Info, error) {
	v, err := store.Lookup(distribution)
	if err != nil {
		return nil, fmt.Errorf("resolve version: %w", err)
	}

	return &Info{
		Distribution: distribution,
		Version:      v,
		Date:         LegacyDate(v),
	}, nil
}

// Descriptor parses the version under policy.
// Under DatePolicyTolerant a malformed version yields a Descriptor that only carries Raw.
func (i *Info) Descriptor(policy DatePolicy) (*Descriptor, error) {
	d, err := Parse(i.Version)
	if err == nil {
		return d, nil
	}

	if policy == DatePolicyStrict {
		return nil, err
	}

	return &Descriptor{Raw: i.Version}, nil
}

// String renders the info for CLI output.
func (i *Info) String() string {
	return fmt.Sprintf("%s %s (%s)", i.Distribution, i.Version, i.Date)
}
