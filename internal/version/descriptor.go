package version

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"golang.org/x/mod/module"
)

var (
	// ErrMalformedDate is returned when a version does not end in a valid YYYYMMDD date.
	ErrMalformedDate = errors.New("version does not end in a YYYYMMDD build date")
	// ErrMalformedVersion is returned when the release part is not a semantic version.
	ErrMalformedVersion = errors.New("release is not a semantic version")
)

// dateLayout is the layout of the tag-date suffix.
const dateLayout = "20060102"

// Descriptor is a validated version: semantic release plus build date.
type Descriptor struct {
	// Raw is the version string the descriptor was parsed from.
	Raw string
	// Release is the semantic part, nil when the version was not parsed.
	Release *semver.Version
	// BuildDate is the embedded build date in UTC, zero when unknown.
	BuildDate time.Time
}

// Parse validates raw and splits it into release and build date.
// It accepts the tag-date form (1.0.020230615, 1.0.0.dev20230615, a bare
// 20230615 read as release 0.0.0) and Go
// pseudo-versions (v0.0.0-20230615120000-0123456789ab).
func Parse(raw string) (*Descriptor, error) {
	if module.IsPseudoVersion(raw) {
		return parsePseudo(raw)
	}

	if len(raw) < dateSuffixLength {
		return nil, fmt.Errorf("%q: %w", raw, ErrMalformedDate)
	}

	split := len(raw) - dateSuffixLength
	suffix := raw[split:]

	for _, r := range suffix {
		if r < '0' || r > '9' {
			return nil, fmt.Errorf("%q: %w", raw, ErrMalformedDate)
		}
	}

	date, err := time.Parse(dateLayout, suffix)
	if err != nil {
		return nil, fmt.Errorf("%q: %w: %w", raw, ErrMalformedDate, err)
	}

	base := trimRelease(raw[:split])
	if base == "" {
		// A bare date carries no release, same as a v0.0.0 pseudo-version.
		base = "0.0.0"
	}

	release, err := semver.NewVersion(base)
	if err != nil {
		return nil, fmt.Errorf("%q: %w: %w", raw, ErrMalformedVersion, err)
	}

	return &Descriptor{
		Raw:       raw,
		Release:   release,
		BuildDate: date,
	}, nil
}

// parsePseudo handles Go pseudo-versions, whose timestamp is the commit time.
func parsePseudo(raw string) (*Descriptor, error) {
	ts, err := module.PseudoVersionTime(raw)
	if err != nil {
		return nil, fmt.Errorf("%q: %w: %w", raw, ErrMalformedDate, err)
	}

	base, err := module.PseudoVersionBase(raw)
	if err != nil {
		return nil, fmt.Errorf("%q: %w: %w", raw, ErrMalformedVersion, err)
	}

	if base == "" {
		base = "v0.0.0"
	}

	release, err := semver.NewVersion(base)
	if err != nil {
		return nil, fmt.Errorf("%q: %w: %w", raw, ErrMalformedVersion, err)
	}

	return &Descriptor{
		Raw:       raw,
		Release:   release,
		BuildDate: ts.UTC().Truncate(24 * time.Hour),
	}, nil
}

// trimRelease strips the separator and "dev" marker left between release and date.
func trimRelease(s string) string {
	s = strings.TrimRight(s, ".-+_")
	s = strings.TrimSuffix(s, "dev")

	return strings.TrimRight(s, ".-+_")
}

// HasDate reports whether the build date is known.
func (d *Descriptor) HasDate() bool {
	return !d.BuildDate.IsZero()
}

// Date returns the build date as YYYY-MM-DD, or an empty string when unknown.
func (d *Descriptor) Date() string {
	if !d.HasDate() {
		return ""
	}

	return d.BuildDate.Format(time.DateOnly)
}

// ReleaseString returns the release version, or an empty string when unknown.
func (d *Descriptor) ReleaseString() string {
	if d.Release == nil {
		return ""
	}

	return d.Release.String()
}
