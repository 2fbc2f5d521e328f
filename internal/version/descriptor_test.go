package version

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestParse covers the accepted tag-date and pseudo-version forms.
func TestParse(t *testing.T) {
	t.Parallel()

	cases := []struct {
		raw     string
		release string
		date    string
	}{
		{raw: "1.0.020230615", release: "1.0.0", date: "2023-06-15"},
		{raw: "2.2.1.dev20191231", release: "2.2.1", date: "2019-12-31"},
		{raw: "v1.4.0-20240229", release: "1.4.0", date: "2024-02-29"},
		{raw: "1.0.0-rc1+20230101", release: "1.0.0-rc1", date: "2023-01-01"},
		{raw: "v0.0.0-20230615123456-0123456789ab", release: "0.0.0", date: "2023-06-15"},
		{raw: "20230615", release: "0.0.0", date: "2023-06-15"},
		{raw: "dev20230615", release: "0.0.0", date: "2023-06-15"},
	}

	for _, tc := range cases {
		d, err := Parse(tc.raw)
		require.NoError(t, err, tc.raw)
		require.Equal(t, tc.raw, d.Raw)
		require.Equal(t, tc.release, d.ReleaseString(), tc.raw)
		require.Equal(t, tc.date, d.Date(), tc.raw)
		require.True(t, d.HasDate())
		require.Equal(t, time.UTC, d.BuildDate.Location())
	}
}

// TestParse_AgreesWithLegacyDate keeps both date derivations consistent for tag-date versions.
func TestParse_AgreesWithLegacyDate(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"1.0.020230615", "3.1.4.dev20000101", "20230615"} {
		d, err := Parse(raw)
		require.NoError(t, err)
		require.Equal(t, LegacyDate(raw), d.Date())
	}
}

// TestParse_Errors checks malformed dates and releases.
func TestParse_Errors(t *testing.T) {
	t.Parallel()

	dateErrors := []string{"", "1.0.0", "1.0.0abcdefgh", "1.0.020231345", "1.0.020230230"}
	for _, raw := range dateErrors {
		_, err := Parse(raw)
		require.ErrorIs(t, err, ErrMalformedDate, raw)
	}

	_, err := Parse("release-20230615")
	require.ErrorIs(t, err, ErrMalformedVersion)
}

// TestInfoDescriptor verifies strict and tolerant date policies.
func TestInfoDescriptor(t *testing.T) {
	t.Parallel()

	info := &Info{Distribution: "pyobjcryst", Version: "(devel)", Date: LegacyDate("(devel)")}

	_, err := info.Descriptor(DatePolicyStrict)
	require.ErrorIs(t, err, ErrMalformedDate)

	d, err := info.Descriptor(DatePolicyTolerant)
	require.NoError(t, err)
	require.False(t, d.HasDate())
	require.Empty(t, d.Date())
	require.Empty(t, d.ReleaseString())
}

// TestParseDatePolicy validates configuration input.
func TestParseDatePolicy(t *testing.T) {
	t.Parallel()

	p, err := ParseDatePolicy(" Strict ")
	require.NoError(t, err)
	require.Equal(t, DatePolicyStrict, p)

	p, err = ParseDatePolicy("")
	require.NoError(t, err)
	require.Equal(t, DatePolicyTolerant, p)

	_, err = ParseDatePolicy("lenient")
	require.Error(t, err)
}
