package version

import "unicode/utf8"

// dateSuffixLength is the width of the YYYYMMDD suffix in a tag-date version.
const dateSuffixLength = 8

// LegacyDate formats the last 8 characters of v as YYYY-MM-DD.
// Nothing is validated: a short or non-numeric suffix produces a malformed
// string, never a panic. Use Parse for a checked build date.
func LegacyDate(v string) string {
	return slice(v, -8, -4) + "-" + slice(v, -4, -2) + "-" + slice(v, -2, utf8.RuneCountInString(v))
}

// slice returns the characters of s in [from, to) where negative bounds count
// from the end and out-of-range bounds are clamped, so it never panics.
// Bounds index runes, not bytes, so multi-byte characters are never split.
func slice(s string, from, to int) string {
	runes := []rune(s)
	n := len(runes)

	clamp := func(i int) int {
		if i < 0 {
			i += n
		}

		return min(max(i, 0), n)
	}

	from, to = clamp(from), clamp(to)
	if from >= to {
		return ""
	}

	return string(runes[from:to])
}
