// Package version implements the exact-version and version-range types used to
// tag snippets. Versions follow semantic versioning with optional minor and
// patch components ("5", "1.2", "1.2.3-beta") and an optional fourth revision
// component ("1.0.0.4"); ranges use the bracketed interval notation
// "[1.0,2.0)", "(,3.0]" or "[1.5]".
package version

import (
	"cmp"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/mod/semver"
)

// ErrInvalid indicates a version or range token could not be parsed
var ErrInvalid = errors.New("invalid version")

// Version is a parsed semantic version. The zero value is not a valid version.
type Version struct {
	raw   string
	canon string
	// rev is the fourth numeric component, zero when absent
	rev int
}

// Parse parses a version token such as "5", "1.0", "v2.1.3-rc1" or "1.0.0.4".
func Parse(s string) (Version, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return Version{}, fmt.Errorf("%w: empty version", ErrInvalid)
	}

	body := raw
	if body[0] == 'v' || body[0] == 'V' {
		body = body[1:]
	}
	core, suffix := body, ""
	if i := strings.IndexAny(body, "-+"); i >= 0 {
		core, suffix = body[:i], body[i:]
	}

	var rev int
	if parts := strings.Split(core, "."); len(parts) == 4 {
		n, err := strconv.Atoi(parts[3])
		if err != nil || n < 0 {
			return Version{}, fmt.Errorf("%w: %q", ErrInvalid, raw)
		}
		rev = n
		core = strings.Join(parts[:3], ".")
	}

	canon := "v" + core + suffix
	if !semver.IsValid(canon) {
		return Version{}, fmt.Errorf("%w: %q", ErrInvalid, raw)
	}

	return Version{raw: raw, canon: canon, rev: rev}, nil
}

// MustParse is like Parse but panics on error. Intended for tests and constants.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// String returns the version as it was written.
func (v Version) String() string {
	return v.raw
}

// Canonical returns the normalized "vMAJOR.MINOR.PATCH[.REV][-pre]" form.
// A zero revision is omitted.
func (v Version) Canonical() string {
	c := semver.Canonical(v.canon)
	if v.rev == 0 {
		return c
	}
	pre := semver.Prerelease(c)
	return strings.TrimSuffix(c, pre) + "." + strconv.Itoa(v.rev) + pre
}

// Compare returns -1, 0 or +1 depending on whether v sorts before, equal to,
// or after o. "1.0", "1.0.0" and "1.0.0.0" compare equal. The revision ranks
// below patch and above the prerelease tag.
func (v Version) Compare(o Version) int {
	if c := semver.Compare(release(v.canon), release(o.canon)); c != 0 {
		return c
	}
	if c := cmp.Compare(v.rev, o.rev); c != 0 {
		return c
	}
	return semver.Compare("v0.0.0"+semver.Prerelease(v.canon), "v0.0.0"+semver.Prerelease(o.canon))
}

// release strips the prerelease and build suffixes of a semver string
func release(canon string) string {
	c := semver.Canonical(canon)
	return strings.TrimSuffix(c, semver.Prerelease(c))
}

// Equal reports whether v and o denote the same version.
func (v Version) Equal(o Version) bool {
	return v.Compare(o) == 0
}

// IsZero reports whether v is the zero value.
func (v Version) IsZero() bool {
	return v.canon == ""
}
