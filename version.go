package toml

import (
	"fmt"
	"strings"
)

// Version selects the TOML specification a document is parsed against.
type Version int

// Supported TOML versions.
const (
	V0_4_0 Version = iota + 1
	V0_5_0
	V1_0_0
	V1_1_0

	// Latest is the most recent released version.
	Latest = V1_0_0
	// Head is the newest version, including unreleased changes.
	Head = V1_1_0
)

var versionNames = map[Version]string{
	V0_4_0: "0.4.0",
	V0_5_0: "0.5.0",
	V1_0_0: "1.0.0",
	V1_1_0: "1.1.0",
}

func (v Version) String() string {
	if s, ok := versionNames[v]; ok {
		return s
	}
	return fmt.Sprintf("Version(%d)", int(v))
}

func (v Version) valid() bool { return v >= V0_4_0 && v <= V1_1_0 }

// before reports whether v predates o.
func (v Version) before(o Version) bool { return v < o }

// ParseVersion accepts "0.4", "0.4.0", "1.0", "1.1.0", "latest" and "head".
func ParseVersion(s string) (Version, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "latest":
		return Latest, nil
	case "head":
		return Head, nil
	}
	for v, name := range versionNames {
		if s == name || s == strings.TrimSuffix(name, ".0") {
			return v, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidVersion, s)
}

// Option configures Parse.
type Option func(*config) error

type config struct {
	version  Version
	failFast bool
}

func defaultConfig() config {
	return config{version: Head}
}

// WithVersion parses the document against the given TOML version. Older
// versions reject syntax introduced later and enable the checks those
// versions required, such as homogeneous arrays before 1.0.0.
func WithVersion(v Version) Option {
	return func(c *config) error {
		if !v.valid() {
			return fmt.Errorf("%w: %s", ErrInvalidVersion, v)
		}
		c.version = v
		return nil
	}
}

// FailOnSyntaxError makes Parse return the first syntax error as its error
// instead of building a partial document.
func FailOnSyntaxError() Option {
	return func(c *config) error {
		c.failFast = true
		return nil
	}
}
