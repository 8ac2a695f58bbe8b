package common

import (
	"github.com/hashicorp/go-version"
)

// Returns true if the version represented by the first argument is
// semantically older than the second.
//
// Meant to be used for ordering toolkit versions like "7.5" and "9.0".
// Assumes any missing components are 0, so 9 < 9.1.
// Evaluates to false if a and b are equal.
//
// Panics on unparseable input, callers validate versions up front.
func VersionLessThan(a, b string) bool {
	aV, err := version.NewVersion(a)
	if err != nil {
		panic(err)
	}
	bV, err := version.NewVersion(b)
	if err != nil {
		panic(err)
	}

	return aV.LessThan(bV)
}

// VersionMatches returns true if the version satisfies the given
// go-version constraint expression, e.g. ">= 9.0".
func VersionMatches(v, constraint string) (bool, error) {
	ver, err := version.NewVersion(v)
	if err != nil {
		return false, err
	}
	c, err := version.NewConstraint(constraint)
	if err != nil {
		return false, err
	}
	return c.Check(ver), nil
}
