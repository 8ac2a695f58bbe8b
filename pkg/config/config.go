// package config contains the validated generator configuration
package config

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/containers/image/v5/docker/reference"

	"github.com/osbuild/cuda-dockerfiles/pkg/catalog"
)

// Variant is the completeness level of the generated image
type Variant string

const (
	VariantBase    Variant = "base"
	VariantRuntime Variant = "runtime"
	VariantDevel   Variant = "devel"
)

// Variants is the accepted-values table for Variant, in the order they
// build on each other.
var Variants = []Variant{VariantBase, VariantRuntime, VariantDevel}

// VariantNames returns the accepted variants as strings
func VariantNames() []string {
	names := make([]string, len(Variants))
	for i, v := range Variants {
		names[i] = string(v)
	}
	return names
}

// ParseVariant converts s into a Variant
func ParseVariant(s string) (Variant, error) {
	for _, v := range Variants {
		if string(v) == s {
			return v, nil
		}
	}
	return "", choiceError("variant", s, VariantNames())
}

func (v Variant) String() string {
	return string(v)
}

// DefaultOutput is the output directory used when none is given
const DefaultOutput = "."

// Config describes one Dockerfile to generate
type Config struct {
	OS      string
	CUDA    string
	CuDNN   string
	Variant Variant
	// Base overrides the default base image of OS when set
	Base string
	// User is "user[:group]" or "uid[:gid]", when set the Dockerfile
	// switches to it at the end
	User    string
	Output  string
	Verbose bool
}

// user or uid, optionally followed by ":group" or ":gid"
var userRegexp = regexp.MustCompile(`^[^:\s]+(:[^:\s]+)?$`)

func choiceError(field, value string, choices []string) error {
	return fmt.Errorf("invalid %s %q (choose from %s)", field, value, strings.Join(choices, ", "))
}

// Validate checks the config against the catalog. It does not touch the
// network or the filesystem.
func (c Config) Validate(cat *catalog.Catalog) error {
	if _, err := cat.System(c.OS); err != nil {
		return choiceError("os", c.OS, cat.SystemIDs())
	}
	if !cat.HasCUDA(c.CUDA) {
		return choiceError("cuda", c.CUDA, cat.CUDAVersions())
	}
	if !cat.HasCuDNN(c.CuDNN) {
		return choiceError("cudnn", c.CuDNN, cat.CuDNNVersions())
	}
	if _, err := ParseVariant(string(c.Variant)); err != nil {
		return err
	}

	if c.Variant == VariantBase {
		if !cat.StandaloneBase(c.CUDA) {
			return fmt.Errorf("variant %q is not available for cuda %s: no standalone base image", VariantBase, c.CUDA)
		}
		if c.CuDNN != catalog.CuDNNNone {
			return fmt.Errorf("variant %q cannot be combined with cudnn %s, use cudnn %q", VariantBase, c.CuDNN, catalog.CuDNNNone)
		}
	}

	if c.Base != "" {
		if _, err := reference.ParseNormalizedNamed(c.Base); err != nil {
			return fmt.Errorf("invalid base image %q: %w", c.Base, err)
		}
	}
	if c.User != "" && !userRegexp.MatchString(c.User) {
		return fmt.Errorf("invalid user %q: expected <user>[:<group>] or <UID>[:<GID>]", c.User)
	}

	return nil
}

// BaseImage returns the image the Dockerfile starts from and the
// default image of the configured OS.
func (c Config) BaseImage(cat *catalog.Catalog) (effective string, def string, err error) {
	sys, err := cat.System(c.OS)
	if err != nil {
		return "", "", err
	}
	if c.Base != "" {
		return c.Base, sys.BaseImage, nil
	}
	return sys.BaseImage, sys.BaseImage, nil
}
