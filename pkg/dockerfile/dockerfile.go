// package dockerfile filters CUDA Dockerfile fragments and assembles them
// into a single Dockerfile
package dockerfile

import (
	// registers sha256 for go-digest
	_ "crypto/sha256"
	"fmt"
	"io"
	"strings"

	"github.com/opencontainers/go-digest"
	"github.com/sirupsen/logrus"
)

// Fragment is the filtered content of one stage Dockerfile
type Fragment struct {
	URL   string
	Lines []string
}

// stripped reports whether line is boilerplate that the assembled
// Dockerfile provides itself: the base image and the maintainer label.
func stripped(line string) bool {
	return line == "ARG repository" ||
		strings.HasPrefix(line, "FROM ") ||
		strings.HasPrefix(line, "LABEL maintainer ")
}

// Filter splits text into lines and drops the boilerplate lines. All
// other lines are returned unchanged and in order. Lines may be of any
// length.
func Filter(text string, logger logrus.FieldLogger) []string {
	lines := []string{}
	if text == "" {
		return lines
	}
	for _, line := range strings.Split(strings.TrimSuffix(text, "\n"), "\n") {
		line = strings.TrimSuffix(line, "\r")
		if stripped(line) {
			if logger != nil {
				logger.Debugf("Stripped: %s", line)
			}
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// NewFragment filters the fetched content of url
func NewFragment(url string, content []byte, logger logrus.FieldLogger) Fragment {
	return Fragment{URL: url, Lines: Filter(string(content), logger)}
}

type AssembleOptions struct {
	// DefaultImage is the default base image of the system, it is
	// recorded as a comment
	DefaultImage string
	// Image overrides DefaultImage as the build starting point when set
	Image     string
	Fragments []Fragment
	// User is switched to at the end when set
	User string
}

func banner(title string) []string {
	return []string{
		"",
		"###",
		"### " + title,
		"###",
	}
}

// Assemble returns the Dockerfile text. Lines are joined with "\n",
// there is no trailing newline.
func Assemble(opts AssembleOptions) string {
	image := opts.DefaultImage
	if opts.Image != "" {
		image = opts.Image
	}

	lines := []string{
		fmt.Sprintf("# FROM %s", opts.DefaultImage),
		fmt.Sprintf("ARG image=%s", image),
		"FROM ${image}",
		"",
		"USER root",
	}

	for _, frag := range opts.Fragments {
		lines = append(lines, banner(frag.URL)...)
		lines = append(lines, frag.Lines...)
	}

	if opts.User != "" {
		lines = append(lines, banner("Reset User and Group")...)
		lines = append(lines, fmt.Sprintf("USER %s", opts.User))
	}

	return strings.Join(lines, "\n")
}

// Write writes the assembled Dockerfile to w and returns its digest
func Write(w io.Writer, text string) (digest.Digest, error) {
	digester := digest.Canonical.Digester()
	if _, err := io.WriteString(io.MultiWriter(w, digester.Hash()), text); err != nil {
		return "", err
	}
	return digester.Digest(), nil
}
