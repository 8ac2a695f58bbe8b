package imagefilter

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gobwas/glob"
)

func splitPrefixSearchTerm(s string) (string, string) {
	l := strings.SplitN(s, ":", 2)
	if len(l) == 1 {
		return "", l[0]
	}
	return l[0], l[1]
}

// newFilter creates an image filter based on the given filter terms, see
// ImageFilter.Filter for the syntax.
func newFilter(sl ...string) (*filter, error) {
	filter := &filter{
		terms: make([]term, len(sl)),
	}
	for i, s := range sl {
		prefix, searchTerm := splitPrefixSearchTerm(s)
		if !slices.Contains(supportedFilters, prefix) {
			return nil, fmt.Errorf("unsupported filter prefix: %q", prefix)
		}
		gl, err := glob.Compile(searchTerm)
		if err != nil {
			return nil, err
		}
		filter.terms[i].prefix = prefix
		filter.terms[i].pattern = gl
	}
	return filter, nil
}

var supportedFilters = []string{
	"", "os", "family", "cuda", "cudnn", "variant",
}

type term struct {
	prefix  string
	pattern glob.Glob
}

// filter provides a way to filter a list of image combinations for the
// given filter terms.
type filter struct {
	terms []term
}

// Matches returns true if the given result matches the filter
// expressions
func (fl filter) Matches(r Result) bool {
	m := true
	for _, term := range fl.terms {
		switch term.prefix {
		case "":
			// no prefix, do a "fuzzy" search accross the common
			// things users may want
			m1 := term.pattern.Match(r.System.ID)
			m2 := term.pattern.Match(r.CUDA)
			m3 := term.pattern.Match(r.Variant.String())
			m = m && (m1 || m2 || m3)
		case "os":
			m = m && term.pattern.Match(r.System.ID)
		case "family":
			m = m && term.pattern.Match(r.System.Family)
		case "cuda":
			m = m && term.pattern.Match(r.CUDA)
		case "cudnn":
			m = m && term.pattern.Match(r.CuDNN)
		case "variant":
			m = m && term.pattern.Match(r.Variant.String())
		}
	}
	return m
}
