package imagefilter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osbuild/cuda-dockerfiles/pkg/catalog"
	"github.com/osbuild/cuda-dockerfiles/pkg/config"
)

func TestImageFilterFilter(t *testing.T) {
	res := Result{
		System:  catalog.System{ID: "centos7", Family: "centos", BaseImage: "centos:7"},
		CUDA:    "9.0",
		Variant: config.VariantDevel,
		CuDNN:   "7",
	}

	for _, tc := range []struct {
		searchExpr   []string
		expectsMatch bool
	}{
		// no prefix is a "fuzzy" filter and will check os/cuda/variant
		{[]string{"foo"}, false},
		{[]string{"centos7"}, true},
		{[]string{"centos*"}, true},
		{[]string{"9.0"}, true},
		{[]string{"devel"}, true},
		// os: prefix (exact matches only)
		{[]string{"os:ubuntu16.04"}, false},
		{[]string{"os:centos7"}, true},
		{[]string{"os:centos"}, false},
		// family: prefix
		{[]string{"family:ubuntu"}, false},
		{[]string{"family:centos"}, true},
		// cuda: prefix
		{[]string{"cuda:9.1"}, false},
		{[]string{"cuda:9.0"}, true},
		{[]string{"cuda:9.*"}, true},
		{[]string{"cuda:9"}, false},
		// cudnn: prefix
		{[]string{"cudnn:none"}, false},
		{[]string{"cudnn:7"}, true},
		{[]string{"cudnn:?"}, true},
		// variant: prefix
		{[]string{"variant:runtime"}, false},
		{[]string{"variant:devel"}, true},
		// multiple filters are AND
		{[]string{"os:centos7", "variant:base"}, false},
		{[]string{"os:centos7", "variant:devel"}, true},
		{[]string{"os:centos7", "cuda:8.0", "variant:devel"}, false},
	} {
		ff, err := newFilter(tc.searchExpr...)
		require.NoError(t, err)

		match := ff.Matches(res)
		assert.Equal(t, tc.expectsMatch, match, tc)
	}
}

func TestImageFilterUnsupportedPrefix(t *testing.T) {
	_, err := newFilter("arch:x86_64")
	assert.EqualError(t, err, `unsupported filter prefix: "arch"`)
}

func TestImageFilterBadGlob(t *testing.T) {
	_, err := newFilter("os:[centos")
	assert.Error(t, err)
}
