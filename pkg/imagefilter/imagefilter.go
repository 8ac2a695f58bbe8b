package imagefilter

import (
	"fmt"

	"github.com/osbuild/cuda-dockerfiles/pkg/catalog"
	"github.com/osbuild/cuda-dockerfiles/pkg/config"
)

// Result contains a result from a imagefilter.Filter run
type Result struct {
	System  catalog.System
	CUDA    string
	Variant config.Variant
	CuDNN   string
}

// Config returns the generator config that builds the result
func (r Result) Config() config.Config {
	return config.Config{
		OS:      r.System.ID,
		CUDA:    r.CUDA,
		CuDNN:   r.CuDNN,
		Variant: r.Variant,
		Output:  config.DefaultOutput,
	}
}

// ImageFilter is an a flexible way to filter the images that can be
// generated.
type ImageFilter struct {
	cat *catalog.Catalog
}

// New creates a new ImageFilter that can be used to filter the list
// of available images
func New(cat *catalog.Catalog) (*ImageFilter, error) {
	if cat == nil {
		return nil, fmt.Errorf("cannot create ImageFilter without a valid catalog")
	}

	return &ImageFilter{cat: cat}, nil
}

// Filter filters the valid (os, cuda, variant, cudnn) combinations of
// the catalog based on the given filter terms. Glob like patterns (?, *)
// are supported, see fnmatch(3).
//
// Without a prefix in the filter term a simple name filtering is performed.
// With a prefix the specified property is filtered, e.g. "cuda:9.*". Adding
// filtering will narrow down the filtering (terms are combined via AND).
//
// The following prefixes are supported:
// "os:" - the system id, e.g. ubuntu16.04, or centos*
// "family:" - the system family, e.g. centos
// "cuda:" - the CUDA version, e.g. 9.0
// "cudnn:" - the cuDNN version or "none"
// "variant:" - base, runtime or devel
func (i *ImageFilter) Filter(searchTerms ...string) ([]Result, error) {
	var res []Result

	filter, err := newFilter(searchTerms...)
	if err != nil {
		return nil, err
	}

	for _, sys := range i.cat.Systems() {
		for _, cuda := range i.cat.CUDAVersions() {
			for _, variant := range config.Variants {
				for _, cudnn := range i.cat.CuDNNVersions() {
					r := Result{System: sys, CUDA: cuda, Variant: variant, CuDNN: cudnn}
					if r.Config().Validate(i.cat) != nil {
						continue
					}
					if filter.Matches(r) {
						res = append(res, r)
					}
				}
			}
		}
	}

	return res, nil
}
