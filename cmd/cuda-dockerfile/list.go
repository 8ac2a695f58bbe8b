package main

import (
	"io"

	"github.com/osbuild/cuda-dockerfiles/pkg/catalog"
	"github.com/osbuild/cuda-dockerfiles/pkg/imagefilter"
)

func listImages(out io.Writer, cat *catalog.Catalog, format string, filterExprs []string) error {
	fmter, err := imagefilter.NewResultsFormatter(imagefilter.OutputFormat(format))
	if err != nil {
		return err
	}
	imageFilter, err := imagefilter.New(cat)
	if err != nil {
		return err
	}
	filteredResults, err := imageFilter.Filter(filterExprs...)
	if err != nil {
		return err
	}

	return fmter.Output(out, filteredResults)
}
