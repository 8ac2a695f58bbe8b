package imagefilter

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	// we cannot use "maps" yet, as it needs go1.23
	"golang.org/x/exp/maps"

	"github.com/osbuild/cuda-dockerfiles/internal/common"
	"github.com/osbuild/cuda-dockerfiles/pkg/catalog"
	"github.com/osbuild/cuda-dockerfiles/pkg/config"
)

// OutputFormat contains the valid output formats for formatting results
type OutputFormat string

const (
	OutputFormatDefault   OutputFormat = ""
	OutputFormatText      OutputFormat = "text"
	OutputFormatJSON      OutputFormat = "json"
	OutputFormatTOML      OutputFormat = "toml"
	OutputFormatTextShell OutputFormat = "shell"
	OutputFormatTextShort OutputFormat = "short"
)

// ResultFormatter will format the given result list to the given io.Writer
type ResultsFormatter interface {
	Output(io.Writer, []Result) error
}

var supportedFormatters = map[string]ResultsFormatter{
	string(OutputFormatDefault):   &textResultsFormatter{},
	string(OutputFormatText):      &textResultsFormatter{},
	string(OutputFormatJSON):      &jsonResultsFormatter{},
	string(OutputFormatTOML):      &tomlResultsFormatter{},
	string(OutputFormatTextShell): &shellResultsFormatter{},
	string(OutputFormatTextShort): &textShortResultsFormatter{},
}

// SupportedOutputFormats returns a list of supported output formats
func SupportedOutputFormats() []string {
	keys := maps.Keys(supportedFormatters)
	sort.Strings(keys)
	return keys
}

// NewResultsFormatter will create a formatter based on the given format.
func NewResultsFormatter(format OutputFormat) (ResultsFormatter, error) {
	rs, ok := supportedFormatters[string(format)]
	if !ok {
		return nil, fmt.Errorf("unsupported formatter %q", format)
	}
	return rs, nil
}

type textResultsFormatter struct{}

func (*textResultsFormatter) Output(w io.Writer, all []Result) error {
	var errs []error

	for _, res := range all {
		// The output should be usable as filter terms for
		// "cuda-dockerfile list" again
		if _, err := fmt.Fprintf(w, "%s cuda:%s variant:%s cudnn:%s\n", res.System.ID, res.CUDA, res.Variant, res.CuDNN); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

type shellResultsFormatter struct{}

func (*shellResultsFormatter) Output(w io.Writer, all []Result) error {
	var errs []error

	for _, res := range all {
		if _, err := fmt.Fprintf(w, "--os %s --cuda %s --variant %s --cudnn %s\n",
			res.System.ID,
			res.CUDA,
			res.Variant,
			res.CuDNN); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

type textShortResultsFormatter struct{}

type shortEntry struct {
	variants []string
	cudnn    []string
}

func (*textShortResultsFormatter) Output(w io.Writer, all []Result) error {
	var errs []error

	outputMap := make(map[string]map[string]*shortEntry)
	for _, res := range all {
		if _, ok := outputMap[res.System.ID]; !ok {
			outputMap[res.System.ID] = make(map[string]*shortEntry)
		}
		entry, ok := outputMap[res.System.ID][res.CUDA]
		if !ok {
			entry = &shortEntry{}
			outputMap[res.System.ID][res.CUDA] = entry
		}
		if !slices.Contains(entry.variants, res.Variant.String()) {
			entry.variants = append(entry.variants, res.Variant.String())
		}
		if res.CuDNN != catalog.CuDNNNone && !slices.Contains(entry.cudnn, res.CuDNN) {
			entry.cudnn = append(entry.cudnn, res.CuDNN)
		}
	}

	systems := maps.Keys(outputMap)
	sort.Strings(systems)

	for _, sys := range systems {
		cudas := maps.Keys(outputMap[sys])
		slices.SortFunc(cudas, func(a, b string) int {
			switch {
			case common.VersionLessThan(a, b):
				return -1
			case common.VersionLessThan(b, a):
				return 1
			}
			return 0
		})

		var lines []string
		for _, cuda := range cudas {
			entry := outputMap[sys][cuda]
			sortVariants(entry.variants)
			sort.Strings(entry.cudnn)
			lines = append(lines, fmt.Sprintf("%s: variants [ %s ] cudnn [ %s ]", cuda, strings.Join(entry.variants, ", "), strings.Join(entry.cudnn, ", ")))
		}

		if _, err := fmt.Fprintf(w, "%s:\n  %s\n", sys, strings.Join(lines, "\n  ")); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// sortVariants sorts variant names in build order
func sortVariants(variants []string) {
	order := config.VariantNames()
	slices.SortFunc(variants, func(a, b string) int {
		return slices.Index(order, a) - slices.Index(order, b)
	})
}

type jsonResultsFormatter struct{}

type systemResultJSON struct {
	ID        string `json:"id"`
	Family    string `json:"family"`
	BaseImage string `json:"base_image"`
}

type filteredResultJSON struct {
	OS      systemResultJSON `json:"os"`
	CUDA    string           `json:"cuda"`
	Variant string           `json:"variant"`
	CuDNN   string           `json:"cudnn"`
}

func newFilteredResultJSON(res Result) filteredResultJSON {
	return filteredResultJSON{
		OS: systemResultJSON{
			ID:        res.System.ID,
			Family:    res.System.Family,
			BaseImage: res.System.BaseImage,
		},
		CUDA:    res.CUDA,
		Variant: res.Variant.String(),
		CuDNN:   res.CuDNN,
	}
}

func (*jsonResultsFormatter) Output(w io.Writer, all []Result) error {
	out := []filteredResultJSON{}

	for _, res := range all {
		out = append(out, newFilteredResultJSON(res))
	}

	enc := json.NewEncoder(w)
	return enc.Encode(out)
}

type tomlResultsFormatter struct{}

type filteredResultTOML struct {
	OS        string `toml:"os"`
	Family    string `toml:"family"`
	BaseImage string `toml:"base_image"`
	CUDA      string `toml:"cuda"`
	Variant   string `toml:"variant"`
	CuDNN     string `toml:"cudnn"`
}

type filteredResultsTOML struct {
	Images []filteredResultTOML `toml:"image"`
}

func (*tomlResultsFormatter) Output(w io.Writer, all []Result) error {
	var out filteredResultsTOML

	for _, res := range all {
		out.Images = append(out.Images, filteredResultTOML{
			OS:        res.System.ID,
			Family:    res.System.Family,
			BaseImage: res.System.BaseImage,
			CUDA:      res.CUDA,
			Variant:   res.Variant.String(),
			CuDNN:     res.CuDNN,
		})
	}

	return toml.NewEncoder(w).Encode(out)
}
