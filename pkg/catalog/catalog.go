// package catalog contains the accepted operating systems, CUDA and cuDNN
// versions the generator knows how to build Dockerfiles for
package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"slices"
	"sort"

	"github.com/containers/image/v5/docker/reference"
	"gopkg.in/yaml.v3"

	"github.com/osbuild/cuda-dockerfiles/internal/common"
)

//go:embed catalog.yaml
var data []byte

// CuDNNNone is the cuDNN sentinel meaning "no cuDNN layer"
const CuDNNNone = "none"

// Family is a group of systems sharing the same packaging conventions
type Family struct {
	Name string
	// Assets are non-Dockerfile files needed next to the Dockerfile,
	// they are fetched relative to the first stage.
	Assets []string
}

// System is a distro/architecture the CUDA fragments are published for
type System struct {
	ID     string
	Family string
	// BaseImage is the default image the generated Dockerfile starts from
	BaseImage string
}

type familyYAML struct {
	Assets []string `yaml:"assets"`
}

type systemYAML struct {
	ID     string `yaml:"id"`
	Family string `yaml:"family"`
	Base   string `yaml:"base"`
}

type cudaYAML struct {
	Versions       []string `yaml:"versions"`
	StandaloneBase string   `yaml:"standalone_base"`
}

type toplevelYAML struct {
	Families map[string]familyYAML `yaml:"families"`
	Systems  []systemYAML          `yaml:"systems"`
	CUDA     cudaYAML              `yaml:"cuda"`
	CuDNN    []string              `yaml:"cudnn"`
}

// Catalog holds the accepted-values tables. It is read-only after
// creation.
type Catalog struct {
	families       map[string]Family
	systems        []System
	cuda           []string
	standaloneBase map[string]bool
	cudnn          []string
}

// Default returns the catalog embedded into the binary
func Default() (*Catalog, error) {
	return New(data)
}

// New parses and validates a catalog from its YAML representation
func New(content []byte) (*Catalog, error) {
	var toplevel toplevelYAML
	dec := yaml.NewDecoder(bytes.NewReader(content))
	dec.KnownFields(true)
	if err := dec.Decode(&toplevel); err != nil {
		return nil, fmt.Errorf("cannot decode catalog: %w", err)
	}

	cat := &Catalog{
		families:       make(map[string]Family, len(toplevel.Families)),
		standaloneBase: make(map[string]bool, len(toplevel.CUDA.Versions)),
	}
	for name, fam := range toplevel.Families {
		cat.families[name] = Family{Name: name, Assets: fam.Assets}
	}

	seen := map[string]bool{}
	for _, sys := range toplevel.Systems {
		if sys.ID == "" {
			return nil, fmt.Errorf("system without id in catalog")
		}
		if seen[sys.ID] {
			return nil, fmt.Errorf("duplicate system %q in catalog", sys.ID)
		}
		seen[sys.ID] = true
		if _, ok := cat.families[sys.Family]; !ok {
			return nil, fmt.Errorf("system %q has unknown family %q", sys.ID, sys.Family)
		}
		if _, err := reference.ParseNormalizedNamed(sys.Base); err != nil {
			return nil, fmt.Errorf("system %q has invalid base image %q: %w", sys.ID, sys.Base, err)
		}
		cat.systems = append(cat.systems, System{
			ID:        sys.ID,
			Family:    sys.Family,
			BaseImage: sys.Base,
		})
	}
	if len(cat.systems) == 0 {
		return nil, fmt.Errorf("catalog contains no systems")
	}
	sort.Slice(cat.systems, func(i, j int) bool {
		return cat.systems[i].ID < cat.systems[j].ID
	})

	if toplevel.CUDA.StandaloneBase == "" {
		return nil, fmt.Errorf("catalog is missing the cuda standalone_base constraint")
	}
	for _, v := range toplevel.CUDA.Versions {
		if slices.Contains(cat.cuda, v) {
			return nil, fmt.Errorf("duplicate cuda version %q in catalog", v)
		}
		ok, err := common.VersionMatches(v, toplevel.CUDA.StandaloneBase)
		if err != nil {
			return nil, fmt.Errorf("invalid cuda version %q in catalog: %w", v, err)
		}
		cat.standaloneBase[v] = ok
		cat.cuda = append(cat.cuda, v)
	}
	if len(cat.cuda) == 0 {
		return nil, fmt.Errorf("catalog contains no cuda versions")
	}
	slices.SortStableFunc(cat.cuda, func(a, b string) int {
		switch {
		case common.VersionLessThan(a, b):
			return -1
		case common.VersionLessThan(b, a):
			return 1
		}
		return 0
	})

	for _, v := range toplevel.CuDNN {
		if v == CuDNNNone {
			return nil, fmt.Errorf("cudnn version %q is reserved", CuDNNNone)
		}
		if slices.Contains(cat.cudnn, v) {
			return nil, fmt.Errorf("duplicate cudnn version %q in catalog", v)
		}
		cat.cudnn = append(cat.cudnn, v)
	}

	return cat, nil
}

// Systems returns all systems sorted by id
func (c *Catalog) Systems() []System {
	return slices.Clone(c.systems)
}

// SystemIDs returns the sorted list of accepted system identifiers
func (c *Catalog) SystemIDs() []string {
	ids := make([]string, 0, len(c.systems))
	for _, sys := range c.systems {
		ids = append(ids, sys.ID)
	}
	return ids
}

// System looks up a system by id
func (c *Catalog) System(id string) (System, error) {
	for _, sys := range c.systems {
		if sys.ID == id {
			return sys, nil
		}
	}
	return System{}, fmt.Errorf("unknown os %q", id)
}

// Assets returns the asset names needed for the given system
func (c *Catalog) Assets(id string) ([]string, error) {
	sys, err := c.System(id)
	if err != nil {
		return nil, err
	}
	return slices.Clone(c.families[sys.Family].Assets), nil
}

// CUDAVersions returns the accepted CUDA versions, oldest first
func (c *Catalog) CUDAVersions() []string {
	return slices.Clone(c.cuda)
}

// HasCUDA returns true if the CUDA version is accepted
func (c *Catalog) HasCUDA(v string) bool {
	return slices.Contains(c.cuda, v)
}

// StandaloneBase returns true if the CUDA version publishes a "base"
// stage that runtime and devel are layered on.
func (c *Catalog) StandaloneBase(cuda string) bool {
	return c.standaloneBase[cuda]
}

// CuDNNVersions returns the accepted cuDNN versions followed by
// CuDNNNone
func (c *Catalog) CuDNNVersions() []string {
	return append(slices.Clone(c.cudnn), CuDNNNone)
}

// HasCuDNN returns true if the cuDNN version is accepted, CuDNNNone
// included
func (c *Catalog) HasCuDNN(v string) bool {
	return v == CuDNNNone || slices.Contains(c.cudnn, v)
}
