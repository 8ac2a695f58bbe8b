// package stages maps a generator config to the ordered list of
// Dockerfile fragments and assets that make up the image
package stages

import (
	"fmt"
	"strings"

	"github.com/osbuild/cuda-dockerfiles/pkg/catalog"
	"github.com/osbuild/cuda-dockerfiles/pkg/config"
)

// DefaultRepositoryURL is the raw-file endpoint of the NVIDIA CUDA
// repository. Branches are named after the system id.
const DefaultRepositoryURL = "https://gitlab.com/nvidia/cuda/raw"

const (
	StageBase    = "base"
	StageRuntime = "runtime"
	StageDevel   = "devel"
)

// Plan is the resolved, ordered set of remote files for one config
type Plan struct {
	Stages      []string
	Dockerfiles []string
	Assets      []string
}

// Resolver turns configs into plans. The zero value resolves against
// DefaultRepositoryURL.
type Resolver struct {
	RepositoryURL string
}

// URL returns the URL of a file below the directory of the given
// system and CUDA version. This is the only place the remote layout is
// encoded.
func (r Resolver) URL(osID, cuda, path string) string {
	repo := r.RepositoryURL
	if repo == "" {
		repo = DefaultRepositoryURL
	}
	return fmt.Sprintf("%s/%s/%s/%s", strings.TrimSuffix(repo, "/"), osID, cuda, path)
}

// DockerfileURL returns the fragment URL of a stage
func (r Resolver) DockerfileURL(osID, cuda, stage string) string {
	return r.URL(osID, cuda, stage+"/Dockerfile")
}

// Stages returns the stage paths for the config, in build order.
//
// The config is expected to be valid, see config.Config.Validate.
func Stages(cat *catalog.Catalog, conf config.Config) []string {
	var stages []string
	if cat.StandaloneBase(conf.CUDA) {
		stages = append(stages, StageBase)
	}

	switch conf.Variant {
	case config.VariantRuntime:
		stages = append(stages, StageRuntime)
	case config.VariantDevel:
		// devel is layered on runtime
		stages = append(stages, StageRuntime, StageDevel)
	}

	if conf.CuDNN != catalog.CuDNNNone && len(stages) > 0 {
		stages = append(stages, fmt.Sprintf("%s/cudnn%s", stages[len(stages)-1], conf.CuDNN))
	}

	return stages
}

// Resolve validates the config and computes its plan. No network
// access happens here.
func (r Resolver) Resolve(cat *catalog.Catalog, conf config.Config) (*Plan, error) {
	if err := conf.Validate(cat); err != nil {
		return nil, err
	}

	stages := Stages(cat, conf)
	if len(stages) == 0 {
		return nil, fmt.Errorf("no stages for os %s cuda %s variant %s", conf.OS, conf.CUDA, conf.Variant)
	}

	assets, err := cat.Assets(conf.OS)
	if err != nil {
		return nil, err
	}

	plan := &Plan{
		Stages: stages,
	}
	for _, stage := range stages {
		plan.Dockerfiles = append(plan.Dockerfiles, r.DockerfileURL(conf.OS, conf.CUDA, stage))
	}
	for _, asset := range assets {
		plan.Assets = append(plan.Assets, r.URL(conf.OS, conf.CUDA, stages[0]+"/"+asset))
	}

	return plan, nil
}
