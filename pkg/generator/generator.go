// package generator runs the resolve, fetch, assemble and write steps
// for one config
package generator

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/osbuild/cuda-dockerfiles/pkg/catalog"
	"github.com/osbuild/cuda-dockerfiles/pkg/config"
	"github.com/osbuild/cuda-dockerfiles/pkg/dockerfile"
	"github.com/osbuild/cuda-dockerfiles/pkg/output"
	"github.com/osbuild/cuda-dockerfiles/pkg/remotefile"
	"github.com/osbuild/cuda-dockerfiles/pkg/stages"
)

type Generator struct {
	Catalog  *catalog.Catalog
	Resolver stages.Resolver
	// Doer performs the HTTP requests, http.Client when nil
	Doer   remotefile.Doer
	Logger logrus.FieldLogger
}

func (g *Generator) logger() logrus.FieldLogger {
	if g.Logger == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		return discard
	}
	return g.Logger
}

func (g *Generator) fetch(ctx context.Context, urls []string) ([]remotefile.Spec, error) {
	resolver := remotefile.NewResolver(ctx, remotefile.WithDoer(g.Doer), remotefile.WithLogger(g.logger()))
	resolver.Add(urls...)
	return resolver.Finish()
}

// Generate writes the Dockerfile and assets for conf into conf.Output.
// Everything is fetched before the first file is written.
func (g *Generator) Generate(ctx context.Context, conf config.Config) error {
	if g.Catalog == nil {
		return fmt.Errorf("generator needs a catalog")
	}
	logger := g.logger()

	plan, err := g.Resolver.Resolve(g.Catalog, conf)
	if err != nil {
		return err
	}
	effectiveImage, defaultImage, err := conf.BaseImage(g.Catalog)
	if err != nil {
		return err
	}

	logger.Info("-------------------------------")
	logger.Info("Dockerfiles to be concatenated:")
	for _, u := range plan.Dockerfiles {
		logger.Infof("  %s", u)
	}
	logger.Info("Assets to be retrieved:")
	for _, u := range plan.Assets {
		logger.Infof("  %s", u)
	}
	logger.Info("-------------------------------")

	specs, err := g.fetch(ctx, plan.Dockerfiles)
	if err != nil {
		return err
	}
	fragments := make([]dockerfile.Fragment, 0, len(specs))
	for _, spec := range specs {
		fragments = append(fragments, dockerfile.NewFragment(spec.URL, spec.Content, logger))
	}
	text := dockerfile.Assemble(dockerfile.AssembleOptions{
		DefaultImage: defaultImage,
		Image:        effectiveImage,
		Fragments:    fragments,
		User:         conf.User,
	})

	assets, err := g.fetch(ctx, plan.Assets)
	if err != nil {
		return err
	}

	outputDir := conf.Output
	if outputDir == "" {
		outputDir = config.DefaultOutput
	}
	w := &output.Writer{Dir: outputDir, Logger: logger}
	if err := w.WriteDockerfile(text); err != nil {
		return err
	}
	if err := w.WriteAssets(assets); err != nil {
		return err
	}

	logger.Info("Done!")
	return nil
}
