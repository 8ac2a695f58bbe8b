package main

import (
	"io"
	"log"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/osbuild/cuda-dockerfiles/pkg/catalog"
	"github.com/osbuild/cuda-dockerfiles/pkg/config"
	"github.com/osbuild/cuda-dockerfiles/pkg/generator"
	"github.com/osbuild/cuda-dockerfiles/pkg/stages"
)

var (
	osStdout io.Writer = os.Stdout
	osStderr io.Writer = os.Stderr

	repositoryURL = stages.DefaultRepositoryURL
)

// newLogger returns the logger for diagnostics. Without verbose
// everything is discarded.
func newLogger(verbose bool) *logrus.Logger {
	logger := logrus.New()
	if !verbose {
		logger.SetOutput(io.Discard)
		return logger
	}
	logger.SetOutput(osStderr)
	logger.SetLevel(logrus.DebugLevel)
	return logger
}

type generateFlags struct {
	os      *choiceValue
	cuda    *choiceValue
	cudnn   *choiceValue
	variant *choiceValue
}

func cmdGenerate(cat *catalog.Catalog, choices generateFlags) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		base, err := cmd.Flags().GetString("base")
		if err != nil {
			return err
		}
		user, err := cmd.Flags().GetString("user")
		if err != nil {
			return err
		}
		output, err := cmd.Flags().GetString("output")
		if err != nil {
			return err
		}
		verbose, err := cmd.Flags().GetBool("verbose")
		if err != nil {
			return err
		}

		conf := config.Config{
			OS:      choices.os.String(),
			CUDA:    choices.cuda.String(),
			CuDNN:   choices.cudnn.String(),
			Variant: config.Variant(choices.variant.String()),
			Base:    base,
			User:    user,
			Output:  output,
			Verbose: verbose,
		}

		gen := &generator.Generator{
			Catalog:  cat,
			Resolver: stages.Resolver{RepositoryURL: repositoryURL},
			Logger:   newLogger(conf.Verbose),
		}
		return gen.Generate(cmd.Context(), conf)
	}
}

func cmdList(cat *catalog.Catalog) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		filter, err := cmd.Flags().GetStringArray("filter")
		if err != nil {
			return err
		}
		format, err := cmd.Flags().GetString("format")
		if err != nil {
			return err
		}

		return listImages(osStdout, cat, format, filter)
	}
}

func run() error {
	cat, err := catalog.Default()
	if err != nil {
		return err
	}

	choices := generateFlags{
		os:      newChoiceValue("", cat.SystemIDs()),
		cuda:    newChoiceValue("", cat.CUDAVersions()),
		cudnn:   newChoiceValue(catalog.CuDNNNone, cat.CuDNNVersions()),
		variant: newChoiceValue(string(config.VariantDevel), config.VariantNames()),
	}

	rootCmd := &cobra.Command{
		Use:   "cuda-dockerfile --os <os> --cuda <version>",
		Short: "Generate a CUDA Dockerfile for the given os, CUDA and cuDNN version",
		Long: `Generate a CUDA Dockerfile for the given os, CUDA and cuDNN version

The Dockerfile is assembled from the official per-stage CUDA Dockerfiles
and written, together with the assets it needs, to the output directory.`,
		Args:          cobra.NoArgs,
		RunE:          cmdGenerate(cat, choices),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(osStdout)
	rootCmd.SetErr(osStderr)
	flags := rootCmd.Flags()
	flags.Var(choices.os, "os", "CUDA distribution")
	flags.Var(choices.cuda, "cuda", "CUDA version")
	flags.Var(choices.cudnn, "cudnn", "cuDNN version")
	flags.Var(choices.variant, "variant", "Image variant")
	flags.String("base", "", "Base Docker image")
	flags.String("user", "", "User and group to use when running the image; specify <user>[:<group>] or <UID>[:<GID>]")
	flags.String("output", config.DefaultOutput, "Path to the output directory")
	flags.Bool("verbose", false, "Log verbosely")
	for _, required := range []string{"os", "cuda"} {
		if err := rootCmd.MarkFlagRequired(required); err != nil {
			return err
		}
	}

	listCmd := &cobra.Command{
		Use:          "list",
		Short:        "List the os/cuda/variant/cudnn combinations that can be generated, use --filter to limit further",
		Args:         cobra.NoArgs,
		RunE:         cmdList(cat),
		SilenceUsage: true,
	}
	listCmd.Flags().StringArray("filter", nil, "Filter combinations by a specific criteria, e.g. os:centos* or cuda:9.0")
	listCmd.Flags().String("format", "", "Output in a specific format (text,short,shell,json,toml)")
	rootCmd.AddCommand(listCmd)

	return rootCmd.Execute()
}

func main() {
	if err := run(); err != nil {
		log.Fatalf("error: %s", err)
	}
}
