// package output writes the generated Dockerfile and its assets
package output

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/ini.v1"

	"github.com/osbuild/cuda-dockerfiles/pkg/dockerfile"
	"github.com/osbuild/cuda-dockerfiles/pkg/remotefile"
)

const DockerfileName = "Dockerfile"

// Writer writes into an existing directory, existing files are
// overwritten.
type Writer struct {
	Dir    string
	Logger logrus.FieldLogger
}

func (w *Writer) logger() logrus.FieldLogger {
	if w.Logger == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		return discard
	}
	return w.Logger
}

// AssetName returns the file name an asset is stored under: the last
// segment of its URL path.
func AssetName(u string) (string, error) {
	parsed, err := url.Parse(u)
	if err != nil {
		return "", fmt.Errorf("invalid asset url %s: %w", u, err)
	}
	name := path.Base(parsed.Path)
	if name == "/" || name == "." || name == "" {
		return "", fmt.Errorf("asset url %s has no file name", u)
	}
	return name, nil
}

func (w *Writer) writeFile(name string, content []byte) error {
	target := filepath.Join(w.Dir, name)
	w.logger().Infof("Writing: %s", target)
	if err := os.WriteFile(target, content, 0644); err != nil {
		return fmt.Errorf("cannot write %s: %w", target, err)
	}
	return nil
}

// WriteDockerfile writes the Dockerfile text
func (w *Writer) WriteDockerfile(text string) error {
	target := filepath.Join(w.Dir, DockerfileName)
	w.logger().Infof("Writing: %s", target)
	f, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("cannot write %s: %w", target, err)
	}
	d, err := dockerfile.Write(f, text)
	if err != nil {
		f.Close()
		return fmt.Errorf("cannot write %s: %w", target, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("cannot write %s: %w", target, err)
	}
	w.logger().WithField("digest", d.String()).Debugf("Wrote %s", target)
	return nil
}

// WriteAssets writes every asset verbatim under its AssetName
func (w *Writer) WriteAssets(assets []remotefile.Spec) error {
	for _, asset := range assets {
		name, err := AssetName(asset.URL)
		if err != nil {
			return err
		}
		if strings.HasSuffix(name, ".repo") {
			w.describeRepoFile(name, asset.Content)
		}
		if err := w.writeFile(name, asset.Content); err != nil {
			return err
		}
	}
	return nil
}

// RepoIDs returns the repository ids defined in a yum/dnf .repo file
func RepoIDs(content []byte) ([]string, error) {
	cfg, err := ini.Load(content)
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, section := range cfg.Sections() {
		if section.Name() == ini.DefaultSection {
			continue
		}
		ids = append(ids, section.Name())
	}
	return ids, nil
}

func (w *Writer) describeRepoFile(name string, content []byte) {
	ids, err := RepoIDs(content)
	if err != nil {
		w.logger().Warnf("Cannot parse repository file %s: %v", name, err)
		return
	}
	for _, id := range ids {
		w.logger().Debugf("Repository %q defined in %s", id, name)
	}
}
