// Copyright 2023 Greenmask
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package graphviz

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/zessin/relational-to-graph/internal/utils/cmd_runner"
)

const (
	DefaultDotPath = "dot"
	DefaultLayout  = "dot"
)

var ErrRendererFailure = errors.New("renderer failure")

// Renderer - turns the graph description into an image of the requested format
type Renderer interface {
	Render(ctx context.Context, source string, format Format) ([]byte, error)
}

type DotRendererConfig struct {
	DotPath string
	Layout  string
	Dpi     int
	TmpDir  string
}

// DotRenderer - renders the source by running the graphviz dot executable
type DotRenderer struct {
	dotPath string
	layout  string
	tmpDir  string
	dpi     *Dpi
}

func NewDotRenderer(cfg *DotRendererConfig) *DotRenderer {
	r := &DotRenderer{
		dotPath: cfg.DotPath,
		layout:  cfg.Layout,
		tmpDir:  cfg.TmpDir,
		dpi:     DefaultDpi(),
	}
	if r.dotPath == "" {
		r.dotPath = DefaultDotPath
	}
	if r.layout == "" {
		r.layout = DefaultLayout
	}
	if cfg.Dpi > 0 {
		r.dpi = NearestDpi(cfg.Dpi)
	}
	return r
}

func (r *DotRenderer) Dpi() *Dpi {
	return r.dpi
}

// Args - returns the dot arguments for the provided source and image paths
func (r *DotRenderer) Args(format Format, sourcePath, imagePath string) []string {
	return []string{
		"-T" + string(format),
		"-K" + r.layout,
		fmt.Sprintf("-Gdpi=%d", r.dpi.Value()),
		sourcePath,
		"-o", imagePath,
	}
}

func (r *DotRenderer) Render(ctx context.Context, source string, format Format) ([]byte, error) {
	if err := format.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRendererFailure, err)
	}

	sourcePath, err := r.writeTempFile("graph_*.dot.tmp", []byte(source))
	if err != nil {
		return nil, fmt.Errorf("%w: cannot write dot source: %w", ErrRendererFailure, err)
	}
	defer r.remove(sourcePath)

	imagePath, err := r.writeTempFile("graph_*."+format.Extension(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot create image file: %w", ErrRendererFailure, err)
	}
	defer r.remove(imagePath)

	if err = cmd_runner.Run(ctx, &log.Logger, r.dotPath, r.Args(format, sourcePath, imagePath)...); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRendererFailure, err)
	}

	img, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot read rendered image: %w", ErrRendererFailure, err)
	}
	if len(img) == 0 {
		return nil, fmt.Errorf("%w: %s produced an empty image", ErrRendererFailure, r.dotPath)
	}
	return img, nil
}

func (r *DotRenderer) writeTempFile(pattern string, data []byte) (string, error) {
	f, err := os.CreateTemp(r.tmpDir, pattern)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err = f.Write(data); err != nil {
		r.remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

func (r *DotRenderer) remove(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Str("Path", path).Msg("temp file could not be deleted")
	}
}
