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

package rtg

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/zessin/relational-to-graph/internal/domains"
	"github.com/zessin/relational-to-graph/internal/graph"
	"github.com/zessin/relational-to-graph/internal/graphviz"
	"github.com/zessin/relational-to-graph/internal/schema"
	"github.com/zessin/relational-to-graph/internal/storages"
	"github.com/zessin/relational-to-graph/internal/utils/ioutils"
)

const (
	dotSourceExtension           = "dot"
	compressedDotSourceExtension = "dot.gz"
)

type object struct {
	name string
	data []byte
}

// Generate - loads the catalog of one schema, builds the graph and stores the rendered image together with its
// DOT description
type Generate struct {
	runId    uuid.UUID
	config   *domains.Config
	source   schema.RowSource
	renderer graphviz.Renderer
	st       storages.Storager
	// out receives the description when the rendering is disabled
	out io.Writer
	// stored - the objects put into the storage by the last run
	stored []string
}

func NewGenerate(
	cfg *domains.Config, source schema.RowSource, renderer graphviz.Renderer, st storages.Storager, out io.Writer,
) *Generate {
	return &Generate{
		runId:    uuid.New(),
		config:   cfg,
		source:   source,
		renderer: renderer,
		st:       st,
		out:      out,
	}
}

func (g *Generate) RunId() uuid.UUID {
	return g.runId
}

// Stored - returns the object names put into the storage by Run
func (g *Generate) Stored() []string {
	return g.stored
}

func (g *Generate) Run(ctx context.Context) error {
	logger := log.With().Str("RunId", g.runId.String()).Logger()

	logger.Info().Str("Stage", "load").Str("Schema", g.config.Database.Schema).Msg("loading metadata")
	s, err := schema.NewLoader(g.source, g.config.Database.Schema).Load(ctx)
	if err != nil {
		return fmt.Errorf("cannot load metadata: %w", err)
	}

	logger.Info().Str("Stage", "build").Msg("building graph")
	gr, err := graph.FromSchema(s, g.config.Render.Directed)
	if err != nil {
		return fmt.Errorf("cannot build graph: %w", err)
	}

	logger.Info().Str("Stage", "generate").Msg("generating graph description")
	dot := graphviz.NewGenerator(&graphviz.Options{
		NodeSep:   g.config.Render.NodeSep,
		NodeStyle: g.config.Render.NodeStyle,
	}).Generate(gr)

	if g.config.Render.SourceOnly {
		if _, err = io.WriteString(g.out, dot); err != nil {
			return fmt.Errorf("cannot write graph description: %w", err)
		}
		return nil
	}

	format := g.config.Render.Format
	imageName := g.objectName(format.Extension())
	target := path.Join(g.st.GetCwd(), imageName)
	logger.Info().Str("Stage", "render").Str("Format", string(format)).Str("Target", target).Msg("rendering graph")
	img, err := g.renderer.Render(ctx, dot, format)
	if err != nil {
		return fmt.Errorf("cannot render graph into %s: %w", target, err)
	}

	objects := []object{{name: imageName, data: img}}
	if g.config.Render.KeepSource {
		srcObject, err := g.sourceObject(dot)
		if err != nil {
			return err
		}
		objects = append(objects, srcObject)
	}

	logger.Info().Str("Stage", "store").Str("Storage", g.st.GetCwd()).Msg("storing graph")
	return g.store(ctx, objects)
}

func (g *Generate) objectName(extension string) string {
	return fmt.Sprintf("%s.%s", g.config.Output.FileName, extension)
}

func (g *Generate) sourceObject(dot string) (object, error) {
	if !g.config.Render.CompressSource {
		return object{name: g.objectName(dotSourceExtension), data: []byte(dot)}, nil
	}
	data, err := ioutils.Gzip([]byte(dot), true)
	if err != nil {
		return object{}, fmt.Errorf("cannot compress graph description: %w", err)
	}
	return object{name: g.objectName(compressedDotSourceExtension), data: data}, nil
}

// store - puts the objects concurrently. When any of them fails the already stored ones are deleted
func (g *Generate) store(ctx context.Context, objects []object) error {
	var (
		mx     sync.Mutex
		stored []string
	)
	eg, gtx := errgroup.WithContext(ctx)
	for _, obj := range objects {
		eg.Go(func() error {
			r := ioutils.NewCountReader(bytes.NewReader(obj.data))
			if err := g.st.PutObject(gtx, obj.name, r); err != nil {
				return fmt.Errorf("cannot store %s: %w", obj.name, err)
			}
			log.Debug().
				Str("RunId", g.runId.String()).
				Str("Object", obj.name).
				Int64("Size", r.GetCount()).
				Msg("object stored")
			mx.Lock()
			stored = append(stored, obj.name)
			mx.Unlock()
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		if len(stored) > 0 {
			if delErr := g.st.Delete(ctx, stored...); delErr != nil {
				log.Warn().Err(delErr).Strs("Objects", stored).Msg("cannot delete partially stored graph")
			}
		}
		return err
	}

	g.stored = make([]string, 0, len(objects))
	for _, obj := range objects {
		g.stored = append(g.stored, obj.name)
	}
	log.Info().
		Str("RunId", g.runId.String()).
		Strs("Objects", g.stored).
		Msg("graph stored")
	return nil
}
