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

package generate

import (
	"context"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zessin/relational-to-graph/internal/db"
	"github.com/zessin/relational-to-graph/internal/domains"
	"github.com/zessin/relational-to-graph/internal/graphviz"
	"github.com/zessin/relational-to-graph/internal/rtg"
	"github.com/zessin/relational-to-graph/internal/storages"
	"github.com/zessin/relational-to-graph/internal/storages/builder"
	"github.com/zessin/relational-to-graph/internal/utils/logger"
)

var (
	Cmd = &cobra.Command{
		Use:   "generate",
		Short: "build the graph of a schema, render it and store the image in storage",
		Run: func(cmd *cobra.Command, args []string) {
			if err := logger.SetLogLevel(Config.Log.Level, Config.Log.Format); err != nil {
				log.Fatal().Err(err).Msg("")
			}

			if cmd.Flags().Changed("undirected") {
				Config.Render.Directed = !undirected
			}

			if err := Config.Validate(); err != nil {
				log.Fatal().Err(err).Msg("")
			}

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			var st storages.Storager
			if !Config.Render.SourceOnly {
				var err error
				st, err = builder.GetStorage(ctx, &Config.Storage, &Config.Log)
				if err != nil {
					log.Fatal().Err(err).Msg("fatal")
				}
			}

			source, err := db.NewSource(ctx, &Config.Database)
			if err != nil {
				log.Fatal().Err(err).Str("DatabaseType", Config.Database.Type).Msg("cannot connect to database")
			}

			renderer := graphviz.NewDotRenderer(&graphviz.DotRendererConfig{
				DotPath: Config.Render.DotPath,
				Layout:  Config.Render.Layout,
				Dpi:     Config.Render.Dpi,
				TmpDir:  Config.Render.TmpDir,
			})

			g := rtg.NewGenerate(Config, source, renderer, st, os.Stdout)
			runErr := g.Run(ctx)
			if err := source.Close(ctx); err != nil {
				log.Warn().Err(err).Msg("cannot close database source")
			}
			if runErr != nil {
				log.Fatal().Err(runErr).Str("RunId", g.RunId().String()).Msg("cannot generate graph")
			}
			if !Config.Render.SourceOnly {
				log.Info().
					Str("RunId", g.RunId().String()).
					Strs("Objects", g.Stored()).
					Msg("graph generated")
			}
		},
	}
	Config     = domains.NewConfig()
	undirected bool
)

func init() {
	Cmd.Flags().StringP("schema", "s", Config.Database.Schema, "schema to build the graph from")
	Cmd.Flags().StringP("dsn", "", "", "database connection string")
	Cmd.Flags().StringP(
		"db-type", "", Config.Database.Type,
		"database type [postgresql|mysql]",
	)
	Cmd.Flags().StringP(
		"format", "f", string(Config.Render.Format),
		"image format [svg|png|jpg|gif|pdf|ps]",
	)
	Cmd.Flags().StringP("output", "o", Config.Output.FileName, "name of the stored objects without extension")
	Cmd.Flags().BoolP("source-only", "", false, "print the DOT description to stdout without rendering")
	Cmd.Flags().BoolVarP(&undirected, "undirected", "", false, "build an undirected graph")

	for flagName, key := range map[string]string{
		"schema":      "database.schema",
		"dsn":         "database.dsn",
		"db-type":     "database.type",
		"format":      "render.format",
		"output":      "output.file_name",
		"source-only": "render.source_only",
	} {
		flag := Cmd.Flags().Lookup(flagName)
		if err := viper.BindPFlag(key, flag); err != nil {
			log.Fatal().Err(err).Msg("")
		}
	}
}
