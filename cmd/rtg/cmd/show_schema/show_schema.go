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

package show_schema

import (
	"context"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/zessin/relational-to-graph/internal/db"
	"github.com/zessin/relational-to-graph/internal/domains"
	"github.com/zessin/relational-to-graph/internal/rtg"
	"github.com/zessin/relational-to-graph/internal/utils/logger"
)

var (
	Config = domains.NewConfig()
	format string
)

var (
	Cmd = &cobra.Command{
		Use:   "show-schema",
		Short: "shows the tables, columns and constraints read from the schema catalog",
		Run: func(cmd *cobra.Command, args []string) {
			if err := logger.SetLogLevel(Config.Log.Level, Config.Log.Format); err != nil {
				log.Fatal().Err(err).Msg("error setting up logger")
			}

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			source, err := db.NewSource(ctx, &Config.Database)
			if err != nil {
				log.Fatal().Err(err).Msg("cannot connect to database")
			}
			defer func() {
				if err := source.Close(ctx); err != nil {
					log.Warn().Err(err).Msg("cannot close database source")
				}
			}()

			if err = rtg.ShowSchema(ctx, source, Config.Database.Schema, format, os.Stdout); err != nil {
				log.Fatal().Err(err).Msg("")
			}
		},
	}
)

func init() {
	Cmd.Flags().StringVarP(&format, "format", "f", rtg.FormatText, "output format [text|yaml|json]")
}
