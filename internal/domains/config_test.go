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

package domains

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zessin/relational-to-graph/internal/graphviz"
)

func TestNewConfig_Singleton(t *testing.T) {
	assert.Same(t, NewConfig(), NewConfig())
}

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DatabaseTypePostgresql, cfg.Database.Type)
	assert.Equal(t, "public", cfg.Database.Schema)
	assert.Equal(t, graphviz.FormatSvg, cfg.Render.Format)
	assert.Equal(t, 70, cfg.Render.Dpi)
	assert.True(t, cfg.Render.Directed)
	assert.True(t, cfg.Render.KeepSource)
	assert.Equal(t, "graph", cfg.Output.FileName)
	assert.Equal(t, StorageTypeDirectory, cfg.Storage.Type)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name     string
		modify   func(cfg *Config)
		expected string
	}{
		{
			name:     "oracle",
			modify:   func(cfg *Config) { cfg.Database.Type = DatabaseTypeOracle },
			expected: "is not supported",
		},
		{
			name:     "unknown database",
			modify:   func(cfg *Config) { cfg.Database.Type = "sqlite" },
			expected: "unknown database type",
		},
		{
			name:     "empty schema",
			modify:   func(cfg *Config) { cfg.Database.Schema = "" },
			expected: "schema cannot be empty",
		},
		{
			name:     "partial custom views",
			modify:   func(cfg *Config) { cfg.Database.TablesView = "rtg_tables" },
			expected: "must be set together",
		},
		{
			name:     "format",
			modify:   func(cfg *Config) { cfg.Render.Format = "bmp" },
			expected: "unsupported output format",
		},
		{
			name:     "file name",
			modify:   func(cfg *Config) { cfg.Output.FileName = "" },
			expected: "file_name cannot be empty",
		},
		{
			name:     "storage type",
			modify:   func(cfg *Config) { cfg.Storage.Type = "ftp" },
			expected: "unknown storage type",
		},
		{
			name:     "s3 without bucket",
			modify:   func(cfg *Config) { cfg.Storage.Type = StorageTypeS3 },
			expected: "bucket cannot be empty",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			require.ErrorIs(t, err, ErrInvalidConfig)
			require.ErrorContains(t, err, tt.expected)
		})
	}
}

func TestConfig_Validate_SourceOnlySkipsStorage(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Storage.Type = "ftp"
	cfg.Render.SourceOnly = true
	require.NoError(t, cfg.Validate())
}
