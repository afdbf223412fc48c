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

package config

import (
	"testing"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zessin/relational-to-graph/internal/graphviz"
)

type testConfig struct {
	Timeout time.Duration   `mapstructure:"timeout"`
	Format  graphviz.Format `mapstructure:"format"`
	Tables  []string        `mapstructure:"tables"`
}

func decode(t *testing.T, input map[string]any) (*testConfig, error) {
	t.Helper()
	res := &testConfig{}
	decoderCfg := &mapstructure.DecoderConfig{Result: res}
	DecoderConfig(decoderCfg)
	decoder, err := mapstructure.NewDecoder(decoderCfg)
	require.NoError(t, err)
	return res, decoder.Decode(input)
}

func TestDecoderConfig(t *testing.T) {
	res, err := decode(t, map[string]any{
		"timeout": "1d2h",
		"format":  "PNG",
		"tables":  "a,b",
	})
	require.NoError(t, err)
	assert.Equal(t, 26*time.Hour, res.Timeout)
	assert.Equal(t, graphviz.FormatPng, res.Format)
	assert.Equal(t, []string{"a", "b"}, res.Tables)
}

func TestDecoderConfig_Defaults(t *testing.T) {
	res, err := decode(t, map[string]any{"timeout": "", "format": ""})
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), res.Timeout)
	assert.Equal(t, graphviz.DefaultFormat, res.Format)
}

func TestDecoderConfig_Errors(t *testing.T) {
	_, err := decode(t, map[string]any{"timeout": "ten seconds"})
	require.ErrorContains(t, err, "cannot parse duration")

	_, err = decode(t, map[string]any{"format": "bmp"})
	require.ErrorContains(t, err, "unsupported output format")
}
