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

package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Json(t *testing.T) {
	buf := &bytes.Buffer{}
	l, err := New(buf, "info", LogFormatJsonValue)
	require.NoError(t, err)

	l.Debug().Msg("hidden")
	l.Info().Str("Schema", "public").Msg("loading")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "info", record["level"])
	assert.Equal(t, "public", record["Schema"])
	assert.Equal(t, "loading", record["message"])
}

func TestNew_DebugAddsCaller(t *testing.T) {
	buf := &bytes.Buffer{}
	l, err := New(buf, "debug", LogFormatJsonValue)
	require.NoError(t, err)

	l.Debug().Msg("visible")
	assert.Contains(t, buf.String(), `"caller"`)
	assert.Contains(t, buf.String(), `"pid"`)
}

func TestNew_Text(t *testing.T) {
	buf := &bytes.Buffer{}
	l, err := New(buf, "warn", LogFormatTextValue)
	require.NoError(t, err)

	l.Info().Msg("hidden")
	l.Warn().Msg("temp file could not be deleted")
	assert.Contains(t, buf.String(), "temp file could not be deleted")
	assert.NotContains(t, buf.String(), "hidden")
}

func TestNew_Errors(t *testing.T) {
	_, err := New(&bytes.Buffer{}, "trace", LogFormatTextValue)
	require.ErrorContains(t, err, "unknown log level")

	_, err = New(&bytes.Buffer{}, "info", "xml")
	require.ErrorContains(t, err, "unknown log format")
}
