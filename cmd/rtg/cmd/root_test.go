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

package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetConfigState(t *testing.T) {
	origCfgFile := cfgFile
	t.Cleanup(func() {
		cfgFile = origCfgFile
		viper.Reset()
	})
	viper.Reset()
}

func writeConfig(t *testing.T, path, content string) {
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

// TestExplicitConfigFile checks that an explicitly provided config file takes precedence over the default one
func TestExplicitConfigFile(t *testing.T) {
	resetConfigState(t)
	tempDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tempDir)

	explicitConfigPath := filepath.Join(tempDir, "explicit.yml")
	writeConfig(t, explicitConfigPath, `
log:
  level: info
database:
  schema: shop
`)
	writeConfig(t, filepath.Join(tempDir, defaultConfigDirName, defaultConfigFileName), `
log:
  level: debug
`)

	cfgFile = explicitConfigPath
	initConfig()

	assert.Equal(t, "info", viper.GetString("log.level"))
	assert.Equal(t, explicitConfigPath, cfgFile)
	assert.Equal(t, "shop", Config.Database.Schema)
}

// TestDefaultConfigFile checks that the config file from the user config directory is used when no config file
// is provided
func TestDefaultConfigFile(t *testing.T) {
	resetConfigState(t)
	tempDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tempDir)

	defaultConfigPath := filepath.Join(tempDir, defaultConfigDirName, defaultConfigFileName)
	writeConfig(t, defaultConfigPath, `
log:
  level: debug
render:
  format: png
  dpi: 300
`)

	cfgFile = ""
	initConfig()

	assert.Equal(t, "debug", viper.GetString("log.level"))
	assert.Equal(t, defaultConfigPath, cfgFile)
	assert.Equal(t, "png", string(Config.Render.Format))
	assert.Equal(t, 300, Config.Render.Dpi)
}

// TestNoConfigFile checks that the config file path stays empty when there is no default config file
func TestNoConfigFile(t *testing.T) {
	resetConfigState(t)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfgFile = ""
	initConfig()

	assert.Equal(t, "", cfgFile)
}

// TestEnvOverride checks that environment variables override the config file values
func TestEnvOverride(t *testing.T) {
	resetConfigState(t)
	tempDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tempDir)
	t.Setenv("DATABASE_CONNECT_TIMEOUT", "1m30s")

	configPath := filepath.Join(tempDir, "config.yml")
	writeConfig(t, configPath, `
database:
  connect_timeout: 5s
`)

	cfgFile = configPath
	initConfig()

	assert.Equal(t, "1m30s", viper.GetString("database.connect_timeout"))
	assert.Equal(t, 90.0, Config.Database.ConnectTimeout.Seconds())
}
