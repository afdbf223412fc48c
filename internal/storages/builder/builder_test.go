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

package builder

import (
	"context"
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zessin/relational-to-graph/internal/domains"
	"github.com/zessin/relational-to-graph/internal/storages/directory"
)

func TestGetStorage_Directory(t *testing.T) {
	cfg := domains.NewDefaultConfig()
	cfg.Storage.Directory.Path = path.Join(t.TempDir(), "graphs")

	st, err := GetStorage(context.Background(), &cfg.Storage, &cfg.Log)
	require.NoError(t, err)
	assert.IsType(t, &directory.Storage{}, st)
	assert.Equal(t, cfg.Storage.Directory.Path, st.GetCwd())
}

func TestGetStorage_Unknown(t *testing.T) {
	cfg := domains.NewDefaultConfig()
	cfg.Storage.Type = "ftp"

	_, err := GetStorage(context.Background(), &cfg.Storage, &cfg.Log)
	require.ErrorContains(t, err, "unknown storage type")
}

func TestGetStorage_S3RequiresBucket(t *testing.T) {
	cfg := domains.NewDefaultConfig()
	cfg.Storage.Type = domains.StorageTypeS3

	_, err := GetStorage(context.Background(), &cfg.Storage, &cfg.Log)
	require.ErrorContains(t, err, "bucket")
}
