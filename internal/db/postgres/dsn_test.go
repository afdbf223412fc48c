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

package postgres

import (
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zessin/relational-to-graph/internal/domains"
)

func TestGetPgDSN(t *testing.T) {
	t.Run("dsn has priority", func(t *testing.T) {
		cfg := &domains.DatabaseConfig{Dsn: "postgresql://rtg@localhost/shop", Host: "db"}
		assert.Equal(t, "postgresql://rtg@localhost/shop", GetPgDSN(cfg))
	})

	t.Run("keyword value", func(t *testing.T) {
		cfg := &domains.DatabaseConfig{
			Host:           "db",
			Port:           5433,
			User:           "rtg",
			Password:       "it's secret",
			DbName:         "shop",
			ConnectTimeout: 10 * time.Second,
		}
		assert.Equal(
			t,
			`host=db port=5433 user=rtg password='it\'s secret' dbname=shop connect_timeout=10`,
			GetPgDSN(cfg),
		)
	})

	t.Run("default port is omitted", func(t *testing.T) {
		cfg := &domains.DatabaseConfig{Host: "db", Port: pgDefaultPort}
		assert.Equal(t, "host=db", GetPgDSN(cfg))
	})
}

func TestNewViewQueries(t *testing.T) {
	q := newViewQueries("sales", "rtg_tables", "rtg_columns", `odd"view`)
	assert.Contains(t, q.tables, `FROM "sales"."rtg_tables"`)
	assert.Contains(t, q.columns, `FROM "sales"."rtg_columns"`)
	assert.Contains(t, q.constraints, `FROM "sales"."odd""view"`)
	assert.Contains(t, q.relationshipTables, `FROM "sales"."odd""view" c1`)
	assert.Contains(t, q.relationshipTables, `FROM "sales"."odd""view" c2`)
}

func TestWrapPgError(t *testing.T) {
	pgErr := &pgconn.PgError{Message: "relation \"rtg_tables\" does not exist", Code: "42P01"}
	err := wrapPgError(pgErr)

	var wrapped *PgError
	require.True(t, errors.As(err, &wrapped))
	assert.Equal(t, `relation "rtg_tables" does not exist (code 42P01)`, err.Error())
	assert.ErrorIs(t, err, pgErr)

	plain := errors.New("conn closed")
	assert.Equal(t, plain, wrapPgError(plain))
}
