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

package db

import (
	"context"
	"fmt"

	"github.com/zessin/relational-to-graph/internal/db/mysql"
	"github.com/zessin/relational-to-graph/internal/db/postgres"
	"github.com/zessin/relational-to-graph/internal/domains"
	"github.com/zessin/relational-to-graph/internal/schema"
)

// Source - catalog row source holding a database connection
type Source interface {
	schema.RowSource
	schema.RelationshipTableSource
	Close(ctx context.Context) error
}

func NewSource(ctx context.Context, cfg *domains.DatabaseConfig) (Source, error) {
	switch cfg.Type {
	case domains.DatabaseTypePostgresql:
		return postgres.NewSource(ctx, cfg)
	case domains.DatabaseTypeMysql:
		return mysql.NewSource(ctx, cfg)
	}
	return nil, fmt.Errorf("database type \"%s\" is not supported", cfg.Type)
}
