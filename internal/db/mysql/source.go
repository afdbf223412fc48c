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

package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/zessin/relational-to-graph/internal/domains"
	"github.com/zessin/relational-to-graph/internal/schema"
)

const driverName = "mysql"

// Source - schema.RowSource reading the MySQL information_schema. A schema is a MySQL database
type Source struct {
	db      *sql.DB
	tx      *sql.Tx
	queries *queries
}

func NewSource(ctx context.Context, cfg *domains.DatabaseConfig) (*Source, error) {
	db, err := sql.Open(driverName, GetMysqlDSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("cannot open the database: %w", err)
	}

	pingCtx := ctx
	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}
	if err = db.PingContext(pingCtx); err != nil {
		closeDB(db)
		return nil, fmt.Errorf("cannot ping the database: %w", err)
	}

	q := newInformationSchemaQueries()
	if cfg.UseCustomViews() {
		q = newViewQueries(cfg.Schema, cfg.TablesView, cfg.ColumnsView, cfg.ConstraintsView)
	}
	src, err := newSource(ctx, db, q)
	if err != nil {
		closeDB(db)
		return nil, err
	}
	return src, nil
}

func newSource(ctx context.Context, db *sql.DB, q *queries) (*Source, error) {
	tx, err := db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("cannot start transaction: %w", err)
	}
	return &Source{
		db:      db,
		tx:      tx,
		queries: q,
	}, nil
}

func (s *Source) Tables(ctx context.Context, schemaName string) ([]schema.TableRow, error) {
	names, err := s.queryNames(ctx, s.queries.tables, schemaName)
	if err != nil {
		return nil, fmt.Errorf("cannot query tables: %w", err)
	}
	res := make([]schema.TableRow, 0, len(names))
	for _, n := range names {
		res = append(res, schema.TableRow{Name: n})
	}
	return res, nil
}

func (s *Source) Columns(ctx context.Context, schemaName, table string) ([]schema.ColumnRow, error) {
	names, err := s.queryNames(ctx, s.queries.columns, schemaName, table)
	if err != nil {
		return nil, fmt.Errorf("cannot query columns: %w", err)
	}
	res := make([]schema.ColumnRow, 0, len(names))
	for _, n := range names {
		res = append(res, schema.ColumnRow{Name: n})
	}
	return res, nil
}

func (s *Source) Constraints(ctx context.Context, schemaName, table string) ([]schema.ConstraintRow, error) {
	rows, err := s.tx.QueryContext(ctx, s.queries.constraints, schemaName, table)
	if err != nil {
		return nil, fmt.Errorf("cannot query constraints: %w", err)
	}
	defer rows.Close()

	var res []schema.ConstraintRow
	for rows.Next() {
		var (
			row                         schema.ConstraintRow
			refTableName, refColumnName sql.NullString
		)
		if err = rows.Scan(&row.Name, &row.Type, &row.ColumnName, &refTableName, &refColumnName); err != nil {
			return nil, fmt.Errorf("cannot scan constraint row: %w", err)
		}
		if refTableName.Valid {
			row.ReferencedTableName = &refTableName.String
		}
		if refColumnName.Valid {
			row.ReferencedColumnName = &refColumnName.String
		}
		res = append(res, row)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("cannot query constraints: %w", err)
	}
	return res, nil
}

func (s *Source) RelationshipTables(ctx context.Context, schemaName string) ([]string, error) {
	names, err := s.queryNames(ctx, s.queries.relationshipTables, schemaName)
	if err != nil {
		return nil, fmt.Errorf("cannot query relationship tables: %w", err)
	}
	return names, nil
}

// Close - finishes the snapshot transaction and closes the connection pool
func (s *Source) Close(ctx context.Context) error {
	if err := s.tx.Rollback(); err != nil {
		log.Warn().Err(err).Msg("cannot rollback transaction")
	}
	return s.db.Close()
}

func (s *Source) queryNames(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := s.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err = rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

func closeDB(db *sql.DB) {
	if err := db.Close(); err != nil {
		log.Warn().Err(err).Msg("error closing connection")
	}
}
