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
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"

	"github.com/zessin/relational-to-graph/internal/domains"
	"github.com/zessin/relational-to-graph/internal/schema"
)

// Source - schema.RowSource reading the PostgreSQL catalog. Every query runs in the same read only repeatable
// read transaction, so all the loading stages observe one snapshot of the catalog
type Source struct {
	conn    *pgx.Conn
	tx      pgx.Tx
	queries *queries
}

// NewSource - connects to the database and opens the snapshot transaction
func NewSource(ctx context.Context, cfg *domains.DatabaseConfig) (*Source, error) {
	connCtx := ctx
	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		connCtx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	conn, err := pgx.Connect(connCtx, GetPgDSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("cannot connect to the database: %w", wrapPgError(err))
	}
	if err = conn.Ping(connCtx); err != nil {
		closeConn(ctx, conn)
		return nil, fmt.Errorf("cannot ping the database: %w", wrapPgError(err))
	}

	q := newInformationSchemaQueries()
	if cfg.UseCustomViews() {
		q = newViewQueries(cfg.Schema, cfg.TablesView, cfg.ColumnsView, cfg.ConstraintsView)
	}

	src, err := newSource(ctx, conn, q)
	if err != nil {
		closeConn(ctx, conn)
		return nil, err
	}
	log.Debug().
		Bool("CustomViews", cfg.UseCustomViews()).
		Msg("postgresql catalog source is ready")
	return src, nil
}

func newSource(ctx context.Context, conn *pgx.Conn, q *queries) (*Source, error) {
	tx, err := conn.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, fmt.Errorf("cannot start transaction: %w", wrapPgError(err))
	}
	return &Source{
		conn:    conn,
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
	rows, err := s.tx.Query(ctx, s.queries.constraints, schemaName, table)
	if err != nil {
		return nil, fmt.Errorf("cannot query constraints: %w", wrapPgError(err))
	}
	defer rows.Close()

	var res []schema.ConstraintRow
	for rows.Next() {
		var row schema.ConstraintRow
		if err = rows.Scan(
			&row.Name, &row.Type, &row.ColumnName, &row.ReferencedTableName, &row.ReferencedColumnName,
		); err != nil {
			return nil, fmt.Errorf("cannot scan constraint row: %w", err)
		}
		res = append(res, row)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("cannot query constraints: %w", wrapPgError(err))
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

// Close - finishes the snapshot transaction and closes the connection
func (s *Source) Close(ctx context.Context) error {
	if err := s.tx.Rollback(ctx); err != nil {
		log.Warn().Err(err).Msg("cannot rollback transaction")
	}
	return s.conn.Close(ctx)
}

func (s *Source) queryNames(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := s.tx.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapPgError(err)
	}
	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, wrapPgError(err)
	}
	return names, nil
}

func closeConn(ctx context.Context, conn *pgx.Conn) {
	if err := conn.Close(ctx); err != nil {
		log.Warn().Err(err).Msg("error closing connection")
	}
}
