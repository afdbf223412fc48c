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
	"fmt"
	"net"
	"strconv"
	"strings"

	mysqldriver "github.com/go-sql-driver/mysql"

	"github.com/zessin/relational-to-graph/internal/domains"
)

const (
	mysqlDefaultHost = "127.0.0.1"
	mysqlDefaultPort = 3306
)

var (
	tablesQuery = `
		SELECT t.TABLE_NAME
		FROM information_schema.TABLES t
		WHERE t.TABLE_SCHEMA = ?
		  AND t.TABLE_TYPE = 'BASE TABLE'
		ORDER BY t.TABLE_NAME
	`

	columnsQuery = `
		SELECT c.COLUMN_NAME
		FROM information_schema.COLUMNS c
		WHERE c.TABLE_SCHEMA = ?
		  AND c.TABLE_NAME = ?
		ORDER BY c.ORDINAL_POSITION
	`

	constraintsQuery = `
		SELECT tc.CONSTRAINT_NAME,
		       REPLACE(tc.CONSTRAINT_TYPE, ' ', '_') AS CONSTRAINT_TYPE,
		       kcu.COLUMN_NAME,
		       kcu.REFERENCED_TABLE_NAME,
		       kcu.REFERENCED_COLUMN_NAME
		FROM information_schema.TABLE_CONSTRAINTS tc
		         JOIN information_schema.KEY_COLUMN_USAGE kcu
		              ON kcu.CONSTRAINT_SCHEMA = tc.CONSTRAINT_SCHEMA
		                  AND kcu.CONSTRAINT_NAME = tc.CONSTRAINT_NAME
		                  AND kcu.TABLE_NAME = tc.TABLE_NAME
		WHERE tc.TABLE_SCHEMA = ?
		  AND tc.TABLE_NAME = ?
		  AND tc.CONSTRAINT_TYPE IN ('PRIMARY KEY', 'FOREIGN KEY', 'UNIQUE')
		ORDER BY CONSTRAINT_TYPE, tc.CONSTRAINT_NAME, kcu.ORDINAL_POSITION
	`

	relationshipTablesQuery = `
		SELECT pk.TABLE_NAME
		FROM information_schema.KEY_COLUMN_USAGE pk
		WHERE pk.CONSTRAINT_NAME = 'PRIMARY'
		  AND pk.TABLE_SCHEMA = ?
		  AND EXISTS (SELECT 1
		              FROM information_schema.KEY_COLUMN_USAGE fk
		              WHERE fk.REFERENCED_TABLE_NAME IS NOT NULL
		                AND fk.TABLE_SCHEMA = pk.TABLE_SCHEMA
		                AND fk.TABLE_NAME = pk.TABLE_NAME
		                AND fk.COLUMN_NAME = pk.COLUMN_NAME)
		GROUP BY pk.TABLE_NAME
		HAVING COUNT(*) = 2
		ORDER BY pk.TABLE_NAME
	`
)

var (
	viewTablesQueryTemplate = `
		SELECT table_name
		FROM %s
		WHERE UPPER(table_schema) = UPPER(?)
		ORDER BY table_name
	`

	viewColumnsQueryTemplate = `
		SELECT column_name
		FROM %s
		WHERE UPPER(table_schema) = UPPER(?)
		  AND UPPER(table_name) = UPPER(?)
		ORDER BY table_name
	`

	viewConstraintsQueryTemplate = `
		SELECT constraint_name,
		       constraint_type,
		       column_name,
		       referenced_table_name,
		       referenced_column_name
		FROM %s
		WHERE UPPER(table_schema) = UPPER(?)
		  AND UPPER(table_name) = UPPER(?)
		ORDER BY table_name, constraint_type, constraint_name
	`

	viewRelationshipTablesQueryTemplate = `
		SELECT c1.table_name
		FROM %[1]s c1
		WHERE c1.constraint_type = 'PRIMARY_KEY'
		  AND UPPER(c1.table_schema) = UPPER(?)
		  AND EXISTS (SELECT 1
		              FROM %[1]s c2
		              WHERE c2.constraint_type = 'FOREIGN_KEY'
		                AND c2.table_schema = c1.table_schema
		                AND c2.table_name = c1.table_name
		                AND c2.column_name = c1.column_name)
		GROUP BY c1.table_name
		HAVING COUNT(*) = 2
		ORDER BY c1.table_name
	`
)

type queries struct {
	tables             string
	columns            string
	constraints        string
	relationshipTables string
}

func newInformationSchemaQueries() *queries {
	return &queries{
		tables:             tablesQuery,
		columns:            columnsQuery,
		constraints:        constraintsQuery,
		relationshipTables: relationshipTablesQuery,
	}
}

func newViewQueries(schema, tablesView, columnsView, constraintsView string) *queries {
	constraints := quoteIdentifier(schema, constraintsView)
	return &queries{
		tables:             fmt.Sprintf(viewTablesQueryTemplate, quoteIdentifier(schema, tablesView)),
		columns:            fmt.Sprintf(viewColumnsQueryTemplate, quoteIdentifier(schema, columnsView)),
		constraints:        fmt.Sprintf(viewConstraintsQueryTemplate, constraints),
		relationshipTables: fmt.Sprintf(viewRelationshipTablesQueryTemplate, constraints),
	}
}

func quoteIdentifier(parts ...string) string {
	quoted := make([]string, 0, len(parts))
	for _, p := range parts {
		quoted = append(quoted, "`"+strings.ReplaceAll(p, "`", "``")+"`")
	}
	return strings.Join(quoted, ".")
}

// GetMysqlDSN - returns the configured DSN as is or builds it from the separate connection settings
func GetMysqlDSN(cfg *domains.DatabaseConfig) string {
	if cfg.Dsn != "" {
		return cfg.Dsn
	}
	host, port := cfg.Host, cfg.Port
	if host == "" {
		host = mysqlDefaultHost
	}
	if port == 0 {
		port = mysqlDefaultPort
	}

	dc := mysqldriver.NewConfig()
	dc.User = cfg.User
	dc.Passwd = cfg.Password
	dc.Net = "tcp"
	dc.Addr = net.JoinHostPort(host, strconv.Itoa(port))
	dc.DBName = cfg.DbName
	if dc.DBName == "" {
		dc.DBName = cfg.Schema
	}
	dc.Timeout = cfg.ConnectTimeout
	return dc.FormatDSN()
}
