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
	"fmt"
	"strings"

	"github.com/zessin/relational-to-graph/internal/domains"
)

const pgDefaultPort = 5432

// GetPgDSN - returns the configured DSN as is or builds the keyword/value connection string from the separate
// connection settings
func GetPgDSN(cfg *domains.DatabaseConfig) string {
	if cfg.Dsn != "" {
		return cfg.Dsn
	}

	var parts []string
	if cfg.Host != "" {
		parts = append(parts, fmt.Sprintf("host=%s", quoteDsnValue(cfg.Host)))
	}
	if cfg.Port != 0 && cfg.Port != pgDefaultPort {
		parts = append(parts, fmt.Sprintf("port=%d", cfg.Port))
	}
	if cfg.User != "" {
		parts = append(parts, fmt.Sprintf("user=%s", quoteDsnValue(cfg.User)))
	}
	if cfg.Password != "" {
		parts = append(parts, fmt.Sprintf("password=%s", quoteDsnValue(cfg.Password)))
	}
	if cfg.DbName != "" {
		parts = append(parts, fmt.Sprintf("dbname=%s", quoteDsnValue(cfg.DbName)))
	}
	if seconds := int(cfg.ConnectTimeout.Seconds()); seconds > 0 {
		parts = append(parts, fmt.Sprintf("connect_timeout=%d", seconds))
	}
	return strings.Join(parts, " ")
}

func quoteDsnValue(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}
