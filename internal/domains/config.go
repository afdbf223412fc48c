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

package domains

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/zessin/relational-to-graph/internal/graphviz"
	"github.com/zessin/relational-to-graph/internal/storages/directory"
	"github.com/zessin/relational-to-graph/internal/storages/s3"
)

var (
	Cfg  *Config
	once sync.Once
)

const (
	DatabaseTypePostgresql = "postgresql"
	DatabaseTypeMysql      = "mysql"
	DatabaseTypeOracle     = "oracle"

	StorageTypeDirectory = "directory"
	StorageTypeS3        = "s3"
)

const (
	defaultLogLevel       = "info"
	defaultLogFormat      = "text"
	defaultDatabaseType   = DatabaseTypePostgresql
	defaultSchema         = "public"
	defaultConnectTimeout = 10 * time.Second
	defaultOutputFileName = "graph"
	defaultStorageType    = StorageTypeDirectory
)

var ErrInvalidConfig = errors.New("invalid config")

// NewConfig - returns the process wide config with the defaults applied
func NewConfig() *Config {
	once.Do(
		func() {
			Cfg = NewDefaultConfig()
		},
	)
	return Cfg
}

func NewDefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
		Database: DatabaseConfig{
			Type:           defaultDatabaseType,
			Schema:         defaultSchema,
			ConnectTimeout: defaultConnectTimeout,
		},
		Render: RenderConfig{
			DotPath:    graphviz.DefaultDotPath,
			Format:     graphviz.DefaultFormat,
			Layout:     graphviz.DefaultLayout,
			Dpi:        graphviz.DefaultDpi().Value(),
			NodeSep:    graphviz.DefaultNodeSep,
			NodeStyle:  graphviz.DefaultNodeStyle,
			Directed:   true,
			KeepSource: true,
		},
		Storage: StorageConfig{
			Type:      defaultStorageType,
			S3:        s3.NewConfig(),
			Directory: directory.NewConfig(),
		},
		Output: OutputConfig{
			FileName: defaultOutputFileName,
		},
	}
}

type Config struct {
	Log      LogConfig      `mapstructure:"log" yaml:"log" json:"log"`
	Database DatabaseConfig `mapstructure:"database" yaml:"database" json:"database"`
	Render   RenderConfig   `mapstructure:"render" yaml:"render" json:"render"`
	Storage  StorageConfig  `mapstructure:"storage" yaml:"storage" json:"storage"`
	Output   OutputConfig   `mapstructure:"output" yaml:"output" json:"output"`
}

type LogConfig struct {
	Format string `mapstructure:"format" yaml:"format" json:"format,omitempty"`
	Level  string `mapstructure:"level" yaml:"level" json:"level,omitempty"`
}

type DatabaseConfig struct {
	Type           string        `mapstructure:"type" yaml:"type" json:"type,omitempty"`
	Dsn            string        `mapstructure:"dsn" yaml:"dsn,omitempty" json:"dsn,omitempty"`
	Host           string        `mapstructure:"host" yaml:"host,omitempty" json:"host,omitempty"`
	Port           int           `mapstructure:"port" yaml:"port,omitempty" json:"port,omitempty"`
	User           string        `mapstructure:"user" yaml:"user,omitempty" json:"user,omitempty"`
	Password       string        `mapstructure:"password" yaml:"password,omitempty" json:"-"`
	DbName         string        `mapstructure:"dbname" yaml:"dbname,omitempty" json:"dbname,omitempty"`
	Schema         string        `mapstructure:"schema" yaml:"schema" json:"schema,omitempty"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout" yaml:"connect_timeout" json:"connect_timeout,omitempty"`
	// TablesView, ColumnsView and ConstraintsView switch the catalog queries to user provided views. All
	// three have to be set together
	TablesView      string `mapstructure:"tables_view" yaml:"tables_view,omitempty" json:"tables_view,omitempty"`
	ColumnsView     string `mapstructure:"columns_view" yaml:"columns_view,omitempty" json:"columns_view,omitempty"`
	ConstraintsView string `mapstructure:"constraints_view" yaml:"constraints_view,omitempty" json:"constraints_view,omitempty"`
}

func (dc *DatabaseConfig) UseCustomViews() bool {
	return dc.TablesView != "" || dc.ColumnsView != "" || dc.ConstraintsView != ""
}

type RenderConfig struct {
	DotPath        string          `mapstructure:"dot_path" yaml:"dot_path" json:"dot_path,omitempty"`
	Format         graphviz.Format `mapstructure:"format" yaml:"format" json:"format,omitempty"`
	Layout         string          `mapstructure:"layout" yaml:"layout" json:"layout,omitempty"`
	Dpi            int             `mapstructure:"dpi" yaml:"dpi" json:"dpi,omitempty"`
	NodeSep        int             `mapstructure:"node_sep" yaml:"node_sep" json:"node_sep,omitempty"`
	NodeStyle      string          `mapstructure:"node_style" yaml:"node_style" json:"node_style,omitempty"`
	Directed       bool            `mapstructure:"directed" yaml:"directed" json:"directed"`
	KeepSource     bool            `mapstructure:"keep_source" yaml:"keep_source" json:"keep_source"`
	CompressSource bool            `mapstructure:"compress_source" yaml:"compress_source" json:"compress_source"`
	SourceOnly     bool            `mapstructure:"source_only" yaml:"source_only" json:"source_only"`
	TmpDir         string          `mapstructure:"tmp_dir" yaml:"tmp_dir,omitempty" json:"tmp_dir,omitempty"`
}

type StorageConfig struct {
	Type      string            `mapstructure:"type" yaml:"type" json:"type,omitempty"`
	S3        *s3.Config        `mapstructure:"s3" yaml:"s3" json:"s3,omitempty"`
	Directory *directory.Config `mapstructure:"directory" yaml:"directory" json:"directory,omitempty"`
}

type OutputConfig struct {
	FileName string `mapstructure:"file_name" yaml:"file_name" json:"file_name,omitempty"`
}

// Validate - checks the settings required to run the generation
func (c *Config) Validate() error {
	var errs []error
	switch c.Database.Type {
	case DatabaseTypePostgresql, DatabaseTypeMysql:
	case DatabaseTypeOracle:
		errs = append(errs, fmt.Errorf("database type \"%s\" is not supported", c.Database.Type))
	default:
		errs = append(errs, fmt.Errorf("unknown database type \"%s\"", c.Database.Type))
	}
	if c.Database.Schema == "" {
		errs = append(errs, errors.New("database schema cannot be empty"))
	}
	if c.Database.UseCustomViews() &&
		(c.Database.TablesView == "" || c.Database.ColumnsView == "" || c.Database.ConstraintsView == "") {
		errs = append(errs, errors.New("tables_view, columns_view and constraints_view must be set together"))
	}
	if err := c.Render.Format.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Render.NodeSep < 0 {
		errs = append(errs, errors.New("render node_sep cannot be negative"))
	}
	if c.Output.FileName == "" {
		errs = append(errs, errors.New("output file_name cannot be empty"))
	}
	if !c.Render.SourceOnly {
		switch c.Storage.Type {
		case StorageTypeDirectory:
			if err := c.Storage.Directory.Validate(); err != nil {
				errs = append(errs, err)
			}
		case StorageTypeS3:
			if err := c.Storage.S3.Validate(); err != nil {
				errs = append(errs, err)
			}
		default:
			errs = append(errs, fmt.Errorf("unknown storage type \"%s\"", c.Storage.Type))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}
