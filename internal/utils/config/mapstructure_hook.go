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

package config

import (
	"fmt"
	"reflect"
	"time"

	"github.com/go-viper/mapstructure/v2"
	gostr "github.com/xhit/go-str2duration/v2"

	"github.com/zessin/relational-to-graph/internal/graphviz"
)

// StringToDurationHookFunc - decodes durations with day and week units ("1d12h", "2w") on top of the
// time.ParseDuration syntax
func StringToDurationHookFunc() mapstructure.DecodeHookFunc {
	return func(
		f reflect.Type,
		t reflect.Type,
		data interface{},
	) (interface{}, error) {
		if f.Kind() != reflect.String || t != reflect.TypeOf(time.Duration(0)) {
			return data, nil
		}
		raw := data.(string)
		if raw == "" {
			return time.Duration(0), nil
		}
		dur, err := gostr.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("cannot parse duration \"%s\": %w", raw, err)
		}
		return dur, nil
	}
}

// StringToFormatHookFunc - decodes and validates the rendered image format
func StringToFormatHookFunc() mapstructure.DecodeHookFunc {
	return func(
		f reflect.Type,
		t reflect.Type,
		data interface{},
	) (interface{}, error) {
		if f.Kind() != reflect.String || t != reflect.TypeOf(graphviz.Format("")) {
			return data, nil
		}
		raw := data.(string)
		if raw == "" {
			return graphviz.DefaultFormat, nil
		}
		return graphviz.ParseFormat(raw)
	}
}

// DecoderConfig - viper decoder option shared by the commands
func DecoderConfig(cfg *mapstructure.DecoderConfig) {
	cfg.DecodeHook = mapstructure.ComposeDecodeHookFunc(
		StringToDurationHookFunc(),
		StringToFormatHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)
}
