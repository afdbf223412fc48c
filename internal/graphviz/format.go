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

package graphviz

import (
	"fmt"
	"slices"
	"strings"
)

// Format - the output format passed to dot as -T<format>
type Format string

const (
	FormatSvg Format = "svg"
	FormatPng Format = "png"
	FormatPdf Format = "pdf"
	FormatJpg Format = "jpg"
	FormatGif Format = "gif"
	FormatPs  Format = "ps"
)

const DefaultFormat = FormatSvg

var supportedFormats = []Format{FormatSvg, FormatPng, FormatPdf, FormatJpg, FormatGif, FormatPs}

func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if err := f.Validate(); err != nil {
		return "", err
	}
	return f, nil
}

func (f Format) Validate() error {
	if !slices.Contains(supportedFormats, f) {
		return fmt.Errorf("unsupported output format \"%s\": expected one of %v", string(f), supportedFormats)
	}
	return nil
}

// Extension - returns the file extension without the leading dot
func (f Format) Extension() string {
	return string(f)
}
