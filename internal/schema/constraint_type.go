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

package schema

import (
	"fmt"
	"strings"
)

type ConstraintType int

const (
	PrimaryKey ConstraintType = iota + 1
	ForeignKey
	UniqueKey
)

const (
	PrimaryKeyToken = "PRIMARY_KEY"
	ForeignKeyToken = "FOREIGN_KEY"
	UniqueKeyToken  = "UNIQUE_KEY"
)

var constraintTypeNames = map[ConstraintType]string{
	PrimaryKey: "PRIMARY KEY",
	ForeignKey: "FOREIGN KEY",
	UniqueKey:  "UNIQUE",
}

var constraintTypeTokens = map[ConstraintType]string{
	PrimaryKey: PrimaryKeyToken,
	ForeignKey: ForeignKeyToken,
	UniqueKey:  UniqueKeyToken,
}

// ParseConstraintType - parses the catalog token of the constraint type. Both the underscored tokens
// (PRIMARY_KEY) and the information_schema spelling (PRIMARY KEY, UNIQUE) are accepted
func ParseConstraintType(s string) (ConstraintType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case PrimaryKeyToken, "PRIMARY KEY":
		return PrimaryKey, nil
	case ForeignKeyToken, "FOREIGN KEY":
		return ForeignKey, nil
	case UniqueKeyToken, "UNIQUE":
		return UniqueKey, nil
	}
	return 0, fmt.Errorf("unknown constraint type \"%s\": %w", s, ErrMalformedMetadata)
}

// String - returns the canonical rendering name
func (ct ConstraintType) String() string {
	if name, ok := constraintTypeNames[ct]; ok {
		return name
	}
	return fmt.Sprintf("ConstraintType(%d)", int(ct))
}

func (ct ConstraintType) Token() string {
	return constraintTypeTokens[ct]
}

func (ct ConstraintType) IsForeignKey() bool {
	return ct == ForeignKey
}

func (ct ConstraintType) MarshalText() ([]byte, error) {
	token, ok := constraintTypeTokens[ct]
	if !ok {
		return nil, fmt.Errorf("unknown constraint type %d", int(ct))
	}
	return []byte(token), nil
}

func (ct *ConstraintType) UnmarshalText(data []byte) error {
	parsed, err := ParseConstraintType(string(data))
	if err != nil {
		return err
	}
	*ct = parsed
	return nil
}
