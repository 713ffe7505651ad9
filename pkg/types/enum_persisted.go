// Copyright © 2024 Kaleido, Inc.
//
// SPDX-License-Identifier: Apache-2.0
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

package types

import (
	"context"
	"database/sql/driver"
	"strings"

	"github.com/AI-Protocol-Official/intelli-linker-contracts/internal/msgs"
	"github.com/hyperledger/firefly-common/pkg/i18n"
)

// EnumOptions is implemented by string types that enumerate their valid
// values, making them usable as the option set of an Enum.
type EnumOptions interface {
	~string
	Options() []string
}

// EnumDefault can additionally be implemented by an option set to map the
// empty string to a default, rather than failing validation.
type EnumDefault interface {
	Default() string
}

// Enum stores a string enum in the DB, validated against the canonical
// option set on both write and read.
type Enum[O EnumOptions] string

func (e Enum[O]) V() O {
	return O(e)
}

// Validate maps the value case insensitively onto the canonical options,
// applying the default (where the option set declares one) to the empty
// string.
func (e Enum[O]) Validate() (O, error) {
	var canonical O
	if e == "" {
		if withDefault, ok := any(canonical).(EnumDefault); ok {
			return O(withDefault.Default()), nil
		}
	}
	for _, option := range canonical.Options() {
		if strings.EqualFold(option, string(e)) {
			return O(option), nil
		}
	}
	return "", i18n.NewError(context.Background(), msgs.MsgTypesEnumValueInvalid, strings.Join(canonical.Options(), ","))
}

// Value writes the canonical form, refusing values outside the option set.
func (e Enum[O]) Value() (driver.Value, error) {
	validated, err := e.Validate()
	return string(validated), err
}

// Scan accepts strings, bytes and nil, where nil validates like the empty
// string (so it takes the default where there is one).
func (e *Enum[O]) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		*e = Enum[O](v)
	case []byte:
		*e = Enum[O](v)
	case nil:
		*e = ""
	default:
		return i18n.NewError(context.Background(), msgs.MsgTypesScanFail, src, *e)
	}
	validated, err := e.Validate()
	if err != nil {
		return err
	}
	*e = Enum[O](validated)
	return nil
}
