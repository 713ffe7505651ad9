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
	"encoding/json"
	"reflect"

	"github.com/AI-Protocol-Official/intelli-linker-contracts/internal/msgs"
	"github.com/hyperledger/firefly-common/pkg/i18n"
)

// JSONP persists any JSON-serializable value in a single DB column, keeping
// the Go type on the way back out.
type JSONP[T any] struct {
	v T
}

func WrapJSONP[T any](v T) *JSONP[T] {
	return &JSONP[T]{v: v}
}

// V unwraps, returning the zero value on a nil wrapper so callers can chain
// off optional columns without nil checks.
func (j *JSONP[T]) V() (v T) {
	if j != nil {
		v = j.v
	}
	return v
}

func (j *JSONP[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(j.v)
}

func (j *JSONP[T]) UnmarshalJSON(data []byte) error {
	*j = JSONP[T]{}
	return json.Unmarshal(data, &j.v)
}

// IsNil reports whether the value inside an interface is nil, without
// panicking on non-nillable kinds.
func IsNil(v interface{}) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice, reflect.UnsafePointer:
		return rv.IsNil()
	default:
		return false
	}
}

// Value stores SQL NULL for a nil wrapper or nil value, never the JSON
// string "null".
func (j *JSONP[T]) Value() (driver.Value, error) {
	if j == nil || IsNil(j.v) {
		return nil, nil
	}
	return json.Marshal(j.v)
}

func (j *JSONP[T]) Scan(src interface{}) error {
	*j = JSONP[T]{}
	switch v := src.(type) {
	case nil:
		return nil
	case string:
		return json.Unmarshal(([]byte)(v), &j.v)
	case []byte:
		return json.Unmarshal(v, &j.v)
	default:
		return i18n.NewError(context.Background(), msgs.MsgTypesScanFail, src, j.v)
	}
}
