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
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type deploymentNote struct {
	Contract string         `json:"contract"`
	Args     map[string]any `json:"args,omitempty"`
}

func TestJSONPMarshalRoundTrip(t *testing.T) {

	type auditRow struct {
		Ctor     JSONP[deploymentNote]   `json:"ctor"`
		Init     JSONP[*deploymentNote]  `json:"init"`
		Upgrade  *JSONP[deploymentNote]  `json:"upgrade,omitempty"`
		Teardown *JSONP[*deploymentNote] `json:"teardown"`
		Attempts JSONP[int64]            `json:"attempts"`
	}

	var unset *JSONP[deploymentNote]
	b, err := json.Marshal(unset)
	require.NoError(t, err)
	assert.JSONEq(t, `null`, string(b))

	row := &auditRow{
		Ctor: *WrapJSONP(deploymentNote{
			Contract: "TokenLinker",
			Args:     map[string]any{"token": "0xfeedbeef00000000000000000000000000000000"},
		}),
		Init:     JSONP[*deploymentNote]{},
		Upgrade:  nil,
		Teardown: WrapJSONP(&deploymentNote{Contract: "TokenLinkerV3"}),
		Attempts: *WrapJSONP(int64(3)),
	}
	b, err = json.Marshal(row)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"ctor": {
			"contract": "TokenLinker",
			"args": {"token": "0xfeedbeef00000000000000000000000000000000"}
		},
		"init": null,
		"teardown": {"contract": "TokenLinkerV3"},
		"attempts": 3
	}`, string(b))

	var back *auditRow
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, row.Ctor.V(), back.Ctor.V())
	assert.Equal(t, row.Init.V(), back.Init.V())
	assert.Equal(t, row.Upgrade.V(), back.Upgrade.V())
	assert.Equal(t, row.Teardown.V(), back.Teardown.V())
	assert.Equal(t, row.Attempts.V(), back.Attempts.V())
}

func TestJSONPValue(t *testing.T) {

	withArgs := WrapJSONP(map[string]any{"collection": "0x4f2e3b", "mintCap": "10000"})
	var valuer driver.Valuer = withArgs
	dbV, err := valuer.Value()
	require.NoError(t, err)
	assert.JSONEq(t, `{"collection": "0x4f2e3b", "mintCap": "10000"}`, string(dbV.([]byte)))

	// nil values inside the wrapper store NULL, not "null"
	nilMap := &JSONP[map[string]any]{}
	dbV, err = nilMap.Value()
	require.NoError(t, err)
	assert.Nil(t, dbV)

	nilPtr := &JSONP[*deploymentNote]{}
	dbV, err = nilPtr.Value()
	require.NoError(t, err)
	assert.Nil(t, dbV)

	var nilWrapper *JSONP[deploymentNote]
	dbV, err = nilWrapper.Value()
	require.NoError(t, err)
	assert.Nil(t, dbV)

	count := WrapJSONP(int64(12345))
	dbV, err = count.Value()
	require.NoError(t, err)
	assert.Equal(t, `12345`, string(dbV.([]byte)))
}

func TestJSONPScan(t *testing.T) {

	var fromString JSONP[*deploymentNote]
	var scanner sql.Scanner = &fromString
	require.NoError(t, scanner.Scan(`{"contract": "NFTCollection"}`))
	assert.Equal(t, &deploymentNote{Contract: "NFTCollection"}, fromString.V())

	var fromBytes JSONP[*deploymentNote]
	require.NoError(t, fromBytes.Scan(([]byte)(`{"contract": "NFTCollection"}`)))
	assert.Equal(t, &deploymentNote{Contract: "NFTCollection"}, fromBytes.V())

	// scanning resets any previous value
	require.NoError(t, fromBytes.Scan(nil))
	assert.Nil(t, fromBytes.V())

	err := fromBytes.Scan(false)
	assert.Regexp(t, "IL010003", err)

	// and V is safe on a wrapper that was never scanned
	var never *JSONP[*deploymentNote]
	assert.Nil(t, never.V())
}

func TestIsNil(t *testing.T) {
	assert.True(t, IsNil(nil))
	var m map[string]any
	assert.True(t, IsNil(m))
	var p *deploymentNote
	assert.True(t, IsNil(p))
	var fn func()
	assert.True(t, IsNil(fn))
	assert.False(t, IsNil("addr"))
	assert.False(t, IsNil(12345))
	assert.False(t, IsNil(deploymentNote{}))
}
