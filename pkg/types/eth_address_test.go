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
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEthAddress(t *testing.T) {

	a := MustEthAddress("0xacA6D8Ba6BFf0fa5c8a06A58368CB6097285d5c5")
	assert.Equal(t, "0xaca6d8ba6bff0fa5c8a06a58368cb6097285d5c5", a.String())
	assert.Equal(t, "0xacA6D8Ba6BFf0fa5c8a06A58368CB6097285d5c5", a.Checksummed())
	assert.Equal(t, "aca6d8ba6bff0fa5c8a06a58368cb6097285d5c5", a.HexString())
	assert.False(t, a.IsZero())

	_, err := ParseEthAddress("!!aca6d8ba6bff0fa5c8a06a58368cb6097285d5")
	assert.Regexp(t, "bad address", err)

	assert.Panics(t, func() {
		MustEthAddress("wrong")
	})

	var aNil *EthAddress
	assert.True(t, aNil.IsZero())
	assert.True(t, aNil.Equals(nil))
	assert.False(t, aNil.Equals(a))
	assert.False(t, a.Equals(nil))

	a2 := EthAddressBytes(a[:])
	assert.True(t, a.Equals(a2))

	a3 := &EthAddress{}
	err = a3.Scan(a.String())
	assert.NoError(t, err)
	assert.True(t, a.Equals(a3))

	v3, err := a3.Value()
	assert.NoError(t, err)
	assert.Equal(t, "aca6d8ba6bff0fa5c8a06a58368cb6097285d5c5", v3)

	a4 := &EthAddress{}
	err = a4.Scan(([]byte)(a[:]))
	assert.NoError(t, err)
	assert.True(t, a.Equals(a4))

	a5 := &EthAddress{}
	err = a5.Scan(([]byte)(a.HexString()))
	assert.NoError(t, err)
	assert.True(t, a.Equals(a5))

	a6 := &EthAddress{}
	err = a6.Scan([]byte{0x01})
	assert.Regexp(t, "IL010003", err)

	err = a6.Scan(false)
	assert.Regexp(t, "IL010003", err)

	err = a6.Scan("not an address")
	assert.Regexp(t, "IL010002", err)

	err = a6.Scan([]byte("0xfeedbeeffeedbeeffeedbeeffeedbeeffeedbeXX"))
	assert.Regexp(t, "IL010002", err)

	err = a6.Scan(nil)
	assert.NoError(t, err)
}

func TestEthAddressJSON(t *testing.T) {

	type myStruct struct {
		Addr1 *EthAddress `json:"addr1,omitempty"`
		Addr2 *EthAddress `json:"addr2"`
		Addr3 EthAddress  `json:"addr3"`
	}

	var s1 myStruct
	err := json.Unmarshal(([]byte)(`{
		"addr2": "0xaca6d8ba6bff0fa5c8a06a58368cb6097285d5c5",
		"addr3": "0x16E03B0e4c2d30D4c73e2d5e2C180bDd5B1e4E1B"
	}`), &s1)
	assert.NoError(t, err)
	assert.Nil(t, s1.Addr1)
	assert.Equal(t, "0xaca6d8ba6bff0fa5c8a06a58368cb6097285d5c5", s1.Addr2.String())

	jOut, err := json.Marshal(&s1)
	assert.NoError(t, err)
	assert.JSONEq(t, `{
		"addr2": "0xaca6d8ba6bff0fa5c8a06a58368cb6097285d5c5",
		"addr3": "0x16e03b0e4c2d30d4c73e2d5e2c180bdd5b1e4e1b"
	}`, (string)(jOut))

	err = json.Unmarshal(([]byte)(`{"addr2": "wrong"}`), &s1)
	assert.Regexp(t, "bad address", err)

	err = json.Unmarshal(([]byte)(`{"addr2": false}`), &s1)
	assert.Error(t, err)

	randA := RandAddress()
	assert.False(t, randA.IsZero())
}
