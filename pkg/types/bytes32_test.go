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
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTXHash = "8c4a6e12099facb8a1006f1e5f8982accdbb1d1a1c3a63cb1d9566e30e0e1c2f"

func TestBytes32Parsing(t *testing.T) {

	var zero Bytes32
	assert.Equal(t, "0x0000000000000000000000000000000000000000000000000000000000000000", zero.HexString0xPrefix())
	assert.Equal(t, "0000000000000000000000000000000000000000000000000000000000000000", zero.HexString())
	assert.True(t, zero.IsZero())

	// with or without the prefix, always the same parse
	h1 := MustParseBytes32("0x" + testTXHash)
	h2 := MustParseBytes32(testTXHash)
	assert.True(t, h1.Equals(&h2))
	assert.Equal(t, "0x"+testTXHash, h1.String())
	assert.Equal(t, testTXHash, h1.HexString())
	assert.False(t, h1.IsZero())

	h3 := NewBytes32FromSlice(h1.Bytes())
	assert.True(t, h3.Equals(&h1))

	// nil receivers compare like the zero value
	assert.False(t, h1.Equals(nil))
	assert.True(t, (*Bytes32)(nil).Equals(nil))
	assert.False(t, (*Bytes32)(nil).Equals(&h1))

	_, err := ParseBytes32Ctx(context.Background(), "0xfeedbeef")
	assert.Regexp(t, "IL010001.*32.*4", err)
	assert.Panics(t, func() {
		MustParseBytes32("not a hash")
	})

	rand := RandBytes32()
	back := MustParseBytes32(rand.String())
	assert.True(t, rand.Equals(&back))
}

func TestBytes32UUIDLower16(t *testing.T) {
	h := MustParseBytes32(testTXHash)
	u := h.UUIDLower16()
	assert.Equal(t, "8c4a6e12-099f-acb8-a100-6f1e5f8982ac", u.String())
	assert.Equal(t, "8c4a6e12099facb8a1006f1e5f8982ac00000000000000000000000000000000",
		Bytes32UUIDLower16(u).HexString())
}

func TestBytes32Keccak(t *testing.T) {
	h := Bytes32Keccak(([]byte)("hello world"))
	assert.Equal(t, "47173285a8d7341e5e972fc677286384f802f8ef42a5ec5f03bbfa254cb01fad", h.HexString())

	empty := Bytes32Keccak([]byte{})
	assert.Equal(t, "c5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470", empty.HexString())
}

func TestBytes32JSON(t *testing.T) {

	type txRefs struct {
		TXHash    *Bytes32 `json:"txHash"`
		BlockHash *Bytes32 `json:"blockHash,omitempty"`
		Parent    *Bytes32 `json:"parent"`
		State     Bytes32  `json:"state"`
		Unset     Bytes32  `json:"unset"`
	}

	var refs txRefs
	require.NoError(t, json.Unmarshal(([]byte)(`{
		"txHash": null,
		"parent": "0x`+testTXHash+`",
		"state": "`+testTXHash+`"
	}`), &refs))

	assert.Nil(t, refs.TXHash)
	assert.Nil(t, refs.BlockHash)
	assert.Equal(t, "0x"+testTXHash, refs.Parent.String())
	assert.Equal(t, "0x"+testTXHash, refs.State.String())
	assert.True(t, refs.Unset.IsZero())

	jOut, err := json.Marshal(&refs)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"txHash": null,
		"parent": "0x`+testTXHash+`",
		"state": "0x`+testTXHash+`",
		"unset": "0x0000000000000000000000000000000000000000000000000000000000000000"
	}`, (string)(jOut))

	err = json.Unmarshal(([]byte)(`{"txHash":"wrong"}`), &refs)
	assert.Regexp(t, "IL010000", err)
}

func TestBytes32ScanValue(t *testing.T) {

	v, err := MustParseBytes32("0x8C4A6E12099FACB8A1006F1E5F8982ACCDBB1D1A1C3A63CB1D9566E30E0E1C2F").Value()
	require.NoError(t, err)
	assert.Equal(t, testTXHash, v)

	for _, src := range []any{
		"0x8C4A6E12099FACB8A1006F1E5F8982ACCDBB1D1A1C3A63CB1D9566E30E0E1C2F",
		([]byte)("0x8C4A6E12099FACB8A1006F1E5F8982ACCDBB1D1A1C3A63CB1D9566E30E0E1C2F"),
		MustParseBytes32(testTXHash).Bytes(),
	} {
		scanner := &Bytes32{}
		require.NoError(t, scanner.Scan(src))
		assert.Equal(t, testTXHash, scanner.HexString())
	}

	scanner := &Bytes32{}
	err = scanner.Scan("0xfeedbeef")
	assert.Regexp(t, "IL010001.*4", err)

	err = scanner.Scan([]byte{0xfe, 0xed, 0xbe, 0xef})
	assert.Regexp(t, "IL010001.*4", err)

	err = scanner.Scan([]byte("0xWRONG!12099FACB8A1006F1E5F8982ACCDBB1D1A1C3A63CB1D9566E30E0E1C2F"))
	assert.Regexp(t, "IL010000", err)

	err = scanner.Scan(false)
	assert.Regexp(t, "IL010003", err)
}
