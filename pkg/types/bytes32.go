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
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/AI-Protocol-Official/intelli-linker-contracts/internal/msgs"
	"github.com/google/uuid"
	"github.com/hyperledger/firefly-common/pkg/i18n"
	"golang.org/x/crypto/sha3"
)

// Bytes32 is a 32 byte value, formatted in JSON with an 0x prefix, and stored in the DB as hex
type Bytes32 [32]byte

var zeroBytes32 = Bytes32{}

func NewBytes32FromSlice(b []byte) (b32 Bytes32) {
	copy(b32[:], b)
	return b32
}

func Bytes32Keccak(b []byte) Bytes32 {
	hash := sha3.NewLegacyKeccak256()
	hash.Write(b)
	return NewBytes32FromSlice(hash.Sum(nil))
}

func RandBytes32() Bytes32 {
	return NewBytes32FromSlice(RandBytes(32))
}

// Bytes32UUIDLower16 creates a Bytes32 with the UUID in the lower 16 bytes, and zeros in the upper 16 bytes
func Bytes32UUIDLower16(u uuid.UUID) (b32 Bytes32) {
	copy(b32[0:16], u[:])
	return b32
}

func ParseBytes32Ctx(ctx context.Context, s string) (Bytes32, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return zeroBytes32, i18n.NewError(ctx, msgs.MsgTypesInvalidHex, err)
	}
	if len(b) != 32 {
		return zeroBytes32, i18n.NewError(ctx, msgs.MsgTypesInvalidHexLen, 32, len(b))
	}
	return NewBytes32FromSlice(b), nil
}

func MustParseBytes32(s string) Bytes32 {
	b32, err := ParseBytes32Ctx(context.Background(), s)
	if err != nil {
		panic(err)
	}
	return b32
}

// UUIDLower16 returns a UUID from the lower 16 bytes, discarding the upper 16 bytes
func (id Bytes32) UUIDLower16() (u uuid.UUID) {
	copy(u[:], id[0:16])
	return u
}

func (id Bytes32) Bytes() []byte {
	return id[:]
}

func (id *Bytes32) Equals(id2 *Bytes32) bool {
	if id == nil && id2 == nil {
		return true
	}
	if id == nil || id2 == nil {
		return false
	}
	return *id == *id2
}

func (id *Bytes32) IsZero() bool {
	return id == nil || *id == zeroBytes32
}

func (id Bytes32) String() string {
	return id.HexString0xPrefix()
}

func (id Bytes32) HexString0xPrefix() string {
	return fmt.Sprintf("0x%s", hex.EncodeToString(id[:]))
}

func (id Bytes32) HexString() string {
	return hex.EncodeToString(id[:])
}

func (id Bytes32) MarshalText() ([]byte, error) {
	return ([]byte)(id.HexString0xPrefix()), nil
}

func (id *Bytes32) UnmarshalText(text []byte) error {
	pID, err := ParseBytes32Ctx(context.Background(), string(text))
	if err != nil {
		return err
	}
	*id = pID
	return nil
}

func (id Bytes32) Value() (driver.Value, error) {
	return id.HexString(), nil // no 0x prefix
}

func (id *Bytes32) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		b32, err := ParseBytes32Ctx(context.Background(), v)
		if err != nil {
			return err
		}
		*id = b32
		return nil
	case []byte:
		switch len(v) {
		case 32:
			*id = NewBytes32FromSlice(v)
			return nil
		case 64, 66 /* with 0x */ :
			b32, err := ParseBytes32Ctx(context.Background(), (string)(v))
			if err != nil {
				return err
			}
			*id = b32
			return nil
		default:
			return i18n.NewError(context.Background(), msgs.MsgTypesInvalidHexLen, 32, len(v))
		}
	default:
		return i18n.NewError(context.Background(), msgs.MsgTypesScanFail, src, id)
	}
}
