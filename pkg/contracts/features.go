/*
 * Copyright © 2024 Kaleido, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
 * the License. You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
 * an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
 * specific language governing permissions and limitations under the License.
 *
 * SPDX-License-Identifier: Apache-2.0
 */

package contracts

import (
	"context"
	"strings"

	"github.com/AI-Protocol-Official/intelli-linker-contracts/internal/msgs"
	"github.com/holiman/uint256"
	"github.com/hyperledger/firefly-common/pkg/i18n"
)

// Feature flags understood by updateFeatures/features. Contracts deployed by
// the fixtures start with all features disabled, and each public operation is
// gated on one of these bits.
var (
	FeatureLinking     = uint256.NewInt(0x0001)
	FeatureUnlinking   = uint256.NewInt(0x0002)
	FeatureDeposits    = uint256.NewInt(0x0004)
	FeatureWithdrawals = uint256.NewInt(0x0008)

	// FeatureMaskAll enables every feature a contract knows about, including
	// any bits a newer implementation defines that this code does not.
	FeatureMaskAll = new(uint256.Int).SetAllOne()
)

// Role bits understood by updateRole/isOperatorInRole. Roles live in the
// upper part of the permission space, clear of the feature flags.
var (
	RoleMinter  = uint256.NewInt(0x0001_0000)
	RoleBurner  = uint256.NewInt(0x0002_0000)
	RoleEditor  = uint256.NewInt(0x0004_0000)
	RoleCreator = uint256.NewInt(0x0008_0000)

	// RoleAccessManager is the highest bit, allowing an operator to manage
	// the features and roles of the contract itself.
	RoleAccessManager = new(uint256.Int).Lsh(uint256.NewInt(1), 255)
)

// CombineMasks ORs together any number of feature or role masks, returning a
// new value and leaving the inputs unchanged.
func CombineMasks(masks ...*uint256.Int) *uint256.Int {
	combined := new(uint256.Int)
	for _, mask := range masks {
		combined.Or(combined, mask)
	}
	return combined
}

// LinkerRegistryRoles is the role set a token linker needs on its binding
// registry to create, remove and edit binding records.
func LinkerRegistryRoles() *uint256.Int {
	return CombineMasks(RoleMinter, RoleBurner, RoleEditor)
}

// ParseMask parses a feature or role mask from a decimal string, or from a
// hex string with an 0x prefix.
func ParseMask(ctx context.Context, s string) (*uint256.Int, error) {
	var mask *uint256.Int
	var err error
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		mask, err = uint256.FromHex("0x" + s[2:])
	} else {
		mask, err = uint256.FromDecimal(s)
	}
	if err != nil {
		return nil, i18n.NewError(ctx, msgs.MsgContractsInvalidMask, s)
	}
	return mask, nil
}
