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
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeatureMaskBits(t *testing.T) {
	assert.Equal(t, uint64(0x1), FeatureLinking.Uint64())
	assert.Equal(t, uint64(0x2), FeatureUnlinking.Uint64())
	assert.Equal(t, uint64(0x4), FeatureDeposits.Uint64())
	assert.Equal(t, uint64(0x8), FeatureWithdrawals.Uint64())

	all := CombineMasks(FeatureLinking, FeatureUnlinking, FeatureDeposits, FeatureWithdrawals)
	assert.Equal(t, uint64(0xf), all.Uint64())
}

func TestCombineMasksDoesNotMutate(t *testing.T) {
	combined := CombineMasks(RoleMinter, RoleBurner)
	assert.Equal(t, uint64(0x30000), combined.Uint64())
	assert.Equal(t, uint64(0x10000), RoleMinter.Uint64())
	assert.Equal(t, uint64(0x20000), RoleBurner.Uint64())

	// and with no masks at all it is just zero
	assert.True(t, CombineMasks().IsZero())
}

func TestFeatureMaskAllCoversEverything(t *testing.T) {
	// every feature and role bit is inside the all-features mask
	for _, mask := range []*uint256.Int{
		FeatureLinking, FeatureUnlinking, FeatureDeposits, FeatureWithdrawals,
		RoleMinter, RoleBurner, RoleEditor, RoleCreator, RoleAccessManager,
	} {
		masked := new(uint256.Int).And(FeatureMaskAll, mask)
		assert.True(t, masked.Eq(mask))
	}
}

func TestLinkerRegistryRoles(t *testing.T) {
	roles := LinkerRegistryRoles()
	assert.Equal(t, uint64(0x70000), roles.Uint64())
	for _, role := range []*uint256.Int{RoleMinter, RoleBurner, RoleEditor} {
		assert.True(t, new(uint256.Int).And(roles, role).Eq(role))
	}
	assert.True(t, new(uint256.Int).And(roles, RoleCreator).IsZero())
}

func TestParseMask(t *testing.T) {
	ctx := context.Background()

	mask, err := ParseMask(ctx, "15")
	require.NoError(t, err)
	assert.Equal(t, uint64(15), mask.Uint64())

	mask, err = ParseMask(ctx, "0x0f")
	require.NoError(t, err)
	assert.Equal(t, uint64(15), mask.Uint64())

	_, err = ParseMask(ctx, "bananas")
	assert.Regexp(t, "IL010903", err)

	_, err = ParseMask(ctx, "")
	assert.Regexp(t, "IL010903", err)
}
