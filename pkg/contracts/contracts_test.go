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

	"github.com/AI-Protocol-Official/intelli-linker-contracts/pkg/ethclient"
	"github.com/AI-Protocol-Official/intelli-linker-contracts/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildAllKinds(t *testing.T) {
	ctx := context.Background()
	kinds := Kinds()
	assert.Len(t, kinds, 10)
	for _, kind := range kinds {
		build, err := Build(ctx, kind)
		require.NoError(t, err, "kind %s", kind)
		assert.NotEmpty(t, build.ABI, "kind %s", kind)
		assert.NotEmpty(t, build.Bytecode, "kind %s", kind)
		require.NotNil(t, build.ABI.Constructor(), "kind %s", kind)

		// parsed builds are cached
		again, err := Build(ctx, kind)
		require.NoError(t, err)
		assert.Same(t, build, again)
	}
}

func TestBuildUnknownKind(t *testing.T) {
	_, err := Build(context.Background(), Kind("TimeMachine"))
	assert.Regexp(t, "IL010900", err)
}

func TestMustBuildPanics(t *testing.T) {
	assert.NotNil(t, MustBuild(FungibleToken))
	assert.Panics(t, func() {
		MustBuild(Kind("TimeMachine"))
	})
}

func TestKindNamed(t *testing.T) {
	kind, ok := KindNamed("TokenLinkerV2")
	assert.True(t, ok)
	assert.Equal(t, TokenLinkerV2, kind)

	_, ok = KindNamed("TimeMachine")
	assert.False(t, ok)
}

func TestAccessControlSurface(t *testing.T) {
	ctx := context.Background()
	for _, kind := range Kinds() {
		if kind == ERC1967Proxy {
			continue
		}
		build, err := Build(ctx, kind)
		require.NoError(t, err)
		functions := build.ABI.Functions()
		for _, fn := range []string{"updateFeatures", "features", "updateRole", "isOperatorInRole"} {
			assert.NotNil(t, functions[fn], "kind %s missing %s", kind, fn)
		}
	}
}

func TestLinkerSurfaceByVersion(t *testing.T) {
	ctx := context.Background()

	v1, err := Build(ctx, TokenLinker)
	require.NoError(t, err)
	assert.NotNil(t, v1.ABI.Functions()["whitelistTargetContract"])
	assert.NotNil(t, v1.ABI.Functions()["version"])
	assert.Nil(t, v1.ABI.Functions()["initialize"])
	assert.Nil(t, v1.ABI.Functions()["upgradeTo"])
	assert.Len(t, v1.ABI.Constructor().Inputs, 3)

	for _, kind := range []Kind{TokenLinkerV2, TokenLinkerV3} {
		build, err := Build(ctx, kind)
		require.NoError(t, err)
		assert.Len(t, build.ABI.Constructor().Inputs, 0, "kind %s", kind)
		for _, fn := range []string{"initialize", "upgradeTo", "getImplementation", "whitelistTargetContract", "version"} {
			assert.NotNil(t, build.ABI.Functions()[fn], "kind %s missing %s", kind, fn)
		}
	}

	v3, err := Build(ctx, TokenLinkerV3)
	require.NoError(t, err)
	assert.NotNil(t, v3.ABI.Functions()["setLinkPrice"])
	v2, err := Build(ctx, TokenLinkerV2)
	require.NoError(t, err)
	assert.Nil(t, v2.ABI.Functions()["setLinkPrice"])
}

func TestProxySurface(t *testing.T) {
	build, err := Build(context.Background(), ERC1967Proxy)
	require.NoError(t, err)
	constructor := build.ABI.Constructor()
	require.NotNil(t, constructor)
	require.Len(t, constructor.Inputs, 2)
	assert.Equal(t, "implementation", constructor.Inputs[0].Name)
	assert.Equal(t, "data", constructor.Inputs[1].Name)
}

func TestBindOffline(t *testing.T) {
	// an unconnected client is enough to bind and format, but any
	// submission or query fails with the no-connection error
	ctx := context.Background()
	ec := ethclient.NewUnconnectedRPCClient(ctx, &ethclient.Config{}, 12345)

	addr := types.RandAddress()
	c, err := Bind(ctx, ec, BindingRegistry, addr)
	require.NoError(t, err)
	assert.Equal(t, BindingRegistry, c.Kind())
	assert.Equal(t, addr, c.Address())
	assert.NotNil(t, c.ABIClient())

	_, err = c.Features(ctx)
	assert.Regexp(t, "IL010717", err)

	err = c.UpdateFeatures(ctx, "deployer", FeatureMaskAll)
	assert.Regexp(t, "IL010717", err)
}

func TestBindUnknownKind(t *testing.T) {
	ctx := context.Background()
	ec := ethclient.NewUnconnectedRPCClient(ctx, &ethclient.Config{}, 12345)
	_, err := Bind(ctx, ec, Kind("TimeMachine"), types.RandAddress())
	assert.Regexp(t, "IL010900", err)

	_, err = BindLinker(ctx, ec, Kind("TimeMachine"), types.RandAddress())
	assert.Regexp(t, "IL010900", err)
}
