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

package fixtures

import (
	"testing"

	"github.com/AI-Protocol-Official/intelli-linker-contracts/pkg/contracts"
	"github.com/AI-Protocol-Official/intelli-linker-contracts/pkg/types"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeployTokenLinkerFull(t *testing.T) {
	ctx, chain, d, done := newTestDeployer(t, nil)
	defer done()

	fixture, err := d.DeployTokenLinker(ctx, "signer1", nil)
	require.NoError(t, err)

	// the token, collection and registry are deployed on the way in
	assert.Equal(t, 4, chain.totalDeployed())
	assert.Equal(t, 1, chain.deployedCount(contracts.FungibleToken))
	assert.Equal(t, 1, chain.deployedCount(contracts.NFTCollection))
	assert.Equal(t, 1, chain.deployedCount(contracts.BindingRegistry))
	assert.Equal(t, 1, chain.deployedCount(contracts.TokenLinker))

	// the linker constructor is wired to all three
	linkerState := chain.contractAt(fixture.Linker.Address())
	assert.Equal(t, fixture.Token.Address().String(), linkerState.ctorArgs["token"])
	assert.Equal(t, fixture.Collection.Address().String(), linkerState.ctorArgs["collection"])
	assert.Equal(t, fixture.Registry.Address().String(), linkerState.ctorArgs["registry"])

	// features land on the linker only, and the registry grants the linker
	// its operating roles
	assert.True(t, contracts.FeatureMaskAll.Eq(linkerState.features))
	assert.True(t, chain.contractAt(fixture.Token.Address()).features.IsZero())
	assert.True(t, chain.contractAt(fixture.Collection.Address()).features.IsZero())
	registryState := chain.contractAt(fixture.Registry.Address())
	assert.True(t, registryState.features.IsZero())
	granted := registryState.roles[fixture.Linker.Address().String()]
	require.NotNil(t, granted)
	assert.True(t, contracts.LinkerRegistryRoles().Eq(granted))

	// read the wiring back through the handles
	version, err := fixture.Linker.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), version.Uint64())
	token, err := fixture.Linker.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, fixture.Token.Address(), token)
	collection, err := fixture.Linker.Collection(ctx)
	require.NoError(t, err)
	assert.Equal(t, fixture.Collection.Address(), collection)
	registry, err := fixture.Linker.Registry(ctx)
	require.NoError(t, err)
	assert.Equal(t, fixture.Registry.Address(), registry)

	// role checks answer by subset of the granted mask
	isMinter, err := fixture.Registry.IsOperatorInRole(ctx, fixture.Linker.Address(), contracts.RoleMinter)
	require.NoError(t, err)
	assert.True(t, isMinter)
	isCreator, err := fixture.Registry.IsOperatorInRole(ctx, fixture.Linker.Address(), contracts.RoleCreator)
	require.NoError(t, err)
	assert.False(t, isCreator)
}

func TestDeployTokenLinkerPureMissingDeps(t *testing.T) {
	ctx, _, d, done := newTestDeployer(t, nil)
	defer done()

	token := types.RandAddress()
	collection := types.RandAddress()

	_, err := d.DeployTokenLinkerPure(ctx, "signer1", nil, nil, nil)
	assert.Regexp(t, "IL011000.*'token'.*TokenLinker", err)
	_, err = d.DeployTokenLinkerPure(ctx, "signer1", token, nil, nil)
	assert.Regexp(t, "IL011000.*'collection'.*TokenLinker", err)
	_, err = d.DeployTokenLinkerPure(ctx, "signer1", token, collection, nil)
	assert.Regexp(t, "IL011000.*'registry'.*TokenLinker", err)
}

func TestDeployTokenLinkerSuppliedDeps(t *testing.T) {
	ctx, chain, d, done := newTestDeployer(t, nil)
	defer done()

	token, err := d.DeployFungibleTokenPure(ctx, "signer1", types.RandAddress())
	require.NoError(t, err)
	collection, err := d.DeployNFTCollectionPure(ctx, "signer1", "Existing", "EXIST")
	require.NoError(t, err)
	registry, err := d.DeployBindingRegistryPure(ctx, "signer1", token.Address())
	require.NoError(t, err)

	fixture, err := d.DeployTokenLinkerRestricted(ctx, "signer1", &LinkerDeps{
		Token:      token.Address(),
		Collection: collection.Address(),
		Registry:   registry.Address(),
	})
	require.NoError(t, err)

	// nothing is deployed twice, and restricted leaves configuration alone
	assert.Equal(t, 4, chain.totalDeployed())
	linkerState := chain.contractAt(fixture.Linker.Address())
	assert.Equal(t, token.Address().String(), linkerState.ctorArgs["token"])
	assert.True(t, linkerState.features.IsZero())
	assert.Empty(t, chain.contractAt(registry.Address()).roles)
}

func TestScenarioLinkerOnExistingToken(t *testing.T) {
	ctx, chain, d, done := newTestDeployer(t, nil)
	defer done()

	token, err := d.DeployFungibleToken(ctx, "signer1", nil)
	require.NoError(t, err)

	fixture, err := d.DeployTokenLinker(ctx, "signer1", &LinkerDeps{Token: token.Address()})
	require.NoError(t, err)

	// the supplied token is bound, the collection and registry come up fresh
	assert.Equal(t, 4, chain.totalDeployed())
	assert.Equal(t, 1, chain.deployedCount(contracts.FungibleToken))
	assert.Equal(t, token.Address(), fixture.Token.Address())

	// each linking feature is individually enabled on the new linker
	linkerState := chain.contractAt(fixture.Linker.Address())
	for _, flag := range []*uint256.Int{
		contracts.FeatureLinking,
		contracts.FeatureUnlinking,
		contracts.FeatureDeposits,
		contracts.FeatureWithdrawals,
	} {
		assert.True(t, flag.Eq(new(uint256.Int).And(linkerState.features, flag)))
	}

	// no target is whitelisted until a caller asks for one
	assert.Empty(t, linkerState.whitelist)
	whitelisted, err := fixture.Linker.IsTargetContractWhitelisted(ctx, types.RandAddress())
	require.NoError(t, err)
	assert.False(t, whitelisted)
}

func TestDeployTokenLinkerConfigureReverted(t *testing.T) {
	ctx, chain, d, done := newTestDeployer(t, nil)
	defer done()

	chain.failFunction("updateRole", "operator not manager")
	_, err := d.DeployTokenLinker(ctx, "signer1", nil)
	assert.Regexp(t, "IL011003.*operator not manager", err)

	// everything up to the failed grant still happened
	assert.Equal(t, 4, chain.totalDeployed())
}

func TestDeployTokenLinkerV2(t *testing.T) {
	ctx, chain, d, done := newTestDeployer(t, nil)
	defer done()

	fixture, err := d.DeployTokenLinkerV2(ctx, "signer1", nil)
	require.NoError(t, err)

	// the implementation and its proxy both land on chain, and the handle
	// is bound at the proxy address
	assert.Equal(t, 5, chain.totalDeployed())
	assert.Equal(t, 1, chain.deployedCount(contracts.TokenLinkerV2))
	assert.Equal(t, 1, chain.deployedCount(contracts.ERC1967Proxy))
	proxyState := chain.contractAt(fixture.Linker.Address())
	assert.Equal(t, contracts.ERC1967Proxy, proxyState.kind)

	// the proxy construction ran initialize against the implementation
	assert.Equal(t, fixture.Token.Address().String(), proxyState.initArgs["token"])
	assert.Equal(t, fixture.Collection.Address().String(), proxyState.initArgs["collection"])
	assert.Equal(t, fixture.Registry.Address().String(), proxyState.initArgs["registry"])

	version, err := fixture.Linker.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), version.Uint64())
	impl, err := fixture.Linker.GetImplementation(ctx)
	require.NoError(t, err)
	assert.Equal(t, proxyState.implAddr, impl)
	assert.NotEqual(t, fixture.Linker.Address(), impl)

	// configuration goes through the proxy, so the state lands on the
	// proxy and the raw implementation stays untouched
	assert.True(t, contracts.FeatureMaskAll.Eq(proxyState.features))
	assert.True(t, chain.contractAt(impl).features.IsZero())
	granted := chain.contractAt(fixture.Registry.Address()).roles[fixture.Linker.Address().String()]
	require.NotNil(t, granted)
	assert.True(t, contracts.LinkerRegistryRoles().Eq(granted))
}

func TestUpgradeLinkerToV3(t *testing.T) {
	ctx, chain, d, done := newTestDeployer(t, nil)
	defer done()

	fixture, err := d.DeployTokenLinkerV2(ctx, "signer1", nil)
	require.NoError(t, err)
	oldImpl, err := fixture.Linker.GetImplementation(ctx)
	require.NoError(t, err)

	target := types.RandAddress()
	require.NoError(t, fixture.Linker.WhitelistTargetContract(ctx, "signer1", target, true))

	upgraded, err := d.UpgradeLinkerToV3(ctx, "signer1", fixture.Linker)
	require.NoError(t, err)

	// same proxy address, new implementation behind it
	assert.Equal(t, fixture.Linker.Address(), upgraded.Address())
	assert.Equal(t, 1, chain.deployedCount(contracts.TokenLinkerV3))
	newImpl, err := upgraded.GetImplementation(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, oldImpl, newImpl)
	version, err := upgraded.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), version.Uint64())

	// state held by the proxy survives the upgrade
	features, err := upgraded.Features(ctx)
	require.NoError(t, err)
	assert.True(t, contracts.FeatureMaskAll.Eq(features))
	whitelisted, err := upgraded.IsTargetContractWhitelisted(ctx, target)
	require.NoError(t, err)
	assert.True(t, whitelisted)

	// and the v3 surface is live through the same address
	price, err := upgraded.LinkPrice(ctx)
	require.NoError(t, err)
	assert.True(t, price.IsZero())
	require.NoError(t, upgraded.SetLinkPrice(ctx, "signer1", uint256.NewInt(250)))
	price, err = upgraded.LinkPrice(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(250), price.Uint64())
}
