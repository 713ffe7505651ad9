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
	"context"

	"github.com/AI-Protocol-Official/intelli-linker-contracts/internal/msgs"
	"github.com/AI-Protocol-Official/intelli-linker-contracts/pkg/contracts"
	"github.com/AI-Protocol-Official/intelli-linker-contracts/pkg/types"
	"github.com/holiman/uint256"
	"github.com/hyperledger/firefly-common/pkg/i18n"
)

// FactoryFixture is the result of a collection factory deployment.
type FactoryFixture struct {
	Collection *contracts.Contract
	Factory    *contracts.Factory
}

// DeployCollectionFactoryPure deploys just the factory. The collection
// address and the mint cap must both be supplied.
func (d *Deployer) DeployCollectionFactoryPure(ctx context.Context, signer string, collection *types.EthAddress, mintCap *uint256.Int) (*contracts.Factory, error) {
	if err := requireAddress(ctx, contracts.CollectionFactory, "collection", collection); err != nil {
		return nil, err
	}
	if mintCap == nil {
		return nil, i18n.NewError(ctx, msgs.MsgFixturesMissingDependency, "mintCap", contracts.CollectionFactory)
	}
	c, err := d.deployContract(ctx, signer, contracts.CollectionFactory, map[string]any{
		"collection": collection.String(),
		"mintCap":    mintCap.Dec(),
	})
	if err != nil {
		return nil, err
	}
	return &contracts.Factory{Contract: c}, nil
}

// DeployCollectionFactoryRestricted deploys the factory, deploying a
// collection if no address was supplied and defaulting the mint cap from
// the deployer configuration.
func (d *Deployer) DeployCollectionFactoryRestricted(ctx context.Context, signer string, collection *types.EthAddress, mintCap *uint256.Int) (*FactoryFixture, error) {
	fixture := &FactoryFixture{}
	var err error
	if fixture.Collection, err = d.resolveCollection(ctx, signer, collection); err != nil {
		return nil, err
	}
	if mintCap == nil {
		mintCap = d.mintCap
	}
	if fixture.Factory, err = d.DeployCollectionFactoryPure(ctx, signer, fixture.Collection.Address(), mintCap); err != nil {
		return nil, err
	}
	return fixture, nil
}

// DeployCollectionFactory deploys the factory ready for use - features
// enabled, and the creator role granted on the collection so the factory
// can mint.
func (d *Deployer) DeployCollectionFactory(ctx context.Context, signer string, collection *types.EthAddress, mintCap *uint256.Int) (*FactoryFixture, error) {
	fixture, err := d.DeployCollectionFactoryRestricted(ctx, signer, collection, mintCap)
	if err != nil {
		return nil, err
	}
	if err := d.enableAllFeatures(ctx, signer, fixture.Factory.Contract); err != nil {
		return nil, err
	}
	if err := d.grantRole(ctx, signer, fixture.Collection, fixture.Factory.Address(), contracts.RoleCreator); err != nil {
		return nil, err
	}
	return fixture, nil
}

// StakingFixture is the result of a collection staking deployment.
type StakingFixture struct {
	Collection *contracts.Contract
	Staking    *contracts.Staking
}

// DeployCollectionStakingPure deploys just the staking contract against an
// existing collection address.
func (d *Deployer) DeployCollectionStakingPure(ctx context.Context, signer string, collection *types.EthAddress) (*contracts.Staking, error) {
	if err := requireAddress(ctx, contracts.CollectionStaking, "collection", collection); err != nil {
		return nil, err
	}
	c, err := d.deployContract(ctx, signer, contracts.CollectionStaking, map[string]any{
		"collection": collection.String(),
	})
	if err != nil {
		return nil, err
	}
	return &contracts.Staking{Contract: c}, nil
}

// DeployCollectionStakingRestricted deploys the staking contract, deploying
// a collection if no address was supplied.
func (d *Deployer) DeployCollectionStakingRestricted(ctx context.Context, signer string, collection *types.EthAddress) (*StakingFixture, error) {
	fixture := &StakingFixture{}
	var err error
	if fixture.Collection, err = d.resolveCollection(ctx, signer, collection); err != nil {
		return nil, err
	}
	if fixture.Staking, err = d.DeployCollectionStakingPure(ctx, signer, fixture.Collection.Address()); err != nil {
		return nil, err
	}
	return fixture, nil
}

// DeployCollectionStaking deploys the staking contract with every feature
// enabled. Staking holds tokens rather than minting them, so no roles are
// granted on the collection.
func (d *Deployer) DeployCollectionStaking(ctx context.Context, signer string, collection *types.EthAddress) (*StakingFixture, error) {
	fixture, err := d.DeployCollectionStakingRestricted(ctx, signer, collection)
	if err != nil {
		return nil, err
	}
	if err := d.enableAllFeatures(ctx, signer, fixture.Staking.Contract); err != nil {
		return nil, err
	}
	return fixture, nil
}

// DropFixture is the result of a collection drop deployment.
type DropFixture struct {
	Collection *contracts.Contract
	Drop       *contracts.Contract
}

// DeployCollectionDropPure deploys just the airdrop contract against an
// existing collection address.
func (d *Deployer) DeployCollectionDropPure(ctx context.Context, signer string, collection *types.EthAddress) (*contracts.Contract, error) {
	if err := requireAddress(ctx, contracts.CollectionDrop, "collection", collection); err != nil {
		return nil, err
	}
	return d.deployContract(ctx, signer, contracts.CollectionDrop, map[string]any{
		"collection": collection.String(),
	})
}

// DeployCollectionDropRestricted deploys the airdrop contract, deploying a
// collection if no address was supplied.
func (d *Deployer) DeployCollectionDropRestricted(ctx context.Context, signer string, collection *types.EthAddress) (*DropFixture, error) {
	fixture := &DropFixture{}
	var err error
	if fixture.Collection, err = d.resolveCollection(ctx, signer, collection); err != nil {
		return nil, err
	}
	if fixture.Drop, err = d.DeployCollectionDropPure(ctx, signer, fixture.Collection.Address()); err != nil {
		return nil, err
	}
	return fixture, nil
}

// DeployCollectionDrop deploys the airdrop contract ready for use -
// features enabled, and the creator role granted on the collection so the
// drop can mint to recipients.
func (d *Deployer) DeployCollectionDrop(ctx context.Context, signer string, collection *types.EthAddress) (*DropFixture, error) {
	fixture, err := d.DeployCollectionDropRestricted(ctx, signer, collection)
	if err != nil {
		return nil, err
	}
	if err := d.enableAllFeatures(ctx, signer, fixture.Drop); err != nil {
		return nil, err
	}
	if err := d.grantRole(ctx, signer, fixture.Collection, fixture.Drop.Address(), contracts.RoleCreator); err != nil {
		return nil, err
	}
	return fixture, nil
}
