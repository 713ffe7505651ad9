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

	"github.com/AI-Protocol-Official/intelli-linker-contracts/pkg/contracts"
	"github.com/AI-Protocol-Official/intelli-linker-contracts/pkg/types"
)

// DeployFungibleTokenPure deploys just the FungibleToken contract. The
// initial holder address must be supplied.
func (d *Deployer) DeployFungibleTokenPure(ctx context.Context, signer string, initialHolder *types.EthAddress) (*contracts.Contract, error) {
	if err := requireAddress(ctx, contracts.FungibleToken, "initialHolder", initialHolder); err != nil {
		return nil, err
	}
	return d.deployContract(ctx, signer, contracts.FungibleToken, map[string]any{
		"initialHolder": initialHolder.String(),
	})
}

// DeployFungibleTokenRestricted deploys the token, defaulting the initial
// holder to the signer's own address. No features are enabled.
func (d *Deployer) DeployFungibleTokenRestricted(ctx context.Context, signer string, initialHolder *types.EthAddress) (*contracts.Contract, error) {
	if initialHolder == nil {
		var err error
		if initialHolder, err = d.signerAddress(ctx, signer); err != nil {
			return nil, err
		}
	}
	return d.DeployFungibleTokenPure(ctx, signer, initialHolder)
}

// DeployFungibleToken deploys the token ready for use, with every feature
// enabled.
func (d *Deployer) DeployFungibleToken(ctx context.Context, signer string, initialHolder *types.EthAddress) (*contracts.Contract, error) {
	token, err := d.DeployFungibleTokenRestricted(ctx, signer, initialHolder)
	if err != nil {
		return nil, err
	}
	if err := d.enableAllFeatures(ctx, signer, token); err != nil {
		return nil, err
	}
	return token, nil
}

// DeployNFTCollectionPure deploys the NFT collection with exactly the name
// and symbol supplied, even when empty.
func (d *Deployer) DeployNFTCollectionPure(ctx context.Context, signer, name, symbol string) (*contracts.Contract, error) {
	return d.deployContract(ctx, signer, contracts.NFTCollection, map[string]any{
		"name":   name,
		"symbol": symbol,
	})
}

// DeployNFTCollectionRestricted deploys the collection, defaulting an empty
// name or symbol from the deployer configuration.
func (d *Deployer) DeployNFTCollectionRestricted(ctx context.Context, signer, name, symbol string) (*contracts.Contract, error) {
	if name == "" {
		name = d.collectionName
	}
	if symbol == "" {
		symbol = d.collectionSymbol
	}
	return d.DeployNFTCollectionPure(ctx, signer, name, symbol)
}

// DeployNFTCollection deploys the collection with every feature enabled.
func (d *Deployer) DeployNFTCollection(ctx context.Context, signer, name, symbol string) (*contracts.Contract, error) {
	collection, err := d.DeployNFTCollectionRestricted(ctx, signer, name, symbol)
	if err != nil {
		return nil, err
	}
	if err := d.enableAllFeatures(ctx, signer, collection); err != nil {
		return nil, err
	}
	return collection, nil
}

// RegistryFixture is the result of a binding registry deployment, carrying
// the token the registry was bound to alongside the registry itself.
type RegistryFixture struct {
	Token    *contracts.Contract
	Registry *contracts.Contract
}

// DeployBindingRegistryPure deploys just the registry against an existing
// token address.
func (d *Deployer) DeployBindingRegistryPure(ctx context.Context, signer string, token *types.EthAddress) (*contracts.Contract, error) {
	if err := requireAddress(ctx, contracts.BindingRegistry, "token", token); err != nil {
		return nil, err
	}
	return d.deployContract(ctx, signer, contracts.BindingRegistry, map[string]any{
		"token": token.String(),
	})
}

// DeployBindingRegistryRestricted deploys the registry, first deploying a
// token if no address was supplied.
func (d *Deployer) DeployBindingRegistryRestricted(ctx context.Context, signer string, token *types.EthAddress) (*RegistryFixture, error) {
	fixture := &RegistryFixture{}
	var err error
	if fixture.Token, err = d.resolveToken(ctx, signer, token); err != nil {
		return nil, err
	}
	if fixture.Registry, err = d.DeployBindingRegistryPure(ctx, signer, fixture.Token.Address()); err != nil {
		return nil, err
	}
	return fixture, nil
}

// DeployBindingRegistry deploys the registry with every feature enabled.
func (d *Deployer) DeployBindingRegistry(ctx context.Context, signer string, token *types.EthAddress) (*RegistryFixture, error) {
	fixture, err := d.DeployBindingRegistryRestricted(ctx, signer, token)
	if err != nil {
		return nil, err
	}
	if err := d.enableAllFeatures(ctx, signer, fixture.Registry); err != nil {
		return nil, err
	}
	return fixture, nil
}

// resolveToken binds a supplied token address, or deploys a fresh token in
// restricted shape when none was given.
func (d *Deployer) resolveToken(ctx context.Context, signer string, token *types.EthAddress) (*contracts.Contract, error) {
	if token != nil {
		return contracts.Bind(ctx, d.ec, contracts.FungibleToken, token)
	}
	return d.DeployFungibleTokenRestricted(ctx, signer, nil)
}

// resolveCollection binds a supplied collection address, or deploys a fresh
// collection in restricted shape when none was given.
func (d *Deployer) resolveCollection(ctx context.Context, signer string, collection *types.EthAddress) (*contracts.Contract, error) {
	if collection != nil {
		return contracts.Bind(ctx, d.ec, contracts.NFTCollection, collection)
	}
	return d.DeployNFTCollectionRestricted(ctx, signer, "", "")
}
