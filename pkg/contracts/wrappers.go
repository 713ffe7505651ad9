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
	"strconv"

	"github.com/AI-Protocol-Official/intelli-linker-contracts/pkg/ethclient"
	"github.com/AI-Protocol-Official/intelli-linker-contracts/pkg/types"
	"github.com/holiman/uint256"
)

// Linker wraps a contract handle with the operations of the token linker
// family. For TokenLinkerV2 and TokenLinkerV3 the bound address is normally
// the proxy, so upgrades keep the handle valid.
type Linker struct {
	*Contract
}

func BindLinker(ctx context.Context, ec ethclient.EthClient, kind Kind, addr *types.EthAddress) (*Linker, error) {
	c, err := Bind(ctx, ec, kind, addr)
	if err != nil {
		return nil, err
	}
	return &Linker{Contract: c}, nil
}

// WhitelistTargetContract marks a target contract address as allowed (or
// disallowed) for linking.
func (l *Linker) WhitelistTargetContract(ctx context.Context, signer string, target *types.EthAddress, allowed bool) error {
	_, err := l.Invoke(ctx, signer, "whitelistTargetContract", map[string]any{
		"target":  target.String(),
		"allowed": allowed,
	})
	return err
}

func (l *Linker) IsTargetContractWhitelisted(ctx context.Context, target *types.EthAddress) (bool, error) {
	var out struct {
		Allowed bool `json:"0"`
	}
	err := l.Call(ctx, "isTargetContractWhitelisted", map[string]any{
		"target": target.String(),
	}, &out)
	return out.Allowed, err
}

// Version returns the linker implementation version, read through the proxy
// when one is in front.
func (l *Linker) Version(ctx context.Context) (*uint256.Int, error) {
	return l.callUint256(ctx, "version")
}

func (l *Linker) Token(ctx context.Context) (*types.EthAddress, error) {
	return l.callAddress(ctx, "token")
}

func (l *Linker) Collection(ctx context.Context) (*types.EthAddress, error) {
	return l.callAddress(ctx, "collection")
}

func (l *Linker) Registry(ctx context.Context) (*types.EthAddress, error) {
	return l.callAddress(ctx, "registry")
}

// UpgradeTo switches the proxy to a new implementation. Only available on
// the upgradeable linker versions.
func (l *Linker) UpgradeTo(ctx context.Context, signer string, newImplementation *types.EthAddress) error {
	_, err := l.Invoke(ctx, signer, "upgradeTo", map[string]any{
		"newImplementation": newImplementation.String(),
	})
	return err
}

func (l *Linker) GetImplementation(ctx context.Context) (*types.EthAddress, error) {
	return l.callAddress(ctx, "getImplementation")
}

// SetLinkPrice sets the price charged per link. TokenLinkerV3 only.
func (l *Linker) SetLinkPrice(ctx context.Context, signer string, price *uint256.Int) error {
	_, err := l.Invoke(ctx, signer, "setLinkPrice", map[string]any{
		"price": price.Dec(),
	})
	return err
}

func (l *Linker) LinkPrice(ctx context.Context) (*uint256.Int, error) {
	return l.callUint256(ctx, "linkPrice")
}

// Staking wraps a CollectionStaking contract, which carries an adjustable
// clock so time dependent behavior can be driven deterministically.
type Staking struct {
	*Contract
}

func BindStaking(ctx context.Context, ec ethclient.EthClient, addr *types.EthAddress) (*Staking, error) {
	c, err := Bind(ctx, ec, CollectionStaking, addr)
	if err != nil {
		return nil, err
	}
	return &Staking{Contract: c}, nil
}

// SetNow32 overrides the contract's view of the current time.
func (s *Staking) SetNow32(ctx context.Context, signer string, value uint32) error {
	_, err := s.Invoke(ctx, signer, "setNow32", map[string]any{
		"value": strconv.FormatUint(uint64(value), 10),
	})
	return err
}

func (s *Staking) Now32(ctx context.Context) (uint32, error) {
	v, err := s.callUint256(ctx, "now32")
	if err != nil {
		return 0, err
	}
	return uint32(v.Uint64()), nil
}

// Factory wraps a CollectionFactory contract.
type Factory struct {
	*Contract
}

func BindFactory(ctx context.Context, ec ethclient.EthClient, addr *types.EthAddress) (*Factory, error) {
	c, err := Bind(ctx, ec, CollectionFactory, addr)
	if err != nil {
		return nil, err
	}
	return &Factory{Contract: c}, nil
}

// MintCap returns the immutable cap the factory was deployed with.
func (f *Factory) MintCap(ctx context.Context) (*uint256.Int, error) {
	return f.callUint256(ctx, "mintCap")
}

// Minted returns how many tokens the factory has minted so far.
func (f *Factory) Minted(ctx context.Context) (*uint256.Int, error) {
	return f.callUint256(ctx, "minted")
}
