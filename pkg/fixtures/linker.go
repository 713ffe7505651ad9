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
	"github.com/hyperledger/firefly-common/pkg/i18n"
	"github.com/hyperledger/firefly-common/pkg/log"
)

// LinkerDeps carries the dependency addresses for a linker deployment. Any
// nil entry is deployed fresh by the restricted and full shapes.
type LinkerDeps struct {
	Token      *types.EthAddress
	Collection *types.EthAddress
	Registry   *types.EthAddress
}

// LinkerFixture is the result of a linker deployment - the linker itself
// plus every resolved dependency, whether supplied or deployed.
type LinkerFixture struct {
	Token      *contracts.Contract
	Collection *contracts.Contract
	Registry   *contracts.Contract
	Linker     *contracts.Linker
}

// DeployTokenLinkerPure deploys just the v1 linker. All three dependency
// addresses must be supplied.
func (d *Deployer) DeployTokenLinkerPure(ctx context.Context, signer string, token, collection, registry *types.EthAddress) (*contracts.Linker, error) {
	if err := requireLinkerDeps(ctx, contracts.TokenLinker, token, collection, registry); err != nil {
		return nil, err
	}
	c, err := d.deployContract(ctx, signer, contracts.TokenLinker, map[string]any{
		"token":      token.String(),
		"collection": collection.String(),
		"registry":   registry.String(),
	})
	if err != nil {
		return nil, err
	}
	return &contracts.Linker{Contract: c}, nil
}

// DeployTokenLinkerRestricted deploys the v1 linker, deploying any missing
// dependency first. The registry is always bound to the resolved token.
func (d *Deployer) DeployTokenLinkerRestricted(ctx context.Context, signer string, deps *LinkerDeps) (*LinkerFixture, error) {
	fixture, err := d.resolveLinkerDeps(ctx, signer, deps)
	if err != nil {
		return nil, err
	}
	fixture.Linker, err = d.DeployTokenLinkerPure(ctx, signer,
		fixture.Token.Address(), fixture.Collection.Address(), fixture.Registry.Address())
	if err != nil {
		return nil, err
	}
	return fixture, nil
}

// DeployTokenLinker deploys the v1 linker ready for use - dependencies
// resolved, every feature enabled, and the registry roles granted.
func (d *Deployer) DeployTokenLinker(ctx context.Context, signer string, deps *LinkerDeps) (*LinkerFixture, error) {
	fixture, err := d.DeployTokenLinkerRestricted(ctx, signer, deps)
	if err != nil {
		return nil, err
	}
	if err := d.configureLinker(ctx, signer, fixture); err != nil {
		return nil, err
	}
	return fixture, nil
}

// DeployTokenLinkerV2Pure deploys the upgradeable v2 linker - the
// implementation first, then an ERC1967 proxy constructed against it with
// an encoded initialize call. The returned handle is bound to the proxy.
func (d *Deployer) DeployTokenLinkerV2Pure(ctx context.Context, signer string, token, collection, registry *types.EthAddress) (*contracts.Linker, error) {
	return d.deployUpgradeableLinker(ctx, signer, contracts.TokenLinkerV2, token, collection, registry)
}

// DeployTokenLinkerV2Restricted deploys the v2 linker behind its proxy,
// deploying any missing dependency first.
func (d *Deployer) DeployTokenLinkerV2Restricted(ctx context.Context, signer string, deps *LinkerDeps) (*LinkerFixture, error) {
	return d.restrictedUpgradeableLinker(ctx, signer, contracts.TokenLinkerV2, deps)
}

// DeployTokenLinkerV2 deploys the v2 linker behind its proxy, fully
// configured.
func (d *Deployer) DeployTokenLinkerV2(ctx context.Context, signer string, deps *LinkerDeps) (*LinkerFixture, error) {
	return d.fullUpgradeableLinker(ctx, signer, contracts.TokenLinkerV2, deps)
}

// DeployTokenLinkerV3Pure deploys the v3 linker behind a fresh proxy. To
// move an existing v2 proxy to v3 use UpgradeLinkerToV3 instead.
func (d *Deployer) DeployTokenLinkerV3Pure(ctx context.Context, signer string, token, collection, registry *types.EthAddress) (*contracts.Linker, error) {
	return d.deployUpgradeableLinker(ctx, signer, contracts.TokenLinkerV3, token, collection, registry)
}

// DeployTokenLinkerV3Restricted deploys the v3 linker behind its proxy,
// deploying any missing dependency first.
func (d *Deployer) DeployTokenLinkerV3Restricted(ctx context.Context, signer string, deps *LinkerDeps) (*LinkerFixture, error) {
	return d.restrictedUpgradeableLinker(ctx, signer, contracts.TokenLinkerV3, deps)
}

// DeployTokenLinkerV3 deploys the v3 linker behind its proxy, fully
// configured.
func (d *Deployer) DeployTokenLinkerV3(ctx context.Context, signer string, deps *LinkerDeps) (*LinkerFixture, error) {
	return d.fullUpgradeableLinker(ctx, signer, contracts.TokenLinkerV3, deps)
}

// UpgradeLinkerToV3 deploys a fresh v3 implementation and switches an
// already deployed proxy over to it. The returned handle is rebound at the
// same address with the v3 ABI, and all state behind the proxy survives.
func (d *Deployer) UpgradeLinkerToV3(ctx context.Context, signer string, linker *contracts.Linker) (*contracts.Linker, error) {
	impl, err := d.deployContract(ctx, signer, contracts.TokenLinkerV3, nil)
	if err != nil {
		return nil, err
	}
	if err := linker.UpgradeTo(ctx, signer, impl.Address()); err != nil {
		return nil, i18n.WrapError(ctx, err, msgs.MsgFixturesConfigureFailed, contracts.TokenLinkerV3)
	}
	log.L(ctx).Infof("Upgraded linker proxy %s to %s implementation %s", linker.Address(), contracts.TokenLinkerV3, impl.Address())
	return contracts.BindLinker(ctx, d.ec, contracts.TokenLinkerV3, linker.Address())
}

func requireLinkerDeps(ctx context.Context, kind contracts.Kind, token, collection, registry *types.EthAddress) error {
	if err := requireAddress(ctx, kind, "token", token); err != nil {
		return err
	}
	if err := requireAddress(ctx, kind, "collection", collection); err != nil {
		return err
	}
	return requireAddress(ctx, kind, "registry", registry)
}

// resolveLinkerDeps resolves the three linker dependencies in order,
// deploying whatever was not supplied. The token goes first so a freshly
// deployed registry can be bound to it.
func (d *Deployer) resolveLinkerDeps(ctx context.Context, signer string, deps *LinkerDeps) (*LinkerFixture, error) {
	if deps == nil {
		deps = &LinkerDeps{}
	}
	fixture := &LinkerFixture{}
	var err error
	if fixture.Token, err = d.resolveToken(ctx, signer, deps.Token); err != nil {
		return nil, err
	}
	if fixture.Collection, err = d.resolveCollection(ctx, signer, deps.Collection); err != nil {
		return nil, err
	}
	if deps.Registry != nil {
		fixture.Registry, err = contracts.Bind(ctx, d.ec, contracts.BindingRegistry, deps.Registry)
	} else {
		fixture.Registry, err = d.DeployBindingRegistryPure(ctx, signer, fixture.Token.Address())
	}
	if err != nil {
		return nil, err
	}
	return fixture, nil
}

func (d *Deployer) deployUpgradeableLinker(ctx context.Context, signer string, kind contracts.Kind, token, collection, registry *types.EthAddress) (*contracts.Linker, error) {
	if err := requireLinkerDeps(ctx, kind, token, collection, registry); err != nil {
		return nil, err
	}
	impl, err := d.deployContract(ctx, signer, kind, nil)
	if err != nil {
		return nil, err
	}
	initData, err := packInitialize(ctx, impl, token, collection, registry)
	if err != nil {
		return nil, err
	}
	proxy, err := d.deployContract(ctx, signer, contracts.ERC1967Proxy, map[string]any{
		"implementation": impl.Address().String(),
		"data":           initData.String(),
	})
	if err != nil {
		return nil, err
	}
	return contracts.BindLinker(ctx, d.ec, kind, proxy.Address())
}

func (d *Deployer) restrictedUpgradeableLinker(ctx context.Context, signer string, kind contracts.Kind, deps *LinkerDeps) (*LinkerFixture, error) {
	fixture, err := d.resolveLinkerDeps(ctx, signer, deps)
	if err != nil {
		return nil, err
	}
	fixture.Linker, err = d.deployUpgradeableLinker(ctx, signer, kind,
		fixture.Token.Address(), fixture.Collection.Address(), fixture.Registry.Address())
	if err != nil {
		return nil, err
	}
	return fixture, nil
}

func (d *Deployer) fullUpgradeableLinker(ctx context.Context, signer string, kind contracts.Kind, deps *LinkerDeps) (*LinkerFixture, error) {
	fixture, err := d.restrictedUpgradeableLinker(ctx, signer, kind, deps)
	if err != nil {
		return nil, err
	}
	if err := d.configureLinker(ctx, signer, fixture); err != nil {
		return nil, err
	}
	return fixture, nil
}

// configureLinker enables every feature on the linker, and grants it the
// minter, burner and editor roles on the binding registry.
func (d *Deployer) configureLinker(ctx context.Context, signer string, fixture *LinkerFixture) error {
	if err := d.enableAllFeatures(ctx, signer, fixture.Linker.Contract); err != nil {
		return err
	}
	return d.grantRole(ctx, signer, fixture.Registry, fixture.Linker.Address(), contracts.LinkerRegistryRoles())
}

// packInitialize encodes the initialize call the proxy constructor runs
// against the implementation.
func packInitialize(ctx context.Context, impl *contracts.Contract, token, collection, registry *types.EthAddress) (types.HexBytes, error) {
	fc, err := impl.ABIClient().Function(ctx, "initialize")
	if err != nil {
		return nil, err
	}
	req := fc.R(ctx).To(impl.Address().Address0xHex()).Input(map[string]any{
		"token":      token.String(),
		"collection": collection.String(),
		"registry":   registry.String(),
	})
	if err := req.BuildCallData(); err != nil {
		return nil, err
	}
	return types.HexBytes(req.TX().Data), nil
}
