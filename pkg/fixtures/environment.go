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
	"strings"

	"github.com/AI-Protocol-Official/intelli-linker-contracts/internal/confutil"
	"github.com/AI-Protocol-Official/intelli-linker-contracts/internal/msgs"
	"github.com/AI-Protocol-Official/intelli-linker-contracts/pkg/contracts"
	"github.com/AI-Protocol-Official/intelli-linker-contracts/pkg/types"
	"github.com/holiman/uint256"
	"github.com/hyperledger/firefly-common/pkg/i18n"
	"github.com/hyperledger/firefly-common/pkg/log"
)

// EnvironmentContract describes one contract in a deployment scenario.
// Contracts deploy in the order they are listed, and a dependency can name
// any contract earlier in the list instead of a literal address.
type EnvironmentContract struct {
	Name         *string           `yaml:"name"`         // defaults to the kind
	Kind         *string           `yaml:"kind"`         // required
	Mode         *string           `yaml:"mode"`         // pure, restricted or full (the default)
	Features     *string           `yaml:"features"`     // full mode only - replaces the all-features mask
	Dependencies map[string]string `yaml:"dependencies"` // hex address, or the name of an earlier contract
	Args         map[string]string `yaml:"args"`         // scalar constructor arguments
}

// EnvironmentConfig is a whole scenario, normally parsed from YAML.
type EnvironmentConfig struct {
	Contracts []*EnvironmentContract `yaml:"contracts"`
}

// Environment holds the handles for every contract a scenario deployed,
// keyed by scenario name. Dependencies resolved along the way, whether
// bound or freshly deployed, are stored under "<name>.<dependency>".
type Environment struct {
	byName map[string]*contracts.Contract
	order  []string
}

func (e *Environment) add(name string, c *contracts.Contract) {
	if _, exists := e.byName[name]; !exists {
		e.order = append(e.order, name)
	}
	e.byName[name] = c
}

// Contract returns the handle deployed (or bound) under the given scenario
// name, or nil.
func (e *Environment) Contract(name string) *contracts.Contract {
	return e.byName[name]
}

// Names lists every stored handle in deployment order.
func (e *Environment) Names() []string {
	names := make([]string, len(e.order))
	copy(names, e.order)
	return names
}

// DeployEnvironmentFile parses a YAML scenario from disk and deploys it.
func (d *Deployer) DeployEnvironmentFile(ctx context.Context, signer, filePath string) (*Environment, error) {
	var conf EnvironmentConfig
	if err := confutil.ReadAndParseYAMLFile(ctx, filePath, &conf); err != nil {
		return nil, i18n.WrapError(ctx, err, msgs.MsgFixturesScenarioParseFailed)
	}
	return d.DeployEnvironment(ctx, signer, &conf)
}

// DeployEnvironment deploys a scenario contract by contract, in order.
// Everything deployed before a failure stays deployed - there is no
// rollback on chain.
func (d *Deployer) DeployEnvironment(ctx context.Context, signer string, conf *EnvironmentConfig) (*Environment, error) {
	env := &Environment{byName: make(map[string]*contracts.Contract)}
	for i, ce := range conf.Contracts {
		if ce.Kind == nil || *ce.Kind == "" {
			return nil, i18n.NewError(ctx, msgs.MsgFixturesScenarioNoKind, i)
		}
		kind, ok := contracts.KindNamed(*ce.Kind)
		if !ok || kind == contracts.ERC1967Proxy {
			// the proxy is deployed implicitly by the upgradeable linkers
			return nil, i18n.NewError(ctx, msgs.MsgFixturesScenarioUnknownContract, *ce.Kind)
		}
		name := confutil.StringNotEmpty(ce.Name, *ce.Kind)
		if env.Contract(name) != nil {
			return nil, i18n.NewError(ctx, msgs.MsgFixturesScenarioDuplicateName, name)
		}
		mode := confutil.StringNotEmpty(ce.Mode, "full")
		switch mode {
		case "pure", "restricted", "full":
		default:
			return nil, i18n.NewError(ctx, msgs.MsgFixturesScenarioBadMode, mode, name)
		}
		log.L(ctx).Infof("Scenario contract %d: %s kind=%s mode=%s", i, name, kind, mode)
		if err := d.deployScenarioContract(ctx, signer, name, kind, mode, ce, env); err != nil {
			return nil, err
		}
	}
	return env, nil
}

func (d *Deployer) deployScenarioContract(ctx context.Context, signer, name string, kind contracts.Kind, mode string, ce *EnvironmentContract, env *Environment) error {

	deps := make(map[string]*types.EthAddress)
	for depName, ref := range ce.Dependencies {
		addr, err := resolveScenarioAddress(ctx, env, name, ref)
		if err != nil {
			return err
		}
		deps[depName] = addr
	}

	var featureMask *uint256.Int
	if mode == "full" {
		featureMask = contracts.FeatureMaskAll
		if ce.Features != nil {
			var err error
			if featureMask, err = contracts.ParseMask(ctx, *ce.Features); err != nil {
				return err
			}
		}
	}

	// full mode runs the restricted shape, then applies the mask and the
	// role grants, so a scenario can narrow the features switched on
	var main *contracts.Contract
	extras := make(map[string]*contracts.Contract)
	var grants func() error

	switch kind {

	case contracts.FungibleToken:
		var token *contracts.Contract
		var err error
		if mode == "pure" {
			token, err = d.DeployFungibleTokenPure(ctx, signer, deps["initialHolder"])
		} else {
			token, err = d.DeployFungibleTokenRestricted(ctx, signer, deps["initialHolder"])
		}
		if err != nil {
			return err
		}
		main = token

	case contracts.NFTCollection:
		var collection *contracts.Contract
		var err error
		if mode == "pure" {
			collection, err = d.DeployNFTCollectionPure(ctx, signer, ce.Args["name"], ce.Args["symbol"])
		} else {
			collection, err = d.DeployNFTCollectionRestricted(ctx, signer, ce.Args["name"], ce.Args["symbol"])
		}
		if err != nil {
			return err
		}
		main = collection

	case contracts.BindingRegistry:
		if mode == "pure" {
			registry, err := d.DeployBindingRegistryPure(ctx, signer, deps["token"])
			if err != nil {
				return err
			}
			main = registry
		} else {
			fixture, err := d.DeployBindingRegistryRestricted(ctx, signer, deps["token"])
			if err != nil {
				return err
			}
			main = fixture.Registry
			extras["token"] = fixture.Token
		}

	case contracts.TokenLinker, contracts.TokenLinkerV2, contracts.TokenLinkerV3:
		if mode == "pure" {
			linker, err := d.deployPureLinker(ctx, signer, kind, deps)
			if err != nil {
				return err
			}
			main = linker.Contract
		} else {
			linkerDeps := &LinkerDeps{Token: deps["token"], Collection: deps["collection"], Registry: deps["registry"]}
			var fixture *LinkerFixture
			var err error
			if kind == contracts.TokenLinker {
				fixture, err = d.DeployTokenLinkerRestricted(ctx, signer, linkerDeps)
			} else {
				fixture, err = d.restrictedUpgradeableLinker(ctx, signer, kind, linkerDeps)
			}
			if err != nil {
				return err
			}
			main = fixture.Linker.Contract
			extras["token"] = fixture.Token
			extras["collection"] = fixture.Collection
			extras["registry"] = fixture.Registry
			registry := fixture.Registry
			linkerAddr := fixture.Linker.Address()
			grants = func() error {
				return d.grantRole(ctx, signer, registry, linkerAddr, contracts.LinkerRegistryRoles())
			}
		}

	case contracts.CollectionFactory:
		var mintCap *uint256.Int
		if v, ok := ce.Args["mintCap"]; ok && v != "" {
			var err error
			if mintCap, err = parseUint256(ctx, v, "mintCap"); err != nil {
				return err
			}
		}
		if mode == "pure" {
			factory, err := d.DeployCollectionFactoryPure(ctx, signer, deps["collection"], mintCap)
			if err != nil {
				return err
			}
			main = factory.Contract
		} else {
			fixture, err := d.DeployCollectionFactoryRestricted(ctx, signer, deps["collection"], mintCap)
			if err != nil {
				return err
			}
			main = fixture.Factory.Contract
			extras["collection"] = fixture.Collection
			collection := fixture.Collection
			factoryAddr := fixture.Factory.Address()
			grants = func() error {
				return d.grantRole(ctx, signer, collection, factoryAddr, contracts.RoleCreator)
			}
		}

	case contracts.CollectionStaking:
		if mode == "pure" {
			staking, err := d.DeployCollectionStakingPure(ctx, signer, deps["collection"])
			if err != nil {
				return err
			}
			main = staking.Contract
		} else {
			fixture, err := d.DeployCollectionStakingRestricted(ctx, signer, deps["collection"])
			if err != nil {
				return err
			}
			main = fixture.Staking.Contract
			extras["collection"] = fixture.Collection
		}

	case contracts.CollectionDrop:
		if mode == "pure" {
			drop, err := d.DeployCollectionDropPure(ctx, signer, deps["collection"])
			if err != nil {
				return err
			}
			main = drop
		} else {
			fixture, err := d.DeployCollectionDropRestricted(ctx, signer, deps["collection"])
			if err != nil {
				return err
			}
			main = fixture.Drop
			extras["collection"] = fixture.Collection
			collection := fixture.Collection
			dropAddr := fixture.Drop.Address()
			grants = func() error {
				return d.grantRole(ctx, signer, collection, dropAddr, contracts.RoleCreator)
			}
		}

	default:
		return i18n.NewError(ctx, msgs.MsgFixturesScenarioUnknownContract, kind)
	}

	if mode == "full" {
		if err := d.applyFeatures(ctx, signer, main, featureMask); err != nil {
			return err
		}
		if grants != nil {
			if err := grants(); err != nil {
				return err
			}
		}
	}

	env.add(name, main)
	for depName, c := range extras {
		env.add(name+"."+depName, c)
	}
	return nil
}

func (d *Deployer) deployPureLinker(ctx context.Context, signer string, kind contracts.Kind, deps map[string]*types.EthAddress) (*contracts.Linker, error) {
	if kind == contracts.TokenLinker {
		return d.DeployTokenLinkerPure(ctx, signer, deps["token"], deps["collection"], deps["registry"])
	}
	return d.deployUpgradeableLinker(ctx, signer, kind, deps["token"], deps["collection"], deps["registry"])
}

func resolveScenarioAddress(ctx context.Context, env *Environment, contractName, ref string) (*types.EthAddress, error) {
	if strings.HasPrefix(ref, "0x") || strings.HasPrefix(ref, "0X") {
		addr, err := types.ParseEthAddress(ref)
		if err != nil {
			return nil, i18n.NewError(ctx, msgs.MsgFixturesScenarioBadReference, ref, contractName)
		}
		return addr, nil
	}
	if earlier := env.Contract(ref); earlier != nil {
		return earlier.Address(), nil
	}
	return nil, i18n.NewError(ctx, msgs.MsgFixturesScenarioBadReference, ref, contractName)
}
