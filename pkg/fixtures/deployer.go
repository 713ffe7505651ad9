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

// Package fixtures deploys the embedded contract family onto a chain in
// well known shapes, for integration environments and tests.
//
// Every contract comes in three shapes: a pure deployment where the caller
// supplies every dependency address, a restricted deployment where missing
// dependencies are deployed and defaulted but nothing is switched on, and a
// full deployment that also enables features and grants the roles the
// contract needs on its collaborators.
package fixtures

import (
	"context"
	"encoding/json"

	"github.com/AI-Protocol-Official/intelli-linker-contracts/internal/confutil"
	"github.com/AI-Protocol-Official/intelli-linker-contracts/internal/msgs"
	"github.com/AI-Protocol-Official/intelli-linker-contracts/pkg/contracts"
	"github.com/AI-Protocol-Official/intelli-linker-contracts/pkg/ethclient"
	"github.com/AI-Protocol-Official/intelli-linker-contracts/pkg/signer/api"
	"github.com/AI-Protocol-Official/intelli-linker-contracts/pkg/types"
	"github.com/google/uuid"
	"github.com/holiman/uint256"
	"github.com/hyperledger/firefly-common/pkg/i18n"
	"github.com/hyperledger/firefly-common/pkg/log"
)

// Config adjusts the defaults the deployer fills in when the caller leaves
// scalar constructor values unset in a restricted or full deployment.
type Config struct {
	CollectionName   *string `yaml:"collectionName"`
	CollectionSymbol *string `yaml:"collectionSymbol"`
	MintCap          *string `yaml:"mintCap"`
}

var Defaults = &Config{
	CollectionName:   confutil.P("Intelligent NFT Collection"),
	CollectionSymbol: confutil.P("iNFT"),
	MintCap:          confutil.P("10000"),
}

// Deployer deploys and configures contract fixtures through a signing
// client. Deployments are sequential, and a Deployer must not be shared
// between goroutines.
type Deployer struct {
	ec       ethclient.EthClient
	keymgr   ethclient.KeyManager
	recorder Recorder

	collectionName   string
	collectionSymbol string
	mintCap          *uint256.Int
}

func NewDeployer(ctx context.Context, conf *Config, ec ethclient.EthClient, keymgr ethclient.KeyManager) (*Deployer, error) {
	mintCap, err := parseUint256(ctx, confutil.StringNotEmpty(conf.MintCap, *Defaults.MintCap), "mintCap")
	if err != nil {
		return nil, err
	}
	return &Deployer{
		ec:               ec,
		keymgr:           keymgr,
		collectionName:   confutil.StringNotEmpty(conf.CollectionName, *Defaults.CollectionName),
		collectionSymbol: confutil.StringNotEmpty(conf.CollectionSymbol, *Defaults.CollectionSymbol),
		mintCap:          mintCap,
	}, nil
}

// SetRecorder attaches a recorder that is given every deployment as it
// lands on chain. A recorder failure fails the deployment that hit it.
func (d *Deployer) SetRecorder(recorder Recorder) {
	d.recorder = recorder
}

// deployContract runs one constructor end to end - submit, wait for the
// receipt, extract the new address, and bind a handle to it.
func (d *Deployer) deployContract(ctx context.Context, signer string, kind contracts.Kind, input map[string]any) (*contracts.Contract, error) {
	log.L(ctx).Infof("Deploying %s (signer=%s)", kind, signer)
	build, err := contracts.Build(ctx, kind)
	if err != nil {
		return nil, err
	}
	abic, err := d.ec.ABI(ctx, build.ABI)
	if err != nil {
		return nil, err
	}
	construct, err := abic.Constructor(ctx, build.Bytecode)
	if err != nil {
		return nil, err
	}
	req := construct.R(ctx).Signer(signer)
	if input != nil {
		req = req.Input(input)
	}
	txHash, err := req.SignAndSend()
	if err != nil {
		log.L(ctx).Errorf("Constructor of %s failed (reason=%s rejected=%t): %s",
			kind, ethclient.MapError(err), ethclient.MapSubmissionRejected(err), err)
		return nil, i18n.WrapError(ctx, err, msgs.MsgFixturesDeployFailed, kind)
	}
	receipt, err := d.ec.WaitForReceipt(ctx, txHash.String())
	if err != nil {
		return nil, i18n.WrapError(ctx, err, msgs.MsgFixturesDeployFailed, kind)
	}
	if !receipt.Success {
		err := i18n.NewError(ctx, msgs.MsgContractsInvokeReverted, "constructor", kind, contracts.RevertReason(receipt))
		return nil, i18n.WrapError(ctx, err, msgs.MsgFixturesDeployFailed, kind)
	}
	addr, err := contractAddress(ctx, kind, receipt)
	if err != nil {
		return nil, err
	}
	c, err := contracts.Bind(ctx, d.ec, kind, addr)
	if err != nil {
		return nil, err
	}
	if err := d.record(ctx, signer, c, txHash, input); err != nil {
		return nil, err
	}
	log.L(ctx).Infof("Deployed %s at %s (tx=%s)", kind, addr, txHash)
	return c, nil
}

func contractAddress(ctx context.Context, kind contracts.Kind, receipt *ethclient.TransactionReceiptResponse) (*types.EthAddress, error) {
	if receipt.ContractLocation == nil {
		return nil, i18n.NewError(ctx, msgs.MsgFixturesDeployNoAddress, kind)
	}
	var location struct {
		Address string `json:"address"`
	}
	if err := json.Unmarshal(receipt.ContractLocation.Bytes(), &location); err != nil || location.Address == "" {
		return nil, i18n.NewError(ctx, msgs.MsgFixturesDeployNoAddress, kind)
	}
	addr, err := types.ParseEthAddress(location.Address)
	if err != nil {
		return nil, i18n.NewError(ctx, msgs.MsgFixturesDeployNoAddress, kind)
	}
	return addr, nil
}

func (d *Deployer) record(ctx context.Context, signer string, c *contracts.Contract, txHash *types.Bytes32, input map[string]any) error {
	if d.recorder == nil {
		return nil
	}
	var args *types.JSONP[map[string]any]
	if input != nil {
		args = types.WrapJSONP(input)
	}
	err := d.recorder.RecordDeployment(ctx, &DeploymentRecord{
		ID:         uuid.New(),
		Kind:       types.Enum[contracts.Kind](c.Kind()),
		Address:    *c.Address(),
		TXHash:     *txHash,
		DeployedBy: signer,
		Args:       args,
	})
	if err != nil {
		return i18n.WrapError(ctx, err, msgs.MsgFixturesRecorderFailed, c.Kind())
	}
	return nil
}

// enableAllFeatures switches on the full feature mask, as the last step of
// every full-shape deployment.
func (d *Deployer) enableAllFeatures(ctx context.Context, signer string, c *contracts.Contract) error {
	return d.applyFeatures(ctx, signer, c, contracts.FeatureMaskAll)
}

func (d *Deployer) applyFeatures(ctx context.Context, signer string, c *contracts.Contract, mask *uint256.Int) error {
	if err := c.UpdateFeatures(ctx, signer, mask); err != nil {
		return i18n.WrapError(ctx, err, msgs.MsgFixturesConfigureFailed, c.Kind())
	}
	return nil
}

func (d *Deployer) grantRole(ctx context.Context, signer string, on *contracts.Contract, operator *types.EthAddress, role *uint256.Int) error {
	if err := on.UpdateRole(ctx, signer, operator, role); err != nil {
		return i18n.WrapError(ctx, err, msgs.MsgFixturesConfigureFailed, on.Kind())
	}
	return nil
}

// signerAddress resolves a signer identifier to its address, creating the
// key if the key manager has not seen the identifier before.
func (d *Deployer) signerAddress(ctx context.Context, signer string) (*types.EthAddress, error) {
	_, verifier, err := d.keymgr.ResolveKey(ctx, signer, api.Algorithm_ECDSA_SECP256K1_PLAINBYTES)
	if err != nil {
		return nil, err
	}
	return types.ParseEthAddress(verifier)
}

func requireAddress(ctx context.Context, kind contracts.Kind, name string, addr *types.EthAddress) error {
	if addr == nil {
		return i18n.NewError(ctx, msgs.MsgFixturesMissingDependency, name, kind)
	}
	return nil
}

func parseUint256(ctx context.Context, s, field string) (*uint256.Int, error) {
	v, err := contracts.ParseMask(ctx, s)
	if err != nil {
		return nil, i18n.NewError(ctx, msgs.MsgFixturesBadIntegerValue, s, field)
	}
	return v, nil
}
