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
	"encoding/json"

	"github.com/AI-Protocol-Official/intelli-linker-contracts/internal/msgs"
	"github.com/AI-Protocol-Official/intelli-linker-contracts/pkg/ethclient"
	"github.com/AI-Protocol-Official/intelli-linker-contracts/pkg/types"
	"github.com/holiman/uint256"
	"github.com/hyperledger/firefly-common/pkg/i18n"
	"github.com/hyperledger/firefly-common/pkg/log"
)

// Contract is a handle to a deployed instance of one of the embedded
// contracts, bound to an address through an EthClient.
//
// The client may be an unconnected one when only call-data formatting is
// required - any attempt to submit or query then fails cleanly.
type Contract struct {
	kind Kind
	addr *types.EthAddress
	ec   ethclient.EthClient
	abic ethclient.ABIClient
}

// Bind wraps an already deployed contract of the given kind at the given
// address. No chain interaction happens here, so binding to an address that
// holds different (or no) code is not detected until first use.
func Bind(ctx context.Context, ec ethclient.EthClient, kind Kind, addr *types.EthAddress) (*Contract, error) {
	build, err := Build(ctx, kind)
	if err != nil {
		return nil, err
	}
	abic, err := ec.ABI(ctx, build.ABI)
	if err != nil {
		return nil, err
	}
	return &Contract{
		kind: kind,
		addr: addr,
		ec:   ec,
		abic: abic,
	}, nil
}

func (c *Contract) Kind() Kind                     { return c.kind }
func (c *Contract) Address() *types.EthAddress     { return c.addr }
func (c *Contract) ABIClient() ethclient.ABIClient { return c.abic }

// Invoke signs and submits a transaction to the named function, waits for
// the receipt, and returns an error carrying the revert reason if the
// transaction did not succeed. The receipt is returned in both cases.
func (c *Contract) Invoke(ctx context.Context, signer, fn string, input any) (*ethclient.TransactionReceiptResponse, error) {
	fc, err := c.abic.Function(ctx, fn)
	if err != nil {
		return nil, err
	}
	req := fc.R(ctx).Signer(signer).To(c.addr.Address0xHex())
	if input != nil {
		req = req.Input(input)
	}
	txHash, err := req.SignAndSend()
	if err != nil {
		return nil, err
	}
	receipt, err := c.ec.WaitForReceipt(ctx, txHash.String())
	if err != nil {
		return nil, err
	}
	if !receipt.Success {
		return receipt, i18n.NewError(ctx, msgs.MsgContractsInvokeReverted, fn, c.kind, RevertReason(receipt))
	}
	log.L(ctx).Debugf("%s[%s] %s txHash=%s", c.kind, c.addr, fn, txHash)
	return receipt, nil
}

// Call executes a read-only function against the latest block, decoding the
// outputs into the supplied struct or map. Unnamed outputs are keyed by
// their position ("0", "1", ...).
func (c *Contract) Call(ctx context.Context, fn string, input, output any) error {
	fc, err := c.abic.Function(ctx, fn)
	if err != nil {
		return err
	}
	req := fc.R(ctx).To(c.addr.Address0xHex()).Output(output)
	if input != nil {
		req = req.Input(input)
	}
	return req.Call()
}

// UpdateFeatures requests the supplied feature mask be set on the contract.
// The contract is free to assign a subset of the requested bits.
func (c *Contract) UpdateFeatures(ctx context.Context, signer string, mask *uint256.Int) error {
	_, err := c.Invoke(ctx, signer, "updateFeatures", map[string]any{
		"mask": mask.Dec(),
	})
	return err
}

// Features reads back the feature mask currently enabled on the contract.
func (c *Contract) Features(ctx context.Context) (*uint256.Int, error) {
	return c.callUint256(ctx, "features")
}

// UpdateRole assigns the supplied role mask to an operator address.
func (c *Contract) UpdateRole(ctx context.Context, signer string, operator *types.EthAddress, role *uint256.Int) error {
	_, err := c.Invoke(ctx, signer, "updateRole", map[string]any{
		"operator": operator.String(),
		"role":     role.Dec(),
	})
	return err
}

// IsOperatorInRole checks the operator holds every bit of the required role
// mask.
func (c *Contract) IsOperatorInRole(ctx context.Context, operator *types.EthAddress, required *uint256.Int) (bool, error) {
	var out struct {
		OK bool `json:"0"`
	}
	err := c.Call(ctx, "isOperatorInRole", map[string]any{
		"operator": operator.String(),
		"required": required.Dec(),
	}, &out)
	return out.OK, err
}

func (c *Contract) callUint256(ctx context.Context, fn string) (*uint256.Int, error) {
	var out struct {
		Value string `json:"0"`
	}
	if err := c.Call(ctx, fn, nil, &out); err != nil {
		return nil, err
	}
	v, err := uint256.FromDecimal(out.Value)
	if err != nil {
		return nil, i18n.WrapError(ctx, err, msgs.MsgContractsUnexpectedOutput, fn, c.kind, out.Value)
	}
	return v, nil
}

func (c *Contract) callAddress(ctx context.Context, fn string) (*types.EthAddress, error) {
	var out struct {
		Value string `json:"0"`
	}
	if err := c.Call(ctx, fn, nil, &out); err != nil {
		return nil, err
	}
	addr, err := types.ParseEthAddress(out.Value)
	if err != nil {
		return nil, i18n.WrapError(ctx, err, msgs.MsgContractsUnexpectedOutput, fn, c.kind, out.Value)
	}
	return addr, nil
}

// RevertReason digs the error message out of the extra info attached to a
// failed transaction's receipt, falling back to a fixed string when the node
// gave nothing usable back.
func RevertReason(receipt *ethclient.TransactionReceiptResponse) string {
	if receipt.ExtraInfo != nil {
		var extra struct {
			ErrorMessage *string `json:"errorMessage"`
		}
		if err := json.Unmarshal(receipt.ExtraInfo.Bytes(), &extra); err == nil && extra.ErrorMessage != nil && *extra.ErrorMessage != "" {
			return *extra.ErrorMessage
		}
	}
	return "transaction reverted"
}
