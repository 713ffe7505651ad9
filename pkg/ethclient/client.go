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

package ethclient

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/AI-Protocol-Official/intelli-linker-contracts/internal/confutil"
	"github.com/AI-Protocol-Official/intelli-linker-contracts/internal/msgs"
	"github.com/AI-Protocol-Official/intelli-linker-contracts/internal/retry"
	"github.com/AI-Protocol-Official/intelli-linker-contracts/pkg/signer/api"
	"github.com/AI-Protocol-Official/intelli-linker-contracts/pkg/types"
	"github.com/hyperledger/firefly-common/pkg/fftypes"
	"github.com/hyperledger/firefly-common/pkg/i18n"
	"github.com/hyperledger/firefly-common/pkg/log"
	"github.com/hyperledger/firefly-signer/pkg/abi"
	"github.com/hyperledger/firefly-signer/pkg/ethsigner"
	"github.com/hyperledger/firefly-signer/pkg/ethtypes"
	"github.com/hyperledger/firefly-signer/pkg/rpcbackend"
	"github.com/hyperledger/firefly-signer/pkg/secp256k1"
	"golang.org/x/crypto/sha3"
)

// Higher level client interface to the base Ethereum ledger for TX submission.
// The fixture deployment engine drives everything through this interface, so the
// ABI() wrappers below are the primary surface area for contract interactions.
type EthClient interface {
	Close()
	ABI(ctx context.Context, a abi.ABI) (ABIClient, error)
	ABIJSON(ctx context.Context, abiJson []byte) (ABIClient, error)
	ABIFunction(ctx context.Context, functionABI *abi.Entry) (_ ABIFunctionClient, err error)
	ABIConstructor(ctx context.Context, constructorABI *abi.Entry, bytecode types.HexBytes) (_ ABIFunctionClient, err error)
	MustABIJSON(abiJson []byte) ABIClient
	ChainID() int64

	// Below are raw functions that the ABI() above provides wrappers for
	GasPrice(ctx context.Context) (gasPrice *ethtypes.HexInteger, err error)
	GetBalance(ctx context.Context, address string, block string) (balance *ethtypes.HexInteger, err error)
	GasEstimate(ctx context.Context, tx *ethsigner.Transaction) (gasLimit *ethtypes.HexInteger, err error)
	GetTransactionCount(ctx context.Context, fromAddr string) (transactionCount *ethtypes.HexUint64, err error)
	GetTransactionReceipt(ctx context.Context, txHash string) (*TransactionReceiptResponse, error)
	WaitForReceipt(ctx context.Context, txHash string) (*TransactionReceiptResponse, error)
	CallContract(ctx context.Context, from *string, tx *ethsigner.Transaction, block string) (data types.HexBytes, err error)
	BuildRawTransaction(ctx context.Context, txVersion EthTXVersion, from string, tx *ethsigner.Transaction) (types.HexBytes, error)
	SendRawTransaction(ctx context.Context, rawTX types.HexBytes) (*types.Bytes32, error)
}

type KeyManager interface {
	ResolveKey(ctx context.Context, identifier string, algorithm string) (keyHandle, verifier string, err error)
	Sign(ctx context.Context, req *api.SignRequest) (*api.SignResponse, error)
	Close()
}

type ethClient struct {
	chainID           int64
	gasEstimateFactor float64
	rpc               rpcbackend.RPC
	keymgr            KeyManager
	receiptPolling    *retry.Retry
}

// A direct creation of a dedicated RPC client for things like unit tests.
// Most code uses the EthClientFactory instead, so the HTTP and WebSocket clients are
// constructed together against a common set of configuration
func WrapRPCClient(ctx context.Context, keymgr KeyManager, rpc rpcbackend.RPC, conf *Config) (EthClient, error) {
	ec := &ethClient{
		keymgr:            keymgr,
		rpc:               rpc,
		gasEstimateFactor: confutil.Float64Min(conf.GasEstimateFactor, 1.0, *Defaults.GasEstimateFactor),
		receiptPolling:    retry.NewRetryIndefinite(&conf.ReceiptPolling),
	}
	if err := ec.setupChainID(ctx); err != nil {
		return nil, err
	}
	return ec, nil
}

// This is useful in cases where the RPC client is used only for ABI formatting.
// All JSON/RPC requests will fail, and there is no chain ID available
func NewUnconnectedRPCClient(ctx context.Context, conf *Config, chainID int64) EthClient {
	return &ethClient{
		rpc:               &unconnectedRPC{},
		gasEstimateFactor: confutil.Float64Min(conf.GasEstimateFactor, 1.0, *Defaults.GasEstimateFactor),
		receiptPolling:    retry.NewRetryIndefinite(&conf.ReceiptPolling),
		chainID:           chainID,
	}
}

type unconnectedRPC struct{}

func (u *unconnectedRPC) CallRPC(ctx context.Context, result interface{}, method string, params ...interface{}) *rpcbackend.RPCError {
	return &rpcbackend.RPCError{Code: int64(rpcbackend.RPCCodeInternalError), Message: i18n.NewError(ctx, msgs.MsgEthClientNoConnection).Error()}
}

func (ec *ethClient) Close() {
	wsRPC, isWS := ec.rpc.(rpcbackend.WebSocketRPCClient)
	if isWS {
		wsRPC.Close()
	}
}

func (ec *ethClient) ChainID() int64 {
	return ec.chainID
}

func (ec *ethClient) setupChainID(ctx context.Context) error {
	var chainID ethtypes.HexUint64
	if rpcErr := ec.rpc.CallRPC(ctx, &chainID, "eth_chainId"); rpcErr != nil {
		log.L(ctx).Errorf("eth_chainId failed: %+v", rpcErr)
		return i18n.WrapError(ctx, rpcErr.Error(), msgs.MsgEthClientChainIDFailed)
	}
	ec.chainID = int64(chainID.Uint64())
	return nil
}

// Shared plumbing for the simple query methods, that have no special
// handling of the error beyond logging it.
func (ec *ethClient) callRPC(ctx context.Context, result interface{}, method string, params ...interface{}) error {
	if rpcErr := ec.rpc.CallRPC(ctx, result, method, params...); rpcErr != nil {
		log.L(ctx).Errorf("%s failed: %+v", method, rpcErr)
		return rpcErr.Error()
	}
	return nil
}

func (ec *ethClient) GetBalance(ctx context.Context, address string, block string) (*ethtypes.HexInteger, error) {
	var balance ethtypes.HexInteger
	if err := ec.callRPC(ctx, &balance, "eth_getBalance", address, block); err != nil {
		return nil, err
	}
	return &balance, nil
}

// London style gas pricing only. EIP-1559 tips would need eth_maxPriorityFeePerGas
// on top of this.
func (ec *ethClient) GasPrice(ctx context.Context) (*ethtypes.HexInteger, error) {
	var price ethtypes.HexInteger
	if err := ec.callRPC(ctx, &price, "eth_gasPrice"); err != nil {
		return nil, err
	}
	return &price, nil
}

func (ec *ethClient) GasEstimate(ctx context.Context, tx *ethsigner.Transaction) (*ethtypes.HexInteger, error) {
	var estimate ethtypes.HexInteger
	if err := ec.callRPC(ctx, &estimate, "eth_estimateGas", tx); err != nil {
		return nil, err
	}
	return &estimate, nil
}

func (ec *ethClient) GetTransactionCount(ctx context.Context, fromAddr string) (*ethtypes.HexUint64, error) {
	var nonce ethtypes.HexUint64
	if err := ec.callRPC(ctx, &nonce, "eth_getTransactionCount", fromAddr, "latest"); err != nil {
		return nil, err
	}
	return &nonce, nil
}

func (ec *ethClient) CallContract(ctx context.Context, from *string, tx *ethsigner.Transaction, block string) (data types.HexBytes, err error) {

	if from != nil {
		_, fromAddr, err := ec.keymgr.ResolveKey(ctx, *from, api.Algorithm_ECDSA_SECP256K1_PLAINBYTES)
		if err != nil {
			return nil, err
		}
		tx.From = json.RawMessage(types.JSONString(fromAddr))
	}

	if rpcErr := ec.rpc.CallRPC(ctx, &data, "eth_call", tx, block); rpcErr != nil {
		log.L(ctx).Errorf("eth_call failed: %+v", rpcErr)
		if rpcErr.Data != "" {
			// Besu returns the revert data on the RPC error, so a contract
			// require() message can be surfaced directly to the caller
			log.L(ctx).Debugf("Received error data in revert: %s", rpcErr.Data)
			var revertData types.HexBytes
			_ = json.Unmarshal(rpcErr.Data.Bytes(), &revertData)
			if len(revertData) > 0 {
				revertMsg := decodeDefaultError(ctx, revertData)
				if revertMsg == "" {
					revertMsg = revertData.String()
				}
				return nil, i18n.NewError(ctx, msgs.MsgEthClientCallReverted, revertMsg)
			}
		}
		return nil, rpcErr.Error()
	}

	return data, err

}

func (ec *ethClient) GetTransactionReceipt(ctx context.Context, txHash string) (*TransactionReceiptResponse, error) {

	// Get the receipt in the back-end JSON/RPC format
	var rec *txReceiptJSONRPC
	rpcErr := ec.rpc.CallRPC(ctx, &rec, "eth_getTransactionReceipt", txHash)
	if rpcErr != nil {
		return nil, rpcErr.Error()
	}
	if rec == nil {
		return nil, i18n.NewError(ctx, msgs.MsgEthClientReceiptNotAvailable, txHash)
	}
	success := (rec.Status != nil && rec.Status.BigInt().Int64() > 0)

	var returnData *string
	var errMsg *string

	if !success {
		revertReason := rec.RevertReason
		if revertReason == nil {
			// Not all nodes return the revert reason on the receipt, but dev nodes
			// generally support tracing the failed transaction to recover it
			revertReason = ec.traceForRevertReason(ctx, txHash)
		}
		returnData, errMsg = ec.getErrorInfo(ctx, revertReason)
	}

	extraJSON, _ := json.Marshal(&receiptExtraInfo{
		ContractAddress:   rec.ContractAddress,
		CumulativeGasUsed: (*fftypes.FFBigInt)(rec.CumulativeGasUsed),
		From:              rec.From,
		To:                rec.To,
		GasUsed:           (*fftypes.FFBigInt)(rec.GasUsed),
		Status:            (*fftypes.FFBigInt)(rec.Status),
		ReturnValue:       returnData,
		ErrorMessage:      errMsg,
	})

	var logs []fftypes.JSONAny
	for _, l := range rec.Logs {
		b, _ := json.Marshal(l)
		logs = append(logs, fftypes.JSONAny(b))
	}

	var txIndex int64
	if rec.TransactionIndex != nil {
		txIndex = rec.TransactionIndex.BigInt().Int64()
	}
	res := &TransactionReceiptResponse{
		BlockNumber:      (*fftypes.FFBigInt)(rec.BlockNumber),
		TransactionIndex: fftypes.NewFFBigInt(txIndex),
		BlockHash:        rec.BlockHash.String(),
		Success:          success,
		ProtocolID:       ProtocolIDForReceipt((*fftypes.FFBigInt)(rec.BlockNumber), fftypes.NewFFBigInt(txIndex)),
		ExtraInfo:        fftypes.JSONAnyPtrBytes(extraJSON),
		Logs:             logs,
	}

	if rec.ContractAddress != nil {
		location, _ := json.Marshal(map[string]string{
			"address": rec.ContractAddress.String(),
		})
		res.ContractLocation = fftypes.JSONAnyPtrBytes(location)
	}
	return res, nil
}

// Polls the node until the receipt of the supplied transaction is available, or the
// context is cancelled. Dev chains mine immediately, so the first attempt normally hits.
func (ec *ethClient) WaitForReceipt(ctx context.Context, txHash string) (receipt *TransactionReceiptResponse, err error) {
	err = ec.receiptPolling.Do(ctx, func(attempt int) (retryable bool, err error) {
		receipt, err = ec.GetTransactionReceipt(ctx, txHash)
		return true, err
	})
	if err != nil {
		return nil, err
	}
	return receipt, nil
}

func (ec *ethClient) BuildRawTransaction(ctx context.Context, txVersion EthTXVersion, from string, tx *ethsigner.Transaction) (types.HexBytes, error) {
	keyHandle, fromAddr, err := ec.keymgr.ResolveKey(ctx, from, api.Algorithm_ECDSA_SECP256K1_PLAINBYTES)
	if err != nil {
		return nil, err
	}
	tx.From = json.RawMessage(types.JSONString(fromAddr))

	// Each TX takes the next nonce for the key from the local node mempool.
	// Concurrent submission against the same key needs nonce management above this client.
	if tx.Nonce == nil {
		txNonce, err := ec.GetTransactionCount(ctx, fromAddr)
		if err != nil {
			return nil, err
		}
		tx.Nonce = ethtypes.NewHexInteger(big.NewInt(int64(txNonce.Uint64())))
	}

	if tx.GasLimit == nil {
		gasEstimate, err := ec.GasEstimate(ctx, tx)
		if err != nil {
			return nil, err
		}
		// Submit with headroom on top of what the node estimated
		factored := new(big.Float).SetInt(gasEstimate.BigInt())
		factored = factored.Mul(factored, big.NewFloat(ec.gasEstimateFactor))
		gasLimit, _ := factored.Int(nil)
		tx.GasLimit = ethtypes.NewHexInteger(gasLimit)
	}

	// Sign
	sigPayload, err := ec.signingPayload(ctx, txVersion, tx)
	if err != nil {
		return nil, err
	}
	hash := sha3.NewLegacyKeccak256()
	_, _ = hash.Write(sigPayload.Bytes())
	signature, err := ec.keymgr.Sign(ctx, &api.SignRequest{
		Algorithm: api.Algorithm_ECDSA_SECP256K1_PLAINBYTES,
		KeyHandle: keyHandle,
		Payload:   types.HexBytes(hash.Sum(nil)),
	})
	var sig *secp256k1.SignatureData
	if err == nil {
		sig, err = secp256k1.DecodeCompactRSV(ctx, signature.Payload)
	}
	var rawTX []byte
	if err == nil {
		rawTX, err = ec.finalizeWithSignature(txVersion, tx, sigPayload, sig)
	}
	if err != nil {
		log.L(ctx).Errorf("signing failed with keyHandle %s (addr=%s): %s", keyHandle, fromAddr, err)
		return nil, err
	}
	return rawTX, nil
}

func (ec *ethClient) signingPayload(ctx context.Context, txVersion EthTXVersion, tx *ethsigner.Transaction) (*ethsigner.TransactionSignaturePayload, error) {
	switch txVersion {
	case EIP1559:
		return tx.SignaturePayloadEIP1559(ec.chainID), nil
	case LEGACY_EIP155:
		return tx.SignaturePayloadLegacyEIP155(ec.chainID), nil
	case LEGACY_ORIGINAL:
		return tx.SignaturePayloadLegacyOriginal(), nil
	default:
		return nil, i18n.NewError(ctx, msgs.MsgEthClientInvalidTXVersion, txVersion)
	}
}

// The version must have been checked by signingPayload before this is called
func (ec *ethClient) finalizeWithSignature(txVersion EthTXVersion, tx *ethsigner.Transaction, sigPayload *ethsigner.TransactionSignaturePayload, sig *secp256k1.SignatureData) ([]byte, error) {
	switch txVersion {
	case EIP1559:
		return tx.FinalizeEIP1559WithSignature(sigPayload, sig)
	case LEGACY_EIP155:
		return tx.FinalizeLegacyEIP155WithSignature(sigPayload, sig, ec.chainID)
	default:
		return tx.FinalizeLegacyOriginalWithSignature(sigPayload, sig)
	}
}

func (ec *ethClient) SendRawTransaction(ctx context.Context, rawTX types.HexBytes) (*types.Bytes32, error) {

	// Submit
	var txHash types.Bytes32
	if rpcErr := ec.rpc.CallRPC(ctx, &txHash, "eth_sendRawTransaction", types.HexBytes(rawTX)); rpcErr != nil {
		addr, decodedTX, err := ethsigner.RecoverRawTransaction(ctx, ethtypes.HexBytes0xPrefix(rawTX), ec.chainID)
		if err != nil {
			log.L(ctx).Errorf("Invalid transaction build during signing: %s", err)
		} else {
			log.L(ctx).Errorf("Rejected TX (from=%s): %+v", addr, compactJSON(decodedTX.Transaction))
		}
		return nil, fmt.Errorf("eth_sendRawTransaction failed: %+v", rpcErr)
	}

	// We just return the hash here
	// - to poll for completion of the transaction use WaitForReceipt
	// - for a point-in-time check use GetTransactionReceipt
	return &txHash, nil
}

func compactJSON(v interface{}) string {
	ret := ""
	b, _ := json.Marshal(v)
	if len(b) > 0 {
		ret = (string)(b)
	}
	return ret
}

// Decode the revert data as the default Error(string) you get from "revert",
// returning the empty string if it is anything else
func decodeDefaultError(ctx context.Context, revertData []byte) (errorMessage string) {
	if len(revertData) > 4 && bytes.Equal(revertData[0:4], revertErrorSelector) {
		value, err := revertError.DecodeCallDataCtx(ctx, revertData)
		if err == nil {
			errorMessage = value.Children[0].Value.(string)
		}
	}
	return errorMessage
}

func (ec *ethClient) getErrorInfo(ctx context.Context, revertFromReceipt *ethtypes.HexBytes0xPrefix) (returnValue *string, errorMessage *string) {

	var revertHex string
	if revertFromReceipt != nil {
		revertHex = revertFromReceipt.String()
	}

	// See if the return value is using the default error you get from "revert"
	returnDataBytes, _ := hex.DecodeString(evenHex(revertHex))
	errMsg := decodeDefaultError(ctx, returnDataBytes)

	// Otherwise we can't decode it, so put it directly in the error
	if errMsg == "" {
		if len(returnDataBytes) > 0 {
			errMsg = i18n.NewError(ctx, msgs.MsgEthClientReturnValueNotDecoded, revertHex).Error()
		} else {
			errMsg = i18n.NewError(ctx, msgs.MsgEthClientReturnValueNotAvailable).Error()
		}
	}
	return &revertHex, &errMsg
}

// Best effort recovery of the revert reason using debug_traceTransaction, for nodes
// that do not return the revert reason directly on the receipt
func (ec *ethClient) traceForRevertReason(ctx context.Context, txHash string) *ethtypes.HexBytes0xPrefix {
	var trace txDebugTrace
	if rpcErr := ec.rpc.CallRPC(ctx, &trace, "debug_traceTransaction", txHash); rpcErr != nil {
		log.L(ctx).Warnf("debug_traceTransaction(%s) failed: %+v", txHash, rpcErr)
		return nil
	}
	returnData, err := hex.DecodeString(evenHex(trace.ReturnValue))
	if err != nil || len(returnData) == 0 {
		return nil
	}
	revertReason := ethtypes.HexBytes0xPrefix(returnData)
	return &revertReason
}
