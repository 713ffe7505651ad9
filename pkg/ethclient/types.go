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
	"strings"

	"github.com/hyperledger/firefly-common/pkg/fftypes"
	"github.com/hyperledger/firefly-signer/pkg/ethtypes"
)

// ErrorReason classifies the failure modes of a node interaction, so callers
// like the deployment orchestrator can decide between abandoning a transaction
// and retrying it idempotently. Node implementations word their errors
// differently, so the classification is a best effort over known message text.
type ErrorReason string

// Any reason added here that can occur while preparing a submission must also
// be classified in MapSubmissionRejected.
const (
	// ErrorReasonInvalidInputs means the request was malformed before anything reached the chain
	ErrorReasonInvalidInputs ErrorReason = "invalid_inputs"
	// ErrorReasonTransactionReverted means EVM execution reverted, during estimation or a query
	ErrorReasonTransactionReverted ErrorReason = "transaction_reverted"
	// ErrorReasonNonceTooLow means the nonce was already consumed by a transaction in a canonical block
	ErrorReasonNonceTooLow ErrorReason = "nonce_too_low"
	// ErrorReasonTransactionUnderpriced means the gas price was below the node minimum, or a replacement lacked a price bump
	ErrorReasonTransactionUnderpriced ErrorReason = "transaction_underpriced"
	// ErrorReasonInsufficientFunds means the signing account cannot cover value plus gas
	ErrorReasonInsufficientFunds ErrorReason = "insufficient_funds"
	// ErrorReasonNotFound means the block, receipt or other requested object does not exist on the node
	ErrorReasonNotFound ErrorReason = "not_found"
	// ErrorReasonKnownTransaction means the node already holds this exact transaction
	ErrorReasonKnownTransaction ErrorReason = "known_transaction"
	// ErrorReasonDownstreamDown means the JSON/RPC endpoint itself is unreachable
	ErrorReasonDownstreamDown ErrorReason = "downstream_down"
)

// MapSubmissionRejected returns true when the error is a permanent rejection
// of the transaction. Everything else is treated as transient, and the
// submission can be retried against the same nonce.
func MapSubmissionRejected(err error) bool {
	switch MapError(err) {
	case ErrorReasonInvalidInputs,
		ErrorReasonTransactionReverted,
		ErrorReasonInsufficientFunds:
		return true
	default:
		return false
	}
}

// Ordered list, a transaction that is "already known" must not match more
// general text later in the list for example.
var errorReasonMatchers = []struct {
	contains string
	reason   ErrorReason
}{
	{"filter not found", ErrorReasonNotFound},
	{"nonce too low", ErrorReasonNonceTooLow},
	{"insufficient funds", ErrorReasonInsufficientFunds},
	{"transaction underpriced", ErrorReasonTransactionUnderpriced},
	{"known transaction", ErrorReasonKnownTransaction},
	{"already known", ErrorReasonKnownTransaction},
	{"execution reverted", ErrorReasonTransactionReverted},
	// https://docs.avax.network/quickstart/integrate-exchange-with-avalanche#determining-finality
	{"cannot query unfinalized data", ErrorReasonNotFound},
	{"the method net_version does not exist/is not available", ErrorReasonNotFound},
}

// MapError classifies a node error by its message text, returning the empty
// string when no known pattern matches.
func MapError(err error) ErrorReason {
	errString := strings.ToLower(err.Error())
	for _, m := range errorReasonMatchers {
		if strings.Contains(errString, m.contains) {
			return m.reason
		}
	}
	return ""
}

// txReceiptJSONRPC is the wire form of an eth_getTransactionReceipt result.
// Geth and Besu agree on these fields, with revertReason being a Besu
// extension that is nil elsewhere.
type txReceiptJSONRPC struct {
	BlockHash         ethtypes.HexBytes0xPrefix  `json:"blockHash"`
	BlockNumber       *ethtypes.HexInteger       `json:"blockNumber"`
	ContractAddress   *ethtypes.Address0xHex     `json:"contractAddress"`
	CumulativeGasUsed *ethtypes.HexInteger       `json:"cumulativeGasUsed"`
	From              *ethtypes.Address0xHex     `json:"from"`
	GasUsed           *ethtypes.HexInteger       `json:"gasUsed"`
	Logs              []*logJSONRPC              `json:"logs"`
	Status            *ethtypes.HexInteger       `json:"status"`
	To                *ethtypes.Address0xHex     `json:"to"`
	TransactionHash   ethtypes.HexBytes0xPrefix  `json:"transactionHash"`
	TransactionIndex  *ethtypes.HexInteger       `json:"transactionIndex"`
	RevertReason      *ethtypes.HexBytes0xPrefix `json:"revertReason"`
}

// logJSONRPC is the wire form of a single receipt log entry
type logJSONRPC struct {
	Removed          bool                        `json:"removed"`
	LogIndex         *ethtypes.HexInteger        `json:"logIndex"`
	TransactionIndex *ethtypes.HexInteger        `json:"transactionIndex"`
	BlockNumber      *ethtypes.HexInteger        `json:"blockNumber"`
	TransactionHash  ethtypes.HexBytes0xPrefix   `json:"transactionHash"`
	BlockHash        ethtypes.HexBytes0xPrefix   `json:"blockHash"`
	Address          *ethtypes.Address0xHex      `json:"address"`
	Data             ethtypes.HexBytes0xPrefix   `json:"data"`
	Topics           []ethtypes.HexBytes0xPrefix `json:"topics"`
}

// TransactionReceiptResponse is the processed receipt handed to callers, with
// the outcome resolved to a simple success flag, numbers in decimal, and a
// sortable protocol ID derived from the block number and transaction index.
type TransactionReceiptResponse struct {
	BlockNumber      *fftypes.FFBigInt `json:"blockNumber"`
	TransactionIndex *fftypes.FFBigInt `json:"transactionIndex"`
	BlockHash        string            `json:"blockHash"`
	Success          bool              `json:"success"`
	ProtocolID       string            `json:"protocolId"`
	ExtraInfo        *fftypes.JSONAny  `json:"extraInfo,omitempty"`
	ContractLocation *fftypes.JSONAny  `json:"contractLocation,omitempty"`
	Logs             []fftypes.JSONAny `json:"logs,omitempty"` // raw un-decoded logs, the caller owns event decoding
}

// receiptExtraInfo carries the chain specific detail of a receipt, excluding
// anything already promoted to the standardized fields, and excluding the
// full logs
type receiptExtraInfo struct {
	ContractAddress   *ethtypes.Address0xHex `json:"contractAddress"`
	CumulativeGasUsed *fftypes.FFBigInt      `json:"cumulativeGasUsed"`
	From              *ethtypes.Address0xHex `json:"from"`
	To                *ethtypes.Address0xHex `json:"to"`
	GasUsed           *fftypes.FFBigInt      `json:"gasUsed"`
	Status            *fftypes.FFBigInt      `json:"status"`
	ErrorMessage      *string                `json:"errorMessage"`
	ReturnValue       *string                `json:"returnValue,omitempty"`
}

// txDebugTrace is the wire form of a debug_traceTransaction result, used to
// recover a revert reason when the receipt itself does not carry one
type txDebugTrace struct {
	Gas         *fftypes.FFBigInt `json:"gas"`
	Failed      bool              `json:"failed"`
	ReturnValue string            `json:"returnValue"`
	StructLogs  []structLog       `json:"structLogs"`
}

type structLog struct {
	PC      *fftypes.FFBigInt `json:"pc"`
	Op      *string           `json:"op"`
	Gas     *fftypes.FFBigInt `json:"gas"`
	GasCost *fftypes.FFBigInt `json:"gasCost"`
	Depth   *fftypes.FFBigInt `json:"depth"`
	Stack   []*string         `json:"stack"`
	Memory  []*string         `json:"memory"`
	Reason  *string           `json:"reason"`
}
