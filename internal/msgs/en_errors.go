// Copyright © 2024 Kaleido, Inc.
//
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package msgs

import (
	"fmt"
	"strings"

	"github.com/hyperledger/firefly-common/pkg/i18n"
	"golang.org/x/text/language"
)

const ilcPrefix = "IL01"

var registered = false
var ffe = func(key, translation string, statusHint ...int) i18n.ErrorMessageKey {
	if !registered {
		i18n.RegisterPrefix(ilcPrefix, "IntelliLinker Contract Fixtures")
		registered = true
	}
	if !strings.HasPrefix(key, ilcPrefix) {
		panic(fmt.Errorf("must have prefix '%s': %s", ilcPrefix, key))
	}
	return i18n.FFE(language.AmericanEnglish, key, translation, statusHint...)
}

var (

	// Types IL0100XX
	MsgTypesInvalidHex       = ffe("IL010000", "Invalid hex: %s")
	MsgTypesInvalidHexLen    = ffe("IL010001", "Invalid hex len expected=%d actual=%d")
	MsgTypesInvalidAddress   = ffe("IL010002", "Invalid address: %s")
	MsgTypesScanFail         = ffe("IL010003", "Unable to scan type %T into type %T")
	MsgTypesEnumValueInvalid = ffe("IL010004", "Value must be one of %s")

	// Persistence IL0101XX
	MsgPersistenceInvalidType         = ffe("IL010100", "Invalid persistence type: %s")
	MsgPersistenceMissingURI          = ffe("IL010101", "Missing database connection URI")
	MsgPersistenceInitFailed          = ffe("IL010102", "Database init failed")
	MsgPersistenceMigrationFailed     = ffe("IL010103", "Database migration failed")
	MsgPersistenceMissingMigrationDir = ffe("IL010104", "Missing database migration directory for autoMigrate")

	// HTTP server IL0102XX
	MsgHTTPServerStartFailed        = ffe("IL010200", "Failed to start server on '%s'")
	MsgHTTPServerMissingPort        = ffe("IL010201", "HTTP server port must be specified for '%s'")
	MsgHTTPServerNoWSUpgradeSupport = ffe("IL010202", "HTTP server does not support WebSocket upgrade (%T)")

	// JSON/RPC server IL0103XX
	MsgJSONRPCInvalidRequest      = ffe("IL010300", "Invalid JSON/RPC request data")
	MsgJSONRPCMissingRequestID    = ffe("IL010301", "Invalid JSON/RPC request. Must set request ID")
	MsgJSONRPCUnsupportedMethod   = ffe("IL010302", "method not supported")
	MsgJSONRPCIncorrectParamCount = ffe("IL010303", "method %s requires %d params (supplied=%d)")
	MsgJSONRPCInvalidParam        = ffe("IL010304", "method %s parameter %d invalid: %s")
	MsgJSONRPCResultSerialization = ffe("IL010305", "method %s result serialization failed: %s")

	// RPC client IL0104XX
	MsgRPCClientInvalidHTTPURL      = ffe("IL010400", "Invalid URL for HTTP JSON/RPC client: %s")
	MsgRPCClientInvalidWebSocketURL = ffe("IL010401", "Invalid URL for WebSocket JSON/RPC client: %s")

	// TLS IL0105XX
	MsgTLSInvalidCAFile             = ffe("IL010500", "Invalid CA certificates file")
	MsgTLSConfigFailed              = ffe("IL010501", "Failed to initialize TLS configuration")
	MsgTLSInvalidKeyPairFiles       = ffe("IL010502", "Invalid certificate and key pair files")
	MsgTLSInvalidTLSDnMatcherAttr   = ffe("IL010503", "Unknown DN attribute '%s'")
	MsgTLSInvalidTLSDnMatcherRegexp = ffe("IL010504", "Invalid regexp '%s' for requiredDNAttributes[%s]: %s")
	MsgTLSInvalidTLSDnChain         = ffe("IL010505", "Cannot match subject distinguished name as cert chain is not verified")
	MsgTLSInvalidTLSDnMismatch      = ffe("IL010506", "Certificate subject does not meet requirements")
	MsgTLSInvalidTLSDnMatcherType   = ffe("IL010507", "Expected string value for '%s' field of requiredDNAttributes (found %T)")

	// Signer IL0106XX
	MsgSigningUnsupportedKeyStoreType       = ffe("IL010600", "Unsupported key store type: '%s'")
	MsgSigningUnsupportedAlgoForInMemory    = ffe("IL010601", "Unsupported algorithm for in-memory signing: '%s'")
	MsgSigningKeyListingNotSupported        = ffe("IL010602", "Listing keys in the key store is not supported by this signing module")
	MsgSigningKeyCannotBeResolved           = ffe("IL010603", "No key exists that matches the request")
	MsgSigningKeyCannotBeEmpty              = ffe("IL010604", "Cannot resolve a signing key for the empty string")
	MsgSigningStaticKeyInvalid              = ffe("IL010605", "Statically configured key with handle %s is invalid")
	MsgSigningStaticBadEncoding             = ffe("IL010606", "Statically configured key with handle %s has invalid encoding (must be one of 'none', 'hex', 'base64') '%s'")
	MsgSigningHDSeedMustBe32BytesOrMnemonic = ffe("IL010607", "Seed key material for HD Wallet must be either a 32byte value, or a BIP-39 compliant mnemonic seed phrase")
	MsgSigningKeyStoreNoInStoreSingingAPI   = ffe("IL010608", "key store '%s' does not support signing within the keystore itself (keys must be loadable into memory to sign)")
	MsgSigningBIP44DerivationInvalid        = ffe("IL010609", "invalid key handle - BIP44 derivation path invalid: %s")
	MsgSigningBIP32DerivationTooLarge       = ffe("IL010610", "BIP-32 key index must be between 0 and 2^31-1 at each level in the hierarchy: %d")
	MsgSigningModuleBadKeyHandle            = ffe("IL010611", "Invalid key handle")
	MsgSigningModuleBadPathError            = ffe("IL010612", "Path '%s' does not exist, or it is not a directory")
	MsgSigningModuleBadKeyFile              = ffe("IL010613", "Key file '%s' does not exist")
	MsgSigningModuleBadPassFile             = ffe("IL010614", "Password file '%s' does not exist")
	MsgSigningModuleFSError                 = ffe("IL010615", "Filesystem error")
	MsgSigningModuleKeyHandleClash          = ffe("IL010616", "Invalid key handle (clash)")
	MsgSigningModuleKeyNotExist             = ffe("IL010617", "Key '%s' does not exist")
	MsgSigningHierarchicalRequiresLoading   = ffe("IL010618", "Signing module has been configured to disallow in-memory key material, which hierarchical (BIP32) key derivation requires")
	MsgSigningMustSpecifyAlgorithms         = ffe("IL010619", "Must specify at least one algorithm for key resolution")
	MsgSigningUnsupportedKeyDerivationType  = ffe("IL010620", "Unsupported key derivation type: '%s'")

	// Ethclient IL0107XX
	MsgEthClientInvalidInput            = ffe("IL010700", "Unable to convert to ABI function input (func=%s)")
	MsgEthClientMissingFrom             = ffe("IL010701", "Signer (from) missing")
	MsgEthClientMissingTo               = ffe("IL010702", "To missing")
	MsgEthClientMissingInput            = ffe("IL010703", "Input missing")
	MsgEthClientMissingOutput           = ffe("IL010704", "Output missing")
	MsgEthClientInvalidTXVersion        = ffe("IL010705", "Invalid TX Version (%s)")
	MsgEthClientABIJson                 = ffe("IL010706", "JSON ABI parsing failed")
	MsgEthClientFunctionNotFound        = ffe("IL010707", "Function %q not found on ABI")
	MsgEthClientChainIDFailed           = ffe("IL010708", "Failed to query chain ID")
	MsgEthClientKeyMismatch             = ffe("IL010709", "Resolved %q to different key handle expected=%q received=%q")
	MsgEthClientToWithConstructor       = ffe("IL010710", "To address cannot be specified for constructor")
	MsgEthClientHTTPURLMissing          = ffe("IL010711", "HTTP URL missing in configuration")
	MsgEthClientChainIDMismatch         = ffe("IL010712", "ChainID mismatch between HTTP and WebSocket JSON/RPC connections http=%d ws=%d")
	MsgEthClientCallReverted            = ffe("IL010713", "Reverted: %s")
	MsgEthClientReceiptNotAvailable     = ffe("IL010714", "Receipt not available for transaction '%s'")
	MsgEthClientReturnValueNotDecoded   = ffe("IL010715", "Error return value for custom error: %s")
	MsgEthClientReturnValueNotAvailable = ffe("IL010716", "Error return value unavailable")
	MsgEthClientNoConnection            = ffe("IL010717", "No JSON/RPC connection is available to this client")

	// Solidity build utilities IL0108XX
	MsgSolBuildParseFailed = ffe("IL010800", "Invalid link hash at position %d in bytecode. Fully qualified lib name: %s. Placeholder: %s. Lib name hash prefix: %s")
	MsgSolBuildMissingLink = ffe("IL010801", "The solidity build is unlinked and requires an address for '%s'")

	// Contracts IL0109XX
	MsgContractsUnknownKind      = ffe("IL010900", "Unknown contract kind '%s'")
	MsgContractsInvokeReverted   = ffe("IL010901", "Transaction %s on %s reverted: %s")
	MsgContractsUnexpectedOutput = ffe("IL010902", "Unexpected output from %s on %s: '%s'")
	MsgContractsInvalidMask      = ffe("IL010903", "Invalid mask value '%s'")

	// Fixtures IL0110XX
	MsgFixturesMissingDependency       = ffe("IL011000", "Missing required dependency '%s' deploying %s")
	MsgFixturesDeployFailed            = ffe("IL011001", "Deployment of %s failed")
	MsgFixturesDeployNoAddress         = ffe("IL011002", "Deployment of %s returned no contract address")
	MsgFixturesConfigureFailed         = ffe("IL011003", "Post-deployment configuration of %s failed")
	MsgFixturesScenarioUnknownContract = ffe("IL011004", "Contract kind '%s' cannot be deployed in a scenario")
	MsgFixturesScenarioParseFailed     = ffe("IL011005", "Failed to parse deployment scenario")
	MsgFixturesRecorderFailed          = ffe("IL011006", "Failed to record deployment of %s")
	MsgFixturesScenarioBadReference    = ffe("IL011007", "Dependency '%s' of scenario contract '%s' is not a hex address or the name of an earlier contract")
	MsgFixturesScenarioNoKind          = ffe("IL011008", "Scenario contract at index %d must specify a kind")
	MsgFixturesScenarioBadMode         = ffe("IL011009", "Invalid mode '%s' for scenario contract '%s' (must be pure, restricted or full)")
	MsgFixturesScenarioDuplicateName   = ffe("IL011010", "Duplicate contract name '%s' in deployment scenario")
	MsgFixturesBadIntegerValue         = ffe("IL011011", "Invalid integer value '%s' for %s")

	// Config IL0111XX
	MsgConfigFileReadFailed  = ffe("IL011100", "Failed to read config file %s: %s")
	MsgConfigFileParseFailed = ffe("IL011101", "Failed to parse config file %s: %s")
)
