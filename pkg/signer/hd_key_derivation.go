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

package signer

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/AI-Protocol-Official/intelli-linker-contracts/internal/confutil"
	"github.com/AI-Protocol-Official/intelli-linker-contracts/internal/msgs"
	"github.com/AI-Protocol-Official/intelli-linker-contracts/pkg/signer/api"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/hyperledger/firefly-common/pkg/i18n"
	"github.com/tyler-smith/go-bip39"
)

type hdWalletPathEntry struct {
	Name  string
	Index uint64
}

func (sm *signingModule) initHDWallet(ctx context.Context, conf *api.KeyDerivationConfig) (err error) {
	bip44Prefix := confutil.StringNotEmpty(conf.BIP44Prefix, *api.KeyDerivationDefaults.BIP44Prefix)
	bip44Prefix = strings.ReplaceAll(bip44Prefix, " ", "")
	sm.hd = &hdDerivation{
		sm:                    sm,
		bip44Prefix:           bip44Prefix,
		bip44DirectResolution: conf.BIP44DirectResolution,
		bip44HardenedSegments: confutil.IntMin(conf.BIP44HardenedSegments, 0, *api.KeyDerivationDefaults.BIP44HardenedSegments),
	}
	seedKeyPath := api.KeyDerivationDefaults.SeedKeyPath
	if conf.SeedKeyPath.Name != "" {
		seedKeyPath = conf.SeedKeyPath
	}
	// The resolved seed handle is not persisted anywhere, so resolve it fresh on every start
	seed, _, err := sm.keyStore.FindOrCreateLoadableKey(ctx, seedKeyPath.ToKeyResolutionRequest(), sm.new32ByteRandom)
	if err != nil {
		return err
	}
	// The stored material is either a raw 32 byte seed, or a BIP-39 mnemonic an operator
	// placed into the secrets repository
	if len(seed) != 32 {
		seed, err = bip39.NewSeedWithErrorChecking(string(seed), "")
		if err != nil {
			return i18n.NewError(ctx, msgs.MsgSigningHDSeedMustBe32BytesOrMnemonic)
		}
	}
	sm.hd.hdKeyChain, err = hdkeychain.NewMaster(seed, &chaincfg.MainNetParams)
	return err
}

func (hd *hdDerivation) flatPathList(req *api.ResolveKeyRequest) []hdWalletPathEntry {
	ret := make([]hdWalletPathEntry, len(req.Path)+1)
	for i, p := range req.Path {
		ret[i] = hdWalletPathEntry{Name: p.Name, Index: p.Index}
	}
	ret[len(req.Path)] = hdWalletPathEntry{
		Name:  req.Name,
		Index: req.Index,
	}
	return ret
}

func (hd *hdDerivation) resolveHDWalletKey(ctx context.Context, req *api.ResolveKeyRequest) (res *api.ResolveKeyResponse, err error) {
	keyHandle := hd.bip44Prefix
	for i, s := range hd.flatPathList(req) {
		var derivation uint64
		hardenedFlag := ""
		// Whether direct resolution applies comes from config alone. If the request could
		// choose, two different resolutions could be coerced onto the same derivation path.
		// A deployment that needs both behaviors over one seed runs two signing modules,
		// with distinct BIP44Prefix settings but the same seed.
		if hd.bip44DirectResolution {
			// The segment name is itself the BIP44 path element
			numStr, isHardened := strings.CutSuffix(s.Name, "'")
			ui64, err := strconv.ParseUint(numStr, 10, 64) // parsed wide, the range check is in loadHDWalletPrivateKey
			if err != nil {
				return nil, i18n.NewError(ctx, msgs.MsgSigningBIP44DerivationInvalid, s.Name)
			}
			if isHardened {
				hardenedFlag = "'"
			}
			derivation = ui64
		} else {
			// The caller supplied index is the path element, numeric and unique by
			// construction. Configuration picks which leading segments land in the
			// hardened range (indices 2^31 through 2^32-1).
			if i < hd.bip44HardenedSegments {
				hardenedFlag = "'"
			}
			derivation = s.Index
		}
		keyHandle += fmt.Sprintf("/%d%s", derivation, hardenedFlag)
	}
	privateKey, err := hd.loadHDWalletPrivateKey(ctx, keyHandle)
	if err != nil {
		return nil, err
	}
	// From here the rest of the module just sees a 32 byte private key in volatile memory
	return hd.sm.publicKeyIdentifiersForAlgorithms(ctx, keyHandle, privateKey, req.Algorithms)
}

func (hd *hdDerivation) loadHDWalletPrivateKey(ctx context.Context, keyHandle string) (privateKey []byte, err error) {
	segments := strings.Split(keyHandle, "/")
	if len(segments) < 2 || segments[0] != "m" {
		return nil, i18n.NewError(ctx, msgs.MsgSigningBIP44DerivationInvalid, keyHandle)
	}
	pos := hd.hdKeyChain
	for _, s := range segments[1:] {
		number, isHardened := strings.CutSuffix(s, "'")
		derivation, err := strconv.ParseUint(number, 10, 64) // 64 bits wide until the range check below
		if err == nil {
			if derivation >= 0x80000000 {
				return nil, i18n.WrapError(ctx, err, msgs.MsgSigningBIP32DerivationTooLarge, derivation)
			}
			if isHardened {
				derivation += 0x80000000
			}
			pos, err = pos.Derive(uint32(derivation))
		}
		if err != nil {
			return nil, i18n.WrapError(ctx, err, msgs.MsgSigningBIP44DerivationInvalid, s)
		}
	}
	ecPrivKey, err := pos.ECPrivKey()
	if err == nil {
		pkBytes := ecPrivKey.Key.Bytes()
		privateKey = pkBytes[:]
	}
	return privateKey, err
}

func (hd *hdDerivation) signHDWalletKey(ctx context.Context, req *api.SignRequest) (res *api.SignResponse, err error) {
	privateKey, err := hd.loadHDWalletPrivateKey(ctx, req.KeyHandle)
	if err != nil {
		return nil, err
	}
	return hd.sm.signInMemory(ctx, privateKey, req)
}
