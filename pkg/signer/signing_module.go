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
	"crypto/rand"
	"strings"

	"github.com/AI-Protocol-Official/intelli-linker-contracts/internal/msgs"
	"github.com/AI-Protocol-Official/intelli-linker-contracts/pkg/signer/api"
	inmemsecp256k1 "github.com/AI-Protocol-Official/intelli-linker-contracts/pkg/signer/in-memory/secp256k1"
	"github.com/AI-Protocol-Official/intelli-linker-contracts/pkg/signer/keystore"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/hyperledger/firefly-common/pkg/i18n"
	"github.com/hyperledger/firefly-signer/pkg/secp256k1"
)

// SigningModule resolves key names to key handles, and signs payloads with the resolved
// keys, in front of a pluggable set of key storage technologies.
// It can be embedded directly into the process that submits transactions, or wrapped to
// build a remote signer that keeps key materials away from that process.
type SigningModule interface {
	Resolve(ctx context.Context, req *api.ResolveKeyRequest) (res *api.ResolveKeyResponse, err error)
	Sign(ctx context.Context, req *api.SignRequest) (res *api.SignResponse, err error)
	List(ctx context.Context, req *api.ListKeysRequest) (res *api.ListKeysResponse, err error)
	Close()
}

type hdDerivation struct {
	sm                    *signingModule
	bip44DirectResolution bool
	bip44HardenedSegments int
	bip44Prefix           string
	hdKeyChain            *hdkeychain.ExtendedKey
}

type signingModule struct {
	keyStoreType      string
	keyStore          api.KeyStore
	disableKeyListing bool
	disableKeyLoading bool
	hd                *hdDerivation
	inMemorySigners   map[string]api.InMemorySigner
}

// We allow this same code to be used (un-modified) with a set of initialization functions
// passed in for additional keystores (and potentially other types of extension in the future).
//
// The module is the building block to construct a more sophisticated remote signer on top of,
// only needing to implement the specifics of your particular key storage system.
//
// The design is such that all built-in behaviors should be both:
// 1. Easy to re-use if they are valuable with your extension
// 2. Easy to disable in the Config object passed in, if you do not want to have them enabled
func NewSigningModule(ctx context.Context, config *api.Config, extensions ...api.Extension) (_ SigningModule, err error) {
	sm := &signingModule{}

	keyStoreType := strings.ToLower(config.KeyStore.Type)
	switch keyStoreType {
	case "", api.KeyStoreTypeFilesystem:
		keyStoreType = api.KeyStoreTypeFilesystem
		sm.keyStore, err = keystore.NewFilesystemStore(ctx, config.KeyStore.FileSystem)
	case api.KeyStoreTypeStatic:
		sm.keyStore, err = keystore.NewStaticKeyStore(ctx, config.KeyStore.Static)
	default:
		for _, ext := range extensions {
			store, err := ext.KeyStore(ctx, &config.KeyStore)
			if err != nil {
				return nil, err
			}
			if store != nil {
				sm.keyStore = store
				break
			}
		}
		if sm.keyStore == nil {
			err = i18n.NewError(ctx, msgs.MsgSigningUnsupportedKeyStoreType, config.KeyStore.Type)
		}
	}
	if err != nil {
		return nil, err
	}
	sm.keyStoreType = keyStoreType

	switch config.KeyDerivation.Type {
	case "", api.KeyDerivationTypeDirect:
	case api.KeyDerivationTypeBIP32:
		// This is fundamentally incompatible with a request to disable loading key materials into memory
		if config.KeyStore.DisableKeyLoading {
			return nil, i18n.NewError(ctx, msgs.MsgSigningHierarchicalRequiresLoading)
		}
		if err := sm.initHDWallet(ctx, &config.KeyDerivation); err != nil {
			return nil, err
		}
	default:
		return nil, i18n.NewError(ctx, msgs.MsgSigningUnsupportedKeyDerivationType, config.KeyDerivation.Type)
	}

	// Settings that disable behaviors, whether technically supported by the key store or not
	sm.disableKeyListing = config.KeyStore.DisableKeyListing
	sm.disableKeyLoading = config.KeyStore.DisableKeyLoading

	// Register the in-memory signers
	sm.inMemorySigners = make(map[string]api.InMemorySigner)
	inmemsecp256k1.Register(sm.inMemorySigners)

	return sm, nil
}

func (sm *signingModule) newKeyForAlgorithms(ctx context.Context, algorithms []string) ([]byte, error) {
	keyLen, err := sm.getKeyLenForInMemorySigning(ctx, algorithms)
	if err != nil {
		return nil, err
	}
	buff := make([]byte, keyLen)
	_, err = rand.Read(buff)
	return buff, err
}

func (sm *signingModule) resolveKeystoreSECP256K1(ctx context.Context, req *api.ResolveKeyRequest, keyStoreSigner KeyStoreSigner_secp256k1) (res *api.ResolveKeyResponse, err error) {

	addr, keyHandle, err := keyStoreSigner.FindOrCreateKey_secp256k1(ctx, req)
	if err != nil {
		return nil, err
	}
	return &api.ResolveKeyResponse{
		KeyHandle: keyHandle,
		Identifiers: []*api.PublicKeyIdentifier{
			{Algorithm: api.Algorithm_ECDSA_SECP256K1_PLAINBYTES, Identifier: addr.String()},
		},
	}, nil
}

func (sm *signingModule) signKeystoreSECP256K1(ctx context.Context, req *api.SignRequest, keyStoreSigner KeyStoreSigner_secp256k1) (res *api.SignResponse, err error) {
	sig, err := keyStoreSigner.Sign_secp256k1(ctx, req.KeyHandle, req.Payload)
	if err != nil {
		return nil, err
	}
	return &api.SignResponse{
		Payload: sig.CompactRSV(),
	}, nil
}

func (sm *signingModule) getKeyLenForInMemorySigning(ctx context.Context, requiredAlgorithms []string) (int, error) {
	keyLen := 0
	for _, algo := range requiredAlgorithms {
		switch strings.ToLower(algo) {
		case api.Algorithm_ECDSA_SECP256K1_PLAINBYTES:
			keyLen = 32
		default:
			return -1, i18n.NewError(ctx, msgs.MsgSigningUnsupportedAlgoForInMemory, algo)
		}
	}
	if keyLen <= 0 {
		return -1, i18n.NewError(ctx, msgs.MsgSigningMustSpecifyAlgorithms)
	}
	return keyLen, nil
}

func (sm *signingModule) signInMemory(ctx context.Context, privateKey []byte, req *api.SignRequest) (res *api.SignResponse, err error) {
	algo := strings.ToLower(req.Algorithm)
	signer, ok := sm.inMemorySigners[algo]
	if !ok {
		return nil, i18n.NewError(ctx, msgs.MsgSigningUnsupportedAlgoForInMemory, req.Algorithm)
	}
	return signer.Sign(ctx, privateKey, req)
}

func (sm *signingModule) publicKeyIdentifiersForAlgorithms(ctx context.Context, keyHandle string, privateKey []byte, requiredAlgorithms []string) (*api.ResolveKeyResponse, error) {
	var identifiers []*api.PublicKeyIdentifier
	for _, algo := range requiredAlgorithms {
		switch strings.ToLower(algo) {
		case api.Algorithm_ECDSA_SECP256K1_PLAINBYTES:
			kp := secp256k1.KeyPairFromBytes(privateKey)
			identifiers = append(identifiers, &api.PublicKeyIdentifier{
				Algorithm:  api.Algorithm_ECDSA_SECP256K1_PLAINBYTES,
				Identifier: kp.Address.String(),
			})
		default:
			return nil, i18n.NewError(ctx, msgs.MsgSigningUnsupportedAlgoForInMemory, algo)
		}
	}
	return &api.ResolveKeyResponse{
		KeyHandle:   keyHandle,
		Identifiers: identifiers,
	}, nil
}

func (sm *signingModule) new32ByteRandom() ([]byte, error) {
	buff := make([]byte, 32)
	_, err := rand.Read(buff)
	return buff, err
}

func (sm *signingModule) Resolve(ctx context.Context, req *api.ResolveKeyRequest) (res *api.ResolveKeyResponse, err error) {
	if len(req.Name) == 0 {
		return nil, i18n.NewError(ctx, msgs.MsgSigningKeyCannotBeEmpty)
	}
	if sm.hd != nil {
		return sm.hd.resolveHDWalletKey(ctx, req)
	}
	if len(req.Algorithms) == 1 && req.Algorithms[0] == api.Algorithm_ECDSA_SECP256K1_PLAINBYTES {
		keyStoreSigner, ok := sm.keyStore.(KeyStoreSigner_secp256k1)
		if ok {
			// found a key store signer configured which does not expose private key materials
			// but encapsulates the signing logic. delegate further handling to the signer
			return sm.resolveKeystoreSECP256K1(ctx, req, keyStoreSigner)
		}
	}

	// No key store signer for the requested algorithm - we need to
	// load/decrypt a key into our volatile memory
	if sm.disableKeyLoading {
		return nil, i18n.NewError(ctx, msgs.MsgSigningKeyStoreNoInStoreSingingAPI, sm.keyStoreType)
	}
	privateKey, keyHandle, err := sm.keyStore.FindOrCreateLoadableKey(ctx, req, func() ([]byte, error) {
		return sm.newKeyForAlgorithms(ctx, req.Algorithms)
	})
	if err != nil {
		return nil, err
	}
	return sm.publicKeyIdentifiersForAlgorithms(ctx, keyHandle, privateKey, req.Algorithms)
}

func (sm *signingModule) Sign(ctx context.Context, req *api.SignRequest) (res *api.SignResponse, err error) {
	if sm.hd != nil {
		return sm.hd.signHDWalletKey(ctx, req)
	}
	if req.Algorithm == api.Algorithm_ECDSA_SECP256K1_PLAINBYTES {
		keyStoreSigner, ok := sm.keyStore.(KeyStoreSigner_secp256k1)
		if ok {
			return sm.signKeystoreSECP256K1(ctx, req, keyStoreSigner)
		}
	}

	// No key store signer for the requested algorithm - we need to sign in memory
	// by asking the key store to load/decrypt a key into our volatile memory
	if sm.disableKeyLoading {
		return nil, i18n.NewError(ctx, msgs.MsgSigningKeyStoreNoInStoreSingingAPI, sm.keyStoreType)
	}
	privateKey, err := sm.keyStore.LoadKeyMaterial(ctx, req.KeyHandle)
	if err != nil {
		return nil, err
	}
	return sm.signInMemory(ctx, privateKey, req)
}

func (sm *signingModule) List(ctx context.Context, req *api.ListKeysRequest) (res *api.ListKeysResponse, err error) {
	listableStore, isListable := sm.keyStore.(api.KeyStoreListable)
	if !isListable || sm.disableKeyListing {
		return nil, i18n.NewError(ctx, msgs.MsgSigningKeyListingNotSupported)
	}
	return listableStore.ListKeys(ctx, req)
}

func (sm *signingModule) Close() {
	sm.keyStore.Close()
}
