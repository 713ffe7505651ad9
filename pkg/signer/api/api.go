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

package api

import (
	"context"
)

// The algorithm string binds together:
// - ECDSA algorithm
// - SECP256K1 curve
// - Plain bytes-in, bytes-out (caller is responsible for generating/formatting/hashing the payload such as an Eth TX at some version, or EIP-712 etc. prior to signing)
const Algorithm_ECDSA_SECP256K1_PLAINBYTES = "ecdsa_secp256k1_plainbytes"

// A request to resolve a named key to a key handle, ready for signing.
// The path is ordered from the root down to (but not including) the leaf name,
// and the index alongside each name is unique within its parent.
type ResolveKeyRequest struct {
	Name       string
	Index      uint64
	Attributes map[string]string
	Path       []*ResolveKeyPathSegment
	Algorithms []string
}

type ResolveKeyPathSegment struct {
	Name  string
	Index uint64
}

// The key handle is the stable reference the key store uses for the key,
// and must be retained by the caller to pass back on signing requests.
type ResolveKeyResponse struct {
	KeyHandle   string
	Identifiers []*PublicKeyIdentifier
}

type PublicKeyIdentifier struct {
	Algorithm  string
	Identifier string
}

type SignRequest struct {
	KeyHandle string
	Algorithm string
	Payload   []byte
}

type SignResponse struct {
	Payload []byte
}

type ListKeysRequest struct {
	Limit    int
	Continue string
}

type ListKeysResponse struct {
	Items []*ListKeyEntry
	Next  string
}

type ListKeyEntry struct {
	Name        string
	KeyHandle   string
	Identifiers []*PublicKeyIdentifier
}

// All cryptographic storage needs to support master key encryption, by which the bytes
// can be decrypted and loaded into volatile memory for use, and then discarded.
//
// The implementation is not required to know how to generate or validate such data, just how
// to securely store and retrieve it using only the information contained in the returned
// keyHandle. If the implementation finds it does not exist, it can invoke the callback function
// to generate a new suitable random string to encrypt and store.
type KeyStore interface {
	FindOrCreateLoadableKey(ctx context.Context, req *ResolveKeyRequest, newKeyMaterial func() ([]byte, error)) (keyMaterial []byte, keyHandle string, err error)
	LoadKeyMaterial(ctx context.Context, keyHandle string) ([]byte, error)
	Close()
}

// Some cryptographic storage can provide a listing function to allow browsing of the keys,
// with a handle-based continuation scheme (not offset based, as that would be inefficient
// against most key storage technologies).
type KeyStoreListable interface {
	ListKeys(ctx context.Context, req *ListKeysRequest) (res *ListKeysResponse, err error)
}

// In-memory signers get the private key material loaded from the key store, and perform
// the signing in the memory of this process.
type InMemorySigner interface {
	Sign(ctx context.Context, privateKey []byte, req *SignRequest) (*SignResponse, error)
}

type Extension interface {
	// Return nil if keystore type is not known, or error if initialization fails
	KeyStore(ctx context.Context, config *StoreConfig) (store KeyStore, err error)
}
