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
	"github.com/AI-Protocol-Official/intelli-linker-contracts/internal/confutil"
)

type Config struct {
	KeyStore      StoreConfig         `yaml:"keyStore"`
	KeyDerivation KeyDerivationConfig `yaml:"keyDerivation"`
}

const (
	KeyStoreTypeFilesystem = "filesystem" // one keystorev3 file per key under a root directory
	KeyStoreTypeStatic     = "static"     // key material carried directly in the configuration
)

type StoreConfig struct {
	Type              string                 `yaml:"type"`
	DisableKeyListing bool                   `yaml:"disableKeyListing"`
	DisableKeyLoading bool                   `yaml:"disableKeyLoading"` // HD wallet derivation needs keys in memory, so must stay false for BIP32
	FileSystem        FileSystemConfig       `yaml:"filesystem"`
	Static            StaticKeyStorageConfig `yaml:"static"`
}

type StaticKeyEntryEncoding string

const (
	StaticKeyEntryEncodingNONE   StaticKeyEntryEncoding = "none"
	StaticKeyEntryEncodingHEX    StaticKeyEntryEncoding = "hex"
	StaticKeyEntryEncodingBase64 StaticKeyEntryEncoding = "base64"
)

// Each static entry supplies its bytes either inline, or from a file,
// with the encoding applied to whichever source is used.
type StaticKeyEntryConfig struct {
	Encoding StaticKeyEntryEncoding `yaml:"encoding"`
	Filename string                 `yaml:"filename"`
	Trim     bool                   `yaml:"trim"`
	Inline   string                 `yaml:"inline"`
}

type StaticKeyStorageConfig struct {
	Keys map[string]StaticKeyEntryConfig `yaml:"keys"`
}

type KeyDerivationType string

const (
	// Each key is a separate piece of material in the key store
	KeyDerivationTypeDirect KeyDerivationType = "direct"
	// All keys derive from one BIP39 mnemonic held in the store, via a BIP32 HD wallet
	KeyDerivationTypeBIP32 KeyDerivationType = "bip32"
)

type KeyDerivationConfig struct {
	Type                  KeyDerivationType `yaml:"type"`
	SeedKeyPath           ConfigKeyEntry    `yaml:"seedKey"`
	BIP44DirectResolution bool              `yaml:"bip44DirectResolution"`
	BIP44Prefix           *string           `yaml:"bip44Prefix"`
	BIP44HardenedSegments *int              `yaml:"bip44HardenedSegments"`
}

// One hardened segment after the prefix gives paths like m/44'/60'/0'/0/0,
// matching what common wallet tooling produces for account zero.
var KeyDerivationDefaults = &KeyDerivationConfig{
	BIP44Prefix:           confutil.P("m/44'/60'"),
	BIP44HardenedSegments: confutil.P(1),
	SeedKeyPath:           ConfigKeyEntry{Name: "seed", Index: 0},
}

type ConfigKeyPathEntry struct {
	Name  string `yaml:"name"`
	Index uint64 `yaml:"index"`
}

type ConfigKeyEntry struct {
	Name       string               `yaml:"name"`
	Index      uint64               `yaml:"index"`
	Attributes map[string]string    `yaml:"attributes"`
	Path       []ConfigKeyPathEntry `yaml:"path"`
}

func (k *ConfigKeyEntry) ToKeyResolutionRequest() *ResolveKeyRequest {
	req := &ResolveKeyRequest{
		Name:       k.Name,
		Index:      k.Index,
		Attributes: k.Attributes,
		Path:       []*ResolveKeyPathSegment{},
	}
	for _, p := range k.Path {
		req.Path = append(req.Path, &ResolveKeyPathSegment{
			Name:  p.Name,
			Index: p.Index,
		})
	}
	return req
}
