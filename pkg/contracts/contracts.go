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
	_ "embed"

	"github.com/AI-Protocol-Official/intelli-linker-contracts/internal/cache"
	"github.com/AI-Protocol-Official/intelli-linker-contracts/internal/confutil"
	"github.com/AI-Protocol-Official/intelli-linker-contracts/internal/msgs"
	"github.com/AI-Protocol-Official/intelli-linker-contracts/pkg/solutils"
	"github.com/hyperledger/firefly-common/pkg/i18n"
)

// Kind identifies one of the contracts carried in the embedded build set.
type Kind string

const (
	FungibleToken     Kind = "FungibleToken"
	NFTCollection     Kind = "NFTCollection"
	BindingRegistry   Kind = "BindingRegistry"
	TokenLinker       Kind = "TokenLinker"
	TokenLinkerV2     Kind = "TokenLinkerV2"
	TokenLinkerV3     Kind = "TokenLinkerV3"
	ERC1967Proxy      Kind = "ERC1967Proxy"
	CollectionFactory Kind = "CollectionFactory"
	CollectionStaking Kind = "CollectionStaking"
	CollectionDrop    Kind = "CollectionDrop"
)

//go:embed abis/FungibleToken.json
var FungibleTokenJSON []byte

//go:embed abis/NFTCollection.json
var NFTCollectionJSON []byte

//go:embed abis/BindingRegistry.json
var BindingRegistryJSON []byte

//go:embed abis/TokenLinker.json
var TokenLinkerJSON []byte

//go:embed abis/TokenLinkerV2.json
var TokenLinkerV2JSON []byte

//go:embed abis/TokenLinkerV3.json
var TokenLinkerV3JSON []byte

//go:embed abis/ERC1967Proxy.json
var ERC1967ProxyJSON []byte

//go:embed abis/CollectionFactory.json
var CollectionFactoryJSON []byte

//go:embed abis/CollectionStaking.json
var CollectionStakingJSON []byte

//go:embed abis/CollectionDrop.json
var CollectionDropJSON []byte

var buildJSON = map[Kind][]byte{
	FungibleToken:     FungibleTokenJSON,
	NFTCollection:     NFTCollectionJSON,
	BindingRegistry:   BindingRegistryJSON,
	TokenLinker:       TokenLinkerJSON,
	TokenLinkerV2:     TokenLinkerV2JSON,
	TokenLinkerV3:     TokenLinkerV3JSON,
	ERC1967Proxy:      ERC1967ProxyJSON,
	CollectionFactory: CollectionFactoryJSON,
	CollectionStaking: CollectionStakingJSON,
	CollectionDrop:    CollectionDropJSON,
}

var allKinds = []Kind{
	FungibleToken,
	NFTCollection,
	BindingRegistry,
	TokenLinker,
	TokenLinkerV2,
	TokenLinkerV3,
	ERC1967Proxy,
	CollectionFactory,
	CollectionStaking,
	CollectionDrop,
}

var buildCache = cache.NewCache[Kind, *solutils.SolidityBuild](&cache.Config{}, &cache.Config{
	Capacity: confutil.P(len(allKinds)),
})

// Kinds returns all contract kinds in the embedded build set, in deployment
// dependency order (leaf contracts before the contracts that consume them).
func Kinds() []Kind {
	kinds := make([]Kind, len(allKinds))
	copy(kinds, allKinds)
	return kinds
}

// Options makes Kind usable as a validated persisted enum.
func (k Kind) Options() []string {
	options := make([]string, len(allKinds))
	for i, kind := range allKinds {
		options[i] = string(kind)
	}
	return options
}

// KindNamed maps a string to a contract kind, reporting whether an embedded
// build exists for it.
func KindNamed(name string) (Kind, bool) {
	_, ok := buildJSON[Kind(name)]
	return Kind(name), ok
}

// Build returns the parsed ABI and creation bytecode for a contract kind.
// Parsed builds are cached, so repeat calls for the same kind return the
// same *SolidityBuild.
func Build(ctx context.Context, kind Kind) (*solutils.SolidityBuild, error) {
	if build, ok := buildCache.Get(kind); ok {
		return build, nil
	}
	buildOutput, ok := buildJSON[kind]
	if !ok {
		return nil, i18n.NewError(ctx, msgs.MsgContractsUnknownKind, kind)
	}
	build, err := solutils.LoadBuild(ctx, buildOutput)
	if err != nil {
		return nil, err
	}
	buildCache.Set(kind, build)
	return build, nil
}

// MustBuild is a convenience for static initialization against known kinds.
func MustBuild(kind Kind) *solutils.SolidityBuild {
	build, err := Build(context.Background(), kind)
	if err != nil {
		panic(err)
	}
	return build
}
