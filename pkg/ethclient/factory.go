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
	"context"
	"strings"

	"github.com/AI-Protocol-Official/intelli-linker-contracts/internal/msgs"
	"github.com/AI-Protocol-Official/intelli-linker-contracts/internal/rpcclient"
	"github.com/hyperledger/firefly-common/pkg/i18n"
	"github.com/hyperledger/firefly-common/pkg/wsclient"
	"github.com/hyperledger/firefly-signer/pkg/rpcbackend"
)

// EthClientFactory hands out client connections built from one shared
// blockchain configuration, so separate components can own separate
// connections (or connection pools) to the same chain.
type EthClientFactory interface {
	ChainID() int64            // queried at construction, and checked consistent between HTTP and WS
	HTTPClient() EthClient     // connection-pooled HTTP client, one per factory
	SharedWS() EthClient       // long lived WebSocket shared by components that do not need their own
	NewWS() (EthClient, error) // dedicated WebSocket, the caller owns closing it
	Close()                    // closes the HTTP client and the shared WebSocket
}

type ethClientFactory struct {
	bgCtx   context.Context
	conf    *Config
	keymgr  KeyManager
	chainID int64

	httpClient EthClient
	sharedWS   EthClient
	wsConf     *wsclient.WSConfig
}

// NewEthClientFactory connects both transports up front. The shared
// WebSocket is established immediately, and the chain ID is queried over
// each connection, so a mismatched pair of URLs fails at startup.
func NewEthClientFactory(bgCtx context.Context, keymgr KeyManager, conf *Config) (EthClientFactory, error) {
	if conf.HTTP.URL == "" {
		return nil, i18n.NewError(bgCtx, msgs.MsgEthClientHTTPURLMissing)
	}
	httpConf, err := rpcclient.ParseHTTPConfig(bgCtx, &conf.HTTP)
	if err != nil {
		return nil, err
	}

	// The WebSocket URL can be left out, and derives from the HTTP URL
	// (including https to wss)
	if conf.WS.URL == "" {
		if rest, isHTTP := strings.CutPrefix(conf.HTTP.URL, "http"); isHTTP {
			conf.WS.URL = "ws" + rest
		}
	}

	f := &ethClientFactory{
		bgCtx:  bgCtx,
		conf:   conf,
		keymgr: keymgr,
	}
	if f.wsConf, err = rpcclient.ParseWSConfig(bgCtx, &conf.WS); err != nil {
		return nil, err
	}

	if f.httpClient, err = WrapRPCClient(bgCtx, keymgr, rpcbackend.NewRPCClient(httpConf), conf); err != nil {
		return nil, err
	}
	if f.sharedWS, err = f.NewWS(); err != nil {
		return nil, err
	}

	httpChainID := f.httpClient.ChainID()
	wsChainID := f.sharedWS.ChainID()
	if wsChainID != httpChainID {
		return nil, i18n.NewError(bgCtx, msgs.MsgEthClientChainIDMismatch, httpChainID, wsChainID)
	}
	f.chainID = httpChainID
	return f, nil
}

func (f *ethClientFactory) NewWS() (EthClient, error) {
	wsRPC := rpcbackend.NewWSRPCClient(f.wsConf)
	if err := wsRPC.Connect(f.bgCtx); err != nil {
		return nil, err
	}
	return WrapRPCClient(f.bgCtx, f.keymgr, wsRPC, f.conf)
}

func (f *ethClientFactory) HTTPClient() EthClient {
	return f.httpClient
}

func (f *ethClientFactory) SharedWS() EthClient {
	return f.sharedWS
}

func (f *ethClientFactory) ChainID() int64 {
	return f.chainID
}

func (f *ethClientFactory) Close() {
	f.httpClient.Close()
	f.sharedWS.Close()
}
