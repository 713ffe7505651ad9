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

package rpcserver

import (
	"github.com/AI-Protocol-Official/intelli-linker-contracts/internal/confutil"
	"github.com/AI-Protocol-Official/intelli-linker-contracts/internal/httpserver"
)

const (
	// Default listen ports sit 100 above the conventional 8545/8546 node ports,
	// so the server can run next to a local Ethereum node without a clash.
	DefaultHTTPPort      = 8645
	DefaultWebSocketPort = 8646

	defaultWSBufferSize = "64KB"
)

// Config carries one endpoint section per transport. Either can be disabled,
// disabling both leaves a server that starts and serves nothing.
type Config struct {
	HTTP HTTPEndpointConfig `yaml:"http,omitempty"`
	WS   WSEndpointConfig   `yaml:"ws,omitempty"`
}

type HTTPEndpointConfig struct {
	Disabled          bool `yaml:"disabled,omitempty"`
	httpserver.Config `yaml:",inline"`
}

type WSEndpointConfig struct {
	Disabled          bool `yaml:"disabled,omitempty"`
	httpserver.Config `yaml:",inline"`
	ReadBufferSize    *string `yaml:"readBufferSize"`
	WriteBufferSize   *string `yaml:"writeBufferSize"`
}

var WSDefaults = WSEndpointConfig{
	ReadBufferSize:  confutil.P(defaultWSBufferSize),
	WriteBufferSize: confutil.P(defaultWSBufferSize),
}
