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
	"fmt"
	"strings"
)

// RPCModule is a set of JSON/RPC handlers sharing one method prefix.
//
// The server is unopinionated about what individual methods do, but it
// does enforce the "group_function" naming convention that Ethereum
// JSON/RPC established ("eth_call", "net_version" and so on), where the
// segment ahead of the first underscore selects the module. The
// convention is not part of JSON/RPC 2.0 itself.
type RPCModule struct {
	group   string
	methods map[string]RPCHandler
}

// NewRPCModule creates an empty module for the given group. A full
// method name is accepted too, in which case everything from the first
// underscore onwards is ignored.
func NewRPCModule(prefix string) *RPCModule {
	return &RPCModule{
		group:   strings.SplitN(prefix, "_", 2)[0],
		methods: map[string]RPCHandler{},
	}
}

// Add registers a handler for a method in this module's group, and
// returns the module so registrations chain. Methods are wired up
// during startup, so a wrong group or a duplicate name panics.
func (m *RPCModule) Add(method string, handler RPCHandler) *RPCModule {
	if group := strings.SplitN(method, "_", 2)[0]; group != m.group {
		panic(fmt.Sprintf("method %s does not belong to module %s", method, m.group))
	}
	if _, dup := m.methods[method]; dup {
		panic(fmt.Sprintf("duplicate method: %s", method))
	}
	m.methods[method] = handler
	return m
}
