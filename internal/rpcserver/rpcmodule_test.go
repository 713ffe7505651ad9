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
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRPCModuleGroupFromMethod(t *testing.T) {

	noop := RPCMethod0(func(ctx context.Context) (string, error) { return "", nil })

	// A full method name seeds the group
	m := NewRPCModule("eth_getTransactionCount")
	assert.Equal(t, "eth", m.group)

	m.Add("eth_getTransactionCount", noop).
		Add("eth_getBalance", noop)
	assert.Len(t, m.methods, 2)

}

func TestRPCModuleBadMethodsPanic(t *testing.T) {

	noop := RPCMethod0(func(ctx context.Context) (string, error) { return "", nil })

	m := NewRPCModule("net").Add("net_version", noop)

	assert.PanicsWithValue(t, "method eth_call does not belong to module net", func() {
		m.Add("eth_call", noop)
	})
	assert.PanicsWithValue(t, "duplicate method: net_version", func() {
		m.Add("net_version", noop)
	})

}
