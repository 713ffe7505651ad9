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
	"strings"
	"time"

	"github.com/AI-Protocol-Official/intelli-linker-contracts/internal/msgs"
	"github.com/hyperledger/firefly-common/pkg/i18n"
	"github.com/hyperledger/firefly-common/pkg/log"
	"github.com/hyperledger/firefly-signer/pkg/rpcbackend"
)

// Methods route to modules on the prefix ahead of the first underscore, so
// "eth_call" looks up the "eth" module.
func (s *rpcServer) methodHandler(method string) RPCHandler {
	group := strings.SplitN(method, "_", 2)[0]
	if module := s.modules[group]; module != nil {
		return module.methods[method]
	}
	return nil
}

func (s *rpcServer) processRPC(ctx context.Context, rpcReq *rpcbackend.RPCRequest) (*rpcbackend.RPCResponse, bool) {
	if rpcReq.ID == nil {
		err := i18n.NewError(ctx, msgs.MsgJSONRPCMissingRequestID)
		return rpcbackend.RPCErrorResponse(err, rpcReq.ID, rpcbackend.RPCCodeInvalidRequest), false
	}

	handler := s.methodHandler(rpcReq.Method)
	if handler == nil {
		err := i18n.NewError(ctx, msgs.MsgJSONRPCUnsupportedMethod)
		return rpcbackend.RPCErrorResponse(err, rpcReq.ID, rpcbackend.RPCCodeInvalidRequest), false
	}

	l := log.L(ctx)
	started := time.Now()
	l.Debugf("RPC-> %s", rpcReq.Method)
	rpcRes := handler(ctx, rpcReq)
	elapsedMS := float64(time.Since(started)) / float64(time.Millisecond)
	if rpcRes.Error != nil {
		l.Errorf("<!RPC %s (%.2fms): %s", rpcReq.Method, elapsedMS, rpcRes.Error.Message)
	} else {
		l.Debugf("<-RPC %s (%.2fms)", rpcReq.Method, elapsedMS)
	}
	return rpcRes, rpcRes.Error == nil
}
