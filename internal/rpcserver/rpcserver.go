// Copyright © 2023 Kaleido, Inc.
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
	"encoding/json"
	"net"
	"net/http"
	"sync"

	"github.com/AI-Protocol-Official/intelli-linker-contracts/internal/confutil"
	"github.com/AI-Protocol-Official/intelli-linker-contracts/internal/httpserver"
	"github.com/gorilla/websocket"
	"github.com/hyperledger/firefly-common/pkg/log"
)

// Server is a JSON/RPC 2.0 server over the HTTP and/or WebSocket endpoints
// enabled in its config. Method handlers arrive in modules, grouped by the
// prefix of the method names they serve.
type Server interface {
	Register(module *RPCModule)
	Start() error
	Stop()
	HTTPAddr() net.Addr
	WSAddr() net.Addr
}

type rpcServer struct {
	bgCtx       context.Context
	httpServer  httpserver.Server
	wsServer    httpserver.Server
	upgrader    *websocket.Upgrader
	connLock    sync.Mutex
	connections map[string]*wsConnection
	modules     map[string]*RPCModule
}

func NewServer(ctx context.Context, conf *Config) (Server, error) {
	s := &rpcServer{
		bgCtx:       ctx,
		connections: make(map[string]*wsConnection),
		modules:     make(map[string]*RPCModule),
	}

	if !conf.HTTP.Disabled {
		httpConf := conf.HTTP.Config
		if httpConf.Port == nil {
			httpConf.Port = confutil.P(DefaultHTTPPort)
		}
		httpServer, err := httpserver.NewServer(ctx, "JSON/RPC (HTTP)", &httpConf, http.HandlerFunc(s.serveHTTP))
		if err != nil {
			return nil, err
		}
		s.httpServer = httpServer
	}

	if !conf.WS.Disabled {
		s.upgrader = &websocket.Upgrader{
			ReadBufferSize:  int(confutil.ByteSize(conf.WS.ReadBufferSize, 0, *WSDefaults.ReadBufferSize)),
			WriteBufferSize: int(confutil.ByteSize(conf.WS.WriteBufferSize, 0, *WSDefaults.WriteBufferSize)),
		}
		log.L(ctx).Infof("WebSocket server readBufferSize=%d writeBufferSize=%d", s.upgrader.ReadBufferSize, s.upgrader.WriteBufferSize)
		wsConf := conf.WS.Config
		if wsConf.Port == nil {
			wsConf.Port = confutil.P(DefaultWebSocketPort)
		}
		wsServer, err := httpserver.NewServer(ctx, "JSON/RPC (WebSocket)", &wsConf, http.HandlerFunc(s.serveWS))
		if err != nil {
			return nil, err
		}
		s.wsServer = wsServer
	}

	return s, nil
}

func (s *rpcServer) Register(module *RPCModule) {
	s.modules[module.group] = module
}

func (s *rpcServer) HTTPAddr() (a net.Addr) {
	if s.httpServer != nil {
		a = s.httpServer.Addr()
	}
	return a
}

func (s *rpcServer) WSAddr() (a net.Addr) {
	if s.wsServer != nil {
		a = s.wsServer.Addr()
	}
	return a
}

func (s *rpcServer) serveHTTP(res http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		res.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	rpcRes, isOK := s.rpcHandler(req.Context(), req.Body)

	res.Header().Set("Content-Type", "application/json; charset=utf-8")
	if isOK {
		res.WriteHeader(http.StatusOK)
	} else {
		res.WriteHeader(http.StatusInternalServerError)
	}
	_ = json.NewEncoder(res).Encode(rpcRes)
}

func (s *rpcServer) serveWS(res http.ResponseWriter, req *http.Request) {
	conn, err := s.upgrader.Upgrade(res, req, nil)
	if err != nil {
		log.L(req.Context()).Errorf("WebSocket upgrade failed: %s", err)
		return
	}
	s.newWSConnection(conn)
}

func (s *rpcServer) Start() error {
	if s.httpServer != nil {
		if err := s.httpServer.Start(); err != nil {
			return err
		}
	}
	if s.wsServer != nil {
		return s.wsServer.Start()
	}
	return nil
}

func (s *rpcServer) Stop() {
	var wg sync.WaitGroup
	for _, server := range []httpserver.Server{s.httpServer, s.wsServer} {
		if server != nil {
			wg.Add(1)
			go func(server httpserver.Server) {
				defer wg.Done()
				server.Stop()
			}(server)
		}
	}
	wg.Wait()
}
