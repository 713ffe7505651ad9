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
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/AI-Protocol-Official/intelli-linker-contracts/internal/confutil"
	"github.com/AI-Protocol-Official/intelli-linker-contracts/internal/httpserver"
	"github.com/gorilla/websocket"
	"github.com/hyperledger/firefly-signer/pkg/rpcbackend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServerHTTP(t *testing.T, conf *Config) (string, *rpcServer, func()) {

	conf.HTTP.Address = confutil.P("127.0.0.1")
	conf.HTTP.Port = confutil.P(0)
	conf.WS.Disabled = true
	s, err := NewServer(context.Background(), conf)
	assert.NoError(t, err)
	err = s.Start()
	assert.NoError(t, err)
	rs := s.(*rpcServer)
	return fmt.Sprintf("http://%s", rs.HTTPAddr()), rs, s.Stop

}

func newTestServerWebSockets(t *testing.T, conf *Config) (string, *rpcServer, func()) {

	conf.WS.Address = confutil.P("127.0.0.1")
	conf.WS.Port = confutil.P(0)
	conf.HTTP.Disabled = true
	s, err := NewServer(context.Background(), conf)
	assert.NoError(t, err)
	err = s.Start()
	assert.NoError(t, err)
	rs := s.(*rpcServer)
	return fmt.Sprintf("ws://%s", rs.WSAddr()), rs, s.Stop

}

func regTestRPC(s *rpcServer, method string, handler RPCHandler) {
	group := strings.SplitN(method, "_", 2)[0]
	module := s.modules[group]
	if module == nil {
		module = NewRPCModule(group)
		s.Register(module)
	}
	module.Add(method, handler)
}

func TestBadHTTPConfig(t *testing.T) {

	// Port falls back to the default, so the bad address is what fails
	_, err := NewServer(context.Background(), &Config{
		HTTP: HTTPEndpointConfig{
			Config: httpserver.Config{
				Address: confutil.P("::::::wrong"),
			},
		},
		WS: WSEndpointConfig{Disabled: true},
	})
	assert.Regexp(t, "IL010200", err)

}

func TestBadWSConfig(t *testing.T) {

	_, err := NewServer(context.Background(), &Config{
		WS: WSEndpointConfig{
			Config: httpserver.Config{
				Address: confutil.P("::::::wrong"),
			},
		},
		HTTP: HTTPEndpointConfig{Disabled: true},
	})
	assert.Regexp(t, "IL010200", err)

}

func TestBadHTTPMethod(t *testing.T) {

	url, _, done := newTestServerHTTP(t, &Config{})
	defer done()

	res, err := http.DefaultClient.Get(url)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusMethodNotAllowed, res.StatusCode)

}

func TestBadWSUpgrade(t *testing.T) {

	_, s, done := newTestServerWebSockets(t, &Config{})
	defer done()

	res, err := http.DefaultClient.Get(fmt.Sprintf("http://%s", s.WSAddr()))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

}

func TestWebSocketRPCRequestResponse(t *testing.T) {

	url, s, done := newTestServerWebSockets(t, &Config{})
	defer done()

	regTestRPC(s, "stringy_method", RPCMethod2(func(ctx context.Context, p0, p1 string) (string, error) {
		assert.Equal(t, "v0", p0)
		assert.Equal(t, "v1", p1)
		return "result", nil
	}))

	c, _, err := websocket.DefaultDialer.Dial(url, http.Header{})
	require.NoError(t, err)
	defer c.Close()

	err = c.WriteMessage(websocket.TextMessage, ([]byte)(`{
		"jsonrpc": "2.0",
		"id": "1",
		"method": "stringy_method",
		"params": ["v0","v1"]
	}`))
	require.NoError(t, err)

	_, b, err := c.ReadMessage()
	require.NoError(t, err)
	var rpcRes rpcbackend.RPCResponse
	err = json.Unmarshal(b, &rpcRes)
	require.NoError(t, err)
	require.Nil(t, rpcRes.Error)
	assert.JSONEq(t, `"result"`, rpcRes.Result.String())

}

func TestWebSocketSenderBadData(t *testing.T) {

	url, s, done := newTestServerWebSockets(t, &Config{})
	defer done()

	c, _, err := websocket.DefaultDialer.Dial(url, http.Header{})
	require.NoError(t, err)

	var wsConn *wsConnection
	for wsConn == nil {
		time.Sleep(1 * time.Millisecond)
		s.connLock.Lock()
		for _, wsConn = range s.connections {
		}
		s.connLock.Unlock()
	}
	_ = c.Close()
	<-wsConn.closing

	// Serialization failures close the connection rather than sending
	wsConn.respond(map[bool]bool{false: true})

}
