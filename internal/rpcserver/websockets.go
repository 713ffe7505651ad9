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
	"bytes"
	"context"
	"encoding/json"
	"sync"

	"github.com/AI-Protocol-Official/intelli-linker-contracts/pkg/types"
	"github.com/gorilla/websocket"
	"github.com/hyperledger/firefly-common/pkg/log"
)

// wsConnection is one upgraded WebSocket carrying JSON/RPC traffic.
// Requests are handled concurrently, but responses funnel through a
// single sender goroutine so writes to the socket never interleave.
type wsConnection struct {
	ctx       context.Context
	cancelCtx context.CancelFunc
	server    *rpcServer
	id        string
	conn      *websocket.Conn
	send      chan []byte
	closing   chan struct{}
	closeOnce sync.Once
}

func (s *rpcServer) newWSConnection(conn *websocket.Conn) {
	c := &wsConnection{
		id:      types.ShortID(),
		server:  s,
		conn:    conn,
		send:    make(chan []byte),
		closing: make(chan struct{}),
	}
	c.ctx, c.cancelCtx = context.WithCancel(log.WithLogField(s.bgCtx, "wsconn", c.id))

	s.connLock.Lock()
	s.connections[c.id] = c
	s.connLock.Unlock()

	go c.receiveLoop()
	go c.sendLoop()
}

func (s *rpcServer) wsClosed(id string) {
	s.connLock.Lock()
	defer s.connLock.Unlock()

	delete(s.connections, id)
}

// close is safe to call from any goroutine, any number of times.
func (c *wsConnection) close() {
	c.closeOnce.Do(func() {
		c.conn.Close()
		close(c.closing)
		c.cancelCtx()
	})

	c.server.wsClosed(c.id)
	log.L(c.ctx).Infof("WS disconnected")
}

func (c *wsConnection) sendLoop() {
	defer c.close()

	for {
		select {
		case payload := <-c.send:
			log.L(c.ctx).Tracef("Sending: %s", payload)
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				log.L(c.ctx).Errorf("Send failed - closing connection: %s", err)
				return
			}
		case <-c.closing:
			return
		}
	}
}

func (c *wsConnection) receiveLoop() {
	defer c.close()

	log.L(c.ctx).Infof("WS connected")
	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			log.L(c.ctx).Debugf("WS read ended: %s", err)
			return
		}
		log.L(c.ctx).Tracef("Received: %s", payload)
		go c.handleMessage(payload)
	}
}

func (c *wsConnection) handleMessage(payload []byte) {
	res, _ := c.server.rpcHandler(c.ctx, bytes.NewReader(payload))
	c.respond(res)
}

func (c *wsConnection) respond(res interface{}) {
	payload, err := json.Marshal(res)
	if err != nil {
		log.L(c.ctx).Errorf("Failed to serialize JSON/RPC response: %s", err)
		c.close()
		return
	}
	select {
	case c.send <- payload:
	case <-c.ctx.Done():
	}
}
