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

package secp256k1

import (
	"context"

	"github.com/AI-Protocol-Official/intelli-linker-contracts/pkg/signer/api"
	"github.com/hyperledger/firefly-signer/pkg/secp256k1"
)

type secp256k1Signer struct{}

// Register adds the plain-bytes ECDSA signer to an in-memory signing
// module's algorithm registry.
func Register(registry map[string]api.InMemorySigner) {
	registry[api.Algorithm_ECDSA_SECP256K1_PLAINBYTES] = &secp256k1Signer{}
}

func (s *secp256k1Signer) Sign(ctx context.Context, privateKey []byte, req *api.SignRequest) (*api.SignResponse, error) {
	kp := secp256k1.KeyPairFromBytes(privateKey)
	sig, err := kp.SignDirect(req.Payload)
	if err != nil {
		return nil, err
	}
	return &api.SignResponse{Payload: sig.CompactRSV()}, nil
}
