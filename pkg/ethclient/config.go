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
	"github.com/AI-Protocol-Official/intelli-linker-contracts/internal/confutil"
	"github.com/AI-Protocol-Official/intelli-linker-contracts/internal/retry"
	"github.com/AI-Protocol-Official/intelli-linker-contracts/internal/rpcclient"
)

type Config struct {
	HTTP              rpcclient.HTTPConfig `yaml:"http"`
	WS                rpcclient.WSConfig   `yaml:"ws"`
	GasEstimateFactor *float64             `yaml:"gasEstimateFactor"` // submission uses this multiple of the estimate, when the caller does not supply a gas limit
	ReceiptPolling    retry.Config         `yaml:"receiptPolling"`
}

var Defaults = &Config{
	GasEstimateFactor: confutil.P(2.0),
}
