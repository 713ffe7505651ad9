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

package retry

import "github.com/AI-Protocol-Official/intelli-linker-contracts/internal/confutil"

// Config tunes an indefinite backoff loop, such as receipt polling.
type Config struct {
	InitialDelay *string  `yaml:"initialDelay"`
	MaxDelay     *string  `yaml:"maxDelay"`
	Factor       *float64 `yaml:"factor"`
}

// ConfigWithMax additionally bounds the loop, by attempt count and/or by
// elapsed time.
type ConfigWithMax struct {
	Config
	MaxAttempts *int    `yaml:"maxAttempts"`
	MaxTime     *string `yaml:"maxTime"`
}

// Defaults suit receipt polling, where the first answer usually needs at
// least one block interval. A zero MaxTime leaves limited loops bounded by
// attempts alone.
var Defaults = &ConfigWithMax{
	Config: Config{
		InitialDelay: confutil.P("500ms"),
		MaxDelay:     confutil.P("15s"),
		Factor:       confutil.P(2.0),
	},
	MaxAttempts: confutil.P(3),
	MaxTime:     confutil.P("0"),
}
