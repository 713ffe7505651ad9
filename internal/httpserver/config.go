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

package httpserver

import (
	"github.com/AI-Protocol-Official/intelli-linker-contracts/internal/confutil"
	"github.com/AI-Protocol-Official/intelli-linker-contracts/internal/tls"
)

type Config struct {
	Address               *string    `yaml:"address"`
	Port                  *int       `yaml:"port"`
	DefaultRequestTimeout *string    `yaml:"defaultRequestTimeout"`
	MaxRequestTimeout     *string    `yaml:"maxRequestTimeout"`
	ReadTimeout           *string    `yaml:"readTimeout"`
	WriteTimeout          *string    `yaml:"writeTimeout"`
	ShutdownTimeout       *string    `yaml:"shutdownTimeout"`
	TLS                   tls.Config `yaml:"tls"`
	CORS                  CORSConfig `yaml:"cors"`
}

type CORSConfig struct {
	Enabled          bool     `yaml:"enabled"`
	Debug            bool     `yaml:"debug"`
	AllowCredentials *bool    `yaml:"allowCredentials,omitempty"`
	AllowedHeaders   []string `yaml:"allowedHeaders,omitempty"`
	AllowedMethods   []string `yaml:"allowedMethods,omitempty"`
	AllowedOrigins   []string `yaml:"allowedOrigins,omitempty"`
	MaxAge           *string  `yaml:"maxAge,omitempty"`
}

var Defaults = &Config{
	Address:               confutil.P("127.0.0.1"),
	DefaultRequestTimeout: confutil.P("2m"),
	MaxRequestTimeout:     confutil.P("10m"),
	ShutdownTimeout:       confutil.P("10s"),
}
