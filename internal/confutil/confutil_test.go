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

package confutil

import (
	"context"
	"os"
	"path"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInt(t *testing.T) {
	assert.Equal(t, 100, Int(nil, 100))
	assert.Equal(t, 250, Int(P(250), 100))
	assert.Equal(t, 5, IntMin(P(2), 5, 100))
	assert.Equal(t, 50, IntMin(P(50), 5, 100))
}

func TestInt64(t *testing.T) {
	assert.Equal(t, int64(100), Int64(nil, 100))
	assert.Equal(t, int64(250), Int64(P(int64(250)), 100))
	assert.Equal(t, int64(5), Int64Min(P(int64(1)), 5, 100))
	assert.Equal(t, int64(50), Int64Min(P(int64(50)), 5, 100))
}

func TestBool(t *testing.T) {
	assert.True(t, Bool(nil, true))
	assert.False(t, Bool(nil, false))
	assert.True(t, Bool(P(true), false))
	assert.False(t, Bool(P(false), true))
}

func TestDuration(t *testing.T) {
	assert.Equal(t, 30*time.Second, Duration(nil, "30s"))
	assert.Equal(t, 30*time.Second, Duration(P("not-a-duration"), "30s"))
	assert.Equal(t, 250*time.Millisecond, Duration(P("250ms"), "30s"))
	assert.Equal(t, 1*time.Second, DurationMin(P("10ms"), 1*time.Second, "30s"))
	// Rounds up to whole seconds
	assert.Equal(t, int64(3), DurationSeconds(P("2500ms"), 0, "15s"))
}

func TestFloat64(t *testing.T) {
	assert.Equal(t, float64(0.5), Float64Min(nil, 0, 0.5))
	assert.Equal(t, float64(9.5), Float64Min(P(float64(9.5)), 0, 0.5))
	assert.Equal(t, float64(0), Float64Min(P(float64(-1.0)), 0, 0.5))
}

func TestStrings(t *testing.T) {
	assert.Equal(t, "fallback", StringNotEmpty(nil, "fallback"))
	assert.Equal(t, "fallback", StringNotEmpty(P(""), "fallback"))
	assert.Equal(t, "linker", StringNotEmpty(P("linker"), "fallback"))
	assert.Equal(t, "", StringOrEmpty(nil, ""))
	assert.Equal(t, "linker", StringOrEmpty(P("linker"), "fallback"))
	assert.Equal(t, []string{"fallback"}, StringSlice(nil, []string{"fallback"}))
	assert.Equal(t, []string{"v2", "v3"}, StringSlice([]string{"v2", "v3"}, []string{"fallback"}))
}

func TestUnixFileMode(t *testing.T) {
	assert.Equal(t, os.FileMode(0755), UnixFileMode(nil, "0755"))
	assert.Equal(t, os.FileMode(0640), UnixFileMode(P("0640"), "0755"))
	assert.Equal(t, os.FileMode(0755), UnixFileMode(P("not-octal"), "0755"))
	// Anything beyond the permission bits falls back too
	assert.Equal(t, os.FileMode(0755), UnixFileMode(P("7777"), "0755"))
}

func TestBigInt(t *testing.T) {
	assert.Equal(t, "1000000", BigInt(nil, "1000000").String())
	assert.Equal(t, "2000000", BigInt(P("2000000"), "1000000").String())
	assert.Equal(t, "1000000", BigInt(P("not-a-number"), "1000000").String())
	assert.Nil(t, BigIntOrNil(nil))
	assert.Equal(t, "42", BigIntOrNil(P("0x2a")).String())
}

func TestByteSize(t *testing.T) {
	assert.Equal(t, int64(16384), ByteSize(nil, 0, "16Kb"))
	assert.Equal(t, int64(4194304), ByteSize(P("4Mb"), 0, "16Kb"))
	assert.Equal(t, int64(4096), ByteSize(P("100"), 4096, "16Kb"))
}

func writeTestYAML(t *testing.T, content string) string {
	fileName := path.Join(t.TempDir(), "conf.yaml")
	err := os.WriteFile(fileName, []byte(content), 0644)
	require.NoError(t, err)
	return fileName
}

func TestReadAndParseYAMLFlat(t *testing.T) {
	ctx := context.Background()

	type chainConf struct {
		Endpoint      *string `yaml:"endpoint"`
		ChainID       *int    `yaml:"chainId"`
		Confirmations *int    `yaml:"confirmations"`
	}

	fileName := writeTestYAML(t, `
endpoint: ws://localhost:8546
chainId: 1337
`)

	var result chainConf
	err := ReadAndParseYAMLFile(ctx, fileName, &result)
	require.NoError(t, err)
	require.NotNil(t, result.Endpoint)
	assert.Equal(t, "ws://localhost:8546", *result.Endpoint)
	require.NotNil(t, result.ChainID)
	assert.Equal(t, 1337, *result.ChainID)
	// Unset fields stay nil, so defaulting can distinguish them from zero
	assert.Nil(t, result.Confirmations)
}

func TestReadAndParseYAMLNested(t *testing.T) {
	ctx := context.Background()

	type chainConf struct {
		Endpoint *string `yaml:"endpoint"`
		ChainID  *int    `yaml:"chainId"`
	}
	type nodeConf struct {
		Chain         *chainConf `yaml:"chain"`
		Confirmations *int       `yaml:"confirmations"`
	}

	fileName := writeTestYAML(t, `
chain:
  endpoint: ws://localhost:8546
  chainId: 1337
confirmations: 6
`)

	var result nodeConf
	err := ReadAndParseYAMLFile(ctx, fileName, &result)
	require.NoError(t, err)
	require.NotNil(t, result.Chain)
	require.NotNil(t, result.Chain.Endpoint)
	assert.Equal(t, "ws://localhost:8546", *result.Chain.Endpoint)
	require.NotNil(t, result.Chain.ChainID)
	assert.Equal(t, 1337, *result.Chain.ChainID)
	require.NotNil(t, result.Confirmations)
	assert.Equal(t, 6, *result.Confirmations)
}

func TestReadAndParseYAMLInlineEmbed(t *testing.T) {
	ctx := context.Background()

	type chainConf struct {
		Endpoint *string `yaml:"endpoint"`
		ChainID  *int    `yaml:"chainId"`
	}
	type chainConfExt struct {
		chainConf `yaml:",inline"`
	}
	type nodeConf struct {
		Chain         *chainConfExt `yaml:"chain"`
		Confirmations *int          `yaml:"confirmations"`
	}

	fileName := writeTestYAML(t, `
chain:
  endpoint: ws://localhost:8546
  chainId: 1337
confirmations: 6
`)

	var result nodeConf
	err := ReadAndParseYAMLFile(ctx, fileName, &result)
	require.NoError(t, err)
	require.NotNil(t, result.Chain)
	require.NotNil(t, result.Chain.Endpoint)
	assert.Equal(t, "ws://localhost:8546", *result.Chain.Endpoint)
	require.NotNil(t, result.Chain.ChainID)
	assert.Equal(t, 1337, *result.Chain.ChainID)
	require.NotNil(t, result.Confirmations)
	assert.Equal(t, 6, *result.Confirmations)
}

func TestReadAndParseYAMLMissingFile(t *testing.T) {
	ctx := context.Background()

	fileName := path.Join(t.TempDir(), "absent.yaml")

	err := ReadAndParseYAMLFile(ctx, fileName, P(struct{}{}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "IL011200")
	assert.Contains(t, err.Error(), fileName)
}

func TestReadAndParseYAMLBadSyntax(t *testing.T) {
	ctx := context.Background()

	fileName := writeTestYAML(t, `
confirmations: [6
`)

	var result struct{}
	err := ReadAndParseYAMLFile(ctx, fileName, &result)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "IL011201")
}
