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

package persistence

import (
	"context"

	"github.com/hyperledger/firefly-common/pkg/i18n"

	"github.com/AI-Protocol-Official/intelli-linker-contracts/internal/msgs"

	"gorm.io/gorm"
	// pq registers the database/sql postgres driver
	_ "github.com/lib/pq"
)

// Persistence hands out the shared gorm handle. Components own their
// schema through the migrations directory rather than auto-migration
// from Go structs.
type Persistence interface {
	DB() *gorm.DB
	Close()
}

const (
	TypePostgres = "postgres"
	TypeSQLite   = "sqlite"
)

type Config struct {
	Type     string         `yaml:"type"`
	Postgres PostgresConfig `yaml:"postgres"`
	SQLite   SQLiteConfig   `yaml:"sqlite"`
}

type PostgresConfig struct {
	SQLDBConfig `yaml:",inline"`
}

type SQLiteConfig struct {
	SQLDBConfig `yaml:",inline"`
}

// NewPersistence picks the provider by configured type, defaulting to
// SQLite for local development.
func NewPersistence(ctx context.Context, conf *Config) (Persistence, error) {
	switch conf.Type {
	case "", TypeSQLite:
		return newSQLiteProvider(ctx, conf)
	case TypePostgres:
		return newPostgresProvider(ctx, conf)
	default:
		return nil, i18n.NewError(ctx, msgs.MsgPersistenceInvalidType, conf.Type)
	}
}
