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

// Package mockpersistence wires a go-sqlmock connection into the
// persistence layer, for unit tests that assert SQL without a database.
package mockpersistence

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/DATA-DOG/go-sqlmock"
	migrationdb "github.com/golang-migrate/migrate/v4/database"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/AI-Protocol-Official/intelli-linker-contracts/internal/confutil"
	"github.com/AI-Protocol-Official/intelli-linker-contracts/internal/persistence"
)

// SQLMockDefaults pins the pool to one connection, keeping execution in
// the same order the expectations were programmed.
var SQLMockDefaults = &persistence.SQLDBConfig{
	MaxOpenConns:    confutil.P(1),
	MaxIdleConns:    confutil.P(1),
	ConnMaxIdleTime: confutil.P("0"),
	ConnMaxLifetime: confutil.P("0"),
}

// SQLMockProvider exposes the mock handle alongside the wired
// persistence, so a test programs expectations on Mock and hands P to
// the code under test.
type SQLMockProvider struct {
	DB   *sql.DB
	Mock sqlmock.Sqlmock
	P    persistence.Persistence
}

func NewSQLMockProvider() (*SQLMockProvider, error) {
	p := &SQLMockProvider{}
	var err error
	if p.DB, p.Mock, err = sqlmock.New(); err != nil {
		return nil, err
	}
	if p.P, err = persistence.NewSQLProvider(context.Background(), p, &persistence.SQLDBConfig{
		URI: "mocked",
	}, SQLMockDefaults); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *SQLMockProvider) DBName() string {
	return "sqlmock"
}

// Open passes the sqlmock connection in through the mysql dialector,
// skipping the version handshake as sqlmock has no server behind it.
func (p *SQLMockProvider) Open(uri string) gorm.Dialector {
	return mysql.New(mysql.Config{
		Conn:                      p.DB,
		SkipInitializeWithVersion: true,
	})
}

func (p *SQLMockProvider) GetMigrationDriver(db *sql.DB) (migrationdb.Driver, error) {
	return nil, fmt.Errorf("not supported")
}
