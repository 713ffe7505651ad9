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
	"database/sql"

	"github.com/golang-migrate/migrate/v4"
	migrationdb "github.com/golang-migrate/migrate/v4/database"
	"github.com/hyperledger/firefly-common/pkg/i18n"
	"github.com/hyperledger/firefly-common/pkg/log"

	"github.com/AI-Protocol-Official/intelli-linker-contracts/internal/confutil"
	"github.com/AI-Protocol-Official/intelli-linker-contracts/internal/msgs"

	"gorm.io/gorm"
	// Import migrate file source
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// SQLDBProvider is the database-specific slice of a SQL persistence
// provider: the gorm dialector, plus the matching migration driver.
type SQLDBProvider interface {
	DBName() string
	Open(uri string) gorm.Dialector
	GetMigrationDriver(*sql.DB) (migrationdb.Driver, error)
}

type SQLDBConfig struct {
	URI             string  `yaml:"uri"`
	MaxOpenConns    *int    `yaml:"maxOpenConns"`
	MaxIdleConns    *int    `yaml:"maxIdleConns"`
	ConnMaxIdleTime *string `yaml:"connMaxIdleTime"`
	ConnMaxLifetime *string `yaml:"connMaxLifetime"`
	AutoMigrate     *bool   `yaml:"autoMigrate"`
	MigrationsDir   string  `yaml:"migrationsDir"`
	DebugQueries    bool    `yaml:"debugQueries"`
}

type sqlProvider struct {
	dialect SQLDBProvider
	gdb     *gorm.DB
	db      *sql.DB
	conf    *SQLDBConfig
}

// NewSQLProvider opens the database through the supplied dialect,
// applies the pool settings (each falling back to a per-database
// default), and optionally runs the file-based migrations.
func NewSQLProvider(ctx context.Context, dialect SQLDBProvider, conf *SQLDBConfig, defs *SQLDBConfig) (Persistence, error) {
	if conf.URI == "" {
		return nil, i18n.NewError(ctx, msgs.MsgPersistenceMissingURI)
	}

	sp := &sqlProvider{dialect: dialect, conf: conf}
	gdb, err := gorm.Open(dialect.Open(conf.URI), &gorm.Config{})
	if err == nil {
		sp.gdb = gdb
		sp.db, err = gdb.DB()
	}
	if err != nil {
		return nil, i18n.WrapError(ctx, err, msgs.MsgPersistenceInitFailed)
	}
	if conf.DebugQueries {
		sp.gdb = sp.gdb.Debug()
	}

	sp.db.SetMaxOpenConns(confutil.IntMin(conf.MaxOpenConns, 1, *defs.MaxOpenConns))
	sp.db.SetMaxIdleConns(confutil.Int(conf.MaxIdleConns, *defs.MaxIdleConns))
	sp.db.SetConnMaxIdleTime(confutil.DurationMin(conf.ConnMaxIdleTime, 0, *defs.ConnMaxIdleTime))
	sp.db.SetConnMaxLifetime(confutil.DurationMin(conf.ConnMaxLifetime, 0, *defs.ConnMaxLifetime))

	if confutil.Bool(conf.AutoMigrate, false) {
		if err := sp.runMigration(ctx, func(m *migrate.Migrate) error { return m.Up() }); err != nil {
			return nil, err
		}
	}
	return sp, nil
}

func (sp *sqlProvider) runMigration(ctx context.Context, mig func(m *migrate.Migrate) error) error {
	if sp.conf.MigrationsDir == "" {
		return i18n.NewError(ctx, msgs.MsgPersistenceMissingMigrationDir)
	}
	driver, err := sp.dialect.GetMigrationDriver(sp.db)
	if err != nil {
		return i18n.WrapError(ctx, err, msgs.MsgPersistenceMigrationFailed)
	}

	fileURL := "file://" + sp.conf.MigrationsDir
	log.L(ctx).Infof("Running migrations in: %s", fileURL)
	m, err := migrate.NewWithDatabaseInstance(fileURL, sp.dialect.DBName(), driver)
	if err == nil {
		err = mig(m)
	}
	if err != nil && err != migrate.ErrNoChange {
		return i18n.WrapError(ctx, err, msgs.MsgPersistenceMigrationFailed)
	}
	version, dirty, _ := m.Version()
	log.L(ctx).Infof("Migrations now at: v=%d dirty=%t", version, dirty)
	return nil
}

func (sp *sqlProvider) DB() *gorm.DB {
	return sp.gdb
}

func (sp *sqlProvider) Close() {
	err := sp.db.Close()
	log.L(context.Background()).Infof("DB closed (err=%v)", err)
}
