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

//go:build !testdbpostgres
// +build !testdbpostgres

package persistence

import (
	"context"

	"github.com/AI-Protocol-Official/intelli-linker-contracts/internal/confutil"
)

// NewUnitTestPersistence backs unit tests with an in-memory SQLite
// database, migrated to the latest schema. Building with the
// testdbpostgres tag swaps in the PostgreSQL version.
func NewUnitTestPersistence(ctx context.Context) (Persistence, func(), error) {
	p, err := newSQLiteProvider(ctx, &Config{
		Type: "sqlite",
		SQLite: SQLiteConfig{
			SQLDBConfig: SQLDBConfig{
				URI:           ":memory:",
				AutoMigrate:   confutil.P(true),
				MigrationsDir: "../../db/migrations/sqlite",
			},
		},
	})
	cleanup := func() {}
	if p != nil {
		cleanup = p.Close
	}
	return p, cleanup, err
}
