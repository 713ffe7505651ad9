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

package fixtures

import (
	"context"

	"github.com/AI-Protocol-Official/intelli-linker-contracts/internal/persistence"
	"github.com/AI-Protocol-Official/intelli-linker-contracts/pkg/contracts"
	"github.com/AI-Protocol-Official/intelli-linker-contracts/pkg/types"
	"github.com/google/uuid"
	"github.com/hyperledger/firefly-common/pkg/log"
)

// DeploymentRecord is one row in the deployments table, written each time a
// fixture contract lands on chain. The kind column is validated against the
// embedded build set on both write and read, and the constructor arguments
// are kept as JSON so an environment can be audited after the fact.
type DeploymentRecord struct {
	ID         uuid.UUID                    `gorm:"type:uuid;primaryKey"`
	Kind       types.Enum[contracts.Kind]   `gorm:"type:text"`
	Address    types.EthAddress             `gorm:"type:text"`
	TXHash     types.Bytes32                `gorm:"type:text;column:tx_hash"`
	DeployedBy string                       `gorm:"type:text"`
	Args       *types.JSONP[map[string]any] `gorm:"type:text"`
	Created    int64                        `gorm:"autoCreateTime:nano"`
}

// Recorder persists deployment records as fixtures come up, so environments
// can be audited and torn down afterwards.
type Recorder interface {
	RecordDeployment(ctx context.Context, record *DeploymentRecord) error
	GetDeployments(ctx context.Context, kind *contracts.Kind) ([]*DeploymentRecord, error)
}

type dbRecorder struct {
	p persistence.Persistence
}

func NewRecorder(p persistence.Persistence) Recorder {
	return &dbRecorder{p: p}
}

func (r *dbRecorder) RecordDeployment(ctx context.Context, record *DeploymentRecord) error {
	if record.ID == (uuid.UUID{}) {
		record.ID = uuid.New()
	}
	err := r.p.DB().
		Table("deployments").
		Create(record).
		Error
	if err != nil {
		log.L(ctx).Errorf("Failed to insert deployment record for %s at %s: %s", record.Kind, record.Address, err)
		return err
	}
	log.L(ctx).Debugf("Recorded deployment id=%s kind=%s address=%s", record.ID, record.Kind, record.Address)
	return nil
}

func (r *dbRecorder) GetDeployments(ctx context.Context, kind *contracts.Kind) ([]*DeploymentRecord, error) {
	query := r.p.DB().
		Table("deployments").
		Order("created DESC")
	if kind != nil {
		query = query.Where("kind = ?", string(*kind))
	}
	var records []*DeploymentRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
