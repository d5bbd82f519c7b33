// Copyright 2025 CRE Studio Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package repo

import (
	"github.com/ibrahim77gh/cre-studio-backend/internal/model"
	"github.com/ibrahim77gh/cre-studio-backend/pkg/ctx"
)

// ICampaignRepository is the read-only port into the campaign subsystem.
// The scope resolver only needs campaign ids and their property linkage.
type ICampaignRepository interface {
	ListIDs() ([]uint64, error)
	ListIDsByProperties(propertyIDs []uint64) ([]uint64, error)
}

type CampaignRepo struct {
	ctx *ctx.Context
}

func NewCampaignRepo(c *ctx.Context) ICampaignRepository {
	return &CampaignRepo{ctx: c}
}

func (cr *CampaignRepo) ListIDs() ([]uint64, error) {
	var ids []uint64
	err := cr.ctx.DB.Model(&model.Campaign{}).Pluck("id", &ids).Error
	return ids, err
}

func (cr *CampaignRepo) ListIDsByProperties(propertyIDs []uint64) ([]uint64, error) {
	if len(propertyIDs) == 0 {
		return nil, nil
	}
	var ids []uint64
	err := cr.ctx.DB.Model(&model.Campaign{}).
		Where("property_id IN ?", propertyIDs).
		Pluck("id", &ids).Error
	return ids, err
}
