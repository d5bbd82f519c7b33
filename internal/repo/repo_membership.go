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
	"gorm.io/gorm"

	"github.com/ibrahim77gh/cre-studio-backend/internal/model"
	"github.com/ibrahim77gh/cre-studio-backend/pkg/ctx"
)

type IMembershipRepository interface {
	// ListByUser returns the user's memberships with their scopes preloaded
	// (property including its own group, or group).
	ListByUser(userID uint64) ([]model.Membership, error)
	// UserIDsOnProperties returns ids of users holding any of the given
	// roles on any of the given properties.
	UserIDsOnProperties(propertyIDs []uint64, roles []model.Role) ([]uint64, error)
	// UserIDsOnGroup returns ids of users holding any of the given roles
	// directly on the group.
	UserIDsOnGroup(groupID uint64, roles []model.Role) ([]uint64, error)
	Create(m *model.Membership) error
	// ReplaceForUser swaps the user's memberships for the given one in a
	// single transaction; used when a manager reassigns role/scope.
	ReplaceForUser(userID uint64, m *model.Membership) error
	DeleteByUser(userID uint64) error
}

type MembershipRepo struct {
	ctx             *ctx.Context
	membershipModel *model.Membership
}

func NewMembershipRepo(c *ctx.Context) IMembershipRepository {
	return &MembershipRepo{
		ctx:             c,
		membershipModel: &model.Membership{},
	}
}

func (mr *MembershipRepo) ListByUser(userID uint64) ([]model.Membership, error) {
	var memberships []model.Membership
	err := mr.ctx.DB.
		Preload("Property").
		Preload("Property.PropertyGroup").
		Preload("PropertyGroup").
		Where("user_id = ?", userID).
		Find(&memberships).Error
	return memberships, err
}

func (mr *MembershipRepo) UserIDsOnProperties(propertyIDs []uint64, roles []model.Role) ([]uint64, error) {
	if len(propertyIDs) == 0 {
		return nil, nil
	}
	var userIDs []uint64
	err := mr.ctx.DB.Model(mr.membershipModel).
		Distinct("user_id").
		Where("property_id IN ? AND role IN ?", propertyIDs, roles).
		Pluck("user_id", &userIDs).Error
	return userIDs, err
}

func (mr *MembershipRepo) UserIDsOnGroup(groupID uint64, roles []model.Role) ([]uint64, error) {
	var userIDs []uint64
	err := mr.ctx.DB.Model(mr.membershipModel).
		Distinct("user_id").
		Where("property_group_id = ? AND role IN ?", groupID, roles).
		Pluck("user_id", &userIDs).Error
	return userIDs, err
}

func (mr *MembershipRepo) Create(m *model.Membership) error {
	if err := m.Validate(); err != nil {
		return err
	}
	return mr.ctx.DB.Create(m).Error
}

func (mr *MembershipRepo) ReplaceForUser(userID uint64, m *model.Membership) error {
	if err := m.Validate(); err != nil {
		return err
	}
	return mr.ctx.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&model.Membership{}).Error; err != nil {
			return err
		}
		m.UserID = userID
		return tx.Create(m).Error
	})
}

func (mr *MembershipRepo) DeleteByUser(userID uint64) error {
	return mr.ctx.DB.Where("user_id = ?", userID).Delete(&model.Membership{}).Error
}
