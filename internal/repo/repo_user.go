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
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/ibrahim77gh/cre-studio-backend/internal/model"
	"github.com/ibrahim77gh/cre-studio-backend/pkg/ctx"
)

// IUserRepository persists users and their invitation fields. Lookups
// return (nil, nil) when the row does not exist.
type IUserRepository interface {
	GetByID(id uint64) (*model.User, error)
	GetByEmail(email string) (*model.User, error)
	GetByInvitationToken(token string) (*model.User, error)
	// CreateWithMembership inserts the user and its initial membership in a
	// single transaction. membership may be nil (superusers carry none).
	CreateWithMembership(u *model.User, membership *model.Membership) error
	Save(u *model.User) error
	Delete(id uint64) error
	ListByIDs(ids []uint64) ([]model.User, error)
	ListAll() ([]model.User, error)
	SetLastLogin(id uint64, at time.Time) error
	Stats() (*model.UserStats, error)
	// CountExpiredInvitations counts invitations sent before cutoff that
	// were never accepted.
	CountExpiredInvitations(cutoff time.Time) (int64, error)
}

type UserRepo struct {
	ctx       *ctx.Context
	userModel *model.User
}

func NewUserRepo(c *ctx.Context) IUserRepository {
	return &UserRepo{
		ctx:       c,
		userModel: &model.User{},
	}
}

func (ur *UserRepo) getOne(query string, args ...any) (*model.User, error) {
	var u model.User
	err := ur.ctx.DB.
		Preload("Memberships").
		Preload("Memberships.Property").
		Preload("Memberships.Property.PropertyGroup").
		Preload("Memberships.PropertyGroup").
		Where(query, args...).
		First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (ur *UserRepo) GetByID(id uint64) (*model.User, error) {
	return ur.getOne("id = ?", id)
}

func (ur *UserRepo) GetByEmail(email string) (*model.User, error) {
	return ur.getOne("email = ?", email)
}

func (ur *UserRepo) GetByInvitationToken(token string) (*model.User, error) {
	if token == "" {
		return nil, nil
	}
	return ur.getOne("invitation_token = ?", token)
}

func (ur *UserRepo) CreateWithMembership(u *model.User, membership *model.Membership) error {
	return ur.ctx.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Memberships").Create(u).Error; err != nil {
			return err
		}
		if membership == nil {
			return nil
		}
		if err := membership.Validate(); err != nil {
			return err
		}
		membership.UserID = u.ID
		return tx.Create(membership).Error
	})
}

// Save writes the user row. Memberships are managed through the membership
// repository, not through association writes.
func (ur *UserRepo) Save(u *model.User) error {
	return ur.ctx.DB.Omit("Memberships").Save(u).Error
}

func (ur *UserRepo) Delete(id uint64) error {
	return ur.ctx.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&model.Membership{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.User{}, id).Error
	})
}

func (ur *UserRepo) ListByIDs(ids []uint64) ([]model.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var users []model.User
	err := ur.ctx.DB.
		Preload("Memberships").
		Preload("Memberships.Property").
		Preload("Memberships.Property.PropertyGroup").
		Preload("Memberships.PropertyGroup").
		Where("id IN ?", ids).
		Order("created_at DESC").
		Find(&users).Error
	return users, err
}

func (ur *UserRepo) ListAll() ([]model.User, error) {
	var users []model.User
	err := ur.ctx.DB.
		Preload("Memberships").
		Preload("Memberships.Property").
		Preload("Memberships.Property.PropertyGroup").
		Preload("Memberships.PropertyGroup").
		Order("created_at DESC").
		Find(&users).Error
	return users, err
}

func (ur *UserRepo) SetLastLogin(id uint64, at time.Time) error {
	return ur.ctx.DB.Model(ur.userModel).Where("id = ?", id).Update("last_login_at", at).Error
}

func (ur *UserRepo) Stats() (*model.UserStats, error) {
	var stats model.UserStats

	if err := ur.ctx.DB.Model(ur.userModel).Count(&stats.TotalUsers).Error; err != nil {
		return nil, err
	}
	if err := ur.ctx.DB.Model(ur.userModel).Where("is_active = ?", true).Count(&stats.ActiveUsers).Error; err != nil {
		return nil, err
	}

	// admins are superusers plus holders of an admin membership
	err := ur.ctx.DB.Model(ur.userModel).
		Distinct("t_user.id").
		Joins("LEFT JOIN t_membership ON t_membership.user_id = t_user.id").
		Where("t_user.is_superuser = ? OR t_membership.role IN ?", true,
			[]model.Role{model.RolePropertyAdmin, model.RoleGroupAdmin}).
		Count(&stats.AdminUsers).Error
	if err != nil {
		return nil, err
	}

	err = ur.ctx.DB.Model(ur.userModel).
		Distinct("t_user.id").
		Joins("JOIN t_membership ON t_membership.user_id = t_user.id").
		Where("t_membership.role = ?", model.RoleTenant).
		Count(&stats.Tenants).Error
	if err != nil {
		return nil, err
	}

	return &stats, nil
}

func (ur *UserRepo) CountExpiredInvitations(cutoff time.Time) (int64, error) {
	var n int64
	err := ur.ctx.DB.Model(ur.userModel).
		Where("invitation_sent = ? AND invitation_accepted = ? AND invitation_sent_at < ?", true, false, cutoff).
		Count(&n).Error
	return n, err
}
