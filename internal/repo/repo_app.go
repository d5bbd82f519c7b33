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

	"gorm.io/gorm"

	"github.com/ibrahim77gh/cre-studio-backend/internal/model"
	"github.com/ibrahim77gh/cre-studio-backend/pkg/ctx"
)

// IAppRepository resolves registered SSO apps and per-user app access.
// Lookups return (nil, nil) when no active app matches.
type IAppRepository interface {
	GetActiveByID(id uint64) (*model.App, error)
	GetActiveBySlug(slug string) (*model.App, error)
	HasAccess(userID, appID uint64) (bool, error)
}

type AppRepo struct {
	ctx *ctx.Context
}

func NewAppRepo(c *ctx.Context) IAppRepository {
	return &AppRepo{ctx: c}
}

func (ar *AppRepo) getActive(query string, args ...any) (*model.App, error) {
	var app model.App
	err := ar.ctx.DB.Where("is_active = ?", true).Where(query, args...).First(&app).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (ar *AppRepo) GetActiveByID(id uint64) (*model.App, error) {
	return ar.getActive("id = ?", id)
}

func (ar *AppRepo) GetActiveBySlug(slug string) (*model.App, error) {
	return ar.getActive("slug = ?", slug)
}

func (ar *AppRepo) HasAccess(userID, appID uint64) (bool, error) {
	var count int64
	err := ar.ctx.DB.Model(&model.UserAppAccess{}).
		Where("user_id = ? AND app_id = ?", userID, appID).
		Count(&count).Error
	return count > 0, err
}
