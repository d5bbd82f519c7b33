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

// IPropertyRepository exposes the tenancy graph as explicit query functions.
// Scope resolution never traverses lazy relations; every hop is one of
// these calls. Lookups return (nil, nil) when the row does not exist.
type IPropertyRepository interface {
	GetProperty(id uint64) (*model.Property, error)
	GetGroup(id uint64) (*model.PropertyGroup, error)
	ListProperties() ([]model.Property, error)
	ListGroups() ([]model.PropertyGroup, error)
	PropertiesInGroup(groupID uint64) ([]model.Property, error)
	GroupOfProperty(propertyID uint64) (*model.PropertyGroup, error)
}

type PropertyRepo struct {
	ctx *ctx.Context
}

func NewPropertyRepo(c *ctx.Context) IPropertyRepository {
	return &PropertyRepo{ctx: c}
}

func (pr *PropertyRepo) GetProperty(id uint64) (*model.Property, error) {
	var p model.Property
	err := pr.ctx.DB.Preload("PropertyGroup").First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (pr *PropertyRepo) GetGroup(id uint64) (*model.PropertyGroup, error) {
	var g model.PropertyGroup
	err := pr.ctx.DB.First(&g, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (pr *PropertyRepo) ListProperties() ([]model.Property, error) {
	var properties []model.Property
	err := pr.ctx.DB.Preload("PropertyGroup").Order("name").Find(&properties).Error
	return properties, err
}

func (pr *PropertyRepo) ListGroups() ([]model.PropertyGroup, error) {
	var groups []model.PropertyGroup
	err := pr.ctx.DB.Order("name").Find(&groups).Error
	return groups, err
}

func (pr *PropertyRepo) PropertiesInGroup(groupID uint64) ([]model.Property, error) {
	var properties []model.Property
	err := pr.ctx.DB.Where("property_group_id = ?", groupID).Find(&properties).Error
	return properties, err
}

// GroupOfProperty returns the group containing the property, nil when the
// property is ungrouped or unknown.
func (pr *PropertyRepo) GroupOfProperty(propertyID uint64) (*model.PropertyGroup, error) {
	p, err := pr.GetProperty(propertyID)
	if err != nil || p == nil {
		return nil, err
	}
	return p.PropertyGroup, nil
}
