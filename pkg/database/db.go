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

package database

import "gorm.io/gorm"

// IDatabase defines the database interface (abstract).
type IDatabase interface {
	// Database returns the underlying *gorm.DB
	Database() *gorm.DB
}

// GormDB is the GORM database implementation.
type GormDB struct {
	db *gorm.DB
}

// NewGormDB creates a GORM database instance.
func NewGormDB(db *gorm.DB) IDatabase {
	return &GormDB{db: db}
}

// Database returns the underlying *gorm.DB.
func (g *GormDB) Database() *gorm.DB {
	return g.db
}
