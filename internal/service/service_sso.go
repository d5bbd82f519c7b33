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

package service

import (
	"github.com/ibrahim77gh/cre-studio-backend/internal/model"
	"github.com/ibrahim77gh/cre-studio-backend/internal/repo"
)

// SSOService renders a user's resolved role and scope into self-contained
// token claims a remote verifier can evaluate without calling back here.
type SSOService struct {
	membershipRepo repo.IMembershipRepository
}

func NewSSOService(membershipRepo repo.IMembershipRepository) *SSOService {
	return &SSOService{membershipRepo: membershipRepo}
}

// BuildClaims computes the claim set for the user, optionally bound to an
// app context. Memberships are read fresh from the store; the primary role
// is the highest-ranked one, with superuser short-circuiting everything.
func (ss *SSOService) BuildClaims(user *model.User, app *model.App) (*model.TokenClaims, error) {
	claims := &model.TokenClaims{
		UserID:      user.ID,
		Email:       user.Email,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		IsSuperuser: user.IsSuperuser,
		IsStaff:     user.IsStaff,
		IsActive:    user.IsActive,
		Memberships: []model.MembershipClaim{},
	}

	if user.IsSuperuser {
		role := model.RoleSuperUser
		claims.Role = &role
		claims.Memberships = append(claims.Memberships, model.MembershipClaim{
			Role:  model.RoleSuperUser,
			Scope: "global",
		})
	} else {
		memberships, err := ss.membershipRepo.ListByUser(user.ID)
		if err != nil {
			return nil, err
		}
		best := 0
		for i := range memberships {
			m := &memberships[i]
			if r := m.Role.Rank(); r > best {
				best = r
				role := m.Role
				claims.Role = &role
			}
			claims.Memberships = append(claims.Memberships, membershipClaim(m))
		}
	}

	if app != nil {
		appID := app.ID
		claims.AppID = &appID
		claims.AppName = app.Name
		claims.AppSlug = app.Slug
	}
	return claims, nil
}

func membershipClaim(m *model.Membership) model.MembershipClaim {
	claim := model.MembershipClaim{Role: m.Role}
	switch {
	case m.Property != nil:
		id := m.Property.ID
		claim.PropertyID = &id
		claim.PropertyName = m.Property.Name
		if m.Property.PropertyGroup != nil {
			gid := m.Property.PropertyGroup.ID
			claim.PropertyGroupID = &gid
			claim.PropertyGroupName = m.Property.PropertyGroup.Name
		}
	case m.PropertyGroup != nil:
		id := m.PropertyGroup.ID
		claim.PropertyGroupID = &id
		claim.PropertyGroupName = m.PropertyGroup.Name
	}
	return claim
}
