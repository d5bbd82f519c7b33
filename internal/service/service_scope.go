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

// ScopeService walks the tenancy graph to compute the set of properties,
// groups and users an actor may administer. Results are unions across all
// of the actor's memberships; scope is recomputed from the store on every
// call, never cached.
//
// Superuser results carry all=true instead of materializing the universal
// set; callers must branch on it before consulting the accompanying slice.
type ScopeService struct {
	membershipRepo repo.IMembershipRepository
	propertyRepo   repo.IPropertyRepository
	userRepo       repo.IUserRepository
	campaignRepo   repo.ICampaignRepository
}

func NewScopeService(
	membershipRepo repo.IMembershipRepository,
	propertyRepo repo.IPropertyRepository,
	userRepo repo.IUserRepository,
	campaignRepo repo.ICampaignRepository,
) *ScopeService {
	return &ScopeService{
		membershipRepo: membershipRepo,
		propertyRepo:   propertyRepo,
		userRepo:       userRepo,
		campaignRepo:   campaignRepo,
	}
}

// scopeRoles are the roles that may appear on a membership row.
var scopeRoles = []model.Role{model.RoleTenant, model.RolePropertyAdmin, model.RoleGroupAdmin}

// ManageableProperties returns the properties the actor may administer:
// every property in a group the actor group-admins, plus every property the
// actor property-admins. Tenant memberships contribute nothing.
func (ss *ScopeService) ManageableProperties(actor *model.User) (all bool, properties []model.Property, err error) {
	if actor.IsSuperuser {
		return true, nil, nil
	}
	memberships, err := ss.membershipRepo.ListByUser(actor.ID)
	if err != nil {
		return false, nil, err
	}
	seen := make(map[uint64]struct{})
	for _, m := range memberships {
		switch {
		case m.Role == model.RoleGroupAdmin && m.PropertyGroupID != nil:
			inGroup, err := ss.propertyRepo.PropertiesInGroup(*m.PropertyGroupID)
			if err != nil {
				return false, nil, err
			}
			for _, p := range inGroup {
				if _, ok := seen[p.ID]; !ok {
					seen[p.ID] = struct{}{}
					properties = append(properties, p)
				}
			}
		case m.Role == model.RolePropertyAdmin && m.PropertyID != nil:
			if _, ok := seen[*m.PropertyID]; ok {
				continue
			}
			p, err := ss.propertyRepo.GetProperty(*m.PropertyID)
			if err != nil {
				return false, nil, err
			}
			if p != nil {
				seen[p.ID] = struct{}{}
				properties = append(properties, *p)
			}
		}
	}
	return false, properties, nil
}

// ManageablePropertyGroups returns the groups the actor group-admins.
func (ss *ScopeService) ManageablePropertyGroups(actor *model.User) (all bool, groups []model.PropertyGroup, err error) {
	if actor.IsSuperuser {
		return true, nil, nil
	}
	memberships, err := ss.membershipRepo.ListByUser(actor.ID)
	if err != nil {
		return false, nil, err
	}
	seen := make(map[uint64]struct{})
	for _, m := range memberships {
		if m.Role != model.RoleGroupAdmin || m.PropertyGroupID == nil {
			continue
		}
		if _, ok := seen[*m.PropertyGroupID]; ok {
			continue
		}
		g, err := ss.propertyRepo.GetGroup(*m.PropertyGroupID)
		if err != nil {
			return false, nil, err
		}
		if g != nil {
			seen[g.ID] = struct{}{}
			groups = append(groups, *g)
		}
	}
	return false, groups, nil
}

// ManageableUserIDs returns the ids of the users the actor may administer.
// The actor themself is always excluded, even when their own membership
// structurally satisfies the rule. Superusers never appear since they hold
// no membership rows.
func (ss *ScopeService) ManageableUserIDs(actor *model.User) (all bool, ids map[uint64]struct{}, err error) {
	if actor.IsSuperuser {
		return true, nil, nil
	}
	memberships, err := ss.membershipRepo.ListByUser(actor.ID)
	if err != nil {
		return false, nil, err
	}
	ids = make(map[uint64]struct{})
	for _, m := range memberships {
		switch {
		case m.Role == model.RoleGroupAdmin && m.PropertyGroupID != nil:
			inGroup, err := ss.propertyRepo.PropertiesInGroup(*m.PropertyGroupID)
			if err != nil {
				return false, nil, err
			}
			propertyIDs := make([]uint64, 0, len(inGroup))
			for _, p := range inGroup {
				propertyIDs = append(propertyIDs, p.ID)
			}
			onProps, err := ss.membershipRepo.UserIDsOnProperties(propertyIDs, []model.Role{model.RolePropertyAdmin, model.RoleTenant})
			if err != nil {
				return false, nil, err
			}
			onGroup, err := ss.membershipRepo.UserIDsOnGroup(*m.PropertyGroupID, scopeRoles)
			if err != nil {
				return false, nil, err
			}
			for _, id := range onProps {
				ids[id] = struct{}{}
			}
			for _, id := range onGroup {
				ids[id] = struct{}{}
			}
		case m.Role == model.RolePropertyAdmin && m.PropertyID != nil:
			tenants, err := ss.membershipRepo.UserIDsOnProperties([]uint64{*m.PropertyID}, []model.Role{model.RoleTenant})
			if err != nil {
				return false, nil, err
			}
			for _, id := range tenants {
				ids[id] = struct{}{}
			}
		}
	}
	// self-exclusion: management of oneself is never granted through scope
	delete(ids, actor.ID)
	return false, ids, nil
}

// ManageableUsers materializes ManageableUserIDs into user rows, ordered by
// the repository's default ordering. For superusers it returns every user.
func (ss *ScopeService) ManageableUsers(actor *model.User) ([]model.User, error) {
	all, ids, err := ss.ManageableUserIDs(actor)
	if err != nil {
		return nil, err
	}
	if all {
		return ss.userRepo.ListAll()
	}
	if len(ids) == 0 {
		return nil, nil
	}
	list := make([]uint64, 0, len(ids))
	for id := range ids {
		list = append(list, id)
	}
	return ss.userRepo.ListByIDs(list)
}

// VisibleProperties returns every property the actor can see, managed or
// not: tenant memberships make their own property visible even though they
// confer no management rights.
func (ss *ScopeService) VisibleProperties(actor *model.User) (all bool, properties []model.Property, err error) {
	if actor.IsSuperuser {
		return true, nil, nil
	}
	memberships, err := ss.membershipRepo.ListByUser(actor.ID)
	if err != nil {
		return false, nil, err
	}
	seen := make(map[uint64]struct{})
	for _, m := range memberships {
		switch {
		case m.PropertyGroupID != nil:
			inGroup, err := ss.propertyRepo.PropertiesInGroup(*m.PropertyGroupID)
			if err != nil {
				return false, nil, err
			}
			for _, p := range inGroup {
				if _, ok := seen[p.ID]; !ok {
					seen[p.ID] = struct{}{}
					properties = append(properties, p)
				}
			}
		case m.PropertyID != nil:
			if _, ok := seen[*m.PropertyID]; ok {
				continue
			}
			p, err := ss.propertyRepo.GetProperty(*m.PropertyID)
			if err != nil {
				return false, nil, err
			}
			if p != nil {
				seen[p.ID] = struct{}{}
				properties = append(properties, *p)
			}
		}
	}
	return false, properties, nil
}

// VisibleCampaignIDs returns the ids of the campaigns living on properties
// the actor can see. The campaign collaborator supplies the id universe;
// the scope is decided here.
func (ss *ScopeService) VisibleCampaignIDs(actor *model.User) ([]uint64, error) {
	all, properties, err := ss.VisibleProperties(actor)
	if err != nil {
		return nil, err
	}
	if all {
		return ss.campaignRepo.ListIDs()
	}
	if len(properties) == 0 {
		return nil, nil
	}
	propertyIDs := make([]uint64, 0, len(properties))
	for _, p := range properties {
		propertyIDs = append(propertyIDs, p.ID)
	}
	return ss.campaignRepo.ListIDsByProperties(propertyIDs)
}

// ManageableScopes renders the actor's manageable properties and groups in
// the compact shape consumed by frontend scope pickers.
func (ss *ScopeService) ManageableScopes(actor *model.User) (*model.ManageableScopes, error) {
	scopes := &model.ManageableScopes{
		Properties:     []model.PropertyRef{},
		PropertyGroups: []model.PropertyGroupRef{},
	}
	if actor.IsSuperuser {
		scopes.CanManageAll = true
		properties, err := ss.propertyRepo.ListProperties()
		if err != nil {
			return nil, err
		}
		groups, err := ss.propertyRepo.ListGroups()
		if err != nil {
			return nil, err
		}
		for _, p := range properties {
			scopes.Properties = append(scopes.Properties, propertyRef(&p))
		}
		for _, g := range groups {
			scopes.PropertyGroups = append(scopes.PropertyGroups, model.PropertyGroupRef{ID: g.ID, Name: g.Name})
		}
		return scopes, nil
	}

	_, properties, err := ss.ManageableProperties(actor)
	if err != nil {
		return nil, err
	}
	_, groups, err := ss.ManageablePropertyGroups(actor)
	if err != nil {
		return nil, err
	}
	for _, p := range properties {
		scopes.Properties = append(scopes.Properties, propertyRef(&p))
	}
	for _, g := range groups {
		scopes.PropertyGroups = append(scopes.PropertyGroups, model.PropertyGroupRef{ID: g.ID, Name: g.Name})
	}
	return scopes, nil
}

func propertyRef(p *model.Property) model.PropertyRef {
	ref := model.PropertyRef{ID: p.ID, Name: p.Name}
	if p.PropertyGroup != nil {
		ref.PropertyGroup = &model.PropertyGroupRef{ID: p.PropertyGroup.ID, Name: p.PropertyGroup.Name}
	}
	return ref
}
