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

// PermissionService holds the stateless predicates gating user management.
// Structural role/scope rules are actor-independent and surface as
// validation errors; everything else is a permission decision.
type PermissionService struct {
	membershipRepo repo.IMembershipRepository
	propertyRepo   repo.IPropertyRepository
	scopeService   *ScopeService
}

func NewPermissionService(
	membershipRepo repo.IMembershipRepository,
	propertyRepo repo.IPropertyRepository,
	scopeService *ScopeService,
) *PermissionService {
	return &PermissionService{
		membershipRepo: membershipRepo,
		propertyRepo:   propertyRepo,
		scopeService:   scopeService,
	}
}

// CanViewManagementConsole reports whether the actor may open the user
// management surface at all: superusers and anyone holding at least one
// admin-grade membership.
func (ps *PermissionService) CanViewManagementConsole(actor *model.User) (bool, error) {
	if actor.IsSuperuser {
		return true, nil
	}
	memberships, err := ps.membershipRepo.ListByUser(actor.ID)
	if err != nil {
		return false, err
	}
	for _, m := range memberships {
		if m.Role == model.RoleGroupAdmin || m.Role == model.RolePropertyAdmin {
			return true, nil
		}
	}
	return false, nil
}

// CanManageUser decides whether actor may administer target. Self-management
// through this path is always denied, and a non-superuser can never manage
// a superuser.
func (ps *PermissionService) CanManageUser(actor, target *model.User) (bool, error) {
	if actor.ID == target.ID {
		return false, nil
	}
	if actor.IsSuperuser {
		return true, nil
	}
	if target.IsSuperuser {
		return false, nil
	}
	all, ids, err := ps.scopeService.ManageableUserIDs(actor)
	if err != nil {
		return false, err
	}
	if all {
		return true, nil
	}
	_, ok := ids[target.ID]
	return ok, nil
}

// ValidateRoleScope enforces the structural role/scope rules, independent of
// who is asking: group_admin takes a group and no property, property_admin
// and tenant take a property and no group, super_user takes neither.
func (ps *PermissionService) ValidateRoleScope(role model.Role, propertyID, groupID *uint64) error {
	if !role.Valid() {
		return NewValidationError("role", "unknown role")
	}
	switch role {
	case model.RoleSuperUser:
		if propertyID != nil || groupID != nil {
			return NewValidationError("role", "super users cannot be scoped to a property or property group")
		}
	case model.RoleGroupAdmin:
		if groupID == nil {
			return NewValidationError("property_group_id", "group admins must be assigned to a property group")
		}
		if propertyID != nil {
			return NewValidationError("property_id", "group admins cannot be assigned to a property")
		}
	case model.RolePropertyAdmin, model.RoleTenant:
		if propertyID == nil {
			return NewValidationError("property_id", "this role must be assigned to a property")
		}
		if groupID != nil {
			return NewValidationError("property_group_id", "this role cannot be assigned to a property group")
		}
	}
	return nil
}

// CanAssignRole decides whether actor may hand out role within the given
// scope. Callers must run ValidateRoleScope first; this predicate assumes
// the combination is structurally sound.
func (ps *PermissionService) CanAssignRole(actor *model.User, role model.Role, propertyID, groupID *uint64) (bool, error) {
	if actor.IsSuperuser {
		return true, nil
	}
	// only superusers mint superusers or group admins
	if role == model.RoleSuperUser || role == model.RoleGroupAdmin {
		return false, nil
	}
	memberships, err := ps.membershipRepo.ListByUser(actor.ID)
	if err != nil {
		return false, err
	}
	for _, m := range memberships {
		switch m.Role {
		case model.RoleGroupAdmin:
			if m.PropertyGroupID == nil {
				continue
			}
			// direct group scope
			if groupID != nil && *groupID == *m.PropertyGroupID {
				return true, nil
			}
			// property scope inside the managed group
			if propertyID != nil {
				g, err := ps.propertyRepo.GroupOfProperty(*propertyID)
				if err != nil {
					return false, err
				}
				if g != nil && g.ID == *m.PropertyGroupID {
					return true, nil
				}
			}
		case model.RolePropertyAdmin:
			if m.PropertyID == nil {
				continue
			}
			if role == model.RoleTenant && propertyID != nil && *propertyID == *m.PropertyID {
				return true, nil
			}
		}
	}
	return false, nil
}
