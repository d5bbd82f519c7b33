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
	"strings"

	"github.com/ibrahim77gh/cre-studio-backend/internal/model"
	"github.com/ibrahim77gh/cre-studio-backend/internal/notify"
	"github.com/ibrahim77gh/cre-studio-backend/internal/repo"
	"github.com/ibrahim77gh/cre-studio-backend/pkg/log"
	"golang.org/x/crypto/bcrypt"
)

// UserService implements the management surface over users: creation with
// role/scope assignment, updates, invitations, activation toggles. Every
// operation runs the permission predicates before touching state.
type UserService struct {
	userRepo          repo.IUserRepository
	membershipRepo    repo.IMembershipRepository
	propertyRepo      repo.IPropertyRepository
	scopeService      *ScopeService
	permissionService *PermissionService
	invitationService *InvitationService
}

func NewUserService(
	userRepo repo.IUserRepository,
	membershipRepo repo.IMembershipRepository,
	propertyRepo repo.IPropertyRepository,
	scopeService *ScopeService,
	permissionService *PermissionService,
	invitationService *InvitationService,
) *UserService {
	return &UserService{
		userRepo:          userRepo,
		membershipRepo:    membershipRepo,
		propertyRepo:      propertyRepo,
		scopeService:      scopeService,
		permissionService: permissionService,
		invitationService: invitationService,
	}
}

// CreateUser creates a managed user with one initial membership (or none,
// for superusers). Structural validation runs before the permission check
// so a malformed request reads as a caller mistake, not a denial.
func (us *UserService) CreateUser(actor *model.User, req *model.CreateUserReq) (*model.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, NewValidationError("email", "email is required")
	}
	if len(req.Password) < 8 {
		return nil, NewValidationError("password", "password must be at least 8 characters")
	}
	if req.Password != req.ConfirmPassword {
		return nil, NewValidationError("confirm_password", "passwords do not match")
	}
	if err := us.permissionService.ValidateRoleScope(req.Role, req.PropertyID, req.PropertyGroupID); err != nil {
		return nil, err
	}
	ok, err := us.permissionService.CanAssignRole(actor, req.Role, req.PropertyID, req.PropertyGroupID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, NewPermissionError("you are not allowed to assign this role in this scope")
	}

	existing, err := us.userRepo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, NewValidationError("email", ErrUserAlreadyExists.Error())
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:     email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  string(hash),
	}

	var membership *model.Membership
	if req.Role == model.RoleSuperUser {
		// superusers hold no membership and start active
		user.IsSuperuser = true
		user.IsStaff = true
		user.IsActive = true
	} else {
		membership = &model.Membership{
			PropertyID:      req.PropertyID,
			PropertyGroupID: req.PropertyGroupID,
			Role:            req.Role,
		}
	}

	if err := us.userRepo.CreateWithMembership(user, membership); err != nil {
		return nil, err
	}
	log.Infow("user created", "userId", user.ID, "email", user.Email, "role", req.Role, "actorId", actor.ID)

	if !user.IsSuperuser {
		info, err := us.roleInfo(req.Role, req.PropertyID, req.PropertyGroupID)
		if err != nil {
			log.Warnw("failed to resolve scope name for invitation", "userId", user.ID, "error", err)
		}
		if err := us.invitationService.Issue(user, info, false); err != nil {
			return nil, err
		}
	}
	return user, nil
}

// UpdateUser applies a partial update to a managed user. A role change is
// revalidated structurally and against the actor, then the membership row
// is replaced in one transaction.
func (us *UserService) UpdateUser(actor *model.User, targetID uint64, req *model.UpdateUserReq) (*model.User, error) {
	target, err := us.requireManaged(actor, targetID)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		target.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		target.LastName = *req.LastName
	}

	if req.Role != nil {
		role := *req.Role
		if err := us.permissionService.ValidateRoleScope(role, req.PropertyID, req.PropertyGroupID); err != nil {
			return nil, err
		}
		ok, err := us.permissionService.CanAssignRole(actor, role, req.PropertyID, req.PropertyGroupID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, NewPermissionError("you are not allowed to assign this role in this scope")
		}
		if role == model.RoleSuperUser {
			target.IsSuperuser = true
			target.IsStaff = true
			if err := us.membershipRepo.DeleteByUser(target.ID); err != nil {
				return nil, err
			}
		} else {
			target.IsSuperuser = false
			m := &model.Membership{
				PropertyID:      req.PropertyID,
				PropertyGroupID: req.PropertyGroupID,
				Role:            role,
			}
			if err := us.membershipRepo.ReplaceForUser(target.ID, m); err != nil {
				return nil, err
			}
		}
	}

	if err := us.userRepo.Save(target); err != nil {
		return nil, err
	}
	return us.userRepo.GetByID(target.ID)
}

// DeleteUser removes a managed user. Only superusers hard-delete; everyone
// else deactivates the account so its history stays intact.
func (us *UserService) DeleteUser(actor *model.User, targetID uint64) error {
	target, err := us.requireManaged(actor, targetID)
	if err != nil {
		return err
	}
	if !actor.IsSuperuser {
		target.IsActive = false
		if err := us.userRepo.Save(target); err != nil {
			return err
		}
		log.Infow("user deactivated on delete", "userId", target.ID, "actorId", actor.ID)
		return nil
	}
	if err := us.userRepo.Delete(target.ID); err != nil {
		return err
	}
	log.Infow("user deleted", "userId", target.ID, "actorId", actor.ID)
	return nil
}

// GetUser returns a single user: yourself, or someone you manage.
func (us *UserService) GetUser(actor *model.User, targetID uint64) (*model.User, error) {
	if actor.ID == targetID {
		return us.userRepo.GetByID(targetID)
	}
	return us.requireManaged(actor, targetID)
}

// ListUsers returns the users the actor administers. Actors without any
// admin-grade membership get an empty list, not an error.
func (us *UserService) ListUsers(actor *model.User) ([]model.User, error) {
	return us.scopeService.ManageableUsers(actor)
}

// ResendInvitation issues a fresh token for an invitee who has not yet
// accepted. The previous token stops working.
func (us *UserService) ResendInvitation(actor *model.User, targetID uint64) error {
	target, err := us.requireManaged(actor, targetID)
	if err != nil {
		return err
	}
	if target.InvitationAccepted {
		return NewValidationError("invitation", ErrInvitationAccepted.Error())
	}
	role, propertyID, groupID := primaryMembership(target)
	info, err := us.roleInfo(role, propertyID, groupID)
	if err != nil {
		log.Warnw("failed to resolve scope name for invitation", "userId", target.ID, "error", err)
	}
	return us.invitationService.Issue(target, info, true)
}

// ActivateUser flips a managed user active, routing unaccepted invitees
// through the superuser-only override.
func (us *UserService) ActivateUser(actor *model.User, targetID uint64) (*model.User, error) {
	target, err := us.requireManaged(actor, targetID)
	if err != nil {
		return nil, err
	}
	if err := us.invitationService.Activate(actor, target); err != nil {
		return nil, err
	}
	return target, nil
}

// DeactivateUser flips a managed user inactive.
func (us *UserService) DeactivateUser(actor *model.User, targetID uint64) (*model.User, error) {
	if actor.ID == targetID {
		return nil, NewValidationError("is_active", ErrSelfDeactivation.Error())
	}
	target, err := us.requireManaged(actor, targetID)
	if err != nil {
		return nil, err
	}
	if err := us.invitationService.Deactivate(actor, target); err != nil {
		return nil, err
	}
	return target, nil
}

// RoleOptions lists the roles the actor may hand out, for frontend
// dropdowns.
func (us *UserService) RoleOptions(actor *model.User) []model.RoleOption {
	var roles []model.Role
	switch {
	case actor.IsSuperuser:
		roles = []model.Role{model.RoleSuperUser, model.RoleGroupAdmin, model.RolePropertyAdmin, model.RoleTenant}
	default:
		best, ok := actor.HighestRole()
		if !ok {
			break
		}
		switch best {
		case model.RoleGroupAdmin:
			roles = []model.Role{model.RolePropertyAdmin, model.RoleTenant}
		case model.RolePropertyAdmin:
			roles = []model.Role{model.RoleTenant}
		}
	}
	options := make([]model.RoleOption, 0, len(roles))
	for _, r := range roles {
		options = append(options, model.RoleOption{Value: r, Label: r.Label()})
	}
	return options
}

// Stats returns dashboard counters; gated on console access.
func (us *UserService) Stats(actor *model.User) (*model.UserStats, error) {
	ok, err := us.permissionService.CanViewManagementConsole(actor)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, NewPermissionError("you are not allowed to view user statistics")
	}
	return us.userRepo.Stats()
}

// requireManaged loads the target and verifies the actor may administer
// them.
func (us *UserService) requireManaged(actor *model.User, targetID uint64) (*model.User, error) {
	target, err := us.userRepo.GetByID(targetID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, ErrUserNotFound
	}
	ok, err := us.permissionService.CanManageUser(actor, target)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, NewPermissionError("you are not allowed to manage this user")
	}
	return target, nil
}

// roleInfo resolves the human-readable scope name for invitation emails.
func (us *UserService) roleInfo(role model.Role, propertyID, groupID *uint64) (notify.RoleInfo, error) {
	info := notify.RoleInfo{Role: role}
	switch {
	case propertyID != nil:
		p, err := us.propertyRepo.GetProperty(*propertyID)
		if err != nil {
			return info, err
		}
		if p != nil {
			info.ScopeName = p.Name
		}
	case groupID != nil:
		g, err := us.propertyRepo.GetGroup(*groupID)
		if err != nil {
			return info, err
		}
		if g != nil {
			info.ScopeName = g.Name
		}
	}
	return info, nil
}

// primaryMembership picks the highest-ranked membership's role and scope,
// used only to describe the user's role in resent invitation emails.
func primaryMembership(u *model.User) (model.Role, *uint64, *uint64) {
	if u.IsSuperuser {
		return model.RoleSuperUser, nil, nil
	}
	best := 0
	var role model.Role
	var propertyID, groupID *uint64
	for i := range u.Memberships {
		m := &u.Memberships[i]
		if r := m.Role.Rank(); r > best {
			best = r
			role = m.Role
			propertyID = m.PropertyID
			groupID = m.PropertyGroupID
		}
	}
	return role, propertyID, groupID
}
