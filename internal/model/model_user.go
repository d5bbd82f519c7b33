package model

import (
	"time"
)

type User struct {
	BaseModel
	Email       string     `gorm:"column:email;not null;uniqueIndex" json:"email"`
	FirstName   string     `gorm:"column:first_name" json:"firstName"`
	LastName    string     `gorm:"column:last_name" json:"lastName"`
	Password    string     `gorm:"column:password" json:"-"`
	IsStaff     bool       `gorm:"column:is_staff;default:false" json:"isStaff"`
	IsSuperuser bool       `gorm:"column:is_superuser;default:false" json:"isSuperuser"`
	IsActive    bool       `gorm:"column:is_active;default:false" json:"isActive"`
	LastLoginAt *time.Time `gorm:"column:last_login_at" json:"lastLoginAt"`

	// invitation lifecycle fields
	InvitationSent       bool       `gorm:"column:invitation_sent;default:false" json:"invitationSent"`
	InvitationAccepted   bool       `gorm:"column:invitation_accepted;default:false" json:"invitationAccepted"`
	InvitationToken      *string    `gorm:"column:invitation_token;index" json:"-"`
	InvitationSentAt     *time.Time `gorm:"column:invitation_sent_at" json:"invitationSentAt"`
	InvitationAcceptedAt *time.Time `gorm:"column:invitation_accepted_at" json:"invitationAcceptedAt"`

	Memberships []Membership `gorm:"foreignKey:UserID" json:"memberships,omitempty"`
}

func (User) TableName() string {
	return "t_user"
}

// HighestRole returns the user's highest-privilege role over all memberships.
// A superuser short-circuits to RoleSuperUser; a user without memberships
// has no role and ok is false.
func (u *User) HighestRole() (role Role, ok bool) {
	if u.IsSuperuser {
		return RoleSuperUser, true
	}
	best := 0
	for _, m := range u.Memberships {
		if r := m.Role.Rank(); r > best {
			best = r
			role = m.Role
			ok = true
		}
	}
	return role, ok
}

// CreateUserReq is the payload for creating a managed user. Role and scope
// are validated structurally and against the acting user's permissions.
type CreateUserReq struct {
	Email           string  `json:"email"`
	Password        string  `json:"password"`
	ConfirmPassword string  `json:"confirm_password"`
	FirstName       string  `json:"first_name"`
	LastName        string  `json:"last_name"`
	Role            Role    `json:"role"`
	PropertyID      *uint64 `json:"property_id"`
	PropertyGroupID *uint64 `json:"property_group_id"`
}

// UpdateUserReq is the payload for updating a managed user. Nil fields are
// left unchanged; a non-nil Role triggers scope revalidation.
type UpdateUserReq struct {
	FirstName       *string `json:"first_name,omitempty"`
	LastName        *string `json:"last_name,omitempty"`
	Role            *Role   `json:"role,omitempty"`
	PropertyID      *uint64 `json:"property_id,omitempty"`
	PropertyGroupID *uint64 `json:"property_group_id,omitempty"`
}

// UserInfo is the public user shape returned by the API.
type UserInfo struct {
	ID        uint64 `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	IsActive  bool   `json:"is_active"`
}

// Login is the credential payload.
type Login struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenPair is the issued access/refresh token pair.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// UserStats aggregates user counts for the dashboard.
type UserStats struct {
	TotalUsers  int64 `json:"total_users"`
	ActiveUsers int64 `json:"active_users"`
	AdminUsers  int64 `json:"admin_users"`
	Tenants     int64 `json:"tenants"`
}

// RoleOption is a selectable role for frontend dropdowns.
type RoleOption struct {
	Value Role   `json:"value"`
	Label string `json:"label"`
}

// ManageableScopes lists the properties and groups the current user can
// manage, for frontend dropdowns.
type ManageableScopes struct {
	CanManageAll   bool               `json:"can_manage_all"`
	Properties     []PropertyRef      `json:"properties"`
	PropertyGroups []PropertyGroupRef `json:"property_groups"`
}
