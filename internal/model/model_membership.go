package model

import "errors"

// Role is the membership role within a property or property group.
// super_user is not a membership role: it is a User attribute that outranks
// every membership and is never stored in a membership row.
type Role string

const (
	RoleTenant        Role = "tenant"
	RolePropertyAdmin Role = "property_admin"
	RoleGroupAdmin    Role = "group_admin"
	RoleSuperUser     Role = "super_user"
)

// roleRanks orders roles by privilege. Higher wins when a user holds
// several memberships.
var roleRanks = map[Role]int{
	RoleTenant:        1,
	RolePropertyAdmin: 2,
	RoleGroupAdmin:    3,
	RoleSuperUser:     4,
}

// Rank returns the numeric privilege rank of the role, 0 for unknown roles.
func (r Role) Rank() int {
	return roleRanks[r]
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return roleRanks[r] > 0
}

// IsMembershipRole reports whether r may appear on a membership row.
func (r Role) IsMembershipRole() bool {
	return r == RoleTenant || r == RolePropertyAdmin || r == RoleGroupAdmin
}

// Label returns the human-readable role label.
func (r Role) Label() string {
	switch r {
	case RoleTenant:
		return "Tenant"
	case RolePropertyAdmin:
		return "Property Admin"
	case RoleGroupAdmin:
		return "Property Group Admin"
	case RoleSuperUser:
		return "Super User"
	}
	return string(r)
}

var (
	ErrMembershipNoScope   = errors.New("a membership must be linked to either a property or a property group")
	ErrMembershipBothScope = errors.New("a membership cannot be linked to both a property and a property group")
)

// Membership associates a user with exactly one scope (property or property
// group) and one role. At most one membership may exist per
// (user, property, property_group) triple.
type Membership struct {
	BaseModel
	UserID          uint64         `gorm:"column:user_id;not null;index;uniqueIndex:uq_user_scope" json:"userId"`
	PropertyID      *uint64        `gorm:"column:property_id;uniqueIndex:uq_user_scope" json:"propertyId"`
	PropertyGroupID *uint64        `gorm:"column:property_group_id;uniqueIndex:uq_user_scope" json:"propertyGroupId"`
	Role            Role           `gorm:"column:role;not null;default:tenant" json:"role"`
	Property        *Property      `gorm:"foreignKey:PropertyID" json:"property,omitempty"`
	PropertyGroup   *PropertyGroup `gorm:"foreignKey:PropertyGroupID" json:"propertyGroup,omitempty"`
}

func (Membership) TableName() string {
	return "t_membership"
}

// Validate enforces the scope XOR invariant: exactly one of property or
// property group must be set.
func (m *Membership) Validate() error {
	if m.PropertyID == nil && m.PropertyGroupID == nil {
		return ErrMembershipNoScope
	}
	if m.PropertyID != nil && m.PropertyGroupID != nil {
		return ErrMembershipBothScope
	}
	return nil
}
