package model

// MembershipClaim renders one membership inside the SSO token. A property
// membership nests the property's own group when present; a group
// membership carries only the group fields.
type MembershipClaim struct {
	Role              Role    `json:"role"`
	Scope             string  `json:"scope,omitempty"` // "global" for superusers
	PropertyID        *uint64 `json:"property_id,omitempty"`
	PropertyName      string  `json:"property_name,omitempty"`
	PropertyGroupID   *uint64 `json:"property_group_id,omitempty"`
	PropertyGroupName string  `json:"property_group_name,omitempty"`
}

// TokenClaims is the self-contained claim set embedded in SSO tokens and
// returned by the introspection endpoint. A remote verifier can evaluate
// permissions from it without calling back into this service.
type TokenClaims struct {
	UserID    uint64 `json:"user_id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`

	IsSuperuser bool `json:"is_superuser"`
	IsStaff     bool `json:"is_staff"`
	IsActive    bool `json:"is_active"`

	Role        *Role             `json:"role"`
	Memberships []MembershipClaim `json:"memberships"`

	AppID   *uint64 `json:"app_id,omitempty"`
	AppName string  `json:"app_name,omitempty"`
	AppSlug string  `json:"app_slug,omitempty"`
}
